// Package io provides the storage collaborators of the UVM tools:
// raw code images (Image) and CSV exports of data memory (Dump).
package io
