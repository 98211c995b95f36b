// Package isa implements the instruction set of the UVM virtual machine.
//
// The machine knows four instructions (load, read, write and shr). Each is
// packed into a short little-endian record whose low 7 bits select the
// opcode. The layout of every record is described once, in the field layout
// table, and both Encode and Decode are driven from it.
//
// The assembler turns line oriented source text into a Program, supporting
// comments, equates, and compile-time expressions.
package isa
