package io

import (
	"io"
)

// Image is a raw code stream as stored on disk: records back to back,
// with no header or length prefix.
type Image struct {
	Data []byte
}

// Unmarshal loads image data from a reader, replacing any existing data.
func (img *Image) Unmarshal(file io.Reader) (err error) {
	data, err := io.ReadAll(file)
	if err != nil {
		return
	}

	img.Data = data

	return
}

// Marshal writes the image's data to a writer.
func (img *Image) Marshal(file io.Writer) (err error) {
	_, err = file.Write(img.Data)

	return
}
