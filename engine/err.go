package engine

import (
	"github.com/ezrec/uvm/translate"
)

var f = translate.From

// ErrHalt indicates the code offset at which the engine halted.
type ErrHalt struct {
	Offset int
	Err    error
}

func (err *ErrHalt) Error() string {
	return f("halted at offset %d: %v", err.Offset, err.Err)
}

func (err *ErrHalt) Unwrap() error {
	return err.Err
}
