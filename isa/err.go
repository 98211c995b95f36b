package isa

import (
	"errors"

	"github.com/ezrec/uvm/translate"
)

var f = translate.From

var (
	// Decode errors
	ErrOpcodeUnknown = errors.New(f("opcode unknown"))
	ErrTruncated     = errors.New(f("record truncated"))

	// Assembler errors
	ErrEquateSyntax    = errors.New(f(".equ syntax"))
	ErrEquateDuplicate = errors.New(f(".equ duplicated"))
	ErrOpcodeInvalid   = errors.New(f("opcode invalid"))
)

// ErrDecode reports a record that could not be decoded.
type ErrDecode struct {
	Offset int // Byte offset of the record in the code stream.
	Opcode Op  // Opcode selector found at Offset, if any.
	Err    error
}

func (err *ErrDecode) Error() string {
	return f("offset %d opcode %d %v", err.Offset, uint8(err.Opcode), err.Err)
}

func (err *ErrDecode) Unwrap() error {
	return err.Err
}

// ErrOpcodeArgs reports an argument count mismatch.
type ErrOpcodeArgs struct {
	Op       Op
	Expected int
	Actual   int
}

func (err ErrOpcodeArgs) Error() string {
	return f("%v expects %d arguments, got %d", err.Op, err.Expected, err.Actual)
}

// ErrOperandRange reports an operand outside of its field.
type ErrOperandRange struct {
	Name  string
	Value int64
	Max   int64
}

func (err ErrOperandRange) Error() string {
	return f("%v %d out of range 0..%d", err.Name, err.Value, err.Max)
}

type ErrSyntax struct {
	LineNo int
	Line   string
	Err    error
}

func (err ErrSyntax) Error() string {
	return f("line %d '%v' %v", err.LineNo, err.Line, err.Err)
}

func (err ErrSyntax) Unwrap() error {
	return err.Err
}

type ErrParseNumber string

func (err ErrParseNumber) Error() string {
	return f("'%v' is not a number", string(err))
}

type ErrParseExpression string

func (err ErrParseExpression) Error() string {
	return f("$(%v) is not a valid expression", string(err))
}
