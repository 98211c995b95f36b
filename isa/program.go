package isa

import (
	"fmt"
	"io"
	"iter"
	"strings"
)

// Opcode is a line of assembled code with its source location.
type Opcode struct {
	LineNo      int      // Source line, or 0 when disassembled.
	Offset      int      // Byte offset of the record in the binary.
	Words       []string // Source words.
	Instruction Instruction
}

// Program is an ordered list of assembled instructions.
type Program struct {
	Opcodes []Opcode
}

type Debug struct {
	*Opcode
}

// Debug finds the opcode whose record contains the byte offset.
func (prog *Program) Debug(offset int) (dbg Debug) {
	for n, op := range prog.Opcodes {
		size := layouts[op.Instruction.Op()].Len()
		if offset >= op.Offset && offset < op.Offset+size {
			dbg = Debug{Opcode: &prog.Opcodes[n]}
			break
		}
	}

	return
}

// Binary returns the code stream for the program.
func (prog *Program) Binary() (code []byte) {
	for _, ins := range prog.Instructions() {
		code = Append(code, ins)
	}

	return
}

// Instructions iterates over the byte offsets and instructions.
func (prog *Program) Instructions() iter.Seq2[int, Instruction] {
	return func(yield func(offset int, ins Instruction) bool) {
		for _, op := range prog.Opcodes {
			if !yield(op.Offset, op.Instruction) {
				return
			}
		}
	}
}

// WriteListing writes the intermediate representation, one instruction
// per line, as "index: text (A=.., B=..)".
func (prog *Program) WriteListing(w io.Writer) (err error) {
	for n, op := range prog.Opcodes {
		_, err = fmt.Fprintf(w, "%d: %v (%v)\n", n, op.Instruction, Fields(op.Instruction))
		if err != nil {
			return
		}
	}

	return
}

// Disassemble rebuilds a program from a code stream. On a decode error
// the instructions decoded so far are returned along with the error.
func Disassemble(code []byte) (prog *Program, err error) {
	prog = &Program{}

	for offset := 0; offset < len(code); {
		var ins Instruction
		var size int
		ins, size, err = Decode(code, offset)
		if err != nil {
			return
		}
		prog.Opcodes = append(prog.Opcodes, Opcode{
			Offset:      offset,
			Words:       strings.Fields(ins.String()),
			Instruction: ins,
		})
		offset += size
	}

	return
}

