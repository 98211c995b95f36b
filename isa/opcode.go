// Copyright 2025, Jason S. McMullan <jason.mcmullan@gmail.com>

package isa

import (
	"fmt"
	"strings"
)

// Op is the 7-bit opcode selector (field A) of an instruction record.
type Op uint8

//go:generate go tool stringer -linecomment -type=Op
const (
	OP_SHR   = Op(0)  // shr
	OP_READ  = Op(43) // read
	OP_WRITE = Op(64) // write
	OP_LOAD  = Op(90) // load
)

// OP_MASK masks the opcode bits in the first record byte.
const OP_MASK = 0x7f

// Reg is a register selector, r0 through r7.
type Reg uint8

const (
	REG_COUNT = 8 // Number of addressable registers.

	CONST_MAX  = (1 << 14) - 1 // Largest load constant.
	OFFSET_MAX = (1 << 6) - 1  // Largest write offset.
	REG_MAX    = REG_COUNT - 1 // Largest register selector.
)

// Instruction is one of Load, Read, Write or Shr.
type Instruction interface {
	// Op returns the opcode selector of the instruction.
	Op() Op
	// String returns the assembly text of the instruction.
	String() string

	operands() []uint32
}

// Load sets register Reg to Const.
type Load struct {
	Const uint16
	Reg   Reg
}

// Read loads the memory cell addressed by register Src into register Dst.
type Read struct {
	Src Reg
	Dst Reg
}

// Write stores register Src at the address in register Dst plus Offset.
type Write struct {
	Src    Reg
	Offset uint8
	Dst    Reg
}

// Shr shifts register Dst right by the value of register Src.
type Shr struct {
	Src Reg
	Dst Reg
}

var (
	_ Instruction = Load{}
	_ Instruction = Read{}
	_ Instruction = Write{}
	_ Instruction = Shr{}
)

func (Load) Op() Op  { return OP_LOAD }
func (Read) Op() Op  { return OP_READ }
func (Write) Op() Op { return OP_WRITE }
func (Shr) Op() Op   { return OP_SHR }

func (ins Load) operands() []uint32 {
	return []uint32{uint32(ins.Const), uint32(ins.Reg)}
}

func (ins Read) operands() []uint32 {
	return []uint32{uint32(ins.Src), uint32(ins.Dst)}
}

func (ins Write) operands() []uint32 {
	return []uint32{uint32(ins.Src), uint32(ins.Offset), uint32(ins.Dst)}
}

func (ins Shr) operands() []uint32 {
	return []uint32{uint32(ins.Src), uint32(ins.Dst)}
}

func (ins Load) String() string {
	return fmt.Sprintf("load %d %d", ins.Const, ins.Reg)
}

func (ins Read) String() string {
	return fmt.Sprintf("read %d %d", ins.Src, ins.Dst)
}

func (ins Write) String() string {
	return fmt.Sprintf("write %d %d %d", ins.Src, ins.Offset, ins.Dst)
}

func (ins Shr) String() string {
	return fmt.Sprintf("shr %d %d", ins.Src, ins.Dst)
}

// makeInstruction builds the instruction for op from its operand values,
// given in layout order (opcode field excluded).
func makeInstruction(op Op, values []uint32) (ins Instruction) {
	switch op {
	case OP_LOAD:
		ins = Load{Const: uint16(values[0]), Reg: Reg(values[1])}
	case OP_READ:
		ins = Read{Src: Reg(values[0]), Dst: Reg(values[1])}
	case OP_WRITE:
		ins = Write{Src: Reg(values[0]), Offset: uint8(values[1]), Dst: Reg(values[2])}
	case OP_SHR:
		ins = Shr{Src: Reg(values[0]), Dst: Reg(values[1])}
	default:
		panic("unknown op")
	}

	return
}

// Fields returns the lettered field view of an instruction, as
// "A=90, B=523, C=7". Field A is always the opcode.
func Fields(ins Instruction) string {
	values := append([]uint32{uint32(ins.Op())}, ins.operands()...)

	parts := make([]string, len(values))
	for n, value := range values {
		parts[n] = fmt.Sprintf("%c=%d", 'A'+n, value)
	}

	return strings.Join(parts, ", ")
}
