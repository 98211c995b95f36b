// Copyright 2025, Jason S. McMullan <jason.mcmullan@gmail.com>

package isa

// pack places values into an accumulator, one field after another,
// starting at bit 0. Values wider than their field are truncated.
func pack(layout *Layout, values []uint32) (acc uint64) {
	var pos uint
	for n, field := range layout.Fields {
		mask := uint64(1)<<field.Width - 1
		acc |= (uint64(values[n]) & mask) << pos
		pos += field.Width
	}
	return
}

// unpack is the inverse of pack.
func unpack(layout *Layout, acc uint64) (values []uint32) {
	values = make([]uint32, len(layout.Fields))
	var pos uint
	for n, field := range layout.Fields {
		mask := uint64(1)<<field.Width - 1
		values[n] = uint32((acc >> pos) & mask)
		pos += field.Width
	}
	return
}

// Append encodes an instruction and appends its record to code.
//
// Operands are not range checked; out of range values are silently
// truncated to their field width.
func Append(code []byte, ins Instruction) []byte {
	layout := layouts[ins.Op()]

	values := append([]uint32{uint32(ins.Op())}, ins.operands()...)
	acc := pack(layout, values)

	for range layout.Len() {
		code = append(code, byte(acc))
		acc >>= 8
	}

	return code
}

// Encode returns the record of a single instruction.
func Encode(ins Instruction) []byte {
	return Append(nil, ins)
}

// Decode decodes the record at offset in code, returning the instruction
// and the record length. Errors are of type *ErrDecode.
func Decode(code []byte, offset int) (ins Instruction, size int, err error) {
	if offset < 0 || offset >= len(code) {
		err = &ErrDecode{Offset: offset, Err: ErrTruncated}
		return
	}

	op := Op(code[offset] & OP_MASK)
	layout, err := Lookup(op)
	if err != nil {
		err = &ErrDecode{Offset: offset, Opcode: op, Err: err}
		return
	}

	size = layout.Len()
	if len(code)-offset < size {
		err = &ErrDecode{Offset: offset, Opcode: op, Err: ErrTruncated}
		size = 0
		return
	}

	var acc uint64
	for n := size - 1; n >= 0; n-- {
		acc = (acc << 8) | uint64(code[offset+n])
	}

	values := unpack(layout, acc)
	ins = makeInstruction(op, values[1:])

	return
}
