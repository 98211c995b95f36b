package isa

import (
	"iter"
	"slices"
)

const OP_BITS = 7 // Width of field A in every record.

// Field is a named bit field of an instruction record.
type Field struct {
	Name  string // Field name, as used in the assembler error messages.
	Width uint   // Width in bits.
}

// Layout describes the record of one opcode: its fields in packing order,
// least significant first. Fields[0] is always the opcode field A.
type Layout struct {
	Op     Op
	Fields []Field
}

// Bits returns the total width of all the fields.
func (layout *Layout) Bits() (bits uint) {
	for _, field := range layout.Fields {
		bits += field.Width
	}
	return
}

// Len returns the length of the record in bytes.
func (layout *Layout) Len() int {
	return int((layout.Bits() + 7) / 8)
}

// Operands returns the fields following the opcode field.
func (layout *Layout) Operands() []Field {
	return layout.Fields[1:]
}

var fieldOpcode = Field{"A", OP_BITS}

// layouts is the field layout table, indexed by opcode.
var layouts = map[Op]*Layout{
	OP_LOAD:  {OP_LOAD, []Field{fieldOpcode, {"const", 14}, {"reg", 3}}},
	OP_READ:  {OP_READ, []Field{fieldOpcode, {"src", 3}, {"dst", 3}}},
	OP_WRITE: {OP_WRITE, []Field{fieldOpcode, {"src", 3}, {"offset", 6}, {"dst", 3}}},
	OP_SHR:   {OP_SHR, []Field{fieldOpcode, {"src", 3}, {"dst", 3}}},
}

// Lookup returns the layout for an opcode, or ErrOpcodeUnknown.
func Lookup(op Op) (layout *Layout, err error) {
	layout, ok := layouts[op]
	if !ok {
		err = ErrOpcodeUnknown
		return
	}
	return
}

// Layouts returns all the layouts in ascending opcode order.
func Layouts() iter.Seq[*Layout] {
	return func(yield func(*Layout) bool) {
		ops := make([]Op, 0, len(layouts))
		for op := range layouts {
			ops = append(ops, op)
		}
		slices.Sort(ops)
		for _, op := range ops {
			if !yield(layouts[op]) {
				return
			}
		}
	}
}
