// Copyright 2025, Jason S. McMullan <jason.mcmullan@gmail.com>

package isa

import (
	"bufio"
	"fmt"
	"io"
	"log"
	"maps"
	"regexp"
	"slices"
	"strconv"
	"strings"

	"go.starlark.net/starlark"
	"go.starlark.net/syntax"
)

// Predefined system equates
var sysEquate = map[string]string{
	"LINENO":     "0",
	"CONST_MAX":  fmt.Sprintf("%d", CONST_MAX),
	"OFFSET_MAX": fmt.Sprintf("%d", OFFSET_MAX),
	"REG_MAX":    fmt.Sprintf("%d", REG_MAX),
}

// opMap maps mnemonics to opcodes.
var opMap = map[string]Op{
	"load":  OP_LOAD,
	"read":  OP_READ,
	"write": OP_WRITE,
	"shr":   OP_SHR,
}

// Assembler is a single pass assembler for the UVM instruction set.
type Assembler struct {
	Verbose bool     // If set, verbosely logs the assembler actions.
	Opcode  []Opcode // List of generated opcodes.

	predefine map[string]string // Predefines
	Equate    map[string]string // Map of equates.
}

// Predefine defines a new equate or redefines an existing equate.
func (asm *Assembler) Predefine(equ string, value string) {
	if asm.predefine == nil {
		asm.predefine = map[string]string{equ: value}
	} else {
		asm.predefine[equ] = value
	}
}

// valueOf returns the value of a simple word.
// Numbers are decimal, even with leading zeros, unless they carry an
// explicit 0x, 0b or 0o prefix.
func (asm *Assembler) valueOf(word string) (value int64, err error) {
	base := 10
	digits := strings.TrimLeft(word, "+-")
	if len(digits) > 1 && digits[0] == '0' && strings.ContainsRune("xXbBoO", rune(digits[1])) {
		base = 0
	}

	value, err = strconv.ParseInt(word, base, 64)
	if err != nil {
		err = ErrParseNumber(word)
		return
	}

	return
}

// parenEval does compile-time $(...) evaluations
func (asm *Assembler) parenEval(expr string) (value int64, err error) {
	thread := starlark.Thread{}
	opts := syntax.FileOptions{}
	pred := starlark.StringDict{}
	for key, str := range asm.Equate {
		var v64 int64
		v64, err = asm.valueOf(str)
		if err != nil {
			// Non-integer equates are not visible to expressions.
			err = nil
			continue
		}
		pred[key] = starlark.MakeInt64(v64)
	}
	prog := "rc=" + expr + "\n"
	dict, err := starlark.ExecFileOptions(&opts, &thread, "expr", prog, pred)
	if err != nil {
		err = ErrParseExpression(expr)
		return
	}
	st_int, ok := dict["rc"].(starlark.Int)
	if !ok {
		err = ErrParseExpression(expr)
		return
	}
	value, ok = st_int.Int64()
	if !ok {
		err = ErrParseExpression(expr)
		return
	}
	return
}

var reParen = regexp.MustCompile(`\$\([^\$]*\)`)

// parseLine expands a single line into words.
func (asm *Assembler) parseLine(line string, lineno int) (words []string, err error) {
	asm.Equate["LINENO"] = fmt.Sprintf("%v", lineno)

	// Do $() evaluations
	line = reParen.ReplaceAllStringFunc(line, func(str string) string {
		value, _err := asm.parenEval(str[2 : len(str)-1])
		if _err != nil && err == nil {
			err = _err
		}
		return fmt.Sprintf("%d", value)
	})
	if err != nil {
		return
	}

	words = strings.Fields(line)
	if len(words) == 0 {
		return
	}

	// .equ CONST VALUE
	if words[0] == ".equ" {
		if len(words) != 3 {
			err = ErrEquateSyntax
			return
		}
		_, ok := asm.Equate[words[1]]
		if ok {
			err = ErrEquateDuplicate
			return
		}
		asm.Equate[words[1]] = words[2]
		words = words[:0]
		return
	}

	for n, word := range words[1:] {
		equate, ok := asm.Equate[word]
		if ok {
			words[1+n] = equate
		}
	}

	return
}

// operand parses a single operand and checks it against its field width.
func (asm *Assembler) operand(field Field, word string) (value uint32, err error) {
	v64, err := asm.valueOf(word)
	if err != nil {
		return
	}

	limit := int64(1)<<field.Width - 1
	if v64 < 0 || v64 > limit {
		err = ErrOperandRange{Name: field.Name, Value: v64, Max: limit}
		return
	}

	value = uint32(v64)
	return
}

// parseWords converts an expanded line into an instruction.
func (asm *Assembler) parseWords(words []string, lineno int) (err error) {
	if len(words) == 0 {
		return
	}

	op, ok := opMap[strings.ToLower(words[0])]
	if !ok {
		err = ErrOpcodeInvalid
		return
	}

	layout := layouts[op]
	args := words[1:]
	fields := layout.Operands()
	if len(args) != len(fields) {
		err = ErrOpcodeArgs{Op: op, Expected: len(fields), Actual: len(args)}
		return
	}

	values := make([]uint32, len(fields))
	for n, field := range fields {
		values[n], err = asm.operand(field, args[n])
		if err != nil {
			return
		}
	}

	ins := makeInstruction(op, values)
	if asm.Verbose {
		log.Printf("%v: %v (%v)", lineno, ins, Fields(ins))
	}

	asm.Opcode = append(asm.Opcode, Opcode{
		LineNo:      lineno,
		Offset:      asm.currentOffset(),
		Words:       slices.Clone(words),
		Instruction: ins,
	})

	return
}

// currentOffset gets the byte offset of the next record.
func (asm *Assembler) currentOffset() int {
	if len(asm.Opcode) == 0 {
		return 0
	}

	last := asm.Opcode[len(asm.Opcode)-1]

	return last.Offset + layouts[last.Instruction.Op()].Len()
}

// Parse parses an input stream into a Program.
func (asm *Assembler) Parse(input io.Reader) (prog *Program, err error) {
	scanner := bufio.NewScanner(input)

	var line string
	var lineno int

	defer func() {
		if err != nil {
			err = &ErrSyntax{LineNo: lineno, Line: line, Err: err}
		}
	}()

	asm.Opcode = asm.Opcode[:0]
	asm.Equate = maps.Clone(sysEquate)
	for attr, val := range asm.predefine {
		asm.Equate[attr] = val
	}

	for scanner.Scan() {
		text := scanner.Text()
		lineno += 1

		if asm.Verbose {
			log.Printf("%v: %v\n", lineno, text)
		}

		text_comment := strings.Split(text, ";")
		line = strings.TrimSpace(text_comment[0])

		var words []string
		words, err = asm.parseLine(line, lineno)
		if err != nil {
			return
		}

		err = asm.parseWords(words, lineno)
		if err != nil {
			return
		}
	}

	err = scanner.Err()
	if err != nil {
		return
	}

	prog = &Program{
		Opcodes: slices.Clone(asm.Opcode),
	}

	return
}
