// Copyright 2025, Jason S. McMullan <jason.mcmullan@gmail.com>

// Package engine executes UVM code streams.
package engine

import (
	"fmt"
	"log"

	"github.com/ezrec/uvm/isa"
)

const (
	REGISTER_COUNT = isa.REG_COUNT // Register file size.
	MEMORY_SIZE    = 65536         // Data memory size, in words.
	WORD_BITS      = 32            // Width of registers and memory cells.
)

// State is the run state of an engine.
// STATE_READY has more code to execute, STATE_COMPLETED ran off the end
// of the code stream, and STATE_HALTED stopped on a decode failure.
type State int

//go:generate go tool stringer -linecomment -type=State
const (
	STATE_READY     = State(0) // ready
	STATE_COMPLETED = State(1) // completed
	STATE_HALTED    = State(2) // halted
)

// Engine is the execution context of the virtual machine.
type Engine struct {
	Verbose bool // Set to enable verbose logging.

	Register [REGISTER_COUNT]uint32 // Register file.
	Memory   [MEMORY_SIZE]uint32    // Data memory.
	Pc       int                    // Byte offset of the next record.
	Count    int                    // Instructions executed.

	Code  []byte // Code stream, never modified.
	State State  // Current run state.
	Err   error  // Halt reason, when State is STATE_HALTED.
}

// NewEngine creates an engine for a code stream, with zeroed registers
// and memory.
func NewEngine(code []byte) (eng *Engine) {
	eng = &Engine{
		Code: code,
	}

	return
}

// Reset the engine state.
// - Clears the registers and memory.
// - Rewinds the program counter.
// - Zeros the instruction counter.
func (eng *Engine) Reset() {
	if eng.Verbose {
		log.Printf("engine: reset")
	}

	clear(eng.Register[:])
	clear(eng.Memory[:])
	eng.Pc = 0
	eng.Count = 0
	eng.State = STATE_READY
	eng.Err = nil
}

// String returns the register file as a string.
func (eng *Engine) String() (text string) {
	text = fmt.Sprintf("%5s: %v\n", "state", eng.State)
	text += fmt.Sprintf("%5s: %d\n", "pc", eng.Pc)
	text += fmt.Sprintf("%5s: %d\n", "count", eng.Count)
	for n, val := range eng.Register {
		text += fmt.Sprintf("%5s: %04X_%04X (%d)\n", fmt.Sprintf("r%d", n), val>>16, val&0xffff, val)
	}

	return
}

// Step executes a single instruction.
// done is set when the engine has completed or halted; err is set only
// on the step that halts.
func (eng *Engine) Step() (done bool, err error) {
	if eng.State != STATE_READY {
		done = true
		return
	}

	if eng.Pc >= len(eng.Code) {
		eng.State = STATE_COMPLETED
		done = true
		return
	}

	ins, size, err := isa.Decode(eng.Code, eng.Pc)
	if err != nil {
		if eng.Verbose {
			log.Printf("%04x: %v", eng.Pc, err)
		}
		err = &ErrHalt{Offset: eng.Pc, Err: err}
		eng.State = STATE_HALTED
		eng.Err = err
		done = true
		return
	}

	if eng.Verbose {
		log.Printf("%04x: %v", eng.Pc, ins)
	}

	eng.Pc += size
	eng.Execute(ins)
	eng.Count++

	return
}

// Run steps the engine until it completes or halts.
// A halted engine always reports its halt reason.
func (eng *Engine) Run() (state State, err error) {
	for done := false; !done; {
		done, err = eng.Step()
	}

	if eng.State == STATE_HALTED {
		err = eng.Err
	}

	if eng.Verbose {
		log.Printf("engine: %v after %d instructions", eng.State, eng.Count)
	}

	state = eng.State
	return
}

// Execute applies the semantics of a single instruction.
// Memory accesses outside of data memory are silently ignored.
func (eng *Engine) Execute(ins isa.Instruction) {
	switch ins := ins.(type) {
	case isa.Load:
		eng.Register[ins.Reg] = uint32(ins.Const)
		if eng.Verbose {
			log.Printf("  r%d = %d", ins.Reg, ins.Const)
		}
	case isa.Read:
		addr := uint64(eng.Register[ins.Src])
		if addr < MEMORY_SIZE {
			eng.Register[ins.Dst] = eng.Memory[addr]
			if eng.Verbose {
				log.Printf("  r%d = mem[%d] = %d", ins.Dst, addr, eng.Register[ins.Dst])
			}
		} else if eng.Verbose {
			log.Printf("  mem[%d] out of range, ignored", addr)
		}
	case isa.Write:
		addr := uint64(eng.Register[ins.Dst]) + uint64(ins.Offset)
		if addr < MEMORY_SIZE {
			eng.Memory[addr] = eng.Register[ins.Src]
			if eng.Verbose {
				log.Printf("  mem[%d] = r%d = %d", addr, ins.Src, eng.Memory[addr])
			}
		} else if eng.Verbose {
			log.Printf("  mem[%d] out of range, ignored", addr)
		}
	case isa.Shr:
		shift := eng.Register[ins.Src]
		prior := eng.Register[ins.Dst]
		var output uint32
		if shift < WORD_BITS {
			output = prior >> shift
		}
		eng.Register[ins.Dst] = output
		if eng.Verbose {
			log.Printf("  r%d = %d >> %d = %d", ins.Dst, prior, shift, output)
		}
	default:
		panic("unknown instruction")
	}
}
