package engine

import (
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/ezrec/uvm/isa"
)

func TestEngine(t *testing.T) {
	assert := assert.New(t)

	eng := NewEngine(nil)

	assert.False(eng.Verbose)
	assert.Equal(STATE_READY, eng.State)
	assert.Equal(MEMORY_SIZE, len(eng.Memory))
	assert.Equal(REGISTER_COUNT, len(eng.Register))

	state, err := eng.Run()
	assert.NoError(err)
	assert.Equal(STATE_COMPLETED, state)
	assert.Equal(0, eng.Count)
}

func assemble(t *testing.T, program ...string) []byte {
	asm := &isa.Assembler{}
	prog, err := asm.Parse(strings.NewReader(strings.Join(program, "\n")))
	if err != nil {
		t.Fatal(err)
	}

	return prog.Binary()
}

func TestEngineSample(t *testing.T) {
	assert := assert.New(t)

	code := assemble(t,
		"load 523 7",
		"read 2 6",
		"write 1 33 2",
		"shr 2 2",
	)

	eng := NewEngine(code)

	state, err := eng.Run()
	assert.NoError(err)
	assert.Equal(STATE_COMPLETED, state)
	assert.Equal(4, eng.Count)
	assert.Equal(len(code), eng.Pc)
	assert.Equal(uint32(523), eng.Register[7])
	assert.Equal([REGISTER_COUNT]uint32{0, 0, 0, 0, 0, 0, 0, 523}, eng.Register)
}

func TestEngineStep(t *testing.T) {
	assert := assert.New(t)

	code := assemble(t,
		"load 100 1",
		"load 42 2",
		"write 2 5 1", // mem[105] = 42
		"load 105 3",
		"read 3 4", // r4 = mem[105]
	)

	eng := NewEngine(code)

	pcs := []int{3, 6, 9, 12, 14}
	for n, pc := range pcs {
		done, err := eng.Step()
		assert.NoError(err)
		assert.False(done)
		assert.Equal(pc, eng.Pc)
		assert.Equal(n+1, eng.Count)
	}

	assert.Equal(uint32(42), eng.Memory[105])
	assert.Equal(uint32(42), eng.Register[4])

	done, err := eng.Step()
	assert.NoError(err)
	assert.True(done)
	assert.Equal(STATE_COMPLETED, eng.State)

	// Finished engines stay finished.
	done, err = eng.Step()
	assert.NoError(err)
	assert.True(done)
	assert.Equal(5, eng.Count)
}

func TestEngineLoad(t *testing.T) {
	assert := assert.New(t)

	eng := NewEngine(nil)
	eng.Execute(isa.Load{Const: isa.CONST_MAX, Reg: 0})
	assert.Equal(uint32(isa.CONST_MAX), eng.Register[0])
}

func TestEngineReadOutOfRange(t *testing.T) {
	assert := assert.New(t)

	for _, addr := range []uint32{MEMORY_SIZE, MEMORY_SIZE + 1, 0xffffffff} {
		eng := NewEngine(nil)
		eng.Register[0] = addr
		eng.Register[1] = 0xcafe
		memory := eng.Memory

		eng.Execute(isa.Read{Src: 0, Dst: 1})
		assert.Equal(uint32(0xcafe), eng.Register[1], "%#x", addr)
		assert.Equal(memory, eng.Memory, "%#x", addr)
	}

	eng := NewEngine(nil)
	eng.Register[0] = MEMORY_SIZE - 1
	eng.Memory[MEMORY_SIZE-1] = 0x1234
	eng.Execute(isa.Read{Src: 0, Dst: 1})
	assert.Equal(uint32(0x1234), eng.Register[1])
}

func TestEngineWriteOutOfRange(t *testing.T) {
	assert := assert.New(t)

	eng := NewEngine(nil)
	eng.Register[1] = 0xbeef

	// Last cell is writable.
	eng.Register[2] = MEMORY_SIZE - 64
	eng.Execute(isa.Write{Src: 1, Offset: 63, Dst: 2})
	assert.Equal(uint32(0xbeef), eng.Memory[MEMORY_SIZE-1])

	// One past is not.
	eng.Memory[MEMORY_SIZE-1] = 0
	eng.Register[2] = MEMORY_SIZE - 63
	eng.Execute(isa.Write{Src: 1, Offset: 63, Dst: 2})
	var zero [MEMORY_SIZE]uint32
	assert.Equal(zero, eng.Memory)

	// No 32-bit wrap around to low memory.
	eng.Register[2] = 0xffffffff
	eng.Execute(isa.Write{Src: 1, Offset: 1, Dst: 2})
	assert.Equal(zero, eng.Memory)
}

func TestEngineShr(t *testing.T) {
	assert := assert.New(t)

	table := [](struct {
		value  uint32
		shift  uint32
		output uint32
	}){
		{0x80000000, 0, 0x80000000},
		{0x80000000, 31, 1},
		{0x80000000, 32, 0},
		{0xffffffff, 33, 0},
		{0xffffffff, 0xffffffff, 0},
		{0xf0, 4, 0xf},
		{523, 1, 261},
	}

	for _, entry := range table {
		eng := NewEngine(nil)
		eng.Register[3] = entry.shift
		eng.Register[4] = entry.value
		eng.Execute(isa.Shr{Src: 3, Dst: 4})
		assert.Equal(entry.output, eng.Register[4], "%#x >> %d", entry.value, entry.shift)
	}

	// Shifting a register by itself uses the prior value.
	eng := NewEngine(nil)
	eng.Register[2] = 2
	eng.Execute(isa.Shr{Src: 2, Dst: 2})
	assert.Equal(uint32(0), eng.Register[2])
}

func TestEngineHaltTruncated(t *testing.T) {
	assert := assert.New(t)

	eng := NewEngine([]byte{0xDA})

	state, err := eng.Run()
	assert.Equal(STATE_HALTED, state)
	assert.True(errors.Is(err, isa.ErrTruncated))
	assert.Equal(0, eng.Count)
	assert.Equal(0, eng.Pc)

	var eh *ErrHalt
	if assert.True(errors.As(err, &eh)) {
		assert.Equal(0, eh.Offset)
	}
	assert.Equal(err, eng.Err)
}

func TestEngineHaltUnknown(t *testing.T) {
	assert := assert.New(t)

	code := append(isa.Encode(isa.Load{Const: 7, Reg: 1}), 0x01, 0x00, 0x00)
	code = append(code, isa.Encode(isa.Load{Const: 9, Reg: 2})...)

	eng := NewEngine(code)

	state, err := eng.Run()
	assert.Equal(STATE_HALTED, state)
	assert.True(errors.Is(err, isa.ErrOpcodeUnknown))
	assert.Equal(1, eng.Count)
	assert.Equal(uint32(7), eng.Register[1])
	assert.Equal(uint32(0), eng.Register[2])

	var eh *ErrHalt
	if assert.True(errors.As(err, &eh)) {
		assert.Equal(3, eh.Offset)
	}

	// Halted engines report done without a new error.
	done, err := eng.Step()
	assert.True(done)
	assert.NoError(err)
}

func TestEngineRunHalted(t *testing.T) {
	assert := assert.New(t)

	eng := NewEngine([]byte{0x01})

	state, first := eng.Run()
	assert.Equal(STATE_HALTED, state)
	assert.ErrorIs(first, isa.ErrOpcodeUnknown)

	// Running again keeps the halt reason.
	state, err := eng.Run()
	assert.Equal(STATE_HALTED, state)
	assert.Equal(first, err)
	assert.Equal(0, eng.Count)

	// Completed engines stay error free.
	eng = NewEngine(nil)
	_, err = eng.Run()
	assert.NoError(err)
	state, err = eng.Run()
	assert.Equal(STATE_COMPLETED, state)
	assert.NoError(err)
}

func TestEngineReset(t *testing.T) {
	assert := assert.New(t)

	eng := NewEngine([]byte{0xDA})
	eng.Register[3] = 1
	eng.Memory[3] = 1
	_, err := eng.Run()
	assert.Error(err)

	eng.Reset()
	assert.Equal(STATE_READY, eng.State)
	assert.NoError(eng.Err)
	assert.Equal(uint32(0), eng.Register[3])
	assert.Equal(uint32(0), eng.Memory[3])
	assert.Equal(0, eng.Pc)
	assert.Equal(0, eng.Count)
}

func TestEngineString(t *testing.T) {
	assert := assert.New(t)

	eng := NewEngine(nil)
	eng.Register[7] = 0x1234abcd

	text := eng.String()
	assert.Contains(text, "state: ready\n")
	assert.Contains(text, "   r7: 1234_ABCD")
	assert.Equal(3+REGISTER_COUNT, strings.Count(text, "\n"))
}

func TestState_String(t *testing.T) {
	assert := assert.New(t)

	assert.Equal("ready", STATE_READY.String())
	assert.Equal("completed", STATE_COMPLETED.String())
	assert.Equal("halted", STATE_HALTED.String())
	assert.Equal("State(9)", State(9).String())
}
