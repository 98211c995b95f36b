package io

import (
	"bytes"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func dumpLines(t *testing.T, dump *Dump, memory []uint32) []string {
	buff := &bytes.Buffer{}
	err := dump.Write(buff, memory)
	if err != nil {
		t.Fatal(err)
	}

	return strings.Split(strings.TrimSpace(buff.String()), "\n")
}

func TestDump_Write(t *testing.T) {
	assert := assert.New(t)

	memory := make([]uint32, 64)
	memory[33] = 523
	memory[34] = 0xffffffff

	lines := dumpLines(t, &Dump{Start: 32, End: 34}, memory)
	assert.Equal([]string{
		"address,value",
		"32,0",
		"33,523",
		"34,4294967295",
	}, lines)
}

func TestDump_Clamp(t *testing.T) {
	assert := assert.New(t)

	memory := make([]uint32, 4)
	memory[3] = 7

	lines := dumpLines(t, &Dump{Start: 2, End: 100}, memory)
	assert.Equal([]string{
		"address,value",
		"2,0",
		"3,7",
	}, lines)
}

func TestDump_Frame(t *testing.T) {
	assert := assert.New(t)

	memory := make([]uint32, 16)
	memory[5] = 9

	df, err := (&Dump{Start: 4, End: 6}).Frame(memory)
	assert.NoError(err)
	assert.Equal(3, df.NRows())
	assert.Equal([]string{DUMP_ADDRESS, DUMP_VALUE}, df.Names())
	assert.Equal(int64(9), df.Series[1].Value(1))
}

func TestDump_Range(t *testing.T) {
	assert := assert.New(t)

	memory := make([]uint32, 4)

	for _, dump := range []Dump{
		{Start: -1, End: 2},
		{Start: 3, End: 2},
	} {
		err := dump.Write(&bytes.Buffer{}, memory)
		assert.ErrorIs(err, ErrDumpRange, "%+v", dump)
	}
}
