package io

import (
	"context"
	"io"

	dataframe "github.com/rocketlaunchr/dataframe-go"
	"github.com/rocketlaunchr/dataframe-go/exports"
)

const (
	DUMP_ADDRESS = "address" // Address column name.
	DUMP_VALUE   = "value"   // Value column name.
)

// Dump selects an inclusive range of data memory to export.
type Dump struct {
	Start int
	End   int
}

// Frame builds a two column data frame of the selected memory cells.
// The end of the range is clamped to the size of memory.
func (dump *Dump) Frame(memory []uint32) (df *dataframe.DataFrame, err error) {
	if dump.Start < 0 || dump.End < dump.Start {
		err = ErrDumpRange
		return
	}

	end := min(dump.End+1, len(memory))

	var addrs, values []interface{}
	for addr := dump.Start; addr < end; addr++ {
		addrs = append(addrs, int64(addr))
		values = append(values, int64(memory[addr]))
	}

	df = dataframe.NewDataFrame(
		dataframe.NewSeriesInt64(DUMP_ADDRESS, nil, addrs...),
		dataframe.NewSeriesInt64(DUMP_VALUE, nil, values...),
	)

	return
}

// Write exports the selected memory cells as CSV, with a header row.
func (dump *Dump) Write(w io.Writer, memory []uint32) (err error) {
	df, err := dump.Frame(memory)
	if err != nil {
		return
	}

	err = exports.ExportToCSV(context.Background(), w, df)

	return
}
