// Package export writes frames back to disk in any ingestible format,
// dispatched by output extension.
package export

import (
	"context"
	"os"
	"path/filepath"
	"strings"

	tlerrors "github.com/tablens/tablens/pkg/errors"
	"github.com/tablens/tablens/pkg/frame"
)

// Options tune the output.
type Options struct {
	// Delimiter for delimited text output. Comma when zero.
	Delimiter byte
	// Sheet names the worksheet for spreadsheet output. "Sheet1" when empty.
	Sheet string
	// OnRows, when set, receives the running row count as batches flush.
	OnRows func(written int)
}

func (o Options) delimiter() rune {
	if o.Delimiter == 0 {
		return ','
	}
	return rune(o.Delimiter)
}

func (o Options) sheet() string {
	if o.Sheet == "" {
		return "Sheet1"
	}
	return o.Sheet
}

func (o Options) progress(n int) {
	if o.OnRows != nil {
		o.OnRows(n)
	}
}

// Write stores the frame at path in the format its extension names.
func Write(ctx context.Context, fr *frame.Frame, path string, opts Options) error {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".csv", ".txt":
		return writeThrough(path, func(f *os.File) error {
			return WriteCSV(ctx, fr, f, opts)
		})
	case ".json":
		return writeThrough(path, func(f *os.File) error {
			return WriteJSON(ctx, fr, f, opts)
		})
	case ".xlsx":
		return WriteXLSX(ctx, fr, path, opts)
	case ".parquet":
		return WriteParquet(ctx, fr, path, opts)
	default:
		return tlerrors.UnsupportedFormat(filepath.Ext(path))
	}
}

func writeThrough(path string, fn func(*os.File) error) error {
	f, err := os.Create(path)
	if err != nil {
		return tlerrors.ExportFailed(path, err)
	}
	if err := fn(f); err != nil {
		f.Close()
		os.Remove(path)
		return tlerrors.ExportFailed(path, err)
	}
	if err := f.Close(); err != nil {
		return tlerrors.ExportFailed(path, err)
	}
	return nil
}
