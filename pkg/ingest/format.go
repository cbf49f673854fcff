package ingest

import (
	"context"
	"path/filepath"
	"sort"
	"strings"

	"github.com/tablens/tablens/pkg/frame"
)

// Format identifies the loader family for a source file. The set is
// closed: dispatch goes through the loaders table and nowhere else.
type Format uint8

const (
	FormatUnknown Format = iota
	FormatDelimited
	FormatSpreadsheet
	FormatRecords
	FormatColumnar
)

var formatNames = []string{"unknown", "delimited", "spreadsheet", "records", "columnar"}

// String returns the format name.
func (f Format) String() string {
	if int(f) < len(formatNames) {
		return formatNames[f]
	}
	return "unknown"
}

var formatByExt = map[string]Format{
	".csv":     FormatDelimited,
	".txt":     FormatDelimited,
	".xlsx":    FormatSpreadsheet,
	".xls":     FormatSpreadsheet,
	".json":    FormatRecords,
	".parquet": FormatColumnar,
}

// FormatForPath maps a path to its format by extension, case-insensitively.
// Unrecognized extensions map to FormatUnknown.
func FormatForPath(path string) Format {
	return formatByExt[strings.ToLower(filepath.Ext(path))]
}

// Extensions returns the recognized extensions, sorted.
func Extensions() []string {
	exts := make([]string, 0, len(formatByExt))
	for ext := range formatByExt {
		exts = append(exts, ext)
	}
	sort.Strings(exts)
	return exts
}

// loaderFunc loads the source into a frame, returning the number of rows
// it had to skip.
type loaderFunc func(*Engine, context.Context) (*frame.Frame, int, error)

// loaders binds each format to its loader. Supporting a new format means
// adding exactly one entry here.
var loaders = map[Format]loaderFunc{
	FormatDelimited:   (*Engine).loadDelimited,
	FormatSpreadsheet: (*Engine).loadSpreadsheet,
	FormatRecords:     (*Engine).loadRecords,
	FormatColumnar:    (*Engine).loadColumnar,
}
