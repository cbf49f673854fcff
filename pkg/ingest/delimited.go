package ingest

import (
	"bufio"
	"bytes"
	"context"
	"fmt"
	"io"
	"os"
	"strings"

	tlerrors "github.com/tablens/tablens/pkg/errors"
	"github.com/tablens/tablens/pkg/frame"
	"github.com/tablens/tablens/pkg/ingest/detect"
)

const quoteChar = '"'

// loadDelimited reads CSV and delimiter-separated text. Encoding and
// delimiter are detected up front and fixed for the whole load. Rows whose
// field count disagrees with the header are skipped and counted; the count
// accumulates in a local so a loader invocation never observes another's
// progress.
func (e *Engine) loadDelimited(ctx context.Context) (*frame.Frame, int, error) {
	sample, err := readPrefix(e.src.Path, e.opts.SampleSize)
	if err != nil {
		return nil, 0, tlerrors.ParseFailure(FormatDelimited.String(), err).
			WithContext("path", e.src.Path)
	}

	enc := detect.Resolve(detect.DetectEncoding(sample))
	e.src.Encoding = enc
	e.meta.Encoding = enc.String()

	delim, err := e.detectDelimiter(enc)
	if err != nil {
		return nil, 0, err
	}
	e.src.Delimiter = delim
	e.meta.Delimiter = string(delim)

	f, err := os.Open(e.src.Path)
	if err != nil {
		return nil, 0, tlerrors.ParseFailure(FormatDelimited.String(), err).
			WithContext("path", e.src.Path)
	}
	defer f.Close()

	reader := bufio.NewReaderSize(detect.NewReader(f, enc), 256*1024)

	// A file whose single header line has no trailing newline arrives as
	// content plus io.EOF; that is a valid zero-row table.
	header, err := readLine(reader)
	headerEOF := err == io.EOF && len(header) > 0
	if err != nil && !headerEOF {
		return nil, 0, tlerrors.ParseFailure(FormatDelimited.String(), fmt.Errorf("no header line: %w", err)).
			WithContext("path", e.src.Path)
	}
	names := normalizeColumnNames(fieldsOf(header, delim))
	if len(names) == 0 {
		return nil, 0, tlerrors.ParseFailure(FormatDelimited.String(), fmt.Errorf("empty header")).
			WithContext("path", e.src.Path)
	}

	skipped := 0
	var rows [][]string

	for !headerEOF {
		select {
		case <-ctx.Done():
			return nil, 0, tlerrors.ContextCanceled("load delimited")
		default:
		}

		line, err := readLine(reader)
		if len(line) > 0 {
			if isBlank(line) {
				// Blank lines are not data rows and are not counted.
			} else {
				fields := fieldsOf(line, delim)
				if len(fields) != len(names) {
					skipped++
				} else {
					rows = append(rows, fields)
				}
			}
		}
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, 0, tlerrors.ParseFailure(FormatDelimited.String(), err).
				WithContext("path", e.src.Path)
		}
	}

	fr, err := buildFrame(names, rows, e.opts.TypeSample)
	if err != nil {
		return nil, 0, tlerrors.ParseFailure(FormatDelimited.String(), err)
	}
	return fr, skipped, nil
}

func (e *Engine) detectDelimiter(enc detect.Encoding) (byte, error) {
	f, err := os.Open(e.src.Path)
	if err != nil {
		return 0, tlerrors.ParseFailure(FormatDelimited.String(), err).
			WithContext("path", e.src.Path)
	}
	defer f.Close()

	lines := detect.SampleLines(detect.NewReader(f, enc), e.opts.LineSample)
	return detect.DetectDelimiter(lines), nil
}

// readLine reads one logical line, keeping newlines that fall inside a
// quoted field. Returns the line without its trailing newline.
func readLine(reader *bufio.Reader) ([]byte, error) {
	var line []byte
	inQuote := false

	for {
		part, err := reader.ReadBytes('\n')
		if len(part) > 0 {
			line = append(line, part...)

			for _, b := range part {
				if b == quoteChar {
					inQuote = !inQuote
				}
			}

			if !inQuote && err == nil {
				return bytes.TrimRight(line, "\r\n"), nil
			}
		}

		if err != nil {
			if err == io.EOF && len(line) > 0 {
				return bytes.TrimRight(line, "\r\n"), io.EOF
			}
			return nil, err
		}
	}
}

// fieldsOf splits a logical line on the delimiter, honoring quotes.
// A doubled quote inside a quoted field is an escaped quote.
func fieldsOf(line []byte, delim byte) []string {
	var fields []string
	var field []byte
	inQuote := false

	for i := 0; i < len(line); i++ {
		b := line[i]

		if b == quoteChar {
			if inQuote && i+1 < len(line) && line[i+1] == quoteChar {
				field = append(field, quoteChar)
				i++
			} else {
				inQuote = !inQuote
			}
		} else if b == delim && !inQuote {
			fields = append(fields, string(field))
			field = field[:0]
		} else {
			field = append(field, b)
		}
	}

	return append(fields, string(field))
}

func isBlank(line []byte) bool {
	return len(bytes.TrimSpace(line)) == 0
}

// normalizeColumnNames trims headers, names blank ones positionally, and
// suffixes duplicates so frame construction sees unique names.
func normalizeColumnNames(raw []string) []string {
	names := make([]string, len(raw))
	seen := make(map[string]int, len(raw))

	for i, h := range raw {
		name := strings.TrimSpace(h)
		if name == "" {
			name = fmt.Sprintf("column_%d", i)
		}
		if seen[name] > 0 {
			base := name
			for n := seen[base] + 1; ; n++ {
				candidate := fmt.Sprintf("%s_%d", base, n)
				if seen[candidate] == 0 {
					seen[base] = n
					name = candidate
					break
				}
			}
		}
		seen[name]++
		names[i] = name
	}
	return names
}

// buildFrame infers per-column types from a row sample, then coerces every
// cell. Cells that fail coercion become nulls.
func buildFrame(names []string, rows [][]string, typeSample int) (*frame.Frame, error) {
	sample := rows
	if typeSample > 0 && len(sample) > typeSample {
		sample = sample[:typeSample]
	}
	types := frame.InferColumns(names, sample)

	builders := make([]*frame.Builder, len(names))
	for i, name := range names {
		builders[i] = frame.NewBuilder(name, types[i])
	}

	for _, row := range rows {
		for i, b := range builders {
			if i < len(row) {
				b.AppendCell(row[i])
			} else {
				b.AppendNull()
			}
		}
	}

	cols := make([]*frame.Column, len(builders))
	for i, b := range builders {
		cols[i] = b.Finish()
	}
	return frame.New(cols...)
}
