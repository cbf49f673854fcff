package ingest

import (
	"bufio"
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"os"
	"sort"
	"strings"

	tlerrors "github.com/tablens/tablens/pkg/errors"
	"github.com/tablens/tablens/pkg/frame"
)

// loadRecords parses .json sources: a top-level array of objects, or
// line-delimited objects. Columns are the sorted union of keys; a record
// missing a key contributes a null.
func (e *Engine) loadRecords(ctx context.Context) (*frame.Frame, int, error) {
	data, err := os.ReadFile(e.src.Path)
	if err != nil {
		return nil, 0, tlerrors.ParseFailure(FormatRecords.String(), err).
			WithContext("path", e.src.Path)
	}

	records, err := decodeRecords(data)
	if err != nil {
		return nil, 0, tlerrors.ParseFailure(FormatRecords.String(), err).
			WithContext("path", e.src.Path)
	}

	select {
	case <-ctx.Done():
		return nil, 0, tlerrors.ContextCanceled("load records")
	default:
	}

	keySet := make(map[string]struct{})
	for _, rec := range records {
		for k := range rec {
			keySet[k] = struct{}{}
		}
	}
	names := make([]string, 0, len(keySet))
	for k := range keySet {
		names = append(names, k)
	}
	sort.Strings(names)

	builders := make([]*frame.Builder, len(names))
	for i, name := range names {
		values := make([]interface{}, 0, len(records))
		for _, rec := range records {
			values = append(values, rec[name])
		}
		builders[i] = frame.NewBuilder(name, inferValueType(values))
		for _, v := range values {
			builders[i].AppendValue(v)
		}
	}

	cols := make([]*frame.Column, len(builders))
	for i, b := range builders {
		cols[i] = b.Finish()
	}
	fr, err := frame.New(cols...)
	if err != nil {
		return nil, 0, tlerrors.ParseFailure(FormatRecords.String(), err)
	}
	return fr, 0, nil
}

// decodeRecords tries a JSON array of objects first, then line-delimited
// objects. Values arrive normalized: numbers as int64 or float64, nested
// structures re-encoded as JSON text.
func decodeRecords(data []byte) ([]map[string]interface{}, error) {
	trimmed := bytes.TrimSpace(data)
	if len(trimmed) == 0 {
		return nil, fmt.Errorf("no records found")
	}

	if trimmed[0] == '[' {
		var raw []map[string]interface{}
		dec := json.NewDecoder(bytes.NewReader(trimmed))
		dec.UseNumber()
		if err := dec.Decode(&raw); err != nil {
			return nil, fmt.Errorf("invalid record array: %w", err)
		}
		return normalizeRecords(raw), nil
	}

	// A single object, possibly pretty-printed, is one record. Anything
	// with trailing content falls through to line-delimited parsing.
	{
		var one map[string]interface{}
		dec := json.NewDecoder(bytes.NewReader(trimmed))
		dec.UseNumber()
		if err := dec.Decode(&one); err == nil && !dec.More() {
			return []map[string]interface{}{normalizeValues(one)}, nil
		}
	}

	var records []map[string]interface{}
	scanner := bufio.NewScanner(bytes.NewReader(trimmed))
	scanner.Buffer(make([]byte, 0, 64*1024), 16*1024*1024)
	lineNum := 0
	for scanner.Scan() {
		lineNum++
		line := bytes.TrimSpace(scanner.Bytes())
		if len(line) == 0 {
			continue
		}
		var rec map[string]interface{}
		dec := json.NewDecoder(bytes.NewReader(line))
		dec.UseNumber()
		if err := dec.Decode(&rec); err != nil {
			return nil, fmt.Errorf("invalid record on line %d: %w", lineNum, err)
		}
		if dec.More() {
			return nil, fmt.Errorf("trailing content after record on line %d", lineNum)
		}
		records = append(records, normalizeValues(rec))
	}
	if err := scanner.Err(); err != nil {
		return nil, err
	}
	if len(records) == 0 {
		return nil, fmt.Errorf("no records found")
	}
	return records, nil
}

func normalizeRecords(raw []map[string]interface{}) []map[string]interface{} {
	for i, rec := range raw {
		raw[i] = normalizeValues(rec)
	}
	return raw
}

func normalizeValues(rec map[string]interface{}) map[string]interface{} {
	for k, v := range rec {
		rec[k] = normalizeValue(v)
	}
	return rec
}

func normalizeValue(v interface{}) interface{} {
	switch x := v.(type) {
	case json.Number:
		if i, err := x.Int64(); err == nil {
			return i
		}
		if f, err := x.Float64(); err == nil {
			return f
		}
		return x.String()
	case map[string]interface{}, []interface{}:
		encoded, err := json.Marshal(x)
		if err != nil {
			return fmt.Sprintf("%v", x)
		}
		return string(encoded)
	default:
		return v
	}
}

// inferValueType picks a column type from decoded values. JSON strings are
// kept literal except when every present value parses as a timestamp.
func inferValueType(values []interface{}) frame.Type {
	var bools, ints, floats, times, strs, others int

	for _, v := range values {
		switch x := v.(type) {
		case nil:
		case bool:
			bools++
		case int64:
			ints++
		case float64:
			floats++
		case string:
			if _, ok := frame.ParseTime(strings.TrimSpace(x)); ok {
				times++
			} else {
				strs++
			}
		default:
			others++
		}
	}

	switch {
	case others > 0 || strs > 0:
		return frame.TypeString
	case times > 0:
		if bools+ints+floats > 0 {
			return frame.TypeString
		}
		return frame.TypeTime
	case bools > 0:
		if ints+floats > 0 {
			return frame.TypeString
		}
		return frame.TypeBool
	case floats > 0:
		return frame.TypeFloat
	case ints > 0:
		return frame.TypeInt
	default:
		return frame.TypeString
	}
}
