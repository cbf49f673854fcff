// Package frame implements the normalized in-memory table every loader
// produces: ordered, uniquely named columns of equal length, each carrying
// one declared type and per-row validity.
package frame

import (
	"fmt"
	"strconv"
	"time"
)

// Type identifies the declared type of a column.
type Type uint8

const (
	TypeString Type = iota
	TypeInt
	TypeFloat
	TypeBool
	TypeTime
)

var typeNames = []string{"string", "int64", "float64", "bool", "timestamp"}

// String returns the type name.
func (t Type) String() string {
	if int(t) < len(typeNames) {
		return typeNames[t]
	}
	return "unknown"
}

// IsNumeric reports whether the type participates in numeric statistics.
func (t Type) IsNumeric() bool {
	return t == TypeInt || t == TypeFloat
}

// Column is a typed, nullable vector of values.
type Column struct {
	name  string
	typ   Type
	valid []bool

	strs   []string
	ints   []int64
	floats []float64
	bools  []bool
	times  []time.Time
}

// Name returns the column name.
func (c *Column) Name() string { return c.name }

// Type returns the declared column type.
func (c *Column) Type() Type { return c.typ }

// Len returns the number of rows.
func (c *Column) Len() int { return len(c.valid) }

// IsNull reports whether row i holds no value.
func (c *Column) IsNull(i int) bool { return !c.valid[i] }

// NullCount returns the number of null rows.
func (c *Column) NullCount() int {
	n := 0
	for _, v := range c.valid {
		if !v {
			n++
		}
	}
	return n
}

// Value returns the value at row i, or nil when the row is null.
func (c *Column) Value(i int) interface{} {
	if !c.valid[i] {
		return nil
	}
	switch c.typ {
	case TypeInt:
		return c.ints[i]
	case TypeFloat:
		return c.floats[i]
	case TypeBool:
		return c.bools[i]
	case TypeTime:
		return c.times[i]
	default:
		return c.strs[i]
	}
}

// Float returns the numeric value at row i. Int columns widen to float64.
func (c *Column) Float(i int) (float64, bool) {
	if !c.valid[i] {
		return 0, false
	}
	switch c.typ {
	case TypeInt:
		return float64(c.ints[i]), true
	case TypeFloat:
		return c.floats[i], true
	default:
		return 0, false
	}
}

// Int returns the integer at row i without widening, so values above
// 2^53 survive intact.
func (c *Column) Int(i int) (int64, bool) {
	if !c.valid[i] || c.typ != TypeInt {
		return 0, false
	}
	return c.ints[i], true
}

// Time returns the timestamp at row i.
func (c *Column) Time(i int) (time.Time, bool) {
	if !c.valid[i] || c.typ != TypeTime {
		return time.Time{}, false
	}
	return c.times[i], true
}

// Bool returns the boolean at row i.
func (c *Column) Bool(i int) (bool, bool) {
	if !c.valid[i] || c.typ != TypeBool {
		return false, false
	}
	return c.bools[i], true
}

// Floats returns all non-null numeric values in row order.
func (c *Column) Floats() []float64 {
	if !c.typ.IsNumeric() {
		return nil
	}
	out := make([]float64, 0, len(c.valid))
	for i := range c.valid {
		if v, ok := c.Float(i); ok {
			out = append(out, v)
		}
	}
	return out
}

// Format renders row i for display. Null rows render as the empty string.
func (c *Column) Format(i int) string {
	if !c.valid[i] {
		return ""
	}
	switch c.typ {
	case TypeInt:
		return strconv.FormatInt(c.ints[i], 10)
	case TypeFloat:
		return strconv.FormatFloat(c.floats[i], 'g', -1, 64)
	case TypeBool:
		return strconv.FormatBool(c.bools[i])
	case TypeTime:
		return c.times[i].Format(time.RFC3339)
	default:
		return c.strs[i]
	}
}

// byteSize estimates the in-memory footprint of the column.
func (c *Column) byteSize() int64 {
	var n int64
	switch c.typ {
	case TypeInt, TypeFloat:
		n = int64(len(c.valid)) * 8
	case TypeBool:
		n = int64(len(c.valid))
	case TypeTime:
		n = int64(len(c.valid)) * 24
	default:
		for _, s := range c.strs {
			n += int64(len(s)) + 16
		}
	}
	return n + int64(len(c.valid))
}

// Frame is a rectangular table of named columns.
type Frame struct {
	cols  []*Column
	index map[string]int
}

// New assembles columns into a Frame. All columns must have the same length
// and distinct names.
func New(cols ...*Column) (*Frame, error) {
	f := &Frame{
		cols:  cols,
		index: make(map[string]int, len(cols)),
	}
	for i, c := range cols {
		if _, dup := f.index[c.name]; dup {
			return nil, fmt.Errorf("duplicate column name %q", c.name)
		}
		f.index[c.name] = i
		if c.Len() != cols[0].Len() {
			return nil, fmt.Errorf("column %q has %d rows, want %d", c.name, c.Len(), cols[0].Len())
		}
	}
	return f, nil
}

// NumRows returns the row count.
func (f *Frame) NumRows() int {
	if len(f.cols) == 0 {
		return 0
	}
	return f.cols[0].Len()
}

// NumCols returns the column count.
func (f *Frame) NumCols() int { return len(f.cols) }

// Names returns the column names in order.
func (f *Frame) Names() []string {
	names := make([]string, len(f.cols))
	for i, c := range f.cols {
		names[i] = c.name
	}
	return names
}

// Column returns the named column.
func (f *Frame) Column(name string) (*Column, bool) {
	i, ok := f.index[name]
	if !ok {
		return nil, false
	}
	return f.cols[i], true
}

// ColumnAt returns the column at position i.
func (f *Frame) ColumnAt(i int) *Column { return f.cols[i] }

// Row renders row i for display.
func (f *Frame) Row(i int) []string {
	row := make([]string, len(f.cols))
	for j, c := range f.cols {
		row[j] = c.Format(i)
	}
	return row
}

// Head renders the first n rows.
func (f *Frame) Head(n int) [][]string {
	if n > f.NumRows() {
		n = f.NumRows()
	}
	rows := make([][]string, 0, n)
	for i := 0; i < n; i++ {
		rows = append(rows, f.Row(i))
	}
	return rows
}

// Tail renders the last n rows.
func (f *Frame) Tail(n int) [][]string {
	total := f.NumRows()
	if n > total {
		n = total
	}
	rows := make([][]string, 0, n)
	for i := total - n; i < total; i++ {
		rows = append(rows, f.Row(i))
	}
	return rows
}

// MemoryFootprint estimates the bytes held by all columns.
func (f *Frame) MemoryFootprint() int64 {
	var n int64
	for _, c := range f.cols {
		n += c.byteSize()
	}
	return n
}

// Equal reports whether two frames have identical shape, column names,
// declared types, and cell values. Null cells match only null cells.
func (f *Frame) Equal(o *Frame) bool {
	if o == nil || f.NumCols() != o.NumCols() || f.NumRows() != o.NumRows() {
		return false
	}
	for i, a := range f.cols {
		b := o.cols[i]
		if a.name != b.name || a.typ != b.typ {
			return false
		}
		for r := 0; r < a.Len(); r++ {
			if a.valid[r] != b.valid[r] {
				return false
			}
			if !a.valid[r] {
				continue
			}
			switch a.typ {
			case TypeInt:
				if a.ints[r] != b.ints[r] {
					return false
				}
			case TypeFloat:
				if a.floats[r] != b.floats[r] {
					return false
				}
			case TypeBool:
				if a.bools[r] != b.bools[r] {
					return false
				}
			case TypeTime:
				if !a.times[r].Equal(b.times[r]) {
					return false
				}
			default:
				if a.strs[r] != b.strs[r] {
					return false
				}
			}
		}
	}
	return true
}
