package frame

import (
	"fmt"
	"strconv"
	"strings"
	"time"
)

// Builder accumulates values for one column. Raw cells that cannot be
// coerced to the declared type become nulls rather than failing the load.
type Builder struct {
	col Column
}

// NewBuilder creates a builder for a column of the given type.
func NewBuilder(name string, t Type) *Builder {
	return &Builder{col: Column{name: name, typ: t}}
}

// Len returns the number of appended rows.
func (b *Builder) Len() int { return len(b.col.valid) }

// AppendNull appends a null row.
func (b *Builder) AppendNull() {
	b.col.valid = append(b.col.valid, false)
	switch b.col.typ {
	case TypeInt:
		b.col.ints = append(b.col.ints, 0)
	case TypeFloat:
		b.col.floats = append(b.col.floats, 0)
	case TypeBool:
		b.col.bools = append(b.col.bools, false)
	case TypeTime:
		b.col.times = append(b.col.times, time.Time{})
	default:
		b.col.strs = append(b.col.strs, "")
	}
}

// AppendString appends to a string column.
func (b *Builder) AppendString(v string) {
	b.col.valid = append(b.col.valid, true)
	b.col.strs = append(b.col.strs, v)
}

// AppendInt appends to an int column.
func (b *Builder) AppendInt(v int64) {
	b.col.valid = append(b.col.valid, true)
	b.col.ints = append(b.col.ints, v)
}

// AppendFloat appends to a float column.
func (b *Builder) AppendFloat(v float64) {
	b.col.valid = append(b.col.valid, true)
	b.col.floats = append(b.col.floats, v)
}

// AppendBool appends to a bool column.
func (b *Builder) AppendBool(v bool) {
	b.col.valid = append(b.col.valid, true)
	b.col.bools = append(b.col.bools, v)
}

// AppendTime appends to a timestamp column.
func (b *Builder) AppendTime(v time.Time) {
	b.col.valid = append(b.col.valid, true)
	b.col.times = append(b.col.times, v)
}

// AppendCell coerces a raw cell to the column type. Null tokens and values
// that fail coercion append a null.
func (b *Builder) AppendCell(raw string) {
	s := strings.TrimSpace(raw)
	if IsNullToken(s) {
		b.AppendNull()
		return
	}

	switch b.col.typ {
	case TypeInt:
		if v, err := strconv.ParseInt(s, 10, 64); err == nil {
			b.AppendInt(v)
			return
		}
	case TypeFloat:
		if v, err := strconv.ParseFloat(s, 64); err == nil {
			b.AppendFloat(v)
			return
		}
	case TypeBool:
		if v, ok := parseBool(s); ok {
			b.AppendBool(v)
			return
		}
	case TypeTime:
		if v, ok := ParseTime(s); ok {
			b.AppendTime(v)
			return
		}
	default:
		b.AppendString(raw)
		return
	}
	b.AppendNull()
}

// AppendValue coerces a dynamically typed value (decoded JSON, SQL scan
// results) to the column type. Nil and failed coercions append a null.
func (b *Builder) AppendValue(v interface{}) {
	if v == nil {
		b.AppendNull()
		return
	}

	switch b.col.typ {
	case TypeInt:
		switch x := v.(type) {
		case int64:
			b.AppendInt(x)
			return
		case int:
			b.AppendInt(int64(x))
			return
		case float64:
			if x == float64(int64(x)) {
				b.AppendInt(int64(x))
				return
			}
		}
	case TypeFloat:
		switch x := v.(type) {
		case float64:
			b.AppendFloat(x)
			return
		case int64:
			b.AppendFloat(float64(x))
			return
		case int:
			b.AppendFloat(float64(x))
			return
		}
	case TypeBool:
		if x, ok := v.(bool); ok {
			b.AppendBool(x)
			return
		}
	case TypeTime:
		if x, ok := v.(time.Time); ok {
			b.AppendTime(x)
			return
		}
		if s, ok := v.(string); ok {
			if t, parsed := ParseTime(s); parsed {
				b.AppendTime(t)
				return
			}
		}
	default:
		if s, ok := v.(string); ok {
			b.AppendString(s)
		} else {
			b.AppendString(formatValue(v))
		}
		return
	}
	b.AppendNull()
}

// PadTo appends nulls until the column reaches n rows.
func (b *Builder) PadTo(n int) {
	for b.Len() < n {
		b.AppendNull()
	}
}

// Finish returns the built column. The builder must not be reused.
func (b *Builder) Finish() *Column {
	col := b.col
	return &col
}

func formatValue(v interface{}) string {
	switch x := v.(type) {
	case float64:
		return strconv.FormatFloat(x, 'g', -1, 64)
	case int64:
		return strconv.FormatInt(x, 10)
	case bool:
		return strconv.FormatBool(x)
	case time.Time:
		return x.Format(time.RFC3339)
	default:
		return fmt.Sprintf("%v", x)
	}
}
