package frame

import (
	"testing"
	"time"
)

func TestBuilderCoercion(t *testing.T) {
	b := NewBuilder("value", TypeFloat)
	b.AppendCell("10.5")
	b.AppendCell("not a number")
	b.AppendCell("NULL")
	b.AppendCell("20")
	col := b.Finish()

	if col.Len() != 4 {
		t.Fatalf("Expected 4 rows, got %d", col.Len())
	}
	if col.IsNull(0) {
		t.Error("Row 0 should hold a value")
	}
	if !col.IsNull(1) {
		t.Error("Uncoercible cell should become null")
	}
	if !col.IsNull(2) {
		t.Error("Null token should become null")
	}
	if v, _ := col.Float(3); v != 20 {
		t.Errorf("Row 3 = %v, want 20", v)
	}
}

func TestBuilderAppendValue(t *testing.T) {
	b := NewBuilder("n", TypeInt)
	b.AppendValue(float64(42)) // decoded JSON numbers arrive as float64
	b.AppendValue(nil)
	b.AppendValue(float64(3.5)) // non-integral, cannot narrow
	col := b.Finish()

	if v, ok := col.Float(0); !ok || v != 42 {
		t.Errorf("Row 0 = %v (ok=%v), want 42", v, ok)
	}
	if !col.IsNull(1) {
		t.Error("nil should append null")
	}
	if !col.IsNull(2) {
		t.Error("Non-integral float should not narrow to int")
	}
}

func TestInfer(t *testing.T) {
	tests := []struct {
		name    string
		samples []string
		want    Type
	}{
		{"ints", []string{"1", "2", "3"}, TypeInt},
		{"ints widen to float", []string{"1", "2.5", "3"}, TypeFloat},
		{"bools", []string{"true", "no", "YES"}, TypeBool},
		{"timestamps", []string{"2024-01-15", "2024-02-01 10:30:00"}, TypeTime},
		{"mixed degrades to string", []string{"1", "alice"}, TypeString},
		{"bool int mix degrades", []string{"true", "7"}, TypeString},
		{"nulls ignored", []string{"NA", "", "5"}, TypeInt},
		{"all null", []string{"", "NULL"}, TypeString},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Infer(tt.samples); got != tt.want {
				t.Errorf("Infer(%v) = %s, want %s", tt.samples, got, tt.want)
			}
		})
	}
}

func TestParseTimeLayouts(t *testing.T) {
	for _, s := range []string{
		"2024-01-15T10:30:00Z",
		"2024-01-15 10:30:00",
		"2024-01-15",
		"01/15/2024",
	} {
		if _, ok := ParseTime(s); !ok {
			t.Errorf("ParseTime(%q) failed", s)
		}
	}
	if _, ok := ParseTime("15th of March"); ok {
		t.Error("ParseTime should reject free-form dates")
	}
}

func TestFrameRejectsRaggedColumns(t *testing.T) {
	a := NewBuilder("a", TypeInt)
	a.AppendInt(1)
	a.AppendInt(2)
	b := NewBuilder("b", TypeInt)
	b.AppendInt(1)

	if _, err := New(a.Finish(), b.Finish()); err == nil {
		t.Error("Expected error for columns of different lengths")
	}
}

func TestFrameRejectsDuplicateNames(t *testing.T) {
	a := NewBuilder("x", TypeInt)
	a.AppendInt(1)
	b := NewBuilder("x", TypeInt)
	b.AppendInt(2)

	if _, err := New(a.Finish(), b.Finish()); err == nil {
		t.Error("Expected error for duplicate column names")
	}
}

func buildTestFrame(t *testing.T) *Frame {
	t.Helper()
	id := NewBuilder("id", TypeInt)
	name := NewBuilder("name", TypeString)
	when := NewBuilder("when", TypeTime)
	for i, n := range []string{"alice", "bob", "charlie"} {
		id.AppendInt(int64(i + 1))
		name.AppendString(n)
		when.AppendTime(time.Date(2024, 1, i+1, 0, 0, 0, 0, time.UTC))
	}
	f, err := New(id.Finish(), name.Finish(), when.Finish())
	if err != nil {
		t.Fatalf("New failed: %v", err)
	}
	return f
}

func TestFrameAccessors(t *testing.T) {
	f := buildTestFrame(t)

	if f.NumRows() != 3 || f.NumCols() != 3 {
		t.Fatalf("shape = %dx%d, want 3x3", f.NumRows(), f.NumCols())
	}

	col, ok := f.Column("name")
	if !ok {
		t.Fatal("Missing column name")
	}
	if col.Format(1) != "bob" {
		t.Errorf("name[1] = %q, want bob", col.Format(1))
	}

	head := f.Head(2)
	if len(head) != 2 || head[0][0] != "1" {
		t.Errorf("Head(2) = %v", head)
	}
	tail := f.Tail(1)
	if len(tail) != 1 || tail[0][1] != "charlie" {
		t.Errorf("Tail(1) = %v", tail)
	}
}

func TestIntAccessorKeepsPrecision(t *testing.T) {
	big := int64(1)<<53 + 1 // not representable as float64

	b := NewBuilder("n", TypeInt)
	b.AppendInt(big)
	b.AppendNull()
	col := b.Finish()

	v, ok := col.Int(0)
	if !ok || v != big {
		t.Errorf("Int(0) = %d, %v; want %d", v, ok, big)
	}
	if _, ok := col.Int(1); ok {
		t.Error("Int on a null row should report no value")
	}

	f := NewBuilder("f", TypeFloat)
	f.AppendFloat(1.5)
	if _, ok := f.Finish().Int(0); ok {
		t.Error("Int on a float column should report no value")
	}
}

func TestFrameEqual(t *testing.T) {
	a := buildTestFrame(t)
	b := buildTestFrame(t)

	if !a.Equal(b) {
		t.Error("Identical frames should be equal")
	}

	c := NewBuilder("id", TypeInt)
	c.AppendInt(9)
	d := NewBuilder("name", TypeString)
	d.AppendString("zed")
	e := NewBuilder("when", TypeTime)
	e.AppendNull()
	other, _ := New(c.Finish(), d.Finish(), e.Finish())

	if a.Equal(other) {
		t.Error("Different frames should not be equal")
	}
}

func TestNullHandling(t *testing.T) {
	b := NewBuilder("v", TypeInt)
	b.AppendInt(5)
	b.AppendNull()
	col := b.Finish()

	if col.NullCount() != 1 {
		t.Errorf("NullCount = %d, want 1", col.NullCount())
	}
	if col.Value(1) != nil {
		t.Error("Null row should yield nil Value")
	}
	if col.Format(1) != "" {
		t.Error("Null row should render empty")
	}
	if got := col.Floats(); len(got) != 1 || got[0] != 5 {
		t.Errorf("Floats() = %v, want [5]", got)
	}
}
