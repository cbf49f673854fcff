package ingest

import (
	"context"
	"testing"

	tlerrors "github.com/tablens/tablens/pkg/errors"
	"github.com/tablens/tablens/pkg/frame"
)

func TestRecordsArray(t *testing.T) {
	path := writeFile(t, "recs.json", `[
		{"id": 1, "name": "alice", "score": 9.5},
		{"id": 2, "name": "bob", "score": 7.25}
	]`)
	e := New(path)
	fr, err := e.Load(context.Background())
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}

	if fr.NumRows() != 2 || fr.NumCols() != 3 {
		t.Fatalf("shape = %dx%d, want 2x3", fr.NumRows(), fr.NumCols())
	}

	// Columns are the sorted union of keys.
	names := fr.Names()
	want := []string{"id", "name", "score"}
	for i, n := range want {
		if names[i] != n {
			t.Errorf("names[%d] = %q, want %q", i, names[i], n)
		}
	}

	id, _ := fr.Column("id")
	if id.Type() != frame.TypeInt {
		t.Errorf("id type = %s, want int64", id.Type())
	}
	score, _ := fr.Column("score")
	if score.Type() != frame.TypeFloat {
		t.Errorf("score type = %s, want float64", score.Type())
	}
}

func TestRecordsLineDelimited(t *testing.T) {
	path := writeFile(t, "recs.json", `{"a": 1, "b": "x"}
{"a": 2, "b": "y"}
{"a": 3, "b": "z"}
`)
	fr, err := New(path).Load(context.Background())
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if fr.NumRows() != 3 || fr.NumCols() != 2 {
		t.Errorf("shape = %dx%d, want 3x2", fr.NumRows(), fr.NumCols())
	}
}

func TestRecordsKeyUnionNulls(t *testing.T) {
	path := writeFile(t, "union.json", `[
		{"a": 1, "b": "only here"},
		{"a": 2, "c": true}
	]`)
	fr, err := New(path).Load(context.Background())
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if fr.NumCols() != 3 {
		t.Fatalf("cols = %d, want 3 (union of keys)", fr.NumCols())
	}
	b, _ := fr.Column("b")
	if !b.IsNull(1) {
		t.Error("record without key b should contribute a null")
	}
	c, _ := fr.Column("c")
	if !c.IsNull(0) {
		t.Error("record without key c should contribute a null")
	}
	if v, _ := c.Bool(1); !v {
		t.Error("c[1] should be true")
	}
}

func TestRecordsJSONNull(t *testing.T) {
	path := writeFile(t, "nulls.json", `[{"v": 1}, {"v": null}, {"v": 3}]`)
	fr, err := New(path).Load(context.Background())
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	v, _ := fr.Column("v")
	if v.Type() != frame.TypeInt {
		t.Errorf("type = %s, want int64", v.Type())
	}
	if !v.IsNull(1) {
		t.Error("JSON null should be a null cell")
	}
}

func TestRecordsTimestampStrings(t *testing.T) {
	path := writeFile(t, "times.json", `[{"at": "2024-01-15T10:00:00Z"}, {"at": "2024-02-01T08:30:00Z"}]`)
	fr, err := New(path).Load(context.Background())
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	at, _ := fr.Column("at")
	if at.Type() != frame.TypeTime {
		t.Errorf("type = %s, want timestamp", at.Type())
	}
}

func TestRecordsNestedValuesBecomeJSONText(t *testing.T) {
	path := writeFile(t, "nested.json", `[{"tags": ["a", "b"], "meta": {"k": 1}}]`)
	fr, err := New(path).Load(context.Background())
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	tags, _ := fr.Column("tags")
	if tags.Type() != frame.TypeString {
		t.Errorf("tags type = %s, want string", tags.Type())
	}
	if tags.Format(0) != `["a","b"]` {
		t.Errorf("tags[0] = %q", tags.Format(0))
	}
}

func TestRecordsInvalidSyntax(t *testing.T) {
	path := writeFile(t, "broken.json", `[{"a": 1}, {"a": `)
	_, err := New(path).Load(context.Background())
	if !tlerrors.IsCode(err, tlerrors.CodeParseFailure) {
		t.Errorf("Expected CodeParseFailure, got %v", err)
	}
}

func TestRecordsScalarArrayRejected(t *testing.T) {
	path := writeFile(t, "scalars.json", `[1, 2, 3]`)
	_, err := New(path).Load(context.Background())
	if !tlerrors.IsCode(err, tlerrors.CodeParseFailure) {
		t.Errorf("Expected CodeParseFailure for non-object records, got %v", err)
	}
}

func TestRecordsSingleObject(t *testing.T) {
	// One bare object reads as a single line-delimited record.
	path := writeFile(t, "one.json", `{"a": 1}`)
	fr, err := New(path).Load(context.Background())
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if fr.NumRows() != 1 {
		t.Errorf("rows = %d, want 1", fr.NumRows())
	}
}

func TestRecordsEmptyFile(t *testing.T) {
	path := writeFile(t, "void.json", "")
	_, err := New(path).Load(context.Background())
	if !tlerrors.IsCode(err, tlerrors.CodeParseFailure) {
		t.Errorf("Expected CodeParseFailure, got %v", err)
	}
}

func TestRecordsMixedTypesDegradeToString(t *testing.T) {
	path := writeFile(t, "mixed.json", `[{"v": 1}, {"v": "two"}]`)
	fr, err := New(path).Load(context.Background())
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	v, _ := fr.Column("v")
	if v.Type() != frame.TypeString {
		t.Errorf("type = %s, want string", v.Type())
	}
	if v.Format(0) != "1" {
		t.Errorf("v[0] = %q, want \"1\"", v.Format(0))
	}
}
