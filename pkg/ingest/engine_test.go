package ingest

import (
	"context"
	stderrors "errors"
	"os"
	"path/filepath"
	"testing"

	tlerrors "github.com/tablens/tablens/pkg/errors"
)

func writeFile(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("writing fixture: %v", err)
	}
	return path
}

func TestLoadMissingPath(t *testing.T) {
	e := New(filepath.Join(t.TempDir(), "absent.csv"))
	_, err := e.Load(context.Background())
	if !tlerrors.IsCode(err, tlerrors.CodeNotFound) {
		t.Errorf("Expected CodeNotFound, got %v", err)
	}
}

func TestLoadDirectoryTarget(t *testing.T) {
	e := New(t.TempDir())
	_, err := e.Load(context.Background())
	if !tlerrors.IsCode(err, tlerrors.CodeInvalidTarget) {
		t.Errorf("Expected CodeInvalidTarget, got %v", err)
	}
}

func TestLoadUnsupportedExtension(t *testing.T) {
	path := writeFile(t, "data.avro", "binary")
	_, err := New(path).Load(context.Background())
	if !tlerrors.IsCode(err, tlerrors.CodeUnsupportedFormat) {
		t.Fatalf("Expected CodeUnsupportedFormat, got %v", err)
	}
	var terr *tlerrors.TablensError
	if ok := stderrors.As(err, &terr); !ok || terr.Context["extension"] != ".avro" {
		t.Errorf("Error should name the extension, got %v", err)
	}
}

// Validation order: a missing path wins over an unsupported extension.
func TestValidationBeforeDispatch(t *testing.T) {
	e := New(filepath.Join(t.TempDir(), "absent.avro"))
	_, err := e.Load(context.Background())
	if !tlerrors.IsCode(err, tlerrors.CodeNotFound) {
		t.Errorf("Expected CodeNotFound before format check, got %v", err)
	}
}

func TestFormatForPath(t *testing.T) {
	tests := []struct {
		path string
		want Format
	}{
		{"a.csv", FormatDelimited},
		{"a.txt", FormatDelimited},
		{"A.CSV", FormatDelimited},
		{"b.xlsx", FormatSpreadsheet},
		{"b.XLS", FormatSpreadsheet},
		{"c.json", FormatRecords},
		{"d.parquet", FormatColumnar},
		{"e.avro", FormatUnknown},
		{"noext", FormatUnknown},
	}
	for _, tt := range tests {
		if got := FormatForPath(tt.path); got != tt.want {
			t.Errorf("FormatForPath(%q) = %s, want %s", tt.path, got, tt.want)
		}
	}
}

func TestEveryFormatHasALoader(t *testing.T) {
	for _, f := range []Format{FormatDelimited, FormatSpreadsheet, FormatRecords, FormatColumnar} {
		if loaders[f] == nil {
			t.Errorf("No loader bound for %s", f)
		}
	}
	if loaders[FormatUnknown] != nil {
		t.Error("FormatUnknown must not have a loader")
	}
}

func TestMetadataAfterLoad(t *testing.T) {
	path := writeFile(t, "ok.csv", "a,b\n1,2\n3,4\n")
	e := New(path)
	fr, err := e.Load(context.Background())
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if fr.NumRows() != 2 {
		t.Errorf("rows = %d, want 2", fr.NumRows())
	}

	meta := e.Metadata()
	if meta.Encoding != "ascii" {
		t.Errorf("Encoding = %q, want ascii", meta.Encoding)
	}
	if meta.Delimiter != "," {
		t.Errorf("Delimiter = %q, want comma", meta.Delimiter)
	}
	if meta.SkippedRows != 0 {
		t.Errorf("SkippedRows = %d, want 0", meta.SkippedRows)
	}

	src := e.Source()
	if src.Format != FormatDelimited || src.Delimiter != ',' {
		t.Errorf("Source = %+v", src)
	}
}

func TestMetadataOmitsDelimiterForRecords(t *testing.T) {
	path := writeFile(t, "r.json", `[{"a":1},{"a":2}]`)
	e := New(path)
	if _, err := e.Load(context.Background()); err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if d := e.Metadata().Delimiter; d != "" {
		t.Errorf("Delimiter = %q, want empty for records", d)
	}
}
