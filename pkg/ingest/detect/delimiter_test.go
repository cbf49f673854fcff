package detect

import (
	"strings"
	"testing"
)

func TestDetectDelimiterComma(t *testing.T) {
	lines := []string{"id,name,value", "1,alice,10", "2,bob,20"}
	if got := DetectDelimiter(lines); got != ',' {
		t.Errorf("DetectDelimiter = %q, want ','", got)
	}
}

func TestDetectDelimiterSemicolon(t *testing.T) {
	lines := []string{"id;name;value", "1;alice;10", "2;bob;20"}
	if got := DetectDelimiter(lines); got != ';' {
		t.Errorf("DetectDelimiter = %q, want ';'", got)
	}
}

func TestDetectDelimiterTab(t *testing.T) {
	lines := []string{"id\tname", "1\talice", "2\tbob"}
	if got := DetectDelimiter(lines); got != '\t' {
		t.Errorf("DetectDelimiter = %q, want tab", got)
	}
}

func TestDetectDelimiterInconsistentCandidateLoses(t *testing.T) {
	// Pipes appear but with varying counts; semicolons are consistent.
	lines := []string{"a;b|c", "1;2||3", "4;5|6"}
	if got := DetectDelimiter(lines); got != ';' {
		t.Errorf("DetectDelimiter = %q, want ';'", got)
	}
}

func TestDetectDelimiterHighestCountWins(t *testing.T) {
	// Both qualify; semicolon appears twice per line, pipe once.
	lines := []string{"a;b;c|d", "1;2;3|4"}
	if got := DetectDelimiter(lines); got != ';' {
		t.Errorf("DetectDelimiter = %q, want ';'", got)
	}
}

func TestDetectDelimiterTiePrefersCandidateOrder(t *testing.T) {
	lines := []string{"a,b;c", "1,2;3"}
	if got := DetectDelimiter(lines); got != ',' {
		t.Errorf("DetectDelimiter = %q, want ',' on tie", got)
	}
}

func TestDetectDelimiterNoCandidateFallsBack(t *testing.T) {
	lines := []string{"single column", "just text"}
	if got := DetectDelimiter(lines); got != DefaultDelimiter {
		t.Errorf("DetectDelimiter = %q, want default comma", got)
	}
}

func TestDetectDelimiterEmptyInput(t *testing.T) {
	if got := DetectDelimiter(nil); got != DefaultDelimiter {
		t.Errorf("DetectDelimiter(nil) = %q, want default comma", got)
	}
}

func TestDetectDelimiterCountsInsideQuotes(t *testing.T) {
	// Raw counting includes delimiters inside quoted fields: the comma
	// count differs between lines, so comma does not qualify and the
	// consistent semicolon wins despite commas delimiting nothing here.
	lines := []string{`"a,b";c`, `"d,e,f";g`}
	if got := DetectDelimiter(lines); got != ';' {
		t.Errorf("DetectDelimiter = %q, want ';'", got)
	}

	// When the quoted commas happen to be consistent they still count,
	// and comma outranks the semicolon by preference order on a tie.
	lines = []string{`"a,b";c`, `"d,e";f`}
	if got := DetectDelimiter(lines); got != ',' {
		t.Errorf("DetectDelimiter = %q, want ',' (quoted commas counted)", got)
	}
}

func TestDetectDelimiterIdempotent(t *testing.T) {
	lines := []string{"a|b|c", "1|2|3", "4|5|6"}
	first := DetectDelimiter(lines)
	for i := 0; i < 5; i++ {
		if got := DetectDelimiter(lines); got != first {
			t.Fatalf("run %d: DetectDelimiter = %q, want %q", i, got, first)
		}
	}
}

func TestSampleLines(t *testing.T) {
	input := "one\n\ntwo\r\nthree\nfour\n"
	lines := SampleLines(strings.NewReader(input), 3)
	if len(lines) != 3 {
		t.Fatalf("Expected 3 lines, got %d", len(lines))
	}
	if lines[1] != "two" {
		t.Errorf("lines[1] = %q, want two (blank skipped, CR trimmed)", lines[1])
	}
}
