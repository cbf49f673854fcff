package errors

import (
	"errors"
	"fmt"
	"strings"
	"testing"
)

func TestErrorFormatting(t *testing.T) {
	err := New(CodeParseFailure, "parse failure").WithContext("format", "records")
	msg := err.Error()

	if !strings.Contains(msg, "E201") {
		t.Errorf("expected code in message, got %q", msg)
	}
	if !strings.Contains(msg, "format=records") {
		t.Errorf("expected context in message, got %q", msg)
	}
}

func TestWrapPreservesCause(t *testing.T) {
	cause := fmt.Errorf("unexpected token")
	err := Wrap(cause, CodeParseFailure, "parse failure")

	if !errors.Is(err, cause) {
		t.Error("wrapped error should match its cause with errors.Is")
	}
	if unwrapped := errors.Unwrap(err); unwrapped != cause {
		t.Errorf("Unwrap() = %v, want %v", unwrapped, cause)
	}
}

func TestWrapNil(t *testing.T) {
	if err := Wrap(nil, CodeParseFailure, "ignored"); err != nil {
		t.Errorf("Wrap(nil) = %v, want nil", err)
	}
}

func TestIsMatchesByCode(t *testing.T) {
	err := NotFound("/tmp/missing.csv")
	target := &TablensError{Code: CodeNotFound}

	if !errors.Is(err, target) {
		t.Error("errors with the same code should match")
	}

	other := &TablensError{Code: CodeInvalidTarget}
	if errors.Is(err, other) {
		t.Error("errors with different codes should not match")
	}
}

func TestIsCodeThroughWrapping(t *testing.T) {
	inner := UnsupportedFormat(".pdf")
	outer := fmt.Errorf("loading source: %w", inner)

	if !IsCode(outer, CodeUnsupportedFormat) {
		t.Error("IsCode should see through fmt.Errorf wrapping")
	}
	if IsCode(outer, CodeParseFailure) {
		t.Error("IsCode matched the wrong code")
	}
}

func TestGetCode(t *testing.T) {
	if got := GetCode(InvalidTarget("/tmp")); got != CodeInvalidTarget {
		t.Errorf("GetCode = %s, want %s", got, CodeInvalidTarget)
	}
	if got := GetCode(errors.New("plain")); got != CodeUnknown {
		t.Errorf("GetCode on plain error = %s, want %s", got, CodeUnknown)
	}
}

func TestConstructorContext(t *testing.T) {
	err := UnsupportedFormat(".avro")
	if err.Context["extension"] != ".avro" {
		t.Errorf("extension context = %v, want .avro", err.Context["extension"])
	}
	if !strings.Contains(err.Message, ".avro") {
		t.Errorf("message should name the extension, got %q", err.Message)
	}
}

func TestStackCaptured(t *testing.T) {
	err := New(CodeUnknown, "boom")
	if len(err.StackTrace) == 0 {
		t.Fatal("expected a captured stack trace")
	}
	if !strings.Contains(err.FormatStack(), "errors_test.go") {
		t.Error("stack should include the call site")
	}
}
