// Package errors provides structured error handling for tablens.
// Errors carry codes, context, and stack traces for programmatic handling.
package errors

import (
	"errors"
	"fmt"
	"runtime"
	"strings"
)

// Error codes for programmatic handling
type Code string

const (
	// Input errors (1xx)
	CodeNotFound          Code = "E101"
	CodeInvalidTarget     Code = "E102"
	CodeUnsupportedFormat Code = "E103"

	// Processing errors (2xx)
	CodeParseFailure Code = "E201"

	// Output errors (3xx)
	CodeExportFailed Code = "E301"
	CodeRenderFailed Code = "E302"

	// System errors (4xx)
	CodeContextCanceled Code = "E401"
	CodeConfigInvalid   Code = "E402"
	CodeCacheFailed     Code = "E403"

	// Query errors (5xx)
	CodeQueryInit   Code = "E501"
	CodeQueryFailed Code = "E502"

	// Unknown
	CodeUnknown Code = "E999"
)

// TablensError is the base error type for all tablens errors.
type TablensError struct {
	Code       Code
	Message    string
	Cause      error
	Context    map[string]interface{}
	StackTrace []Frame
}

// Frame represents a stack frame.
type Frame struct {
	Function string
	File     string
	Line     int
}

// Error implements the error interface.
func (e *TablensError) Error() string {
	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("[%s] %s", e.Code, e.Message))

	if len(e.Context) > 0 {
		sb.WriteString(" (")
		first := true
		for k, v := range e.Context {
			if !first {
				sb.WriteString(", ")
			}
			sb.WriteString(fmt.Sprintf("%s=%v", k, v))
			first = false
		}
		sb.WriteString(")")
	}

	if e.Cause != nil {
		sb.WriteString(": ")
		sb.WriteString(e.Cause.Error())
	}

	return sb.String()
}

// Unwrap returns the underlying cause.
func (e *TablensError) Unwrap() error {
	return e.Cause
}

// Is checks if this error matches a target error.
func (e *TablensError) Is(target error) bool {
	if t, ok := target.(*TablensError); ok {
		return e.Code == t.Code
	}
	return false
}

// WithContext adds context to the error.
func (e *TablensError) WithContext(key string, value interface{}) *TablensError {
	if e.Context == nil {
		e.Context = make(map[string]interface{})
	}
	e.Context[key] = value
	return e
}

// New creates a new TablensError.
func New(code Code, message string) *TablensError {
	return &TablensError{
		Code:       code,
		Message:    message,
		StackTrace: captureStack(2),
	}
}

// Wrap wraps an existing error with additional context.
func Wrap(err error, code Code, message string) *TablensError {
	if err == nil {
		return nil
	}

	return &TablensError{
		Code:       code,
		Message:    message,
		Cause:      err,
		StackTrace: captureStack(2),
	}
}

// Wrapf wraps an error with a formatted message.
func Wrapf(err error, code Code, format string, args ...interface{}) *TablensError {
	return Wrap(err, code, fmt.Sprintf(format, args...))
}

// captureStack captures the current stack trace.
func captureStack(skip int) []Frame {
	var frames []Frame
	pcs := make([]uintptr, 32)
	n := runtime.Callers(skip+1, pcs)
	pcs = pcs[:n]

	cf := runtime.CallersFrames(pcs)
	for {
		frame, more := cf.Next()
		frames = append(frames, Frame{
			Function: frame.Function,
			File:     frame.File,
			Line:     frame.Line,
		})
		if !more || len(frames) >= 10 {
			break
		}
	}
	return frames
}

// FormatStack returns a formatted stack trace.
func (e *TablensError) FormatStack() string {
	var sb strings.Builder
	for _, f := range e.StackTrace {
		sb.WriteString(fmt.Sprintf("  at %s\n    %s:%d\n", f.Function, f.File, f.Line))
	}
	return sb.String()
}

// --- Convenience constructors ---

// NotFound reports a path that does not exist.
func NotFound(path string) *TablensError {
	return New(CodeNotFound, "file not found").WithContext("path", path)
}

// InvalidTarget reports a path that exists but is not a regular file.
func InvalidTarget(path string) *TablensError {
	return New(CodeInvalidTarget, "target is not a regular file").WithContext("path", path)
}

// UnsupportedFormat reports an extension outside the supported set.
func UnsupportedFormat(ext string) *TablensError {
	return New(CodeUnsupportedFormat, fmt.Sprintf("unsupported file format %q", ext)).
		WithContext("extension", ext)
}

// ParseFailure reports an unreadable file of a recognized format.
func ParseFailure(format string, err error) *TablensError {
	if err == nil {
		return New(CodeParseFailure, "parse failure").WithContext("format", format)
	}
	return Wrap(err, CodeParseFailure, "parse failure").WithContext("format", format)
}

// ExportFailed reports a failed table write.
func ExportFailed(path string, err error) *TablensError {
	return Wrap(err, CodeExportFailed, "export failed").WithContext("path", path)
}

// ContextCanceled creates a cancellation error.
func ContextCanceled(operation string) *TablensError {
	return New(CodeContextCanceled, "operation canceled").
		WithContext("operation", operation)
}

// --- Error checking utilities ---

// IsCode checks if an error has a specific code.
func IsCode(err error, code Code) bool {
	var terr *TablensError
	if errors.As(err, &terr) {
		return terr.Code == code
	}
	return false
}

// GetCode extracts the error code from an error.
func GetCode(err error) Code {
	var terr *TablensError
	if errors.As(err, &terr) {
		return terr.Code
	}
	return CodeUnknown
}
