// Package ingest loads tabular files of unknown format, encoding, and
// delimiter into normalized frames. One engine handles one source file;
// after a successful load it exposes how the file was read (encoding,
// delimiter, skipped rows).
package ingest

import (
	"context"
	"io"
	"log/slog"
	"os"
	"path/filepath"

	tlerrors "github.com/tablens/tablens/pkg/errors"
	"github.com/tablens/tablens/pkg/frame"
	"github.com/tablens/tablens/pkg/ingest/detect"
)

// Source describes the file under ingestion. Path is fixed at
// construction; Format, Encoding, and Delimiter are recorded once by the
// first successful detection and never change afterward.
type Source struct {
	Path      string
	Format    Format
	Encoding  detect.Encoding
	Delimiter byte // meaningful only for delimited text
}

// Metadata describes how a load went.
type Metadata struct {
	Encoding    string `json:"encoding"`
	Delimiter   string `json:"delimiter,omitempty"`
	SkippedRows int    `json:"skipped_rows"`
}

// Options tune detection sampling and spreadsheet selection.
type Options struct {
	// SampleSize is the number of bytes examined for encoding detection.
	SampleSize int
	// LineSample is the number of lines examined for delimiter detection.
	LineSample int
	// TypeSample is the number of rows sampled for type inference.
	TypeSample int
	// Sheet selects a spreadsheet sheet by name. Empty means first sheet.
	Sheet string
}

// DefaultOptions returns the standard sampling windows.
func DefaultOptions() Options {
	return Options{
		SampleSize: detect.DefaultSampleSize,
		LineSample: detect.DefaultLineSample,
		TypeSample: 1000,
	}
}

// Option adjusts engine options.
type Option func(*Options)

// WithSheet selects a spreadsheet sheet by name.
func WithSheet(name string) Option {
	return func(o *Options) { o.Sheet = name }
}

// WithSampleSize sets the encoding detection sample size in bytes.
func WithSampleSize(n int) Option {
	return func(o *Options) {
		if n > 0 {
			o.SampleSize = n
		}
	}
}

// WithTypeSample sets the number of rows sampled for type inference.
func WithTypeSample(n int) Option {
	return func(o *Options) {
		if n > 0 {
			o.TypeSample = n
		}
	}
}

// Engine loads one tabular source into a normalized frame.
type Engine struct {
	src  Source
	opts Options
	meta Metadata
}

// New creates an engine for the given path.
func New(path string, opts ...Option) *Engine {
	o := DefaultOptions()
	for _, opt := range opts {
		opt(&o)
	}
	return &Engine{
		src:  Source{Path: path},
		opts: o,
	}
}

// Source returns the source descriptor.
func (e *Engine) Source() Source { return e.src }

// Metadata returns how the last Load read the file. Valid after a
// successful Load; mutated only during Load.
func (e *Engine) Metadata() Metadata { return e.meta }

// Load validates the path, dispatches on the file extension, and returns
// the normalized table. Detection steps never fail a load; unreadable
// content does.
func (e *Engine) Load(ctx context.Context) (*frame.Frame, error) {
	if err := e.validate(); err != nil {
		return nil, err
	}

	format := FormatForPath(e.src.Path)
	if format == FormatUnknown {
		return nil, tlerrors.UnsupportedFormat(filepath.Ext(e.src.Path))
	}
	e.src.Format = format
	e.meta = Metadata{Encoding: detect.DefaultEncoding.String()}

	fr, skipped, err := loaders[format](e, ctx)
	if err != nil {
		return nil, err
	}
	e.meta.SkippedRows = skipped

	slog.Debug("source loaded",
		"path", e.src.Path,
		"format", format.String(),
		"encoding", e.meta.Encoding,
		"rows", fr.NumRows(),
		"columns", fr.NumCols(),
		"skipped", skipped)
	return fr, nil
}

func (e *Engine) validate() error {
	info, err := os.Stat(e.src.Path)
	if err != nil {
		if os.IsNotExist(err) {
			return tlerrors.NotFound(e.src.Path)
		}
		return tlerrors.Wrap(err, tlerrors.CodeNotFound, "cannot stat path").
			WithContext("path", e.src.Path)
	}
	if !info.Mode().IsRegular() {
		return tlerrors.InvalidTarget(e.src.Path)
	}
	return nil
}

// readPrefix reads up to n bytes from the start of the file.
func readPrefix(path string, n int) ([]byte, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	buf := make([]byte, n)
	read, err := io.ReadFull(f, buf)
	if err != nil && err != io.EOF && err != io.ErrUnexpectedEOF {
		return nil, err
	}
	return buf[:read], nil
}
