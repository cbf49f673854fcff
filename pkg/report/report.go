// Package report renders an exploratory-data-analysis HTML document from a
// normalized frame: dataset overview, variable catalog, Spearman
// correlations, and Tukey outlier fences. Sections render concurrently and
// assemble into one self-contained page.
package report

import (
	"bytes"
	"context"
	"fmt"
	"html/template"
	"os"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	tlerrors "github.com/tablens/tablens/pkg/errors"
	"github.com/tablens/tablens/pkg/frame"
	"github.com/tablens/tablens/pkg/ingest"
	"github.com/tablens/tablens/pkg/profile"
)

// Options tune report rendering.
type Options struct {
	// Theme is "light" or "dark".
	Theme string
	// CorrelationThreshold is the |rho| cutoff for the significant-pair
	// list. DefaultCorrelationThreshold when zero.
	CorrelationThreshold float64
	// PreviewRows is the number of head/tail rows shown. 5 when zero.
	PreviewRows int
}

// DefaultOptions returns the standard rendering options.
func DefaultOptions() Options {
	return Options{
		Theme:                "light",
		CorrelationThreshold: profile.DefaultCorrelationThreshold,
		PreviewRows:          5,
	}
}

func (o Options) theme() string {
	if o.Theme == "dark" {
		return "dark"
	}
	return "light"
}

func (o Options) threshold() float64 {
	if o.CorrelationThreshold == 0 {
		return profile.DefaultCorrelationThreshold
	}
	return o.CorrelationThreshold
}

func (o Options) previewRows() int {
	if o.PreviewRows <= 0 {
		return 5
	}
	return o.PreviewRows
}

// Report is a rendered document plus the inputs that produced it.
type Report struct {
	BuildID  string
	Theme    string
	FileName string
	Meta     ingest.Metadata
	HTML     []byte
}

// Build profiles the frame and renders the full document. The four
// sections render concurrently; the first failure aborts the build.
func Build(ctx context.Context, fr *frame.Frame, meta ingest.Metadata, fileName string, opts Options) (*Report, error) {
	if ctx.Err() != nil {
		return nil, tlerrors.ContextCanceled("report build")
	}

	vars := profile.Catalog(fr)
	overview := profile.Summarize(fr, vars)

	var overviewHTML, summaryHTML, corrHTML, outlierHTML template.HTML

	var g errgroup.Group
	g.Go(func() error {
		var err error
		overviewHTML, err = renderOverview(fr, overview, fileName, meta, opts.previewRows())
		return err
	})
	g.Go(func() error {
		var err error
		summaryHTML, err = renderSummary(vars)
		return err
	})
	g.Go(func() error {
		var err error
		corrHTML, err = renderCorrelations(profile.Correlate(fr), opts.threshold())
		return err
	})
	g.Go(func() error {
		var err error
		outlierHTML, err = renderOutliers(profile.DetectOutliers(fr))
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}

	page := pageData{
		Theme:        opts.theme(),
		FileName:     fileName,
		Overview:     overviewHTML,
		Summary:      summaryHTML,
		Correlations: corrHTML,
		Outliers:     outlierHTML,
	}

	var buf bytes.Buffer
	if err := pageTmpl.Execute(&buf, page); err != nil {
		return nil, tlerrors.Wrap(err, tlerrors.CodeRenderFailed, "failed to assemble report")
	}

	return &Report{
		BuildID:  uuid.NewString(),
		Theme:    page.Theme,
		FileName: fileName,
		Meta:     meta,
		HTML:     buf.Bytes(),
	}, nil
}

// WriteFile renders and stores the report at path.
func WriteFile(ctx context.Context, fr *frame.Frame, meta ingest.Metadata, fileName, path string, opts Options) (*Report, error) {
	rep, err := Build(ctx, fr, meta, fileName, opts)
	if err != nil {
		return nil, err
	}
	if err := os.WriteFile(path, rep.HTML, 0644); err != nil {
		return nil, tlerrors.Wrap(err, tlerrors.CodeRenderFailed, fmt.Sprintf("failed to write report to %s", path))
	}
	return rep, nil
}

type pageData struct {
	Theme        string
	FileName     string
	Overview     template.HTML
	Summary      template.HTML
	Correlations template.HTML
	Outliers     template.HTML
}
