package report

import (
	"bytes"
	"fmt"
	"html/template"
	"math"

	tlerrors "github.com/tablens/tablens/pkg/errors"
	"github.com/tablens/tablens/pkg/frame"
	"github.com/tablens/tablens/pkg/ingest"
	"github.com/tablens/tablens/pkg/profile"
)

func renderSection(tmpl *template.Template, data interface{}) (template.HTML, error) {
	var buf bytes.Buffer
	if err := tmpl.Execute(&buf, data); err != nil {
		return "", tlerrors.Wrap(err, tlerrors.CodeRenderFailed,
			fmt.Sprintf("failed to render %s section", tmpl.Name()))
	}
	return template.HTML(buf.String()), nil
}

// --- Overview ---

type overviewData struct {
	FileName  string
	Encoding  string
	Delimiter string
	Loaded    int
	Omitted   int

	KPIs    profile.Overview
	Memory  string
	Columns []string
	Head    [][]string
	Tail    [][]string
}

func renderOverview(fr *frame.Frame, ov profile.Overview, fileName string, meta ingest.Metadata, previewRows int) (template.HTML, error) {
	return renderSection(overviewTmpl, overviewData{
		FileName:  fileName,
		Encoding:  meta.Encoding,
		Delimiter: meta.Delimiter,
		Loaded:    fr.NumRows(),
		Omitted:   meta.SkippedRows,
		KPIs:      ov,
		Memory:    formatBytes(ov.MemoryBytes),
		Columns:   fr.Names(),
		Head:      fr.Head(previewRows),
		Tail:      fr.Tail(previewRows),
	})
}

func formatBytes(n int64) string {
	const unit = 1024
	if n < unit {
		return fmt.Sprintf("%d B", n)
	}
	div, exp := int64(unit), 0
	for v := n / unit; v >= unit; v /= unit {
		div *= unit
		exp++
	}
	return fmt.Sprintf("%.1f %ciB", float64(n)/float64(div), "KMGTPE"[exp])
}

// --- Summary (variable catalog) ---

func renderSummary(vars []profile.Variable) (template.HTML, error) {
	return renderSection(summaryTmpl, vars)
}

// --- Correlations ---

type corrData struct {
	Columns   []string
	Rows      []corrRow
	Threshold float64
	Pairs     []profile.Pair
}

type corrRow struct {
	Name  string
	Cells []corrCell
}

type corrCell struct {
	Label string
	Style template.CSS
}

func renderCorrelations(m *profile.CorrMatrix, threshold float64) (template.HTML, error) {
	if m == nil {
		return renderSection(corrTmpl, (*corrData)(nil))
	}

	data := &corrData{
		Columns:   m.Columns,
		Threshold: threshold,
		Pairs:     m.SignificantPairs(threshold),
	}
	for i, name := range m.Columns {
		row := corrRow{Name: name, Cells: make([]corrCell, len(m.Columns))}
		for j, rho := range m.Values[i] {
			row.Cells[j] = corrCell{Label: formatRho(rho), Style: cellStyle(rho)}
		}
		data.Rows = append(data.Rows, row)
	}
	return renderSection(corrTmpl, data)
}

func formatRho(rho float64) string {
	if math.IsNaN(rho) {
		return "–"
	}
	return fmt.Sprintf("%.2f", rho)
}

// cellStyle shades a matrix cell red for positive and blue for negative
// correlation, proportional to |rho|.
func cellStyle(rho float64) template.CSS {
	if math.IsNaN(rho) {
		return ""
	}
	alpha := math.Abs(rho)
	if rho >= 0 {
		return template.CSS(fmt.Sprintf("background: rgba(214, 57, 57, %.2f)", alpha))
	}
	return template.CSS(fmt.Sprintf("background: rgba(57, 108, 214, %.2f)", alpha))
}

// --- Outliers ---

func renderOutliers(fences []profile.Fences) (template.HTML, error) {
	return renderSection(outlierTmpl, fences)
}
