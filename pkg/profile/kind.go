// Package profile computes descriptive statistics over a normalized frame:
// a per-variable catalog, dataset-level KPIs, Spearman correlations, and
// Tukey outlier fences. It consumes frames and renders nothing.
package profile

import "github.com/tablens/tablens/pkg/frame"

// Kind classifies a variable for statistics purposes. The declared column
// type narrows the candidates; cardinality decides between binary and
// categorical.
type Kind uint8

const (
	KindCategorical Kind = iota
	KindNumeric
	KindBinary
	KindDatetime
)

var kindNames = []string{"categorical", "numeric", "binary", "datetime"}

// String returns the kind name.
func (k Kind) String() string {
	if int(k) < len(kindNames) {
		return kindNames[k]
	}
	return "categorical"
}

// KindOf classifies a column. Bool columns and columns with exactly two
// distinct non-null values are binary; numeric and timestamp columns keep
// their declared type; everything else is categorical.
func KindOf(c *frame.Column) Kind {
	if c.Type() == frame.TypeBool {
		return KindBinary
	}
	if distinctCount(c, 3) == 2 {
		return KindBinary
	}
	if c.Type().IsNumeric() {
		return KindNumeric
	}
	if c.Type() == frame.TypeTime {
		return KindDatetime
	}
	return KindCategorical
}

// distinctCount counts distinct non-null values, stopping at limit.
func distinctCount(c *frame.Column, limit int) int {
	seen := make(map[string]struct{}, limit)
	for i := 0; i < c.Len(); i++ {
		if c.IsNull(i) {
			continue
		}
		seen[c.Format(i)] = struct{}{}
		if len(seen) >= limit {
			break
		}
	}
	return len(seen)
}
