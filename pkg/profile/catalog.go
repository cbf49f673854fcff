package profile

import (
	"strings"

	"github.com/tablens/tablens/pkg/frame"
)

// HighCardinalityThreshold is the distinct-value count above which a
// variable is flagged high-cardinality.
const HighCardinalityThreshold = 50

// Quality grades a variable or the whole dataset.
type Quality string

const (
	QualityGood   Quality = "good"
	QualityMedium Quality = "medium"
	QualityBad    Quality = "bad"
)

// Variable is one catalog entry: classification, completeness, cardinality,
// and the kind-specific stats block (exactly one of the four is non-nil for
// a column with any values).
type Variable struct {
	Name            string  `json:"name"`
	Kind            Kind    `json:"-"`
	KindName        string  `json:"kind"`
	NonNull         int     `json:"non_null"`
	Nulls           int     `json:"nulls"`
	NullPct         float64 `json:"null_pct"`
	Unique          int     `json:"unique"`
	UniquePct       float64 `json:"unique_pct"`
	Constant        bool    `json:"constant"`
	QuasiConstant   bool    `json:"quasi_constant"`
	HighCardinality bool    `json:"high_cardinality"`
	Quality         Quality `json:"quality"`

	Numeric     *NumericStats     `json:"numeric,omitempty"`
	Categorical *CategoricalStats `json:"categorical,omitempty"`
	Binary      *BinaryStats      `json:"binary,omitempty"`
	Datetime    *DatetimeStats    `json:"datetime,omitempty"`
}

// Catalog profiles every column of the frame, in column order.
func Catalog(f *frame.Frame) []Variable {
	vars := make([]Variable, 0, f.NumCols())
	for i := 0; i < f.NumCols(); i++ {
		vars = append(vars, profileColumn(f.ColumnAt(i), f.NumRows()))
	}
	return vars
}

func profileColumn(c *frame.Column, total int) Variable {
	kind := KindOf(c)
	nulls := c.NullCount()
	nonNull := total - nulls
	unique := distinctCount(c, total+1)

	v := Variable{
		Name:     c.Name(),
		Kind:     kind,
		KindName: kind.String(),
		NonNull:  nonNull,
		Nulls:    nulls,
	}
	if total > 0 {
		v.NullPct = float64(nulls) / float64(total) * 100
		v.UniquePct = float64(unique) / float64(total) * 100
	}
	v.Unique = unique
	v.Constant = unique <= 1
	v.QuasiConstant = unique <= 3 && v.UniquePct < 5
	v.HighCardinality = unique > HighCardinalityThreshold

	outlierPct := 0.0
	switch kind {
	case KindNumeric:
		v.Numeric = Numeric(c)
		if v.Numeric != nil {
			outlierPct = v.Numeric.OutlierPct
		}
	case KindBinary:
		v.Binary = Binary(c)
	case KindDatetime:
		v.Datetime = Datetime(c)
	default:
		v.Categorical = Categorical(c)
	}

	v.Quality = qualityFlag(v.NullPct, v.HighCardinality, outlierPct)
	return v
}

func qualityFlag(nullPct float64, highCard bool, outlierPct float64) Quality {
	if nullPct < 5 && !highCard && outlierPct < 5 {
		return QualityGood
	}
	if nullPct < 20 && outlierPct < 15 {
		return QualityMedium
	}
	return QualityBad
}

// Overview holds dataset-level KPIs.
type Overview struct {
	Rows            int     `json:"rows"`
	Columns         int     `json:"columns"`
	MissingPct      float64 `json:"missing_pct"`
	DuplicatePct    float64 `json:"duplicate_pct"`
	HighCardinality int     `json:"high_cardinality"`
	MemoryBytes     int64   `json:"memory_bytes"`
	Quality         Quality `json:"quality"`
}

// Summarize computes dataset KPIs from the frame and its catalog.
func Summarize(f *frame.Frame, vars []Variable) Overview {
	rows, cols := f.NumRows(), f.NumCols()

	ov := Overview{
		Rows:        rows,
		Columns:     cols,
		MemoryBytes: f.MemoryFootprint(),
	}

	if rows > 0 && cols > 0 {
		nulls := 0
		for _, v := range vars {
			nulls += v.Nulls
			if v.HighCardinality {
				ov.HighCardinality++
			}
		}
		ov.MissingPct = float64(nulls) / float64(rows*cols) * 100
		ov.DuplicatePct = float64(duplicateRows(f)) / float64(rows) * 100
	}

	switch {
	case ov.MissingPct < 5 && ov.DuplicatePct < 1:
		ov.Quality = QualityGood
	case ov.MissingPct < 15:
		ov.Quality = QualityMedium
	default:
		ov.Quality = QualityBad
	}
	return ov
}

// duplicateRows counts rows identical to an earlier row.
func duplicateRows(f *frame.Frame) int {
	seen := make(map[string]struct{}, f.NumRows())
	dups := 0
	for i := 0; i < f.NumRows(); i++ {
		key := strings.Join(f.Row(i), "\x1f")
		if _, ok := seen[key]; ok {
			dups++
			continue
		}
		seen[key] = struct{}{}
	}
	return dups
}
