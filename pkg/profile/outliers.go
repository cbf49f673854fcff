package profile

import (
	"sort"

	"github.com/tablens/tablens/pkg/frame"
)

// TukeyFactor is the IQR multiplier for outlier fences.
const TukeyFactor = 1.5

// Fences holds the Tukey outlier fences for one numeric column.
type Fences struct {
	Column   string  `json:"column"`
	Lower    float64 `json:"lower"`
	Q1       float64 `json:"q1"`
	Median   float64 `json:"median"`
	Q3       float64 `json:"q3"`
	Upper    float64 `json:"upper"`
	Count    int     `json:"count"` // values outside the fences
	Pct      float64 `json:"pct"`
	Extremes []float64 `json:"extremes,omitempty"` // up to 5 most extreme outliers
}

// DetectOutliers computes Tukey fences (Q1 - 1.5*IQR, Q3 + 1.5*IQR) for
// every numeric column with at least one value.
func DetectOutliers(f *frame.Frame) []Fences {
	var out []Fences
	for i := 0; i < f.NumCols(); i++ {
		c := f.ColumnAt(i)
		if !c.Type().IsNumeric() {
			continue
		}
		if fences, ok := tukey(c); ok {
			out = append(out, fences)
		}
	}
	return out
}

func tukey(c *frame.Column) (Fences, bool) {
	values := c.Floats()
	if len(values) == 0 {
		return Fences{}, false
	}

	sorted := append([]float64(nil), values...)
	sort.Float64s(sorted)

	q1 := quantile(sorted, 0.25)
	q3 := quantile(sorted, 0.75)
	iqr := q3 - q1

	fences := Fences{
		Column: c.Name(),
		Lower:  q1 - TukeyFactor*iqr,
		Q1:     q1,
		Median: quantile(sorted, 0.5),
		Q3:     q3,
		Upper:  q3 + TukeyFactor*iqr,
	}

	var outliers []float64
	for _, v := range values {
		if v < fences.Lower || v > fences.Upper {
			outliers = append(outliers, v)
		}
	}
	fences.Count = len(outliers)
	fences.Pct = float64(len(outliers)) / float64(len(values)) * 100

	// Most extreme first: distance from the nearest fence.
	sort.Slice(outliers, func(a, b int) bool {
		return fenceDistance(fences, outliers[a]) > fenceDistance(fences, outliers[b])
	})
	if len(outliers) > 5 {
		outliers = outliers[:5]
	}
	fences.Extremes = outliers

	return fences, true
}

func fenceDistance(f Fences, v float64) float64 {
	if v < f.Lower {
		return f.Lower - v
	}
	return v - f.Upper
}
