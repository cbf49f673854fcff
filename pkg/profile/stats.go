package profile

import (
	"math"
	"sort"
	"strconv"
	"time"

	"github.com/tablens/tablens/pkg/frame"
)

// NumericStats describes a numeric variable.
type NumericStats struct {
	Mean       float64 `json:"mean"`
	Median     float64 `json:"median"`
	Std        float64 `json:"std"`
	Variance   float64 `json:"variance"`
	Min        float64 `json:"min"`
	Q1         float64 `json:"q1"`
	Q3         float64 `json:"q3"`
	Max        float64 `json:"max"`
	Range      float64 `json:"range"`
	IQR        float64 `json:"iqr"`
	CoefVar    float64 `json:"coef_var"`
	Skewness   float64 `json:"skewness"`
	Kurtosis   float64 `json:"kurtosis"`
	Outliers   int     `json:"outliers"`
	OutlierPct float64 `json:"outlier_pct"`
}

// CategoricalStats describes a categorical variable.
type CategoricalStats struct {
	Top            string  `json:"top"`
	TopFreq        int     `json:"top_freq"`
	TopPct         float64 `json:"top_pct"`
	RareCategories int     `json:"rare_categories"` // categories below 1% of rows
	AvgLength      float64 `json:"avg_length"`
	MaxLength      int     `json:"max_length"`
	NumericLike    bool    `json:"numeric_like"`  // >90% of values parse as numbers
	DatetimeLike   bool    `json:"datetime_like"` // >60% of values parse as timestamps
}

// BinaryStats describes a two-valued variable.
type BinaryStats struct {
	Top     string  `json:"top"`
	TopFreq int     `json:"top_freq"`
	TopPct  float64 `json:"top_pct"`
	Balance float64 `json:"balance"` // majority share, in [50, 100]
}

// DatetimeStats describes a timestamp variable.
type DatetimeStats struct {
	Min         time.Time `json:"min"`
	Max         time.Time `json:"max"`
	RangeDays   int       `json:"range_days"`
	HasTime     bool      `json:"has_time"`
	FutureDates int       `json:"future_dates"`
}

// Numeric computes stats over the non-null values of a numeric column.
// Returns nil when the column holds no values.
func Numeric(c *frame.Column) *NumericStats {
	values := c.Floats()
	if len(values) == 0 {
		return nil
	}

	sorted := append([]float64(nil), values...)
	sort.Float64s(sorted)

	n := float64(len(sorted))
	min, max := sorted[0], sorted[len(sorted)-1]
	q1 := quantile(sorted, 0.25)
	median := quantile(sorted, 0.5)
	q3 := quantile(sorted, 0.75)
	iqr := q3 - q1

	var sum float64
	for _, v := range sorted {
		sum += v
	}
	mean := sum / n

	var m2, m3, m4 float64
	for _, v := range sorted {
		d := v - mean
		m2 += d * d
		m3 += d * d * d
		m4 += d * d * d * d
	}

	variance := 0.0
	if len(sorted) > 1 {
		variance = m2 / (n - 1) // sample variance
	}
	std := math.Sqrt(variance)

	coefVar := 0.0
	if mean != 0 {
		coefVar = std / mean
	}

	outliers := 0
	if iqr > 0 {
		lower, upper := q1-1.5*iqr, q3+1.5*iqr
		for _, v := range sorted {
			if v < lower || v > upper {
				outliers++
			}
		}
	}

	return &NumericStats{
		Mean:       mean,
		Median:     median,
		Std:        std,
		Variance:   variance,
		Min:        min,
		Q1:         q1,
		Q3:         q3,
		Max:        max,
		Range:      max - min,
		IQR:        iqr,
		CoefVar:    coefVar,
		Skewness:   skewness(m2, m3, len(sorted)),
		Kurtosis:   kurtosis(m2, m4, len(sorted)),
		Outliers:   outliers,
		OutlierPct: float64(outliers) / n * 100,
	}
}

// quantile interpolates linearly between order statistics. sorted must be
// ascending and non-empty.
func quantile(sorted []float64, q float64) float64 {
	if len(sorted) == 1 {
		return sorted[0]
	}
	pos := q * float64(len(sorted)-1)
	lo := int(math.Floor(pos))
	hi := int(math.Ceil(pos))
	if lo == hi {
		return sorted[lo]
	}
	frac := pos - float64(lo)
	return sorted[lo]*(1-frac) + sorted[hi]*frac
}

// skewness is the bias-corrected sample skewness (Fisher-Pearson G1).
func skewness(m2, m3 float64, count int) float64 {
	if count < 3 || m2 == 0 {
		return 0
	}
	n := float64(count)
	g1 := (m3 / n) / math.Pow(m2/n, 1.5)
	return g1 * math.Sqrt(n*(n-1)) / (n - 2)
}

// kurtosis is the bias-corrected excess kurtosis (G2).
func kurtosis(m2, m4 float64, count int) float64 {
	if count < 4 || m2 == 0 {
		return 0
	}
	n := float64(count)
	g2 := (m4/n)/math.Pow(m2/n, 2) - 3
	return ((n+1)*g2 + 6) * (n - 1) / ((n - 2) * (n - 3))
}

// Categorical computes stats over the non-null values of a column treated
// as categories. Returns nil when the column holds no values.
func Categorical(c *frame.Column) *CategoricalStats {
	counts := make(map[string]int)
	total := 0
	var totalLen, maxLen int
	numericLike, datetimeLike := 0, 0

	for i := 0; i < c.Len(); i++ {
		if c.IsNull(i) {
			continue
		}
		v := c.Format(i)
		counts[v]++
		total++
		totalLen += len(v)
		if len(v) > maxLen {
			maxLen = len(v)
		}
		if _, err := strconv.ParseFloat(v, 64); err == nil {
			numericLike++
		}
		if _, ok := frame.ParseTime(v); ok {
			datetimeLike++
		}
	}
	if total == 0 {
		return nil
	}

	top, topFreq := topCategory(counts)
	rare := 0
	for _, n := range counts {
		if float64(n)/float64(total) < 0.01 {
			rare++
		}
	}

	return &CategoricalStats{
		Top:            top,
		TopFreq:        topFreq,
		TopPct:         float64(topFreq) / float64(total) * 100,
		RareCategories: rare,
		AvgLength:      float64(totalLen) / float64(total),
		MaxLength:      maxLen,
		NumericLike:    float64(numericLike)/float64(total) > 0.9,
		DatetimeLike:   float64(datetimeLike)/float64(total) > 0.6,
	}
}

// Binary computes stats for a two-valued variable. Returns nil when the
// column holds no values.
func Binary(c *frame.Column) *BinaryStats {
	counts := make(map[string]int)
	total := 0
	for i := 0; i < c.Len(); i++ {
		if c.IsNull(i) {
			continue
		}
		counts[c.Format(i)]++
		total++
	}
	if total == 0 {
		return nil
	}

	top, topFreq := topCategory(counts)
	topPct := float64(topFreq) / float64(total) * 100
	balance := topPct
	if balance < 50 {
		balance = 100 - balance
	}

	return &BinaryStats{
		Top:     top,
		TopFreq: topFreq,
		TopPct:  topPct,
		Balance: balance,
	}
}

// Datetime computes stats over the non-null values of a timestamp column.
// Returns nil when the column holds no values.
func Datetime(c *frame.Column) *DatetimeStats {
	var stats DatetimeStats
	now := time.Now()
	seen := false

	for i := 0; i < c.Len(); i++ {
		t, ok := c.Time(i)
		if !ok {
			continue
		}
		if !seen {
			stats.Min, stats.Max = t, t
			seen = true
		}
		if t.Before(stats.Min) {
			stats.Min = t
		}
		if t.After(stats.Max) {
			stats.Max = t
		}
		hh, mm, ss := t.Clock()
		if hh != 0 || mm != 0 || ss != 0 {
			stats.HasTime = true
		}
		if t.After(now) {
			stats.FutureDates++
		}
	}
	if !seen {
		return nil
	}

	stats.RangeDays = int(stats.Max.Sub(stats.Min).Hours() / 24)
	return &stats
}

// topCategory returns the most frequent value. Ties break toward the
// lexically smaller value so results are deterministic.
func topCategory(counts map[string]int) (string, int) {
	var top string
	topFreq := -1
	for v, n := range counts {
		if n > topFreq || (n == topFreq && v < top) {
			top, topFreq = v, n
		}
	}
	return top, topFreq
}
