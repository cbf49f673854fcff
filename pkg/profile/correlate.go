package profile

import (
	"math"
	"sort"

	"github.com/tablens/tablens/pkg/frame"
)

// DefaultCorrelationThreshold is the |rho| cutoff for significant pairs.
const DefaultCorrelationThreshold = 0.5

// CorrMatrix is a symmetric Spearman correlation matrix over the numeric
// columns of a frame. Cells with fewer than three complete observations
// are NaN; two points always land on exactly ±1.
type CorrMatrix struct {
	Columns []string
	Values  [][]float64 // row-major, Values[i][j]
}

// Pair is one significant correlation.
type Pair struct {
	A, B string
	Rho  float64
}

// Correlate computes the Spearman rank correlation matrix over all numeric
// columns. Each cell uses the rows where both columns are non-null. Returns
// nil when fewer than two numeric columns exist.
func Correlate(f *frame.Frame) *CorrMatrix {
	var cols []*frame.Column
	for i := 0; i < f.NumCols(); i++ {
		c := f.ColumnAt(i)
		if c.Type().IsNumeric() {
			cols = append(cols, c)
		}
	}
	if len(cols) < 2 {
		return nil
	}

	m := &CorrMatrix{
		Columns: make([]string, len(cols)),
		Values:  make([][]float64, len(cols)),
	}
	for i, c := range cols {
		m.Columns[i] = c.Name()
		m.Values[i] = make([]float64, len(cols))
	}

	for i := range cols {
		m.Values[i][i] = 1
		for j := i + 1; j < len(cols); j++ {
			rho := spearman(cols[i], cols[j])
			m.Values[i][j] = rho
			m.Values[j][i] = rho
		}
	}
	return m
}

// SignificantPairs lists the upper-triangle pairs with |rho| above the
// threshold, strongest first.
func (m *CorrMatrix) SignificantPairs(threshold float64) []Pair {
	var pairs []Pair
	for i := range m.Columns {
		for j := i + 1; j < len(m.Columns); j++ {
			rho := m.Values[i][j]
			if !math.IsNaN(rho) && math.Abs(rho) > threshold {
				pairs = append(pairs, Pair{A: m.Columns[i], B: m.Columns[j], Rho: rho})
			}
		}
	}
	sort.Slice(pairs, func(a, b int) bool {
		return math.Abs(pairs[a].Rho) > math.Abs(pairs[b].Rho)
	})
	return pairs
}

// spearman is the Pearson correlation of the two columns' ranks, over rows
// where both columns hold values. Ties take the average rank.
func spearman(a, b *frame.Column) float64 {
	var xs, ys []float64
	for i := 0; i < a.Len(); i++ {
		x, okX := a.Float(i)
		y, okY := b.Float(i)
		if okX && okY {
			xs = append(xs, x)
			ys = append(ys, y)
		}
	}
	if len(xs) < 3 {
		return math.NaN()
	}
	return pearson(rank(xs), rank(ys))
}

// rank assigns 1-based ranks with average ties.
func rank(values []float64) []float64 {
	idx := make([]int, len(values))
	for i := range idx {
		idx[i] = i
	}
	sort.Slice(idx, func(a, b int) bool { return values[idx[a]] < values[idx[b]] })

	ranks := make([]float64, len(values))
	for i := 0; i < len(idx); {
		j := i
		for j+1 < len(idx) && values[idx[j+1]] == values[idx[i]] {
			j++
		}
		avg := float64(i+j)/2 + 1
		for k := i; k <= j; k++ {
			ranks[idx[k]] = avg
		}
		i = j + 1
	}
	return ranks
}

func pearson(xs, ys []float64) float64 {
	n := float64(len(xs))
	var sumX, sumY float64
	for i := range xs {
		sumX += xs[i]
		sumY += ys[i]
	}
	meanX, meanY := sumX/n, sumY/n

	var cov, varX, varY float64
	for i := range xs {
		dx, dy := xs[i]-meanX, ys[i]-meanY
		cov += dx * dy
		varX += dx * dx
		varY += dy * dy
	}
	if varX == 0 || varY == 0 {
		return math.NaN()
	}
	return cov / math.Sqrt(varX*varY)
}
