package profile

import (
	"math"
	"testing"
	"time"

	"github.com/tablens/tablens/pkg/frame"
)

func floatColumn(t *testing.T, name string, values ...float64) *frame.Column {
	t.Helper()
	b := frame.NewBuilder(name, frame.TypeFloat)
	for _, v := range values {
		b.AppendFloat(v)
	}
	return b.Finish()
}

func stringColumn(t *testing.T, name string, values ...string) *frame.Column {
	t.Helper()
	b := frame.NewBuilder(name, frame.TypeString)
	for _, v := range values {
		if v == "" {
			b.AppendNull()
		} else {
			b.AppendString(v)
		}
	}
	return b.Finish()
}

func almost(a, b float64) bool {
	return math.Abs(a-b) < 1e-9
}

func TestNumericStats(t *testing.T) {
	// 1..5 with one outlier-free shape: quartiles via linear interpolation.
	col := floatColumn(t, "x", 1, 2, 3, 4, 5)
	s := Numeric(col)
	if s == nil {
		t.Fatal("expected stats")
	}

	if !almost(s.Mean, 3) {
		t.Errorf("mean = %v, want 3", s.Mean)
	}
	if !almost(s.Median, 3) {
		t.Errorf("median = %v, want 3", s.Median)
	}
	if !almost(s.Q1, 2) || !almost(s.Q3, 4) {
		t.Errorf("quartiles = %v, %v, want 2, 4", s.Q1, s.Q3)
	}
	if !almost(s.IQR, 2) || !almost(s.Range, 4) {
		t.Errorf("iqr = %v range = %v, want 2, 4", s.IQR, s.Range)
	}
	if !almost(s.Variance, 2.5) {
		t.Errorf("variance = %v, want 2.5", s.Variance)
	}
	if s.Outliers != 0 {
		t.Errorf("outliers = %d, want 0", s.Outliers)
	}
}

func TestNumericOutlierCount(t *testing.T) {
	col := floatColumn(t, "x", 1, 2, 3, 4, 5, 6, 7, 8, 100)
	s := Numeric(col)
	if s == nil {
		t.Fatal("expected stats")
	}
	if s.Outliers != 1 {
		t.Errorf("outliers = %d, want 1", s.Outliers)
	}
}

func TestNumericEmptyColumn(t *testing.T) {
	b := frame.NewBuilder("x", frame.TypeFloat)
	b.AppendNull()
	if s := Numeric(b.Finish()); s != nil {
		t.Errorf("expected nil stats for all-null column, got %+v", s)
	}
}

func TestCategoricalStats(t *testing.T) {
	col := stringColumn(t, "city", "paris", "paris", "rome", "oslo")
	s := Categorical(col)
	if s == nil {
		t.Fatal("expected stats")
	}
	if s.Top != "paris" || s.TopFreq != 2 {
		t.Errorf("top = %q/%d, want paris/2", s.Top, s.TopFreq)
	}
	if !almost(s.TopPct, 50) {
		t.Errorf("top pct = %v, want 50", s.TopPct)
	}
	if s.MaxLength != 5 {
		t.Errorf("max length = %d, want 5", s.MaxLength)
	}
	if s.NumericLike {
		t.Error("city names flagged numeric-like")
	}
}

func TestCategoricalNumericLike(t *testing.T) {
	col := stringColumn(t, "zip", "10", "20", "30", "40")
	s := Categorical(col)
	if !s.NumericLike {
		t.Error("all-digit column not flagged numeric-like")
	}
}

func TestBinaryStats(t *testing.T) {
	col := stringColumn(t, "flag", "y", "y", "y", "n")
	s := Binary(col)
	if s.Top != "y" || s.TopFreq != 3 {
		t.Errorf("top = %q/%d, want y/3", s.Top, s.TopFreq)
	}
	if !almost(s.Balance, 75) {
		t.Errorf("balance = %v, want 75", s.Balance)
	}
}

func TestDatetimeStats(t *testing.T) {
	b := frame.NewBuilder("ts", frame.TypeTime)
	b.AppendTime(time.Date(2020, 1, 1, 0, 0, 0, 0, time.UTC))
	b.AppendTime(time.Date(2020, 1, 11, 12, 30, 0, 0, time.UTC))
	s := Datetime(b.Finish())
	if s == nil {
		t.Fatal("expected stats")
	}
	if s.RangeDays != 10 {
		t.Errorf("range days = %d, want 10", s.RangeDays)
	}
	if !s.HasTime {
		t.Error("12:30 value not flagged as carrying a time component")
	}
	if s.FutureDates != 0 {
		t.Errorf("future dates = %d, want 0", s.FutureDates)
	}
}

func TestKindOf(t *testing.T) {
	boolB := frame.NewBuilder("b", frame.TypeBool)
	boolB.AppendBool(true)

	cases := []struct {
		col  *frame.Column
		want Kind
	}{
		{floatColumn(t, "x", 1, 2, 3), KindNumeric},
		{floatColumn(t, "two", 0, 1, 0, 1), KindBinary},
		{stringColumn(t, "s", "a", "b", "c"), KindCategorical},
		{stringColumn(t, "yn", "y", "n", "y"), KindBinary},
		{boolB.Finish(), KindBinary},
	}
	for _, tc := range cases {
		if got := KindOf(tc.col); got != tc.want {
			t.Errorf("KindOf(%s) = %s, want %s", tc.col.Name(), got, tc.want)
		}
	}
}

func TestCatalogFlags(t *testing.T) {
	constant := stringColumn(t, "const", "a", "a", "a", "a")
	mixed := stringColumn(t, "mixed", "a", "", "b", "c")

	f, err := frame.New(constant, mixed)
	if err != nil {
		t.Fatal(err)
	}

	vars := Catalog(f)
	if len(vars) != 2 {
		t.Fatalf("catalog has %d entries, want 2", len(vars))
	}

	if !vars[0].Constant {
		t.Error("single-valued column not flagged constant")
	}
	if vars[1].Nulls != 1 || !almost(vars[1].NullPct, 25) {
		t.Errorf("nulls = %d (%.1f%%), want 1 (25%%)", vars[1].Nulls, vars[1].NullPct)
	}
	if vars[0].Quality != QualityGood {
		t.Errorf("quality = %s, want good", vars[0].Quality)
	}
}

func TestSummarizeKPIs(t *testing.T) {
	a := stringColumn(t, "a", "x", "x", "y", "x")
	b := stringColumn(t, "b", "1", "1", "2", "1")

	f, err := frame.New(a, b)
	if err != nil {
		t.Fatal(err)
	}

	ov := Summarize(f, Catalog(f))
	if ov.Rows != 4 || ov.Columns != 2 {
		t.Errorf("shape = %dx%d, want 4x2", ov.Rows, ov.Columns)
	}
	// Rows 0, 1, 3 are identical; two of them are duplicates.
	if !almost(ov.DuplicatePct, 50) {
		t.Errorf("duplicate pct = %v, want 50", ov.DuplicatePct)
	}
	if ov.MissingPct != 0 {
		t.Errorf("missing pct = %v, want 0", ov.MissingPct)
	}
}

func TestSpearmanMonotonic(t *testing.T) {
	x := floatColumn(t, "x", 1, 2, 3, 4, 5)
	up := floatColumn(t, "up", 10, 100, 1000, 10000, 100000)
	down := floatColumn(t, "down", 9, 7, 5, 3, 1)

	f, err := frame.New(x, up, down)
	if err != nil {
		t.Fatal(err)
	}

	m := Correlate(f)
	if m == nil {
		t.Fatal("expected matrix")
	}

	get := func(a, b string) float64 {
		var ai, bi int
		for i, c := range m.Columns {
			if c == a {
				ai = i
			}
			if c == b {
				bi = i
			}
		}
		return m.Values[ai][bi]
	}

	if rho := get("x", "up"); !almost(rho, 1) {
		t.Errorf("rho(x, up) = %v, want 1", rho)
	}
	if rho := get("x", "down"); !almost(rho, -1) {
		t.Errorf("rho(x, down) = %v, want -1", rho)
	}
}

func TestSpearmanNeedsThreeCompleteRows(t *testing.T) {
	// Nulls leave only two rows where both columns hold values; two points
	// always correlate at exactly 1, so the cell must stay NaN and out of
	// the significant list.
	x := frame.NewBuilder("x", frame.TypeFloat)
	y := frame.NewBuilder("y", frame.TypeFloat)
	x.AppendFloat(1)
	y.AppendFloat(10)
	x.AppendFloat(2)
	y.AppendFloat(20)
	x.AppendFloat(3)
	y.AppendNull()
	x.AppendNull()
	y.AppendFloat(40)

	f, err := frame.New(x.Finish(), y.Finish())
	if err != nil {
		t.Fatal(err)
	}

	m := Correlate(f)
	if m == nil {
		t.Fatal("expected matrix")
	}
	if !math.IsNaN(m.Values[0][1]) {
		t.Errorf("rho = %v, want NaN for two complete rows", m.Values[0][1])
	}
	if pairs := m.SignificantPairs(DefaultCorrelationThreshold); len(pairs) != 0 {
		t.Errorf("pairs = %v, want none", pairs)
	}
}

func TestCorrelateNeedsTwoNumericColumns(t *testing.T) {
	x := floatColumn(t, "x", 1, 2, 3)
	s := stringColumn(t, "s", "a", "b", "c")

	f, err := frame.New(x, s)
	if err != nil {
		t.Fatal(err)
	}
	if m := Correlate(f); m != nil {
		t.Errorf("expected nil matrix, got %d columns", len(m.Columns))
	}
}

func TestSignificantPairs(t *testing.T) {
	m := &CorrMatrix{
		Columns: []string{"a", "b", "c"},
		Values: [][]float64{
			{1, 0.9, 0.2},
			{0.9, 1, -0.7},
			{0.2, -0.7, 1},
		},
	}

	pairs := m.SignificantPairs(DefaultCorrelationThreshold)
	if len(pairs) != 2 {
		t.Fatalf("got %d pairs, want 2", len(pairs))
	}
	if pairs[0].A != "a" || pairs[0].B != "b" {
		t.Errorf("strongest pair = %s/%s, want a/b", pairs[0].A, pairs[0].B)
	}
	if !almost(pairs[1].Rho, -0.7) {
		t.Errorf("second pair rho = %v, want -0.7", pairs[1].Rho)
	}
}

func TestDetectOutliersFences(t *testing.T) {
	col := floatColumn(t, "x", 1, 2, 3, 4, 5, 6, 7, 8, 100)
	other := stringColumn(t, "label", "a", "b", "c", "d", "e", "f", "g", "h", "i")

	f, err := frame.New(col, other)
	if err != nil {
		t.Fatal(err)
	}

	fences := DetectOutliers(f)
	if len(fences) != 1 {
		t.Fatalf("got %d fence sets, want 1 (numeric columns only)", len(fences))
	}
	if fences[0].Column != "x" {
		t.Errorf("column = %q, want x", fences[0].Column)
	}
	if fences[0].Count != 1 {
		t.Errorf("outlier count = %d, want 1", fences[0].Count)
	}
	if len(fences[0].Extremes) != 1 || fences[0].Extremes[0] != 100 {
		t.Errorf("extremes = %v, want [100]", fences[0].Extremes)
	}
	if fences[0].Lower >= fences[0].Q1 || fences[0].Upper <= fences[0].Q3 {
		t.Errorf("fences %v..%v do not bracket quartiles %v..%v",
			fences[0].Lower, fences[0].Upper, fences[0].Q1, fences[0].Q3)
	}
}

func TestRankAveragesTies(t *testing.T) {
	ranks := rank([]float64{10, 20, 20, 30})
	want := []float64{1, 2.5, 2.5, 4}
	for i := range want {
		if !almost(ranks[i], want[i]) {
			t.Errorf("rank[%d] = %v, want %v", i, ranks[i], want[i])
		}
	}
}
