package analysis

import (
	"math"

	"github.com/KaramelBytes/dataloom-cli/internal/dataset"
)

// CorrMatrix holds a symmetric Pearson correlation matrix across numeric columns.
type CorrMatrix struct {
	Columns []string    `json:"columns"`
	Values  [][]float64 `json:"values"` // row-major, Values[i][j]
}

// At returns the coefficient for the named pair.
func (m *CorrMatrix) At(a, b string) (float64, bool) {
	i, j := -1, -1
	for k, c := range m.Columns {
		if c == a {
			i = k
		}
		if c == b {
			j = k
		}
	}
	if i < 0 || j < 0 {
		return 0, false
	}
	return m.Values[i][j], true
}

// pairAcc accumulates sums for one column pair over rows where both are present.
type pairAcc struct {
	n     float64
	sumX  float64
	sumY  float64
	sumXX float64
	sumYY float64
	sumXY float64
}

func (pa *pairAcc) add(x, y float64) {
	pa.n++
	pa.sumX += x
	pa.sumY += y
	pa.sumXX += x * x
	pa.sumYY += y * y
	pa.sumXY += x * y
}

// r returns the Pearson coefficient clamped to [-1, 1]. Undefined
// coefficients (fewer than two rows, zero variance) are reported as 0.
func (pa *pairAcc) r() float64 {
	if pa.n < 2 {
		return 0
	}
	denom := math.Sqrt((pa.n*pa.sumXX - pa.sumX*pa.sumX) * (pa.n*pa.sumYY - pa.sumY*pa.sumY))
	if denom == 0 {
		return 0
	}
	r := (pa.n*pa.sumXY - pa.sumX*pa.sumY) / denom
	if math.IsNaN(r) || math.IsInf(r, 0) {
		return 0
	}
	return math.Max(-1, math.Min(1, r))
}

// Correlation computes the Pearson matrix over the named numeric columns of
// view using pairwise-complete rows. The diagonal is 1 by definition.
// Unknown or non-numeric columns are skipped.
func Correlation(view *dataset.Dataset, columns []string) *CorrMatrix {
	var cols []*dataset.Column
	for _, name := range columns {
		if c, ok := view.Column(name); ok && c.Type.IsNumeric() {
			cols = append(cols, c)
		}
	}
	n := len(cols)
	m := &CorrMatrix{Columns: make([]string, n), Values: make([][]float64, n)}
	for i, c := range cols {
		m.Columns[i] = c.Name
		m.Values[i] = make([]float64, n)
		m.Values[i][i] = 1
	}
	for a := 0; a < n; a++ {
		for b := a + 1; b < n; b++ {
			var pa pairAcc
			xa, xb := cols[a].Values, cols[b].Values
			for i := range xa {
				if xa[i].Missing || xb[i].Missing {
					continue
				}
				pa.add(xa[i].Num, xb[i].Num)
			}
			r := pa.r()
			m.Values[a][b] = r
			m.Values[b][a] = r
		}
	}
	return m
}
