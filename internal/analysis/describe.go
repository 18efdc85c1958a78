// Package analysis computes the descriptive statistics shown next to a chart:
// a describe() table for numeric columns, cardinalities for categorical
// columns, KPI cards and Pearson correlations.
package analysis

import (
	"math"
	"sort"

	"golang.org/x/text/language"
	"golang.org/x/text/message"

	"github.com/KaramelBytes/dataloom-cli/internal/dataset"
)

// MaxCategoricalSummaries caps how many categorical columns get a cardinality line.
const MaxCategoricalSummaries = 5

// Summary is the statistics payload for one filtered view.
type Summary struct {
	Name        string          `json:"name,omitempty"`
	Rows        int             `json:"rows"`
	Columns     int             `json:"columns"`
	Numeric     []NumericStats  `json:"numeric"`
	Categorical []CategoryStats `json:"categorical"`
	KPIs        []KPI           `json:"kpis"`
}

// NumericStats mirrors a describe() column. Statistics that are undefined for
// the column (no values, or a single value for Std) are nil.
type NumericStats struct {
	Column string   `json:"column"`
	Count  int      `json:"count"`
	Mean   *float64 `json:"mean"`
	Std    *float64 `json:"std"`
	Min    *float64 `json:"min"`
	Q25    *float64 `json:"p25"`
	Q50    *float64 `json:"p50"`
	Q75    *float64 `json:"p75"`
	Max    *float64 `json:"max"`
}

// CategoryStats captures the cardinality of a categorical column.
type CategoryStats struct {
	Column  string          `json:"column"`
	Unique  int             `json:"unique"`
	Missing int             `json:"missing"`
	Top     []CategoryCount `json:"top"`
}

// CategoryCount is one value and its frequency.
type CategoryCount struct {
	Value string `json:"value"`
	Count int    `json:"count"`
}

// KPI is a labelled, display-formatted headline number.
type KPI struct {
	Label string `json:"label"`
	Value string `json:"value"`
}

var printer = message.NewPrinter(language.English)

// Describe computes the summary for view using the given classification.
func Describe(view *dataset.Dataset, cls dataset.Classification) *Summary {
	s := &Summary{
		Name:        view.Name,
		Rows:        view.Rows(),
		Columns:     len(view.Columns),
		Numeric:     []NumericStats{},
		Categorical: []CategoryStats{},
	}
	for _, name := range cls.Numeric {
		if c, ok := view.Column(name); ok {
			s.Numeric = append(s.Numeric, describeNumeric(c))
		}
	}
	for i, name := range cls.Categorical {
		if i >= MaxCategoricalSummaries {
			break
		}
		if c, ok := view.Column(name); ok {
			s.Categorical = append(s.Categorical, describeCategory(c))
		}
	}
	s.KPIs = kpis(view, cls)
	return s
}

func describeNumeric(c *dataset.Column) NumericStats {
	vals := c.Numbers()
	ns := NumericStats{Column: c.Name, Count: len(vals)}
	if len(vals) == 0 {
		return ns
	}
	// Welford update
	var mean, m2 float64
	for i, x := range vals {
		delta := x - mean
		mean += delta / float64(i+1)
		m2 += delta * (x - mean)
	}
	ns.Mean = ptr(mean)
	if len(vals) > 1 {
		ns.Std = ptr(math.Sqrt(m2 / float64(len(vals)-1)))
	}
	sorted := append([]float64(nil), vals...)
	sort.Float64s(sorted)
	ns.Min = ptr(sorted[0])
	ns.Q25 = ptr(quantile(sorted, 0.25))
	ns.Q50 = ptr(quantile(sorted, 0.5))
	ns.Q75 = ptr(quantile(sorted, 0.75))
	ns.Max = ptr(sorted[len(sorted)-1])
	return ns
}

func describeCategory(c *dataset.Column) CategoryStats {
	counts := map[string]int{}
	cs := CategoryStats{Column: c.Name}
	for _, v := range c.Values {
		if v.Missing {
			cs.Missing++
			continue
		}
		counts[v.Raw]++
	}
	cs.Unique = len(counts)
	tops := make([]CategoryCount, 0, len(counts))
	for k, v := range counts {
		tops = append(tops, CategoryCount{Value: k, Count: v})
	}
	sort.Slice(tops, func(i, j int) bool {
		if tops[i].Count == tops[j].Count {
			return tops[i].Value < tops[j].Value
		}
		return tops[i].Count > tops[j].Count
	})
	if len(tops) > 8 {
		tops = tops[:8]
	}
	cs.Top = tops
	return cs
}

// kpis builds the four headline cards: total rows, mean of the first numeric
// column, unique count of the first categorical column, and column count.
func kpis(view *dataset.Dataset, cls dataset.Classification) []KPI {
	out := []KPI{{Label: "Total Rows", Value: printer.Sprintf("%d", view.Rows())}}

	mean := KPI{Label: "Mean", Value: "N/A"}
	if len(cls.Numeric) > 0 {
		name := cls.Numeric[0]
		mean.Label = "Mean (" + name + ")"
		if c, ok := view.Column(name); ok {
			if vals := c.Numbers(); len(vals) > 0 {
				var sum float64
				for _, x := range vals {
					sum += x
				}
				mean.Value = printer.Sprintf("%.2f", sum/float64(len(vals)))
			}
		}
	}
	out = append(out, mean)

	uniq := KPI{Label: "Unique", Value: "N/A"}
	if len(cls.Categorical) > 0 {
		name := cls.Categorical[0]
		uniq.Label = "Unique (" + name + ")"
		if c, ok := view.Column(name); ok {
			uniq.Value = printer.Sprintf("%d", c.Unique())
		}
	}
	out = append(out, uniq)

	return append(out, KPI{Label: "Columns", Value: printer.Sprintf("%d", len(view.Columns))})
}

// ptr returns nil for values that overflowed, so they render as null.
func ptr(f float64) *float64 {
	if math.IsInf(f, 0) || math.IsNaN(f) {
		return nil
	}
	return &f
}

// quantile interpolates linearly between closest ranks of sorted values.
func quantile(sorted []float64, q float64) float64 {
	if len(sorted) == 0 {
		return 0
	}
	if q <= 0 {
		return sorted[0]
	}
	if q >= 1 {
		return sorted[len(sorted)-1]
	}
	pos := q * float64(len(sorted)-1)
	lo := int(math.Floor(pos))
	hi := int(math.Ceil(pos))
	if lo == hi {
		return sorted[lo]
	}
	w := pos - float64(lo)
	return sorted[lo]*(1-w) + sorted[hi]*w
}
