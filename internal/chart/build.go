// Package chart validates chart requests against a static requirement table
// and turns valid ones into renderer-facing specs. Validation failures are
// values, never errors.
package chart

import (
	"fmt"
	"math"
	"slices"
	"sort"

	"github.com/KaramelBytes/dataloom-cli/internal/analysis"
	"github.com/KaramelBytes/dataloom-cli/internal/dataset"
)

// HistogramBins is the bin count used for histograms.
const HistogramBins = 30

// DonutHole is the inner radius fraction of a donut chart.
const DonutHole = 0.3

// Build validates req against the requirement for its kind, using cls for
// type membership, and builds the chart over view. It does not modify view.
func Build(view *dataset.Dataset, cls dataset.Classification, req Request) Result {
	rq, found := Lookup(req.Kind)
	if !found {
		return fail(req.Kind, Failure{Reason: fmt.Sprintf("Unknown chart kind '%s'", req.Kind)})
	}
	if f := validate(rq, cls, req); f != nil {
		return fail(req.Kind, *f)
	}
	switch req.Kind {
	case KindPie, KindDonut:
		return buildPie(view, req)
	case KindSunburst:
		return buildSunburst(view, req)
	case KindHeatmap:
		return ok(&Spec{Kind: KindHeatmap, Title: "Correlation Heatmap", Matrix: analysis.Correlation(view, cls.Numeric)})
	case KindHistogram:
		return buildHistogram(view, req)
	case KindScatter:
		return buildScatter(view, req)
	default:
		return ok(passThrough(view, req))
	}
}

func validate(rq Requirement, cls dataset.Classification, req Request) *Failure {
	if rq.MinNumericColumns > 0 && len(cls.Numeric) < rq.MinNumericColumns {
		return &Failure{
			Expected: AxisNumeric,
			Reason:   fmt.Sprintf("%s needs at least %d numeric columns", rq.Kind, rq.MinNumericColumns),
		}
	}
	if rq.RequiresY {
		if req.Y == "" {
			return &Failure{Axis: "y", Expected: rq.YType, Reason: "Please select a numeric Y axis"}
		}
		if !cls.IsNumeric(req.Y) {
			return &Failure{Axis: "y", Column: req.Y, Expected: AxisNumeric, Reason: fmt.Sprintf("Y axis '%s' is not numeric", req.Y)}
		}
	}
	if rq.XType != AxisNone {
		if f := checkAxis("x", "X axis", req.X, rq.XType, cls); f != nil {
			return f
		}
	}
	if rq.UsesGroupBy && req.GroupBy != "" {
		if f := checkAxis("group_by", "Group", req.GroupBy, AxisCategorical, cls); f != nil {
			return f
		}
	}
	return nil
}

func checkAxis(axis, label, col string, want AxisType, cls dataset.Classification) *Failure {
	if col == "" {
		return &Failure{Axis: axis, Expected: want, Reason: fmt.Sprintf("Please select an %s", label)}
	}
	var okType bool
	switch want {
	case AxisNumeric:
		okType = cls.IsNumeric(col)
	case AxisCategorical:
		okType = cls.IsCategorical(col)
	default:
		okType = slices.Contains(cls.All(), col)
	}
	if okType {
		return nil
	}
	if want == AxisAny {
		return &Failure{Axis: axis, Column: col, Expected: want, Reason: fmt.Sprintf("%s '%s' is not a column of the current view", label, col)}
	}
	return &Failure{Axis: axis, Column: col, Expected: want, Reason: fmt.Sprintf("%s '%s' is not %s", label, col, want)}
}

func buildPie(view *dataset.Dataset, req Request) Result {
	col, _ := view.Column(req.X)
	counts := map[string]int{}
	for _, v := range col.Values {
		if !v.Missing {
			counts[v.Raw]++
		}
	}
	if len(counts) == 0 {
		return fail(req.Kind, Failure{Axis: "x", Column: req.X, Reason: "No data to display"})
	}
	labels := make([]string, 0, len(counts))
	for k := range counts {
		labels = append(labels, k)
	}
	sort.Strings(labels)
	s := &Spec{Kind: req.Kind, X: req.X, Title: "Distribution of " + req.X}
	for _, l := range labels {
		s.Slices = append(s.Slices, Slice{Label: l, Count: counts[l]})
	}
	if req.Kind == KindDonut {
		s.Hole = DonutHole
	}
	return ok(s)
}

func buildSunburst(view *dataset.Dataset, req Request) Result {
	xc, _ := view.Column(req.X)
	yc, _ := view.Column(req.Y)
	sums := map[string]float64{}
	for i, v := range xc.Values {
		if v.Missing {
			continue
		}
		y := yc.Values[i]
		if _, seen := sums[v.Raw]; !seen {
			sums[v.Raw] = 0
		}
		if !y.Missing {
			sums[v.Raw] += y.Num
		}
	}
	if len(sums) == 0 {
		return fail(req.Kind, Failure{Axis: "x", Column: req.X, Reason: "No data to display"})
	}
	labels := make([]string, 0, len(sums))
	for k := range sums {
		labels = append(labels, k)
	}
	sort.Strings(labels)
	s := &Spec{Kind: KindSunburst, X: req.X, Y: req.Y, Title: "Sunburst: " + req.X}
	for _, l := range labels {
		s.Nodes = append(s.Nodes, Node{Label: l, Value: sums[l]})
	}
	return ok(s)
}

func buildHistogram(view *dataset.Dataset, req Request) Result {
	s := passThrough(view, Request{Kind: req.Kind, X: req.X, GroupBy: req.GroupBy})
	s.NBins = HistogramBins
	s.Marginal = "box"
	xc, _ := view.Column(req.X)
	s.Bins = bins(xc.Numbers(), HistogramBins)
	return ok(s)
}

func buildScatter(view *dataset.Dataset, req Request) Result {
	s := passThrough(view, req)
	for _, ser := range s.Series {
		if tl, fitted := ols(ser); fitted {
			s.Trendlines = append(s.Trendlines, tl)
		}
	}
	return ok(s)
}

// passThrough hands x, y and group_by to the renderer without aggregation,
// one series per group value in first-seen order.
func passThrough(view *dataset.Dataset, req Request) *Spec {
	s := &Spec{Kind: req.Kind, X: req.X, Y: req.Y, GroupBy: req.GroupBy}
	switch req.Kind {
	case KindBar:
		s.BarMode = "group"
	case KindLine:
		s.Markers = true
	case KindViolin:
		s.Box = true
	}
	xc, _ := view.Column(req.X)
	var yc, gc *dataset.Column
	if req.Y != "" {
		yc, _ = view.Column(req.Y)
	}
	if req.GroupBy != "" {
		gc, _ = view.Column(req.GroupBy)
	}
	index := map[string]int{}
	for i := 0; i < view.Rows(); i++ {
		if yc != nil && yc.Values[i].Missing {
			continue
		}
		if yc == nil && xc.Values[i].Missing {
			continue
		}
		// Rows with a missing group cell share the unnamed series.
		name := ""
		if gc != nil && !gc.Values[i].Missing {
			name = gc.Values[i].Raw
		}
		k, seen := index[name]
		if !seen {
			k = len(s.Series)
			index[name] = k
			s.Series = append(s.Series, Series{Name: name, X: []any{}})
		}
		ser := &s.Series[k]
		ser.X = append(ser.X, axisValue(xc, i))
		if yc != nil {
			ser.Y = append(ser.Y, yc.Values[i].Num)
		}
	}
	return s
}

func axisValue(c *dataset.Column, i int) any {
	v := c.Values[i]
	switch {
	case v.Missing:
		return nil
	case c.Type.IsNumeric():
		return v.Num
	default:
		return v.Raw
	}
}

// bins splits values into n equal-width buckets over [min, max]. Non-finite
// values are skipped.
func bins(values []float64, n int) []Bin {
	if n <= 0 {
		return nil
	}
	finite := make([]float64, 0, len(values))
	for _, v := range values {
		if !math.IsInf(v, 0) && !math.IsNaN(v) {
			finite = append(finite, v)
		}
	}
	if len(finite) == 0 {
		return nil
	}
	lo, hi := finite[0], finite[0]
	for _, v := range finite {
		lo = math.Min(lo, v)
		hi = math.Max(hi, v)
	}
	if lo == hi {
		return []Bin{{Lo: lo - 0.5, Hi: hi + 0.5, Count: len(finite)}}
	}
	// hi/n - lo/n stays finite where hi - lo would overflow.
	width := hi/float64(n) - lo/float64(n)
	out := make([]Bin, n)
	edge := func(i int) float64 {
		e := lo + float64(i)*width
		if math.IsInf(e, 0) {
			f := float64(i) / float64(n)
			e = lo*(1-f) + hi*f
		}
		return e
	}
	for i := range out {
		out[i] = Bin{Lo: edge(i), Hi: edge(i + 1)}
	}
	out[n-1].Hi = hi
	for _, v := range finite {
		pos := (v - lo) / width
		if math.IsInf(pos, 0) {
			pos = v/width - lo/width
		}
		i := n - 1
		switch {
		case math.IsNaN(pos) || pos < 0:
			i = 0
		case pos < float64(n):
			i = min(int(pos), n-1)
		}
		out[i].Count++
	}
	return out
}

func ols(s Series) (Trendline, bool) {
	var n, sx, sy, sxx, sxy, syy float64
	for i, xv := range s.X {
		x, isNum := xv.(float64)
		if !isNum || i >= len(s.Y) {
			continue
		}
		y := s.Y[i]
		n++
		sx += x
		sy += y
		sxx += x * x
		sxy += x * y
		syy += y * y
	}
	if n < 2 {
		return Trendline{}, false
	}
	vx := n*sxx - sx*sx
	if vx == 0 {
		return Trendline{}, false
	}
	slope := (n*sxy - sx*sy) / vx
	tl := Trendline{Series: s.Name, Slope: slope, Intercept: (sy - slope*sx) / n}
	if vy := n*syy - sy*sy; vy != 0 {
		r := (n*sxy - sx*sy) / math.Sqrt(vx*vy)
		tl.R2 = r * r
	}
	return tl, true
}
