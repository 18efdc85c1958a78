package chart

import (
	"encoding/json"
	"fmt"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/KaramelBytes/dataloom-cli/internal/dataset"
	"github.com/KaramelBytes/dataloom-cli/internal/filter"
)

func load(t *testing.T, header []string, rows [][]string) (*dataset.Dataset, dataset.Classification) {
	t.Helper()
	ds, err := dataset.Build("t", header, rows, dataset.DefaultParseOptions())
	require.NoError(t, err)
	return ds, dataset.Classify(ds)
}

func regionSales(t *testing.T) (*dataset.Dataset, dataset.Classification) {
	return load(t, []string{"Region", "Sales"}, [][]string{{"North", "10"}, {"South", "20"}, {"North", "30"}})
}

func TestBuild_MissingYFailsForKindsThatRequireIt(t *testing.T) {
	ds, cls := regionSales(t)
	for _, r := range Requirements() {
		if !r.RequiresY {
			continue
		}
		t.Run(string(r.Kind), func(t *testing.T) {
			res := Build(ds, cls, Request{Kind: r.Kind, X: "Region"})
			assert.False(t, res.OK)
			require.NotNil(t, res.Failure)
			assert.Nil(t, res.Spec)
			assert.Equal(t, "y", res.Failure.Axis)
			assert.Equal(t, "Please select a numeric Y axis", res.Message())
		})
	}
}

func TestBuild_CategoricalYFails(t *testing.T) {
	ds, cls := regionSales(t)
	res := Build(ds, cls, Request{Kind: KindBar, X: "Sales", Y: "Region"})
	assert.False(t, res.OK)
	assert.Equal(t, "Y axis 'Region' is not numeric", res.Message())
}

func TestBuild_ScatterCategoricalX(t *testing.T) {
	ds, cls := regionSales(t)
	res := Build(ds, cls, Request{Kind: KindScatter, X: "Region", Y: "Sales"})
	require.False(t, res.OK)
	assert.Equal(t, "x", res.Failure.Axis)
	assert.Equal(t, "Region", res.Failure.Column)
	assert.Equal(t, AxisNumeric, res.Failure.Expected)
	assert.Contains(t, res.Message(), "Region")
}

func TestBuild_AxisFailures(t *testing.T) {
	ds, cls := regionSales(t)
	tests := []struct {
		req    Request
		reason string
	}{
		{Request{Kind: KindHistogram}, "Please select an X axis"},
		{Request{Kind: KindHistogram, X: "Region"}, "X axis 'Region' is not numeric"},
		{Request{Kind: KindBox, X: "Sales", Y: "Sales"}, "X axis 'Sales' is not categorical"},
		{Request{Kind: KindPie, X: "Sales"}, "X axis 'Sales' is not categorical"},
		{Request{Kind: KindBar, X: "ghost", Y: "Sales"}, "X axis 'ghost' is not a column of the current view"},
		{Request{Kind: KindBar, X: "Region", Y: "Sales", GroupBy: "Sales"}, "Group 'Sales' is not categorical"},
		{Request{Kind: "Radar", X: "Region"}, "Unknown chart kind 'Radar'"},
	}
	for _, tt := range tests {
		t.Run(tt.reason, func(t *testing.T) {
			res := Build(ds, cls, tt.req)
			assert.False(t, res.OK)
			assert.Equal(t, tt.reason, res.Message())
		})
	}
}

func TestBuild_Heatmap(t *testing.T) {
	ds, cls := regionSales(t)
	res := Build(ds, cls, Request{Kind: KindHeatmap})
	require.False(t, res.OK)
	assert.Equal(t, "Heatmap needs at least 2 numeric columns", res.Message())

	ds, cls = load(t, []string{"a", "b", "c"}, [][]string{{"1", "2", "x"}, {"2", "5", "y"}, {"3", "5", "z"}})
	res = Build(ds, cls, Request{Kind: KindHeatmap, X: "ignored"})
	require.True(t, res.OK, res.Message())
	m := res.Spec.Matrix
	require.Equal(t, []string{"a", "b"}, m.Columns)
	assert.Equal(t, 1.0, m.Values[0][0])
	assert.Equal(t, 1.0, m.Values[1][1])
	assert.Equal(t, m.Values[0][1], m.Values[1][0])
	assert.Equal(t, "Correlation Heatmap", res.Spec.Title)
}

func TestBuild_PieCounts(t *testing.T) {
	rows := make([][]string, 0, 10)
	for i := 0; i < 10; i++ {
		rows = append(rows, []string{[]string{"A", "B"}[i%2]})
	}
	ds, cls := load(t, []string{"g"}, rows)
	res := Build(ds, cls, Request{Kind: KindPie, X: "g"})
	require.True(t, res.OK, res.Message())
	assert.Equal(t, []Slice{{Label: "A", Count: 5}, {Label: "B", Count: 5}}, res.Spec.Slices)
	assert.Equal(t, "Distribution of g", res.Spec.Title)
	assert.Zero(t, res.Spec.Hole)

	res = Build(ds, cls, Request{Kind: KindDonut, X: "g"})
	require.True(t, res.OK)
	assert.Equal(t, DonutHole, res.Spec.Hole)
}

func TestBuild_PieNoData(t *testing.T) {
	ds, err := dataset.New("t", []*dataset.Column{{Name: "g", Type: dataset.TypeString, Values: []dataset.Value{{Missing: true}}}})
	require.NoError(t, err)
	res := Build(ds, dataset.Classify(ds), Request{Kind: KindPie, X: "g"})
	assert.False(t, res.OK)
	assert.Equal(t, "No data to display", res.Message())
}

func TestBuild_BarEndToEnd(t *testing.T) {
	ds, cls := regionSales(t)
	res := Build(ds, cls, Request{Kind: KindBar, X: "Region", Y: "Sales"})
	require.True(t, res.OK, res.Message())
	s := res.Spec
	assert.Equal(t, "group", s.BarMode)
	require.Len(t, s.Series, 1)
	assert.Equal(t, []any{"North", "South", "North"}, s.Series[0].X)
	assert.Equal(t, map[string][]float64{"North": {10, 30}, "South": {20}}, s.Series[0].ByX())
}

func TestBuild_GroupedSeries(t *testing.T) {
	ds, cls := load(t, []string{"Month", "Region", "Sales"}, [][]string{
		{"1", "North", "10"}, {"1", "South", "20"}, {"2", "North", "30"},
	})
	res := Build(ds, cls, Request{Kind: KindLine, X: "Month", Y: "Sales", GroupBy: "Region"})
	require.True(t, res.OK, res.Message())
	require.Len(t, res.Spec.Series, 2)
	assert.Equal(t, "North", res.Spec.Series[0].Name)
	assert.Equal(t, []any{1.0, 2.0}, res.Spec.Series[0].X)
	assert.Equal(t, []float64{10, 30}, res.Spec.Series[0].Y)
	assert.True(t, res.Spec.Markers)
}

func TestBuild_HistogramAfterCategoryFilter(t *testing.T) {
	ds, _ := regionSales(t)
	view, err := filter.Apply(ds, filter.Spec{RowLimit: 3, Category: &filter.CategoryFilter{Column: "Region", Values: []string{"South"}}})
	require.NoError(t, err)
	require.Equal(t, 1, view.Rows())
	res := Build(view, dataset.Classify(view), Request{Kind: KindHistogram, X: "Sales"})
	require.True(t, res.OK, res.Message())
	assert.Equal(t, HistogramBins, res.Spec.NBins)
	assert.Equal(t, "box", res.Spec.Marginal)
	require.Len(t, res.Spec.Bins, 1)
	assert.Equal(t, 1, res.Spec.Bins[0].Count)
}

func TestBins(t *testing.T) {
	values := make([]float64, 0, 100)
	for i := 0; i < 100; i++ {
		values = append(values, float64(i))
	}
	b := bins(values, 10)
	require.Len(t, b, 10)
	total := 0
	for _, x := range b {
		assert.Equal(t, 10, x.Count, fmt.Sprintf("[%v,%v)", x.Lo, x.Hi))
		total += x.Count
	}
	assert.Equal(t, 100, total)
	assert.Equal(t, 99.0, b[9].Hi)
	assert.Nil(t, bins(nil, 10))
}

func TestBins_NonFiniteAndExtremeValues(t *testing.T) {
	tests := []struct {
		name   string
		values []float64
		n      int
		want   []int
	}{
		{"skips infinities and NaN", []float64{1, math.Inf(1), 2, math.NaN(), math.Inf(-1)}, 2, []int{1, 1}},
		{"full float range", []float64{-math.MaxFloat64, math.MaxFloat64, 0}, 4, []int{1, 0, 1, 1}},
		{"only non-finite", []float64{math.Inf(1), math.NaN()}, 3, nil},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			b := bins(tt.values, tt.n)
			if tt.want == nil {
				assert.Nil(t, b)
				return
			}
			require.Len(t, b, len(tt.want))
			for i, w := range tt.want {
				assert.Equal(t, w, b[i].Count, "bin %d", i)
				assert.False(t, math.IsInf(b[i].Lo, 0) || math.IsInf(b[i].Hi, 0), "bin %d edges", i)
			}
		})
	}
}

func TestBuild_InfinityCellsAreMissing(t *testing.T) {
	ds, cls := load(t, []string{"Region", "Sales"}, [][]string{{"North", "10"}, {"South", "inf"}, {"North", "30"}})
	sales, _ := ds.Column("Sales")
	require.True(t, sales.Type.IsNumeric())
	assert.True(t, sales.Values[1].Missing)

	hist := Build(ds, cls, Request{Kind: KindHistogram, X: "Sales"})
	require.True(t, hist.OK, hist.Message())
	total := 0
	for _, b := range hist.Spec.Bins {
		total += b.Count
	}
	assert.Equal(t, 2, total)

	bar := Build(ds, cls, Request{Kind: KindBar, X: "Region", Y: "Sales"})
	require.True(t, bar.OK, bar.Message())
	assert.Equal(t, []float64{10, 30}, bar.Spec.Series[0].Y)

	for _, res := range []Result{hist, bar} {
		_, err := json.Marshal(res)
		assert.NoError(t, err)
	}
}

func TestBuild_MissingGroupCellsShareUnnamedSeries(t *testing.T) {
	ds, cls := load(t, []string{"Region", "Sales", "Team"}, [][]string{
		{"North", "10", "a"}, {"South", "20", ""}, {"North", "30", "NA"}, {"East", "5", "a"},
	})
	res := Build(ds, cls, Request{Kind: KindBar, X: "Region", Y: "Sales", GroupBy: "Team"})
	require.True(t, res.OK, res.Message())
	require.Len(t, res.Spec.Series, 2)
	assert.Equal(t, "a", res.Spec.Series[0].Name)
	assert.Equal(t, []float64{10, 5}, res.Spec.Series[0].Y)
	assert.Equal(t, "", res.Spec.Series[1].Name)
	assert.Equal(t, []any{"South", "North"}, res.Spec.Series[1].X)
}

func TestBuild_ScatterTrendline(t *testing.T) {
	ds, cls := load(t, []string{"x", "y"}, [][]string{{"1", "3"}, {"2", "5"}, {"3", "7"}})
	res := Build(ds, cls, Request{Kind: KindScatter, X: "x", Y: "y"})
	require.True(t, res.OK, res.Message())
	require.Len(t, res.Spec.Trendlines, 1)
	tl := res.Spec.Trendlines[0]
	assert.InDelta(t, 2, tl.Slope, 1e-9)
	assert.InDelta(t, 1, tl.Intercept, 1e-9)
	assert.InDelta(t, 1, tl.R2, 1e-9)
}

func TestBuild_Sunburst(t *testing.T) {
	ds, cls := regionSales(t)
	res := Build(ds, cls, Request{Kind: KindSunburst, X: "Region", Y: "Sales"})
	require.True(t, res.OK, res.Message())
	assert.Equal(t, []Node{{Label: "North", Value: 40}, {Label: "South", Value: 20}}, res.Spec.Nodes)
	assert.Equal(t, "Sunburst: Region", res.Spec.Title)
}

func TestBuild_ViolinAndBox(t *testing.T) {
	ds, cls := regionSales(t)
	res := Build(ds, cls, Request{Kind: KindViolin, X: "Region", Y: "Sales"})
	require.True(t, res.OK)
	assert.True(t, res.Spec.Box)
	res = Build(ds, cls, Request{Kind: KindBox, X: "Region", Y: "Sales", GroupBy: "Region"})
	require.True(t, res.OK)
	assert.Len(t, res.Spec.Series, 2)
}

func TestBuild_DoesNotMutateView(t *testing.T) {
	ds, cls := regionSales(t)
	before := [][]string{ds.Row(0), ds.Row(1), ds.Row(2)}
	for _, k := range Kinds {
		Build(ds, cls, Request{Kind: k, X: "Region", Y: "Sales"})
	}
	assert.Equal(t, before, [][]string{ds.Row(0), ds.Row(1), ds.Row(2)})
}
