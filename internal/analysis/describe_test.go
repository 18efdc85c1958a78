package analysis

import (
	"encoding/json"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/KaramelBytes/dataloom-cli/internal/dataset"
)

func build(t *testing.T, header []string, rows [][]string) (*dataset.Dataset, dataset.Classification) {
	t.Helper()
	ds, err := dataset.Build("t.csv", header, rows, dataset.DefaultParseOptions())
	require.NoError(t, err)
	return ds, dataset.Classify(ds)
}

func TestDescribe_NumericStats(t *testing.T) {
	ds, cls := build(t, []string{"v"}, [][]string{{"1"}, {"2"}, {"3"}, {"4"}, {""}})
	s := Describe(ds, cls)
	require.Len(t, s.Numeric, 1)
	n := s.Numeric[0]
	assert.Equal(t, 4, n.Count)
	assert.InDelta(t, 2.5, *n.Mean, 1e-9)
	assert.InDelta(t, 1.2909944, *n.Std, 1e-6)
	assert.Equal(t, 1.0, *n.Min)
	assert.InDelta(t, 1.75, *n.Q25, 1e-9)
	assert.InDelta(t, 2.5, *n.Q50, 1e-9)
	assert.InDelta(t, 3.25, *n.Q75, 1e-9)
	assert.Equal(t, 4.0, *n.Max)
}

func TestDescribe_UndefinedStatsAreNil(t *testing.T) {
	ds, cls := build(t, []string{"v", "c"}, [][]string{{"7", "a"}})
	s := Describe(ds, cls)
	n := s.Numeric[0]
	assert.NotNil(t, n.Mean)
	assert.Nil(t, n.Std)
}

func TestDescribe_OverflowingStatsAreNil(t *testing.T) {
	ds, cls := build(t, []string{"v"}, [][]string{{"1e308"}, {"-1e308"}})
	s := Describe(ds, cls)
	n := s.Numeric[0]
	assert.Nil(t, n.Std)
	assert.Equal(t, 1e308, *n.Max)
	_, err := json.Marshal(s)
	assert.NoError(t, err)
}

func TestDescribe_CategoricalAndKPIs(t *testing.T) {
	ds, cls := build(t, []string{"Region", "Sales"}, [][]string{
		{"North", "1000"}, {"South", "2000"}, {"North", "3000"}, {"", "4000"},
	})
	s := Describe(ds, cls)
	require.Len(t, s.Categorical, 1)
	c := s.Categorical[0]
	assert.Equal(t, 2, c.Unique)
	assert.Equal(t, 1, c.Missing)
	assert.Equal(t, CategoryCount{Value: "North", Count: 2}, c.Top[0])

	assert.Equal(t, []KPI{
		{Label: "Total Rows", Value: "4"},
		{Label: "Mean (Sales)", Value: "2,500.00"},
		{Label: "Unique (Region)", Value: "2"},
		{Label: "Columns", Value: "2"},
	}, s.KPIs)
}

func TestDescribe_KPIsWithoutColumnsOfAKind(t *testing.T) {
	ds, cls := build(t, []string{"name"}, [][]string{{"a"}})
	s := Describe(ds, cls)
	assert.Equal(t, "N/A", s.KPIs[1].Value)
	assert.Equal(t, "1", s.KPIs[2].Value)

	ds, cls = build(t, []string{"n"}, [][]string{{"1"}})
	s = Describe(ds, cls)
	assert.Equal(t, "1.00", s.KPIs[1].Value)
	assert.Equal(t, "N/A", s.KPIs[2].Value)
}

func TestDescribe_CapsCategoricalSummaries(t *testing.T) {
	header := []string{"a", "b", "c", "d", "e", "f", "g"}
	ds, cls := build(t, header, [][]string{{"x", "x", "x", "x", "x", "x", "x"}})
	s := Describe(ds, cls)
	assert.Len(t, s.Categorical, MaxCategoricalSummaries)
	assert.Equal(t, "a", s.Categorical[0].Column)
}

func TestSummary_Markdown(t *testing.T) {
	ds, cls := build(t, []string{"Region", "Sales"}, [][]string{{"North", "10"}, {"South", "20"}})
	md := Describe(ds, cls).Markdown()
	assert.True(t, strings.HasPrefix(md, "[DATASET SUMMARY]\nFile: t.csv\n"))
	assert.Contains(t, md, "| Sales | 2 | 15 |")
	assert.Contains(t, md, "- Region: 2 unique values")
}
