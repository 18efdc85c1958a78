package dataset

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sample(t *testing.T) *Dataset {
	t.Helper()
	ds, err := Build("t", []string{"Region", "Sales", "Units"}, [][]string{
		{"North", "10", "1"}, {"South", "20", "2"}, {"North", "30", "3"},
	}, DefaultParseOptions())
	require.NoError(t, err)
	return ds
}

func TestNew_Validation(t *testing.T) {
	_, err := New("x", []*Column{{Name: "a"}, {Name: "a"}})
	assert.Error(t, err)
	_, err = New("x", []*Column{{Name: "a", Values: make([]Value, 1)}, {Name: "b"}})
	assert.Error(t, err)
	ds, err := New("x", nil)
	require.NoError(t, err)
	assert.True(t, ds.Empty())
	assert.NotEmpty(t, ds.ID)
}

func TestDataset_HeadSelectWhere(t *testing.T) {
	ds := sample(t)

	h := ds.Head(2)
	assert.Equal(t, 2, h.Rows())
	assert.Equal(t, ds.ID, h.ID)
	assert.Equal(t, 3, ds.Head(10).Rows())
	assert.Equal(t, 0, ds.Head(-1).Rows())

	s := ds.Select([]string{"Units", "Region", "missing"})
	assert.Equal(t, []string{"Region", "Units"}, s.ColumnNames())

	w := ds.Where(func(i int) bool { return ds.Columns[0].Values[i].Raw == "North" })
	assert.Equal(t, [][]string{{"North", "10", "1"}, {"North", "30", "3"}}, [][]string{w.Row(0), w.Row(1)})
}

func TestDataset_ViewsDoNotShareValues(t *testing.T) {
	ds := sample(t)
	h := ds.Head(3)
	h.Columns[0].Values[0].Raw = "changed"
	assert.Equal(t, "North", ds.Columns[0].Values[0].Raw)
}

func TestColumn_Unique(t *testing.T) {
	c := InferColumn("x", []string{"a", "b", "a", ""}, DefaultParseOptions())
	assert.Equal(t, 2, c.Unique())
}
