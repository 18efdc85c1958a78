package analysis

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCorrelation_Perfect(t *testing.T) {
	ds, cls := build(t, []string{"a", "b", "c", "label"}, [][]string{
		{"1", "2", "3", "x"}, {"2", "4", "2", "y"}, {"3", "6", "1", "z"},
	})
	m := Correlation(ds, cls.Numeric)
	require.Equal(t, []string{"a", "b", "c"}, m.Columns)
	for i := range m.Columns {
		assert.Equal(t, 1.0, m.Values[i][i])
		for j := range m.Columns {
			assert.Equal(t, m.Values[i][j], m.Values[j][i])
		}
	}
	r, ok := m.At("a", "b")
	require.True(t, ok)
	assert.InDelta(t, 1, r, 1e-12)
	r, _ = m.At("a", "c")
	assert.InDelta(t, -1, r, 1e-12)
	_, ok = m.At("a", "label")
	assert.False(t, ok)
}

func TestCorrelation_PairwiseCompleteAndUndefined(t *testing.T) {
	ds, _ := build(t, []string{"a", "b", "k"}, [][]string{
		{"1", "1", "5"}, {"2", "", "5"}, {"3", "3", "5"}, {"4", "4", "5"},
	})
	m := Correlation(ds, []string{"a", "b", "k", "missing"})
	assert.Equal(t, []string{"a", "b", "k"}, m.Columns)
	r, _ := m.At("a", "b")
	assert.InDelta(t, 1, r, 1e-12)
	r, _ = m.At("a", "k")
	assert.Equal(t, 0.0, r)
}

func TestCorrMatrix_Markdown(t *testing.T) {
	ds, cls := build(t, []string{"a", "b"}, [][]string{{"1", "2"}, {"2", "4"}})
	md := Correlation(ds, cls.Numeric).Markdown()
	assert.Equal(t, "[CORRELATIONS]\n- a ~ b: r=1.000\n", md)
}
