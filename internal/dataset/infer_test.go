package dataset

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestInferColumn_Types(t *testing.T) {
	opt := DefaultParseOptions()
	tests := []struct {
		name string
		raw  []string
		want Type
	}{
		{"ints", []string{"1", "2", "-3"}, TypeInt},
		{"floats", []string{"1.5", "2", "3e2"}, TypeFloat},
		{"ints with missing", []string{"1", "", "NA"}, TypeInt},
		{"strings", []string{"a", "1"}, TypeString},
		{"dates", []string{"2024-01-01", "2024-02-15"}, TypeDatetime},
		{"all missing", []string{"", "null"}, TypeString},
		{"mixed date and text", []string{"2024-01-01", "soon"}, TypeString},
		{"infinity is missing", []string{"10", "inf", "30"}, TypeInt},
		{"signed infinities", []string{"1.5", "-Inf", "+Infinity"}, TypeFloat},
		{"only infinities", []string{"inf", "-inf"}, TypeString},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := InferColumn(tt.name, tt.raw, opt)
			assert.Equal(t, tt.want, c.Type)
			assert.Len(t, c.Values, len(tt.raw))
		})
	}
}

func TestInferColumn_MissingAndNumbers(t *testing.T) {
	c := InferColumn("x", []string{"10", "n/a", "30"}, DefaultParseOptions())
	require.Equal(t, TypeInt, c.Type)
	assert.True(t, c.Values[1].Missing)
	assert.Equal(t, []float64{10, 30}, c.Numbers())
	assert.Equal(t, "n/a", c.Values[1].Raw)
}

func TestParseNumeric_RejectsNonFinite(t *testing.T) {
	for _, s := range []string{"inf", "-Inf", "Infinity", "NaN", "1e400"} {
		_, ok := parseNumeric(s, DefaultParseOptions())
		assert.False(t, ok, s)
	}
	x, ok := parseNumeric("1e300", DefaultParseOptions())
	require.True(t, ok)
	assert.Equal(t, 1e300, x)
}

func TestInferColumn_LocaleOptions(t *testing.T) {
	strict := InferColumn("x", []string{"1,5", "2,25"}, DefaultParseOptions())
	assert.Equal(t, TypeString, strict.Type)

	auto := DefaultParseOptions()
	auto.AutoLocale = true
	c := InferColumn("x", []string{"1,5", "1.234,75"}, auto)
	require.Equal(t, TypeFloat, c.Type)
	assert.InDelta(t, 1.5, c.Values[0].Num, 1e-9)
	assert.InDelta(t, 1234.75, c.Values[1].Num, 1e-9)

	thou := DefaultParseOptions()
	thou.ThousandsSeparator = ','
	c = InferColumn("x", []string{"1,000", "25"}, thou)
	require.Equal(t, TypeInt, c.Type)
	assert.Equal(t, 1000.0, c.Values[0].Num)
}

func TestNormalizeHeader(t *testing.T) {
	got := normalizeHeader([]string{"\uFEFFid", "", "a", "a", "a.1", "a"})
	assert.Equal(t, []string{"id", "Unnamed: 1", "a", "a.1", "a.1.1", "a.2"}, got)
}

func TestBuild(t *testing.T) {
	ds, err := Build("t", []string{"a", "b"}, [][]string{{"1", "x"}, {"2"}}, DefaultParseOptions())
	require.NoError(t, err)
	assert.Equal(t, 2, ds.Rows())
	b, _ := ds.Column("b")
	assert.True(t, b.Values[1].Missing)

	_, err = Build("t", []string{"a"}, [][]string{{"1", "extra"}}, DefaultParseOptions())
	assert.Error(t, err)
	_, err = Build("t", nil, nil, DefaultParseOptions())
	assert.Error(t, err)
}
