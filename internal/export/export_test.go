package export

import (
	"bytes"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"github.com/KaramelBytes/dataloom-cli/internal/dataset"
)

func view(t *testing.T) *dataset.Dataset {
	t.Helper()
	ds, err := dataset.Build("t", []string{"Region", "Sales", "Note"}, [][]string{
		{"North", "10", "plain"}, {"South", "20.5", "has, comma"}, {"East", "", `say "hi"`},
	}, dataset.DefaultParseOptions())
	require.NoError(t, err)
	return ds
}

func TestCSVExporter_Stable(t *testing.T) {
	v := view(t)
	var a, b bytes.Buffer
	require.NoError(t, CSVExporter{}.Export(v, &a))
	require.NoError(t, CSVExporter{}.Export(v, &b))
	assert.Equal(t, a.Bytes(), b.Bytes())
	assert.Equal(t, "Region,Sales,Note\nNorth,10,plain\nSouth,20.5,\"has, comma\"\nEast,,\"say \"\"hi\"\"\"\n", a.String())
}

func TestExcelExporter(t *testing.T) {
	var buf bytes.Buffer
	ex := NewExcelExporter()
	require.NoError(t, ex.Export(view(t), &buf))
	assert.Equal(t, "xlsx", ex.FileExtension())

	f, err := excelize.OpenReader(&buf)
	require.NoError(t, err)
	defer f.Close()
	assert.Equal(t, []string{"Data"}, f.GetSheetList())
	rows, err := f.GetRows("Data")
	require.NoError(t, err)
	require.Len(t, rows, 4)
	assert.Equal(t, []string{"Region", "Sales", "Note"}, rows[0])
	assert.Equal(t, []string{"South", "20.5", "has, comma"}, rows[2])
	assert.Equal(t, "East", rows[3][0])
}

func TestNew(t *testing.T) {
	for _, f := range []Format{"", "csv", "CSV"} {
		ex, err := New(f)
		require.NoError(t, err)
		assert.Equal(t, "text/csv", ex.ContentType())
	}
	for _, f := range []Format{"xlsx", "excel"} {
		ex, err := New(f)
		require.NoError(t, err)
		assert.Equal(t, "xlsx", ex.FileExtension())
	}
	_, err := New("pdf")
	assert.Error(t, err)
}

func TestFileName(t *testing.T) {
	at := time.Date(2024, 12, 31, 23, 59, 1, 0, time.UTC)
	assert.Equal(t, "data_20241231_235901.csv", FileName("", "csv", at))
	assert.Equal(t, "view_20241231_235901.xlsx", FileName("view", ".xlsx", at))
}
