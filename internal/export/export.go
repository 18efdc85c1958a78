// Package export serializes a filtered view for download.
package export

import (
	"encoding/csv"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/KaramelBytes/dataloom-cli/internal/dataset"
)

// Format is the export file format.
type Format string

const (
	FormatCSV   Format = "csv"
	FormatExcel Format = "xlsx"
)

// Exporter writes a view in one format.
type Exporter interface {
	Export(view *dataset.Dataset, w io.Writer) error
	ContentType() string
	FileExtension() string
}

// New returns the exporter for f.
func New(f Format) (Exporter, error) {
	switch Format(strings.ToLower(string(f))) {
	case FormatCSV, "":
		return CSVExporter{}, nil
	case FormatExcel, "excel":
		return NewExcelExporter(), nil
	default:
		return nil, fmt.Errorf("unsupported export format %q (use csv or xlsx)", f)
	}
}

// FileName builds "<prefix>_YYYYMMDD_HHMMSS.<ext>" from the capture time.
func FileName(prefix, ext string, at time.Time) string {
	if prefix == "" {
		prefix = "data"
	}
	return fmt.Sprintf("%s_%s.%s", prefix, at.Format("20060102_150405"), strings.TrimPrefix(ext, "."))
}

// CSVExporter writes the header and rows with stable column and row order,
// raw cell text and no index column. Output is byte-for-byte reproducible for
// a given view.
type CSVExporter struct{}

func (CSVExporter) ContentType() string   { return "text/csv" }
func (CSVExporter) FileExtension() string { return "csv" }

func (CSVExporter) Export(view *dataset.Dataset, w io.Writer) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(view.ColumnNames()); err != nil {
		return fmt.Errorf("write header: %w", err)
	}
	for i := 0; i < view.Rows(); i++ {
		if err := cw.Write(view.Row(i)); err != nil {
			return fmt.Errorf("write row %d: %w", i+1, err)
		}
	}
	cw.Flush()
	if err := cw.Error(); err != nil {
		return fmt.Errorf("flush csv: %w", err)
	}
	return nil
}
