package export

import (
	"fmt"
	"io"

	"github.com/xuri/excelize/v2"

	"github.com/KaramelBytes/dataloom-cli/internal/dataset"
)

// ExcelExporter writes the view to a single-sheet workbook with a bold,
// frozen header row. Numeric cells are stored as numbers.
type ExcelExporter struct {
	sheetName string
}

// NewExcelExporter creates an exporter writing to a sheet named "Data".
func NewExcelExporter() *ExcelExporter {
	return &ExcelExporter{sheetName: "Data"}
}

func (e *ExcelExporter) ContentType() string {
	return "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
}

func (e *ExcelExporter) FileExtension() string { return "xlsx" }

func (e *ExcelExporter) Export(view *dataset.Dataset, w io.Writer) error {
	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName("Sheet1", e.sheetName); err != nil {
		return fmt.Errorf("rename sheet: %w", err)
	}
	headerStyle, err := f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true}})
	if err != nil {
		return fmt.Errorf("failed to create header style: %w", err)
	}

	header := make([]interface{}, len(view.Columns))
	for j, c := range view.Columns {
		header[j] = c.Name
	}
	if err := f.SetSheetRow(e.sheetName, "A1", &header); err != nil {
		return fmt.Errorf("write header: %w", err)
	}
	if len(view.Columns) > 0 {
		last, err := excelize.CoordinatesToCellName(len(view.Columns), 1)
		if err != nil {
			return err
		}
		if err := f.SetCellStyle(e.sheetName, "A1", last, headerStyle); err != nil {
			return fmt.Errorf("style header: %w", err)
		}
	}
	for i := 0; i < view.Rows(); i++ {
		row := make([]interface{}, len(view.Columns))
		for j, c := range view.Columns {
			v := c.Values[i]
			switch {
			case v.Missing:
				row[j] = nil
			case c.Type.IsNumeric():
				row[j] = v.Num
			default:
				row[j] = v.Raw
			}
		}
		cell, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			return err
		}
		if err := f.SetSheetRow(e.sheetName, cell, &row); err != nil {
			return fmt.Errorf("write row %d: %w", i+1, err)
		}
	}
	if err := f.SetPanes(e.sheetName, &excelize.Panes{
		Freeze:      true,
		YSplit:      1,
		TopLeftCell: "A2",
		ActivePane:  "bottomLeft",
	}); err != nil {
		return fmt.Errorf("freeze header: %w", err)
	}
	if err := f.Write(w); err != nil {
		return fmt.Errorf("failed to write Excel file: %w", err)
	}
	return nil
}
