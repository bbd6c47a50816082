package export

import (
	"fmt"

	"github.com/xuri/excelize/v2"

	"github.com/couchcryptid/covid-case-chart/internal/domain"
)

// SheetName is the worksheet holding the series.
const SheetName = "cases"

// XLSX writes the series to a spreadsheet with a single sheet.
type XLSX struct {
	path string
}

// NewXLSX creates a spreadsheet export to path.
func NewXLSX(path string) *XLSX { return &XLSX{path: path} }

func (x *XLSX) Name() string { return "xlsx" }
func (x *XLSX) Path() string { return x.path }

func (x *XLSX) Write(records []domain.Record) error {
	f := excelize.NewFile()
	defer func() { _ = f.Close() }()

	if err := f.SetSheetName("Sheet1", SheetName); err != nil {
		return fmt.Errorf("rename sheet: %w", err)
	}

	header := make([]any, len(Columns))
	for i, c := range Columns {
		header[i] = c
	}
	if err := f.SetSheetRow(SheetName, "A1", &header); err != nil {
		return fmt.Errorf("write header: %w", err)
	}

	for i, r := range records {
		cell, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			return err
		}
		row := []any{formatDate(r.Date), r.TotalCases, r.NetCases, r.FortnightAverage}
		if err := f.SetSheetRow(SheetName, cell, &row); err != nil {
			return fmt.Errorf("write row %d: %w", i+2, err)
		}
	}

	if err := f.SaveAs(x.path); err != nil {
		return fmt.Errorf("save workbook: %w", err)
	}
	return nil
}
