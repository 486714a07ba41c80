package export

import (
	"fmt"
	"io"
	"os"

	"github.com/xuri/excelize/v2"
)

const (
	measurementsSheet = "Measurements"
	summarySheet      = "Summary"
)

var xlsxHeaders = []any{"ID", "Measurement", "Value", "Unit", "Confidence", "Attempts", "Status", "Note"}

// SaveXLSX writes the sheet as an Excel workbook.
func SaveXLSX(path string, sheet Sheet) error {
	out, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create %s: %w", path, err)
	}
	if err := WriteXLSX(out, sheet); err != nil {
		out.Close()
		return err
	}
	return out.Close()
}

// WriteXLSX writes a workbook with a measurement table and a summary sheet.
// Values are stored as numbers so the workbook can be used for further
// calculation; measurements without a value leave the cell empty.
func WriteXLSX(w io.Writer, sheet Sheet) error {
	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName("Sheet1", measurementsSheet); err != nil {
		return fmt.Errorf("rename sheet: %w", err)
	}
	if err := writeMeasurements(f, sheet); err != nil {
		return err
	}
	if err := writeSummary(f, sheet); err != nil {
		return err
	}

	if err := f.Write(w); err != nil {
		return fmt.Errorf("failed to write workbook: %w", err)
	}
	return nil
}

func writeMeasurements(f *excelize.File, sheet Sheet) error {
	if err := f.SetSheetRow(measurementsSheet, "A1", &xlsxHeaders); err != nil {
		return fmt.Errorf("write header: %w", err)
	}
	bold, err := f.NewStyle(&excelize.Style{
		Font: &excelize.Font{Bold: true},
		Fill: excelize.Fill{Type: "pattern", Color: []string{"E6E6E6"}, Pattern: 1},
	})
	if err != nil {
		return fmt.Errorf("create style: %w", err)
	}
	if err := f.SetCellStyle(measurementsSheet, "A1", "H1", bold); err != nil {
		return fmt.Errorf("style header: %w", err)
	}

	for i, row := range sheet.Rows {
		var value, confidence any
		if row.HasValue() {
			value = row.Value
		}
		if row.Attempts > 0 {
			confidence = row.Confidence
		}
		cells := []any{row.MeasurementID, row.Name, value, row.Unit, confidence, row.Attempts, string(row.Status), row.Note}

		cell, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			return err
		}
		if err := f.SetSheetRow(measurementsSheet, cell, &cells); err != nil {
			return fmt.Errorf("write row %s: %w", row.MeasurementID, err)
		}
	}

	if err := f.SetColWidth(measurementsSheet, "A", "B", 22); err != nil {
		return err
	}
	return f.SetColWidth(measurementsSheet, "H", "H", 60)
}

func writeSummary(f *excelize.File, sheet Sheet) error {
	if _, err := f.NewSheet(summarySheet); err != nil {
		return fmt.Errorf("create summary sheet: %w", err)
	}

	rows := [][]any{
		{"Session", sheet.SessionID},
		{"Preset", sheet.Preset},
		{"Description", sheet.Description},
		{"Height (cm)", sheet.HeightCm},
		{"Status", string(sheet.Status)},
		{"Generated", sheet.Generated.Format("2006-01-02 15:04:05")},
		{"Total", sheet.Summary.Total},
		{"Validated", sheet.Summary.Validated},
		{"Needs recapture", sheet.Summary.NeedsRecapture},
		{"Flagged", sheet.Summary.Flagged},
	}
	for i, row := range rows {
		cell, err := excelize.CoordinatesToCellName(1, i+1)
		if err != nil {
			return err
		}
		if err := f.SetSheetRow(summarySheet, cell, &row); err != nil {
			return fmt.Errorf("write summary: %w", err)
		}
	}
	return f.SetColWidth(summarySheet, "A", "A", 18)
}
