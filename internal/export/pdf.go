package export

import (
	"fmt"
	"io"
	"os"

	"github.com/LopeWale/TailorMode-sub000/pkg/measurement"
	"github.com/go-pdf/fpdf"
)

// Page layout constants (A4 portrait in mm).
const (
	pageWidth    = 210.0
	pageHeight   = 297.0
	marginLeft   = 15.0
	marginRight  = 15.0
	marginTop    = 15.0
	marginBottom = 15.0
	rowHeight    = 7.0
)

var (
	pdfColumnWidths  = []float64{60, 30, 25, 20, 45}
	pdfColumnHeaders = []string{"Measurement", "Value", "Confidence", "Attempts", "Status"}
)

// SavePDF writes the sheet as a PDF file.
func SavePDF(path string, sheet Sheet) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create %s: %w", path, err)
	}
	if err := WritePDF(f, sheet); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}

// WritePDF renders the sheet as a single-document PDF: a header block with
// the session details, the measurement table and the flag notes.
func WritePDF(w io.Writer, sheet Sheet) error {
	pdf := fpdf.New("P", "mm", "A4", "")
	pdf.SetMargins(marginLeft, marginTop, marginRight)
	pdf.SetAutoPageBreak(true, marginBottom)
	pdf.AddPage()

	y := renderHeader(pdf, sheet)
	y = renderTable(pdf, sheet, y+4)
	renderNotes(pdf, sheet, y+6)

	if err := pdf.Output(w); err != nil {
		return fmt.Errorf("failed to render pdf: %w", err)
	}
	return nil
}

func renderHeader(pdf *fpdf.Fpdf, sheet Sheet) float64 {
	contentWidth := pageWidth - marginLeft - marginRight

	pdf.SetFont("Helvetica", "B", 16)
	pdf.SetXY(marginLeft, marginTop)
	pdf.CellFormat(contentWidth, 10, sheet.Title, "", 0, "L", false, 0, "")

	pdf.SetDrawColor(0, 0, 0)
	pdf.SetLineWidth(0.5)
	pdf.Line(marginLeft, marginTop+12, pageWidth-marginRight, marginTop+12)

	items := []struct {
		label string
		value string
	}{
		{"Session", sheet.SessionID},
		{"Generated", sheet.Generated.Format("2006-01-02 15:04")},
		{"Status", string(sheet.Status)},
		{"Validated", fmt.Sprintf("%d of %d", sheet.Summary.Validated, sheet.Summary.Total)},
	}
	if sheet.Description != "" {
		items = append(items, struct{ label, value string }{"Description", sheet.Description})
	}
	if sheet.HeightCm > 0 {
		items = append(items, struct{ label, value string }{"Height", fmt.Sprintf("%.1f cm", sheet.HeightCm)})
	}

	y := marginTop + 16
	for _, item := range items {
		pdf.SetXY(marginLeft, y)
		pdf.SetFont("Helvetica", "", 10)
		pdf.CellFormat(35, 6, item.label+":", "", 0, "L", false, 0, "")
		pdf.SetFont("Helvetica", "B", 10)
		pdf.CellFormat(contentWidth-35, 6, item.value, "", 0, "L", false, 0, "")
		y += 6
	}
	return y
}

func renderTable(pdf *fpdf.Fpdf, sheet Sheet, y float64) float64 {
	pdf.SetFont("Helvetica", "B", 9)
	pdf.SetFillColor(230, 230, 230)
	x := marginLeft
	for i, header := range pdfColumnHeaders {
		pdf.SetXY(x, y)
		pdf.CellFormat(pdfColumnWidths[i], rowHeight, header, "1", 0, "C", true, 0, "")
		x += pdfColumnWidths[i]
	}
	y += rowHeight

	pdf.SetFont("Helvetica", "", 9)
	for i, row := range sheet.Rows {
		if y+rowHeight > pageHeight-marginBottom {
			pdf.AddPage()
			y = marginTop
		}

		if i%2 == 0 {
			pdf.SetFillColor(245, 245, 245)
		} else {
			pdf.SetFillColor(255, 255, 255)
		}
		setStatusColor(pdf, row.Status)

		cells := []string{
			row.Name,
			formatValue(row),
			formatConfidence(row),
			fmt.Sprintf("%d", row.Attempts),
			string(row.Status),
		}
		x = marginLeft
		for j, cell := range cells {
			align := "C"
			if j == 0 {
				align = "L"
			}
			pdf.SetXY(x, y)
			pdf.CellFormat(pdfColumnWidths[j], rowHeight, cell, "1", 0, align, true, 0, "")
			x += pdfColumnWidths[j]
		}
		y += rowHeight
	}

	pdf.SetTextColor(0, 0, 0)
	return y
}

func setStatusColor(pdf *fpdf.Fpdf, status measurement.Status) {
	switch status {
	case measurement.StatusValidated:
		pdf.SetTextColor(0, 110, 0)
	case measurement.StatusFlagged:
		pdf.SetTextColor(200, 0, 0)
	default:
		pdf.SetTextColor(0, 0, 0)
	}
}

// renderNotes lists the flag reasons of flagged measurements.
func renderNotes(pdf *fpdf.Fpdf, sheet Sheet, y float64) {
	var notes []Row
	for _, row := range sheet.Rows {
		if row.Note != "" {
			notes = append(notes, row)
		}
	}
	if len(notes) == 0 {
		return
	}

	pdf.SetFont("Helvetica", "B", 11)
	pdf.SetTextColor(200, 0, 0)
	pdf.SetXY(marginLeft, y)
	pdf.CellFormat(100, 7, "Needs manual review", "", 0, "L", false, 0, "")
	y += 8

	pdf.SetFont("Helvetica", "", 9)
	pdf.SetTextColor(0, 0, 0)
	for _, row := range notes {
		pdf.SetXY(marginLeft+5, y)
		pdf.MultiCell(pageWidth-marginLeft-marginRight-5, 5, fmt.Sprintf("- %s: %s", row.Name, row.Note), "", "L", false)
		y = pdf.GetY() + 1
	}
}
