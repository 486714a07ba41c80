// Package export renders capture session results as measurement sheets in
// PDF and XLSX form.
package export

import (
	"errors"
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"github.com/LopeWale/TailorMode-sub000/internal/store"
	"github.com/LopeWale/TailorMode-sub000/pkg/catalog"
	"github.com/LopeWale/TailorMode-sub000/pkg/measurement"
)

// Row is one measurement line of a sheet.
type Row struct {
	MeasurementID string
	Name          string
	Value         float64
	Unit          string
	Confidence    float64
	Attempts      int
	Status        measurement.Status
	Note          string
}

// HasValue reports whether the row carries a computed value.
func (r Row) HasValue() bool {
	return r.Attempts > 0 && r.Value > 0
}

// Sheet is the printable form of a session.
type Sheet struct {
	Title       string
	SessionID   string
	Preset      string
	Description string
	HeightCm    float64
	Status      store.SessionStatus
	Generated   time.Time
	Rows        []Row
	Summary     measurement.Summary
}

// NewSheet builds a sheet from a stored session. Display names come from the
// catalog; ids the catalog does not know are shown as-is.
func NewSheet(session *store.Session, cat *catalog.Catalog) Sheet {
	sheet := Sheet{
		Title:       "Measurement Sheet",
		SessionID:   session.ID,
		Preset:      session.PresetID,
		Description: session.Description,
		HeightCm:    session.HeightCm,
		Status:      session.Status,
		Generated:   time.Now(),
		Rows:        make([]Row, 0, len(session.Results)),
	}

	if p, err := cat.Preset(session.PresetID); err == nil {
		sheet.Preset = p.DisplayName
		sheet.Title = p.DisplayName + " Measurement Sheet"
	}

	for _, r := range session.Results {
		name := r.MeasurementID
		if d, err := cat.Definition(r.MeasurementID); err == nil && d.DisplayName != "" {
			name = d.DisplayName
		}
		sheet.Rows = append(sheet.Rows, Row{
			MeasurementID: r.MeasurementID,
			Name:          name,
			Value:         r.Value,
			Unit:          r.Unit,
			Confidence:    r.Confidence,
			Attempts:      r.CaptureAttempts,
			Status:        r.Status,
			Note:          r.FlagReason,
		})

		sheet.Summary.Total++
		switch r.Status {
		case measurement.StatusValidated:
			sheet.Summary.Validated++
		case measurement.StatusFlagged:
			sheet.Summary.Flagged++
		default:
			sheet.Summary.NeedsRecapture++
		}
	}

	return sheet
}

// Save writes the sheet to path, choosing the format from its extension.
func Save(path string, sheet Sheet) error {
	if len(sheet.Rows) == 0 {
		return errors.New("no measurements to export")
	}

	switch ext := strings.ToLower(filepath.Ext(path)); ext {
	case ".pdf":
		return SavePDF(path, sheet)
	case ".xlsx":
		return SaveXLSX(path, sheet)
	default:
		return fmt.Errorf("unsupported export format %q: use .pdf or .xlsx", ext)
	}
}

func formatValue(r Row) string {
	if !r.HasValue() {
		return "-"
	}
	return fmt.Sprintf("%.1f %s", r.Value, r.Unit)
}

func formatConfidence(r Row) string {
	if r.Attempts == 0 {
		return "-"
	}
	return fmt.Sprintf("%.0f%%", r.Confidence*100)
}
