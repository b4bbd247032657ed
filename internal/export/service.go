package export

import (
	"fmt"
	"log/slog"
	"time"

	"github.com/xuri/excelize/v2"

	"github.com/medscan-io/medscan/internal/anonymize"
	"github.com/medscan-io/medscan/internal/measurement"
)

// Service produces XLSX bytes for a merged measurement list.
type Service struct {
	logger *slog.Logger
}

func NewService(logger *slog.Logger) *Service {
	if logger == nil {
		logger = slog.Default()
	}
	return &Service{logger: logger}
}

// MeasurementsXLSX returns an XLSX workbook (as bytes) with one row per
// measurement. When demographics are available, a second sheet summarizes
// them; the profile carries no direct identifiers by construction.
func (s *Service) MeasurementsXLSX(records []measurement.Record, demo *anonymize.DemographicProfile) ([]byte, error) {
	start := time.Now()

	f := excelize.NewFile()
	const sheet = "Measurements"
	if index, _ := f.GetSheetIndex(sheet); index == -1 {
		if _, err := f.NewSheet(sheet); err != nil {
			return nil, err
		}
	}
	activeIndex, _ := f.GetSheetIndex(sheet)
	f.SetActiveSheet(activeIndex)
	_ = f.DeleteSheet("Sheet1")

	headers := []string{
		"Measurement",
		"Value",
		"Unit",
		"Optimal Min",
		"Optimal Max",
		"Status",
		"Description",
	}
	for i, h := range headers {
		cell, _ := excelize.CoordinatesToCellName(i+1, 1)
		_ = f.SetCellValue(sheet, cell, h)
	}

	row := 2
	for _, r := range records {
		write := func(col int, v any) {
			cell, _ := excelize.CoordinatesToCellName(col, row)
			_ = f.SetCellValue(sheet, cell, v)
		}
		write(1, r.Name)
		write(2, r.Value)
		write(3, r.Unit)
		write(4, r.OptimalRange.Min)
		write(5, r.OptimalRange.Max)
		write(6, string(r.Status))
		write(7, truncate(r.Description, 140))
		row++
	}

	_ = f.SetColWidth(sheet, "A", "A", 28) // name
	_ = f.SetColWidth(sheet, "B", "E", 12) // numbers
	_ = f.SetColWidth(sheet, "F", "F", 14) // status
	_ = f.SetColWidth(sheet, "G", "G", 48) // description

	if demo != nil {
		if err := s.writeProfileSheet(f, demo); err != nil {
			return nil, err
		}
	}

	buf, err := f.WriteToBuffer()
	if err != nil {
		return nil, fmt.Errorf("xlsx write: %w", err)
	}

	s.logger.Info("export.xlsx.ok",
		"rows", len(records),
		"elapsed_ms", time.Since(start).Milliseconds(),
	)
	return buf.Bytes(), nil
}

func (s *Service) writeProfileSheet(f *excelize.File, demo *anonymize.DemographicProfile) error {
	const sheet = "Profile"
	if _, err := f.NewSheet(sheet); err != nil {
		return err
	}
	rows := [][2]any{
		{"Sex", string(demo.Sex)},
		{"Test Date", demo.TestDate},
	}
	if demo.Age != nil {
		rows = append(rows, [2]any{"Age", *demo.Age})
	}
	if demo.WeightKg != nil {
		rows = append(rows, [2]any{"Weight (kg)", *demo.WeightKg})
	}
	if demo.HeightCm != nil {
		rows = append(rows, [2]any{"Height (cm)", *demo.HeightCm})
	}
	for i, kv := range rows {
		keyCell, _ := excelize.CoordinatesToCellName(1, i+1)
		valCell, _ := excelize.CoordinatesToCellName(2, i+1)
		_ = f.SetCellValue(sheet, keyCell, kv[0])
		_ = f.SetCellValue(sheet, valCell, kv[1])
	}
	_ = f.SetColWidth(sheet, "A", "A", 16)
	return nil
}

// truncate caps s at n runes, never splitting a multibyte character.
func truncate(s string, n int) string {
	if n <= 0 || len(s) <= n {
		return s
	}
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n-1]) + "…"
}
