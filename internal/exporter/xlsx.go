package exporter

import (
	"fmt"
	"io"

	"github.com/xuri/excelize/v2"

	"creditrisk/internal/evaluation"
)

// Sheet names of the report workbook.
const (
	SheetMetrics   = "Metrics"
	SheetConfusion = "Confusion"
	SheetSummary   = "Summary"
)

// ContentTypeXLSX is the media type of the report workbook.
const ContentTypeXLSX = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

// NewWorkbook builds the report workbook: per-model metrics, confusion
// matrices and a summary of the evaluation run.
func NewWorkbook(b *evaluation.Bundle) (*excelize.File, error) {
	metrics, err := ReportTable(b)
	if err != nil {
		return nil, err
	}
	confusion, err := ConfusionTable(b)
	if err != nil {
		return nil, err
	}

	f := excelize.NewFile()
	if err := f.SetSheetName("Sheet1", SheetMetrics); err != nil {
		f.Close()
		return nil, fmt.Errorf("failed to rename sheet: %w", err)
	}
	if _, err := f.NewSheet(SheetConfusion); err != nil {
		f.Close()
		return nil, fmt.Errorf("failed to create sheet: %w", err)
	}
	if _, err := f.NewSheet(SheetSummary); err != nil {
		f.Close()
		return nil, fmt.Errorf("failed to create sheet: %w", err)
	}

	headerStyle, err := f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true}})
	if err != nil {
		f.Close()
		return nil, fmt.Errorf("failed to create style: %w", err)
	}

	if err := writeSheet(f, SheetMetrics, ReportHeaders, metrics, headerStyle); err != nil {
		f.Close()
		return nil, err
	}
	if err := writeSheet(f, SheetConfusion, ConfusionHeaders, confusion, headerStyle); err != nil {
		f.Close()
		return nil, err
	}
	summary := [][]string{
		{"key", b.Key},
		{"rows", formatInt(b.Rows)},
		{"held_out", formatInt(len(b.Split.Test))},
		{"features", formatInt(len(b.Columns))},
		{"trained_at", b.TrainedAt.UTC().Format("2006-01-02 15:04:05")},
	}
	if err := writeSheet(f, SheetSummary, []string{"field", "value"}, summary, headerStyle); err != nil {
		f.Close()
		return nil, err
	}
	f.SetActiveSheet(0)
	return f, nil
}

// WriteXLSX streams the report workbook to w.
func WriteXLSX(w io.Writer, b *evaluation.Bundle) error {
	f, err := NewWorkbook(b)
	if err != nil {
		return err
	}
	defer f.Close()

	if _, err := f.WriteTo(w); err != nil {
		return fmt.Errorf("failed to write workbook: %w", err)
	}
	return nil
}

// SaveXLSX writes the report workbook to path.
func SaveXLSX(path string, b *evaluation.Bundle) error {
	return saveFile(path, func(w io.Writer) error { return WriteXLSX(w, b) })
}

func writeSheet(f *excelize.File, sheet string, headers []string, records [][]string, headerStyle int) error {
	for col, h := range headers {
		cell, err := excelize.CoordinatesToCellName(col+1, 1)
		if err != nil {
			return err
		}
		if err := f.SetCellValue(sheet, cell, h); err != nil {
			return fmt.Errorf("failed to write header %s: %w", cell, err)
		}
	}
	last, err := excelize.CoordinatesToCellName(max(len(headers), 1), 1)
	if err != nil {
		return err
	}
	if err := f.SetCellStyle(sheet, "A1", last, headerStyle); err != nil {
		return fmt.Errorf("failed to style header: %w", err)
	}

	for i, record := range records {
		for col, v := range record {
			cell, err := excelize.CoordinatesToCellName(col+1, i+2)
			if err != nil {
				return err
			}
			if err := f.SetCellValue(sheet, cell, v); err != nil {
				return fmt.Errorf("failed to write cell %s: %w", cell, err)
			}
		}
	}
	return nil
}
