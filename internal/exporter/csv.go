package exporter

import (
	"encoding/csv"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"

	"creditrisk/internal/evaluation"
)

// WriteOptions configures CSV writing behavior
type WriteOptions struct {
	Headers   []string
	Records   [][]string
	BOMPrefix bool // Add UTF-8 BOM for Excel compatibility
}

// WriteCSV writes headers and records to w.
func WriteCSV(w io.Writer, options WriteOptions) error {
	if options.BOMPrefix {
		if _, err := w.Write([]byte{0xEF, 0xBB, 0xBF}); err != nil {
			return fmt.Errorf("failed to write BOM: %w", err)
		}
	}

	writer := csv.NewWriter(w)
	if len(options.Headers) > 0 {
		if err := writer.Write(options.Headers); err != nil {
			return fmt.Errorf("failed to write headers: %w", err)
		}
	}
	for i, record := range options.Records {
		if err := writer.Write(record); err != nil {
			return fmt.Errorf("failed to write record %d: %w", i, err)
		}
	}
	writer.Flush()
	return writer.Error()
}

// WriteReportCSV writes the metrics table of b to w.
func WriteReportCSV(w io.Writer, b *evaluation.Bundle) error {
	records, err := ReportTable(b)
	if err != nil {
		return err
	}
	return WriteCSV(w, WriteOptions{Headers: ReportHeaders, Records: records, BOMPrefix: true})
}

// SaveReportCSV writes the metrics table to path, creating parent
// directories as needed.
func SaveReportCSV(path string, b *evaluation.Bundle) error {
	return saveFile(path, func(w io.Writer) error { return WriteReportCSV(w, b) })
}

func saveFile(path string, write func(io.Writer) error) (err error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("failed to create directory: %w", err)
	}
	file, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create file: %w", err)
	}
	defer func() {
		if cerr := file.Close(); err == nil {
			err = cerr
		}
	}()

	slog.Info("Writing report file", slog.String("file_path", path))
	return write(file)
}
