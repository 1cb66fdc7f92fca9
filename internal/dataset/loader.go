package dataset

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/go-gota/gota/dataframe"
	"github.com/go-gota/gota/series"
	"github.com/xuri/excelize/v2"
)

// ErrMalformed marks a dataset that cannot be read or lacks required columns.
var ErrMalformed = errors.New("malformed dataset")

// Load reads a .csv or .xlsx dataset file and validates its schema.
func Load(path string) (*RecordSet, error) {
	var (
		rs  *RecordSet
		err error
	)
	switch strings.ToLower(filepath.Ext(path)) {
	case ".csv":
		f, openErr := os.Open(path)
		if openErr != nil {
			return nil, fmt.Errorf("open dataset: %w", openErr)
		}
		defer f.Close()
		rs, err = ReadCSV(f)
	case ".xlsx":
		rs, err = ReadXLSX(path)
	default:
		return nil, fmt.Errorf("%w: unsupported file type %q", ErrMalformed, filepath.Ext(path))
	}
	if err != nil {
		return nil, fmt.Errorf("load %s: %w", filepath.Base(path), err)
	}
	if err := Validate(rs); err != nil {
		return nil, fmt.Errorf("load %s: %w", filepath.Base(path), err)
	}
	return rs, nil
}

// ReadCSV parses a headed CSV stream. Every column is read as a string.
func ReadCSV(r io.Reader) (*RecordSet, error) {
	df := dataframe.ReadCSV(r,
		dataframe.HasHeader(true),
		dataframe.DetectTypes(false),
		dataframe.DefaultType(series.String),
	)
	if df.Err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformed, df.Err)
	}

	header := df.Names()
	records := make([][]string, df.Nrow())
	for i := range records {
		records[i] = make([]string, len(header))
	}
	for j, name := range header {
		for i, v := range df.Col(name).Records() {
			records[i][j] = v
		}
	}
	return FromRecords(header, records)
}

// ReadXLSX reads the first sheet of a workbook; the first row is the header.
func ReadXLSX(path string) (*RecordSet, error) {
	f, err := excelize.OpenFile(path)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformed, err)
	}
	defer f.Close()

	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		return nil, fmt.Errorf("%w: workbook has no sheets", ErrMalformed)
	}
	rows, err := f.GetRows(sheets[0])
	if err != nil {
		return nil, fmt.Errorf("%w: read sheet %q: %v", ErrMalformed, sheets[0], err)
	}
	if len(rows) == 0 {
		return nil, fmt.Errorf("%w: sheet %q is empty", ErrMalformed, sheets[0])
	}

	header := rows[0]
	records := make([][]string, 0, len(rows)-1)
	for _, row := range rows[1:] {
		// GetRows trims trailing empty cells.
		rec := make([]string, len(header))
		copy(rec, row)
		records = append(records, rec)
	}
	return FromRecords(header, records)
}

// Validate checks that rs carries every required column, that required
// cells are non-empty, that key numeric columns parse and that labels are
// good or bad.
func Validate(rs *RecordSet) error {
	var missing []string
	for _, c := range RequiredColumns() {
		if !rs.HasColumn(c) {
			missing = append(missing, c)
		}
	}
	if len(missing) > 0 {
		return fmt.Errorf("%w: missing required columns: %s", ErrMalformed, strings.Join(missing, ", "))
	}
	if rs.Len() == 0 {
		return fmt.Errorf("%w: no rows", ErrMalformed)
	}

	for _, c := range RequiredColumns() {
		for i, v := range rs.Column(c) {
			if v == "" {
				return fmt.Errorf("%w: column %q row %d is empty", ErrMalformed, c, i+1)
			}
		}
	}
	for _, c := range rs.columns {
		if IsCategorical(c) || c == LabelColumn {
			continue
		}
		if _, err := rs.Float(c); err != nil {
			return err
		}
	}
	for i, label := range rs.Labels() {
		if label != LabelGood && label != LabelBad {
			return fmt.Errorf("%w: row %d has label %q, want %q or %q",
				ErrMalformed, i+1, label, LabelGood, LabelBad)
		}
	}
	return nil
}
