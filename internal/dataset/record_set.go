package dataset

import (
	"fmt"
	"slices"
	"strconv"
	"strings"

	"github.com/cespare/xxhash/v2"
)

// Row maps a column name to its raw cell value.
type Row map[string]string

// RecordSet is an ordered, read-only collection of rows sharing one header.
type RecordSet struct {
	columns []string
	rows    []Row
	hash    uint64
}

// New builds a RecordSet. Every row must carry a value for every column.
func New(columns []string, rows []Row) (*RecordSet, error) {
	if len(columns) == 0 {
		return nil, fmt.Errorf("%w: no columns", ErrMalformed)
	}
	seen := make(map[string]struct{}, len(columns))
	for _, c := range columns {
		if _, dup := seen[c]; dup {
			return nil, fmt.Errorf("%w: duplicate column %q", ErrMalformed, c)
		}
		seen[c] = struct{}{}
	}

	copied := make([]Row, len(rows))
	for i, row := range rows {
		r := make(Row, len(columns))
		for _, c := range columns {
			v, ok := row[c]
			if !ok {
				return nil, fmt.Errorf("%w: row %d has no value for %q", ErrMalformed, i+1, c)
			}
			r[c] = v
		}
		copied[i] = r
	}

	rs := &RecordSet{
		columns: slices.Clone(columns),
		rows:    copied,
	}
	rs.hash = rs.computeHash()
	return rs, nil
}

// FromRecords builds a RecordSet from a header and positional records.
func FromRecords(header []string, records [][]string) (*RecordSet, error) {
	rows := make([]Row, 0, len(records))
	for i, rec := range records {
		if len(rec) != len(header) {
			return nil, fmt.Errorf("%w: record %d has %d fields, header has %d",
				ErrMalformed, i+1, len(rec), len(header))
		}
		row := make(Row, len(header))
		for j, c := range header {
			row[c] = strings.TrimSpace(rec[j])
		}
		rows = append(rows, row)
	}
	return New(header, rows)
}

func (rs *RecordSet) computeHash() uint64 {
	d := xxhash.New()
	for _, c := range rs.columns {
		_, _ = d.WriteString(c)
		_, _ = d.Write([]byte{0x1f})
	}
	for _, row := range rs.rows {
		_, _ = d.Write([]byte{0x1e})
		for _, c := range rs.columns {
			_, _ = d.WriteString(row[c])
			_, _ = d.Write([]byte{0x1f})
		}
	}
	return d.Sum64()
}

// Columns returns the header in source order.
func (rs *RecordSet) Columns() []string {
	return slices.Clone(rs.columns)
}

// HasColumn reports whether the header contains column.
func (rs *RecordSet) HasColumn(column string) bool {
	return slices.Contains(rs.columns, column)
}

// Len returns the number of rows.
func (rs *RecordSet) Len() int {
	return len(rs.rows)
}

// Row returns a copy of row i.
func (rs *RecordSet) Row(i int) Row {
	out := make(Row, len(rs.columns))
	for k, v := range rs.rows[i] {
		out[k] = v
	}
	return out
}

// Value returns the raw cell at row i, column.
func (rs *RecordSet) Value(i int, column string) string {
	return rs.rows[i][column]
}

// Column returns every value of column in row order.
func (rs *RecordSet) Column(column string) []string {
	if !rs.HasColumn(column) {
		return nil
	}
	out := make([]string, len(rs.rows))
	for i, row := range rs.rows {
		out[i] = row[column]
	}
	return out
}

// Float parses column as float64 values.
func (rs *RecordSet) Float(column string) ([]float64, error) {
	if !rs.HasColumn(column) {
		return nil, fmt.Errorf("%w: unknown column %q", ErrMalformed, column)
	}
	out := make([]float64, len(rs.rows))
	for i, row := range rs.rows {
		v, err := strconv.ParseFloat(row[column], 64)
		if err != nil {
			return nil, fmt.Errorf("%w: column %q row %d: %q is not numeric",
				ErrMalformed, column, i+1, row[column])
		}
		out[i] = v
	}
	return out, nil
}

// Labels returns the label column, or nil when the set has none.
func (rs *RecordSet) Labels() []string {
	return rs.Column(LabelColumn)
}

// Subset returns the rows at the given positions, in the given order.
func (rs *RecordSet) Subset(idx []int) *RecordSet {
	rows := make([]Row, len(idx))
	for i, j := range idx {
		rows[i] = rs.rows[j]
	}
	sub := &RecordSet{columns: rs.columns, rows: rows}
	sub.hash = sub.computeHash()
	return sub
}

// Records returns the rows as positional string slices in header order.
func (rs *RecordSet) Records() [][]string {
	out := make([][]string, len(rs.rows))
	for i, row := range rs.rows {
		rec := make([]string, len(rs.columns))
		for j, c := range rs.columns {
			rec[j] = row[c]
		}
		out[i] = rec
	}
	return out
}

// Hash returns the xxhash64 digest of the header and every cell in order.
func (rs *RecordSet) Hash() uint64 {
	return rs.hash
}

// Key returns the content hash as a fixed-width hex string.
func (rs *RecordSet) Key() string {
	return fmt.Sprintf("%016x", rs.hash)
}
