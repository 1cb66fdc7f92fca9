package preprocess

import (
	"errors"
	"slices"

	"gonum.org/v1/gonum/mat"
)

// ErrNoFeatures is returned when encoding yields no rows or no columns.
var ErrNoFeatures = errors.New("encoding produced an empty feature matrix")

// FeatureMatrix is a dense numeric matrix with named columns and the label
// vector carried alongside.
type FeatureMatrix struct {
	columns []string
	data    *mat.Dense
	labels  []string
}

// NewFeatureMatrix wraps data. labels may be nil.
func NewFeatureMatrix(columns []string, data *mat.Dense, labels []string) *FeatureMatrix {
	return &FeatureMatrix{columns: slices.Clone(columns), data: data, labels: slices.Clone(labels)}
}

// Columns returns the ordered column names.
func (fm *FeatureMatrix) Columns() []string { return slices.Clone(fm.columns) }

// Data returns the underlying matrix. Callers must not modify it.
func (fm *FeatureMatrix) Data() *mat.Dense { return fm.data }

// Labels returns the label vector, nil for unlabelled input.
func (fm *FeatureMatrix) Labels() []string { return slices.Clone(fm.labels) }

// Rows returns the number of rows.
func (fm *FeatureMatrix) Rows() int {
	r, _ := fm.data.Dims()
	return r
}

// Index returns the position of column, or -1.
func (fm *FeatureMatrix) Index(column string) int {
	return slices.Index(fm.columns, column)
}

// Column returns a copy of the named column, nil when absent.
func (fm *FeatureMatrix) Column(column string) []float64 {
	j := fm.Index(column)
	if j < 0 {
		return nil
	}
	return mat.Col(nil, j, fm.data)
}

// SelectRows returns a matrix holding the given rows in order.
func (fm *FeatureMatrix) SelectRows(idx []int) *FeatureMatrix {
	_, c := fm.data.Dims()
	out := mat.NewDense(len(idx), c, nil)
	var labels []string
	if fm.labels != nil {
		labels = make([]string, len(idx))
	}
	for i, j := range idx {
		out.SetRow(i, fm.data.RawRowView(j))
		if labels != nil {
			labels[i] = fm.labels[j]
		}
	}
	return &FeatureMatrix{columns: fm.columns, data: out, labels: labels}
}

// SameColumns reports whether a and b hold the same names in the same order.
func SameColumns(a, b []string) bool {
	return slices.Equal(a, b)
}
