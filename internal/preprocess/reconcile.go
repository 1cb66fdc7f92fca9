package preprocess

import (
	"errors"
	"fmt"

	"gonum.org/v1/gonum/mat"
)

// ErrColumnMismatch is returned when a matrix does not carry the exact
// column list a model was trained on.
var ErrColumnMismatch = errors.New("feature columns do not match training columns")

// Reconcile returns a matrix with exactly the given columns in the given
// order. Columns missing from fm are filled with 0; columns of fm that are
// not listed are dropped. Matching is by name only.
func Reconcile(fm *FeatureMatrix, columns []string) (*FeatureMatrix, error) {
	if len(columns) == 0 {
		return nil, fmt.Errorf("%w: empty training column list", ErrColumnMismatch)
	}
	rows := fm.Rows()
	out := mat.NewDense(rows, len(columns), nil)
	for j, c := range columns {
		src := fm.Index(c)
		if src < 0 {
			continue
		}
		for i := 0; i < rows; i++ {
			out.Set(i, j, fm.data.At(i, src))
		}
	}

	aligned := &FeatureMatrix{columns: append([]string(nil), columns...), data: out, labels: fm.labels}
	if err := CheckColumns(aligned, columns); err != nil {
		return nil, err
	}
	return aligned, nil
}

// CheckColumns fails unless fm has exactly columns, in order.
func CheckColumns(fm *FeatureMatrix, columns []string) error {
	_, c := fm.data.Dims()
	if c != len(columns) || !SameColumns(fm.columns, columns) {
		return fmt.Errorf("%w: have %d columns, want %d", ErrColumnMismatch, c, len(columns))
	}
	return nil
}
