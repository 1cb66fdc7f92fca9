package classifier

import (
	"errors"
	"fmt"

	"gonum.org/v1/gonum/mat"

	"creditrisk/internal/dataset"
)

var (
	// ErrNotFitted is returned by Predict before Fit succeeded.
	ErrNotFitted = errors.New("classifier is not fitted")
	// ErrUnknownLabel is returned for labels other than good or bad.
	ErrUnknownLabel = errors.New("unknown class label")
	// ErrShape is returned when feature and label dimensions disagree.
	ErrShape = errors.New("feature matrix shape mismatch")
)

// Classifier is a binary classifier over the good/bad labels.
type Classifier interface {
	Fit(x mat.Matrix, y []string) error
	Predict(x mat.Matrix) ([]string, error)
}

// Scorer is implemented by classifiers with native probability output.
// PredictProba returns the probability of the good label per row.
type Scorer interface {
	PredictProba(x mat.Matrix) ([]float64, error)
}

// binaryTargets maps good to 1 and bad to 0.
func binaryTargets(x mat.Matrix, y []string) ([]float64, error) {
	r, _ := x.Dims()
	if r != len(y) {
		return nil, fmt.Errorf("%w: %d rows, %d labels", ErrShape, r, len(y))
	}
	if r == 0 {
		return nil, fmt.Errorf("%w: no training rows", ErrShape)
	}
	out := make([]float64, len(y))
	for i, label := range y {
		switch label {
		case dataset.LabelGood:
			out[i] = 1
		case dataset.LabelBad:
		default:
			return nil, fmt.Errorf("%w: %q", ErrUnknownLabel, label)
		}
	}
	return out, nil
}

func labelFor(p float64) string {
	if p >= 0.5 {
		return dataset.LabelGood
	}
	return dataset.LabelBad
}

func labelsFromProba(proba []float64) []string {
	out := make([]string, len(proba))
	for i, p := range proba {
		out[i] = labelFor(p)
	}
	return out
}

func checkWidth(x mat.Matrix, want int) error {
	_, c := x.Dims()
	if c != want {
		return fmt.Errorf("%w: %d columns, model trained on %d", ErrShape, c, want)
	}
	return nil
}

func rowOf(x mat.Matrix, i int, dst []float64) []float64 {
	if rv, ok := x.(mat.RawRowViewer); ok {
		return rv.RawRowView(i)
	}
	return mat.Row(dst, i, x)
}
