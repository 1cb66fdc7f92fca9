package preprocess

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"gonum.org/v1/gonum/mat"
	"gonum.org/v1/gonum/stat"
)

func TestScale(t *testing.T) {
	fm := NewFeatureMatrix(
		[]string{"a", "constant"},
		mat.NewDense(4, 2, []float64{
			1, 7,
			2, 7,
			3, 7,
			4, 7,
		}),
		nil,
	)

	scaled := Scale(fm)
	a := mat.Col(nil, 0, scaled)
	mean, variance := stat.PopMeanVariance(a, nil)
	assert.InDelta(t, 0, mean, 1e-12)
	assert.InDelta(t, 1, variance, 1e-12)
	assert.Equal(t, []float64{0, 0, 0, 0}, mat.Col(nil, 1, scaled))

	// Source matrix is untouched.
	assert.Equal(t, 1.0, fm.Data().At(0, 0))
}
