package analysis

import (
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gonum.org/v1/gonum/mat"
)

func TestIsolationForestFlagsOutliers(t *testing.T) {
	rng := rand.New(rand.NewSource(5))
	n := 500
	x := mat.NewDense(n, 2, nil)
	for i := 0; i < n; i++ {
		x.Set(i, 0, rng.NormFloat64())
		x.Set(i, 1, rng.NormFloat64())
	}
	// Plant far-away rows.
	planted := []int{10, 200, 450}
	for _, i := range planted {
		x.Set(i, 0, 25)
		x.Set(i, 1, -25)
	}

	model, err := NewIsolationForest().Fit(x)
	require.NoError(t, err)

	flags := model.Outliers(x)
	flagged := 0
	for _, f := range flags {
		if f {
			flagged++
		}
	}
	assert.InDelta(t, n/10, flagged, 5, "about the contamination share is flagged")
	for _, i := range planted {
		assert.True(t, flags[i], "planted row %d", i)
	}

	scores := model.Scores(x)
	for _, s := range scores {
		assert.Greater(t, s, 0.0)
		assert.LessOrEqual(t, s, 1.0)
	}
	assert.Greater(t, scores[10], scores[0])
}

func TestIsolationForestDeterministic(t *testing.T) {
	x := threeBlobs()
	a, err := NewIsolationForest().Fit(x)
	require.NoError(t, err)
	b, err := NewIsolationForest().Fit(x)
	require.NoError(t, err)
	assert.Equal(t, a.Scores(x), b.Scores(x))
	assert.Equal(t, a.Threshold, b.Threshold)
}

func TestIsolationForestErrors(t *testing.T) {
	_, err := NewIsolationForest().Fit(mat.NewDense(1, 1, []float64{1}))
	assert.Error(t, err)

	f := NewIsolationForest()
	f.Contamination = 0.7
	_, err = f.Fit(threeBlobs())
	assert.Error(t, err)
}

func TestAveragePathLength(t *testing.T) {
	assert.Equal(t, 0.0, averagePathLength(1))
	assert.Equal(t, 1.0, averagePathLength(2))
	assert.InDelta(t, 10.24, averagePathLength(256), 0.01)
}
