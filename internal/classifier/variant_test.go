package classifier

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gonum.org/v1/gonum/mat"

	"creditrisk/internal/dataset"
)

func TestDefaultVariants(t *testing.T) {
	variants := DefaultVariants()
	require.Len(t, variants, 6)

	names := make(map[string]bool)
	for _, v := range variants {
		assert.False(t, names[v.Name], "duplicate variant %s", v.Name)
		names[v.Name] = true

		m, err := Build(v, 42)
		require.NoError(t, err, v.Name)
		assert.Equal(t, v, m.Variant)
	}

	probability := map[Kind]ProbabilitySource{}
	for _, v := range variants {
		probability[v.Kind] = v.Probability
	}
	for _, kind := range Kinds() {
		assert.Equal(t, ProbabilityNative, probability[kind], kind)
	}
	assert.Len(t, Kinds(), 6)
}

// labelsOnly has no probability output.
type labelsOnly struct{ Classifier }

func TestBuildRejectsInvalidVariants(t *testing.T) {
	factories["labels_only"] = func(Params, int64) Classifier { return labelsOnly{NewKNN(1)} }
	t.Cleanup(func() { delete(factories, "labels_only") })

	tests := []struct {
		name    string
		variant Variant
		wantErr string
	}{
		{"empty name", Variant{Kind: KindKNN, Probability: ProbabilityLabel}, "empty name"},
		{"unknown kind", Variant{Name: "x", Kind: "naive_bayes", Probability: ProbabilityLabel}, "unknown kind"},
		{"native without scorer", Variant{Name: "labels", Kind: "labels_only", Probability: ProbabilityNative}, "no native probability"},
		{"unknown probability", Variant{Name: "lr", Kind: KindLogistic, Probability: "guess"}, "unknown probability source"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Build(tt.variant, 42)
			require.Error(t, err)
			assert.ErrorIs(t, err, ErrInvalidVariant)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}

func TestPositiveProba(t *testing.T) {
	x, y := blobs(60, 7)

	t.Run("label proxy", func(t *testing.T) {
		m, err := Build(Variant{Name: "knn", Kind: KindKNN, Params: Params{"k": 3}, Probability: ProbabilityLabel}, 42)
		require.NoError(t, err)
		require.NoError(t, m.Fit(x, y))

		pred, err := m.Predict(x)
		require.NoError(t, err)
		proba, err := m.PositiveProba(x, pred)
		require.NoError(t, err)
		for i, p := range proba {
			if pred[i] == dataset.LabelGood {
				assert.Equal(t, 1.0, p)
			} else {
				assert.Equal(t, 0.0, p)
			}
		}
	})

	t.Run("native", func(t *testing.T) {
		m, err := Build(Variant{Name: "lr", Kind: KindLogistic, Probability: ProbabilityNative}, 42)
		require.NoError(t, err)
		require.NoError(t, m.Fit(x, y))

		pred, err := m.Predict(x)
		require.NoError(t, err)
		proba, err := m.PositiveProba(x, pred)
		require.NoError(t, err)

		fractional := 0
		for _, p := range proba {
			if p > 0 && p < 1 {
				fractional++
			}
		}
		assert.Greater(t, fractional, 0)
	})

	t.Run("errors carry the variant name", func(t *testing.T) {
		m, err := Build(Variant{Name: "Decision Tree", Kind: KindDecisionTree, Probability: ProbabilityNative}, 42)
		require.NoError(t, err)
		_, err = m.Predict(mat.NewDense(1, 2, nil))
		require.Error(t, err)
		assert.Contains(t, err.Error(), "Decision Tree")
	})
}

func TestParamsGet(t *testing.T) {
	p := Params{"k": 7}
	assert.Equal(t, 7.0, p.Get("k", 5))
	assert.Equal(t, 5.0, p.Get("missing", 5))
	var empty Params
	assert.Equal(t, 1.0, empty.Get("c", 1))
}
