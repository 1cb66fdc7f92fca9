package classifier

import (
	"fmt"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/mat"
	"gonum.org/v1/gonum/optimize"
)

// LogisticRegression is an L2-regularized logistic regression fitted with
// L-BFGS on standardized features.
type LogisticRegression struct {
	// C is the inverse regularization strength.
	C       float64
	MaxIter int

	std     standardizer
	weights []float64 // bias last
}

// NewLogisticRegression returns a model with C=1 and 1000 iterations.
func NewLogisticRegression() *LogisticRegression {
	return &LogisticRegression{C: 1, MaxIter: 1000}
}

// Fit minimizes 0.5*||w||^2 + C*sum(log-loss).
func (m *LogisticRegression) Fit(x mat.Matrix, y []string) error {
	t, err := binaryTargets(x, y)
	if err != nil {
		return err
	}
	m.std = fitStandardizer(x)
	xs := m.std.transform(x)
	n, c := xs.Dims()

	sign := make([]float64, n)
	for i, v := range t {
		sign[i] = 2*v - 1
	}

	z := make([]float64, n)
	margins := func(w []float64) {
		for i := 0; i < n; i++ {
			z[i] = floats.Dot(xs.RawRowView(i), w[:c]) + w[c]
		}
	}

	problem := optimize.Problem{
		Func: func(w []float64) float64 {
			margins(w)
			loss := 0.0
			for i := range z {
				loss += softplus(-sign[i] * z[i])
			}
			return m.C*loss + 0.5*floats.Dot(w[:c], w[:c])
		},
		Grad: func(grad, w []float64) {
			margins(w)
			for j := range grad {
				grad[j] = 0
			}
			for i := range z {
				g := -sign[i] * sigmoid(-sign[i]*z[i]) * m.C
				floats.AddScaled(grad[:c], g, xs.RawRowView(i))
				grad[c] += g
			}
			floats.Add(grad[:c], w[:c])
		},
	}

	settings := &optimize.Settings{
		MajorIterations:   m.MaxIter,
		GradientThreshold: 1e-6,
	}
	result, err := optimize.Minimize(problem, make([]float64, c+1), settings, &optimize.LBFGS{})
	if result == nil || len(result.X) != c+1 {
		return fmt.Errorf("logistic regression: optimizer failed: %w", err)
	}
	// Iteration limits and line search stalls still leave a usable optimum.
	m.weights = result.X
	return nil
}

// PredictProba returns P(good) per row.
func (m *LogisticRegression) PredictProba(x mat.Matrix) ([]float64, error) {
	if m.weights == nil {
		return nil, ErrNotFitted
	}
	c := len(m.weights) - 1
	if err := checkWidth(x, c); err != nil {
		return nil, err
	}
	r, _ := x.Dims()
	out := make([]float64, r)
	buf := make([]float64, c)
	scaled := make([]float64, c)
	for i := 0; i < r; i++ {
		m.std.apply(scaled, rowOf(x, i, buf))
		out[i] = sigmoid(floats.Dot(scaled, m.weights[:c]) + m.weights[c])
	}
	return out, nil
}

// Predict thresholds PredictProba at 0.5.
func (m *LogisticRegression) Predict(x mat.Matrix) ([]string, error) {
	p, err := m.PredictProba(x)
	if err != nil {
		return nil, err
	}
	return labelsFromProba(p), nil
}
