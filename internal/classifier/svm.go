package classifier

import (
	"fmt"
	"math"
	"math/rand"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/mat"
	"gonum.org/v1/gonum/optimize"
)

// LinearSVM is a soft-margin linear SVM trained with the Pegasos
// sub-gradient method on standardized features. Probabilities come from
// Platt scaling of the decision values on the training rows.
type LinearSVM struct {
	// C is the soft-margin penalty; lambda = 1/(n*C).
	C      float64
	Epochs int
	Seed   int64

	std      standardizer
	weights  []float64 // bias last
	plattA   float64
	plattB   float64
	features int
}

// NewLinearSVM returns a model with C=1, 50 epochs and seed 42.
func NewLinearSVM() *LinearSVM {
	return &LinearSVM{C: 1, Epochs: 50, Seed: 42}
}

// Fit trains the separating hyperplane, then the Platt sigmoid.
func (m *LinearSVM) Fit(x mat.Matrix, y []string) error {
	t, err := binaryTargets(x, y)
	if err != nil {
		return err
	}
	if m.C <= 0 || m.Epochs <= 0 {
		return fmt.Errorf("linear svm: C and epochs must be positive")
	}
	m.std = fitStandardizer(x)
	xs := m.std.transform(x)
	n, c := xs.Dims()

	// The trailing constant column acts as the bias.
	aug := make([][]float64, n)
	for i := range aug {
		aug[i] = append(append(make([]float64, 0, c+1), xs.RawRowView(i)...), 1)
	}
	sign := make([]float64, n)
	for i, v := range t {
		sign[i] = 2*v - 1
	}

	lambda := 1 / (float64(n) * m.C)
	rng := rand.New(rand.NewSource(m.Seed))
	w := make([]float64, c+1)
	avg := make([]float64, c+1)
	step := 0
	for epoch := 0; epoch < m.Epochs; epoch++ {
		for _, i := range rng.Perm(n) {
			step++
			eta := 1 / (lambda * float64(step))
			margin := sign[i] * floats.Dot(w, aug[i])
			floats.Scale(1-eta*lambda, w)
			if margin < 1 {
				floats.AddScaled(w, eta*sign[i], aug[i])
			}
			// Projection onto the ball of radius 1/sqrt(lambda).
			if norm := floats.Norm(w, 2); norm > 0 {
				if limit := 1 / math.Sqrt(lambda); norm > limit {
					floats.Scale(limit/norm, w)
				}
			}
			floats.AddScaled(avg, 1/float64(step), floats.SubTo(make([]float64, c+1), w, avg))
		}
	}
	m.weights = avg
	m.features = c

	decision := make([]float64, n)
	for i := range decision {
		decision[i] = floats.Dot(m.weights, aug[i])
	}
	return m.fitPlatt(decision, t)
}

// fitPlatt fits P(good|f) = sigmoid(A*f + B) with Platt's smoothed targets.
func (m *LinearSVM) fitPlatt(decision, t []float64) error {
	var npos, nneg float64
	for _, v := range t {
		if v == 1 {
			npos++
		} else {
			nneg++
		}
	}
	hi := (npos + 1) / (npos + 2)
	lo := 1 / (nneg + 2)
	target := make([]float64, len(t))
	for i, v := range t {
		target[i] = lo
		if v == 1 {
			target[i] = hi
		}
	}

	problem := optimize.Problem{
		Func: func(ab []float64) float64 {
			loss := 0.0
			for i, f := range decision {
				z := ab[0]*f + ab[1]
				loss += softplus(z) - target[i]*z
			}
			return loss
		},
		Grad: func(grad, ab []float64) {
			grad[0], grad[1] = 0, 0
			for i, f := range decision {
				d := sigmoid(ab[0]*f+ab[1]) - target[i]
				grad[0] += d * f
				grad[1] += d
			}
		},
	}
	init := []float64{0, math.Log((npos + 1) / (nneg + 1))}
	result, err := optimize.Minimize(problem, init, &optimize.Settings{MajorIterations: 200}, &optimize.LBFGS{})
	if result == nil || len(result.X) != 2 {
		return fmt.Errorf("linear svm: platt scaling failed: %w", err)
	}
	m.plattA, m.plattB = result.X[0], result.X[1]
	return nil
}

// Decision returns the signed distance proxy w.x+b per row.
func (m *LinearSVM) Decision(x mat.Matrix) ([]float64, error) {
	if m.weights == nil {
		return nil, ErrNotFitted
	}
	if err := checkWidth(x, m.features); err != nil {
		return nil, err
	}
	r, _ := x.Dims()
	out := make([]float64, r)
	buf := make([]float64, m.features)
	scaled := make([]float64, m.features)
	for i := range out {
		m.std.apply(scaled, rowOf(x, i, buf))
		out[i] = floats.Dot(scaled, m.weights[:m.features]) + m.weights[m.features]
	}
	return out, nil
}

// PredictProba returns the Platt-calibrated P(good).
func (m *LinearSVM) PredictProba(x mat.Matrix) ([]float64, error) {
	d, err := m.Decision(x)
	if err != nil {
		return nil, err
	}
	for i, f := range d {
		d[i] = sigmoid(m.plattA*f + m.plattB)
	}
	return d, nil
}

// Predict uses the sign of the decision value.
func (m *LinearSVM) Predict(x mat.Matrix) ([]string, error) {
	d, err := m.Decision(x)
	if err != nil {
		return nil, err
	}
	out := make([]string, len(d))
	for i, f := range d {
		out[i] = labelFor(sigmoid(f))
	}
	return out, nil
}
