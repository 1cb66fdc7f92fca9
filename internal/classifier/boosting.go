package classifier

import (
	"fmt"
	"math"

	"gonum.org/v1/gonum/mat"
)

// GradientBoosting fits shallow regression trees to the log-loss gradient.
// Leaf values take one Newton step, as in Friedman's binomial deviance.
type GradientBoosting struct {
	NEstimators  int
	LearningRate float64
	MaxDepth     int
	MinLeaf      int

	init     float64
	trees    []*treeNode
	features int
}

// NewGradientBoosting returns 100 depth-3 trees at learning rate 0.1.
func NewGradientBoosting() *GradientBoosting {
	return &GradientBoosting{NEstimators: 100, LearningRate: 0.1, MaxDepth: 3, MinLeaf: 1}
}

// Fit runs NEstimators boosting rounds.
func (m *GradientBoosting) Fit(x mat.Matrix, y []string) error {
	t, err := binaryTargets(x, y)
	if err != nil {
		return err
	}
	if m.NEstimators <= 0 {
		return fmt.Errorf("gradient boosting: no estimators configured")
	}
	xd := toDense(x)
	n, c := xd.Dims()

	pos := 0.0
	for _, v := range t {
		pos += v
	}
	prior := pos / float64(n)
	switch {
	case prior == 0:
		m.init = -30
	case prior == 1:
		m.init = 30
	default:
		m.init = math.Log(prior / (1 - prior))
	}

	f := make([]float64, n)
	for i := range f {
		f[i] = m.init
	}
	p := make([]float64, n)
	residual := make([]float64, n)

	m.trees = m.trees[:0]
	for round := 0; round < m.NEstimators; round++ {
		for i := range f {
			p[i] = sigmoid(f[i])
			residual[i] = t[i] - p[i]
		}
		b := &treeBuilder{
			x:        xd,
			targets:  residual,
			leaf:     newtonLeaf(residual, p),
			maxDepth: m.MaxDepth,
			minSplit: 2,
			minLeaf:  max(m.MinLeaf, 1),
		}
		tree := b.build(allRows(n), 0)
		for i := 0; i < n; i++ {
			f[i] += m.LearningRate * tree.predict(xd.RawRowView(i))
		}
		m.trees = append(m.trees, tree)
	}
	m.features = c
	return nil
}

func newtonLeaf(residual, p []float64) func(idx []int) float64 {
	return func(idx []int) float64 {
		var num, den float64
		for _, i := range idx {
			num += residual[i]
			den += p[i] * (1 - p[i])
		}
		if den < 1e-12 {
			return 0
		}
		return num / den
	}
}

// PredictProba returns sigmoid of the boosted score.
func (m *GradientBoosting) PredictProba(x mat.Matrix) ([]float64, error) {
	if len(m.trees) == 0 {
		return nil, ErrNotFitted
	}
	if err := checkWidth(x, m.features); err != nil {
		return nil, err
	}
	r, _ := x.Dims()
	out := make([]float64, r)
	buf := make([]float64, m.features)
	for i := range out {
		row := rowOf(x, i, buf)
		score := m.init
		for _, tree := range m.trees {
			score += m.LearningRate * tree.predict(row)
		}
		out[i] = sigmoid(score)
	}
	return out, nil
}

// Predict thresholds PredictProba at 0.5.
func (m *GradientBoosting) Predict(x mat.Matrix) ([]string, error) {
	p, err := m.PredictProba(x)
	if err != nil {
		return nil, err
	}
	return labelsFromProba(p), nil
}
