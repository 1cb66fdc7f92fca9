package classifier

import (
	"fmt"
	"math"
	"math/rand"

	"gonum.org/v1/gonum/mat"
)

// RandomForest is a bagged ensemble of CART trees. Each tree is grown on a
// bootstrap sample and considers MaxFeatures randomly chosen features at
// every split. All randomness comes from Seed.
type RandomForest struct {
	Trees          int
	MaxFeatures    int // 0 means sqrt(features)
	MinSamplesLeaf int
	Seed           int64

	trees    []*treeNode
	features int
}

// NewRandomForest returns a forest of fully grown trees seeded with 42.
func NewRandomForest(trees int) *RandomForest {
	return &RandomForest{Trees: trees, MinSamplesLeaf: 1, Seed: 42}
}

// Fit grows the trees one after another from a single seeded source.
func (m *RandomForest) Fit(x mat.Matrix, y []string) error {
	t, err := binaryTargets(x, y)
	if err != nil {
		return err
	}
	if m.Trees < 1 {
		return fmt.Errorf("random forest: %d trees", m.Trees)
	}
	xd := toDense(x)
	r, c := xd.Dims()

	k := m.MaxFeatures
	if k <= 0 {
		k = max(int(math.Sqrt(float64(c))), 1)
	}
	rng := rand.New(rand.NewSource(m.Seed))

	trees := make([]*treeNode, m.Trees)
	for i := range trees {
		sample := make([]int, r)
		for j := range sample {
			sample[j] = rng.Intn(r)
		}
		b := &treeBuilder{
			x:           xd,
			targets:     t,
			leaf:        meanLeaf(t),
			minSplit:    2,
			minLeaf:     max(m.MinSamplesLeaf, 1),
			maxFeatures: k,
			rng:         rng,
		}
		trees[i] = b.build(sample, 0)
	}
	m.trees = trees
	m.features = c
	return nil
}

// PredictProba averages the leaf good fractions over the trees. With fully
// grown trees this is the share of trees voting good.
func (m *RandomForest) PredictProba(x mat.Matrix) ([]float64, error) {
	if m.trees == nil {
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
		sum := 0.0
		for _, tree := range m.trees {
			sum += tree.predict(row)
		}
		out[i] = sum / float64(len(m.trees))
	}
	return out, nil
}

// Predict returns the majority vote.
func (m *RandomForest) Predict(x mat.Matrix) ([]string, error) {
	p, err := m.PredictProba(x)
	if err != nil {
		return nil, err
	}
	return labelsFromProba(p), nil
}
