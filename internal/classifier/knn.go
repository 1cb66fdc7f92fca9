package classifier

import (
	"sort"

	"github.com/sjwhitworth/golearn/metrics/pairwise"
	"gonum.org/v1/gonum/mat"
)

// KNN is a k-nearest-neighbour classifier. Distances come from golearn's
// pairwise euclidean metric; equal distances keep training row order.
type KNN struct {
	K int

	distance pairwise.PairwiseDistanceFunc
	train    []*mat.Dense // one column vector per training row
	targets  []float64
	features int
}

// NewKNN returns a euclidean k-nearest-neighbour classifier.
func NewKNN(k int) *KNN {
	return &KNN{K: k}
}

// Fit stores the training rows.
func (m *KNN) Fit(x mat.Matrix, y []string) error {
	t, err := binaryTargets(x, y)
	if err != nil {
		return err
	}
	r, c := x.Dims()
	train := make([]*mat.Dense, r)
	for i := range train {
		train[i] = mat.NewDense(c, 1, mat.Row(nil, i, x))
	}
	m.distance = pairwise.NewEuclidean()
	m.train = train
	m.targets = t
	m.features = c
	return nil
}

type neighbour struct {
	row  int
	dist float64
}

// PredictProba returns the share of good rows among the K nearest training
// rows.
func (m *KNN) PredictProba(x mat.Matrix) ([]float64, error) {
	if m.train == nil {
		return nil, ErrNotFitted
	}
	if err := checkWidth(x, m.features); err != nil {
		return nil, err
	}
	k := min(max(m.K, 1), len(m.train))

	r, _ := x.Dims()
	out := make([]float64, r)
	near := make([]neighbour, len(m.train))
	for i := range out {
		q := mat.NewDense(m.features, 1, mat.Row(nil, i, x))
		for j, tr := range m.train {
			near[j] = neighbour{row: j, dist: m.distance.Distance(q, tr)}
		}
		sort.SliceStable(near, func(a, b int) bool { return near[a].dist < near[b].dist })

		good := 0.0
		for _, n := range near[:k] {
			good += m.targets[n.row]
		}
		out[i] = good / float64(k)
	}
	return out, nil
}

// Predict returns the majority label of the neighbours.
func (m *KNN) Predict(x mat.Matrix) ([]string, error) {
	p, err := m.PredictProba(x)
	if err != nil {
		return nil, err
	}
	return labelsFromProba(p), nil
}
