package analysis

import (
	"fmt"
	"math"
	"math/rand"
	"sort"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/mat"
	"gonum.org/v1/gonum/stat"
)

const eulerGamma = 0.5772156649015329

// IsolationForest isolates rows with random axis-aligned splits; rows that
// isolate in few splits are anomalous.
type IsolationForest struct {
	NTrees        int
	MaxSamples    int
	Contamination float64
	Seed          int64
}

// NewIsolationForest returns 100 trees on 256-row subsamples flagging the
// top 10% of scores, seed 42.
func NewIsolationForest() *IsolationForest {
	return &IsolationForest{NTrees: 100, MaxSamples: 256, Contamination: 0.1, Seed: 42}
}

type isoNode struct {
	feature int
	split   float64
	left    *isoNode
	right   *isoNode
	size    int
}

// IsolationModel is a fitted forest plus the score threshold derived from
// the contamination share of the training rows.
type IsolationModel struct {
	trees      []*isoNode
	sampleSize int
	Threshold  float64
}

// Fit grows the forest on x and sets the outlier threshold.
func (f *IsolationForest) Fit(x mat.Matrix) (*IsolationModel, error) {
	n, d := x.Dims()
	if n < 2 {
		return nil, fmt.Errorf("isolation forest: need at least 2 rows, have %d", n)
	}
	if f.NTrees < 1 {
		return nil, fmt.Errorf("isolation forest: need at least one tree")
	}
	if f.Contamination <= 0 || f.Contamination >= 0.5 {
		return nil, fmt.Errorf("isolation forest: contamination %.3f outside (0, 0.5)", f.Contamination)
	}

	rows := make([][]float64, n)
	for i := range rows {
		rows[i] = mat.Row(nil, i, x)
	}
	psi := min(max(f.MaxSamples, 2), n)
	limit := int(math.Ceil(math.Log2(float64(psi))))

	rng := rand.New(rand.NewSource(f.Seed))
	m := &IsolationModel{sampleSize: psi}
	for t := 0; t < f.NTrees; t++ {
		sample := rng.Perm(n)[:psi]
		m.trees = append(m.trees, growIsolationTree(rows, sample, d, 0, limit, rng))
	}

	scores := m.scoreRows(rows)
	sort.Float64s(scores)
	m.Threshold = stat.Quantile(1-f.Contamination, stat.Empirical, scores, nil)
	return m, nil
}

func growIsolationTree(rows [][]float64, idx []int, d, depth, limit int, rng *rand.Rand) *isoNode {
	if depth >= limit || len(idx) <= 1 {
		return &isoNode{size: len(idx)}
	}

	// Only features that vary within the node can split it.
	lo := make([]float64, d)
	hi := make([]float64, d)
	for j := 0; j < d; j++ {
		lo[j], hi[j] = math.Inf(1), math.Inf(-1)
	}
	for _, i := range idx {
		for j, v := range rows[i] {
			lo[j] = math.Min(lo[j], v)
			hi[j] = math.Max(hi[j], v)
		}
	}
	var candidates []int
	for j := 0; j < d; j++ {
		if hi[j] > lo[j] {
			candidates = append(candidates, j)
		}
	}
	if len(candidates) == 0 {
		return &isoNode{size: len(idx)}
	}

	feature := candidates[rng.Intn(len(candidates))]
	split := lo[feature] + rng.Float64()*(hi[feature]-lo[feature])
	var left, right []int
	for _, i := range idx {
		if rows[i][feature] < split {
			left = append(left, i)
		} else {
			right = append(right, i)
		}
	}
	return &isoNode{
		feature: feature,
		split:   split,
		left:    growIsolationTree(rows, left, d, depth+1, limit, rng),
		right:   growIsolationTree(rows, right, d, depth+1, limit, rng),
	}
}

func (n *isoNode) pathLength(row []float64) float64 {
	depth := 0.0
	for n.left != nil {
		if row[n.feature] < n.split {
			n = n.left
		} else {
			n = n.right
		}
		depth++
	}
	return depth + averagePathLength(n.size)
}

// averagePathLength is the mean unsuccessful-search depth of a binary
// search tree on n points.
func averagePathLength(n int) float64 {
	switch {
	case n <= 1:
		return 0
	case n == 2:
		return 1
	}
	fn := float64(n)
	return 2*(math.Log(fn-1)+eulerGamma) - 2*(fn-1)/fn
}

// Scores returns the anomaly score of every row of x in (0, 1]; higher is
// more anomalous.
func (m *IsolationModel) Scores(x mat.Matrix) []float64 {
	n, _ := x.Dims()
	rows := make([][]float64, n)
	for i := range rows {
		rows[i] = mat.Row(nil, i, x)
	}
	return m.scoreRows(rows)
}

func (m *IsolationModel) scoreRows(rows [][]float64) []float64 {
	norm := averagePathLength(m.sampleSize)
	out := make([]float64, len(rows))
	paths := make([]float64, len(m.trees))
	for i, r := range rows {
		for t, tree := range m.trees {
			paths[t] = tree.pathLength(r)
		}
		out[i] = math.Pow(2, -floats.Sum(paths)/float64(len(paths))/norm)
	}
	return out
}

// Outliers flags rows scoring above the fitted threshold.
func (m *IsolationModel) Outliers(x mat.Matrix) []bool {
	scores := m.Scores(x)
	out := make([]bool, len(scores))
	for i, s := range scores {
		out[i] = s > m.Threshold
	}
	return out
}
