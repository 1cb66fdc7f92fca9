package classifier

import (
	"gonum.org/v1/gonum/mat"
)

// DecisionTree is a CART classification tree using Gini impurity. Leaves
// store the fraction of good rows, which is the native probability.
type DecisionTree struct {
	MaxDepth        int // 0 grows until leaves are pure
	MinSamplesSplit int
	MinSamplesLeaf  int

	root     *treeNode
	features int
}

// NewDecisionTree returns an unpruned tree.
func NewDecisionTree() *DecisionTree {
	return &DecisionTree{MinSamplesSplit: 2, MinSamplesLeaf: 1}
}

// Fit grows the tree on x.
func (m *DecisionTree) Fit(x mat.Matrix, y []string) error {
	t, err := binaryTargets(x, y)
	if err != nil {
		return err
	}
	xd := toDense(x)
	r, c := xd.Dims()
	b := &treeBuilder{
		x:        xd,
		targets:  t,
		leaf:     meanLeaf(t),
		maxDepth: m.MaxDepth,
		minSplit: max(m.MinSamplesSplit, 2),
		minLeaf:  max(m.MinSamplesLeaf, 1),
	}
	m.root = b.build(allRows(r), 0)
	m.features = c
	return nil
}

// PredictProba returns the good fraction of the leaf each row lands in.
func (m *DecisionTree) PredictProba(x mat.Matrix) ([]float64, error) {
	if m.root == nil {
		return nil, ErrNotFitted
	}
	if err := checkWidth(x, m.features); err != nil {
		return nil, err
	}
	r, _ := x.Dims()
	out := make([]float64, r)
	buf := make([]float64, m.features)
	for i := range out {
		out[i] = m.root.predict(rowOf(x, i, buf))
	}
	return out, nil
}

// Predict returns the majority label of each row's leaf.
func (m *DecisionTree) Predict(x mat.Matrix) ([]string, error) {
	p, err := m.PredictProba(x)
	if err != nil {
		return nil, err
	}
	return labelsFromProba(p), nil
}

// Depth returns the depth of the fitted tree.
func (m *DecisionTree) Depth() int {
	if m.root == nil {
		return 0
	}
	return m.root.depth()
}
