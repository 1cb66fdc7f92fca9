package classifier

import (
	"math/rand"
	"sort"

	"gonum.org/v1/gonum/mat"
)

// treeNode is a binary split node; leaves carry Value.
type treeNode struct {
	Feature   int
	Threshold float64
	Left      *treeNode
	Right     *treeNode
	Value     float64
	IsLeaf    bool
}

func (n *treeNode) predict(row []float64) float64 {
	for !n.IsLeaf {
		if row[n.Feature] <= n.Threshold {
			n = n.Left
		} else {
			n = n.Right
		}
	}
	return n.Value
}

func (n *treeNode) depth() int {
	if n.IsLeaf {
		return 0
	}
	return 1 + max(n.Left.depth(), n.Right.depth())
}

func (n *treeNode) leaves() int {
	if n.IsLeaf {
		return 1
	}
	return n.Left.leaves() + n.Right.leaves()
}

// treeBuilder grows a tree by greedy variance reduction on targets. For 0/1
// targets this is equivalent to Gini impurity reduction.
type treeBuilder struct {
	x        *mat.Dense
	targets  []float64
	leaf     func(idx []int) float64
	maxDepth int // 0 means unlimited
	minSplit int
	minLeaf  int

	// maxFeatures > 0 with an rng restricts each split to that many
	// randomly drawn features.
	maxFeatures int
	rng         *rand.Rand
}

func (b *treeBuilder) build(idx []int, depth int) *treeNode {
	if (b.maxDepth > 0 && depth >= b.maxDepth) || len(idx) < b.minSplit || b.pure(idx) {
		return &treeNode{IsLeaf: true, Value: b.leaf(idx)}
	}

	feature, threshold, ok := b.bestSplit(idx)
	if !ok {
		return &treeNode{IsLeaf: true, Value: b.leaf(idx)}
	}

	var left, right []int
	for _, i := range idx {
		if b.x.At(i, feature) <= threshold {
			left = append(left, i)
		} else {
			right = append(right, i)
		}
	}
	return &treeNode{
		Feature:   feature,
		Threshold: threshold,
		Left:      b.build(left, depth+1),
		Right:     b.build(right, depth+1),
	}
}

func (b *treeBuilder) pure(idx []int) bool {
	for _, i := range idx[1:] {
		if b.targets[i] != b.targets[idx[0]] {
			return false
		}
	}
	return true
}

// bestSplit scans every candidate feature and every midpoint between distinct sorted
// values, minimizing the summed squared error of the two children.
func (b *treeBuilder) bestSplit(idx []int) (int, float64, bool) {
	_, cols := b.x.Dims()
	n := float64(len(idx))

	var total, totalSq float64
	for _, i := range idx {
		total += b.targets[i]
		totalSq += b.targets[i] * b.targets[i]
	}
	parentSSE := totalSq - total*total/n

	bestFeature, bestThreshold := -1, 0.0
	bestSSE := parentSSE - 1e-12
	order := make([]int, len(idx))

	for _, f := range b.candidates(cols) {
		copy(order, idx)
		sort.SliceStable(order, func(a, c int) bool {
			return b.x.At(order[a], f) < b.x.At(order[c], f)
		})

		var leftSum, leftSq float64
		for k := 0; k < len(order)-1; k++ {
			t := b.targets[order[k]]
			leftSum += t
			leftSq += t * t

			cur, next := b.x.At(order[k], f), b.x.At(order[k+1], f)
			if cur == next {
				continue
			}
			nl := float64(k + 1)
			nr := n - nl
			if int(nl) < b.minLeaf || int(nr) < b.minLeaf {
				continue
			}
			rightSum := total - leftSum
			rightSq := totalSq - leftSq
			sse := (leftSq - leftSum*leftSum/nl) + (rightSq - rightSum*rightSum/nr)
			if sse < bestSSE {
				bestSSE = sse
				bestFeature = f
				bestThreshold = (cur + next) / 2
			}
		}
	}
	return bestFeature, bestThreshold, bestFeature >= 0
}

func (b *treeBuilder) candidates(cols int) []int {
	if b.rng != nil && b.maxFeatures > 0 && b.maxFeatures < cols {
		return b.rng.Perm(cols)[:b.maxFeatures]
	}
	return allRows(cols)
}

func meanLeaf(targets []float64) func(idx []int) float64 {
	return func(idx []int) float64 {
		if len(idx) == 0 {
			return 0
		}
		s := 0.0
		for _, i := range idx {
			s += targets[i]
		}
		return s / float64(len(idx))
	}
}

func allRows(n int) []int {
	idx := make([]int, n)
	for i := range idx {
		idx[i] = i
	}
	return idx
}

func toDense(x mat.Matrix) *mat.Dense {
	if d, ok := x.(*mat.Dense); ok {
		return d
	}
	return mat.DenseCopyOf(x)
}
