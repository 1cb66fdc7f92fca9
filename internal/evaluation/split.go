package evaluation

import (
	"fmt"
	"math"
	"math/rand"
	"sort"
)

// Split holds row positions of the training and held-out partitions.
type Split struct {
	Train []int `json:"-"`
	Test  []int `json:"-"`
}

// NewSplit permutes 0..n-1 with a seeded source and takes the first
// ceil(n*testRatio) positions as the held-out partition. Both partitions
// are returned in ascending row order.
func NewSplit(n int, testRatio float64, seed int64) (Split, error) {
	if testRatio <= 0 || testRatio >= 1 {
		return Split{}, fmt.Errorf("test ratio %.3f outside (0, 1)", testRatio)
	}
	nTest := int(math.Ceil(float64(n) * testRatio))
	if nTest == 0 || nTest >= n {
		return Split{}, fmt.Errorf("cannot split %d rows with test ratio %.3f", n, testRatio)
	}

	perm := rand.New(rand.NewSource(seed)).Perm(n)
	test := append([]int(nil), perm[:nTest]...)
	train := append([]int(nil), perm[nTest:]...)
	sort.Ints(test)
	sort.Ints(train)
	return Split{Train: train, Test: test}, nil
}
