package analysis

import (
	"fmt"
	"math"
	"math/rand"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/mat"
)

// KMeans clusters rows into K groups with Lloyd iterations. The best of
// NInit k-means++ seedings by inertia wins.
type KMeans struct {
	K       int
	NInit   int
	MaxIter int
	Tol     float64
	Seed    int64
}

// NewKMeans returns k clusters, 10 restarts, 300 iterations, seed 42.
func NewKMeans(k int) *KMeans {
	return &KMeans{K: k, NInit: 10, MaxIter: 300, Tol: 1e-4, Seed: 42}
}

// Clustering is a fitted k-means partition.
type Clustering struct {
	Labels     []int
	Centers    *mat.Dense
	Inertia    float64
	Iterations int
}

// Sizes returns the number of rows per cluster.
func (c *Clustering) Sizes() []int {
	k, _ := c.Centers.Dims()
	out := make([]int, k)
	for _, l := range c.Labels {
		out[l]++
	}
	return out
}

// Fit clusters the rows of x.
func (km *KMeans) Fit(x mat.Matrix) (*Clustering, error) {
	n, _ := x.Dims()
	if km.K < 1 || km.K > n {
		return nil, fmt.Errorf("kmeans: k=%d with %d rows", km.K, n)
	}
	rows := make([][]float64, n)
	for i := range rows {
		rows[i] = mat.Row(nil, i, x)
	}

	rng := rand.New(rand.NewSource(km.Seed))
	var best *Clustering
	for run := 0; run < max(km.NInit, 1); run++ {
		centers := km.seed(rows, rng)
		c := km.lloyd(rows, centers)
		if best == nil || c.Inertia < best.Inertia {
			best = c
		}
	}
	return best, nil
}

// seed picks initial centers with k-means++ D^2 sampling.
func (km *KMeans) seed(rows [][]float64, rng *rand.Rand) [][]float64 {
	n := len(rows)
	centers := make([][]float64, 0, km.K)
	centers = append(centers, append([]float64(nil), rows[rng.Intn(n)]...))

	dist := make([]float64, n)
	for i, r := range rows {
		dist[i] = sqDist(r, centers[0])
	}
	for len(centers) < km.K {
		total := floats.Sum(dist)
		next := 0
		if total > 0 {
			target := rng.Float64() * total
			acc := 0.0
			for i, dd := range dist {
				acc += dd
				if acc >= target {
					next = i
					break
				}
			}
		} else {
			next = rng.Intn(n)
		}
		c := append([]float64(nil), rows[next]...)
		centers = append(centers, c)
		for i, r := range rows {
			dist[i] = math.Min(dist[i], sqDist(r, c))
		}
	}
	return centers
}

func (km *KMeans) lloyd(rows [][]float64, centers [][]float64) *Clustering {
	n, d := len(rows), len(rows[0])
	labels := make([]int, n)
	iter := 0
	for iter = 1; iter <= max(km.MaxIter, 1); iter++ {
		for i, r := range rows {
			labels[i] = nearest(r, centers)
		}

		sums := make([][]float64, km.K)
		counts := make([]int, km.K)
		for k := range sums {
			sums[k] = make([]float64, d)
		}
		for i, r := range rows {
			floats.Add(sums[labels[i]], r)
			counts[labels[i]]++
		}

		shift := 0.0
		for k := range centers {
			if counts[k] == 0 {
				// Empty cluster keeps its previous center.
				continue
			}
			floats.Scale(1/float64(counts[k]), sums[k])
			shift += sqDist(sums[k], centers[k])
			centers[k] = sums[k]
		}
		if shift <= km.Tol {
			break
		}
	}
	iter = min(iter, max(km.MaxIter, 1))

	inertia := 0.0
	for i, r := range rows {
		labels[i] = nearest(r, centers)
		inertia += sqDist(r, centers[labels[i]])
	}
	cm := mat.NewDense(km.K, d, nil)
	for k, c := range centers {
		cm.SetRow(k, c)
	}
	return &Clustering{Labels: labels, Centers: cm, Inertia: inertia, Iterations: iter}
}

func nearest(r []float64, centers [][]float64) int {
	best, bestDist := 0, math.Inf(1)
	for k, c := range centers {
		if dd := sqDist(r, c); dd < bestDist {
			best, bestDist = k, dd
		}
	}
	return best
}

func sqDist(a, b []float64) float64 {
	dd := floats.Distance(a, b, 2)
	return dd * dd
}
