package analysis

import (
	"fmt"
	"math"
	"sort"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/mat"
	"gonum.org/v1/gonum/stat"
)

// Summary holds the describe() statistics of one numeric column. Std is the
// sample standard deviation; quartiles interpolate linearly between order
// statistics.
type Summary struct {
	Column string  `json:"column"`
	Count  int     `json:"count"`
	Mean   float64 `json:"mean"`
	Std    float64 `json:"std"`
	Min    float64 `json:"min"`
	Q25    float64 `json:"q25"`
	Median float64 `json:"median"`
	Q75    float64 `json:"q75"`
	Max    float64 `json:"max"`
}

// Describe summarizes values. An empty input yields a zero-count summary.
func Describe(column string, values []float64) Summary {
	s := Summary{Column: column, Count: len(values)}
	if len(values) == 0 {
		return s
	}
	sorted := append([]float64(nil), values...)
	sort.Float64s(sorted)

	s.Mean = stat.Mean(sorted, nil)
	if len(sorted) > 1 {
		s.Std = stat.StdDev(sorted, nil)
	} else {
		s.Std = math.NaN()
	}
	s.Min = sorted[0]
	s.Max = sorted[len(sorted)-1]
	s.Q25 = linearQuantile(sorted, 0.25)
	s.Median = linearQuantile(sorted, 0.5)
	s.Q75 = linearQuantile(sorted, 0.75)
	return s
}

// linearQuantile interpolates between the order statistics around
// position p*(n-1). gonum's stat.Quantile offers only CDF-based estimators.
func linearQuantile(sorted []float64, p float64) float64 {
	h := p * float64(len(sorted)-1)
	lo := int(math.Floor(h))
	hi := int(math.Ceil(h))
	return sorted[lo] + (h-float64(lo))*(sorted[hi]-sorted[lo])
}

// Histogram holds equal-width bin edges (len(Counts)+1) and counts.
type Histogram struct {
	Edges  []float64 `json:"edges"`
	Counts []float64 `json:"counts"`
}

// NewHistogram bins values into bins equal-width buckets spanning min..max.
func NewHistogram(values []float64, bins int) (Histogram, error) {
	if bins < 1 {
		return Histogram{}, fmt.Errorf("histogram: bins must be positive, got %d", bins)
	}
	if len(values) == 0 {
		return Histogram{}, fmt.Errorf("histogram: no values")
	}
	sorted := append([]float64(nil), values...)
	sort.Float64s(sorted)

	lo, hi := sorted[0], sorted[len(sorted)-1]
	if lo == hi {
		lo, hi = lo-0.5, hi+0.5
	}
	edges := floats.Span(make([]float64, bins+1), lo, hi)
	// stat.Histogram bins are half-open; widen the last edge to keep max.
	dividers := append([]float64(nil), edges...)
	dividers[bins] = math.Nextafter(hi, math.Inf(1))

	counts := stat.Histogram(nil, dividers, sorted, nil)
	return Histogram{Edges: edges, Counts: counts}, nil
}

// Correlation returns the Pearson correlation matrix of the columns of x.
// Pairs involving a constant column are NaN.
func Correlation(x mat.Matrix) *mat.SymDense {
	var corr mat.SymDense
	stat.CorrelationMatrix(&corr, x, nil)
	return &corr
}

// GroupMean is the mean of a value within one group.
type GroupMean struct {
	Group string  `json:"group"`
	Mean  float64 `json:"mean"`
	Count int     `json:"count"`
}

// GroupMeans averages values by key, ordered by group name.
func GroupMeans(keys []string, values []float64) []GroupMean {
	sums := make(map[string]float64)
	counts := make(map[string]int)
	for i, k := range keys {
		sums[k] += values[i]
		counts[k]++
	}
	out := make([]GroupMean, 0, len(sums))
	for k, s := range sums {
		out = append(out, GroupMean{Group: k, Mean: s / float64(counts[k]), Count: counts[k]})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Group < out[j].Group })
	return out
}

// ValueCount is the frequency of one value.
type ValueCount struct {
	Value string `json:"value"`
	Count int    `json:"count"`
}

// ValueCounts counts values, most frequent first, ties by value.
func ValueCounts(values []string) []ValueCount {
	counts := make(map[string]int)
	for _, v := range values {
		counts[v]++
	}
	out := make([]ValueCount, 0, len(counts))
	for v, c := range counts {
		out = append(out, ValueCount{Value: v, Count: c})
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Count != out[j].Count {
			return out[i].Count > out[j].Count
		}
		return out[i].Value < out[j].Value
	})
	return out
}
