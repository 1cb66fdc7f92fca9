package classifier

import (
	"math"

	"gonum.org/v1/gonum/mat"
	"gonum.org/v1/gonum/stat"
)

// standardizer holds per-column mean and scale learned at fit time.
type standardizer struct {
	mean  []float64
	scale []float64
}

func fitStandardizer(x mat.Matrix) standardizer {
	r, c := x.Dims()
	s := standardizer{mean: make([]float64, c), scale: make([]float64, c)}
	col := make([]float64, r)
	for j := 0; j < c; j++ {
		mat.Col(col, j, x)
		m, v := stat.PopMeanVariance(col, nil)
		s.mean[j] = m
		s.scale[j] = math.Sqrt(v)
		if s.scale[j] == 0 {
			s.scale[j] = 1
		}
	}
	return s
}

func (s standardizer) apply(dst, row []float64) []float64 {
	if dst == nil {
		dst = make([]float64, len(row))
	}
	for j, v := range row {
		dst[j] = (v - s.mean[j]) / s.scale[j]
	}
	return dst
}

func (s standardizer) transform(x mat.Matrix) *mat.Dense {
	r, c := x.Dims()
	out := mat.NewDense(r, c, nil)
	buf := make([]float64, c)
	for i := 0; i < r; i++ {
		out.SetRow(i, s.apply(nil, rowOf(x, i, buf)))
	}
	return out
}

func sigmoid(z float64) float64 {
	if z >= 0 {
		return 1 / (1 + math.Exp(-z))
	}
	e := math.Exp(z)
	return e / (1 + e)
}

// softplus returns log(1+exp(t)) without overflow.
func softplus(t float64) float64 {
	return math.Max(t, 0) + math.Log1p(math.Exp(-math.Abs(t)))
}
