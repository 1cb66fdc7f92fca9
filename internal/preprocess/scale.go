package preprocess

import (
	"math"

	"gonum.org/v1/gonum/mat"
	"gonum.org/v1/gonum/stat"
)

// Scale standardizes every column to mean 0 and unit population standard
// deviation. Constant columns become 0.
func Scale(fm *FeatureMatrix) *mat.Dense {
	r, c := fm.data.Dims()
	out := mat.NewDense(r, c, nil)
	col := make([]float64, r)
	for j := 0; j < c; j++ {
		mat.Col(col, j, fm.data)
		mean, variance := stat.PopMeanVariance(col, nil)
		std := math.Sqrt(variance)
		for i, v := range col {
			if std == 0 {
				out.Set(i, j, 0)
				continue
			}
			out.Set(i, j, (v-mean)/std)
		}
	}
	return out
}
