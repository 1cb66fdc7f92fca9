package views

import (
	"fmt"
	"strconv"

	"creditrisk/internal/analysis"
	"creditrisk/internal/dataset"
	"creditrisk/internal/display"
	"creditrisk/internal/preprocess"
)

// SegmentCount is the number of customer segments.
const SegmentCount = 3

var scatterPairs = [][2]string{
	{"age", "credit_amount"},
	{"age", "duration"},
	{"credit_amount", "duration"},
}

// Segmentation clusters the standardized feature matrix into three groups.
func Segmentation(rs *dataset.RecordSet) (*display.Page, error) {
	fm, err := preprocess.Encode(rs, preprocess.TrainingOptions)
	if err != nil {
		return nil, fmt.Errorf("segmentation: %w", err)
	}
	clusters, err := analysis.NewKMeans(SegmentCount).Fit(preprocess.Scale(fm))
	if err != nil {
		return nil, fmt.Errorf("segmentation: %w", err)
	}

	p := display.NewPage(NameSegmentation, "Customer Segmentation").
		Text("Group customers into clusters based on their credit behavior. "+
			"This helps in understanding different customer groups and tailoring strategies for each group.").
		Heading(2, "Training the KMeans Clustering Model").
		Text(fmt.Sprintf("Customers are grouped into %d clusters with k-means. "+
			"The data is standardized so all features contribute equally to the clustering.", SegmentCount))

	names := make([]string, SegmentCount)
	for k := range names {
		names[k] = "Cluster " + strconv.Itoa(k)
	}
	sizes := clusters.Sizes()
	sizeValues := make([]float64, len(sizes))
	for k, s := range sizes {
		sizeValues[k] = float64(s)
	}
	p.Heading(2, "Cluster Distribution").
		Text("Number of customers in each cluster.").
		Chart(display.Chart{
			Type:   display.ChartBar,
			Title:  "Customers per cluster",
			XLabel: "Cluster",
			YLabel: "Customers",
			Labels: names,
			Series: []display.Series{{Name: "customers", Values: sizeValues}},
		})

	numeric := numericColumns(rs)
	table := display.Table{Title: "Cluster means", Columns: append([]string{"Cluster"}, numeric...)}
	for k := 0; k < SegmentCount; k++ {
		row := []string{strconv.Itoa(k)}
		for _, c := range numeric {
			values := fm.Column(c)
			sum, n := 0.0, 0
			for i, v := range values {
				if clusters.Labels[i] == k {
					sum += v
					n++
				}
			}
			if n == 0 {
				row = append(row, "-")
				continue
			}
			row = append(row, fmt.Sprintf("%.2f", sum/float64(n)))
		}
		table.Rows = append(table.Rows, row)
	}
	p.Heading(2, "Cluster Characteristics").
		Text("Average values of the numeric features for each cluster.").
		Table(table)

	p.Heading(2, "Insights into Each Cluster").List(
		"Cluster 0: customers with moderate credit amounts and stable employment. Likely to be low-risk borrowers.",
		"Cluster 1: customers with high credit amounts and longer loan durations. May represent high-risk borrowers.",
		"Cluster 2: customers with low credit amounts and short loan durations. Likely to be cautious borrowers.",
	)

	p.Heading(2, "Pair Plots of Clusters")
	for _, pair := range scatterPairs {
		xs, ys := fm.Column(pair[0]), fm.Column(pair[1])
		if xs == nil || ys == nil {
			continue
		}
		points := make([]display.Point, len(xs))
		for i := range xs {
			points[i] = display.Point{X: xs[i], Y: ys[i], Group: names[clusters.Labels[i]]}
		}
		p.Chart(display.Chart{
			Type:   display.ChartScatter,
			Title:  pair[0] + " vs " + pair[1],
			XLabel: pair[0],
			YLabel: pair[1],
			Points: points,
		})
	}

	return p.Heading(2, "Recommendations for Each Cluster").List(
		"Cluster 0: offer personalized loan products with competitive interest rates to retain these low-risk customers.",
		"Cluster 1: implement stricter credit checks and offer financial education programs to reduce risk.",
		"Cluster 2: encourage larger loans by offering incentives and flexible repayment options.",
	), nil
}

// numericColumns returns the passthrough numeric columns in header order.
func numericColumns(rs *dataset.RecordSet) []string {
	var out []string
	for _, c := range rs.Columns() {
		if c != dataset.LabelColumn && !dataset.IsCategorical(c) {
			out = append(out, c)
		}
	}
	return out
}
