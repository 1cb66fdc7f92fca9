package views

import (
	"fmt"
	"math"

	"gonum.org/v1/gonum/mat"

	"creditrisk/internal/analysis"
	"creditrisk/internal/dataset"
	"creditrisk/internal/display"
)

// HistogramBins is the bin count of the dashboard histograms.
const HistogramBins = 20

// Dashboard summarizes the dataset with distributions and correlations.
func Dashboard(rs *dataset.RecordSet) (*display.Page, error) {
	p := display.NewPage(NameDashboard, "Interactive Dashboard").
		Text("Visualize key metrics and trends in the dataset.")

	counts := analysis.ValueCounts(rs.Labels())
	labels := make([]string, len(counts))
	values := make([]float64, len(counts))
	var good, bad int
	for i, vc := range counts {
		labels[i] = vc.Value
		values[i] = float64(vc.Count)
		switch vc.Value {
		case dataset.LabelGood:
			good = vc.Count
		case dataset.LabelBad:
			bad = vc.Count
		}
	}
	p.Heading(2, "Credit Risk Distribution").
		Chart(display.Chart{
			Type:   display.ChartBar,
			Title:  "Credit Risk Distribution",
			XLabel: "Credit Risk",
			YLabel: "Count",
			Labels: labels,
			Series: []display.Series{{Name: "count", Values: values}},
		}).
		List(
			fmt.Sprintf("Good credit risk: %s customers", count(good)),
			fmt.Sprintf("Bad credit risk: %s customers", count(bad)),
		)

	for _, hc := range []struct{ column, title string }{
		{"credit_amount", "Credit Amount Distribution"},
		{"age", "Age Distribution"},
	} {
		v, err := rs.Float(hc.column)
		if err != nil {
			return nil, fmt.Errorf("dashboard: %w", err)
		}
		h, err := analysis.NewHistogram(v, HistogramBins)
		if err != nil {
			return nil, fmt.Errorf("dashboard: %s: %w", hc.column, err)
		}
		p.Heading(2, hc.title).Chart(display.Chart{
			Type:   display.ChartHistogram,
			Title:  hc.title,
			XLabel: hc.column,
			YLabel: "Count",
			Series: []display.Series{{Name: hc.column, Values: h.Counts}},
			Edges:  h.Edges,
		})
	}

	numeric := numericColumns(rs)
	if len(numeric) == 0 {
		return p, nil
	}
	data := mat.NewDense(rs.Len(), len(numeric), nil)
	summaries := make([]analysis.Summary, len(numeric))
	for j, c := range numeric {
		v, err := rs.Float(c)
		if err != nil {
			return nil, fmt.Errorf("dashboard: %w", err)
		}
		data.SetCol(j, v)
		summaries[j] = analysis.Describe(c, v)
	}

	if rs.Len() > 1 {
		corr := analysis.Correlation(data)
		hm := display.Heatmap{Title: "Correlation Heatmap", X: numeric, Y: numeric}
		for i := range numeric {
			row := make([]*float64, len(numeric))
			for j := range numeric {
				row[j] = display.Cell(corr.At(i, j))
			}
			hm.Values = append(hm.Values, row)
		}
		p.Heading(2, "Correlation Heatmap").Heatmap(hm)
	}

	table := display.Table{
		Title:   "Summary Statistics",
		Columns: []string{"statistic"},
	}
	table.Columns = append(table.Columns, numeric...)
	stats := []struct {
		name string
		get  func(analysis.Summary) string
	}{
		{"count", func(s analysis.Summary) string { return fmt.Sprintf("%d", s.Count) }},
		{"mean", func(s analysis.Summary) string { return statCell(s.Mean) }},
		{"std", func(s analysis.Summary) string { return statCell(s.Std) }},
		{"min", func(s analysis.Summary) string { return statCell(s.Min) }},
		{"25%", func(s analysis.Summary) string { return statCell(s.Q25) }},
		{"50%", func(s analysis.Summary) string { return statCell(s.Median) }},
		{"75%", func(s analysis.Summary) string { return statCell(s.Q75) }},
		{"max", func(s analysis.Summary) string { return statCell(s.Max) }},
	}
	for _, st := range stats {
		row := []string{st.name}
		for _, s := range summaries {
			row = append(row, st.get(s))
		}
		table.Rows = append(table.Rows, row)
	}
	return p.Heading(2, "Summary Statistics").Table(table), nil
}

func statCell(v float64) string {
	if math.IsNaN(v) {
		return "NaN"
	}
	return fmt.Sprintf("%.2f", v)
}
