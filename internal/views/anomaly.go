package views

import (
	"fmt"

	"creditrisk/internal/analysis"
	"creditrisk/internal/dataset"
	"creditrisk/internal/display"
	"creditrisk/internal/preprocess"
)

// Anomalies flags unusual applications with an isolation forest over the
// encoded features and lists the flagged raw rows.
func Anomalies(rs *dataset.RecordSet) (*display.Page, error) {
	fm, err := preprocess.Encode(rs, preprocess.TrainingOptions)
	if err != nil {
		return nil, fmt.Errorf("anomaly detection: %w", err)
	}
	model, err := analysis.NewIsolationForest().Fit(fm.Data())
	if err != nil {
		return nil, fmt.Errorf("anomaly detection: %w", err)
	}

	var flagged []int
	for i, outlier := range model.Outliers(fm.Data()) {
		if outlier {
			flagged = append(flagged, i)
		}
	}

	table := display.Table{Title: "Flagged applications", Columns: append([]string{"row"}, rs.Columns()...)}
	for _, i := range flagged {
		row := rs.Row(i)
		cells := make([]string, 0, len(table.Columns))
		cells = append(cells, fmt.Sprintf("%d", i+1))
		for _, c := range rs.Columns() {
			cells = append(cells, row[c])
		}
		table.Rows = append(table.Rows, cells)
	}

	return display.NewPage(NameAnomaly, "Anomaly Detection").
		Text("Identify unusual or fraudulent loan applications.").
		Heading(2, "Detected Anomalies").
		Metric("Flagged applications", count(len(flagged))).
		Text(fmt.Sprintf("%s unusual loan applications detected. These applications may require further review.",
			count(len(flagged)))).
		Table(table), nil
}
