package exporter

import (
	"errors"

	"creditrisk/internal/evaluation"
)

// ErrEmptyBundle is returned when there is nothing to export.
var ErrEmptyBundle = errors.New("bundle has no results")

// ReportHeaders is the column layout shared by every export format.
var ReportHeaders = []string{
	"model", "probability", "accuracy", "precision", "recall", "f1", "roc_auc", "support", "fit_seconds",
}

// ConfusionHeaders labels the per-model confusion matrix rows.
var ConfusionHeaders = []string{
	"model", "actual", "predicted_" + evaluation.ClassLabels[0], "predicted_" + evaluation.ClassLabels[1],
}

// ReportTable flattens the bundle into string records following
// ReportHeaders.
func ReportTable(b *evaluation.Bundle) ([][]string, error) {
	if b == nil || len(b.Results) == 0 {
		return nil, ErrEmptyBundle
	}
	records := make([][]string, 0, len(b.Results))
	for _, r := range b.Results {
		rep := r.Report
		records = append(records, []string{
			r.Variant.Name,
			string(r.Variant.Probability),
			formatMetric(rep.Accuracy),
			formatMetric(rep.Precision),
			formatMetric(rep.Recall),
			formatMetric(rep.F1),
			formatMetric(rep.ROCAUC),
			formatInt(rep.Support),
			formatDuration(r.FitDuration),
		})
	}
	return records, nil
}

// ConfusionTable lists two rows per model, one per actual class.
func ConfusionTable(b *evaluation.Bundle) ([][]string, error) {
	if b == nil || len(b.Results) == 0 {
		return nil, ErrEmptyBundle
	}
	records := make([][]string, 0, 2*len(b.Results))
	for _, r := range b.Results {
		cm := r.Report.Confusion
		for i, actual := range evaluation.ClassLabels {
			records = append(records, []string{
				r.Variant.Name,
				actual,
				formatInt(cm.Counts[i][0]),
				formatInt(cm.Counts[i][1]),
			})
		}
	}
	return records, nil
}
