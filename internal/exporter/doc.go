// Package exporter writes model evaluation reports as CSV or Excel files.
//
// Both formats share one tabular layout built by ReportTable: one row per
// model with accuracy, precision, recall, F1, ROC-AUC, held-out support and
// fit duration. Undefined metrics are written as an empty cell, never 0.
//
// Example usage:
//
//	var buf bytes.Buffer
//	if err := exporter.WriteXLSX(&buf, bundle); err != nil {
//	    return err
//	}
package exporter
