package exporter

import (
	"bytes"
	"encoding/csv"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"creditrisk/internal/classifier"
	"creditrisk/internal/evaluation"
)

func testBundle() *evaluation.Bundle {
	return &evaluation.Bundle{
		Key:       "abc123",
		Columns:   []string{"duration", "age"},
		Split:     evaluation.Split{Train: []int{0, 1, 2, 3}, Test: []int{4}},
		Rows:      5,
		TrainedAt: time.Date(2024, 1, 2, 3, 4, 5, 0, time.UTC),
		Results: []evaluation.Result{
			{
				Variant: classifier.Variant{Name: "Logistic Regression", Probability: classifier.ProbabilityNative},
				Report: evaluation.Report{
					Model:     "Logistic Regression",
					Accuracy:  evaluation.Metric{Value: 0.756, Defined: true},
					Precision: evaluation.Metric{Value: 0.8, Defined: true},
					Recall:    evaluation.Metric{Value: 0.9, Defined: true},
					F1:        evaluation.Metric{Value: 0.85, Defined: true},
					ROCAUC:    evaluation.Metric{Reason: "single class"},
					Confusion: evaluation.ConfusionMatrix{Labels: evaluation.ClassLabels, Counts: [2][2]int{{10, 20}, {5, 165}}},
					Support:   200,
				},
				FitDuration: 1500 * time.Millisecond,
			},
		},
	}
}

func TestReportTable(t *testing.T) {
	records, err := ReportTable(testBundle())
	require.NoError(t, err)
	require.Len(t, records, 1)
	assert.Equal(t, []string{"Logistic Regression", "native", "0.76", "0.80", "0.90", "0.85", "", "200", "1.500"}, records[0])
	assert.Len(t, records[0], len(ReportHeaders))

	_, err = ReportTable(&evaluation.Bundle{})
	assert.ErrorIs(t, err, ErrEmptyBundle)
	_, err = ReportTable(nil)
	assert.ErrorIs(t, err, ErrEmptyBundle)
}

func TestConfusionTable(t *testing.T) {
	records, err := ConfusionTable(testBundle())
	require.NoError(t, err)
	assert.Equal(t, [][]string{
		{"Logistic Regression", "bad", "10", "20"},
		{"Logistic Regression", "good", "5", "165"},
	}, records)
}

func TestWriteReportCSV(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, WriteReportCSV(&buf, testBundle()))

	data := buf.Bytes()
	require.True(t, bytes.HasPrefix(data, []byte{0xEF, 0xBB, 0xBF}))

	rows, err := csv.NewReader(bytes.NewReader(data[3:])).ReadAll()
	require.NoError(t, err)
	require.Len(t, rows, 2)
	assert.Equal(t, ReportHeaders, rows[0])
	assert.Equal(t, "Logistic Regression", rows[1][0])
}

func TestWriteXLSX(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, WriteXLSX(&buf, testBundle()))

	f, err := excelize.OpenReader(&buf)
	require.NoError(t, err)
	defer f.Close()

	assert.Equal(t, []string{SheetMetrics, SheetConfusion, SheetSummary}, f.GetSheetList())

	rows, err := f.GetRows(SheetMetrics)
	require.NoError(t, err)
	require.Len(t, rows, 2)
	assert.Equal(t, ReportHeaders, rows[0])
	assert.Equal(t, "0.76", rows[1][2])

	confusion, err := f.GetRows(SheetConfusion)
	require.NoError(t, err)
	assert.Len(t, confusion, 3)

	rowsCell, err := f.GetCellValue(SheetSummary, "B3")
	require.NoError(t, err)
	assert.Equal(t, "5", rowsCell)
	heldOut, err := f.GetCellValue(SheetSummary, "B4")
	require.NoError(t, err)
	assert.Equal(t, "1", heldOut)
}

func TestSaveFiles(t *testing.T) {
	dir := t.TempDir()
	b := testBundle()

	xlsxPath := filepath.Join(dir, "reports", "metrics.xlsx")
	require.NoError(t, SaveXLSX(xlsxPath, b))
	f, err := excelize.OpenFile(xlsxPath)
	require.NoError(t, err)
	require.NoError(t, f.Close())

	csvPath := filepath.Join(dir, "reports", "metrics.csv")
	require.NoError(t, SaveReportCSV(csvPath, b))
	assert.FileExists(t, csvPath)
}
