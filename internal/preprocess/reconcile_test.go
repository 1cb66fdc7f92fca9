package preprocess

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gonum.org/v1/gonum/mat"

	"creditrisk/internal/dataset"
	"creditrisk/internal/shared/testutil"
)

func predictionInput() dataset.Row {
	return dataset.Row{
		"age":             "30",
		"credit_amount":   "1000",
		"duration":        "12",
		"checking_status": "<0",
		"credit_history":  "existing paid",
		"purpose":         "radio/tv",
		"savings_status":  "<100",
		"employment":      "1<=X<4",
		"personal_status": "male single",
		"housing":         "own",
		"job":             "skilled",
	}
}

func TestReconcileFillsDropsAndOrders(t *testing.T) {
	src := NewFeatureMatrix(
		[]string{"zeta", "age", "extra"},
		mat.NewDense(1, 3, []float64{5, 30, 9}),
		nil,
	)
	training := []string{"age", "missing", "zeta"}

	out, err := Reconcile(src, training)
	require.NoError(t, err)
	assert.Equal(t, training, out.Columns())
	assert.Equal(t, []float64{30, 0, 5}, out.Data().RawRowView(0))
}

func TestReconcileEmptyTrainingColumns(t *testing.T) {
	src := NewFeatureMatrix([]string{"age"}, mat.NewDense(1, 1, []float64{30}), nil)
	_, err := Reconcile(src, nil)
	assert.ErrorIs(t, err, ErrColumnMismatch)
}

func TestEncodeRowMatchesTrainingColumns(t *testing.T) {
	rs := testutil.SyntheticCredit(t, 300, 210)
	train, err := Encode(rs, TrainingOptions)
	require.NoError(t, err)
	columns := train.Columns()

	inputs := map[string]dataset.Row{
		"typical": predictionInput(),
		"reference levels": func() dataset.Row {
			r := predictionInput()
			r["checking_status"] = "0<=X<200"
			r["housing"] = "for free"
			return r
		}(),
		"numeric only": {"age": "50", "duration": "6", "credit_amount": "300"},
	}

	for name, row := range inputs {
		t.Run(name, func(t *testing.T) {
			fm, err := EncodeRow(row, columns)
			require.NoError(t, err)
			assert.Equal(t, columns, fm.Columns())
			assert.Equal(t, 1, fm.Rows())
			assert.NoError(t, CheckColumns(fm, columns))
		})
	}
}

func TestEncodeRowSetsIndicators(t *testing.T) {
	rs := testutil.SyntheticCredit(t, 300, 210)
	train, err := Encode(rs, TrainingOptions)
	require.NoError(t, err)

	fm, err := EncodeRow(predictionInput(), train.Columns())
	require.NoError(t, err)

	assert.Equal(t, []float64{30}, fm.Column("age"))
	assert.Equal(t, []float64{1}, fm.Column("checking_status_<0"))
	assert.Equal(t, []float64{0}, fm.Column("checking_status_no checking"))
	assert.Equal(t, []float64{1}, fm.Column("job_skilled"))
	// Absent from the input, so filled with zero.
	assert.Equal(t, []float64{0}, fm.Column("num_dependents"))
}

func TestEncodeRowDropsUnseenLevel(t *testing.T) {
	rs := testutil.SyntheticCredit(t, 300, 210)
	train, err := Encode(rs, TrainingOptions)
	require.NoError(t, err)

	row := predictionInput()
	row["checking_status"] = "frozen account"

	raw, err := Encode(mustRecordSet(t, row), Options{})
	require.NoError(t, err)
	assert.GreaterOrEqual(t, raw.Index("checking_status_frozen account"), 0,
		"unreconciled encoding carries the unseen indicator")

	fm, err := EncodeRow(row, train.Columns())
	require.NoError(t, err)
	assert.Equal(t, -1, fm.Index("checking_status_frozen account"))
	assert.Equal(t, train.Columns(), fm.Columns())
	for _, c := range []string{"checking_status_<0", "checking_status_>=200", "checking_status_no checking"} {
		assert.Equal(t, []float64{0}, fm.Column(c), c)
	}
}

func TestEncodeRowRejectsBadNumber(t *testing.T) {
	row := predictionInput()
	row["age"] = "thirty"
	_, err := EncodeRow(row, []string{"age"})
	assert.ErrorIs(t, err, dataset.ErrMalformed)
}

func mustRecordSet(t *testing.T, row dataset.Row) *dataset.RecordSet {
	t.Helper()
	header := make([]string, 0, len(row))
	for c := range row {
		header = append(header, c)
	}
	rs, err := dataset.New(header, []dataset.Row{row})
	require.NoError(t, err)
	return rs
}
