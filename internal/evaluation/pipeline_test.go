package evaluation

import (
	"context"
	"errors"
	"log/slog"
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"creditrisk/internal/classifier"
	"creditrisk/internal/dataset"
	"creditrisk/internal/preprocess"
	"creditrisk/internal/shared/testutil"
)

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelWarn}))
}

// quickVariants are deterministic and fast enough for repeated runs.
func quickVariants() []classifier.Variant {
	return []classifier.Variant{
		{Name: "Logistic Regression", Kind: classifier.KindLogistic, Probability: classifier.ProbabilityNative},
		{Name: "Decision Tree", Kind: classifier.KindDecisionTree, Params: classifier.Params{"max_depth": 5}, Probability: classifier.ProbabilityNative},
		{Name: "Gradient Boosting", Kind: classifier.KindGradientBoosting, Params: classifier.Params{"n_estimators": 10}, Probability: classifier.ProbabilityNative},
	}
}

func quickPipeline(t *testing.T, parallelism int) *Pipeline {
	t.Helper()
	cfg := DefaultConfig()
	cfg.Variants = quickVariants()
	cfg.Parallelism = parallelism
	p, err := NewPipeline(cfg, testLogger())
	require.NoError(t, err)
	return p
}

func TestPipelineSixVariants(t *testing.T) {
	if testing.Short() {
		t.Skip("trains every default variant on 1000 rows")
	}
	rs := testutil.SyntheticCredit(t, 1000, 700)

	p, err := NewPipeline(DefaultConfig(), testLogger())
	require.NoError(t, err)
	bundle, err := p.Run(context.Background(), rs)
	require.NoError(t, err)

	assert.Equal(t, rs.Key(), bundle.Key)
	assert.Len(t, bundle.Split.Test, 200)
	require.Len(t, bundle.Results, 6)
	for i, res := range bundle.Results {
		assert.Equal(t, classifier.DefaultVariants()[i].Name, res.Variant.Name)
		r := res.Report
		assert.Equal(t, 200, r.Confusion.Total(), res.Variant.Name)
		for _, m := range []Metric{r.Accuracy, r.Precision, r.Recall, r.F1, r.ROCAUC} {
			if m.Defined {
				assert.GreaterOrEqual(t, m.Value, 0.0)
				assert.LessOrEqual(t, m.Value, 1.0)
			}
		}
		assert.True(t, r.Accuracy.Defined)

		// Every default variant scores with its own probabilities, so none
		// may collapse to a single predicted class.
		require.NoError(t, res.MetricsErr, res.Variant.Name)
		predictedBad := r.Confusion.Counts[0][0] + r.Confusion.Counts[1][0]
		assert.Greater(t, predictedBad, 0, res.Variant.Name)
		require.True(t, r.ROCAUC.Defined, res.Variant.Name)
		assert.Greater(t, r.ROCAUC.Value, 0.6, res.Variant.Name)
	}
}

func TestPipelineDefaultVariantsAreReproducible(t *testing.T) {
	if testing.Short() {
		t.Skip("trains every default variant twice")
	}
	rs := testutil.SyntheticCredit(t, 300, 210)

	p, err := NewPipeline(DefaultConfig(), testLogger())
	require.NoError(t, err)
	a, err := p.Run(context.Background(), rs)
	require.NoError(t, err)
	b, err := p.Run(context.Background(), rs)
	require.NoError(t, err)

	assert.Equal(t, a.Reports(), b.Reports())
}

func TestPipelineSplitIsDeterministic(t *testing.T) {
	rs := testutil.SyntheticCredit(t, 200, 140)
	p := quickPipeline(t, 1)

	a, err := p.Run(context.Background(), rs)
	require.NoError(t, err)
	b, err := p.Run(context.Background(), rs)
	require.NoError(t, err)

	assert.Equal(t, a.Split, b.Split)
	assert.Equal(t, a.Columns, b.Columns)
	assert.Equal(t, a.Reports(), b.Reports())
}

func TestPipelineParallelMatchesSequential(t *testing.T) {
	rs := testutil.SyntheticCredit(t, 200, 140)

	seq, err := quickPipeline(t, 1).Run(context.Background(), rs)
	require.NoError(t, err)
	par, err := quickPipeline(t, 3).Run(context.Background(), rs)
	require.NoError(t, err)

	assert.Equal(t, seq.Reports(), par.Reports())
}

func TestPipelineSingleLevelColumn(t *testing.T) {
	rs := testutil.SyntheticCredit(t, 200, 140, testutil.WithConstant("foreign_worker", "yes"))

	bundle, err := quickPipeline(t, 1).Run(context.Background(), rs)
	require.NoError(t, err)
	for _, c := range bundle.Columns {
		assert.NotContains(t, c, "foreign_worker")
	}
	assert.Len(t, bundle.Results, len(quickVariants()))
}

func TestPipelineSingleClassHeldOut(t *testing.T) {
	const n = 100
	split, err := NewSplit(n, 0.2, 42)
	require.NoError(t, err)

	// Only training rows may carry the bad label.
	base := testutil.SyntheticCredit(t, n, n)
	records := base.Records()
	labelCol := len(testutil.CreditHeader) - 1
	for _, i := range split.Train[:30] {
		records[i][labelCol] = dataset.LabelBad
	}
	rs, err := dataset.FromRecords(testutil.CreditHeader, records)
	require.NoError(t, err)

	bundle, err := quickPipeline(t, 1).Run(context.Background(), rs)
	require.NoError(t, err, "undefined metrics must not abort the run")

	for _, res := range bundle.Results {
		var insufficient *InsufficientDataError
		require.True(t, errors.As(res.MetricsErr, &insufficient), res.Variant.Name)
		assert.Contains(t, insufficient.Metrics, "roc_auc")
		assert.False(t, res.Report.ROCAUC.Defined)
		assert.NotEqual(t, "0.00", res.Report.ROCAUC.Format())
	}
	assert.Error(t, bundle.MetricsErr())
}

func TestPipelineCancelled(t *testing.T) {
	rs := testutil.SyntheticCredit(t, 100, 70)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := quickPipeline(t, 1).Run(ctx, rs)
	assert.ErrorIs(t, err, context.Canceled)
}

func TestNewPipelineValidation(t *testing.T) {
	_, err := NewPipeline(Config{TestRatio: 0.2}, testLogger())
	assert.ErrorIs(t, err, classifier.ErrInvalidVariant)

	cfg := DefaultConfig()
	cfg.Variants = append(cfg.Variants, cfg.Variants[0])
	_, err = NewPipeline(cfg, testLogger())
	assert.ErrorContains(t, err, "duplicate name")

	cfg = DefaultConfig()
	cfg.Variants = []classifier.Variant{{Name: "KNN", Kind: classifier.KindKNN, Probability: classifier.ProbabilityNative}}
	_, err = NewPipeline(cfg, testLogger())
	assert.ErrorIs(t, err, classifier.ErrInvalidVariant)
}

func TestEvaluateRequiresLabels(t *testing.T) {
	rs, err := dataset.FromRecords([]string{"age"}, [][]string{{"30"}, {"40"}})
	require.NoError(t, err)
	fm, err := preprocess.Encode(rs, preprocess.TrainingOptions)
	require.NoError(t, err)

	_, err = quickPipeline(t, 1).Evaluate(context.Background(), fm)
	assert.ErrorContains(t, err, "no \"class\" labels")
}

func TestBundlePredict(t *testing.T) {
	rs := testutil.SyntheticCredit(t, 200, 140)
	cfg := DefaultConfig()
	cfg.Variants = append(quickVariants(),
		classifier.Variant{Name: "K-Nearest Neighbors", Kind: classifier.KindKNN, Params: classifier.Params{"k": 5}, Probability: classifier.ProbabilityLabel})
	p, err := NewPipeline(cfg, testLogger())
	require.NoError(t, err)
	bundle, err := p.Run(context.Background(), rs)
	require.NoError(t, err)

	row := dataset.Row{
		"age":             "30",
		"credit_amount":   "1000",
		"duration":        "12",
		"checking_status": "frozen account",
		"credit_history":  "existing paid",
		"purpose":         "radio/tv",
		"savings_status":  "<100",
		"employment":      "1<=X<4",
		"personal_status": "male single",
		"housing":         "own",
		"job":             "skilled",
	}
	preds, err := bundle.Predict(row)
	require.NoError(t, err)
	require.Len(t, preds, 4)
	for _, pred := range preds {
		assert.Contains(t, []string{dataset.LabelGood, dataset.LabelBad}, pred.Label)
	}
	assert.True(t, preds[0].Probability.Defined)
	assert.False(t, preds[3].Probability.Defined)

	_, ok := bundle.Result("Decision Tree")
	assert.True(t, ok)
	_, ok = bundle.Result("Naive Bayes")
	assert.False(t, ok)

	bad := dataset.Row{"age": "old"}
	_, err = bundle.Predict(bad)
	assert.ErrorIs(t, err, dataset.ErrMalformed)
}
