package evaluation

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"golang.org/x/sync/errgroup"

	"creditrisk/internal/classifier"
	"creditrisk/internal/dataset"
	"creditrisk/internal/preprocess"
)

// Config controls the split and the variants trained.
type Config struct {
	TestRatio float64
	Seed      int64
	// Parallelism bounds concurrent fits; values below 1 mean sequential.
	Parallelism int
	Variants    []classifier.Variant
}

// DefaultConfig returns an 80/20 split with seed 42 over the default
// variants, fitted sequentially.
func DefaultConfig() Config {
	return Config{
		TestRatio:   0.2,
		Seed:        42,
		Parallelism: 1,
		Variants:    classifier.DefaultVariants(),
	}
}

// Pipeline trains and scores the configured variants.
type Pipeline struct {
	cfg    Config
	logger *slog.Logger
}

// NewPipeline validates every variant up front and returns a pipeline.
func NewPipeline(cfg Config, logger *slog.Logger) (*Pipeline, error) {
	if len(cfg.Variants) == 0 {
		return nil, fmt.Errorf("%w: no variants configured", classifier.ErrInvalidVariant)
	}
	seen := make(map[string]bool, len(cfg.Variants))
	for _, v := range cfg.Variants {
		if seen[v.Name] {
			return nil, fmt.Errorf("%w: duplicate name %q", classifier.ErrInvalidVariant, v.Name)
		}
		seen[v.Name] = true
		if _, err := classifier.Build(v, cfg.Seed); err != nil {
			return nil, err
		}
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Pipeline{cfg: cfg, logger: logger}, nil
}

// Config returns the pipeline configuration.
func (p *Pipeline) Config() Config { return p.cfg }

// Run encodes rs and evaluates every variant on it.
func (p *Pipeline) Run(ctx context.Context, rs *dataset.RecordSet) (*Bundle, error) {
	fm, err := preprocess.Encode(rs, preprocess.TrainingOptions)
	if err != nil {
		return nil, fmt.Errorf("preprocess: %w", err)
	}
	bundle, err := p.Evaluate(ctx, fm)
	if err != nil {
		return nil, err
	}
	bundle.Key = rs.Key()
	return bundle, nil
}

// Evaluate splits fm and fits every variant on the same training rows.
// Results keep variant order. A fit or predict failure aborts the run;
// undefined metrics are recorded per result instead.
func (p *Pipeline) Evaluate(ctx context.Context, fm *preprocess.FeatureMatrix) (*Bundle, error) {
	labels := fm.Labels()
	if labels == nil {
		return nil, fmt.Errorf("evaluate: feature matrix has no %q labels", dataset.LabelColumn)
	}
	split, err := NewSplit(fm.Rows(), p.cfg.TestRatio, p.cfg.Seed)
	if err != nil {
		return nil, fmt.Errorf("evaluate: %w", err)
	}
	train := fm.SelectRows(split.Train)
	test := fm.SelectRows(split.Test)

	p.logger.InfoContext(ctx, "evaluating classifier variants",
		slog.Int("rows", fm.Rows()),
		slog.Int("features", len(fm.Columns())),
		slog.Int("train_rows", len(split.Train)),
		slog.Int("test_rows", len(split.Test)),
		slog.Int("variants", len(p.cfg.Variants)))

	results := make([]Result, len(p.cfg.Variants))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(max(p.cfg.Parallelism, 1))
	for i, v := range p.cfg.Variants {
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			res, err := p.evaluateVariant(gctx, v, train, test)
			if err != nil {
				return err
			}
			results[i] = res
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, fmt.Errorf("evaluate: %w", err)
	}

	return &Bundle{
		Columns:   fm.Columns(),
		Split:     split,
		Results:   results,
		Rows:      fm.Rows(),
		TrainedAt: time.Now(),
	}, nil
}

func (p *Pipeline) evaluateVariant(ctx context.Context, v classifier.Variant, train, test *preprocess.FeatureMatrix) (Result, error) {
	start := time.Now()
	model, err := classifier.Build(v, p.cfg.Seed)
	if err != nil {
		return Result{}, err
	}
	if err := model.Fit(train.Data(), train.Labels()); err != nil {
		return Result{}, err
	}
	fitDuration := time.Since(start)

	predicted, err := model.Predict(test.Data())
	if err != nil {
		return Result{}, err
	}
	proba, err := model.PositiveProba(test.Data(), predicted)
	if err != nil {
		return Result{}, err
	}

	report, err := Score(v.Name, test.Labels(), predicted, proba)
	res := Result{Variant: v, Model: model, Report: report, FitDuration: fitDuration}
	var insufficient *InsufficientDataError
	switch {
	case errors.As(err, &insufficient):
		res.MetricsErr = insufficient
		p.logger.WarnContext(ctx, "metrics undefined on held-out split",
			slog.String("model", v.Name),
			slog.Any("metrics", insufficient.Metrics))
	case err != nil:
		return Result{}, err
	}

	p.logger.DebugContext(ctx, "variant evaluated",
		slog.String("model", v.Name),
		slog.Duration("fit_duration", fitDuration),
		slog.String("accuracy", report.Accuracy.Format()),
		slog.String("roc_auc", report.ROCAUC.Format()))
	return res, nil
}
