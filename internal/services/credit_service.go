package services

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"creditrisk/internal/dataset"
	"creditrisk/internal/display"
	"creditrisk/internal/evaluation"
	"creditrisk/internal/exporter"
	"creditrisk/internal/infrastructure"
	"creditrisk/internal/modelcache"
	"creditrisk/internal/views"
)

// Export formats accepted by ExportReport.
const (
	FormatXLSX = "xlsx"
	FormatCSV  = "csv"
)

// DatasetInfo summarizes the loaded record set.
type DatasetInfo struct {
	Key     string   `json:"key"`
	Rows    int      `json:"rows"`
	Columns []string `json:"columns"`
	Good    int      `json:"good"`
	Bad     int      `json:"bad"`
}

// ModelsResponse is the payload of the model report endpoint.
type ModelsResponse struct {
	Key       string              `json:"key"`
	Rows      int                 `json:"rows"`
	HeldOut   int                 `json:"held_out"`
	Features  int                 `json:"features"`
	TrainedAt time.Time           `json:"trained_at"`
	Reports   []evaluation.Report `json:"reports"`
	Warnings  []string            `json:"warnings,omitempty"`
}

// CreditService renders dashboard views over one record set and the models
// trained on it.
type CreditService struct {
	records *dataset.RecordSet
	cache   *modelcache.Cache
	metrics *infrastructure.BusinessMetrics
	tracer  trace.Tracer
	logger  *slog.Logger
}

// NewCreditService creates the service. metrics may be nil.
func NewCreditService(records *dataset.RecordSet, cache *modelcache.Cache, metrics *infrastructure.BusinessMetrics, logger *slog.Logger) *CreditService {
	if logger == nil {
		logger = slog.Default()
	}
	return &CreditService{
		records: records,
		cache:   cache,
		metrics: metrics,
		tracer:  otel.Tracer(infrastructure.MeterName),
		logger:  logger.With(slog.String("service", "credit")),
	}
}

// Dataset describes the loaded record set.
func (s *CreditService) Dataset(ctx context.Context) (DatasetInfo, error) {
	if s.records == nil {
		return DatasetInfo{}, ErrNoDataset
	}
	info := DatasetInfo{
		Key:     s.records.Key(),
		Rows:    s.records.Len(),
		Columns: s.records.Columns(),
	}
	for _, label := range s.records.Labels() {
		if label == dataset.LabelGood {
			info.Good++
		} else {
			info.Bad++
		}
	}
	return info, nil
}

// ViewNames lists the dataset views and the views that take a request body.
func (s *CreditService) ViewNames() map[string][]string {
	return map[string][]string{
		"dataset": views.DatasetViewNames(),
		"input":   views.InputViewNames(),
	}
}

// RenderView renders a dataset view by name.
func (s *CreditService) RenderView(ctx context.Context, name string) (*display.Page, error) {
	if s.records == nil {
		return nil, ErrNoDataset
	}
	return s.observe(ctx, name, func(context.Context) (*display.Page, error) {
		return views.RenderDataset(name, s.records)
	})
}

// Predict scores one customer with every trained model.
func (s *CreditService) Predict(ctx context.Context, in views.CustomerInput) (*display.Page, error) {
	return s.observe(ctx, views.NamePrediction, func(ctx context.Context) (*display.Page, error) {
		bundle, err := s.bundle(ctx)
		if err != nil {
			return nil, err
		}
		return views.Prediction(bundle, in)
	})
}

// Recommend assesses a loan profile.
func (s *CreditService) Recommend(ctx context.Context, lp views.LoanProfile) (*display.Page, error) {
	return s.observe(ctx, views.NameRecommendations, func(context.Context) (*display.Page, error) {
		return views.Recommendations(lp)
	})
}

// Finance renders the personal finance advice for in.
func (s *CreditService) Finance(ctx context.Context, in views.FinanceInput) (*display.Page, error) {
	return s.observe(ctx, views.NameFinance, func(context.Context) (*display.Page, error) {
		return views.Finance(in)
	})
}

// Models returns the metrics reports of every trained model, training them
// on first use. Undefined metrics are listed as warnings.
func (s *CreditService) Models(ctx context.Context) (*ModelsResponse, error) {
	bundle, err := s.bundle(ctx)
	if err != nil {
		return nil, err
	}
	resp := &ModelsResponse{
		Key:       bundle.Key,
		Rows:      bundle.Rows,
		HeldOut:   len(bundle.Split.Test),
		Features:  len(bundle.Columns),
		TrainedAt: bundle.TrainedAt,
		Reports:   bundle.Reports(),
	}
	for _, r := range bundle.Results {
		if r.MetricsErr != nil {
			resp.Warnings = append(resp.Warnings, r.MetricsErr.Error())
		}
	}
	return resp, nil
}

// ExportReport writes the model report to w in the given format.
func (s *CreditService) ExportReport(ctx context.Context, w io.Writer, format string) error {
	bundle, err := s.bundle(ctx)
	if err != nil {
		return err
	}
	switch format {
	case FormatXLSX:
		err = exporter.WriteXLSX(w, bundle)
	case FormatCSV:
		err = exporter.WriteReportCSV(w, bundle)
	default:
		return fmt.Errorf("%w: %q", ErrUnsupportedFormat, format)
	}
	if err != nil {
		return fmt.Errorf("export %s report: %w", format, err)
	}
	return nil
}

// InvalidateModels drops every cached bundle and returns how many were
// dropped. The next model request retrains.
func (s *CreditService) InvalidateModels(ctx context.Context) int {
	n := s.cache.Purge()
	s.logger.InfoContext(ctx, "model cache invalidated", slog.Int("entries", n))
	return n
}

// Warm trains the models ahead of the first request.
func (s *CreditService) Warm(ctx context.Context) error {
	_, err := s.bundle(ctx)
	return err
}

func (s *CreditService) bundle(ctx context.Context) (*evaluation.Bundle, error) {
	if s.records == nil {
		return nil, ErrNoDataset
	}
	return s.cache.Get(ctx, s.records)
}

func (s *CreditService) observe(ctx context.Context, view string, render func(context.Context) (*display.Page, error)) (*display.Page, error) {
	ctx, span := s.tracer.Start(ctx, "view."+view, trace.WithAttributes(attribute.String("view", view)))
	defer span.End()

	start := time.Now()
	page, err := render(ctx)
	elapsed := time.Since(start)
	s.metrics.RecordViewRender(ctx, view, elapsed, err)

	if err != nil {
		infrastructure.RecordError(ctx, err)
		infrastructure.WithError(s.logger, err).WarnContext(ctx, "view render failed",
			slog.String("view", view))
		return nil, fmt.Errorf("render %s: %w", view, err)
	}
	infrastructure.AddSpanEvent(ctx, "view.rendered", attribute.Int("directives", len(page.Directives)))
	s.logger.DebugContext(ctx, "view rendered",
		slog.String("view", view),
		slog.Duration("duration", elapsed),
		slog.Int("directives", len(page.Directives)))
	return page, nil
}
