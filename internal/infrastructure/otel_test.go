package infrastructure

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	sdkmetric "go.opentelemetry.io/otel/sdk/metric"
	"go.opentelemetry.io/otel/sdk/metric/metricdata"

	"creditrisk/internal/config"
)

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func TestOTelInitialization(t *testing.T) {
	cfg := OTelConfigFrom(config.Default().Telemetry)
	providers, err := InitializeOTel(cfg, discardLogger())
	require.NoError(t, err)

	assert.Nil(t, providers.TracerProvider)
	assert.NotNil(t, providers.Tracer)
	assert.NotNil(t, providers.MeterProvider)
	assert.NotNil(t, providers.Meter)
	require.NotNil(t, providers.PrometheusHTTP)

	metrics, err := CreateBusinessMetrics(providers.Meter)
	require.NoError(t, err)
	metrics.RecordCacheLookup(context.Background(), true)

	rec := httptest.NewRecorder()
	providers.PrometheusHTTP.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "model_cache_lookups_total")

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	assert.NoError(t, providers.Shutdown(ctx))
}

func TestOTelStdoutTracing(t *testing.T) {
	cfg := &OTelConfig{ServiceName: ServiceName, ServiceVersion: "test", TraceExporter: "stdout", MetricExporter: "none", SampleRatio: 1}
	providers, err := InitializeOTel(cfg, discardLogger())
	require.NoError(t, err)
	defer providers.Shutdown(context.Background())

	require.NotNil(t, providers.TracerProvider)
	ctx, span := otel.Tracer("test").Start(context.Background(), "train")
	defer span.End()

	assert.Equal(t, span.SpanContext().TraceID().String(), TraceIDFromContext(ctx))
	AddSpanEvent(ctx, "variant.fitted", attribute.String("model", "Decision Tree"))
	RecordError(ctx, errors.New("boom"))
}

func TestOTelUnsupportedExporter(t *testing.T) {
	_, err := InitializeOTel(&OTelConfig{TraceExporter: "zipkin"}, discardLogger())
	assert.Error(t, err)

	_, err = InitializeOTel(&OTelConfig{MetricExporter: "statsd"}, discardLogger())
	assert.Error(t, err)
}

func TestBusinessMetricsRecording(t *testing.T) {
	reader := sdkmetric.NewManualReader()
	mp := sdkmetric.NewMeterProvider(sdkmetric.WithReader(reader))
	defer mp.Shutdown(context.Background())

	metrics, err := CreateBusinessMetrics(mp.Meter("test"))
	require.NoError(t, err)

	ctx := context.Background()
	metrics.RecordCacheLookup(ctx, true)
	metrics.RecordCacheLookup(ctx, false)
	metrics.RecordCacheLookup(ctx, false)
	metrics.RecordTraining(ctx, 2*time.Second, nil)
	metrics.RecordTraining(ctx, time.Second, errors.New("insufficient data"))
	metrics.RecordViewRender(ctx, "dashboard", 10*time.Millisecond, nil)

	var rm metricdata.ResourceMetrics
	require.NoError(t, reader.Collect(ctx, &rm))

	sums := map[string]map[string]int64{}
	for _, sm := range rm.ScopeMetrics {
		for _, m := range sm.Metrics {
			data, ok := m.Data.(metricdata.Sum[int64])
			if !ok {
				continue
			}
			byAttr := map[string]int64{}
			for _, dp := range data.DataPoints {
				byAttr[dp.Attributes.Encoded(attribute.DefaultEncoder())] = dp.Value
			}
			sums[m.Name] = byAttr
		}
	}

	assert.Equal(t, int64(1), sums["model_cache_lookups_total"]["result=hit"])
	assert.Equal(t, int64(2), sums["model_cache_lookups_total"]["result=miss"])
	assert.Equal(t, int64(1), sums["model_trainings_total"]["status=success"])
	assert.Equal(t, int64(1), sums["model_trainings_total"]["status=failure"])
	assert.Equal(t, int64(1), sums["view_renders_total"]["status=success,view=dashboard"])
}

func TestNilBusinessMetricsIsSafe(t *testing.T) {
	var m *BusinessMetrics
	assert.NotPanics(t, func() {
		m.RecordCacheLookup(context.Background(), true)
		m.RecordTraining(context.Background(), time.Second, nil)
		m.RecordViewRender(context.Background(), "home", time.Millisecond, nil)
	})
}

func TestCollectRuntimeStats(t *testing.T) {
	start := time.Now().Add(-time.Minute)
	stats := CollectRuntimeStats(start)
	assert.Positive(t, stats.GoRoutines)
	assert.Positive(t, stats.CPUCount)
	assert.GreaterOrEqual(t, stats.ProcessUptime, time.Minute)
}
