package services

import (
	"context"
	"fmt"
	"log/slog"
	"runtime"
	"time"

	"creditrisk/internal/dataset"
	"creditrisk/internal/infrastructure"
	"creditrisk/internal/modelcache"
	ws "creditrisk/internal/websocket"
)

// Health states
const (
	StatusOK       = "ok"
	StatusReady    = "ready"
	StatusNotReady = "not_ready"
	StatusAlive    = "alive"
)

// HealthService provides health check functionality
type HealthService struct {
	version      string
	buildTime    string
	records      *dataset.RecordSet
	cache        *modelcache.Cache
	webSocketHub *ws.Hub
	startTime    time.Time
	logger       *slog.Logger
}

// HealthStatus represents the health status response
type HealthStatus struct {
	Status    string                       `json:"status"`
	Timestamp time.Time                    `json:"timestamp"`
	Version   string                       `json:"version"`
	Runtime   *infrastructure.RuntimeStats `json:"runtime,omitempty"`
	Services  map[string]ServiceHealth     `json:"services,omitempty"`
}

// ServiceHealth represents individual service health
type ServiceHealth struct {
	Status  string `json:"status"`
	Message string `json:"message,omitempty"`
}

// NewHealthService creates a new health service. cache and hub may be nil.
func NewHealthService(version, buildTime string, records *dataset.RecordSet, cache *modelcache.Cache, hub *ws.Hub, logger *slog.Logger) *HealthService {
	if logger == nil {
		logger = slog.Default()
	}
	logger.Info("HealthService initialized",
		slog.String("version", version),
		slog.String("build_time", buildTime))

	return &HealthService{
		version:      version,
		buildTime:    buildTime,
		records:      records,
		cache:        cache,
		webSocketHub: hub,
		startTime:    time.Now(),
		logger:       logger,
	}
}

// HealthCheck returns overall health status
func (hs *HealthService) HealthCheck(ctx context.Context) HealthStatus {
	hs.logger.DebugContext(ctx, "HealthCheck: performing health check",
		slog.String("uptime", time.Since(hs.startTime).String()))

	return HealthStatus{
		Status:    StatusOK,
		Timestamp: time.Now(),
		Version:   hs.version,
	}
}

// ReadinessCheck reports ready once the dataset is loaded. Untrained models
// do not block readiness; they are trained on first use.
func (hs *HealthService) ReadinessCheck(ctx context.Context) HealthStatus {
	status := HealthStatus{
		Status:    StatusReady,
		Timestamp: time.Now(),
		Version:   hs.version,
		Services: map[string]ServiceHealth{
			"dataset":   hs.checkDataset(),
			"models":    hs.checkModels(),
			"websocket": hs.checkWebSocket(),
		},
	}
	if status.Services["dataset"].Status != StatusReady {
		status.Status = StatusNotReady
	}
	return status
}

// LivenessCheck returns liveness status
func (hs *HealthService) LivenessCheck(ctx context.Context) HealthStatus {
	stats := infrastructure.CollectRuntimeStats(hs.startTime)
	return HealthStatus{
		Status:    StatusAlive,
		Timestamp: time.Now(),
		Version:   hs.version,
		Runtime:   &stats,
	}
}

// Version returns version information
func (hs *HealthService) Version() map[string]interface{} {
	result := map[string]interface{}{
		"version":      hs.version,
		"go_version":   runtime.Version(),
		"os":           runtime.GOOS,
		"arch":         runtime.GOARCH,
		"uptime":       time.Since(hs.startTime).Seconds(),
		"start_time":   hs.startTime.Format(time.RFC3339),
		"current_time": time.Now().Format(time.RFC3339),
	}
	if hs.buildTime != "" {
		result["build_time"] = hs.buildTime
	}
	return result
}

func (hs *HealthService) checkDataset() ServiceHealth {
	if hs.records == nil || hs.records.Len() == 0 {
		return ServiceHealth{Status: StatusNotReady, Message: "dataset not loaded"}
	}
	return ServiceHealth{
		Status:  StatusReady,
		Message: fmt.Sprintf("%d rows loaded", hs.records.Len()),
	}
}

func (hs *HealthService) checkModels() ServiceHealth {
	if hs.cache == nil {
		return ServiceHealth{Status: StatusNotReady, Message: "model cache not initialized"}
	}
	if hs.records != nil {
		if _, ok := hs.cache.Peek(hs.records.Key()); ok {
			return ServiceHealth{Status: StatusReady, Message: "models trained"}
		}
	}
	return ServiceHealth{Status: StatusNotReady, Message: "models will be trained on first use"}
}

func (hs *HealthService) checkWebSocket() ServiceHealth {
	if hs.webSocketHub == nil {
		return ServiceHealth{Status: StatusNotReady, Message: "websocket hub not initialized"}
	}
	metrics := hs.webSocketHub.GetHubMetrics()
	if running, _ := metrics["running"].(bool); !running {
		return ServiceHealth{Status: StatusNotReady, Message: "websocket hub not running"}
	}
	return ServiceHealth{
		Status: StatusReady,
		Message: fmt.Sprintf("%d clients connected, %d messages dropped",
			metrics["active_clients"], metrics["messages_dropped"]),
	}
}
