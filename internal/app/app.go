package app

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/render"

	"creditrisk/internal/config"
	"creditrisk/internal/dataset"
	apierrors "creditrisk/internal/errors"
	"creditrisk/internal/evaluation"
	"creditrisk/internal/infrastructure"
	customMiddleware "creditrisk/internal/middleware"
	"creditrisk/internal/modelcache"
	"creditrisk/internal/services"
	handlers "creditrisk/internal/transport/http"
	"creditrisk/internal/validation"
	ws "creditrisk/internal/websocket"
)

var (
	// Version is set at compile time
	Version = config.AppVersion
	// BuildTime is set at compile time
	BuildTime = time.Now().Format(time.RFC3339)
)

// Application represents the main application container
type Application struct {
	Config        *config.Config
	Router        *chi.Mux
	Server        *http.Server
	Logger        *slog.Logger
	OTelProviders *infrastructure.OTelProviders
	Metrics       *infrastructure.BusinessMetrics

	Records       *dataset.RecordSet
	Cache         *modelcache.Cache
	WebSocketHub  *ws.Hub
	CreditService *services.CreditService
	HealthService *services.HealthService
}

// NewApplication initializes the logger, loads the dataset named by cfg and
// wires the application around it.
func NewApplication(cfg *config.Config) (*Application, error) {
	logger, err := infrastructure.InitializeLogger(cfg.Logging)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize logger: %w", err)
	}

	logger.Info("Application starting",
		slog.String("name", config.AppName),
		slog.String("version", Version),
		slog.String("data_path", cfg.Data.Path))

	if err := validation.NewFileValidator(logger).ValidateDatasetFile(cfg.Data.Path); err != nil {
		return nil, fmt.Errorf("invalid dataset path: %w", err)
	}
	records, err := dataset.Load(cfg.Data.Path)
	if err != nil {
		return nil, fmt.Errorf("failed to load dataset: %w", err)
	}
	logger.Info("Dataset loaded",
		slog.String("path", cfg.Data.Path),
		slog.Int("rows", records.Len()),
		slog.String("key", records.Key()))

	return New(cfg, logger, records)
}

// New wires an application around an already loaded record set.
func New(cfg *config.Config, logger *slog.Logger, records *dataset.RecordSet) (*Application, error) {
	if logger == nil {
		logger = infrastructure.GetLogger()
	}

	otelProviders, err := infrastructure.InitializeOTel(infrastructure.OTelConfigFrom(cfg.Telemetry), logger)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize OpenTelemetry: %w", err)
	}
	metrics, err := infrastructure.CreateBusinessMetrics(otelProviders.Meter)
	if err != nil {
		return nil, fmt.Errorf("failed to create business metrics: %w", err)
	}

	app := &Application{
		Config:        cfg,
		Logger:        logger,
		OTelProviders: otelProviders,
		Metrics:       metrics,
		Records:       records,
	}

	if err := app.initializeServices(); err != nil {
		return nil, fmt.Errorf("failed to initialize services: %w", err)
	}

	if err := app.setupRouter(); err != nil {
		return nil, fmt.Errorf("failed to set up router: %w", err)
	}
	app.createServer()

	return app, nil
}

// initializeServices builds the pipeline, the model cache and the services
// that sit on top of them.
func (a *Application) initializeServices() error {
	evalCfg := evaluation.DefaultConfig()
	evalCfg.Seed = a.Config.Model.Seed
	evalCfg.TestRatio = a.Config.Model.TestRatio
	evalCfg.Parallelism = a.Config.Model.Parallelism

	pipeline, err := evaluation.NewPipeline(evalCfg, a.Logger)
	if err != nil {
		return fmt.Errorf("failed to create evaluation pipeline: %w", err)
	}

	a.WebSocketHub = ws.NewHub(a.Logger)
	a.Cache = modelcache.New(pipeline, a.Logger,
		modelcache.WithRecorder(a.Metrics),
		modelcache.WithListener(a.WebSocketHub.BroadcastModelEvent),
	)

	a.CreditService = services.NewCreditService(a.Records, a.Cache, a.Metrics, a.Logger)
	a.HealthService = services.NewHealthService(Version, BuildTime, a.Records, a.Cache, a.WebSocketHub, a.Logger)
	return nil
}

// setupRouter configures the HTTP router with all routes
func (a *Application) setupRouter() error {
	r := chi.NewRouter()
	errorHandler := apierrors.NewErrorHandler(a.Logger, false)
	validator := customMiddleware.NewValidationMiddleware(a.Logger, errorHandler)

	// Ordering: RequestID → RealIP → OTel → Logger → Recoverer.
	// The WebSocket route stays outside the group so nothing wraps the
	// response writer before the upgrade.
	r.Use(customMiddleware.RequestID)
	r.Use(middleware.RealIP)

	r.With(customMiddleware.WebSocketTraceMiddleware(a.Logger)).Get(config.WebSocketEndpoint, ws.Handler(
		a.WebSocketHub,
		ws.Upgrader(a.Config.Security.AllowedOrigins, a.Config.WebSocket.ReadBufferSize, a.Config.WebSocket.WriteBufferSize),
		a.Logger,
		ws.WithHeartbeat(a.Config.WebSocket.PingPeriod, a.Config.WebSocket.PongWait),
	))

	otelMiddleware, err := customMiddleware.NewOTelMiddleware(a.OTelProviders, a.Metrics)
	if err != nil {
		return fmt.Errorf("failed to create OpenTelemetry middleware: %w", err)
	}

	r.Group(func(r chi.Router) {
		r.Use(otelMiddleware.Handler)
		r.Use(customMiddleware.StructuredLogger(a.Logger))
		r.Use(customMiddleware.Recoverer(a.Logger))
		r.Use(customMiddleware.SecurityHeaders)

		if a.Config.Security.EnableCORS {
			r.Use(customMiddleware.CORS(a.getCORSConfig()))
		}
		if a.Config.Security.RateLimit.Enabled {
			r.Use(customMiddleware.NewRateLimiter(
				a.Config.Security.RateLimit.RPS,
				a.Config.Security.RateLimit.Burst,
				a.Logger,
			).Handler)
		}

		a.setupAPIRoutes(r, validator, errorHandler)
	})

	if a.OTelProviders.PrometheusHTTP != nil {
		r.Handle(config.MetricsEndpoint, a.OTelProviders.PrometheusHTTP)
	}

	r.NotFound(errorHandler.NotFound)
	r.MethodNotAllowed(errorHandler.MethodNotAllowed)

	a.Router = r
	return nil
}

// setupAPIRoutes configures API endpoints
func (a *Application) setupAPIRoutes(r chi.Router, validator *customMiddleware.ValidationMiddleware, errorHandler *apierrors.ErrorHandler) {
	r.Route(config.APIBasePath, func(r chi.Router) {
		r.Use(render.SetContentType(render.ContentTypeJSON))
		r.Use(customMiddleware.Timeout(a.Config.Server.RequestTimeout, a.Logger))

		healthHandler := handlers.NewHealthHandler(a.HealthService, a.Logger)
		r.Mount("/health", healthHandler.Routes())
		r.Get("/version", healthHandler.Version)

		modelsHandler := handlers.NewModelsHandler(a.CreditService, a.Logger, errorHandler)
		r.Get("/dataset", modelsHandler.GetDataset)
		r.Mount("/models", modelsHandler.Routes())

		// Bodies are JSON only; GET requests carry none.
		r.Group(func(r chi.Router) {
			r.Use(customMiddleware.ContentTypeValidator(errorHandler, "application/json"))
			r.Mount("/views", handlers.NewViewsHandler(a.CreditService, validator, a.Logger, errorHandler).Routes())
			r.Post("/logs", handlers.NewClientLogHandler(a.Logger, validator, errorHandler).Handle)
		})
	})
}

// getCORSConfig returns the CORS configuration for the API group
func (a *Application) getCORSConfig() customMiddleware.CORSConfig {
	return customMiddleware.CORSConfig{
		AllowedOrigins: a.Config.Security.AllowedOrigins,
		AllowedMethods: []string{"GET", "POST", "DELETE", "OPTIONS"},
		AllowedHeaders: []string{
			"Accept",
			"Content-Type",
			"X-Request-ID",
			"X-Requested-With",
		},
		ExposedHeaders: []string{
			"X-Request-ID",
			"Content-Disposition",
		},
		MaxAge: 300,
		Logger: a.Logger,
	}
}

// createServer creates the HTTP server
func (a *Application) createServer() {
	a.Server = &http.Server{
		Addr:           fmt.Sprintf(":%d", a.Config.Server.Port),
		Handler:        a.Router,
		ReadTimeout:    a.Config.Server.ReadTimeout,
		WriteTimeout:   a.Config.Server.WriteTimeout,
		IdleTimeout:    a.Config.Server.IdleTimeout,
		MaxHeaderBytes: a.Config.Server.MaxHeaderBytes,
	}
}

// Start starts the hub and the HTTP server. A listen failure cancels ctx
// through cancel.
func (a *Application) Start(ctx context.Context, cancel context.CancelFunc) error {
	a.Logger.InfoContext(ctx, "Starting application",
		slog.String("name", config.AppName),
		slog.String("version", Version),
		slog.Int("port", a.Config.Server.Port),
		slog.String("level", a.Config.Logging.Level))

	a.WebSocketHub.Start()

	if a.Config.Model.WarmOnStart {
		start := time.Now()
		if err := a.CreditService.Warm(ctx); err != nil {
			// Non-fatal: the views report the failure on first use.
			infrastructure.WithError(a.Logger, err).WarnContext(ctx, "Model warm-up failed")
		} else {
			a.Logger.InfoContext(ctx, "Models warmed",
				slog.Duration("duration", time.Since(start)))
		}
	}

	go func() {
		if err := a.Server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			a.Logger.ErrorContext(ctx, "Server error", slog.String("error", err.Error()))
			cancel()
		}
	}()

	if err := a.performStartupHealthCheck(ctx); err != nil {
		a.Logger.WarnContext(ctx, "Startup health check warnings", slog.String("warnings", err.Error()))
	}

	a.Logger.InfoContext(ctx, "Application started successfully",
		slog.String("address", fmt.Sprintf("http://localhost:%d", a.Config.Server.Port)))
	return nil
}

// Stop shuts the server, the hub and the telemetry providers down
func (a *Application) Stop(ctx context.Context) error {
	a.Logger.InfoContext(ctx, "Shutting down application")

	shutdownCtx, cancel := context.WithTimeout(ctx, a.Config.Server.ShutdownTimeout)
	defer cancel()

	var errs []error
	if err := a.Server.Shutdown(shutdownCtx); err != nil {
		errs = append(errs, fmt.Errorf("server shutdown error: %w", err))
	}

	a.WebSocketHub.Stop()

	if a.OTelProviders != nil {
		if err := a.OTelProviders.Shutdown(shutdownCtx); err != nil {
			infrastructure.WithError(a.Logger, err).ErrorContext(ctx, "Error shutting down OpenTelemetry")
		}
	}

	if err := infrastructure.CloseLogFile(); err != nil {
		errs = append(errs, fmt.Errorf("close log file: %w", err))
	}

	a.Logger.InfoContext(ctx, "Application shutdown complete")
	return errors.Join(errs...)
}

// Run starts the application and blocks until SIGINT or SIGTERM, or until
// the server fails.
func (a *Application) Run() error {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)
	defer signal.Stop(sigChan)

	if err := a.Start(ctx, cancel); err != nil {
		return err
	}

	select {
	case sig := <-sigChan:
		a.Logger.InfoContext(ctx, "Received interrupt signal", slog.String("signal", sig.String()))
	case <-ctx.Done():
		a.Logger.WarnContext(ctx, "Server stopped unexpectedly")
	}

	// The run context may already be cancelled; shutdown gets its own.
	return a.Stop(context.Background())
}

// performStartupHealthCheck reports components that are up but degraded.
func (a *Application) performStartupHealthCheck(ctx context.Context) error {
	status := a.HealthService.ReadinessCheck(ctx)

	var warnings []error
	for name, svc := range status.Services {
		if svc.Status == services.StatusReady {
			continue
		}
		warnings = append(warnings, fmt.Errorf("%s: %s (%s)", name, svc.Status, svc.Message))
	}
	return errors.Join(warnings...)
}
