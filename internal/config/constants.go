package config

import "time"

// Application constants
const (
	AppName    = "Credit Risk Dashboard"
	AppVersion = "1.0.0"

	// Model evaluation
	DefaultSeed      = 42
	DefaultTestRatio = 0.2

	// Files
	DefaultDataPath = "data/credit_customers.csv"
	DefaultLogFile  = "logs/app.log"

	// Rate Limiting
	DefaultRateLimit = 100 // requests per second
	DefaultBurstSize = 50

	// Timeouts
	DefaultRequestTimeout = 2 * time.Minute
	WebSocketPingPeriod   = 30 * time.Second
	WebSocketPongWait     = 60 * time.Second

	// WebSocket Buffer Sizes
	WebSocketReadBufferSize  = 1024
	WebSocketWriteBufferSize = 1024

	DefaultLogLevel = "info"
)

// API endpoints
const (
	APIBasePath       = "/api"
	HealthEndpoint    = "/api/health"
	MetricsEndpoint   = "/metrics"
	WebSocketEndpoint = "/ws"
)
