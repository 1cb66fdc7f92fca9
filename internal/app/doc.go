// Package app wires the credit risk dashboard together and manages its
// lifecycle.
//
// # Initialization Flow
//
//  1. Load configuration (defaults, YAML file, environment)
//  2. Initialize logging and OpenTelemetry
//  3. Load the credit dataset
//  4. Build the evaluation pipeline and the model cache
//  5. Create the WebSocket hub and subscribe it to model cache events
//  6. Create the services, the HTTP handlers and the router
//
// # Usage
//
//	cfg, err := config.Load()
//	if err != nil {
//	    log.Fatal(err)
//	}
//	application, err := app.NewApplication(cfg)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	if err := application.Run(); err != nil {
//	    log.Fatal(err)
//	}
//
// # Graceful Shutdown
//
// Run blocks until SIGINT or SIGTERM. Stop then drains in-flight requests
// within the configured shutdown timeout, closes WebSocket clients and
// flushes telemetry.
package app
