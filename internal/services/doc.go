// Package services implements the business logic layer of the credit risk
// dashboard. It sits between the HTTP handlers and the domain packages
// (dataset, modelcache, views, exporter) so handlers never touch the record
// set or the model cache directly.
//
// # Available Services
//
//	- CreditService: renders views, serves predictions and model reports
//	- HealthService: liveness, readiness and version information
//
// # Error Handling
//
// Services wrap domain errors with fmt.Errorf("...: %w") and leave the
// mapping to HTTP problem documents to internal/errors, so sentinel values
// such as views.ErrUnknownView survive the trip to the handler.
package services
