// Package http implements the HTTP handlers of the credit risk dashboard.
// Handlers stay thin: they decode and validate requests, call a service and
// render the result. Every error goes through errors.ErrorHandler so clients
// always receive an RFC 7807 problem document.
//
// # Routes
//
//	GET    /api/health, /api/health/ready, /api/health/live, /api/version
//	GET    /api/dataset
//	GET    /api/views                      view names
//	GET    /api/views/{name}               dataset view, or input view with defaults
//	POST   /api/views/prediction           views.CustomerInput
//	POST   /api/views/recommendations      views.LoanProfile
//	POST   /api/views/finance              views.FinanceInput
//	GET    /api/models                     metrics reports
//	GET    /api/models/report.xlsx         Excel workbook
//	GET    /api/models/report.csv          CSV table
//	DELETE /api/models/cache               drop trained models
//	POST   /api/logs                       frontend log forwarding
package http
