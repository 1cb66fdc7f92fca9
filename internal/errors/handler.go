package errors

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"runtime/debug"

	"github.com/go-chi/chi/v5/middleware"

	"creditrisk/internal/dataset"
	"creditrisk/internal/evaluation"
	"creditrisk/internal/preprocess"
	"creditrisk/internal/views"
)

// Common error types following RFC 7807
const (
	TypeValidation       = "/errors/validation"
	TypeBadRequest       = "/errors/bad-request"
	TypeNotFound         = "/errors/not-found"
	TypeMethodNotAllowed = "/errors/method-not-allowed"
	TypeRateLimit        = "/errors/rate-limit"
	TypeInternal         = "/errors/internal"
	TypeServiceDown      = "/errors/service-unavailable"
	TypeTimeout          = "/errors/timeout"
)

// Domain-specific error types
const (
	TypeUnknownView      = "/errors/view/not-found"
	TypeInvalidInput     = "/errors/view/invalid-input"
	TypeInsufficientData = "/errors/model/insufficient-data"
	TypeMalformedData    = "/errors/data/malformed"
	TypeColumnMismatch   = "/errors/model/column-mismatch"
)

// ErrorHandler provides centralized error handling
type ErrorHandler struct {
	logger       *slog.Logger
	includeStack bool
}

// NewErrorHandler creates a new error handler
func NewErrorHandler(logger *slog.Logger, includeStack bool) *ErrorHandler {
	return &ErrorHandler{
		logger:       logger.With(slog.String("component", "error_handler")),
		includeStack: includeStack,
	}
}

// HandleError converts any error to RFC 7807 format and responds
func (h *ErrorHandler) HandleError(w http.ResponseWriter, r *http.Request, err error) {
	if err == nil {
		return
	}

	reqID := middleware.GetReqID(r.Context())
	problem := h.ErrorToProblem(err, r)

	level := slog.LevelWarn
	if problem.Status >= http.StatusInternalServerError {
		level = slog.LevelError
	}
	h.logger.Log(r.Context(), level, "request failed",
		slog.String("error", err.Error()),
		slog.Int("status", problem.Status),
		slog.String("request_id", reqID),
		slog.String("method", r.Method),
		slog.String("path", r.URL.Path),
	)

	problem.WithExtension("trace_id", reqID)
	if h.includeStack && problem.Status >= http.StatusInternalServerError {
		problem.WithExtension("stack", string(debug.Stack()))
	}

	WriteProblem(w, problem)
}

// ErrorToProblem converts an error to RFC 7807 Problem Details
func (h *ErrorHandler) ErrorToProblem(err error, r *http.Request) *ProblemDetails {
	path := r.URL.Path

	if errors.Is(err, context.DeadlineExceeded) || errors.Is(err, context.Canceled) {
		return NewProblemDetails(http.StatusGatewayTimeout, TypeTimeout, "Request Timeout",
			"The request took too long to process and was cancelled", path)
	}

	var apiErr *APIError
	if errors.As(err, &apiErr) {
		return apiErrorToProblem(apiErr, path)
	}

	var insufficient *evaluation.InsufficientDataError
	switch {
	case errors.As(err, &insufficient):
		return NewProblemDetails(http.StatusUnprocessableEntity, TypeInsufficientData, "Insufficient Data",
			err.Error(), path).
			WithExtension("error_code", CodeInsufficientData).
			WithExtension("metrics", insufficient.Metrics)

	case errors.Is(err, views.ErrUnknownView):
		return NewProblemDetails(http.StatusNotFound, TypeUnknownView, "View Not Found", err.Error(), path).
			WithExtension("available", views.DatasetViewNames())

	case errors.Is(err, views.ErrInvalidInput):
		return NewProblemDetails(http.StatusBadRequest, TypeInvalidInput, "Invalid Input", err.Error(), path)

	case errors.Is(err, dataset.ErrMalformed):
		return NewProblemDetails(http.StatusUnprocessableEntity, TypeMalformedData, "Malformed Data",
			err.Error(), path).WithExtension("error_code", CodeMalformedData)

	case errors.Is(err, preprocess.ErrColumnMismatch):
		return NewProblemDetails(http.StatusInternalServerError, TypeColumnMismatch, "Feature Column Mismatch",
			"The input could not be aligned with the trained models", path)
	}

	return NewProblemDetails(http.StatusInternalServerError, TypeInternal, "Internal Server Error",
		"An unexpected error occurred while processing your request", path)
}

// apiErrorToProblem converts APIError to ProblemDetails
func apiErrorToProblem(apiErr *APIError, path string) *ProblemDetails {
	problemType := TypeInternal
	switch apiErr.ErrorCode {
	case CodeValidationFailed:
		problemType = TypeValidation
	case CodeInvalidRequest:
		problemType = TypeBadRequest
	case CodeNotFound:
		problemType = TypeNotFound
	case CodeRateLimited:
		problemType = TypeRateLimit
	case CodeUnavailable:
		problemType = TypeServiceDown
	}

	problem := NewProblemDetails(apiErr.StatusCode, problemType, http.StatusText(apiErr.StatusCode),
		apiErr.Message, path).WithExtension("error_code", apiErr.ErrorCode)
	if apiErr.Details != nil {
		problem.WithExtension("details", apiErr.Details)
	}
	return problem
}

// NotFound returns a standard 404 error
func (h *ErrorHandler) NotFound(w http.ResponseWriter, r *http.Request) {
	problem := NewProblemDetails(http.StatusNotFound, TypeNotFound, "Not Found",
		"The requested resource was not found", r.URL.Path).
		WithExtension("trace_id", middleware.GetReqID(r.Context()))
	WriteProblem(w, problem)
}

// MethodNotAllowed returns a standard 405 error
func (h *ErrorHandler) MethodNotAllowed(w http.ResponseWriter, r *http.Request) {
	problem := NewProblemDetails(http.StatusMethodNotAllowed, TypeMethodNotAllowed, "Method Not Allowed",
		fmt.Sprintf("Method %s is not allowed for this endpoint", r.Method), r.URL.Path).
		WithExtension("trace_id", middleware.GetReqID(r.Context()))
	WriteProblem(w, problem)
}
