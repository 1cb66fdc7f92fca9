package http

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/render"

	apierrors "creditrisk/internal/errors"
	"creditrisk/internal/infrastructure"
	"creditrisk/internal/middleware"
)

// ClientLogHandler forwards frontend log entries to the server log.
type ClientLogHandler struct {
	logger       *slog.Logger
	validator    *middleware.ValidationMiddleware
	errorHandler *apierrors.ErrorHandler
}

// NewClientLogHandler creates a new client log handler
func NewClientLogHandler(logger *slog.Logger, validator *middleware.ValidationMiddleware, errorHandler *apierrors.ErrorHandler) *ClientLogHandler {
	return &ClientLogHandler{
		logger:       logger.With(slog.String("handler", "client_log")),
		validator:    validator,
		errorHandler: errorHandler,
	}
}

// LogRequest represents a client log entry
type LogRequest struct {
	Level   string                 `json:"level" validate:"omitempty,oneof=debug info warn error"`
	Message string                 `json:"message" validate:"required,max=2000"`
	View    string                 `json:"view,omitempty" validate:"max=64"`
	Data    map[string]interface{} `json:"data,omitempty"`
}

// Handle handles POST /api/logs
func (h *ClientLogHandler) Handle(w http.ResponseWriter, r *http.Request) {
	var req LogRequest
	if err := h.validator.DecodeAndValidate(r, &req); err != nil {
		h.errorHandler.HandleError(w, r, err)
		return
	}

	attrs := []slog.Attr{slog.String("source", "frontend")}
	if req.View != "" {
		attrs = append(attrs, slog.String("view", req.View))
	}
	if req.Data != nil {
		attrs = append(attrs, slog.Any("data", req.Data))
	}
	h.logger.LogAttrs(r.Context(), infrastructure.ParseLogLevel(req.Level), req.Message, attrs...)

	render.Status(r, http.StatusAccepted)
	render.JSON(w, r, map[string]interface{}{"success": true})
}
