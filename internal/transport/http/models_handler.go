package http

import (
	"bytes"
	"fmt"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/render"

	apierrors "creditrisk/internal/errors"
	"creditrisk/internal/exporter"
	"creditrisk/internal/services"
)

// ModelsHandler serves model reports and cache control.
type ModelsHandler struct {
	service      CreditServiceInterface
	logger       *slog.Logger
	errorHandler *apierrors.ErrorHandler
}

// NewModelsHandler creates a new models handler
func NewModelsHandler(service CreditServiceInterface, logger *slog.Logger, errorHandler *apierrors.ErrorHandler) *ModelsHandler {
	return &ModelsHandler{
		service:      service,
		logger:       logger.With(slog.String("handler", "models")),
		errorHandler: errorHandler,
	}
}

// Routes returns the model routes
func (h *ModelsHandler) Routes() chi.Router {
	r := chi.NewRouter()
	r.Get("/", h.GetModels)
	r.Get("/report.xlsx", h.DownloadReport(services.FormatXLSX, exporter.ContentTypeXLSX))
	r.Get("/report.csv", h.DownloadReport(services.FormatCSV, "text/csv; charset=utf-8"))
	r.Delete("/cache", h.InvalidateCache)
	return r
}

// GetModels handles GET /api/models
func (h *ModelsHandler) GetModels(w http.ResponseWriter, r *http.Request) {
	resp, err := h.service.Models(r.Context())
	if err != nil {
		h.errorHandler.HandleError(w, r, serviceError(err))
		return
	}
	render.JSON(w, r, resp)
}

// DownloadReport serves the model report as an attachment. The report is
// built in memory so a failure still yields a problem document.
func (h *ModelsHandler) DownloadReport(format, contentType string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var buf bytes.Buffer
		if err := h.service.ExportReport(r.Context(), &buf, format); err != nil {
			h.errorHandler.HandleError(w, r, serviceError(err))
			return
		}

		filename := fmt.Sprintf("credit_model_report_%s.%s", time.Now().Format("20060102"), format)
		w.Header().Set("Content-Type", contentType)
		w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", filename))
		w.Header().Set("Content-Length", strconv.Itoa(buf.Len()))
		w.WriteHeader(http.StatusOK)
		if _, err := buf.WriteTo(w); err != nil {
			h.logger.WarnContext(r.Context(), "report download interrupted",
				slog.String("error", err.Error()))
		}
	}
}

// InvalidateCache handles DELETE /api/models/cache
func (h *ModelsHandler) InvalidateCache(w http.ResponseWriter, r *http.Request) {
	n := h.service.InvalidateModels(r.Context())
	render.JSON(w, r, map[string]interface{}{
		"invalidated": n,
	})
}

// GetDataset handles GET /api/dataset
func (h *ModelsHandler) GetDataset(w http.ResponseWriter, r *http.Request) {
	info, err := h.service.Dataset(r.Context())
	if err != nil {
		h.errorHandler.HandleError(w, r, serviceError(err))
		return
	}
	render.JSON(w, r, info)
}
