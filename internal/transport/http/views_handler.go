package http

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/render"

	apierrors "creditrisk/internal/errors"
	"creditrisk/internal/middleware"
	"creditrisk/internal/services"
	"creditrisk/internal/views"
)

// ViewsHandler serves the dashboard views as display directives. Input
// views render their default inputs on GET or an empty POST; a POST body
// must carry every input field.
type ViewsHandler struct {
	service      CreditServiceInterface
	validator    *middleware.ValidationMiddleware
	logger       *slog.Logger
	errorHandler *apierrors.ErrorHandler
}

// NewViewsHandler creates a new views handler
func NewViewsHandler(service CreditServiceInterface, validator *middleware.ValidationMiddleware, logger *slog.Logger, errorHandler *apierrors.ErrorHandler) *ViewsHandler {
	return &ViewsHandler{
		service:      service,
		validator:    validator,
		logger:       logger.With(slog.String("handler", "views")),
		errorHandler: errorHandler,
	}
}

// Routes returns the view routes
func (h *ViewsHandler) Routes() chi.Router {
	r := chi.NewRouter()
	r.Use(render.SetContentType(render.ContentTypeJSON))

	r.Get("/", h.ListViews)
	r.Get("/{name}", h.GetView)
	for _, name := range views.InputViewNames() {
		r.Get("/"+name, h.renderNamed(name))
	}
	r.Post("/"+views.NamePrediction, h.Predict)
	r.Post("/"+views.NameRecommendations, h.Recommend)
	r.Post("/"+views.NameFinance, h.Finance)
	return r
}

// ListViews handles GET /api/views
func (h *ViewsHandler) ListViews(w http.ResponseWriter, r *http.Request) {
	render.JSON(w, r, h.service.ViewNames())
}

// GetView handles GET /api/views/{name}. Input views are rendered with
// their default input.
func (h *ViewsHandler) GetView(w http.ResponseWriter, r *http.Request) {
	h.render(w, r, chi.URLParam(r, "name"))
}

func (h *ViewsHandler) renderNamed(name string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		h.render(w, r, name)
	}
}

func (h *ViewsHandler) render(w http.ResponseWriter, r *http.Request, name string) {
	ctx := r.Context()

	var err error
	var page interface{}
	switch name {
	case views.NamePrediction:
		page, err = h.service.Predict(ctx, views.DefaultCustomerInput())
	case views.NameRecommendations:
		page, err = h.service.Recommend(ctx, views.DefaultLoanProfile())
	case views.NameFinance:
		page, err = h.service.Finance(ctx, views.DefaultFinanceInput())
	default:
		page, err = h.service.RenderView(ctx, name)
	}
	if err != nil {
		h.errorHandler.HandleError(w, r, serviceError(err))
		return
	}
	render.JSON(w, r, page)
}

// Predict handles POST /api/views/prediction
func (h *ViewsHandler) Predict(w http.ResponseWriter, r *http.Request) {
	in := views.DefaultCustomerInput()
	if err := h.validator.DecodeComplete(r, &in); err != nil {
		h.errorHandler.HandleError(w, r, err)
		return
	}
	page, err := h.service.Predict(r.Context(), in)
	if err != nil {
		h.errorHandler.HandleError(w, r, serviceError(err))
		return
	}
	render.JSON(w, r, page)
}

// Recommend handles POST /api/views/recommendations
func (h *ViewsHandler) Recommend(w http.ResponseWriter, r *http.Request) {
	lp := views.DefaultLoanProfile()
	if err := h.validator.DecodeComplete(r, &lp); err != nil {
		h.errorHandler.HandleError(w, r, err)
		return
	}
	page, err := h.service.Recommend(r.Context(), lp)
	if err != nil {
		h.errorHandler.HandleError(w, r, serviceError(err))
		return
	}
	render.JSON(w, r, page)
}

// Finance handles POST /api/views/finance
func (h *ViewsHandler) Finance(w http.ResponseWriter, r *http.Request) {
	in := views.DefaultFinanceInput()
	if err := h.validator.DecodeComplete(r, &in); err != nil {
		h.errorHandler.HandleError(w, r, err)
		return
	}
	page, err := h.service.Finance(r.Context(), in)
	if err != nil {
		h.errorHandler.HandleError(w, r, serviceError(err))
		return
	}
	render.JSON(w, r, page)
}

// serviceError maps service sentinels onto API errors; domain errors pass
// through for the error handler to classify.
func serviceError(err error) error {
	switch {
	case errors.Is(err, services.ErrNoDataset):
		return apierrors.ServiceUnavailable("No dataset is loaded")
	case errors.Is(err, services.ErrUnsupportedFormat):
		return apierrors.InvalidRequestWithError(err)
	}
	return err
}
