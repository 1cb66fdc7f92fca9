package http

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"creditrisk/internal/display"
	apierrors "creditrisk/internal/errors"
	"creditrisk/internal/evaluation"
	"creditrisk/internal/middleware"
	"creditrisk/internal/services"
	"creditrisk/internal/shared/testutil"
	"creditrisk/internal/views"
)

type fakeCreditService struct {
	lastCustomer *views.CustomerInput
	lastProfile  *views.LoanProfile
	lastFinance  *views.FinanceInput
	modelsErr    error
	exportErr    error
	invalidated  int
}

func (f *fakeCreditService) Dataset(context.Context) (services.DatasetInfo, error) {
	return services.DatasetInfo{Key: "k", Rows: 10, Good: 7, Bad: 3}, nil
}

func (f *fakeCreditService) ViewNames() map[string][]string {
	return map[string][]string{"dataset": views.DatasetViewNames(), "input": views.InputViewNames()}
}

func (f *fakeCreditService) RenderView(_ context.Context, name string) (*display.Page, error) {
	if name != views.NameHome {
		return nil, fmt.Errorf("render %s: %w", name, views.ErrUnknownView)
	}
	return display.NewPage(name, "Home"), nil
}

func (f *fakeCreditService) Predict(_ context.Context, in views.CustomerInput) (*display.Page, error) {
	f.lastCustomer = &in
	return display.NewPage(views.NamePrediction, "Prediction"), nil
}

func (f *fakeCreditService) Recommend(_ context.Context, lp views.LoanProfile) (*display.Page, error) {
	f.lastProfile = &lp
	return display.NewPage(views.NameRecommendations, "Recommendations"), nil
}

func (f *fakeCreditService) Finance(_ context.Context, in views.FinanceInput) (*display.Page, error) {
	f.lastFinance = &in
	return display.NewPage(views.NameFinance, "Finance"), nil
}

func (f *fakeCreditService) Models(context.Context) (*services.ModelsResponse, error) {
	if f.modelsErr != nil {
		return nil, f.modelsErr
	}
	return &services.ModelsResponse{Key: "k", Rows: 10, HeldOut: 2, Reports: []evaluation.Report{{Model: "Decision Tree"}}}, nil
}

func (f *fakeCreditService) ExportReport(_ context.Context, w io.Writer, format string) error {
	if f.exportErr != nil {
		return f.exportErr
	}
	_, err := fmt.Fprintf(w, "report:%s", format)
	return err
}

func (f *fakeCreditService) InvalidateModels(context.Context) int {
	f.invalidated++
	return 1
}

func newTestRouter(t *testing.T, svc CreditServiceInterface) chi.Router {
	t.Helper()
	logger, _ := testutil.NewTestLogger(t)
	errorHandler := apierrors.NewErrorHandler(logger, false)
	validator := middleware.NewValidationMiddleware(logger, errorHandler)

	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Mount("/api/views", NewViewsHandler(svc, validator, logger, errorHandler).Routes())
	models := NewModelsHandler(svc, logger, errorHandler)
	r.Mount("/api/models", models.Routes())
	r.Get("/api/dataset", models.GetDataset)
	r.Post("/api/logs", NewClientLogHandler(logger, validator, errorHandler).Handle)
	return r
}

func do(t *testing.T, h http.Handler, method, target, body string) *httptest.ResponseRecorder {
	t.Helper()
	var rdr io.Reader
	if body != "" {
		rdr = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, target, rdr)
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

func decode(t *testing.T, rec *httptest.ResponseRecorder) map[string]interface{} {
	t.Helper()
	var out map[string]interface{}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &out))
	return out
}

func TestViewsHandler_Routes(t *testing.T) {
	svc := &fakeCreditService{}
	router := newTestRouter(t, svc)

	tests := []struct {
		name       string
		method     string
		target     string
		body       string
		wantStatus int
		wantType   string
		wantPage   string
	}{
		{name: "list", method: http.MethodGet, target: "/api/views", wantStatus: http.StatusOK},
		{name: "dataset view", method: http.MethodGet, target: "/api/views/home", wantStatus: http.StatusOK, wantPage: views.NameHome},
		{name: "unknown view", method: http.MethodGet, target: "/api/views/nope", wantStatus: http.StatusNotFound, wantType: apierrors.TypeUnknownView},
		{name: "input view defaults", method: http.MethodGet, target: "/api/views/finance", wantStatus: http.StatusOK, wantPage: views.NameFinance},
		{name: "predict defaults on empty body", method: http.MethodPost, target: "/api/views/prediction", wantStatus: http.StatusOK, wantPage: views.NamePrediction},
		{
			name: "predict invalid age", method: http.MethodPost, target: "/api/views/prediction",
			body: `{"age": 12}`, wantStatus: http.StatusBadRequest, wantType: apierrors.TypeValidation,
		},
		{
			name: "recommend", method: http.MethodPost, target: "/api/views/recommendations",
			body:       `{"income": 4000, "expenses": 2000, "savings": 5000, "credit_score": 720, "purpose": "Car Purchase"}`,
			wantStatus: http.StatusOK, wantPage: views.NameRecommendations,
		},
		{
			name: "recommend bad purpose", method: http.MethodPost, target: "/api/views/recommendations",
			body: `{"purpose": "Yacht"}`, wantStatus: http.StatusBadRequest, wantType: apierrors.TypeValidation,
		},
		{
			name: "finance malformed", method: http.MethodPost, target: "/api/views/finance",
			body: `{"income":`, wantStatus: http.StatusBadRequest, wantType: apierrors.TypeBadRequest,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := do(t, router, tt.method, tt.target, tt.body)
			require.Equal(t, tt.wantStatus, rec.Code, rec.Body.String())

			body := decode(t, rec)
			if tt.wantType != "" {
				assert.Equal(t, "application/problem+json", rec.Header().Get("Content-Type"))
				assert.Equal(t, tt.wantType, body["type"])
			}
			if tt.wantPage != "" {
				assert.Equal(t, tt.wantPage, body["name"])
			}
		})
	}
}

func TestViewsHandler_BodyMustBeComplete(t *testing.T) {
	svc := &fakeCreditService{}
	router := newTestRouter(t, svc)

	rec := do(t, router, http.MethodPost, "/api/views/recommendations", `{"income": 4000, "credit_score": 720}`)
	require.Equal(t, http.StatusBadRequest, rec.Code, rec.Body.String())
	assert.Nil(t, svc.lastProfile)

	body := decode(t, rec)
	assert.Equal(t, apierrors.TypeValidation, body["type"])
	details, ok := body["details"].([]interface{})
	require.True(t, ok)
	var missing []string
	for _, d := range details {
		missing = append(missing, d.(map[string]interface{})["field"].(string))
	}
	assert.ElementsMatch(t, []string{"expenses", "savings", "purpose"}, missing)

	rec = do(t, router, http.MethodPost, "/api/views/recommendations",
		`{"income": 4000, "expenses": 1000, "savings": 0, "credit_score": 720, "purpose": "Car Purchase"}`)
	require.Equal(t, http.StatusOK, rec.Code)
	require.NotNil(t, svc.lastProfile)
	assert.Equal(t, 4000.0, svc.lastProfile.Income)
	assert.Equal(t, 0.0, svc.lastProfile.Savings)
	assert.Equal(t, views.PurposeCar, svc.lastProfile.Purpose)
}

func TestModelsHandler(t *testing.T) {
	svc := &fakeCreditService{}
	router := newTestRouter(t, svc)

	rec := do(t, router, http.MethodGet, "/api/models", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "k", decode(t, rec)["key"])

	rec = do(t, router, http.MethodGet, "/api/models/report.xlsx", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Header().Get("Content-Disposition"), ".xlsx")
	assert.Equal(t, "report:xlsx", rec.Body.String())

	rec = do(t, router, http.MethodGet, "/api/models/report.csv", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "report:csv", rec.Body.String())

	rec = do(t, router, http.MethodDelete, "/api/models/cache", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, 1, svc.invalidated)

	rec = do(t, router, http.MethodGet, "/api/dataset", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.EqualValues(t, 10, decode(t, rec)["rows"])
}

func TestModelsHandler_Errors(t *testing.T) {
	tests := []struct {
		name       string
		svc        *fakeCreditService
		target     string
		wantStatus int
		wantType   string
	}{
		{
			name:       "insufficient data",
			svc:        &fakeCreditService{modelsErr: &evaluation.InsufficientDataError{Model: "Decision Tree", Metrics: []string{"precision"}}},
			target:     "/api/models",
			wantStatus: http.StatusUnprocessableEntity,
			wantType:   apierrors.TypeInsufficientData,
		},
		{
			name:       "no dataset",
			svc:        &fakeCreditService{modelsErr: services.ErrNoDataset},
			target:     "/api/models",
			wantStatus: http.StatusServiceUnavailable,
			wantType:   apierrors.TypeServiceDown,
		},
		{
			name:       "export failure",
			svc:        &fakeCreditService{exportErr: fmt.Errorf("export xlsx report: %w", io.ErrShortWrite)},
			target:     "/api/models/report.xlsx",
			wantStatus: http.StatusInternalServerError,
			wantType:   apierrors.TypeInternal,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := do(t, newTestRouter(t, tt.svc), http.MethodGet, tt.target, "")
			require.Equal(t, tt.wantStatus, rec.Code)
			assert.Equal(t, tt.wantType, decode(t, rec)["type"])
		})
	}
}

func TestClientLogHandler(t *testing.T) {
	router := newTestRouter(t, &fakeCreditService{})

	rec := do(t, router, http.MethodPost, "/api/logs", `{"level":"warn","message":"chart failed","view":"dashboard"}`)
	assert.Equal(t, http.StatusAccepted, rec.Code)

	rec = do(t, router, http.MethodPost, "/api/logs", `{"level":"loud","message":"x"}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = do(t, router, http.MethodPost, "/api/logs", `{"level":"info"}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}
