package http

import (
	"context"
	"io"

	"creditrisk/internal/display"
	"creditrisk/internal/services"
	"creditrisk/internal/views"
)

// CreditServiceInterface is the part of services.CreditService the handlers
// depend on.
type CreditServiceInterface interface {
	Dataset(ctx context.Context) (services.DatasetInfo, error)
	ViewNames() map[string][]string
	RenderView(ctx context.Context, name string) (*display.Page, error)
	Predict(ctx context.Context, in views.CustomerInput) (*display.Page, error)
	Recommend(ctx context.Context, lp views.LoanProfile) (*display.Page, error)
	Finance(ctx context.Context, in views.FinanceInput) (*display.Page, error)
	Models(ctx context.Context) (*services.ModelsResponse, error)
	ExportReport(ctx context.Context, w io.Writer, format string) error
	InvalidateModels(ctx context.Context) int
}

var _ CreditServiceInterface = (*services.CreditService)(nil)
