package views

import (
	"errors"
	"fmt"

	"golang.org/x/text/language"
	"golang.org/x/text/message"

	"creditrisk/internal/dataset"
	"creditrisk/internal/display"
)

var (
	// ErrUnknownView is returned for a view name that is not registered.
	ErrUnknownView = errors.New("unknown view")
	// ErrInvalidInput is returned for input a view cannot compute with.
	ErrInvalidInput = errors.New("invalid view input")
)

// View names.
const (
	NameHome            = "home"
	NamePrediction      = "prediction"
	NameSegmentation    = "segmentation"
	NameAnomaly         = "anomaly"
	NameFairness        = "fairness"
	NameRecommendations = "recommendations"
	NameDashboard       = "dashboard"
	NameFinance         = "finance"
)

// DatasetView renders a page from the record set alone.
type DatasetView func(rs *dataset.RecordSet) (*display.Page, error)

var datasetViews = map[string]DatasetView{
	NameHome:         func(*dataset.RecordSet) (*display.Page, error) { return Home(), nil },
	NameSegmentation: Segmentation,
	NameAnomaly:      Anomalies,
	NameFairness:     Fairness,
	NameDashboard:    Dashboard,
}

// DatasetViewNames lists the dataset views in navigation order.
func DatasetViewNames() []string {
	return []string{NameHome, NameSegmentation, NameAnomaly, NameFairness, NameDashboard}
}

// InputViewNames lists the views that take a request body.
func InputViewNames() []string {
	return []string{NamePrediction, NameRecommendations, NameFinance}
}

// RenderDataset renders the named dataset view.
func RenderDataset(name string, rs *dataset.RecordSet) (*display.Page, error) {
	view, ok := datasetViews[name]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnknownView, name)
	}
	return view(rs)
}

var printer = message.NewPrinter(language.English)

// money formats v as dollars with thousands separators and two decimals.
func money(v float64) string {
	if v < 0 {
		return "-$" + printer.Sprintf("%.2f", -v)
	}
	return "$" + printer.Sprintf("%.2f", v)
}

func count(n int) string {
	return printer.Sprintf("%d", n)
}
