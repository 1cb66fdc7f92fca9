package views

import (
	"fmt"
	"strconv"

	"creditrisk/internal/dataset"
	"creditrisk/internal/display"
	"creditrisk/internal/evaluation"
)

// CustomerInput is the applicant profile scored by every trained model.
type CustomerInput struct {
	Age            int     `json:"age" validate:"min=18,max=100"`
	CreditAmount   float64 `json:"credit_amount" validate:"min=0"`
	Duration       int     `json:"duration" validate:"min=0"`
	CheckingStatus string  `json:"checking_status" validate:"required,oneof='<0' '0<=X<200' '>=200' 'no checking'"`
	CreditHistory  string  `json:"credit_history" validate:"required,oneof='critical/other existing credit' 'existing paid' 'delayed previously' 'no credits/all paid' 'all paid'"`
	Purpose        string  `json:"purpose" validate:"required,oneof='radio/tv' 'education' 'furniture/equipment' 'new car' 'used car' 'business' 'other'"`
	SavingsStatus  string  `json:"savings_status" validate:"required,oneof='<100' '100<=X<500' '500<=X<1000' '>=1000' 'no known savings'"`
	Employment     string  `json:"employment" validate:"required,oneof='unemployed' '<1' '1<=X<4' '4<=X<7' '>=7'"`
	PersonalStatus string  `json:"personal_status" validate:"required,oneof='male single' 'female div/dep/mar' 'male mar/wid' 'female single'"`
	Housing        string  `json:"housing" validate:"required,oneof='own' 'rent' 'for free'"`
	Job            string  `json:"job" validate:"required,oneof='unskilled resident' 'skilled' 'high qualif/self emp/mgmt' 'unemp/unskilled non res'"`
}

// DefaultCustomerInput mirrors the form defaults.
func DefaultCustomerInput() CustomerInput {
	return CustomerInput{
		Age:            30,
		CreditAmount:   1000,
		Duration:       12,
		CheckingStatus: "<0",
		CreditHistory:  "critical/other existing credit",
		Purpose:        "radio/tv",
		SavingsStatus:  "<100",
		Employment:     "unemployed",
		PersonalStatus: "male single",
		Housing:        "own",
		Job:            "unskilled resident",
	}
}

// Row converts the input to a dataset row for encoding.
func (in CustomerInput) Row() dataset.Row {
	return dataset.Row{
		"age":             strconv.Itoa(in.Age),
		"credit_amount":   strconv.FormatFloat(in.CreditAmount, 'f', -1, 64),
		"duration":        strconv.Itoa(in.Duration),
		"checking_status": in.CheckingStatus,
		"credit_history":  in.CreditHistory,
		"purpose":         in.Purpose,
		"savings_status":  in.SavingsStatus,
		"employment":      in.Employment,
		"personal_status": in.PersonalStatus,
		"housing":         in.Housing,
		"job":             in.Job,
	}
}

// RiskLabel maps a class label to the wording shown to users.
func RiskLabel(label string) string {
	if label == dataset.LabelGood {
		return "Low Risk"
	}
	return "High Risk"
}

// Prediction scores in with every model of bundle and compares the models.
func Prediction(bundle *evaluation.Bundle, in CustomerInput) (*display.Page, error) {
	preds, err := bundle.Predict(in.Row())
	if err != nil {
		return nil, fmt.Errorf("predict: %w", err)
	}

	p := display.NewPage(NamePrediction, "Credit Risk Prediction").
		Text("Enter customer details to check their credit risk.").
		Heading(2, "Predictions from each model")

	items := make([]string, len(preds))
	for i, pr := range preds {
		item := fmt.Sprintf("%s: %s", pr.Model, RiskLabel(pr.Label))
		if pr.Probability.Defined {
			item += fmt.Sprintf(" (P(good) = %s)", pr.Probability.Format())
		}
		items[i] = item
	}
	p.List(items...)

	p.Heading(2, "Model Performance Comparison")
	p.Table(MetricsTable(bundle))
	for _, res := range bundle.Results {
		if res.MetricsErr != nil {
			p.Notice(display.SeverityWarning, res.MetricsErr.Error())
		}
	}

	p.Heading(2, "Confusion Matrices")
	for _, res := range bundle.Results {
		p.Heatmap(ConfusionHeatmap(res.Variant.Name, res.Report.Confusion))
	}
	return p, nil
}

// MetricsTable lists the held-out metrics of every model.
func MetricsTable(bundle *evaluation.Bundle) display.Table {
	t := display.Table{
		Title:   fmt.Sprintf("Held-out metrics (%d rows)", len(bundle.Split.Test)),
		Columns: []string{"Model", "Accuracy", "Precision", "Recall", "F1 Score", "ROC AUC", "Probability"},
	}
	for _, res := range bundle.Results {
		r := res.Report
		t.Rows = append(t.Rows, []string{
			res.Variant.Name,
			r.Accuracy.Format(),
			r.Precision.Format(),
			r.Recall.Format(),
			r.F1.Format(),
			r.ROCAUC.Format(),
			string(res.Variant.Probability),
		})
	}
	return t
}

// ConfusionHeatmap renders a confusion matrix with actual rows and
// predicted columns.
func ConfusionHeatmap(title string, cm evaluation.ConfusionMatrix) display.Heatmap {
	axis := []string{RiskLabel(cm.Labels[0]), RiskLabel(cm.Labels[1])}
	h := display.Heatmap{Title: title, XLabel: "Predicted", YLabel: "Actual", X: axis, Y: axis}
	for _, row := range cm.Counts {
		cells := make([]*float64, len(row))
		for j, v := range row {
			cells[j] = display.Cell(float64(v))
		}
		h.Values = append(h.Values, cells)
	}
	return h
}
