package evaluation

import (
	"errors"
	"fmt"
	"time"

	"creditrisk/internal/classifier"
	"creditrisk/internal/dataset"
	"creditrisk/internal/preprocess"
)

// Result is one trained variant and its held-out score.
type Result struct {
	Variant     classifier.Variant `json:"variant"`
	Model       *classifier.Model  `json:"-"`
	Report      Report             `json:"report"`
	MetricsErr  error              `json:"-"`
	FitDuration time.Duration      `json:"fit_duration"`
}

// Bundle is the immutable outcome of one pipeline run. Every model was
// trained on Columns, in that order.
type Bundle struct {
	Key       string    `json:"key"`
	Columns   []string  `json:"columns"`
	Split     Split     `json:"-"`
	Results   []Result  `json:"results"`
	Rows      int       `json:"rows"`
	TrainedAt time.Time `json:"trained_at"`
}

// Reports returns the reports in variant order.
func (b *Bundle) Reports() []Report {
	out := make([]Report, len(b.Results))
	for i, r := range b.Results {
		out[i] = r.Report
	}
	return out
}

// Result returns the result of the named variant.
func (b *Bundle) Result(name string) (Result, bool) {
	for _, r := range b.Results {
		if r.Variant.Name == name {
			return r, true
		}
	}
	return Result{}, false
}

// MetricsErr joins the undefined-metric errors of every result.
func (b *Bundle) MetricsErr() error {
	var errs []error
	for _, r := range b.Results {
		if r.MetricsErr != nil {
			errs = append(errs, r.MetricsErr)
		}
	}
	return errors.Join(errs...)
}

// Prediction is one model's verdict on a single input row.
type Prediction struct {
	Model       string `json:"model"`
	Label       string `json:"label"`
	Probability Metric `json:"probability"`
}

// Predict reconciles row against the training columns and asks every model
// for its label. Probability is defined only for native-probability models.
func (b *Bundle) Predict(row dataset.Row) ([]Prediction, error) {
	fm, err := preprocess.EncodeRow(row, b.Columns)
	if err != nil {
		return nil, err
	}
	if err := preprocess.CheckColumns(fm, b.Columns); err != nil {
		return nil, err
	}

	out := make([]Prediction, 0, len(b.Results))
	for _, r := range b.Results {
		labels, err := r.Model.Predict(fm.Data())
		if err != nil {
			return nil, err
		}
		pred := Prediction{Model: r.Variant.Name, Label: labels[0]}
		if r.Variant.Probability == classifier.ProbabilityNative {
			proba, err := r.Model.PositiveProba(fm.Data(), labels)
			if err != nil {
				return nil, err
			}
			pred.Probability = defined(proba[0])
		} else {
			pred.Probability = undefined(fmt.Sprintf("%s has no native probability output", r.Variant.Name))
		}
		out = append(out, pred)
	}
	return out, nil
}
