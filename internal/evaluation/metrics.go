package evaluation

import (
	"fmt"
	"strings"

	"gonum.org/v1/gonum/integrate"
	"gonum.org/v1/gonum/stat"

	"creditrisk/internal/dataset"
)

// UndefinedText is shown in place of a metric that could not be computed.
const UndefinedText = "insufficient data for this metric"

// Metric is a scalar score that may be undefined.
type Metric struct {
	Value   float64 `json:"value"`
	Defined bool    `json:"defined"`
	Reason  string  `json:"reason,omitempty"`
}

func defined(v float64) Metric { return Metric{Value: v, Defined: true} }

func undefined(reason string) Metric { return Metric{Reason: reason} }

// Format renders the value with two decimals, or UndefinedText.
func (m Metric) Format() string {
	if !m.Defined {
		return UndefinedText
	}
	return fmt.Sprintf("%.2f", m.Value)
}

// ClassLabels is the row and column order of every confusion matrix.
var ClassLabels = [2]string{dataset.LabelBad, dataset.LabelGood}

// ConfusionMatrix counts held-out rows; Counts[actual][predicted] with
// indexes following ClassLabels.
type ConfusionMatrix struct {
	Labels [2]string `json:"labels"`
	Counts [2][2]int `json:"counts"`
}

// Total returns the number of counted rows.
func (c ConfusionMatrix) Total() int {
	return c.Counts[0][0] + c.Counts[0][1] + c.Counts[1][0] + c.Counts[1][1]
}

// ClassScore holds one-vs-rest precision, recall and F1 for a label.
type ClassScore struct {
	Label     string `json:"label"`
	Precision Metric `json:"precision"`
	Recall    Metric `json:"recall"`
	F1        Metric `json:"f1"`
	Support   int    `json:"support"`
}

// Report is the fixed-shape score of one model on the held-out split. The
// scalar metrics treat good as the positive class.
type Report struct {
	Model     string          `json:"model"`
	Accuracy  Metric          `json:"accuracy"`
	Precision Metric          `json:"precision"`
	Recall    Metric          `json:"recall"`
	F1        Metric          `json:"f1"`
	ROCAUC    Metric          `json:"roc_auc"`
	Confusion ConfusionMatrix `json:"confusion_matrix"`
	Classes   []ClassScore    `json:"classes"`
	Support   int             `json:"support"`
}

// InsufficientDataError lists metrics the held-out labels cannot support.
type InsufficientDataError struct {
	Model   string
	Metrics []string
	Reasons []string
}

func (e *InsufficientDataError) Error() string {
	var b strings.Builder
	if e.Model != "" {
		b.WriteString(e.Model)
		b.WriteString(": ")
	}
	b.WriteString("insufficient data for ")
	b.WriteString(strings.Join(e.Metrics, ", "))
	if len(e.Reasons) > 0 {
		b.WriteString(" (")
		b.WriteString(strings.Join(e.Reasons, "; "))
		b.WriteString(")")
	}
	return b.String()
}

func (e *InsufficientDataError) add(metric string, m Metric) {
	if m.Defined {
		return
	}
	e.Metrics = append(e.Metrics, metric)
	for _, r := range e.Reasons {
		if r == m.Reason {
			return
		}
	}
	e.Reasons = append(e.Reasons, m.Reason)
}

// Score computes a Report from held-out labels, predicted labels and the
// positive-class probability per row. The returned error is an
// *InsufficientDataError when any metric is undefined; the report is
// returned either way.
func Score(model string, actual, predicted []string, proba []float64) (Report, error) {
	if len(actual) != len(predicted) || len(actual) != len(proba) {
		return Report{}, fmt.Errorf("score %s: %d labels, %d predictions, %d probabilities",
			model, len(actual), len(predicted), len(proba))
	}

	cm := ConfusionMatrix{Labels: ClassLabels}
	for i := range actual {
		a, err := classIndex(actual[i])
		if err != nil {
			return Report{}, fmt.Errorf("score %s: actual: %w", model, err)
		}
		p, err := classIndex(predicted[i])
		if err != nil {
			return Report{}, fmt.Errorf("score %s: predicted: %w", model, err)
		}
		cm.Counts[a][p]++
	}

	r := Report{Model: model, Confusion: cm, Support: len(actual)}
	if len(actual) == 0 {
		r.Accuracy = undefined("held-out split is empty")
	} else {
		r.Accuracy = defined(float64(cm.Counts[0][0]+cm.Counts[1][1]) / float64(len(actual)))
	}

	for k, label := range ClassLabels {
		r.Classes = append(r.Classes, classScore(cm, k, label))
	}
	good := r.Classes[1]
	r.Precision, r.Recall, r.F1 = good.Precision, good.Recall, good.F1
	r.ROCAUC = rocAUC(actual, proba)

	insufficient := &InsufficientDataError{Model: model}
	insufficient.add("accuracy", r.Accuracy)
	insufficient.add("precision", r.Precision)
	insufficient.add("recall", r.Recall)
	insufficient.add("f1", r.F1)
	insufficient.add("roc_auc", r.ROCAUC)
	bad := r.Classes[0]
	insufficient.add("precision["+bad.Label+"]", bad.Precision)
	insufficient.add("recall["+bad.Label+"]", bad.Recall)
	insufficient.add("f1["+bad.Label+"]", bad.F1)
	if len(insufficient.Metrics) > 0 {
		return r, insufficient
	}
	return r, nil
}

func classIndex(label string) (int, error) {
	for k, l := range ClassLabels {
		if l == label {
			return k, nil
		}
	}
	return 0, fmt.Errorf("unknown label %q", label)
}

func classScore(cm ConfusionMatrix, k int, label string) ClassScore {
	other := 1 - k
	tp := cm.Counts[k][k]
	fp := cm.Counts[other][k]
	fn := cm.Counts[k][other]

	s := ClassScore{Label: label, Support: tp + fn}
	if tp+fp == 0 {
		s.Precision = undefined(fmt.Sprintf("no held-out rows predicted %q", label))
	} else {
		s.Precision = defined(float64(tp) / float64(tp+fp))
	}
	if tp+fn == 0 {
		s.Recall = undefined(fmt.Sprintf("held-out split has no %q labels", label))
	} else {
		s.Recall = defined(float64(tp) / float64(tp+fn))
	}
	switch {
	case !s.Precision.Defined:
		s.F1 = undefined(s.Precision.Reason)
	case !s.Recall.Defined:
		s.F1 = undefined(s.Recall.Reason)
	case s.Precision.Value+s.Recall.Value == 0:
		s.F1 = defined(0)
	default:
		p, rc := s.Precision.Value, s.Recall.Value
		s.F1 = defined(2 * p * rc / (p + rc))
	}
	return s
}

// rocAUC integrates the ROC curve of proba against the good label.
func rocAUC(actual []string, proba []float64) Metric {
	scores := append([]float64(nil), proba...)
	classes := make([]bool, len(actual))
	var pos, neg int
	for i, a := range actual {
		classes[i] = a == dataset.LabelGood
		if classes[i] {
			pos++
		} else {
			neg++
		}
	}
	if pos == 0 || neg == 0 {
		return undefined("held-out split contains a single class")
	}

	stat.SortWeightedLabeled(scores, classes, nil)
	tpr, fpr, _ := stat.ROC(nil, scores, classes, nil)
	return defined(integrate.Trapezoidal(fpr, tpr))
}
