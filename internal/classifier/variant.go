package classifier

import (
	"errors"
	"fmt"
	"sort"

	"gonum.org/v1/gonum/mat"

	"creditrisk/internal/dataset"
)

// Kind names a classifier family.
type Kind string

const (
	KindRandomForest     Kind = "random_forest"
	KindLogistic         Kind = "logistic_regression"
	KindGradientBoosting Kind = "gradient_boosting"
	KindKNN              Kind = "knn"
	KindSVM              Kind = "svm"
	KindDecisionTree     Kind = "decision_tree"
)

// ProbabilitySource says where the positive-class probability comes from.
type ProbabilitySource string

const (
	// ProbabilityNative uses the model's own P(good).
	ProbabilityNative ProbabilitySource = "native"
	// ProbabilityLabel maps the predicted label to 1 (good) or 0 (bad).
	// This collapses the ROC curve to a single operating point.
	ProbabilityLabel ProbabilitySource = "label"
)

// ErrInvalidVariant marks a variant that cannot be built.
var ErrInvalidVariant = errors.New("invalid classifier variant")

// Params are numeric hyperparameters keyed by name.
type Params map[string]float64

// Get returns the named parameter or dflt.
func (p Params) Get(name string, dflt float64) float64 {
	if v, ok := p[name]; ok {
		return v
	}
	return dflt
}

// Variant declares one classifier to train.
type Variant struct {
	Name        string            `json:"name" yaml:"name"`
	Kind        Kind              `json:"kind" yaml:"kind"`
	Params      Params            `json:"params,omitempty" yaml:"params"`
	Probability ProbabilitySource `json:"probability" yaml:"probability"`
}

type factory func(p Params, seed int64) Classifier

var factories = map[Kind]factory{
	KindRandomForest: func(p Params, seed int64) Classifier {
		m := NewRandomForest(int(p.Get("trees", 100)))
		m.MaxFeatures = int(p.Get("max_features", 0))
		m.Seed = seed
		return m
	},
	KindLogistic: func(p Params, _ int64) Classifier {
		m := NewLogisticRegression()
		m.C = p.Get("c", m.C)
		m.MaxIter = int(p.Get("max_iter", float64(m.MaxIter)))
		return m
	},
	KindGradientBoosting: func(p Params, _ int64) Classifier {
		m := NewGradientBoosting()
		m.NEstimators = int(p.Get("n_estimators", float64(m.NEstimators)))
		m.LearningRate = p.Get("learning_rate", m.LearningRate)
		m.MaxDepth = int(p.Get("max_depth", float64(m.MaxDepth)))
		return m
	},
	KindKNN: func(p Params, _ int64) Classifier {
		return NewKNN(int(p.Get("k", 5)))
	},
	KindSVM: func(p Params, seed int64) Classifier {
		m := NewLinearSVM()
		m.C = p.Get("c", m.C)
		m.Epochs = int(p.Get("epochs", float64(m.Epochs)))
		m.Seed = seed
		return m
	},
	KindDecisionTree: func(p Params, _ int64) Classifier {
		m := NewDecisionTree()
		m.MaxDepth = int(p.Get("max_depth", 0))
		return m
	},
}

// Kinds returns every registered kind, sorted.
func Kinds() []Kind {
	out := make([]Kind, 0, len(factories))
	for k := range factories {
		out = append(out, k)
	}
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out
}

// DefaultVariants returns the six variants of the credit risk comparison,
// in display order.
func DefaultVariants() []Variant {
	return []Variant{
		{Name: "Random Forest", Kind: KindRandomForest, Params: Params{"trees": 100}, Probability: ProbabilityNative},
		{Name: "Logistic Regression", Kind: KindLogistic, Params: Params{"c": 1, "max_iter": 1000}, Probability: ProbabilityNative},
		{Name: "Gradient Boosting", Kind: KindGradientBoosting, Params: Params{"n_estimators": 100, "learning_rate": 0.1, "max_depth": 3}, Probability: ProbabilityNative},
		{Name: "K-Nearest Neighbors", Kind: KindKNN, Params: Params{"k": 5}, Probability: ProbabilityNative},
		{Name: "Support Vector Machine", Kind: KindSVM, Params: Params{"c": 1, "epochs": 50}, Probability: ProbabilityNative},
		{Name: "Decision Tree", Kind: KindDecisionTree, Probability: ProbabilityNative},
	}
}

// Model is a configured classifier together with its variant.
type Model struct {
	Variant Variant

	clf    Classifier
	scorer Scorer
}

// Build constructs the classifier for v. A native-probability variant whose
// classifier has no probability output is rejected here.
func Build(v Variant, seed int64) (*Model, error) {
	if v.Name == "" {
		return nil, fmt.Errorf("%w: empty name", ErrInvalidVariant)
	}
	f, ok := factories[v.Kind]
	if !ok {
		return nil, fmt.Errorf("%w: %s: unknown kind %q", ErrInvalidVariant, v.Name, v.Kind)
	}
	clf := f(v.Params, seed)

	m := &Model{Variant: v, clf: clf}
	switch v.Probability {
	case ProbabilityNative:
		p, ok := clf.(Scorer)
		if !ok {
			return nil, fmt.Errorf("%w: %s: kind %q has no native probability", ErrInvalidVariant, v.Name, v.Kind)
		}
		m.scorer = p
	case ProbabilityLabel:
	default:
		return nil, fmt.Errorf("%w: %s: unknown probability source %q", ErrInvalidVariant, v.Name, v.Probability)
	}
	return m, nil
}

// Fit trains the underlying classifier.
func (m *Model) Fit(x mat.Matrix, y []string) error {
	if err := m.clf.Fit(x, y); err != nil {
		return fmt.Errorf("fit %s: %w", m.Variant.Name, err)
	}
	return nil
}

// Predict returns predicted labels.
func (m *Model) Predict(x mat.Matrix) ([]string, error) {
	labels, err := m.clf.Predict(x)
	if err != nil {
		return nil, fmt.Errorf("predict %s: %w", m.Variant.Name, err)
	}
	return labels, nil
}

// PositiveProba returns P(good) per row according to the variant's
// probability source. predicted must be the labels Predict returned for x.
func (m *Model) PositiveProba(x mat.Matrix, predicted []string) ([]float64, error) {
	if m.scorer != nil {
		p, err := m.scorer.PredictProba(x)
		if err != nil {
			return nil, fmt.Errorf("predict probability %s: %w", m.Variant.Name, err)
		}
		return p, nil
	}
	out := make([]float64, len(predicted))
	for i, label := range predicted {
		if label == dataset.LabelGood {
			out[i] = 1
		}
	}
	return out, nil
}
