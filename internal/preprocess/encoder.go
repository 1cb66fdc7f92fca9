package preprocess

import (
	"fmt"
	"slices"
	"sort"

	"gonum.org/v1/gonum/mat"

	"creditrisk/internal/dataset"
)

// Options controls categorical expansion.
type Options struct {
	// DropFirst omits the reference (smallest) level of each categorical
	// column.
	DropFirst bool
}

// TrainingOptions is the encoding used to fit classifiers.
var TrainingOptions = Options{DropFirst: true}

// Encode expands rs into a FeatureMatrix. Numeric columns come first in
// header order, followed by indicator columns in categorical column order
// with levels sorted. The label column is carried through untouched.
func Encode(rs *dataset.RecordSet, opts Options) (*FeatureMatrix, error) {
	var numeric, categorical []string
	for _, c := range rs.Columns() {
		switch {
		case c == dataset.LabelColumn:
		case dataset.IsCategorical(c):
		default:
			numeric = append(numeric, c)
		}
	}
	for _, c := range dataset.CategoricalColumns {
		if rs.HasColumn(c) {
			categorical = append(categorical, c)
		}
	}

	columns := slices.Clone(numeric)
	type indicator struct {
		source string
		level  string
	}
	var indicators []indicator
	for _, c := range categorical {
		levels := distinctSorted(rs.Column(c))
		if opts.DropFirst && len(levels) > 0 {
			levels = levels[1:]
		}
		for _, lvl := range levels {
			columns = append(columns, IndicatorName(c, lvl))
			indicators = append(indicators, indicator{source: c, level: lvl})
		}
	}

	n := rs.Len()
	if n == 0 || len(columns) == 0 {
		return nil, fmt.Errorf("%w: %d rows, %d columns", ErrNoFeatures, n, len(columns))
	}

	data := mat.NewDense(n, len(columns), nil)
	for j, c := range numeric {
		values, err := rs.Float(c)
		if err != nil {
			return nil, fmt.Errorf("encode numeric column: %w", err)
		}
		for i, v := range values {
			data.Set(i, j, v)
		}
	}
	offset := len(numeric)
	for k, ind := range indicators {
		for i := 0; i < n; i++ {
			if rs.Value(i, ind.source) == ind.level {
				data.Set(i, offset+k, 1)
			}
		}
	}

	return &FeatureMatrix{columns: columns, data: data, labels: rs.Labels()}, nil
}

// IndicatorName returns the column name for level of a categorical column.
func IndicatorName(column, level string) string {
	return column + "_" + level
}

func distinctSorted(values []string) []string {
	seen := make(map[string]struct{}, len(values))
	var out []string
	for _, v := range values {
		if _, ok := seen[v]; ok {
			continue
		}
		seen[v] = struct{}{}
		out = append(out, v)
	}
	sort.Strings(out)
	return out
}

// EncodeRow encodes one unlabelled input row against the training columns.
// Every level present in the row gets an indicator, then the result is
// reconciled so that it matches columns exactly.
func EncodeRow(row dataset.Row, columns []string) (*FeatureMatrix, error) {
	header := make([]string, 0, len(row))
	for c := range row {
		if c != dataset.LabelColumn {
			header = append(header, c)
		}
	}
	// Numeric passthrough follows header order, so fix one.
	sort.Strings(header)

	rs, err := dataset.New(header, []dataset.Row{row})
	if err != nil {
		return nil, fmt.Errorf("encode input row: %w", err)
	}
	fm, err := Encode(rs, Options{DropFirst: false})
	if err != nil {
		return nil, fmt.Errorf("encode input row: %w", err)
	}
	return Reconcile(fm, columns)
}
