package dataset

import "slices"

// Label values and the label column name.
const (
	LabelColumn = "class"
	LabelGood   = "good"
	LabelBad    = "bad"
)

// CategoricalColumns lists the string-valued fields that are one-hot encoded,
// in encoding order.
var CategoricalColumns = []string{
	"checking_status",
	"credit_history",
	"purpose",
	"savings_status",
	"employment",
	"personal_status",
	"other_parties",
	"property_magnitude",
	"other_payment_plans",
	"housing",
	"job",
	"own_telephone",
	"foreign_worker",
}

// NumericColumns lists the numeric fields of the credit customer table.
var NumericColumns = []string{
	"duration",
	"credit_amount",
	"installment_commitment",
	"residence_since",
	"age",
	"existing_credits",
	"num_dependents",
}

// KeyNumericColumns must be present in every loaded dataset.
var KeyNumericColumns = []string{"age", "credit_amount", "duration"}

// IsCategorical reports whether column is one-hot encoded.
func IsCategorical(column string) bool {
	return slices.Contains(CategoricalColumns, column)
}

// RequiredColumns returns the columns a dataset file must provide.
func RequiredColumns() []string {
	cols := make([]string, 0, len(CategoricalColumns)+len(KeyNumericColumns)+1)
	cols = append(cols, KeyNumericColumns...)
	cols = append(cols, CategoricalColumns...)
	return append(cols, LabelColumn)
}
