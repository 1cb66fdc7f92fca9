package testutil

import (
	"math/rand"
	"strconv"
	"testing"

	"creditrisk/internal/dataset"
)

// Level pools mirror the categories of the public German credit table.
var creditLevels = map[string][]string{
	"checking_status":     {"<0", "0<=X<200", ">=200", "no checking"},
	"credit_history":      {"critical/other existing credit", "existing paid", "delayed previously", "no credits/all paid", "all paid"},
	"purpose":             {"radio/tv", "education", "furniture/equipment", "new car", "used car", "business", "other"},
	"savings_status":      {"<100", "100<=X<500", "500<=X<1000", ">=1000", "no known savings"},
	"employment":          {"unemployed", "<1", "1<=X<4", "4<=X<7", ">=7"},
	"personal_status":     {"male single", "female div/dep/mar", "male mar/wid", "male div/sep"},
	"other_parties":       {"none", "guarantor", "co applicant"},
	"property_magnitude":  {"real estate", "life insurance", "car", "no known property"},
	"other_payment_plans": {"none", "bank", "stores"},
	"housing":             {"own", "rent", "for free"},
	"job":                 {"unskilled resident", "skilled", "high qualif/self emp/mgmt", "unemp/unskilled non res"},
	"own_telephone":       {"none", "yes"},
	"foreign_worker":      {"yes", "no"},
}

// CreditHeader is the column order of the public credit customer file.
var CreditHeader = []string{
	"checking_status", "duration", "credit_history", "purpose", "credit_amount",
	"savings_status", "employment", "installment_commitment", "personal_status",
	"other_parties", "residence_since", "property_magnitude", "age",
	"other_payment_plans", "housing", "existing_credits", "job",
	"num_dependents", "own_telephone", "foreign_worker", "class",
}

// SyntheticOption adjusts generated rows.
type SyntheticOption func(*syntheticConfig)

type syntheticConfig struct {
	seed      int64
	constants map[string]string
}

// WithSeed changes the generator seed. The default is 1.
func WithSeed(seed int64) SyntheticOption {
	return func(c *syntheticConfig) { c.seed = seed }
}

// WithConstant pins column to value on every row.
func WithConstant(column, value string) SyntheticOption {
	return func(c *syntheticConfig) { c.constants[column] = value }
}

// SyntheticCredit generates n rows of which exactly good carry the "good"
// label. Bad rows lean towards short checking balances, long durations and
// large amounts so classifiers have signal to learn.
func SyntheticCredit(tb testing.TB, n, good int, opts ...SyntheticOption) *dataset.RecordSet {
	tb.Helper()

	cfg := &syntheticConfig{seed: 1, constants: map[string]string{}}
	for _, opt := range opts {
		opt(cfg)
	}
	rng := rand.New(rand.NewSource(cfg.seed))

	isGood := make([]bool, n)
	for i, j := range rng.Perm(n) {
		isGood[j] = i < good
	}

	rows := make([]dataset.Row, n)
	for i := range rows {
		row := dataset.Row{}
		for _, col := range dataset.CategoricalColumns {
			levels := creditLevels[col]
			idx := rng.Intn(len(levels))
			if !isGood[i] && col == "checking_status" && rng.Float64() < 0.5 {
				idx = 0
			}
			row[col] = levels[idx]
		}

		duration := 6 + rng.Intn(30)
		amount := 500 + rng.Intn(5000)
		if !isGood[i] {
			duration += rng.Intn(24)
			amount += rng.Intn(8000)
		}
		row["duration"] = strconv.Itoa(duration)
		row["credit_amount"] = strconv.Itoa(amount)
		row["installment_commitment"] = strconv.Itoa(1 + rng.Intn(4))
		row["residence_since"] = strconv.Itoa(1 + rng.Intn(4))
		row["age"] = strconv.Itoa(19 + rng.Intn(56))
		row["existing_credits"] = strconv.Itoa(1 + rng.Intn(3))
		row["num_dependents"] = strconv.Itoa(1 + rng.Intn(2))

		row[dataset.LabelColumn] = dataset.LabelBad
		if isGood[i] {
			row[dataset.LabelColumn] = dataset.LabelGood
		}
		for col, v := range cfg.constants {
			row[col] = v
		}
		rows[i] = row
	}

	rs, err := dataset.New(CreditHeader, rows)
	if err != nil {
		tb.Fatalf("build synthetic record set: %v", err)
	}
	return rs
}
