package views

import (
	"fmt"

	"creditrisk/internal/analysis"
	"creditrisk/internal/dataset"
	"creditrisk/internal/display"
)

// FairnessAttributes are the protected attributes compared by Fairness.
var FairnessAttributes = []string{"personal_status", "employment"}

// Disparity is the spread of good-outcome rates across the groups of one
// attribute.
type Disparity struct {
	Attribute string
	Groups    []analysis.GroupMean
	Gap       float64
}

// Disparities computes the good-rate per group for each attribute.
func Disparities(rs *dataset.RecordSet, attributes ...string) ([]Disparity, error) {
	scores := creditScores(rs)
	out := make([]Disparity, 0, len(attributes))
	for _, attr := range attributes {
		if !rs.HasColumn(attr) {
			return nil, fmt.Errorf("fairness: missing column %q", attr)
		}
		groups := analysis.GroupMeans(rs.Column(attr), scores)
		d := Disparity{Attribute: attr, Groups: groups}
		if len(groups) > 0 {
			lo, hi := groups[0].Mean, groups[0].Mean
			for _, g := range groups[1:] {
				lo = min(lo, g.Mean)
				hi = max(hi, g.Mean)
			}
			d.Gap = hi - lo
		}
		out = append(out, d)
	}
	return out, nil
}

// creditScores maps good to 1 and bad to 0.
func creditScores(rs *dataset.RecordSet) []float64 {
	labels := rs.Labels()
	scores := make([]float64, len(labels))
	for i, l := range labels {
		if l == dataset.LabelGood {
			scores[i] = 1
		}
	}
	return scores
}

// Fairness compares loan outcomes across demographic groups.
func Fairness(rs *dataset.RecordSet) (*display.Page, error) {
	disparities, err := Disparities(rs, FairnessAttributes...)
	if err != nil {
		return nil, err
	}
	ages, err := rs.Float("age")
	if err != nil {
		return nil, fmt.Errorf("fairness: %w", err)
	}

	p := display.NewPage(NameFairness, "Fairness Analysis").
		Text("Check if the credit risk model is biased against certain groups (e.g., gender, age).")

	titles := map[string]string{
		"personal_status": "Loan Approval Rates by Gender and Marital Status",
		"employment":      "Loan Approval Rates by Employment Duration",
	}
	for _, d := range disparities {
		labels := make([]string, len(d.Groups))
		rates := make([]float64, len(d.Groups))
		for i, g := range d.Groups {
			labels[i] = g.Group
			rates[i] = g.Mean
		}
		title := titles[d.Attribute]
		if title == "" {
			title = "Loan Approval Rates by " + d.Attribute
		}
		p.Heading(2, title).
			Chart(display.Chart{
				Type:   display.ChartBar,
				Title:  title,
				XLabel: d.Attribute,
				YLabel: "Approval rate",
				Labels: labels,
				Series: []display.Series{{Name: "approval rate", Values: rates}},
			}).
			Metric("Approval rate gap ("+d.Attribute+")", fmt.Sprintf("%.2f", d.Gap))
	}

	scores := creditScores(rs)
	points := make([]display.Point, len(scores))
	for i := range scores {
		points[i] = display.Point{X: ages[i], Y: scores[i]}
	}
	p.Heading(2, "Loan Approval Rates by Age").
		Chart(display.Chart{
			Type:   display.ChartScatter,
			Title:  "Loan Approval by Age",
			XLabel: "Age",
			YLabel: "Credit score (1 = good)",
			Points: points,
		})

	return p.Heading(2, "Insights").List(
		"Loan approval rates differ by gender and marital status. Investigate whether these differences are justified by creditworthiness.",
		"Employment duration correlates with approval: longer employment tends to mean higher approval rates.",
		"Younger applicants may have lower approval rates because of shorter credit histories.",
	).Heading(2, "Recommendations").List(
		"Review the model for bias using fairness metrics such as disparate impact and equal opportunity.",
		"Apply techniques such as reweighting or adversarial debiasing to reduce bias.",
		"Give applicants clear explanations of loan decisions to build trust and transparency.",
	), nil
}
