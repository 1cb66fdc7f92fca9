package views

import (
	"fmt"

	"creditrisk/internal/display"
)

// Loan purposes accepted by the recommendations view.
const (
	PurposePersonal  = "Personal Use"
	PurposeHome      = "Home Purchase/Renovation"
	PurposeCar       = "Car Purchase"
	PurposeEducation = "Education"
	PurposeBusiness  = "Business"
)

// LoanProfile is the applicant's monthly financial picture.
type LoanProfile struct {
	Income      float64 `json:"income" validate:"min=0"`
	Expenses    float64 `json:"expenses" validate:"min=0"`
	Savings     float64 `json:"savings" validate:"min=0"`
	CreditScore int     `json:"credit_score" validate:"min=300,max=850"`
	Purpose     string  `json:"purpose" validate:"required,oneof='Personal Use' 'Home Purchase/Renovation' 'Car Purchase' 'Education' 'Business'"`
}

// DefaultLoanProfile mirrors the form defaults.
func DefaultLoanProfile() LoanProfile {
	return LoanProfile{Income: 3000, Expenses: 2000, Savings: 5000, CreditScore: 700, Purpose: PurposePersonal}
}

// Disposable is income left after expenses.
func (lp LoanProfile) Disposable() float64 { return lp.Income - lp.Expenses }

// Eligibility is the coarse loan eligibility tier.
type Eligibility string

const (
	Eligible              Eligibility = "eligible"
	ConditionallyEligible Eligibility = "conditional"
	NotEligible           Eligibility = "not_eligible"
)

// Offer is the product set and borrowing limit for one purpose.
type Offer struct {
	Products []string
	Limit    float64
	Basis    string
}

// Assessment is the outcome of Assess.
type Assessment struct {
	Tier  Eligibility
	Offer Offer
}

// Assess applies the eligibility rules and the purpose limit.
func Assess(lp LoanProfile) (Assessment, error) {
	d := lp.Disposable()
	a := Assessment{Tier: NotEligible}
	switch {
	case d > 1000 && lp.CreditScore >= 650:
		a.Tier = Eligible
	case d > 500 && lp.CreditScore >= 600:
		a.Tier = ConditionallyEligible
	}

	switch lp.Purpose {
	case PurposePersonal:
		a.Offer = Offer{
			Products: []string{
				"Personal Loan: ideal for short-term financial needs like vacations, weddings, or medical expenses.",
				"Line of Credit: flexible borrowing option for ongoing expenses.",
			},
			Limit: d * 12,
			Basis: "12 months of disposable income",
		}
	case PurposeHome:
		a.Offer = Offer{
			Products: []string{
				"Home Loan: best for purchasing or renovating a home.",
				"Home Equity Loan: use the equity in your home to borrow at lower interest rates.",
			},
			Limit: lp.Savings * 5,
			Basis: "5 times your savings",
		}
	case PurposeCar:
		a.Offer = Offer{
			Products: []string{
				"Car Loan: perfect for buying a new or used car.",
				"Lease Financing: flexible option for driving a new car without owning it.",
			},
			Limit: d * 24,
			Basis: "24 months of disposable income",
		}
	case PurposeEducation:
		a.Offer = Offer{
			Products: []string{
				"Education Loan: designed to cover tuition fees and other educational expenses.",
				"Scholarship/Grant: explore free funding options for education.",
			},
			Limit: lp.Savings * 3,
			Basis: "3 times your savings",
		}
	case PurposeBusiness:
		a.Offer = Offer{
			Products: []string{
				"Business Loan: ideal for starting or expanding a business.",
				"Small Business Grant: explore free funding options for small businesses.",
			},
			Limit: d * 36,
			Basis: "36 months of disposable income",
		}
	default:
		return Assessment{}, fmt.Errorf("%w: unknown loan purpose %q", ErrInvalidInput, lp.Purpose)
	}
	return a, nil
}

// Recommendations suggests loan products for the profile.
func Recommendations(lp LoanProfile) (*display.Page, error) {
	a, err := Assess(lp)
	if err != nil {
		return nil, err
	}

	p := display.NewPage(NameRecommendations, "Loan Product Recommendations").
		Text("This section suggests loan products tailored to your financial needs and profile.").
		Heading(2, "Your Financial Profile").
		Metric("Disposable income", money(lp.Disposable())).
		Metric("Credit score", fmt.Sprintf("%d", lp.CreditScore)).
		Heading(2, "Loan Eligibility")

	switch a.Tier {
	case Eligible:
		p.Notice(display.SeveritySuccess, "You are eligible for most loan products.")
	case ConditionallyEligible:
		p.Notice(display.SeverityWarning, "You are eligible for some loan products, but with higher interest rates.")
	default:
		p.Notice(display.SeverityError, "You may not be eligible for most loan products at this time.")
	}

	return p.Heading(2, "Personalized Loan Recommendations").
		List(a.Offer.Products...).
		Text(fmt.Sprintf("Eligibility: you can borrow up to %s (%s).", money(a.Offer.Limit), a.Offer.Basis)).
		Heading(2, "Tips to Improve Loan Eligibility").
		List(
			"Increase Savings: save more to improve your financial stability.",
			"Reduce Expenses: lower your monthly expenses to increase disposable income.",
			"Improve Credit Score: pay bills on time and reduce outstanding debt to boost your credit score.",
		), nil
}
