package views

import (
	"fmt"
	"math"

	"creditrisk/internal/display"
)

const (
	inflationRate   = 0.03
	wealthReturn    = 0.06
	defaultSimYears = 10
)

// FinanceInput is the household budget analysed by the finance advisor.
// Income must be positive since savings and debt rates divide by it.
type FinanceInput struct {
	Income        float64 `json:"income" validate:"gt=0"`
	Expenses      float64 `json:"expenses" validate:"min=0"`
	Savings       float64 `json:"savings" validate:"min=0"`
	Debt          float64 `json:"debt" validate:"min=0"`
	Age           int     `json:"age" validate:"min=18,max=100"`
	RetirementAge int     `json:"retirement_age" validate:"gtefield=Age,max=100"`

	Rent          float64 `json:"rent" validate:"min=0"`
	Food          float64 `json:"food" validate:"min=0"`
	Entertainment float64 `json:"entertainment" validate:"min=0"`
	Insurance     float64 `json:"insurance" validate:"min=0"`

	EmergencyGoal float64 `json:"emergency_goal" validate:"min=0"`
	VacationGoal  float64 `json:"vacation_goal" validate:"min=0"`
	HomeGoal      float64 `json:"home_goal" validate:"min=0"`

	// SimulateYears defaults to min(10, years to retirement).
	SimulateYears int `json:"simulate_years,omitempty" validate:"omitempty,min=1"`
}

// DefaultFinanceInput mirrors the form defaults.
func DefaultFinanceInput() FinanceInput {
	return FinanceInput{
		Income:        5000,
		Expenses:      3000,
		Savings:       10000,
		Debt:          5000,
		Age:           30,
		RetirementAge: 65,
		Rent:          1200,
		Food:          600,
		Entertainment: 300,
		Insurance:     400,
		EmergencyGoal: 10000,
		VacationGoal:  5000,
		HomeGoal:      20000,
	}
}

// Budget compares actual spending with the 50/30/20 rule.
type Budget struct {
	Needs, Wants, Savings                   float64
	ActualNeeds, ActualWants, ActualSavings float64
}

// Advice is the computed financial picture behind the finance page.
type Advice struct {
	MonthlySavings    float64
	Others            float64
	Unallocated       bool
	EmergencyProgress float64
	Budget            Budget
	YearsToRetirement int
	RetirementNeed    float64
	SavingsRate       float64
	DebtToIncome      float64
	HealthScore       int
	Wealth            []float64
	Achievements      []string
}

// Advise computes the advice for in. Income must be positive.
func Advise(in FinanceInput) (Advice, error) {
	if in.Income <= 0 {
		return Advice{}, fmt.Errorf("%w: income must be positive", ErrInvalidInput)
	}
	if in.RetirementAge < in.Age {
		return Advice{}, fmt.Errorf("%w: retirement age %d before age %d", ErrInvalidInput, in.RetirementAge, in.Age)
	}

	a := Advice{MonthlySavings: in.Income - in.Expenses}
	// The budget comparison uses the raw remainder; only the pie clamps it.
	others := in.Expenses - (in.Rent + in.Food + in.Entertainment + in.Insurance)
	a.Others = max(others, 0)
	a.Unallocated = others < 0

	a.EmergencyProgress = 1
	if in.EmergencyGoal > 0 {
		a.EmergencyProgress = math.Min(in.Savings/in.EmergencyGoal, 1)
	}

	a.Budget = Budget{
		Needs:         in.Income * 0.5,
		Wants:         in.Income * 0.3,
		Savings:       in.Income * 0.2,
		ActualNeeds:   in.Rent + in.Food + in.Insurance,
		ActualWants:   in.Entertainment + others,
		ActualSavings: a.MonthlySavings,
	}

	a.YearsToRetirement = in.RetirementAge - in.Age
	futureIncome := in.Income * math.Pow(1+inflationRate, float64(a.YearsToRetirement))
	a.RetirementNeed = futureIncome * 12 * float64(100-in.RetirementAge)

	a.SavingsRate = in.Savings / in.Income * 100
	a.DebtToIncome = in.Debt / in.Income * 100
	a.HealthScore = 100
	if a.SavingsRate < 20 {
		a.HealthScore -= 20
	}
	if a.DebtToIncome > 40 {
		a.HealthScore -= 30
	}
	if in.Savings < in.EmergencyGoal {
		a.HealthScore -= 20
	}

	years := in.SimulateYears
	if years == 0 {
		years = min(defaultSimYears, a.YearsToRetirement)
	}
	years = min(years, a.YearsToRetirement)
	wealth := in.Savings
	a.Wealth = make([]float64, 0, years)
	for range years {
		wealth = wealth*(1+wealthReturn) + a.MonthlySavings*12
		a.Wealth = append(a.Wealth, wealth)
	}

	if in.Savings >= 10000 {
		a.Achievements = append(a.Achievements, "Saved First $10,000")
	}
	if in.Debt == 0 {
		a.Achievements = append(a.Achievements, "Debt-Free Champion")
	}
	if a.SavingsRate >= 30 {
		a.Achievements = append(a.Achievements, "Savings Master (Savings Rate > 30%)")
	}
	return a, nil
}

// FinanceResources are the external reading links shown on the finance page.
var FinanceResources = []display.Link{
	{Text: "Explore Best Savings Accounts", URL: "https://www.bankrate.com/banking/savings/best-savings-accounts/"},
	{Text: "Debt Payoff Calculators", URL: "https://www.bankrate.com/calculators/managing-debt/debt-payoff-calculator.aspx"},
	{Text: "Investment Basics for Beginners", URL: "https://www.investopedia.com/investing-4427775"},
}

// Finance renders personal finance advice for in.
func Finance(in FinanceInput) (*display.Page, error) {
	a, err := Advise(in)
	if err != nil {
		return nil, err
	}

	p := display.NewPage(NameFinance, "Personal Finance Advisor").
		Text("Get personalized financial advice based on your income, expenses, and goals.").
		Metric("Monthly Savings", money(a.MonthlySavings)).
		Heading(2, "Budget Planning")
	if a.MonthlySavings > 0 {
		p.Notice(display.SeveritySuccess, "You are saving money each month. Great job!")
	} else {
		p.Notice(display.SeverityError, "You are spending more than you earn. Consider reducing your expenses.")
	}

	p.Heading(2, "Savings Goal Progress").
		Progress("Emergency Fund", a.EmergencyProgress).
		Progress("Vacation Fund", 0).
		Progress("Home Down Payment", 0)

	p.Heading(2, "Expense Breakdown").Chart(display.Chart{
		Type:   display.ChartPie,
		Title:  "Expense Breakdown",
		Labels: []string{"Rent", "Food", "Entertainment", "Insurance", "Others"},
		Series: []display.Series{{
			Name:   "expenses",
			Values: []float64{in.Rent, in.Food, in.Entertainment, in.Insurance, a.Others},
		}},
	})
	if a.Unallocated {
		p.Notice(display.SeverityWarning, "Itemized expenses exceed total monthly expenses; Others is shown as zero.")
	}

	b := a.Budget
	p.Heading(2, "Recommended Budget Allocation (50/30/20 Rule)").Table(display.Table{
		Columns: []string{"Category", "Recommended", "Actual"},
		Rows: [][]string{
			{"Needs (50%)", money(b.Needs), money(b.ActualNeeds)},
			{"Wants (30%)", money(b.Wants), money(b.ActualWants)},
			{"Savings (20%)", money(b.Savings), money(b.ActualSavings)},
		},
	})

	p.Heading(2, "Debt Management")
	if in.Debt > 0 {
		p.Notice(display.SeverityWarning, fmt.Sprintf("You have %s in debt. Consider strategies like:", money(in.Debt))).
			List(
				"Snowball Method: pay off small debts first.",
				"Avalanche Method: pay off high-interest debts first.",
			)
	} else {
		p.Notice(display.SeveritySuccess, "You are debt-free. Great job!")
	}

	p.Heading(2, "Retirement Planning (with 3% inflation)").
		Text(fmt.Sprintf("You have %d years until retirement.", a.YearsToRetirement)).
		Text(fmt.Sprintf("You need approximately %s to retire comfortably (adjusted for inflation).", money(a.RetirementNeed))).
		Heading(2, "Financial Health Score").
		Metric("Financial Health Score", fmt.Sprintf("%d", a.HealthScore))

	p.Heading(2, "Future Wealth Simulation (Assuming 6% annual return)")
	if len(a.Wealth) == 0 {
		p.Text("No years left to simulate before retirement.")
	} else {
		labels := make([]string, len(a.Wealth))
		for i := range labels {
			labels[i] = fmt.Sprintf("%d", i+1)
		}
		p.Chart(display.Chart{
			Type:   display.ChartLine,
			Title:  "Projected savings",
			XLabel: "Year",
			YLabel: "Savings",
			Labels: labels,
			Series: []display.Series{{Name: "savings", Values: a.Wealth}},
		})
	}

	p.Heading(2, "Achievements Unlocked")
	if len(a.Achievements) > 0 {
		p.List(a.Achievements...)
	} else {
		p.Text("No achievements yet.")
	}

	p.Heading(2, "Helpful Financial Resources")
	for _, l := range FinanceResources {
		p.Link(l.Text, l.URL)
	}
	return p, nil
}
