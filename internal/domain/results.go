package domain

import (
	"github.com/shopspring/decimal"
)

// AccumulationYear is one year of the pre-retirement projection.
type AccumulationYear struct {
	Age      int                        `json:"age"`
	Year     int                        `json:"year"`
	Balances map[string]decimal.Decimal `json:"balances"`
	Total    decimal.Decimal            `json:"total"`
}

// AccumulationResult is the output of the accumulation projector and the
// seed for the withdrawal simulation.
type AccumulationResult struct {
	Years             []AccumulationYear         `json:"years"`
	FinalBalances     map[string]decimal.Decimal `json:"final_balances"`
	TotalAtRetirement decimal.Decimal            `json:"total_at_retirement"`
}

// EarlyWithdrawalPenalty records a single penalty assessed during a year.
type EarlyWithdrawalPenalty struct {
	AccountID   string          `json:"account_id"`
	AccountName string          `json:"account_name"`
	Amount      decimal.Decimal `json:"amount"`
}

// YearlyWithdrawal is one simulated drawdown year. Records are append-only
// output and never mutated after emission.
type YearlyWithdrawal struct {
	Age  int `json:"age"`
	Year int `json:"year"`

	Withdrawals map[string]decimal.Decimal `json:"withdrawals"`
	Balances    map[string]decimal.Decimal `json:"balances"`

	TotalWithdrawal decimal.Decimal `json:"total_withdrawal"`
	BenefitIncome   decimal.Decimal `json:"benefit_income"`
	StreamIncome    decimal.Decimal `json:"stream_income"`
	GrossIncome     decimal.Decimal `json:"gross_income"`

	FederalTax  decimal.Decimal `json:"federal_tax"`
	RegionalTax decimal.Decimal `json:"regional_tax"`
	TotalTax    decimal.Decimal `json:"total_tax"`

	AfterTaxIncome decimal.Decimal `json:"after_tax_income"`
	TargetSpending decimal.Decimal `json:"target_spending"`
	RMDAmount      decimal.Decimal `json:"rmd_amount"`
	TotalBalance   decimal.Decimal `json:"total_balance"`

	Penalties      []EarlyWithdrawalPenalty `json:"penalties,omitempty"`
	TotalPenalties decimal.Decimal          `json:"total_penalties"`
}

// RetirementResult is the full drawdown simulation output.
type RetirementResult struct {
	Years []YearlyWithdrawal `json:"years"`

	// PortfolioDepletionAge is the first age at which the total remaining
	// balance reached zero or below, nil if the portfolio outlasted the
	// simulation.
	PortfolioDepletionAge *int `json:"portfolio_depletion_age,omitempty"`

	// AccountDepletionAges maps account IDs to the first age each balance
	// reached zero or below.
	AccountDepletionAges map[string]int `json:"account_depletion_ages,omitempty"`

	LifetimeTaxesPaid decimal.Decimal `json:"lifetime_taxes_paid"`

	SustainableAnnualWithdrawal  decimal.Decimal `json:"sustainable_annual_withdrawal"`
	SustainableMonthlyWithdrawal decimal.Decimal `json:"sustainable_monthly_withdrawal"`
}

// PlanResult bundles both phases of a projection run.
type PlanResult struct {
	Accumulation *AccumulationResult `json:"accumulation"`
	Retirement   *RetirementResult   `json:"retirement"`
}

// FinalBalance returns the portfolio balance at the end of the simulation.
func (rr *RetirementResult) FinalBalance() decimal.Decimal {
	if len(rr.Years) == 0 {
		return decimal.Zero
	}
	return rr.Years[len(rr.Years)-1].TotalBalance
}
