package domain

import (
	"github.com/shopspring/decimal"
)

// FilingStatus selects a bracket table for jurisdictions that distinguish
// filing statuses. Jurisdictions without the concept ignore it.
type FilingStatus string

const (
	FilingSingle       FilingStatus = "single"
	FilingMarriedJoint FilingStatus = "married_joint"
)

// Profile holds the person-level inputs for a projection: the age boundaries,
// the tax jurisdiction details, and government benefit amounts. The caller is
// responsible for CurrentAge < RetirementAge < LifeExpectancy; the engine
// does not reject invalid orderings but may produce degenerate output.
type Profile struct {
	CurrentAge     int `yaml:"current_age" json:"current_age"`
	RetirementAge  int `yaml:"retirement_age" json:"retirement_age"`
	LifeExpectancy int `yaml:"life_expectancy" json:"life_expectancy"`

	// Region is a state or province code, interpreted by the policy.
	Region       string       `yaml:"region" json:"region"`
	FilingStatus FilingStatus `yaml:"filing_status,omitempty" json:"filing_status,omitempty"`

	// RegionalFlatRate is the flat state income tax rate used by the US
	// policy; the simulator applies it directly. Jurisdictions with
	// progressive regional tax leave it zero and the policy's RegionalTax
	// does the work.
	RegionalFlatRate decimal.Decimal `yaml:"regional_flat_rate,omitempty" json:"regional_flat_rate,omitempty"`

	// US government benefit: a single Social Security stream.
	SocialSecurityMonthly  decimal.Decimal `yaml:"social_security_monthly,omitempty" json:"social_security_monthly,omitempty"`
	SocialSecurityStartAge int             `yaml:"social_security_start_age,omitempty" json:"social_security_start_age,omitempty"`

	// Canada government benefits: CPP and OAS with independent start ages.
	CPPMonthly  decimal.Decimal `yaml:"cpp_monthly,omitempty" json:"cpp_monthly,omitempty"`
	CPPStartAge int             `yaml:"cpp_start_age,omitempty" json:"cpp_start_age,omitempty"`
	OASMonthly  decimal.Decimal `yaml:"oas_monthly,omitempty" json:"oas_monthly,omitempty"`
	OASStartAge int             `yaml:"oas_start_age,omitempty" json:"oas_start_age,omitempty"`

	// TargetAnnualSpending is the desired first-year retirement spending in
	// today's dollars. Zero means derive it from the safe withdrawal rate.
	TargetAnnualSpending decimal.Decimal `yaml:"target_annual_spending,omitempty" json:"target_annual_spending,omitempty"`
}

// RetirementYears is the number of simulated drawdown years, retirement age
// through life expectancy inclusive.
func (p *Profile) RetirementYears() int {
	return p.LifeExpectancy - p.RetirementAge + 1
}

// Assumptions are the global rates applied uniformly across all years and
// accounts, expressed as decimal fractions (0.03 = 3%).
type Assumptions struct {
	InflationRate        decimal.Decimal `yaml:"inflation_rate" json:"inflation_rate"`
	SafeWithdrawalRate   decimal.Decimal `yaml:"safe_withdrawal_rate" json:"safe_withdrawal_rate"`
	RetirementReturnRate decimal.Decimal `yaml:"retirement_return_rate" json:"retirement_return_rate"`
}

// StreamTreatment tags a user income stream with its tax treatment.
type StreamTreatment string

const (
	// TreatmentBenefit taxes the stream like a government benefit (at most
	// 85% of it counts as taxable income).
	TreatmentBenefit StreamTreatment = "benefit"
	// TreatmentTaxable includes the full stream in ordinary taxable income.
	TreatmentTaxable StreamTreatment = "taxable"
	// TreatmentTaxFree excludes the stream from taxable income entirely.
	TreatmentTaxFree StreamTreatment = "tax_free"
)

// IncomeStream is a user-defined retirement income source (pension,
// disability, annuity, rental income). Amounts are monthly, in today's
// dollars; the aggregator inflates them forward.
type IncomeStream struct {
	ID            string          `yaml:"id" json:"id"`
	Name          string          `yaml:"name" json:"name"`
	MonthlyAmount decimal.Decimal `yaml:"monthly_amount" json:"monthly_amount"`
	StartAge      int             `yaml:"start_age" json:"start_age"`
	Treatment     StreamTreatment `yaml:"treatment" json:"treatment"`
}
