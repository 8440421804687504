package policy

import (
	"github.com/shopspring/decimal"
	"github.com/smithgotsurf/retirement-planner/internal/domain"
)

// USPolicy implements CountryPolicy using 2024 federal rules: bracketed
// ordinary tax with a standard deduction, stacked long-term capital gains
// brackets, the SECURE 2.0 RMD table starting at age 73, and a 10% early
// withdrawal penalty below age 59.5 on pretax accounts. State tax is a flat
// rate carried on the Profile and applied by the caller, so RegionalTax
// returns zero.
type USPolicy struct {
	StandardDeduction       decimal.Decimal
	StandardDeductionSingle decimal.Decimal
	Brackets                []TaxBracket
	BracketsSingle          []TaxBracket
	GainsBrackets           []TaxBracket
	GainsBracketsSingle     []TaxBracket
	RMDTable                []minimumEntry
	PenaltyAge              decimal.Decimal
	PenaltyRate             decimal.Decimal
}

// minimumEntry is one row of an age-indexed mandatory-withdrawal table.
// Factor is a divisor for the US table and a percentage for the Canadian one.
type minimumEntry struct {
	Age    int
	Factor decimal.Decimal
}

// NewUSPolicy creates the US policy with 2024 brackets and deductions.
func NewUSPolicy() *USPolicy {
	return &USPolicy{
		StandardDeduction:       decimal.NewFromInt(29200),
		StandardDeductionSingle: decimal.NewFromInt(14600),
		Brackets: []TaxBracket{
			{decimal.Zero, decimal.NewFromInt(23200), decimal.NewFromFloat(0.10)},
			{decimal.NewFromInt(23200), decimal.NewFromInt(94300), decimal.NewFromFloat(0.12)},
			{decimal.NewFromInt(94300), decimal.NewFromInt(201050), decimal.NewFromFloat(0.22)},
			{decimal.NewFromInt(201050), decimal.NewFromInt(383900), decimal.NewFromFloat(0.24)},
			{decimal.NewFromInt(383900), decimal.NewFromInt(487450), decimal.NewFromFloat(0.32)},
			{decimal.NewFromInt(487450), decimal.NewFromInt(731200), decimal.NewFromFloat(0.35)},
			{decimal.NewFromInt(731200), bracketTop, decimal.NewFromFloat(0.37)},
		},
		BracketsSingle: []TaxBracket{
			{decimal.Zero, decimal.NewFromInt(11600), decimal.NewFromFloat(0.10)},
			{decimal.NewFromInt(11600), decimal.NewFromInt(47150), decimal.NewFromFloat(0.12)},
			{decimal.NewFromInt(47150), decimal.NewFromInt(100525), decimal.NewFromFloat(0.22)},
			{decimal.NewFromInt(100525), decimal.NewFromInt(191950), decimal.NewFromFloat(0.24)},
			{decimal.NewFromInt(191950), decimal.NewFromInt(243725), decimal.NewFromFloat(0.32)},
			{decimal.NewFromInt(243725), decimal.NewFromInt(609350), decimal.NewFromFloat(0.35)},
			{decimal.NewFromInt(609350), bracketTop, decimal.NewFromFloat(0.37)},
		},
		GainsBrackets: []TaxBracket{
			{decimal.Zero, decimal.NewFromInt(94050), decimal.Zero},
			{decimal.NewFromInt(94050), decimal.NewFromInt(583750), decimal.NewFromFloat(0.15)},
			{decimal.NewFromInt(583750), bracketTop, decimal.NewFromFloat(0.20)},
		},
		GainsBracketsSingle: []TaxBracket{
			{decimal.Zero, decimal.NewFromInt(47025), decimal.Zero},
			{decimal.NewFromInt(47025), decimal.NewFromInt(518900), decimal.NewFromFloat(0.15)},
			{decimal.NewFromInt(518900), bracketTop, decimal.NewFromFloat(0.20)},
		},
		RMDTable:    uniformLifetimeTable(),
		PenaltyAge:  decimal.NewFromFloat(59.5),
		PenaltyRate: decimal.NewFromFloat(0.10),
	}
}

// uniformLifetimeTable is the IRS Uniform Lifetime divisor table, first
// effective age 73 under SECURE 2.0. Ages above the last row clamp to the
// last divisor.
func uniformLifetimeTable() []minimumEntry {
	divisors := []float64{
		26.5, 25.5, 24.6, 23.7, 22.9, 22.0, 21.1, // 73-79
		20.2, 19.4, 18.5, 17.7, 16.8, 16.0, 15.2, 14.4, 13.7, 12.9, // 80-89
		12.2, 11.5, 10.8, 10.1, 9.5, 8.9, 8.4, 7.8, 7.3, 6.8, // 90-99
		6.4, // 100
	}
	table := make([]minimumEntry, len(divisors))
	for i, d := range divisors {
		table[i] = minimumEntry{Age: 73 + i, Factor: decimal.NewFromFloat(d)}
	}
	return table
}

func (p *USPolicy) Name() string { return "us" }

func (p *USPolicy) brackets(status domain.FilingStatus) []TaxBracket {
	if status == domain.FilingMarriedJoint {
		return p.Brackets
	}
	return p.BracketsSingle
}

func (p *USPolicy) gainsBrackets(status domain.FilingStatus) []TaxBracket {
	if status == domain.FilingMarriedJoint {
		return p.GainsBrackets
	}
	return p.GainsBracketsSingle
}

func (p *USPolicy) standardDeduction(status domain.FilingStatus) decimal.Decimal {
	if status == domain.FilingMarriedJoint {
		return p.StandardDeduction
	}
	return p.StandardDeductionSingle
}

// FederalTax applies the standard deduction then progressive brackets.
func (p *USPolicy) FederalTax(income decimal.Decimal, status domain.FilingStatus) decimal.Decimal {
	taxable := deductTaxable(income, p.standardDeduction(status))
	return OrdinaryTax(p.brackets(status), taxable)
}

// RegionalTax returns zero: the flat state rate lives on the Profile and the
// simulator applies it directly.
func (p *USPolicy) RegionalTax(income decimal.Decimal, region string) decimal.Decimal {
	return decimal.Zero
}

// CapitalGainsTax stacks long-term gains on top of ordinary taxable income
// (gross ordinary income less the standard deduction).
func (p *USPolicy) CapitalGainsTax(gains, ordinaryIncome decimal.Decimal, region string, status domain.FilingStatus) decimal.Decimal {
	ordinaryTaxable := deductTaxable(ordinaryIncome, p.standardDeduction(status))
	return StackedGainsTax(p.gainsBrackets(status), gains, ordinaryTaxable)
}

// RetirementBenefits returns the Social Security stream once the configured
// start age is reached.
func (p *USPolicy) RetirementBenefits(profile *domain.Profile, age int, grossIncome decimal.Decimal) []BenefitPayment {
	if profile.SocialSecurityMonthly.LessThanOrEqual(decimal.Zero) || age < profile.SocialSecurityStartAge {
		return nil
	}
	return []BenefitPayment{{
		Name:          "social_security",
		StartAge:      profile.SocialSecurityStartAge,
		MonthlyAmount: profile.SocialSecurityMonthly,
		AnnualAmount:  profile.SocialSecurityMonthly.Mul(decimal.NewFromInt(12)),
	}}
}

// MinimumWithdrawal looks up the divisor for the age and returns
// balance / divisor, zero below age 73 and for non-traditional accounts.
func (p *USPolicy) MinimumWithdrawal(age int, balance decimal.Decimal, accountType domain.AccountType) decimal.Decimal {
	if !p.IsTraditionalAccount(accountType) || balance.LessThanOrEqual(decimal.Zero) {
		return decimal.Zero
	}
	divisor := lookupFactor(p.RMDTable, age)
	if divisor.IsZero() {
		return decimal.Zero
	}
	return balance.Div(divisor)
}

// lookupFactor finds the table factor for an age: zero below the first row,
// the matching row otherwise, clamped to the last row above it.
func lookupFactor(table []minimumEntry, age int) decimal.Decimal {
	if len(table) == 0 || age < table[0].Age {
		return decimal.Zero
	}
	if age >= table[len(table)-1].Age {
		return table[len(table)-1].Factor
	}
	return table[age-table[0].Age].Factor
}

func (p *USPolicy) IsTraditionalAccount(accountType domain.AccountType) bool {
	return p.ClassifyAccount(accountType) == domain.ClassTraditional
}

func (p *USPolicy) ClassifyAccount(accountType domain.AccountType) domain.AccountClass {
	switch accountType {
	case domain.AccountType401k, domain.AccountTypeTraditional:
		return domain.ClassTraditional
	case domain.AccountTypeRoth401k, domain.AccountTypeRothIRA:
		return domain.ClassTaxFree
	case domain.AccountTypeBrokerage:
		return domain.ClassTaxable
	case domain.AccountTypeHSA:
		return domain.ClassMedical
	default:
		return domain.ClassUnknown
	}
}

// PenaltyInfo reports the 10% pre-59.5 penalty for pretax account types.
func (p *USPolicy) PenaltyInfo(accountType domain.AccountType) PenaltyInfo {
	class := p.ClassifyAccount(accountType)
	applies := class == domain.ClassTraditional || class == domain.ClassMedical
	return PenaltyInfo{
		PenaltyAge:  p.PenaltyAge,
		PenaltyRate: p.PenaltyRate,
		Applies:     applies,
	}
}

// EarlyWithdrawalPenalty charges rate * amount for penalty-applicable types
// strictly below the penalty age.
func (p *USPolicy) EarlyWithdrawalPenalty(amount decimal.Decimal, accountType domain.AccountType, age int) decimal.Decimal {
	info := p.PenaltyInfo(accountType)
	if !info.Applies || amount.LessThanOrEqual(decimal.Zero) {
		return decimal.Zero
	}
	if decimal.NewFromInt(int64(age)).GreaterThanOrEqual(info.PenaltyAge) {
		return decimal.Zero
	}
	return amount.Mul(info.PenaltyRate)
}

// BracketFillCeiling is the standard deduction plus the 12% bracket ceiling:
// gross ordinary income up to this level never spills past the second
// bracket.
func (p *USPolicy) BracketFillCeiling(status domain.FilingStatus) decimal.Decimal {
	brackets := p.brackets(status)
	return p.standardDeduction(status).Add(brackets[1].Max)
}

func (p *USPolicy) WithdrawalOrder() []domain.AccountType {
	return []domain.AccountType{
		domain.AccountType401k,
		domain.AccountTypeTraditional,
		domain.AccountTypeRoth401k,
		domain.AccountTypeRothIRA,
		domain.AccountTypeBrokerage,
		domain.AccountTypeHSA,
	}
}
