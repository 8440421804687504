package policy

import (
	"github.com/shopspring/decimal"
	"github.com/smithgotsurf/retirement-planner/internal/domain"
)

// provincialRules holds one province's progressive brackets and basic
// personal amount.
type provincialRules struct {
	BasicPersonalAmount decimal.Decimal
	Brackets            []TaxBracket
}

// CanadaPolicy implements CountryPolicy using 2024 Canadian rules: federal
// progressive tax with a basic personal amount, true progressive provincial
// tax per region with its own BPA credit, capital gains taxed as ordinary
// income at the statutory inclusion rate (50% up to the threshold, two
// thirds above), RRIF percentage minimums starting at age 71, CPP and OAS
// benefit streams, and no early-withdrawal penalty concept.
type CanadaPolicy struct {
	BasicPersonalAmount decimal.Decimal
	Brackets            []TaxBracket
	Provinces           map[string]provincialRules
	DefaultProvince     string
	RRIFTable           []minimumEntry
	InclusionRate       decimal.Decimal
	InclusionRateHigh   decimal.Decimal
	InclusionThreshold  decimal.Decimal
}

// NewCanadaPolicy creates the Canada policy with 2024 federal and provincial
// figures.
func NewCanadaPolicy() *CanadaPolicy {
	return &CanadaPolicy{
		BasicPersonalAmount: decimal.NewFromInt(15705),
		Brackets: []TaxBracket{
			{decimal.Zero, decimal.NewFromInt(55867), decimal.NewFromFloat(0.15)},
			{decimal.NewFromInt(55867), decimal.NewFromInt(111733), decimal.NewFromFloat(0.205)},
			{decimal.NewFromInt(111733), decimal.NewFromInt(173205), decimal.NewFromFloat(0.26)},
			{decimal.NewFromInt(173205), decimal.NewFromInt(246752), decimal.NewFromFloat(0.29)},
			{decimal.NewFromInt(246752), bracketTop, decimal.NewFromFloat(0.33)},
		},
		Provinces: map[string]provincialRules{
			"ON": {
				BasicPersonalAmount: decimal.NewFromInt(12399),
				Brackets: []TaxBracket{
					{decimal.Zero, decimal.NewFromInt(51446), decimal.NewFromFloat(0.0505)},
					{decimal.NewFromInt(51446), decimal.NewFromInt(102894), decimal.NewFromFloat(0.0915)},
					{decimal.NewFromInt(102894), decimal.NewFromInt(150000), decimal.NewFromFloat(0.1116)},
					{decimal.NewFromInt(150000), decimal.NewFromInt(220000), decimal.NewFromFloat(0.1216)},
					{decimal.NewFromInt(220000), bracketTop, decimal.NewFromFloat(0.1316)},
				},
			},
			"BC": {
				BasicPersonalAmount: decimal.NewFromInt(12580),
				Brackets: []TaxBracket{
					{decimal.Zero, decimal.NewFromInt(47937), decimal.NewFromFloat(0.0506)},
					{decimal.NewFromInt(47937), decimal.NewFromInt(95875), decimal.NewFromFloat(0.077)},
					{decimal.NewFromInt(95875), decimal.NewFromInt(110076), decimal.NewFromFloat(0.105)},
					{decimal.NewFromInt(110076), decimal.NewFromInt(133664), decimal.NewFromFloat(0.1229)},
					{decimal.NewFromInt(133664), decimal.NewFromInt(181232), decimal.NewFromFloat(0.147)},
					{decimal.NewFromInt(181232), decimal.NewFromInt(252752), decimal.NewFromFloat(0.168)},
					{decimal.NewFromInt(252752), bracketTop, decimal.NewFromFloat(0.205)},
				},
			},
			"AB": {
				BasicPersonalAmount: decimal.NewFromInt(21885),
				Brackets: []TaxBracket{
					{decimal.Zero, decimal.NewFromInt(148269), decimal.NewFromFloat(0.10)},
					{decimal.NewFromInt(148269), decimal.NewFromInt(177922), decimal.NewFromFloat(0.12)},
					{decimal.NewFromInt(177922), decimal.NewFromInt(237230), decimal.NewFromFloat(0.13)},
					{decimal.NewFromInt(237230), decimal.NewFromInt(355845), decimal.NewFromFloat(0.14)},
					{decimal.NewFromInt(355845), bracketTop, decimal.NewFromFloat(0.15)},
				},
			},
		},
		DefaultProvince:    "ON",
		RRIFTable:          rrifMinimumTable(),
		InclusionRate:      decimal.NewFromFloat(0.5),
		InclusionRateHigh:  decimal.RequireFromString("0.6667"),
		InclusionThreshold: decimal.NewFromInt(250000),
	}
}

// rrifMinimumTable is the RRIF minimum withdrawal schedule as a percentage
// of balance, first effective age 71. Ages above the last row clamp to the
// last percentage.
func rrifMinimumTable() []minimumEntry {
	percentages := []float64{
		0.0528, 0.0540, 0.0553, 0.0567, 0.0582, 0.0598, 0.0617, 0.0636, 0.0658, // 71-79
		0.0682, 0.0708, 0.0738, 0.0771, 0.0808, 0.0851, 0.0899, 0.0955, 0.1021, 0.1099, // 80-89
		0.1192, 0.1306, 0.1449, 0.1634, 0.1879, 0.2000, // 90-95
	}
	table := make([]minimumEntry, len(percentages))
	for i, pct := range percentages {
		table[i] = minimumEntry{Age: 71 + i, Factor: decimal.NewFromFloat(pct)}
	}
	return table
}

func (p *CanadaPolicy) Name() string { return "canada" }

func (p *CanadaPolicy) province(region string) provincialRules {
	if rules, ok := p.Provinces[region]; ok {
		return rules
	}
	return p.Provinces[p.DefaultProvince]
}

// FederalTax applies the basic personal amount then progressive brackets.
// Filing status has no effect in this jurisdiction.
func (p *CanadaPolicy) FederalTax(income decimal.Decimal, status domain.FilingStatus) decimal.Decimal {
	taxable := deductTaxable(income, p.BasicPersonalAmount)
	return OrdinaryTax(p.Brackets, taxable)
}

// RegionalTax computes the province's progressive tax with its own basic
// personal amount. Unknown regions fall back to the default province.
func (p *CanadaPolicy) RegionalTax(income decimal.Decimal, region string) decimal.Decimal {
	rules := p.province(region)
	taxable := deductTaxable(income, rules.BasicPersonalAmount)
	return OrdinaryTax(rules.Brackets, taxable)
}

// CapitalGainsTax includes gains in ordinary progressive income at the
// statutory inclusion rate: half of gains up to the threshold and two thirds
// of the excess. The tax attributable to the gains is the difference between
// tax with and without the included amount, federal and provincial combined.
func (p *CanadaPolicy) CapitalGainsTax(gains, ordinaryIncome decimal.Decimal, region string, status domain.FilingStatus) decimal.Decimal {
	if gains.LessThanOrEqual(decimal.Zero) {
		return decimal.Zero
	}
	included := p.includedGains(gains)
	withGains := p.FederalTax(ordinaryIncome.Add(included), status).
		Add(p.RegionalTax(ordinaryIncome.Add(included), region))
	withoutGains := p.FederalTax(ordinaryIncome, status).
		Add(p.RegionalTax(ordinaryIncome, region))
	return withGains.Sub(withoutGains)
}

// includedGains applies the two-tier inclusion rate.
func (p *CanadaPolicy) includedGains(gains decimal.Decimal) decimal.Decimal {
	if gains.LessThanOrEqual(p.InclusionThreshold) {
		return gains.Mul(p.InclusionRate)
	}
	below := p.InclusionThreshold.Mul(p.InclusionRate)
	above := gains.Sub(p.InclusionThreshold).Mul(p.InclusionRateHigh)
	return below.Add(above)
}

// RetirementBenefits returns the CPP and OAS streams active at the given
// age, each with its own start age.
func (p *CanadaPolicy) RetirementBenefits(profile *domain.Profile, age int, grossIncome decimal.Decimal) []BenefitPayment {
	var payments []BenefitPayment
	if profile.CPPMonthly.GreaterThan(decimal.Zero) && age >= profile.CPPStartAge {
		payments = append(payments, BenefitPayment{
			Name:          "cpp",
			StartAge:      profile.CPPStartAge,
			MonthlyAmount: profile.CPPMonthly,
			AnnualAmount:  profile.CPPMonthly.Mul(decimal.NewFromInt(12)),
		})
	}
	if profile.OASMonthly.GreaterThan(decimal.Zero) && age >= profile.OASStartAge {
		payments = append(payments, BenefitPayment{
			Name:          "oas",
			StartAge:      profile.OASStartAge,
			MonthlyAmount: profile.OASMonthly,
			AnnualAmount:  profile.OASMonthly.Mul(decimal.NewFromInt(12)),
		})
	}
	return payments
}

// MinimumWithdrawal returns balance * the RRIF percentage for the age, zero
// below age 71 and for non-traditional accounts.
func (p *CanadaPolicy) MinimumWithdrawal(age int, balance decimal.Decimal, accountType domain.AccountType) decimal.Decimal {
	if !p.IsTraditionalAccount(accountType) || balance.LessThanOrEqual(decimal.Zero) {
		return decimal.Zero
	}
	pct := lookupFactor(p.RRIFTable, age)
	return balance.Mul(pct)
}

func (p *CanadaPolicy) IsTraditionalAccount(accountType domain.AccountType) bool {
	return p.ClassifyAccount(accountType) == domain.ClassTraditional
}

func (p *CanadaPolicy) ClassifyAccount(accountType domain.AccountType) domain.AccountClass {
	switch accountType {
	case domain.AccountTypeRRSP, domain.AccountTypeLIRA:
		return domain.ClassTraditional
	case domain.AccountTypeTFSA:
		return domain.ClassTaxFree
	case domain.AccountTypeNonRegistered:
		return domain.ClassTaxable
	default:
		return domain.ClassUnknown
	}
}

// PenaltyInfo reports that no account type carries an early-withdrawal
// penalty in this jurisdiction.
func (p *CanadaPolicy) PenaltyInfo(accountType domain.AccountType) PenaltyInfo {
	return PenaltyInfo{}
}

// EarlyWithdrawalPenalty always returns zero: RRSP withdrawals are taxed as
// income at any age but carry no separate penalty.
func (p *CanadaPolicy) EarlyWithdrawalPenalty(amount decimal.Decimal, accountType domain.AccountType, age int) decimal.Decimal {
	return decimal.Zero
}

// BracketFillCeiling is the basic personal amount plus the second federal
// bracket ceiling.
func (p *CanadaPolicy) BracketFillCeiling(status domain.FilingStatus) decimal.Decimal {
	return p.BasicPersonalAmount.Add(p.Brackets[1].Max)
}

func (p *CanadaPolicy) WithdrawalOrder() []domain.AccountType {
	return []domain.AccountType{
		domain.AccountTypeRRSP,
		domain.AccountTypeLIRA,
		domain.AccountTypeTFSA,
		domain.AccountTypeNonRegistered,
	}
}
