package calculation

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/smithgotsurf/retirement-planner/internal/domain"
	"github.com/smithgotsurf/retirement-planner/internal/policy"
	"github.com/stretchr/testify/assert"
)

func TestInflationMultiplier(t *testing.T) {
	rate := decimal.NewFromFloat(0.02)

	assert.True(t, inflationMultiplier(rate, 60, 60).Equal(one))
	assert.True(t, inflationMultiplier(rate, 60, 55).Equal(one))

	m := inflationMultiplier(rate, 60, 62)
	assert.Equal(t, "1.0404", m.StringFixed(4))
}

func TestBenefitIncome(t *testing.T) {
	engine := NewEngine(policy.NewUSPolicy())
	profile := &domain.Profile{
		CurrentAge:             60,
		SocialSecurityMonthly:  decimal.NewFromInt(1000),
		SocialSecurityStartAge: 67,
	}

	// Nothing before the start age.
	income := engine.benefitIncome(profile, 66, decimal.Zero, decimal.Zero)
	assert.True(t, income.IsZero())

	// Without inflation the annual benefit is the nominal amount.
	income = engine.benefitIncome(profile, 67, decimal.Zero, decimal.Zero)
	assert.True(t, income.Equal(decimal.NewFromInt(12000)),
		"Expected 12000, got %s", income)

	// Inflation compounds from the current age, not the start age.
	income = engine.benefitIncome(profile, 67, decimal.Zero, decimal.NewFromFloat(0.02))
	expected := decimal.NewFromInt(12000).Mul(inflationMultiplier(decimal.NewFromFloat(0.02), 60, 67))
	assert.True(t, income.Equal(expected),
		"Expected %s, got %s", expected, income)
}

func TestStreamIncomeBuckets(t *testing.T) {
	engine := NewEngine(policy.NewUSPolicy())
	profile := &domain.Profile{CurrentAge: 60}
	streams := []domain.IncomeStream{
		{ID: "pension", MonthlyAmount: decimal.NewFromInt(1000), StartAge: 65, Treatment: domain.TreatmentBenefit},
		{ID: "rental", MonthlyAmount: decimal.NewFromInt(500), StartAge: 60, Treatment: domain.TreatmentTaxable},
		{ID: "va", MonthlyAmount: decimal.NewFromInt(200), StartAge: 60, Treatment: domain.TreatmentTaxFree},
		{ID: "late", MonthlyAmount: decimal.NewFromInt(900), StartAge: 80, Treatment: domain.TreatmentTaxable},
	}

	buckets := engine.streamIncome(streams, profile, 65, decimal.Zero)

	assert.True(t, buckets.Benefit.Equal(decimal.NewFromInt(12000)))
	assert.True(t, buckets.Taxable.Equal(decimal.NewFromInt(6000)))
	assert.True(t, buckets.TaxFree.Equal(decimal.NewFromInt(2400)))
	assert.True(t, buckets.Total().Equal(decimal.NewFromInt(20400)))
}

func TestStreamIncomeDefaultsToBenefit(t *testing.T) {
	engine := NewEngine(policy.NewUSPolicy())
	profile := &domain.Profile{CurrentAge: 60}
	streams := []domain.IncomeStream{
		{ID: "unknown", MonthlyAmount: decimal.NewFromInt(100), StartAge: 60},
	}

	buckets := engine.streamIncome(streams, profile, 60, decimal.Zero)
	assert.True(t, buckets.Benefit.Equal(decimal.NewFromInt(1200)))
	assert.True(t, buckets.Taxable.IsZero())
	assert.True(t, buckets.TaxFree.IsZero())
}

func TestStreamIncomeInflatesAllBucketsUniformly(t *testing.T) {
	engine := NewEngine(policy.NewUSPolicy())
	profile := &domain.Profile{CurrentAge: 60}
	streams := []domain.IncomeStream{
		{ID: "a", MonthlyAmount: decimal.NewFromInt(100), StartAge: 60, Treatment: domain.TreatmentBenefit},
		{ID: "b", MonthlyAmount: decimal.NewFromInt(100), StartAge: 60, Treatment: domain.TreatmentTaxable},
	}

	buckets := engine.streamIncome(streams, profile, 70, decimal.NewFromFloat(0.03))
	assert.True(t, buckets.Benefit.Equal(buckets.Taxable))
}
