package calculation

import (
	"github.com/shopspring/decimal"
	"github.com/smithgotsurf/retirement-planner/internal/domain"
)

// streamBuckets aggregates income-stream dollars by tax treatment for one
// simulated year. All three buckets share the same inflation multiplier so
// their proportions stay consistent for downstream tax math.
type streamBuckets struct {
	Benefit decimal.Decimal
	Taxable decimal.Decimal
	TaxFree decimal.Decimal
}

func (b streamBuckets) Total() decimal.Decimal {
	return b.Benefit.Add(b.Taxable).Add(b.TaxFree)
}

// inflationMultiplier compounds inflation from the profile's current age to
// the simulated age. Government benefits and income streams are configured
// in today's dollars, so they inflate over the full span from today, not
// from the retirement boundary.
func inflationMultiplier(inflationRate decimal.Decimal, currentAge, age int) decimal.Decimal {
	span := age - currentAge
	if span <= 0 {
		return one
	}
	return one.Add(inflationRate).Pow(decimal.NewFromInt(int64(span)))
}

// benefitIncome totals the policy's government benefit streams active at the
// simulated age, inflated from the current age forward.
func (e *Engine) benefitIncome(profile *domain.Profile, age int, grossIncome, inflationRate decimal.Decimal) decimal.Decimal {
	var total decimal.Decimal
	for _, payment := range e.Policy.RetirementBenefits(profile, age, grossIncome) {
		total = total.Add(payment.AnnualAmount)
	}
	if total.IsZero() {
		return decimal.Zero
	}
	return total.Mul(inflationMultiplier(inflationRate, profile.CurrentAge, age))
}

// streamIncome buckets user income streams active at the simulated age by
// tax treatment, then inflates every bucket with the same multiplier.
func (e *Engine) streamIncome(streams []domain.IncomeStream, profile *domain.Profile, age int, inflationRate decimal.Decimal) streamBuckets {
	var buckets streamBuckets
	for _, stream := range streams {
		if age < stream.StartAge {
			continue
		}
		annual := stream.MonthlyAmount.Mul(decimal.NewFromInt(12))
		switch stream.Treatment {
		case domain.TreatmentTaxable:
			buckets.Taxable = buckets.Taxable.Add(annual)
		case domain.TreatmentTaxFree:
			buckets.TaxFree = buckets.TaxFree.Add(annual)
		default:
			buckets.Benefit = buckets.Benefit.Add(annual)
		}
	}

	multiplier := inflationMultiplier(inflationRate, profile.CurrentAge, age)
	buckets.Benefit = buckets.Benefit.Mul(multiplier)
	buckets.Taxable = buckets.Taxable.Mul(multiplier)
	buckets.TaxFree = buckets.TaxFree.Mul(multiplier)
	return buckets
}
