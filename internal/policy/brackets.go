package policy

import (
	"github.com/shopspring/decimal"
)

// TaxBracket is one rung of a progressive rate table. Brackets are ordered,
// non-overlapping, and cover [0, inf); the top bracket uses a sentinel Max
// far above any realistic income.
type TaxBracket struct {
	Min  decimal.Decimal
	Max  decimal.Decimal
	Rate decimal.Decimal
}

// bracketTop is the sentinel upper bound for the highest bracket.
var bracketTop = decimal.NewFromInt(999999999)

// OrdinaryTax computes progressive tax on already-reduced taxable income
// (the caller subtracts the standard deduction or basic personal amount
// first). Zero or negative taxable income yields zero tax.
func OrdinaryTax(brackets []TaxBracket, taxableIncome decimal.Decimal) decimal.Decimal {
	if taxableIncome.LessThanOrEqual(decimal.Zero) {
		return decimal.Zero
	}

	var total decimal.Decimal
	for _, bracket := range brackets {
		if taxableIncome.LessThanOrEqual(bracket.Min) {
			break
		}
		incomeInBracket := decimal.Min(taxableIncome, bracket.Max).Sub(bracket.Min)
		if incomeInBracket.GreaterThan(decimal.Zero) {
			total = total.Add(incomeInBracket.Mul(bracket.Rate))
		}
	}

	return total
}

// StackedGainsTax computes capital gains tax under the stacking model: gains
// sit on top of ordinary taxable income and fill the gains brackets from
// wherever ordinary income left off. Low ordinary income therefore absorbs
// part or all of the 0% bracket.
func StackedGainsTax(brackets []TaxBracket, gains, ordinaryTaxableIncome decimal.Decimal) decimal.Decimal {
	if gains.LessThanOrEqual(decimal.Zero) {
		return decimal.Zero
	}
	if ordinaryTaxableIncome.LessThan(decimal.Zero) {
		ordinaryTaxableIncome = decimal.Zero
	}

	var total decimal.Decimal
	remaining := gains
	for _, bracket := range brackets {
		if remaining.LessThanOrEqual(decimal.Zero) {
			break
		}
		// The floor for gains in this bracket is the bracket start or the
		// top of ordinary income, whichever is higher.
		floor := decimal.Max(bracket.Min, ordinaryTaxableIncome)
		room := bracket.Max.Sub(floor)
		if room.LessThanOrEqual(decimal.Zero) {
			continue
		}
		taxedHere := decimal.Min(remaining, room)
		total = total.Add(taxedHere.Mul(bracket.Rate))
		remaining = remaining.Sub(taxedHere)
	}

	return total
}

// deductTaxable applies a deduction or personal-amount reduction, floored
// at zero.
func deductTaxable(grossIncome, deduction decimal.Decimal) decimal.Decimal {
	taxable := grossIncome.Sub(deduction)
	if taxable.LessThan(decimal.Zero) {
		return decimal.Zero
	}
	return taxable
}
