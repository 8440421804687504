package calculation

import (
	"github.com/shopspring/decimal"
	"github.com/smithgotsurf/retirement-planner/internal/domain"
)

// accountState is the simulation-local working state for one account. It is
// created fresh inside each simulation call, mutated in place through the
// year loop, and never shared across calls.
type accountState struct {
	id          string
	name        string
	accountType domain.AccountType
	class       domain.AccountClass
	balance     decimal.Decimal
	costBasis   decimal.Decimal // meaningful for taxable accounts only
	accessAge   int             // 0 = accessible at any age
	pendingMin  decimal.Decimal // this year's mandatory minimum, set per year
}

// withdrawalRecord captures one non-zero withdrawal for downstream penalty
// scoring and per-account output maps.
type withdrawalRecord struct {
	accountID   string
	accountName string
	accountType domain.AccountType
	amount      decimal.Decimal
}

// allocation accumulates the year's withdrawals and their tax decomposition.
type allocation struct {
	records        []withdrawalRecord
	ordinaryIncome decimal.Decimal // traditional withdrawals
	realizedGains  decimal.Decimal // gains portion of taxable withdrawals
	total          decimal.Decimal
}

// draw withdraws up to amount from the account, capped at its balance, and
// does the class-appropriate tax bookkeeping. It returns the amount actually
// withdrawn.
func (a *allocation) draw(st *accountState, amount decimal.Decimal) decimal.Decimal {
	if amount.GreaterThan(st.balance) {
		amount = st.balance
	}
	if amount.LessThanOrEqual(decimal.Zero) {
		return decimal.Zero
	}

	switch st.class {
	case domain.ClassTraditional:
		a.ordinaryIncome = a.ordinaryIncome.Add(amount)
	case domain.ClassTaxable:
		a.realizedGains = a.realizedGains.Add(amount.Mul(gainsFraction(st)))
		// Basis shrinks in proportion to the fraction of the balance
		// withdrawn.
		withdrawnFraction := amount.Div(st.balance)
		st.costBasis = st.costBasis.Sub(st.costBasis.Mul(withdrawnFraction))
	}

	st.balance = st.balance.Sub(amount)
	a.total = a.total.Add(amount)
	a.records = append(a.records, withdrawalRecord{
		accountID:   st.id,
		accountName: st.name,
		accountType: st.accountType,
		amount:      amount,
	})
	return amount
}

// gainsFraction is the realized-gains portion of a taxable withdrawal,
// 1 - basis/balance floored at zero. When basis tracking is degenerate the
// estimate falls back to half.
func gainsFraction(st *accountState) decimal.Decimal {
	if st.balance.LessThanOrEqual(decimal.Zero) || st.costBasis.LessThanOrEqual(decimal.Zero) {
		return decimal.NewFromFloat(0.5)
	}
	fraction := one.Sub(st.costBasis.Div(st.balance))
	if fraction.LessThan(decimal.Zero) {
		return decimal.Zero
	}
	return fraction
}

// allocateWithdrawals runs the ordered withdrawal cascade for one year:
//
//  1. mandatory minimums from available traditional accounts
//  2. additional traditional withdrawals up to the bracket-fill ceiling
//  3. tax-free accounts
//  4. taxable accounts (realizing gains)
//  5. medical accounts
//  6. traditional overflow past the bracket ceiling
//  7. accounts below their access age, traditional first
//
// Steps never error on insufficient funds; unmet need is simply left unmet.
func (e *Engine) allocateWithdrawals(states []*accountState, need, bracketCeiling, nonPortfolioTaxable decimal.Decimal, age int) allocation {
	alloc := allocation{}

	available := func(st *accountState) bool {
		return st.accessAge == 0 || age >= st.accessAge
	}

	// 1. Mandatory minimums come out regardless of spending need.
	for _, st := range states {
		if !available(st) || st.pendingMin.LessThanOrEqual(decimal.Zero) {
			continue
		}
		withdrawn := alloc.draw(st, st.pendingMin)
		need = need.Sub(withdrawn)
		st.pendingMin = decimal.Zero
	}

	// 2. Fill the remaining headroom in the low brackets from traditional
	// accounts: income up to the ceiling is taxed at the lowest rates, so
	// it is the cheapest ordinary income available.
	if need.GreaterThan(decimal.Zero) {
		room := bracketCeiling.Sub(alloc.ordinaryIncome).Sub(nonPortfolioTaxable)
		if room.GreaterThan(decimal.Zero) {
			fill := decimal.Min(room, need)
			for _, st := range states {
				if fill.LessThanOrEqual(decimal.Zero) {
					break
				}
				if st.class != domain.ClassTraditional || !available(st) {
					continue
				}
				withdrawn := alloc.draw(st, fill)
				fill = fill.Sub(withdrawn)
				need = need.Sub(withdrawn)
			}
		}
	}

	// 3-5. Tax-free, then taxable, then medical.
	for _, class := range []domain.AccountClass{domain.ClassTaxFree, domain.ClassTaxable, domain.ClassMedical} {
		for _, st := range states {
			if need.LessThanOrEqual(decimal.Zero) {
				break
			}
			if st.class != class || !available(st) {
				continue
			}
			need = need.Sub(alloc.draw(st, need))
		}
	}

	// 6. Overflow into higher brackets rather than leave need unmet.
	for _, st := range states {
		if need.LessThanOrEqual(decimal.Zero) {
			break
		}
		if st.class != domain.ClassTraditional || !available(st) {
			continue
		}
		need = need.Sub(alloc.draw(st, need))
	}

	// 7. Early access as the last resort: the only path that can trigger
	// early-withdrawal penalties. Incurring a penalty beats failing to meet
	// spending.
	if need.GreaterThan(decimal.Zero) {
		for _, traditionalFirst := range []bool{true, false} {
			for _, st := range states {
				if need.LessThanOrEqual(decimal.Zero) {
					break
				}
				if available(st) {
					continue
				}
				if (st.class == domain.ClassTraditional) != traditionalFirst {
					continue
				}
				need = need.Sub(alloc.draw(st, need))
			}
		}
	}

	return alloc
}
