package calculation

import (
	"github.com/shopspring/decimal"
	"github.com/smithgotsurf/retirement-planner/internal/domain"
)

// initialBasisFraction seeds the cost basis of taxable accounts at the start
// of retirement. Per-lot history is not tracked, so basis is approximated as
// half the balance.
var initialBasisFraction = decimal.NewFromFloat(0.5)

// maxTaxableBenefitFraction is the statutory ceiling on the taxable portion
// of benefit-like income, applied uniformly to all benefit buckets.
var maxTaxableBenefitFraction = decimal.NewFromFloat(0.85)

// SimulateRetirement runs the drawdown simulation from the retirement age
// through the life expectancy age, one immutable YearlyWithdrawal record per
// year. Accumulation's final balances seed the per-account working state;
// growth is applied strictly after each year's withdrawals. The simulation
// never fails on insufficient funds: when every account, early-access ones
// included, is exhausted, realized withdrawals simply fall short of target
// spending.
func (e *Engine) SimulateRetirement(accounts []domain.Account, profile *domain.Profile, assumptions *domain.Assumptions, streams []domain.IncomeStream, accumulation *domain.AccumulationResult) *domain.RetirementResult {
	sustainableAnnual := accumulation.TotalAtRetirement.Mul(assumptions.SafeWithdrawalRate)

	result := &domain.RetirementResult{
		Years:                        make([]domain.YearlyWithdrawal, 0, profile.RetirementYears()),
		AccountDepletionAges:         make(map[string]int),
		SustainableAnnualWithdrawal:  sustainableAnnual,
		SustainableMonthlyWithdrawal: sustainableAnnual.Div(decimal.NewFromInt(12)),
	}

	states := e.seedWorkingState(accounts, accumulation)

	targetSpending := profile.TargetAnnualSpending
	if targetSpending.LessThanOrEqual(decimal.Zero) {
		targetSpending = sustainableAnnual
	}

	bracketCeiling := e.Policy.BracketFillCeiling(profile.FilingStatus)
	growthFactor := one.Add(assumptions.RetirementReturnRate)

	for age := profile.RetirementAge; age <= profile.LifeExpectancy; age++ {
		year := projectionBaseYear + (age - profile.CurrentAge)

		// Depletion is detected on the balance as it stands entering the
		// year, before any withdrawals.
		enteringBalance := decimal.Zero
		for _, st := range states {
			enteringBalance = enteringBalance.Add(st.balance)
		}
		if enteringBalance.LessThanOrEqual(decimal.Zero) && result.PortfolioDepletionAge == nil {
			depletionAge := age
			result.PortfolioDepletionAge = &depletionAge
		}

		// Non-portfolio income for the year.
		benefitIncome := e.benefitIncome(profile, age, decimal.Zero, assumptions.InflationRate)
		buckets := e.streamIncome(streams, profile, age, assumptions.InflationRate)
		streamIncome := buckets.Total()

		// Each traditional account's mandatory minimum, computed against
		// that account's own balance.
		rmdAmount := decimal.Zero
		for _, st := range states {
			st.pendingMin = decimal.Zero
			if e.Policy.IsTraditionalAccount(st.accountType) {
				st.pendingMin = e.Policy.MinimumWithdrawal(age, st.balance, st.accountType)
				rmdAmount = rmdAmount.Add(st.pendingMin)
			}
		}

		// Benefit-like income is taxable up to the statutory fraction;
		// fully-taxable streams count whole; tax-free streams not at all.
		nonPortfolioTaxable := benefitIncome.Add(buckets.Benefit).Mul(maxTaxableBenefitFraction).Add(buckets.Taxable)

		need := targetSpending.Sub(benefitIncome).Sub(streamIncome)
		alloc := e.allocateWithdrawals(states, need, bracketCeiling, nonPortfolioTaxable, age)

		for _, st := range states {
			if st.balance.LessThanOrEqual(decimal.Zero) {
				if _, seen := result.AccountDepletionAges[st.id]; !seen {
					result.AccountDepletionAges[st.id] = age
				}
			}
		}

		// Penalty scoring per recorded withdrawal.
		var penalties []domain.EarlyWithdrawalPenalty
		totalPenalties := decimal.Zero
		for _, rec := range alloc.records {
			penalty := e.Policy.EarlyWithdrawalPenalty(rec.amount, rec.accountType, age)
			if penalty.GreaterThan(decimal.Zero) {
				penalties = append(penalties, domain.EarlyWithdrawalPenalty{
					AccountID:   rec.accountID,
					AccountName: rec.accountName,
					Amount:      penalty,
				})
				totalPenalties = totalPenalties.Add(penalty)
			}
		}

		// Growth applies to what remains after this year's withdrawals.
		for _, st := range states {
			if st.balance.GreaterThan(decimal.Zero) {
				st.balance = st.balance.Mul(growthFactor)
			}
		}

		// Taxes. The flat regional rate carried on the profile is applied
		// here; policies with true progressive regional tax leave it zero.
		ordinaryIncome := alloc.ordinaryIncome.Add(nonPortfolioTaxable)
		federalTax := e.Policy.FederalTax(ordinaryIncome, profile.FilingStatus).
			Add(e.Policy.CapitalGainsTax(alloc.realizedGains, ordinaryIncome, profile.Region, profile.FilingStatus))
		regionalTax := e.Policy.RegionalTax(ordinaryIncome, profile.Region).
			Add(ordinaryIncome.Add(alloc.realizedGains).Mul(profile.RegionalFlatRate))
		totalTax := federalTax.Add(regionalTax).Add(totalPenalties)
		result.LifetimeTaxesPaid = result.LifetimeTaxesPaid.Add(totalTax)

		// Emit the year.
		withdrawals := make(map[string]decimal.Decimal, len(states))
		for _, rec := range alloc.records {
			withdrawals[rec.accountID] = withdrawals[rec.accountID].Add(rec.amount)
		}
		balances := make(map[string]decimal.Decimal, len(states))
		totalBalance := decimal.Zero
		for _, st := range states {
			balances[st.id] = st.balance
			totalBalance = totalBalance.Add(st.balance)
		}

		grossIncome := alloc.total.Add(benefitIncome).Add(streamIncome)
		result.Years = append(result.Years, domain.YearlyWithdrawal{
			Age:             age,
			Year:            year,
			Withdrawals:     withdrawals,
			Balances:        balances,
			TotalWithdrawal: alloc.total,
			BenefitIncome:   benefitIncome,
			StreamIncome:    streamIncome,
			GrossIncome:     grossIncome,
			FederalTax:      federalTax,
			RegionalTax:     regionalTax,
			TotalTax:        totalTax,
			AfterTaxIncome:  grossIncome.Sub(totalTax),
			TargetSpending:  targetSpending,
			RMDAmount:       rmdAmount,
			TotalBalance:    totalBalance,
			Penalties:       penalties,
			TotalPenalties:  totalPenalties,
		})

		e.Logger.Debugf("age %d: withdrew %s, tax %s, remaining %s",
			age, alloc.total.StringFixed(2), totalTax.StringFixed(2), totalBalance.StringFixed(2))

		targetSpending = targetSpending.Mul(one.Add(assumptions.InflationRate))
	}

	return result
}

// seedWorkingState builds the per-call mutable account array from the
// accumulation output. Accounts missing from the accumulation result fall
// back to their configured balance.
func (e *Engine) seedWorkingState(accounts []domain.Account, accumulation *domain.AccumulationResult) []*accountState {
	states := make([]*accountState, 0, len(accounts))
	for _, acct := range accounts {
		balance, ok := accumulation.FinalBalances[acct.ID]
		if !ok {
			balance = acct.Balance
		}
		st := &accountState{
			id:          acct.ID,
			name:        acct.Name,
			accountType: acct.Type,
			class:       e.Policy.ClassifyAccount(acct.Type),
			balance:     balance,
			accessAge:   acct.WithdrawalStartAge,
		}
		if st.class == domain.ClassTaxable {
			st.costBasis = balance.Mul(initialBasisFraction)
		}
		states = append(states, st)
	}
	return states
}
