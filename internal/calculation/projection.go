package calculation

import (
	"github.com/shopspring/decimal"
	"github.com/smithgotsurf/retirement-planner/internal/domain"
)

var one = decimal.NewFromInt(1)

// ProjectAccumulation compounds every account year-by-year from the current
// age to the retirement boundary. Each year the annual contribution and the
// employer match are added and the whole balance grows at the account's
// return rate; the contribution itself then grows for the following year.
// This is the upstream producer for the withdrawal simulation.
func (e *Engine) ProjectAccumulation(accounts []domain.Account, profile *domain.Profile) *domain.AccumulationResult {
	years := profile.RetirementAge - profile.CurrentAge
	if years < 0 {
		years = 0
	}

	result := &domain.AccumulationResult{
		Years:         make([]domain.AccumulationYear, 0, years),
		FinalBalances: make(map[string]decimal.Decimal, len(accounts)),
	}

	balances := make([]decimal.Decimal, len(accounts))
	contributions := make([]decimal.Decimal, len(accounts))
	for i, acct := range accounts {
		balances[i] = acct.Balance
		contributions[i] = acct.AnnualContribution
	}

	for year := 0; year < years; year++ {
		entry := domain.AccumulationYear{
			Age:      profile.CurrentAge + year + 1,
			Year:     projectionBaseYear + year + 1,
			Balances: make(map[string]decimal.Decimal, len(accounts)),
		}

		for i, acct := range accounts {
			match := employerMatch(contributions[i], acct.MatchRate, acct.MatchCap)
			balances[i] = balances[i].Add(contributions[i]).Add(match).Mul(one.Add(acct.ReturnRate))
			contributions[i] = contributions[i].Mul(one.Add(acct.ContributionGrowth))

			entry.Balances[acct.ID] = balances[i]
			entry.Total = entry.Total.Add(balances[i])
		}

		result.Years = append(result.Years, entry)
	}

	for i, acct := range accounts {
		result.FinalBalances[acct.ID] = balances[i]
		result.TotalAtRetirement = result.TotalAtRetirement.Add(balances[i])
	}

	e.Logger.Debugf("accumulation: %d years, total at retirement %s", years, result.TotalAtRetirement.StringFixed(2))

	return result
}

// employerMatch is the matched portion of a contribution, capped at an
// annual dollar amount when a cap is configured.
func employerMatch(contribution, matchRate, matchCap decimal.Decimal) decimal.Decimal {
	if matchRate.LessThanOrEqual(decimal.Zero) || contribution.LessThanOrEqual(decimal.Zero) {
		return decimal.Zero
	}
	match := contribution.Mul(matchRate)
	if matchCap.GreaterThan(decimal.Zero) && match.GreaterThan(matchCap) {
		return matchCap
	}
	return match
}
