package policy

import (
	"fmt"
	"sort"

	"github.com/shopspring/decimal"
	"github.com/smithgotsurf/retirement-planner/internal/domain"
)

// BenefitPayment is one government benefit stream active at a simulated age,
// in today's dollars. The benefit aggregator applies inflation.
type BenefitPayment struct {
	Name          string
	StartAge      int
	MonthlyAmount decimal.Decimal
	AnnualAmount  decimal.Decimal
}

// PenaltyInfo describes a jurisdiction's early-withdrawal penalty parameters
// for a given account type.
type PenaltyInfo struct {
	// PenaltyAge is the age at or above which withdrawals are penalty-free.
	// Fractional ages (59.5) are meaningful, so it is a decimal.
	PenaltyAge decimal.Decimal
	// PenaltyRate is the fraction of a withdrawal charged as penalty.
	PenaltyRate decimal.Decimal
	// Applies reports whether this account type is subject to the penalty
	// at all.
	Applies bool
}

// CountryPolicy supplies every jurisdiction-specific behavior the engine
// needs. The simulator calls only this interface and never branches on a
// jurisdiction tag; a policy instance is selected once at the composition
// boundary and threaded explicitly through every call.
type CountryPolicy interface {
	// Name identifies the policy ("us", "canada").
	Name() string

	// FederalTax computes national ordinary income tax on gross income,
	// applying the jurisdiction's standard deduction or basic personal
	// amount internally.
	FederalTax(income decimal.Decimal, status domain.FilingStatus) decimal.Decimal

	// RegionalTax computes state/province ordinary income tax on gross
	// income. Policies whose regional tax is a flat rate carried on the
	// Profile return zero here; the simulator applies the flat rate itself.
	RegionalTax(income decimal.Decimal, region string) decimal.Decimal

	// CapitalGainsTax computes the tax attributable to realized gains given
	// the ordinary income they stack on.
	CapitalGainsTax(gains, ordinaryIncome decimal.Decimal, region string, status domain.FilingStatus) decimal.Decimal

	// RetirementBenefits returns the government benefit streams active at
	// the given age, in today's dollars.
	RetirementBenefits(profile *domain.Profile, age int, grossIncome decimal.Decimal) []BenefitPayment

	// MinimumWithdrawal returns the mandatory minimum withdrawal for one
	// account at one age, zero below the jurisdiction's start age. It is
	// always computed against a single account's balance, never a pooled
	// portfolio balance.
	MinimumWithdrawal(age int, balance decimal.Decimal, accountType domain.AccountType) decimal.Decimal

	// IsTraditionalAccount reports whether withdrawals from the account
	// type are ordinary taxable income.
	IsTraditionalAccount(accountType domain.AccountType) bool

	// ClassifyAccount buckets an account type for the allocation cascade.
	ClassifyAccount(accountType domain.AccountType) domain.AccountClass

	// PenaltyInfo returns the early-withdrawal penalty parameters for an
	// account type.
	PenaltyInfo(accountType domain.AccountType) PenaltyInfo

	// EarlyWithdrawalPenalty computes the penalty on a single withdrawal,
	// zero at or above PenaltyInfo().PenaltyAge.
	EarlyWithdrawalPenalty(amount decimal.Decimal, accountType domain.AccountType, age int) decimal.Decimal

	// BracketFillCeiling is the gross ordinary income level that exactly
	// fills the jurisdiction's second-lowest bracket, deduction included.
	// The allocation cascade withdraws traditional balances up to this
	// level before touching tax-free sources.
	BracketFillCeiling(status domain.FilingStatus) decimal.Decimal

	// WithdrawalOrder is the policy's declarative account-type preference,
	// used for defaults and display. The allocation cascade's own ordering
	// is authoritative for tax optimization.
	WithdrawalOrder() []domain.AccountType
}

// Registry maps policy names to instances. It lives at the application's
// composition boundary; the engine itself always receives a policy
// explicitly.
type Registry struct {
	policies map[string]CountryPolicy
}

// NewRegistry creates a registry pre-populated with the shipped policies.
func NewRegistry() *Registry {
	r := &Registry{policies: make(map[string]CountryPolicy)}
	r.Register(NewUSPolicy())
	r.Register(NewCanadaPolicy())
	return r
}

// Register adds or replaces a policy.
func (r *Registry) Register(p CountryPolicy) {
	r.policies[p.Name()] = p
}

// Get returns the policy registered under name.
func (r *Registry) Get(name string) (CountryPolicy, error) {
	p, ok := r.policies[name]
	if !ok {
		return nil, fmt.Errorf("unknown country policy %q (have %v)", name, r.Names())
	}
	return p, nil
}

// Names lists registered policy names in sorted order.
func (r *Registry) Names() []string {
	names := make([]string, 0, len(r.policies))
	for name := range r.policies {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
