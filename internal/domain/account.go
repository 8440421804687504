package domain

import (
	"github.com/shopspring/decimal"
)

// AccountType identifies the tax wrapper of an account. The set of meaningful
// tags depends on the selected country policy; the engine never interprets a
// tag directly and instead asks the policy to classify it.
type AccountType string

const (
	// US-style account types
	AccountType401k        AccountType = "401k"
	AccountTypeTraditional AccountType = "traditional_ira"
	AccountTypeRoth401k    AccountType = "roth_401k"
	AccountTypeRothIRA     AccountType = "roth_ira"
	AccountTypeBrokerage   AccountType = "brokerage"
	AccountTypeHSA         AccountType = "hsa"

	// Canada-style account types
	AccountTypeRRSP          AccountType = "rrsp"
	AccountTypeLIRA          AccountType = "lira"
	AccountTypeTFSA          AccountType = "tfsa"
	AccountTypeNonRegistered AccountType = "non_registered"
)

// AccountClass buckets account types by how withdrawals are taxed. The
// allocation cascade operates on classes so it never needs to branch on a
// jurisdiction-specific tag.
type AccountClass int

const (
	ClassTraditional AccountClass = iota // withdrawals are ordinary income
	ClassTaxFree                         // qualified withdrawals untaxed
	ClassTaxable                         // gains portion taxed on withdrawal
	ClassMedical                         // tax-free, drawn last among normal sources
	ClassUnknown
)

func (ac AccountClass) String() string {
	switch ac {
	case ClassTraditional:
		return "traditional"
	case ClassTaxFree:
		return "tax_free"
	case ClassTaxable:
		return "taxable"
	case ClassMedical:
		return "medical"
	default:
		return "unknown"
	}
}

// Account is a caller-owned description of a single retirement account. It is
// immutable for the duration of one simulation call; the simulator keeps its
// own private working copy of the balance.
type Account struct {
	ID                 string          `yaml:"id" json:"id"`
	Name               string          `yaml:"name" json:"name"`
	Type               AccountType     `yaml:"type" json:"type"`
	Balance            decimal.Decimal `yaml:"balance" json:"balance"`
	AnnualContribution decimal.Decimal `yaml:"annual_contribution" json:"annual_contribution"`
	ContributionGrowth decimal.Decimal `yaml:"contribution_growth" json:"contribution_growth"`
	ReturnRate         decimal.Decimal `yaml:"return_rate" json:"return_rate"`
	MatchRate          decimal.Decimal `yaml:"match_rate,omitempty" json:"match_rate,omitempty"`
	MatchCap           decimal.Decimal `yaml:"match_cap,omitempty" json:"match_cap,omitempty"`

	// WithdrawalStartAge is the first age the simulator may draw on this
	// account in a normal allocation pass. Zero means unset; config
	// normalization resolves it to a policy-driven default before any
	// simulation runs.
	WithdrawalStartAge int `yaml:"withdrawal_start_age,omitempty" json:"withdrawal_start_age,omitempty"`
}
