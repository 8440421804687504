package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/smithgotsurf/retirement-planner/internal/domain"
	"github.com/smithgotsurf/retirement-planner/internal/policy"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const validUSConfig = `
country: us
profile:
  current_age: 45
  retirement_age: 65
  life_expectancy: 90
  filing_status: married_joint
  regional_flat_rate: 0.05
  social_security_monthly: 2500
  social_security_start_age: 67
  target_annual_spending: 80000
assumptions:
  inflation_rate: 0.025
  safe_withdrawal_rate: 0.04
  retirement_return_rate: 0.05
accounts:
  - id: 401k
    name: Workplace 401k
    type: 401k
    balance: 350000
    annual_contribution: 23000
    contribution_growth: 0.02
    return_rate: 0.07
    match_rate: 0.5
    match_cap: 6000
  - id: roth
    name: Roth IRA
    type: roth_ira
    balance: 80000
    annual_contribution: 7000
    return_rate: 0.07
  - id: brokerage
    name: Taxable brokerage
    type: brokerage
    balance: 120000
    annual_contribution: 12000
    return_rate: 0.06
income_streams:
  - id: pension
    name: Company pension
    monthly_amount: 800
    start_age: 65
`

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "input.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestLoadFromFile(t *testing.T) {
	parser := NewInputParser()
	path := writeConfig(t, validUSConfig)

	config, err := parser.LoadFromFile(path, policy.NewUSPolicy())
	require.NoError(t, err)

	assert.Equal(t, "us", config.Country)
	assert.Equal(t, 45, config.Profile.CurrentAge)
	assert.Equal(t, domain.FilingMarriedJoint, config.Profile.FilingStatus)
	assert.Len(t, config.Accounts, 3)
	assert.True(t, config.Accounts[0].Balance.Equal(decimal.NewFromInt(350000)))
	assert.True(t, config.Assumptions.SafeWithdrawalRate.Equal(decimal.NewFromFloat(0.04)))
	require.Len(t, config.Streams, 1)
	assert.Equal(t, "pension", config.Streams[0].ID)
}

func TestLoadFromFileMissing(t *testing.T) {
	parser := NewInputParser()
	_, err := parser.LoadFromFile("/nonexistent/input.yaml", policy.NewUSPolicy())
	assert.Error(t, err)
}

func TestLoadFromFileBadYAML(t *testing.T) {
	parser := NewInputParser()
	path := writeConfig(t, "accounts: [unclosed")
	_, err := parser.LoadFromFile(path, policy.NewUSPolicy())
	assert.Error(t, err)
}

func TestPeekCountry(t *testing.T) {
	path := writeConfig(t, "country: canada\n")
	country, err := PeekCountry(path)
	require.NoError(t, err)
	assert.Equal(t, "canada", country)

	// Files without a country default to US.
	path = writeConfig(t, "profile:\n  current_age: 50\n")
	country, err = PeekCountry(path)
	require.NoError(t, err)
	assert.Equal(t, "us", country)
}

func TestValidateConfiguration(t *testing.T) {
	pol := policy.NewUSPolicy()
	parser := NewInputParser()

	valid := func() *Configuration {
		return &Configuration{
			Country: "us",
			Profile: domain.Profile{
				CurrentAge:     45,
				RetirementAge:  65,
				LifeExpectancy: 90,
			},
			Assumptions: domain.Assumptions{
				InflationRate:      decimal.NewFromFloat(0.025),
				SafeWithdrawalRate: decimal.NewFromFloat(0.04),
			},
			Accounts: []domain.Account{{
				ID:      "401k",
				Type:    domain.AccountType401k,
				Balance: decimal.NewFromInt(100000),
			}},
		}
	}

	tests := []struct {
		name     string
		mutate   func(*Configuration)
		errorMsg string
	}{
		{
			name:   "Valid configuration",
			mutate: func(c *Configuration) {},
		},
		{
			name:     "Current age not positive",
			mutate:   func(c *Configuration) { c.Profile.CurrentAge = 0 },
			errorMsg: "current age must be positive",
		},
		{
			name:     "Retirement before current age",
			mutate:   func(c *Configuration) { c.Profile.RetirementAge = 40 },
			errorMsg: "must be less than retirement age",
		},
		{
			name:     "Life expectancy before retirement",
			mutate:   func(c *Configuration) { c.Profile.LifeExpectancy = 60 },
			errorMsg: "must be less than life expectancy",
		},
		{
			name:     "Inflation rate out of range",
			mutate:   func(c *Configuration) { c.Assumptions.InflationRate = decimal.NewFromFloat(0.30) },
			errorMsg: "inflation rate",
		},
		{
			name:     "Safe withdrawal rate negative",
			mutate:   func(c *Configuration) { c.Assumptions.SafeWithdrawalRate = decimal.NewFromFloat(-0.01) },
			errorMsg: "safe withdrawal rate",
		},
		{
			name:     "Retirement return rate out of range",
			mutate:   func(c *Configuration) { c.Assumptions.RetirementReturnRate = decimal.NewFromFloat(0.60) },
			errorMsg: "retirement return rate",
		},
		{
			name:     "No accounts",
			mutate:   func(c *Configuration) { c.Accounts = nil },
			errorMsg: "at least one account",
		},
		{
			name:     "Account missing id",
			mutate:   func(c *Configuration) { c.Accounts[0].ID = "" },
			errorMsg: "id is required",
		},
		{
			name:     "Negative balance",
			mutate:   func(c *Configuration) { c.Accounts[0].Balance = decimal.NewFromInt(-1) },
			errorMsg: "balance cannot be negative",
		},
		{
			name:     "Account type from another jurisdiction",
			mutate:   func(c *Configuration) { c.Accounts[0].Type = domain.AccountTypeRRSP },
			errorMsg: "not recognized",
		},
		{
			name: "Duplicate account ids",
			mutate: func(c *Configuration) {
				c.Accounts = append(c.Accounts, c.Accounts[0])
			},
			errorMsg: "duplicate account id",
		},
		{
			name: "Stream missing id",
			mutate: func(c *Configuration) {
				c.Streams = []domain.IncomeStream{{MonthlyAmount: decimal.NewFromInt(100)}}
			},
			errorMsg: "id is required",
		},
		{
			name: "Stream with unknown treatment",
			mutate: func(c *Configuration) {
				c.Streams = []domain.IncomeStream{{ID: "x", Treatment: "deferred"}}
			},
			errorMsg: "unknown treatment",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			config := valid()
			tt.mutate(config)
			err := parser.ValidateConfiguration(config, pol)
			if tt.errorMsg == "" {
				assert.NoError(t, err)
			} else {
				require.Error(t, err)
				assert.Contains(t, err.Error(), tt.errorMsg)
			}
		})
	}
}

func TestNormalizeWithdrawalStartAge(t *testing.T) {
	parser := NewInputParser()
	config := &Configuration{
		Accounts: []domain.Account{
			{ID: "401k", Type: domain.AccountType401k},
			{ID: "roth", Type: domain.AccountTypeRothIRA},
			{ID: "locked", Type: domain.AccountType401k, WithdrawalStartAge: 55},
		},
	}

	parser.Normalize(config, policy.NewUSPolicy())

	// Penalty-applicable accounts default to the first penalty-free age.
	assert.Equal(t, 60, config.Accounts[0].WithdrawalStartAge)
	// No penalty means no access restriction.
	assert.Equal(t, 0, config.Accounts[1].WithdrawalStartAge)
	// Explicit configuration wins.
	assert.Equal(t, 55, config.Accounts[2].WithdrawalStartAge)
}

func TestNormalizeCanadaHasNoAccessAges(t *testing.T) {
	parser := NewInputParser()
	config := &Configuration{
		Accounts: []domain.Account{
			{ID: "rrsp", Type: domain.AccountTypeRRSP},
			{ID: "tfsa", Type: domain.AccountTypeTFSA},
		},
	}

	parser.Normalize(config, policy.NewCanadaPolicy())

	assert.Equal(t, 0, config.Accounts[0].WithdrawalStartAge)
	assert.Equal(t, 0, config.Accounts[1].WithdrawalStartAge)
}

func TestNormalizeDefaults(t *testing.T) {
	parser := NewInputParser()
	config := &Configuration{
		Profile: domain.Profile{},
		Streams: []domain.IncomeStream{{ID: "pension"}},
	}

	parser.Normalize(config, policy.NewUSPolicy())

	assert.Equal(t, domain.FilingSingle, config.Profile.FilingStatus)
	assert.Equal(t, domain.TreatmentBenefit, config.Streams[0].Treatment)
}
