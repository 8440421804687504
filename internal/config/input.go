package config

import (
	"fmt"
	"os"

	"github.com/shopspring/decimal"
	"github.com/smithgotsurf/retirement-planner/internal/domain"
	"github.com/smithgotsurf/retirement-planner/internal/policy"
	"gopkg.in/yaml.v3"
)

// Configuration is the full parsed input file.
type Configuration struct {
	Country     string                `yaml:"country" json:"country"`
	Profile     domain.Profile        `yaml:"profile" json:"profile"`
	Assumptions domain.Assumptions    `yaml:"assumptions" json:"assumptions"`
	Accounts    []domain.Account      `yaml:"accounts" json:"accounts"`
	Streams     []domain.IncomeStream `yaml:"income_streams,omitempty" json:"income_streams,omitempty"`
}

// InputParser handles parsing of input configuration files.
type InputParser struct{}

// NewInputParser creates a new input parser.
func NewInputParser() *InputParser {
	return &InputParser{}
}

// LoadFromFile loads, validates, and normalizes a configuration from a YAML
// file. The returned configuration is ready to hand to the engine.
func (ip *InputParser) LoadFromFile(filename string, pol policy.CountryPolicy) (*Configuration, error) {
	data, err := os.ReadFile(filename)
	if err != nil {
		return nil, fmt.Errorf("failed to read file %s: %w", filename, err)
	}

	var config Configuration
	if err := yaml.Unmarshal(data, &config); err != nil {
		return nil, fmt.Errorf("failed to parse YAML: %w", err)
	}

	if err := ip.ValidateConfiguration(&config, pol); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}

	ip.Normalize(&config, pol)
	return &config, nil
}

// PeekCountry reads only the country field from an input file so the caller
// can resolve the policy before full validation. Files without a country
// default to "us".
func PeekCountry(filename string) (string, error) {
	data, err := os.ReadFile(filename)
	if err != nil {
		return "", fmt.Errorf("failed to read file %s: %w", filename, err)
	}
	var peek struct {
		Country string `yaml:"country"`
	}
	if err := yaml.Unmarshal(data, &peek); err != nil {
		return "", fmt.Errorf("failed to parse YAML: %w", err)
	}
	if peek.Country == "" {
		return "us", nil
	}
	return peek.Country, nil
}

// ValidateConfiguration checks the caller-responsibility invariants the
// engine itself does not enforce: age ordering, rate sanity, and account
// types the policy knows how to classify.
func (ip *InputParser) ValidateConfiguration(config *Configuration, pol policy.CountryPolicy) error {
	p := &config.Profile
	if p.CurrentAge <= 0 {
		return fmt.Errorf("current age must be positive, got %d", p.CurrentAge)
	}
	if p.CurrentAge >= p.RetirementAge {
		return fmt.Errorf("current age (%d) must be less than retirement age (%d)", p.CurrentAge, p.RetirementAge)
	}
	if p.RetirementAge >= p.LifeExpectancy {
		return fmt.Errorf("retirement age (%d) must be less than life expectancy (%d)", p.RetirementAge, p.LifeExpectancy)
	}

	if err := ip.validateAssumptions(&config.Assumptions); err != nil {
		return err
	}

	if len(config.Accounts) == 0 {
		return fmt.Errorf("at least one account is required")
	}
	seen := make(map[string]bool, len(config.Accounts))
	for i, acct := range config.Accounts {
		if err := ip.validateAccount(i, &acct, pol); err != nil {
			return err
		}
		if seen[acct.ID] {
			return fmt.Errorf("duplicate account id %q", acct.ID)
		}
		seen[acct.ID] = true
	}

	for i, stream := range config.Streams {
		if err := ip.validateStream(i, &stream); err != nil {
			return err
		}
	}

	return nil
}

func (ip *InputParser) validateAssumptions(a *domain.Assumptions) error {
	if a.InflationRate.LessThan(decimal.NewFromFloat(-0.10)) || a.InflationRate.GreaterThan(decimal.NewFromFloat(0.20)) {
		return fmt.Errorf("inflation rate must be between -10%% and 20%%, got %s%%",
			a.InflationRate.Mul(decimal.NewFromInt(100)).StringFixed(2))
	}
	if a.SafeWithdrawalRate.LessThan(decimal.Zero) || a.SafeWithdrawalRate.GreaterThan(decimal.NewFromFloat(0.20)) {
		return fmt.Errorf("safe withdrawal rate must be between 0%% and 20%%, got %s%%",
			a.SafeWithdrawalRate.Mul(decimal.NewFromInt(100)).StringFixed(2))
	}
	if a.RetirementReturnRate.LessThan(decimal.NewFromFloat(-0.50)) || a.RetirementReturnRate.GreaterThan(decimal.NewFromFloat(0.50)) {
		return fmt.Errorf("retirement return rate must be between -50%% and 50%%, got %s%%",
			a.RetirementReturnRate.Mul(decimal.NewFromInt(100)).StringFixed(2))
	}
	return nil
}

func (ip *InputParser) validateAccount(index int, acct *domain.Account, pol policy.CountryPolicy) error {
	if acct.ID == "" {
		return fmt.Errorf("account %d: id is required", index)
	}
	if acct.Balance.LessThan(decimal.Zero) {
		return fmt.Errorf("account %s: balance cannot be negative", acct.ID)
	}
	if acct.AnnualContribution.LessThan(decimal.Zero) {
		return fmt.Errorf("account %s: annual contribution cannot be negative", acct.ID)
	}
	if pol.ClassifyAccount(acct.Type) == domain.ClassUnknown {
		return fmt.Errorf("account %s: type %q is not recognized by the %s policy", acct.ID, acct.Type, pol.Name())
	}
	return nil
}

func (ip *InputParser) validateStream(index int, stream *domain.IncomeStream) error {
	if stream.ID == "" {
		return fmt.Errorf("income stream %d: id is required", index)
	}
	if stream.MonthlyAmount.LessThan(decimal.Zero) {
		return fmt.Errorf("income stream %s: monthly amount cannot be negative", stream.ID)
	}
	switch stream.Treatment {
	case domain.TreatmentBenefit, domain.TreatmentTaxable, domain.TreatmentTaxFree, "":
	default:
		return fmt.Errorf("income stream %s: unknown treatment %q", stream.ID, stream.Treatment)
	}
	return nil
}

// Normalize resolves optional fields once, before any simulation runs, so
// the engine never checks for their presence per use site. Accounts without
// a configured withdrawal-start age get a policy-driven default: the first
// penalty-free age for penalty-applicable types, immediate access otherwise.
func (ip *InputParser) Normalize(config *Configuration, pol policy.CountryPolicy) {
	for i := range config.Accounts {
		acct := &config.Accounts[i]
		if acct.WithdrawalStartAge != 0 {
			continue
		}
		info := pol.PenaltyInfo(acct.Type)
		if info.Applies {
			acct.WithdrawalStartAge = int(info.PenaltyAge.Ceil().IntPart())
		}
	}

	for i := range config.Streams {
		if config.Streams[i].Treatment == "" {
			config.Streams[i].Treatment = domain.TreatmentBenefit
		}
	}

	if config.Profile.FilingStatus == "" {
		config.Profile.FilingStatus = domain.FilingSingle
	}
}
