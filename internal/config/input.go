package config

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/rgehrsitz/rothplan/internal/calculation"
	"github.com/rgehrsitz/rothplan/internal/domain"
	"github.com/shopspring/decimal"
	"gopkg.in/yaml.v3"
)

// Defaults applied when a scenario file leaves a field out
var (
	DefaultFutureTaxRate     = decimal.NewFromFloat(0.22)
	DefaultOpportunityWindow = calculation.DefaultOpportunityWindow
	DefaultBunchingCycle     = 2
)

// ScenarioFile is the on-disk scenario layout. Optional fields are pointers so
// Resolve can tell "absent" from "zero".
type ScenarioFile struct {
	Name            string                      `yaml:"name"`
	StartYear       int                         `yaml:"start_year"`
	StartAge        int                         `yaml:"start_age"`
	BirthYear       int                         `yaml:"birth_year"`
	Years           int                         `yaml:"years"`
	FilingStatus    string                      `yaml:"filing_status"`
	RMDStartAge     *int                        `yaml:"rmd_start_age"`
	Spouse          *SpouseFile                 `yaml:"spouse"`
	Balances        domain.AccountBalances      `yaml:"balances"`
	Income          IncomeFile                  `yaml:"income"`
	SocialSecurity  domain.SocialSecurityConfig `yaml:"social_security"`
	Conversion      ConversionFile              `yaml:"conversion"`
	ExpectedReturn  decimal.Decimal             `yaml:"expected_return"`
	FutureTaxRate   *decimal.Decimal            `yaml:"future_tax_rate"`
	Charitable      CharitableFile              `yaml:"charitable"`
	State           *domain.StateTaxConfig      `yaml:"state"`
	ACA             ACAFile                     `yaml:"aca"`
	CompareMFJvsMFS bool                        `yaml:"compare_mfj_vs_mfs"`
}

// SpouseFile describes the second person of a married household
type SpouseFile struct {
	StartAge    int             `yaml:"start_age"`
	BirthYear   int             `yaml:"birth_year"`
	BaseIncome  decimal.Decimal `yaml:"base_income"`
	RMDStartAge *int            `yaml:"rmd_start_age"`
}

type IncomeFile struct {
	Base               decimal.Decimal `yaml:"base"`
	GrowthRate         decimal.Decimal `yaml:"growth_rate"`
	CapitalGains       decimal.Decimal `yaml:"capital_gains"`
	TaxExemptInterest  decimal.Decimal `yaml:"tax_exempt_interest"`
	ItemizedDeductions decimal.Decimal `yaml:"itemized_deductions"`
}

type ConversionFile struct {
	Strategy      string           `yaml:"strategy"`
	Amount        decimal.Decimal  `yaml:"amount"`
	SpouseAmount  *decimal.Decimal `yaml:"spouse_amount"`
	TargetBracket decimal.Decimal  `yaml:"target_bracket"`
	Allocation    string           `yaml:"allocation"`
	StartYear     int              `yaml:"start_year"`
	EndYear       int              `yaml:"end_year"`
}

type CharitableFile struct {
	Enabled            bool                    `yaml:"enabled"`
	AnnualAmount       decimal.Decimal         `yaml:"annual_amount"`
	UseQCD             bool                    `yaml:"use_qcd"`
	Bunching           bool                    `yaml:"bunching"`
	BunchingCycleYears *int                    `yaml:"bunching_cycle_years"`
	Schedule           map[int]decimal.Decimal `yaml:"schedule"`
	OpportunityWindow  *decimal.Decimal        `yaml:"opportunity_window"`
}

type ACAFile struct {
	Enrolled         bool            `yaml:"enrolled"`
	HouseholdSize    *int            `yaml:"household_size"`
	BenchmarkPremium decimal.Decimal `yaml:"benchmark_premium"`
}

// Resolve fills every default and returns the engine's input. It does not validate.
func (f ScenarioFile) Resolve() domain.ScenarioConfig {
	status := domain.FilingStatus(strings.ToLower(strings.TrimSpace(f.FilingStatus)))
	if status == "" {
		status = domain.FilingSingle
	}

	cfg := domain.ScenarioConfig{
		Name:               f.Name,
		StartYear:          f.StartYear,
		StartAge:           f.StartAge,
		Years:              f.Years,
		FilingStatus:       status,
		Balances:           f.Balances,
		BaseIncome:         f.Income.Base,
		IncomeGrowthRate:   f.Income.GrowthRate,
		CapitalGains:       f.Income.CapitalGains,
		TaxExemptInterest:  f.Income.TaxExemptInterest,
		ItemizedDeductions: f.Income.ItemizedDeductions,
		SocialSecurity:     f.SocialSecurity,
		RMDStartAge:        rmdAge(f.RMDStartAge, f.BirthYear),
		ExpectedReturn:     f.ExpectedReturn,
		FutureTaxRate:      DefaultFutureTaxRate,
		CompareMFJvsMFS:    f.CompareMFJvsMFS,
	}
	if f.FutureTaxRate != nil {
		cfg.FutureTaxRate = *f.FutureTaxRate
	}
	if f.Spouse != nil {
		cfg.SpouseStartAge = f.Spouse.StartAge
		cfg.SpouseBaseIncome = f.Spouse.BaseIncome
		cfg.SpouseRMDStartAge = rmdAge(f.Spouse.RMDStartAge, f.Spouse.BirthYear)
	}

	kind := domain.StrategyKind(strings.ToLower(f.Conversion.Strategy))
	if kind == "" {
		kind = domain.StrategyNone
	}
	allocation := domain.AllocationMode(strings.ToLower(f.Conversion.Allocation))
	if allocation == "" {
		allocation = domain.AllocationCombined
	}
	cfg.Strategy = domain.ConversionStrategy{
		Kind:          kind,
		Amount:        f.Conversion.Amount,
		SpouseAmount:  f.Conversion.Amount,
		TargetBracket: f.Conversion.TargetBracket,
		Allocation:    allocation,
		StartYear:     f.Conversion.StartYear,
		EndYear:       f.Conversion.EndYear,
	}
	if f.Conversion.SpouseAmount != nil {
		cfg.Strategy.SpouseAmount = *f.Conversion.SpouseAmount
	}

	ch := f.Charitable
	cfg.Charitable = domain.CharitableConfig{
		Enabled:           ch.Enabled,
		AnnualAmount:      ch.AnnualAmount,
		UseQCD:            ch.UseQCD,
		Bunching:          ch.Bunching,
		Schedule:          ch.Schedule,
		OpportunityWindow: DefaultOpportunityWindow,
	}
	if ch.OpportunityWindow != nil {
		cfg.Charitable.OpportunityWindow = *ch.OpportunityWindow
	}
	if ch.BunchingCycleYears != nil {
		cfg.Charitable.BunchingCycleYears = *ch.BunchingCycleYears
	} else if ch.Bunching {
		cfg.Charitable.BunchingCycleYears = DefaultBunchingCycle
	}

	if f.State != nil {
		st := *f.State
		st.ResidentState = strings.ToUpper(strings.TrimSpace(st.ResidentState))
		st.DestinationState = strings.ToUpper(strings.TrimSpace(st.DestinationState))
		cfg.State = &st
	}

	cfg.ACA = domain.ACAConfig{Enrolled: f.ACA.Enrolled, BenchmarkPremium: f.ACA.BenchmarkPremium, HouseholdSize: 1}
	if status == domain.FilingMarriedJoint {
		cfg.ACA.HouseholdSize = 2
	}
	if f.ACA.HouseholdSize != nil {
		cfg.ACA.HouseholdSize = *f.ACA.HouseholdSize
	}
	return cfg
}

func rmdAge(explicit *int, birthYear int) int {
	if explicit != nil {
		return *explicit
	}
	return calculation.RMDStartAgeForBirthYear(birthYear)
}

// InputParser handles parsing of scenario files
type InputParser struct{}

// NewInputParser creates a new input parser
func NewInputParser() *InputParser {
	return &InputParser{}
}

// LoadFromFile reads, decodes, resolves and validates a scenario file.
// A missing name defaults to the file's base name.
func (ip *InputParser) LoadFromFile(filename string) (domain.ScenarioConfig, error) {
	data, err := os.ReadFile(filename)
	if err != nil {
		return domain.ScenarioConfig{}, fmt.Errorf("failed to read file %s: %w", filename, err)
	}
	name := strings.TrimSuffix(filepath.Base(filename), filepath.Ext(filename))
	return ip.Parse(data, name)
}

// Parse decodes YAML scenario data. Unknown keys are rejected.
func (ip *InputParser) Parse(data []byte, defaultName string) (domain.ScenarioConfig, error) {
	file, err := ip.Decode(data)
	if err != nil {
		return domain.ScenarioConfig{}, err
	}
	cfg := file.Resolve()
	if cfg.Name == "" {
		cfg.Name = defaultName
	}
	if err := ip.ValidateConfiguration(cfg); err != nil {
		return domain.ScenarioConfig{}, err
	}
	return cfg, nil
}

// Decode parses YAML into a ScenarioFile without resolving defaults
func (ip *InputParser) Decode(data []byte) (ScenarioFile, error) {
	var file ScenarioFile
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(&file); err != nil {
		if errors.Is(err, io.EOF) {
			return ScenarioFile{}, fmt.Errorf("failed to parse YAML: empty document")
		}
		return ScenarioFile{}, fmt.Errorf("failed to parse YAML: %w", err)
	}
	return file, nil
}

// ValidateConfiguration validates a resolved scenario
func (ip *InputParser) ValidateConfiguration(cfg domain.ScenarioConfig) error {
	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("configuration validation failed: %w", err)
	}
	return nil
}
