package domain

import (
	"github.com/shopspring/decimal"
)

// FilingStatus is the federal filing status used to select brackets and thresholds
type FilingStatus string

const (
	FilingSingle          FilingStatus = "single"
	FilingMarriedJoint    FilingStatus = "mfj"
	FilingMarriedSeparate FilingStatus = "mfs"
	FilingHeadOfHousehold FilingStatus = "hoh"
)

// FilingStatuses lists every supported filing status in display order
var FilingStatuses = []FilingStatus{FilingSingle, FilingMarriedJoint, FilingMarriedSeparate, FilingHeadOfHousehold}

// IsValid reports whether the status is one of the supported values
func (fs FilingStatus) IsValid() bool {
	switch fs {
	case FilingSingle, FilingMarriedJoint, FilingMarriedSeparate, FilingHeadOfHousehold:
		return true
	}
	return false
}

// IsMarried reports whether the status describes a married household
func (fs FilingStatus) IsMarried() bool {
	return fs == FilingMarriedJoint || fs == FilingMarriedSeparate
}

func (fs FilingStatus) String() string {
	switch fs {
	case FilingSingle:
		return "Single"
	case FilingMarriedJoint:
		return "Married Filing Jointly"
	case FilingMarriedSeparate:
		return "Married Filing Separately"
	case FilingHeadOfHousehold:
		return "Head of Household"
	default:
		return "Unknown"
	}
}

// StrategyKind selects how the yearly conversion amount is resolved
type StrategyKind string

const (
	StrategyNone        StrategyKind = "none"
	StrategyFixedAmount StrategyKind = "fixed_amount"
	StrategyFillBracket StrategyKind = "fill_bracket"
)

// AllocationMode controls how a household conversion is split between spouses
type AllocationMode string

const (
	AllocationCombined AllocationMode = "combined"
	AllocationSeparate AllocationMode = "separate"
)

// ConversionStrategy describes the conversion selector and its parameters.
// TargetBracket is a marginal rate (0.12 for the 12% bracket).
// StartYear/EndYear bound the years in which conversions happen; zero means open.
type ConversionStrategy struct {
	Kind          StrategyKind    `yaml:"kind" json:"kind"`
	Amount        decimal.Decimal `yaml:"amount" json:"amount"`
	SpouseAmount  decimal.Decimal `yaml:"spouse_amount" json:"spouseAmount"`
	TargetBracket decimal.Decimal `yaml:"target_bracket" json:"targetBracket"`
	Allocation    AllocationMode  `yaml:"allocation" json:"allocation"`
	StartYear     int             `yaml:"start_year" json:"startYear,omitempty"`
	EndYear       int             `yaml:"end_year" json:"endYear,omitempty"`
}

// ActiveIn reports whether conversions are allowed in the given year
func (cs ConversionStrategy) ActiveIn(year int) bool {
	if cs.Kind == StrategyNone || cs.Kind == "" {
		return false
	}
	if cs.StartYear != 0 && year < cs.StartYear {
		return false
	}
	if cs.EndYear != 0 && year > cs.EndYear {
		return false
	}
	return true
}

// AccountBalances holds traditional and Roth balances for the primary and the spouse
type AccountBalances struct {
	Traditional       decimal.Decimal `yaml:"traditional" json:"traditional"`
	Roth              decimal.Decimal `yaml:"roth" json:"roth"`
	SpouseTraditional decimal.Decimal `yaml:"spouse_traditional" json:"spouseTraditional"`
	SpouseRoth        decimal.Decimal `yaml:"spouse_roth" json:"spouseRoth"`
}

// TotalTraditional returns the household pre-tax balance
func (ab AccountBalances) TotalTraditional() decimal.Decimal {
	return ab.Traditional.Add(ab.SpouseTraditional)
}

// TotalRoth returns the household Roth balance
func (ab AccountBalances) TotalRoth() decimal.Decimal {
	return ab.Roth.Add(ab.SpouseRoth)
}

// SocialSecurityConfig holds benefit amounts in start-year dollars
type SocialSecurityConfig struct {
	AnnualBenefit       decimal.Decimal `yaml:"annual_benefit" json:"annualBenefit"`
	ClaimAge            int             `yaml:"claim_age" json:"claimAge"`
	SpouseAnnualBenefit decimal.Decimal `yaml:"spouse_annual_benefit" json:"spouseAnnualBenefit"`
	SpouseClaimAge      int             `yaml:"spouse_claim_age" json:"spouseClaimAge"`
	COLA                decimal.Decimal `yaml:"cola" json:"cola"`
}

// CharitableConfig controls the yearly giving plan.
// Schedule entries override the annual amount for specific years.
type CharitableConfig struct {
	Enabled            bool                    `yaml:"enabled" json:"enabled"`
	AnnualAmount       decimal.Decimal         `yaml:"annual_amount" json:"annualAmount"`
	UseQCD             bool                    `yaml:"use_qcd" json:"useQcd"`
	Bunching           bool                    `yaml:"bunching" json:"bunching"`
	BunchingCycleYears int                     `yaml:"bunching_cycle_years" json:"bunchingCycleYears"`
	Schedule           map[int]decimal.Decimal `yaml:"schedule" json:"schedule,omitempty"`
	OpportunityWindow  decimal.Decimal         `yaml:"opportunity_window" json:"opportunityWindow"`
}

// StateTaxConfig selects the resident state and an optional single relocation
type StateTaxConfig struct {
	ResidentState    string `yaml:"resident_state" json:"residentState"`
	RelocationYear   int    `yaml:"relocation_year" json:"relocationYear,omitempty"`
	DestinationState string `yaml:"destination_state" json:"destinationState,omitempty"`
}

// ActiveState returns the state code in force for a year
func (sc StateTaxConfig) ActiveState(year int) (string, bool) {
	if sc.RelocationYear != 0 && sc.DestinationState != "" && year >= sc.RelocationYear {
		return sc.DestinationState, true
	}
	return sc.ResidentState, false
}

// ACAConfig describes marketplace coverage for years before Medicare
type ACAConfig struct {
	Enrolled         bool            `yaml:"enrolled" json:"enrolled"`
	HouseholdSize    int             `yaml:"household_size" json:"householdSize"`
	BenchmarkPremium decimal.Decimal `yaml:"benchmark_premium" json:"benchmarkPremium"`
}

// ScenarioConfig is the fully resolved input to one simulation run.
// It is never mutated by the engine; variations are produced with Clone.
type ScenarioConfig struct {
	Name             string          `json:"name"`
	StartYear        int             `json:"startYear"`
	StartAge         int             `json:"startAge"`
	SpouseStartAge   int             `json:"spouseStartAge,omitempty"`
	Years            int             `json:"years"`
	FilingStatus     FilingStatus    `json:"filingStatus"`
	Balances         AccountBalances `json:"balances"`
	BaseIncome       decimal.Decimal `json:"baseIncome"`
	SpouseBaseIncome decimal.Decimal `json:"spouseBaseIncome"`
	IncomeGrowthRate decimal.Decimal `json:"incomeGrowthRate"`
	CapitalGains     decimal.Decimal `json:"capitalGains"`
	// TaxExemptInterest counts toward provisional income and MAGI only
	TaxExemptInterest  decimal.Decimal      `json:"taxExemptInterest"`
	ItemizedDeductions decimal.Decimal      `json:"itemizedDeductions"`
	SocialSecurity     SocialSecurityConfig `json:"socialSecurity"`
	RMDStartAge        int                  `json:"rmdStartAge"`
	SpouseRMDStartAge  int                  `json:"spouseRmdStartAge,omitempty"`
	Strategy           ConversionStrategy   `json:"strategy"`
	ExpectedReturn     decimal.Decimal      `json:"expectedReturn"`
	FutureTaxRate      decimal.Decimal      `json:"futureTaxRate"`
	Charitable         CharitableConfig     `json:"charitable"`
	State              *StateTaxConfig      `json:"state,omitempty"`
	ACA                ACAConfig            `json:"aca"`
	CompareMFJvsMFS    bool                 `json:"compareMfjVsMfs"`
}

// HasSpouse reports whether the scenario models a second person
func (sc ScenarioConfig) HasSpouse() bool {
	return sc.SpouseStartAge > 0
}

// EndYear is the last simulated calendar year
func (sc ScenarioConfig) EndYear() int {
	return sc.StartYear + sc.Years - 1
}

// Clone returns a deep copy so callers can vary fields without sharing maps or pointers
func (sc ScenarioConfig) Clone() ScenarioConfig {
	out := sc
	if sc.Charitable.Schedule != nil {
		out.Charitable.Schedule = make(map[int]decimal.Decimal, len(sc.Charitable.Schedule))
		for k, v := range sc.Charitable.Schedule {
			out.Charitable.Schedule[k] = v
		}
	}
	if sc.State != nil {
		st := *sc.State
		out.State = &st
	}
	return out
}
