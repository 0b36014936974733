package domain

import (
	"fmt"
	"sort"
	"strings"

	"github.com/shopspring/decimal"
)

// MaxSimulationYears bounds the projection horizon
const MaxSimulationYears = 100

// ValidationError collects every problem found in a scenario so the caller sees them at once
type ValidationError struct {
	Problems []string
}

func (e *ValidationError) Error() string {
	if len(e.Problems) == 1 {
		return "invalid scenario: " + e.Problems[0]
	}
	return fmt.Sprintf("invalid scenario (%d problems): %s", len(e.Problems), strings.Join(e.Problems, "; "))
}

func (e *ValidationError) add(format string, args ...any) {
	e.Problems = append(e.Problems, fmt.Sprintf(format, args...))
}

// Validate checks the structural rules of a scenario. Table-dependent checks
// (known state codes, existing bracket rates) are done by the engine.
func (sc ScenarioConfig) Validate() error {
	ve := &ValidationError{}

	if sc.Years <= 0 {
		ve.add("years must be positive, got %d", sc.Years)
	} else if sc.Years > MaxSimulationYears {
		ve.add("years must be at most %d, got %d", MaxSimulationYears, sc.Years)
	}
	if sc.StartYear < 1900 || sc.StartYear > 2200 {
		ve.add("start year %d is out of range", sc.StartYear)
	}
	if sc.StartAge < 0 || sc.StartAge > 120 {
		ve.add("start age %d is out of range", sc.StartAge)
	}
	if sc.SpouseStartAge < 0 || sc.SpouseStartAge > 120 {
		ve.add("spouse start age %d is out of range", sc.SpouseStartAge)
	}
	if !sc.FilingStatus.IsValid() {
		ve.add("unknown filing status %q", string(sc.FilingStatus))
	}
	switch {
	case sc.HasSpouse() && sc.FilingStatus == FilingMarriedSeparate:
		// one mfs return cannot carry both spouses
		ve.add("a spouse on filing status mfs would be priced as one return; use mfj with compare_mfj_vs_mfs")
	case sc.HasSpouse() && !sc.FilingStatus.IsMarried():
		ve.add("a spouse requires filing status mfj, got %s", sc.FilingStatus)
	}

	nonNegative := map[string]decimal.Decimal{
		"traditional balance":        sc.Balances.Traditional,
		"roth balance":               sc.Balances.Roth,
		"spouse traditional balance": sc.Balances.SpouseTraditional,
		"spouse roth balance":        sc.Balances.SpouseRoth,
		"base income":                sc.BaseIncome,
		"spouse base income":         sc.SpouseBaseIncome,
		"capital gains":              sc.CapitalGains,
		"tax-exempt interest":        sc.TaxExemptInterest,
		"itemized deductions":        sc.ItemizedDeductions,
		"social security benefit":    sc.SocialSecurity.AnnualBenefit,
		"spouse social security":     sc.SocialSecurity.SpouseAnnualBenefit,
		"charitable annual amount":   sc.Charitable.AnnualAmount,
		"charitable window":          sc.Charitable.OpportunityWindow,
		"aca benchmark premium":      sc.ACA.BenchmarkPremium,
	}
	for _, name := range sortedKeys(nonNegative) {
		if nonNegative[name].IsNegative() {
			ve.add("%s cannot be negative, got %s", name, nonNegative[name].String())
		}
	}
	if !sc.HasSpouse() {
		if sc.Balances.SpouseTraditional.IsPositive() || sc.Balances.SpouseRoth.IsPositive() || sc.SpouseBaseIncome.IsPositive() {
			ve.add("spouse balances or income given without a spouse start age")
		}
	}
	for year, amount := range sc.Charitable.Schedule {
		if amount.IsNegative() {
			ve.add("charitable schedule amount for %d cannot be negative", year)
		}
	}
	if sc.Charitable.Bunching && sc.Charitable.BunchingCycleYears < 1 {
		ve.add("bunching requires a cycle of at least one year")
	}

	if sc.RMDStartAge < 70 || sc.RMDStartAge > 80 {
		ve.add("rmd start age %d is out of range (70-80)", sc.RMDStartAge)
	}
	if sc.HasSpouse() && (sc.SpouseRMDStartAge < 70 || sc.SpouseRMDStartAge > 80) {
		ve.add("spouse rmd start age %d is out of range (70-80)", sc.SpouseRMDStartAge)
	}
	if sc.ExpectedReturn.LessThan(decimal.NewFromFloat(-0.5)) || sc.ExpectedReturn.GreaterThan(decimal.NewFromFloat(0.5)) {
		ve.add("expected return %s is out of range", sc.ExpectedReturn.String())
	}
	if sc.FutureTaxRate.IsNegative() || sc.FutureTaxRate.GreaterThanOrEqual(decimal.NewFromInt(1)) {
		ve.add("future tax rate must be in [0, 1), got %s", sc.FutureTaxRate.String())
	}

	sc.validateStrategy(ve)

	if sc.State != nil {
		if sc.State.ResidentState == "" {
			ve.add("state configuration requires a resident state")
		}
		if sc.State.RelocationYear != 0 && sc.State.DestinationState == "" {
			ve.add("relocation year %d given without a destination state", sc.State.RelocationYear)
		}
	}
	if sc.ACA.Enrolled && sc.ACA.HouseholdSize < 1 {
		ve.add("aca household size must be at least 1")
	}
	if sc.CompareMFJvsMFS && sc.FilingStatus != FilingMarriedJoint {
		ve.add("mfj vs mfs comparison requires filing status mfj")
	}

	if len(ve.Problems) > 0 {
		return ve
	}
	return nil
}

func (sc ScenarioConfig) validateStrategy(ve *ValidationError) {
	st := sc.Strategy
	switch st.Kind {
	case StrategyNone, "":
	case StrategyFixedAmount:
		if st.Amount.IsNegative() || st.SpouseAmount.IsNegative() {
			ve.add("fixed conversion amounts cannot be negative")
		}
	case StrategyFillBracket:
		if !st.TargetBracket.IsPositive() || st.TargetBracket.GreaterThanOrEqual(decimal.NewFromInt(1)) {
			ve.add("fill_bracket target must be a rate in (0, 1), got %s", st.TargetBracket.String())
		}
	default:
		ve.add("unknown conversion strategy %q", string(st.Kind))
	}
	switch st.Allocation {
	case AllocationCombined, AllocationSeparate, "":
	default:
		ve.add("unknown conversion allocation %q", string(st.Allocation))
	}
	if st.StartYear != 0 && st.EndYear != 0 && st.StartYear > st.EndYear {
		ve.add("conversion window start %d is after end %d", st.StartYear, st.EndYear)
	}
}

func sortedKeys(m map[string]decimal.Decimal) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
