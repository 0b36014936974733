package transform

import (
	"fmt"

	"github.com/rgehrsitz/rothplan/internal/domain"
	"github.com/shopspring/decimal"
)

var hundred = decimal.NewFromInt(100)

func percent(rate decimal.Decimal) string {
	return rate.Mul(hundred).StringFixed(0) + "%"
}

// NoConversion switches the strategy off; the result is the baseline plan
type NoConversion struct{}

func (nc *NoConversion) Name() string        { return "no_conversion" }
func (nc *NoConversion) Description() string { return "Do not convert" }

func (nc *NoConversion) Validate(domain.ScenarioConfig) error { return nil }

func (nc *NoConversion) Apply(base domain.ScenarioConfig) (domain.ScenarioConfig, error) {
	modified := base.Clone()
	modified.Strategy.Kind = domain.StrategyNone
	return modified, nil
}

// FixedConversion converts a fixed amount every active year.
// SpouseAmount applies under separate allocation; nil means the same as Amount.
type FixedConversion struct {
	Amount       decimal.Decimal
	SpouseAmount *decimal.Decimal
}

func (fc *FixedConversion) Name() string { return "fixed_conversion" }

func (fc *FixedConversion) Description() string {
	return fmt.Sprintf("Convert $%s per year", fc.Amount.StringFixed(0))
}

func (fc *FixedConversion) Validate(domain.ScenarioConfig) error {
	if fc.Amount.IsNegative() {
		return NewTransformError(fc.Name(), "validate", fmt.Sprintf("amount cannot be negative, got %s", fc.Amount.String()), nil)
	}
	if fc.SpouseAmount != nil && fc.SpouseAmount.IsNegative() {
		return NewTransformError(fc.Name(), "validate", "spouse amount cannot be negative", nil)
	}
	return nil
}

func (fc *FixedConversion) Apply(base domain.ScenarioConfig) (domain.ScenarioConfig, error) {
	modified := base.Clone()
	modified.Strategy.Kind = domain.StrategyFixedAmount
	modified.Strategy.Amount = fc.Amount
	modified.Strategy.SpouseAmount = fc.Amount
	if fc.SpouseAmount != nil {
		modified.Strategy.SpouseAmount = *fc.SpouseAmount
	}
	return modified, nil
}

// FillBracket converts up to the top of the ordinary bracket taxed at Rate
type FillBracket struct {
	Rate decimal.Decimal
}

func (fb *FillBracket) Name() string { return "fill_bracket" }

func (fb *FillBracket) Description() string {
	return fmt.Sprintf("Fill the %s bracket each year", percent(fb.Rate))
}

func (fb *FillBracket) Validate(domain.ScenarioConfig) error {
	if !fb.Rate.IsPositive() || fb.Rate.GreaterThanOrEqual(decimal.NewFromInt(1)) {
		return NewTransformError(fb.Name(), "validate", fmt.Sprintf("rate must be between 0 and 1, got %s", fb.Rate.String()), nil)
	}
	return nil
}

func (fb *FillBracket) Apply(base domain.ScenarioConfig) (domain.ScenarioConfig, error) {
	modified := base.Clone()
	modified.Strategy.Kind = domain.StrategyFillBracket
	modified.Strategy.TargetBracket = fb.Rate
	return modified, nil
}

// SetAllocation chooses how a couple's conversion is divided
type SetAllocation struct {
	Mode domain.AllocationMode
}

func (sa *SetAllocation) Name() string { return "set_allocation" }

func (sa *SetAllocation) Description() string {
	return fmt.Sprintf("Allocate conversions %s", sa.Mode)
}

func (sa *SetAllocation) Validate(base domain.ScenarioConfig) error {
	switch sa.Mode {
	case domain.AllocationCombined, domain.AllocationSeparate:
	default:
		return NewTransformError(sa.Name(), "validate", fmt.Sprintf("unknown mode %q", sa.Mode), nil)
	}
	if !base.HasSpouse() {
		return NewTransformError(sa.Name(), "validate", "allocation needs a spouse", nil)
	}
	return nil
}

func (sa *SetAllocation) Apply(base domain.ScenarioConfig) (domain.ScenarioConfig, error) {
	modified := base.Clone()
	modified.Strategy.Allocation = sa.Mode
	return modified, nil
}

// SetWindow limits conversions to [Start, End]; zero leaves that side open
type SetWindow struct {
	Start int
	End   int
}

func (sw *SetWindow) Name() string { return "set_window" }

func (sw *SetWindow) Description() string {
	switch {
	case sw.Start != 0 && sw.End != 0:
		return fmt.Sprintf("Convert only from %d through %d", sw.Start, sw.End)
	case sw.End != 0:
		return fmt.Sprintf("Convert only through %d", sw.End)
	case sw.Start != 0:
		return fmt.Sprintf("Convert only from %d", sw.Start)
	}
	return "Convert in every year"
}

func (sw *SetWindow) Validate(domain.ScenarioConfig) error {
	if sw.Start != 0 && sw.End != 0 && sw.Start > sw.End {
		return NewTransformError(sw.Name(), "validate", fmt.Sprintf("start %d is after end %d", sw.Start, sw.End), nil)
	}
	return nil
}

func (sw *SetWindow) Apply(base domain.ScenarioConfig) (domain.ScenarioConfig, error) {
	modified := base.Clone()
	modified.Strategy.StartYear = sw.Start
	modified.Strategy.EndYear = sw.End
	return modified, nil
}
