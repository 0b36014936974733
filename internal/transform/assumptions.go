package transform

import (
	"fmt"
	"strings"

	"github.com/rgehrsitz/rothplan/internal/domain"
	"github.com/rgehrsitz/rothplan/internal/taxdata"
	"github.com/shopspring/decimal"
)

// SetReturn changes the expected annual return on every account
type SetReturn struct {
	Rate decimal.Decimal
}

func (sr *SetReturn) Name() string { return "set_return" }

func (sr *SetReturn) Description() string {
	return fmt.Sprintf("Assume a %s%% annual return", sr.Rate.Mul(hundred).StringFixed(1))
}

func (sr *SetReturn) Validate(domain.ScenarioConfig) error {
	if sr.Rate.LessThan(decimal.NewFromFloat(-0.5)) || sr.Rate.GreaterThan(decimal.NewFromFloat(0.5)) {
		return NewTransformError(sr.Name(), "validate", fmt.Sprintf("rate must be between -0.5 and 0.5, got %s", sr.Rate.String()), nil)
	}
	return nil
}

func (sr *SetReturn) Apply(base domain.ScenarioConfig) (domain.ScenarioConfig, error) {
	modified := base.Clone()
	modified.ExpectedReturn = sr.Rate
	return modified, nil
}

// Relocate moves the household to State starting in Year. Without a state
// overlay the household starts out federal-only.
type Relocate struct {
	State string
	Year  int
}

func (r *Relocate) Name() string { return "relocate" }

func (r *Relocate) Description() string {
	return fmt.Sprintf("Move to %s in %d", strings.ToUpper(r.State), r.Year)
}

func (r *Relocate) Validate(base domain.ScenarioConfig) error {
	if strings.TrimSpace(r.State) == "" {
		return NewTransformError(r.Name(), "validate", "state cannot be empty", nil)
	}
	if r.Year < base.StartYear || r.Year > base.EndYear() {
		return NewTransformError(r.Name(), "validate",
			fmt.Sprintf("year %d is outside the projection %d-%d", r.Year, base.StartYear, base.EndYear()), nil)
	}
	return nil
}

func (r *Relocate) Apply(base domain.ScenarioConfig) (domain.ScenarioConfig, error) {
	modified := base.Clone()
	resident := taxdata.FederalOnly
	if modified.State != nil && modified.State.ResidentState != "" {
		resident = modified.State.ResidentState
	}
	modified.State = &domain.StateTaxConfig{
		ResidentState:    resident,
		RelocationYear:   r.Year,
		DestinationState: strings.ToUpper(strings.TrimSpace(r.State)),
	}
	return modified, nil
}

// SetCharitable replaces the giving plan. A zero amount disables giving.
type SetCharitable struct {
	Amount   decimal.Decimal
	UseQCD   bool
	Bunching bool
}

func (sc *SetCharitable) Name() string { return "set_charitable" }

func (sc *SetCharitable) Description() string {
	if !sc.Amount.IsPositive() {
		return "No charitable giving"
	}
	how := "cash"
	if sc.UseQCD {
		how = "QCD first"
	}
	if sc.Bunching {
		how += ", bunched"
	}
	return fmt.Sprintf("Give $%s a year (%s)", sc.Amount.StringFixed(0), how)
}

func (sc *SetCharitable) Validate(domain.ScenarioConfig) error {
	if sc.Amount.IsNegative() {
		return NewTransformError(sc.Name(), "validate", "amount cannot be negative", nil)
	}
	return nil
}

func (sc *SetCharitable) Apply(base domain.ScenarioConfig) (domain.ScenarioConfig, error) {
	modified := base.Clone()
	ch := modified.Charitable
	ch.Enabled = sc.Amount.IsPositive()
	ch.AnnualAmount = sc.Amount
	ch.UseQCD = sc.UseQCD
	ch.Bunching = sc.Bunching
	if sc.Bunching && ch.BunchingCycleYears < 1 {
		ch.BunchingCycleYears = 2
	}
	ch.Schedule = nil
	modified.Charitable = ch
	return modified, nil
}

// CompareMFS requests the married-filing-separately comparison each year
type CompareMFS struct{}

func (c *CompareMFS) Name() string        { return "compare_mfs" }
func (c *CompareMFS) Description() string { return "Compare joint and separate returns" }

func (c *CompareMFS) Validate(base domain.ScenarioConfig) error {
	if base.FilingStatus != domain.FilingMarriedJoint || !base.HasSpouse() {
		return NewTransformError(c.Name(), "validate", "requires a married couple filing jointly", nil)
	}
	return nil
}

func (c *CompareMFS) Apply(base domain.ScenarioConfig) (domain.ScenarioConfig, error) {
	modified := base.Clone()
	modified.CompareMFJvsMFS = true
	return modified, nil
}

// DelaySSClaim changes the Social Security claiming ages. Zero leaves an age unchanged.
type DelaySSClaim struct {
	Age       int
	SpouseAge int
}

func (d *DelaySSClaim) Name() string { return "delay_ss" }

func (d *DelaySSClaim) Description() string {
	if d.SpouseAge != 0 {
		return fmt.Sprintf("Claim Social Security at %d (spouse at %d)", d.Age, d.SpouseAge)
	}
	return fmt.Sprintf("Claim Social Security at %d", d.Age)
}

func (d *DelaySSClaim) Validate(base domain.ScenarioConfig) error {
	for _, age := range []int{d.Age, d.SpouseAge} {
		if age != 0 && (age < 62 || age > 70) {
			return NewTransformError(d.Name(), "validate", fmt.Sprintf("claim age must be between 62 and 70, got %d", age), nil)
		}
	}
	if d.SpouseAge != 0 && !base.HasSpouse() {
		return NewTransformError(d.Name(), "validate", "spouse age given without a spouse", nil)
	}
	return nil
}

func (d *DelaySSClaim) Apply(base domain.ScenarioConfig) (domain.ScenarioConfig, error) {
	modified := base.Clone()
	if d.Age != 0 {
		modified.SocialSecurity.ClaimAge = d.Age
	}
	if d.SpouseAge != 0 {
		modified.SocialSecurity.SpouseClaimAge = d.SpouseAge
	}
	return modified, nil
}
