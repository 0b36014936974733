package conversion

import (
	"fmt"

	"github.com/rgehrsitz/rothplan/internal/domain"
	"github.com/rgehrsitz/rothplan/internal/taxdata"
	"github.com/shopspring/decimal"
)

// Resolver turns a conversion selector into per-person amounts for a year
type Resolver struct {
	Tables *taxdata.Tables
}

func NewResolver(tables *taxdata.Tables) *Resolver {
	if tables == nil {
		tables = taxdata.Default()
	}
	return &Resolver{Tables: tables}
}

// ResolveConversion resolves a single pool. Years outside the strategy window resolve to zero.
func (r *Resolver) ResolveConversion(cfg domain.ConversionStrategy, year int, status domain.FilingStatus, available, preConversionIncome decimal.Decimal) (Resolution, error) {
	if !cfg.ActiveIn(year) {
		return Resolution{Amount: decimal.Zero}, nil
	}
	strategy, err := CreateStrategy(cfg)
	if err != nil {
		return Resolution{}, err
	}
	yt, _, err := r.Tables.ForYear(year)
	if err != nil {
		return Resolution{}, err
	}
	return strategy.Resolve(ResolveContext{
		Year:                year,
		FilingStatus:        status,
		Table:               yt,
		Available:           available,
		PreConversionIncome: preConversionIncome,
	}), nil
}

// ResolveHousehold splits the year's conversion between spouses.
//
// Combined allocation resolves one household amount against combined income
// and apportions it by each spouse's share of available traditional money.
// Separate allocation resolves each spouse against their own income. A
// bracket fill on a joint return gives each spouse half the joint ceiling and
// never lets the pair together pass it.
func (r *Resolver) ResolveHousehold(cfg domain.ConversionStrategy, in HouseholdInput) (HouseholdResolution, error) {
	if in.Spouse == nil {
		res, err := r.ResolveConversion(cfg, in.Year, in.FilingStatus, in.Primary.Available, in.CombinedIncome)
		if err != nil {
			return HouseholdResolution{}, err
		}
		return HouseholdResolution{Primary: res.Amount, Spouse: decimal.Zero, Headroom: res.Headroom, Notes: res.Notes}, nil
	}
	if !cfg.ActiveIn(in.Year) {
		return HouseholdResolution{Primary: decimal.Zero, Spouse: decimal.Zero}, nil
	}

	switch cfg.Allocation {
	case domain.AllocationSeparate:
		return r.resolveSeparate(cfg, in)
	case domain.AllocationCombined, "":
		return r.resolveCombined(cfg, in)
	default:
		return HouseholdResolution{}, fmt.Errorf("unknown allocation mode %q", cfg.Allocation)
	}
}

func (r *Resolver) resolveCombined(cfg domain.ConversionStrategy, in HouseholdInput) (HouseholdResolution, error) {
	availP := nonNegative(in.Primary.Available)
	availS := nonNegative(in.Spouse.Available)
	res, err := r.ResolveConversion(cfg, in.Year, in.FilingStatus, availP.Add(availS), in.CombinedIncome)
	if err != nil {
		return HouseholdResolution{}, err
	}
	primary, spouse := apportion(res.Amount, availP, availS)
	return HouseholdResolution{Primary: primary, Spouse: spouse, Headroom: res.Headroom, Notes: res.Notes}, nil
}

func (r *Resolver) resolveSeparate(cfg domain.ConversionStrategy, in HouseholdInput) (HouseholdResolution, error) {
	if cfg.Kind == domain.StrategyFillBracket && in.FilingStatus.IsMarried() {
		return r.resolveSeparateFill(cfg, in)
	}
	primary, err := r.ResolveConversion(cfg, in.Year, in.FilingStatus, in.Primary.Available, in.Primary.Income)
	if err != nil {
		return HouseholdResolution{}, err
	}
	spouseCfg := cfg
	spouseCfg.Amount = cfg.SpouseAmount
	spouse, err := r.ResolveConversion(spouseCfg, in.Year, in.FilingStatus, in.Spouse.Available, in.Spouse.Income)
	if err != nil {
		return HouseholdResolution{}, err
	}
	return HouseholdResolution{
		Primary:  primary.Amount,
		Spouse:   spouse.Amount,
		Headroom: primary.Headroom.Add(spouse.Headroom),
		Notes:    append(primary.Notes, spouse.Notes...),
	}, nil
}

func (r *Resolver) resolveSeparateFill(cfg domain.ConversionStrategy, in HouseholdInput) (HouseholdResolution, error) {
	yt, _, err := r.Tables.ForYear(in.Year)
	if err != nil {
		return HouseholdResolution{}, err
	}
	ceiling, ok := yt.BracketCeiling(in.FilingStatus, cfg.TargetBracket)
	if !ok {
		res := NewBracketFillStrategy(cfg.TargetBracket).Resolve(ResolveContext{Year: in.Year, FilingStatus: in.FilingStatus, Table: yt})
		return HouseholdResolution{Primary: decimal.Zero, Spouse: decimal.Zero, Notes: res.Notes}, nil
	}

	half := ceiling.Div(decimal.NewFromInt(2))
	roomP := Headroom(half, in.Primary.Income)
	roomS := Headroom(half, in.Spouse.Income)
	household := Headroom(ceiling, in.CombinedIncome)
	if sum := roomP.Add(roomS); sum.GreaterThan(household) {
		roomP = roomP.Mul(household).Div(sum).Truncate(2)
		roomS = roomS.Mul(household).Div(sum).Truncate(2)
	}

	primary, cappedP := clip(roomP, nonNegative(in.Primary.Available))
	spouse, cappedS := clip(roomS, nonNegative(in.Spouse.Available))
	var notes []string
	if cappedP {
		notes = append(notes, fmt.Sprintf("primary share of the bracket limited to available balance $%s", primary.StringFixed(2)))
	}
	if cappedS {
		notes = append(notes, fmt.Sprintf("spouse share of the bracket limited to available balance $%s", spouse.StringFixed(2)))
	}
	return HouseholdResolution{Primary: primary, Spouse: spouse, Headroom: household, Notes: notes}, nil
}

// apportion splits total by balance share; neither part exceeds its own balance
func apportion(total, availP, availS decimal.Decimal) (decimal.Decimal, decimal.Decimal) {
	pool := availP.Add(availS)
	if !total.IsPositive() || !pool.IsPositive() {
		return decimal.Zero, decimal.Zero
	}
	primary := total.Mul(availP).Div(pool).Round(2)
	if primary.GreaterThan(availP) {
		primary = availP
	}
	spouse := total.Sub(primary)
	if spouse.GreaterThan(availS) {
		spouse = availS
		primary = decimal.Min(total.Sub(spouse), availP)
	}
	return primary, spouse
}

func nonNegative(v decimal.Decimal) decimal.Decimal {
	if v.IsNegative() {
		return decimal.Zero
	}
	return v
}
