package conversion

import (
	"errors"

	"github.com/rgehrsitz/rothplan/internal/domain"
	"github.com/rgehrsitz/rothplan/internal/taxdata"
	"github.com/shopspring/decimal"
)

// ErrUnknownStrategy is returned by the factory for an unsupported strategy kind
var ErrUnknownStrategy = errors.New("unknown conversion strategy")

// ResolveContext provides the inputs a strategy needs for one person-year.
// PreConversionIncome is ordinary taxable income before any conversion.
type ResolveContext struct {
	Year                int
	FilingStatus        domain.FilingStatus
	Table               taxdata.YearTable
	Available           decimal.Decimal
	PreConversionIncome decimal.Decimal
}

// Resolution is a resolved conversion amount with the reasoning behind it
// Headroom: bracket room before the balance clip (fill strategies only)
// Capped: the balance clip reduced the amount
type Resolution struct {
	Amount   decimal.Decimal
	Headroom decimal.Decimal
	Capped   bool
	Notes    []string
}

// Strategy resolves a conversion amount for a single pool of traditional money
type Strategy interface {
	Name() string
	Resolve(ctx ResolveContext) Resolution
}

// PersonInput is one spouse's available balance and own ordinary taxable income.
// Income goes negative when the deduction exceeds ordinary income.
type PersonInput struct {
	Available decimal.Decimal
	Income    decimal.Decimal
}

// HouseholdInput carries both spouses for combined or separate allocation.
// CombinedIncome is household ordinary income less the deduction; it also caps a
// separate bracket fill on a joint return.
type HouseholdInput struct {
	Year           int
	FilingStatus   domain.FilingStatus
	Primary        PersonInput
	Spouse         *PersonInput
	CombinedIncome decimal.Decimal
}

// HouseholdResolution splits the year's conversion between spouses
type HouseholdResolution struct {
	Primary decimal.Decimal
	Spouse  decimal.Decimal
	// Headroom is the bracket room found (household room for combined allocation)
	Headroom decimal.Decimal
	Notes    []string
}

// Total returns the household conversion
func (hr HouseholdResolution) Total() decimal.Decimal {
	return hr.Primary.Add(hr.Spouse)
}

func clip(amount, available decimal.Decimal) (decimal.Decimal, bool) {
	if available.IsNegative() {
		available = decimal.Zero
	}
	if amount.IsNegative() {
		return decimal.Zero, false
	}
	if amount.GreaterThan(available) {
		return available, true
	}
	return amount, false
}
