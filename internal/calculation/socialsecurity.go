package calculation

import (
	"github.com/rgehrsitz/rothplan/internal/taxdata"
	"github.com/shopspring/decimal"
)

var (
	half          = decimal.NewFromFloat(0.5)
	eightyFivePct = decimal.NewFromFloat(0.85)
)

// ProvisionalIncome is other income plus tax-exempt interest plus half the benefits
func ProvisionalIncome(benefits, otherIncome, taxExemptInterest decimal.Decimal) decimal.Decimal {
	return otherIncome.Add(taxExemptInterest).Add(benefits.Mul(half))
}

// TaxableSocialSecurity follows the IRS benefits worksheet: nothing below the
// first base, up to 50% between the bases, up to 85% above the second base.
func TaxableSocialSecurity(benefits, otherIncome, taxExemptInterest decimal.Decimal, th taxdata.SSThresholds) decimal.Decimal {
	if !benefits.IsPositive() {
		return decimal.Zero
	}
	pi := ProvisionalIncome(benefits, otherIncome, taxExemptInterest)
	if pi.LessThanOrEqual(th.Base1) {
		return decimal.Zero
	}
	halfBenefits := benefits.Mul(half)
	if pi.LessThanOrEqual(th.Base2) {
		return decimal.Min(pi.Sub(th.Base1).Mul(half), halfBenefits)
	}
	taxable := pi.Sub(th.Base2).Mul(eightyFivePct).
		Add(decimal.Min(th.Base2.Sub(th.Base1).Mul(half), halfBenefits))
	return decimal.Min(taxable, benefits.Mul(eightyFivePct))
}

// benefitFor returns the annual benefit once claimed, with COLA compounded from the first simulated year
func benefitFor(amount decimal.Decimal, claimAge, age, yearIndex int, cola decimal.Decimal) decimal.Decimal {
	if !amount.IsPositive() || age < claimAge {
		return decimal.Zero
	}
	if cola.IsZero() || yearIndex == 0 {
		return amount
	}
	return amount.Mul(decimal.NewFromInt(1).Add(cola).Pow(decimal.NewFromInt(int64(yearIndex)))).Round(2)
}
