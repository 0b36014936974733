package calculation

import (
	"fmt"

	"github.com/rgehrsitz/rothplan/internal/domain"
	"github.com/rgehrsitz/rothplan/internal/taxdata"
	"github.com/shopspring/decimal"
)

// FederalTaxCalculator computes federal liability from the bracket tables.
// Capital gains are stacked on top of ordinary taxable income.
type FederalTaxCalculator struct {
	Tables *taxdata.Tables
}

// NewFederalTaxCalculator creates a calculator over the given tables
func NewFederalTaxCalculator(tables *taxdata.Tables) *FederalTaxCalculator {
	if tables == nil {
		tables = taxdata.Default()
	}
	return &FederalTaxCalculator{Tables: tables}
}

// Deduction resolves the standard or itemized deduction for a filer.
// The additional 65+ amount applies per senior on the standard deduction only.
func Deduction(yt taxdata.YearTable, status domain.FilingStatus, election domain.DeductionElection) (decimal.Decimal, bool) {
	standard := yt.Standard(status)
	if election.SeniorCount > 0 {
		standard = standard.Add(yt.AdditionalSenior(status).Mul(decimal.NewFromInt(int64(election.SeniorCount))))
	}
	if election.Itemize && election.ItemizedAmount.GreaterThan(standard) {
		return election.ItemizedAmount, true
	}
	return standard, false
}

// ComputeLiability returns the federal tax on ordinary income and long-term gains.
//
// The deduction absorbs ordinary income first. Taxable gains are the lesser of
// gains and total taxable income; they are taxed by walking the capital gains
// brackets starting where ordinary taxable income ends.
func (c *FederalTaxCalculator) ComputeLiability(ordinary, gains decimal.Decimal, year int, status domain.FilingStatus, election domain.DeductionElection) (domain.TaxLiabilityResult, error) {
	yt, note, err := c.Tables.ForYear(year)
	if err != nil {
		return domain.TaxLiabilityResult{}, err
	}
	return LiabilityFromTable(yt, note, year, ordinary, gains, status, election)
}

// LiabilityFromTable is ComputeLiability against an already selected year table
func LiabilityFromTable(yt taxdata.YearTable, note string, year int, ordinary, gains decimal.Decimal, status domain.FilingStatus, election domain.DeductionElection) (domain.TaxLiabilityResult, error) {
	ordBrackets := yt.OrdinaryBrackets(status)
	cgBrackets := yt.CapitalGainsBrackets(status)
	if len(ordBrackets) == 0 || len(cgBrackets) == 0 {
		return domain.TaxLiabilityResult{}, fmt.Errorf("no %s brackets in %d tables", status, yt.Year)
	}

	ordinary = nonNegative(ordinary)
	gains = nonNegative(gains)

	deduction, itemized := Deduction(yt, status, election)
	taxable := nonNegative(ordinary.Add(gains).Sub(deduction))
	gainsTaxable := decimal.Min(gains, taxable)
	ordinaryTaxable := taxable.Sub(gainsTaxable)

	ordTax, ordLines := walkBrackets(ordBrackets, decimal.Zero, ordinaryTaxable, domain.IncomeOrdinary)
	cgTax, cgLines := walkBrackets(cgBrackets, ordinaryTaxable, gainsTaxable, domain.IncomeCapitalGains)
	total := ordTax.Add(cgTax)

	res := domain.TaxLiabilityResult{
		TaxYear:                 year,
		TableYear:               yt.Year,
		Deduction:               deduction,
		Itemized:                itemized,
		TaxableIncome:           taxable,
		OrdinaryTaxableIncome:   ordinaryTaxable,
		CapitalGainsTaxable:     gainsTaxable,
		TotalTax:                total,
		OrdinaryTax:             ordTax,
		CapitalGainsTax:         cgTax,
		MarginalOrdinaryRate:    taxdata.BracketFor(ordBrackets, ordinaryTaxable).Rate,
		MarginalCapitalGainRate: nextDollarRate(cgBrackets, ordinaryTaxable.Add(gainsTaxable), gainsTaxable.IsPositive()),
		EffectiveRate:           decimal.Zero,
		Breakdown:               append(ordLines, cgLines...),
	}
	if gross := ordinary.Add(gains); gross.IsPositive() {
		res.EffectiveRate = total.Div(gross).Round(6)
	}
	if note != "" {
		res.DataNotes = []string{note}
	}
	return res, nil
}

// walkBrackets taxes amount dollars that start at offset within the ladder
func walkBrackets(brackets []taxdata.Bracket, offset, amount decimal.Decimal, kind domain.IncomeKind) (decimal.Decimal, []domain.BracketLine) {
	total := decimal.Zero
	var lines []domain.BracketLine
	if !amount.IsPositive() {
		return total, lines
	}
	end := offset.Add(amount)
	for _, b := range brackets {
		if end.LessThanOrEqual(b.Min) {
			break
		}
		income := decimal.Min(end, b.Max).Sub(decimal.Max(offset, b.Min))
		if !income.IsPositive() {
			continue
		}
		tax := income.Mul(b.Rate)
		total = total.Add(tax)
		lines = append(lines, domain.BracketLine{Kind: kind, Rate: b.Rate, Min: b.Min, Max: b.Max, Income: income, Tax: tax})
	}
	return total, lines
}

// nextDollarRate is the rate on the top dollar when inside is set, else the rate
// the next dollar above amount would pay
func nextDollarRate(brackets []taxdata.Bracket, amount decimal.Decimal, inside bool) decimal.Decimal {
	if inside {
		return taxdata.BracketFor(brackets, amount).Rate
	}
	for _, b := range brackets {
		if amount.LessThan(b.Max) {
			return b.Rate
		}
	}
	return brackets[len(brackets)-1].Rate
}

func nonNegative(v decimal.Decimal) decimal.Decimal {
	if v.IsNegative() {
		return decimal.Zero
	}
	return v
}
