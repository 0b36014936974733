package calculation

import (
	"github.com/rgehrsitz/rothplan/internal/domain"
	"github.com/rgehrsitz/rothplan/internal/taxdata"
	"github.com/shopspring/decimal"
)

// cashGiftAGILimit caps deductible cash gifts to public charities at 60% of AGI
var cashGiftAGILimit = decimal.NewFromFloat(0.60)

// CharitableSplit is how one year's gift is applied
type CharitableSplit struct {
	QCD       decimal.Decimal
	RMDOffset decimal.Decimal
	// CashGift is the part given outside a QCD; Deductible is what survives the AGI limit
	CashGift             decimal.Decimal
	Deductible           decimal.Decimal
	ItemizedTotal        decimal.Decimal
	AboveStandard        decimal.Decimal
	ItemizedBeatStandard bool
}

// SplitContribution routes a gift through a QCD first (when allowed) and the
// remainder through itemized deductions. agi is AGI before the QCD exclusion.
func SplitContribution(amount decimal.Decimal, useQCD bool, qcdLimit, available, rmd, agi, otherItemized, standard decimal.Decimal) CharitableSplit {
	amount = nonNegative(amount)
	s := CharitableSplit{}
	if useQCD {
		s.QCD = decimal.Min(amount, decimal.Min(nonNegative(qcdLimit), nonNegative(available)))
		s.RMDOffset = decimal.Min(s.QCD, nonNegative(rmd))
	}
	s.CashGift = amount.Sub(s.QCD)
	limit := nonNegative(agi.Sub(s.QCD)).Mul(cashGiftAGILimit)
	s.Deductible = decimal.Min(s.CashGift, limit)
	s.ItemizedTotal = otherItemized.Add(s.Deductible)
	s.ItemizedBeatStandard = s.ItemizedTotal.GreaterThan(standard)
	s.AboveStandard = nonNegative(s.ItemizedTotal.Sub(decimal.Max(standard, otherItemized)))
	return s
}

// CharitableInput describes a year before the gift is applied
type CharitableInput struct {
	Year                 int
	FilingStatus         domain.FilingStatus
	Amount               decimal.Decimal
	UseQCD               bool
	Bunched              bool
	RMDAmount            decimal.Decimal
	TraditionalAvailable decimal.Decimal
	AGI                  decimal.Decimal
	OtherItemized        decimal.Decimal
	StandardDeduction    decimal.Decimal
	MarginalRate         decimal.Decimal
	// Prior is the trap profile without the gift; PriorResult is computed when nil
	Prior       TrapProfile
	PriorResult *TrapResult
}

// CharitableAnalyzer values a year's gift in tax saved and traps avoided
type CharitableAnalyzer struct {
	Tables   *taxdata.Tables
	Detector *TrapDetector
}

func NewCharitableAnalyzer(tables *taxdata.Tables, detector *TrapDetector) *CharitableAnalyzer {
	if tables == nil {
		tables = taxdata.Default()
	}
	if detector == nil {
		detector = NewTrapDetector(tables, nil)
	}
	return &CharitableAnalyzer{Tables: tables, Detector: detector}
}

// AnalyzeCharitable values the gift. Trap savings come from re-running the
// detector on the profile with the QCD and the extra itemized amount removed.
func (a *CharitableAnalyzer) AnalyzeCharitable(in CharitableInput) (domain.CharitableOutcome, error) {
	yt, _, err := a.Tables.ForYear(in.Year)
	if err != nil {
		return domain.CharitableOutcome{}, err
	}
	split := SplitContribution(in.Amount, in.UseQCD, yt.QCDLimit, in.TraditionalAvailable, in.RMDAmount,
		in.AGI, in.OtherItemized, in.StandardDeduction)

	out := domain.CharitableOutcome{
		Amount:               in.Amount,
		UsedQCD:              split.QCD.IsPositive(),
		QCDAmount:            split.QCD,
		RMDOffset:            split.RMDOffset,
		Bunched:              in.Bunched,
		ItemizedBeatStandard: split.ItemizedBeatStandard,
		DeductibleAmount:     split.Deductible,
		TaxSavings:           split.QCD.Add(split.AboveStandard).Mul(in.MarginalRate).Round(2),
	}

	prior := in.PriorResult
	if prior == nil {
		r := a.Detector.DetectTraps(in.Prior)
		prior = &r
	}

	adjusted := in.Prior
	reduction := split.QCD.Add(split.AboveStandard)
	adjusted.AGI = nonNegative(adjusted.AGI.Sub(split.QCD))
	adjusted.MAGI = nonNegative(adjusted.MAGI.Sub(split.QCD))
	adjusted.ProvisionalBase = nonNegative(adjusted.ProvisionalBase.Sub(split.QCD))
	adjusted.TaxableIncome = nonNegative(adjusted.TaxableIncome.Sub(reduction))
	adjusted.OrdinaryTaxableIncome = nonNegative(adjusted.OrdinaryTaxableIncome.Sub(reduction))
	after := a.Detector.DetectTraps(adjusted)

	for _, t := range domain.TrapTypes {
		if !prior.Has(t) {
			continue
		}
		if saved := prior.Impact(t).Sub(after.Impact(t)); saved.IsPositive() {
			out.AvoidedTraps = append(out.AvoidedTraps, domain.AvoidedTrap{Type: t, Savings: saved})
		}
	}
	return out, nil
}

// GiftForYear returns the contribution for the i-th simulated year. With
// bunching, a full cycle of gifts is made in the first year of each cycle.
func GiftForYear(cfg domain.CharitableConfig, year, index int) (decimal.Decimal, bool) {
	if !cfg.Enabled {
		return decimal.Zero, false
	}
	if v, ok := cfg.Schedule[year]; ok {
		return v, false
	}
	if !cfg.Bunching {
		return cfg.AnnualAmount, false
	}
	cycle := cfg.BunchingCycleYears
	if cycle < 1 {
		cycle = 2
	}
	if index%cycle != 0 {
		return decimal.Zero, false
	}
	return cfg.AnnualAmount.Mul(decimal.NewFromInt(int64(cycle))), true
}
