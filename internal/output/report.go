package output

import (
	"strconv"
	"time"

	"github.com/google/uuid"
	"github.com/rgehrsitz/rothplan/internal/domain"
	"github.com/shopspring/decimal"
)

// Report is the envelope every formatter renders: one simulated scenario and its ledger
type Report struct {
	RunID       uuid.UUID             `json:"runId"`
	GeneratedAt time.Time             `json:"generatedAt"`
	Scenario    domain.ScenarioConfig `json:"scenario"`
	Years       []domain.YearlyResult `json:"years"`
	Summary     Summary               `json:"summary"`
	Assumptions []string              `json:"assumptions"`
}

// NewReport wraps a simulation run with a fresh run ID and its summary
func NewReport(cfg domain.ScenarioConfig, years []domain.YearlyResult) *Report {
	return &Report{
		RunID:       uuid.New(),
		GeneratedAt: time.Now().UTC(),
		Scenario:    cfg,
		Years:       years,
		Summary:     Summarize(years),
		Assumptions: Assumptions(cfg),
	}
}

// Summary rolls the ledger up into projection totals
type Summary struct {
	Years     int `json:"years"`
	FirstYear int `json:"firstYear"`
	LastYear  int `json:"lastYear"`

	TotalConverted     decimal.Decimal `json:"totalConverted"`
	TotalRMD           decimal.Decimal `json:"totalRmd"`
	TotalFederalTax    decimal.Decimal `json:"totalFederalTax"`
	TotalStateTax      decimal.Decimal `json:"totalStateTax"`
	TotalConversionTax decimal.Decimal `json:"totalConversionTax"`
	TotalCharitable    decimal.Decimal `json:"totalCharitable"`
	TotalTrapCost      decimal.Decimal `json:"totalTrapCost"`

	FinalBalances         domain.AccountBalances `json:"finalBalances"`
	FinalNetWorth         decimal.Decimal        `json:"finalNetWorth"`
	FinalBaselineNetWorth decimal.Decimal        `json:"finalBaselineNetWorth"`
	FinalAdvantage        decimal.Decimal        `json:"finalAdvantage"`

	BreakEvenYear    int                     `json:"breakEvenYear,omitempty"`
	WarningCounts    map[domain.TrapType]int `json:"warningCounts"`
	DataWarningYears int                     `json:"dataWarningYears"`
}

// Summarize computes totals, final balances, the break-even year and warning counts
func Summarize(years []domain.YearlyResult) Summary {
	s := Summary{
		Years:         len(years),
		WarningCounts: map[domain.TrapType]int{},
	}
	if len(years) == 0 {
		return s
	}

	for _, yr := range years {
		s.TotalConverted = s.TotalConverted.Add(yr.TotalConversion())
		s.TotalRMD = s.TotalRMD.Add(yr.RMD).Add(yr.SpouseRMD)
		s.TotalFederalTax = s.TotalFederalTax.Add(yr.TaxWithConversion.TotalTax)
		if yr.StateTax != nil {
			s.TotalStateTax = s.TotalStateTax.Add(yr.StateTax.WithConversion)
		}
		if yr.Charitable != nil {
			s.TotalCharitable = s.TotalCharitable.Add(yr.Charitable.Amount)
		}
		s.TotalTrapCost = s.TotalTrapCost.Add(yr.TrapCost())
		for _, w := range yr.Warnings {
			s.WarningCounts[w.Type]++
		}
		if yr.BreakEvenYear {
			s.BreakEvenYear = yr.Year
		}
		if len(yr.DataWarnings) > 0 {
			s.DataWarningYears++
		}
	}

	first, last := years[0], years[len(years)-1]
	s.FirstYear = first.Year
	s.LastYear = last.Year
	s.TotalConversionTax = last.CumulativeTaxPaid
	s.FinalBalances = last.Balances
	s.FinalNetWorth = last.NetWorth
	s.FinalBaselineNetWorth = last.BaselineNetWorth
	s.FinalAdvantage = last.CumulativeTaxSaved
	return s
}

// TotalWarnings counts every warning in the summary
func (s Summary) TotalWarnings() int {
	n := 0
	for _, c := range s.WarningCounts {
		n += c
	}
	return n
}

// FormatCurrency formats a decimal as currency
func FormatCurrency(amount decimal.Decimal) string {
	if amount.IsNegative() {
		return "-$" + amount.Abs().StringFixed(2)
	}
	return "$" + amount.StringFixed(2)
}

// FormatPercentage formats a rate (0.22) as a percentage
func FormatPercentage(rate decimal.Decimal) string {
	return rate.Mul(decimal.NewFromInt(100)).StringFixed(2) + "%"
}

// breakEvenLabel renders a break-even year for display
func breakEvenLabel(year int) string {
	if year == 0 {
		return "not reached"
	}
	return strconv.Itoa(year)
}
