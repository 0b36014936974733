package compare

import (
	"fmt"

	"github.com/google/uuid"
	"github.com/rgehrsitz/rothplan/internal/domain"
	"github.com/shopspring/decimal"
)

// ComparisonResult represents a single strategy run with calculated metrics
type ComparisonResult struct {
	ScenarioName string                    `json:"scenarioName"`
	Description  string                    `json:"description"`
	Strategy     domain.ConversionStrategy `json:"strategy"`
	Years        []domain.YearlyResult     `json:"-"`

	// Key Metrics
	TotalConverted    decimal.Decimal `json:"totalConverted"`
	ConversionTaxCost decimal.Decimal `json:"conversionTaxCost"`
	FinalNetWorth     decimal.Decimal `json:"finalNetWorth"`
	// FinalAdvantage is the last year's net advantage over not converting
	FinalAdvantage decimal.Decimal `json:"finalAdvantage"`
	BreakEvenYear  int             `json:"breakEvenYear,omitempty"` // zero when never reached
	TrapCost       decimal.Decimal `json:"trapCost"`
	WarningCount   int             `json:"warningCount"`

	// Comparison to Base
	NetWorthDiffFromBase  decimal.Decimal `json:"netWorthDiffFromBase"`
	NetWorthPctFromBase   decimal.Decimal `json:"netWorthPctFromBase"`
	TaxDiffFromBase       decimal.Decimal `json:"taxDiffFromBase"`
	TrapCostDiffFromBase  decimal.Decimal `json:"trapCostDiffFromBase"`
	BreakEvenDiffFromBase int             `json:"breakEvenDiffFromBase,omitempty"`
}

// BreakEvenLabel renders the break-even year for display
func (cr ComparisonResult) BreakEvenLabel() string {
	if cr.BreakEvenYear == 0 {
		return "never"
	}
	return fmt.Sprintf("%d", cr.BreakEvenYear)
}

// ComparisonSet represents a collection of strategy comparisons
type ComparisonSet struct {
	ID                 uuid.UUID          `json:"id"`
	BaseScenarioName   string             `json:"baseScenarioName"`
	BaseResult         *ComparisonResult  `json:"baseResult"`
	AlternativeResults []ComparisonResult `json:"alternativeResults"`
	Recommendations    []string           `json:"recommendations"`
	ConfigPath         string             `json:"configPath"`
}

// MetricsCalculator extracts key metrics from a simulated ledger
type MetricsCalculator struct{}

// NewMetricsCalculator creates a new metrics calculator
func NewMetricsCalculator() *MetricsCalculator {
	return &MetricsCalculator{}
}

// CalculateMetrics computes all comparison metrics for one run
func (mc *MetricsCalculator) CalculateMetrics(scenario domain.ScenarioConfig, years []domain.YearlyResult) ComparisonResult {
	result := ComparisonResult{
		ScenarioName: scenario.Name,
		Strategy:     scenario.Strategy,
		Years:        years,
	}

	for _, yr := range years {
		result.TotalConverted = result.TotalConverted.Add(yr.TotalConversion())
		result.TrapCost = result.TrapCost.Add(yr.TrapCost())
		result.WarningCount += len(yr.Warnings)
		if yr.BreakEvenYear {
			result.BreakEvenYear = yr.Year
		}
	}

	if len(years) > 0 {
		last := years[len(years)-1]
		result.ConversionTaxCost = last.CumulativeTaxPaid
		result.FinalNetWorth = last.NetWorth
		result.FinalAdvantage = last.CumulativeTaxSaved
	}

	return result
}

// CalculateComparison computes comparison metrics between a run and the base
func (mc *MetricsCalculator) CalculateComparison(scenario, base ComparisonResult) ComparisonResult {
	scenario.NetWorthDiffFromBase = scenario.FinalNetWorth.Sub(base.FinalNetWorth)

	if !base.FinalNetWorth.IsZero() {
		scenario.NetWorthPctFromBase = scenario.NetWorthDiffFromBase.
			Div(base.FinalNetWorth).
			Mul(decimal.NewFromInt(100))
	}

	scenario.TaxDiffFromBase = scenario.ConversionTaxCost.Sub(base.ConversionTaxCost)
	scenario.TrapCostDiffFromBase = scenario.TrapCost.Sub(base.TrapCost)
	if scenario.BreakEvenYear != 0 && base.BreakEvenYear != 0 {
		scenario.BreakEvenDiffFromBase = scenario.BreakEvenYear - base.BreakEvenYear
	}

	return scenario
}

// GenerateRecommendations creates recommendations based on comparison results
func GenerateRecommendations(compSet *ComparisonSet) []string {
	recommendations := []string{}

	if compSet.BaseResult == nil || len(compSet.AlternativeResults) == 0 {
		return recommendations
	}

	// Highest final net worth
	best := compSet.BaseResult
	for i := range compSet.AlternativeResults {
		alt := &compSet.AlternativeResults[i]
		if alt.FinalNetWorth.GreaterThan(best.FinalNetWorth) {
			best = alt
		}
	}
	if best != compSet.BaseResult {
		diff := best.FinalNetWorth.Sub(compSet.BaseResult.FinalNetWorth)
		recommendations = append(recommendations,
			"Highest Net Worth: "+best.ScenarioName+" ends $"+diff.StringFixed(0)+
				" ahead of "+compSet.BaseScenarioName)
	} else {
		recommendations = append(recommendations,
			"No alternative finishes ahead of "+compSet.BaseScenarioName)
	}

	// Earliest break-even
	var earliest *ComparisonResult
	for i := range compSet.AlternativeResults {
		alt := &compSet.AlternativeResults[i]
		if alt.BreakEvenYear == 0 {
			continue
		}
		if earliest == nil || alt.BreakEvenYear < earliest.BreakEvenYear {
			earliest = alt
		}
	}
	if earliest != nil {
		recommendations = append(recommendations,
			fmt.Sprintf("Earliest Break-Even: %s recovers its conversion tax by %d", earliest.ScenarioName, earliest.BreakEvenYear))
	}

	// Lowest trap exposure among strategies that convert
	var lowest *ComparisonResult
	for i := range compSet.AlternativeResults {
		alt := &compSet.AlternativeResults[i]
		if !alt.TotalConverted.IsPositive() {
			continue
		}
		if lowest == nil || alt.TrapCost.LessThan(lowest.TrapCost) {
			lowest = alt
		}
	}
	if lowest != nil && lowest.TrapCost.IsPositive() {
		recommendations = append(recommendations,
			"Lowest Trap Cost: "+lowest.ScenarioName+" incurs $"+lowest.TrapCost.StringFixed(0)+
				" in cliff costs over the projection")
	} else if lowest != nil {
		recommendations = append(recommendations,
			"Trap Free: "+lowest.ScenarioName+" converts without crossing any cliff")
	}

	return recommendations
}
