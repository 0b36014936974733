package compare

import (
	"encoding/csv"
	"strconv"
	"strings"
)

// CSVFormatter formats comparison results as CSV
type CSVFormatter struct{}

// Format generates CSV output for comparison results
func (cf *CSVFormatter) Format(compSet *ComparisonSet) (string, error) {
	var sb strings.Builder
	writer := csv.NewWriter(&sb)

	header := []string{
		"Scenario",
		"Type",
		"Total Converted",
		"Conversion Tax",
		"Final Net Worth",
		"Final Advantage",
		"Break-Even Year",
		"Trap Cost",
		"Warnings",
		"Net Worth Diff from Base",
		"Net Worth % Change",
		"Tax Diff from Base",
		"Trap Cost Diff from Base",
	}
	if err := writer.Write(header); err != nil {
		return "", err
	}

	if compSet.BaseResult != nil {
		if err := writer.Write(cf.formatRow(compSet.BaseResult, "base")); err != nil {
			return "", err
		}
	}

	for i := range compSet.AlternativeResults {
		if err := writer.Write(cf.formatRow(&compSet.AlternativeResults[i], "alternative")); err != nil {
			return "", err
		}
	}

	writer.Flush()
	if err := writer.Error(); err != nil {
		return "", err
	}

	return sb.String(), nil
}

func (cf *CSVFormatter) formatRow(result *ComparisonResult, scenarioType string) []string {
	breakEven := ""
	if result.BreakEvenYear != 0 {
		breakEven = strconv.Itoa(result.BreakEvenYear)
	}
	return []string{
		result.ScenarioName,
		scenarioType,
		result.TotalConverted.StringFixed(2),
		result.ConversionTaxCost.StringFixed(2),
		result.FinalNetWorth.StringFixed(2),
		result.FinalAdvantage.StringFixed(2),
		breakEven,
		result.TrapCost.StringFixed(2),
		strconv.Itoa(result.WarningCount),
		result.NetWorthDiffFromBase.StringFixed(2),
		result.NetWorthPctFromBase.StringFixed(2),
		result.TaxDiffFromBase.StringFixed(2),
		result.TrapCostDiffFromBase.StringFixed(2),
	}
}
