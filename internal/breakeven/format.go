package breakeven

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/shopspring/decimal"
)

// TableFormatter formats optimization results as a console table
type TableFormatter struct{}

// Format generates a formatted table for an optimization result
func (tf *TableFormatter) Format(result *OptimizationResult) string {
	var sb strings.Builder

	sb.WriteString("ROTH CONVERSION OPTIMIZATION RESULTS\n")
	sb.WriteString(strings.Repeat("=", 80) + "\n")

	sb.WriteString(fmt.Sprintf("Scenario:            %s\n", result.Request.BaseScenario.Name))
	sb.WriteString(fmt.Sprintf("Optimization Target: %s\n", result.Request.Target))
	sb.WriteString(fmt.Sprintf("Optimization Goal:   %s\n", result.Request.Goal))
	sb.WriteString(fmt.Sprintf("Status:              %s\n", tf.formatStatus(result.Success)))
	sb.WriteString(fmt.Sprintf("Iterations:          %d\n", result.Iterations))
	if result.ConvergenceInfo != "" {
		sb.WriteString(fmt.Sprintf("Convergence:         %s\n", result.ConvergenceInfo))
	}
	sb.WriteString("\n")

	if len(result.Candidates) > 0 {
		sb.WriteString("CANDIDATES\n")
		sb.WriteString(strings.Repeat("-", 80) + "\n")
		sb.WriteString(fmt.Sprintf("  %-14s %12s %12s %12s %11s %12s\n",
			"Candidate", "Converted", "Conv. Tax", "Advantage", "Break-Even", "Trap Cost"))
		for i := range result.Candidates {
			c := &result.Candidates[i]
			marker := " "
			if c == result.Best {
				marker = "*"
			}
			m := c.Metrics
			sb.WriteString(fmt.Sprintf("%s %-14s %12s %12s %12s %11s %12s\n",
				marker,
				tf.truncate(c.Label, 14),
				"$"+tf.formatShort(m.TotalConverted),
				"$"+tf.formatShort(m.ConversionTaxCost),
				tf.signed(m.FinalAdvantage),
				m.BreakEvenLabel(),
				"$"+tf.formatShort(m.TrapCost)))
		}
		sb.WriteString("\n")
	}

	if result.Best != nil {
		m := result.Best.Metrics
		sb.WriteString("BEST CANDIDATE\n")
		sb.WriteString(strings.Repeat("-", 80) + "\n")
		sb.WriteString(fmt.Sprintf("Parameter:          %s\n", result.Best.Label))
		sb.WriteString(fmt.Sprintf("Total Converted:    $%s\n", tf.formatCurrency(m.TotalConverted)))
		sb.WriteString(fmt.Sprintf("Conversion Tax:     $%s\n", tf.formatCurrency(m.ConversionTaxCost)))
		sb.WriteString(fmt.Sprintf("Final Net Worth:    $%s\n", tf.formatCurrency(m.FinalNetWorth)))
		sb.WriteString(fmt.Sprintf("Final Advantage:    %s\n", tf.signed(m.FinalAdvantage)))
		sb.WriteString(fmt.Sprintf("Break-Even Year:    %s\n", m.BreakEvenLabel()))
		sb.WriteString("\n")

		if result.Base != nil && !m.NetWorthDiffFromBase.IsZero() {
			sb.WriteString("COMPARISON TO BASE SCENARIO\n")
			sb.WriteString(strings.Repeat("-", 80) + "\n")
			sb.WriteString(fmt.Sprintf("Net Worth Change:   %s$%s\n",
				tf.deltaSymbol(m.NetWorthDiffFromBase), tf.formatCurrency(m.NetWorthDiffFromBase.Abs())))
			if !m.TaxDiffFromBase.IsZero() {
				sb.WriteString(fmt.Sprintf("Conversion Tax:     %s$%s\n",
					tf.deltaSymbol(m.TaxDiffFromBase), tf.formatCurrency(m.TaxDiffFromBase.Abs())))
			}
			sb.WriteString("\n")
		}
	}

	return sb.String()
}

// FormatMultiTarget formats results from several targets
func (tf *TableFormatter) FormatMultiTarget(result *MultiTargetResult) string {
	var sb strings.Builder

	sb.WriteString("MULTI-TARGET OPTIMIZATION RESULTS\n")
	sb.WriteString(strings.Repeat("=", 80) + "\n")
	sb.WriteString(fmt.Sprintf("Goal: %s\n\n", result.Goal))

	sb.WriteString(fmt.Sprintf("%-16s %-14s %12s %12s %11s\n",
		"Target", "Best", "Converted", "Advantage", "Break-Even"))
	sb.WriteString(strings.Repeat("-", 80) + "\n")
	for _, res := range result.Results {
		m := res.Best.Metrics
		sb.WriteString(fmt.Sprintf("%-16s %-14s %12s %12s %11s\n",
			tf.truncate(string(res.Request.Target), 16),
			tf.truncate(res.Best.Label, 14),
			"$"+tf.formatShort(m.TotalConverted),
			tf.signed(m.FinalAdvantage),
			m.BreakEvenLabel()))
	}
	sb.WriteString("\n")

	if len(result.Recommendations) > 0 {
		sb.WriteString("RECOMMENDATIONS\n")
		sb.WriteString(strings.Repeat("-", 80) + "\n")
		for _, rec := range result.Recommendations {
			sb.WriteString(fmt.Sprintf("- %s\n", rec))
		}
		sb.WriteString("\n")
	}

	return sb.String()
}

// JSONFormatter formats results as JSON
type JSONFormatter struct {
	Pretty bool
}

func (jf *JSONFormatter) marshal(v any) (string, error) {
	var (
		data []byte
		err  error
	)
	if jf.Pretty {
		data, err = json.MarshalIndent(v, "", "  ")
	} else {
		data, err = json.Marshal(v)
	}
	if err != nil {
		return "", err
	}
	return string(data), nil
}

// Format generates JSON output
func (jf *JSONFormatter) Format(result *OptimizationResult) (string, error) {
	return jf.marshal(result)
}

// FormatMultiTarget formats multi-target results as JSON
func (jf *JSONFormatter) FormatMultiTarget(result *MultiTargetResult) (string, error) {
	return jf.marshal(result)
}

func (tf *TableFormatter) formatStatus(success bool) string {
	if success {
		return "Found"
	}
	return "No qualifying candidate"
}

func (tf *TableFormatter) formatCurrency(d decimal.Decimal) string {
	return d.StringFixed(2)
}

func (tf *TableFormatter) formatShort(d decimal.Decimal) string {
	if d.Abs().GreaterThanOrEqual(decimal.NewFromInt(1000000)) {
		return d.Div(decimal.NewFromInt(1000000)).StringFixed(2) + "M"
	} else if d.Abs().GreaterThanOrEqual(decimal.NewFromInt(1000)) {
		return d.Div(decimal.NewFromInt(1000)).StringFixed(1) + "K"
	}
	return d.StringFixed(0)
}

func (tf *TableFormatter) signed(d decimal.Decimal) string {
	if d.IsNegative() {
		return "-$" + tf.formatShort(d.Abs())
	}
	return "$" + tf.formatShort(d)
}

func (tf *TableFormatter) deltaSymbol(delta decimal.Decimal) string {
	if delta.IsPositive() {
		return "+"
	} else if delta.IsNegative() {
		return "-"
	}
	return " "
}

func (tf *TableFormatter) truncate(s string, maxLen int) string {
	if len(s) <= maxLen {
		return s
	}
	return s[:maxLen-3] + "..."
}
