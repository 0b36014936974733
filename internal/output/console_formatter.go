package output

import (
	"bytes"
	"fmt"
	"sort"
	"strings"

	"github.com/rgehrsitz/rothplan/internal/domain"
	"github.com/shopspring/decimal"
)

// ConsoleFormatter renders the ledger as one table row per year plus a summary
type ConsoleFormatter struct{}

func (c ConsoleFormatter) Name() string { return "table" }

func (c ConsoleFormatter) Format(report *Report) ([]byte, error) {
	var buf bytes.Buffer
	cfg := report.Scenario

	fmt.Fprintln(&buf, strings.Repeat("=", 118))
	fmt.Fprintf(&buf, "ROTH CONVERSION PROJECTION: %s\n", cfg.Name)
	fmt.Fprintln(&buf, strings.Repeat("=", 118))
	fmt.Fprintf(&buf, "Filing status: %s   Years: %d-%d   Strategy: %s\n",
		cfg.FilingStatus, cfg.StartYear, cfg.EndYear(), describeStrategy(cfg.Strategy))
	fmt.Fprintf(&buf, "Run ID: %s\n\n", report.RunID)

	fmt.Fprintf(&buf, "%-5s %4s %11s %10s %10s %9s %10s %11s %12s %13s  %s\n",
		"Year", "Age", "Conversion", "RMD", "Fed Tax", "State", "Conv Cost", "Cum. Cost", "Advantage", "Net Worth", "Notes")
	fmt.Fprintln(&buf, strings.Repeat("-", 118))
	for _, yr := range report.Years {
		state := decimal.Zero
		if yr.StateTax != nil {
			state = yr.StateTax.WithConversion
		}
		fmt.Fprintf(&buf, "%-5d %4d %11s %10s %10s %9s %10s %11s %12s %13s  %s\n",
			yr.Year, yr.Age,
			whole(yr.TotalConversion()),
			whole(yr.RMD.Add(yr.SpouseRMD)),
			whole(yr.TaxWithConversion.TotalTax),
			whole(state),
			whole(yr.ConversionTaxCost),
			whole(yr.CumulativeTaxPaid),
			whole(yr.CumulativeTaxSaved),
			whole(yr.NetWorth),
			rowNotes(yr))
	}
	fmt.Fprintln(&buf, strings.Repeat("-", 118))
	fmt.Fprintln(&buf)

	writeSummary(&buf, report.Summary)
	return buf.Bytes(), nil
}

func writeSummary(buf *bytes.Buffer, s Summary) {
	fmt.Fprintln(buf, "SUMMARY")
	fmt.Fprintln(buf, strings.Repeat("-", 40))
	fmt.Fprintf(buf, "%-26s %s\n", "Total converted:", FormatCurrency(s.TotalConverted))
	fmt.Fprintf(buf, "%-26s %s\n", "Conversion tax cost:", FormatCurrency(s.TotalConversionTax))
	fmt.Fprintf(buf, "%-26s %s\n", "Federal tax paid:", FormatCurrency(s.TotalFederalTax))
	if !s.TotalStateTax.IsZero() {
		fmt.Fprintf(buf, "%-26s %s\n", "State tax paid:", FormatCurrency(s.TotalStateTax))
	}
	if !s.TotalCharitable.IsZero() {
		fmt.Fprintf(buf, "%-26s %s\n", "Charitable giving:", FormatCurrency(s.TotalCharitable))
	}
	fmt.Fprintf(buf, "%-26s %s\n", "Final traditional:", FormatCurrency(s.FinalBalances.TotalTraditional()))
	fmt.Fprintf(buf, "%-26s %s\n", "Final Roth:", FormatCurrency(s.FinalBalances.TotalRoth()))
	fmt.Fprintf(buf, "%-26s %s\n", "Final net worth:", FormatCurrency(s.FinalNetWorth))
	fmt.Fprintf(buf, "%-26s %s\n", "Without conversions:", FormatCurrency(s.FinalBaselineNetWorth))
	fmt.Fprintf(buf, "%-26s %s\n", "Advantage:", FormatCurrency(s.FinalAdvantage))
	fmt.Fprintf(buf, "%-26s %s\n", "Break-even year:", breakEvenLabel(s.BreakEvenYear))
	if s.TotalWarnings() > 0 {
		fmt.Fprintf(buf, "%-26s %s\n", "Warnings:", warningCountLine(s.WarningCounts))
		fmt.Fprintf(buf, "%-26s %s\n", "Trap cost:", FormatCurrency(s.TotalTrapCost))
	}
	if s.DataWarningYears > 0 {
		fmt.Fprintf(buf, "%-26s %d years use fallback tables\n", "Data:", s.DataWarningYears)
	}
}

func rowNotes(yr domain.YearlyResult) string {
	var notes []string
	if yr.BreakEvenYear {
		notes = append(notes, "break-even")
	}
	for _, w := range yr.Warnings {
		notes = append(notes, string(w.Type))
	}
	if len(yr.DataWarnings) > 0 {
		notes = append(notes, "fallback")
	}
	return strings.Join(notes, ",")
}

func warningCountLine(counts map[domain.TrapType]int) string {
	keys := make([]string, 0, len(counts))
	for k := range counts {
		keys = append(keys, string(k))
	}
	sort.Strings(keys)
	parts := make([]string, 0, len(keys))
	for _, k := range keys {
		parts = append(parts, fmt.Sprintf("%s=%d", k, counts[domain.TrapType(k)]))
	}
	return strings.Join(parts, " ")
}

func describeStrategy(st domain.ConversionStrategy) string {
	var s string
	switch st.Kind {
	case domain.StrategyFixedAmount:
		s = "fixed " + FormatCurrency(st.Amount)
	case domain.StrategyFillBracket:
		s = "fill " + st.TargetBracket.Mul(decimal.NewFromInt(100)).StringFixed(0) + "% bracket"
	default:
		return "none"
	}
	if st.Allocation == domain.AllocationSeparate {
		s += " (separate)"
	}
	if st.StartYear != 0 || st.EndYear != 0 {
		s += fmt.Sprintf(" [%s-%s]", yearOrOpen(st.StartYear), yearOrOpen(st.EndYear))
	}
	return s
}

func yearOrOpen(y int) string {
	if y == 0 {
		return ""
	}
	return fmt.Sprintf("%d", y)
}

// whole formats whole dollars with thousands separators
func whole(d decimal.Decimal) string {
	s := d.Abs().StringFixed(0)
	var b strings.Builder
	if d.Round(0).IsNegative() {
		b.WriteByte('-')
	}
	for i, r := range s {
		if i > 0 && (len(s)-i)%3 == 0 {
			b.WriteByte(',')
		}
		b.WriteRune(r)
	}
	return b.String()
}
