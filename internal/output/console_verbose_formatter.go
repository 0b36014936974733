package output

import (
	"bytes"
	"fmt"
	"strings"

	"github.com/rgehrsitz/rothplan/internal/domain"
	"github.com/shopspring/decimal"
)

// ConsoleVerboseFormatter renders every ledger year in full: income, brackets, state, charitable and warnings.
type ConsoleVerboseFormatter struct{}

func (c ConsoleVerboseFormatter) Name() string { return "verbose" }

func (c ConsoleVerboseFormatter) Format(report *Report) ([]byte, error) {
	var buf bytes.Buffer
	cfg := report.Scenario

	fmt.Fprintln(&buf, "=================================================================================")
	fmt.Fprintf(&buf, "DETAILED ROTH CONVERSION ANALYSIS: %s\n", cfg.Name)
	fmt.Fprintln(&buf, "=================================================================================")
	fmt.Fprintf(&buf, "Run ID: %s\n", report.RunID)
	fmt.Fprintf(&buf, "Filing status: %s   Strategy: %s\n", cfg.FilingStatus, describeStrategy(cfg.Strategy))
	fmt.Fprintln(&buf)

	fmt.Fprintln(&buf, "KEY ASSUMPTIONS:")
	assumptions := report.Assumptions
	if len(assumptions) == 0 {
		assumptions = Assumptions(cfg)
	}
	for _, a := range assumptions {
		fmt.Fprintf(&buf, "• %s\n", a)
	}
	fmt.Fprintln(&buf)

	for _, yr := range report.Years {
		writeYear(&buf, yr)
	}

	writeTrapAnalysis(&buf, report.Years)
	writeSummary(&buf, report.Summary)
	return buf.Bytes(), nil
}

func writeYear(buf *bytes.Buffer, yr domain.YearlyResult) {
	header := fmt.Sprintf("YEAR %d (age %d", yr.Year, yr.Age)
	if yr.SpouseAge > 0 {
		header += fmt.Sprintf(", spouse %d", yr.SpouseAge)
	}
	header += ")"
	if yr.BreakEvenYear {
		header += "  BREAK-EVEN"
	}
	fmt.Fprintln(buf, header)
	fmt.Fprintln(buf, strings.Repeat("-", 50))

	in := yr.Income
	fmt.Fprintln(buf, "INCOME SOURCES:")
	line(buf, "Wages", in.Wages)
	line(buf, "Spouse wages", in.SpouseWages)
	line(buf, "Social Security", in.SocialSecurity)
	line(buf, "  taxable portion", in.TaxableSocialSecurity)
	line(buf, "RMD (taxable)", in.TaxableRMD)
	line(buf, "Capital gains", in.CapitalGains)
	line(buf, "Conversion", yr.Conversion)
	line(buf, "Spouse conversion", yr.SpouseConversion)
	fmt.Fprintf(buf, "  %-22s %15s\n", "AGI", FormatCurrency(in.AGI))
	fmt.Fprintf(buf, "  %-22s %15s (baseline %s)\n", "MAGI", FormatCurrency(in.MAGI), FormatCurrency(in.BaselineMAGI))

	tax := yr.TaxWithConversion
	fmt.Fprintln(buf, "FEDERAL TAX:")
	deduction := "standard"
	if tax.Itemized {
		deduction = "itemized"
	}
	fmt.Fprintf(buf, "  %-22s %15s (%s)\n", "Deduction", FormatCurrency(tax.Deduction), deduction)
	fmt.Fprintf(buf, "  %-22s %15s\n", "Taxable income", FormatCurrency(tax.TaxableIncome))
	for _, b := range tax.Breakdown {
		if b.Income.IsZero() {
			continue
		}
		kind := "ord"
		if b.Kind == domain.IncomeCapitalGains {
			kind = "cg "
		}
		fmt.Fprintf(buf, "    %s %7s  %15s -> %12s\n", kind, FormatPercentage(b.Rate), FormatCurrency(b.Income), FormatCurrency(b.Tax))
	}
	fmt.Fprintf(buf, "  %-22s %15s (without conversion %s)\n", "Total federal tax", FormatCurrency(tax.TotalTax), FormatCurrency(yr.TaxWithoutConversion.TotalTax))
	fmt.Fprintf(buf, "  %-22s %15s   effective %s\n", "Marginal rate", FormatPercentage(tax.MarginalOrdinaryRate), FormatPercentage(tax.EffectiveRate))

	if yr.StateTax != nil {
		st := yr.StateTax
		moved := ""
		if st.Relocated {
			moved = " after relocation"
		}
		fmt.Fprintf(buf, "STATE TAX (%s%s): %s (without conversion %s)\n", st.StateCode, moved, FormatCurrency(st.WithConversion), FormatCurrency(st.WithoutConversion))
	}

	if c := yr.Charitable; c != nil {
		fmt.Fprintf(buf, "CHARITABLE: %s", FormatCurrency(c.Amount))
		if c.UsedQCD {
			fmt.Fprintf(buf, " via QCD %s (RMD offset %s)", FormatCurrency(c.QCDAmount), FormatCurrency(c.RMDOffset))
		}
		if c.Bunched {
			fmt.Fprint(buf, " bunched")
		}
		fmt.Fprintf(buf, ", tax savings %s\n", FormatCurrency(c.TaxSavings))
		for _, a := range c.AvoidedTraps {
			fmt.Fprintf(buf, "  avoided %s: %s\n", a.Type, FormatCurrency(a.Savings))
		}
	}

	if m := yr.MFSComparison; m != nil {
		better := "joint"
		if m.Difference.IsNegative() {
			better = "separate"
		}
		fmt.Fprintf(buf, "MFJ vs MFS: joint %s, separate %s (%s + %s), %s is lower\n",
			FormatCurrency(m.JointTax), FormatCurrency(m.CombinedSeparateTax),
			FormatCurrency(m.PrimarySeparateTax), FormatCurrency(m.SpouseSeparateTax), better)
	}

	fmt.Fprintln(buf, "POSITION:")
	fmt.Fprintf(buf, "  %-22s %15s\n", "Conversion tax cost", FormatCurrency(yr.ConversionTaxCost))
	fmt.Fprintf(buf, "  %-22s %15s\n", "Cumulative cost", FormatCurrency(yr.CumulativeTaxPaid))
	fmt.Fprintf(buf, "  %-22s %15s / %s\n", "Traditional / Roth", FormatCurrency(yr.Balances.TotalTraditional()), FormatCurrency(yr.Balances.TotalRoth()))
	fmt.Fprintf(buf, "  %-22s %15s (baseline %s)\n", "Net worth", FormatCurrency(yr.NetWorth), FormatCurrency(yr.BaselineNetWorth))
	fmt.Fprintf(buf, "  %-22s %15s\n", "Advantage", FormatCurrency(yr.CumulativeTaxSaved))

	for _, w := range yr.Warnings {
		fmt.Fprintf(buf, "⚠️  [%s/%s] %s (%s)\n", w.Type, w.Severity, w.Description, FormatCurrency(w.FinancialImpact))
	}
	for _, d := range yr.DataWarnings {
		fmt.Fprintf(buf, "note: %s\n", d)
	}
	fmt.Fprintln(buf)
}

func line(buf *bytes.Buffer, label string, v decimal.Decimal) {
	if v.IsZero() {
		return
	}
	fmt.Fprintf(buf, "  %-22s %15s\n", label, FormatCurrency(v))
}

// writeTrapAnalysis lists every year whose income crossed a cliff
func writeTrapAnalysis(buf *bytes.Buffer, years []domain.YearlyResult) {
	fmt.Fprintln(buf, "TAX TRAP ANALYSIS:")
	fmt.Fprintln(buf, "---------------------------------------------------")

	var flagged []domain.YearlyResult
	total := decimal.Zero
	for _, yr := range years {
		if yr.TrapCost().GreaterThan(decimal.Zero) {
			flagged = append(flagged, yr)
			total = total.Add(yr.TrapCost())
		}
	}
	if len(flagged) == 0 {
		fmt.Fprintln(buf, "✓ NO TRAPS TRIGGERED")
		fmt.Fprintln(buf, "  MAGI stays below every modeled threshold")
		fmt.Fprintln(buf)
		return
	}

	fmt.Fprintln(buf, "⚠️  TRAPS TRIGGERED")
	fmt.Fprintf(buf, "  Years affected:         %d\n", len(flagged))
	fmt.Fprintf(buf, "  First year:             %d\n", flagged[0].Year)
	fmt.Fprintf(buf, "  Total annualized cost:  %s\n", FormatCurrency(total))
	fmt.Fprintln(buf)
	fmt.Fprintf(buf, "%-6s  %-14s  %-32s  %s\n", "Year", "MAGI", "Traps", "Cost")
	fmt.Fprintln(buf, strings.Repeat("-", 70))
	for _, yr := range flagged {
		var types []string
		for _, w := range yr.Warnings {
			if w.Type != domain.TrapCharitableOpportunity {
				types = append(types, string(w.Type))
			}
		}
		fmt.Fprintf(buf, "%-6d  %-14s  %-32s  %s\n", yr.Year, FormatCurrency(yr.Income.MAGI), strings.Join(types, ","), FormatCurrency(yr.TrapCost()))
	}
	fmt.Fprintln(buf)
}
