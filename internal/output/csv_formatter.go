package output

import (
	"bytes"
	"encoding/csv"
	"strconv"
	"strings"

	"github.com/shopspring/decimal"
)

// CSVFormatter writes one row per ledger year
type CSVFormatter struct{}

func (c CSVFormatter) Name() string { return "csv" }

var csvHeader = []string{
	"year", "age", "spouse_age", "conversion", "spouse_conversion", "rmd", "spouse_rmd",
	"agi", "magi", "federal_tax", "federal_tax_baseline", "state_code", "state_tax",
	"conversion_tax_cost", "cumulative_tax_paid", "advantage", "traditional", "roth",
	"net_worth", "baseline_net_worth", "break_even", "charitable", "trap_cost", "warnings",
}

func (c CSVFormatter) Format(report *Report) ([]byte, error) {
	var buf bytes.Buffer
	w := csv.NewWriter(&buf)
	if err := w.Write(csvHeader); err != nil {
		return nil, err
	}
	for _, yr := range report.Years {
		stateCode, stateTax := "", decimal.Zero
		if yr.StateTax != nil {
			stateCode, stateTax = yr.StateTax.StateCode, yr.StateTax.WithConversion
		}
		charitable := decimal.Zero
		if yr.Charitable != nil {
			charitable = yr.Charitable.Amount
		}
		var warnings []string
		for _, wn := range yr.Warnings {
			warnings = append(warnings, string(wn.Type))
		}
		row := []string{
			strconv.Itoa(yr.Year),
			strconv.Itoa(yr.Age),
			strconv.Itoa(yr.SpouseAge),
			money(yr.Conversion),
			money(yr.SpouseConversion),
			money(yr.RMD),
			money(yr.SpouseRMD),
			money(yr.Income.AGI),
			money(yr.Income.MAGI),
			money(yr.TaxWithConversion.TotalTax),
			money(yr.TaxWithoutConversion.TotalTax),
			stateCode,
			money(stateTax),
			money(yr.ConversionTaxCost),
			money(yr.CumulativeTaxPaid),
			money(yr.CumulativeTaxSaved),
			money(yr.Balances.TotalTraditional()),
			money(yr.Balances.TotalRoth()),
			money(yr.NetWorth),
			money(yr.BaselineNetWorth),
			strconv.FormatBool(yr.BreakEvenYear),
			money(charitable),
			money(yr.TrapCost()),
			strings.Join(warnings, ";"),
		}
		if err := w.Write(row); err != nil {
			return nil, err
		}
	}
	w.Flush()
	if err := w.Error(); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func money(d decimal.Decimal) string { return d.StringFixed(2) }
