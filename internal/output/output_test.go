package output

import (
	"encoding/csv"
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/rgehrsitz/rothplan/internal/calculation"
	"github.com/rgehrsitz/rothplan/internal/domain"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func dec(v int64) decimal.Decimal { return decimal.NewFromInt(v) }

func sampleScenario() domain.ScenarioConfig {
	return domain.ScenarioConfig{
		Name:           "couple",
		StartYear:      2025,
		StartAge:       60,
		SpouseStartAge: 58,
		Years:          3,
		FilingStatus:   domain.FilingMarriedJoint,
		Balances: domain.AccountBalances{
			Traditional:       dec(500000),
			SpouseTraditional: dec(200000),
		},
		RMDStartAge:       75,
		SpouseRMDStartAge: 75,
		Strategy: domain.ConversionStrategy{
			Kind:       domain.StrategyFixedAmount,
			Amount:     dec(40000),
			Allocation: domain.AllocationCombined,
		},
		ExpectedReturn: decimal.RequireFromString("0.05"),
		FutureTaxRate:  decimal.RequireFromString("0.24"),
		State:          &domain.StateTaxConfig{ResidentState: "CA"},
	}
}

func sampleYears() []domain.YearlyResult {
	return []domain.YearlyResult{
		{
			Year:                 2025,
			Age:                  60,
			SpouseAge:            58,
			Conversion:           dec(30000),
			SpouseConversion:     dec(10000),
			Income:               domain.IncomeBreakdown{Wages: dec(80000), AGI: dec(120000), MAGI: dec(120000), BaselineMAGI: dec(80000)},
			TaxWithConversion:    domain.TaxLiabilityResult{TotalTax: dec(12000), Deduction: dec(30000), TaxableIncome: dec(90000)},
			TaxWithoutConversion: domain.TaxLiabilityResult{TotalTax: dec(5000)},
			StateTax:             &domain.StateTaxResult{StateCode: "CA", WithConversion: dec(3000), WithoutConversion: dec(1000)},
			ConversionTaxCost:    dec(9000),
			CumulativeTaxPaid:    dec(9000),
			CumulativeTaxSaved:   dec(-9000),
			Balances:             domain.AccountBalances{Traditional: dec(450000), Roth: dec(42000)},
			NetWorth:             dec(800000),
			BaselineNetWorth:     dec(809000),
			Warnings: []domain.TrapWarning{
				{Type: domain.TrapIRMAA, Severity: domain.SeverityMedium, Description: "MAGI over tier 1", FinancialImpact: dec(1200)},
				{Type: domain.TrapCharitableOpportunity, Severity: domain.SeverityLow, Description: "give to avoid", FinancialImpact: dec(500)},
			},
		},
		{
			Year:               2026,
			Age:                61,
			SpouseAge:          59,
			Conversion:         dec(40000),
			TaxWithConversion:  domain.TaxLiabilityResult{TotalTax: dec(13000)},
			StateTax:           &domain.StateTaxResult{StateCode: "CA", WithConversion: dec(3500)},
			ConversionTaxCost:  dec(9500),
			CumulativeTaxPaid:  dec(18500),
			CumulativeTaxSaved: dec(-1000),
			Charitable:         &domain.CharitableOutcome{Amount: dec(5000), TaxSavings: dec(1100)},
			NetWorth:           dec(850000),
			BaselineNetWorth:   dec(851000),
			DataWarnings:       []string{"2026 uses 2025 tables"},
		},
		{
			Year:               2027,
			Age:                62,
			SpouseAge:          60,
			TaxWithConversion:  domain.TaxLiabilityResult{TotalTax: dec(6000)},
			StateTax:           &domain.StateTaxResult{StateCode: "CA", WithConversion: dec(1500)},
			CumulativeTaxPaid:  dec(18500),
			CumulativeTaxSaved: dec(2500),
			Balances:           domain.AccountBalances{Traditional: dec(420000), Roth: dec(95000)},
			NetWorth:           dec(900000),
			BaselineNetWorth:   dec(897500),
			BreakEvenYear:      true,
		},
	}
}

func sampleReport() *Report {
	return NewReport(sampleScenario(), sampleYears())
}

func TestSummarize(t *testing.T) {
	s := Summarize(sampleYears())

	assert.Equal(t, 3, s.Years)
	assert.Equal(t, 2025, s.FirstYear)
	assert.Equal(t, 2027, s.LastYear)
	assert.True(t, dec(80000).Equal(s.TotalConverted), "converted: %s", s.TotalConverted)
	assert.True(t, dec(31000).Equal(s.TotalFederalTax))
	assert.True(t, dec(8000).Equal(s.TotalStateTax))
	assert.True(t, dec(18500).Equal(s.TotalConversionTax))
	assert.True(t, dec(5000).Equal(s.TotalCharitable))
	assert.True(t, dec(1200).Equal(s.TotalTrapCost), "opportunities are not costs")
	assert.True(t, dec(2500).Equal(s.FinalAdvantage))
	assert.True(t, dec(900000).Equal(s.FinalNetWorth))
	assert.Equal(t, 2027, s.BreakEvenYear)
	assert.Equal(t, 1, s.WarningCounts[domain.TrapIRMAA])
	assert.Equal(t, 1, s.WarningCounts[domain.TrapCharitableOpportunity])
	assert.Equal(t, 2, s.TotalWarnings())
	assert.Equal(t, 1, s.DataWarningYears)
}

func TestSummarize_Empty(t *testing.T) {
	s := Summarize(nil)
	assert.Equal(t, 0, s.Years)
	assert.Equal(t, 0, s.BreakEvenYear)
	assert.NotNil(t, s.WarningCounts)
	assert.True(t, s.FinalNetWorth.IsZero())
}

func TestNewReport(t *testing.T) {
	a, b := sampleReport(), sampleReport()
	assert.NotEqual(t, a.RunID, b.RunID)
	assert.Equal(t, "couple", a.Scenario.Name)
	assert.Len(t, a.Years, 3)
	assert.NotEmpty(t, a.Assumptions)
}

func TestAssumptions(t *testing.T) {
	cfg := sampleScenario()
	got := Assumptions(cfg)
	assert.Contains(t, got[0], "5.00%")
	assert.NotContains(t, strings.Join(got, "\n"), "Federal tax only")

	cfg.State = nil
	cfg.Charitable = domain.CharitableConfig{Enabled: true, UseQCD: true}
	got = Assumptions(cfg)
	joined := strings.Join(got, "\n")
	assert.Contains(t, joined, "Federal tax only")
	assert.Contains(t, joined, "Qualified charitable distributions")
}

func TestFormatHelpers(t *testing.T) {
	assert.Equal(t, "$1234.50", FormatCurrency(decimal.RequireFromString("1234.5")))
	assert.Equal(t, "-$10.00", FormatCurrency(dec(-10)))
	assert.Equal(t, "22.00%", FormatPercentage(decimal.RequireFromString("0.22")))
	assert.Equal(t, "not reached", breakEvenLabel(0))
	assert.Equal(t, "2031", breakEvenLabel(2031))
	assert.Equal(t, "1,234,567", whole(dec(1234567)))
	assert.Equal(t, "-9,000", whole(dec(-9000)))
	assert.Equal(t, "0", whole(decimal.Zero))
	assert.Equal(t, "100", whole(dec(100)))
}

func TestDescribeStrategy(t *testing.T) {
	tests := []struct {
		name string
		st   domain.ConversionStrategy
		want string
	}{
		{"none", domain.ConversionStrategy{Kind: domain.StrategyNone}, "none"},
		{"fixed", domain.ConversionStrategy{Kind: domain.StrategyFixedAmount, Amount: dec(25000)}, "fixed $25000.00"},
		{"bracket", domain.ConversionStrategy{Kind: domain.StrategyFillBracket, TargetBracket: decimal.RequireFromString("0.22")}, "fill 22% bracket"},
		{"separate window", domain.ConversionStrategy{Kind: domain.StrategyFixedAmount, Amount: dec(1000), Allocation: domain.AllocationSeparate, StartYear: 2026}, "fixed $1000.00 (separate) [2026-]"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, describeStrategy(tt.st))
		})
	}
}

func TestGetFormatterByName(t *testing.T) {
	for _, name := range AvailableFormatterNames() {
		f := GetFormatterByName(name)
		require.NotNil(t, f, name)
		assert.Equal(t, name, f.Name())
	}
	assert.Equal(t, "table", GetFormatterByName(" Console ").Name())
	assert.Equal(t, "verbose", GetFormatterByName("detailed").Name())
	assert.Nil(t, GetFormatterByName("pdf"))

	assert.Equal(t, []string{"csv", "html", "json", "table", "verbose"}, AvailableFormatterNames())
	assert.Equal(t, []string{"console", "console-verbose", "detailed"}, AvailableFormatAliases())
}

func TestConsoleFormatter(t *testing.T) {
	out, err := ConsoleFormatter{}.Format(sampleReport())
	require.NoError(t, err)
	s := string(out)

	assert.Contains(t, s, "ROTH CONVERSION PROJECTION: couple")
	assert.Contains(t, s, "Strategy: fixed $40000.00")
	assert.Contains(t, s, "40,000")
	assert.Contains(t, s, "irmaa,charitable_opportunity")
	assert.Contains(t, s, "break-even")
	assert.Contains(t, s, "fallback")
	assert.Contains(t, s, "Break-even year:           2027")
	assert.Contains(t, s, "irmaa=1")
	assert.Contains(t, s, "Trap cost:                 $1200.00")
	assert.Contains(t, s, "1 years use fallback tables")
}

func TestConsoleVerboseFormatter(t *testing.T) {
	out, err := ConsoleVerboseFormatter{}.Format(sampleReport())
	require.NoError(t, err)
	s := string(out)

	assert.Contains(t, s, "DETAILED ROTH CONVERSION ANALYSIS: couple")
	assert.Contains(t, s, "KEY ASSUMPTIONS:")
	assert.Contains(t, s, "YEAR 2025 (age 60, spouse 58)")
	assert.Contains(t, s, "YEAR 2027 (age 62, spouse 60)  BREAK-EVEN")
	assert.Contains(t, s, "STATE TAX (CA): $3000.00")
	assert.Contains(t, s, "CHARITABLE: $5000.00, tax savings $1100.00")
	assert.Contains(t, s, "[irmaa/medium] MAGI over tier 1")
	assert.Contains(t, s, "note: 2026 uses 2025 tables")
	assert.Contains(t, s, "TRAPS TRIGGERED")
	assert.Contains(t, s, "First year:             2025")
	assert.Contains(t, s, "SUMMARY")
}

func TestConsoleVerboseFormatter_NoTraps(t *testing.T) {
	years := sampleYears()
	years[0].Warnings = nil
	out, err := ConsoleVerboseFormatter{}.Format(NewReport(sampleScenario(), years))
	require.NoError(t, err)
	assert.Contains(t, string(out), "NO TRAPS TRIGGERED")
}

func TestCSVFormatter(t *testing.T) {
	out, err := CSVFormatter{}.Format(sampleReport())
	require.NoError(t, err)

	rows, err := csv.NewReader(strings.NewReader(string(out))).ReadAll()
	require.NoError(t, err)
	require.Len(t, rows, 4)
	assert.Equal(t, csvHeader, rows[0])
	assert.Equal(t, "2025", rows[1][0])
	assert.Equal(t, "30000.00", rows[1][3])
	assert.Equal(t, "CA", rows[1][11])
	assert.Equal(t, "irmaa;charitable_opportunity", rows[1][23])
	assert.Equal(t, "true", rows[3][20])
}

func TestJSONFormatter(t *testing.T) {
	report := sampleReport()
	out, err := JSONFormatter{Pretty: true}.Format(report)
	require.NoError(t, err)
	assert.Contains(t, string(out), "\n  \"runId\": ")

	var decoded map[string]any
	require.NoError(t, json.Unmarshal(out, &decoded))
	assert.Equal(t, report.RunID.String(), decoded["runId"])
	assert.Len(t, decoded["years"], 3)

	compact, err := JSONFormatter{}.Format(report)
	require.NoError(t, err)
	assert.NotContains(t, string(compact), "\n")
}

func TestHTMLFormatter(t *testing.T) {
	out, err := HTMLFormatter{}.Format(sampleReport())
	require.NoError(t, err)
	s := string(out)
	assert.Contains(t, s, "<title>Roth Conversion Projection: couple</title>")
	assert.Contains(t, s, `<tr class="breakeven">`)
	assert.Contains(t, s, "$40000.00")
	assert.Contains(t, s, "irmaa (medium): MAGI over tier 1")
}

func TestFormatterFunc(t *testing.T) {
	f := FormatterFunc{ID: "echo", F: func(r *Report) ([]byte, error) { return []byte(r.Scenario.Name), nil }}
	out, err := f.Format(sampleReport())
	require.NoError(t, err)
	assert.Equal(t, "echo", f.Name())
	assert.Equal(t, "couple", string(out))
}

func TestWriteFormatted(t *testing.T) {
	dir := t.TempDir()
	wd, err := os.Getwd()
	require.NoError(t, err)
	require.NoError(t, os.Chdir(dir))
	t.Cleanup(func() { _ = os.Chdir(wd) })

	name, err := WriteFormatted(CSVFormatter{}, sampleReport(), "csv")
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(name, "rothplan_report_"))
	assert.True(t, strings.HasSuffix(name, ".csv"))

	data, err := os.ReadFile(filepath.Join(dir, name))
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(string(data), "year,age"))

	failing := FormatterFunc{ID: "broken", F: func(*Report) ([]byte, error) { return nil, errors.New("boom") }}
	_, err = WriteFormatted(failing, sampleReport(), "txt")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "broken formatter failed: boom")
}

func TestFormatters_WithEngine(t *testing.T) {
	cfg := sampleScenario()
	cfg.Years = 5
	years, err := calculation.NewEngine().Simulate(cfg)
	require.NoError(t, err)

	report := NewReport(cfg, years)
	assert.Equal(t, 5, report.Summary.Years)
	assert.True(t, dec(200000).Equal(report.Summary.TotalConverted), "converted: %s", report.Summary.TotalConverted)

	for _, name := range AvailableFormatterNames() {
		out, err := GetFormatterByName(name).Format(report)
		require.NoError(t, err, name)
		assert.NotEmpty(t, out, name)
	}
}
