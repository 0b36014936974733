package domain

import (
	"errors"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func validScenario() ScenarioConfig {
	return ScenarioConfig{
		Name:          "base",
		StartYear:     2025,
		StartAge:      60,
		Years:         20,
		FilingStatus:  FilingSingle,
		Balances:      AccountBalances{Traditional: decimal.NewFromInt(800000)},
		BaseIncome:    decimal.NewFromInt(50000),
		RMDStartAge:   73,
		FutureTaxRate: decimal.NewFromFloat(0.22),
		Strategy:      ConversionStrategy{Kind: StrategyFixedAmount, Amount: decimal.NewFromInt(40000)},
	}
}

func TestValidate_Valid(t *testing.T) {
	assert.NoError(t, validScenario().Validate())

	couple := validScenario()
	couple.FilingStatus = FilingMarriedJoint
	couple.SpouseStartAge = 58
	couple.SpouseRMDStartAge = 75
	couple.CompareMFJvsMFS = true
	couple.Strategy.Allocation = AllocationSeparate
	assert.NoError(t, couple.Validate())

	// a lone separate filer is still allowed
	separate := validScenario()
	separate.FilingStatus = FilingMarriedSeparate
	assert.NoError(t, separate.Validate())
}

func TestValidate_Problems(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*ScenarioConfig)
		wantMsg string
	}{
		{name: "zero years", mutate: func(s *ScenarioConfig) { s.Years = 0 }, wantMsg: "years must be positive"},
		{name: "too many years", mutate: func(s *ScenarioConfig) { s.Years = 101 }, wantMsg: "at most 100"},
		{name: "filing status", mutate: func(s *ScenarioConfig) { s.FilingStatus = "joint" }, wantMsg: "unknown filing status"},
		{name: "negative balance", mutate: func(s *ScenarioConfig) { s.Balances.Roth = decimal.NewFromInt(-1) }, wantMsg: "roth balance cannot be negative"},
		{name: "spouse money without spouse", mutate: func(s *ScenarioConfig) { s.SpouseBaseIncome = decimal.NewFromInt(10) }, wantMsg: "without a spouse"},
		{name: "spouse on single return", mutate: func(s *ScenarioConfig) { s.SpouseStartAge = 60; s.SpouseRMDStartAge = 73 }, wantMsg: "requires filing status"},
		{name: "spouse on separate return", mutate: func(s *ScenarioConfig) {
			s.FilingStatus = FilingMarriedSeparate
			s.SpouseStartAge = 60
			s.SpouseRMDStartAge = 73
			s.SpouseBaseIncome = decimal.NewFromInt(30000)
		}, wantMsg: "priced as one return"},
		{name: "rmd age", mutate: func(s *ScenarioConfig) { s.RMDStartAge = 65 }, wantMsg: "rmd start age"},
		{name: "future rate", mutate: func(s *ScenarioConfig) { s.FutureTaxRate = decimal.NewFromInt(1) }, wantMsg: "future tax rate"},
		{name: "fill target", mutate: func(s *ScenarioConfig) {
			s.Strategy = ConversionStrategy{Kind: StrategyFillBracket, TargetBracket: decimal.NewFromInt(22)}
		}, wantMsg: "fill_bracket target"},
		{name: "unknown strategy", mutate: func(s *ScenarioConfig) { s.Strategy.Kind = "greedy" }, wantMsg: "unknown conversion strategy"},
		{name: "allocation", mutate: func(s *ScenarioConfig) { s.Strategy.Allocation = "split" }, wantMsg: "unknown conversion allocation"},
		{name: "window order", mutate: func(s *ScenarioConfig) { s.Strategy.StartYear = 2030; s.Strategy.EndYear = 2028 }, wantMsg: "after end"},
		{name: "relocation without destination", mutate: func(s *ScenarioConfig) {
			s.State = &StateTaxConfig{ResidentState: "CA", RelocationYear: 2027}
		}, wantMsg: "without a destination"},
		{name: "aca household", mutate: func(s *ScenarioConfig) { s.ACA.Enrolled = true }, wantMsg: "household size"},
		{name: "bunching cycle", mutate: func(s *ScenarioConfig) { s.Charitable.Bunching = true }, wantMsg: "bunching requires"},
		{name: "mfs comparison on single", mutate: func(s *ScenarioConfig) { s.CompareMFJvsMFS = true }, wantMsg: "requires filing status mfj"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := validScenario()
			tt.mutate(&s)
			err := s.Validate()
			require.Error(t, err)
			var ve *ValidationError
			require.True(t, errors.As(err, &ve))
			assert.Contains(t, err.Error(), tt.wantMsg)
		})
	}
}

func TestValidate_CollectsAllProblems(t *testing.T) {
	s := validScenario()
	s.Years = 0
	s.RMDStartAge = 0
	s.BaseIncome = decimal.NewFromInt(-5)

	err := s.Validate()
	var ve *ValidationError
	require.True(t, errors.As(err, &ve))
	assert.Len(t, ve.Problems, 3)
	assert.Contains(t, err.Error(), "3 problems")
}

func TestConversionStrategy_ActiveIn(t *testing.T) {
	cs := ConversionStrategy{Kind: StrategyFixedAmount, StartYear: 2026, EndYear: 2028}
	assert.False(t, cs.ActiveIn(2025))
	assert.True(t, cs.ActiveIn(2026))
	assert.True(t, cs.ActiveIn(2028))
	assert.False(t, cs.ActiveIn(2029))
	assert.False(t, ConversionStrategy{Kind: StrategyNone}.ActiveIn(2026))
	assert.True(t, ConversionStrategy{Kind: StrategyFillBracket}.ActiveIn(1990))
}

func TestStateTaxConfig_ActiveState(t *testing.T) {
	sc := StateTaxConfig{ResidentState: "CA", RelocationYear: 2027, DestinationState: "CO"}
	code, moved := sc.ActiveState(2026)
	assert.Equal(t, "CA", code)
	assert.False(t, moved)
	code, moved = sc.ActiveState(2027)
	assert.Equal(t, "CO", code)
	assert.True(t, moved)
}

func TestScenarioConfig_Clone(t *testing.T) {
	orig := validScenario()
	orig.State = &StateTaxConfig{ResidentState: "NY"}
	orig.Charitable.Schedule = map[int]decimal.Decimal{2026: decimal.NewFromInt(5000)}

	c := orig.Clone()
	c.State.ResidentState = "FL"
	c.Charitable.Schedule[2026] = decimal.NewFromInt(1)

	assert.Equal(t, "NY", orig.State.ResidentState)
	assert.True(t, orig.Charitable.Schedule[2026].Equal(decimal.NewFromInt(5000)))
	assert.Equal(t, 2044, orig.EndYear())
}

func TestYearlyResult_Totals(t *testing.T) {
	yr := YearlyResult{
		Conversion:        decimal.NewFromInt(30000),
		SpouseConversion:  decimal.NewFromInt(10000),
		TaxWithConversion: TaxLiabilityResult{TotalTax: decimal.NewFromInt(9000)},
		StateTax:          &StateTaxResult{WithConversion: decimal.NewFromInt(1000)},
		Warnings: []TrapWarning{
			{Type: TrapIRMAA, FinancialImpact: decimal.NewFromInt(1200)},
			{Type: TrapCharitableOpportunity, FinancialImpact: decimal.NewFromInt(900)},
		},
	}
	assert.True(t, yr.TotalConversion().Equal(decimal.NewFromInt(40000)))
	assert.True(t, yr.TotalTax().Equal(decimal.NewFromInt(10000)))
	assert.True(t, yr.TrapCost().Equal(decimal.NewFromInt(1200)))
}

func TestFilingStatus(t *testing.T) {
	assert.True(t, FilingMarriedSeparate.IsMarried())
	assert.False(t, FilingHeadOfHousehold.IsMarried())
	assert.False(t, FilingStatus("x").IsValid())
	assert.Equal(t, "Married Filing Jointly", FilingMarriedJoint.String())
}
