package config

import (
	"errors"
	"path/filepath"
	"testing"

	"github.com/rgehrsitz/rothplan/internal/domain"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadFromFile_Couple(t *testing.T) {
	cfg, err := NewInputParser().LoadFromFile(filepath.Join("testdata", "couple.yaml"))
	require.NoError(t, err)

	assert.Equal(t, "Couple bridging to Medicare", cfg.Name)
	assert.Equal(t, domain.FilingMarriedJoint, cfg.FilingStatus)
	assert.Equal(t, 75, cfg.RMDStartAge, "born 1963")
	assert.Equal(t, 75, cfg.SpouseRMDStartAge, "born 1965")
	assert.Equal(t, 60, cfg.SpouseStartAge)
	assert.True(t, cfg.SpouseBaseIncome.Equal(decimal.NewFromInt(20000)))
	assert.True(t, cfg.Balances.SpouseTraditional.Equal(decimal.NewFromInt(300000)))
	assert.Equal(t, "0.02", cfg.IncomeGrowthRate.String())

	assert.Equal(t, domain.StrategyFillBracket, cfg.Strategy.Kind)
	assert.Equal(t, "0.22", cfg.Strategy.TargetBracket.String())
	assert.Equal(t, domain.AllocationCombined, cfg.Strategy.Allocation)
	assert.Equal(t, 2034, cfg.Strategy.EndYear)

	assert.Equal(t, 2, cfg.Charitable.BunchingCycleYears)
	assert.True(t, cfg.Charitable.OpportunityWindow.Equal(decimal.NewFromInt(10000)))

	require.NotNil(t, cfg.State)
	assert.Equal(t, "CA", cfg.State.ResidentState)
	assert.Equal(t, "NV", cfg.State.DestinationState)

	assert.Equal(t, 2, cfg.ACA.HouseholdSize)
	assert.True(t, cfg.CompareMFJvsMFS)
	assert.Equal(t, "0.22", cfg.FutureTaxRate.String())
}

func TestLoadFromFile_MinimalDefaults(t *testing.T) {
	cfg, err := NewInputParser().LoadFromFile(filepath.Join("testdata", "minimal.yaml"))
	require.NoError(t, err)

	assert.Equal(t, "minimal", cfg.Name, "name falls back to the file name")
	assert.Equal(t, domain.FilingSingle, cfg.FilingStatus)
	assert.Equal(t, 73, cfg.RMDStartAge)
	assert.Equal(t, 1, cfg.ACA.HouseholdSize)
	assert.True(t, cfg.Strategy.SpouseAmount.Equal(decimal.NewFromInt(30000)), "spouse amount defaults to amount")
	assert.Nil(t, cfg.State)
	assert.False(t, cfg.HasSpouse())
}

func TestLoadFromFile_Errors(t *testing.T) {
	parser := NewInputParser()

	_, err := parser.LoadFromFile(filepath.Join("testdata", "missing.yaml"))
	assert.ErrorContains(t, err, "failed to read file")

	_, err = parser.LoadFromFile(filepath.Join("testdata", "typo.yaml"))
	assert.ErrorContains(t, err, "failed to parse YAML")

	_, err = parser.LoadFromFile(filepath.Join("testdata", "invalid.yaml"))
	require.Error(t, err)
	var ve *domain.ValidationError
	require.True(t, errors.As(err, &ve))
	assert.Len(t, ve.Problems, 2)
	assert.ErrorContains(t, err, "configuration validation failed")
}

func TestParse(t *testing.T) {
	tests := []struct {
		name    string
		yaml    string
		wantErr string
		check   func(t *testing.T, cfg domain.ScenarioConfig)
	}{
		{
			name:    "empty document",
			yaml:    "",
			wantErr: "empty document",
		},
		{
			name: "explicit rmd age beats birth year",
			yaml: "start_year: 2025\nstart_age: 60\nbirth_year: 1965\nyears: 5\nrmd_start_age: 73\n",
			check: func(t *testing.T, cfg domain.ScenarioConfig) {
				assert.Equal(t, 73, cfg.RMDStartAge)
			},
		},
		{
			name: "explicit zero spouse amount is kept",
			yaml: "start_year: 2025\nstart_age: 60\nyears: 5\nfiling_status: MFJ\nspouse: {start_age: 60}\n" +
				"conversion: {strategy: fixed_amount, amount: 10000, spouse_amount: 0, allocation: separate}\n",
			check: func(t *testing.T, cfg domain.ScenarioConfig) {
				assert.Equal(t, domain.FilingMarriedJoint, cfg.FilingStatus)
				assert.True(t, cfg.Strategy.SpouseAmount.IsZero())
				assert.Equal(t, domain.AllocationSeparate, cfg.Strategy.Allocation)
			},
		},
		{
			name: "charitable overrides",
			yaml: "start_year: 2025\nstart_age: 72\nyears: 5\n" +
				"charitable: {enabled: true, annual_amount: 5000, bunching: true, bunching_cycle_years: 3, opportunity_window: 2500, schedule: {2027: 20000}}\n",
			check: func(t *testing.T, cfg domain.ScenarioConfig) {
				assert.Equal(t, 3, cfg.Charitable.BunchingCycleYears)
				assert.True(t, cfg.Charitable.OpportunityWindow.Equal(decimal.NewFromInt(2500)))
				assert.True(t, cfg.Charitable.Schedule[2027].Equal(decimal.NewFromInt(20000)))
			},
		},
		{
			name:    "unknown strategy",
			yaml:    "start_year: 2025\nstart_age: 60\nyears: 5\nconversion: {strategy: greedy}\n",
			wantErr: "unknown conversion strategy",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg, err := NewInputParser().Parse([]byte(tt.yaml), "inline")
			if tt.wantErr != "" {
				assert.ErrorContains(t, err, tt.wantErr)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, "inline", cfg.Name)
			tt.check(t, cfg)
		})
	}
}
