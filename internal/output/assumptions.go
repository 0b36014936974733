package output

import (
	"fmt"

	"github.com/rgehrsitz/rothplan/internal/domain"
)

// Assumptions lists the modeling assumptions behind a run, rendered in detailed outputs
func Assumptions(cfg domain.ScenarioConfig) []string {
	out := []string{
		fmt.Sprintf("Expected annual return on all accounts: %s", FormatPercentage(cfg.ExpectedReturn)),
		fmt.Sprintf("Pre-tax balances valued at 1 - %s future tax rate", FormatPercentage(cfg.FutureTaxRate)),
		fmt.Sprintf("Wage growth: %s annually; Social Security COLA: %s", FormatPercentage(cfg.IncomeGrowthRate), FormatPercentage(cfg.SocialSecurity.COLA)),
		"Conversion tax is paid from outside funds",
		"Years beyond the latest published table reuse the nearest year's brackets",
	}
	if cfg.State == nil {
		out = append(out, "Federal tax only (no state overlay)")
	}
	if cfg.Charitable.Enabled && cfg.Charitable.UseQCD {
		out = append(out, "Qualified charitable distributions come from the primary IRA once eligible")
	}
	return out
}
