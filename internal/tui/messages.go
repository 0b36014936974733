package tui

import (
	"github.com/rgehrsitz/rothplan/internal/domain"
)

// SimulationCompleteMsg carries the ledger for one strategy selection.
// Index identifies the selection that was simulated so stale results can be dropped.
type SimulationCompleteMsg struct {
	Index    int
	Scenario domain.ScenarioConfig
	Years    []domain.YearlyResult
	Err      error
}

// ErrorMsg displays an error to the user
type ErrorMsg struct {
	Err error
}
