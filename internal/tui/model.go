// Package tui is the interactive terminal view of a projection: metric cards,
// the yearly ledger, and the warnings raised for the selected year.
package tui

import (
	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/rgehrsitz/rothplan/internal/compare"
	"github.com/rgehrsitz/rothplan/internal/domain"
	"github.com/rgehrsitz/rothplan/internal/transform"
	"github.com/rgehrsitz/rothplan/internal/tui/components"
)

// AsConfigured is the label of the selection that runs the scenario file unchanged
const AsConfigured = "as_configured"

// Model is the entire application state
type Model struct {
	width  int
	height int

	base       domain.ScenarioConfig
	calcEngine compare.Simulator
	selections []transform.Template
	selected   int

	scenario domain.ScenarioConfig
	years    []domain.YearlyResult

	ledger       components.LedgerTable
	spinner      spinner.Model
	keys         keyMap
	help         help.Model
	showWarnings bool
	showChart    bool

	loading bool
	err     error
}

// NewModel builds the model for a base scenario. The first selection is the
// scenario as configured; the rest are the named templates in registry order.
func NewModel(base domain.ScenarioConfig, sim compare.Simulator, templates *transform.TemplateRegistry) Model {
	selections := []transform.Template{{Name: AsConfigured, Description: "Strategy from the scenario file"}}
	if templates != nil {
		for _, name := range templates.List() {
			t, _ := templates.Get(name)
			selections = append(selections, t)
		}
	}

	sp := spinner.New()
	sp.Spinner = spinner.Dot

	return Model{
		width:        100,
		height:       30,
		base:         base,
		calcEngine:   sim,
		selections:   selections,
		ledger:       components.NewLedgerTable(10),
		spinner:      sp,
		keys:         defaultKeyMap(),
		help:         help.New(),
		showWarnings: true,
		loading:      true,
	}
}

func (m Model) Init() tea.Cmd {
	return tea.Batch(m.spinner.Tick, simulateCmd(m.calcEngine, m.base, m.selections[m.selected], m.selected))
}

// simulateCmd applies a selection to a fresh copy of the base and runs it
func simulateCmd(sim compare.Simulator, base domain.ScenarioConfig, sel transform.Template, index int) tea.Cmd {
	return func() tea.Msg {
		cfg := base.Clone()
		if sel.Name != AsConfigured {
			var err error
			cfg, err = transform.ApplyTemplate(base, sel)
			if err != nil {
				return SimulationCompleteMsg{Index: index, Err: err}
			}
			cfg.Name = base.Name + " @ " + sel.Name
		}
		years, err := sim.Simulate(cfg)
		return SimulationCompleteMsg{Index: index, Scenario: cfg, Years: years, Err: err}
	}
}

// Selected returns the name of the active strategy selection
func (m Model) Selected() string {
	return m.selections[m.selected].Name
}

// Years returns the ledger currently displayed
func (m Model) Years() []domain.YearlyResult {
	return m.years
}
