package tui

import (
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
)

// Update handles all messages and updates the model state
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m.handleKeyPress(msg)

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.help.Width = msg.Width
		m.ledger.SetHeight(m.ledgerHeight())
		return m, nil

	case SimulationCompleteMsg:
		if msg.Index != m.selected {
			return m, nil
		}
		m.loading = false
		if msg.Err != nil {
			m.err = msg.Err
			return m, nil
		}
		m.err = nil
		m.scenario = msg.Scenario
		m.years = msg.Years
		m.ledger.SetYears(msg.Years)
		return m, nil

	case ErrorMsg:
		m.loading = false
		m.err = msg.Err
		return m, nil

	case spinner.TickMsg:
		if !m.loading {
			return m, nil
		}
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd
	}

	return m, nil
}

func (m Model) handleKeyPress(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Quit):
		return m, tea.Quit

	case key.Matches(msg, m.keys.Next):
		return m.selectStrategy((m.selected + 1) % len(m.selections))

	case key.Matches(msg, m.keys.Prev):
		return m.selectStrategy((m.selected - 1 + len(m.selections)) % len(m.selections))

	case key.Matches(msg, m.keys.Warnings):
		m.showWarnings = !m.showWarnings
		return m, nil

	case key.Matches(msg, m.keys.Chart):
		m.showChart = !m.showChart
		m.ledger.SetHeight(m.ledgerHeight())
		return m, nil

	case key.Matches(msg, m.keys.Help):
		m.help.ShowAll = !m.help.ShowAll
		return m, nil
	}

	var cmd tea.Cmd
	m.ledger, cmd = m.ledger.Update(msg)
	return m, cmd
}

func (m Model) selectStrategy(index int) (tea.Model, tea.Cmd) {
	if index == m.selected {
		return m, nil
	}
	m.selected = index
	m.loading = true
	return m, tea.Batch(m.spinner.Tick, simulateCmd(m.calcEngine, m.base, m.selections[index], index))
}

// ledgerHeight leaves room for the header, cards, chart and help
func (m Model) ledgerHeight() int {
	h := m.height - 16
	if m.showChart {
		h -= 14
	}
	if h < 5 {
		h = 5
	}
	return h
}
