package tui

import (
	"fmt"
	"strconv"

	"github.com/charmbracelet/lipgloss"

	"github.com/rgehrsitz/rothplan/internal/output"
	"github.com/rgehrsitz/rothplan/internal/tui/components"
	"github.com/rgehrsitz/rothplan/internal/tui/tuistyles"
)

// View renders the current state of the application
func (m Model) View() string {
	sections := []string{m.renderTitleBar(), m.renderStrategies(), ""}

	switch {
	case m.err != nil:
		sections = append(sections, ErrorStyle.Render("Error: "+m.err.Error()))
	case m.loading && len(m.years) == 0:
		sections = append(sections, m.spinner.View()+" Simulating...")
	case len(m.years) == 0:
		sections = append(sections, tuistyles.InfoStyle.Render("No years to display"))
	default:
		sections = append(sections, m.renderCards(), "", m.renderBody())
		if m.showChart {
			sections = append(sections, "", components.NetWorthChart(m.years, m.width-4, 8).Render())
		}
	}

	sections = append(sections, "", m.renderStatusBar())
	return tuistyles.AppStyle.Render(lipgloss.JoinVertical(lipgloss.Left, sections...))
}

func (m Model) renderTitleBar() string {
	title := TitleStyle.Render("ROTHPLAN - Roth Conversion Projection")
	name := m.base.Name
	if name == "" {
		name = "scenario"
	}
	sub := SubtitleStyle.Render(fmt.Sprintf(" %s · %s · %d-%d", name, m.base.FilingStatus, m.base.StartYear, m.base.EndYear()))
	if m.loading && len(m.years) > 0 {
		sub += " " + m.spinner.View()
	}
	return lipgloss.JoinHorizontal(lipgloss.Center, title, sub)
}

func (m Model) renderStrategies() string {
	cards := make([]components.StrategyCard, len(m.selections))
	for i, sel := range m.selections {
		cards[i] = components.StrategyCard{Name: sel.Name, Description: sel.Description, IsSelected: i == m.selected}
	}
	return components.StrategyStrip(cards, m.width-2)
}

func (m Model) renderCards() string {
	s := output.Summarize(m.years)

	breakEven := "not reached"
	if s.BreakEvenYear != 0 {
		breakEven = strconv.Itoa(s.BreakEvenYear)
	}
	advantage := components.NewMetricCard("Advantage", tuistyles.FormatCurrency(s.FinalAdvantage)).
		WithTrend(!s.FinalAdvantage.IsNegative(), "vs no conversion")
	traps := components.NewMetricCard("Trap cost", tuistyles.FormatCurrency(s.TotalTrapCost)).
		WithDescription(fmt.Sprintf("%d warnings", s.TotalWarnings()))

	cards := []*components.MetricCard{
		components.NewMetricCard("Converted", tuistyles.FormatCurrency(s.TotalConverted)),
		components.NewMetricCard("Conversion tax", tuistyles.FormatCurrency(s.TotalConversionTax)),
		advantage,
		components.NewMetricCard("Break-even", breakEven),
		components.NewMetricCard("Net worth", tuistyles.FormatCurrency(s.FinalNetWorth)),
		traps,
	}
	columns := (m.width - 2) / 26
	if columns < 1 {
		columns = 1
	}
	return components.MetricGrid(cards, columns)
}

func (m Model) renderBody() string {
	table := m.ledger.View()
	if !m.showWarnings {
		return table
	}
	yr, ok := m.ledger.Selected()
	if !ok {
		return table
	}
	paneWidth := m.width - lipgloss.Width(table) - 6
	if paneWidth < 30 {
		return lipgloss.JoinVertical(lipgloss.Left, table, components.NewWarningsPane(m.width-4).Render(yr))
	}
	return lipgloss.JoinHorizontal(lipgloss.Top, table, "  ", components.NewWarningsPane(paneWidth).Render(yr))
}

func (m Model) renderStatusBar() string {
	return StatusBarStyle.Render(m.help.View(m.keys))
}
