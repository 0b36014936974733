package components

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/rgehrsitz/rothplan/internal/tui/tuistyles"
)

// StrategyCard names one selectable conversion plan
type StrategyCard struct {
	Name        string
	Description string
	IsSelected  bool
}

// RenderCompact returns the single-line form used in the strategy strip
func (s StrategyCard) RenderCompact() string {
	if s.IsSelected {
		return tuistyles.SelectedItemStyle.Render("▸ " + s.Name)
	}
	return tuistyles.UnselectedItemStyle.Render("  " + s.Name)
}

// StrategyStrip renders every plan on one line with the selected description beneath
func StrategyStrip(cards []StrategyCard, width int) string {
	if len(cards) == 0 {
		return tuistyles.InfoStyle.Render("No strategies available")
	}

	parts := make([]string, len(cards))
	desc := ""
	for i, c := range cards {
		parts[i] = c.RenderCompact()
		if c.IsSelected {
			desc = c.Description
		}
	}

	line := lipgloss.NewStyle().Width(width).Render(strings.Join(parts, " "))
	if desc == "" {
		return line
	}
	return line + "\n" + tuistyles.SubtitleStyle.Render(desc)
}
