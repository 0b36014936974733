package components

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/rgehrsitz/rothplan/internal/domain"
	"github.com/rgehrsitz/rothplan/internal/tui/tuistyles"
)

// WarningsPane lists the trap warnings and data notes for one ledger year
type WarningsPane struct {
	Width int
}

func NewWarningsPane(width int) *WarningsPane {
	return &WarningsPane{Width: width}
}

func (w *WarningsPane) Render(yr domain.YearlyResult) string {
	var b strings.Builder
	b.WriteString(tuistyles.SelectedItemStyle.Render(fmt.Sprintf("Warnings for %d", yr.Year)))
	b.WriteString("\n")

	if len(yr.Warnings) == 0 && len(yr.DataWarnings) == 0 {
		b.WriteString(tuistyles.MetricPositiveStyle.Render("✓ no traps triggered"))
	}
	for _, warn := range yr.Warnings {
		b.WriteString("\n")
		b.WriteString(severityStyle(warn.Severity).Render(fmt.Sprintf("● %s [%s]", warn.Type, warn.Severity)))
		b.WriteString(" ")
		b.WriteString(tuistyles.FormatCurrency(warn.FinancialImpact))
		b.WriteString("\n  ")
		b.WriteString(warn.Description)
		if warn.Type == domain.TrapCharitableOpportunity && warn.RequiredContribution.IsPositive() {
			b.WriteString(tuistyles.SubtitleStyle.Render(fmt.Sprintf("\n  give %s", tuistyles.FormatCurrency(warn.RequiredContribution))))
		}
	}
	for _, note := range yr.DataWarnings {
		b.WriteString("\n")
		b.WriteString(tuistyles.SubtitleStyle.Render("note: " + note))
	}

	return tuistyles.BorderStyle.Padding(0, 1).Width(w.Width).Render(b.String())
}

func severityStyle(s domain.Severity) lipgloss.Style {
	switch s {
	case domain.SeverityHigh:
		return tuistyles.ErrorStyle
	case domain.SeverityMedium:
		return tuistyles.WarnStyle
	default:
		return tuistyles.InfoStyle
	}
}
