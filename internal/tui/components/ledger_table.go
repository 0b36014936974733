package components

import (
	"strconv"

	"github.com/charmbracelet/bubbles/table"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/rgehrsitz/rothplan/internal/domain"
	"github.com/rgehrsitz/rothplan/internal/tui/tuistyles"
)

var ledgerColumns = []table.Column{
	{Title: "Year", Width: 6},
	{Title: "Age", Width: 4},
	{Title: "Conversion", Width: 12},
	{Title: "RMD", Width: 10},
	{Title: "Total tax", Width: 11},
	{Title: "Conv cost", Width: 10},
	{Title: "Advantage", Width: 12},
	{Title: "Net worth", Width: 13},
	{Title: "BE", Width: 3},
	{Title: "!", Width: 3},
}

// LedgerTable wraps a bubbles table over the simulation ledger
type LedgerTable struct {
	table table.Model
	years []domain.YearlyResult
}

func NewLedgerTable(height int) LedgerTable {
	t := table.New(
		table.WithColumns(ledgerColumns),
		table.WithFocused(true),
		table.WithHeight(height),
	)
	styles := table.DefaultStyles()
	styles.Header = tuistyles.TableHeaderStyle
	styles.Selected = tuistyles.TableHighlightStyle
	t.SetStyles(styles)
	return LedgerTable{table: t}
}

// SetYears replaces the rows and keeps the cursor in range
func (l *LedgerTable) SetYears(years []domain.YearlyResult) {
	l.years = years
	rows := make([]table.Row, 0, len(years))
	for _, yr := range years {
		rows = append(rows, LedgerRow(yr))
	}
	cursor := l.table.Cursor()
	l.table.SetRows(rows)
	if cursor >= len(rows) {
		cursor = len(rows) - 1
	}
	if cursor < 0 {
		cursor = 0
	}
	l.table.SetCursor(cursor)
}

// LedgerRow renders one year as table cells
func LedgerRow(yr domain.YearlyResult) table.Row {
	be := ""
	if yr.BreakEvenYear {
		be = "✓"
	}
	warn := ""
	if n := len(yr.Warnings); n > 0 {
		warn = strconv.Itoa(n)
	}
	return table.Row{
		strconv.Itoa(yr.Year),
		strconv.Itoa(yr.Age),
		tuistyles.FormatCurrency(yr.TotalConversion()),
		tuistyles.FormatCurrency(yr.RMD.Add(yr.SpouseRMD)),
		tuistyles.FormatCurrency(yr.TotalTax()),
		tuistyles.FormatCurrency(yr.ConversionTaxCost),
		tuistyles.FormatCurrency(yr.CumulativeTaxSaved),
		tuistyles.FormatCurrency(yr.NetWorth),
		be,
		warn,
	}
}

// Selected returns the year under the cursor
func (l LedgerTable) Selected() (domain.YearlyResult, bool) {
	i := l.table.Cursor()
	if i < 0 || i >= len(l.years) {
		return domain.YearlyResult{}, false
	}
	return l.years[i], true
}

func (l *LedgerTable) SetHeight(h int) { l.table.SetHeight(h) }

func (l LedgerTable) Update(msg tea.Msg) (LedgerTable, tea.Cmd) {
	var cmd tea.Cmd
	l.table, cmd = l.table.Update(msg)
	return l, cmd
}

func (l LedgerTable) View() string {
	return l.table.View()
}
