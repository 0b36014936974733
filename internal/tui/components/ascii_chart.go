package components

import (
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/rgehrsitz/rothplan/internal/domain"
	"github.com/rgehrsitz/rothplan/internal/tui/tuistyles"
)

// DataSeries is one plotted line
type DataSeries struct {
	Name   string
	Points []float64
	Color  lipgloss.Color
}

// ASCIIChart draws line series on a character grid
type ASCIIChart struct {
	Title  string
	Series []*DataSeries
	Labels []string
	Width  int
	Height int
}

func NewASCIIChart(title string) *ASCIIChart {
	return &ASCIIChart{Title: title, Width: 60, Height: 10}
}

func (c *ASCIIChart) AddSeries(name string, points []float64, color lipgloss.Color) *ASCIIChart {
	c.Series = append(c.Series, &DataSeries{Name: name, Points: points, Color: color})
	return c
}

func (c *ASCIIChart) WithLabels(labels []string) *ASCIIChart {
	c.Labels = labels
	return c
}

func (c *ASCIIChart) WithSize(width, height int) *ASCIIChart {
	c.Width = width
	c.Height = height
	return c
}

// NetWorthChart plots net worth with conversions against the no-conversion baseline
func NetWorthChart(years []domain.YearlyResult, width, height int) *ASCIIChart {
	with := make([]float64, len(years))
	base := make([]float64, len(years))
	labels := make([]string, len(years))
	for i, yr := range years {
		with[i] = yr.NetWorth.InexactFloat64()
		base[i] = yr.BaselineNetWorth.InexactFloat64()
		labels[i] = strconv.Itoa(yr.Year)
	}
	return NewASCIIChart("Net worth").
		AddSeries("with conversions", with, tuistyles.ColorChartLine1).
		AddSeries("baseline", base, tuistyles.ColorChartLine2).
		WithLabels(labels).
		WithSize(width, height)
}

func (c *ASCIIChart) Render() string {
	if len(c.Series) == 0 || len(c.Series[0].Points) == 0 {
		return tuistyles.InfoStyle.Render("No data to display")
	}

	var out strings.Builder
	if c.Title != "" {
		out.WriteString(lipgloss.NewStyle().Bold(true).Foreground(tuistyles.ColorPrimary).Render(c.Title))
		out.WriteString("\n")
	}
	lo, hi := c.bounds()
	out.WriteString(c.renderGrid(lo, hi))
	out.WriteString(c.renderLegend())
	return out.String()
}

// bounds returns the padded min and max across all series
func (c *ASCIIChart) bounds() (float64, float64) {
	lo, hi := math.Inf(1), math.Inf(-1)
	for _, s := range c.Series {
		for _, p := range s.Points {
			lo = math.Min(lo, p)
			hi = math.Max(hi, p)
		}
	}
	pad := (hi - lo) * 0.1
	if pad == 0 {
		pad = math.Max(math.Abs(hi)*0.1, 1)
	}
	return lo - pad, hi + pad
}

func (c *ASCIIChart) renderGrid(lo, hi float64) string {
	const axisWidth = 10
	plotWidth := c.Width - axisWidth - 3
	if plotWidth < 2 {
		plotWidth = 2
	}
	height := c.Height
	if height < 2 {
		height = 2
	}

	grid := make([][]rune, height)
	for i := range grid {
		grid[i] = []rune(strings.Repeat(" ", plotWidth))
	}

	toCell := func(i, n int, v float64) (int, int) {
		x := 0
		if n > 1 {
			x = int(float64(i) / float64(n-1) * float64(plotWidth-1))
		}
		y := height - 1 - int((v-lo)/(hi-lo)*float64(height-1))
		return x, y
	}

	for si, s := range c.Series {
		ch := seriesChar(si)
		for i, p := range s.Points {
			x, y := toCell(i, len(s.Points), p)
			if i > 0 {
				px, py := toCell(i-1, len(s.Points), s.Points[i-1])
				drawLine(grid, px, py, x, y, '·')
			}
			grid[y][x] = ch
		}
	}

	axis := lipgloss.NewStyle().Foreground(tuistyles.ColorMuted).Width(axisWidth).Align(lipgloss.Right)
	var out strings.Builder
	for i, row := range grid {
		v := hi - float64(i)/float64(height-1)*(hi-lo)
		out.WriteString(axis.Render(formatChartValue(v)))
		out.WriteString(" │ ")
		out.WriteString(string(row))
		out.WriteString("\n")
	}
	out.WriteString(strings.Repeat(" ", axisWidth+1))
	out.WriteString("└")
	out.WriteString(strings.Repeat("─", plotWidth+1))
	out.WriteString("\n")
	if len(c.Labels) > 0 {
		first, last := c.Labels[0], c.Labels[len(c.Labels)-1]
		gap := plotWidth - len(first) - len(last)
		if gap < 1 {
			gap = 1
		}
		out.WriteString(strings.Repeat(" ", axisWidth+3))
		out.WriteString(first + strings.Repeat(" ", gap) + last + "\n")
	}
	return out.String()
}

func (c *ASCIIChart) renderLegend() string {
	var items []string
	for i, s := range c.Series {
		items = append(items, lipgloss.NewStyle().Foreground(s.Color).Render(string(seriesChar(i)))+" "+s.Name)
	}
	return tuistyles.SubtitleStyle.Render(strings.Join(items, "  "))
}

func seriesChar(i int) rune {
	chars := []rune{'●', '■', '▲', '♦'}
	return chars[i%len(chars)]
}

// drawLine fills the cells between two points (Bresenham) without overwriting markers
func drawLine(grid [][]rune, x0, y0, x1, y1 int, ch rune) {
	dx, dy := abs(x1-x0), abs(y1-y0)
	sx, sy := -1, -1
	if x0 < x1 {
		sx = 1
	}
	if y0 < y1 {
		sy = 1
	}
	err := dx - dy
	for {
		if y0 >= 0 && y0 < len(grid) && x0 >= 0 && x0 < len(grid[y0]) && grid[y0][x0] == ' ' {
			grid[y0][x0] = ch
		}
		if x0 == x1 && y0 == y1 {
			return
		}
		e2 := 2 * err
		if e2 > -dy {
			err -= dy
			x0 += sx
		}
		if e2 < dx {
			err += dx
			y0 += sy
		}
	}
}

func formatChartValue(v float64) string {
	switch {
	case math.Abs(v) >= 1_000_000:
		return fmt.Sprintf("$%.1fM", v/1_000_000)
	case math.Abs(v) >= 1000:
		return fmt.Sprintf("$%.0fK", v/1000)
	default:
		return fmt.Sprintf("$%.0f", v)
	}
}

func abs(x int) int {
	if x < 0 {
		return -x
	}
	return x
}
