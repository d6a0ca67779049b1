// Package chart renders a sentiment table as a terminal bar chart.
package chart

import (
	"fmt"
	"math"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"NewsSentinel/internal/aggregate"
)

// DefaultHalfWidth is the number of cells on each side of the zero axis.
const DefaultHalfWidth = 20

var (
	positiveColor = lipgloss.Color("#10B981") // Green
	negativeColor = lipgloss.Color("#EF4444") // Red
	mutedColor    = lipgloss.Color("#6B7280")

	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("#7C3AED"))

	tickerStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("#F9FAFB"))

	positiveStyle = lipgloss.NewStyle().Foreground(positiveColor)
	negativeStyle = lipgloss.NewStyle().Foreground(negativeColor)
	mutedStyle    = lipgloss.NewStyle().Foreground(mutedColor)
)

const (
	barRune  = "█"
	axisRune = "│"
)

// Render draws one bar per (ticker, date) cell with the default width.
func Render(t *aggregate.Table) string {
	return RenderWidth(t, DefaultHalfWidth)
}

// RenderWidth draws the chart with halfWidth cells on each side of zero. The axis is
// fixed at [-1, 1] so charts from different runs compare directly.
func RenderWidth(t *aggregate.Table, halfWidth int) string {
	if halfWidth < 1 {
		halfWidth = 1
	}

	var sb strings.Builder
	sb.WriteString(titleStyle.Render("Mean daily headline sentiment"))
	sb.WriteString("\n")

	if t == nil || t.Len() == 0 {
		sb.WriteString(mutedStyle.Render("No headlines collected"))
		sb.WriteString("\n")
		return sb.String()
	}

	scale := fmt.Sprintf("%-13s%s%s%s", "", "-1", strings.Repeat(" ", 2*halfWidth-3), "+1")
	sb.WriteString(mutedStyle.Render(scale))
	sb.WriteString("\n")

	for _, ticker := range t.Tickers() {
		sb.WriteString(tickerStyle.Render(string(ticker)))
		sb.WriteString("\n")
		for _, date := range t.Dates() {
			mean, ok := t.Get(ticker, date)
			if !ok {
				continue
			}
			count := t.Count(aggregate.Key{Ticker: ticker, Date: date})
			fmt.Fprintf(&sb, "  %s %s %+.3f %s\n",
				date.String(), bar(mean, halfWidth), mean,
				mutedStyle.Render(fmt.Sprintf("(n=%d)", count)))
		}
	}
	return sb.String()
}

// bar renders v in [-1, 1] as a bar growing left or right from the axis.
func bar(v float64, halfWidth int) string {
	n := int(math.Round(math.Abs(v) * float64(halfWidth)))
	if n > halfWidth {
		n = halfWidth
	}

	left := strings.Repeat(" ", halfWidth)
	right := strings.Repeat(" ", halfWidth)
	switch {
	case v < 0 && n > 0:
		left = strings.Repeat(" ", halfWidth-n) + negativeStyle.Render(strings.Repeat(barRune, n))
	case v > 0 && n > 0:
		right = positiveStyle.Render(strings.Repeat(barRune, n)) + strings.Repeat(" ", halfWidth-n)
	}
	return left + mutedStyle.Render(axisRune) + right
}
