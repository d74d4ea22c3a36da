package components

import (
	"fmt"
	"strings"

	"charm.land/lipgloss/v2"

	"github.com/abhisek/revizio/internal/ui/theme"
)

// ProgressBar renders Done out of Total as a row of cells followed by
// the count, e.g. "■■■■□□□□  2/4".
type ProgressBar struct {
	Done  int
	Total int
	Width int
}

// NewProgressBar creates a bar of at most width columns.
func NewProgressBar(done, total, width int) ProgressBar {
	return ProgressBar{Done: done, Total: total, Width: width}
}

// Fraction returns Done/Total clamped to [0, 1]. An empty bar is 0.
func (p ProgressBar) Fraction() float64 {
	if p.Total <= 0 {
		return 0
	}
	return min(max(float64(p.Done)/float64(p.Total), 0), 1)
}

func (p ProgressBar) View() string {
	count := fmt.Sprintf("  %d/%d", max(p.Done, 0), max(p.Total, 0))
	cells := max(p.Width-lipgloss.Width(count), 4)
	filled := int(float64(cells) * p.Fraction())

	return lipgloss.NewStyle().Foreground(theme.Secondary).Render(strings.Repeat("■", filled)) +
		lipgloss.NewStyle().Foreground(theme.Border).Render(strings.Repeat("□", cells-filled)) +
		lipgloss.NewStyle().Foreground(theme.TextDim).Render(count)
}
