// Package layout draws the frame shared by every screen: a header bar,
// the screen body and a footer of key hints.
package layout

import (
	"fmt"
	"strings"

	"charm.land/lipgloss/v2"

	"github.com/abhisek/revizio/internal/ui/theme"
)

// Terminal size limits. Below the minimum only a resize notice is drawn;
// below the compact width screens stack their panes vertically.
const (
	MinWidth     = 60
	MinHeight    = 20
	CompactWidth = 100
)

// KeyHint is one "key description" pair in the footer.
type KeyHint struct {
	Key         string
	Description string
}

func IsCompactWidth(width int) bool { return width < CompactWidth }

func IsTooSmall(width, height int) bool {
	return width < MinWidth || height < MinHeight
}

// RenderMinSizeMessage asks the learner to enlarge the terminal.
func RenderMinSizeMessage(width, height int) string {
	msg := fmt.Sprintf("Fenêtre trop petite !\n\nAgrandis-la à au moins\n%d x %d\n\nActuelle : %d x %d",
		MinWidth, MinHeight, width, height)
	return lipgloss.Place(width, height, lipgloss.Center, lipgloss.Center,
		lipgloss.NewStyle().Foreground(theme.Text).Align(lipgloss.Center).Render(msg))
}

var bar = lipgloss.NewStyle().
	Border(lipgloss.RoundedBorder()).
	BorderForeground(theme.Border)

// RenderHeader lays out the app name, the screen title centered, and a
// right-aligned status.
func RenderHeader(title, status string, width int) string {
	inner := max(width-4, 0)
	name := theme.Selected.Render("  Revizio")
	right := lipgloss.NewStyle().Foreground(theme.Accent).Render(status)

	mid := lipgloss.PlaceHorizontal(max(inner-lipgloss.Width(name)-lipgloss.Width(right), 0),
		lipgloss.Center, theme.Body.Render(title))
	return bar.Width(width).Render(name + mid + right)
}

// RenderFooter joins the hints on one line. Hints that do not fit are
// dropped from the end and replaced by an ellipsis.
func RenderFooter(hints []KeyHint, width int) string {
	const sep = "   "
	avail := max(width-6, 0)

	var parts []string
	used := 0
	for i, h := range hints {
		part := lipgloss.NewStyle().Foreground(theme.Text).Bold(true).Render(h.Key) + " " +
			lipgloss.NewStyle().Foreground(theme.TextDim).Render(h.Description)
		w := lipgloss.Width(part)
		if i > 0 {
			w += len(sep)
		}
		if used+w > avail {
			parts = append(parts, theme.Hint.Render("…"))
			break
		}
		parts = append(parts, part)
		used += w
	}
	return bar.Width(width).Render("  " + strings.Join(parts, sep))
}

// RenderFrame stacks header, body and footer, giving the body whatever
// height remains.
func RenderFrame(header, content, footer string, width, height int) string {
	bodyHeight := max(height-lipgloss.Height(header)-lipgloss.Height(footer), 0)
	body := lipgloss.NewStyle().
		Width(width).
		Height(bodyHeight).
		MaxHeight(bodyHeight).
		Render(content)
	return lipgloss.JoinVertical(lipgloss.Left, header, body, footer)
}
