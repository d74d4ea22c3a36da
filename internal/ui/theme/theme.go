// Package theme holds the palette and shared lipgloss styles. The tones
// are those of a school notebook: ink blue, red pen and highlighter.
package theme

import (
	"image/color"

	"charm.land/lipgloss/v2"
)

var (
	Primary   = lipgloss.Color("#4F6BED")
	Secondary = lipgloss.Color("#38BDF8")
	Accent    = lipgloss.Color("#FBBF24")
	Success   = lipgloss.Color("#4ADE80")
	Error     = lipgloss.Color("#F87171")
	Warning   = lipgloss.Color("#FACC15")
	Text      = lipgloss.Color("#F1F5F9")
	TextDim   = lipgloss.Color("#8B9BB4")
	Border    = lipgloss.Color("#3B4A63")
)

func fg(c color.Color) lipgloss.Style { return lipgloss.NewStyle().Foreground(c) }

func boxed(border color.Color) lipgloss.Style {
	return lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(border)
}

var (
	Title    = fg(Primary).Bold(true).Align(lipgloss.Center)
	Subtitle = fg(TextDim).Align(lipgloss.Center)
	Heading  = fg(Secondary).Bold(true)
	Body     = fg(Text)
	Hint     = fg(TextDim).Italic(true)

	Selected   = fg(Primary).Bold(true)
	Unselected = fg(Text)
	Correct    = fg(Success).Bold(true)
	Incorrect  = fg(Error).Bold(true)
	Warn       = fg(Warning)
	ErrorText  = fg(Error)

	Card         = boxed(Border).Padding(1, 2)
	FeedbackCard = boxed(Secondary).Padding(0, 1)

	ButtonActive   = fg(Text).Background(Primary).Bold(true).Padding(0, 2)
	ButtonInactive = boxed(Border).Foreground(TextDim).Padding(0, 2)
)
