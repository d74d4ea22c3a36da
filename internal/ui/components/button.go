package components

import "github.com/abhisek/revizio/internal/ui/theme"

// Button renders a call to action. A disabled button is drawn dimmed and
// Reason, when set, is shown beside it.
type Button struct {
	Label   string
	Enabled bool
	Reason  string
}

func (b Button) View() string {
	if b.Enabled {
		return theme.ButtonActive.Render("▸ " + b.Label)
	}
	out := theme.ButtonInactive.Render(b.Label)
	if b.Reason != "" {
		out += "\n" + theme.Hint.Render(b.Reason)
	}
	return out
}
