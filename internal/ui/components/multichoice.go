package components

import (
	"fmt"
	"strconv"

	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"

	"github.com/abhisek/revizio/internal/ui/theme"
)

// MultiChoice is a multiple-choice selector component. Options can be
// picked with the arrows and enter, or directly with their number.
type MultiChoice struct {
	Question  string
	Options   []string
	Selected  int
	Submitted bool
	Chosen    int

	// Correct is revealed once the answer has been graded; -1 until then.
	Correct int
}

// NewMultiChoice creates a new multiple-choice component.
func NewMultiChoice(question string, options []string) MultiChoice {
	return MultiChoice{
		Question: question,
		Options:  options,
		Chosen:   -1,
		Correct:  -1,
	}
}

// Init returns nil.
func (m MultiChoice) Init() tea.Cmd {
	return nil
}

// Update handles keyboard navigation and selection.
func (m MultiChoice) Update(msg tea.Msg) (MultiChoice, tea.Cmd) {
	if m.Submitted {
		return m, nil
	}

	kmsg, ok := msg.(tea.KeyMsg)
	if !ok {
		return m, nil
	}

	key := kmsg.String()
	switch key {
	case "up", "k":
		if m.Selected > 0 {
			m.Selected--
		}
	case "down", "j":
		if m.Selected < len(m.Options)-1 {
			m.Selected++
		}
	case "enter":
		if len(m.Options) > 0 {
			m.Submitted = true
			m.Chosen = m.Selected
		}
	default:
		if n, err := strconv.Atoi(key); err == nil && n >= 1 && n <= len(m.Options) {
			m.Selected = n - 1
			m.Submitted = true
			m.Chosen = m.Selected
		}
	}

	return m, nil
}

// Value returns the chosen option text, or "" before submission.
func (m MultiChoice) Value() string {
	if m.Chosen < 0 || m.Chosen >= len(m.Options) {
		return ""
	}
	return m.Options[m.Chosen]
}

// Reveal marks the correct option by its text for the feedback view.
func (m *MultiChoice) Reveal(correct string) {
	for i, opt := range m.Options {
		if opt == correct {
			m.Correct = i
			return
		}
	}
}

// Reset clears a submission so the learner can pick again.
func (m *MultiChoice) Reset() {
	m.Submitted = false
	m.Chosen = -1
}

// View renders the multiple-choice component.
func (m MultiChoice) View() string {
	questionStyle := lipgloss.NewStyle().Foreground(theme.Text).Bold(true)
	s := questionStyle.Render(m.Question) + "\n\n"

	for i, opt := range m.Options {
		prefix := "  "
		if i == m.Selected && !m.Submitted {
			prefix = "▸ "
		}

		line := fmt.Sprintf("%s%d)  %s", prefix, i+1, opt)

		switch {
		case m.Submitted && m.Correct >= 0 && i == m.Correct:
			s += theme.Correct.Render(line) + "\n"
		case m.Submitted && i == m.Chosen && m.Correct >= 0:
			s += theme.Incorrect.Render(line) + "\n"
		case m.Submitted && i == m.Chosen:
			s += theme.Selected.Render(line) + "\n"
		case m.Submitted:
			s += lipgloss.NewStyle().Foreground(theme.TextDim).Render(line) + "\n"
		case i == m.Selected:
			s += theme.Selected.Render(line) + "\n"
		default:
			s += theme.Unselected.Render(line) + "\n"
		}
	}

	return s
}

// IsCorrect returns true if the user chose the revealed correct answer.
func (m MultiChoice) IsCorrect() bool {
	return m.Submitted && m.Correct >= 0 && m.Chosen == m.Correct
}
