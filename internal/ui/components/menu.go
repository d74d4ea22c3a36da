package components

import (
	"strconv"
	"strings"

	tea "charm.land/bubbletea/v2"

	"github.com/abhisek/revizio/internal/ui/theme"
)

// MenuItem is one entry of a Menu.
type MenuItem struct {
	Label  string
	Action func() tea.Cmd
}

// Menu is a short vertical list of actions. Arrows move the cursor and
// wrap around; digits 1-9 trigger an entry directly.
type Menu struct {
	Items  []MenuItem
	Cursor int
}

func NewMenu(items []MenuItem) Menu {
	return Menu{Items: items}
}

func (m Menu) Update(msg tea.Msg) (Menu, tea.Cmd) {
	kmsg, ok := msg.(tea.KeyMsg)
	if !ok || len(m.Items) == 0 {
		return m, nil
	}

	key := kmsg.String()
	switch key {
	case "up", "k":
		m.Cursor = (m.Cursor - 1 + len(m.Items)) % len(m.Items)
		return m, nil
	case "down", "j", "tab":
		m.Cursor = (m.Cursor + 1) % len(m.Items)
		return m, nil
	case "enter":
		return m, m.activate(m.Cursor)
	}
	if n, err := strconv.Atoi(key); err == nil && n >= 1 && n <= len(m.Items) {
		m.Cursor = n - 1
		return m, m.activate(m.Cursor)
	}
	return m, nil
}

func (m Menu) activate(i int) tea.Cmd {
	if a := m.Items[i].Action; a != nil {
		return a()
	}
	return nil
}

func (m Menu) View() string {
	var b strings.Builder
	for i, item := range m.Items {
		line := strconv.Itoa(i+1) + ". " + item.Label
		if i == m.Cursor {
			b.WriteString(theme.Selected.Render("▸ " + line))
		} else {
			b.WriteString(theme.Unselected.Render("  " + line))
		}
		b.WriteString("\n")
	}
	return b.String()
}
