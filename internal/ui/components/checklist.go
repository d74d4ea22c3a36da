package components

import (
	"strings"

	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"

	"github.com/abhisek/revizio/internal/catalog"
	"github.com/abhisek/revizio/internal/ui/theme"
)

// Checklist renders the lesson catalog as a list of checkboxes grouped by
// subject and chapter. The cursor only stops on lesson lines. Toggling
// writes through to the shared Selection.
type Checklist struct {
	Entries   []catalog.Entry
	Selection *catalog.Selection
	Cursor    int
	Height    int
	offset    int
}

// NewChecklist creates a checklist positioned on the first lesson.
func NewChecklist(entries []catalog.Entry, sel *catalog.Selection) Checklist {
	c := Checklist{Entries: entries, Selection: sel, Cursor: -1}
	c.Cursor = c.next(-1, 1)
	return c
}

// Update handles cursor movement and toggling.
func (c Checklist) Update(msg tea.Msg) (Checklist, tea.Cmd) {
	kmsg, ok := msg.(tea.KeyMsg)
	if !ok || c.Cursor < 0 {
		return c, nil
	}

	switch kmsg.String() {
	case "up", "k":
		c.Cursor = c.next(c.Cursor, -1)
	case "down", "j":
		c.Cursor = c.next(c.Cursor, 1)
	case "space", " ", "x":
		c.toggle()
	}
	c.scroll()
	return c, nil
}

// Current returns the lesson under the cursor.
func (c Checklist) Current() (catalog.LessonRef, bool) {
	if c.Cursor < 0 || c.Cursor >= len(c.Entries) || c.Entries[c.Cursor].Ref == nil {
		return catalog.LessonRef{}, false
	}
	return *c.Entries[c.Cursor].Ref, true
}

func (c *Checklist) toggle() {
	ref, ok := c.Current()
	if !ok || c.Selection == nil {
		return
	}
	c.Selection.Toggle(ref, !c.Selection.Contains(ref.Path))
}

// next returns the index of the nearest selectable entry from i in
// direction dir, or i when there is none.
func (c Checklist) next(i, dir int) int {
	for j := i + dir; j >= 0 && j < len(c.Entries); j += dir {
		if c.Entries[j].Selectable() {
			return j
		}
	}
	return i
}

func (c *Checklist) scroll() {
	if c.Height <= 0 {
		return
	}
	if c.Cursor < c.offset {
		c.offset = c.Cursor
	}
	if c.Cursor >= c.offset+c.Height {
		c.offset = c.Cursor - c.Height + 1
	}
	// Keep the section headers above the first lesson visible.
	if c.offset > 0 && c.offset <= 2 && c.Cursor < c.Height {
		c.offset = 0
	}
}

// View renders the visible window of the checklist.
func (c Checklist) View() string {
	if len(c.Entries) == 0 {
		return theme.Hint.Render("Aucune leçon dans le catalogue.")
	}

	end := len(c.Entries)
	if c.Height > 0 && c.offset+c.Height < end {
		end = c.offset + c.Height
	}

	var b strings.Builder
	for i := c.offset; i < end; i++ {
		e := c.Entries[i]
		switch e.Level {
		case catalog.LevelSubject:
			b.WriteString(theme.Heading.Render(strings.ToUpper(e.Label)))
		case catalog.LevelChapter:
			b.WriteString(lipgloss.NewStyle().Foreground(theme.Accent).Render("  " + e.Label))
		default:
			box := "[ ]"
			if c.Selection != nil && e.Ref != nil && c.Selection.Contains(e.Ref.Path) {
				box = "[x]"
			}
			line := box + " " + e.Label
			if i == c.Cursor {
				b.WriteString(theme.Selected.Render("  ▸ " + line))
			} else {
				b.WriteString(theme.Unselected.Render("    " + line))
			}
		}
		b.WriteString("\n")
	}
	return b.String()
}
