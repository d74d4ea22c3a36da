package app

import (
	"fmt"
	"log/slog"
	"os"
	"strings"

	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"

	"github.com/abhisek/revizio/internal/router"
	"github.com/abhisek/revizio/internal/screen"
	"github.com/abhisek/revizio/internal/screens/catalog"
	"github.com/abhisek/revizio/internal/screens/welcome"
	"github.com/abhisek/revizio/internal/ui/layout"
)

// Options holds the dependencies injected into the TUI.
type Options struct {
	Catalog catalog.Options
	Logger  *slog.Logger

	// Splash shows the welcome animation before the catalog.
	Splash bool
}

// AppModel is the root Bubble Tea model.
type AppModel struct {
	router *router.Router
	logger *slog.Logger
	width  int
	height int
}

// newAppModel creates a new AppModel rooted at the lesson selection
// screen, behind the splash when enabled.
func newAppModel(opts Options) AppModel {
	logger := opts.Logger
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	root := func() screen.Screen { return catalog.New(opts.Catalog) }
	first := root()
	if opts.Splash {
		first = welcome.New(root)
	}
	return AppModel{
		router: router.New(first),
		logger: logger,
	}
}

func (m AppModel) Init() tea.Cmd {
	return m.router.Active().Init()
}

func (m AppModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		return m, nil

	case tea.KeyMsg:
		switch msg.String() {
		case "ctrl+c":
			return m, tea.Quit
		case "esc":
			if bh, ok := m.router.Active().(screen.BackHandler); ok && bh.HandlesBack() {
				break
			}
			if m.router.Depth() > 1 {
				return m, func() tea.Msg { return router.PopScreenMsg{} }
			}
			return m, nil
		}

	case router.PushScreenMsg:
		m.logger.Debug("push screen", slog.String("title", msg.Screen.Title()))
	}

	cmd := m.router.Update(msg)
	return m, cmd
}

func (m AppModel) View() tea.View {
	v := tea.NewView("")
	v.AltScreen = true

	if m.width == 0 || m.height == 0 {
		return v
	}

	if layout.IsTooSmall(m.width, m.height) {
		v.SetContent(layout.RenderMinSizeMessage(m.width, m.height))
		return v
	}

	active := m.router.Active()
	title := strings.Join(m.router.Breadcrumb(), " › ")
	status := ""
	if sp, ok := active.(screen.StatusProvider); ok {
		status = sp.Status()
	}

	header := layout.RenderHeader(title, status, m.width)

	var footerHints []layout.KeyHint
	if kp, ok := active.(screen.KeyHintProvider); ok {
		footerHints = kp.KeyHints()
	} else if m.router.Depth() > 1 {
		footerHints = []layout.KeyHint{
			{Key: "Esc", Description: "Retour"},
			{Key: "Ctrl+C", Description: "Quitter"},
		}
	} else {
		footerHints = []layout.KeyHint{
			{Key: "↑↓", Description: "Naviguer"},
			{Key: "Entrée", Description: "Choisir"},
			{Key: "Ctrl+C", Description: "Quitter"},
		}
	}

	footer := layout.RenderFooter(footerHints, m.width)

	headerHeight := lipgloss.Height(header)
	footerHeight := lipgloss.Height(footer)
	contentHeight := max(m.height-headerHeight-footerHeight, 0)

	content := m.router.View(m.width, contentHeight)
	frame := layout.RenderFrame(header, content, footer, m.width, m.height)

	v.SetContent(frame)
	return v
}

// Run starts the Bubble Tea program.
func Run(opts Options) error {
	p := tea.NewProgram(newAppModel(opts))
	_, err := p.Run()
	if err != nil {
		fmt.Fprintln(os.Stderr, "Error running program:", err)
		return err
	}
	return nil
}
