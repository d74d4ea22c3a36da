// Package router keeps the stack of screens the TUI navigates through.
// Screens move between each other by returning the messages below as
// commands; the router applies them before forwarding anything else to
// the top screen.
package router

import (
	tea "charm.land/bubbletea/v2"

	"github.com/abhisek/revizio/internal/screen"
)

type (
	// PushScreenMsg opens Screen above the current one.
	PushScreenMsg struct{ Screen screen.Screen }

	// PopScreenMsg goes back one screen.
	PopScreenMsg struct{}

	// ReplaceScreenMsg swaps the current screen for Screen.
	ReplaceScreenMsg struct{ Screen screen.Screen }

	// PopToRootMsg goes back to the first screen, which is re-initialized
	// so it can refresh what changed while it was covered.
	PopToRootMsg struct{}
)

type Router struct {
	stack []screen.Screen
}

func New(root screen.Screen) *Router {
	return &Router{stack: []screen.Screen{root}}
}

// Push opens s and returns its Init command.
func (r *Router) Push(s screen.Screen) tea.Cmd {
	r.stack = append(r.stack, s)
	return s.Init()
}

// Pop drops the top screen. The root is never popped.
func (r *Router) Pop() tea.Cmd {
	if len(r.stack) > 1 {
		r.stack[len(r.stack)-1] = nil
		r.stack = r.stack[:len(r.stack)-1]
	}
	return nil
}

// Replace swaps the top screen for s and returns its Init command.
func (r *Router) Replace(s screen.Screen) tea.Cmd {
	if len(r.stack) == 0 {
		r.stack = append(r.stack, s)
	} else {
		r.stack[len(r.stack)-1] = s
	}
	return s.Init()
}

func (r *Router) PopToRoot() tea.Cmd {
	if len(r.stack) == 0 {
		return nil
	}
	clear(r.stack[1:])
	r.stack = r.stack[:1]
	return r.stack[0].Init()
}

// Active returns the top screen, or nil for an empty router.
func (r *Router) Active() screen.Screen {
	if n := len(r.stack); n > 0 {
		return r.stack[n-1]
	}
	return nil
}

func (r *Router) Depth() int { return len(r.stack) }

// Breadcrumb lists the titles from the root to the active screen,
// skipping screens without a title.
func (r *Router) Breadcrumb() []string {
	var out []string
	for _, s := range r.stack {
		if t := s.Title(); t != "" {
			out = append(out, t)
		}
	}
	return out
}

func (r *Router) Update(msg tea.Msg) tea.Cmd {
	switch msg := msg.(type) {
	case PushScreenMsg:
		return r.Push(msg.Screen)
	case PopScreenMsg:
		return r.Pop()
	case ReplaceScreenMsg:
		return r.Replace(msg.Screen)
	case PopToRootMsg:
		return r.PopToRoot()
	}

	active := r.Active()
	if active == nil {
		return nil
	}
	next, cmd := active.Update(msg)
	r.stack[len(r.stack)-1] = next
	return cmd
}

func (r *Router) View(width, height int) string {
	if active := r.Active(); active != nil {
		return active.View(width, height)
	}
	return ""
}
