package app

import (
	"testing"

	tea "charm.land/bubbletea/v2"

	cat "github.com/abhisek/revizio/internal/catalog"
	"github.com/abhisek/revizio/internal/quizgen"
	"github.com/abhisek/revizio/internal/router"
	"github.com/abhisek/revizio/internal/screens/catalog"
)

func testModel() AppModel {
	return newAppModel(Options{Catalog: catalog.Options{
		Catalog: cat.Default(),
		Kind:    quizgen.KindMixed,
		Count:   3,
	}})
}

func TestAppModel_CtrlCQuits(t *testing.T) {
	m := testModel()
	_, cmd := m.Update(tea.KeyPressMsg{Code: 'c', Mod: tea.ModCtrl})
	if cmd == nil {
		t.Fatal("expected quit command")
	}
	if _, ok := cmd().(tea.QuitMsg); !ok {
		t.Error("expected tea.QuitMsg")
	}
}

func TestAppModel_EscAtRootIsNoop(t *testing.T) {
	m := testModel()
	_, cmd := m.Update(tea.KeyPressMsg{Code: tea.KeyEscape})
	if cmd != nil {
		t.Error("expected no command for esc on the root screen")
	}
}

func TestAppModel_ViewTooSmall(t *testing.T) {
	m := testModel()
	updated, _ := m.Update(tea.WindowSizeMsg{Width: 40, Height: 10})
	v := updated.(AppModel).View()
	if !v.AltScreen {
		t.Error("expected alt screen")
	}
}

func TestAppModel_PushAndPop(t *testing.T) {
	m := testModel()
	root := m.router.Active()

	m.Update(router.PushScreenMsg{Screen: root})
	if m.router.Depth() != 2 {
		t.Fatalf("depth = %d, want 2", m.router.Depth())
	}
	_, cmd := m.Update(tea.KeyPressMsg{Code: tea.KeyEscape})
	if cmd == nil {
		t.Fatal("expected pop command")
	}
	m.Update(cmd())
	if m.router.Depth() != 1 {
		t.Errorf("depth = %d, want 1", m.router.Depth())
	}
}

func TestAppModel_SplashReplacedByCatalog(t *testing.T) {
	m := newAppModel(Options{Splash: true, Catalog: catalog.Options{
		Catalog: cat.Default(),
		Kind:    quizgen.KindMixed,
		Count:   3,
	}})
	if m.router.Active().Title() != "" {
		t.Fatalf("expected the splash first, got %q", m.router.Active().Title())
	}

	_, cmd := m.Update(tea.KeyPressMsg{Code: ' '})
	if cmd == nil {
		t.Fatal("expected a transition command")
	}
	m.Update(cmd())
	if _, ok := m.router.Active().(*catalog.CatalogScreen); !ok {
		t.Fatalf("active screen = %T, want *catalog.CatalogScreen", m.router.Active())
	}
	if m.router.Depth() != 1 {
		t.Errorf("depth = %d, want 1", m.router.Depth())
	}
}
