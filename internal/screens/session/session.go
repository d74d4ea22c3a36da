package session

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"charm.land/bubbles/v2/spinner"
	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"

	"github.com/abhisek/revizio/internal/aiproxy"
	"github.com/abhisek/revizio/internal/catalog"
	"github.com/abhisek/revizio/internal/lessons"
	"github.com/abhisek/revizio/internal/quiz"
	"github.com/abhisek/revizio/internal/quizgen"
	"github.com/abhisek/revizio/internal/router"
	"github.com/abhisek/revizio/internal/screen"
	"github.com/abhisek/revizio/internal/screens/summary"
	sess "github.com/abhisek/revizio/internal/session"
	"github.com/abhisek/revizio/internal/ui/components"
	"github.com/abhisek/revizio/internal/ui/layout"
	"github.com/abhisek/revizio/internal/ui/theme"
)

// Player plays a dictation clip.
type Player interface {
	Play(ctx context.Context, clip []byte) error
}

// Deps are the collaborators of the quiz screen.
type Deps struct {
	Controller *sess.Controller
	Feed       Feed
	Player     Player

	// Timeout bounds one correction or speech request. Zero means none.
	Timeout time.Duration
}

// Request describes the quiz to build.
type Request struct {
	Refs  []catalog.LessonRef
	Kind  quizgen.Kind
	Count int
}

// SessionScreen implements screen.Screen for a running quiz, from loading
// to the last question.
type SessionScreen struct {
	deps Deps
	req  Request

	spinner  spinner.Model
	loading  bool
	progress map[int]quizgen.Progress
	failure  error

	item  quiz.Item
	pos   int
	total int

	choice components.MultiChoice
	input  components.TextInput
	area   components.TextArea

	grading     bool
	grade       *quiz.Grade
	notice      string
	playing     bool
	confirmQuit bool
}

var _ screen.Screen = (*SessionScreen)(nil)
var _ screen.KeyHintProvider = (*SessionScreen)(nil)
var _ screen.StatusProvider = (*SessionScreen)(nil)
var _ screen.BackHandler = (*SessionScreen)(nil)

// New creates a quiz screen that starts building req on Init.
func New(deps Deps, req Request) *SessionScreen {
	return &SessionScreen{
		deps:     deps,
		req:      req,
		spinner:  spinner.New(spinner.WithSpinner(spinner.Dot), spinner.WithStyle(lipgloss.NewStyle().Foreground(theme.Accent))),
		loading:  true,
		progress: make(map[int]quizgen.Progress),
	}
}

func (s *SessionScreen) Init() tea.Cmd {
	if s.deps.Feed != nil {
		s.deps.Feed.drain()
	}
	return tea.Batch(s.spinner.Tick, s.start(), s.waitProgress())
}

func (s *SessionScreen) Title() string {
	if s.item != nil {
		return fmt.Sprintf("Question %d/%d", s.pos, s.total)
	}
	return "Quiz"
}

// Status shows the running tally.
func (s *SessionScreen) Status() string {
	if s.loading || s.failure != nil {
		return ""
	}
	r := s.deps.Controller.Result()
	return fmt.Sprintf("%g / %g pts  ", r.Earned, r.Available)
}

// HandlesBack keeps esc inside the screen so a quiz is never left by
// accident.
func (s *SessionScreen) HandlesBack() bool { return true }

func (s *SessionScreen) KeyHints() []layout.KeyHint {
	switch {
	case s.confirmQuit:
		return []layout.KeyHint{
			{Key: "O", Description: "Abandonner"},
			{Key: "N", Description: "Continuer"},
		}
	case s.failure != nil:
		return []layout.KeyHint{{Key: "Entrée", Description: "Retour au menu"}}
	case s.loading:
		return []layout.KeyHint{{Key: "Esc", Description: "Abandonner"}}
	case s.grade != nil:
		return []layout.KeyHint{{Key: "Entrée", Description: "Question suivante"}}
	}

	hints := []layout.KeyHint{}
	switch s.item.(type) {
	case quiz.MultipleChoice:
		hints = append(hints, layout.KeyHint{Key: "1-4", Description: "Choisir"})
	case quiz.TrueFalse:
		hints = append(hints, layout.KeyHint{Key: "V/F", Description: "Choisir"})
	case quiz.Essay:
		hints = append(hints, layout.KeyHint{Key: "Ctrl+S", Description: "Envoyer"})
	case quiz.Dictation:
		hints = append(hints,
			layout.KeyHint{Key: "Ctrl+P", Description: "Écouter"},
			layout.KeyHint{Key: "Entrée", Description: "Valider"})
	case quiz.Unknown:
	default:
		hints = append(hints, layout.KeyHint{Key: "Entrée", Description: "Valider"})
	}
	return append(hints,
		layout.KeyHint{Key: "Tab", Description: "Passer"},
		layout.KeyHint{Key: "Esc", Description: "Abandonner"})
}

func (s *SessionScreen) View(width, height int) string {
	switch {
	case s.confirmQuit:
		return renderQuitConfirm(width)
	case s.failure != nil:
		return s.renderFailure(width)
	case s.loading:
		return s.renderLoading(width)
	case s.grade != nil:
		return s.renderFeedback(width)
	}
	return s.renderQuestionView(width, height)
}

func (s *SessionScreen) Update(msg tea.Msg) (screen.Screen, tea.Cmd) {
	switch msg := msg.(type) {
	case startDoneMsg:
		return s.handleStarted(msg)

	case progressMsg:
		if !s.loading {
			return s, nil
		}
		p := quizgen.Progress(msg)
		s.progress[p.Index] = p
		return s, s.waitProgress()

	case spinner.TickMsg:
		if !s.loading && !s.grading && !s.playing {
			return s, nil
		}
		var cmd tea.Cmd
		s.spinner, cmd = s.spinner.Update(msg)
		return s, cmd

	case gradedMsg:
		return s.handleGraded(msg)

	case playDoneMsg:
		if msg.Pos != s.pos {
			return s, nil
		}
		s.playing = false
		if msg.Err != nil {
			s.notice = describeSpeechError(msg.Err)
		}
		return s, nil

	case tea.KeyMsg:
		return s.handleKey(msg)
	}

	return s.forward(msg)
}

// start builds the question list off the UI loop.
func (s *SessionScreen) start() tea.Cmd {
	ctrl, req := s.deps.Controller, s.req
	return func() tea.Msg {
		err := ctrl.Start(context.Background(), req.Refs, req.Kind, req.Count)
		return startDoneMsg{Err: err}
	}
}

func (s *SessionScreen) waitProgress() tea.Cmd {
	feed := s.deps.Feed
	if feed == nil {
		return nil
	}
	return func() tea.Msg {
		return progressMsg(<-feed)
	}
}

func (s *SessionScreen) handleStarted(msg startDoneMsg) (screen.Screen, tea.Cmd) {
	if !s.loading {
		return s, nil
	}
	s.loading = false
	if errors.Is(msg.Err, context.Canceled) {
		// Abandoned while loading; the screen is already gone.
		return s, nil
	}
	if msg.Err != nil {
		s.failure = msg.Err
		return s, nil
	}
	return s, s.loadItem()
}

// loadItem resets the per-question widgets for the controller's current item.
func (s *SessionScreen) loadItem() tea.Cmd {
	s.item, s.pos, s.total = s.deps.Controller.Current()
	s.grade, s.notice, s.grading, s.playing = nil, "", false, false

	switch it := s.item.(type) {
	case quiz.MultipleChoice:
		s.choice = components.NewMultiChoice(it.Prompt, it.Options)
	case quiz.TrueFalse:
		s.choice = components.NewMultiChoice(it.Prompt, []string{quiz.BoolLabel(true), quiz.BoolLabel(false)})
	case quiz.Essay:
		s.area = components.NewTextArea("Rédige ton paragraphe ici...", 70, 8)
		return s.area.Init()
	case quiz.ShortAnswer, quiz.SpotTheError, quiz.Dictation:
		s.input = components.NewTextInput("Ta réponse...", 60)
		return s.input.Init()
	}
	return nil
}

func (s *SessionScreen) handleKey(msg tea.KeyMsg) (screen.Screen, tea.Cmd) {
	key := msg.String()

	if s.confirmQuit {
		switch key {
		case "o", "y", "enter":
			return s.abandon()
		case "n", "esc":
			s.confirmQuit = false
		}
		return s, nil
	}

	if s.failure != nil {
		if key == "enter" || key == "esc" {
			return s.abandon()
		}
		return s, nil
	}

	if key == "esc" {
		s.confirmQuit = true
		return s, nil
	}

	if s.loading {
		return s, nil
	}

	if s.grade != nil {
		if key == "enter" || key == "space" || key == " " {
			return s.next()
		}
		return s, nil
	}

	if s.grading {
		return s, nil
	}

	switch key {
	case "tab":
		return s.skip()
	case "ctrl+p":
		if _, ok := s.item.(quiz.Dictation); ok {
			return s.play()
		}
		return s, nil
	}

	switch s.item.(type) {
	case quiz.MultipleChoice:
		var cmd tea.Cmd
		s.choice, cmd = s.choice.Update(msg)
		if s.choice.Submitted {
			return s.submitLocal(func() (quiz.Grade, error) {
				return s.deps.Controller.SubmitChoice(s.choice.Value())
			})
		}
		return s, cmd

	case quiz.TrueFalse:
		switch key {
		case "v":
			s.choice.Selected, s.choice.Submitted, s.choice.Chosen = 0, true, 0
		case "f":
			s.choice.Selected, s.choice.Submitted, s.choice.Chosen = 1, true, 1
		default:
			s.choice, _ = s.choice.Update(msg)
		}
		if s.choice.Submitted {
			answer := s.choice.Chosen == 0
			return s.submitLocal(func() (quiz.Grade, error) {
				return s.deps.Controller.SubmitTrueFalse(answer)
			})
		}
		return s, nil

	case quiz.Dictation:
		if key == "enter" {
			text := s.input.Value()
			return s.submitLocal(func() (quiz.Grade, error) {
				return s.deps.Controller.SubmitDictation(text)
			})
		}

	case quiz.Essay:
		if key == "ctrl+s" {
			return s.submitText(s.area.Value())
		}

	case quiz.ShortAnswer, quiz.SpotTheError:
		if key == "enter" {
			return s.submitText(s.input.Value())
		}

	case quiz.Unknown:
		if key == "enter" {
			return s.skip()
		}
		return s, nil
	}

	return s.forward(msg)
}

// forward hands the message to the active text widget.
func (s *SessionScreen) forward(msg tea.Msg) (screen.Screen, tea.Cmd) {
	if s.loading || s.failure != nil || s.grade != nil || s.grading || s.confirmQuit {
		return s, nil
	}
	var cmd tea.Cmd
	switch s.item.(type) {
	case quiz.Essay:
		s.area, cmd = s.area.Update(msg)
	case quiz.ShortAnswer, quiz.SpotTheError, quiz.Dictation:
		s.input, cmd = s.input.Update(msg)
	}
	return s, cmd
}

func (s *SessionScreen) submitLocal(grade func() (quiz.Grade, error)) (screen.Screen, tea.Cmd) {
	g, err := grade()
	return s.handleGraded(gradedMsg{Pos: s.pos, Grade: g, Err: err})
}

// submitText sends a free-text answer for correction off the UI loop.
func (s *SessionScreen) submitText(text string) (screen.Screen, tea.Cmd) {
	s.grading = true
	s.notice = ""
	ctrl, timeout, pos := s.deps.Controller, s.deps.Timeout, s.pos
	return s, tea.Batch(s.spinner.Tick, func() tea.Msg {
		ctx := context.Background()
		if timeout > 0 {
			var cancel context.CancelFunc
			ctx, cancel = context.WithTimeout(ctx, timeout)
			defer cancel()
		}
		g, err := ctrl.SubmitText(ctx, text)
		return gradedMsg{Pos: pos, Grade: g, Err: err}
	})
}

func (s *SessionScreen) handleGraded(msg gradedMsg) (screen.Screen, tea.Cmd) {
	if msg.Pos != s.pos {
		return s, nil
	}
	s.grading = false
	if msg.Err != nil {
		s.notice = describeAnswerError(msg.Err)
		s.choice.Reset()
		return s, nil
	}
	g := msg.Grade
	s.grade = &g
	s.notice = ""
	switch it := s.item.(type) {
	case quiz.MultipleChoice:
		s.choice.Reveal(it.Correct)
	case quiz.TrueFalse:
		s.choice.Reveal(quiz.BoolLabel(it.Correct))
	case quiz.Essay:
		s.area.Submit()
	default:
		s.input.Submit(g.Correct)
	}
	return s, nil
}

func (s *SessionScreen) skip() (screen.Screen, tea.Cmd) {
	if err := s.deps.Controller.Skip(); err != nil {
		s.notice = describeAnswerError(err)
		return s, nil
	}
	return s.afterAdvance()
}

func (s *SessionScreen) next() (screen.Screen, tea.Cmd) {
	if err := s.deps.Controller.Next(); err != nil {
		s.notice = describeAnswerError(err)
		return s, nil
	}
	return s.afterAdvance()
}

// afterAdvance shows the next question or hands over to the summary.
func (s *SessionScreen) afterAdvance() (screen.Screen, tea.Cmd) {
	ctrl := s.deps.Controller
	if ctrl.Phase() == sess.PhaseFinished {
		sum := summary.New(ctrl.Result(), ctrl.Skipped(), ctrl)
		return s, func() tea.Msg { return router.ReplaceScreenMsg{Screen: sum} }
	}
	return s, s.loadItem()
}

// play fetches the dictation audio and plays it.
func (s *SessionScreen) play() (screen.Screen, tea.Cmd) {
	if s.playing {
		return s, nil
	}
	if s.deps.Controller.ReplaysLeft() == 0 {
		s.notice = "Plus d'écoute disponible pour cette dictée."
		return s, nil
	}
	s.playing = true
	s.notice = ""
	ctrl, player, timeout, pos := s.deps.Controller, s.deps.Player, s.deps.Timeout, s.pos
	return s, tea.Batch(s.spinner.Tick, func() tea.Msg {
		ctx := context.Background()
		if timeout > 0 {
			var cancel context.CancelFunc
			ctx, cancel = context.WithTimeout(ctx, timeout)
			defer cancel()
		}
		clip, err := ctrl.Speak(ctx)
		if err != nil {
			return playDoneMsg{Pos: pos, Err: err}
		}
		if player == nil {
			return playDoneMsg{Pos: pos, Err: errors.New("no audio player configured")}
		}
		return playDoneMsg{Pos: pos, Err: player.Play(context.Background(), clip)}
	})
}

// abandon drops the quiz and returns to the lesson selection.
func (s *SessionScreen) abandon() (screen.Screen, tea.Cmd) {
	s.deps.Controller.Restart()
	return s, func() tea.Msg { return router.PopScreenMsg{} }
}

func describeAnswerError(err error) string {
	var corr *aiproxy.CorrectionAPIError
	switch {
	case errors.Is(err, quiz.ErrAnswerTooShort):
		return "Réponse trop courte : " + strings.TrimPrefix(err.Error(), quiz.ErrAnswerTooShort.Error()+": ")
	case errors.Is(err, quiz.ErrNoChoice):
		return "Choisis une réponse."
	case errors.Is(err, sess.ErrGrading):
		return "Correction en cours, patiente un instant."
	case errors.As(err, &corr):
		return "La correction a échoué. Réessaie avec Entrée ou passe avec Tab."
	case errors.Is(err, context.DeadlineExceeded):
		return "La correction a pris trop de temps. Réessaie ou passe avec Tab."
	}
	return "Erreur : " + err.Error()
}

func describeSpeechError(err error) string {
	switch {
	case errors.Is(err, aiproxy.ErrTTSUnavailable):
		return "La synthèse vocale n'est pas disponible."
	case errors.Is(err, sess.ErrReplayLimit):
		return "Plus d'écoute disponible pour cette dictée."
	}
	return "Lecture impossible : " + err.Error()
}

// describeFailure explains why the question list could not be built.
func describeFailure(err error) string {
	var fetch *lessons.FetchError
	var gen *aiproxy.GenerationAPIError
	switch {
	case errors.As(err, &fetch) && fetch.NotFound():
		return fmt.Sprintf("Leçon introuvable : %s", fetch.Path)
	case errors.As(err, &fetch):
		return withDetail("Impossible de charger la leçon "+fetch.Path, fetch.Status, errText(fetch.Err))
	case errors.As(err, &gen):
		detail := gen.Detail
		if detail == "" {
			detail = errText(gen.Err)
		}
		return withDetail("Le service de génération de questions a échoué", gen.Status, detail)
	case errors.Is(err, quizgen.ErrNoQuestions):
		return "Aucune question n'a pu être générée à partir de ces leçons."
	case errors.Is(err, catalog.ErrSelectionEmpty):
		return "Aucune leçon sélectionnée."
	}
	return err.Error()
}

// withDetail appends the HTTP status and the server-supplied detail.
func withDetail(msg string, status int, detail string) string {
	if status > 0 {
		msg += fmt.Sprintf(" (HTTP %d)", status)
	}
	msg += "."
	if detail != "" {
		msg += "\nDétails : " + detail
	}
	return msg
}

func errText(err error) string {
	if err == nil {
		return ""
	}
	return err.Error()
}
