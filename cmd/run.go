package cmd

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/abhisek/revizio/internal/app"
	"github.com/abhisek/revizio/internal/audio"
	"github.com/abhisek/revizio/internal/quizgen"
	screencatalog "github.com/abhisek/revizio/internal/screens/catalog"
	quizscreen "github.com/abhisek/revizio/internal/screens/session"
	"github.com/abhisek/revizio/internal/session"
)

// runApp opens the store, builds dependencies, and launches the TUI.
func runApp(cmd *cobra.Command) error {
	ctx := cmd.Context()
	e, err := loadEnv(cmd)
	if err != nil {
		return err
	}
	defer e.Close()

	cat, err := e.catalog()
	if err != nil {
		return fmt.Errorf("load catalog: %w", err)
	}

	st, err := e.openStore()
	if err != nil {
		return err
	}
	defer st.Close()
	eventRepo := st.EventRepo()

	backend, err := e.backend(ctx, eventRepo)
	if err != nil {
		return err
	}

	feed := quizscreen.NewFeed()
	orchOpts := []quizgen.Option{
		quizgen.WithLogger(e.logger),
		quizgen.WithProgress(feed.Report),
	}
	if e.cfg.Quiz.Shuffle {
		orchOpts = append(orchOpts, quizgen.WithShuffle(uint64(time.Now().UnixNano())))
	}
	orch := quizgen.New(e.lessonSource(), backend, orchOpts...)

	ctrl := session.NewController(orch, backend,
		session.WithEvents(eventRepo),
		session.WithLogger(e.logger),
		session.WithConfig(session.Config{
			EssayMinLen: e.cfg.Quiz.EssayMinLen,
			ShortMinLen: e.cfg.Quiz.ShortMinLen,
			MaxReplays:  e.cfg.Quiz.MaxReplays,
		}),
	)

	noSplash, _ := cmd.Flags().GetBool("no-splash")
	return app.Run(app.Options{
		Logger: e.logger,
		Splash: !noSplash,
		Catalog: screencatalog.Options{
			Catalog: cat,
			Events:  eventRepo,
			Kind:    e.defaultKind(),
			Count:   e.cfg.Quiz.QuestionsPerLesson,
			Quiz: quizscreen.Deps{
				Controller: ctrl,
				Feed:       feed,
				Player:     audio.NewPlayer(e.cfg.AudioPlayer),
				Timeout:    e.cfg.RequestTimeout,
			},
		},
	})
}
