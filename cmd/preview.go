package cmd

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"os"
	"path"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/abhisek/revizio/internal/audio"
	"github.com/abhisek/revizio/internal/catalog"
	"github.com/abhisek/revizio/internal/quiz"
	"github.com/abhisek/revizio/internal/quizgen"
	"github.com/abhisek/revizio/internal/session"
)

var previewCmd = &cobra.Command{
	Use:   "preview",
	Short: "Take a quiz on one lesson in line mode (no database)",
	Long: `Generate questions for a single lesson and answer them on stdin.

This is a stateless tool: no database, no history, no LLM event log.
Useful for checking question quality for a lesson file.

Answers: the option number for multiple choice, v or f for true/false,
free text otherwise. Type "s" to skip and "p" to replay a dictation.`,
	RunE: runPreview,
}

func init() {
	previewCmd.Flags().String("lesson", "", "Lesson path relative to the lessons root (required)")
	previewCmd.Flags().String("kind", string(quizgen.KindMCQ), "Question type")
	previewCmd.Flags().Int("count", 3, "Number of questions")
	_ = previewCmd.MarkFlagRequired("lesson")
}

func runPreview(cmd *cobra.Command, args []string) error {
	lessonVal, _ := cmd.Flags().GetString("lesson")
	kindVal, _ := cmd.Flags().GetString("kind")
	count, _ := cmd.Flags().GetInt("count")

	kind, err := quizgen.ParseKind(kindVal)
	if err != nil {
		return err
	}

	e, err := loadEnv(cmd)
	if err != nil {
		return err
	}
	defer e.Close()

	ref, err := previewRef(e, lessonVal)
	if err != nil {
		return err
	}

	ctx := context.Background()
	backend, err := e.backend(ctx, nil)
	if err != nil {
		return err
	}

	orch := quizgen.New(e.lessonSource(), backend, quizgen.WithLogger(e.logger))
	ctrl := session.NewController(orch, backend,
		session.WithLogger(e.logger),
		session.WithConfig(session.Config{
			EssayMinLen: e.cfg.Quiz.EssayMinLen,
			ShortMinLen: e.cfg.Quiz.ShortMinLen,
			MaxReplays:  e.cfg.Quiz.MaxReplays,
		}),
	)
	player := audio.NewPlayer(e.cfg.AudioPlayer)

	fmt.Printf("Lesson: %s (%s)\n", ref.Name, kind.Label())
	fmt.Printf("Generating %d questions...\n\n", count)
	if err := ctrl.Start(ctx, []catalog.LessonRef{ref}, kind, count); err != nil {
		return fmt.Errorf("generate quiz: %w", err)
	}
	for _, s := range ctrl.Skipped() {
		fmt.Printf("Skipped %s: %v\n", s.Ref.Path, s.Err)
	}

	scanner := bufio.NewScanner(os.Stdin)
	for ctrl.Phase() == session.PhaseActive {
		item, pos, total := ctrl.Current()
		fmt.Printf("── Question %d/%d ──\n", pos, total)
		printItem(item)

		if !askItem(ctx, ctrl, player, scanner, item) {
			fmt.Println("\n(input closed)")
			return nil
		}
		if err := ctrl.Next(); err != nil {
			return err
		}
		fmt.Println()
	}

	res := ctrl.Result()
	if res.Score == nil {
		fmt.Printf("── Summary: %g/%g points, score n/a ──\n", res.Earned, res.Available)
	} else {
		fmt.Printf("── Summary: %g/%g points, %.2f/20 ──\n", res.Earned, res.Available, *res.Score)
	}
	if n := res.Unparsed(); n > 0 {
		fmt.Printf("%d corrections carried no readable score.\n", n)
	}
	return nil
}

// previewRef resolves --lesson against the catalog, falling back to a
// bare reference so files outside the catalog can be previewed too.
func previewRef(e *env, p string) (catalog.LessonRef, error) {
	cat, err := e.catalog()
	if err != nil {
		return catalog.LessonRef{}, fmt.Errorf("load catalog: %w", err)
	}
	if ref, ok := cat.Lookup(p); ok {
		return ref, nil
	}
	name := strings.TrimSuffix(path.Base(p), path.Ext(p))
	return catalog.LessonRef{Path: p, Name: catalog.DisplayName(name)}, nil
}

func printItem(item quiz.Item) {
	fmt.Println(item.Question())
	switch it := item.(type) {
	case quiz.MultipleChoice:
		for j, o := range it.Options {
			fmt.Printf("  %d) %s\n", j+1, o)
		}
	case quiz.TrueFalse:
		fmt.Println("  v) Vrai   f) Faux")
	case quiz.Essay:
		if len(it.CoveragePoints) > 0 {
			fmt.Printf("  Attendus : %s\n", strings.Join(it.CoveragePoints, ", "))
		}
	case quiz.Dictation:
		fmt.Println("  (type p to play the audio)")
	}
}

// askItem reads lines until the item is answered or skipped. It returns
// false when stdin is closed.
func askItem(ctx context.Context, ctrl *session.Controller, player *audio.Player, scanner *bufio.Scanner, item quiz.Item) bool {
	for {
		fmt.Print("\nYour answer: ")
		if !scanner.Scan() {
			return false
		}
		answer := strings.TrimSpace(scanner.Text())

		if strings.EqualFold(answer, "s") || item.Kind() == quiz.KindUnknown {
			if err := ctrl.Skip(); err != nil {
				fmt.Println(err)
				continue
			}
			fmt.Println("(skipped)")
			return true
		}
		if strings.EqualFold(answer, "p") && item.Kind() == quiz.KindDictation {
			clip, err := ctrl.Speak(ctx)
			if err == nil {
				err = player.Play(ctx, clip)
			}
			if err != nil {
				fmt.Println("playback failed:", err)
			}
			continue
		}

		grade, err := submitLine(ctx, ctrl, item, answer)
		if err != nil {
			fmt.Println(err)
			continue
		}
		printGrade(grade)
		return true
	}
}

func submitLine(ctx context.Context, ctrl *session.Controller, item quiz.Item, answer string) (quiz.Grade, error) {
	switch it := item.(type) {
	case quiz.MultipleChoice:
		n, err := strconv.Atoi(answer)
		if err != nil || n < 1 || n > len(it.Options) {
			return quiz.Grade{}, fmt.Errorf("type a number between 1 and %d", len(it.Options))
		}
		return ctrl.SubmitChoice(it.Options[n-1])
	case quiz.TrueFalse:
		switch strings.ToLower(answer) {
		case "v", "vrai":
			return ctrl.SubmitTrueFalse(true)
		case "f", "faux":
			return ctrl.SubmitTrueFalse(false)
		}
		return quiz.Grade{}, errors.New("type v or f")
	case quiz.Dictation:
		return ctrl.SubmitDictation(answer)
	}
	return ctrl.SubmitText(ctx, answer)
}

func printGrade(g quiz.Grade) {
	switch {
	case g.Max == 0:
		fmt.Println("Correction:")
	case g.Correct:
		fmt.Printf("\033[32m✓ %g/%g\033[0m\n", g.Awarded, g.Max)
	default:
		fmt.Printf("\033[31m✗ %g/%g\033[0m", g.Awarded, g.Max)
		if g.Expected != "" {
			fmt.Printf("  Answer: %s", g.Expected)
		}
		fmt.Println()
	}
	if g.Feedback != "" {
		fmt.Println(g.Feedback)
	}
	if !g.ScoreParsed && g.Max > 0 {
		fmt.Println("(no score found in the correction)")
	}
}
