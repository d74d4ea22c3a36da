package cmd

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"github.com/spf13/cobra"

	"github.com/abhisek/revizio/internal/store"
)

var historyCmd = &cobra.Command{
	Use:   "history",
	Short: "Show recent quizzes and their scores",
	RunE: func(cmd *cobra.Command, args []string) error {
		limit, _ := cmd.Flags().GetInt("limit")

		e, err := loadEnv(cmd)
		if err != nil {
			return err
		}
		defer e.Close()

		s, err := e.openStore()
		if err != nil {
			return err
		}
		defer s.Close()

		sessions, err := s.EventRepo().RecentSessions(context.Background(), store.QueryOpts{Limit: limit})
		if err != nil {
			return fmt.Errorf("query sessions: %w", err)
		}
		if len(sessions) == 0 {
			fmt.Println("No quiz recorded yet.")
			return nil
		}

		rows := make([][]string, 0, len(sessions))
		for _, r := range sessions {
			ts := r.Timestamp.Local().Format(time.DateTime)
			if r.Action == store.ActionFail {
				rows = append(rows, []string{ts, r.Kind, "", "", "failed: " + truncate(r.ErrorMessage, 40), ""})
				continue
			}
			score := "n/a"
			if r.Score != nil {
				score = fmt.Sprintf("%.2f/20", *r.Score)
			}
			rows = append(rows, []string{
				ts, r.Kind, strconv.Itoa(r.QuestionCount),
				fmt.Sprintf("%g/%g", r.Earned, r.Available), score,
				fmt.Sprintf("%d:%02d", r.DurationSecs/60, r.DurationSecs%60),
			})
		}
		printTable([]string{"Time", "Kind", "Questions", "Points", "Score", "Duration"}, rows, false)
		return nil
	},
}

func init() {
	historyCmd.Flags().IntP("limit", "n", 20, "Number of quizzes to show")
}
