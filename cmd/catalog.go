package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/abhisek/revizio/internal/catalog"
	"github.com/abhisek/revizio/internal/quizgen"
)

var catalogCmd = &cobra.Command{
	Use:   "catalog",
	Short: "List the lessons of the catalog",
	RunE: func(cmd *cobra.Command, args []string) error {
		e, err := loadEnv(cmd)
		if err != nil {
			return err
		}
		defer e.Close()

		cat, err := e.catalog()
		if err != nil {
			return fmt.Errorf("load catalog: %w", err)
		}
		refs := cat.Refs()
		if len(refs) == 0 {
			fmt.Println("The catalog is empty.")
			return nil
		}

		rows := make([][]string, len(refs))
		for i, r := range refs {
			rows[i] = []string{
				truncate(r.Subject, 18),
				truncate(catalog.DisplayName(r.Chapter), 24),
				truncate(r.Name, 30),
				kindColumn(r.Kind),
				r.Path,
			}
		}
		printTable([]string{"Subject", "Chapter", "Lesson", "Kind", "Path"}, rows, false)
		fmt.Printf("\n%d lessons. Lessons are read from %s\n", len(refs), e.cfg.Lessons)
		return nil
	},
}

func kindColumn(k string) string {
	if k == "" {
		return "-"
	}
	if kind, err := quizgen.ParseKind(k); err == nil {
		return string(kind)
	}
	return k
}
