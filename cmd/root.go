package cmd

import (
	"github.com/spf13/cobra"

	"github.com/abhisek/revizio/internal/config"
	"github.com/abhisek/revizio/internal/store"
)

var rootCmd = &cobra.Command{
	Use:   "revizio",
	Short: "Quiz de révision générés par IA",
	Long: `Revizio: terminal revision quizzes for middle-school lessons.

Check lessons from the catalog, pick a question kind, and answer AI-generated
questions: multiple choice, true/false, short answers, essays, spot-the-error
and dictation. Free-text answers are corrected by the AI backend.`,
	SilenceUsage: true,
	RunE: func(cmd *cobra.Command, args []string) error {
		return runApp(cmd)
	},
}

func Execute() error {
	return rootCmd.Execute()
}

func init() {
	pf := rootCmd.PersistentFlags()
	pf.String("db", "", "Path to SQLite database file (overrides REVIZIO_DB env var)")
	pf.String("config", "", "Path to the JSON config file (default ./config.json)")
	pf.String("catalog", "", "Path to a YAML or JSON lesson catalog")
	pf.String("lessons", "", "Lesson directory or base URL")
	pf.String("proxy-url", "", "AI proxy base URL")
	pf.String("backend", "", "AI backend: proxy or llm")
	pf.String("log-file", "", "Write logs to this file (\"-\" for stderr)")

	rootCmd.Flags().Bool("no-splash", false, "Skip the welcome animation")

	rootCmd.AddCommand(catalogCmd)
	rootCmd.AddCommand(previewCmd)
	rootCmd.AddCommand(proxyCmd)
	rootCmd.AddCommand(historyCmd)
	rootCmd.AddCommand(llmCmd)
	rootCmd.AddCommand(versionCmd)
}

// overrides collects the persistent flags.
func overrides(cmd *cobra.Command) config.Overrides {
	get := func(name string) string {
		v, _ := cmd.Flags().GetString(name)
		return v
	}
	return config.Overrides{
		ConfigFile: get("config"),
		DBPath:     get("db"),
		Catalog:    get("catalog"),
		Lessons:    get("lessons"),
		ProxyURL:   get("proxy-url"),
		Backend:    get("backend"),
		LogFile:    get("log-file"),
	}
}

// resolveDBPath returns the database path using the configured path
// (--db flag, config file or REVIZIO_DB), then the default XDG path.
func resolveDBPath(cfg config.Config) (string, error) {
	if cfg.DBPath != "" {
		return cfg.DBPath, store.EnsureDir(cfg.DBPath)
	}
	return store.DefaultDBPath()
}
