package cmd

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/abhisek/revizio/internal/llm"
	"github.com/abhisek/revizio/internal/store"
)

var llmCmd = &cobra.Command{
	Use:   "llm",
	Short: "Inspect recorded LLM requests",
	Long: `Inspect the LLM requests made for quiz generation and correction.

Requests are recorded by the TUI in llm mode and by "revizio proxy --record".`,
}

var llmListCmd = &cobra.Command{
	Use:   "list",
	Short: "List recent LLM requests",
	RunE: func(cmd *cobra.Command, args []string) error {
		limit, _ := cmd.Flags().GetInt("limit")
		purpose, _ := cmd.Flags().GetString("purpose")
		failed, _ := cmd.Flags().GetBool("failed")
		since, _ := cmd.Flags().GetDuration("since")

		s, done, err := openStoreFor(cmd)
		if err != nil {
			return err
		}
		defer done()

		opts := store.QueryOpts{}
		if since > 0 {
			opts.From = time.Now().Add(-since)
		}
		events, err := s.EventRepo().QueryLLMEvents(context.Background(), opts)
		if err != nil {
			return fmt.Errorf("query events: %w", err)
		}

		var rows [][]string
		for _, e := range events {
			if (purpose != "" && e.Purpose != purpose) || (failed && e.Success) {
				continue
			}
			status := "ok"
			if !e.Success {
				status = "failed"
			}
			rows = append(rows, []string{
				strconv.Itoa(e.ID),
				e.Timestamp.Local().Format(time.DateTime),
				e.Purpose,
				truncate(e.Model, 28),
				strconv.Itoa(e.InputTokens),
				strconv.Itoa(e.OutputTokens),
				strconv.FormatInt(e.LatencyMs, 10),
				status,
			})
			if limit > 0 && len(rows) == limit {
				break
			}
		}
		if len(rows) == 0 {
			fmt.Println("No LLM requests match.")
			return nil
		}
		printTable([]string{"ID", "Time", "Purpose", "Model", "In", "Out", "Ms", "Status"}, rows, false)
		return nil
	},
}

var llmViewCmd = &cobra.Command{
	Use:   "view <id>",
	Short: "Show the full prompt and reply of one request",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		id, err := strconv.Atoi(args[0])
		if err != nil {
			return fmt.Errorf("invalid ID %q", args[0])
		}

		s, done, err := openStoreFor(cmd)
		if err != nil {
			return err
		}
		defer done()

		e, err := s.EventRepo().GetLLMEvent(context.Background(), id)
		if err != nil {
			return fmt.Errorf("get event: %w", err)
		}
		if e == nil {
			return fmt.Errorf("no LLM request with ID %d", id)
		}

		fields := [][2]string{
			{"Time", e.Timestamp.Local().Format(time.DateTime)},
			{"Provider", e.Provider},
			{"Model", e.Model},
			{"Purpose", e.Purpose},
			{"Tokens", fmt.Sprintf("%d in, %d out", e.InputTokens, e.OutputTokens)},
			{"Latency", (time.Duration(e.LatencyMs) * time.Millisecond).String()},
		}
		if e.ErrorMessage != "" {
			fields = append(fields, [2]string{"Error", e.ErrorMessage})
		}
		fmt.Printf("Request #%d\n", e.ID)
		for _, f := range fields {
			fmt.Printf("  %-9s %s\n", f[0]+":", f[1])
		}
		printSection("Prompt", e.RequestBody)
		printSection("Reply", e.ResponseBody)
		return nil
	},
}

func printSection(title, body string) {
	fmt.Printf("\n── %s %s\n", title, strings.Repeat("─", max(56-len(title), 4)))
	if strings.TrimSpace(body) == "" {
		fmt.Println("(empty)")
		return
	}
	fmt.Println(strings.TrimRight(body, "\n"))
}

var llmStatsCmd = &cobra.Command{
	Use:   "stats",
	Short: "Show token usage per purpose and estimated cost per model",
	RunE: func(cmd *cobra.Command, args []string) error {
		s, done, err := openStoreFor(cmd)
		if err != nil {
			return err
		}
		defer done()

		ctx := context.Background()
		byPurpose, err := s.EventRepo().LLMUsageByPurpose(ctx)
		if err != nil {
			return fmt.Errorf("query usage: %w", err)
		}
		if len(byPurpose) == 0 {
			fmt.Println("No LLM usage recorded yet.")
			return nil
		}

		var calls, in, out int
		rows := make([][]string, 0, len(byPurpose)+1)
		for _, u := range byPurpose {
			rows = append(rows, []string{
				u.Purpose, strconv.Itoa(u.Calls), strconv.Itoa(u.InputTokens),
				strconv.Itoa(u.OutputTokens), strconv.FormatInt(u.AvgLatencyMs, 10),
			})
			calls += u.Calls
			in += u.InputTokens
			out += u.OutputTokens
		}
		rows = append(rows, []string{"total", strconv.Itoa(calls), strconv.Itoa(in), strconv.Itoa(out), ""})
		fmt.Println("Usage by purpose")
		printTable([]string{"Purpose", "Calls", "Input", "Output", "Avg ms"}, rows, true)

		byModel, err := s.EventRepo().LLMUsageByModel(ctx)
		if err != nil {
			return fmt.Errorf("query model usage: %w", err)
		}
		var total float64
		var unpriced []string
		rows = nil
		for _, u := range byModel {
			cost := "?"
			if c := llm.LookupCost(u.Model); c != nil {
				usd := c.Cost(u.InputTokens, u.OutputTokens)
				total += usd
				cost = formatCost(usd)
			} else {
				unpriced = append(unpriced, u.Model)
			}
			rows = append(rows, []string{truncate(u.Model, 32), strconv.Itoa(u.Calls), cost})
		}
		label := "total"
		if len(unpriced) > 0 {
			label = "total (partial)"
		}
		rows = append(rows, []string{label, "", formatCost(total)})
		fmt.Println("\nEstimated cost (USD)")
		printTable([]string{"Model", "Calls", "Cost"}, rows, true)
		if len(unpriced) > 0 {
			fmt.Printf("No pricing for: %s\n", strings.Join(unpriced, ", "))
		}
		return nil
	},
}

// openStoreFor loads the environment and opens the event database.
// done releases both.
func openStoreFor(cmd *cobra.Command) (*store.Store, func(), error) {
	e, err := loadEnv(cmd)
	if err != nil {
		return nil, nil, err
	}
	s, err := e.openStore()
	if err != nil {
		e.Close()
		return nil, nil, err
	}
	return s, func() {
		s.Close()
		e.Close()
	}, nil
}

func init() {
	llmListCmd.Flags().IntP("limit", "n", 20, "Number of requests to show")
	llmListCmd.Flags().StringP("purpose", "p", "", "Only show one purpose ("+llm.PurposeGeneration+", "+llm.PurposeCorrection+")")
	llmListCmd.Flags().Bool("failed", false, "Only show failed requests")
	llmListCmd.Flags().Duration("since", 0, "Only show requests newer than this (e.g. 24h)")

	llmCmd.AddCommand(llmListCmd, llmViewCmd, llmStatsCmd)
}
