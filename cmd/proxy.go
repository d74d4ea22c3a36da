package cmd

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/abhisek/revizio/internal/aiproxy"
	"github.com/abhisek/revizio/internal/llm"
)

var proxyCmd = &cobra.Command{
	Use:   "proxy",
	Short: "Serve the AI proxy over HTTP",
	Long: `Serve /generation, /correction, /tts and /health backed by an LLM
provider, so several clients can share one API key. Local lesson files are
served under /matieres/ when --lessons points to a directory.`,
	RunE: runProxy,
}

func init() {
	proxyCmd.Flags().String("addr", ":8080", "Listen address")
	proxyCmd.Flags().StringSlice("allow-origin", nil, "CORS allowed origins (default any)")
	proxyCmd.Flags().Bool("record", false, "Record LLM requests in the database")
}

func runProxy(cmd *cobra.Command, args []string) error {
	addr, _ := cmd.Flags().GetString("addr")
	origins, _ := cmd.Flags().GetStringSlice("allow-origin")
	record, _ := cmd.Flags().GetBool("record")

	e, err := loadEnv(cmd)
	if err != nil {
		return err
	}
	defer e.Close()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	var recorder llm.EventRecorder
	if record {
		st, err := e.openStore()
		if err != nil {
			return err
		}
		defer st.Close()
		recorder = st.EventRepo()
	}

	backend, err := e.llmBackend(ctx, recorder)
	if err != nil {
		return err
	}

	cfg := aiproxy.ServerConfig{
		AllowedOrigins: origins,
		RequestTimeout: e.cfg.RequestTimeout,
	}
	if !e.cfg.RemoteLessons() {
		cfg.LessonDir = e.cfg.Lessons
	}

	srv := &http.Server{
		Addr:              addr,
		Handler:           aiproxy.NewServer(backend, cfg, e.logger).Handler(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		e.logger.Info("proxy listening",
			slog.String("addr", addr),
			slog.String("version", aiproxy.ProtocolVersion),
			slog.String("lessons", cfg.LessonDir),
		)
		errCh <- srv.ListenAndServe()
	}()
	fmt.Fprintf(os.Stderr, "revizio proxy listening on %s\n", addr)

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return fmt.Errorf("serve: %w", err)
	case <-ctx.Done():
	}

	e.logger.Info("proxy shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	return srv.Shutdown(shutdownCtx)
}
