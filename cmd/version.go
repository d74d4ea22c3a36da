package cmd

import (
	"context"
	"fmt"
	"time"

	"github.com/spf13/cobra"
	"golang.org/x/mod/semver"

	"github.com/abhisek/revizio/internal/aiproxy"
	"github.com/abhisek/revizio/internal/config"
)

// version is set via -ldflags at build time.
var version = "(devel)"

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print the current version",
	RunE: func(cmd *cobra.Command, args []string) error {
		v := version
		if semver.IsValid(v) {
			v = semver.Canonical(v)
		}
		fmt.Println("revizio", v)
		fmt.Println("proxy protocol", aiproxy.ProtocolVersion)

		check, _ := cmd.Flags().GetBool("check-proxy")
		if !check {
			return nil
		}

		e, err := loadEnv(cmd)
		if err != nil {
			return err
		}
		defer e.Close()
		if e.cfg.Backend != config.BackendProxy {
			fmt.Println("backend is", e.cfg.Backend, "- no proxy to check")
			return nil
		}

		ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
		defer cancel()
		client := aiproxy.NewClient(e.cfg.ProxyURL, e.cfg.RequestTimeout, aiproxy.WithLogger(e.logger))
		h, err := client.Health(ctx)
		if err != nil {
			return fmt.Errorf("proxy %s: %w", e.cfg.ProxyURL, err)
		}
		fmt.Printf("proxy %s: %s (version %s)\n", e.cfg.ProxyURL, h.Status, h.Version)
		return aiproxy.Compatible(h.Version, aiproxy.ProtocolVersion)
	},
}

func init() {
	versionCmd.Flags().Bool("check-proxy", false, "Query the proxy's health endpoint and check protocol compatibility")
}
