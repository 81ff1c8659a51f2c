package main

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/calebmun/extcheck/internal/config"
	"github.com/calebmun/extcheck/internal/httpapi"
	"github.com/calebmun/extcheck/internal/httpapi/middleware"
	"github.com/calebmun/extcheck/internal/logging"
	"github.com/calebmun/extcheck/internal/notify"
	"github.com/calebmun/extcheck/internal/runner"
	"github.com/calebmun/extcheck/internal/scheduler"
)

var version = "dev"

func main() {
	if err := newRootCmd().ExecuteContext(context.Background()); err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:           "extcheck",
		Short:         "Diagnostics harness for the browser extension",
		Long:          "extcheck runs capability checks against the extension's host services (inference server, search, storage, tab messaging, context menus, manifest) and summarizes the outcome.",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.AddCommand(newRunCmd(), newServeCmd(), newVersionCmd())
	return root
}

func newRunCmd() *cobra.Command {
	var asJSON bool
	cmd := &cobra.Command{
		Use:   "run",
		Short: "Run all capability checks once and print the summary",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg := config.FromEnv()
			logger, err := logging.NewLogger(cfg.LogDir)
			if err != nil {
				return err
			}
			defer func() { _ = logger.Sync() }()

			caps, cleanup, err := buildCapabilities(cfg)
			if err != nil {
				return err
			}
			defer cleanup()

			run, err := buildSuite(cfg, caps, logger)
			if err != nil {
				return err
			}

			run.RunAll(cmd.Context())
			rep, err := run.Report()
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			if asJSON {
				enc := json.NewEncoder(out)
				enc.SetIndent("", "  ")
				return enc.Encode(rep)
			}
			// Failing checks show up in the summary; the exit status
			// only reflects harness defects.
			fmt.Fprint(out, rep.Render())
			return nil
		},
	}
	cmd.Flags().BoolVar(&asJSON, "json", false, "print the report as JSON")
	return cmd
}

func newServeCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Expose the diagnostics suite over HTTP",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg := config.FromEnv()
			logger, err := logging.NewLogger(cfg.LogDir)
			if err != nil {
				return err
			}
			defer func() { _ = logger.Sync() }()

			caps, cleanup, err := buildCapabilities(cfg)
			if err != nil {
				return err
			}
			defer cleanup()

			suite := func() (*runner.Runner, error) { return buildSuite(cfg, caps, logger) }
			api := httpapi.NewServer(logger, suite, middleware.Keys{
				Public: cfg.PublicAPIKeys,
				Admin:  cfg.AdminAPIKeys,
			})

			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			var notifier notify.Notifier
			if s := notify.NewSlack(cfg.SlackWebhook); s != nil {
				notifier = s
			}
			rc := scheduler.NewRechecker(logger, scheduler.Suite(suite), notifier, api.SetLastReport, cfg.RecheckInterval)
			go rc.Run(ctx)

			srv := &http.Server{Addr: cfg.Addr, Handler: api.Router()}
			errCh := make(chan error, 1)
			go func() { errCh <- srv.ListenAndServe() }()

			logger.Info("api_listen", zap.String("addr", cfg.Addr))

			select {
			case <-ctx.Done():
				shctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
				defer cancel()
				return srv.Shutdown(shctx)
			case err := <-errCh:
				return err
			}
		},
	}
}

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print the extcheck version",
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Fprintln(cmd.OutOrStdout(), "extcheck", version)
		},
	}
}
