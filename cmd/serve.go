package cmd

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/huangsam/dmgcalc/internal/telemetry"
	"github.com/huangsam/dmgcalc/internal/web"
	"github.com/spf13/cobra"
)

// serveCmd runs the calculator page and JSON API.
var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve the calculator page and JSON API over HTTP",
	Long: `Start an HTTP server with the interactive calculator page.

Routes:
  GET  /            calculator page seeded from the query string
  POST /set         apply one input change and redirect to the new query
  GET  /api/series  sweep result as JSON
  GET  /api/damage  single evaluation as JSON (strength, build, crit)
  GET  /healthz     liveness probe

Server settings come from the environment:
  DMGCALC_HTTP_ADDR, DMGCALC_HTTP_READ_TIMEOUT, DMGCALC_HTTP_WRITE_TIMEOUT,
  DMGCALC_HTTP_IDLE_TIMEOUT, DMGCALC_HTTP_SHUTDOWN_TIMEOUT

Set DMGCALC_OTEL_ENDPOINT to export request traces over OTLP HTTP.

Examples:
  # Serve on the default address
  dmgcalc serve

  # Serve on all interfaces and record every API sweep
  dmgcalc serve --addr :8080 --history-backend sqlite`,
	Args:    cobra.NoArgs,
	PreRunE: sharedSetupWrapper,
	RunE: func(cmd *cobra.Command, _ []string) error {
		logger := newLogger(os.Stderr, cfg.LogLevel)

		webCfg, err := web.LoadConfig()
		if err != nil {
			return err
		}
		if addr, _ := cmd.Flags().GetString("addr"); addr != "" {
			webCfg.Addr = addr
		}

		ctx, stop := signal.NotifyContext(rootCtx, os.Interrupt, syscall.SIGTERM)
		defer stop()

		shutdown, err := telemetry.Setup(ctx, "dmgcalc", version, webCfg.OTelEndpoint)
		if err != nil {
			return fmt.Errorf("setup telemetry: %w", err)
		}
		defer func() {
			if err := shutdown(context.Background()); err != nil {
				logger.Warn("telemetry shutdown", "err", err)
			}
		}()

		srv := web.NewServer(webCfg, cfg, historyManager, logger)
		if err := srv.Run(ctx); err != nil && !errors.Is(err, context.Canceled) {
			return err
		}
		logger.Info("server stopped")
		return nil
	},
}
