package cmd

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/farewatch/farewatch/core"
	"github.com/farewatch/farewatch/internal/contract"
	"github.com/farewatch/farewatch/internal/metrics"
	"github.com/farewatch/farewatch/internal/server"
	"github.com/farewatch/farewatch/schema"
	"github.com/spf13/cobra"
)

// serveCmd runs the HTTP trigger.
var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve the scan trigger over HTTP.",
	Long: `Start an HTTP server so a scheduler can trigger scan cycles.

Routes:
  POST /check-flights  run one scan cycle and return the trip reports
  GET  /health         liveness probe
  GET  /metrics        Prometheus metrics

Only one scan runs at a time; a trigger that arrives while a scan is running
gets 409 Conflict.

Examples:
  farewatch serve --addr :8080
  curl -X POST localhost:8080/check-flights`,
	PreRunE: sharedSetupWrapper,
	Run: func(_ *cobra.Command, _ []string) {
		searcher, err := newSearcher()
		if err != nil {
			contract.LogFatal("Cannot start server", err)
		}
		reg := metrics.NewRegistry()
		deps := scanDeps(searcher)
		deps.Metrics = reg

		scan := func(ctx context.Context) ([]schema.TripReport, error) {
			return core.RunScan(ctx, cfg, deps)
		}

		ctx, stop := signal.NotifyContext(rootCtx, os.Interrupt, syscall.SIGTERM)
		defer stop()
		if err := server.New(scan, reg).Run(ctx, cfg.ServeAddr); err != nil {
			contract.LogFatal("Server stopped", err)
		}
	},
}
