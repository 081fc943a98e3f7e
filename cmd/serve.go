package cmd

import (
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/abhisek/privcheck/internal/server"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the assessment service",
	Long: `Serve the assessment REST API under /api/v1.

Without --database-url assessments are kept in memory and lost on exit.
With a Postgres URL the schema is migrated on startup. Prometheus metrics
are exposed at /metrics.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		logger := slog.New(slog.NewJSONHandler(os.Stderr, &slog.HandlerOptions{Level: cfg.LogLevel()}))

		ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
		defer stop()

		return server.Run(ctx, server.Config{
			Addr:        cfg.Server.Addr,
			DatabaseURL: cfg.Server.DatabaseURL,
			CORSOrigins: cfg.Server.CORSOrigins,
			CacheSize:   cfg.Server.CacheSize,
		}, logger)
	},
}

func init() {
	f := serveCmd.Flags()
	f.String("addr", "", "Listen address (default :8080)")
	f.String("database-url", "", "Postgres connection URL (default in-memory)")
	f.StringSlice("cors-origins", nil, "Allowed CORS origins")
	f.Int("cache-size", 0, "Number of assessments kept in the read cache")
}
