package server

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"golang.org/x/sync/errgroup"
)

// Config configures Run.
type Config struct {
	Addr        string
	DatabaseURL string // empty selects the in-memory repository
	CORSOrigins []string
	CacheSize   int
}

// Addr normalizes a listen address.
func Addr(addr string) string {
	if addr == "" {
		return ":8080"
	}
	if strings.Contains(addr, ":") {
		return addr
	}
	return ":" + addr
}

// Run serves the assessment API until ctx is cancelled.
func Run(ctx context.Context, cfg Config, logger *slog.Logger) error {
	if logger == nil {
		logger = slog.Default()
	}
	gin.SetMode(gin.ReleaseMode)

	var (
		repo Repo
		db   *sql.DB
	)
	if cfg.DatabaseURL != "" {
		var err error
		db, err = ConnectPostgres(ctx, cfg.DatabaseURL)
		if err != nil {
			return err
		}
		defer db.Close()
		if err := RunMigrations(ctx, db); err != nil {
			return fmt.Errorf("run migrations: %w", err)
		}
		repo = &PGRepo{DB: db}
		logger.Info("server.repo", "backend", "postgres")
	} else {
		repo = NewMemoryRepo()
		logger.Info("server.repo", "backend", "memory")
	}

	reg := prometheus.NewRegistry()
	metrics, err := NewMetrics(reg)
	if err != nil {
		return fmt.Errorf("register metrics: %w", err)
	}
	svc, err := NewService(repo, cfg.CacheSize, metrics, logger)
	if err != nil {
		return err
	}

	srv := &http.Server{
		Addr: Addr(cfg.Addr),
		Handler: NewRouter(RouterDeps{
			Service:     svc,
			Metrics:     metrics,
			Gatherer:    reg,
			Logger:      logger,
			CORSOrigins: cfg.CORSOrigins,
		}),
		ReadHeaderTimeout: 10 * time.Second,
	}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		logger.Info("server.listen", "addr", srv.Addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})
	g.Go(func() error {
		<-gctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		logger.Info("server.shutdown")
		return srv.Shutdown(shutdownCtx)
	})
	return g.Wait()
}
