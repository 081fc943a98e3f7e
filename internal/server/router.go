package server

import (
	"log/slog"
	"net/http"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// RouterDeps are the collaborators of NewRouter.
type RouterDeps struct {
	Service     *Service
	Metrics     *Metrics
	Gatherer    prometheus.Gatherer
	Logger      *slog.Logger
	CORSOrigins []string
}

// NewRouter constructs the gin engine with middleware and routes.
func NewRouter(d RouterDeps) *gin.Engine {
	logger := d.Logger
	if logger == nil {
		logger = slog.Default()
	}

	r := gin.New()
	r.Use(
		RequestID(),
		Logging(logger, d.Metrics),
		Recovery(),
	)
	if len(d.CORSOrigins) > 0 {
		cfg := cors.DefaultConfig()
		if len(d.CORSOrigins) == 1 && d.CORSOrigins[0] == "*" {
			cfg.AllowAllOrigins = true
		} else {
			cfg.AllowOrigins = d.CORSOrigins
		}
		cfg.AllowMethods = []string{"GET", "POST", "OPTIONS"}
		cfg.AllowHeaders = []string{"Origin", "Content-Type", "Authorization", "X-User-Id", "X-Request-Id"}
		cfg.ExposeHeaders = []string{"X-Request-Id"}
		r.Use(cors.New(cfg))
	}
	r.Use(Identity())

	if d.Gatherer != nil {
		r.GET("/metrics", gin.WrapH(promhttp.HandlerFor(d.Gatherer, promhttp.HandlerOpts{})))
	}

	v1 := r.Group("/api/v1")
	v1.GET("/health", func(c *gin.Context) {
		respondJSON(c, http.StatusOK, gin.H{"ok": true})
	})
	NewHandler(d.Service).RegisterRoutes(v1)
	return r
}
