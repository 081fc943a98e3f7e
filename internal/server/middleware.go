package server

import (
	"crypto/rand"
	"crypto/sha256"
	"encoding/hex"
	"log/slog"
	"net/http"
	"runtime/debug"
	"strconv"
	"strings"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/abhisek/privcheck/internal/api"
)

const (
	requestIDKey = "requestId"
	ownerKey     = "owner"
	loggerKey    = "logger"

	anonymousOwner = "anonymous"
)

// RequestID attaches a request ID to the context and response header.
func RequestID() gin.HandlerFunc {
	return func(c *gin.Context) {
		id := c.GetHeader("X-Request-Id")
		if id == "" {
			id = generateRequestID()
		}
		c.Set(requestIDKey, id)
		c.Writer.Header().Set("X-Request-Id", id)
		c.Next()
	}
}

func requestIDFrom(c *gin.Context) string {
	return c.GetString(requestIDKey)
}

func generateRequestID() string {
	var b [16]byte
	if _, err := rand.Read(b[:]); err != nil {
		return time.Now().UTC().Format("20060102150405.000000000")
	}
	return hex.EncodeToString(b[:])
}

// Identity records the caller as the assessment owner. A bearer token
// wins over X-User-Id and is stored only as a digest, so it never reaches
// logs or the database. Neither is verified.
func Identity() gin.HandlerFunc {
	return func(c *gin.Context) {
		owner := anonymousOwner
		if auth := c.GetHeader("Authorization"); strings.HasPrefix(auth, "Bearer ") {
			if tok := strings.TrimSpace(strings.TrimPrefix(auth, "Bearer ")); tok != "" {
				owner = tokenOwner(tok)
			}
		} else if uid := strings.TrimSpace(c.GetHeader("X-User-Id")); uid != "" {
			owner = uid
		}
		c.Set(ownerKey, owner)
		c.Next()
	}
}

// tokenOwner derives a stable owner ID from a bearer token.
func tokenOwner(token string) string {
	sum := sha256.Sum256([]byte(token))
	return "tok:" + hex.EncodeToString(sum[:])[:16]
}

func ownerFrom(c *gin.Context) string {
	if o := c.GetString(ownerKey); o != "" {
		return o
	}
	return anonymousOwner
}

// Logging emits one structured record per request and observes latency.
func Logging(logger *slog.Logger, metrics *Metrics) gin.HandlerFunc {
	return func(c *gin.Context) {
		reqLogger := logger.With("request_id", requestIDFrom(c))
		c.Set(loggerKey, reqLogger)
		if c.Request.Method == http.MethodOptions {
			c.Next()
			return
		}

		start := time.Now()
		c.Next()
		latency := time.Since(start)
		status := c.Writer.Status()

		route := c.FullPath()
		if route == "" {
			route = "unmatched"
		}
		if metrics != nil {
			metrics.requests.WithLabelValues(c.Request.Method, route, strconv.Itoa(status)).Observe(latency.Seconds())
		}

		reqLogger.Info("request.complete",
			"method", c.Request.Method,
			"path", c.Request.URL.Path,
			"status", status,
			"duration_ms", float64(latency.Microseconds())/1000.0,
			"owner", c.GetString(ownerKey),
			"client_ip", c.ClientIP(),
		)
	}
}

func loggerFrom(c *gin.Context) *slog.Logger {
	if v, ok := c.Get(loggerKey); ok {
		if l, ok := v.(*slog.Logger); ok {
			return l
		}
	}
	return slog.Default()
}

// Recovery turns panics into a 500 with the standard envelope.
func Recovery() gin.HandlerFunc {
	return func(c *gin.Context) {
		defer func() {
			if rec := recover(); rec != nil {
				loggerFrom(c).Error("panic",
					"error", rec,
					"stack", string(debug.Stack()),
					"path", c.Request.URL.Path,
					"method", c.Request.Method,
				)
				respondError(c, http.StatusInternalServerError, api.CodeInternal, "Unexpected server error", nil)
			}
		}()
		c.Next()
	}
}
