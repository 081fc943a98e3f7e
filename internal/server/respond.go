package server

import (
	"github.com/gin-gonic/gin"

	"github.com/abhisek/privcheck/internal/api"
)

// respondError aborts with the standard error envelope.
func respondError(c *gin.Context, status int, code, message string, details any) {
	logger := loggerFrom(c)
	logger.Warn("http.error",
		"status", status,
		"code", code,
		"message", message,
		"path", c.Request.URL.Path,
		"method", c.Request.Method,
		"request_id", requestIDFrom(c),
	)
	c.AbortWithStatusJSON(status, api.ErrorResponse{
		Error: api.ErrorBody{Code: code, Message: message, Details: details},
	})
}

func respondJSON(c *gin.Context, status int, payload any) {
	c.JSON(status, payload)
}
