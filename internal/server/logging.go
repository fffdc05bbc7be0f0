package server

import (
	"time"

	"github.com/gin-gonic/gin"

	"github.com/develop-mdv/subscriptions-tg-bot/internal/auth"
	"github.com/develop-mdv/subscriptions-tg-bot/internal/logger"
)

// RequestLoggingMiddleware logs one line per request. Server errors log at
// error level, client errors at warn.
func RequestLoggingMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		path := c.Request.URL.Path
		if raw := c.Request.URL.RawQuery; raw != "" {
			path = path + "?" + raw
		}

		c.Next()

		status := c.Writer.Status()
		fields := []any{
			"method", c.Request.Method,
			"path", path,
			"status", status,
			"latency_ms", time.Since(start).Milliseconds(),
			"client_ip", c.ClientIP(),
			"user_agent", c.Request.UserAgent(),
		}
		if ownerID, ok := auth.GetOwnerID(c); ok {
			fields = append(fields, "owner_id", ownerID)
		}

		switch {
		case status >= 500:
			logger.Error("HTTP request", fields...)
		case status >= 400:
			logger.Warn("HTTP request", fields...)
		default:
			logger.Info("HTTP request", fields...)
		}
	}
}
