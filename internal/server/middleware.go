package server

import (
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/develop-mdv/subscriptions-tg-bot/internal/metrics"
)

// MetricsMiddleware records request counts and latency by route template,
// so /api/subscriptions/:id stays one series.
func MetricsMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()

		c.Next()

		path := c.FullPath()
		if path == "" {
			path = "unmatched"
		}

		metrics.RecordHTTPRequest(
			c.Request.Method,
			path,
			strconv.Itoa(c.Writer.Status()),
			time.Since(start).Seconds(),
		)
	}
}
