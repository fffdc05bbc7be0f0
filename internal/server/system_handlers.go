package server

import (
	"context"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/develop-mdv/subscriptions-tg-bot/internal/api"
	"github.com/develop-mdv/subscriptions-tg-bot/internal/auth"
	"github.com/develop-mdv/subscriptions-tg-bot/internal/logger"
)

// Check pings one dependency. A nil error means healthy.
type Check func(ctx context.Context) error

type Notifier interface {
	Send(ctx context.Context, ownerID int64, text string) error
}

const checkTimeout = 2 * time.Second

const defaultTestText = "🔔 Тестовое уведомление. Напоминания о платежах будут приходить сюда."

type TestNotificationRequest struct {
	Text string `json:"text" binding:"max=1000" example:"Проверка связи"`
}

// @Summary      Health check
// @Description  Pings the database and Redis. Responds 503 when any check fails.
// @Tags         system
// @Produce      json
// @Success      200 {object} api.HealthResponse
// @Failure      503 {object} api.HealthResponse
// @Router       /health [get]
func Health(checks map[string]Check) gin.HandlerFunc {
	return func(c *gin.Context) {
		resp := api.HealthResponse{Status: "ok"}
		code := http.StatusOK

		if len(checks) > 0 {
			resp.Checks = make(map[string]string, len(checks))
		}
		for name, check := range checks {
			ctx, cancel := context.WithTimeout(c.Request.Context(), checkTimeout)
			err := check(ctx)
			cancel()

			if err != nil {
				logger.Warn("Health check failed", "check", name, "error", err)
				resp.Checks[name] = err.Error()
				resp.Status = "degraded"
				code = http.StatusServiceUnavailable
				continue
			}
			resp.Checks[name] = "ok"
		}

		c.JSON(code, resp)
	}
}

// @Summary      Queue a test notification
// @Description  Sends a message to the caller's Telegram chat through the notification queue.
// @Tags         system
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        request body server.TestNotificationRequest false "Optional message text"
// @Success      202 {object} api.MessageResponse
// @Failure      400 {object} api.ValidationErrorResponse
// @Failure      401 {object} api.ErrorResponse
// @Failure      500 {object} api.ErrorResponse
// @Router       /api/notifications/test [post]
func TestNotification(notifier Notifier) gin.HandlerFunc {
	return func(c *gin.Context) {
		ownerID, ok := auth.GetOwnerID(c)
		if !ok {
			c.JSON(http.StatusUnauthorized, api.ErrorResponse{Error: "unauthorized"})
			return
		}

		var req TestNotificationRequest
		if c.Request.ContentLength > 0 {
			if err := c.ShouldBindJSON(&req); err != nil {
				api.RespondBindError(c, err)
				return
			}
		}

		text := strings.TrimSpace(req.Text)
		if text == "" {
			text = defaultTestText
		}

		if err := notifier.Send(c.Request.Context(), ownerID, text); err != nil {
			logger.Error("Failed to queue test notification", "owner_id", ownerID, "error", err)
			c.JSON(http.StatusInternalServerError, api.ErrorResponse{Error: "Failed to queue notification"})
			return
		}

		c.JSON(http.StatusAccepted, api.MessageResponse{Message: "Notification queued"})
	}
}

// @Summary      Prometheus metrics
// @Description  Exposes Prometheus metrics in text format
// @Tags         system
// @Produce      text/plain
// @Success      200 {string} string
// @Router       /metrics [get]
func Metrics() gin.HandlerFunc {
	return gin.WrapH(promhttp.Handler())
}
