package integration_test

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strconv"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/develop-mdv/subscriptions-tg-bot/internal/auth"
	"github.com/develop-mdv/subscriptions-tg-bot/internal/config"
	"github.com/develop-mdv/subscriptions-tg-bot/internal/events"
	"github.com/develop-mdv/subscriptions-tg-bot/internal/export"
	"github.com/develop-mdv/subscriptions-tg-bot/internal/history"
	"github.com/develop-mdv/subscriptions-tg-bot/internal/server"
	"github.com/develop-mdv/subscriptions-tg-bot/internal/subscription"
)

const testSecret = "test-secret"

func setupAPI(t *testing.T) http.Handler {
	database := setupTestDB(t)
	gin.SetMode(gin.TestMode)

	payments := history.NewRepository(database)
	subs := subscription.NewService(subscription.NewRepository(database), payments, events.NopPublisher{})
	exporter := export.NewExporter(subs, time.UTC)

	srv := server.New(&config.Config{JWTSecret: testSecret, APIRateLimit: 100, APIRateBurst: 100}, server.Deps{
		Subscriptions: subscription.NewHandler(subs, time.UTC),
		Payments:      history.NewHandler(payments),
		Export:        export.NewHandler(exporter),
		Checks:        map[string]server.Check{"postgres": database.PingContext},
	})
	t.Cleanup(func() { _ = srv.Shutdown(context.Background()) })
	return srv.Handler()
}

func call(t *testing.T, h http.Handler, method, path string, owner int64, body any) *httptest.ResponseRecorder {
	t.Helper()

	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	if owner != 0 {
		token, err := auth.GenerateOwnerToken(owner, testSecret)
		require.NoError(t, err)
		req.Header.Set("Authorization", "Bearer "+token)
	}

	w := httptest.NewRecorder()
	h.ServeHTTP(w, req)
	return w
}

func TestOwnerAPI_Integration(t *testing.T) {
	h := setupAPI(t)

	assert.Equal(t, http.StatusOK, call(t, h, "GET", "/health", 0, nil).Code)
	assert.Equal(t, http.StatusUnauthorized, call(t, h, "GET", "/api/subscriptions", 0, nil).Code)

	w := call(t, h, "POST", "/api/subscriptions", ownerA, map[string]string{
		"name":       "Netflix",
		"price":      "599",
		"start_date": "01.06.2024",
		"period":     "monthly",
	})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

	var created subscription.Subscription
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &created))
	assert.Equal(t, subscription.StatusActive, created.Status)
	assert.Equal(t, subscription.DefaultNotificationTime, created.NotificationTime)

	path := "/api/subscriptions/" + strconv.FormatInt(created.ID, 10)

	// Another owner cannot see it.
	assert.Equal(t, http.StatusNotFound, call(t, h, "GET", path, ownerB, nil).Code)

	w = call(t, h, "PATCH", path, ownerA, map[string]any{"price": "649,90", "notifications_enabled": false})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	var updated subscription.Subscription
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &updated))
	assert.True(t, updated.Price.Equal(decimal.RequireFromString("649.90")))
	assert.False(t, updated.NotificationsEnabled)

	w = call(t, h, "GET", "/api/analytics", ownerA, nil)
	require.Equal(t, http.StatusOK, w.Code)
	var a subscription.Analytics
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &a))
	assert.Equal(t, 1, a.ActiveCount)
	assert.True(t, a.Monthly.Equal(decimal.RequireFromString("649.90")))

	w = call(t, h, "GET", "/api/export", ownerA, nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "PK", string(w.Body.Bytes()[:2]))

	assert.Equal(t, http.StatusNotFound, call(t, h, "GET", "/api/export", ownerB, nil).Code)

	w = call(t, h, "GET", "/api/payments", ownerA, nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `[]`, w.Body.String())

	assert.Equal(t, http.StatusOK, call(t, h, "DELETE", path, ownerA, nil).Code)
	assert.Equal(t, http.StatusNotFound, call(t, h, "DELETE", path, ownerA, nil).Code)
}
