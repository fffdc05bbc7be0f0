package export

import (
	"bytes"
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"os"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"github.com/develop-mdv/subscriptions-tg-bot/internal/calendar"
	"github.com/develop-mdv/subscriptions-tg-bot/internal/logger"
	"github.com/develop-mdv/subscriptions-tg-bot/internal/subscription"
)

func TestMain(m *testing.M) {
	logger.Init()
	os.Exit(m.Run())
}

var pngMagic = []byte("\x89PNG\r\n\x1a\n")

func mustDate(s string) time.Time {
	t, _ := calendar.ParseDate(s)
	return t
}

func sampleAnalytics() *subscription.Analytics {
	active := []*subscription.Subscription{
		{
			ID: 2, Name: "Spotify", Price: decimal.RequireFromString("169.9"),
			StartDate: mustDate("2024-01-10"), Period: calendar.Yearly,
			Status: subscription.StatusActive,
		},
		{
			ID: 1, Name: "Netflix", Price: decimal.NewFromInt(599), Comment: "family",
			StartDate: mustDate("2024-06-01"), Period: calendar.Monthly,
			Status: subscription.StatusActive, NotificationsEnabled: true,
		},
	}
	return &subscription.Analytics{
		ActiveCount:   2,
		Monthly:       decimal.NewFromInt(599),
		Yearly:        decimal.RequireFromString("169.9"),
		Total:         decimal.RequireFromString("768.9"),
		SpentEstimate: decimal.NewFromInt(1198),
		PaidTotal:     decimal.NewFromInt(599),
		ByPeriod: []subscription.PeriodSum{
			{Period: calendar.Monthly, Total: decimal.NewFromInt(599)},
			{Period: calendar.Yearly, Total: decimal.RequireFromString("169.9")},
		},
		Active: active,
	}
}

func TestExport_Workbook(t *testing.T) {
	a := sampleAnalytics()

	data, err := Export(Report{Subscriptions: a.Active, Analytics: a, Today: mustDate("2024-07-15")})
	require.NoError(t, err)

	f, err := excelize.OpenReader(bytes.NewReader(data))
	require.NoError(t, err)
	defer f.Close()

	assert.Equal(t, []string{SheetSubscriptions, SheetAnalytics, SheetPivot}, f.GetSheetList())

	rows, err := f.GetRows(SheetSubscriptions)
	require.NoError(t, err)
	require.Len(t, rows, 3)
	assert.Equal(t, "Следующий платеж", rows[0][5])
	assert.Equal(t, []string{"2", "Spotify", "169.9", "Ежегодно", "2024-01-10", "10.01.2025", "179", "Активна", "", "Отключены"}, rows[1])
	assert.Equal(t, "01.08.2024", rows[2][5])
	assert.Equal(t, "family", rows[2][8])
	assert.Equal(t, "Включены", rows[2][9])

	analytics, err := f.GetRows(SheetAnalytics)
	require.NoError(t, err)
	assert.Equal(t, []string{"Общие расходы за месяц", "599.00 ₽"}, analytics[2])
	assert.Equal(t, []string{"Оплачено по истории платежей", "599.00 ₽"}, analytics[6])
	assert.Equal(t, []string{"Ежегодно", "169.90 ₽"}, analytics[len(analytics)-1])

	pivot, err := f.GetRows(SheetPivot)
	require.NoError(t, err)
	require.Len(t, pivot, 3)
	assert.Equal(t, []string{"2024-08", "Netflix", "599", "Ежемесячно"}, pivot[1])
	assert.Equal(t, "2025-01", pivot[2][0])
}

func TestExport_Empty(t *testing.T) {
	_, err := Export(Report{Analytics: &subscription.Analytics{}})
	assert.ErrorIs(t, err, ErrEmpty)
}

func TestChart(t *testing.T) {
	data, err := Chart(sampleAnalytics().ByPeriod)

	require.NoError(t, err)
	assert.True(t, bytes.HasPrefix(data, pngMagic))
}

func TestChart_ZeroTotals(t *testing.T) {
	data, err := Chart([]subscription.PeriodSum{{Period: calendar.Daily, Total: decimal.Zero}})

	require.NoError(t, err)
	assert.True(t, bytes.HasPrefix(data, pngMagic))
}

func TestChart_Empty(t *testing.T) {
	_, err := Chart(nil)
	assert.ErrorIs(t, err, ErrEmpty)
}

func TestFileName(t *testing.T) {
	now := time.Date(2024, 7, 15, 9, 30, 5, 0, time.UTC)
	assert.Equal(t, "subscriptions_42_20240715_093005.xlsx", FileName(42, now))
}

type fakeSource struct {
	a   *subscription.Analytics
	err error
}

func (s *fakeSource) Analytics(context.Context, int64, time.Time) (*subscription.Analytics, error) {
	return s.a, s.err
}

func setupRouter(source AnalyticsSource, withOwner bool) *gin.Engine {
	gin.SetMode(gin.TestMode)
	router := gin.New()

	h := NewHandler(NewExporter(source, time.UTC))
	g := router.Group("/api", func(c *gin.Context) {
		if withOwner {
			c.Set("owner_id", int64(100))
		}
		c.Next()
	})
	g.GET("/export", h.Workbook)
	g.GET("/analytics/chart", h.Chart)
	return router
}

func get(router *gin.Engine, path string) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, path, nil))
	return w
}

func TestHandler_Workbook(t *testing.T) {
	w := get(setupRouter(&fakeSource{a: sampleAnalytics()}, true), "/api/export")

	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, xlsxContentType, w.Header().Get("Content-Type"))
	assert.Contains(t, w.Header().Get("Content-Disposition"), "subscriptions_100_")
	assert.NotEmpty(t, w.Body.Bytes())
}

func TestHandler_WorkbookEmpty(t *testing.T) {
	w := get(setupRouter(&fakeSource{a: &subscription.Analytics{}}, true), "/api/export")
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestHandler_WorkbookError(t *testing.T) {
	w := get(setupRouter(&fakeSource{err: errors.New("db down")}, true), "/api/export")
	assert.Equal(t, http.StatusInternalServerError, w.Code)
}

func TestHandler_Unauthorized(t *testing.T) {
	w := get(setupRouter(&fakeSource{a: sampleAnalytics()}, false), "/api/export")
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestHandler_Chart(t *testing.T) {
	w := get(setupRouter(&fakeSource{a: sampleAnalytics()}, true), "/api/analytics/chart")

	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "image/png", w.Header().Get("Content-Type"))
	assert.True(t, bytes.HasPrefix(w.Body.Bytes(), pngMagic))
}
