package export

import (
	"context"
	"fmt"
	"time"

	"github.com/develop-mdv/subscriptions-tg-bot/internal/calendar"
	"github.com/develop-mdv/subscriptions-tg-bot/internal/subscription"
)

type AnalyticsSource interface {
	Analytics(ctx context.Context, ownerID int64, today time.Time) (*subscription.Analytics, error)
}

// Exporter builds per-owner workbooks and charts from live analytics.
type Exporter struct {
	source AnalyticsSource
	loc    *time.Location
}

func NewExporter(source AnalyticsSource, loc *time.Location) *Exporter {
	if loc == nil {
		loc = time.UTC
	}
	return &Exporter{source: source, loc: loc}
}

// Workbook returns the owner's active subscriptions as xlsx, or ErrEmpty.
func (e *Exporter) Workbook(ctx context.Context, ownerID int64) ([]byte, error) {
	today := calendar.Today(e.loc)
	a, err := e.source.Analytics(ctx, ownerID, today)
	if err != nil {
		return nil, err
	}
	return Export(Report{Subscriptions: a.Active, Analytics: a, Today: today})
}

// SpendChart returns the owner's spend-by-period chart as PNG, or ErrEmpty.
func (e *Exporter) SpendChart(ctx context.Context, ownerID int64) ([]byte, error) {
	a, err := e.source.Analytics(ctx, ownerID, calendar.Today(e.loc))
	if err != nil {
		return nil, err
	}
	return Chart(a.ByPeriod)
}

// FileName is the download name for an owner's workbook.
func FileName(ownerID int64, now time.Time) string {
	return fmt.Sprintf("subscriptions_%d_%s.xlsx", ownerID, now.Format("20060102_150405"))
}
