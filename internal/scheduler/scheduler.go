package scheduler

import (
	"context"
	"fmt"
	"time"

	"github.com/develop-mdv/subscriptions-tg-bot/internal/calendar"
	"github.com/develop-mdv/subscriptions-tg-bot/internal/history"
	"github.com/develop-mdv/subscriptions-tg-bot/internal/logger"
	"github.com/develop-mdv/subscriptions-tg-bot/internal/metrics"
	"github.com/develop-mdv/subscriptions-tg-bot/internal/notify"
	"github.com/develop-mdv/subscriptions-tg-bot/internal/subscription"
)

type Notifier interface {
	Enqueue(ctx context.Context, ownerID int64, kind notify.Kind, text string) error
}

type Ledger interface {
	Record(ctx context.Context, payments ...history.Payment) (int, error)
}

type Config struct {
	Location   *time.Location
	DaysBefore int
	Tick       time.Duration
}

// Scheduler polls the repository once per tick and queues reminders,
// due-today notices and daily summaries.
type Scheduler struct {
	repo     subscription.Repository
	notifier Notifier
	guard    Guard
	ledger   Ledger
	cfg      Config
	now      func() time.Time
}

func New(repo subscription.Repository, notifier Notifier, guard Guard, ledger Ledger, cfg Config) *Scheduler {
	if cfg.Location == nil {
		cfg.Location = time.UTC
	}
	if cfg.DaysBefore < 1 {
		cfg.DaysBefore = 1
	}
	if cfg.Tick <= 0 {
		cfg.Tick = time.Minute
	}
	return &Scheduler{
		repo:     repo,
		notifier: notifier,
		guard:    guard,
		ledger:   ledger,
		cfg:      cfg,
		now:      time.Now,
	}
}

func (s *Scheduler) Start(ctx context.Context) {
	logger.Info("Scheduler started", "tick", s.cfg.Tick, "timezone", s.cfg.Location.String())

	ticker := time.NewTicker(s.cfg.Tick)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			logger.Info("Scheduler stopped")
			return
		case <-ticker.C:
			_ = s.RunOnce(ctx, s.now())
		}
	}
}

// RunOnce processes the subscriptions whose notification time equals the
// wall-clock minute of now in the configured timezone.
func (s *Scheduler) RunOnce(ctx context.Context, now time.Time) error {
	const op = "scheduler.RunOnce"
	started := time.Now()

	local := now.In(s.cfg.Location)
	today := calendar.Date(local)
	hhmm := local.Format("15:04")

	subs, err := s.repo.ListDueForNotificationAtTime(ctx, hhmm)
	if err != nil {
		logger.Error("Failed to load due subscriptions", "time", hhmm, "error", err)
		metrics.RecordSchedulerTick("error", time.Since(started).Seconds())
		return fmt.Errorf("%s: %w", op, err)
	}

	var (
		owners   []int64
		seen     = make(map[int64]bool)
		payments []history.Payment
	)

	for _, sub := range subs {
		if !seen[sub.OwnerID] {
			seen[sub.OwnerID] = true
			owners = append(owners, sub.OwnerID)
		}

		next := sub.NextPayment(today)
		daysLeft := calendar.DaysUntil(next, today)
		dueToday := sub.DueToday(today)

		switch {
		case daysLeft == s.cfg.DaysBefore:
			s.notifyOnce(ctx, notify.KindPaymentReminder, sub.ID, sub.OwnerID, today, notify.ReminderText(sub, next, daysLeft))
		case dueToday:
			s.notifyOnce(ctx, notify.KindPaymentDueToday, sub.ID, sub.OwnerID, today, notify.DueTodayText(sub, today))
		}

		if dueToday {
			payments = append(payments, history.Payment{
				SubscriptionID: sub.ID,
				OwnerID:        sub.OwnerID,
				PaymentDate:    today,
				Amount:         sub.Price,
			})
		}
	}

	s.recordPayments(ctx, payments)

	for _, ownerID := range owners {
		s.sendSummary(ctx, ownerID, today)
	}

	metrics.RecordSchedulerTick("ok", time.Since(started).Seconds())
	return nil
}

func (s *Scheduler) notifyOnce(ctx context.Context, kind notify.Kind, targetID, ownerID int64, today time.Time, text string) {
	first, err := s.guard.Claim(ctx, string(kind), targetID, today)
	if err != nil {
		logger.Warn("Dedup guard unavailable, skipping notification", "kind", kind, "target", targetID, "error", err)
		return
	}
	if !first {
		return
	}

	if err := s.notifier.Enqueue(ctx, ownerID, kind, text); err != nil {
		logger.Warn("Failed to queue notification", "kind", kind, "owner_id", ownerID, "error", err)
		if err := s.guard.Release(ctx, string(kind), targetID, today); err != nil {
			logger.Warn("Failed to release dedup mark", "kind", kind, "target", targetID, "error", err)
		}
	}
}

func (s *Scheduler) recordPayments(ctx context.Context, payments []history.Payment) {
	if len(payments) == 0 || s.ledger == nil {
		return
	}
	n, err := s.ledger.Record(ctx, payments...)
	if err != nil {
		logger.Error("Failed to record payments", "count", len(payments), "error", err)
		return
	}
	metrics.RecordPayments(n)
}

func (s *Scheduler) sendSummary(ctx context.Context, ownerID int64, today time.Time) {
	active, err := s.repo.ListByOwnerAndStatus(ctx, ownerID, subscription.StatusActive)
	if err != nil {
		logger.Error("Failed to load subscriptions for summary", "owner_id", ownerID, "error", err)
		return
	}
	if len(active) == 0 {
		return
	}

	monthly, err := s.repo.SumActivePrice(ctx, ownerID, string(calendar.Monthly))
	if err != nil {
		logger.Error("Failed to sum monthly spend", "owner_id", ownerID, "error", err)
		return
	}
	yearly, err := s.repo.SumActivePrice(ctx, ownerID, string(calendar.Yearly))
	if err != nil {
		logger.Error("Failed to sum yearly spend", "owner_id", ownerID, "error", err)
		return
	}

	summary := notify.BuildSummary(active, monthly, yearly, today)
	s.notifyOnce(ctx, notify.KindDailySummary, ownerID, ownerID, today, notify.SummaryText(summary))
}
