package subscription

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/shopspring/decimal"

	"github.com/develop-mdv/subscriptions-tg-bot/internal/calendar"
	"github.com/develop-mdv/subscriptions-tg-bot/internal/logger"
	"github.com/develop-mdv/subscriptions-tg-bot/internal/metrics"
)

type EventKind string

const (
	EventCreated EventKind = "subscription.created"
	EventUpdated EventKind = "subscription.updated"
	EventDeleted EventKind = "subscription.deleted"
)

// EventPublisher receives lifecycle notifications after a change is stored.
type EventPublisher interface {
	Publish(ctx context.Context, kind EventKind, sub *Subscription) error
}

// PaymentLedger reports what was actually recorded as paid.
type PaymentLedger interface {
	TotalPaid(ctx context.Context, ownerID int64) (decimal.Decimal, error)
}

type Service interface {
	Create(ctx context.Context, in CreateInput) (*Subscription, error)
	Get(ctx context.Context, ownerID, id int64) (*Subscription, error)
	List(ctx context.Context, ownerID int64, status Status) ([]*Subscription, error)
	ListInactive(ctx context.Context, ownerID int64) ([]*Subscription, error)
	Update(ctx context.Context, ownerID, id int64, updates ...FieldUpdate) (*Subscription, error)
	Delete(ctx context.Context, ownerID, id int64) (*Subscription, error)
	ToggleNotifications(ctx context.Context, ownerID, id int64) (*Subscription, error)
	Analytics(ctx context.Context, ownerID int64, today time.Time) (*Analytics, error)
}

type service struct {
	repo     Repository
	ledger   PaymentLedger
	events   EventPublisher
	validate *validator.Validate
}

func NewService(repo Repository, ledger PaymentLedger, events EventPublisher) Service {
	return &service{
		repo:     repo,
		ledger:   ledger,
		events:   events,
		validate: validator.New(),
	}
}

func (s *service) Create(ctx context.Context, in CreateInput) (*Subscription, error) {
	in.Name = strings.TrimSpace(in.Name)
	if err := s.validate.Struct(in); err != nil {
		return nil, toValidationError(err)
	}
	if in.Price.IsNegative() {
		return nil, &ValidationError{Field: "price", Msg: "must not be negative"}
	}

	notificationTime := DefaultNotificationTime
	if in.NotificationTime != "" {
		t, err := ParseNotificationTime(in.NotificationTime)
		if err != nil {
			return nil, err
		}
		notificationTime = t
	}

	sub, err := s.repo.Create(ctx, &Subscription{
		OwnerID:              in.OwnerID,
		Name:                 in.Name,
		Price:                in.Price,
		Comment:              in.Comment,
		StartDate:            calendar.Date(in.StartDate),
		Period:               in.Period,
		Status:               StatusActive,
		NotificationsEnabled: true,
		NotificationTime:     notificationTime,
	})
	if err != nil {
		return nil, err
	}

	logger.Info("Subscription created", "id", sub.ID, "owner_id", sub.OwnerID, "period", sub.Period)
	metrics.RecordSubscription(string(sub.Period))
	s.publish(ctx, EventCreated, sub)
	return sub, nil
}

// Get returns the subscription only if ownerID owns it.
func (s *service) Get(ctx context.Context, ownerID, id int64) (*Subscription, error) {
	sub, err := s.repo.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if sub.OwnerID != ownerID {
		return nil, ErrNotFound
	}
	return sub, nil
}

func (s *service) List(ctx context.Context, ownerID int64, status Status) ([]*Subscription, error) {
	return s.repo.ListByOwnerAndStatus(ctx, ownerID, status)
}

func (s *service) ListInactive(ctx context.Context, ownerID int64) ([]*Subscription, error) {
	paused, err := s.repo.ListByOwnerAndStatus(ctx, ownerID, StatusPaused)
	if err != nil {
		return nil, err
	}
	cancelled, err := s.repo.ListByOwnerAndStatus(ctx, ownerID, StatusCancelled)
	if err != nil {
		return nil, err
	}
	return append(paused, cancelled...), nil
}

func (s *service) Update(ctx context.Context, ownerID, id int64, updates ...FieldUpdate) (*Subscription, error) {
	if _, err := s.Get(ctx, ownerID, id); err != nil {
		return nil, err
	}

	sub, err := s.repo.Update(ctx, id, updates...)
	if err != nil {
		return nil, err
	}

	for _, u := range updates {
		logger.Info("Subscription updated", "id", id, "field", u.Field())
	}
	s.publish(ctx, EventUpdated, sub)
	return sub, nil
}

func (s *service) Delete(ctx context.Context, ownerID, id int64) (*Subscription, error) {
	sub, err := s.Get(ctx, ownerID, id)
	if err != nil {
		return nil, err
	}

	if err := s.repo.Delete(ctx, id); err != nil {
		return nil, err
	}

	logger.Info("Subscription deleted", "id", id, "owner_id", ownerID)
	s.publish(ctx, EventDeleted, sub)
	return sub, nil
}

func (s *service) ToggleNotifications(ctx context.Context, ownerID, id int64) (*Subscription, error) {
	sub, err := s.Get(ctx, ownerID, id)
	if err != nil {
		return nil, err
	}
	return s.Update(ctx, ownerID, id, SetNotificationsEnabled{Enabled: !sub.NotificationsEnabled})
}

func (s *service) Analytics(ctx context.Context, ownerID int64, today time.Time) (*Analytics, error) {
	active, err := s.repo.ListByOwnerAndStatus(ctx, ownerID, StatusActive)
	if err != nil {
		return nil, err
	}

	a := &Analytics{ActiveCount: len(active), Active: active}

	if a.Monthly, err = s.repo.SumActivePrice(ctx, ownerID, string(calendar.Monthly)); err != nil {
		return nil, err
	}
	if a.Yearly, err = s.repo.SumActivePrice(ctx, ownerID, string(calendar.Yearly)); err != nil {
		return nil, err
	}
	if a.Total, err = s.repo.SumActivePrice(ctx, ownerID, ScopeTotal); err != nil {
		return nil, err
	}
	if a.ByPeriod, err = s.repo.SumByPeriodGroupedForOwner(ctx, ownerID); err != nil {
		return nil, err
	}

	a.SpentEstimate = decimal.Zero
	for _, sub := range active {
		a.SpentEstimate = a.SpentEstimate.Add(sub.SpentSince(today))
	}

	a.PaidTotal = decimal.Zero
	if s.ledger != nil {
		if a.PaidTotal, err = s.ledger.TotalPaid(ctx, ownerID); err != nil {
			return nil, err
		}
	}

	return a, nil
}

func (s *service) publish(ctx context.Context, kind EventKind, sub *Subscription) {
	if s.events == nil {
		return
	}
	if err := s.events.Publish(ctx, kind, sub); err != nil {
		logger.Warn("Failed to publish subscription event", "kind", kind, "id", sub.ID, "error", err)
	}
}

func toValidationError(err error) error {
	var verrs validator.ValidationErrors
	if errors.As(err, &verrs) && len(verrs) > 0 {
		fe := verrs[0]
		return &ValidationError{Field: strings.ToLower(fe.Field()), Msg: "failed on " + fe.Tag()}
	}
	return &ValidationError{Field: "input", Msg: err.Error()}
}
