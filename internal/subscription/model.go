package subscription

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/develop-mdv/subscriptions-tg-bot/internal/calendar"
)

type Status string

const (
	StatusActive    Status = "active"
	StatusPaused    Status = "paused"
	StatusCancelled Status = "cancelled"

	// ScopeTotal selects every active subscription in SumActivePrice.
	ScopeTotal = "total"

	DefaultNotificationTime = "09:00"
)

var statusLabels = map[Status]string{
	StatusActive:    "Активна",
	StatusPaused:    "Приостановлена",
	StatusCancelled: "Отменена",
}

func Statuses() []Status {
	return []Status{StatusActive, StatusPaused, StatusCancelled}
}

func ParseStatus(s string) (Status, error) {
	st := Status(s)
	if _, ok := statusLabels[st]; !ok {
		return "", &ValidationError{Field: "status", Msg: "unknown status " + s}
	}
	return st, nil
}

func (s Status) Label() string {
	if l, ok := statusLabels[s]; ok {
		return l
	}
	return string(s)
}

// NotificationTimes are the wall-clock presets offered in the settings menu.
var NotificationTimes = []string{"08:00", "09:00", "10:00", "12:00", "15:00", "18:00", "20:00", "21:00"}

var notificationTimeLabels = map[string]string{
	"08:00": "08:00 - Утро",
	"09:00": "09:00 - Утро",
	"10:00": "10:00 - Утро",
	"12:00": "12:00 - Обед",
	"15:00": "15:00 - День",
	"18:00": "18:00 - Вечер",
	"20:00": "20:00 - Вечер",
	"21:00": "21:00 - Вечер",
}

func NotificationTimeLabel(hhmm string) string {
	if l, ok := notificationTimeLabels[hhmm]; ok {
		return l
	}
	return hhmm
}

type Subscription struct {
	ID                   int64           `db:"id" json:"id"`
	OwnerID              int64           `db:"owner_id" json:"owner_id"`
	Name                 string          `db:"name" json:"name"`
	Price                decimal.Decimal `db:"price" json:"price"`
	Comment              string          `db:"comment" json:"comment"`
	StartDate            time.Time       `db:"start_date" json:"start_date"`
	Period               calendar.Period `db:"period" json:"period"`
	Status               Status          `db:"status" json:"status"`
	NotificationsEnabled bool            `db:"notifications_enabled" json:"notifications_enabled"`
	NotificationTime     string          `db:"notification_time" json:"notification_time"`
	CreatedAt            time.Time       `db:"created_at" json:"created_at"`
	UpdatedAt            time.Time       `db:"updated_at" json:"updated_at"`
}

func (s *Subscription) NextPayment(today time.Time) time.Time {
	return calendar.NextOccurrence(s.StartDate, s.Period, today)
}

func (s *Subscription) DaysLeft(today time.Time) int {
	return calendar.DaysUntil(s.NextPayment(today), today)
}

// DueToday reports whether a scheduled payment falls on today.
func (s *Subscription) DueToday(today time.Time) bool {
	return calendar.IsOccurrenceDay(s.StartDate, s.Period, today)
}

// SpentSince estimates the amount paid from the start date up to today,
// assuming every cycle was paid.
func (s *Subscription) SpentSince(today time.Time) decimal.Decimal {
	n := calendar.ElapsedOccurrences(s.StartDate, s.Period, today)
	return s.Price.Mul(decimal.NewFromInt(int64(n)))
}

type PeriodSum struct {
	Period calendar.Period `db:"period" json:"period"`
	Total  decimal.Decimal `db:"total" json:"total"`
}

type CreateInput struct {
	OwnerID          int64           `json:"-" validate:"required"`
	Name             string          `json:"name" validate:"required,min=2,max=255"`
	Price            decimal.Decimal `json:"price"`
	Comment          string          `json:"comment" validate:"max=1000"`
	StartDate        time.Time       `json:"start_date" validate:"required"`
	Period           calendar.Period `json:"period" validate:"required,oneof=daily weekly monthly quarterly yearly"`
	NotificationTime string          `json:"notification_time"`
}

type Analytics struct {
	ActiveCount   int             `json:"active_count"`
	Monthly       decimal.Decimal `json:"monthly"`
	Yearly        decimal.Decimal `json:"yearly"`
	Total         decimal.Decimal `json:"total"`
	SpentEstimate decimal.Decimal `json:"spent_estimate"`
	PaidTotal     decimal.Decimal `json:"paid_total"`
	ByPeriod      []PeriodSum     `json:"by_period"`
	Active        []*Subscription `json:"subscriptions"`
}
