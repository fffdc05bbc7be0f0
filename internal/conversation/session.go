package conversation

import (
	"errors"
	"time"

	"github.com/shopspring/decimal"

	"github.com/develop-mdv/subscriptions-tg-bot/internal/calendar"
	"github.com/develop-mdv/subscriptions-tg-bot/internal/subscription"
)

var (
	ErrNoSession = errors.New("no active session")
	// ErrExpectedChoice means the current state only accepts a keyboard choice.
	ErrExpectedChoice = errors.New("a keyboard choice is expected")
	// ErrExpectedText means the current state only accepts a text message.
	ErrExpectedText = errors.New("a text message is expected")
)

type Flow string

const (
	FlowAdd  Flow = "add"
	FlowEdit Flow = "edit"
)

type State string

const (
	AwaitingName           State = "awaiting_name"
	AwaitingPrice          State = "awaiting_price"
	AwaitingComment        State = "awaiting_comment"
	AwaitingDate           State = "awaiting_date"
	AwaitingPeriod         State = "awaiting_period"
	AwaitingFieldSelection State = "awaiting_field_selection"
	AwaitingNewValue       State = "awaiting_new_value"
	Committed              State = "committed"
)

// Draft collects intake answers until the period is chosen.
type Draft struct {
	Name      string          `json:"name,omitempty"`
	Price     decimal.Decimal `json:"price"`
	Comment   string          `json:"comment,omitempty"`
	StartDate string          `json:"start_date,omitempty"`
}

// Session is one user's in-progress add or edit flow.
type Session struct {
	UserID         int64              `json:"user_id"`
	Flow           Flow               `json:"flow"`
	State          State              `json:"state"`
	Draft          Draft              `json:"draft"`
	SubscriptionID int64              `json:"subscription_id,omitempty"`
	Field          subscription.Field `json:"field,omitempty"`
	UpdatedAt      time.Time          `json:"updated_at"`
}

// Result is what a committing step hands back to the caller.
// Exactly one of Create and Update is set when Committed is true.
type Result struct {
	Committed bool
	Create    *subscription.CreateInput
	Update    subscription.FieldUpdate
}

func NewIntake(userID int64) *Session {
	return &Session{
		UserID:    userID,
		Flow:      FlowAdd,
		State:     AwaitingName,
		UpdatedAt: time.Now(),
	}
}

func NewEdit(userID, subscriptionID int64) *Session {
	return &Session{
		UserID:         userID,
		Flow:           FlowEdit,
		State:          AwaitingFieldSelection,
		SubscriptionID: subscriptionID,
		UpdatedAt:      time.Now(),
	}
}

// HandleText feeds a text message into the session. A rejected input
// returns a *subscription.ValidationError and leaves the state unchanged.
func (s *Session) HandleText(text string) (Result, error) {
	switch s.State {
	case AwaitingName:
		name, err := subscription.ParseName(text)
		if err != nil {
			return Result{}, err
		}
		s.Draft.Name = name
		s.advance(AwaitingPrice)
	case AwaitingPrice:
		price, err := subscription.ParsePrice(text)
		if err != nil {
			return Result{}, err
		}
		s.Draft.Price = price
		s.advance(AwaitingComment)
	case AwaitingComment:
		s.Draft.Comment = subscription.ParseComment(text)
		s.advance(AwaitingDate)
	case AwaitingDate:
		date, err := subscription.NormalizeDate(text)
		if err != nil {
			return Result{}, err
		}
		s.Draft.StartDate = date
		s.advance(AwaitingPeriod)
	case AwaitingNewValue:
		if choiceOnly(s.Field) {
			return Result{}, ErrExpectedChoice
		}
		return s.commitUpdate(text)
	default:
		return Result{}, ErrExpectedChoice
	}
	return Result{}, nil
}

// HandleChoice feeds a keyboard value (period key, status key or HH:MM preset).
func (s *Session) HandleChoice(value string) (Result, error) {
	switch s.State {
	case AwaitingPeriod:
		period, err := calendar.ParsePeriod(value)
		if err != nil {
			return Result{}, &subscription.ValidationError{Field: "period", Msg: err.Error()}
		}
		start, err := calendar.ParseDate(s.Draft.StartDate)
		if err != nil {
			return Result{}, &subscription.ValidationError{Field: "start_date", Msg: err.Error()}
		}
		s.advance(Committed)
		return Result{
			Committed: true,
			Create: &subscription.CreateInput{
				OwnerID:   s.UserID,
				Name:      s.Draft.Name,
				Price:     s.Draft.Price,
				Comment:   s.Draft.Comment,
				StartDate: start,
				Period:    period,
			},
		}, nil
	case AwaitingNewValue:
		if !choiceOnly(s.Field) && s.Field != subscription.FieldNotificationTime {
			return Result{}, ErrExpectedText
		}
		return s.commitUpdate(value)
	default:
		return Result{}, ErrExpectedText
	}
}

// SelectField picks the attribute to edit.
func (s *Session) SelectField(field subscription.Field) error {
	if s.State != AwaitingFieldSelection && s.State != AwaitingNewValue {
		return ErrExpectedText
	}
	if field == subscription.FieldNotificationsEnabled {
		return &subscription.ValidationError{Field: "field", Msg: "notifications are toggled directly"}
	}
	if _, err := subscription.ParseField(string(field)); err != nil {
		return err
	}
	s.Field = field
	s.advance(AwaitingNewValue)
	return nil
}

func (s *Session) commitUpdate(raw string) (Result, error) {
	update, err := subscription.ParseUpdate(s.Field, raw)
	if err != nil {
		return Result{}, err
	}
	s.advance(Committed)
	return Result{Committed: true, Update: update}, nil
}

func (s *Session) advance(next State) {
	s.State = next
	s.UpdatedAt = time.Now()
}

func choiceOnly(f subscription.Field) bool {
	return f == subscription.FieldPeriod || f == subscription.FieldStatus
}
