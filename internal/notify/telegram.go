package notify

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"golang.org/x/time/rate"
)

// DeliveryError reports a message that did not reach the chat.
// Permanent errors (bot blocked, chat gone) are not retried.
type DeliveryError struct {
	OwnerID   int64
	Permanent bool
	Err       error
}

func (e *DeliveryError) Error() string {
	return fmt.Sprintf("deliver to %d: %v", e.OwnerID, e.Err)
}

func (e *DeliveryError) Unwrap() error {
	return e.Err
}

// Sender pushes a rendered message to a chat.
type Sender interface {
	Send(ctx context.Context, ownerID int64, text string) error
}

// BotAPI is the part of *tgbotapi.BotAPI used for sending.
type BotAPI interface {
	Send(c tgbotapi.Chattable) (tgbotapi.Message, error)
}

type TelegramSender struct {
	api     BotAPI
	limiter *rate.Limiter
}

// NewTelegramSender paces sends to rps messages per second.
func NewTelegramSender(api BotAPI, rps float64) *TelegramSender {
	if rps <= 0 {
		rps = 25
	}
	return &TelegramSender{
		api:     api,
		limiter: rate.NewLimiter(rate.Limit(rps), 1),
	}
}

func (s *TelegramSender) Send(ctx context.Context, ownerID int64, text string) error {
	if err := s.limiter.Wait(ctx); err != nil {
		return &DeliveryError{OwnerID: ownerID, Err: err}
	}

	msg := tgbotapi.NewMessage(ownerID, text)
	msg.ParseMode = tgbotapi.ModeHTML

	if _, err := s.api.Send(msg); err != nil {
		return &DeliveryError{OwnerID: ownerID, Permanent: isPermanent(err), Err: err}
	}
	return nil
}

func isPermanent(err error) bool {
	var tgErr *tgbotapi.Error
	if !errors.As(err, &tgErr) {
		return false
	}
	return tgErr.Code == http.StatusForbidden || tgErr.Code == http.StatusBadRequest
}
