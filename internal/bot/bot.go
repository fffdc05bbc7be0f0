package bot

import (
	"context"
	"errors"
	"sync"
	"time"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"github.com/develop-mdv/subscriptions-tg-bot/internal/calendar"
	"github.com/develop-mdv/subscriptions-tg-bot/internal/conversation"
	"github.com/develop-mdv/subscriptions-tg-bot/internal/logger"
	"github.com/develop-mdv/subscriptions-tg-bot/internal/metrics"
	"github.com/develop-mdv/subscriptions-tg-bot/internal/subscription"
)

// API is the part of tgbotapi.BotAPI the bot talks to.
type API interface {
	Send(c tgbotapi.Chattable) (tgbotapi.Message, error)
	Request(c tgbotapi.Chattable) (*tgbotapi.APIResponse, error)
}

type Exporter interface {
	Workbook(ctx context.Context, ownerID int64) ([]byte, error)
}

// TokenIssuer signs an owner token for the HTTP API.
type TokenIssuer func(ownerID int64) (string, error)

type Config struct {
	Location *time.Location
}

type Bot struct {
	api      API
	subs     subscription.Service
	sessions conversation.Store
	exporter Exporter
	tokens   TokenIssuer
	loc      *time.Location
	now      func() time.Time
	wg       sync.WaitGroup
}

func New(api API, subs subscription.Service, sessions conversation.Store, exporter Exporter, tokens TokenIssuer, cfg Config) *Bot {
	if cfg.Location == nil {
		cfg.Location = time.UTC
	}
	return &Bot{
		api:      api,
		subs:     subs,
		sessions: sessions,
		exporter: exporter,
		tokens:   tokens,
		loc:      cfg.Location,
		now:      time.Now,
	}
}

// request carries the addressing of one incoming update.
type request struct {
	ctx        context.Context
	chatID     int64
	userID     int64
	messageID  int
	callbackID string
	answered   bool
}

// Run dispatches every update in its own goroutine until ctx is done or
// updates is closed, then waits for in-flight handlers.
func (b *Bot) Run(ctx context.Context, updates <-chan tgbotapi.Update) {
	logger.Info("Bot started")
	defer func() {
		b.wg.Wait()
		logger.Info("Bot stopped")
	}()

	for {
		select {
		case <-ctx.Done():
			return
		case update, ok := <-updates:
			if !ok {
				return
			}
			b.wg.Add(1)
			go func() {
				defer b.wg.Done()
				b.HandleUpdate(ctx, update)
			}()
		}
	}
}

func (b *Bot) HandleUpdate(ctx context.Context, update tgbotapi.Update) {
	defer func() {
		if r := recover(); r != nil {
			logger.Error("Panic while handling update", "update_id", update.UpdateID, "panic", r)
		}
	}()

	switch {
	case update.CallbackQuery != nil:
		metrics.RecordBotUpdate("callback")
		b.handleCallback(ctx, update.CallbackQuery)
	case update.Message != nil && update.Message.From == nil:
		metrics.RecordBotUpdate("ignored")
	case update.Message != nil && update.Message.IsCommand():
		metrics.RecordBotUpdate("command")
		b.handleCommand(ctx, update.Message)
	case update.Message != nil && update.Message.Text != "":
		metrics.RecordBotUpdate("message")
		b.handleText(ctx, update.Message)
	default:
		metrics.RecordBotUpdate("ignored")
	}
}

func (b *Bot) today() time.Time {
	return calendar.Date(b.now().In(b.loc))
}

// show edits the message the callback came from, or sends a new one.
func (b *Bot) show(r *request, v view) {
	var c tgbotapi.Chattable
	if r.messageID != 0 {
		edit := tgbotapi.NewEditMessageText(r.chatID, r.messageID, v.text)
		edit.ParseMode = tgbotapi.ModeHTML
		edit.ReplyMarkup = v.markup
		c = edit
	} else {
		msg := tgbotapi.NewMessage(r.chatID, v.text)
		msg.ParseMode = tgbotapi.ModeHTML
		if v.markup != nil {
			msg.ReplyMarkup = v.markup
		}
		c = msg
	}

	if _, err := b.api.Send(c); err != nil {
		logger.Warn("Failed to send message", "chat_id", r.chatID, "error", err)
	}
}

// reply always sends a new message.
func (b *Bot) reply(r *request, v view) {
	b.show(&request{ctx: r.ctx, chatID: r.chatID, userID: r.userID}, v)
}

// answer acknowledges a callback, optionally with a toast.
func (b *Bot) answer(r *request, text string) {
	if r.callbackID == "" || r.answered {
		return
	}
	r.answered = true
	if _, err := b.api.Request(tgbotapi.NewCallback(r.callbackID, text)); err != nil {
		logger.Debug("Failed to answer callback", "error", err)
	}
}

func (b *Bot) sendFile(r *request, file tgbotapi.RequestFileData, caption string, photo bool) error {
	var c tgbotapi.Chattable
	if photo {
		p := tgbotapi.NewPhoto(r.chatID, file)
		p.Caption = caption
		p.ParseMode = tgbotapi.ModeHTML
		c = p
	} else {
		d := tgbotapi.NewDocument(r.chatID, file)
		d.Caption = caption
		d.ParseMode = tgbotapi.ModeHTML
		c = d
	}
	_, err := b.api.Send(c)
	return err
}

// fail reports an error to the user; stale ids answer with a short notice.
func (b *Bot) fail(r *request, err error, msg string) {
	if errors.Is(err, subscription.ErrNotFound) {
		if r.callbackID == "" {
			b.reply(r, view{text: notFoundText, markup: backToMainKeyboard()})
			return
		}
		b.answer(r, notFoundText)
		b.showList(r)
		return
	}
	logger.Error(msg, "user_id", r.userID, "error", err)
	b.show(r, view{text: failureText, markup: backToMainKeyboard()})
}
