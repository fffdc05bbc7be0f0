package bot

import (
	"context"
	"errors"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"github.com/develop-mdv/subscriptions-tg-bot/internal/conversation"
	"github.com/develop-mdv/subscriptions-tg-bot/internal/logger"
	"github.com/develop-mdv/subscriptions-tg-bot/internal/subscription"
)

func (b *Bot) startIntake(r *request) {
	s := conversation.NewIntake(r.userID)
	if err := b.sessions.Save(r.ctx, s); err != nil {
		b.fail(r, err, "Failed to start intake")
		return
	}
	logger.Info("Intake started", "user_id", r.userID)
	b.show(r, promptView(s))
}

func (b *Bot) startEdit(r *request, id int64) {
	sub, err := b.subs.Get(r.ctx, r.userID, id)
	if err != nil {
		b.fail(r, err, "Failed to load subscription")
		return
	}
	if err := b.sessions.Save(r.ctx, conversation.NewEdit(r.userID, id)); err != nil {
		b.fail(r, err, "Failed to start edit")
		return
	}
	b.show(r, editMenuView(sub, b.today(), ""))
}

func (b *Bot) selectField(r *request, id int64, raw string) {
	field, err := subscription.ParseField(raw)
	if err != nil {
		b.answer(r, conversation.Rejection(err))
		return
	}

	s, err := b.sessions.Get(r.ctx, r.userID)
	if err != nil || s.Flow != conversation.FlowEdit || s.SubscriptionID != id {
		if err != nil && !errors.Is(err, conversation.ErrNoSession) {
			logger.Warn("Failed to load session", "user_id", r.userID, "error", err)
		}
		s = conversation.NewEdit(r.userID, id)
	}

	if err := s.SelectField(field); err != nil {
		b.answer(r, conversation.Rejection(err))
		return
	}
	if err := b.sessions.Save(r.ctx, s); err != nil {
		b.fail(r, err, "Failed to save session")
		return
	}
	b.show(r, promptView(s))
}

// handleChoice feeds a keyboard choice (period or status) into the session.
func (b *Bot) handleChoice(r *request, value string) {
	s, ok := b.loadSession(r)
	if !ok {
		return
	}

	res, err := s.HandleChoice(value)
	if err != nil {
		b.answer(r, conversation.Rejection(err))
		return
	}
	b.advance(r, s, res)
}

func (b *Bot) handleText(ctx context.Context, msg *tgbotapi.Message) {
	r := &request{ctx: ctx, chatID: msg.Chat.ID, userID: msg.From.ID}

	s, ok := b.loadSession(r)
	if !ok {
		return
	}

	res, err := s.HandleText(msg.Text)
	if err != nil {
		if subscription.IsValidation(err) {
			logger.Debug("Input rejected", "user_id", r.userID, "state", s.State, "error", err)
		}
		b.show(r, view{text: conversation.Rejection(err), markup: markupFor(s)})
		return
	}
	b.advance(r, s, res)
}

func (b *Bot) loadSession(r *request) (*conversation.Session, bool) {
	s, err := b.sessions.Get(r.ctx, r.userID)
	if err == nil {
		return s, true
	}

	if errors.Is(err, conversation.ErrNoSession) {
		if r.callbackID != "" {
			b.show(r, view{text: sessionGoneText, markup: mainMenuKeyboard()})
		} else {
			b.show(r, view{text: noSessionText})
		}
		return nil, false
	}
	b.fail(r, err, "Failed to load session")
	return nil, false
}

// advance persists a step or, on commit, applies it and closes the session.
func (b *Bot) advance(r *request, s *conversation.Session, res conversation.Result) {
	if !res.Committed {
		if err := b.sessions.Save(r.ctx, s); err != nil {
			b.fail(r, err, "Failed to save session")
			return
		}
		b.show(r, promptView(s))
		return
	}

	switch {
	case res.Create != nil:
		sub, err := b.subs.Create(r.ctx, *res.Create)
		if err != nil {
			if subscription.IsValidation(err) {
				b.show(r, view{text: conversation.Rejection(err), markup: intakeKeyboard()})
				return
			}
			b.fail(r, err, "Failed to create subscription")
			return
		}
		b.dropSession(r)
		b.show(r, createdView(sub))

	case res.Update != nil:
		sub, err := b.subs.Update(r.ctx, r.userID, s.SubscriptionID, res.Update)
		if err != nil {
			b.dropSession(r)
			b.fail(r, err, "Failed to update subscription")
			return
		}
		b.dropSession(r)
		b.show(r, editMenuView(sub, b.today(), changesSavedText))
	}
}

func promptView(s *conversation.Session) view {
	return view{text: s.Prompt(), markup: markupFor(s)}
}

// markupFor is the keyboard that goes with the session's current question.
func markupFor(s *conversation.Session) *tgbotapi.InlineKeyboardMarkup {
	switch s.State {
	case conversation.AwaitingName:
		return nil
	case conversation.AwaitingPrice, conversation.AwaitingComment, conversation.AwaitingDate:
		return intakeKeyboard()
	case conversation.AwaitingPeriod:
		return periodKeyboard(ActPeriod, true)
	case conversation.AwaitingFieldSelection:
		return editKeyboard(s.SubscriptionID)
	case conversation.AwaitingNewValue:
		switch s.Field {
		case subscription.FieldPeriod:
			return periodKeyboard(ActSetPeriod, false)
		case subscription.FieldStatus:
			return statusKeyboard()
		case subscription.FieldNotificationTime:
			return notificationTimeKeyboard(s.SubscriptionID, ActListSubscriptions)
		}
	}
	return nil
}
