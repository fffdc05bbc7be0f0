package bot

import (
	"context"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"github.com/develop-mdv/subscriptions-tg-bot/internal/logger"
)

func (b *Bot) handleCommand(ctx context.Context, msg *tgbotapi.Message) {
	r := &request{ctx: ctx, chatID: msg.Chat.ID, userID: msg.From.ID}
	command := msg.Command()
	logger.Debug("Command received", "command", command, "user_id", r.userID)

	switch command {
	case "start":
		b.show(r, welcomeView())
	case "help":
		b.show(r, view{text: helpText})
	case "add":
		b.startIntake(r)
	case "list":
		b.showList(r)
	case "analytics":
		b.showAnalytics(r)
	case "export":
		b.exportWorkbook(r)
	case "cancel":
		b.cancel(r)
	case "token":
		b.issueToken(r)
	default:
		b.show(r, view{text: unknownCmdText})
	}
}

func (b *Bot) issueToken(r *request) {
	if b.tokens == nil {
		b.show(r, view{text: failureText})
		return
	}
	token, err := b.tokens(r.userID)
	if err != nil {
		logger.Error("Failed to issue API token", "user_id", r.userID, "error", err)
		b.show(r, view{text: failureText})
		return
	}
	b.show(r, tokenView(token))
}

// cancel discards any in-progress flow.
func (b *Bot) cancel(r *request) {
	if err := b.sessions.Delete(r.ctx, r.userID); err != nil {
		logger.Warn("Failed to drop session", "user_id", r.userID, "error", err)
	}
	b.show(r, view{text: cancelledText})
}
