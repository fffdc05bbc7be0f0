package bot

import (
	"context"
	"errors"
	"fmt"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"github.com/develop-mdv/subscriptions-tg-bot/internal/conversation"
	"github.com/develop-mdv/subscriptions-tg-bot/internal/export"
	"github.com/develop-mdv/subscriptions-tg-bot/internal/logger"
	"github.com/develop-mdv/subscriptions-tg-bot/internal/subscription"
)

func (b *Bot) handleCallback(ctx context.Context, q *tgbotapi.CallbackQuery) {
	r := &request{ctx: ctx, userID: q.From.ID, callbackID: q.ID}
	if q.Message != nil {
		r.chatID = q.Message.Chat.ID
		r.messageID = q.Message.MessageID
	} else {
		r.chatID = q.From.ID
	}
	defer b.answer(r, "")

	action, err := ParseAction(q.Data)
	if err != nil {
		logger.Warn("Unknown callback", "data", q.Data, "user_id", r.userID)
		return
	}
	logger.Debug("Callback received", "action", action.Name, "id", action.ID, "arg", action.Arg, "user_id", r.userID)

	switch action.Name {
	case ActAddSubscription:
		b.startIntake(r)
	case ActListSubscriptions:
		b.showList(r)
	case ActInactiveSubscriptions:
		b.showInactive(r)
	case ActAnalytics:
		b.showAnalytics(r)
	case ActExportExcel:
		b.exportWorkbook(r)
	case ActSettings:
		b.show(r, settingsView())
	case ActSettingsNotifications:
		b.showNotificationSettings(r)
	case ActSettingsNotificationTime:
		b.showNotificationTimes(r)
	case ActChangeNotificationTime:
		b.showTimePicker(r, action.ID)
	case ActSetNotificationTime:
		b.setNotificationTime(r, action.ID, action.Arg)
	case ActEdit:
		b.startEdit(r, action.ID)
	case ActEditField:
		b.selectField(r, action.ID, action.Arg)
	case ActDelete:
		b.deleteSubscription(r, action.ID)
	case ActToggleNotifications:
		b.toggleNotifications(r, action.ID)
	case ActChangeStatus:
		b.show(r, changeStatusView(action.ID))
	case ActSetStatusInactive:
		b.setInactiveStatus(r, action.ID, action.Arg)
	case ActPeriod, ActSetPeriod, ActSetStatus:
		b.handleChoice(r, action.Arg)
	case ActBackToMain:
		b.dropSession(r)
		b.show(r, mainMenuView())
	case ActCancelAdd:
		b.dropSession(r)
		b.show(r, view{text: cancelledText})
	}
}

func (b *Bot) showList(r *request) {
	subs, err := b.subs.List(r.ctx, r.userID, subscription.StatusActive)
	if err != nil {
		b.fail(r, err, "Failed to list subscriptions")
		return
	}
	b.show(r, listView(subs, b.today()))
}

func (b *Bot) showInactive(r *request) {
	subs, err := b.subs.ListInactive(r.ctx, r.userID)
	if err != nil {
		b.fail(r, err, "Failed to list inactive subscriptions")
		return
	}
	b.show(r, inactiveView(subs))
}

func (b *Bot) showAnalytics(r *request) {
	a, err := b.subs.Analytics(r.ctx, r.userID, b.today())
	if err != nil {
		b.fail(r, err, "Failed to compute analytics")
		return
	}

	if a.ActiveCount > 0 {
		png, err := export.Chart(a.ByPeriod)
		switch {
		case errors.Is(err, export.ErrEmpty):
		case err != nil:
			logger.Warn("Failed to render chart", "user_id", r.userID, "error", err)
		default:
			file := tgbotapi.FileBytes{Name: "chart.png", Bytes: png}
			if err := b.sendFile(r, file, chartCaption, true); err != nil {
				logger.Warn("Failed to send chart", "user_id", r.userID, "error", err)
			}
		}
	}

	b.show(r, analyticsView(a))
}

func (b *Bot) exportWorkbook(r *request) {
	data, err := b.exporter.Workbook(r.ctx, r.userID)
	if errors.Is(err, export.ErrEmpty) {
		b.show(r, exportEmptyView())
		return
	}
	if err != nil {
		b.fail(r, err, "Failed to export subscriptions")
		return
	}

	file := tgbotapi.FileBytes{Name: export.FileName(r.userID, b.now()), Bytes: data}
	if err := b.sendFile(r, file, exportCaption, false); err != nil {
		b.fail(r, err, "Failed to send export")
		return
	}
	b.show(r, view{text: exportDoneText, markup: backToMainKeyboard()})
}

func (b *Bot) showNotificationSettings(r *request) {
	subs, err := b.subs.List(r.ctx, r.userID, subscription.StatusActive)
	if err != nil {
		b.fail(r, err, "Failed to list subscriptions")
		return
	}
	b.show(r, notificationsView(subs))
}

func (b *Bot) showNotificationTimes(r *request) {
	subs, err := b.subs.List(r.ctx, r.userID, subscription.StatusActive)
	if err != nil {
		b.fail(r, err, "Failed to list subscriptions")
		return
	}
	b.show(r, notificationTimesView(subs))
}

func (b *Bot) showTimePicker(r *request, id int64) {
	sub, err := b.subs.Get(r.ctx, r.userID, id)
	if err != nil {
		b.fail(r, err, "Failed to load subscription")
		return
	}
	b.show(r, changeTimeView(sub))
}

func (b *Bot) setNotificationTime(r *request, id int64, raw string) {
	t, err := subscription.ParseNotificationTime(raw)
	if err != nil {
		b.answer(r, conversation.Rejection(err))
		return
	}
	if _, err := b.subs.Update(r.ctx, r.userID, id, subscription.SetNotificationTime{Time: t}); err != nil {
		b.fail(r, err, "Failed to update notification time")
		return
	}

	// The same picker serves the edit menu; an edit waiting on this field is done.
	if s, err := b.sessions.Get(r.ctx, r.userID); err == nil && s.Flow == conversation.FlowEdit && s.SubscriptionID == id {
		b.dropSession(r)
	}

	b.answer(r, fmt.Sprintf("⏰ Время уведомлений изменено на %s", t))
	b.showNotificationTimes(r)
}

func (b *Bot) deleteSubscription(r *request, id int64) {
	sub, err := b.subs.Delete(r.ctx, r.userID, id)
	if err != nil {
		b.fail(r, err, "Failed to delete subscription")
		return
	}
	b.answer(r, fmt.Sprintf("🗑️ Подписка '%s' удалена", sub.Name))
	b.showList(r)
}

func (b *Bot) toggleNotifications(r *request, id int64) {
	sub, err := b.subs.ToggleNotifications(r.ctx, r.userID, id)
	if err != nil {
		b.fail(r, err, "Failed to toggle notifications")
		return
	}
	state := "отключены"
	if sub.NotificationsEnabled {
		state = "включены"
	}
	b.answer(r, "🔔 Уведомления "+state)
	b.showNotificationSettings(r)
}

func (b *Bot) setInactiveStatus(r *request, id int64, raw string) {
	status, err := subscription.ParseStatus(raw)
	if err != nil {
		b.answer(r, conversation.Rejection(err))
		return
	}
	if _, err := b.subs.Update(r.ctx, r.userID, id, subscription.SetStatus{Status: status}); err != nil {
		b.fail(r, err, "Failed to change status")
		return
	}
	b.showInactive(r)
}

func (b *Bot) dropSession(r *request) {
	if err := b.sessions.Delete(r.ctx, r.userID); err != nil {
		logger.Warn("Failed to drop session", "user_id", r.userID, "error", err)
	}
}
