package bot

import (
	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"github.com/develop-mdv/subscriptions-tg-bot/internal/calendar"
	"github.com/develop-mdv/subscriptions-tg-bot/internal/subscription"
)

func button(text string, a Action) tgbotapi.InlineKeyboardButton {
	return tgbotapi.NewInlineKeyboardButtonData(text, a.Data())
}

func row(buttons ...tgbotapi.InlineKeyboardButton) []tgbotapi.InlineKeyboardButton {
	return tgbotapi.NewInlineKeyboardRow(buttons...)
}

func keyboard(rows ...[]tgbotapi.InlineKeyboardButton) *tgbotapi.InlineKeyboardMarkup {
	kb := tgbotapi.NewInlineKeyboardMarkup(rows...)
	return &kb
}

func backRow(to string) []tgbotapi.InlineKeyboardButton {
	return row(button("🔙 Назад", Action{Name: to}))
}

func mainMenuKeyboard() *tgbotapi.InlineKeyboardMarkup {
	return keyboard(
		row(button("➕ Добавить подписку", Action{Name: ActAddSubscription})),
		row(button("📋 Мои подписки", Action{Name: ActListSubscriptions})),
		row(button("📁 Неактивные подписки", Action{Name: ActInactiveSubscriptions})),
		row(button("📊 Аналитика", Action{Name: ActAnalytics})),
		row(button("📤 Экспорт в Excel", Action{Name: ActExportExcel})),
		row(button("⚙️ Настройки", Action{Name: ActSettings})),
	)
}

func backToMainKeyboard() *tgbotapi.InlineKeyboardMarkup {
	return keyboard(backRow(ActBackToMain))
}

func intakeKeyboard() *tgbotapi.InlineKeyboardMarkup {
	return keyboard(
		row(button("🏠 Главное меню", Action{Name: ActBackToMain})),
		row(button("❌ Отмена", Action{Name: ActCancelAdd})),
	)
}

func periodKeyboard(name string, withCancel bool) *tgbotapi.InlineKeyboardMarkup {
	var rows [][]tgbotapi.InlineKeyboardButton
	for _, p := range calendar.Periods() {
		rows = append(rows, row(button(p.Label(), Action{Name: name, Arg: string(p)})))
	}
	if withCancel {
		rows = append(rows,
			row(button("🏠 Главное меню", Action{Name: ActBackToMain})),
			row(button("❌ Отмена", Action{Name: ActCancelAdd})),
		)
	}
	return keyboard(rows...)
}

func statusKeyboard() *tgbotapi.InlineKeyboardMarkup {
	var rows [][]tgbotapi.InlineKeyboardButton
	for _, st := range subscription.Statuses() {
		rows = append(rows, row(button(st.Label(), Action{Name: ActSetStatus, Arg: string(st)})))
	}
	return keyboard(rows...)
}

func inactiveStatusKeyboard(id int64) *tgbotapi.InlineKeyboardMarkup {
	var rows [][]tgbotapi.InlineKeyboardButton
	for _, st := range subscription.Statuses() {
		rows = append(rows, row(button(st.Label(), Action{Name: ActSetStatusInactive, ID: id, Arg: string(st)})))
	}
	rows = append(rows, backRow(ActInactiveSubscriptions))
	return keyboard(rows...)
}

func notificationTimeKeyboard(id int64, back string) *tgbotapi.InlineKeyboardMarkup {
	var rows [][]tgbotapi.InlineKeyboardButton
	for _, t := range subscription.NotificationTimes {
		rows = append(rows, row(button(subscription.NotificationTimeLabel(t), Action{Name: ActSetNotificationTime, ID: id, Arg: t})))
	}
	rows = append(rows, backRow(back))
	return keyboard(rows...)
}

var editableFields = []struct {
	field subscription.Field
	label string
}{
	{subscription.FieldName, "📝 Название"},
	{subscription.FieldPrice, "💰 Цена"},
	{subscription.FieldComment, "💬 Комментарий"},
	{subscription.FieldStartDate, "📅 Дата начала"},
	{subscription.FieldPeriod, "🔄 Периодичность"},
	{subscription.FieldStatus, "📊 Статус"},
	{subscription.FieldNotificationTime, "⏰ Время уведомлений"},
}

func editKeyboard(id int64) *tgbotapi.InlineKeyboardMarkup {
	var rows [][]tgbotapi.InlineKeyboardButton
	for _, f := range editableFields {
		rows = append(rows, row(button(f.label, Action{Name: ActEditField, ID: id, Arg: string(f.field)})))
	}
	rows = append(rows, backRow(ActListSubscriptions))
	return keyboard(rows...)
}

func settingsKeyboard() *tgbotapi.InlineKeyboardMarkup {
	return keyboard(
		row(button("🔔 Уведомления", Action{Name: ActSettingsNotifications})),
		row(button("⏰ Время уведомлений", Action{Name: ActSettingsNotificationTime})),
		backRow(ActBackToMain),
	)
}
