package bot

import (
	"fmt"
	"html"
	"strings"
	"time"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"github.com/develop-mdv/subscriptions-tg-bot/internal/calendar"
	"github.com/develop-mdv/subscriptions-tg-bot/internal/notify"
	"github.com/develop-mdv/subscriptions-tg-bot/internal/subscription"
)

const displayDate = "02.01.2006"

const welcomeText = `🎉 <b>Добро пожаловать в бот для отслеживания подписок!</b>

Этот бот поможет вам:
• 📝 Добавлять и управлять подписками
• 📊 Анализировать расходы
• 🔔 Получать уведомления о платежах
• 📈 Экспортировать данные в Excel

Используйте меню ниже для навигации:`

const helpText = `📚 <b>Справка по командам:</b>

<b>Основные команды:</b>
/start - Главное меню
/help - Эта справка
/add - Добавить подписку
/list - Список подписок
/analytics - Аналитика расходов
/export - Экспорт в Excel
/cancel - Отменить текущее действие
/token - Токен для HTTP API

<b>Управление подписками:</b>
• Добавление: название, цена, дата начала, периодичность
• Редактирование: изменение любых полей
• Удаление: полное удаление подписки
• Статусы: активная, приостановлена, отменена

<b>Уведомления:</b>
• За день до списания
• В день списания
• Ежедневная сводка

<b>Аналитика:</b>
• Общие расходы за месяц/год
• Расходы по периодичности
• График расходов`

const (
	cancelledText    = "❌ Операция отменена. Используйте /start для возврата в главное меню."
	notFoundText     = "❌ Подписка не найдена"
	failureText      = "❌ Произошла ошибка. Попробуйте позже."
	sessionGoneText  = "⌛ Сессия истекла. Начните заново из главного меню."
	noSessionText    = "Используйте /start, чтобы открыть главное меню."
	unknownCmdText   = "❓ Неизвестная команда. Используйте /help для списка команд."
	exportDoneText   = "✅ <b>Экспорт успешно завершен!</b>\n\nФайл Excel отправлен выше."
	exportCaption    = "📤 <b>Экспорт данных завершен!</b>\n\nФайл содержит:\n• Список всех подписок\n• Аналитику расходов\n• Сводную таблицу"
	chartCaption     = "📊 График расходов по подпискам"
	changesSavedText = "✅ Изменения сохранены\n\n"
)

// view is a message body plus its optional inline keyboard.
type view struct {
	text   string
	markup *tgbotapi.InlineKeyboardMarkup
}

func esc(s string) string {
	return html.EscapeString(s)
}

func welcomeView() view {
	return view{text: welcomeText, markup: mainMenuKeyboard()}
}

func mainMenuView() view {
	return view{text: "🎉 <b>Главное меню</b>\n\nВыберите действие:", markup: mainMenuKeyboard()}
}

func subscriptionCard(s *subscription.Subscription, today time.Time) string {
	next := s.NextPayment(today)

	var b strings.Builder
	fmt.Fprintf(&b, "📋 <b>%s</b>\n", esc(s.Name))
	fmt.Fprintf(&b, "💰 Цена: %s\n", notify.Money(s.Price))
	fmt.Fprintf(&b, "📅 Периодичность: %s\n", s.Period.Label())
	fmt.Fprintf(&b, "📆 Следующий платеж: %s\n", next.Format(displayDate))
	fmt.Fprintf(&b, "⏰ Осталось дней: %d\n", calendar.DaysUntil(next, today))
	fmt.Fprintf(&b, "📊 Статус: %s\n", s.Status.Label())
	fmt.Fprintf(&b, "🔔 Уведомления: %s\n", subscription.NotificationTimeLabel(s.NotificationTime))
	if s.Comment != "" {
		fmt.Fprintf(&b, "💬 Комментарий: %s\n", esc(s.Comment))
	}
	return b.String()
}

func editMenuView(s *subscription.Subscription, today time.Time, notice string) view {
	return view{
		text:   notice + subscriptionCard(s, today) + "\nВыберите, что хотите изменить:",
		markup: editKeyboard(s.ID),
	}
}

func createdView(s *subscription.Subscription) view {
	var b strings.Builder
	b.WriteString("✅ <b>Подписка успешно добавлена!</b>\n\n")
	fmt.Fprintf(&b, "📋 Название: %s\n", esc(s.Name))
	fmt.Fprintf(&b, "💰 Цена: %s\n", notify.Money(s.Price))
	fmt.Fprintf(&b, "📅 Периодичность: %s\n", s.Period.Label())
	fmt.Fprintf(&b, "📆 Дата начала: %s\n\n", s.StartDate.Format(displayDate))
	fmt.Fprintf(&b, "ID подписки: %d", s.ID)
	return view{text: b.String(), markup: mainMenuKeyboard()}
}

func listView(subs []*subscription.Subscription, today time.Time) view {
	if len(subs) == 0 {
		return view{
			text:   "📋 <b>У вас пока нет активных подписок</b>\n\nДобавьте первую подписку, чтобы начать отслеживание!",
			markup: backToMainKeyboard(),
		}
	}

	var b strings.Builder
	b.WriteString("📋 <b>Ваши активные подписки:</b>\n\n")

	var rows [][]tgbotapi.InlineKeyboardButton
	for i, s := range subs {
		next := s.NextPayment(today)
		fmt.Fprintf(&b, "%d. <b>%s</b>\n", i+1, esc(s.Name))
		fmt.Fprintf(&b, "   💰 %s | 📅 %s\n", notify.Money(s.Price), s.Period.Label())
		fmt.Fprintf(&b, "   ⏰ Следующий платеж: %s (через %d дн.)\n\n", next.Format(displayDate), calendar.DaysUntil(next, today))

		rows = append(rows, row(
			button("✏️ "+s.Name, Action{Name: ActEdit, ID: s.ID}),
			button("🗑️ "+s.Name, Action{Name: ActDelete, ID: s.ID}),
		))
	}
	rows = append(rows, backRow(ActBackToMain))
	return view{text: b.String(), markup: keyboard(rows...)}
}

func inactiveView(subs []*subscription.Subscription) view {
	if len(subs) == 0 {
		return view{
			text:   "📋 <b>У вас нет приостановленных или отменённых подписок</b>",
			markup: backToMainKeyboard(),
		}
	}

	var b strings.Builder
	b.WriteString("📋 <b>Неактивные подписки:</b>\n\n")

	var rows [][]tgbotapi.InlineKeyboardButton
	for i, s := range subs {
		fmt.Fprintf(&b, "%d. <b>%s</b>\n", i+1, esc(s.Name))
		fmt.Fprintf(&b, "   💰 %s | 📅 %s | 📊 %s\n", notify.Money(s.Price), s.Period.Label(), s.Status.Label())
		fmt.Fprintf(&b, "   📆 Дата начала: %s\n", s.StartDate.Format(displayDate))

		rows = append(rows, row(button(fmt.Sprintf("%d. Изменить статус", i+1), Action{Name: ActChangeStatus, ID: s.ID})))
	}
	rows = append(rows, backRow(ActBackToMain))
	return view{text: b.String(), markup: keyboard(rows...)}
}

func changeStatusView(id int64) view {
	return view{text: "Выберите новый статус:", markup: inactiveStatusKeyboard(id)}
}

func analyticsView(a *subscription.Analytics) view {
	if a.ActiveCount == 0 {
		return view{
			text:   "📊 <b>Нет данных для аналитики</b>\n\nДобавьте подписки, чтобы увидеть статистику!",
			markup: backToMainKeyboard(),
		}
	}

	var b strings.Builder
	b.WriteString("📊 <b>Аналитика расходов</b>\n\n")
	fmt.Fprintf(&b, "📋 Всего активных подписок: %d\n", a.ActiveCount)
	fmt.Fprintf(&b, "💰 Расходы в месяц: %s\n", notify.Money(a.Monthly))
	fmt.Fprintf(&b, "💰 Расходы в год: %s\n", notify.Money(a.Yearly))
	fmt.Fprintf(&b, "💰 Общие расходы: %s\n", notify.Money(a.Total))
	fmt.Fprintf(&b, "🧾 <b>Сумма всех трат за всё время:</b> %s\n", notify.Money(a.SpentEstimate))
	fmt.Fprintf(&b, "💳 Оплачено по истории платежей: %s\n\n", notify.Money(a.PaidTotal))

	if len(a.ByPeriod) > 0 {
		b.WriteString("📈 <b>Расходы по периодичности:</b>\n")
		for _, p := range a.ByPeriod {
			fmt.Fprintf(&b, "• %s: %s\n", p.Period.Label(), notify.Money(p.Total))
		}
	}
	return view{text: b.String(), markup: backToMainKeyboard()}
}

func exportEmptyView() view {
	return view{
		text:   "📤 <b>Нет данных для экспорта</b>\n\nДобавьте подписки, чтобы экспортировать данные!",
		markup: backToMainKeyboard(),
	}
}

func settingsView() view {
	return view{text: "⚙️ <b>Настройки</b>\n\nВыберите раздел настроек:", markup: settingsKeyboard()}
}

func notificationsView(subs []*subscription.Subscription) view {
	var b strings.Builder
	b.WriteString("🔔 <b>Настройки уведомлений</b>\n\nУправление уведомлениями по подпискам:\n\n")

	var rows [][]tgbotapi.InlineKeyboardButton
	for _, s := range subs {
		status, icon := "🔕 Отключены", "🔔"
		if s.NotificationsEnabled {
			status, icon = "🔔 Включены", "🔕"
		}
		fmt.Fprintf(&b, "• %s: %s\n", esc(s.Name), status)
		rows = append(rows, row(button(icon+" "+s.Name, Action{Name: ActToggleNotifications, ID: s.ID})))
	}
	rows = append(rows, backRow(ActSettings))
	return view{text: b.String(), markup: keyboard(rows...)}
}

func notificationTimesView(subs []*subscription.Subscription) view {
	var b strings.Builder
	b.WriteString("⏰ <b>Настройки времени уведомлений</b>\n\nВыберите подписку для изменения времени уведомлений:\n\n")

	var rows [][]tgbotapi.InlineKeyboardButton
	for _, s := range subs {
		fmt.Fprintf(&b, "• %s: %s\n", esc(s.Name), s.NotificationTime)
		rows = append(rows, row(button(fmt.Sprintf("⏰ %s (%s)", s.Name, s.NotificationTime), Action{Name: ActChangeNotificationTime, ID: s.ID})))
	}
	rows = append(rows, backRow(ActSettings))
	return view{text: b.String(), markup: keyboard(rows...)}
}

func changeTimeView(s *subscription.Subscription) view {
	text := fmt.Sprintf("⏰ <b>Выбор времени уведомлений</b>\n\nПодписка: <b>%s</b>\nТекущее время: <b>%s</b>\n\nВыберите новое время:",
		esc(s.Name), s.NotificationTime)
	return view{text: text, markup: notificationTimeKeyboard(s.ID, ActSettingsNotificationTime)}
}

func tokenView(token string) view {
	return view{text: fmt.Sprintf(
		"🔑 <b>Токен для HTTP API</b>\n\n<code>%s</code>\n\nПередавайте его в заголовке <code>Authorization: Bearer &lt;token&gt;</code>. Токен действует 24 часа.",
		token,
	)}
}
