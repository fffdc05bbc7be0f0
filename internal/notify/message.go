package notify

import (
	"fmt"
	"html"
	"sort"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/develop-mdv/subscriptions-tg-bot/internal/subscription"
)

// Kind labels a notification for dedup keys and metrics.
type Kind string

const (
	KindPaymentReminder Kind = "payment_reminder"
	KindPaymentDueToday Kind = "payment_due_today"
	KindDailySummary    Kind = "daily_summary"
	KindMessage         Kind = "message"
)

// UpcomingWindowDays bounds the "upcoming payments" list of the daily summary.
const UpcomingWindowDays = 7

const displayDateLayout = "02.01.2006"

// Money renders an amount in roubles with two decimals.
func Money(d decimal.Decimal) string {
	return d.StringFixed(2) + " ₽"
}

func ReminderText(sub *subscription.Subscription, due time.Time, daysLeft int) string {
	var b strings.Builder
	b.WriteString("🔔 <b>Напоминание о платеже</b>\n\n")
	fmt.Fprintf(&b, "📋 Подписка: <b>%s</b>\n", html.EscapeString(sub.Name))
	fmt.Fprintf(&b, "💰 Сумма: %s\n", Money(sub.Price))
	fmt.Fprintf(&b, "📅 Дата списания: %s\n", due.Format(displayDateLayout))
	fmt.Fprintf(&b, "⏰ Осталось дней: %d\n\n", daysLeft)
	b.WriteString("Не забудьте пополнить счет! 💳")
	return b.String()
}

func DueTodayText(sub *subscription.Subscription, today time.Time) string {
	var b strings.Builder
	b.WriteString("💳 <b>Списание средств сегодня!</b>\n\n")
	fmt.Fprintf(&b, "📋 Подписка: <b>%s</b>\n", html.EscapeString(sub.Name))
	fmt.Fprintf(&b, "💰 Сумма: %s\n", Money(sub.Price))
	fmt.Fprintf(&b, "📅 Дата: %s\n\n", today.Format(displayDateLayout))
	b.WriteString("Убедитесь, что на счете достаточно средств! ✅")
	return b.String()
}

type Upcoming struct {
	Name     string
	Price    decimal.Decimal
	DaysLeft int
}

type Summary struct {
	ActiveCount int
	Monthly     decimal.Decimal
	Yearly      decimal.Decimal
	Upcoming    []Upcoming
}

// BuildSummary collects the payments due within UpcomingWindowDays of today.
func BuildSummary(active []*subscription.Subscription, monthly, yearly decimal.Decimal, today time.Time) Summary {
	s := Summary{ActiveCount: len(active), Monthly: monthly, Yearly: yearly}
	for _, sub := range active {
		days := sub.DaysLeft(today)
		if days <= UpcomingWindowDays {
			s.Upcoming = append(s.Upcoming, Upcoming{Name: sub.Name, Price: sub.Price, DaysLeft: days})
		}
	}
	sort.SliceStable(s.Upcoming, func(i, j int) bool {
		return s.Upcoming[i].DaysLeft < s.Upcoming[j].DaysLeft
	})
	return s
}

func SummaryText(s Summary) string {
	var b strings.Builder
	b.WriteString("📊 <b>Ежедневная сводка подписок</b>\n\n")
	fmt.Fprintf(&b, "📋 Активных подписок: %d\n", s.ActiveCount)
	fmt.Fprintf(&b, "💰 Расходы в месяц: %s\n", Money(s.Monthly))
	fmt.Fprintf(&b, "💰 Расходы в год: %s\n", Money(s.Yearly))

	if len(s.Upcoming) > 0 {
		b.WriteString("\n🔔 <b>Ближайшие платежи:</b>\n")
		for _, u := range s.Upcoming {
			fmt.Fprintf(&b, "• %s - через %d дн. (%s)\n", html.EscapeString(u.Name), u.DaysLeft, Money(u.Price))
		}
	}
	return b.String()
}
