package notify

import (
	"context"
	"errors"
	"testing"
	"time"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/develop-mdv/subscriptions-tg-bot/internal/calendar"
	"github.com/develop-mdv/subscriptions-tg-bot/internal/subscription"
)

func mustDate(s string) time.Time {
	t, _ := calendar.ParseDate(s)
	return t
}

func TestReminderText(t *testing.T) {
	sub := &subscription.Subscription{Name: "Netflix <HD>", Price: decimal.NewFromInt(599)}

	text := ReminderText(sub, mustDate("2024-07-01"), 1)

	assert.Contains(t, text, "Напоминание о платеже")
	assert.Contains(t, text, "Netflix &lt;HD&gt;")
	assert.Contains(t, text, "599.00 ₽")
	assert.Contains(t, text, "01.07.2024")
	assert.Contains(t, text, "Осталось дней: 1")
}

func TestDueTodayText(t *testing.T) {
	sub := &subscription.Subscription{Name: "Spotify", Price: decimal.RequireFromString("169.9")}

	text := DueTodayText(sub, mustDate("2024-07-01"))

	assert.Contains(t, text, "Списание средств сегодня")
	assert.Contains(t, text, "169.90 ₽")
	assert.Contains(t, text, "01.07.2024")
}

func TestBuildSummary(t *testing.T) {
	today := mustDate("2024-07-01")
	active := []*subscription.Subscription{
		{Name: "Far", Price: decimal.NewFromInt(100), StartDate: mustDate("2024-01-20"), Period: calendar.Monthly},
		{Name: "Soon", Price: decimal.NewFromInt(200), StartDate: mustDate("2024-06-05"), Period: calendar.Monthly},
		{Name: "Tomorrow", Price: decimal.NewFromInt(300), StartDate: mustDate("2024-06-25"), Period: calendar.Weekly},
	}

	s := BuildSummary(active, decimal.NewFromInt(300), decimal.Zero, today)

	assert.Equal(t, 3, s.ActiveCount)
	require.Len(t, s.Upcoming, 2)
	assert.Equal(t, "Tomorrow", s.Upcoming[0].Name)
	assert.Equal(t, 1, s.Upcoming[0].DaysLeft)
	assert.Equal(t, "Soon", s.Upcoming[1].Name)
	assert.Equal(t, 4, s.Upcoming[1].DaysLeft)

	text := SummaryText(s)
	assert.Contains(t, text, "Активных подписок: 3")
	assert.Contains(t, text, "Расходы в месяц: 300.00 ₽")
	assert.Contains(t, text, "Tomorrow - через 1 дн. (300.00 ₽)")
	assert.NotContains(t, text, "Far")
}

func TestSummaryText_NoUpcoming(t *testing.T) {
	text := SummaryText(Summary{ActiveCount: 1, Monthly: decimal.NewFromInt(10), Yearly: decimal.Zero})
	assert.NotContains(t, text, "Ближайшие платежи")
}

type fakeBot struct {
	sent []tgbotapi.Chattable
	err  error
}

func (b *fakeBot) Send(c tgbotapi.Chattable) (tgbotapi.Message, error) {
	if b.err != nil {
		return tgbotapi.Message{}, b.err
	}
	b.sent = append(b.sent, c)
	return tgbotapi.Message{}, nil
}

func TestTelegramSender_Send(t *testing.T) {
	bot := &fakeBot{}
	s := NewTelegramSender(bot, 100)

	require.NoError(t, s.Send(context.Background(), 42, "<b>hi</b>"))

	require.Len(t, bot.sent, 1)
	msg := bot.sent[0].(tgbotapi.MessageConfig)
	assert.Equal(t, int64(42), msg.ChatID)
	assert.Equal(t, "<b>hi</b>", msg.Text)
	assert.Equal(t, tgbotapi.ModeHTML, msg.ParseMode)
}

func TestTelegramSender_Errors(t *testing.T) {
	blocked := NewTelegramSender(&fakeBot{err: &tgbotapi.Error{Code: 403, Message: "Forbidden: bot was blocked by the user"}}, 100)
	err := blocked.Send(context.Background(), 42, "x")

	var derr *DeliveryError
	require.True(t, errors.As(err, &derr))
	assert.True(t, derr.Permanent)
	assert.Equal(t, int64(42), derr.OwnerID)

	flaky := NewTelegramSender(&fakeBot{err: errors.New("connection reset")}, 100)
	err = flaky.Send(context.Background(), 42, "x")
	require.True(t, errors.As(err, &derr))
	assert.False(t, derr.Permanent)
}
