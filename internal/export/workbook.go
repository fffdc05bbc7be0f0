package export

import (
	"errors"
	"fmt"
	"sort"
	"time"

	"github.com/shopspring/decimal"
	"github.com/xuri/excelize/v2"

	"github.com/develop-mdv/subscriptions-tg-bot/internal/calendar"
	"github.com/develop-mdv/subscriptions-tg-bot/internal/subscription"
)

const (
	SheetSubscriptions = "Подписки"
	SheetAnalytics     = "Аналитика"
	SheetPivot         = "Сводная таблица"

	displayDate = "02.01.2006"
)

var ErrEmpty = errors.New("nothing to export")

var subscriptionHeader = []any{
	"ID", "Название", "Цена (₽)", "Периодичность", "Дата начала",
	"Следующий платеж", "Дней до платежа", "Статус", "Комментарий", "Уведомления",
}

// Report is the data one workbook is built from.
type Report struct {
	Subscriptions []*subscription.Subscription
	Analytics     *subscription.Analytics
	Today         time.Time
}

// Export renders the report as an xlsx workbook.
func Export(r Report) ([]byte, error) {
	const op = "export.Export"

	if len(r.Subscriptions) == 0 {
		return nil, ErrEmpty
	}

	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName("Sheet1", SheetSubscriptions); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	for _, name := range []string{SheetAnalytics, SheetPivot} {
		if _, err := f.NewSheet(name); err != nil {
			return nil, fmt.Errorf("%s: %w", op, err)
		}
	}

	header, err := f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true}})
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	w := &sheetWriter{f: f, header: header}
	w.writeSubscriptions(r.Subscriptions, r.Today)
	w.writeAnalytics(r.Analytics)
	w.writePivot(r.Subscriptions, r.Today)
	if w.err != nil {
		return nil, fmt.Errorf("%s: %w", op, w.err)
	}

	buf, err := f.WriteToBuffer()
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return buf.Bytes(), nil
}

// sheetWriter keeps the first error and skips every call after it.
type sheetWriter struct {
	f      *excelize.File
	header int
	err    error
}

func (w *sheetWriter) row(sheet string, n int, values []any) {
	if w.err != nil {
		return
	}
	cell, err := excelize.CoordinatesToCellName(1, n)
	if err != nil {
		w.err = err
		return
	}
	w.err = w.f.SetSheetRow(sheet, cell, &values)
}

func (w *sheetWriter) headerRow(sheet string, values []any) {
	w.row(sheet, 1, values)
	if w.err != nil {
		return
	}
	last, err := excelize.CoordinatesToCellName(len(values), 1)
	if err != nil {
		w.err = err
		return
	}
	w.err = w.f.SetCellStyle(sheet, "A1", last, w.header)
}

func (w *sheetWriter) width(sheet, from, to string, width float64) {
	if w.err != nil {
		return
	}
	w.err = w.f.SetColWidth(sheet, from, to, width)
}

func (w *sheetWriter) writeSubscriptions(subs []*subscription.Subscription, today time.Time) {
	w.headerRow(SheetSubscriptions, subscriptionHeader)

	for i, s := range subs {
		next := s.NextPayment(today)
		notifications := "Отключены"
		if s.NotificationsEnabled {
			notifications = "Включены"
		}
		w.row(SheetSubscriptions, i+2, []any{
			s.ID,
			s.Name,
			s.Price.InexactFloat64(),
			s.Period.Label(),
			s.StartDate.Format(calendar.DateLayout),
			next.Format(displayDate),
			calendar.DaysUntil(next, today),
			s.Status.Label(),
			s.Comment,
			notifications,
		})
	}
	w.width(SheetSubscriptions, "B", "B", 24)
	w.width(SheetSubscriptions, "D", "G", 16)
	w.width(SheetSubscriptions, "I", "I", 32)
}

func (w *sheetWriter) writeAnalytics(a *subscription.Analytics) {
	w.headerRow(SheetAnalytics, []any{"Показатель", "Значение"})
	if a == nil {
		return
	}

	rows := [][]any{
		{"Активных подписок", a.ActiveCount},
		{"Общие расходы за месяц", rub(a.Monthly)},
		{"Общие расходы за год", rub(a.Yearly)},
		{"Общие расходы всего", rub(a.Total)},
		{"Потрачено за всё время (оценка)", rub(a.SpentEstimate)},
		{"Оплачено по истории платежей", rub(a.PaidTotal)},
		{"", ""},
		{"Расходы по периодичности:", ""},
	}
	for _, p := range a.ByPeriod {
		rows = append(rows, []any{p.Period.Label(), rub(p.Total)})
	}

	for i, r := range rows {
		w.row(SheetAnalytics, i+2, r)
	}
	w.width(SheetAnalytics, "A", "A", 36)
	w.width(SheetAnalytics, "B", "B", 18)
}

func rub(d decimal.Decimal) string {
	return d.StringFixed(2) + " ₽"
}

type pivotRow struct {
	month  string
	name   string
	amount float64
	period string
}

// writePivot lays out next payments by month, earliest first.
func (w *sheetWriter) writePivot(subs []*subscription.Subscription, today time.Time) {
	w.headerRow(SheetPivot, []any{"Месяц", "Подписка", "Сумма", "Периодичность"})

	rows := make([]pivotRow, 0, len(subs))
	for _, s := range subs {
		rows = append(rows, pivotRow{
			month:  s.NextPayment(today).Format("2006-01"),
			name:   s.Name,
			amount: s.Price.InexactFloat64(),
			period: s.Period.Label(),
		})
	}
	sort.SliceStable(rows, func(i, j int) bool {
		if rows[i].month != rows[j].month {
			return rows[i].month < rows[j].month
		}
		return rows[i].name < rows[j].name
	})

	for i, r := range rows {
		w.row(SheetPivot, i+2, []any{r.month, r.name, r.amount, r.period})
	}
	w.width(SheetPivot, "B", "B", 24)
	w.width(SheetPivot, "D", "D", 16)
}
