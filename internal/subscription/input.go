package subscription

import (
	"strings"
	"time"
	"unicode"
	"unicode/utf8"

	"github.com/shopspring/decimal"

	"github.com/develop-mdv/subscriptions-tg-bot/internal/calendar"
)

// CommentNone is typed by users to leave the comment empty.
const CommentNone = "-"

const (
	minNameLength = 2
	maxNameLength = 255

	minStartYear = 1900
	maxStartYear = 2100
)

var fullYearLayouts = []string{
	"2006-1-2",
	"2.1.2006",
	"2/1/2006",
	"2-1-2006",
}

// YY-MM-DD wins over DD-MM-YY when both read: 24-06-01 is 2024-06-01.
var shortYearLayouts = []string{
	"06-1-2",
	"2.1.06",
	"2/1/06",
	"2-1-06",
}

func ParseName(raw string) (string, error) {
	name := strings.TrimSpace(raw)
	if utf8.RuneCountInString(name) < minNameLength {
		return "", &ValidationError{Field: "name", Msg: "must contain at least 2 characters"}
	}
	if utf8.RuneCountInString(name) > maxNameLength {
		return "", &ValidationError{Field: "name", Msg: "must contain at most 255 characters"}
	}
	return name, nil
}

// ParsePrice accepts a non-negative number; a comma works as decimal separator.
func ParsePrice(raw string) (decimal.Decimal, error) {
	s := strings.ReplaceAll(strings.TrimSpace(raw), ",", ".")
	price, err := decimal.NewFromString(s)
	if err != nil {
		return decimal.Zero, &ValidationError{Field: "price", Msg: "not a number"}
	}
	if price.IsNegative() {
		return decimal.Zero, &ValidationError{Field: "price", Msg: "must not be negative"}
	}
	return price.Round(2), nil
}

func ParseComment(raw string) string {
	c := strings.TrimSpace(raw)
	if c == CommentNone {
		return ""
	}
	return c
}

// ParseStartDate accepts YYYY-MM-DD, DD.MM.YYYY, DD/MM/YYYY, DD-MM-YYYY and the
// two-digit-year form of each. Two-digit years mean 20YY. Years outside
// 1900..2100 are rejected.
func ParseStartDate(raw string) (time.Time, error) {
	t, err := parseDate(raw)
	if err != nil {
		return time.Time{}, err
	}
	if t.Year() < minStartYear || t.Year() > maxStartYear {
		return time.Time{}, &ValidationError{Field: "start_date", Msg: "year out of range"}
	}
	return t, nil
}

func parseDate(raw string) (time.Time, error) {
	s := strings.Map(func(r rune) rune {
		if unicode.IsSpace(r) {
			return -1
		}
		return r
	}, raw)

	for _, layout := range fullYearLayouts {
		if t, err := time.ParseInLocation(layout, s, time.UTC); err == nil {
			return t, nil
		}
	}
	for _, layout := range shortYearLayouts {
		if t, err := time.ParseInLocation(layout, s, time.UTC); err == nil {
			return time.Date(2000+t.Year()%100, t.Month(), t.Day(), 0, 0, 0, 0, time.UTC), nil
		}
	}
	return time.Time{}, &ValidationError{Field: "start_date", Msg: "unrecognised date format"}
}

// NormalizeDate parses raw and formats it as YYYY-MM-DD.
func NormalizeDate(raw string) (string, error) {
	t, err := ParseStartDate(raw)
	if err != nil {
		return "", err
	}
	return t.Format(calendar.DateLayout), nil
}

func ParseNotificationTime(raw string) (string, error) {
	t, err := time.Parse("15:04", strings.TrimSpace(raw))
	if err != nil {
		return "", &ValidationError{Field: "notification_time", Msg: "expected HH:MM"}
	}
	return t.Format("15:04"), nil
}
