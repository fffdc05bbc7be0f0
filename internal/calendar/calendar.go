// Package calendar computes billing occurrences for recurring subscriptions.
//
// Every function is pure. Dates are time.Time values truncated to midnight UTC;
// callers convert wall-clock instants with Date or Today first.
package calendar

import "time"

// DateLayout is the canonical storage format for calendar dates.
const DateLayout = "2006-01-02"

// Date drops the time-of-day and zone of t, keeping its calendar day.
func Date(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

// Today is the current calendar day in loc.
func Today(loc *time.Location) time.Time {
	return Date(time.Now().In(loc))
}

// ParseDate parses a canonical YYYY-MM-DD date.
func ParseDate(s string) (time.Time, error) {
	return time.ParseInLocation(DateLayout, s, time.UTC)
}

// NextOccurrence returns the first scheduled date strictly after today.
// When today precedes start the first occurrence is start itself.
func NextOccurrence(start time.Time, period Period, today time.Time) time.Time {
	start, today = Date(start), Date(today)
	if today.Before(start) {
		return start
	}

	n := stepsElapsed(start, period, today)
	candidate := Occurrence(start, period, n)
	if !candidate.After(today) {
		candidate = Occurrence(start, period, n+1)
	}
	return candidate
}

// ElapsedOccurrences counts scheduled dates in [start, end].
func ElapsedOccurrences(start time.Time, period Period, end time.Time) int {
	start, end = Date(start), Date(end)
	if end.Before(start) {
		return 0
	}

	n := stepsElapsed(start, period, end)
	if Occurrence(start, period, n).After(end) {
		n--
	}
	return n + 1
}

const secondsPerDay = 24 * 60 * 60

// DaysUntil is the signed number of days from today to occurrence. It counts
// civil days, so it holds for any span (time.Duration caps near 292 years).
func DaysUntil(occurrence, today time.Time) int {
	return int((Date(occurrence).Unix() - Date(today).Unix()) / secondsPerDay)
}

// IsOccurrenceDay reports whether day lies on the schedule anchored at start.
func IsOccurrenceDay(start time.Time, period Period, day time.Time) bool {
	start, day = Date(start), Date(day)
	if day.Before(start) {
		return false
	}

	switch period {
	case Daily:
		return true
	case Weekly:
		return DaysUntil(day, start)%7 == 0
	case Quarterly:
		months := monthsBetween(start, day)
		return months%3 == 0 && Occurrence(start, period, months/3).Equal(day)
	default:
		return Occurrence(start, period, stepsElapsed(start, period, day)).Equal(day)
	}
}

// Occurrence returns the n-th (zero-based) scheduled date. Month based
// steps are taken from start each time, so a day-of-month lost to clamping
// in a short month comes back in the next long one.
func Occurrence(start time.Time, period Period, n int) time.Time {
	start = Date(start)
	switch period {
	case Daily:
		return start.AddDate(0, 0, n)
	case Weekly:
		return start.AddDate(0, 0, 7*n)
	case Monthly:
		return addMonthsClamped(start, n)
	case Quarterly:
		return addMonthsClamped(start, 3*n)
	case Yearly:
		return addMonthsClamped(start, 12*n)
	default:
		return addMonthsClamped(start, n)
	}
}

// stepsElapsed estimates the number of whole periods between start and day.
// The estimate is either exact or one step too far.
func stepsElapsed(start time.Time, period Period, day time.Time) int {
	switch period {
	case Daily:
		return DaysUntil(day, start)
	case Weekly:
		return DaysUntil(day, start) / 7
	case Quarterly:
		return monthsBetween(start, day) / 3
	case Yearly:
		return day.Year() - start.Year()
	default:
		return monthsBetween(start, day)
	}
}

func monthsBetween(from, to time.Time) int {
	return (to.Year()-from.Year())*12 + int(to.Month()) - int(from.Month())
}

func addMonthsClamped(t time.Time, months int) time.Time {
	total := int(t.Month()) - 1 + months
	year := t.Year() + floorDiv(total, 12)
	month := time.Month(total - floorDiv(total, 12)*12 + 1)

	day := t.Day()
	if last := DaysIn(year, month); day > last {
		day = last
	}
	return time.Date(year, month, day, 0, 0, 0, 0, time.UTC)
}

// DaysIn returns the number of days in the given month.
func DaysIn(year int, month time.Month) int {
	return time.Date(year, month+1, 0, 0, 0, 0, 0, time.UTC).Day()
}

func floorDiv(a, b int) int {
	q := a / b
	if a%b != 0 && (a < 0) != (b < 0) {
		q--
	}
	return q
}
