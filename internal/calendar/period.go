package calendar

import "fmt"

// Period is the recurrence step of a subscription.
type Period string

const (
	Daily     Period = "daily"
	Weekly    Period = "weekly"
	Monthly   Period = "monthly"
	Quarterly Period = "quarterly"
	Yearly    Period = "yearly"
)

var periodLabels = map[Period]string{
	Monthly:   "Ежемесячно",
	Quarterly: "Ежеквартально",
	Yearly:    "Ежегодно",
	Weekly:    "Еженедельно",
	Daily:     "Ежедневно",
}

// Periods lists the supported periods in menu order.
func Periods() []Period {
	return []Period{Monthly, Quarterly, Yearly, Weekly, Daily}
}

func ParsePeriod(s string) (Period, error) {
	p := Period(s)
	if !p.Valid() {
		return "", fmt.Errorf("unknown period %q", s)
	}
	return p, nil
}

func (p Period) Valid() bool {
	_, ok := periodLabels[p]
	return ok
}

// Label is the human-readable name shown to users.
func (p Period) Label() string {
	if l, ok := periodLabels[p]; ok {
		return l
	}
	return string(p)
}

func (p Period) String() string {
	return string(p)
}
