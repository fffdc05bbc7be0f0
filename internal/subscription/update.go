package subscription

import (
	"fmt"
	"time"

	"github.com/shopspring/decimal"

	"github.com/develop-mdv/subscriptions-tg-bot/internal/calendar"
)

// Field names an editable subscription attribute.
type Field string

const (
	FieldName                 Field = "name"
	FieldPrice                Field = "price"
	FieldComment              Field = "comment"
	FieldStartDate            Field = "start_date"
	FieldPeriod               Field = "period"
	FieldStatus               Field = "status"
	FieldNotificationTime     Field = "notification_time"
	FieldNotificationsEnabled Field = "notifications_enabled"
)

var fieldLabels = map[Field]string{
	FieldName:                 "Название",
	FieldPrice:                "Цена",
	FieldComment:              "Комментарий",
	FieldStartDate:            "Дата начала",
	FieldPeriod:               "Периодичность",
	FieldStatus:               "Статус",
	FieldNotificationTime:     "Время уведомлений",
	FieldNotificationsEnabled: "Уведомления",
}

func ParseField(s string) (Field, error) {
	f := Field(s)
	if _, ok := fieldLabels[f]; !ok {
		return "", &ValidationError{Field: "field", Msg: "unknown field " + s}
	}
	return f, nil
}

func (f Field) Label() string {
	return fieldLabels[f]
}

// FieldUpdate is one already-validated change to a single field.
// The set of implementations is closed.
type FieldUpdate interface {
	Field() Field
	isFieldUpdate()
}

type SetName struct{ Name string }
type SetPrice struct{ Price decimal.Decimal }
type SetComment struct{ Comment string }
type SetStartDate struct{ StartDate time.Time }
type SetPeriod struct{ Period calendar.Period }
type SetStatus struct{ Status Status }
type SetNotificationTime struct{ Time string }
type SetNotificationsEnabled struct{ Enabled bool }

func (SetName) Field() Field                 { return FieldName }
func (SetPrice) Field() Field                { return FieldPrice }
func (SetComment) Field() Field              { return FieldComment }
func (SetStartDate) Field() Field            { return FieldStartDate }
func (SetPeriod) Field() Field               { return FieldPeriod }
func (SetStatus) Field() Field               { return FieldStatus }
func (SetNotificationTime) Field() Field     { return FieldNotificationTime }
func (SetNotificationsEnabled) Field() Field { return FieldNotificationsEnabled }

func (SetName) isFieldUpdate()                 {}
func (SetPrice) isFieldUpdate()                {}
func (SetComment) isFieldUpdate()              {}
func (SetStartDate) isFieldUpdate()            {}
func (SetPeriod) isFieldUpdate()               {}
func (SetStatus) isFieldUpdate()               {}
func (SetNotificationTime) isFieldUpdate()     {}
func (SetNotificationsEnabled) isFieldUpdate() {}

// assignment maps an update to its column and bind value.
func assignment(u FieldUpdate) (string, any, error) {
	switch v := u.(type) {
	case SetName:
		return "name", v.Name, nil
	case SetPrice:
		return "price", v.Price, nil
	case SetComment:
		return "comment", v.Comment, nil
	case SetStartDate:
		return "start_date", calendar.Date(v.StartDate), nil
	case SetPeriod:
		return "period", string(v.Period), nil
	case SetStatus:
		return "status", string(v.Status), nil
	case SetNotificationTime:
		return "notification_time", v.Time, nil
	case SetNotificationsEnabled:
		return "notifications_enabled", v.Enabled, nil
	default:
		return "", nil, fmt.Errorf("unsupported field update %T", u)
	}
}

// Apply copies the updates onto s.
func Apply(s *Subscription, updates ...FieldUpdate) {
	for _, u := range updates {
		switch v := u.(type) {
		case SetName:
			s.Name = v.Name
		case SetPrice:
			s.Price = v.Price
		case SetComment:
			s.Comment = v.Comment
		case SetStartDate:
			s.StartDate = calendar.Date(v.StartDate)
		case SetPeriod:
			s.Period = v.Period
		case SetStatus:
			s.Status = v.Status
		case SetNotificationTime:
			s.NotificationTime = v.Time
		case SetNotificationsEnabled:
			s.NotificationsEnabled = v.Enabled
		}
	}
}

// ParseUpdate validates raw text input for a free-text field.
// Period, status and notification toggles come from keyboards and use their own parsers.
func ParseUpdate(field Field, raw string) (FieldUpdate, error) {
	switch field {
	case FieldName:
		name, err := ParseName(raw)
		if err != nil {
			return nil, err
		}
		return SetName{Name: name}, nil
	case FieldPrice:
		price, err := ParsePrice(raw)
		if err != nil {
			return nil, err
		}
		return SetPrice{Price: price}, nil
	case FieldComment:
		return SetComment{Comment: ParseComment(raw)}, nil
	case FieldStartDate:
		d, err := ParseStartDate(raw)
		if err != nil {
			return nil, err
		}
		return SetStartDate{StartDate: d}, nil
	case FieldPeriod:
		p, err := calendar.ParsePeriod(raw)
		if err != nil {
			return nil, &ValidationError{Field: "period", Msg: err.Error()}
		}
		return SetPeriod{Period: p}, nil
	case FieldStatus:
		st, err := ParseStatus(raw)
		if err != nil {
			return nil, err
		}
		return SetStatus{Status: st}, nil
	case FieldNotificationTime:
		t, err := ParseNotificationTime(raw)
		if err != nil {
			return nil, err
		}
		return SetNotificationTime{Time: t}, nil
	default:
		return nil, &ValidationError{Field: string(field), Msg: "field is not editable as text"}
	}
}
