package conversation

import (
	"errors"
	"fmt"
	"html"

	"github.com/develop-mdv/subscriptions-tg-bot/internal/subscription"
)

const (
	cancelHint   = "<i>Для отмены используйте /cancel или кнопку ниже.</i>"
	datePrompt   = "Введите дату начала подписки в формате ГГГГ-ММ-ДД:"
	dateExamples = "Примеры: 2024-06-01, 01.06.2024, 1.6.24, 01/06/2024, 01-06-2024"
)

var fieldAccusative = map[subscription.Field]string{
	subscription.FieldName:             "название",
	subscription.FieldPrice:            "цену",
	subscription.FieldComment:          "комментарий",
	subscription.FieldStartDate:        "дату начала",
	subscription.FieldPeriod:           "периодичность",
	subscription.FieldStatus:           "статус",
	subscription.FieldNotificationTime: "время уведомлений",
}

// Prompt is the question shown for the session's current state.
func (s *Session) Prompt() string {
	switch s.State {
	case AwaitingName:
		return "📝 <b>Добавление новой подписки</b>\n\nВведите название подписки:"
	case AwaitingPrice:
		return fmt.Sprintf("✅ Название: <b>%s</b>\n\nТеперь введите цену подписки (только число):\n%s",
			html.EscapeString(s.Draft.Name), cancelHint)
	case AwaitingComment:
		return fmt.Sprintf("✅ Цена: <b>%s ₽</b>\n\nВведите комментарий к подписке (или отправьте '%s' для пропуска):\n%s",
			s.Draft.Price.StringFixed(2), subscription.CommentNone, cancelHint)
	case AwaitingDate:
		comment := s.Draft.Comment
		if comment == "" {
			comment = "не указан"
		}
		return fmt.Sprintf("✅ Комментарий: <b>%s</b>\n\n%s\n%s", html.EscapeString(comment), datePrompt, cancelHint)
	case AwaitingPeriod:
		return fmt.Sprintf("✅ Дата начала: <b>%s</b>\n\nВыберите периодичность подписки:\n%s", s.Draft.StartDate, cancelHint)
	case AwaitingFieldSelection:
		return "Выберите, что хотите изменить:"
	case AwaitingNewValue:
		switch s.Field {
		case subscription.FieldPeriod:
			return "Выберите новую периодичность:"
		case subscription.FieldStatus:
			return "Выберите новый статус:"
		case subscription.FieldNotificationTime:
			return "Выберите время уведомлений или введите его в формате ЧЧ:ММ:"
		}
		return fmt.Sprintf("Введите новое значение для поля: <b>%s</b>", fieldAccusative[s.Field])
	}
	return ""
}

// Rejection is the re-prompt for an input that failed validation.
func Rejection(err error) string {
	var verr *subscription.ValidationError
	if !errors.As(err, &verr) {
		if errors.Is(err, ErrExpectedChoice) {
			return "❌ Пожалуйста, выберите вариант на клавиатуре."
		}
		return "❌ Не удалось обработать ввод. Попробуйте снова:"
	}

	switch verr.Field {
	case "name":
		return "❌ Название должно содержать от 2 до 255 символов. Попробуйте снова:"
	case "price":
		return "❌ Некорректная цена. Введите положительное число:"
	case "start_date":
		return "❌ Некорректная дата. " + dateExamples
	case "notification_time":
		return "❌ Некорректное время. Используйте формат ЧЧ:ММ, например 09:00"
	case "period":
		return "❌ Неизвестная периодичность. Выберите вариант на клавиатуре."
	case "status":
		return "❌ Неизвестный статус. Выберите вариант на клавиатуре."
	}
	return "❌ " + html.EscapeString(verr.Msg)
}
