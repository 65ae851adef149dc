package common

import (
	"errors"
	"fmt"
	"sort"
	"strings"

	"github.com/Freeeeeet/blocks_bot/internal/api"
	"github.com/Freeeeeet/blocks_bot/internal/duration"
	"github.com/Freeeeeet/blocks_bot/internal/form"
	"github.com/Freeeeeet/blocks_bot/internal/service"
	"github.com/Freeeeeet/blocks_bot/internal/table"
)

// Общие ошибки для обработчиков
var (
	ErrUserNotFound  = errors.New("user not found")
	ErrNoMessage     = errors.New("no message in callback")
	ErrInvalidFormat = errors.New("invalid callback format")
	ErrNeedOneRow    = errors.New("exactly one row must be selected")
	ErrTaskNotFound  = errors.New("task not found in table")
)

// ErrorMessage возвращает пользовательское сообщение для ошибки
func ErrorMessage(err error) string {
	var (
		transportErr  *api.TransportError
		validationErr *form.ValidationError
	)

	switch {
	case errors.Is(err, ErrUserNotFound):
		return "❌ Пользователь не найден. Используйте /start"
	case errors.Is(err, ErrNoMessage):
		return "❌ Ошибка обработки сообщения"
	case errors.Is(err, ErrInvalidFormat):
		return "❌ Неверный формат данных"
	case errors.Is(err, ErrNeedOneRow):
		return "❌ Выберите ровно одну заявку"
	case errors.Is(err, ErrTaskNotFound):
		return "❌ Заявка не найдена, обновите таблицу"
	case errors.As(err, &validationErr):
		return ValidationText(validationErr)
	case errors.Is(err, form.ErrBusy):
		return "⏳ Заявка уже отправляется"
	case errors.Is(err, service.ErrInvalidPriority):
		return "❌ Приоритет должен быть целым числом больше нуля"
	case errors.Is(err, table.ErrEmptySelection):
		return "❌ Ничего не выбрано"
	case errors.Is(err, table.ErrNotSortable):
		return "❌ По этой колонке нельзя сортировать"
	case errors.Is(err, table.ErrNotHideable):
		return "❌ Эту колонку нельзя скрыть"
	case errors.Is(err, table.ErrUnknownColumn):
		return "❌ Неизвестная колонка"
	case errors.Is(err, table.ErrRowOutOfRange):
		return "❌ Строка не найдена, обновите таблицу"
	case errors.Is(err, api.ErrShapeMismatch):
		return "❌ Сервер планирования вернул неожиданный ответ"
	case errors.As(err, &transportErr):
		if transportErr.StatusCode > 0 {
			return fmt.Sprintf("❌ Сервер планирования ответил ошибкой (HTTP %d)", transportErr.StatusCode)
		}
		return "❌ Сервер планирования недоступен"
	case errors.Is(err, duration.ErrFormat):
		return "❌ Сервер прислал неверную длительность"
	default:
		return "❌ Произошла ошибка"
	}
}

// ValidationText собирает сообщения по всем неверным полям формы
func ValidationText(err *form.ValidationError) string {
	lines := make([]string, 0, len(err.Fields))
	for _, f := range form.Fields {
		if msg, ok := err.Fields[f.Key]; ok {
			lines = append(lines, "• "+msg)
		}
	}

	// поля вне формы, если появятся
	var rest []string
	for key, msg := range err.Fields {
		if _, ok := form.FieldByKey(key); !ok {
			rest = append(rest, "• "+msg)
		}
	}
	sort.Strings(rest)
	lines = append(lines, rest...)

	return "❌ Проверьте поля:\n" + strings.Join(lines, "\n")
}
