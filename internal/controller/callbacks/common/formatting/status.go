package formatting

import "github.com/Freeeeeet/blocks_bot/internal/model"

// ActionDisplay представляет отображение записи журнала
type ActionDisplay struct {
	Emoji string
	Text  string
}

// GetActionDisplay возвращает emoji и текст для вида действия
func GetActionDisplay(action model.ActionKind) ActionDisplay {
	displays := map[model.ActionKind]ActionDisplay{
		model.ActionRequest:  {"📝", "Заявка"},
		model.ActionUpdate:   {"✏️", "Изменение"},
		model.ActionSchedule: {"📅", "Планирование"},
		model.ActionDelete:   {"🗑", "Удаление"},
	}

	if display, ok := displays[action]; ok {
		return display
	}

	return ActionDisplay{"❓", "Неизвестно"}
}

// ResultEmoji - исход действия
func ResultEmoji(success bool) string {
	if success {
		return "✅"
	}
	return "❌"
}
