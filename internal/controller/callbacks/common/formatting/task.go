package formatting

import (
	"fmt"
	"html"
	"strings"

	"github.com/Freeeeeet/blocks_bot/internal/model"
)

// FormatSlot форматирует слот: "01.03 08:00-09:30 · секция 4"
func FormatSlot(slot model.Slot) string {
	start, errStart := slot.Start()
	end, errEnd := slot.End()
	if errStart != nil || errEnd != nil {
		return fmt.Sprintf("%s - %s · секция %d", slot.StartsAt, slot.EndsAt, slot.SectionID)
	}

	if start.Format("2006-01-02") == end.Format("2006-01-02") {
		return fmt.Sprintf("%s %s · секция %d", start.Format("02.01"), FormatTimeRange(start, end), slot.SectionID)
	}
	return fmt.Sprintf("%s - %s · секция %d", start.Format("02.01 15:04"), end.Format("02.01 15:04"), slot.SectionID)
}

// FormatTaskDetails форматирует заявку целиком для экранов подтверждения
func FormatTaskDetails(task model.RequestedTask) string {
	durationText := FormatDuration(int(task.RequestedDuration))
	if task.HasDurationError() {
		durationText = "⚠️ не удалось разобрать"
	}

	lines := []string{
		fmt.Sprintf("<b>Заявка #%d</b>", task.ID),
		"🏢 Отдел: " + html.EscapeString(task.Department),
		"🧭 DEN: " + html.EscapeString(task.DEN),
		"🛠 Характер работ: " + html.EscapeString(task.NatureOfWork),
		"🧱 Блок: " + html.EscapeString(task.Block),
		"📍 Место: " + html.EscapeString(task.Location),
		fmt.Sprintf("🔢 Секция: %d", task.SectionID),
		"📅 Дата: " + html.EscapeString(task.RequestedDate),
		fmt.Sprintf("🕒 Окно: %s - %s", html.EscapeString(task.PreferredStartsAt), html.EscapeString(task.PreferredEndsAt)),
		"⏱ Длительность: " + durationText,
		fmt.Sprintf("⭐ Приоритет: %d", task.Priority),
	}
	return strings.Join(lines, "\n")
}
