package table

import (
	"fmt"
	"strconv"

	"github.com/Freeeeeet/blocks_bot/internal/model"
)

// Идентификаторы колонок
const (
	ColID                = "id"
	ColRequestedDate     = "requested_date"
	ColStart             = "start"
	ColEnd               = "end"
	ColPriority          = "priority"
	ColDuration          = "requested_duration"
	ColDepartment        = "department"
	ColDEN               = "den"
	ColNatureOfWork      = "nature_of_work"
	ColBlock             = "block"
	ColSectionID         = "section_id"
	ColLocation          = "location"
	ColPreferredStartsAt = "preferred_starts_at"
	ColPreferredEndsAt   = "preferred_ends_at"
)

// NoValue выводится вместо отсутствующего значения
const NoValue = "—"

// TaskID - ID заявки для выбора строк
func TaskID(t model.RequestedTask) int64 { return t.ID }

// ScheduledTaskID - ID запланированной задачи
func ScheduledTaskID(t model.ScheduledTask) int64 { return t.ID }

func durationText(t model.RequestedTask) string {
	if t.HasDurationError() {
		return "⚠️ ошибка"
	}
	m := int(t.RequestedDuration)
	if m < 60 {
		return fmt.Sprintf("%d мин", m)
	}
	if m%60 == 0 {
		return fmt.Sprintf("%d ч", m/60)
	}
	return fmt.Sprintf("%d ч %d мин", m/60, m%60)
}

// RequestedColumns - колонки таблицы заявок
func RequestedColumns() []Column[model.RequestedTask] {
	return []Column[model.RequestedTask]{
		{
			ID: ColID, Title: "ID", Sortable: true,
			Value: func(t model.RequestedTask) string { return strconv.FormatInt(t.ID, 10) },
			Less:  func(a, b model.RequestedTask) bool { return a.ID < b.ID },
		},
		{
			ID: ColRequestedDate, Title: "Дата", Sortable: true, Hideable: true,
			Value: func(t model.RequestedTask) string { return t.RequestedDate },
		},
		{
			ID: ColPriority, Title: "Приоритет", Sortable: true, Hideable: true,
			Value: func(t model.RequestedTask) string { return strconv.Itoa(t.Priority) },
			Less:  func(a, b model.RequestedTask) bool { return a.Priority < b.Priority },
		},
		{
			ID: ColDuration, Title: "Длительность", Sortable: true, Hideable: true,
			Value: durationText,
			Less:  func(a, b model.RequestedTask) bool { return a.RequestedDuration < b.RequestedDuration },
		},
		{
			ID: ColDepartment, Title: "Отдел", Hideable: true,
			Value: func(t model.RequestedTask) string { return t.Department },
		},
		{
			ID: ColDEN, Title: "DEN", Hideable: true,
			Value: func(t model.RequestedTask) string { return t.DEN },
		},
		{
			ID: ColNatureOfWork, Title: "Характер работ", Hideable: true,
			Value: func(t model.RequestedTask) string { return t.NatureOfWork },
		},
		{
			ID: ColBlock, Title: "Блок", Hideable: true,
			Value: func(t model.RequestedTask) string { return t.Block },
		},
		{
			ID: ColSectionID, Title: "ID секции", Hideable: true,
			Value: func(t model.RequestedTask) string { return strconv.FormatInt(t.SectionID, 10) },
		},
		{
			ID: ColLocation, Title: "Место", Hideable: true,
			Value: func(t model.RequestedTask) string { return t.Location },
		},
		{
			ID: ColPreferredStartsAt, Title: "Желаемое начало", Hideable: true,
			Value: func(t model.RequestedTask) string { return t.PreferredStartsAt },
		},
		{
			ID: ColPreferredEndsAt, Title: "Желаемый конец", Hideable: true,
			Value: func(t model.RequestedTask) string { return t.PreferredEndsAt },
		},
	}
}

// lift переносит колонку заявки на запланированную задачу
func lift(c Column[model.RequestedTask]) Column[model.ScheduledTask] {
	out := Column[model.ScheduledTask]{
		ID:       c.ID,
		Title:    c.Title,
		Sortable: c.Sortable,
		Hideable: c.Hideable,
		Value:    func(t model.ScheduledTask) string { return c.Value(t.RequestedTask) },
	}
	if c.Less != nil {
		out.Less = func(a, b model.ScheduledTask) bool { return c.Less(a.RequestedTask, b.RequestedTask) }
	}
	return out
}

// ScheduledColumns - колонки таблицы запланированных задач.
// Начало и конец берутся из первого назначенного слота.
func ScheduledColumns() []Column[model.ScheduledTask] {
	requested := RequestedColumns()
	out := make([]Column[model.ScheduledTask], 0, len(requested)+2)

	for _, c := range requested {
		out = append(out, lift(c))
		if c.ID == ColRequestedDate {
			out = append(out,
				Column[model.ScheduledTask]{
					ID: ColStart, Title: "Начало", Hideable: true,
					Value: func(t model.ScheduledTask) string {
						if s := t.FirstSlot(); s != nil {
							return s.StartsAt
						}
						return NoValue
					},
				},
				Column[model.ScheduledTask]{
					ID: ColEnd, Title: "Конец", Hideable: true,
					Value: func(t model.ScheduledTask) string {
						if s := t.FirstSlot(); s != nil {
							return s.EndsAt
						}
						return NoValue
					},
				},
			)
		}
	}
	return out
}
