package model

import "github.com/Freeeeeet/blocks_bot/internal/duration"

// PartialRequestedTask - заявка на окно до того, как сервер присвоил ей ID
type PartialRequestedTask struct {
	Department   string `json:"department"`
	DEN          string `json:"den"`
	NatureOfWork string `json:"nature_of_work"`
	Block        string `json:"block"`
	Location     string `json:"location"`

	PreferredStartsAt string `json:"preferred_starts_at"` // HH:MM:SS
	PreferredEndsAt   string `json:"preferred_ends_at"`   // HH:MM:SS

	RequestedDate     string           `json:"requested_date"`     // YYYY-MM-DD
	RequestedDuration duration.Minutes `json:"requested_duration"` // минуты, на проводе ISO 8601

	Priority  int   `json:"priority"`
	SectionID int64 `json:"section_id"`
}

type RequestedTask struct {
	ID int64 `json:"id"`
	PartialRequestedTask

	// DurationErr заполняется, если сервер прислал неразборчивую длительность.
	// Строка остаётся в списке и показывается как ошибочная.
	DurationErr error `json:"-"`
}

// HasDurationError сообщает, что длительность строки не удалось разобрать
func (t *RequestedTask) HasDurationError() bool {
	return t.DurationErr != nil
}

// ScheduledTask - заявка вместе с назначенными ей слотами
type ScheduledTask struct {
	RequestedTask
	Slots []Slot `json:"slots"`
}

// FirstSlot возвращает первый назначенный слот или nil
func (t *ScheduledTask) FirstSlot() *Slot {
	if len(t.Slots) == 0 {
		return nil
	}
	return &t.Slots[0]
}
