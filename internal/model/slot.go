package model

import (
	"fmt"
	"time"
)

// Slot - интервал времени на секции, назначенный задаче или поезду.
// Слоты принадлежат серверу планирования, бот их только показывает.
type Slot struct {
	ID        int64  `json:"id"`
	StartsAt  string `json:"starts_at"`
	EndsAt    string `json:"ends_at"`
	Priority  int    `json:"priority"`
	SectionID int64  `json:"section_id"`
	TaskID    *int64 `json:"task_id"`  // указатель - может быть nil
	TrainID   *int64 `json:"train_id"` // указатель - может быть nil
}

// Сервер отдаёт время как с зоной, так и без неё
var slotTimeLayouts = []string{
	time.RFC3339Nano,
	"2006-01-02T15:04:05",
	"2006-01-02 15:04:05",
	"2006-01-02T15:04",
}

// ParseSlotTime разбирает временную метку слота
func ParseSlotTime(s string) (time.Time, error) {
	for _, layout := range slotTimeLayouts {
		if t, err := time.ParseInLocation(layout, s, time.Local); err == nil {
			return t, nil
		}
	}
	return time.Time{}, fmt.Errorf("parse slot time %q: unknown layout", s)
}

// Start возвращает начало слота
func (s *Slot) Start() (time.Time, error) {
	return ParseSlotTime(s.StartsAt)
}

// End возвращает конец слота
func (s *Slot) End() (time.Time, error) {
	return ParseSlotTime(s.EndsAt)
}
