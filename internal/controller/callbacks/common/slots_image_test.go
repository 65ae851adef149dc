package common

import (
	"bytes"
	"testing"
	"time"

	"github.com/Freeeeeet/blocks_bot/internal/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func day(d, h, m int) time.Time {
	return time.Date(2026, time.October, d, h, m, 0, 0, time.Local)
}

func scheduled(id int64, priority int, slots ...model.Slot) model.ScheduledTask {
	t := model.ScheduledTask{Slots: slots}
	t.ID = id
	t.Priority = priority
	return t
}

func TestWeekStart(t *testing.T) {
	tests := []struct {
		name   string
		date   time.Time
		offset int
		want   time.Time
	}{
		{"среда", day(21, 15, 30), 0, day(19, 0, 0)},
		{"воскресенье", day(25, 23, 0), 0, day(19, 0, 0)},
		{"следующая неделя", day(21, 0, 0), 1, day(26, 0, 0)},
		{"прошлая неделя", day(19, 0, 0), -1, day(12, 0, 0)},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.True(t, tt.want.Equal(WeekStart(tt.date, tt.offset)))
		})
	}
}

func TestCollectSlots(t *testing.T) {
	tasks := []model.ScheduledTask{
		scheduled(1, 3,
			model.Slot{ID: 1, StartsAt: "2026-10-21T10:00:00", EndsAt: "2026-10-21T12:00:00", Priority: 0, SectionID: 7},
			model.Slot{ID: 2, StartsAt: "2026-10-28T10:00:00", EndsAt: "2026-10-28T12:00:00"},
		),
		scheduled(2, 1,
			model.Slot{ID: 3, StartsAt: "завтра", EndsAt: "2026-10-21T12:00:00"},
			model.Slot{ID: 4, StartsAt: "2026-10-22T12:00:00", EndsAt: "2026-10-22T11:00:00"},
			model.Slot{ID: 5, StartsAt: "2026-10-20T22:00:00", EndsAt: "2026-10-21T02:00:00", Priority: 2},
		),
	}

	slots, skipped := collectSlots(tasks, normalizeToWeekBounds(day(19, 0, 0)))

	assert.Equal(t, 2, skipped)
	require.Len(t, slots, 2)

	// отсортированы по началу
	assert.Equal(t, int64(2), slots[0].taskID)
	assert.Equal(t, 2, slots[0].priority)
	assert.True(t, day(21, 0, 0).Equal(slots[0].end), "слот через полночь обрезается концом дня")

	assert.Equal(t, int64(1), slots[1].taskID)
	assert.Equal(t, 3, slots[1].priority, "без приоритета слота берётся приоритет задачи")
	assert.Equal(t, int64(7), slots[1].sectionID)
}

func TestAssignLanes(t *testing.T) {
	slots := []blockSlot{
		{start: day(21, 8, 0), end: day(21, 10, 0)},
		{start: day(21, 9, 0), end: day(21, 11, 0)},
		{start: day(21, 10, 0), end: day(21, 12, 0)},
		{start: day(21, 9, 30), end: day(21, 9, 45)},
	}
	assert.Equal(t, []int{0, 1, 0, 2}, assignLanes(slots))
}

func TestPriorityColor(t *testing.T) {
	assert.Equal(t, slotPriorityColors[0], priorityColor(1))
	assert.Equal(t, slotPriorityColors[2], priorityColor(3))
	assert.Equal(t, slotPriorityColors[3], priorityColor(42))
	assert.Equal(t, slotPriorityColors[3], priorityColor(0))
}

func TestCalculateHourRange(t *testing.T) {
	empty := calculateHourRange(nil)
	assert.Equal(t, hourRange{start: 0, end: 23, total: 24}, empty)

	r := calculateHourRange([]blockSlot{{start: day(21, 9, 0), end: day(21, 11, 30)}})
	assert.Equal(t, hourRange{start: 8, end: 13, total: 6}, r)
}

func TestGenerateSlotsWeekImage(t *testing.T) {
	tasks := []model.ScheduledTask{
		scheduled(1, 1,
			model.Slot{ID: 1, StartsAt: "2026-10-21T10:00:00", EndsAt: "2026-10-21T12:00:00"},
			model.Slot{ID: 2, StartsAt: "", EndsAt: ""},
		),
	}

	data, skipped, err := GenerateSlotsWeekImage(day(19, 0, 0), tasks, day(21, 11, 0))
	require.NoError(t, err)
	assert.Equal(t, 1, skipped)
	assert.True(t, bytes.HasPrefix(data, []byte("\x89PNG")))
}
