package api

import (
	"fmt"

	"github.com/Freeeeeet/blocks_bot/internal/duration"
	"github.com/Freeeeeet/blocks_bot/internal/model"
	"github.com/go-playground/validator/v10"
)

// Схемы ответов сервера. Указатели нужны, чтобы отличить отсутствующий ключ от нулевого значения.

type wireTask struct {
	ID           *int64  `json:"id" validate:"required,gt=0"`
	Department   *string `json:"department" validate:"required,min=1"`
	DEN          *string `json:"den" validate:"required,min=1"`
	NatureOfWork *string `json:"nature_of_work" validate:"required,min=1"`
	Block        *string `json:"block" validate:"required,min=1"`
	Location     *string `json:"location" validate:"required,min=1"`

	PreferredStartsAt *string `json:"preferred_starts_at" validate:"required,min=1"`
	PreferredEndsAt   *string `json:"preferred_ends_at" validate:"required,min=1"`

	RequestedDate     *string `json:"requested_date" validate:"required,min=1"`
	RequestedDuration *string `json:"requested_duration" validate:"required"`

	Priority  *int   `json:"priority" validate:"required,gt=0"`
	SectionID *int64 `json:"section_id" validate:"required,gt=0"`
}

type wireSlot struct {
	ID        *int64  `json:"id" validate:"required"`
	StartsAt  *string `json:"starts_at" validate:"required"`
	EndsAt    *string `json:"ends_at" validate:"required"`
	Priority  int     `json:"priority"`
	SectionID *int64  `json:"section_id" validate:"required"`
	TaskID    *int64  `json:"task_id"`
	TrainID   *int64  `json:"train_id"`
}

type wireScheduledTask struct {
	wireTask
	Slots []wireSlot `json:"slots" validate:"required,dive"`
}

func checkShape(v *validator.Validate, what string, s any) error {
	if err := v.Struct(s); err != nil {
		return shapeError(what, err)
	}
	return nil
}

// toModel переводит заявку в модель. Ошибка длительности не прерывает работу,
// а сохраняется в DurationErr: вызывающий решает, фатальна ли она.
func (w *wireTask) toModel() model.RequestedTask {
	task := model.RequestedTask{
		ID: *w.ID,
		PartialRequestedTask: model.PartialRequestedTask{
			Department:        *w.Department,
			DEN:               *w.DEN,
			NatureOfWork:      *w.NatureOfWork,
			Block:             *w.Block,
			Location:          *w.Location,
			PreferredStartsAt: *w.PreferredStartsAt,
			PreferredEndsAt:   *w.PreferredEndsAt,
			RequestedDate:     *w.RequestedDate,
			Priority:          *w.Priority,
			SectionID:         *w.SectionID,
		},
	}

	minutes, err := duration.Decode(*w.RequestedDuration)
	if err != nil {
		task.DurationErr = fmt.Errorf("task %d: %w", task.ID, err)
		return task
	}
	task.RequestedDuration = duration.Minutes(minutes)
	return task
}

func (w *wireSlot) toModel() model.Slot {
	return model.Slot{
		ID:        *w.ID,
		StartsAt:  *w.StartsAt,
		EndsAt:    *w.EndsAt,
		Priority:  w.Priority,
		SectionID: *w.SectionID,
		TaskID:    w.TaskID,
		TrainID:   w.TrainID,
	}
}

func (w *wireScheduledTask) toModel() model.ScheduledTask {
	task := model.ScheduledTask{
		RequestedTask: w.wireTask.toModel(),
		Slots:         make([]model.Slot, 0, len(w.Slots)),
	}
	for i := range w.Slots {
		task.Slots = append(task.Slots, w.Slots[i].toModel())
	}
	return task
}
