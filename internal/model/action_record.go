package model

import (
	"time"

	"github.com/google/uuid"
)

type ActionKind string

const (
	ActionRequest  ActionKind = "request"
	ActionUpdate   ActionKind = "update"
	ActionSchedule ActionKind = "schedule"
	ActionDelete   ActionKind = "delete"
)

// ActionRecord - запись журнала изменяющих действий оператора
type ActionRecord struct {
	ID            int64      `json:"id"`
	CorrelationID uuid.UUID  `json:"correlation_id"` // общий для всех записей одного массового действия
	UserID        int64      `json:"user_id"`
	Action        ActionKind `json:"action"`
	TaskIDs       []int64    `json:"task_ids"`
	Success       bool       `json:"success"`
	Error         string     `json:"error"`
	CreatedAt     time.Time  `json:"created_at"`
}
