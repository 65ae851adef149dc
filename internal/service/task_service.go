package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/Freeeeeet/blocks_bot/internal/api"
	"github.com/Freeeeeet/blocks_bot/internal/model"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// ErrInvalidPriority - приоритет должен быть положительным
var ErrInvalidPriority = errors.New("priority must be positive")

// TaskAPI - операции сервера планирования, которыми пользуется бот
type TaskAPI interface {
	GetRequestedTasks(ctx context.Context) ([]model.RequestedTask, error)
	GetScheduledTasks(ctx context.Context) ([]model.ScheduledTask, error)
	ScheduleTasks(ctx context.Context, ids []int64) (*api.ScheduleResult, error)
	RequestTask(ctx context.Context, task model.PartialRequestedTask) (*model.RequestedTask, error)
	UpdateTask(ctx context.Context, task model.RequestedTask) (*model.RequestedTask, error)
	DeleteTask(ctx context.Context, id int64) (*model.RequestedTask, error)
}

// ActionJournal сохраняет записи о действиях операторов
type ActionJournal interface {
	CreateBatch(ctx context.Context, records []*model.ActionRecord) error
	ListByUser(ctx context.Context, userID int64, limit int) ([]*model.ActionRecord, error)
}

// TaskService связывает API сервера планирования с журналом действий
type TaskService struct {
	api     TaskAPI
	journal ActionJournal
	logger  *zap.Logger
}

func NewTaskService(taskAPI TaskAPI, journal ActionJournal, logger *zap.Logger) *TaskService {
	return &TaskService{
		api:     taskAPI,
		journal: journal,
		logger:  logger,
	}
}

// RequestedTasks загружает заявки, ожидающие планирования
func (s *TaskService) RequestedTasks(ctx context.Context) ([]model.RequestedTask, error) {
	return s.api.GetRequestedTasks(ctx)
}

// ScheduledTasks загружает запланированные задачи со слотами
func (s *TaskService) ScheduledTasks(ctx context.Context) ([]model.ScheduledTask, error) {
	return s.api.GetScheduledTasks(ctx)
}

// History возвращает последние действия оператора
func (s *TaskService) History(ctx context.Context, userID int64, limit int) ([]*model.ActionRecord, error) {
	records, err := s.journal.ListByUser(ctx, userID, limit)
	if err != nil {
		return nil, fmt.Errorf("get history: %w", err)
	}
	return records, nil
}

// ForOperator возвращает набор действий от имени оператора.
// Все записи журнала, сделанные через него, получают общий correlation id.
func (s *TaskService) ForOperator(userID int64) *OperatorActions {
	return &OperatorActions{
		service:       s,
		userID:        userID,
		correlationID: uuid.New(),
	}
}

// OperatorActions - изменяющие действия одного оператора в рамках одного запроса
type OperatorActions struct {
	service       *TaskService
	userID        int64
	correlationID uuid.UUID
}

// CorrelationID - идентификатор, общий для записей журнала этого действия
func (o *OperatorActions) CorrelationID() uuid.UUID {
	return o.correlationID
}

// RequestTask отправляет новую заявку
func (o *OperatorActions) RequestTask(ctx context.Context, task model.PartialRequestedTask) (*model.RequestedTask, error) {
	created, err := o.service.api.RequestTask(ctx, task)

	var ids []int64
	if created != nil {
		ids = []int64{created.ID}
	}
	o.record(ctx, model.ActionRequest, ids, err)

	if err != nil {
		return nil, fmt.Errorf("request task: %w", err)
	}
	return created, nil
}

// UpdatePriority меняет приоритет существующей заявки
func (o *OperatorActions) UpdatePriority(ctx context.Context, task model.RequestedTask, priority int) (*model.RequestedTask, error) {
	if priority <= 0 {
		return nil, fmt.Errorf("%w, got %d", ErrInvalidPriority, priority)
	}
	if task.HasDurationError() {
		return nil, fmt.Errorf("task %d: %w", task.ID, task.DurationErr)
	}

	task.Priority = priority
	updated, err := o.service.api.UpdateTask(ctx, task)
	o.record(ctx, model.ActionUpdate, []int64{task.ID}, err)

	if err != nil {
		return nil, fmt.Errorf("update task %d: %w", task.ID, err)
	}
	return updated, nil
}

// Schedule передаёт выбранные заявки на планирование и возвращает ответ сервера
func (o *OperatorActions) Schedule(ctx context.Context, ids []int64) (string, error) {
	result, err := o.service.api.ScheduleTasks(ctx, ids)
	o.record(ctx, model.ActionSchedule, ids, err)

	if err != nil {
		return "", err
	}
	return result.Text(), nil
}

// Delete удаляет одну заявку
func (o *OperatorActions) Delete(ctx context.Context, id int64) error {
	_, err := o.service.api.DeleteTask(ctx, id)
	o.record(ctx, model.ActionDelete, []int64{id}, err)

	if err != nil {
		return fmt.Errorf("delete task %d: %w", id, err)
	}
	return nil
}

// record пишет запись в журнал. Сбой журнала не отменяет уже выполненное действие.
func (o *OperatorActions) record(ctx context.Context, action model.ActionKind, ids []int64, actionErr error) {
	rec := &model.ActionRecord{
		CorrelationID: o.correlationID,
		UserID:        o.userID,
		Action:        action,
		TaskIDs:       ids,
		Success:       actionErr == nil,
	}
	if actionErr != nil {
		rec.Error = actionErr.Error()
	}

	logger := o.service.logger.With(
		zap.String("correlation_id", o.correlationID.String()),
		zap.Int64("user_id", o.userID),
		zap.String("action", string(action)),
		zap.Int64s("task_ids", ids),
	)

	if err := o.service.journal.CreateBatch(ctx, []*model.ActionRecord{rec}); err != nil {
		logger.Warn("Failed to write action journal", zap.Error(err))
	}

	if actionErr != nil {
		logger.Warn("Action failed", zap.Error(actionErr))
		return
	}
	logger.Info("Action completed")
}
