package tasks

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"github.com/Freeeeeet/blocks_bot/internal/controller/callbacks/callbacktypes"
	"github.com/Freeeeeet/blocks_bot/internal/controller/callbacks/common"
	"github.com/Freeeeeet/blocks_bot/internal/controller/callbacks/common/formatting"
	"github.com/Freeeeeet/blocks_bot/internal/controller/callbacks/common/keyboard"
	"github.com/Freeeeeet/blocks_bot/internal/controller/state"
	"github.com/Freeeeeet/blocks_bot/internal/model"
	"github.com/Freeeeeet/blocks_bot/internal/service"
	"github.com/Freeeeeet/blocks_bot/internal/table"
	"github.com/go-telegram/bot/models"
	"go.uber.org/zap"
)

// handlePriorityStart просит ввести новый приоритет единственной выбранной заявки
func handlePriorityStart(hc *common.HandlerContext) {
	tb := hc.Session().Requested

	ids := tb.SelectedIDs()
	if len(ids) != 1 {
		hc.AnswerAlert(common.ErrorMessage(common.ErrNeedOneRow))
		return
	}

	task, ok := findTask(tb, ids[0])
	if !ok {
		hc.AnswerAlert(common.ErrorMessage(common.ErrTaskNotFound))
		return
	}
	if task.HasDurationError() {
		hc.AnswerAlert("❌ У заявки неверная длительность, её нельзя изменить")
		return
	}

	hc.ClearState()
	hc.SetState(state.StateEditPriority)
	hc.SetData(state.KeyTaskID, task.ID)

	text := fmt.Sprintf("%s\n\n%s\n\n🔢 Отправьте новый приоритет (целое число больше нуля) или /cancel",
		common.RouteBreadcrumbs(common.PathSchedule, "Приоритет"),
		formatting.FormatTaskDetails(task),
	)
	kb := keyboard.NewBuilder().AddBackButton("tbl:requested:view").Build()

	if err := hc.EditMessage(text, kb); err != nil {
		common.HandleError(hc, err, "priority_prompt")
		return
	}
	hc.Answer("")
}

func findTask(tb *table.Table[model.RequestedTask], id int64) (model.RequestedTask, bool) {
	for _, t := range tb.Rows() {
		if t.ID == id {
			return t, true
		}
	}
	return model.RequestedTask{}, false
}

// FilterInput применяет текст фильтра, введённый сообщением, и возвращает экран таблицы
func FilterInput(ctx context.Context, h *callbacktypes.Handler, user *model.User, telegramID int64, text string) (string, *models.InlineKeyboardMarkup, error) {
	rawKind, _ := h.StateManager.GetData(telegramID, state.KeyTableKind)
	rawColumn, _ := h.StateManager.GetData(telegramID, state.KeyFilterColumn)
	kind, _ := rawKind.(model.TableKind)
	column, _ := rawColumn.(string)

	sess := h.StateManager.Session(telegramID)
	switch kind {
	case model.TableRequested:
		return applyFilter(ctx, h, user, requestedKind(), sess, column, text)
	case model.TableScheduled:
		return applyFilter(ctx, h, user, scheduledKind(), sess, column, text)
	default:
		return "", nil, common.ErrInvalidFormat
	}
}

func applyFilter[T any](ctx context.Context, h *callbacktypes.Handler, user *model.User, k tableKind[T], sess *state.Session, column, text string) (string, *models.InlineKeyboardMarkup, error) {
	scr := k.screen(sess)
	if err := scr.Table.SetFilter(column, text); err != nil {
		return "", nil, err
	}

	saveView(ctx, h, user.ID, k, scr.Table)

	screenText, kb := scr.Build()
	return screenText, kb, nil
}

// PriorityInput меняет приоритет заявки и возвращает обновлённую таблицу заявок
func PriorityInput(ctx context.Context, h *callbacktypes.Handler, user *model.User, telegramID int64, text string) (string, *models.InlineKeyboardMarkup, error) {
	priority, err := strconv.Atoi(strings.TrimSpace(text))
	if err != nil || priority <= 0 {
		return "", nil, service.ErrInvalidPriority
	}

	rawID, _ := h.StateManager.GetData(telegramID, state.KeyTaskID)
	id, ok := rawID.(int64)
	if !ok {
		return "", nil, common.ErrTaskNotFound
	}

	sess := h.StateManager.Session(telegramID)
	task, ok := findTask(sess.Requested, id)
	if !ok {
		return "", nil, common.ErrTaskNotFound
	}

	if _, err := h.TaskService.ForOperator(user.ID).UpdatePriority(ctx, task, priority); err != nil {
		return "", nil, err
	}

	h.Logger.Info("Task priority updated",
		zap.Int64("user_id", user.ID),
		zap.Int64("task_id", id),
		zap.Int("priority", priority))

	if err := newWorkflow(h, user.ID, requestedKind(), sess.Requested).Reload(ctx); err != nil {
		h.Logger.Warn("Reload after priority update failed", zap.Error(err))
	}

	screenText, kb := requestedScreen(sess).Build()
	return screenText, kb, nil
}
