package tasks

import (
	"context"
	"strconv"

	"github.com/Freeeeeet/blocks_bot/internal/controller/callbacks/callbacktypes"
	"github.com/Freeeeeet/blocks_bot/internal/controller/callbacks/common"
	"github.com/Freeeeeet/blocks_bot/internal/controller/callbacks/common/formatting"
	"github.com/Freeeeeet/blocks_bot/internal/controller/callbacks/common/keyboard"
	"github.com/Freeeeeet/blocks_bot/internal/controller/state"
	"github.com/Freeeeeet/blocks_bot/internal/model"
	"github.com/Freeeeeet/blocks_bot/internal/table"
	"github.com/go-telegram/bot/models"
)

// tableKind описывает одну из таблиц: экран, загрузку и собственные действия
type tableKind[T any] struct {
	kind   model.TableKind
	screen func(sess *state.Session) common.TableScreen[T]
	load   func(h *callbacktypes.Handler) table.LoaderFunc[T]
	// extra обрабатывает действия, которых нет у другой таблицы; false - действие неизвестно
	extra func(hc *common.HandlerContext, action string, args []string) bool
}

func requestedKind() tableKind[model.RequestedTask] {
	return tableKind[model.RequestedTask]{
		kind:   model.TableRequested,
		screen: requestedScreen,
		load: func(h *callbacktypes.Handler) table.LoaderFunc[model.RequestedTask] {
			return func(ctx context.Context) ([]model.RequestedTask, error) {
				return h.TaskService.RequestedTasks(ctx)
			}
		},
		extra: func(hc *common.HandlerContext, action string, args []string) bool {
			if action != "priority" {
				return false
			}
			handlePriorityStart(hc)
			return true
		},
	}
}

func scheduledKind() tableKind[model.ScheduledTask] {
	return tableKind[model.ScheduledTask]{
		kind:   model.TableScheduled,
		screen: scheduledScreen,
		load: func(h *callbacktypes.Handler) table.LoaderFunc[model.ScheduledTask] {
			return func(ctx context.Context) ([]model.ScheduledTask, error) {
				return h.TaskService.ScheduledTasks(ctx)
			}
		},
		extra: func(hc *common.HandlerContext, action string, args []string) bool {
			if action != "week" {
				return false
			}
			handleWeek(hc, args)
			return true
		},
	}
}

func requestedScreen(sess *state.Session) common.TableScreen[model.RequestedTask] {
	return common.TableScreen[model.RequestedTask]{
		Kind:    model.TableRequested,
		Path:    common.PathSchedule,
		Title:   "📋 Заявки к планированию",
		Table:   sess.Requested,
		ID:      table.TaskID,
		Errored: func(t model.RequestedTask) bool { return t.HasDurationError() },
		Actions: []models.InlineKeyboardButton{
			keyboard.Button("🔢 Приоритет", "tbl:requested:priority"),
		},
	}
}

func scheduledScreen(sess *state.Session) common.TableScreen[model.ScheduledTask] {
	return common.TableScreen[model.ScheduledTask]{
		Kind:  model.TableScheduled,
		Path:  common.PathScheduled,
		Title: "🗓 Запланированные задачи",
		Table: sess.Scheduled,
		ID:    table.ScheduledTaskID,
		Details: func(t model.ScheduledTask) []string {
			lines := make([]string, 0, len(t.Slots))
			for _, slot := range t.Slots {
				lines = append(lines, "🕒 "+formatting.FormatSlot(slot))
			}
			return lines
		},
		Errored: func(t model.ScheduledTask) bool { return t.HasDurationError() },
		Actions: []models.InlineKeyboardButton{
			keyboard.Button("🖼 Неделя", "tbl:scheduled:week:"+strconv.Itoa(sess.WeekOffset())),
		},
	}
}
