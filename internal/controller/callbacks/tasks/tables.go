package tasks

import (
	"context"
	"errors"

	"github.com/Freeeeeet/blocks_bot/internal/controller/callbacks/callbacktypes"
	"github.com/Freeeeeet/blocks_bot/internal/controller/callbacks/common"
	"github.com/Freeeeeet/blocks_bot/internal/controller/state"
	"github.com/Freeeeeet/blocks_bot/internal/model"
	"github.com/Freeeeeet/blocks_bot/internal/table"
	"github.com/go-telegram/bot"
	"github.com/go-telegram/bot/models"
	"go.uber.org/zap"
)

// HandleTable обрабатывает все callback вида tbl:<kind>:<action>[:<arg>]
func HandleTable(ctx context.Context, b *bot.Bot, callback *models.CallbackQuery, h *callbacktypes.Handler) {
	common.WithUser(ctx, b, callback, h, func(hc *common.HandlerContext) {
		parts, err := common.SplitCallback(callback.Data, 3)
		if err != nil {
			common.HandleError(hc, err, "table_callback")
			return
		}

		switch model.TableKind(parts[1]) {
		case model.TableRequested:
			handleAction(hc, requestedKind(), parts[2], parts[3:])
		case model.TableScheduled:
			handleAction(hc, scheduledKind(), parts[2], parts[3:])
		default:
			common.HandleError(hc, common.ErrInvalidFormat, "table_callback")
		}
	})
}

// ensureView подтягивает сохранённые настройки таблицы при первом открытии за сессию
func ensureView[T any](ctx context.Context, h *callbacktypes.Handler, userID int64, k tableKind[T], sess *state.Session) {
	if !sess.MarkViewLoaded(k.kind) {
		return
	}

	view, err := h.ViewService.Load(ctx, userID, k.kind)
	if err != nil {
		h.Logger.Warn("Failed to load table view, using defaults",
			zap.Int64("user_id", userID),
			zap.String("kind", string(k.kind)),
			zap.Error(err))
	}
	k.screen(sess).Table.ApplyView(view)
}

// saveView сохраняет настройки таблицы; ошибка не мешает оператору работать
func saveView[T any](ctx context.Context, h *callbacktypes.Handler, userID int64, k tableKind[T], tb *table.Table[T]) {
	if err := h.ViewService.Save(ctx, userID, k.kind, tb.View()); err != nil {
		h.Logger.Warn("Failed to save table view",
			zap.Int64("user_id", userID),
			zap.String("kind", string(k.kind)),
			zap.Error(err))
	}
}

func newWorkflow[T any](h *callbacktypes.Handler, userID int64, k tableKind[T], tb *table.Table[T]) *table.Workflow[T] {
	return &table.Workflow[T]{
		Table:   tb,
		Backend: h.TaskService.ForOperator(userID),
		Loader:  k.load(h),
		OnItem: func(id int64, err error) {
			if err != nil {
				h.Logger.Warn("Failed to delete task",
					zap.Int64("task_id", id),
					zap.Error(err))
				return
			}
			h.Logger.Info("Task deleted", zap.Int64("task_id", id))
		},
	}
}

// Open загружает свежий снимок таблицы и возвращает её экран.
// При ошибке загрузки экран строится по прежнему снимку.
func Open(ctx context.Context, h *callbacktypes.Handler, userID, telegramID int64, kind model.TableKind) (string, *models.InlineKeyboardMarkup, error) {
	sess := h.StateManager.Session(telegramID)
	switch kind {
	case model.TableRequested:
		return open(ctx, h, userID, requestedKind(), sess)
	case model.TableScheduled:
		return open(ctx, h, userID, scheduledKind(), sess)
	default:
		return "", nil, common.ErrInvalidFormat
	}
}

func open[T any](ctx context.Context, h *callbacktypes.Handler, userID int64, k tableKind[T], sess *state.Session) (string, *models.InlineKeyboardMarkup, error) {
	ensureView(ctx, h, userID, k, sess)

	scr := k.screen(sess)
	err := newWorkflow(h, userID, k, scr.Table).Reload(ctx)
	text, kb := scr.Build()
	return text, kb, err
}

func handleAction[T any](hc *common.HandlerContext, k tableKind[T], action string, args []string) {
	sess := hc.Session()
	ensureView(hc.Ctx, hc.Handler, hc.User.ID, k, sess)

	scr := k.screen(sess)
	tb := scr.Table
	wf := newWorkflow(hc.Handler, hc.User.ID, k, tb)

	arg := ""
	if len(args) > 0 {
		arg = args[0]
	}

	switch action {
	case "show", "reload":
		// Открытие раздела всегда берёт свежий снимок
		if err := wf.Reload(hc.Ctx); err != nil {
			common.HandleError(hc, err, "table_reload")
			render(hc, scr.Build)
			return
		}
		render(hc, scr.Build)
		hc.Answer("")

	case "view":
		render(hc, scr.Build)
		hc.Answer("")

	case "row":
		idx, err := common.ParseIntPart(arg)
		if err == nil {
			err = tb.ToggleRow(idx)
		}
		if err != nil {
			common.HandleError(hc, err, "table_row")
			return
		}
		render(hc, scr.Build)
		hc.Answer("")

	case "pagesel":
		tb.TogglePage()
		render(hc, scr.Build)
		hc.Answer("")

	case "page":
		page, err := common.ParseIntPart(arg)
		if err != nil {
			common.HandleError(hc, err, "table_page")
			return
		}
		tb.SetPage(page)
		render(hc, scr.Build)
		hc.Answer("")

	case "sortmenu":
		render(hc, scr.BuildSortMenu)
		hc.Answer("")

	case "sort":
		var err error
		if arg == "-" {
			err = tb.SetSort("", false)
		} else {
			err = tb.ToggleSort(arg)
		}
		if err != nil {
			common.HandleError(hc, err, "table_sort")
			return
		}
		saveView(hc.Ctx, hc.Handler, hc.User.ID, k, tb)
		render(hc, scr.Build)
		hc.Answer("↕️ Сортировка изменена")

	case "filtermenu":
		render(hc, scr.BuildFilterMenu)
		hc.Answer("")

	case "filter":
		if arg == "-" {
			_ = tb.SetFilter("", "")
			saveView(hc.Ctx, hc.Handler, hc.User.ID, k, tb)
			render(hc, scr.Build)
			hc.Answer("🔎 Фильтр сброшен")
			return
		}
		hc.ClearState()
		hc.SetState(state.StateTableFilter)
		hc.SetData(state.KeyTableKind, k.kind)
		hc.SetData(state.KeyFilterColumn, arg)
		if err := hc.EditMessage(scr.BuildFilterPrompt(arg), nil); err != nil {
			common.HandleError(hc, err, "table_filter_prompt")
			return
		}
		hc.Answer("")

	case "colmenu":
		render(hc, scr.BuildColumnsMenu)
		hc.Answer("")

	case "col":
		if err := tb.ToggleColumn(arg); err != nil {
			common.HandleError(hc, err, "table_column")
			return
		}
		saveView(hc.Ctx, hc.Handler, hc.User.ID, k, tb)
		render(hc, scr.BuildColumnsMenu)
		hc.Answer("")

	case "schedule":
		result, err := wf.ScheduleSelected(hc.Ctx)
		if errors.Is(err, table.ErrEmptySelection) {
			hc.AnswerAlert(common.ErrorMessage(err))
			return
		}
		render(hc, scr.Build)
		if err != nil {
			common.HandleError(hc, err, "table_schedule")
			return
		}
		common.LogAndAnswer(hc, "Tasks scheduled", "")
		_ = hc.SendMessage("📅 "+common.EscapeHTML(result), nil)

	case "delete":
		ids := tb.SelectedIDs()
		if len(ids) == 0 {
			hc.AnswerAlert(common.ErrorMessage(table.ErrEmptySelection))
			return
		}
		render(hc, func() (string, *models.InlineKeyboardMarkup) {
			return scr.BuildDeleteConfirm(ids)
		})
		hc.Answer("")

	case "delconfirm":
		report, err := wf.DeleteSelected(hc.Ctx)
		if errors.Is(err, table.ErrEmptySelection) {
			hc.AnswerAlert(common.ErrorMessage(err))
			return
		}
		render(hc, scr.Build)
		if err != nil {
			hc.Handler.Logger.Warn("Reload after delete failed", zap.Error(err))
		}
		hc.Handler.Logger.Info("Tasks deleted",
			zap.Int64("user_id", hc.User.ID),
			zap.Int("deleted", len(report.Deleted)),
			zap.Int("failed", len(report.Failed)))
		hc.AnswerAlert(common.FormatDeleteReport(report, err))

	default:
		if k.extra != nil && k.extra(hc, action, args) {
			return
		}
		hc.Handler.Logger.Warn("Unknown table action",
			zap.String("kind", string(k.kind)),
			zap.String("action", action))
		hc.Answer("❌ Неизвестная команда")
	}
}

// render редактирует сообщение экраном; ошибку только логируем, ответ на callback остаётся за вызывающим
func render(hc *common.HandlerContext, build func() (string, *models.InlineKeyboardMarkup)) {
	text, kb := build()
	if err := hc.EditMessage(text, kb); err != nil {
		hc.Handler.Logger.Error("Failed to render table screen",
			zap.Int64("telegram_id", hc.TelegramID),
			zap.Error(err))
	}
}
