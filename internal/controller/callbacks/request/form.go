package request

import (
	"context"

	"github.com/Freeeeeet/blocks_bot/internal/controller/callbacks/callbacktypes"
	"github.com/Freeeeeet/blocks_bot/internal/controller/callbacks/common"
	"github.com/Freeeeeet/blocks_bot/internal/controller/callbacks/common/formatting"
	"github.com/Freeeeeet/blocks_bot/internal/controller/callbacks/common/keyboard"
	"github.com/Freeeeeet/blocks_bot/internal/controller/state"
	"github.com/Freeeeeet/blocks_bot/internal/form"
	"github.com/go-telegram/bot"
	"github.com/go-telegram/bot/models"
	"go.uber.org/zap"
)

// HandleForm обрабатывает callback формы заявки: form:show|edit:<поле>|submit|reset
func HandleForm(ctx context.Context, b *bot.Bot, callback *models.CallbackQuery, h *callbacktypes.Handler) {
	common.WithUser(ctx, b, callback, h, func(hc *common.HandlerContext) {
		parts, err := common.SplitCallback(callback.Data, 2)
		if err != nil {
			common.HandleError(hc, err, "form_callback")
			return
		}

		switch parts[1] {
		case "show":
			showForm(hc, "")
			hc.Answer("")
		case "edit":
			if len(parts) < 3 {
				common.HandleError(hc, common.ErrInvalidFormat, "form_edit")
				return
			}
			handleEditField(hc, parts[2])
		case "submit":
			handleSubmit(hc)
		case "reset":
			hc.Session().Form.Reset()
			showForm(hc, "")
			hc.Answer("♻️ Форма сброшена")
		default:
			common.HandleError(hc, common.ErrInvalidFormat, "form_callback")
		}
	})
}

func showForm(hc *common.HandlerContext, notice string) {
	f := hc.Session().Form
	text, kb := common.BuildRequestFormScreen(f.Values(), f.State() == form.StateSubmitting)
	if notice != "" {
		text += "\n\n" + notice
	}
	if err := hc.EditMessage(text, kb); err != nil {
		hc.Handler.Logger.Error("Failed to render form", zap.Error(err))
	}
}

func handleEditField(hc *common.HandlerContext, key string) {
	field, ok := form.FieldByKey(key)
	if !ok {
		common.HandleError(hc, common.ErrInvalidFormat, "form_edit")
		return
	}

	hc.ClearState()
	hc.SetState(state.StateFormField)
	hc.SetData(state.KeyFormField, field.Key)

	values := hc.Session().Form.Values()
	kb := keyboard.NewBuilder().AddBackButton(common.CallbackOpenRequest).Build()
	if err := hc.EditMessage(common.BuildFormFieldPrompt(field, values.Get(field.Key)), kb); err != nil {
		common.HandleError(hc, err, "form_edit")
		return
	}
	hc.Answer("")
}

func handleSubmit(hc *common.HandlerContext) {
	f := hc.Session().Form
	if f.State() == form.StateSubmitting {
		hc.AnswerAlert(common.ErrorMessage(form.ErrBusy))
		return
	}
	hc.ClearState()

	// Пока запрос в пути, кнопки отправки нет
	text, kb := common.BuildRequestFormScreen(f.Values(), true)
	_ = hc.EditMessage(text, kb)

	created, err := f.Submit(hc.Ctx, hc.Handler.TaskService.ForOperator(hc.User.ID))
	if err != nil {
		hc.Handler.Logger.Warn("Task request failed",
			zap.Int64("user_id", hc.User.ID),
			zap.Error(err))
		showForm(hc, common.ErrorMessage(err))
		hc.Answer("❌ Заявка не отправлена")
		return
	}

	hc.Handler.Logger.Info("Task requested",
		zap.Int64("user_id", hc.User.ID),
		zap.Int64("task_id", created.ID))

	showForm(hc, "✅ Заявка создана")
	hc.Answer("✅ Заявка создана")
	_ = hc.SendMessage("✅ Создана заявка\n\n"+formatting.FormatTaskDetails(*created), nil)
}

// FieldInput записывает введённое значение поля и возвращает экран формы.
// Неверное значение не сохраняется, диалог ввода остаётся открытым.
func FieldInput(h *callbacktypes.Handler, telegramID int64, text string) (string, *models.InlineKeyboardMarkup, error) {
	raw, _ := h.StateManager.GetData(telegramID, state.KeyFormField)
	key, ok := raw.(string)
	if !ok {
		return "", nil, common.ErrInvalidFormat
	}

	f := h.StateManager.Session(telegramID).Form
	if err := f.Set(key, text); err != nil {
		return "", nil, err
	}

	screenText, kb := common.BuildRequestFormScreen(f.Values(), f.State() == form.StateSubmitting)
	return screenText, kb, nil
}
