package tasks

import (
	"context"

	"github.com/Freeeeeet/blocks_bot/internal/controller/callbacks/callbacktypes"
	"github.com/Freeeeeet/blocks_bot/internal/controller/callbacks/common"
	"github.com/go-telegram/bot"
	"github.com/go-telegram/bot/models"
)

// HistoryLimit - сколько последних действий показывать
const HistoryLimit = 20

// HandleHistory показывает журнал действий оператора
func HandleHistory(ctx context.Context, b *bot.Bot, callback *models.CallbackQuery, h *callbacktypes.Handler) {
	common.WithUser(ctx, b, callback, h, func(hc *common.HandlerContext) {
		records, err := h.TaskService.History(ctx, hc.User.ID, HistoryLimit)
		if err != nil {
			common.HandleError(hc, err, "history")
			return
		}

		text, kb := common.BuildHistoryScreen(records)
		if err := hc.EditMessage(text, kb); err != nil {
			common.HandleError(hc, err, "history")
			return
		}
		hc.Answer("")
	})
}
