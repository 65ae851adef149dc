package callbacks

import (
	"context"
	"strings"

	"github.com/Freeeeeet/blocks_bot/internal/controller/callbacks/callbacktypes"
	"github.com/Freeeeeet/blocks_bot/internal/controller/callbacks/common"
	"github.com/Freeeeeet/blocks_bot/internal/controller/callbacks/request"
	"github.com/Freeeeeet/blocks_bot/internal/controller/callbacks/tasks"
	"github.com/go-telegram/bot"
	"github.com/go-telegram/bot/models"
	"go.uber.org/zap"
)

// ========================
// Callback Data Patterns
// ========================

// Префиксы callback data
const (
	FormPrefix  = "form:" // form:show | form:edit:<поле> | form:submit | form:reset
	TablePrefix = "tbl:"  // tbl:<requested|scheduled>:<действие>[:<аргумент>]
)

// ========================
// Main Callback Router
// ========================

// Route распределяет callback query по соответствующим обработчикам
func Route(ctx context.Context, b *bot.Bot, callback *models.CallbackQuery, h *callbacktypes.Handler) {
	data := callback.Data

	h.Logger.Debug("Routing callback",
		zap.String("data", data),
		zap.Int64("user_id", callback.From.ID),
		zap.String("user_name", callback.From.FirstName))

	switch {
	// ===== Навигация =====
	case data == common.CallbackBackToMain:
		common.HandleBackToMain(ctx, b, callback, h)
	case data == common.CallbackNoop:
		common.AnswerCallback(ctx, b, callback.ID, "")

	// ===== Форма заявки =====
	case strings.HasPrefix(data, FormPrefix):
		request.HandleForm(ctx, b, callback, h)

	// ===== Таблицы =====
	case strings.HasPrefix(data, TablePrefix):
		tasks.HandleTable(ctx, b, callback, h)

	// ===== Журнал =====
	case data == common.CallbackOpenHistory:
		tasks.HandleHistory(ctx, b, callback, h)

	// ===== Unknown Callback =====
	default:
		h.Logger.Warn("Unknown callback",
			zap.String("data", data),
			zap.Int64("user_id", callback.From.ID))
		common.AnswerCallback(ctx, b, callback.ID, "❌ Неизвестная команда")
	}
}
