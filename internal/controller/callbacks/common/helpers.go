package common

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"github.com/go-telegram/bot"
	"github.com/go-telegram/bot/models"
)

// Helper functions для всех callback handlers

// AnswerCallback отвечает на callback query (без alert)
func AnswerCallback(ctx context.Context, b *bot.Bot, callbackID string, text string) {
	b.AnswerCallbackQuery(ctx, &bot.AnswerCallbackQueryParams{
		CallbackQueryID: callbackID,
		Text:            text,
		ShowAlert:       false,
	})
}

// AnswerCallbackAlert отвечает на callback query с alert (всплывающее окно)
func AnswerCallbackAlert(ctx context.Context, b *bot.Bot, callbackID string, text string) {
	b.AnswerCallbackQuery(ctx, &bot.AnswerCallbackQueryParams{
		CallbackQueryID: callbackID,
		Text:            text,
		ShowAlert:       true,
	})
}

// GetMessageFromCallback извлекает сообщение из callback query
func GetMessageFromCallback(callback *models.CallbackQuery) *models.Message {
	if callback.Message.Message != nil {
		return callback.Message.Message
	}
	return nil
}

// SplitCallback делит callback data на части по ":"
// Например: "tbl:requested:row:3" -> [tbl requested row 3]
func SplitCallback(data string, minParts int) ([]string, error) {
	parts := strings.Split(data, ":")
	if len(parts) < minParts {
		return nil, fmt.Errorf("%w: %q", ErrInvalidFormat, data)
	}
	return parts, nil
}

// ParseIntPart разбирает числовую часть callback data
func ParseIntPart(part string) (int, error) {
	n, err := strconv.Atoi(part)
	if err != nil {
		return 0, fmt.Errorf("%w: %q", ErrInvalidFormat, part)
	}
	return n, nil
}

// IsMessageNotModifiedError - Telegram отказался редактировать сообщение, потому что текст не изменился
func IsMessageNotModifiedError(err error) bool {
	return err != nil && strings.Contains(err.Error(), "message is not modified")
}
