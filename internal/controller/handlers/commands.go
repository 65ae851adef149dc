package handlers

import (
	"context"
	"fmt"
	"strings"

	"github.com/Freeeeeet/blocks_bot/internal/controller/callbacks/common"
	"github.com/Freeeeeet/blocks_bot/internal/controller/callbacks/request"
	"github.com/Freeeeeet/blocks_bot/internal/controller/callbacks/tasks"
	"github.com/Freeeeeet/blocks_bot/internal/controller/state"
	"github.com/Freeeeeet/blocks_bot/internal/form"
	"github.com/Freeeeeet/blocks_bot/internal/model"
	"github.com/go-telegram/bot"
	"github.com/go-telegram/bot/models"
	"go.uber.org/zap"
)

// HandleStart обрабатывает команду /start
func (h *Handlers) HandleStart(ctx context.Context, b *bot.Bot, update *models.Update) {
	if update.Message == nil || update.Message.From == nil {
		return
	}

	user := update.Message.From

	// Регистрируем пользователя
	registeredUser, err := h.userService.RegisterUser(
		ctx,
		user.ID,
		user.Username,
		user.FirstName,
		user.LastName,
		user.LanguageCode,
	)

	if err != nil {
		h.logger.Error("Failed to register user", zap.Error(err))
		h.sendError(ctx, b, update.Message.Chat.ID, "❌ Произошла ошибка при регистрации. Попробуйте позже.")
		return
	}

	h.sendScreen(ctx, b, update.Message.Chat.ID, common.MainMenuText(registeredUser.DisplayName()), common.MainMenuKeyboard())
}

// HandleHelp обрабатывает команду /help
func (h *Handlers) HandleHelp(ctx context.Context, b *bot.Bot, update *models.Update) {
	if update.Message == nil {
		return
	}

	var sb strings.Builder
	sb.WriteString("📚 <b>Справка по командам</b>\n\n")
	sb.WriteString("/start - Главное меню\n")
	for _, r := range common.Routes {
		fmt.Fprintf(&sb, "/%s - %s\n", r.Command, r.Description)
	}
	sb.WriteString("/cancel - Отменить ввод\n")
	sb.WriteString("/help - Показать эту справку\n\n")
	sb.WriteString("В таблицах отмечайте строки кнопками с номерами заявок, затем выбирайте действие.")

	h.sendScreen(ctx, b, update.Message.Chat.ID, sb.String(), nil)
}

// HandleCancel обрабатывает команду /cancel - отмена текущего диалога
func (h *Handlers) HandleCancel(ctx context.Context, b *bot.Bot, update *models.Update) {
	if update.Message == nil || update.Message.From == nil {
		return
	}

	telegramID := update.Message.From.ID
	currentState := h.stateManager.GetState(telegramID)

	if currentState == state.StateNone {
		h.sendError(ctx, b, update.Message.Chat.ID, "❌ Нет активных операций для отмены.")
		return
	}

	// Очищаем состояние; форма и таблицы остаются
	h.stateManager.ClearState(telegramID)

	h.sendScreen(ctx, b, update.Message.Chat.ID,
		"✅ Ввод отменён.",
		common.MainMenuKeyboard())
}

// HandleRequest обрабатывает команду /request - форма новой заявки
func (h *Handlers) HandleRequest(ctx context.Context, b *bot.Bot, update *models.Update) {
	if _, ok := h.requireUser(ctx, b, update); !ok {
		return
	}

	f := h.stateManager.Session(update.Message.From.ID).Form
	text, kb := common.BuildRequestFormScreen(f.Values(), f.State() == form.StateSubmitting)
	h.sendScreen(ctx, b, update.Message.Chat.ID, text, kb)
}

// HandleSchedule обрабатывает команду /schedule - заявки к планированию
func (h *Handlers) HandleSchedule(ctx context.Context, b *bot.Bot, update *models.Update) {
	h.openTable(ctx, b, update, model.TableRequested)
}

// HandleScheduled обрабатывает команду /scheduled - запланированные задачи
func (h *Handlers) HandleScheduled(ctx context.Context, b *bot.Bot, update *models.Update) {
	h.openTable(ctx, b, update, model.TableScheduled)
}

func (h *Handlers) openTable(ctx context.Context, b *bot.Bot, update *models.Update, kind model.TableKind) {
	user, ok := h.requireUser(ctx, b, update)
	if !ok {
		return
	}

	text, kb, err := tasks.Open(ctx, h.deps(), user.ID, update.Message.From.ID, kind)
	if err != nil {
		h.logger.Error("Failed to load table",
			zap.String("kind", string(kind)),
			zap.Int64("user_id", user.ID),
			zap.Error(err))
		h.sendError(ctx, b, update.Message.Chat.ID, common.ErrorMessage(err))
		if text == "" {
			return
		}
	}

	h.sendScreen(ctx, b, update.Message.Chat.ID, text, kb)
}

// HandleHistory обрабатывает команду /history - журнал действий
func (h *Handlers) HandleHistory(ctx context.Context, b *bot.Bot, update *models.Update) {
	user, ok := h.requireUser(ctx, b, update)
	if !ok {
		return
	}

	records, err := h.taskService.History(ctx, user.ID, tasks.HistoryLimit)
	if err != nil {
		h.logger.Error("Failed to load history", zap.Int64("user_id", user.ID), zap.Error(err))
		h.sendError(ctx, b, update.Message.Chat.ID, "❌ Не удалось загрузить журнал")
		return
	}

	text, kb := common.BuildHistoryScreen(records)
	h.sendScreen(ctx, b, update.Message.Chat.ID, text, kb)
}

// HandleTextMessage обрабатывает текстовые сообщения в зависимости от состояния пользователя
func (h *Handlers) HandleTextMessage(ctx context.Context, b *bot.Bot, update *models.Update) {
	if update.Message == nil || update.Message.From == nil || update.Message.Text == "" {
		return
	}

	// Игнорируем команды (они обрабатываются другими handlers)
	if strings.HasPrefix(update.Message.Text, "/") {
		return
	}

	telegramID := update.Message.From.ID
	currentState := h.stateManager.GetState(telegramID)

	// Если нет активного состояния, игнорируем
	if currentState == state.StateNone {
		h.logger.Debug("No active state, ignoring message",
			zap.Int64("telegram_id", telegramID))
		return
	}

	user, ok := h.requireUser(ctx, b, update)
	if !ok {
		return
	}

	h.logger.Debug("Handling dialog input",
		zap.Int64("telegram_id", telegramID),
		zap.String("state", string(currentState)))

	var (
		text string
		kb   *models.InlineKeyboardMarkup
		err  error
	)

	switch currentState {
	case state.StateFormField:
		text, kb, err = request.FieldInput(h.deps(), telegramID, update.Message.Text)
	case state.StateTableFilter:
		text, kb, err = tasks.FilterInput(ctx, h.deps(), user, telegramID, update.Message.Text)
	case state.StateEditPriority:
		text, kb, err = tasks.PriorityInput(ctx, h.deps(), user, telegramID, update.Message.Text)
	default:
		h.logger.Warn("Unknown state", zap.String("state", string(currentState)))
		h.stateManager.ClearState(telegramID)
		return
	}

	if err != nil {
		h.logger.Info("Dialog input rejected",
			zap.Int64("telegram_id", telegramID),
			zap.String("state", string(currentState)),
			zap.Error(err))
		// Остаёмся в том же состоянии, чтобы можно было ввести снова
		h.sendError(ctx, b, update.Message.Chat.ID, common.ErrorMessage(err)+"\n\nПопробуйте ещё раз или /cancel")
		return
	}

	h.stateManager.ClearState(telegramID)
	h.sendScreen(ctx, b, update.Message.Chat.ID, text, kb)
}
