package controller

import (
	"context"

	"github.com/Freeeeeet/blocks_bot/internal/controller/callbacks"
	"github.com/Freeeeeet/blocks_bot/internal/controller/callbacks/common"
	"github.com/Freeeeeet/blocks_bot/internal/controller/handlers"
	"github.com/Freeeeeet/blocks_bot/internal/controller/state"
	"github.com/Freeeeeet/blocks_bot/internal/service"
	"github.com/go-telegram/bot"
	"github.com/go-telegram/bot/models"
	"go.uber.org/zap"
)

type BotController struct {
	bot             *bot.Bot
	handlers        *handlers.Handlers
	callbackHandler *callbacks.Handler
	logger          *zap.Logger
}

func NewBotController(
	botInstance *bot.Bot,
	userService *service.UserService,
	taskService *service.TaskService,
	viewService *service.ViewService,
	pageSize int,
	logger *zap.Logger,
) *BotController {
	// Создаём менеджер состояний
	stateManager := state.NewManager(pageSize)

	// Создаём обработчики команд
	cmdHandlers := handlers.NewHandlers(
		userService,
		taskService,
		viewService,
		stateManager,
		logger,
	)

	// Создаём callback handler с зависимостями
	callbackHandler := callbacks.NewHandler(
		userService,
		taskService,
		viewService,
		stateManager,
		logger,
	)

	return &BotController{
		bot:             botInstance,
		handlers:        cmdHandlers,
		callbackHandler: callbackHandler,
		logger:          logger,
	}
}

// routeHandlers сопоставляет команды разделов с обработчиками
func (c *BotController) routeHandlers() map[string]bot.HandlerFunc {
	return map[string]bot.HandlerFunc{
		"request":   c.handlers.HandleRequest,
		"schedule":  c.handlers.HandleSchedule,
		"scheduled": c.handlers.HandleScheduled,
		"history":   c.handlers.HandleHistory,
	}
}

// RegisterHandlers регистрирует все обработчики команд
func (c *BotController) RegisterHandlers(ctx context.Context) error {
	// Регистрируем команды
	c.bot.RegisterHandler(bot.HandlerTypeMessageText, "/start", bot.MatchTypeExact, c.handlers.HandleStart)
	c.bot.RegisterHandler(bot.HandlerTypeMessageText, "/help", bot.MatchTypeExact, c.handlers.HandleHelp)
	c.bot.RegisterHandler(bot.HandlerTypeMessageText, "/cancel", bot.MatchTypeExact, c.handlers.HandleCancel)

	// Команды разделов
	handlersByCommand := c.routeHandlers()
	for _, r := range common.Routes {
		handler, ok := handlersByCommand[r.Command]
		if !ok {
			c.logger.Warn("No handler for route", zap.String("path", r.Path))
			continue
		}
		c.bot.RegisterHandler(bot.HandlerTypeMessageText, "/"+r.Command, bot.MatchTypeExact, handler)
	}

	// Обработчик текстовых сообщений (для диалогов с состояниями)
	c.bot.RegisterHandler(bot.HandlerTypeMessageText, "", bot.MatchTypePrefix, c.handlers.HandleTextMessage)

	// Обработчик нажатий на inline кнопки
	c.bot.RegisterHandler(bot.HandlerTypeCallbackQueryData, "", bot.MatchTypePrefix, c.callbackHandler.HandleCallbackQuery)

	// Устанавливаем меню команд
	return c.setCommands(ctx)
}

// setCommands устанавливает список команд в меню бота
func (c *BotController) setCommands(ctx context.Context) error {
	commands := []models.BotCommand{
		{Command: "start", Description: "🚀 Главное меню"},
	}
	for _, r := range common.Routes {
		commands = append(commands, models.BotCommand{
			Command:     r.Command,
			Description: r.Emoji + " " + r.Description,
		})
	}
	commands = append(commands,
		models.BotCommand{Command: "cancel", Description: "✖️ Отменить ввод"},
		models.BotCommand{Command: "help", Description: "❓ Справка по командам"},
	)

	_, err := c.bot.SetMyCommands(ctx, &bot.SetMyCommandsParams{
		Commands: commands,
	})

	if err != nil {
		c.logger.Error("Failed to set bot commands", zap.Error(err))
		return err
	}

	c.logger.Info("✅ Bot commands menu set")
	return nil
}

// Start запускает бота
func (c *BotController) Start(ctx context.Context) error {
	c.logger.Info("Starting bot...")
	c.bot.Start(ctx)
	return nil
}
