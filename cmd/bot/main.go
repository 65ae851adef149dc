package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/Freeeeeet/blocks_bot/internal/api"
	"github.com/Freeeeeet/blocks_bot/internal/app"
	"github.com/Freeeeeet/blocks_bot/internal/config"
	"github.com/Freeeeeet/blocks_bot/internal/controller"
	"github.com/Freeeeeet/blocks_bot/internal/repository"
	"github.com/Freeeeeet/blocks_bot/internal/service"
	"github.com/Freeeeeet/blocks_bot/migrations"
	"github.com/go-telegram/bot"
	"github.com/go-telegram/bot/models"
	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/zap"
)

// Как часто чистить давно не использованные настройки таблиц
const pruneInterval = 24 * time.Hour

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	logger := app.NewLogger(cfg.Environment)
	defer logger.Sync()

	if err := run(cfg, logger); err != nil {
		logger.Fatal("Bot stopped with error", zap.Error(err))
	}
}

func run(cfg *config.Config, logger *zap.Logger) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	logger.Info("Starting blocks bot",
		zap.String("environment", cfg.Environment),
		zap.String("api_base_url", cfg.APIBaseURL),
		zap.Int("token_length", len(cfg.TelegramToken)))

	// База данных
	pool, err := pgxpool.New(ctx, cfg.GetDBDSN())
	if err != nil {
		return err
	}
	defer pool.Close()

	if err := pool.Ping(ctx); err != nil {
		return err
	}

	migrator, err := app.NewMigrator(pool, migrations.FS, logger)
	if err != nil {
		return err
	}
	if err := migrator.Run(ctx); err != nil {
		return err
	}
	if err := migrator.Close(); err != nil {
		logger.Warn("Failed to close migrator", zap.Error(err))
	}

	// Репозитории
	userRepo := repository.NewUserRepository(pool)
	viewRepo := repository.NewViewRepository(pool)
	actionRepo := repository.NewActionRepository(pool)

	// Сервер планирования
	apiClient, err := api.NewClient(cfg.APIBaseURL, &http.Client{Timeout: cfg.APITimeout}, logger)
	if err != nil {
		return err
	}
	logger.Info("Scheduling API configured",
		zap.String("base_url", apiClient.BaseURL()),
		zap.Duration("timeout", cfg.APITimeout),
	)

	// Сервисы
	userService := service.NewUserService(userRepo, logger)
	taskService := service.NewTaskService(apiClient, actionRepo, logger)
	viewService := service.NewViewService(viewRepo, cfg.TablePageSize, cfg.ViewRetention(), logger)

	// Фоновая очистка
	scheduler := app.NewScheduler(viewService, pruneInterval, logger)
	scheduler.Start(ctx)
	defer scheduler.Stop()

	// Telegram
	b, err := bot.New(cfg.TelegramToken,
		bot.WithDefaultHandler(func(ctx context.Context, b *bot.Bot, update *models.Update) {
			logger.Debug("Unhandled update", zap.Int64("update_id", update.ID))
		}),
		bot.WithErrorsHandler(func(err error) {
			logger.Error("Telegram error", zap.Error(err))
		}),
	)
	if err != nil {
		return err
	}

	ctrl := controller.NewBotController(b, userService, taskService, viewService, cfg.TablePageSize, logger)
	if err := ctrl.RegisterHandlers(ctx); err != nil {
		// Меню команд не критично, бот работает и без него
		logger.Warn("Failed to register bot commands", zap.Error(err))
	}

	// Блокируется до отмены контекста
	return ctrl.Start(ctx)
}
