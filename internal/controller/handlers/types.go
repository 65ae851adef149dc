package handlers

import (
	"github.com/Freeeeeet/blocks_bot/internal/controller/callbacks/callbacktypes"
	"github.com/Freeeeeet/blocks_bot/internal/controller/state"
	"github.com/Freeeeeet/blocks_bot/internal/service"
	"go.uber.org/zap"
)

// Handlers содержит все зависимости для обработки команд
type Handlers struct {
	userService  *service.UserService
	taskService  *service.TaskService
	viewService  *service.ViewService
	stateManager *state.Manager
	logger       *zap.Logger
}

// NewHandlers создаёт новый обработчик команд
func NewHandlers(
	userService *service.UserService,
	taskService *service.TaskService,
	viewService *service.ViewService,
	stateManager *state.Manager,
	logger *zap.Logger,
) *Handlers {
	return &Handlers{
		userService:  userService,
		taskService:  taskService,
		viewService:  viewService,
		stateManager: stateManager,
		logger:       logger,
	}
}

// deps - те же зависимости в виде, который ждут обработчики экранов
func (h *Handlers) deps() *callbacktypes.Handler {
	return &callbacktypes.Handler{
		UserService:  h.userService,
		TaskService:  h.taskService,
		ViewService:  h.viewService,
		StateManager: h.stateManager,
		Logger:       h.logger,
	}
}
