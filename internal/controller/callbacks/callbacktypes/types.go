package callbacktypes

import (
	"github.com/Freeeeeet/blocks_bot/internal/controller/state"
	"github.com/Freeeeeet/blocks_bot/internal/service"
	"go.uber.org/zap"
)

// Handler содержит общие зависимости для всех callback handlers
type Handler struct {
	UserService  *service.UserService
	TaskService  *service.TaskService
	ViewService  *service.ViewService
	StateManager *state.Manager
	Logger       *zap.Logger
}
