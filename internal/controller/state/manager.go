package state

import (
	"sync"
	"time"

	"github.com/Freeeeeet/blocks_bot/internal/form"
	"github.com/Freeeeeet/blocks_bot/internal/table"
)

// Manager управляет состояниями пользователей
type Manager struct {
	mu       sync.RWMutex
	states   map[int64]*UserData // telegramID -> UserData
	sessions map[int64]*Session  // telegramID -> Session

	pageSize int
	now      func() time.Time
}

// NewManager создаёт новый менеджер состояний
func NewManager(pageSize int) *Manager {
	if pageSize <= 0 {
		pageSize = table.DefaultPageSize
	}
	return &Manager{
		states:   make(map[int64]*UserData),
		sessions: make(map[int64]*Session),
		pageSize: pageSize,
		now:      time.Now,
	}
}

// GetState получает текущее состояние пользователя
func (sm *Manager) GetState(telegramID int64) UserState {
	sm.mu.RLock()
	defer sm.mu.RUnlock()

	if userData, exists := sm.states[telegramID]; exists {
		return userData.State
	}
	return StateNone
}

// SetState устанавливает состояние пользователя
func (sm *Manager) SetState(telegramID int64, state UserState) {
	sm.mu.Lock()
	defer sm.mu.Unlock()

	if state == StateNone {
		// Если состояние None, удаляем запись
		delete(sm.states, telegramID)
		return
	}

	if _, exists := sm.states[telegramID]; !exists {
		sm.states[telegramID] = &UserData{
			State: state,
			Data:  make(map[string]interface{}),
		}
	} else {
		sm.states[telegramID].State = state
	}
}

// GetData получает временные данные пользователя
func (sm *Manager) GetData(telegramID int64, key string) (interface{}, bool) {
	sm.mu.RLock()
	defer sm.mu.RUnlock()

	if userData, exists := sm.states[telegramID]; exists {
		value, ok := userData.Data[key]
		return value, ok
	}
	return nil, false
}

// SetData устанавливает временные данные пользователя
func (sm *Manager) SetData(telegramID int64, key string, value interface{}) {
	sm.mu.Lock()
	defer sm.mu.Unlock()

	if _, exists := sm.states[telegramID]; !exists {
		sm.states[telegramID] = &UserData{
			State: StateNone,
			Data:  make(map[string]interface{}),
		}
	}
	sm.states[telegramID].Data[key] = value
}

// ClearState очищает состояние и данные диалога пользователя
func (sm *Manager) ClearState(telegramID int64) {
	sm.mu.Lock()
	defer sm.mu.Unlock()

	delete(sm.states, telegramID)
}

// Session возвращает рабочее место оператора, создавая его при первом обращении
func (sm *Manager) Session(telegramID int64) *Session {
	sm.mu.Lock()
	defer sm.mu.Unlock()

	if s, ok := sm.sessions[telegramID]; ok {
		return s
	}

	s := &Session{
		Form:      form.New(sm.now),
		Requested: table.New(table.RequestedColumns(), table.TaskID),
		Scheduled: table.New(table.ScheduledColumns(), table.ScheduledTaskID),
	}
	s.Requested.SetPageSize(sm.pageSize)
	s.Scheduled.SetPageSize(sm.pageSize)

	sm.sessions[telegramID] = s
	return s
}
