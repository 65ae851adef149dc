package state

import (
	"sync"

	"github.com/Freeeeeet/blocks_bot/internal/form"
	"github.com/Freeeeeet/blocks_bot/internal/model"
	"github.com/Freeeeeet/blocks_bot/internal/table"
)

// UserState представляет текущее состояние пользователя в диалоге
type UserState string

const (
	StateNone UserState = "" // Нет активного состояния

	// Ввод значения поля формы заявки
	StateFormField UserState = "form_field"

	// Ввод текста фильтра таблицы
	StateTableFilter UserState = "table_filter"

	// Ввод нового приоритета выбранной заявки
	StateEditPriority UserState = "edit_priority"
)

// Ключи временных данных диалога
const (
	KeyFormField    = "form_field"    // ключ поля формы
	KeyTableKind    = "table_kind"    // model.TableKind
	KeyFilterColumn = "filter_column" // id колонки
	KeyTaskID       = "task_id"       // int64
	KeyPromptID     = "prompt_id"     // ID сообщения с экраном, которое нужно обновить
)

// UserData хранит временные данные пользователя во время диалога
type UserData struct {
	State UserState
	Data  map[string]interface{} // Временные данные для текущего диалога
}

// Session - рабочее место оператора: форма и открытые таблицы.
// Живёт дольше диалога: /cancel сбрасывает ввод, но не таблицы.
type Session struct {
	Form      *form.Form
	Requested *table.Table[model.RequestedTask]
	Scheduled *table.Table[model.ScheduledTask]

	mu         sync.Mutex
	viewLoaded map[model.TableKind]bool // настройки таблицы уже подтянуты из базы
	weekOffset int                      // сдвиг недели картинки слотов относительно текущей
}

// MarkViewLoaded отмечает, что настройки таблицы подтянуты.
// Возвращает true только для первого вызова по этой таблице.
func (s *Session) MarkViewLoaded(kind model.TableKind) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.viewLoaded[kind] {
		return false
	}
	if s.viewLoaded == nil {
		s.viewLoaded = make(map[model.TableKind]bool)
	}
	s.viewLoaded[kind] = true
	return true
}

// ViewLoaded проверяет, подтянуты ли настройки таблицы
func (s *Session) ViewLoaded(kind model.TableKind) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.viewLoaded[kind]
}

// WeekOffset возвращает сдвиг недели картинки слотов
func (s *Session) WeekOffset() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.weekOffset
}

// SetWeekOffset запоминает сдвиг недели картинки слотов
func (s *Session) SetWeekOffset(offset int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.weekOffset = offset
}
