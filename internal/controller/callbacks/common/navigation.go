package common

import (
	"context"
	"strings"

	"github.com/Freeeeeet/blocks_bot/internal/controller/callbacks/callbacktypes"
	"github.com/Freeeeeet/blocks_bot/internal/controller/callbacks/common/keyboard"
	"github.com/go-telegram/bot"
	"github.com/go-telegram/bot/models"
)

// Route - раздел бота. Команда заменяет путь страницы, кнопка меню - пункт боковой панели.
type Route struct {
	Path        string // путь страницы в веб-версии
	Command     string // команда без "/"
	Emoji       string
	Title       string
	Description string
	Callback    string // callback кнопки главного меню
}

// Callback data разделов
const (
	CallbackBackToMain  = "back_to_main"
	CallbackOpenRequest = "form:show"
	CallbackOpenHistory = "history"
	CallbackRequested   = "tbl:requested:show"
	CallbackScheduled   = "tbl:scheduled:show"
	CallbackNoop        = "noop"
	breadcrumbSeparator = " › "
	breadcrumbRootLabel = "🏠 Главная"
)

// Пути разделов
const (
	PathRequest   = "/task/request"
	PathSchedule  = "/task/schedule"
	PathScheduled = "/view/scheduled_tasks"
	PathHistory   = "/history"
)

// Routes - таблица разделов, по ней строятся меню команд, главное меню и справка
var Routes = []Route{
	{
		Path:        PathRequest,
		Command:     "request",
		Emoji:       "📝",
		Title:       "Новая заявка",
		Description: "Подать заявку на окно",
		Callback:    CallbackOpenRequest,
	},
	{
		Path:        PathSchedule,
		Command:     "schedule",
		Emoji:       "📋",
		Title:       "Заявки",
		Description: "Заявки к планированию",
		Callback:    CallbackRequested,
	},
	{
		Path:        PathScheduled,
		Command:     "scheduled",
		Emoji:       "🗓",
		Title:       "Запланированные",
		Description: "Запланированные задачи и слоты",
		Callback:    CallbackScheduled,
	},
	{
		Path:        PathHistory,
		Command:     "history",
		Emoji:       "🧾",
		Title:       "Журнал",
		Description: "Мои последние действия",
		Callback:    CallbackOpenHistory,
	},
}

// RouteByCommand ищет раздел по команде
func RouteByCommand(command string) (Route, bool) {
	command = strings.TrimPrefix(command, "/")
	for _, r := range Routes {
		if r.Command == command {
			return r, true
		}
	}
	return Route{}, false
}

// RouteByPath ищет раздел по пути страницы
func RouteByPath(path string) (Route, bool) {
	for _, r := range Routes {
		if r.Path == path {
			return r, true
		}
	}
	return Route{}, false
}

// Label - подпись раздела с эмодзи
func (r Route) Label() string {
	return r.Emoji + " " + r.Title
}

// Breadcrumbs строит цепочку "🏠 Главная › Заявки › Сортировка"
func Breadcrumbs(parts ...string) string {
	return strings.Join(append([]string{breadcrumbRootLabel}, parts...), breadcrumbSeparator)
}

// RouteBreadcrumbs строит цепочку от раздела по его пути
func RouteBreadcrumbs(path string, extra ...string) string {
	r, ok := RouteByPath(path)
	if !ok {
		return Breadcrumbs(extra...)
	}
	return Breadcrumbs(append([]string{r.Title}, extra...)...)
}

// MainMenuText - текст главного меню
func MainMenuText(name string) string {
	var sb strings.Builder
	sb.WriteString(Breadcrumbs())
	sb.WriteString("\n\n📋 <b>Главное меню</b>")
	if name != "" {
		sb.WriteString(", " + EscapeHTML(name))
	}
	sb.WriteString("\n\n")
	for _, r := range Routes {
		sb.WriteString("/" + r.Command + " - " + r.Description + "\n")
	}
	sb.WriteString("/help - Справка")
	return sb.String()
}

// MainMenuKeyboard - кнопки разделов
func MainMenuKeyboard() *models.InlineKeyboardMarkup {
	buttons := make([]models.InlineKeyboardButton, 0, len(Routes))
	for _, r := range Routes {
		buttons = append(buttons, keyboard.Button(r.Label(), r.Callback))
	}
	return keyboard.NewBuilder().AddRows(keyboard.Grid(buttons, 2)).Build()
}

// HandleBackToMain возвращает пользователя к главному меню
func HandleBackToMain(ctx context.Context, b *bot.Bot, callback *models.CallbackQuery, h *callbacktypes.Handler) {
	msg := GetMessageFromCallback(callback)
	if msg == nil {
		AnswerCallback(ctx, b, callback.ID, "❌ Ошибка")
		return
	}

	// Выходим из любого диалога
	h.StateManager.ClearState(callback.From.ID)

	hc := NewHandlerContext(ctx, b, callback, h)
	if err := hc.EditMessage(MainMenuText(callback.From.FirstName), MainMenuKeyboard()); err != nil {
		HandleError(hc, err, "back_to_main")
		return
	}

	AnswerCallback(ctx, b, callback.ID, "")
}
