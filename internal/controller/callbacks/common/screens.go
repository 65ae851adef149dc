package common

import (
	"fmt"
	"html"
	"strconv"
	"strings"

	"github.com/Freeeeeet/blocks_bot/internal/controller/callbacks/common/formatting"
	"github.com/Freeeeeet/blocks_bot/internal/controller/callbacks/common/keyboard"
	"github.com/Freeeeeet/blocks_bot/internal/form"
	"github.com/Freeeeeet/blocks_bot/internal/model"
	"github.com/Freeeeeet/blocks_bot/internal/table"
	"github.com/go-telegram/bot/models"
)

// EscapeHTML экранирует текст для ParseModeHTML
func EscapeHTML(s string) string {
	return html.EscapeString(s)
}

// ========================
// Форма заявки
// ========================

// BuildRequestFormScreen формирует экран формы заявки
func BuildRequestFormScreen(values form.Values, submitting bool) (string, *models.InlineKeyboardMarkup) {
	var sb strings.Builder
	sb.WriteString(RouteBreadcrumbs(PathRequest))
	sb.WriteString("\n\n📝 <b>Новая заявка на окно</b>\n\n")

	for _, f := range form.Fields {
		fmt.Fprintf(&sb, "<b>%s</b>: %s\n", f.Label, EscapeHTML(values.Get(f.Key)))
	}

	if submitting {
		sb.WriteString("\n⏳ Заявка отправляется...")
	} else {
		sb.WriteString("\nНажмите на поле, чтобы изменить его.")
	}

	buttons := make([]models.InlineKeyboardButton, 0, len(form.Fields))
	for _, f := range form.Fields {
		buttons = append(buttons, keyboard.Button("✏️ "+f.Label, "form:edit:"+f.Key))
	}

	kb := keyboard.NewBuilder().AddRows(keyboard.Grid(buttons, 2))
	if !submitting {
		kb.Row(
			keyboard.Button("📤 Отправить", "form:submit"),
			keyboard.Button("♻️ Сбросить", "form:reset"),
		)
	}
	kb.AddBackToMainButton()

	return sb.String(), kb.Build()
}

// BuildFormFieldPrompt - приглашение ввести значение поля
func BuildFormFieldPrompt(f form.Field, current string) string {
	return fmt.Sprintf(
		"%s\n\n✏️ <b>%s</b>\n\nТекущее значение: %s\nНапример: %s\n\nОтправьте новое значение или /cancel",
		RouteBreadcrumbs(PathRequest, f.Label),
		f.Label,
		EscapeHTML(current),
		EscapeHTML(f.Hint),
	)
}

// ========================
// Таблицы заявок
// ========================

// TableScreen описывает экран таблицы одного вида
type TableScreen[T any] struct {
	Kind  model.TableKind
	Path  string
	Title string
	Table *table.Table[T]
	ID    func(T) int64
	// Details - дополнительные строки под строкой таблицы
	Details func(T) []string
	// Errored помечает строки, которые пришли с ошибкой
	Errored func(T) bool
	// Actions - дополнительные кнопки вида таблицы
	Actions []models.InlineKeyboardButton
}

func (s TableScreen[T]) prefix() string {
	return "tbl:" + string(s.Kind) + ":"
}

// Callback формирует callback data действия таблицы
func (s TableScreen[T]) Callback(action string, args ...string) string {
	return s.prefix() + strings.Join(append([]string{action}, args...), ":")
}

func (s TableScreen[T]) columnTitle(id string) string {
	for _, c := range s.Table.Columns() {
		if c.ID == id {
			return c.Title
		}
	}
	return id
}

// Build формирует экран таблицы с текущей страницей
func (s TableScreen[T]) Build() (string, *models.InlineKeyboardMarkup) {
	tb := s.Table
	rows, offset := tb.PageRows()
	page, pages := tb.Page()
	selected := tb.SelectedCount()

	var sb strings.Builder
	sb.WriteString(RouteBreadcrumbs(s.Path))
	fmt.Fprintf(&sb, "\n\n<b>%s</b>\n", s.Title)
	fmt.Fprintf(&sb, "Всего: %d · показано: %d · выбрано: %d\n", tb.Len(), tb.FilteredCount(), selected)

	if col, text := tb.Filter(); col != "" {
		fmt.Fprintf(&sb, "🔎 %s содержит «%s»\n", EscapeHTML(s.columnTitle(col)), EscapeHTML(text))
	}
	if col, desc := tb.Sort(); col != "" {
		fmt.Fprintf(&sb, "↕️ %s %s\n", s.columnTitle(col), sortArrow(desc))
	}
	sb.WriteString("\n")

	if len(rows) == 0 {
		sb.WriteString("Нет данных.")
	}

	visible := tb.VisibleColumns()
	for i, row := range rows {
		idx := offset + i
		mark := keyboard.Mark(tb.IsSelected(idx))
		if s.Errored != nil && s.Errored(row) {
			mark += "⚠️"
		}

		parts := make([]string, 0, len(visible))
		for _, c := range visible {
			if c.ID == table.ColID {
				continue
			}
			parts = append(parts, EscapeHTML(c.Value(row)))
		}

		fmt.Fprintf(&sb, "%s <b>#%d</b> %s\n", mark, s.ID(row), strings.Join(parts, " · "))
		if s.Details != nil {
			for _, line := range s.Details(row) {
				sb.WriteString("      " + EscapeHTML(line) + "\n")
			}
		}
	}

	rowButtons := make([]models.InlineKeyboardButton, 0, len(rows))
	for i, row := range rows {
		idx := offset + i
		rowButtons = append(rowButtons, keyboard.CheckButton(
			tb.IsSelected(idx),
			fmt.Sprintf("#%d", s.ID(row)),
			s.Callback("row", strconv.Itoa(idx)),
		))
	}

	kb := keyboard.NewBuilder().AddRows(keyboard.Grid(rowButtons, 4))
	if len(rows) > 0 {
		kb.Row(keyboard.Button("✅ Выбрать страницу", s.Callback("pagesel")))
	}
	kb.AddPagination(s.Callback("page")+":", page, pages)
	kb.Row(
		keyboard.Button("↕️ Сортировка", s.Callback("sortmenu")),
		keyboard.Button("🔎 Фильтр", s.Callback("filtermenu")),
		keyboard.Button("👁 Колонки", s.Callback("colmenu")),
	)
	kb.Row(
		keyboard.Button(fmt.Sprintf("📅 Запланировать (%d)", selected), s.Callback("schedule")),
		keyboard.Button(fmt.Sprintf("🗑 Удалить (%d)", selected), s.Callback("delete")),
	)
	kb.Row(s.Actions...)
	kb.Row(
		keyboard.Button("🔄 Обновить", s.Callback("reload")),
		keyboard.BackToMainButton(),
	)

	return sb.String(), kb.Build()
}

func sortArrow(desc bool) string {
	if desc {
		return "↓"
	}
	return "↑"
}

// BuildSortMenu формирует выбор колонки сортировки
func (s TableScreen[T]) BuildSortMenu() (string, *models.InlineKeyboardMarkup) {
	active, desc := s.Table.Sort()

	var buttons []models.InlineKeyboardButton
	for _, c := range s.Table.Columns() {
		if !c.Sortable {
			continue
		}
		label := c.Title
		if c.ID == active {
			label += " " + sortArrow(desc)
		}
		buttons = append(buttons, keyboard.Button(label, s.Callback("sort", c.ID)))
	}

	kb := keyboard.NewBuilder().AddRows(keyboard.Grid(buttons, 2))
	if active != "" {
		kb.Row(keyboard.Button("✖️ Без сортировки", s.Callback("sort", "-")))
	}
	kb.AddBackButton(s.Callback("view"))

	text := RouteBreadcrumbs(s.Path, "Сортировка") +
		"\n\n↕️ Выберите колонку. Повторное нажатие меняет направление."
	return text, kb.Build()
}

// BuildFilterMenu формирует выбор колонки для фильтра
func (s TableScreen[T]) BuildFilterMenu() (string, *models.InlineKeyboardMarkup) {
	var buttons []models.InlineKeyboardButton
	for _, c := range s.Table.VisibleColumns() {
		buttons = append(buttons, keyboard.Button(c.Title, s.Callback("filter", c.ID)))
	}

	kb := keyboard.NewBuilder().AddRows(keyboard.Grid(buttons, 3))
	if col, _ := s.Table.Filter(); col != "" {
		kb.Row(keyboard.Button("✖️ Сбросить фильтр", s.Callback("filter", "-")))
	}
	kb.AddBackButton(s.Callback("view"))

	text := RouteBreadcrumbs(s.Path, "Фильтр") +
		"\n\n🔎 Выберите колонку, затем отправьте текст для поиска."
	return text, kb.Build()
}

// BuildFilterPrompt - приглашение ввести текст фильтра
func (s TableScreen[T]) BuildFilterPrompt(columnID string) string {
	return fmt.Sprintf("%s\n\n🔎 Отправьте текст для поиска в колонке «%s» или /cancel",
		RouteBreadcrumbs(s.Path, "Фильтр", s.columnTitle(columnID)),
		EscapeHTML(s.columnTitle(columnID)),
	)
}

// BuildColumnsMenu формирует переключатели видимости колонок
func (s TableScreen[T]) BuildColumnsMenu() (string, *models.InlineKeyboardMarkup) {
	var buttons []models.InlineKeyboardButton
	for _, c := range s.Table.Columns() {
		if !c.Hideable {
			continue
		}
		mark := "👁"
		if s.Table.IsHidden(c.ID) {
			mark = "🚫"
		}
		buttons = append(buttons, keyboard.Button(mark+" "+c.Title, s.Callback("col", c.ID)))
	}

	kb := keyboard.NewBuilder().
		AddRows(keyboard.Grid(buttons, 2)).
		AddBackButton(s.Callback("view"))

	text := RouteBreadcrumbs(s.Path, "Колонки") + "\n\n👁 Нажмите на колонку, чтобы скрыть или показать её."
	return text, kb.Build()
}

// BuildDeleteConfirm формирует подтверждение удаления выбранных заявок
func (s TableScreen[T]) BuildDeleteConfirm(ids []int64) (string, *models.InlineKeyboardMarkup) {
	text := fmt.Sprintf("%s\n\n🗑 Удалить %d %s: %s?\n\nЗаявки удаляются по одной.",
		RouteBreadcrumbs(s.Path, "Удаление"),
		len(ids),
		formatting.PluralizeTasks(len(ids)),
		formatIDs(ids),
	)

	kb := keyboard.NewBuilder().
		AddRows(keyboard.ConfirmCancelButtons(s.Callback("delconfirm"), s.Callback("view"))).
		Build()
	return text, kb
}

func formatIDs(ids []int64) string {
	parts := make([]string, 0, len(ids))
	for _, id := range ids {
		parts = append(parts, "#"+strconv.FormatInt(id, 10))
	}
	return strings.Join(parts, ", ")
}

// FormatDeleteReport - итог удаления
// Ошибка перезагрузки означает, что на экране остался старый снимок.
func FormatDeleteReport(report table.DeleteReport, reloadErr error) string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "🗑 Удалено: %d", len(report.Deleted))
	if len(report.Failed) > 0 {
		fmt.Fprintf(&sb, ", с ошибкой: %d", len(report.Failed))
	}
	if reloadErr != nil {
		fmt.Fprintf(&sb, "\n⚠️ Таблица не обновлена: %s", ErrorMessage(reloadErr))
	}
	return sb.String()
}

// ========================
// Журнал
// ========================

// BuildHistoryScreen формирует список последних действий оператора
func BuildHistoryScreen(records []*model.ActionRecord) (string, *models.InlineKeyboardMarkup) {
	var sb strings.Builder
	sb.WriteString(RouteBreadcrumbs(PathHistory))
	sb.WriteString("\n\n🧾 <b>Последние действия</b>\n\n")

	if len(records) == 0 {
		sb.WriteString("Действий пока не было.")
	}

	for _, rec := range records {
		display := formatting.GetActionDisplay(rec.Action)
		fmt.Fprintf(&sb, "%s %s %s · %s",
			formatting.ResultEmoji(rec.Success),
			display.Emoji,
			display.Text,
			formatting.FormatDateTime(rec.CreatedAt),
		)
		if len(rec.TaskIDs) > 0 {
			sb.WriteString(" · " + formatIDs(rec.TaskIDs))
		}
		if rec.Error != "" {
			sb.WriteString("\n      " + EscapeHTML(truncate(rec.Error, 120)))
		}
		sb.WriteString("\n")
	}

	kb := keyboard.NewBuilder().
		Row(keyboard.Button("🔄 Обновить", CallbackOpenHistory)).
		AddBackToMainButton().
		Build()
	return sb.String(), kb
}

// truncate обрезает строку по рунам
func truncate(s string, max int) string {
	r := []rune(s)
	if len(r) <= max {
		return s
	}
	return string(r[:max-1]) + "…"
}
