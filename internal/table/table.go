package table

import (
	"errors"
	"fmt"
	"sort"
	"strings"
	"sync"
)

var (
	ErrUnknownColumn  = errors.New("unknown column")
	ErrNotSortable    = errors.New("column is not sortable")
	ErrNotHideable    = errors.New("column cannot be hidden")
	ErrRowOutOfRange  = errors.New("row index out of range")
	ErrEmptySelection = errors.New("no rows selected")
)

// DefaultPageSize - размер страницы по умолчанию
const DefaultPageSize = 10

// Column описывает колонку таблицы
type Column[T any] struct {
	ID       string
	Title    string
	Sortable bool
	Hideable bool
	Value    func(T) string
	// Less задаёт порядок сортировки; nil - сравнение строк Value
	Less func(a, b T) bool
}

func (c Column[T]) less(a, b T) bool {
	if c.Less != nil {
		return c.Less(a, b)
	}
	return c.Value(a) < c.Value(b)
}

// ViewState - настраиваемая часть таблицы, которую можно сохранить между сессиями
type ViewState struct {
	SortColumn   string
	SortDesc     bool
	FilterColumn string
	FilterText   string
	Hidden       []string
	PageSize     int
}

// Table - клиентская таблица над последним загруженным снимком данных.
// Выбор строк хранится по индексу в отображаемом (отфильтрованном и отсортированном) наборе,
// поэтому ID сущностей нужно читать в момент действия через SelectedIDs.
type Table[T any] struct {
	mu sync.RWMutex

	columns []Column[T]
	idOf    func(T) int64

	data    []T
	display []T // кэш data после фильтра и сортировки

	sortColumn   string
	sortDesc     bool
	filterColumn string
	filterText   string
	hidden       map[string]bool

	pageSize int
	page     int

	selected map[int]struct{}
}

// New создаёт пустую таблицу
func New[T any](columns []Column[T], idOf func(T) int64) *Table[T] {
	return &Table[T]{
		columns:  columns,
		idOf:     idOf,
		hidden:   make(map[string]bool),
		pageSize: DefaultPageSize,
		selected: make(map[int]struct{}),
	}
}

// Replace целиком заменяет снимок данных. Выбор сбрасывается: ID могли исчезнуть.
func (t *Table[T]) Replace(data []T) {
	t.mu.Lock()
	defer t.mu.Unlock()

	t.data = append([]T(nil), data...)
	t.selected = make(map[int]struct{})
	t.rebuild()
}

// Invalidate сбрасывает выбор перед перезагрузкой
func (t *Table[T]) Invalidate() {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.selected = make(map[int]struct{})
}

// Len - количество строк в снимке
func (t *Table[T]) Len() int {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return len(t.data)
}

// Rows возвращает все отображаемые строки
func (t *Table[T]) Rows() []T {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return append([]T(nil), t.display...)
}

// PageRows возвращает строки текущей страницы и индекс первой из них в отображаемом наборе
func (t *Table[T]) PageRows() ([]T, int) {
	t.mu.RLock()
	defer t.mu.RUnlock()

	start := t.page * t.pageSize
	if start >= len(t.display) {
		return nil, start
	}
	end := start + t.pageSize
	if end > len(t.display) {
		end = len(t.display)
	}
	return append([]T(nil), t.display[start:end]...), start
}

// Page возвращает текущую страницу (с нуля) и число страниц
func (t *Table[T]) Page() (int, int) {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return t.page, t.pages()
}

func (t *Table[T]) pages() int {
	if len(t.display) == 0 {
		return 1
	}
	return (len(t.display) + t.pageSize - 1) / t.pageSize
}

// SetPage переключает страницу, выходящие за границы значения прижимаются
func (t *Table[T]) SetPage(page int) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.page = page
	t.clampPage()
}

func (t *Table[T]) clampPage() {
	if t.page >= t.pages() {
		t.page = t.pages() - 1
	}
	if t.page < 0 {
		t.page = 0
	}
}

// SetPageSize меняет размер страницы
func (t *Table[T]) SetPageSize(size int) {
	if size <= 0 {
		size = DefaultPageSize
	}
	t.mu.Lock()
	defer t.mu.Unlock()
	t.pageSize = size
	t.clampPage()
}

func (t *Table[T]) column(id string) (Column[T], bool) {
	for _, c := range t.columns {
		if c.ID == id {
			return c, true
		}
	}
	return Column[T]{}, false
}

// Columns возвращает все колонки
func (t *Table[T]) Columns() []Column[T] {
	return t.columns
}

// VisibleColumns возвращает колонки, которые не скрыты
func (t *Table[T]) VisibleColumns() []Column[T] {
	t.mu.RLock()
	defer t.mu.RUnlock()

	out := make([]Column[T], 0, len(t.columns))
	for _, c := range t.columns {
		if !t.hidden[c.ID] {
			out = append(out, c)
		}
	}
	return out
}

// IsHidden сообщает, скрыта ли колонка
func (t *Table[T]) IsHidden(id string) bool {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return t.hidden[id]
}

// ToggleColumn скрывает или показывает колонку
func (t *Table[T]) ToggleColumn(id string) error {
	c, ok := t.column(id)
	if !ok {
		return fmt.Errorf("%w: %s", ErrUnknownColumn, id)
	}
	if !c.Hideable {
		return fmt.Errorf("%w: %s", ErrNotHideable, id)
	}

	t.mu.Lock()
	defer t.mu.Unlock()
	if t.hidden[id] {
		delete(t.hidden, id)
	} else {
		t.hidden[id] = true
	}
	return nil
}

// Sort возвращает активную колонку сортировки и направление
func (t *Table[T]) Sort() (string, bool) {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return t.sortColumn, t.sortDesc
}

// ToggleSort включает сортировку по колонке; повторный вызов меняет направление
func (t *Table[T]) ToggleSort(id string) error {
	t.mu.RLock()
	desc := t.sortColumn == id && !t.sortDesc
	t.mu.RUnlock()
	return t.SetSort(id, desc)
}

// SetSort задаёт сортировку. Пустой id отключает её.
// Порядок строк меняется, поэтому выбор сбрасывается.
func (t *Table[T]) SetSort(id string, desc bool) error {
	if id != "" {
		c, ok := t.column(id)
		if !ok {
			return fmt.Errorf("%w: %s", ErrUnknownColumn, id)
		}
		if !c.Sortable {
			return fmt.Errorf("%w: %s", ErrNotSortable, id)
		}
	}

	t.mu.Lock()
	defer t.mu.Unlock()
	t.sortColumn = id
	t.sortDesc = desc && id != ""
	t.selected = make(map[int]struct{})
	t.rebuild()
	return nil
}

// Filter возвращает активный фильтр
func (t *Table[T]) Filter() (string, string) {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return t.filterColumn, t.filterText
}

// SetFilter оставляет строки, где значение колонки содержит текст (без учёта регистра).
// Пустой текст снимает фильтр. Выбор сбрасывается.
func (t *Table[T]) SetFilter(id, text string) error {
	text = strings.TrimSpace(text)
	if text != "" {
		if _, ok := t.column(id); !ok {
			return fmt.Errorf("%w: %s", ErrUnknownColumn, id)
		}
	} else {
		id = ""
	}

	t.mu.Lock()
	defer t.mu.Unlock()
	t.filterColumn = id
	t.filterText = text
	t.selected = make(map[int]struct{})
	t.page = 0
	t.rebuild()
	return nil
}

// rebuild пересчитывает отображаемый набор; вызывается под блокировкой
func (t *Table[T]) rebuild() {
	rows := make([]T, 0, len(t.data))

	filterCol, hasFilter := t.column(t.filterColumn)
	needle := strings.ToLower(t.filterText)
	for _, row := range t.data {
		if hasFilter && needle != "" && !strings.Contains(strings.ToLower(filterCol.Value(row)), needle) {
			continue
		}
		rows = append(rows, row)
	}

	if sortCol, ok := t.column(t.sortColumn); ok {
		desc := t.sortDesc
		sort.SliceStable(rows, func(i, j int) bool {
			if desc {
				return sortCol.less(rows[j], rows[i])
			}
			return sortCol.less(rows[i], rows[j])
		})
	}

	t.display = rows
	t.clampPage()
}

// ToggleRow выбирает или снимает выбор строки по индексу в отображаемом наборе
func (t *Table[T]) ToggleRow(index int) error {
	t.mu.Lock()
	defer t.mu.Unlock()

	if index < 0 || index >= len(t.display) {
		return fmt.Errorf("%w: %d", ErrRowOutOfRange, index)
	}
	if _, ok := t.selected[index]; ok {
		delete(t.selected, index)
	} else {
		t.selected[index] = struct{}{}
	}
	return nil
}

// TogglePage выбирает все строки текущей страницы, а если они уже выбраны - снимает выбор
func (t *Table[T]) TogglePage() {
	t.mu.Lock()
	defer t.mu.Unlock()

	start := t.page * t.pageSize
	end := start + t.pageSize
	if end > len(t.display) {
		end = len(t.display)
	}

	all := start < end
	for i := start; i < end; i++ {
		if _, ok := t.selected[i]; !ok {
			all = false
			break
		}
	}

	for i := start; i < end; i++ {
		if all {
			delete(t.selected, i)
		} else {
			t.selected[i] = struct{}{}
		}
	}
}

// IsSelected сообщает, выбрана ли строка
func (t *Table[T]) IsSelected(index int) bool {
	t.mu.RLock()
	defer t.mu.RUnlock()
	_, ok := t.selected[index]
	return ok
}

// SelectedCount - количество выбранных строк
func (t *Table[T]) SelectedCount() int {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return len(t.selected)
}

// FilteredCount - количество строк после фильтра
func (t *Table[T]) FilteredCount() int {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return len(t.display)
}

// SelectedIDs читает ID выбранных строк из текущего отображения в порядке строк
func (t *Table[T]) SelectedIDs() []int64 {
	t.mu.RLock()
	defer t.mu.RUnlock()

	indexes := make([]int, 0, len(t.selected))
	for i := range t.selected {
		if i < len(t.display) {
			indexes = append(indexes, i)
		}
	}
	sort.Ints(indexes)

	ids := make([]int64, 0, len(indexes))
	for _, i := range indexes {
		ids = append(ids, t.idOf(t.display[i]))
	}
	return ids
}

// View возвращает настройки для сохранения
func (t *Table[T]) View() ViewState {
	t.mu.RLock()
	defer t.mu.RUnlock()

	hidden := make([]string, 0, len(t.hidden))
	for _, c := range t.columns {
		if t.hidden[c.ID] {
			hidden = append(hidden, c.ID)
		}
	}

	return ViewState{
		SortColumn:   t.sortColumn,
		SortDesc:     t.sortDesc,
		FilterColumn: t.filterColumn,
		FilterText:   t.filterText,
		Hidden:       hidden,
		PageSize:     t.pageSize,
	}
}

// ApplyView восстанавливает сохранённые настройки. Неизвестные колонки игнорируются.
func (t *Table[T]) ApplyView(v ViewState) {
	t.mu.Lock()
	defer t.mu.Unlock()

	t.hidden = make(map[string]bool)
	for _, id := range v.Hidden {
		if c, ok := t.column(id); ok && c.Hideable {
			t.hidden[id] = true
		}
	}

	t.sortColumn, t.sortDesc = "", false
	if c, ok := t.column(v.SortColumn); ok && c.Sortable {
		t.sortColumn, t.sortDesc = v.SortColumn, v.SortDesc
	}

	t.filterColumn, t.filterText = "", ""
	if _, ok := t.column(v.FilterColumn); ok && strings.TrimSpace(v.FilterText) != "" {
		t.filterColumn, t.filterText = v.FilterColumn, strings.TrimSpace(v.FilterText)
	}

	if v.PageSize > 0 {
		t.pageSize = v.PageSize
	}

	t.selected = make(map[int]struct{})
	t.rebuild()
}
