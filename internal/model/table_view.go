package model

import "time"

// TableKind - какая таблица открыта
type TableKind string

const (
	TableRequested TableKind = "requested" // /schedule - заявки к планированию
	TableScheduled TableKind = "scheduled" // /scheduled - запланированные задачи со слотами
)

// TableView - сохранённые настройки таблицы оператора.
// Выбор строк сюда не попадает: он действителен только до следующей перезагрузки данных.
type TableView struct {
	ID            int64     `json:"id"`
	UserID        int64     `json:"user_id"`
	Kind          TableKind `json:"kind"`
	SortColumn    string    `json:"sort_column"`
	SortDesc      bool      `json:"sort_desc"`
	FilterColumn  string    `json:"filter_column"`
	FilterText    string    `json:"filter_text"`
	HiddenColumns []string  `json:"hidden_columns"`
	PageSize      int       `json:"page_size"`
	UpdatedAt     time.Time `json:"updated_at"`
}
