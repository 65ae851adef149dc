package service

import (
	"context"
	"fmt"
	"time"

	"github.com/Freeeeeet/blocks_bot/internal/model"
	"github.com/Freeeeeet/blocks_bot/internal/table"
	"go.uber.org/zap"
)

// ViewStore хранит настройки таблиц
type ViewStore interface {
	Get(ctx context.Context, userID int64, kind model.TableKind) (*model.TableView, error)
	Upsert(ctx context.Context, view *model.TableView) error
	DeleteOlderThan(ctx context.Context, before time.Time) (int64, error)
}

// ViewService сохраняет и восстанавливает сортировку, фильтр и колонки таблиц оператора
type ViewService struct {
	store     ViewStore
	pageSize  int
	retention time.Duration
	now       func() time.Time
	logger    *zap.Logger
}

func NewViewService(store ViewStore, pageSize int, retention time.Duration, logger *zap.Logger) *ViewService {
	if pageSize <= 0 {
		pageSize = table.DefaultPageSize
	}
	return &ViewService{
		store:     store,
		pageSize:  pageSize,
		retention: retention,
		now:       time.Now,
		logger:    logger,
	}
}

// Load возвращает сохранённые настройки или настройки по умолчанию
func (s *ViewService) Load(ctx context.Context, userID int64, kind model.TableKind) (table.ViewState, error) {
	view, err := s.store.Get(ctx, userID, kind)
	if err != nil {
		return s.defaults(), fmt.Errorf("load view: %w", err)
	}
	if view == nil {
		return s.defaults(), nil
	}

	state := table.ViewState{
		SortColumn:   view.SortColumn,
		SortDesc:     view.SortDesc,
		FilterColumn: view.FilterColumn,
		FilterText:   view.FilterText,
		Hidden:       view.HiddenColumns,
		PageSize:     view.PageSize,
	}
	if state.PageSize <= 0 {
		state.PageSize = s.pageSize
	}
	return state, nil
}

// Save запоминает текущие настройки таблицы
func (s *ViewService) Save(ctx context.Context, userID int64, kind model.TableKind, state table.ViewState) error {
	view := &model.TableView{
		UserID:        userID,
		Kind:          kind,
		SortColumn:    state.SortColumn,
		SortDesc:      state.SortDesc,
		FilterColumn:  state.FilterColumn,
		FilterText:    state.FilterText,
		HiddenColumns: state.Hidden,
		PageSize:      state.PageSize,
	}

	if err := s.store.Upsert(ctx, view); err != nil {
		return fmt.Errorf("save view: %w", err)
	}
	return nil
}

// PruneStale удаляет настройки, которые не менялись дольше срока хранения
func (s *ViewService) PruneStale(ctx context.Context) (int64, error) {
	if s.retention <= 0 {
		return 0, nil
	}

	removed, err := s.store.DeleteOlderThan(ctx, s.now().Add(-s.retention))
	if err != nil {
		return 0, err
	}

	if removed > 0 {
		s.logger.Debug("Stale views removed", zap.Int64("count", removed))
	}
	return removed, nil
}

func (s *ViewService) defaults() table.ViewState {
	return table.ViewState{PageSize: s.pageSize}
}
