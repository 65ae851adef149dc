package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/Freeeeeet/blocks_bot/internal/model"
	"github.com/Freeeeeet/blocks_bot/internal/repository/base"
	"github.com/jackc/pgx/v5/pgxpool"
)

// ViewRepository хранит настройки таблиц операторов
type ViewRepository struct {
	*base.Repository
}

func NewViewRepository(pool *pgxpool.Pool) *ViewRepository {
	return &ViewRepository{Repository: base.NewRepository(pool)}
}

// Get возвращает сохранённые настройки или nil, если их нет
func (r *ViewRepository) Get(ctx context.Context, userID int64, kind model.TableKind) (*model.TableView, error) {
	query := `
		SELECT id, user_id, kind, sort_column, sort_desc, filter_column, filter_text, hidden_columns, page_size, updated_at
		FROM table_views
		WHERE user_id = $1 AND kind = $2
	`

	var view model.TableView
	err := r.QueryRow(ctx, query, userID, kind).Scan(
		&view.ID,
		&view.UserID,
		&view.Kind,
		&view.SortColumn,
		&view.SortDesc,
		&view.FilterColumn,
		&view.FilterText,
		&view.HiddenColumns,
		&view.PageSize,
		&view.UpdatedAt,
	)

	if err != nil {
		if base.IsNotFound(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("get table view: %w", err)
	}

	return &view, nil
}

// Upsert сохраняет настройки, по одной записи на оператора и вид таблицы
func (r *ViewRepository) Upsert(ctx context.Context, view *model.TableView) error {
	query := `
		INSERT INTO table_views (user_id, kind, sort_column, sort_desc, filter_column, filter_text, hidden_columns, page_size, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, NOW())
		ON CONFLICT (user_id, kind) DO UPDATE
		SET sort_column = EXCLUDED.sort_column,
			sort_desc = EXCLUDED.sort_desc,
			filter_column = EXCLUDED.filter_column,
			filter_text = EXCLUDED.filter_text,
			hidden_columns = EXCLUDED.hidden_columns,
			page_size = EXCLUDED.page_size,
			updated_at = NOW()
		RETURNING id, updated_at
	`

	hidden := view.HiddenColumns
	if hidden == nil {
		hidden = []string{}
	}

	err := r.QueryRow(
		ctx, query,
		view.UserID,
		view.Kind,
		view.SortColumn,
		view.SortDesc,
		view.FilterColumn,
		view.FilterText,
		hidden,
		view.PageSize,
	).Scan(&view.ID, &view.UpdatedAt)

	if err != nil {
		return fmt.Errorf("upsert table view: %w", err)
	}

	return nil
}

// DeleteOlderThan удаляет настройки, которые не менялись с указанного момента
func (r *ViewRepository) DeleteOlderThan(ctx context.Context, before time.Time) (int64, error) {
	affected, err := r.ExecAffected(ctx, `DELETE FROM table_views WHERE updated_at < $1`, before)
	if err != nil {
		return 0, fmt.Errorf("delete stale table views: %w", err)
	}
	return affected, nil
}
