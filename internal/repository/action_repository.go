package repository

import (
	"context"
	"fmt"

	"github.com/Freeeeeet/blocks_bot/internal/model"
	"github.com/Freeeeeet/blocks_bot/internal/repository/base"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// ActionRepository - журнал действий операторов
type ActionRepository struct {
	*base.Repository
}

func NewActionRepository(pool *pgxpool.Pool) *ActionRepository {
	return &ActionRepository{Repository: base.NewRepository(pool)}
}

// CreateBatch записывает все записи одного действия в одной транзакции
func (r *ActionRepository) CreateBatch(ctx context.Context, records []*model.ActionRecord) error {
	if len(records) == 0 {
		return nil
	}

	query := `
		INSERT INTO action_records (correlation_id, user_id, action, task_ids, success, error)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING id, created_at
	`

	err := r.InTx(ctx, func(tx pgx.Tx) error {
		for _, rec := range records {
			taskIDs := rec.TaskIDs
			if taskIDs == nil {
				taskIDs = []int64{}
			}

			err := tx.QueryRow(
				ctx, query,
				rec.CorrelationID,
				rec.UserID,
				rec.Action,
				taskIDs,
				rec.Success,
				rec.Error,
			).Scan(&rec.ID, &rec.CreatedAt)
			if err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return fmt.Errorf("create action records: %w", err)
	}

	return nil
}

// ListByUser возвращает последние действия оператора, новые первыми
func (r *ActionRepository) ListByUser(ctx context.Context, userID int64, limit int) ([]*model.ActionRecord, error) {
	query := `
		SELECT id, correlation_id, user_id, action, task_ids, success, error, created_at
		FROM action_records
		WHERE user_id = $1
		ORDER BY created_at DESC, id DESC
		LIMIT $2
	`

	rows, err := r.Query(ctx, query, userID, limit)
	if err != nil {
		return nil, fmt.Errorf("list action records: %w", err)
	}
	defer rows.Close()

	var records []*model.ActionRecord
	for rows.Next() {
		var rec model.ActionRecord
		err := rows.Scan(
			&rec.ID,
			&rec.CorrelationID,
			&rec.UserID,
			&rec.Action,
			&rec.TaskIDs,
			&rec.Success,
			&rec.Error,
			&rec.CreatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("scan action record: %w", err)
		}
		records = append(records, &rec)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate action records: %w", err)
	}

	return records, nil
}
