package table

import (
	"context"
	"errors"
	"fmt"
)

// Backend выполняет массовые действия над заявками
type Backend interface {
	// Schedule возвращает текст ответа сервера
	Schedule(ctx context.Context, ids []int64) (string, error)
	Delete(ctx context.Context, id int64) error
}

// Loader заново загружает снимок данных
type Loader[T any] interface {
	Load(ctx context.Context) ([]T, error)
}

// LoaderFunc позволяет использовать функцию как Loader
type LoaderFunc[T any] func(ctx context.Context) ([]T, error)

func (f LoaderFunc[T]) Load(ctx context.Context) ([]T, error) {
	return f(ctx)
}

// DeleteReport - итог удаления выбранных строк
type DeleteReport struct {
	Deleted []int64
	Failed  map[int64]error
}

// Workflow связывает выбор в таблице с действиями и перезагрузкой.
// После каждого изменяющего действия снимок перезагружается ровно один раз.
type Workflow[T any] struct {
	Table   *Table[T]
	Backend Backend
	Loader  Loader[T]
	// OnItem вызывается после каждого удаления, чтобы сообщить пользователю об исходе
	OnItem func(id int64, err error)
}

// Reload сбрасывает выбор и заменяет снимок свежими данными.
// При ошибке загрузки выбор всё равно сброшен, а старый снимок остаётся.
func (w *Workflow[T]) Reload(ctx context.Context) error {
	w.Table.Invalidate()

	data, err := w.Loader.Load(ctx)
	if err != nil {
		return fmt.Errorf("reload: %w", err)
	}
	w.Table.Replace(data)
	return nil
}

// ScheduleSelected планирует выбранные заявки и перезагружает таблицу независимо от исхода
func (w *Workflow[T]) ScheduleSelected(ctx context.Context) (string, error) {
	ids := w.Table.SelectedIDs()
	if len(ids) == 0 {
		return "", ErrEmptySelection
	}

	result, err := w.Backend.Schedule(ctx, ids)
	if err != nil {
		err = fmt.Errorf("schedule %d tasks: %w", len(ids), err)
	}

	return result, errors.Join(err, w.Reload(ctx))
}

// DeleteSelected удаляет выбранные заявки по одной, строго последовательно.
// Ошибка одной заявки не прерывает остальные; перезагрузка - один раз после цикла.
func (w *Workflow[T]) DeleteSelected(ctx context.Context) (DeleteReport, error) {
	ids := w.Table.SelectedIDs()
	report := DeleteReport{Failed: make(map[int64]error)}
	if len(ids) == 0 {
		return report, ErrEmptySelection
	}

	for _, id := range ids {
		err := w.Backend.Delete(ctx, id)
		if err != nil {
			report.Failed[id] = err
		} else {
			report.Deleted = append(report.Deleted, id)
		}
		if w.OnItem != nil {
			w.OnItem(id, err)
		}
	}

	return report, w.Reload(ctx)
}
