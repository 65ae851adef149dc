package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/Freeeeeet/blocks_bot/internal/api"
	"github.com/Freeeeeet/blocks_bot/internal/model"
	"github.com/Freeeeeet/blocks_bot/internal/table"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type fakeAPI struct {
	requested []model.RequestedTask
	updated   []model.RequestedTask
	scheduled [][]int64
	deleted   []int64
	err       error
}

func (f *fakeAPI) GetRequestedTasks(ctx context.Context) ([]model.RequestedTask, error) {
	return f.requested, f.err
}

func (f *fakeAPI) GetScheduledTasks(ctx context.Context) ([]model.ScheduledTask, error) {
	return nil, f.err
}

func (f *fakeAPI) ScheduleTasks(ctx context.Context, ids []int64) (*api.ScheduleResult, error) {
	f.scheduled = append(f.scheduled, ids)
	if f.err != nil {
		return nil, f.err
	}
	return &api.ScheduleResult{StatusCode: 200, Body: []byte(`{"scheduled": 2}`)}, nil
}

func (f *fakeAPI) RequestTask(ctx context.Context, task model.PartialRequestedTask) (*model.RequestedTask, error) {
	if f.err != nil {
		return nil, f.err
	}
	return &model.RequestedTask{ID: 77, PartialRequestedTask: task}, nil
}

func (f *fakeAPI) UpdateTask(ctx context.Context, task model.RequestedTask) (*model.RequestedTask, error) {
	f.updated = append(f.updated, task)
	if f.err != nil {
		return nil, f.err
	}
	return &task, nil
}

func (f *fakeAPI) DeleteTask(ctx context.Context, id int64) (*model.RequestedTask, error) {
	f.deleted = append(f.deleted, id)
	if f.err != nil {
		return nil, f.err
	}
	return &model.RequestedTask{ID: id}, nil
}

type fakeJournal struct {
	records []*model.ActionRecord
	err     error
}

func (j *fakeJournal) CreateBatch(ctx context.Context, records []*model.ActionRecord) error {
	if j.err != nil {
		return j.err
	}
	j.records = append(j.records, records...)
	return nil
}

func (j *fakeJournal) ListByUser(ctx context.Context, userID int64, limit int) ([]*model.ActionRecord, error) {
	var out []*model.ActionRecord
	for i := len(j.records) - 1; i >= 0 && len(out) < limit; i-- {
		if j.records[i].UserID == userID {
			out = append(out, j.records[i])
		}
	}
	return out, nil
}

func newTaskService(a *fakeAPI, j *fakeJournal) *TaskService {
	return NewTaskService(a, j, zap.NewNop())
}

func TestOperatorActionsImplementTableBackend(t *testing.T) {
	var _ table.Backend = (*OperatorActions)(nil)
}

func TestScheduleJournalsSuccess(t *testing.T) {
	a, j := &fakeAPI{}, &fakeJournal{}
	actions := newTaskService(a, j).ForOperator(5)

	text, err := actions.Schedule(context.Background(), []int64{1, 2})
	require.NoError(t, err)
	assert.Equal(t, `{"scheduled": 2}`, text)

	require.Len(t, j.records, 1)
	rec := j.records[0]
	assert.Equal(t, model.ActionSchedule, rec.Action)
	assert.Equal(t, []int64{1, 2}, rec.TaskIDs)
	assert.Equal(t, int64(5), rec.UserID)
	assert.True(t, rec.Success)
	assert.Equal(t, actions.CorrelationID(), rec.CorrelationID)
}

func TestBulkDeleteSharesCorrelationID(t *testing.T) {
	a, j := &fakeAPI{}, &fakeJournal{}
	actions := newTaskService(a, j).ForOperator(5)

	require.NoError(t, actions.Delete(context.Background(), 10))
	require.NoError(t, actions.Delete(context.Background(), 30))

	assert.Equal(t, []int64{10, 30}, a.deleted)
	require.Len(t, j.records, 2)
	assert.Equal(t, j.records[0].CorrelationID, j.records[1].CorrelationID)

	other := newTaskService(a, j).ForOperator(5)
	assert.NotEqual(t, actions.CorrelationID(), other.CorrelationID())
}

func TestFailedActionIsJournaled(t *testing.T) {
	boom := errors.New("boom")
	a, j := &fakeAPI{err: boom}, &fakeJournal{}
	actions := newTaskService(a, j).ForOperator(5)

	err := actions.Delete(context.Background(), 10)
	assert.ErrorIs(t, err, boom)

	require.Len(t, j.records, 1)
	assert.False(t, j.records[0].Success)
	assert.Equal(t, "boom", j.records[0].Error)
}

func TestJournalFailureDoesNotFailAction(t *testing.T) {
	a, j := &fakeAPI{}, &fakeJournal{err: errors.New("db down")}
	actions := newTaskService(a, j).ForOperator(5)

	created, err := actions.RequestTask(context.Background(), model.PartialRequestedTask{Department: "Engineering"})
	require.NoError(t, err)
	assert.Equal(t, int64(77), created.ID)
}

func TestUpdatePriority(t *testing.T) {
	a, j := &fakeAPI{}, &fakeJournal{}
	actions := newTaskService(a, j).ForOperator(5)

	task := model.RequestedTask{ID: 3, PartialRequestedTask: model.PartialRequestedTask{Priority: 1}}
	updated, err := actions.UpdatePriority(context.Background(), task, 4)
	require.NoError(t, err)
	assert.Equal(t, 4, updated.Priority)
	require.Len(t, a.updated, 1)
	assert.Equal(t, int64(3), a.updated[0].ID)
	assert.Equal(t, model.ActionUpdate, j.records[0].Action)
}

func TestUpdatePriorityRejectsBadInput(t *testing.T) {
	a, j := &fakeAPI{}, &fakeJournal{}
	actions := newTaskService(a, j).ForOperator(5)

	_, err := actions.UpdatePriority(context.Background(), model.RequestedTask{ID: 3}, 0)
	assert.Error(t, err)

	broken := model.RequestedTask{ID: 4, DurationErr: errors.New("bad duration")}
	_, err = actions.UpdatePriority(context.Background(), broken, 2)
	assert.Error(t, err)

	assert.Empty(t, a.updated)
	assert.Empty(t, j.records)
}

func TestHistoryNewestFirst(t *testing.T) {
	a, j := &fakeAPI{}, &fakeJournal{}
	svc := newTaskService(a, j)
	actions := svc.ForOperator(5)

	require.NoError(t, actions.Delete(context.Background(), 1))
	_, err := actions.Schedule(context.Background(), []int64{2})
	require.NoError(t, err)
	require.NoError(t, svc.ForOperator(6).Delete(context.Background(), 9))

	history, err := svc.History(context.Background(), 5, 10)
	require.NoError(t, err)
	require.Len(t, history, 2)
	assert.Equal(t, model.ActionSchedule, history[0].Action)
	assert.Equal(t, model.ActionDelete, history[1].Action)
}

type fakeViewStore struct {
	views  map[model.TableKind]*model.TableView
	before time.Time
	err    error
}

func (s *fakeViewStore) Get(ctx context.Context, userID int64, kind model.TableKind) (*model.TableView, error) {
	if s.err != nil {
		return nil, s.err
	}
	return s.views[kind], nil
}

func (s *fakeViewStore) Upsert(ctx context.Context, view *model.TableView) error {
	if s.views == nil {
		s.views = make(map[model.TableKind]*model.TableView)
	}
	s.views[view.Kind] = view
	return nil
}

func (s *fakeViewStore) DeleteOlderThan(ctx context.Context, before time.Time) (int64, error) {
	s.before = before
	return 2, nil
}

func TestViewServiceRoundTrip(t *testing.T) {
	store := &fakeViewStore{}
	svc := NewViewService(store, 10, 0, zap.NewNop())

	state, err := svc.Load(context.Background(), 1, model.TableRequested)
	require.NoError(t, err)
	assert.Equal(t, table.ViewState{PageSize: 10}, state)

	saved := table.ViewState{SortColumn: "priority", SortDesc: true, Hidden: []string{"block"}, PageSize: 5}
	require.NoError(t, svc.Save(context.Background(), 1, model.TableRequested, saved))

	state, err = svc.Load(context.Background(), 1, model.TableRequested)
	require.NoError(t, err)
	assert.Equal(t, saved, state)

	state, err = svc.Load(context.Background(), 1, model.TableScheduled)
	require.NoError(t, err)
	assert.Equal(t, 10, state.PageSize)
}

func TestViewServiceLoadErrorFallsBackToDefaults(t *testing.T) {
	svc := NewViewService(&fakeViewStore{err: errors.New("db down")}, 0, 0, zap.NewNop())

	state, err := svc.Load(context.Background(), 1, model.TableRequested)
	assert.Error(t, err)
	assert.Equal(t, table.DefaultPageSize, state.PageSize)
}

func TestViewServicePruneStale(t *testing.T) {
	store := &fakeViewStore{}
	svc := NewViewService(store, 10, 48*time.Hour, zap.NewNop())
	now := time.Date(2025, 3, 10, 12, 0, 0, 0, time.UTC)
	svc.now = func() time.Time { return now }

	removed, err := svc.PruneStale(context.Background())
	require.NoError(t, err)
	assert.Equal(t, int64(2), removed)
	assert.Equal(t, now.Add(-48*time.Hour), store.before)
}
