package tasks

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/Freeeeeet/blocks_bot/internal/api"
	"github.com/Freeeeeet/blocks_bot/internal/controller/callbacks/callbacktypes"
	"github.com/Freeeeeet/blocks_bot/internal/controller/state"
	"github.com/Freeeeeet/blocks_bot/internal/duration"
	"github.com/Freeeeeet/blocks_bot/internal/model"
	"github.com/Freeeeeet/blocks_bot/internal/service"
	"github.com/Freeeeeet/blocks_bot/internal/table"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

const telegramID = 555

type fakeAPI struct {
	requested []model.RequestedTask
	scheduled []model.ScheduledTask
	updated   []model.RequestedTask
	loads     int
}

func (f *fakeAPI) GetRequestedTasks(ctx context.Context) ([]model.RequestedTask, error) {
	f.loads++
	return f.requested, nil
}

func (f *fakeAPI) GetScheduledTasks(ctx context.Context) ([]model.ScheduledTask, error) {
	f.loads++
	return f.scheduled, nil
}

func (f *fakeAPI) ScheduleTasks(ctx context.Context, ids []int64) (*api.ScheduleResult, error) {
	return &api.ScheduleResult{StatusCode: 200, Body: []byte("ok")}, nil
}

func (f *fakeAPI) RequestTask(ctx context.Context, task model.PartialRequestedTask) (*model.RequestedTask, error) {
	return &model.RequestedTask{ID: 1, PartialRequestedTask: task}, nil
}

func (f *fakeAPI) UpdateTask(ctx context.Context, task model.RequestedTask) (*model.RequestedTask, error) {
	f.updated = append(f.updated, task)
	for i := range f.requested {
		if f.requested[i].ID == task.ID {
			f.requested[i] = task
		}
	}
	return &task, nil
}

func (f *fakeAPI) DeleteTask(ctx context.Context, id int64) (*model.RequestedTask, error) {
	return &model.RequestedTask{ID: id}, nil
}

type fakeJournal struct {
	records []*model.ActionRecord
}

func (j *fakeJournal) CreateBatch(ctx context.Context, records []*model.ActionRecord) error {
	j.records = append(j.records, records...)
	return nil
}

func (j *fakeJournal) ListByUser(ctx context.Context, userID int64, limit int) ([]*model.ActionRecord, error) {
	return j.records, nil
}

type fakeViews struct {
	saved []*model.TableView
	err   error
}

func (v *fakeViews) Get(ctx context.Context, userID int64, kind model.TableKind) (*model.TableView, error) {
	return nil, v.err
}

func (v *fakeViews) Upsert(ctx context.Context, view *model.TableView) error {
	if v.err != nil {
		return v.err
	}
	v.saved = append(v.saved, view)
	return nil
}

func (v *fakeViews) DeleteOlderThan(ctx context.Context, before time.Time) (int64, error) {
	return 0, nil
}

type env struct {
	h       *callbacktypes.Handler
	api     *fakeAPI
	journal *fakeJournal
	views   *fakeViews
	user    *model.User
}

func newEnv() *env {
	a := &fakeAPI{requested: []model.RequestedTask{
		rtask(1, 3, "Engineering"),
		rtask(2, 1, "Signals"),
		rtask(3, 2, "Track"),
	}}
	j := &fakeJournal{}
	v := &fakeViews{}
	logger := zap.NewNop()

	return &env{
		h: &callbacktypes.Handler{
			TaskService:  service.NewTaskService(a, j, logger),
			ViewService:  service.NewViewService(v, 10, time.Hour, logger),
			StateManager: state.NewManager(10),
			Logger:       logger,
		},
		api:     a,
		journal: j,
		views:   v,
		user:    &model.User{ID: 42, TelegramID: telegramID},
	}
}

func rtask(id int64, priority int, dept string) model.RequestedTask {
	t := model.RequestedTask{ID: id}
	t.Priority = priority
	t.Department = dept
	t.RequestedDuration = duration.Minutes(60)
	return t
}

func TestOpenLoadsSnapshotAndAppliesStoredView(t *testing.T) {
	e := newEnv()

	text, kb, err := Open(context.Background(), e.h, e.user.ID, telegramID, model.TableRequested)
	require.NoError(t, err)
	require.NotNil(t, kb)
	assert.Contains(t, text, "Всего: 3")
	assert.Equal(t, 1, e.api.loads)

	sess := e.h.StateManager.Session(telegramID)
	assert.True(t, sess.ViewLoaded(model.TableRequested))
	assert.False(t, sess.ViewLoaded(model.TableScheduled))
}

func TestOpenFallsBackToDefaultsWhenViewStoreFails(t *testing.T) {
	e := newEnv()
	e.views.err = errors.New("db down")

	text, _, err := Open(context.Background(), e.h, e.user.ID, telegramID, model.TableRequested)
	require.NoError(t, err)
	assert.Contains(t, text, "Всего: 3")
}

func TestOpenUnknownKind(t *testing.T) {
	e := newEnv()

	_, _, err := Open(context.Background(), e.h, e.user.ID, telegramID, model.TableKind("nope"))
	assert.Error(t, err)
}

func TestFilterInputAppliesAndSavesView(t *testing.T) {
	e := newEnv()
	ctx := context.Background()
	_, _, err := Open(ctx, e.h, e.user.ID, telegramID, model.TableRequested)
	require.NoError(t, err)

	e.h.StateManager.SetState(telegramID, state.StateTableFilter)
	e.h.StateManager.SetData(telegramID, state.KeyTableKind, model.TableRequested)
	e.h.StateManager.SetData(telegramID, state.KeyFilterColumn, table.ColDepartment)

	text, _, err := FilterInput(ctx, e.h, e.user, telegramID, "sig")
	require.NoError(t, err)
	assert.Contains(t, text, "показано: 1")

	require.Len(t, e.views.saved, 1)
	assert.Equal(t, table.ColDepartment, e.views.saved[0].FilterColumn)
	assert.Equal(t, "sig", e.views.saved[0].FilterText)
	assert.Equal(t, e.user.ID, e.views.saved[0].UserID)
}

func TestFilterInputWithoutDialogData(t *testing.T) {
	e := newEnv()

	_, _, err := FilterInput(context.Background(), e.h, e.user, telegramID, "x")
	assert.Error(t, err)
}

func TestPriorityInputRejectsBadValue(t *testing.T) {
	e := newEnv()

	for _, in := range []string{"abc", "0", "-3", ""} {
		_, _, err := PriorityInput(context.Background(), e.h, e.user, telegramID, in)
		assert.ErrorIs(t, err, service.ErrInvalidPriority, in)
	}
	assert.Empty(t, e.api.updated)
}

func TestPriorityInputUpdatesAndReloads(t *testing.T) {
	e := newEnv()
	ctx := context.Background()
	_, _, err := Open(ctx, e.h, e.user.ID, telegramID, model.TableRequested)
	require.NoError(t, err)

	e.h.StateManager.SetState(telegramID, state.StateEditPriority)
	e.h.StateManager.SetData(telegramID, state.KeyTaskID, int64(2))

	_, _, err = PriorityInput(ctx, e.h, e.user, telegramID, " 7 ")
	require.NoError(t, err)

	require.Len(t, e.api.updated, 1)
	assert.Equal(t, int64(2), e.api.updated[0].ID)
	assert.Equal(t, 7, e.api.updated[0].Priority)
	assert.Equal(t, 2, e.api.loads, "после изменения таблица перезагружается")

	require.Len(t, e.journal.records, 1)
	assert.Equal(t, model.ActionUpdate, e.journal.records[0].Action)
	assert.True(t, e.journal.records[0].Success)

	task, ok := findTask(e.h.StateManager.Session(telegramID).Requested, 2)
	require.True(t, ok)
	assert.Equal(t, 7, task.Priority)
}

func TestPriorityInputUnknownTask(t *testing.T) {
	e := newEnv()
	e.h.StateManager.SetData(telegramID, state.KeyTaskID, int64(99))

	_, _, err := PriorityInput(context.Background(), e.h, e.user, telegramID, "3")
	assert.Error(t, err)
	assert.Empty(t, e.api.updated)
}

func TestScheduledScreenListsSlots(t *testing.T) {
	e := newEnv()
	st := model.ScheduledTask{RequestedTask: rtask(9, 1, "Engineering")}
	st.Slots = []model.Slot{{ID: 1, StartsAt: "2025-03-01T08:00:00", EndsAt: "2025-03-01T09:30:00", SectionID: 4}}
	e.api.scheduled = []model.ScheduledTask{st}

	text, kb, err := Open(context.Background(), e.h, e.user.ID, telegramID, model.TableScheduled)
	require.NoError(t, err)
	assert.Contains(t, text, "🕒 01.03 08:00-09:30 · секция 4")

	var week bool
	for _, row := range kb.InlineKeyboard {
		for _, btn := range row {
			if btn.CallbackData == "tbl:scheduled:week:0" {
				week = true
			}
		}
	}
	assert.True(t, week)
}
