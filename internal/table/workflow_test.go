package table

import (
	"context"
	"errors"
	"testing"

	"github.com/Freeeeeet/blocks_bot/internal/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeBackend struct {
	scheduled [][]int64
	deleted   []int64
	failOn    map[int64]error
	schedErr  error
}

func (f *fakeBackend) Schedule(ctx context.Context, ids []int64) (string, error) {
	f.scheduled = append(f.scheduled, ids)
	if f.schedErr != nil {
		return "", f.schedErr
	}
	return "ok", nil
}

func (f *fakeBackend) Delete(ctx context.Context, id int64) error {
	f.deleted = append(f.deleted, id)
	return f.failOn[id]
}

type countingLoader struct {
	calls int
	data  []model.RequestedTask
	err   error
}

func (l *countingLoader) Load(ctx context.Context) ([]model.RequestedTask, error) {
	l.calls++
	return l.data, l.err
}

func newWorkflow(backend *fakeBackend, loader *countingLoader) *Workflow[model.RequestedTask] {
	return &Workflow[model.RequestedTask]{
		Table:   newRequested(sample()),
		Backend: backend,
		Loader:  loader,
	}
}

func TestDeleteSelectedIsSequentialWithSingleReload(t *testing.T) {
	backend := &fakeBackend{}
	loader := &countingLoader{data: sample()[1:2]}
	wf := newWorkflow(backend, loader)

	var seen []int64
	wf.OnItem = func(id int64, err error) {
		assert.NoError(t, err)
		seen = append(seen, id)
	}

	require.NoError(t, wf.Table.ToggleRow(0))
	require.NoError(t, wf.Table.ToggleRow(2))

	report, err := wf.DeleteSelected(context.Background())
	require.NoError(t, err)

	assert.Equal(t, []int64{10, 30}, backend.deleted)
	assert.Equal(t, []int64{10, 30}, seen)
	assert.Equal(t, []int64{10, 30}, report.Deleted)
	assert.Empty(t, report.Failed)
	assert.Equal(t, 1, loader.calls)
	assert.Equal(t, 1, wf.Table.Len())
	assert.Zero(t, wf.Table.SelectedCount())
}

func TestDeleteSelectedContinuesAfterFailure(t *testing.T) {
	boom := errors.New("boom")
	backend := &fakeBackend{failOn: map[int64]error{20: boom}}
	loader := &countingLoader{data: sample()}
	wf := newWorkflow(backend, loader)

	require.NoError(t, wf.Table.ToggleRow(1))
	require.NoError(t, wf.Table.ToggleRow(3))

	report, err := wf.DeleteSelected(context.Background())
	require.NoError(t, err)

	assert.Equal(t, []int64{20, 40}, backend.deleted)
	assert.Equal(t, []int64{40}, report.Deleted)
	assert.ErrorIs(t, report.Failed[20], boom)
	assert.Equal(t, 1, loader.calls)
}

func TestDeleteSelectedEmpty(t *testing.T) {
	backend := &fakeBackend{}
	loader := &countingLoader{}
	wf := newWorkflow(backend, loader)

	_, err := wf.DeleteSelected(context.Background())
	assert.ErrorIs(t, err, ErrEmptySelection)
	assert.Empty(t, backend.deleted)
	assert.Zero(t, loader.calls)
}

func TestScheduleSelectedSendsOneBatch(t *testing.T) {
	backend := &fakeBackend{}
	loader := &countingLoader{data: sample()}
	wf := newWorkflow(backend, loader)

	require.NoError(t, wf.Table.ToggleSort(ColPriority))
	require.NoError(t, wf.Table.ToggleRow(0))
	require.NoError(t, wf.Table.ToggleRow(1))

	result, err := wf.ScheduleSelected(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "ok", result)
	assert.Equal(t, [][]int64{{20, 30}}, backend.scheduled)
	assert.Equal(t, 1, loader.calls)
}

func TestScheduleSelectedReloadsOnFailure(t *testing.T) {
	boom := errors.New("boom")
	backend := &fakeBackend{schedErr: boom}
	loader := &countingLoader{data: sample()}
	wf := newWorkflow(backend, loader)
	require.NoError(t, wf.Table.ToggleRow(0))

	_, err := wf.ScheduleSelected(context.Background())
	assert.ErrorIs(t, err, boom)
	assert.Equal(t, 1, loader.calls)
	assert.Zero(t, wf.Table.SelectedCount())
}

func TestScheduleSelectedEmpty(t *testing.T) {
	backend := &fakeBackend{}
	loader := &countingLoader{}
	wf := newWorkflow(backend, loader)

	_, err := wf.ScheduleSelected(context.Background())
	assert.ErrorIs(t, err, ErrEmptySelection)
	assert.Empty(t, backend.scheduled)
	assert.Zero(t, loader.calls)
}

func TestReloadFailureKeepsSnapshot(t *testing.T) {
	loader := &countingLoader{err: errors.New("down")}
	wf := newWorkflow(&fakeBackend{}, loader)
	require.NoError(t, wf.Table.ToggleRow(0))

	err := wf.Reload(context.Background())
	assert.Error(t, err)
	assert.Equal(t, 4, wf.Table.Len())
	assert.Zero(t, wf.Table.SelectedCount())
}
