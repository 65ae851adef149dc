package form

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/Freeeeeet/blocks_bot/internal/duration"
	"github.com/Freeeeeet/blocks_bot/internal/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var fixedNow = func() time.Time { return time.Date(2025, 3, 1, 10, 0, 0, 0, time.UTC) }

type fakeRequester struct {
	calls []model.PartialRequestedTask
	err   error
}

func (f *fakeRequester) RequestTask(ctx context.Context, task model.PartialRequestedTask) (*model.RequestedTask, error) {
	f.calls = append(f.calls, task)
	if f.err != nil {
		return nil, f.err
	}
	return &model.RequestedTask{ID: int64(len(f.calls)), PartialRequestedTask: task}, nil
}

func TestDefaultsAreValid(t *testing.T) {
	assert.NoError(t, Validate(Defaults(fixedNow())))
}

func TestValidateReportsEveryBadField(t *testing.T) {
	v := Defaults(fixedNow())
	v.Department = ""
	v.Location = "   "
	v.PreferredStartsAt = "25:00"
	v.RequestedDate = "tomorrow"
	v.RequestedDuration = "-5"
	v.Priority = "0"
	v.SectionID = "abc"

	err := Validate(v)
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrValidation))

	var verr *ValidationError
	require.True(t, errors.As(err, &verr))

	for _, key := range []string{
		FieldDepartment, FieldLocation, FieldPreferredStartsAt, FieldRequestedDate,
		FieldRequestedDuration, FieldPriority, FieldSectionID,
	} {
		assert.Contains(t, verr.Fields, key)
	}
	assert.NotContains(t, verr.Fields, FieldDEN)
	assert.NotContains(t, verr.Fields, FieldPreferredEndsAt)
}

func TestValidateField(t *testing.T) {
	assert.NoError(t, ValidateField(FieldRequestedDuration, "0"))
	assert.NoError(t, ValidateField(FieldRequestedDuration, "90"))
	assert.ErrorIs(t, ValidateField(FieldRequestedDuration, "1.5"), ErrValidation)
	assert.ErrorIs(t, ValidateField(FieldPriority, "-1"), ErrValidation)
	assert.NoError(t, ValidateField(FieldPriority, "3"))
	assert.NoError(t, ValidateField(FieldRequestedDate, "01.03.2025"))
	assert.NoError(t, ValidateField(FieldPreferredEndsAt, "23:59:30"))
	assert.ErrorIs(t, ValidateField(FieldDEN, " "), ErrValidation)

	err := ValidateField("colour", "red")
	require.Error(t, err)
	assert.False(t, errors.Is(err, ErrValidation))
}

func TestNormalize(t *testing.T) {
	v := Defaults(fixedNow())
	v.PreferredStartsAt = "8:30"
	v.PreferredEndsAt = "12:00:15"
	v.RequestedDate = "05.03.2025"
	v.RequestedDuration = "90"
	v.Priority = "2"
	v.SectionID = "4"

	task, err := Normalize(v)
	require.NoError(t, err)

	assert.Equal(t, "08:30:00", task.PreferredStartsAt)
	assert.Equal(t, "12:00:15", task.PreferredEndsAt)
	assert.Equal(t, "2025-03-05", task.RequestedDate)
	assert.Equal(t, duration.Minutes(90), task.RequestedDuration)
	assert.Equal(t, 2, task.Priority)
	assert.Equal(t, int64(4), task.SectionID)
}

func TestSubmitBlockedByValidation(t *testing.T) {
	f := New(fixedNow)
	v := f.Values()
	v.Department = ""
	f.values = v

	r := &fakeRequester{}
	_, err := f.Submit(context.Background(), r)

	assert.ErrorIs(t, err, ErrValidation)
	assert.Empty(t, r.calls, "validation failure must not reach the API")
	assert.Equal(t, StateEditing, f.State())
}

func TestSubmitSuccessResetsForm(t *testing.T) {
	f := New(fixedNow)
	require.NoError(t, f.Set(FieldDepartment, "Signals"))
	require.NoError(t, f.Set(FieldRequestedDuration, "90"))

	r := &fakeRequester{}
	created, err := f.Submit(context.Background(), r)
	require.NoError(t, err)

	require.Len(t, r.calls, 1)
	assert.Equal(t, "Signals", r.calls[0].Department)
	assert.Equal(t, "00:00:00", r.calls[0].PreferredStartsAt)
	assert.Equal(t, "23:59:00", r.calls[0].PreferredEndsAt)
	assert.Equal(t, "2025-03-01", r.calls[0].RequestedDate)
	assert.Equal(t, duration.Minutes(90), created.RequestedDuration)

	assert.Equal(t, Defaults(fixedNow()), f.Values())
	assert.Equal(t, StateEditing, f.State())
}

func TestSubmitFailureKeepsValues(t *testing.T) {
	f := New(fixedNow)
	require.NoError(t, f.Set(FieldBlock, "BKN-XYZ"))

	r := &fakeRequester{err: errors.New("connection refused")}
	_, err := f.Submit(context.Background(), r)
	require.Error(t, err)

	assert.Equal(t, "BKN-XYZ", f.Values().Block)
	assert.Equal(t, StateEditing, f.State())
}

func TestSetRejectsInvalidValue(t *testing.T) {
	f := New(fixedNow)
	err := f.Set(FieldSectionID, "0")
	assert.ErrorIs(t, err, ErrValidation)
	assert.Equal(t, "1", f.Values().SectionID)
}

func TestSubmitWhileSubmitting(t *testing.T) {
	f := New(fixedNow)
	f.state = StateSubmitting

	_, err := f.Submit(context.Background(), &fakeRequester{})
	assert.ErrorIs(t, err, ErrBusy)
}
