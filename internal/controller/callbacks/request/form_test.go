package request

import (
	"testing"

	"github.com/Freeeeeet/blocks_bot/internal/controller/callbacks/callbacktypes"
	"github.com/Freeeeeet/blocks_bot/internal/controller/state"
	"github.com/Freeeeeet/blocks_bot/internal/form"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

const telegramID = 777

func newHandler() *callbacktypes.Handler {
	return &callbacktypes.Handler{
		StateManager: state.NewManager(10),
		Logger:       zap.NewNop(),
	}
}

func TestFieldInputStoresValidValue(t *testing.T) {
	h := newHandler()
	h.StateManager.SetState(telegramID, state.StateFormField)
	h.StateManager.SetData(telegramID, state.KeyFormField, form.FieldDepartment)

	text, kb, err := FieldInput(h, telegramID, "  Signals & Telecom ")
	require.NoError(t, err)
	require.NotNil(t, kb)
	assert.Contains(t, text, "<b>Отдел</b>: Signals &amp; Telecom")

	values := h.StateManager.Session(telegramID).Form.Values()
	assert.Equal(t, "Signals & Telecom", values.Department)
}

func TestFieldInputRejectsInvalidValue(t *testing.T) {
	h := newHandler()
	h.StateManager.SetData(telegramID, state.KeyFormField, form.FieldPriority)

	_, _, err := FieldInput(h, telegramID, "0")

	var verr *form.ValidationError
	require.ErrorAs(t, err, &verr)
	assert.Contains(t, verr.Fields, form.FieldPriority)
	assert.Equal(t, "1", h.StateManager.Session(telegramID).Form.Values().Priority)
}

func TestFieldInputWithoutField(t *testing.T) {
	_, _, err := FieldInput(newHandler(), telegramID, "x")
	assert.Error(t, err)
}
