package form

import (
	"testing"

	"github.com/go-playground/validator/v10"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCustomTagsRegistered(t *testing.T) {
	for tag := range tagMessages {
		if tag == "required" {
			continue
		}
		t.Run(tag, func(t *testing.T) {
			assert.NotPanics(t, func() { _ = validate.Var("1", tag) })
		})
	}
}

func TestNewValidatorReportsRegistrationError(t *testing.T) {
	_, err := newValidator(map[string]validator.Func{
		"": func(fl validator.FieldLevel) bool { return true },
	})
	require.Error(t, err)

	assert.Panics(t, func() {
		mustValidator(map[string]validator.Func{"": nil})
	})
}
