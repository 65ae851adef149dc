package common

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRoutesMapOriginalPaths(t *testing.T) {
	paths := map[string]string{
		"/task/request":         "request",
		"/task/schedule":        "schedule",
		"/view/scheduled_tasks": "scheduled",
	}

	for path, command := range paths {
		r, ok := RouteByPath(path)
		require.True(t, ok, path)
		assert.Equal(t, command, r.Command)

		byCmd, ok := RouteByCommand("/" + command)
		require.True(t, ok)
		assert.Equal(t, path, byCmd.Path)
	}

	_, ok := RouteByCommand("nope")
	assert.False(t, ok)
}

func TestBreadcrumbs(t *testing.T) {
	assert.Equal(t, "🏠 Главная", Breadcrumbs())
	assert.Equal(t, "🏠 Главная › Заявки › Сортировка", RouteBreadcrumbs("/task/schedule", "Сортировка"))
	assert.Equal(t, "🏠 Главная › X", RouteBreadcrumbs("/unknown", "X"))
}

func TestMainMenuKeyboardHasEveryRoute(t *testing.T) {
	kb := MainMenuKeyboard()

	var callbacks []string
	for _, row := range kb.InlineKeyboard {
		assert.LessOrEqual(t, len(row), 2)
		for _, btn := range row {
			callbacks = append(callbacks, btn.CallbackData)
		}
	}

	for _, r := range Routes {
		assert.Contains(t, callbacks, r.Callback)
	}
}
