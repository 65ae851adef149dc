package common

import (
	"errors"
	"fmt"
	"strings"
	"testing"
	"time"

	"github.com/Freeeeeet/blocks_bot/internal/api"
	"github.com/Freeeeeet/blocks_bot/internal/form"
	"github.com/Freeeeeet/blocks_bot/internal/model"
	"github.com/Freeeeeet/blocks_bot/internal/table"
	"github.com/go-telegram/bot/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func requestedScreen(tasks ...model.RequestedTask) TableScreen[model.RequestedTask] {
	tb := table.New(table.RequestedColumns(), table.TaskID)
	tb.SetPageSize(2)
	tb.Replace(tasks)
	return TableScreen[model.RequestedTask]{
		Kind:    model.TableRequested,
		Path:    PathSchedule,
		Title:   "Заявки",
		Table:   tb,
		ID:      table.TaskID,
		Errored: func(t model.RequestedTask) bool { return t.HasDurationError() },
	}
}

func rt(id int64, dept string) model.RequestedTask {
	t := model.RequestedTask{ID: id}
	t.Department = dept
	t.Priority = int(id)
	return t
}

func callbacks(kb *models.InlineKeyboardMarkup) []string {
	var out []string
	for _, row := range kb.InlineKeyboard {
		for _, btn := range row {
			out = append(out, btn.CallbackData)
		}
	}
	return out
}

func TestTableScreenBuild(t *testing.T) {
	bad := rt(3, "<Track>")
	bad.DurationErr = errors.New("bad duration")
	scr := requestedScreen(rt(1, "Engineering"), rt(2, "Signals"), bad)

	require.NoError(t, scr.Table.ToggleRow(1))

	text, kb := scr.Build()
	assert.Contains(t, text, "🏠 Главная › Заявки")
	assert.Contains(t, text, "Всего: 3 · показано: 3 · выбрано: 1")
	assert.Contains(t, text, "⬜ <b>#1</b>")
	assert.Contains(t, text, "☑️ <b>#2</b>")

	cbs := callbacks(kb)
	assert.Contains(t, cbs, "tbl:requested:row:0")
	assert.Contains(t, cbs, "tbl:requested:row:1")
	assert.Contains(t, cbs, "tbl:requested:page:1")
	assert.Contains(t, cbs, "tbl:requested:schedule")
	assert.Contains(t, cbs, "tbl:requested:delete")
	assert.Contains(t, cbs, "back_to_main")
	assert.NotContains(t, cbs, "tbl:requested:row:2", "вторая страница не показывается")

	scr.Table.SetPage(1)
	text, _ = scr.Build()
	assert.Contains(t, text, "⬜⚠️ <b>#3</b>")
	assert.Contains(t, text, "&lt;Track&gt;")
	assert.NotContains(t, text, "<Track>")
}

func TestTableScreenShowsFilterAndSort(t *testing.T) {
	scr := requestedScreen(rt(1, "Engineering"), rt(2, "Signals"))
	require.NoError(t, scr.Table.SetFilter(table.ColDepartment, "sig"))
	require.NoError(t, scr.Table.SetSort(table.ColPriority, true))

	text, _ := scr.Build()
	assert.Contains(t, text, "🔎 Отдел содержит «sig»")
	assert.Contains(t, text, "↕️ Приоритет ↓")
	assert.Contains(t, text, "показано: 1")
}

func TestTableScreenEmpty(t *testing.T) {
	text, kb := requestedScreen().Build()
	assert.Contains(t, text, "Нет данных.")
	assert.NotContains(t, callbacks(kb), "tbl:requested:pagesel")
}

func TestSortMenuListsOnlySortableColumns(t *testing.T) {
	scr := requestedScreen(rt(1, "a"))

	_, kb := scr.BuildSortMenu()
	cbs := callbacks(kb)
	assert.Contains(t, cbs, "tbl:requested:sort:id")
	assert.Contains(t, cbs, "tbl:requested:sort:priority")
	assert.NotContains(t, cbs, "tbl:requested:sort:department")
	assert.NotContains(t, cbs, "tbl:requested:sort:-")
	assert.Contains(t, cbs, "tbl:requested:view")

	require.NoError(t, scr.Table.SetSort(table.ColID, false))
	_, kb = scr.BuildSortMenu()
	assert.Contains(t, callbacks(kb), "tbl:requested:sort:-")
}

func TestColumnsMenuSkipsFixedColumns(t *testing.T) {
	scr := requestedScreen(rt(1, "a"))
	require.NoError(t, scr.Table.ToggleColumn(table.ColDEN))

	_, kb := scr.BuildColumnsMenu()
	cbs := callbacks(kb)
	assert.NotContains(t, cbs, "tbl:requested:col:id")

	var denText string
	for _, row := range kb.InlineKeyboard {
		for _, btn := range row {
			if btn.CallbackData == "tbl:requested:col:den" {
				denText = btn.Text
			}
		}
	}
	assert.Equal(t, "🚫 DEN", denText)
}

func TestDeleteConfirm(t *testing.T) {
	scr := requestedScreen(rt(1, "a"))

	text, kb := scr.BuildDeleteConfirm([]int64{4, 9})
	assert.Contains(t, text, "Удалить 2 заявки: #4, #9?")
	assert.Equal(t, []string{"tbl:requested:delconfirm", "tbl:requested:view"}, callbacks(kb))
}

func TestFormatDeleteReport(t *testing.T) {
	assert.Equal(t, "🗑 Удалено: 2", FormatDeleteReport(table.DeleteReport{Deleted: []int64{1, 2}}, nil))
	assert.Equal(t, "🗑 Удалено: 1, с ошибкой: 1", FormatDeleteReport(table.DeleteReport{
		Deleted: []int64{1},
		Failed:  map[int64]error{2: errors.New("x")},
	}, nil))
}

func TestFormatDeleteReportWithFailedReload(t *testing.T) {
	reloadErr := fmt.Errorf("reload: %w", &api.TransportError{StatusCode: 502})

	text := FormatDeleteReport(table.DeleteReport{Deleted: []int64{1}}, reloadErr)
	assert.Equal(t, "🗑 Удалено: 1\n⚠️ Таблица не обновлена: ❌ Сервер планирования ответил ошибкой (HTTP 502)", text)
}

func TestRequestFormScreen(t *testing.T) {
	values := form.Defaults(time.Date(2025, 3, 1, 0, 0, 0, 0, time.UTC))

	text, kb := BuildRequestFormScreen(values, false)
	assert.Contains(t, text, "<b>Дата</b>: 2025-03-01")
	cbs := callbacks(kb)
	for _, f := range form.Fields {
		assert.Contains(t, cbs, "form:edit:"+f.Key)
	}
	assert.Contains(t, cbs, "form:submit")

	text, kb = BuildRequestFormScreen(values, true)
	assert.Contains(t, text, "отправляется")
	assert.NotContains(t, callbacks(kb), "form:submit")
}

func TestHistoryScreen(t *testing.T) {
	records := []*model.ActionRecord{
		{Action: model.ActionDelete, TaskIDs: []int64{5}, Success: false, Error: strings.Repeat("x", 200)},
		{Action: model.ActionSchedule, TaskIDs: []int64{1, 2}, Success: true},
	}

	text, _ := BuildHistoryScreen(records)
	assert.Contains(t, text, "#1, #2")
	assert.Contains(t, text, "…")

	empty, _ := BuildHistoryScreen(nil)
	assert.Contains(t, empty, "Действий пока не было.")
}
