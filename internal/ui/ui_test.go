package ui

import (
	"context"
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"todos/internal/config"
	"todos/internal/todo"
)

type memSlot map[string]string

func (s memSlot) Get(_ context.Context, key string) (string, bool, error) {
	v, ok := s[key]
	return v, ok, nil
}

func (s memSlot) Set(_ context.Context, key, value string) error {
	s[key] = value
	return nil
}

func testConfig() config.Config {
	return config.Config{
		ConfirmDelete: true,
		Keys: config.Keymap{
			Quit:            "q",
			Add:             "a",
			Up:              "k",
			Down:            "j",
			Toggle:          " ",
			ToggleAll:       "t",
			Delete:          "d",
			ClearCompleted:  "c",
			FilterAll:       "1",
			FilterActive:    "2",
			FilterCompleted: "3",
			Confirm:         "enter",
			Cancel:          "esc",
			Help:            "?",
		},
	}
}

func newTestModel(t *testing.T) (Model, *todo.App) {
	t.Helper()
	ctx := context.Background()
	app, err := todo.New(ctx, memSlot{})
	require.NoError(t, err)
	return NewModel(ctx, app, testConfig()), app
}

func keyPress(s string) tea.KeyMsg {
	switch s {
	case "enter":
		return tea.KeyMsg{Type: tea.KeyEnter}
	case "esc":
		return tea.KeyMsg{Type: tea.KeyEsc}
	case " ":
		return tea.KeyMsg{Type: tea.KeySpace, Runes: []rune{' '}}
	}
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

func press(t *testing.T, m Model, keys ...string) Model {
	t.Helper()
	for _, k := range keys {
		next, _ := m.Update(keyPress(k))
		var ok bool
		m, ok = next.(Model)
		require.True(t, ok)
	}
	return m
}

func typeText(t *testing.T, m Model, text string) Model {
	t.Helper()
	for _, r := range text {
		m = press(t, m, string(r))
	}
	return m
}

func TestModel_StartsInInput(t *testing.T) {
	m, _ := newTestModel(t)
	assert.Equal(t, modeInput, m.mode)

	view := m.View()
	assert.Contains(t, view, "todos")
	assert.Contains(t, view, "Learn JavaScript")
	assert.Contains(t, view, "3 items left")
}

func TestModel_TypingFillsBuffer(t *testing.T) {
	m, app := newTestModel(t)
	m = typeText(t, m, "qjd")
	assert.Equal(t, "qjd", app.Input(), "list keys are plain text while the input is focused")
	assert.Len(t, app.Tasks(), 3)
}

func TestModel_SubmitTask(t *testing.T) {
	m, app := newTestModel(t)
	m = typeText(t, m, "Buy milk")
	m = press(t, m, "enter")

	tasks := app.Tasks()
	require.Len(t, tasks, 4)
	assert.Equal(t, "Buy milk", tasks[3].Content)
	assert.Empty(t, m.input.Value())
	assert.Empty(t, app.Input())
	assert.Equal(t, "Added task", m.status)
	assert.Contains(t, m.View(), "4 items left")
}

func TestModel_SubmitEmpty(t *testing.T) {
	m, app := newTestModel(t)
	m = press(t, m, "enter")

	assert.Len(t, app.Tasks(), 3)
	assert.Equal(t, "Task cannot be empty", m.status)
}

func TestModel_SubmitKeepsWhitespace(t *testing.T) {
	m, app := newTestModel(t)
	m = typeText(t, m, "  Buy milk ")
	m = press(t, m, "enter")

	tasks := app.Tasks()
	require.Len(t, tasks, 4)
	assert.Equal(t, "  Buy milk ", tasks[3].Content)

	m = typeText(t, m, "   ")
	m = press(t, m, "enter")
	require.Len(t, app.Tasks(), 5)
	assert.Equal(t, "   ", app.Tasks()[4].Content)
	assert.Equal(t, "Added task", m.status)
}

func TestModel_ToggleAndFilter(t *testing.T) {
	m, app := newTestModel(t)
	m = press(t, m, "esc", " ")
	assert.Equal(t, modeList, m.mode)
	assert.Equal(t, 2, app.Remaining())
	assert.Contains(t, m.View(), "2 items left")

	m = press(t, m, "3")
	assert.Equal(t, todo.FilterCompleted, app.Filter())
	view := m.View()
	assert.Contains(t, view, "Learn JavaScript")
	assert.NotContains(t, view, "Learn React")

	m = press(t, m, "2")
	view = m.View()
	assert.NotContains(t, view, "Learn JavaScript")
	assert.Contains(t, view, "Learn React")

	m = press(t, m, "1")
	assert.Contains(t, m.View(), "Learn JavaScript")
}

func TestModel_ItemLeftSingular(t *testing.T) {
	m, _ := newTestModel(t)
	m = press(t, m, "esc", "t")
	m = press(t, m, "j", " ")
	assert.Contains(t, m.View(), "1 item left")
}

func TestModel_DeleteWithConfirm(t *testing.T) {
	m, app := newTestModel(t)
	m = press(t, m, "esc", "j", "d")
	assert.True(t, m.confirmDel)
	assert.Contains(t, m.status, "Learn React")

	m = press(t, m, "n")
	assert.False(t, m.confirmDel)
	assert.Len(t, app.Tasks(), 3)

	m = press(t, m, "d", "y")
	assert.Equal(t, "Deleted task", m.status)
	for _, task := range app.Tasks() {
		assert.NotEqual(t, "Learn React", task.Content)
	}
	assert.Len(t, app.Tasks(), 2)
}

func TestModel_DeleteWithoutConfirm(t *testing.T) {
	ctx := context.Background()
	app, err := todo.New(ctx, memSlot{})
	require.NoError(t, err)
	cfg := testConfig()
	cfg.ConfirmDelete = false
	m := NewModel(ctx, app, cfg)

	m = press(t, m, "esc", "d")
	assert.False(t, m.confirmDel)
	assert.Len(t, app.Tasks(), 2)
}

func TestModel_ClearCompleted(t *testing.T) {
	m, app := newTestModel(t)
	m = press(t, m, "esc", " ", " ", "c")
	assert.Equal(t, []string{"Have a life!"}, []string{app.Tasks()[0].Content})
	assert.Len(t, app.Tasks(), 1)
	assert.Equal(t, "Cleared 2 completed", m.status)
}

func TestModel_BackToInput(t *testing.T) {
	m, _ := newTestModel(t)
	m = press(t, m, "esc", "a")
	assert.Equal(t, modeInput, m.mode)
}

func TestModel_Quit(t *testing.T) {
	m, _ := newTestModel(t)
	m = press(t, m, "esc")
	_, cmd := m.Update(keyPress("q"))
	require.NotNil(t, cmd)
	assert.Equal(t, tea.QuitMsg{}, cmd())
}

func TestRenderItem(t *testing.T) {
	active := renderItem(todo.Task{ID: 1, Content: "Write tests"}, false)
	assert.Contains(t, active, "[ ] Write tests")
	assert.NotContains(t, active, "×")

	done := renderItem(todo.Task{ID: 2, Content: "Ship", IsCompleted: true}, true)
	assert.Contains(t, done, "[x]")
	assert.Contains(t, done, "Ship")
	assert.Contains(t, done, "×")
}

func TestRenderList(t *testing.T) {
	out := renderList(todo.Seed(), -1)
	lines := strings.Split(strings.TrimRight(out, "\n"), "\n")
	require.Len(t, lines, 3)
	assert.Contains(t, lines[0], "Learn JavaScript")
	assert.Contains(t, lines[2], "Have a life!")
	assert.Empty(t, renderList(nil, 0))
}

func TestRenderCount(t *testing.T) {
	assert.Equal(t, "0 items left", renderCount(0))
	assert.Equal(t, "1 item left", renderCount(1))
	assert.Equal(t, "4 items left", renderCount(4))
}

func TestRenderFooter(t *testing.T) {
	out := renderFooter(2, todo.Selectors(todo.FilterActive))
	for _, want := range []string{"2 items left", "All", "Active", "Completed", "Clear completed"} {
		assert.Contains(t, out, want)
	}
}
