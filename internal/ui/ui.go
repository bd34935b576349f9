package ui

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/log"

	"todos/internal/config"
	"todos/internal/todo"
)

type mode int

const (
	modeInput mode = iota
	modeList
)

type Model struct {
	ctx        context.Context
	app        *todo.App
	cfg        config.Config
	keys       keyMap
	help       help.Model
	cursor     int
	mode       mode
	input      textinput.Model
	status     string
	confirmDel bool
	pendingDel *todo.Task
}

// Run starts the interactive program on the terminal and blocks until it quits.
func Run(ctx context.Context, app *todo.App, cfg config.Config, logger *log.Logger) error {
	if logger == nil {
		logger = log.New(io.Discard)
	}
	m := NewModel(ctx, app, cfg)
	program := tea.NewProgram(m, tea.WithAltScreen(), tea.WithContext(ctx))
	logger.Debug("tui started", "filter", app.Filter(), "tasks", len(app.Tasks()))
	_, err := program.Run()
	if err != nil {
		logger.Error("tui exited", "err", err)
		return err
	}
	logger.Debug("tui stopped", "remaining", app.Remaining())
	return nil
}

// NewModel builds the program state with the input focused, like a freshly loaded page.
func NewModel(ctx context.Context, app *todo.App, cfg config.Config) Model {
	ti := textinput.New()
	ti.Placeholder = "What needs to be done?"
	ti.CharLimit = 256
	ti.Width = 40
	ti.Prompt = "❯ "
	ti.SetValue(app.Input())
	ti.Focus()

	return Model{
		ctx:    ctx,
		app:    app,
		cfg:    cfg,
		keys:   newKeyMap(cfg.Keys),
		help:   help.New(),
		mode:   modeInput,
		input:  ti,
		status: fmt.Sprintf("Type a task and press %s. %s leaves the input.", cfg.Keys.Confirm, cfg.Keys.Cancel),
	}
}

func (m Model) Init() tea.Cmd {
	return textinput.Blink
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		if m.confirmDel {
			return m.updateDeleteConfirm(msg.String())
		}
		if m.mode == modeInput {
			return m.updateInputMode(msg)
		}
		return m.updateListMode(msg)
	case tea.WindowSizeMsg:
		m.input.Width = msg.Width - 10
		m.help.Width = msg.Width
	}
	return m, nil
}

func (m Model) updateInputMode(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case msg.String() == "ctrl+c":
		return m, tea.Quit
	case key.Matches(msg, m.keys.Cancel):
		m.mode = modeList
		m.input.Blur()
		m.cursor = clampCursor(m.cursor, len(m.app.Visible()))
		m.status = ""
		return m, nil
	case key.Matches(msg, m.keys.Confirm):
		m.app.SetInput(m.input.Value())
		t, err := m.app.Submit(m.ctx)
		switch {
		case errors.Is(err, todo.ErrEmptyContent):
			m.status = "Task cannot be empty"
			return m, nil
		case err != nil:
			m.status = fmt.Sprintf("save failed: %v", err)
			return m, nil
		}
		m.input.SetValue("")
		m.status = "Added task"
		if i := indexOf(m.app.Visible(), t.ID); i >= 0 {
			m.cursor = i
		}
		return m, nil
	default:
		var cmd tea.Cmd
		m.input, cmd = m.input.Update(msg)
		m.app.SetInput(m.input.Value())
		return m, cmd
	}
}

func (m Model) updateListMode(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	visible := m.app.Visible()
	switch {
	case key.Matches(msg, m.keys.Quit):
		return m, tea.Quit
	case key.Matches(msg, m.keys.Down):
		m.cursor = clampCursor(m.cursor+1, len(visible))
	case key.Matches(msg, m.keys.Up):
		m.cursor = clampCursor(m.cursor-1, len(visible))
	case key.Matches(msg, m.keys.Add):
		m.mode = modeInput
		m.status = ""
		return m, m.input.Focus()
	case key.Matches(msg, m.keys.Toggle):
		if len(visible) == 0 {
			return m, nil
		}
		t, err := m.app.Toggle(m.ctx, visible[clampCursor(m.cursor, len(visible))].ID)
		if err != nil {
			m.status = fmt.Sprintf("toggle failed: %v", err)
			return m, nil
		}
		m.cursor = clampCursor(m.cursor+1, len(m.app.Visible()))
		m.status = fmt.Sprintf("%q marked %s", t.Content, humanDone(t.IsCompleted))
	case key.Matches(msg, m.keys.ToggleAll):
		if err := m.app.ToggleAll(m.ctx); err != nil {
			m.status = fmt.Sprintf("toggle failed: %v", err)
			return m, nil
		}
		m.cursor = clampCursor(m.cursor, len(m.app.Visible()))
		m.status = "Toggled all tasks"
	case key.Matches(msg, m.keys.Delete):
		if len(visible) == 0 {
			return m, nil
		}
		t := visible[clampCursor(m.cursor, len(visible))]
		if !m.cfg.ConfirmDelete {
			return m.deleteTask(t)
		}
		m.confirmDel = true
		m.pendingDel = &t
		m.status = fmt.Sprintf("Delete \"%s\"? y/n", t.Content)
	case key.Matches(msg, m.keys.ClearCompleted):
		removed, err := m.app.ClearCompleted(m.ctx)
		if err != nil {
			m.status = fmt.Sprintf("clear failed: %v", err)
			return m, nil
		}
		m.cursor = clampCursor(m.cursor, len(m.app.Visible()))
		m.status = fmt.Sprintf("Cleared %d completed", removed)
	case key.Matches(msg, m.keys.FilterAll):
		return m.setFilter(todo.FilterAll), nil
	case key.Matches(msg, m.keys.FilterActive):
		return m.setFilter(todo.FilterActive), nil
	case key.Matches(msg, m.keys.FilterCompleted):
		return m.setFilter(todo.FilterCompleted), nil
	case key.Matches(msg, m.keys.Help):
		m.help.ShowAll = !m.help.ShowAll
	}
	return m, nil
}

func (m Model) setFilter(f todo.Filter) Model {
	m.app.SetFilter(f)
	m.cursor = clampCursor(m.cursor, len(m.app.Visible()))
	m.status = "Showing " + strings.ToLower(f.Label())
	return m
}

func (m Model) deleteTask(t todo.Task) (tea.Model, tea.Cmd) {
	m.confirmDel = false
	m.pendingDel = nil
	if err := m.app.Delete(m.ctx, t.ID); err != nil {
		m.status = fmt.Sprintf("delete failed: %v", err)
		return m, nil
	}
	m.cursor = clampCursor(m.cursor, len(m.app.Visible()))
	m.status = "Deleted task"
	return m, nil
}

func (m Model) updateDeleteConfirm(k string) (tea.Model, tea.Cmd) {
	switch k {
	case "n", "N", "esc":
		m.status = "Delete cancelled"
		m.confirmDel = false
		m.pendingDel = nil
		return m, nil
	case "y", "Y":
		if m.pendingDel == nil {
			m.status = "Nothing to delete"
			m.confirmDel = false
			return m, nil
		}
		return m.deleteTask(*m.pendingDel)
	default:
		return m, nil
	}
}

func (m Model) View() string {
	var b strings.Builder

	b.WriteString(titleStyle.Render("todos"))
	b.WriteString("\n\n")
	b.WriteString(m.input.View())
	b.WriteString("\n\n")

	visible := m.app.Visible()
	switch {
	case len(m.app.Tasks()) == 0:
		b.WriteString(mutedStyle.Render("Nothing to do."))
		b.WriteString("\n")
	case len(visible) == 0:
		b.WriteString(mutedStyle.Render(fmt.Sprintf("No %s tasks.", strings.ToLower(m.app.Filter().Label()))))
		b.WriteString("\n")
	default:
		cursor := -1
		if m.mode == modeList {
			cursor = clampCursor(m.cursor, len(visible))
		}
		b.WriteString(renderList(visible, cursor))
	}

	b.WriteString("\n")
	b.WriteString(renderFooter(m.app.Remaining(), m.app.Selectors()))
	b.WriteString("\n\n")
	b.WriteString(m.status)
	b.WriteString("\n")
	b.WriteString(m.help.View(m.keys))

	return b.String()
}

func indexOf(tasks []todo.Task, id int64) int {
	for i, t := range tasks {
		if t.ID == id {
			return i
		}
	}
	return -1
}

func clampCursor(cur, n int) int {
	if n <= 0 {
		return 0
	}
	if cur < 0 {
		return 0
	}
	if cur >= n {
		return n - 1
	}
	return cur
}

func humanDone(done bool) string {
	if done {
		return "done"
	}
	return "pending"
}
