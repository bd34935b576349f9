package todo

import (
	"context"
	"errors"
	"fmt"
	"io"
	"sync"

	"github.com/charmbracelet/log"
)

// DefaultKey is the storage key the task list is kept under.
const DefaultKey = "todoapp.todos"

var (
	ErrEmptyContent = errors.New("task content is empty")
	ErrNotFound     = errors.New("task not found")
)

// Slot is the durable key/value storage the controller persists into.
type Slot interface {
	Get(ctx context.Context, key string) (string, bool, error)
	Set(ctx context.Context, key, value string) error
}

// Option configures an App.
type Option func(*App)

// WithKey overrides the storage key.
func WithKey(key string) Option {
	return func(a *App) {
		if key != "" {
			a.key = key
		}
	}
}

// WithLogger sets the logger used for recoverable load problems and mutations.
func WithLogger(logger *log.Logger) Option {
	return func(a *App) {
		if logger != nil {
			a.logger = logger
		}
	}
}

// WithFilter sets the initial filter.
func WithFilter(f Filter) Option {
	return func(a *App) {
		a.filter = ParseFilter(string(f))
	}
}

// App owns the task list, the input buffer and the active filter.
// Every mutation is written to the slot before it becomes visible.
type App struct {
	mu     sync.Mutex
	slot   Slot
	key    string
	logger *log.Logger

	tasks  []Task
	input  string
	filter Filter
	nextID int64
}

// New loads the task list from slot, falling back to Seed when nothing
// usable is stored, and writes the initial list back. When the slot cannot
// be read the seed is kept in memory only and the stored value is left alone.
func New(ctx context.Context, slot Slot, opts ...Option) (*App, error) {
	if slot == nil {
		return nil, errors.New("storage slot is nil")
	}
	a := &App{
		slot:   slot,
		key:    DefaultKey,
		logger: log.New(io.Discard),
		filter: FilterAll,
	}
	for _, opt := range opts {
		opt(a)
	}

	tasks, readErr := a.load(ctx)
	next, renumbered := dedupeIDs(tasks)
	if renumbered > 0 {
		a.logger.Warn("renumbered task ids", "count", renumbered)
	}
	if readErr == nil {
		if err := a.persist(ctx, tasks); err != nil {
			return nil, err
		}
	}
	a.tasks = tasks
	a.nextID = next
	a.logger.Info("task list loaded", "key", a.key, "tasks", len(tasks), "remaining", Remaining(tasks))
	return a, nil
}

// load returns the stored list or the seed. The error is non-nil only when
// the slot itself could not be read.
func (a *App) load(ctx context.Context) ([]Task, error) {
	data, ok, err := a.slot.Get(ctx, a.key)
	if err != nil {
		a.logger.Warn("read stored tasks; using seed without saving", "key", a.key, "err", err)
		return Seed(), err
	}
	if !ok {
		a.logger.Debug("no stored tasks; using seed", "key", a.key)
		return Seed(), nil
	}
	tasks, err := Decode(data)
	if err != nil {
		a.logger.Warn("stored tasks unusable; using seed", "key", a.key, "err", err)
		return Seed(), nil
	}
	return tasks, nil
}

// persist writes tasks to the slot. Callers hold mu (or own a not yet shared App).
func (a *App) persist(ctx context.Context, tasks []Task) error {
	data, err := Encode(tasks)
	if err != nil {
		return err
	}
	if err := a.slot.Set(ctx, a.key, data); err != nil {
		return fmt.Errorf("persist tasks: %w", err)
	}
	return nil
}

// commit persists next and, on success, makes it the current list.
func (a *App) commit(ctx context.Context, next []Task) error {
	if err := a.persist(ctx, next); err != nil {
		a.logger.Error("persist failed; change discarded", "err", err)
		return err
	}
	a.tasks = next
	return nil
}

// Tasks returns a copy of the full task list.
func (a *App) Tasks() []Task {
	a.mu.Lock()
	defer a.mu.Unlock()
	return append([]Task(nil), a.tasks...)
}

// Input returns the new-task input buffer.
func (a *App) Input() string {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.input
}

// SetInput replaces the new-task input buffer.
func (a *App) SetInput(s string) {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.input = s
}

// Submit turns the input buffer into a new task and clears the buffer.
// An empty buffer leaves everything unchanged and returns ErrEmptyContent.
func (a *App) Submit(ctx context.Context) (Task, error) {
	a.mu.Lock()
	defer a.mu.Unlock()
	t, err := a.add(ctx, a.input)
	if err != nil {
		return Task{}, err
	}
	a.input = ""
	return t, nil
}

// Add appends a new task with the given content. The input buffer is untouched.
func (a *App) Add(ctx context.Context, content string) (Task, error) {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.add(ctx, content)
}

func (a *App) add(ctx context.Context, content string) (Task, error) {
	if len(content) == 0 {
		return Task{}, ErrEmptyContent
	}
	var used map[int64]struct{}
	if a.nextID > maxID {
		used = a.ids()
	}
	id, after := allocID(used, a.nextID)
	t := Task{ID: id, Content: content}
	next := make([]Task, len(a.tasks), len(a.tasks)+1)
	copy(next, a.tasks)
	next = append(next, t)
	if err := a.commit(ctx, next); err != nil {
		return Task{}, err
	}
	a.nextID = after
	a.logger.Debug("task added", "id", t.ID)
	return t, nil
}

// Toggle flips the completion flag of the task with the given id.
func (a *App) Toggle(ctx context.Context, id int64) (Task, error) {
	a.mu.Lock()
	defer a.mu.Unlock()

	idx := a.indexOf(id)
	if idx < 0 {
		return Task{}, ErrNotFound
	}
	next := append([]Task(nil), a.tasks...)
	next[idx].IsCompleted = !next[idx].IsCompleted
	if err := a.commit(ctx, next); err != nil {
		return Task{}, err
	}
	a.logger.Debug("task toggled", "id", id, "completed", next[idx].IsCompleted)
	return next[idx], nil
}

// Delete removes the task with the given id.
func (a *App) Delete(ctx context.Context, id int64) error {
	a.mu.Lock()
	defer a.mu.Unlock()

	idx := a.indexOf(id)
	if idx < 0 {
		return ErrNotFound
	}
	next := make([]Task, 0, len(a.tasks)-1)
	next = append(next, a.tasks[:idx]...)
	next = append(next, a.tasks[idx+1:]...)
	if err := a.commit(ctx, next); err != nil {
		return err
	}
	a.logger.Debug("task deleted", "id", id)
	return nil
}

// ClearCompleted removes every completed task and reports how many were removed.
func (a *App) ClearCompleted(ctx context.Context) (int, error) {
	a.mu.Lock()
	defer a.mu.Unlock()

	next := Apply(a.tasks, FilterActive)
	removed := len(a.tasks) - len(next)
	if err := a.commit(ctx, next); err != nil {
		return 0, err
	}
	a.logger.Debug("completed tasks cleared", "removed", removed)
	return removed, nil
}

// ToggleAll marks every task completed, or every task active when all
// of them already are completed.
func (a *App) ToggleAll(ctx context.Context) error {
	a.mu.Lock()
	defer a.mu.Unlock()

	target := Remaining(a.tasks) > 0
	next := append([]Task(nil), a.tasks...)
	for i := range next {
		next[i].IsCompleted = target
	}
	return a.commit(ctx, next)
}

// Filter returns the active filter.
func (a *App) Filter() Filter {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.filter
}

// SetFilter changes the active filter. Unknown values select FilterAll.
func (a *App) SetFilter(f Filter) {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.filter = ParseFilter(string(f))
}

// Visible returns the tasks selected by the active filter.
func (a *App) Visible() []Task {
	a.mu.Lock()
	defer a.mu.Unlock()
	return Apply(a.tasks, a.filter)
}

// Remaining returns the number of tasks left to do.
func (a *App) Remaining() int {
	a.mu.Lock()
	defer a.mu.Unlock()
	return Remaining(a.tasks)
}

// Selectors returns the filter bar for the active filter.
func (a *App) Selectors() []Selector {
	return Selectors(a.Filter())
}

func (a *App) ids() map[int64]struct{} {
	used := make(map[int64]struct{}, len(a.tasks))
	for _, t := range a.tasks {
		used[t.ID] = struct{}{}
	}
	return used
}

func (a *App) indexOf(id int64) int {
	for i, t := range a.tasks {
		if t.ID == id {
			return i
		}
	}
	return -1
}
