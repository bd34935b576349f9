// Package todo holds the task list model and the controller that owns it.
package todo

import "strings"

// Task is a single to-do entry. The JSON field names match the stored format.
type Task struct {
	ID          int64  `json:"id"`
	Content     string `json:"content"`
	IsCompleted bool   `json:"isCompleted"`
}

// Filter selects which subset of tasks is shown.
type Filter string

const (
	FilterAll       Filter = "all"
	FilterActive    Filter = "active"
	FilterCompleted Filter = "completed"
)

// Filters lists the filters in display order.
var Filters = []Filter{FilterAll, FilterActive, FilterCompleted}

// ParseFilter maps a user-supplied value to a Filter. Unknown values are FilterAll.
func ParseFilter(s string) Filter {
	switch Filter(strings.ToLower(strings.TrimSpace(s))) {
	case FilterActive:
		return FilterActive
	case FilterCompleted:
		return FilterCompleted
	default:
		return FilterAll
	}
}

// Label is the text shown on the filter selector.
func (f Filter) Label() string {
	switch f {
	case FilterActive:
		return "Active"
	case FilterCompleted:
		return "Completed"
	default:
		return "All"
	}
}

// Match reports whether t belongs to the subset selected by f.
func (f Filter) Match(t Task) bool {
	switch f {
	case FilterActive:
		return !t.IsCompleted
	case FilterCompleted:
		return t.IsCompleted
	default:
		return true
	}
}

// Apply returns the tasks selected by f in their original order.
// The input slice is never modified; the result is always a fresh slice.
func Apply(tasks []Task, f Filter) []Task {
	out := make([]Task, 0, len(tasks))
	for _, t := range tasks {
		if f.Match(t) {
			out = append(out, t)
		}
	}
	return out
}

// Remaining counts tasks that are not completed.
func Remaining(tasks []Task) int {
	n := 0
	for _, t := range tasks {
		if !t.IsCompleted {
			n++
		}
	}
	return n
}

// Selector is one entry of the filter bar.
type Selector struct {
	Filter   Filter
	Label    string
	Selected bool
}

// Selectors derives the filter bar for the active filter. Exactly one entry is selected.
func Selectors(active Filter) []Selector {
	active = ParseFilter(string(active))
	out := make([]Selector, 0, len(Filters))
	for _, f := range Filters {
		out = append(out, Selector{Filter: f, Label: f.Label(), Selected: f == active})
	}
	return out
}

// Seed returns the task list used when nothing usable is stored.
func Seed() []Task {
	return []Task{
		{ID: 5, Content: "Learn JavaScript"},
		{ID: 18, Content: "Learn React"},
		{ID: 22, Content: "Have a life!"},
	}
}
