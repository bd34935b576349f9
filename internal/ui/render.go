package ui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"todos/internal/todo"
)

var (
	titleStyle     = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#AF2F2F"))
	completedStyle = lipgloss.NewStyle().Strikethrough(true).Faint(true)
	cursorStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("#5FAFFF")).Bold(true)
	destroyStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("#CC9A9A"))
	filterStyle    = lipgloss.NewStyle().Padding(0, 1)
	selectedStyle  = filterStyle.Bold(true).Underline(true).Foreground(lipgloss.Color("#AF2F2F"))
	mutedStyle     = lipgloss.NewStyle().Faint(true)
)

// renderItem draws one task: cursor, checkbox, content and the delete marker.
func renderItem(t todo.Task, selected bool) string {
	cursor := " "
	if selected {
		cursor = cursorStyle.Render(">")
	}

	checkbox := "[ ]"
	content := t.Content
	if t.IsCompleted {
		checkbox = "[x]"
		content = completedStyle.Render(content)
	}

	body := fmt.Sprintf("%s %s %s", cursor, checkbox, content)
	if selected {
		body += " " + destroyStyle.Render("×")
	}
	return body
}

// renderList draws the visible tasks. cursor < 0 hides the cursor.
func renderList(tasks []todo.Task, cursor int) string {
	var b strings.Builder
	for i, t := range tasks {
		b.WriteString(renderItem(t, i == cursor))
		b.WriteString("\n")
	}
	return b.String()
}

func renderCount(remaining int) string {
	unit := "items"
	if remaining == 1 {
		unit = "item"
	}
	return fmt.Sprintf("%d %s left", remaining, unit)
}

func renderFilters(selectors []todo.Selector) string {
	parts := make([]string, 0, len(selectors))
	for _, s := range selectors {
		if s.Selected {
			parts = append(parts, selectedStyle.Render(s.Label))
			continue
		}
		parts = append(parts, filterStyle.Render(s.Label))
	}
	return lipgloss.JoinHorizontal(lipgloss.Bottom, parts...)
}

func renderFooter(remaining int, selectors []todo.Selector) string {
	return lipgloss.JoinHorizontal(lipgloss.Bottom,
		renderCount(remaining),
		"   ",
		renderFilters(selectors),
		"   ",
		mutedStyle.Render("Clear completed"),
	)
}
