package ui

import (
	"github.com/charmbracelet/bubbles/key"

	"todos/internal/config"
)

type keyMap struct {
	Quit            key.Binding
	Add             key.Binding
	Up              key.Binding
	Down            key.Binding
	Toggle          key.Binding
	ToggleAll       key.Binding
	Delete          key.Binding
	ClearCompleted  key.Binding
	FilterAll       key.Binding
	FilterActive    key.Binding
	FilterCompleted key.Binding
	Confirm         key.Binding
	Cancel          key.Binding
	Help            key.Binding
}

func newKeyMap(k config.Keymap) keyMap {
	bind := func(desc string, keys ...string) key.Binding {
		return key.NewBinding(key.WithKeys(keys...), key.WithHelp(keyLabel(keys[0]), desc))
	}
	return keyMap{
		Quit:            bind("quit", k.Quit, "ctrl+c"),
		Add:             bind("new task", k.Add),
		Up:              bind("up", k.Up, "up"),
		Down:            bind("down", k.Down, "down"),
		Toggle:          bind("toggle", k.Toggle),
		ToggleAll:       bind("mark all", k.ToggleAll),
		Delete:          bind("delete", k.Delete),
		ClearCompleted:  bind("clear completed", k.ClearCompleted),
		FilterAll:       bind("all", k.FilterAll),
		FilterActive:    bind("active", k.FilterActive),
		FilterCompleted: bind("completed", k.FilterCompleted),
		Confirm:         bind("submit", k.Confirm),
		Cancel:          bind("leave input", k.Cancel),
		Help:            bind("help", k.Help),
	}
}

func keyLabel(k string) string {
	if k == " " {
		return "space"
	}
	return k
}

// ShortHelp implements help.KeyMap.
func (k keyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Add, k.Toggle, k.Delete, k.FilterAll, k.FilterActive, k.FilterCompleted, k.Help, k.Quit}
}

// FullHelp implements help.KeyMap.
func (k keyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.Up, k.Down, k.Add, k.Confirm, k.Cancel},
		{k.Toggle, k.ToggleAll, k.Delete, k.ClearCompleted},
		{k.FilterAll, k.FilterActive, k.FilterCompleted},
		{k.Help, k.Quit},
	}
}
