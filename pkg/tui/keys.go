package tui

import "github.com/charmbracelet/bubbles/key"

type keyMap struct {
	Up      key.Binding
	Down    key.Binding
	Top     key.Binding
	Bottom  key.Binding
	Toggle  key.Binding
	Approve key.Binding
	Reject  key.Binding
	Refresh key.Binding
	Expand  key.Binding
	Search  key.Binding
	Detail  key.Binding
	Help    key.Binding
	Quit    key.Binding
	Submit  key.Binding
	Cancel  key.Binding
}

func defaultKeys() keyMap {
	return keyMap{
		Up:      key.NewBinding(key.WithKeys("up", "k"), key.WithHelp("↑/k", "up")),
		Down:    key.NewBinding(key.WithKeys("down", "j"), key.WithHelp("↓/j", "down")),
		Top:     key.NewBinding(key.WithKeys("home", "g"), key.WithHelp("g", "top")),
		Bottom:  key.NewBinding(key.WithKeys("end", "G"), key.WithHelp("G", "bottom")),
		Toggle:  key.NewBinding(key.WithKeys("enter", " "), key.WithHelp("enter", "collapse/expand")),
		Approve: key.NewBinding(key.WithKeys("a"), key.WithHelp("a", "approve")),
		Reject:  key.NewBinding(key.WithKeys("x"), key.WithHelp("x", "reject")),
		Refresh: key.NewBinding(key.WithKeys("r"), key.WithHelp("r", "refresh")),
		Expand:  key.NewBinding(key.WithKeys("e"), key.WithHelp("e", "expand all")),
		Search:  key.NewBinding(key.WithKeys("/"), key.WithHelp("/", "search")),
		Detail:  key.NewBinding(key.WithKeys("o"), key.WithHelp("o", "details")),
		Help:    key.NewBinding(key.WithKeys("?"), key.WithHelp("?", "help")),
		Quit:    key.NewBinding(key.WithKeys("q", "ctrl+c"), key.WithHelp("q", "quit")),
		Submit:  key.NewBinding(key.WithKeys("enter"), key.WithHelp("enter", "submit")),
		Cancel:  key.NewBinding(key.WithKeys("esc"), key.WithHelp("esc", "cancel")),
	}
}

func (k keyMap) short() []key.Binding {
	return []key.Binding{k.Up, k.Down, k.Toggle, k.Detail, k.Approve, k.Reject, k.Search, k.Help, k.Quit}
}

func (k keyMap) full() []key.Binding {
	return []key.Binding{k.Up, k.Down, k.Top, k.Bottom, k.Toggle, k.Expand, k.Detail, k.Approve, k.Reject, k.Refresh, k.Search, k.Help, k.Quit}
}
