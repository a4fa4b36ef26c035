package ui

import "github.com/charmbracelet/bubbles/key"

// KeyMap defines the key bindings for the console.
type KeyMap struct {
	Up       key.Binding
	Down     key.Binding
	PageDown key.Binding

	TabDashboard key.Binding
	TabTickets   key.Binding
	TabMaterials key.Binding
	TabProfile   key.Binding

	FilterActivate key.Binding
	FilterClear    key.Binding
	CycleCategory  key.Binding
	CycleStatus    key.Binding

	Select  key.Binding
	Answer  key.Binding
	New     key.Binding
	Refresh key.Binding
	Back    key.Binding
	Logout  key.Binding
	Quit    key.Binding
}

// DefaultKeyMap is the built-in binding set. Vim-style navigation
// alongside arrow keys.
var DefaultKeyMap = KeyMap{
	Up: key.NewBinding(
		key.WithKeys("k", "up"),
		key.WithHelp("k/↑", "up"),
	),
	Down: key.NewBinding(
		key.WithKeys("j", "down"),
		key.WithHelp("j/↓", "down"),
	),
	PageDown: key.NewBinding(
		key.WithKeys("pgdown", "ctrl+f"),
		key.WithHelp("pgdn", "load more"),
	),
	TabDashboard: key.NewBinding(
		key.WithKeys("1"),
		key.WithHelp("1", "dashboard"),
	),
	TabTickets: key.NewBinding(
		key.WithKeys("2"),
		key.WithHelp("2", "tickets"),
	),
	TabMaterials: key.NewBinding(
		key.WithKeys("3"),
		key.WithHelp("3", "materials"),
	),
	TabProfile: key.NewBinding(
		key.WithKeys("4"),
		key.WithHelp("4", "profile"),
	),
	FilterActivate: key.NewBinding(
		key.WithKeys("/"),
		key.WithHelp("/", "search"),
	),
	FilterClear: key.NewBinding(
		key.WithKeys("esc"),
		key.WithHelp("esc", "clear"),
	),
	CycleCategory: key.NewBinding(
		key.WithKeys("c"),
		key.WithHelp("c", "category"),
	),
	CycleStatus: key.NewBinding(
		key.WithKeys("s"),
		key.WithHelp("s", "status"),
	),
	Select: key.NewBinding(
		key.WithKeys("enter"),
		key.WithHelp("enter", "open"),
	),
	Answer: key.NewBinding(
		key.WithKeys("a"),
		key.WithHelp("a", "answer"),
	),
	New: key.NewBinding(
		key.WithKeys("n"),
		key.WithHelp("n", "new"),
	),
	Refresh: key.NewBinding(
		key.WithKeys("r"),
		key.WithHelp("r", "refresh"),
	),
	Back: key.NewBinding(
		key.WithKeys("esc", "backspace"),
		key.WithHelp("esc", "back"),
	),
	Logout: key.NewBinding(
		key.WithKeys("ctrl+l"),
		key.WithHelp("ctrl+l", "logout"),
	),
	Quit: key.NewBinding(
		key.WithKeys("ctrl+c", "q"),
		key.WithHelp("q", "quit"),
	),
}
