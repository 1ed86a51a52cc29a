package dashboard

import "github.com/charmbracelet/bubbles/key"

// Action is what a key press asks the dashboard to do.
type Action int

const (
	ActionNone Action = iota
	ActionNext
	ActionPrevious
	ActionNextTab
	ActionPreviousTab
	ActionOpen
	ActionCopy
	ActionRefresh
	ActionHelp
	ActionQuit
)

// KeyMap binds key names, as reported by bubbletea's KeyMsg.String, to actions.
type KeyMap struct {
	Down    key.Binding
	Up      key.Binding
	NextTab key.Binding
	PrevTab key.Binding
	Open    key.Binding
	Copy    key.Binding
	Refresh key.Binding
	Help    key.Binding
	Quit    key.Binding
}

func DefaultKeyMap() KeyMap {
	return KeyMap{
		Down: key.NewBinding(
			key.WithKeys("j", "down"),
			key.WithHelp("↓/j", "down"),
		),
		Up: key.NewBinding(
			key.WithKeys("k", "up"),
			key.WithHelp("↑/k", "up"),
		),
		NextTab: key.NewBinding(
			key.WithKeys("l", "right"),
			key.WithHelp("→/l", "next tab"),
		),
		PrevTab: key.NewBinding(
			key.WithKeys("h", "left"),
			key.WithHelp("←/h", "previous tab"),
		),
		Open: key.NewBinding(
			key.WithKeys("o"),
			key.WithHelp("o", "open"),
		),
		Copy: key.NewBinding(
			key.WithKeys("y"),
			key.WithHelp("y", "copy url"),
		),
		Refresh: key.NewBinding(
			key.WithKeys("r"),
			key.WithHelp("r", "refresh"),
		),
		Help: key.NewBinding(
			key.WithKeys("?"),
			key.WithHelp("?", "help"),
		),
		Quit: key.NewBinding(
			key.WithKeys("q", "ctrl+c"),
			key.WithHelp("q", "quit"),
		),
	}
}

// Action resolves a key name. Unbound keys map to ActionNone.
func (k KeyMap) Action(name string) Action {
	bindings := []struct {
		binding key.Binding
		action  Action
	}{
		{k.Quit, ActionQuit},
		{k.Down, ActionNext},
		{k.Up, ActionPrevious},
		{k.NextTab, ActionNextTab},
		{k.PrevTab, ActionPreviousTab},
		{k.Open, ActionOpen},
		{k.Copy, ActionCopy},
		{k.Refresh, ActionRefresh},
		{k.Help, ActionHelp},
	}
	for _, b := range bindings {
		if !b.binding.Enabled() {
			continue
		}
		for _, candidate := range b.binding.Keys() {
			if candidate == name {
				return b.action
			}
		}
	}
	return ActionNone
}

// ShortHelp implements help.KeyMap.
func (k KeyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Down, k.Up, k.NextTab, k.Open, k.Help, k.Quit}
}

// FullHelp implements help.KeyMap.
func (k KeyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.Down, k.Up},
		{k.NextTab, k.PrevTab},
		{k.Open, k.Copy, k.Refresh},
		{k.Help, k.Quit},
	}
}
