package ui

import "github.com/charmbracelet/bubbles/key"

// KeyMap holds the host bindings. The match modal has its own.
type KeyMap struct {
	Skip    key.Binding
	Duo     key.Binding
	Restart key.Binding
	Reload  key.Binding
	Debug   key.Binding
	Quit    key.Binding
}

// DefaultKeyMap returns the standard bindings.
func DefaultKeyMap() KeyMap {
	return KeyMap{
		Skip:    key.NewBinding(key.WithKeys("left", "h"), key.WithHelp("←/h", "skip")),
		Duo:     key.NewBinding(key.WithKeys("right", "l"), key.WithHelp("→/l", "duo")),
		Restart: key.NewBinding(key.WithKeys("r"), key.WithHelp("r", "start over")),
		Reload:  key.NewBinding(key.WithKeys("R"), key.WithHelp("R", "reload")),
		Debug:   key.NewBinding(key.WithKeys("D"), key.WithHelp("D", "debug")),
		Quit:    key.NewBinding(key.WithKeys("q", "ctrl+c"), key.WithHelp("q", "quit")),
	}
}

// ShortHelp implements help.KeyMap.
func (k KeyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Skip, k.Duo, k.Reload, k.Debug, k.Quit}
}

// FullHelp implements help.KeyMap.
func (k KeyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.Skip, k.Duo},
		{k.Restart, k.Reload},
		{k.Debug, k.Quit},
	}
}
