package ui

import "github.com/charmbracelet/bubbles/key"

type KeyMap struct {
	Palette     key.Binding
	PaletteUp   key.Binding
	PaletteDown key.Binding
	Enter       key.Binding
	Back        key.Binding
	Quit        key.Binding
	Help        key.Binding
	Up          key.Binding
	Down        key.Binding
	PageUp      key.Binding
	PageDown    key.Binding
	Top         key.Binding
	Bottom      key.Binding
}

// Palette navigation only uses keys that cannot be typed into the query.
var Keys = KeyMap{
	Palette:     key.NewBinding(key.WithKeys("ctrl+k"), key.WithHelp("ctrl+k", "command palette")),
	PaletteUp:   key.NewBinding(key.WithKeys("up", "ctrl+p"), key.WithHelp("up", "previous")),
	PaletteDown: key.NewBinding(key.WithKeys("down", "ctrl+n"), key.WithHelp("down", "next")),
	Enter:       key.NewBinding(key.WithKeys("enter"), key.WithHelp("enter", "select")),
	Back:        key.NewBinding(key.WithKeys("esc", "backspace"), key.WithHelp("esc", "back")),
	Quit:        key.NewBinding(key.WithKeys("q", "ctrl+c"), key.WithHelp("q", "quit")),
	Help:        key.NewBinding(key.WithKeys("?"), key.WithHelp("?", "help")),
	Up:          key.NewBinding(key.WithKeys("up", "k"), key.WithHelp("k/up", "up")),
	Down:        key.NewBinding(key.WithKeys("down", "j"), key.WithHelp("j/down", "down")),
	PageUp:      key.NewBinding(key.WithKeys("pgup", "ctrl+u"), key.WithHelp("pgup", "page up")),
	PageDown:    key.NewBinding(key.WithKeys("pgdown", "ctrl+d"), key.WithHelp("pgdn", "page down")),
	Top:         key.NewBinding(key.WithKeys("g", "home"), key.WithHelp("g", "top")),
	Bottom:      key.NewBinding(key.WithKeys("G", "end"), key.WithHelp("G", "bottom")),
}
