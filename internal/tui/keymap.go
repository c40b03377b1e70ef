// ABOUTME: Key bindings for the explorer TUI.
// ABOUTME: Implements help.KeyMap so the help bubble can list them.
package tui

import (
	"github.com/charmbracelet/bubbles/key"
)

// KeyMap defines all keybindings for the explorer.
type KeyMap struct {
	Query   key.Binding
	Try     key.Binding
	Submit  key.Binding
	Blur    key.Binding
	ZoomIn  key.Binding
	ZoomOut key.Binding
	Up      key.Binding
	Down    key.Binding
	Left    key.Binding
	Right   key.Binding
	Grid    key.Binding

	FilterAll       key.Binding
	FilterPrimary   key.Binding
	FilterDetail    key.Binding
	FilterAggregate key.Binding

	Reset key.Binding
	Help  key.Binding
	Quit  key.Binding
}

// DefaultKeyMap returns the default keybindings.
func DefaultKeyMap() KeyMap {
	return KeyMap{
		Query: key.NewBinding(
			key.WithKeys("/"),
			key.WithHelp("/", "query"),
		),
		Try: key.NewBinding(
			key.WithKeys("t"),
			key.WithHelp("t", "try sample"),
		),
		Submit: key.NewBinding(
			key.WithKeys("enter"),
			key.WithHelp("enter", "submit"),
		),
		Blur: key.NewBinding(
			key.WithKeys("esc"),
			key.WithHelp("esc", "leave input"),
		),
		ZoomIn: key.NewBinding(
			key.WithKeys("+", "="),
			key.WithHelp("+", "zoom in"),
		),
		ZoomOut: key.NewBinding(
			key.WithKeys("-", "_"),
			key.WithHelp("-", "zoom out"),
		),
		Up: key.NewBinding(
			key.WithKeys("up", "k"),
			key.WithHelp("↑/k", "pan up"),
		),
		Down: key.NewBinding(
			key.WithKeys("down", "j"),
			key.WithHelp("↓/j", "pan down"),
		),
		Left: key.NewBinding(
			key.WithKeys("left", "h"),
			key.WithHelp("←/h", "pan left"),
		),
		Right: key.NewBinding(
			key.WithKeys("right", "l"),
			key.WithHelp("→/l", "pan right"),
		),
		Grid: key.NewBinding(
			key.WithKeys("g"),
			key.WithHelp("g", "grid"),
		),
		FilterAll: key.NewBinding(
			key.WithKeys("1"),
			key.WithHelp("1", "all"),
		),
		FilterPrimary: key.NewBinding(
			key.WithKeys("2"),
			key.WithHelp("2", "primary"),
		),
		FilterDetail: key.NewBinding(
			key.WithKeys("3"),
			key.WithHelp("3", "detail"),
		),
		FilterAggregate: key.NewBinding(
			key.WithKeys("4"),
			key.WithHelp("4", "aggregates"),
		),
		Reset: key.NewBinding(
			key.WithKeys("r"),
			key.WithHelp("r", "reset"),
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

// ShortHelp returns the bindings shown in the one-line help.
func (k KeyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Query, k.Try, k.ZoomIn, k.ZoomOut, k.Grid, k.Reset, k.Help, k.Quit}
}

// FullHelp returns the bindings shown in the expanded help.
func (k KeyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.Query, k.Try, k.Submit, k.Blur},
		{k.Up, k.Down, k.Left, k.Right},
		{k.ZoomIn, k.ZoomOut, k.Grid, k.Reset},
		{k.FilterAll, k.FilterPrimary, k.FilterDetail, k.FilterAggregate},
		{k.Help, k.Quit},
	}
}
