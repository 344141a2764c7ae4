package ui

import "github.com/charmbracelet/bubbles/key"

// Key bindings
var keys = struct {
	Quit       key.Binding
	Up         key.Binding
	Down       key.Binding
	Top        key.Binding
	Bottom     key.Binding
	Enter      key.Binding
	Bookmark   key.Binding
	Open       key.Binding
	Copy       key.Binding
	More       key.Binding
	Refresh    key.Binding
	NextFilter key.Binding
	PrevFilter key.Binding
	Filter     [4]key.Binding
}{
	Quit:       key.NewBinding(key.WithKeys("q", "ctrl+c"), key.WithHelp("q", "quit")),
	Up:         key.NewBinding(key.WithKeys("k", "up"), key.WithHelp("k", "up")),
	Down:       key.NewBinding(key.WithKeys("j", "down"), key.WithHelp("j", "down")),
	Top:        key.NewBinding(key.WithKeys("g", "home")),
	Bottom:     key.NewBinding(key.WithKeys("G", "end")),
	Enter:      key.NewBinding(key.WithKeys("enter", " "), key.WithHelp("enter", "expand")),
	Bookmark:   key.NewBinding(key.WithKeys("b", "s"), key.WithHelp("b", "save")),
	Open:       key.NewBinding(key.WithKeys("o"), key.WithHelp("o", "open")),
	Copy:       key.NewBinding(key.WithKeys("y"), key.WithHelp("y", "copy")),
	More:       key.NewBinding(key.WithKeys("m"), key.WithHelp("m", "more")),
	Refresh:    key.NewBinding(key.WithKeys("r"), key.WithHelp("r", "refresh")),
	NextFilter: key.NewBinding(key.WithKeys("tab", "l", "right")),
	PrevFilter: key.NewBinding(key.WithKeys("shift+tab", "h", "left")),
	Filter: [4]key.Binding{
		key.NewBinding(key.WithKeys("1")),
		key.NewBinding(key.WithKeys("2")),
		key.NewBinding(key.WithKeys("3")),
		key.NewBinding(key.WithKeys("4")),
	},
}

// statusHints are the bindings advertised in the status bar, in order.
var statusHints = []key.Binding{
	keys.Down, keys.Enter, keys.Bookmark, keys.Open, keys.Copy, keys.More, keys.Refresh, keys.Quit,
}
