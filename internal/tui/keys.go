package tui

import "github.com/charmbracelet/bubbles/key"

type keyMap struct {
	Up     key.Binding
	Down   key.Binding
	Left   key.Binding
	Right  key.Binding
	Toggle key.Binding
	Today  key.Binding
	Switch key.Binding
	Delete key.Binding
	Clear  key.Binding
	Yes    key.Binding
	No     key.Binding
	Help   key.Binding
	Quit   key.Binding
}

func defaultKeyMap() keyMap {
	return keyMap{
		Up:     key.NewBinding(key.WithKeys("up", "k"), key.WithHelp("↑/k", "up")),
		Down:   key.NewBinding(key.WithKeys("down", "j"), key.WithHelp("↓/j", "down")),
		Left:   key.NewBinding(key.WithKeys("left", "h"), key.WithHelp("←/h", "prev day")),
		Right:  key.NewBinding(key.WithKeys("right", "l"), key.WithHelp("→/l", "next day")),
		Toggle: key.NewBinding(key.WithKeys(" ", "x", "enter"), key.WithHelp("space/x", "toggle fault")),
		Today:  key.NewBinding(key.WithKeys("t"), key.WithHelp("t", "today")),
		Switch: key.NewBinding(key.WithKeys("tab"), key.WithHelp("tab", "week/history")),
		Delete: key.NewBinding(key.WithKeys("d", "delete"), key.WithHelp("d", "delete week")),
		Clear:  key.NewBinding(key.WithKeys("C"), key.WithHelp("C", "clear history")),
		Yes:    key.NewBinding(key.WithKeys("y", "Y"), key.WithHelp("y", "confirm")),
		No:     key.NewBinding(key.WithKeys("n", "N", "esc"), key.WithHelp("n", "cancel")),
		Help:   key.NewBinding(key.WithKeys("?"), key.WithHelp("?", "more keys")),
		Quit:   key.NewBinding(key.WithKeys("q", "ctrl+c"), key.WithHelp("q", "quit")),
	}
}

// weekKeys and historyKeys adapt the shared map to help.KeyMap per screen.
type weekKeys struct{ keyMap }

func (k weekKeys) ShortHelp() []key.Binding {
	return []key.Binding{k.Toggle, k.Switch, k.Help, k.Quit}
}

func (k weekKeys) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.Up, k.Down, k.Left, k.Right},
		{k.Toggle, k.Today},
		{k.Switch, k.Help, k.Quit},
	}
}

type historyKeys struct{ keyMap }

func (k historyKeys) ShortHelp() []key.Binding {
	return []key.Binding{k.Delete, k.Clear, k.Switch, k.Quit}
}

func (k historyKeys) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.Up, k.Down},
		{k.Delete, k.Clear},
		{k.Switch, k.Help, k.Quit},
	}
}
