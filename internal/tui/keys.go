package tui

import "github.com/charmbracelet/bubbles/key"

type KeyMap struct {
	Quit      key.Binding
	Up        key.Binding
	Down      key.Binding
	Left      key.Binding
	Right     key.Binding
	Help      key.Binding
	Complete  key.Binding
	Assign    key.Binding
	Clear     key.Binding
	Swap      key.Binding
	CancelOp  key.Binding
	DayOff    key.Binding
	Randomize key.Binding
	Language  key.Binding
	NewAct    key.Binding
}

func (k KeyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Complete, k.Swap, k.DayOff, k.Help, k.Quit}
}

func (k KeyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.Up, k.Down, k.Left, k.Right},
		{k.Complete, k.Assign, k.Clear, k.Swap, k.CancelOp},
		{k.DayOff, k.Randomize, k.Language, k.NewAct, k.Quit},
	}
}

func DefaultKeyMap() KeyMap {
	return KeyMap{
		Quit: key.NewBinding(
			key.WithKeys("q", "ctrl+c"),
			key.WithHelp("q", "quit"),
		),
		Up: key.NewBinding(
			key.WithKeys("up", "k"),
			key.WithHelp("↑/k", "prev slot"),
		),
		Down: key.NewBinding(
			key.WithKeys("down", "j"),
			key.WithHelp("↓/j", "next slot"),
		),
		Left: key.NewBinding(
			key.WithKeys("left", "h"),
			key.WithHelp("←/h", "prev day"),
		),
		Right: key.NewBinding(
			key.WithKeys("right", "l"),
			key.WithHelp("→/l", "next day"),
		),
		Help: key.NewBinding(
			key.WithKeys("?"),
			key.WithHelp("?", "toggle help"),
		),
		Complete: key.NewBinding(
			key.WithKeys("enter", " "),
			key.WithHelp("enter", "toggle done"),
		),
		Assign: key.NewBinding(
			key.WithKeys("a"),
			key.WithHelp("a", "cycle activity"),
		),
		Clear: key.NewBinding(
			key.WithKeys("u"),
			key.WithHelp("u", "clear slot"),
		),
		Swap: key.NewBinding(
			key.WithKeys("s"),
			key.WithHelp("s", "mark/swap"),
		),
		CancelOp: key.NewBinding(
			key.WithKeys("esc"),
			key.WithHelp("esc", "cancel"),
		),
		DayOff: key.NewBinding(
			key.WithKeys("o"),
			key.WithHelp("o", "toggle day off"),
		),
		Randomize: key.NewBinding(
			key.WithKeys("g"),
			key.WithHelp("g", "randomize week"),
		),
		Language: key.NewBinding(
			key.WithKeys("t"),
			key.WithHelp("t", "switch language"),
		),
		NewAct: key.NewBinding(
			key.WithKeys("n"),
			key.WithHelp("n", "new activity"),
		),
	}
}
