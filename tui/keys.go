package tui

import "github.com/charmbracelet/bubbles/key"

type keyMap struct {
	Up     key.Binding
	Down   key.Binding
	Left   key.Binding
	Right  key.Binding
	Track  key.Binding
	Whole  key.Binding
	PrevH  key.Binding
	NextH  key.Binding
	PrevV  key.Binding
	NextV  key.Binding
	Engine key.Binding
	Play   key.Binding
	Log    key.Binding
	Quit   key.Binding
}

func defaultKeyMap() keyMap {
	return keyMap{
		Up:     key.NewBinding(key.WithKeys("up", "k"), key.WithHelp("k", "cursor up")),
		Down:   key.NewBinding(key.WithKeys("down", "j"), key.WithHelp("j", "cursor down")),
		Left:   key.NewBinding(key.WithKeys("left", "h"), key.WithHelp("h", "cursor left")),
		Right:  key.NewBinding(key.WithKeys("right", "l"), key.WithHelp("l", "cursor right")),
		Track:  key.NewBinding(key.WithKeys(" "), key.WithHelp("space", "toggle track")),
		Whole:  key.NewBinding(key.WithKeys("enter"), key.WithHelp("enter", "toggle row")),
		PrevH:  key.NewBinding(key.WithKeys("["), key.WithHelp("[", "page tracks left")),
		NextH:  key.NewBinding(key.WithKeys("]"), key.WithHelp("]", "page tracks right")),
		PrevV:  key.NewBinding(key.WithKeys("{"), key.WithHelp("{", "page patterns up")),
		NextV:  key.NewBinding(key.WithKeys("}"), key.WithHelp("}", "page patterns down")),
		Engine: key.NewBinding(key.WithKeys("s"), key.WithHelp("s", "start/stop engine")),
		Play:   key.NewBinding(key.WithKeys("p"), key.WithHelp("p", "play/pause")),
		Log:    key.NewBinding(key.WithKeys("d"), key.WithHelp("d", "toggle log pane")),
		Quit:   key.NewBinding(key.WithKeys("q", "ctrl+c"), key.WithHelp("q", "quit")),
	}
}
