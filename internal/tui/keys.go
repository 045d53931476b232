package tui

import "github.com/charmbracelet/bubbles/key"

type keyMap struct {
	Up        key.Binding
	Down      key.Binding
	Left      key.Binding
	Right     key.Binding
	Toggle    key.Binding
	Play      key.Binding
	Stop      key.Binding
	Faster    key.Binding
	Slower    key.Binding
	Pattern   key.Binding
	Fill      key.Binding
	Euclid    key.Binding
	Randomize key.Binding
	Clear     key.Binding
	Mute      key.Binding
	Solo      key.Binding
	Louder    key.Binding
	Quieter   key.Binding
	Voice     key.Binding
	Preset    key.Binding
	Save      key.Binding
	Help      key.Binding
	Quit      key.Binding
}

func bind(help string, keys ...string) key.Binding {
	return key.NewBinding(key.WithKeys(keys...), key.WithHelp(keys[0], help))
}

func defaultKeys() keyMap {
	return keyMap{
		Up:        bind("up", "up", "k"),
		Down:      bind("down", "down", "j"),
		Left:      bind("left", "left", "h"),
		Right:     bind("right", "right", "l"),
		Toggle:    key.NewBinding(key.WithKeys(" ", "space"), key.WithHelp("space", "toggle step")),
		Play:      bind("play/pause", "p"),
		Stop:      bind("stop", "s"),
		Faster:    bind("tempo up", "+", "="),
		Slower:    bind("tempo down", "-", "_"),
		Pattern:   key.NewBinding(key.WithKeys("1", "2", "3", "4"), key.WithHelp("1-4", "pattern")),
		Fill:      bind("cycle fill", "f"),
		Euclid:    bind("euclid +1", "e"),
		Randomize: bind("randomize", "r"),
		Clear:     bind("clear track", "c"),
		Mute:      bind("mute", "m"),
		Solo:      bind("solo", "o"),
		Louder:    bind("volume up", "]"),
		Quieter:   bind("volume down", "["),
		Voice:     bind("next instrument", "i"),
		Preset:    bind("next preset", "P"),
		Save:      bind("save", "ctrl+s"),
		Help:      bind("more", "?"),
		Quit:      bind("quit", "q", "ctrl+c"),
	}
}

func (k keyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Toggle, k.Play, k.Stop, k.Pattern, k.Save, k.Help, k.Quit}
}

func (k keyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.Up, k.Down, k.Left, k.Right},
		{k.Toggle, k.Play, k.Stop, k.Faster, k.Slower},
		{k.Pattern, k.Fill, k.Euclid, k.Randomize, k.Clear},
		{k.Mute, k.Solo, k.Louder, k.Quieter, k.Voice},
		{k.Preset, k.Save, k.Help, k.Quit},
	}
}
