package main

import (
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
)

func isQuit(msg tea.KeyMsg) bool {
	switch msg.String() {
	case "q", "esc", "ctrl+c":
		return true
	}
	return false
}

// keyMap defines the npxlplay keybindings for the help component.
type keyMap struct {
	PlayPause key.Binding
	Seek      key.Binding
	Stop      key.Binding
	Replay    key.Binding
	Volume    key.Binding
	Soft      key.Binding
	Help      key.Binding
	Quit      key.Binding
}

func newKeyMap() keyMap {
	return keyMap{
		PlayPause: key.NewBinding(
			key.WithKeys(" "),
			key.WithHelp("space", "play/pause"),
		),
		Seek: key.NewBinding(
			key.WithKeys("left", "right"),
			key.WithHelp("←/→", "seek ±5s"),
		),
		Stop: key.NewBinding(
			key.WithKeys("s"),
			key.WithHelp("s", "stop"),
		),
		Replay: key.NewBinding(
			key.WithKeys("r"),
			key.WithHelp("r", "replay"),
		),
		Volume: key.NewBinding(
			key.WithKeys("+", "-"),
			key.WithHelp("+/-", "volume"),
		),
		Soft: key.NewBinding(
			key.WithKeys("b"),
			key.WithHelp("b", "retry soft buffering"),
		),
		Help: key.NewBinding(
			key.WithKeys("?"),
			key.WithHelp("?", "help"),
		),
		Quit: key.NewBinding(
			key.WithKeys("q"),
			key.WithHelp("q", "quit"),
		),
	}
}

// ShortHelp returns the keybindings shown in the collapsed help view.
func (k keyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.PlayPause, k.Seek, k.Stop, k.Help, k.Quit}
}

// FullHelp returns keybindings organized into columns for the expanded help view.
func (k keyMap) FullHelp() [][]key.Binding {
	transport := []key.Binding{k.PlayPause, k.Seek, k.Stop, k.Replay}
	audio := []key.Binding{k.Volume, k.Soft}
	other := []key.Binding{k.Help, k.Quit}
	return [][]key.Binding{transport, audio, other}
}
