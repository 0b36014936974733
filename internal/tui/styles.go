package tui

import (
	"github.com/charmbracelet/bubbles/key"
	"github.com/rgehrsitz/rothplan/internal/tui/tuistyles"
)

var (
	TitleStyle     = tuistyles.TitleStyle
	SubtitleStyle  = tuistyles.SubtitleStyle
	StatusBarStyle = tuistyles.StatusBarStyle
	ErrorStyle     = tuistyles.ErrorStyle
)

type keyMap struct {
	Prev     key.Binding
	Next     key.Binding
	Up       key.Binding
	Down     key.Binding
	Warnings key.Binding
	Chart    key.Binding
	Help     key.Binding
	Quit     key.Binding
}

func defaultKeyMap() keyMap {
	return keyMap{
		Prev:     key.NewBinding(key.WithKeys("left", "h"), key.WithHelp("←", "prev strategy")),
		Next:     key.NewBinding(key.WithKeys("right", "l"), key.WithHelp("→", "next strategy")),
		Up:       key.NewBinding(key.WithKeys("up", "k"), key.WithHelp("↑", "prev year")),
		Down:     key.NewBinding(key.WithKeys("down", "j"), key.WithHelp("↓", "next year")),
		Warnings: key.NewBinding(key.WithKeys("w"), key.WithHelp("w", "warnings")),
		Chart:    key.NewBinding(key.WithKeys("c"), key.WithHelp("c", "chart")),
		Help:     key.NewBinding(key.WithKeys("?"), key.WithHelp("?", "help")),
		Quit:     key.NewBinding(key.WithKeys("q", "ctrl+c"), key.WithHelp("q", "quit")),
	}
}

func (k keyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Prev, k.Next, k.Warnings, k.Chart, k.Quit, k.Help}
}

func (k keyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.Prev, k.Next},
		{k.Up, k.Down},
		{k.Warnings, k.Chart},
		{k.Help, k.Quit},
	}
}
