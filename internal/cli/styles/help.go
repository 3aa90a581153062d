package styles

import (
	"strings"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/lipgloss"
)

// KeyMap defines keybindings that can be rendered as help.
type KeyMap interface {
	ShortHelp() []key.Binding
	FullHelp() [][]key.Binding
}

// PlaygroundKeyMap defines keybindings for the terminal playground.
type PlaygroundKeyMap struct {
	Undo   key.Binding
	Redo   key.Binding
	Toggle key.Binding
	Cancel key.Binding
	Help   key.Binding
	Quit   key.Binding
}

// ShortHelp returns keybindings to show in compact help.
func (k PlaygroundKeyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Undo, k.Redo, k.Toggle, k.Help, k.Quit}
}

// FullHelp returns keybindings for expanded help.
func (k PlaygroundKeyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.Undo, k.Redo},
		{k.Toggle, k.Cancel},
		{k.Help, k.Quit},
	}
}

// DefaultPlaygroundKeyMap returns the playground keybindings. Undo and redo
// show the chords the editor is configured with.
func DefaultPlaygroundKeyMap(undo, redo []string) PlaygroundKeyMap {
	return PlaygroundKeyMap{
		Undo: key.NewBinding(
			key.WithKeys(undo...),
			key.WithHelp(chordsOr(undo, "ctrl+z"), "undo"),
		),
		Redo: key.NewBinding(
			key.WithKeys(redo...),
			key.WithHelp(chordsOr(redo, "ctrl+y"), "redo"),
		),
		Toggle: key.NewBinding(
			key.WithKeys("e"),
			key.WithHelp("e", "toggle edit mode"),
		),
		Cancel: key.NewBinding(
			key.WithKeys("esc"),
			key.WithHelp("esc", "cancel drag"),
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

func chordsOr(chords []string, fallback string) string {
	if len(chords) == 0 {
		return fallback
	}
	return strings.Join(chords, "/")
}

// NewStyledHelp creates a themed help model.
func NewStyledHelp(theme *Theme) help.Model {
	h := help.New()
	h.Styles.ShortKey = lipgloss.NewStyle().Foreground(theme.Accent)
	h.Styles.ShortDesc = lipgloss.NewStyle().Foreground(theme.Muted)
	h.Styles.ShortSeparator = lipgloss.NewStyle().Foreground(theme.Border)
	h.Styles.FullKey = lipgloss.NewStyle().Foreground(theme.Accent)
	h.Styles.FullDesc = lipgloss.NewStyle().Foreground(theme.Text)
	h.Styles.FullSeparator = lipgloss.NewStyle().Foreground(theme.Border)
	return h
}
