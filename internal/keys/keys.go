// Package keys contains keybinding definitions.
package keys

import (
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
)

// DashboardKeyMap defines the dashboard keybindings.
type DashboardKeyMap struct {
	// View navigation
	NextView     key.Binding
	PrevView     key.Binding
	ViewShortcut key.Binding // help entry only; matching goes through ShortcutOrdinal

	// Filters
	Search       key.Binding
	Blur         key.Binding
	NextFilter   key.Binding
	CycleValue   key.Binding
	CycleBack    key.Binding
	ResetFilters key.Binding

	// General
	PinView key.Binding
	Remount key.Binding
	Reload  key.Binding
	Help    key.Binding
	Quit    key.Binding
}

// Dashboard holds the default dashboard keybindings.
var Dashboard = DashboardKeyMap{
	NextView: key.NewBinding(
		key.WithKeys("tab", "l", "right"),
		key.WithHelp("tab/l", "next view"),
	),
	PrevView: key.NewBinding(
		key.WithKeys("shift+tab", "h", "left"),
		key.WithHelp("shift+tab/h", "previous view"),
	),
	ViewShortcut: key.NewBinding(
		key.WithKeys("alt+1", "alt+2", "alt+3", "alt+4", "alt+5", "alt+6", "alt+7", "alt+8", "alt+9"),
		key.WithHelp("alt+1…9", "jump to view"),
	),

	Search: key.NewBinding(
		key.WithKeys("/"),
		key.WithHelp("/", "search"),
	),
	Blur: key.NewBinding(
		key.WithKeys("esc", "enter"),
		key.WithHelp("esc/enter", "leave search"),
	),
	NextFilter: key.NewBinding(
		key.WithKeys("f"),
		key.WithHelp("f", "next filter"),
	),
	CycleValue: key.NewBinding(
		key.WithKeys("v"),
		key.WithHelp("v", "next value"),
	),
	CycleBack: key.NewBinding(
		key.WithKeys("V"),
		key.WithHelp("V", "previous value"),
	),
	ResetFilters: key.NewBinding(
		key.WithKeys("x"),
		key.WithHelp("x", "clear filters"),
	),

	PinView: key.NewBinding(
		key.WithKeys("ctrl+s"),
		key.WithHelp("ctrl+s", "pin view as default"),
	),
	Remount: key.NewBinding(
		key.WithKeys("ctrl+r"),
		key.WithHelp("ctrl+r", "remount dashboard"),
	),
	Reload: key.NewBinding(
		key.WithKeys("R"),
		key.WithHelp("R", "reload data"),
	),
	Help: key.NewBinding(
		key.WithKeys("?"),
		key.WithHelp("?", "toggle help"),
	),
	Quit: key.NewBinding(
		key.WithKeys("q", "ctrl+c"),
		key.WithHelp("q", "quit"),
	),
}

// ShortHelp returns keybindings for the short help view.
func (k DashboardKeyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.ViewShortcut, k.Search, k.NextFilter, k.Help, k.Quit}
}

// FullHelp returns keybindings for the full help view.
func (k DashboardKeyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.NextView, k.PrevView, k.ViewShortcut},
		{k.Search, k.Blur, k.NextFilter, k.CycleValue, k.CycleBack, k.ResetFilters},
		{k.PinView, k.Remount, k.Reload, k.Help, k.Quit},
	}
}

// ShortcutOrdinal decodes a view shortcut chord: alt held alone plus a
// single digit. It returns the digit as a 1-indexed ordinal (alt+0 yields 0,
// which matches no view). Pasted input and any other modifier never match.
func ShortcutOrdinal(msg tea.KeyMsg) (int, bool) {
	if msg.Type != tea.KeyRunes || !msg.Alt || msg.Paste {
		return 0, false
	}
	if len(msg.Runes) != 1 {
		return 0, false
	}
	r := msg.Runes[0]
	if r < '0' || r > '9' {
		return 0, false
	}
	return int(r - '0'), true
}

// ShortcutLabel is the help label for the view at ordinal.
func ShortcutLabel(ordinal int) string {
	if ordinal < 1 || ordinal > 9 {
		return ""
	}
	return "alt+" + string(rune('0'+ordinal))
}
