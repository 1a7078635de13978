package model

import (
	"github.com/charmbracelet/bubbles/key"

	"ollamatui/config"
)

// KeyMap holds the configurable bindings consulted by HandleKey. It also
// feeds the help line in the footer.
type KeyMap struct {
	Help         key.Binding
	Quit         key.Binding
	Down         key.Binding
	Up           key.Binding
	Top          key.Binding
	Bottom       key.Binding
	Filter       key.Binding
	ClearFilter  key.Binding
	Delete       key.Binding
	Install      key.Binding
	Run          key.Binding
	Refresh      key.Binding
	CopyName     key.Binding
	DismissError key.Binding

	FilterConfirm key.Binding
	FilterCancel  key.Binding

	Yes key.Binding
	No  key.Binding

	Select    key.Binding
	Back      key.Binding
	CloseHelp key.Binding
}

// NewKeyMap builds bindings from the user's keybindings config. A nil
// config yields the defaults.
func NewKeyMap(kb *config.KeyBindingsConfig) KeyMap {
	if kb == nil {
		kb = config.DefaultKeybindings()
	}

	bind := func(action, desc string) key.Binding {
		return key.NewBinding(
			key.WithKeys(kb.GetActionKeys(action)...),
			key.WithHelp(kb.DisplayActionKey(action), desc),
		)
	}

	return KeyMap{
		Help:         bind("help", "help"),
		Quit:         bind("quit", "quit"),
		Down:         bind("down", "down"),
		Up:           bind("up", "up"),
		Top:          bind("top", "first"),
		Bottom:       bind("bottom", "last"),
		Filter:       bind("filter", "filter"),
		ClearFilter:  bind("clear_filter", "clear filter"),
		Delete:       bind("delete", "delete"),
		Install:      bind("install", "install"),
		Run:          bind("run", "run"),
		Refresh:      bind("refresh", "refresh"),
		CopyName:     bind("copy_name", "copy name"),
		DismissError: bind("dismiss_error", "dismiss"),

		FilterConfirm: bind("filter_confirm", "apply"),
		FilterCancel:  bind("filter_cancel", "cancel"),

		Yes: bind("confirm_yes", "yes"),
		No:  bind("confirm_no", "no"),

		Select:    bind("select", "select"),
		Back:      bind("back", "back"),
		CloseHelp: bind("close_help", "close"),
	}
}

// DefaultKeyMap is NewKeyMap(nil).
func DefaultKeyMap() KeyMap {
	return NewKeyMap(nil)
}

// ShortHelp implements help.KeyMap for the normal list view.
func (k KeyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Down, k.Up, k.Filter, k.Run, k.Install, k.Delete, k.Help, k.Quit}
}

// FullHelp implements help.KeyMap.
func (k KeyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.Down, k.Up, k.Top, k.Bottom},
		{k.Filter, k.ClearFilter, k.Refresh, k.CopyName},
		{k.Run, k.Install, k.Delete, k.DismissError},
		{k.Help, k.Quit},
	}
}
