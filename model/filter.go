package model

import (
	"strings"

	"github.com/charmbracelet/bubbles/cursor"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
)

// filterByName keeps the items whose name contains text, case-insensitively,
// in their original order. An empty text returns items unchanged.
func filterByName[T any](items []T, text string, name func(T) string) []T {
	if text == "" {
		return items
	}
	needle := strings.ToLower(text)
	out := make([]T, 0, len(items))
	for _, item := range items {
		if strings.Contains(strings.ToLower(name(item)), needle) {
			out = append(out, item)
		}
	}
	return out
}

// FilterInput is an editable single-line filter buffer. The cursor is
// counted in runes and kept within the buffer by the underlying textinput.
type FilterInput struct {
	ti textinput.Model
}

func NewFilterInput(placeholder string) FilterInput {
	ti := textinput.New()
	ti.Prompt = "/"
	ti.Placeholder = placeholder
	ti.CharLimit = 128
	ti.Cursor.SetMode(cursor.CursorStatic)
	ti.Focus()
	return FilterInput{ti: ti}
}

func (f FilterInput) Value() string {
	return f.ti.Value()
}

// Position is the cursor offset in runes.
func (f FilterInput) Position() int {
	return f.ti.Position()
}

func (f *FilterInput) Clear() {
	f.ti.Reset()
}

// Edit applies an editing key (runes, backspace, cursor movement) and
// reports whether the text changed.
func (f *FilterInput) Edit(msg tea.KeyMsg) bool {
	before := f.ti.Value()
	f.ti, _ = f.ti.Update(msg)
	return f.ti.Value() != before
}

func (f FilterInput) View() string {
	return f.ti.View()
}

// SetWidth bounds the rendered input.
func (f *FilterInput) SetWidth(w int) {
	f.ti.Width = w
}
