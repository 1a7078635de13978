package ui

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
)

var (
	dimColor       = lipgloss.Color("7")
	accentColor    = lipgloss.Color("12")
	successColor   = lipgloss.Color("10")
	warningColor   = lipgloss.Color("11")
	dangerColor    = lipgloss.Color("9")
	highlightColor = lipgloss.Color("13")
	borderColor    = lipgloss.Color("8")

	DimStyle = lipgloss.NewStyle().
			Foreground(dimColor)

	// Pane title style
	TitleStyle = lipgloss.NewStyle().
			Bold(true)

	// Details pane labels
	LabelStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(accentColor)

	SelectedStyle = lipgloss.NewStyle().
			Foreground(successColor).
			Bold(true)

	HighlightStyle = lipgloss.NewStyle().
			Foreground(highlightColor).
			Bold(true)

	// Status bar styles, one per precedence level
	StatusStyle = lipgloss.NewStyle().
			Foreground(dimColor)
	ProgressStatusStyle = lipgloss.NewStyle().
				Foreground(warningColor)
	ErrorStatusStyle = lipgloss.NewStyle().
				Foreground(dangerColor).
				Bold(true)

	PaneStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(borderColor)

	FilterStyle = lipgloss.NewStyle().
			Foreground(warningColor)
)

// FormatFooter formats a footer string with alternating keys and descriptions.
// Keys remain default color, descriptions are rendered in accent blue+bold.
// Usage: FormatFooter("j/k", "Navigate", "Enter", "Select", "Esc", "Close")
// Result: "j/k Navigate  Enter Select  Esc Close"
func FormatFooter(parts ...string) string {
	descStyle := lipgloss.NewStyle().Foreground(accentColor).Bold(true)
	var result []string
	for i := 0; i < len(parts); i += 2 {
		if i+1 < len(parts) {
			result = append(result, parts[i]+" "+descStyle.Render(parts[i+1]))
		}
	}
	return strings.Join(result, "  ")
}
