package ui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
)

type ConfirmationState struct {
	Title   string
	Message string
	YesKey  string
	NoKey   string
}

func RenderConfirmationModal(state ConfirmationState, width, height int) string {
	modalWidth := 60
	if width < modalWidth+10 {
		modalWidth = max(width-10, 20)
	}

	// Title section (no borders)
	titleSection := lipgloss.NewStyle().
		Bold(true).
		Foreground(warningColor).
		Align(lipgloss.Center).
		Width(modalWidth).
		Render(state.Title)

	// Message section (with top border)
	var messageLines []string
	messageLines = append(messageLines, strings.Repeat(" ", modalWidth)) // Top padding

	messageStyle := lipgloss.NewStyle().
		Width(modalWidth).
		Align(lipgloss.Center)

	for _, line := range strings.Split(state.Message, "\n") {
		messageLines = append(messageLines, messageStyle.Render(line))
	}

	messageLines = append(messageLines, strings.Repeat(" ", modalWidth)) // Bottom padding

	messageSection := lipgloss.NewStyle().
		BorderTop(true).
		BorderStyle(lipgloss.NormalBorder()).
		BorderForeground(dimColor).
		Width(modalWidth).
		Render(strings.Join(messageLines, "\n"))

	// Footer section (with top border)
	footer := FormatFooter(state.YesKey, "Yes", state.NoKey, "No")
	footerSection := lipgloss.NewStyle().
		Foreground(dimColor).
		Align(lipgloss.Center).
		Width(modalWidth).
		BorderTop(true).
		BorderStyle(lipgloss.NormalBorder()).
		BorderForeground(dimColor).
		Render(footer)

	sections := []string{titleSection, messageSection, footerSection}
	content := strings.Join(sections, "\n")

	return lipgloss.Place(width, height, lipgloss.Center, lipgloss.Center, content)
}

func (a AppView) renderConfirmDelete(width, height int) string {
	name := a.state.SelectedModelName()
	return RenderConfirmationModal(ConfirmationState{
		Title:   "Confirm Deletion",
		Message: fmt.Sprintf("Are you sure you want to delete '%s'?", name),
		YesKey:  a.kb.DisplayActionKey("confirm_yes"),
		NoKey:   a.kb.DisplayActionKey("confirm_no"),
	}, width, height)
}

func (a AppView) renderInstallConfirm(width, height int) string {
	ref := a.state.PullRef()
	return RenderConfirmationModal(ConfirmationState{
		Title:   "Confirm Install",
		Message: fmt.Sprintf("Pull '%s' from the registry?", ref),
		YesKey:  a.kb.DisplayActionKey("confirm_yes"),
		NoKey:   a.kb.DisplayActionKey("confirm_no"),
	}, width, height)
}
