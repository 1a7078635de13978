package ui

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/mattn/go-runewidth"
)

// ModalType determines the color and styling of a modal
type ModalType int

const (
	ModalTypeInfo ModalType = iota
	ModalTypeWarning
	ModalTypeError
)

// RenderThreeSectionModal renders a borderless modal with title, message, and footer sections
// Title (no border) → Message (BorderTop) → Footer (BorderTop)
// messageLines should be pre-formatted content lines (padding is added automatically)
// desiredWidth: preferred modal width (0 = default 60)
func RenderThreeSectionModal(title string, messageLines []string, footer string, modalType ModalType, desiredWidth, width, height int) string {
	modalWidth := desiredWidth
	if modalWidth == 0 {
		modalWidth = 60
	}
	if width < modalWidth+10 {
		modalWidth = max(width-10, 20)
	}

	var titleColor lipgloss.Color
	switch modalType {
	case ModalTypeInfo:
		titleColor = accentColor
	case ModalTypeWarning:
		titleColor = warningColor
	case ModalTypeError:
		titleColor = dangerColor
	}

	// Title section, centered by cell width so wide runes line up
	titleVisualWidth := runewidth.StringWidth(title)
	leftPad := max((modalWidth-titleVisualWidth)/2, 0)
	rightPad := max(modalWidth-titleVisualWidth-leftPad, 0)
	centeredTitle := strings.Repeat(" ", leftPad) + title + strings.Repeat(" ", rightPad)

	titleSection := lipgloss.NewStyle().
		Bold(true).
		Foreground(titleColor).
		Render(centeredTitle)

	var contentLines []string
	contentLines = append(contentLines, strings.Repeat(" ", modalWidth)) // Top padding
	contentLines = append(contentLines, messageLines...)
	contentLines = append(contentLines, strings.Repeat(" ", modalWidth)) // Bottom padding

	messageSection := lipgloss.NewStyle().
		BorderTop(true).
		BorderStyle(lipgloss.NormalBorder()).
		BorderForeground(dimColor).
		Width(modalWidth).
		Render(strings.Join(contentLines, "\n"))

	footerSection := lipgloss.NewStyle().
		Foreground(dimColor).
		Align(lipgloss.Center).
		Width(modalWidth).
		BorderTop(true).
		BorderStyle(lipgloss.NormalBorder()).
		BorderForeground(dimColor).
		Render(footer)

	sections := []string{titleSection, messageSection, footerSection}
	return lipgloss.Place(width, height, lipgloss.Center, lipgloss.Center, strings.Join(sections, "\n"))
}

// renderInstalling shows the pull in progress. API pulls report byte
// totals and get a progress bar; status-only lines just get the spinner.
func (a AppView) renderInstalling(width, height int) string {
	s := a.state
	modalWidth := 64

	lineStyle := lipgloss.NewStyle().
		Width(min(modalWidth, max(width-10, 20))).
		Align(lipgloss.Center)

	status := s.InstallStatus
	if status == "" {
		status = "Installing " + s.Pull.Ref + "..."
	}

	lines := []string{lineStyle.Render(a.loadingSpinner.View() + " " + status)}
	if s.Pull.Total > 0 {
		lines = append(lines,
			"",
			lineStyle.Render(a.pullProgress.ViewAs(s.Pull.Fraction())),
		)
	}

	return RenderThreeSectionModal(
		"Installing "+s.Pull.Ref,
		lines,
		"Input is paused until the pull finishes",
		ModalTypeInfo,
		modalWidth,
		width,
		height,
	)
}
