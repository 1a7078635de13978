package ui

import (
	"fmt"

	"github.com/charmbracelet/lipgloss"
)

func (a AppView) renderHelpModal(width, height int) string {
	kb := a.kb

	green := lipgloss.NewStyle().
		Bold(true).
		Foreground(successColor)

	title := green.Render("ollamatui - Keyboard Shortcuts")

	blue := lipgloss.NewStyle().Foreground(accentColor)

	general := lipgloss.JoinVertical(
		lipgloss.Left,
		blue.Render("## General"),
		fmt.Sprintf("• %-13s Quit", kb.DisplayActionKey("quit")),
		fmt.Sprintf("• %-13s Show/hide help", kb.DisplayActionKey("help")),
		fmt.Sprintf("• %-13s Dismiss error", kb.DisplayActionKey("dismiss_error")),
	)

	modelList := lipgloss.JoinVertical(
		lipgloss.Left,
		blue.Render("## Model List"),
		fmt.Sprintf("• %-13s Move down", kb.DisplayActionKey("down")),
		fmt.Sprintf("• %-13s Move up", kb.DisplayActionKey("up")),
		fmt.Sprintf("• %-13s First model", kb.DisplayActionKey("top")),
		fmt.Sprintf("• %-13s Last model", kb.DisplayActionKey("bottom")),
		fmt.Sprintf("• %-13s Run model (suspends TUI)", kb.DisplayActionKey("run")),
		fmt.Sprintf("• %-13s Delete model", kb.DisplayActionKey("delete")),
		fmt.Sprintf("• %-13s Install model", kb.DisplayActionKey("install")),
		fmt.Sprintf("• %-13s Refresh list", kb.DisplayActionKey("refresh")),
		fmt.Sprintf("• %-13s Copy model name", kb.DisplayActionKey("copy_name")),
		fmt.Sprintf("• %-13s Filter models", kb.DisplayActionKey("filter")),
		fmt.Sprintf("• %-13s Clear filter", kb.DisplayActionKey("clear_filter")),
	)

	filter := lipgloss.JoinVertical(
		lipgloss.Left,
		blue.Render("## Filter Mode"),
		"• Type          Edit filter text",
		"• ←/→           Move cursor",
		fmt.Sprintf("• %-13s Confirm filter", kb.DisplayActionKey("filter_confirm")),
		fmt.Sprintf("• %-13s Cancel filter", kb.DisplayActionKey("filter_cancel")),
		fmt.Sprintf("• %-13s Clear input", kb.DisplayActionKey("clear_filter")),
	)

	install := lipgloss.JoinVertical(
		lipgloss.Left,
		blue.Render("## Install"),
		fmt.Sprintf("• %-13s Select model/tag", kb.DisplayActionKey("select")),
		fmt.Sprintf("• %-13s Filter registry", kb.DisplayActionKey("filter")),
		fmt.Sprintf("• %-13s Cancel / go back", kb.DisplayActionKey("back")),
	)

	dialogs := lipgloss.JoinVertical(
		lipgloss.Left,
		blue.Render("## Dialogs"),
		fmt.Sprintf("• %-13s Confirm", kb.DisplayActionKey("confirm_yes")),
		fmt.Sprintf("• %-13s Cancel", kb.DisplayActionKey("confirm_no")),
	)

	column1 := lipgloss.JoinVertical(lipgloss.Left, general, "", modelList)
	column2 := lipgloss.JoinVertical(lipgloss.Left, filter, "", install, "", dialogs)

	columnStyle := lipgloss.NewStyle().Width(44).PaddingLeft(2)

	twoColumns := lipgloss.JoinHorizontal(
		lipgloss.Top,
		columnStyle.Render(column1),
		"  ",
		columnStyle.Render(column2),
	)

	footer := lipgloss.NewStyle().
		Foreground(dimColor).
		Render(fmt.Sprintf("Press %s to close this help", kb.DisplayActionKey("close_help")))

	content := lipgloss.JoinVertical(
		lipgloss.Center,
		title,
		"",
		twoColumns,
		"",
		footer,
	)

	helpBox := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(borderColor).
		Padding(1, 2)

	return lipgloss.Place(
		width,
		height,
		lipgloss.Center,
		lipgloss.Center,
		helpBox.Render(content),
	)
}
