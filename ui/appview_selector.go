package ui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	appmodel "ollamatui/model"
)

// selector is one list modal of the install picker.
type selector struct {
	title    string
	header   string
	items    []string
	selected int
	// empty is shown in place of the list when items is empty
	empty  string
	hint   string
	footer string
}

func renderSelector(sel selector, width, height int) string {
	modalWidth := min(width-10, 80)
	modalWidth = max(modalWidth, 20)
	modalHeight := height - 2

	titleSection := lipgloss.NewStyle().
		Bold(true).
		Align(lipgloss.Center).
		Width(modalWidth).
		Render(sel.title)

	// Header section (with top and bottom borders)
	headerSection := lipgloss.NewStyle().
		Foreground(dimColor).
		Align(lipgloss.Center).
		Width(modalWidth).
		BorderTop(true).
		BorderBottom(true).
		BorderStyle(lipgloss.NormalBorder()).
		BorderForeground(dimColor).
		Render(sel.header)

	var lines []string
	maxLines := modalHeight - 8 // title, borders, header, footer

	if len(sel.items) == 0 {
		emptyStyle := lipgloss.NewStyle().
			Foreground(dimColor).
			Italic(true).
			Align(lipgloss.Center).
			Width(modalWidth)
		lines = append(lines, emptyStyle.Render(sel.empty))
		if sel.hint != "" {
			lines = append(lines, emptyStyle.Render(truncate(sel.hint, modalWidth)))
		}
	} else {
		start, end := visibleWindow(len(sel.items), sel.selected, maxLines)
		for i := start; i < end; i++ {
			line := renderListLine(sel.items[i], i == sel.selected, modalWidth)
			lines = append(lines, lipgloss.NewStyle().Width(modalWidth).Render(line))
		}
	}

	emptyLine := strings.Repeat(" ", modalWidth)
	lines = append([]string{emptyLine}, lines...)
	lines = append(lines, emptyLine)

	// Footer section (with top border only)
	footerSection := lipgloss.NewStyle().
		Align(lipgloss.Center).
		Width(modalWidth).
		BorderTop(true).
		BorderStyle(lipgloss.NormalBorder()).
		BorderForeground(dimColor).
		Render(sel.footer)

	var sections []string
	sections = append(sections, titleSection, headerSection)
	sections = append(sections, lines...)
	sections = append(sections, footerSection)

	return lipgloss.Place(width, height, lipgloss.Center, lipgloss.Center, strings.Join(sections, "\n"))
}

func (a AppView) renderRegistryModels(width, height int) string {
	s := a.state
	visible := s.VisibleRegistryModels()
	kb := a.kb

	sel := selector{
		title:    "Install Model: Select Model",
		items:    visible,
		selected: s.RegistrySelected(),
		footer: FormatFooter(
			kb.DisplayActionKey("filter"), "Filter",
			kb.DisplayActionKey("down")+"/"+kb.DisplayActionKey("up"), "Navigate",
			kb.DisplayActionKey("select"), "Choose Tags",
			kb.DisplayActionKey("back"), "Cancel",
		),
	}

	switch {
	case s.Mode == appmodel.ModeInstallSelectModelFilter:
		filter := s.Registry.Filter
		filter.SetWidth(min(width-20, 60))
		sel.header = FilterStyle.Render(filter.View())
		sel.footer = FormatFooter(
			"Type", "to filter",
			kb.DisplayActionKey("filter_confirm"), "Apply",
			kb.DisplayActionKey("filter_cancel"), "Cancel",
		)
	case s.IsRegistryFiltered():
		sel.header = fmt.Sprintf("%d of %d models", len(visible), len(s.Registry.Models))
	default:
		sel.header = fmt.Sprintf("%d models", len(s.Registry.Models))
	}

	switch {
	case s.Registry.Fetching:
		sel.empty = a.loadingSpinner.View() + " Loading models..."
	case s.IsRegistryFiltered():
		sel.empty = "No matches found"
		sel.hint = didYouMean(s.Registry.Filter.Value(), s.Registry.Models)
	default:
		sel.empty = "No models available"
	}

	return renderSelector(sel, width, height)
}

func (a AppView) renderRegistryTags(width, height int) string {
	s := a.state
	kb := a.kb

	sel := selector{
		title:    fmt.Sprintf("Install Model: Select Tag for %s", s.Registry.ChosenModel),
		header:   fmt.Sprintf("%d tags", len(s.Registry.Tags)),
		items:    s.Registry.Tags,
		selected: s.TagSelected(),
		empty:    "No tags",
		footer: FormatFooter(
			kb.DisplayActionKey("down")+"/"+kb.DisplayActionKey("up"), "Navigate",
			kb.DisplayActionKey("select"), "Confirm",
			kb.DisplayActionKey("back"), "Back",
		),
	}
	if s.Registry.Fetching {
		sel.header = "fetching tags"
		sel.empty = a.loadingSpinner.View() + " Loading tags..."
	}

	return renderSelector(sel, width, height)
}
