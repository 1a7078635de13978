package ui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/lipgloss"
	"github.com/dustin/go-humanize"
	"github.com/mattn/go-runewidth"

	appmodel "ollamatui/model"
	"ollamatui/ollama"
)

const (
	digestPrefixLen = 12
	// status bar + help line
	chromeHeight = 2
)

func (a AppView) View() string {
	if a.state.Quitting {
		return ""
	}
	if !a.ready {
		return "Loading ollamatui..."
	}

	bodyHeight := max(a.height-chromeHeight, 3)

	var body string
	switch a.state.Mode {
	case appmodel.ModeConfirmDelete:
		body = a.renderConfirmDelete(a.width, bodyHeight)
	case appmodel.ModeInstallSelectModel, appmodel.ModeInstallSelectModelFilter:
		body = a.renderRegistryModels(a.width, bodyHeight)
	case appmodel.ModeInstallSelectTag:
		body = a.renderRegistryTags(a.width, bodyHeight)
	case appmodel.ModeInstallConfirm:
		body = a.renderInstallConfirm(a.width, bodyHeight)
	case appmodel.ModeInstalling:
		body = a.renderInstalling(a.width, bodyHeight)
	case appmodel.ModeHelp:
		body = a.renderHelpModal(a.width, bodyHeight)
	default:
		body = a.renderPanes(a.width, bodyHeight)
	}

	return lipgloss.JoinVertical(lipgloss.Left,
		body,
		a.renderStatusBar(a.width),
		a.renderHelpLine(),
	)
}

// renderPanes draws the model list (40%) beside the details pane (60%).
func (a AppView) renderPanes(width, height int) string {
	listWidth := width * 40 / 100
	detailsWidth := width - listWidth

	return lipgloss.JoinHorizontal(lipgloss.Top,
		a.renderModelList(listWidth, height),
		a.renderDetails(detailsWidth, height),
	)
}

func (a AppView) renderModelList(width, height int) string {
	s := a.state
	visible := s.VisibleModels()
	innerWidth := max(width-2, 1)
	innerHeight := max(height-2, 1)

	title := "Models"
	if s.IsFiltered() {
		title = fmt.Sprintf("Models (filtered: %d/%d)", len(visible), len(s.Models))
	}

	lines := []string{TitleStyle.Render(title)}
	if s.Mode == appmodel.ModeFilter {
		filter := s.Filter
		filter.SetWidth(innerWidth - 2)
		lines = append(lines, FilterStyle.Render(filter.View()))
	}
	lines = append(lines, "")

	maxLines := innerHeight - len(lines)
	switch {
	case len(visible) == 0 && s.Loading:
		lines = append(lines, a.loadingSpinner.View()+" Loading models...")
	case len(visible) == 0 && s.IsFiltered():
		lines = append(lines, DimStyle.Italic(true).Render("No matches found"))
		if hint := didYouMean(s.Filter.Value(), modelNames(s.Models)); hint != "" {
			lines = append(lines, DimStyle.Render(truncate(hint, innerWidth)))
		}
	case len(visible) == 0:
		lines = append(lines, DimStyle.Italic(true).Render("No local models"))
	default:
		start, end := visibleWindow(len(visible), s.Selected(), maxLines)
		for i := start; i < end; i++ {
			lines = append(lines, renderListLine(visible[i].Name, i == s.Selected(), innerWidth))
		}
	}

	return renderPane(strings.Join(lines, "\n"), width, height)
}

func (a AppView) renderDetails(width, height int) string {
	s := a.state
	lines := []string{TitleStyle.Render("Details"), ""}

	m, ok := s.SelectedModel()
	if !ok {
		lines = append(lines, DimStyle.Render("Select a model to see details."))
	} else {
		lines = append(lines,
			field("Name", m.Name),
			field("Size", humanize.Bytes(uint64(max(m.Size, 0)))),
			field("Modified", humanize.Time(m.ModifiedAt)),
			field("Digest", shortDigest(m.Digest)),
			"",
		)

		switch d := s.Details; {
		case d != nil && d.Name == m.Name:
			lines = append(lines, DimStyle.Italic(true).Render("--- Details ---"))
			lines = appendIf(lines, "Family", d.Family)
			lines = appendIf(lines, "Format", d.Format)
			lines = appendIf(lines, "Param Size", d.ParameterSize)
			lines = appendIf(lines, "Quant Level", d.QuantizationLevel)
			lines = appendIf(lines, "Families", strings.Join(d.Families, ", "))
			lines = appendIf(lines, "Architecture", d.Architecture)
			if d.ContextLength > 0 {
				lines = append(lines, field("Context", humanize.Comma(d.ContextLength)))
			}
			lines = appendIf(lines, "Capabilities", strings.Join(d.Capabilities, ", "))
			lines = appendIf(lines, "Parent", d.ParentModel)

			lines = appendBlock(lines, "Parameters", d.Parameters)
			lines = appendBlock(lines, "System", d.System)
			lines = appendBlock(lines, "Template", d.Template)
			lines = appendBlock(lines, "Modelfile", d.Modelfile)
			lines = appendBlock(lines, "License", d.License)
		case s.DetailFetchInFlight():
			lines = append(lines, a.loadingSpinner.View()+" "+DimStyle.Italic(true).Render("Fetching details..."))
		}
	}

	return renderPane(strings.Join(lines, "\n"), width, height)
}

// renderStatusBar shows, in order of precedence, the install error, the
// install progress line, then the general status or a hint for the mode.
func (a AppView) renderStatusBar(width int) string {
	s := a.state
	text, isErr := s.StatusLine()

	var line string
	switch {
	case isErr:
		line = ErrorStatusStyle.Render("Error: " + text)
	case s.InstallStatus != "":
		line = ProgressStatusStyle.Render(text)
	default:
		line = StatusStyle.Render(a.modeStatus())
		if s.Loading || s.DetailFetchInFlight() {
			line = a.loadingSpinner.View() + " " + line
		}
	}

	return lipgloss.NewStyle().MaxWidth(width).Render(line)
}

func (a AppView) modeStatus() string {
	s := a.state
	switch s.Mode {
	case appmodel.ModeNormal:
		if s.Status != "" {
			return s.Status
		}
		if s.IsFiltered() {
			return fmt.Sprintf("Filter: '%s' (%d models)", s.Filter.Value(), len(s.VisibleModels()))
		}
		return fmt.Sprintf("%d models on %s", len(s.Models), a.host)
	case appmodel.ModeFilter, appmodel.ModeInstallSelectModelFilter:
		return "Filter Mode: type to search"
	case appmodel.ModeConfirmDelete:
		return "Confirm delete?"
	case appmodel.ModeInstallSelectModel:
		if s.IsRegistryFiltered() {
			return fmt.Sprintf("Filter: '%s' (%d models)", s.Registry.Filter.Value(), len(s.VisibleRegistryModels()))
		}
		return "Choose a model to install"
	case appmodel.ModeInstallSelectTag:
		return "Choose a tag for " + s.Registry.ChosenModel
	case appmodel.ModeInstallConfirm:
		return "Confirm install?"
	case appmodel.ModeInstalling:
		return "Installing..."
	case appmodel.ModeRunningOllama:
		return "Running ollama... (TUI suspended)"
	case appmodel.ModeHelp:
		return "Help"
	}
	return s.Status
}

func (a AppView) renderHelpLine() string {
	return a.help.ShortHelpView(a.modeBindings())
}

// modeBindings are the keys the footer advertises for the current mode.
func (a AppView) modeBindings() []key.Binding {
	k := a.keys
	switch a.state.Mode {
	case appmodel.ModeNormal:
		return k.ShortHelp()
	case appmodel.ModeFilter, appmodel.ModeInstallSelectModelFilter:
		return []key.Binding{k.FilterConfirm, k.FilterCancel, k.ClearFilter}
	case appmodel.ModeConfirmDelete, appmodel.ModeInstallConfirm:
		return []key.Binding{k.Yes, k.No, k.Help}
	case appmodel.ModeInstallSelectModel:
		return []key.Binding{k.Down, k.Up, k.Select, k.Filter, k.ClearFilter, k.Back, k.Help}
	case appmodel.ModeInstallSelectTag:
		return []key.Binding{k.Down, k.Up, k.Select, k.Back, k.Help}
	case appmodel.ModeHelp:
		return []key.Binding{k.CloseHelp}
	}
	return nil
}

// renderPane wraps content to the pane's inner width and clips it to its
// inner height before drawing the border.
func renderPane(content string, width, height int) string {
	innerWidth := max(width-2, 1)
	innerHeight := max(height-2, 1)
	inner := lipgloss.NewStyle().
		Width(innerWidth).
		Height(innerHeight).
		MaxHeight(innerHeight).
		Render(content)
	return PaneStyle.Render(inner)
}

func renderListLine(name string, selected bool, width int) string {
	indicator := "  "
	if selected {
		indicator = "▶ "
	}
	line := indicator + truncate(name, width-runewidth.StringWidth(indicator))
	if selected {
		return SelectedStyle.Render(line)
	}
	return line
}

// visibleWindow returns the [start,end) slice of a list of total items to
// draw in maxLines rows, keeping selected roughly centred.
func visibleWindow(total, selected, maxLines int) (start, end int) {
	if maxLines <= 0 {
		return 0, 0
	}
	if total <= maxLines {
		return 0, total
	}
	switch {
	case selected < maxLines/2:
		return 0, maxLines
	case selected >= total-maxLines/2:
		return total - maxLines, total
	default:
		start = selected - maxLines/2
		return start, start + maxLines
	}
}

// truncate cuts s to width terminal cells, marking the cut with an ellipsis.
func truncate(s string, width int) string {
	if width <= 0 {
		return ""
	}
	return runewidth.Truncate(s, width, "…")
}

func shortDigest(digest string) string {
	digest = strings.TrimPrefix(digest, "sha256:")
	if len(digest) <= digestPrefixLen {
		return digest
	}
	return digest[:digestPrefixLen] + "..."
}

func field(label, value string) string {
	return LabelStyle.Render(label+": ") + value
}

func appendIf(lines []string, label, value string) []string {
	if value == "" {
		return lines
	}
	return append(lines, field(label, value))
}

func appendBlock(lines []string, label, value string) []string {
	value = strings.TrimSpace(value)
	if value == "" {
		return lines
	}
	return append(lines, "", LabelStyle.Render(label+":"), value)
}

func modelNames(models []ollama.ModelInfo) []string {
	names := make([]string, len(models))
	for i, m := range models {
		names[i] = m.Name
	}
	return names
}
