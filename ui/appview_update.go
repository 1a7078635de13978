package ui

import (
	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"

	"ollamatui/config"
	appmodel "ollamatui/model"
)

func (a AppView) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmds []tea.Cmd

	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		a.width = msg.Width
		a.height = msg.Height
		a.ready = true
		a.help.Width = msg.Width
		a.pullProgress.Width = min(60, max(10, msg.Width-30))
		return a, nil

	case spinner.TickMsg:
		var cmd tea.Cmd
		a.loadingSpinner, cmd = a.loadingSpinner.Update(msg)
		return a, cmd

	case tea.KeyMsg:
		// The terminal belongs to the child process.
		if a.state.Mode == appmodel.ModeRunningOllama {
			return a, nil
		}
		tasks, quit := appmodel.HandleKey(msg, a.state, a.keys)
		if quit {
			config.Logf("[AppView] quit requested")
			return a, tea.Quit
		}
		cmds = append(cmds, a.launcher.LaunchAll(tasks))

	case appmodel.PullProgressMsg:
		cmds = append(cmds, a.launcher.LaunchAll(appmodel.HandleEvent(msg, a.state)))
		// Keep draining the stream until its completion arrives.
		cmds = append(cmds, msg.Next())

	case appmodel.RunCompletedMsg:
		cmds = append(cmds, a.launcher.LaunchAll(appmodel.HandleEvent(msg, a.state)))
		cmds = append(cmds, tea.ClearScreen)

	default:
		cmds = append(cmds, a.launcher.LaunchAll(appmodel.HandleEvent(msg, a.state)))
	}

	cmds = append(cmds, a.launcher.LaunchAll(a.state.NextDetailFetch()))

	if config.Debug {
		if err := a.state.CheckInvariants(); err != nil {
			config.Logf("[AppView] invariant broken after %T: %v", msg, err)
		}
	}

	return a, tea.Batch(cmds...)
}
