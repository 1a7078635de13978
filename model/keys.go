package model

import (
	"fmt"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
)

// HandleKey applies one key press to s and returns the background work it
// requests. quit is true when the session should end. It performs no I/O.
func HandleKey(msg tea.KeyMsg, s *State, km KeyMap) (tasks []Task, quit bool) {
	if s.Mode.acceptsHelp() && key.Matches(msg, km.Help) {
		s.PreviousMode = s.Mode
		s.Mode = ModeHelp
		s.Status = ""
		return nil, false
	}

	switch s.Mode {
	case ModeNormal:
		return handleNormalKey(msg, s, km)
	case ModeFilter:
		handleFilterKey(msg, s, km)
	case ModeConfirmDelete:
		return handleConfirmDeleteKey(msg, s, km), false
	case ModeInstallSelectModel:
		return handleInstallSelectModelKey(msg, s, km), false
	case ModeInstallSelectModelFilter:
		handleRegistryFilterKey(msg, s, km)
	case ModeInstallSelectTag:
		handleInstallSelectTagKey(msg, s, km)
	case ModeInstallConfirm:
		return handleInstallConfirmKey(msg, s, km), false
	case ModeInstalling, ModeRunningOllama:
		// No input is accepted until the running task completes.
	case ModeHelp:
		if key.Matches(msg, km.CloseHelp) {
			s.Mode = s.PreviousMode
			s.PreviousMode = ModeNormal
			s.Status = ""
		}
	}
	return nil, false
}

func handleNormalKey(msg tea.KeyMsg, s *State, km KeyMap) ([]Task, bool) {
	switch {
	case key.Matches(msg, km.Quit):
		s.Quitting = true
		return nil, true

	case key.Matches(msg, km.Down):
		s.NextModel()

	case key.Matches(msg, km.Up):
		s.PreviousModel()

	case key.Matches(msg, km.Top):
		s.FirstModel()

	case key.Matches(msg, km.Bottom):
		s.LastModel()

	case key.Matches(msg, km.Filter):
		s.Mode = ModeFilter
		if s.IsFiltered() {
			s.ClearFilter()
		}
		s.Status = ""

	case key.Matches(msg, km.ClearFilter):
		if s.IsFiltered() {
			s.ClearFilter()
			s.Status = "Filter cleared"
		}

	case key.Matches(msg, km.Delete):
		if _, ok := s.SelectedModel(); ok {
			s.Mode = ModeConfirmDelete
			s.Status = ""
		}

	case key.Matches(msg, km.Install):
		s.Mode = ModeInstallSelectModel
		s.resetRegistry()
		s.InstallError = ""
		s.InstallStatus = ""
		return []Task{s.startRegistryFetch()}, false

	case key.Matches(msg, km.Run):
		if name := s.SelectedModelName(); name != "" {
			s.Mode = ModeRunningOllama
			s.Status = ""
			return []Task{RunTask{Name: name}}, false
		}

	case key.Matches(msg, km.Refresh):
		s.Status = "Refreshing models..."
		return []Task{RefreshTask{}}, false

	case key.Matches(msg, km.CopyName):
		if name := s.SelectedModelName(); name != "" {
			return []Task{CopyNameTask{Name: name}}, false
		}

	case key.Matches(msg, km.DismissError):
		s.InstallError = ""
	}
	return nil, false
}

func handleFilterKey(msg tea.KeyMsg, s *State, km KeyMap) {
	switch {
	case key.Matches(msg, km.ClearFilter):
		s.ClearFilter()

	case key.Matches(msg, km.FilterConfirm):
		s.Mode = ModeNormal
		if s.IsFiltered() {
			s.Status = fmt.Sprintf("Filter: '%s' (%d models)", s.Filter.Value(), len(s.VisibleModels()))
		} else {
			s.Status = ""
		}

	case key.Matches(msg, km.FilterCancel):
		s.ClearFilter()
		s.Mode = ModeNormal
		s.Status = "Filter cleared"

	default:
		if s.Filter.Edit(msg) {
			s.ApplyFilter()
		}
	}
}

func handleConfirmDeleteKey(msg tea.KeyMsg, s *State, km KeyMap) []Task {
	switch {
	case key.Matches(msg, km.Yes):
		s.Mode = ModeNormal
		if name := s.SelectedModelName(); name != "" {
			s.Status = fmt.Sprintf("Deleting %s...", name)
			return []Task{DeleteTask{Name: name}}
		}

	case key.Matches(msg, km.No):
		s.Mode = ModeNormal
		s.Status = ""
	}
	return nil
}

func handleInstallSelectModelKey(msg tea.KeyMsg, s *State, km KeyMap) []Task {
	switch {
	case key.Matches(msg, km.Filter):
		s.Mode = ModeInstallSelectModelFilter
		s.ClearRegistryFilter()
		s.InstallError = ""
		s.InstallStatus = ""

	case key.Matches(msg, km.ClearFilter):
		if s.IsRegistryFiltered() {
			s.ClearRegistryFilter()
			s.InstallStatus = ""
		}

	case key.Matches(msg, km.Down):
		s.NextRegistryModel()

	case key.Matches(msg, km.Up):
		s.PreviousRegistryModel()

	case key.Matches(msg, km.Select):
		name, ok := s.SelectedRegistryModel()
		if !ok {
			return nil
		}
		s.clearTags()
		s.Registry.ChosenModel = name
		s.Registry.Fetching = true
		s.Mode = ModeInstallSelectTag
		s.InstallError = ""
		s.InstallStatus = ""
		return []Task{FetchRegistryTagsTask{Model: name}}

	case key.Matches(msg, km.Back):
		s.Mode = ModeNormal
		s.InstallError = ""
		s.InstallStatus = ""
		s.resetRegistry()
	}
	return nil
}

func handleRegistryFilterKey(msg tea.KeyMsg, s *State, km KeyMap) {
	switch {
	case key.Matches(msg, km.ClearFilter):
		s.ClearRegistryFilter()

	case key.Matches(msg, km.FilterConfirm):
		s.Mode = ModeInstallSelectModel
		if s.IsRegistryFiltered() {
			s.InstallStatus = fmt.Sprintf("Filter: '%s' (%d models)", s.Registry.Filter.Value(), len(s.VisibleRegistryModels()))
		} else {
			s.InstallStatus = ""
		}

	case key.Matches(msg, km.FilterCancel):
		s.ClearRegistryFilter()
		s.Mode = ModeInstallSelectModel
		s.InstallStatus = "Filter cleared"

	default:
		if s.Registry.Filter.Edit(msg) {
			s.ApplyRegistryFilter()
		}
	}
}

func handleInstallSelectTagKey(msg tea.KeyMsg, s *State, km KeyMap) {
	switch {
	case key.Matches(msg, km.Down):
		s.NextTag()

	case key.Matches(msg, km.Up):
		s.PreviousTag()

	case key.Matches(msg, km.Select):
		if tag, ok := s.SelectedTag(); ok {
			s.Registry.ChosenTag = tag
			s.Mode = ModeInstallConfirm
			s.InstallError = ""
		}

	case key.Matches(msg, km.Back):
		s.Mode = ModeInstallSelectModel
		s.clearTags()
		s.Registry.Fetching = false
		s.InstallError = ""
	}
}

func handleInstallConfirmKey(msg tea.KeyMsg, s *State, km KeyMap) []Task {
	switch {
	case key.Matches(msg, km.Yes):
		ref := s.PullRef()
		if ref == "" {
			s.InstallError = "Model or tag not selected."
			s.Mode = ModeInstallSelectTag
			return nil
		}
		s.Mode = ModeInstalling
		s.InstallError = ""
		s.InstallStatus = fmt.Sprintf("Starting pull for %s...", ref)
		s.Pull = PullState{Ref: ref}
		return []Task{PullTask{Model: s.Registry.ChosenModel, Tag: s.Registry.ChosenTag}}

	case key.Matches(msg, km.No):
		s.Mode = ModeInstallSelectTag
		s.Registry.ChosenTag = ""
		s.InstallError = ""
	}
	return nil
}
