package model

import (
	"fmt"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/google/uuid"
)

const statusPullSucceeded = "Model pull successful! Refreshing list..."

// HandleEvent applies a background completion to s and returns any chained
// work. Messages it does not know are ignored.
func HandleEvent(msg tea.Msg, s *State) []Task {
	switch msg := msg.(type) {
	case DetailsFetchedMsg:
		handleDetailsFetched(msg, s)

	case RegistryModelsFetchedMsg:
		handleRegistryModelsFetched(msg, s)

	case RegistryTagsFetchedMsg:
		handleRegistryTagsFetched(msg, s)

	case DeleteCompletedMsg:
		if msg.Err != nil {
			s.InstallError = fmt.Sprintf("Failed to delete %s: %v", msg.Name, msg.Err)
			s.fallBackToNormal()
			return nil
		}
		s.Status = fmt.Sprintf("Deleted %s", msg.Name)
		return []Task{RefreshTask{}}

	case PullProgressMsg:
		if s.Mode != ModeInstalling || msg.Ref != s.Pull.Ref {
			return nil
		}
		s.Pull.Status = msg.Progress.Status
		if msg.Progress.Total > 0 {
			s.Pull.Total = msg.Progress.Total
			s.Pull.Completed = msg.Progress.Completed
		}
		s.InstallStatus = fmt.Sprintf("Pulling %s: %s", msg.Ref, msg.Progress.Status)

	case PullCompletedMsg:
		s.InstallStatus = ""
		s.Pull = PullState{}
		if msg.Err != nil {
			s.InstallError = fmt.Sprintf("Model pull failed: %v", msg.Err)
			if s.Mode == ModeInstalling {
				s.Mode = ModeNormal
			}
		} else {
			s.Status = statusPullSucceeded
		}
		s.resetRegistry()
		return []Task{RefreshTask{}}

	case ModelsRefreshedMsg:
		handleModelsRefreshed(msg, s)

	case RunCompletedMsg:
		s.Mode = ModeNormal
		if msg.Err != nil {
			s.Status = fmt.Sprintf("'ollama run %s' failed: %v", msg.Name, msg.Err)
		} else {
			s.Status = ""
		}

	case ClipboardMsg:
		if msg.Err != nil {
			s.Status = fmt.Sprintf("Copy failed: %v", msg.Err)
		} else {
			s.Status = fmt.Sprintf("Copied %s to clipboard", msg.Text)
		}
	}
	return nil
}

// handleDetailsFetched applies a detail completion only when it answers the
// fetch currently in flight for the current selection. Anything else is a
// stale answer for a selection the user already left.
func handleDetailsFetched(msg DetailsFetchedMsg, s *State) {
	if msg.Token == uuid.Nil || msg.Token != s.detailFetch {
		return
	}
	s.detailFetch = uuid.Nil

	if msg.Name != s.SelectedModelName() {
		return
	}

	if msg.Err != nil {
		s.Details = nil
		s.detailFailed = msg.Name
		s.Status = fmt.Sprintf("Error fetching details: %v", msg.Err)
		return
	}

	s.Details = msg.Details
	if s.Status == statusFetchingDetails {
		s.Status = ""
	}
}

func handleRegistryModelsFetched(msg RegistryModelsFetchedMsg, s *State) {
	if !s.Mode.InInstallFlow() && !(s.Mode == ModeHelp && s.PreviousMode.InInstallFlow()) {
		return
	}
	if msg.Token == uuid.Nil || msg.Token != s.Registry.fetchToken {
		return
	}
	s.Registry.Fetching = false
	s.Registry.fetchToken = uuid.Nil

	if msg.Err != nil {
		s.resetRegistry()
		s.InstallError = fmt.Sprintf("Failed to fetch models: %v", msg.Err)
		s.fallBackToNormal()
		return
	}

	s.SetRegistryModels(msg.Models)
	s.InstallError = ""
}

func handleRegistryTagsFetched(msg RegistryTagsFetchedMsg, s *State) {
	if msg.Model == "" || msg.Model != s.Registry.ChosenModel || s.Registry.ChosenTag != "" {
		return
	}
	s.Registry.Fetching = false

	switch {
	case msg.Err != nil:
		s.InstallError = fmt.Sprintf("Failed to fetch tags for %s: %v", msg.Model, msg.Err)
	case len(msg.Tags) == 0:
		s.InstallError = fmt.Sprintf("No tags found for %s.", msg.Model)
	default:
		s.SetTags(msg.Tags)
		s.InstallError = ""
		return
	}

	s.clearTags()
	s.setModeBehindHelp(ModeInstallSelectModel)
}

func handleModelsRefreshed(msg ModelsRefreshedMsg, s *State) {
	s.Loading = false

	if msg.Err != nil {
		if s.InstallError == "" {
			s.Status = fmt.Sprintf("Error refreshing models: %v", msg.Err)
		}
	} else {
		pullMessage := s.Status == statusPullSucceeded
		s.SetModels(msg.Models)
		switch {
		case len(s.Models) == 0:
			s.Status = "No local models found."
		case pullMessage && s.Status == statusPullSucceeded,
			s.Status == "Loading models...",
			s.Status == "Refreshing models...":
			s.Status = ""
		}
	}

	if s.Mode == ModeInstalling {
		s.Mode = ModeNormal
	}
	s.InstallStatus = ""
}

// fallBackToNormal returns to Normal after a failure. Modes that end only on
// their own completion are left alone; Help returns to Normal when dismissed.
func (s *State) fallBackToNormal() {
	s.setModeBehindHelp(ModeNormal)
}

func (s *State) setModeBehindHelp(m Mode) {
	switch s.Mode {
	case ModeInstalling, ModeRunningOllama:
		return
	case ModeHelp:
		s.PreviousMode = m
	default:
		s.Mode = m
	}
}
