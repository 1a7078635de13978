package model

import (
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"ollamatui/apperr"
	"ollamatui/config"
	"ollamatui/ollama"
)

func TestStaleDetailFetchIsDiscarded(t *testing.T) {
	s := loadedState("llama3", "mistral")

	tasks := s.NextDetailFetch()
	require.Len(t, tasks, 1)
	fetchA := tasks[0].(FetchDetailsTask)
	require.Equal(t, "llama3", fetchA.Name)

	HandleKey(press("j"), s, DefaultKeyMap())
	require.Equal(t, "mistral", s.SelectedModelName())

	HandleEvent(DetailsFetchedMsg{Name: "llama3", Token: fetchA.Token, Details: &ollama.ModelDetails{Name: "llama3"}}, s)
	assert.Nil(t, s.Details, "answer for the old selection must not land")

	tasks = s.NextDetailFetch()
	require.Len(t, tasks, 1)
	fetchB := tasks[0].(FetchDetailsTask)
	assert.Equal(t, "mistral", fetchB.Name)
	assert.NotEqual(t, fetchA.Token, fetchB.Token)

	HandleEvent(DetailsFetchedMsg{Name: "mistral", Token: fetchB.Token, Details: &ollama.ModelDetails{Name: "mistral"}}, s)
	require.NotNil(t, s.Details)
	assert.Equal(t, "mistral", s.Details.Name)
	assert.Empty(t, s.Status)
}

func TestStaleFetchAfterReturningToSameModel(t *testing.T) {
	s := loadedState("llama3", "mistral")
	km := DefaultKeyMap()

	fetchA := s.NextDetailFetch()[0].(FetchDetailsTask)
	HandleKey(press("j"), s, km)
	HandleKey(press("k"), s, km)
	fetchA2 := s.NextDetailFetch()[0].(FetchDetailsTask)

	HandleEvent(DetailsFetchedMsg{Name: "llama3", Token: fetchA.Token, Details: &ollama.ModelDetails{Name: "llama3", Family: "old"}}, s)
	assert.Nil(t, s.Details, "token from an abandoned fetch is rejected even for the same name")
	assert.True(t, s.DetailFetchInFlight())

	HandleEvent(DetailsFetchedMsg{Name: "llama3", Token: fetchA2.Token, Details: &ollama.ModelDetails{Name: "llama3", Family: "new"}}, s)
	require.NotNil(t, s.Details)
	assert.Equal(t, "new", s.Details.Family)
}

func TestDetailFetchFailureIsNotRetried(t *testing.T) {
	s := loadedState("llama3", "mistral")
	fetch := s.NextDetailFetch()[0].(FetchDetailsTask)

	HandleEvent(DetailsFetchedMsg{Name: "llama3", Token: fetch.Token, Err: apperr.NewNetwork("connection refused", nil)}, s)
	assert.Nil(t, s.Details)
	assert.Contains(t, s.Status, "Error fetching details:")
	assert.Nil(t, s.NextDetailFetch(), "failed fetch waits for a selection change")

	HandleKey(press("j"), s, DefaultKeyMap())
	assert.Len(t, s.NextDetailFetch(), 1)
}

func TestUntokenedDetailsIgnored(t *testing.T) {
	s := loadedState("llama3")
	HandleEvent(DetailsFetchedMsg{Name: "llama3", Token: uuid.Nil, Details: &ollama.ModelDetails{Name: "llama3"}}, s)
	assert.Nil(t, s.Details)
}

func TestDeleteFlow(t *testing.T) {
	daemon := &fakeDaemon{models: inventory("llama3", "mistral", "phi3")}
	l := NewLauncher(daemon, &fakeRegistry{}, nil)
	km := DefaultKeyMap()

	s := NewState()
	runTasks(l, s, []Task{RefreshTask{}})
	require.Equal(t, []string{"llama3", "mistral", "phi3"}, visibleNames(s))

	HandleKey(press("j"), s, km)
	HandleKey(press("d"), s, km)
	require.Equal(t, ModeConfirmDelete, s.Mode)

	tasks, _ := HandleKey(press("y"), s, km)
	require.Equal(t, []Task{DeleteTask{Name: "mistral"}}, tasks)
	assert.Equal(t, "Deleting mistral...", s.Status)

	runTasks(l, s, tasks)
	assert.Equal(t, ModeNormal, s.Mode)
	assert.Equal(t, []string{"llama3", "phi3"}, visibleNames(s))
	assert.Equal(t, []string{"mistral"}, daemon.deleted)
	assert.Equal(t, 1, s.Selected(), "selection index is kept and clamped")
	assert.NoError(t, s.CheckInvariants())
}

func TestDeleteFailure(t *testing.T) {
	daemon := &fakeDaemon{models: inventory("llama3")}
	l := NewLauncher(daemon, &fakeRegistry{}, nil)
	s := loadedState("llama3", "ghost")

	runTasks(l, s, []Task{DeleteTask{Name: "ghost"}})
	assert.Equal(t, ModeNormal, s.Mode)
	assert.Contains(t, s.InstallError, "Failed to delete ghost")
	assert.Contains(t, s.InstallError, "404")
}

func TestDeleteFailureWhileHelpOpen(t *testing.T) {
	s := loadedState("llama3")
	s.Mode = ModeHelp
	s.PreviousMode = ModeConfirmDelete

	HandleEvent(DeleteCompletedMsg{Name: "llama3", Err: errors.New("boom")}, s)
	assert.Equal(t, ModeHelp, s.Mode)
	assert.Equal(t, ModeNormal, s.PreviousMode)
}

func TestInstallWithEmptyTags(t *testing.T) {
	reg := &fakeRegistry{models: []string{"gemma", "mistral"}, tags: map[string][]string{}}
	l := NewLauncher(&fakeDaemon{}, reg, nil)
	km := DefaultKeyMap()
	s := loadedState("llama3")

	tasks, _ := HandleKey(press("i"), s, km)
	runTasks(l, s, tasks)
	require.Equal(t, ModeInstallSelectModel, s.Mode)
	require.Equal(t, []string{"gemma", "mistral"}, s.VisibleRegistryModels())

	tasks, _ = HandleKey(press("enter"), s, km)
	require.Equal(t, ModeInstallSelectTag, s.Mode)
	runTasks(l, s, tasks)

	assert.Equal(t, ModeInstallSelectModel, s.Mode)
	assert.Equal(t, "No tags found for gemma.", s.InstallError)
	assert.Empty(t, s.Registry.ChosenModel)
	assert.Empty(t, s.Registry.Tags)
	text, isErr := s.StatusLine()
	assert.Equal(t, "No tags found for gemma.", text)
	assert.True(t, isErr)
}

func TestTagFetchErrorFallsBackToModelList(t *testing.T) {
	reg := &fakeRegistry{models: []string{"gemma"}, tagsErr: apperr.NewScraping("no tag links")}
	l := NewLauncher(&fakeDaemon{}, reg, nil)
	km := DefaultKeyMap()
	s := loadedState("llama3")

	tasks, _ := HandleKey(press("i"), s, km)
	runTasks(l, s, tasks)
	tasks, _ = HandleKey(press("enter"), s, km)
	runTasks(l, s, tasks)

	assert.Equal(t, ModeInstallSelectModel, s.Mode)
	assert.Contains(t, s.InstallError, "Failed to fetch tags for gemma")
}

func TestRegistryFailureReturnsToNormal(t *testing.T) {
	reg := &fakeRegistry{err: apperr.NewNetwork("registry unreachable", nil)}
	l := NewLauncher(&fakeDaemon{}, reg, nil)
	s := loadedState("llama3")

	tasks, _ := HandleKey(press("i"), s, DefaultKeyMap())
	runTasks(l, s, tasks)

	assert.Equal(t, ModeNormal, s.Mode)
	assert.Contains(t, s.InstallError, "Failed to fetch models")
	assert.Empty(t, s.Registry.Models)
	assert.False(t, s.Registry.Fetching)
}

func TestLateRegistryModelsIgnoredOutsideInstallFlow(t *testing.T) {
	s := loadedState("llama3")
	HandleKey(press("i"), s, DefaultKeyMap())
	HandleKey(press("esc"), s, DefaultKeyMap())
	require.Equal(t, ModeNormal, s.Mode)

	HandleEvent(RegistryModelsFetchedMsg{Models: []string{"gemma"}}, s)
	assert.Empty(t, s.Registry.Models)
}

func TestInstallPullAndRefresh(t *testing.T) {
	daemon := &fakeDaemon{
		models: inventory("llama3"),
		progress: []ollama.PullProgress{
			{Status: "pulling manifest"},
			{Status: "downloading", Total: 100, Completed: 40},
			{Status: "success"},
		},
	}
	reg := &fakeRegistry{models: []string{"phi3"}, tags: map[string][]string{"phi3": {"latest"}}}
	l := NewLauncher(daemon, reg, nil)
	km := DefaultKeyMap()
	s := loadedState("llama3")

	tasks, _ := HandleKey(press("i"), s, km)
	runTasks(l, s, tasks)
	tasks, _ = HandleKey(press("enter"), s, km)
	runTasks(l, s, tasks)
	HandleKey(press("enter"), s, km)
	require.Equal(t, ModeInstallConfirm, s.Mode)

	tasks, _ = HandleKey(press("y"), s, km)
	require.Equal(t, ModeInstalling, s.Mode)
	runTasks(l, s, tasks)

	assert.Equal(t, ModeNormal, s.Mode)
	assert.Equal(t, []string{"phi3:latest"}, daemon.pulled)
	assert.Equal(t, []string{"llama3", "phi3:latest"}, visibleNames(s))
	assert.Empty(t, s.InstallStatus)
	assert.Empty(t, s.InstallError)
	assert.Empty(t, s.Registry.ChosenModel)
	assert.Zero(t, s.Pull)
}

func TestPullProgressUpdatesState(t *testing.T) {
	s := loadedState("llama3")
	s.Mode = ModeInstalling
	s.Pull = PullState{Ref: "phi3:latest"}

	HandleEvent(PullProgressMsg{Ref: "phi3:latest", Progress: ollama.PullProgress{Status: "downloading", Total: 200, Completed: 50}}, s)
	assert.Equal(t, "Pulling phi3:latest: downloading", s.InstallStatus)
	assert.InDelta(t, 0.25, s.Pull.Fraction(), 1e-9)

	HandleEvent(PullProgressMsg{Ref: "phi3:latest", Progress: ollama.PullProgress{Status: "verifying sha256 digest"}}, s)
	assert.InDelta(t, 0.25, s.Pull.Fraction(), 1e-9, "lines without totals keep the last fraction")

	HandleEvent(PullProgressMsg{Ref: "other:tag", Progress: ollama.PullProgress{Status: "x"}}, s)
	assert.Equal(t, "Pulling phi3:latest: verifying sha256 digest", s.InstallStatus)
}

func TestPullFailure(t *testing.T) {
	s := loadedState("llama3")
	s.Mode = ModeInstalling
	s.Pull = PullState{Ref: "phi3:latest"}
	s.InstallStatus = "Pulling phi3:latest: downloading"

	tasks := HandleEvent(PullCompletedMsg{Ref: "phi3:latest", Err: apperr.NewCommand("ollama pull phi3:latest exited with status 1", nil)}, s)
	assert.Equal(t, []Task{RefreshTask{}}, tasks)
	assert.Equal(t, ModeNormal, s.Mode)
	assert.Contains(t, s.InstallError, "Model pull failed:")
	assert.Empty(t, s.InstallStatus)

	HandleEvent(ModelsRefreshedMsg{Err: apperr.NewNetwork("connection refused", nil)}, s)
	assert.Contains(t, s.InstallError, "Model pull failed:", "refresh error does not hide the install error")
	assert.NotContains(t, s.Status, "Error refreshing models")
}

func TestRefreshFailureAndEmptyInventory(t *testing.T) {
	s := NewState()
	HandleEvent(ModelsRefreshedMsg{Err: apperr.NewNetwork("connection refused", nil)}, s)
	assert.False(t, s.Loading)
	assert.Contains(t, s.Status, "Error refreshing models")

	HandleEvent(ModelsRefreshedMsg{}, s)
	assert.Equal(t, "No local models found.", s.Status)
	assert.Equal(t, NoSelection, s.Selected())
}

func TestRefreshKeepsFilter(t *testing.T) {
	s := loadedState("llama3", "mistral", "llama2")
	s.Mode = ModeFilter
	typeText(s, DefaultKeyMap(), "llama")
	HandleKey(press("enter"), s, DefaultKeyMap())

	HandleEvent(ModelsRefreshedMsg{Models: inventory("llama3", "mistral", "llama2", "llama3.1")}, s)
	assert.Equal(t, []string{"llama3", "llama2", "llama3.1"}, visibleNames(s))
	assert.NoError(t, s.CheckInvariants())
}

func TestRunCompletion(t *testing.T) {
	s := loadedState("llama3")
	s.Mode = ModeRunningOllama

	HandleEvent(RunCompletedMsg{Name: "llama3", Err: apperr.NewCommand("ollama run llama3 exited with status 1", nil)}, s)
	assert.Equal(t, ModeNormal, s.Mode)
	assert.Equal(t, "'ollama run llama3' failed: ollama run llama3 exited with status 1", s.Status)

	s.Mode = ModeRunningOllama
	HandleEvent(RunCompletedMsg{Name: "llama3"}, s)
	assert.Equal(t, ModeNormal, s.Mode)
	assert.Empty(t, s.Status)
}

func TestClipboardStatus(t *testing.T) {
	s := loadedState("llama3")
	HandleEvent(ClipboardMsg{Text: "llama3"}, s)
	assert.Equal(t, "Copied llama3 to clipboard", s.Status)

	HandleEvent(ClipboardMsg{Text: "llama3", Err: errors.New("no xclip")}, s)
	assert.Contains(t, s.Status, "Copy failed")
}

func TestUnknownMessageIgnored(t *testing.T) {
	s := loadedState("llama3")
	mode, status := s.Mode, s.Status
	assert.Nil(t, HandleEvent(struct{}{}, s))
	assert.Equal(t, mode, s.Mode)
	assert.Equal(t, status, s.Status)
}

// allowedTransitions lists every mode a single key press may move to.
var allowedTransitions = map[Mode][]Mode{
	ModeNormal:                   {ModeNormal, ModeFilter, ModeConfirmDelete, ModeInstallSelectModel, ModeRunningOllama, ModeHelp},
	ModeFilter:                   {ModeFilter, ModeNormal},
	ModeConfirmDelete:            {ModeConfirmDelete, ModeNormal, ModeHelp},
	ModeInstallSelectModel:       {ModeInstallSelectModel, ModeInstallSelectModelFilter, ModeInstallSelectTag, ModeNormal, ModeHelp},
	ModeInstallSelectModelFilter: {ModeInstallSelectModelFilter, ModeInstallSelectModel},
	ModeInstallSelectTag:         {ModeInstallSelectTag, ModeInstallConfirm, ModeInstallSelectModel, ModeHelp},
	ModeInstallConfirm:           {ModeInstallConfirm, ModeInstalling, ModeInstallSelectTag, ModeHelp},
	ModeInstalling:               {ModeInstalling},
	ModeRunningOllama:            {ModeRunningOllama},
	ModeHelp:                     nil,
}

func TestModeTransitionsAreClosed(t *testing.T) {
	keys := []string{"q", "j", "k", "g", "G", "/", "ctrl+c", "d", "i", "enter", "r", "y", "n", "esc", "h", "?", "x", "up", "down", "backspace"}
	km := DefaultKeyMap()

	for _, from := range AllModes() {
		for _, k := range keys {
			s := loadedState("llama3", "mistral")
			s.SetRegistryModels([]string{"gemma", "phi3"})
			s.Registry.ChosenModel = "gemma"
			s.SetTags([]string{"2b", "7b"})
			if from == ModeInstallConfirm {
				s.Registry.ChosenTag = "2b"
			}
			s.PreviousMode = ModeInstallSelectTag
			s.Mode = from

			HandleKey(press(k), s, km)

			allowed := allowedTransitions[from]
			if from == ModeHelp {
				allowed = []Mode{ModeHelp, ModeInstallSelectTag}
			}
			assert.Contains(t, allowed, s.Mode, "%s --%s--> %s", from, k, s.Mode)
			assert.NoError(t, s.CheckInvariants(), "%s --%s-->", from, k)
		}
	}
}

func TestLauncherHonorsConfig(t *testing.T) {
	cfg := &config.Config{OllamaBinary: "/opt/ollama", PullMethod: config.PullMethodCLI, RequestTimeout: 5 * time.Second}
	l := NewLauncher(&fakeDaemon{}, &fakeRegistry{}, cfg)
	assert.Equal(t, "/opt/ollama", l.Binary)
	assert.Equal(t, config.PullMethodCLI, l.PullMethod)
	assert.Equal(t, cfg.RequestTimeout, l.Timeout)
}

func TestStaleRegistryListingAfterReenteringInstall(t *testing.T) {
	km := DefaultKeyMap()
	s := loadedState("llama3")

	HandleKey(press("i"), s, km)
	first := s.RegistryFetchToken()
	HandleKey(press("esc"), s, km)
	require.Equal(t, ModeNormal, s.Mode)
	assert.Equal(t, uuid.Nil, s.RegistryFetchToken())

	HandleKey(press("i"), s, km)
	second := s.RegistryFetchToken()
	require.NotEqual(t, first, second)

	HandleEvent(RegistryModelsFetchedMsg{Token: first, Models: []string{"old"}}, s)
	assert.True(t, s.Registry.Fetching, "the second listing is still outstanding")
	assert.Empty(t, s.Registry.Models)

	HandleEvent(RegistryModelsFetchedMsg{Token: second, Models: []string{"gemma", "mistral"}}, s)
	assert.False(t, s.Registry.Fetching)
	assert.Equal(t, []string{"gemma", "mistral"}, s.Registry.Models)

	name, ok := s.SelectedRegistryModel()
	require.True(t, ok)
	assert.Equal(t, "gemma", name)

	HandleKey(press("j"), s, km)
	HandleEvent(RegistryModelsFetchedMsg{Token: second, Models: []string{"late"}}, s)
	name, _ = s.SelectedRegistryModel()
	assert.Equal(t, "mistral", name, "a duplicate completion does not reset the selection")
}
