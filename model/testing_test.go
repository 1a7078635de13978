package model

import (
	"context"
	"sync"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"ollamatui/apperr"
	"ollamatui/ollama"
)

// press builds the KeyMsg a terminal would deliver for s.
func press(s string) tea.KeyMsg {
	switch s {
	case "enter":
		return tea.KeyMsg{Type: tea.KeyEnter}
	case "esc":
		return tea.KeyMsg{Type: tea.KeyEscape}
	case "up":
		return tea.KeyMsg{Type: tea.KeyUp}
	case "down":
		return tea.KeyMsg{Type: tea.KeyDown}
	case "left":
		return tea.KeyMsg{Type: tea.KeyLeft}
	case "right":
		return tea.KeyMsg{Type: tea.KeyRight}
	case "home":
		return tea.KeyMsg{Type: tea.KeyHome}
	case "end":
		return tea.KeyMsg{Type: tea.KeyEnd}
	case "backspace":
		return tea.KeyMsg{Type: tea.KeyBackspace}
	case "ctrl+c":
		return tea.KeyMsg{Type: tea.KeyCtrlC}
	case " ":
		return tea.KeyMsg{Type: tea.KeySpace, Runes: []rune{' '}}
	}
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

func typeText(s *State, km KeyMap, text string) {
	for _, r := range text {
		HandleKey(press(string(r)), s, km)
	}
}

func inventory(names ...string) []ollama.ModelInfo {
	models := make([]ollama.ModelInfo, len(names))
	for i, n := range names {
		models[i] = ollama.ModelInfo{
			Name:       n,
			Size:       int64(i+1) << 30,
			ModifiedAt: time.Date(2025, 1, i+1, 0, 0, 0, 0, time.UTC),
			Digest:     "sha256:" + n,
		}
	}
	return models
}

// loadedState returns a Normal-mode state holding names, as after the
// initial refresh.
func loadedState(names ...string) *State {
	s := NewState()
	HandleEvent(ModelsRefreshedMsg{Models: inventory(names...)}, s)
	return s
}

func visibleNames(s *State) []string {
	var out []string
	for _, m := range s.VisibleModels() {
		out = append(out, m.Name)
	}
	return out
}

// fakeDaemon is an in-memory Ollama daemon.
type fakeDaemon struct {
	mu       sync.Mutex
	models   []ollama.ModelInfo
	listErr  error
	showErr  error
	pullErr  error
	progress []ollama.PullProgress
	deleted  []string
	pulled   []string
}

func (f *fakeDaemon) ListModels(ctx context.Context) ([]ollama.ModelInfo, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.listErr != nil {
		return nil, f.listErr
	}
	out := make([]ollama.ModelInfo, len(f.models))
	copy(out, f.models)
	return out, nil
}

func (f *fakeDaemon) ShowModel(ctx context.Context, name string) (*ollama.ModelDetails, error) {
	if f.showErr != nil {
		return nil, f.showErr
	}
	return &ollama.ModelDetails{Name: name, Family: "llama", Format: "gguf"}, nil
}

func (f *fakeDaemon) DeleteModel(ctx context.Context, name string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	for i, m := range f.models {
		if m.Name == name {
			f.models = append(f.models[:i], f.models[i+1:]...)
			f.deleted = append(f.deleted, name)
			return nil
		}
	}
	return apperr.NewResponse(404, "model '"+name+"' not found")
}

func (f *fakeDaemon) PullModel(ctx context.Context, ref string, progress func(ollama.PullProgress)) error {
	for _, p := range f.progress {
		progress(p)
	}
	if f.pullErr != nil {
		return f.pullErr
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	f.models = append(f.models, ollama.ModelInfo{Name: ref})
	f.pulled = append(f.pulled, ref)
	return nil
}

// fakeRegistry serves fixed listings.
type fakeRegistry struct {
	models  []string
	tags    map[string][]string
	err     error
	tagsErr error
}

func (f *fakeRegistry) ListModels(ctx context.Context) ([]string, error) {
	return f.models, f.err
}

func (f *fakeRegistry) ListTags(ctx context.Context, model string) ([]string, error) {
	if f.tagsErr != nil {
		return nil, f.tagsErr
	}
	return f.tags[model], nil
}

// runTasks launches tasks synchronously and feeds every completion back
// through HandleEvent, following chained tasks until none remain.
func runTasks(l *Launcher, s *State, tasks []Task) {
	for len(tasks) > 0 {
		t := tasks[0]
		tasks = tasks[1:]
		msg := l.Launch(t)()
		for {
			progress, ok := msg.(PullProgressMsg)
			tasks = append(tasks, HandleEvent(msg, s)...)
			if !ok {
				break
			}
			msg = progress.Next()()
		}
		tasks = append(tasks, s.NextDetailFetch()...)
	}
}
