package model

import (
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"ollamatui/ollama"
)

func TestFilterByName(t *testing.T) {
	items := []string{"llama3", "Mistral", "llama2", "codeLLAMA"}

	tests := []struct {
		name string
		text string
		want []string
	}{
		{"empty text keeps all", "", items},
		{"case-insensitive substring", "llama", []string{"llama3", "llama2", "codeLLAMA"}},
		{"upper-case needle", "MIS", []string{"Mistral"}},
		{"no match", "gemma", []string{}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, filterByName(items, tt.text, identity))
		})
	}
}

func TestFilterNarrowsList(t *testing.T) {
	s := loadedState("llama3", "mistral", "llama2")
	km := DefaultKeyMap()

	HandleKey(press("/"), s, km)
	typeText(s, km, "llama")

	assert.Equal(t, []string{"llama3", "llama2"}, visibleNames(s))
	assert.Equal(t, 0, s.Selected())
	assert.True(t, s.IsFiltered())
	assert.Nil(t, s.Details)
}

func TestFilterIdempotence(t *testing.T) {
	s := loadedState("llama3", "mistral", "llama2", "phi3")
	s.Mode = ModeFilter
	typeText(s, DefaultKeyMap(), "ll")
	s.ApplyFilter()
	first, firstSel := visibleNames(s), s.Selected()

	s.ApplyFilter()
	assert.Equal(t, first, visibleNames(s))
	assert.Equal(t, firstSel, s.Selected())
	assert.Equal(t, 0, s.Selected())
}

func TestFilterEmptyResultClearsSelection(t *testing.T) {
	s := loadedState("llama3", "mistral")
	km := DefaultKeyMap()

	HandleKey(press("/"), s, km)
	typeText(s, km, "zzz")

	assert.Empty(t, s.VisibleModels())
	assert.Equal(t, NoSelection, s.Selected())
	_, ok := s.SelectedModel()
	assert.False(t, ok)
	assert.Nil(t, s.NextDetailFetch(), "no fetch without a selection")

	HandleKey(press("backspace"), s, km)
	HandleKey(press("backspace"), s, km)
	HandleKey(press("backspace"), s, km)
	assert.Len(t, s.VisibleModels(), 2)
	assert.Equal(t, 0, s.Selected())
}

func TestFilterSelectionInvariantUnderRandomEdits(t *testing.T) {
	names := []string{"llama3", "mistral", "llama2", "phi3", "gemma:2b", "qwen2.5-coder", "llava"}
	keys := []string{"l", "a", "m", "i", "2", "3", "q", ":", "x", "é", " ", "backspace", "left", "right", "ctrl+c", "home", "end"}
	km := DefaultKeyMap()
	rng := rand.New(rand.NewSource(42))

	for run := 0; run < 200; run++ {
		s := loadedState(names...)
		HandleKey(press("/"), s, km)
		require.Equal(t, ModeFilter, s.Mode)

		for step := 0; step < 40; step++ {
			HandleKey(press(keys[rng.Intn(len(keys))]), s, km)

			require.NoError(t, s.CheckInvariants(), "run %d step %d filter %q", run, step, s.Filter.Value())
			if len(s.VisibleModels()) == 0 {
				require.Equal(t, NoSelection, s.Selected())
			} else {
				require.GreaterOrEqual(t, s.Selected(), 0)
				require.Less(t, s.Selected(), len(s.VisibleModels()))
			}
		}
	}
}

func TestWrapAroundNavigation(t *testing.T) {
	names := []string{"a", "b", "c", "d", "e"}
	n := len(names)

	for start := 0; start < n; start++ {
		s := loadedState(names...)
		s.SelectAndPrepareFetch(start)

		for i := 0; i < n; i++ {
			s.NextModel()
		}
		assert.Equal(t, start, s.Selected(), "next x%d from %d", n, start)

		for i := 0; i < n; i++ {
			s.PreviousModel()
		}
		assert.Equal(t, start, s.Selected(), "previous x%d from %d", n, start)
	}
}

func TestNavigationEdges(t *testing.T) {
	s := loadedState("a", "b", "c")

	s.SelectAndPrepareFetch(0)
	s.PreviousModel()
	assert.Equal(t, 2, s.Selected(), "previous wraps to last")
	s.NextModel()
	assert.Equal(t, 0, s.Selected(), "next wraps to first")

	empty := NewState()
	empty.NextModel()
	assert.Equal(t, NoSelection, empty.Selected())
	empty.PreviousModel()
	assert.Equal(t, NoSelection, empty.Selected())

	s.selected = NoSelection
	s.PreviousModel()
	assert.Equal(t, 0, s.Selected(), "previous from none selects first")
}

func TestSelectAndPrepareFetch(t *testing.T) {
	s := loadedState("a", "b")
	tasks := s.NextDetailFetch()
	require.Len(t, tasks, 1)
	fetch := tasks[0].(FetchDetailsTask)
	assert.Equal(t, "a", fetch.Name)
	assert.True(t, s.DetailFetchInFlight())
	assert.Nil(t, s.NextDetailFetch(), "only one fetch in flight")

	HandleEvent(DetailsFetchedMsg{Name: "a", Token: fetch.Token, Details: &ollama.ModelDetails{Name: "a"}}, s)
	require.NotNil(t, s.Details)

	s.SelectAndPrepareFetch(0)
	assert.NotNil(t, s.Details, "same selection keeps cached details")

	s.SelectAndPrepareFetch(1)
	assert.Nil(t, s.Details)
	assert.False(t, s.DetailFetchInFlight())
	assert.Equal(t, statusFetchingDetails, s.Status)

	s.SelectAndPrepareFetch(99)
	assert.Equal(t, 1, s.Selected(), "index is clamped")
}

func TestSetModelsClampsPreviousIndex(t *testing.T) {
	s := loadedState("a", "b", "c")
	s.SelectAndPrepareFetch(2)

	s.SetModels(inventory("a", "b"))
	assert.Equal(t, 1, s.Selected())

	s.SetModels(nil)
	assert.Equal(t, NoSelection, s.Selected())
	require.NoError(t, s.CheckInvariants())
}

func TestRegistryNavigationAndFilter(t *testing.T) {
	s := NewState()
	s.Mode = ModeInstallSelectModel
	s.SetRegistryModels([]string{"gemma", "llama3", "llava", "mistral"})
	assert.Equal(t, 0, s.RegistrySelected())

	s.PreviousRegistryModel()
	name, ok := s.SelectedRegistryModel()
	require.True(t, ok)
	assert.Equal(t, "mistral", name)

	s.Registry.Filter.Edit(press("l"))
	s.Registry.Filter.Edit(press("l"))
	s.ApplyRegistryFilter()
	assert.Equal(t, []string{"llama3", "llava"}, s.VisibleRegistryModels())
	assert.Equal(t, 0, s.RegistrySelected())

	s.ClearRegistryFilter()
	assert.Len(t, s.VisibleRegistryModels(), 4)
}

func TestStatusLinePrecedence(t *testing.T) {
	s := NewState()
	s.Status = "general"
	text, isErr := s.StatusLine()
	assert.Equal(t, "general", text)
	assert.False(t, isErr)

	s.InstallStatus = "pulling"
	text, _ = s.StatusLine()
	assert.Equal(t, "pulling", text)

	s.InstallError = "boom"
	text, isErr = s.StatusLine()
	assert.Equal(t, "boom", text)
	assert.True(t, isErr)
}

func TestFilterInputCursorCountsRunes(t *testing.T) {
	f := NewFilterInput("")
	for _, k := range []string{"é", "ß", "x"} {
		f.Edit(press(k))
	}
	assert.Equal(t, "éßx", f.Value())
	assert.Equal(t, 3, f.Position())

	f.Edit(press("left"))
	f.Edit(press("left"))
	assert.Equal(t, 1, f.Position())

	f.Edit(press("backspace"))
	assert.Equal(t, "ßx", f.Value())
	assert.Equal(t, 0, f.Position())

	f.Edit(press("backspace"))
	assert.Equal(t, 0, f.Position(), "cursor stays in bounds")

	f.Clear()
	assert.Equal(t, "", f.Value())
	assert.Equal(t, 0, f.Position())
}
