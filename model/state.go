package model

import (
	"fmt"

	"github.com/google/uuid"

	"ollamatui/ollama"
)

// NoSelection marks an empty visible sequence.
const NoSelection = -1

const statusFetchingDetails = "Fetching details..."

// RegistryState is the install picker's view of the remote library.
type RegistryState struct {
	Models      []string
	Filter      FilterInput
	selected    int
	Tags        []string
	tagSelected int
	ChosenModel string
	ChosenTag   string
	Fetching    bool

	// fetchToken identifies the outstanding model listing; uuid.Nil when
	// none is expected.
	fetchToken uuid.UUID
}

// PullState tracks a streaming pull for the progress bar.
type PullState struct {
	Ref       string
	Status    string
	Completed int64
	Total     int64
}

func (p PullState) Fraction() float64 {
	return ollama.PullProgress{Total: p.Total, Completed: p.Completed}.Fraction()
}

// State is the whole session. It is owned by the control loop and only
// mutated by HandleKey and HandleEvent.
type State struct {
	Mode         Mode
	PreviousMode Mode

	Models   []ollama.ModelInfo
	Filter   FilterInput
	selected int

	Details *ollama.ModelDetails
	// detailFetch identifies the single outstanding detail fetch; uuid.Nil
	// when none is in flight.
	detailFetch     uuid.UUID
	detailFetchName string
	// detailFailed holds the name whose last fetch failed, so the loop does
	// not retry it until the selection changes.
	detailFailed string

	Registry RegistryState
	Pull     PullState

	Status        string
	InstallError  string
	InstallStatus string
	Loading       bool
	Quitting      bool
}

func NewState() *State {
	return &State{
		Mode:     ModeNormal,
		Filter:   NewFilterInput("filter models"),
		selected: NoSelection,
		Registry: RegistryState{
			Filter:      NewFilterInput("filter registry"),
			selected:    NoSelection,
			tagSelected: NoSelection,
		},
		Status:  "Loading models...",
		Loading: true,
	}
}

func modelName(m ollama.ModelInfo) string { return m.Name }

func identity(s string) string { return s }

// VisibleModels is the inventory after the filter, computed on read.
func (s *State) VisibleModels() []ollama.ModelInfo {
	return filterByName(s.Models, s.Filter.Value(), modelName)
}

func (s *State) IsFiltered() bool {
	return s.Filter.Value() != ""
}

// Selected returns the selection index into VisibleModels or NoSelection.
func (s *State) Selected() int {
	return s.selected
}

func (s *State) SelectedModel() (ollama.ModelInfo, bool) {
	visible := s.VisibleModels()
	if s.selected < 0 || s.selected >= len(visible) {
		return ollama.ModelInfo{}, false
	}
	return visible[s.selected], true
}

func (s *State) SelectedModelName() string {
	m, ok := s.SelectedModel()
	if !ok {
		return ""
	}
	return m.Name
}

// DetailFetchInFlight reports whether a detail fetch is outstanding.
func (s *State) DetailFetchInFlight() bool {
	return s.detailFetch != uuid.Nil
}

// ApplyFilter recomputes the visible sequence and resets selection to its
// first item. Cached details and any in-flight fetch are dropped.
func (s *State) ApplyFilter() {
	s.Details = nil
	s.detailFetch = uuid.Nil
	s.detailFailed = ""
	if len(s.VisibleModels()) == 0 {
		s.selected = NoSelection
		return
	}
	s.selected = 0
}

// ClearFilter empties the filter text and recomputes.
func (s *State) ClearFilter() {
	s.Filter.Clear()
	s.ApplyFilter()
}

// SelectAndPrepareFetch moves the selection to i, clamped to the visible
// sequence. When the selection changes, or nothing is cached, the detail
// cache is cleared and a new fetch is allowed.
func (s *State) SelectAndPrepareFetch(i int) {
	visible := s.VisibleModels()
	n := len(visible)
	if n == 0 {
		s.selected = NoSelection
		s.Details = nil
		s.detailFetch = uuid.Nil
		s.detailFailed = ""
		return
	}

	if i < 0 {
		i = 0
	}
	if i >= n {
		i = n - 1
	}

	if s.selected != i || s.Details == nil || s.Details.Name != visible[i].Name {
		s.selected = i
		s.Details = nil
		s.detailFetch = uuid.Nil
		s.detailFailed = ""
		s.Status = statusFetchingDetails
	}
}

func (s *State) NextModel() {
	s.SelectAndPrepareFetch(wrapNext(s.selected, len(s.VisibleModels())))
}

func (s *State) PreviousModel() {
	s.SelectAndPrepareFetch(wrapPrev(s.selected, len(s.VisibleModels())))
}

func (s *State) FirstModel() {
	s.SelectAndPrepareFetch(0)
}

func (s *State) LastModel() {
	s.SelectAndPrepareFetch(len(s.VisibleModels()) - 1)
}

func wrapNext(cur, n int) int {
	if n == 0 {
		return NoSelection
	}
	if cur < 0 {
		return 0
	}
	return (cur + 1) % n
}

func wrapPrev(cur, n int) int {
	if n == 0 {
		return NoSelection
	}
	if cur < 0 {
		return 0
	}
	return (cur - 1 + n) % n
}

// NextDetailFetch starts at most one detail fetch for the current selection
// when nothing is cached and nothing is in flight. It is called by the
// control loop after every dispatch.
func (s *State) NextDetailFetch() []Task {
	if s.Mode == ModeRunningOllama || s.Details != nil || s.DetailFetchInFlight() {
		return nil
	}
	name := s.SelectedModelName()
	if name == "" || name == s.detailFailed {
		return nil
	}

	s.detailFetch = uuid.New()
	s.detailFetchName = name
	return []Task{FetchDetailsTask{Name: name, Token: s.detailFetch}}
}

// SetModels replaces the inventory, keeping the previous selection index
// clamped to the new visible sequence.
func (s *State) SetModels(models []ollama.ModelInfo) {
	prev := s.selected
	s.Models = models
	if prev < 0 {
		prev = 0
	}
	s.SelectAndPrepareFetch(prev)
}

// VisibleRegistryModels is the registry list after its filter.
func (s *State) VisibleRegistryModels() []string {
	return filterByName(s.Registry.Models, s.Registry.Filter.Value(), identity)
}

func (s *State) IsRegistryFiltered() bool {
	return s.Registry.Filter.Value() != ""
}

func (s *State) RegistrySelected() int {
	return s.Registry.selected
}

func (s *State) SelectedRegistryModel() (string, bool) {
	visible := s.VisibleRegistryModels()
	if s.Registry.selected < 0 || s.Registry.selected >= len(visible) {
		return "", false
	}
	return visible[s.Registry.selected], true
}

func (s *State) ApplyRegistryFilter() {
	if len(s.VisibleRegistryModels()) == 0 {
		s.Registry.selected = NoSelection
		return
	}
	s.Registry.selected = 0
}

func (s *State) ClearRegistryFilter() {
	s.Registry.Filter.Clear()
	s.ApplyRegistryFilter()
}

func (s *State) NextRegistryModel() {
	s.Registry.selected = wrapNext(s.Registry.selected, len(s.VisibleRegistryModels()))
}

func (s *State) PreviousRegistryModel() {
	s.Registry.selected = wrapPrev(s.Registry.selected, len(s.VisibleRegistryModels()))
}

func (s *State) TagSelected() int {
	return s.Registry.tagSelected
}

func (s *State) SelectedTag() (string, bool) {
	if s.Registry.tagSelected < 0 || s.Registry.tagSelected >= len(s.Registry.Tags) {
		return "", false
	}
	return s.Registry.Tags[s.Registry.tagSelected], true
}

func (s *State) NextTag() {
	s.Registry.tagSelected = wrapNext(s.Registry.tagSelected, len(s.Registry.Tags))
}

func (s *State) PreviousTag() {
	s.Registry.tagSelected = wrapPrev(s.Registry.tagSelected, len(s.Registry.Tags))
}

// SetRegistryModels stores a fresh registry listing and re-applies the filter.
func (s *State) SetRegistryModels(models []string) {
	s.Registry.Models = models
	s.ApplyRegistryFilter()
}

// SetTags stores the tags of the chosen model and selects the first one.
func (s *State) SetTags(tags []string) {
	s.Registry.Tags = tags
	if len(tags) == 0 {
		s.Registry.tagSelected = NoSelection
		return
	}
	s.Registry.tagSelected = 0
}

// clearTags forgets the chosen model and its tags.
func (s *State) clearTags() {
	s.Registry.ChosenModel = ""
	s.Registry.ChosenTag = ""
	s.Registry.Tags = nil
	s.Registry.tagSelected = NoSelection
}

// resetRegistry drops all install picker state.
func (s *State) resetRegistry() {
	s.Registry.Models = nil
	s.Registry.Filter.Clear()
	s.Registry.selected = NoSelection
	s.Registry.Fetching = false
	s.Registry.fetchToken = uuid.Nil
	s.clearTags()
}

// startRegistryFetch marks a new registry listing as outstanding. Only the
// completion carrying the returned task's token is applied.
func (s *State) startRegistryFetch() Task {
	s.Registry.Fetching = true
	s.Registry.fetchToken = uuid.New()
	return FetchRegistryModelsTask{Token: s.Registry.fetchToken}
}

// RegistryFetchToken returns the token of the outstanding registry listing.
func (s *State) RegistryFetchToken() uuid.UUID {
	return s.Registry.fetchToken
}

// PullRef is the "model:tag" reference of the pending install.
func (s *State) PullRef() string {
	if s.Registry.ChosenModel == "" || s.Registry.ChosenTag == "" {
		return ""
	}
	return fmt.Sprintf("%s:%s", s.Registry.ChosenModel, s.Registry.ChosenTag)
}

// StatusLine resolves what the status bar shows. Install errors win over
// install progress, which wins over general status.
func (s *State) StatusLine() (text string, isError bool) {
	switch {
	case s.InstallError != "":
		return s.InstallError, true
	case s.InstallStatus != "":
		return s.InstallStatus, false
	default:
		return s.Status, false
	}
}

// CheckInvariants returns an error describing the first broken invariant.
func (s *State) CheckInvariants() error {
	n := len(s.VisibleModels())
	switch {
	case n == 0 && s.selected != NoSelection:
		return fmt.Errorf("selection %d with empty visible list", s.selected)
	case n > 0 && (s.selected < 0 || s.selected >= n):
		return fmt.Errorf("selection %d out of range [0,%d)", s.selected, n)
	}

	rn := len(s.VisibleRegistryModels())
	if s.Registry.selected >= rn {
		return fmt.Errorf("registry selection %d out of range [0,%d)", s.Registry.selected, rn)
	}

	pos, length := s.Filter.Position(), len([]rune(s.Filter.Value()))
	if pos < 0 || pos > length {
		return fmt.Errorf("filter cursor %d outside [0,%d]", pos, length)
	}
	return nil
}
