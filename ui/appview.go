package ui

import (
	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/progress"
	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"

	"ollamatui/config"
	appmodel "ollamatui/model"
)

// AppView is the control loop. It exclusively owns the session state; every
// key press and every background completion is applied to it here, one at a
// time, and the returned tasks are launched as commands.
type AppView struct {
	state    *appmodel.State
	launcher *appmodel.Launcher
	keys     appmodel.KeyMap
	kb       *config.KeyBindingsConfig

	host string

	// Window state
	width  int
	height int
	ready  bool

	loadingSpinner spinner.Model
	pullProgress   progress.Model
	help           help.Model
}

func NewAppView(launcher *appmodel.Launcher, cfg *config.Config) AppView {
	kb := config.DefaultKeybindings()
	host := config.DefaultOllamaHost
	if cfg != nil {
		if cfg.Keybindings != nil {
			kb = cfg.Keybindings
		}
		if cfg.OllamaHost != "" {
			host = cfg.OllamaHost
		}
	}

	if h := launcher.Host(); h != "" {
		host = h
	}

	sp := spinner.New()
	sp.Spinner = spinner.Dot
	sp.Style = HighlightStyle

	pb := progress.New(progress.WithDefaultGradient())
	pb.Width = 40

	h := help.New()
	h.ShortSeparator = "  "

	return AppView{
		state:          appmodel.NewState(),
		launcher:       launcher,
		keys:           appmodel.NewKeyMap(kb),
		kb:             kb,
		host:           host,
		loadingSpinner: sp,
		pullProgress:   pb,
		help:           h,
	}
}

// State exposes the session state for inspection.
func (a AppView) State() *appmodel.State {
	return a.state
}

func (a AppView) Init() tea.Cmd {
	config.Logf("[AppView] starting against %s", a.host)
	return tea.Batch(
		a.launcher.Launch(appmodel.RefreshTask{}),
		a.loadingSpinner.Tick,
	)
}
