package model

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/exec"
	"strings"
	"time"

	"github.com/atotto/clipboard"
	tea "github.com/charmbracelet/bubbletea"

	"ollamatui/apperr"
	"ollamatui/config"
	"ollamatui/ollama"
	"ollamatui/registry"
)

// Daemon is the subset of the local Ollama client the tasks use.
type Daemon interface {
	ListModels(ctx context.Context) ([]ollama.ModelInfo, error)
	ShowModel(ctx context.Context, name string) (*ollama.ModelDetails, error)
	DeleteModel(ctx context.Context, name string) error
	PullModel(ctx context.Context, ref string, progress func(ollama.PullProgress)) error
}

// Launcher turns Tasks into bubbletea commands. Each command owns copies of
// its inputs and returns exactly one completion message; launchers never
// touch State.
type Launcher struct {
	Daemon   Daemon
	Registry registry.Source

	// Binary is the ollama executable used for run and CLI pulls.
	Binary     string
	PullMethod string
	Timeout    time.Duration

	// Overridable in tests.
	Command   func(name string, args ...string) *exec.Cmd
	Clipboard func(text string) error
}

func NewLauncher(daemon Daemon, reg registry.Source, cfg *config.Config) *Launcher {
	l := &Launcher{
		Daemon:     daemon,
		Registry:   reg,
		Binary:     config.DefaultOllamaBinary,
		PullMethod: config.PullMethodAPI,
		Timeout:    config.DefaultRequestTimeout,
		Command:    exec.Command,
		Clipboard:  clipboard.WriteAll,
	}
	if cfg != nil {
		if cfg.OllamaBinary != "" {
			l.Binary = cfg.OllamaBinary
		}
		if cfg.PullMethod != "" {
			l.PullMethod = cfg.PullMethod
		}
		if cfg.RequestTimeout > 0 {
			l.Timeout = cfg.RequestTimeout
		}
	}
	return l
}

// Host reports the daemon address when the daemon exposes one.
func (l *Launcher) Host() string {
	if h, ok := l.Daemon.(interface{ Host() string }); ok {
		return h.Host()
	}
	return ""
}

// LaunchAll batches the commands for tasks. It returns nil for no tasks.
func (l *Launcher) LaunchAll(tasks []Task) tea.Cmd {
	switch len(tasks) {
	case 0:
		return nil
	case 1:
		return l.Launch(tasks[0])
	}
	cmds := make([]tea.Cmd, 0, len(tasks))
	for _, t := range tasks {
		cmds = append(cmds, l.Launch(t))
	}
	return tea.Batch(cmds...)
}

func (l *Launcher) Launch(t Task) tea.Cmd {
	switch t := t.(type) {
	case FetchDetailsTask:
		return l.fetchDetails(t)
	case FetchRegistryModelsTask:
		return l.fetchRegistryModels(t)
	case FetchRegistryTagsTask:
		return l.fetchRegistryTags(t)
	case DeleteTask:
		return l.deleteModel(t)
	case PullTask:
		if l.PullMethod == config.PullMethodCLI {
			return l.pullWithCLI(t)
		}
		return l.pullWithAPI(t)
	case RunTask:
		return l.runModel(t)
	case RefreshTask:
		return l.refresh()
	case CopyNameTask:
		return l.copyName(t)
	}
	config.Logf("[Launcher] unknown task %T", t)
	return nil
}

func (l *Launcher) requestContext() (context.Context, context.CancelFunc) {
	if l.Timeout <= 0 {
		return context.WithCancel(context.Background())
	}
	return context.WithTimeout(context.Background(), l.Timeout)
}

func (l *Launcher) fetchDetails(t FetchDetailsTask) tea.Cmd {
	daemon := l.Daemon
	return func() tea.Msg {
		ctx, cancel := l.requestContext()
		defer cancel()

		details, err := daemon.ShowModel(ctx, t.Name)
		if err != nil {
			config.Logf("[Launcher] show %s: %v", t.Name, err)
		}
		return DetailsFetchedMsg{Name: t.Name, Token: t.Token, Details: details, Err: err}
	}
}

func (l *Launcher) fetchRegistryModels(t FetchRegistryModelsTask) tea.Cmd {
	src := l.Registry
	return func() tea.Msg {
		ctx, cancel := l.requestContext()
		defer cancel()

		models, err := src.ListModels(ctx)
		if err != nil {
			config.Logf("[Launcher] registry models: %v", err)
		}
		return RegistryModelsFetchedMsg{Token: t.Token, Models: models, Err: err}
	}
}

func (l *Launcher) fetchRegistryTags(t FetchRegistryTagsTask) tea.Cmd {
	src := l.Registry
	return func() tea.Msg {
		ctx, cancel := l.requestContext()
		defer cancel()

		tags, err := src.ListTags(ctx, t.Model)
		if err != nil {
			config.Logf("[Launcher] registry tags %s: %v", t.Model, err)
		}
		return RegistryTagsFetchedMsg{Model: t.Model, Tags: tags, Err: err}
	}
}

func (l *Launcher) deleteModel(t DeleteTask) tea.Cmd {
	daemon := l.Daemon
	return func() tea.Msg {
		ctx, cancel := l.requestContext()
		defer cancel()

		err := daemon.DeleteModel(ctx, t.Name)
		config.Logf("[Launcher] delete %s: err=%v", t.Name, err)
		return DeleteCompletedMsg{Name: t.Name, Err: err}
	}
}

func (l *Launcher) refresh() tea.Cmd {
	daemon := l.Daemon
	return func() tea.Msg {
		ctx, cancel := l.requestContext()
		defer cancel()

		models, err := daemon.ListModels(ctx)
		if err != nil {
			config.Logf("[Launcher] list models: %v", err)
		}
		return ModelsRefreshedMsg{Models: models, Err: err}
	}
}

// pullWithAPI streams the pull. The command returns the first message of
// the stream; each PullProgressMsg carries the stream so the caller can wait
// for the next one. The stream always ends with a PullCompletedMsg.
func (l *Launcher) pullWithAPI(t PullTask) tea.Cmd {
	daemon := l.Daemon
	ref := t.Ref()
	return func() tea.Msg {
		stream := make(chan tea.Msg, 32)

		go func() {
			defer close(stream)

			err := daemon.PullModel(context.Background(), ref, func(p ollama.PullProgress) {
				select {
				case stream <- PullProgressMsg{Ref: ref, Progress: p, stream: stream}:
				default:
					// Progress is lossy; the bar catches up on the next line.
				}
			})
			config.Logf("[Launcher] pull %s finished: err=%v", ref, err)
			stream <- PullCompletedMsg{Ref: ref, Err: err}
		}()

		return <-stream
	}
}

func (l *Launcher) pullWithCLI(t PullTask) tea.Cmd {
	ref := t.Ref()
	cmd := l.foreground("pull", ref)
	return tea.ExecProcess(cmd, func(err error) tea.Msg {
		return PullCompletedMsg{Ref: ref, Err: commandError(cmd, err)}
	})
}

// runModel hands the terminal to "ollama run". bubbletea releases the
// alternate screen and raw mode before the process starts and restores
// both after it exits, before the completion message is delivered.
func (l *Launcher) runModel(t RunTask) tea.Cmd {
	cmd := l.foreground("run", t.Name)
	return tea.ExecProcess(cmd, func(err error) tea.Msg {
		return RunCompletedMsg{Name: t.Name, Err: commandError(cmd, err)}
	})
}

func (l *Launcher) foreground(args ...string) *exec.Cmd {
	command := l.Command
	if command == nil {
		command = exec.Command
	}
	cmd := command(l.Binary, args...)
	cmd.Stdin = os.Stdin
	cmd.Stdout = os.Stdout
	cmd.Stderr = os.Stderr
	config.Logf("[Launcher] exec %s", strings.Join(cmd.Args, " "))
	return cmd
}

func (l *Launcher) copyName(t CopyNameTask) tea.Cmd {
	write := l.Clipboard
	if write == nil {
		write = clipboard.WriteAll
	}
	return func() tea.Msg {
		if err := write(t.Name); err != nil {
			return ClipboardMsg{Text: t.Name, Err: apperr.NewIO("clipboard unavailable", err)}
		}
		return ClipboardMsg{Text: t.Name}
	}
}

// commandError classifies a foreground process failure. A non-zero exit is
// a command error; failing to start at all is an I/O error.
func commandError(cmd *exec.Cmd, err error) error {
	if err == nil {
		return nil
	}
	what := strings.Join(cmd.Args, " ")

	var exitErr *exec.ExitError
	if errors.As(err, &exitErr) {
		return apperr.NewCommand(fmt.Sprintf("%s exited with status %d", what, exitErr.ExitCode()), nil)
	}
	return apperr.NewIO(fmt.Sprintf("failed to start %s", what), err)
}
