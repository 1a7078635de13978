package model

import (
	tea "github.com/charmbracelet/bubbletea"
	"github.com/google/uuid"

	"ollamatui/ollama"
)

// Completion messages. Every background task delivers exactly one of these.

type DetailsFetchedMsg struct {
	Name    string
	Token   uuid.UUID
	Details *ollama.ModelDetails
	Err     error
}

type RegistryModelsFetchedMsg struct {
	Token  uuid.UUID
	Models []string
	Err    error
}

type RegistryTagsFetchedMsg struct {
	Model string
	Tags  []string
	Err   error
}

type DeleteCompletedMsg struct {
	Name string
	Err  error
}

type PullCompletedMsg struct {
	Ref string
	Err error
}

type ModelsRefreshedMsg struct {
	Models []ollama.ModelInfo
	Err    error
}

type RunCompletedMsg struct {
	Name string
	Err  error
}

type ClipboardMsg struct {
	Text string
	Err  error
}

// PullProgressMsg is an intermediate status line of a streaming pull. It is
// not a completion; the stream ends with a PullCompletedMsg.
type PullProgressMsg struct {
	Ref      string
	Progress ollama.PullProgress
	stream   <-chan tea.Msg
}

// Next waits for the following message on the same pull stream.
func (m PullProgressMsg) Next() tea.Cmd {
	return WaitForPull(m.stream)
}

// WaitForPull receives one message from a pull stream.
func WaitForPull(stream <-chan tea.Msg) tea.Cmd {
	if stream == nil {
		return nil
	}
	return func() tea.Msg {
		msg, ok := <-stream
		if !ok {
			return nil
		}
		return msg
	}
}
