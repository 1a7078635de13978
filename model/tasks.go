package model

import "github.com/google/uuid"

// Task describes background work requested by a handler. The set is closed;
// Launcher turns each one into a command.
type Task interface {
	task()
}

type FetchDetailsTask struct {
	Name  string
	Token uuid.UUID
}

type FetchRegistryModelsTask struct {
	Token uuid.UUID
}

type FetchRegistryTagsTask struct {
	Model string
}

type DeleteTask struct {
	Name string
}

type PullTask struct {
	Model string
	Tag   string
}

// Ref is the "model:tag" reference to pull.
func (t PullTask) Ref() string {
	return t.Model + ":" + t.Tag
}

type RunTask struct {
	Name string
}

type RefreshTask struct{}

type CopyNameTask struct {
	Name string
}

func (FetchDetailsTask) task()        {}
func (FetchRegistryModelsTask) task() {}
func (FetchRegistryTagsTask) task()   {}
func (DeleteTask) task()              {}
func (PullTask) task()                {}
func (RunTask) task()                 {}
func (RefreshTask) task()             {}
func (CopyNameTask) task()            {}
