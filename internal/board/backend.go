// Package board holds the client-side board state: the per-session
// caches that mirror the store, the hierarchical project/epic filter,
// and the pointer-drag controller. Rendering lives elsewhere — this
// package is the behavior between a gesture and a store call.
package board

import (
	"context"

	"github.com/taskdeck/taskdeck/internal/store"
)

// TaskBackend is the persistence boundary the task cache talks to.
// Implementations exist for a direct store and for the HTTP API.
type TaskBackend interface {
	ListTasks(ctx context.Context) ([]store.Task, error)
	CreateTask(ctx context.Context, d store.TaskDraft) (*store.Task, error)
	UpdateTask(ctx context.Context, id string, p store.TaskPatch) (*store.Task, error)
	DeleteTask(ctx context.Context, id string) error
}

// EpicBackend is the persistence boundary the epic cache talks to.
type EpicBackend interface {
	ListEpics(ctx context.Context) ([]store.Epic, error)
	CreateEpic(ctx context.Context, name, color string, projectID *string) (*store.Epic, error)
	UpdateEpic(ctx context.Context, id string, p store.EpicPatch) (*store.Epic, error)
	DeleteEpic(ctx context.Context, id string) error
}

// Backend is the full boundary a board session needs.
type Backend interface {
	TaskBackend
	EpicBackend
	ListProjects(ctx context.Context) ([]store.Project, error)
	ListComments(ctx context.Context, taskID string) ([]store.Comment, error)
	CreateComment(ctx context.Context, taskID, content, author string) (*store.Comment, error)
}
