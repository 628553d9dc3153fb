package client

import (
	"context"

	"github.com/taskdeck/taskdeck/internal/board"
	"github.com/taskdeck/taskdeck/internal/notify"
	"github.com/taskdeck/taskdeck/internal/store"
)

var _ board.Backend = (*Local)(nil)

// Local runs the board against the SQLite store in-process. Task
// mutations go through the notify dispatcher after they commit, so a
// local session produces the same notifications a server would.
type Local struct {
	store  *store.Store
	notify *notify.Dispatcher
}

// NewLocal wraps a store. The dispatcher may be nil, which disables
// notifications.
func NewLocal(st *store.Store, d *notify.Dispatcher) *Local {
	return &Local{store: st, notify: d}
}

// Wait blocks until in-flight notifications finish.
func (l *Local) Wait() {
	l.notify.Wait()
}

// --- tasks ---

func (l *Local) ListTasks(ctx context.Context) ([]store.Task, error) {
	return l.store.ListTasks()
}

func (l *Local) CreateTask(ctx context.Context, d store.TaskDraft) (*store.Task, error) {
	task, err := l.store.CreateTask(d)
	if err != nil {
		return nil, err
	}
	l.notify.TaskCreated(*task)
	return task, nil
}

// UpdateTask applies a patch and reports the change. A patch that moved
// the task between columns dispatches a move event instead of a plain
// update.
func (l *Local) UpdateTask(ctx context.Context, id string, p store.TaskPatch) (*store.Task, error) {
	prior, err := l.store.GetTask(id)
	if err != nil {
		return nil, err
	}
	task, err := l.store.UpdateTask(id, p)
	if err != nil {
		return nil, err
	}
	if task.ColumnID != prior.ColumnID {
		l.notify.TaskMoved(*task, prior.ColumnID, task.ColumnID)
	} else {
		l.notify.TaskUpdated(*task)
	}
	return task, nil
}

func (l *Local) DeleteTask(ctx context.Context, id string) error {
	task, err := l.store.GetTask(id)
	if err != nil {
		return err
	}
	if err := l.store.DeleteTask(id); err != nil {
		return err
	}
	l.notify.TaskDeleted(*task)
	return nil
}

// --- epics ---

func (l *Local) ListEpics(ctx context.Context) ([]store.Epic, error) {
	return l.store.ListEpics()
}

func (l *Local) CreateEpic(ctx context.Context, name, color string, projectID *string) (*store.Epic, error) {
	return l.store.CreateEpic(name, color, projectID)
}

func (l *Local) UpdateEpic(ctx context.Context, id string, p store.EpicPatch) (*store.Epic, error) {
	return l.store.UpdateEpic(id, p)
}

func (l *Local) DeleteEpic(ctx context.Context, id string) error {
	return l.store.DeleteEpic(id)
}

// --- projects ---

func (l *Local) ListProjects(ctx context.Context) ([]store.Project, error) {
	return l.store.ListProjects()
}

func (l *Local) CreateProject(ctx context.Context, name, color string) (*store.Project, error) {
	return l.store.CreateProject(name, color)
}

func (l *Local) DeleteProject(ctx context.Context, id string) error {
	return l.store.DeleteProject(id)
}

// --- comments ---

func (l *Local) ListComments(ctx context.Context, taskID string) ([]store.Comment, error) {
	return l.store.ListComments(taskID)
}

func (l *Local) CreateComment(ctx context.Context, taskID, content, author string) (*store.Comment, error) {
	return l.store.CreateComment(taskID, content, author)
}
