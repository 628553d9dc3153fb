package board

import (
	"context"
	"errors"
	"fmt"

	"github.com/taskdeck/taskdeck/internal/store"
)

// LoadState tracks a cache's lifecycle. Mutations are only accepted
// once the initial fetch has landed — an empty collection before that
// point means "unknown", not "empty".
type LoadState int

const (
	Unloaded LoadState = iota
	Loading
	Loaded
	LoadFailed
)

// ErrNotLoaded is returned for mutations attempted before the cache
// finished its initial load. Callers retry after Load succeeds.
var ErrNotLoaded = errors.New("collection not loaded")

// TaskCache is the in-memory mirror of the task collection for one
// session. It is the single source of truth between fetches: every
// mutation goes through the backend first and local state is adjusted
// from that call's response, so out-of-order completions cannot clobber
// each other. Move is the one exception — see Move.
type TaskCache struct {
	backend TaskBackend
	state   LoadState
	loadErr error
	tasks   []store.Task
}

// NewTaskCache creates an unloaded cache over the given backend.
func NewTaskCache(b TaskBackend) *TaskCache {
	return &TaskCache{backend: b}
}

// State returns the cache lifecycle state.
func (c *TaskCache) State() LoadState { return c.state }

// LoadErr returns the error from a failed load, or nil.
func (c *TaskCache) LoadErr() error { return c.loadErr }

// Tasks returns the cached collection. Only meaningful once Loaded.
func (c *TaskCache) Tasks() []store.Task { return c.tasks }

// Get returns the cached task with the given id, or nil.
func (c *TaskCache) Get(id string) *store.Task {
	if i := c.index(id); i >= 0 {
		return &c.tasks[i]
	}
	return nil
}

// BeginLoad marks the cache Loading ahead of a fetch whose result will
// arrive via ApplyLoad. The cache is not safe for concurrent use, so a
// caller on a UI event loop fetches on another goroutine and keeps both
// BeginLoad and ApplyLoad on the loop.
func (c *TaskCache) BeginLoad() {
	c.state = Loading
}

// ApplyLoad completes a load with the fetched collection. On error the
// cache lands in LoadFailed with the error retained and an empty
// collection.
func (c *TaskCache) ApplyLoad(tasks []store.Task, err error) error {
	if err != nil {
		c.state = LoadFailed
		c.loadErr = err
		c.tasks = nil
		return fmt.Errorf("load tasks: %w", err)
	}
	c.state = Loaded
	c.loadErr = nil
	c.tasks = tasks
	return nil
}

// Load fetches the full collection once, synchronously.
func (c *TaskCache) Load(ctx context.Context) error {
	c.BeginLoad()
	tasks, err := c.backend.ListTasks(ctx)
	return c.ApplyLoad(tasks, err)
}

// Create sends the draft to the backend and appends the returned
// canonical record (server-assigned id and timestamp) on success.
// Local state is untouched on failure.
func (c *TaskCache) Create(ctx context.Context, d store.TaskDraft) (*store.Task, error) {
	if c.state != Loaded {
		return nil, ErrNotLoaded
	}
	t, err := c.backend.CreateTask(ctx, d)
	if err != nil {
		return nil, err
	}
	c.tasks = append(c.tasks, *t)
	return t, nil
}

// Update sends the patch and merges the backend's updated record into
// the collection. Applying the response rather than the local patch
// means a slow earlier call cannot overwrite a later edit's fields.
func (c *TaskCache) Update(ctx context.Context, id string, p store.TaskPatch) (*store.Task, error) {
	if c.state != Loaded {
		return nil, ErrNotLoaded
	}
	t, err := c.backend.UpdateTask(ctx, id, p)
	if err != nil {
		return nil, err
	}
	// The record may have been deleted locally while the call was in
	// flight; a response with no home is dropped, not an error.
	if i := c.index(id); i >= 0 {
		c.tasks[i] = *t
	}
	return t, nil
}

// Delete removes the record after the backend confirms the deletion.
func (c *TaskCache) Delete(ctx context.Context, id string) error {
	if c.state != Loaded {
		return ErrNotLoaded
	}
	if err := c.backend.DeleteTask(ctx, id); err != nil {
		return err
	}
	if i := c.index(id); i >= 0 {
		c.tasks = append(c.tasks[:i], c.tasks[i+1:]...)
	}
	return nil
}

// Move reassigns a task's column optimistically: the cached record
// changes before the backend call resolves so drags feel instant. If
// the call fails, the previous column is restored and the error
// surfaced. Returns the column the task came from.
func (c *TaskCache) Move(ctx context.Context, id string, to store.ColumnID) (store.ColumnID, error) {
	if c.state != Loaded {
		return "", ErrNotLoaded
	}
	i := c.index(id)
	if i < 0 {
		return "", fmt.Errorf("task %s: %w", id, store.ErrNotFound)
	}
	from := c.tasks[i].ColumnID
	c.tasks[i].ColumnID = to

	if _, err := c.backend.UpdateTask(ctx, id, store.TaskPatch{ColumnID: &to}); err != nil {
		// Restore the snapshot. Look the task up again — the slice may
		// have shifted while the call was in flight.
		if j := c.index(id); j >= 0 {
			c.tasks[j].ColumnID = from
		}
		return from, fmt.Errorf("move task: %w", err)
	}
	return from, nil
}

func (c *TaskCache) index(id string) int {
	for i := range c.tasks {
		if c.tasks[i].ID == id {
			return i
		}
	}
	return -1
}

// EpicCache mirrors the epic collection for one session. Same contract
// as TaskCache minus Move — epics have no columns.
type EpicCache struct {
	backend EpicBackend
	state   LoadState
	loadErr error
	epics   []store.Epic
}

// NewEpicCache creates an unloaded cache over the given backend.
func NewEpicCache(b EpicBackend) *EpicCache {
	return &EpicCache{backend: b}
}

// State returns the cache lifecycle state.
func (c *EpicCache) State() LoadState { return c.state }

// LoadErr returns the error from a failed load, or nil.
func (c *EpicCache) LoadErr() error { return c.loadErr }

// Epics returns the cached collection. Only meaningful once Loaded.
func (c *EpicCache) Epics() []store.Epic { return c.epics }

// BeginLoad marks the cache Loading ahead of a fetch whose result will
// arrive via ApplyLoad.
func (c *EpicCache) BeginLoad() {
	c.state = Loading
}

// ApplyLoad completes a load with the fetched collection.
func (c *EpicCache) ApplyLoad(epics []store.Epic, err error) error {
	if err != nil {
		c.state = LoadFailed
		c.loadErr = err
		c.epics = nil
		return fmt.Errorf("load epics: %w", err)
	}
	c.state = Loaded
	c.loadErr = nil
	c.epics = epics
	return nil
}

// Load fetches the full collection once, synchronously.
func (c *EpicCache) Load(ctx context.Context) error {
	c.BeginLoad()
	epics, err := c.backend.ListEpics(ctx)
	return c.ApplyLoad(epics, err)
}

// Create sends the new epic and appends the returned canonical record.
func (c *EpicCache) Create(ctx context.Context, name, color string, projectID *string) (*store.Epic, error) {
	if c.state != Loaded {
		return nil, ErrNotLoaded
	}
	e, err := c.backend.CreateEpic(ctx, name, color, projectID)
	if err != nil {
		return nil, err
	}
	c.epics = append(c.epics, *e)
	return e, nil
}

// Update sends the patch and merges the backend's updated record.
func (c *EpicCache) Update(ctx context.Context, id string, p store.EpicPatch) (*store.Epic, error) {
	if c.state != Loaded {
		return nil, ErrNotLoaded
	}
	e, err := c.backend.UpdateEpic(ctx, id, p)
	if err != nil {
		return nil, err
	}
	if i := c.index(id); i >= 0 {
		c.epics[i] = *e
	}
	return e, nil
}

// Delete removes the record after the backend confirms the deletion.
// The caller is responsible for refreshing any task collection that
// referenced the epic — the store clears those references server-side.
func (c *EpicCache) Delete(ctx context.Context, id string) error {
	if c.state != Loaded {
		return ErrNotLoaded
	}
	if err := c.backend.DeleteEpic(ctx, id); err != nil {
		return err
	}
	if i := c.index(id); i >= 0 {
		c.epics = append(c.epics[:i], c.epics[i+1:]...)
	}
	return nil
}

func (c *EpicCache) index(id string) int {
	for i := range c.epics {
		if c.epics[i].ID == id {
			return i
		}
	}
	return -1
}
