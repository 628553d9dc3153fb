package board

import (
	"context"
	"errors"
	"testing"

	"github.com/taskdeck/taskdeck/internal/store"
)

// fakeBackend is an in-memory TaskBackend with switchable failure modes.
type fakeBackend struct {
	tasks   []store.Task
	nextID  int
	failure error // returned by every call while set
	calls   int
}

func (f *fakeBackend) ListTasks(ctx context.Context) ([]store.Task, error) {
	f.calls++
	if f.failure != nil {
		return nil, f.failure
	}
	out := make([]store.Task, len(f.tasks))
	copy(out, f.tasks)
	return out, nil
}

func (f *fakeBackend) CreateTask(ctx context.Context, d store.TaskDraft) (*store.Task, error) {
	f.calls++
	if f.failure != nil {
		return nil, f.failure
	}
	f.nextID++
	t := store.Task{
		ID:          string(rune('a' + f.nextID - 1)),
		Title:       d.Title,
		Description: d.Description,
		Priority:    d.Priority,
		ColumnID:    d.ColumnID,
		EpicID:      d.EpicID,
	}
	if t.Priority == "" {
		t.Priority = store.PriorityMedium
	}
	if t.ColumnID == "" {
		t.ColumnID = store.ColumnBacklog
	}
	f.tasks = append(f.tasks, t)
	return &t, nil
}

func (f *fakeBackend) UpdateTask(ctx context.Context, id string, p store.TaskPatch) (*store.Task, error) {
	f.calls++
	if f.failure != nil {
		return nil, f.failure
	}
	for i := range f.tasks {
		if f.tasks[i].ID != id {
			continue
		}
		t := &f.tasks[i]
		if p.Title != nil {
			t.Title = *p.Title
		}
		if p.Description != nil {
			t.Description = *p.Description
		}
		if p.Priority != nil {
			t.Priority = *p.Priority
		}
		if p.ColumnID != nil {
			t.ColumnID = *p.ColumnID
		}
		out := *t
		return &out, nil
	}
	return nil, store.ErrNotFound
}

func (f *fakeBackend) DeleteTask(ctx context.Context, id string) error {
	f.calls++
	if f.failure != nil {
		return f.failure
	}
	for i := range f.tasks {
		if f.tasks[i].ID == id {
			f.tasks = append(f.tasks[:i], f.tasks[i+1:]...)
			return nil
		}
	}
	return store.ErrNotFound
}

var errNetwork = errors.New("connection refused")

func loadedCache(t *testing.T, b *fakeBackend) *TaskCache {
	t.Helper()
	c := NewTaskCache(b)
	if err := c.Load(context.Background()); err != nil {
		t.Fatalf("Load: %v", err)
	}
	return c
}

func TestTaskCache_StartsUnloaded(t *testing.T) {
	c := NewTaskCache(&fakeBackend{})
	if c.State() != Unloaded {
		t.Fatalf("expected Unloaded, got %v", c.State())
	}
}

func TestTaskCache_LoadSuccess(t *testing.T) {
	b := &fakeBackend{tasks: []store.Task{{ID: "t1", Title: "one", ColumnID: store.ColumnBacklog}}}
	c := loadedCache(t, b)

	if c.State() != Loaded {
		t.Fatalf("expected Loaded, got %v", c.State())
	}
	if len(c.Tasks()) != 1 {
		t.Fatalf("expected 1 task, got %d", len(c.Tasks()))
	}
}

func TestTaskCache_LoadFailure(t *testing.T) {
	b := &fakeBackend{failure: errNetwork}
	c := NewTaskCache(b)

	err := c.Load(context.Background())
	if !errors.Is(err, errNetwork) {
		t.Fatalf("expected network error, got %v", err)
	}
	if c.State() != LoadFailed {
		t.Fatalf("expected LoadFailed, got %v", c.State())
	}
	if c.LoadErr() == nil {
		t.Fatal("expected retained load error")
	}
}

func TestTaskCache_MutationsRejectedBeforeLoad(t *testing.T) {
	c := NewTaskCache(&fakeBackend{})

	if _, err := c.Create(context.Background(), store.TaskDraft{Title: "x"}); !errors.Is(err, ErrNotLoaded) {
		t.Errorf("Create before load: expected ErrNotLoaded, got %v", err)
	}
	if _, err := c.Update(context.Background(), "t1", store.TaskPatch{}); !errors.Is(err, ErrNotLoaded) {
		t.Errorf("Update before load: expected ErrNotLoaded, got %v", err)
	}
	if err := c.Delete(context.Background(), "t1"); !errors.Is(err, ErrNotLoaded) {
		t.Errorf("Delete before load: expected ErrNotLoaded, got %v", err)
	}
	if _, err := c.Move(context.Background(), "t1", store.ColumnDone); !errors.Is(err, ErrNotLoaded) {
		t.Errorf("Move before load: expected ErrNotLoaded, got %v", err)
	}
}

func TestTaskCache_CreateAppendsCanonicalRecord(t *testing.T) {
	b := &fakeBackend{}
	c := loadedCache(t, b)

	created, err := c.Create(context.Background(), store.TaskDraft{Title: "new"})
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	if created.ID == "" {
		t.Error("expected server-assigned id on the returned record")
	}
	if got := c.Get(created.ID); got == nil || got.Priority != store.PriorityMedium {
		t.Errorf("expected canonical record with defaulted priority in cache, got %+v", got)
	}
}

func TestTaskCache_CreateFailureLeavesStateAlone(t *testing.T) {
	b := &fakeBackend{}
	c := loadedCache(t, b)
	b.failure = errNetwork

	if _, err := c.Create(context.Background(), store.TaskDraft{Title: "new"}); err == nil {
		t.Fatal("expected error")
	}
	if len(c.Tasks()) != 0 {
		t.Errorf("failed create mutated local state: %d tasks", len(c.Tasks()))
	}
}

func TestTaskCache_UpdateMergesFields(t *testing.T) {
	b := &fakeBackend{tasks: []store.Task{{
		ID: "t1", Title: "keep", Description: "also keep",
		Priority: store.PriorityLow, ColumnID: store.ColumnBacklog,
	}}}
	c := loadedCache(t, b)

	p := store.PriorityHigh
	if _, err := c.Update(context.Background(), "t1", store.TaskPatch{Priority: &p}); err != nil {
		t.Fatalf("Update: %v", err)
	}

	got := c.Get("t1")
	if got.Priority != store.PriorityHigh {
		t.Errorf("expected priority high, got %s", got.Priority)
	}
	if got.Description != "also keep" || got.Title != "keep" {
		t.Errorf("partial update clobbered other fields: %+v", got)
	}
}

func TestTaskCache_UpdateNotFoundDistinctFromTransport(t *testing.T) {
	b := &fakeBackend{}
	c := loadedCache(t, b)

	_, err := c.Update(context.Background(), "ghost", store.TaskPatch{})
	if !errors.Is(err, store.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}

	b.failure = errNetwork
	_, err = c.Update(context.Background(), "ghost", store.TaskPatch{})
	if errors.Is(err, store.ErrNotFound) {
		t.Fatal("transport failure must not look like not-found")
	}
}

func TestTaskCache_UpdateAfterLocalDeleteIsDropped(t *testing.T) {
	b := &fakeBackend{tasks: []store.Task{{ID: "t1", Title: "x", ColumnID: store.ColumnBacklog}}}
	c := loadedCache(t, b)

	// Simulate the record disappearing locally while a response is in
	// flight: remove it from the cache slice directly, then apply an
	// update whose backend copy still exists.
	c.tasks = nil
	if _, err := c.Update(context.Background(), "t1", store.TaskPatch{}); err != nil {
		t.Fatalf("Update: %v", err)
	}
	if len(c.Tasks()) != 0 {
		t.Error("response for a locally-removed record should be dropped")
	}
}

func TestTaskCache_DeleteFailureKeepsRecord(t *testing.T) {
	b := &fakeBackend{tasks: []store.Task{{ID: "t1", ColumnID: store.ColumnBacklog}}}
	c := loadedCache(t, b)
	b.failure = errNetwork

	if err := c.Delete(context.Background(), "t1"); err == nil {
		t.Fatal("expected error")
	}
	if c.Get("t1") == nil {
		t.Error("failed delete removed the record locally")
	}
}

func TestTaskCache_MoveIsOptimistic(t *testing.T) {
	b := &fakeBackend{tasks: []store.Task{{ID: "t1", ColumnID: store.ColumnBacklog}}}
	c := loadedCache(t, b)

	from, err := c.Move(context.Background(), "t1", store.ColumnReview)
	if err != nil {
		t.Fatalf("Move: %v", err)
	}
	if from != store.ColumnBacklog {
		t.Errorf("expected from=backlog, got %s", from)
	}
	if got := c.Get("t1"); got.ColumnID != store.ColumnReview {
		t.Errorf("expected review, got %s", got.ColumnID)
	}
}

func TestTaskCache_MoveRollsBackOnFailure(t *testing.T) {
	b := &fakeBackend{tasks: []store.Task{{ID: "t1", ColumnID: store.ColumnBacklog}}}
	c := loadedCache(t, b)
	b.failure = errNetwork

	_, err := c.Move(context.Background(), "t1", store.ColumnDone)
	if err == nil {
		t.Fatal("expected move error to surface")
	}
	if got := c.Get("t1"); got.ColumnID != store.ColumnBacklog {
		t.Errorf("expected rollback to backlog, got %s", got.ColumnID)
	}
}

func TestTaskCache_MoveUnknownTask(t *testing.T) {
	c := loadedCache(t, &fakeBackend{})

	_, err := c.Move(context.Background(), "ghost", store.ColumnDone)
	if !errors.Is(err, store.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestTaskCache_SplitLoadLifecycle(t *testing.T) {
	c := NewTaskCache(&fakeBackend{})

	// A load split across BeginLoad and ApplyLoad behaves exactly like
	// Load: Loading in between, mutations still rejected.
	c.BeginLoad()
	if c.State() != Loading {
		t.Fatalf("expected Loading after BeginLoad, got %v", c.State())
	}
	if _, err := c.Create(context.Background(), store.TaskDraft{Title: "x"}); !errors.Is(err, ErrNotLoaded) {
		t.Fatalf("expected ErrNotLoaded while Loading, got %v", err)
	}

	if err := c.ApplyLoad([]store.Task{{ID: "t1", Title: "fetched"}}, nil); err != nil {
		t.Fatalf("ApplyLoad: %v", err)
	}
	if c.State() != Loaded {
		t.Fatalf("expected Loaded, got %v", c.State())
	}
	if got := c.Tasks(); len(got) != 1 || got[0].ID != "t1" {
		t.Fatalf("unexpected collection: %+v", got)
	}
}

func TestTaskCache_ApplyLoadFailure(t *testing.T) {
	c := NewTaskCache(&fakeBackend{})

	c.BeginLoad()
	boom := errors.New("backend down")
	if err := c.ApplyLoad(nil, boom); !errors.Is(err, boom) {
		t.Fatalf("expected wrapped load error, got %v", err)
	}
	if c.State() != LoadFailed {
		t.Fatalf("expected LoadFailed, got %v", c.State())
	}
	if !errors.Is(c.LoadErr(), boom) {
		t.Fatalf("expected retained load error, got %v", c.LoadErr())
	}
	if len(c.Tasks()) != 0 {
		t.Fatalf("expected empty collection after failed load")
	}
}

func TestEpicCache_SplitLoadLifecycle(t *testing.T) {
	c := NewEpicCache(&fakeEpicBackend{})

	c.BeginLoad()
	if c.State() != Loading {
		t.Fatalf("expected Loading after BeginLoad, got %v", c.State())
	}
	if err := c.ApplyLoad([]store.Epic{{ID: "e1", Name: "auth"}}, nil); err != nil {
		t.Fatalf("ApplyLoad: %v", err)
	}
	if c.State() != Loaded {
		t.Fatalf("expected Loaded, got %v", c.State())
	}
	if got := c.Epics(); len(got) != 1 || got[0].ID != "e1" {
		t.Fatalf("unexpected collection: %+v", got)
	}
}

// fakeEpicBackend is a minimal in-memory EpicBackend.
type fakeEpicBackend struct {
	epics   []store.Epic
	failure error
}

func (f *fakeEpicBackend) ListEpics(ctx context.Context) ([]store.Epic, error) {
	if f.failure != nil {
		return nil, f.failure
	}
	out := make([]store.Epic, len(f.epics))
	copy(out, f.epics)
	return out, nil
}

func (f *fakeEpicBackend) CreateEpic(ctx context.Context, name, color string, projectID *string) (*store.Epic, error) {
	if f.failure != nil {
		return nil, f.failure
	}
	e := store.Epic{ID: name, Name: name, Color: color, ProjectID: projectID}
	f.epics = append(f.epics, e)
	return &e, nil
}

func (f *fakeEpicBackend) UpdateEpic(ctx context.Context, id string, p store.EpicPatch) (*store.Epic, error) {
	if f.failure != nil {
		return nil, f.failure
	}
	for i := range f.epics {
		if f.epics[i].ID == id {
			if p.Name != nil {
				f.epics[i].Name = *p.Name
			}
			out := f.epics[i]
			return &out, nil
		}
	}
	return nil, store.ErrNotFound
}

func (f *fakeEpicBackend) DeleteEpic(ctx context.Context, id string) error {
	if f.failure != nil {
		return f.failure
	}
	for i := range f.epics {
		if f.epics[i].ID == id {
			f.epics = append(f.epics[:i], f.epics[i+1:]...)
			return nil
		}
	}
	return store.ErrNotFound
}
