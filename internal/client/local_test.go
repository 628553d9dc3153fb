package client

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"sync"
	"testing"

	"github.com/taskdeck/taskdeck/internal/config"
	"github.com/taskdeck/taskdeck/internal/notify"
	"github.com/taskdeck/taskdeck/internal/store"
)

func testLocal(t *testing.T, d *notify.Dispatcher) *Local {
	t.Helper()
	st, err := store.New(filepath.Join(t.TempDir(), "test.db"))
	if err != nil {
		t.Fatalf("open store: %v", err)
	}
	t.Cleanup(func() { st.Close() })
	return NewLocal(st, d)
}

// eventRecorder is an httptest webhook endpoint that remembers which
// events the dispatcher delivered.
type eventRecorder struct {
	mu     sync.Mutex
	events []map[string]any
}

func (rec *eventRecorder) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	var body map[string]any
	json.NewDecoder(r.Body).Decode(&body)
	rec.mu.Lock()
	rec.events = append(rec.events, body)
	rec.mu.Unlock()
}

func (rec *eventRecorder) kinds() []string {
	rec.mu.Lock()
	defer rec.mu.Unlock()
	var kinds []string
	for _, ev := range rec.events {
		kind, _ := ev["event"].(string)
		kinds = append(kinds, kind)
	}
	return kinds
}

func TestLocal_CRUDRoundTrip(t *testing.T) {
	l := testLocal(t, nil)
	ctx := context.Background()

	task, err := l.CreateTask(ctx, store.TaskDraft{Title: "local work"})
	if err != nil {
		t.Fatalf("CreateTask: %v", err)
	}

	title := "renamed"
	updated, err := l.UpdateTask(ctx, task.ID, store.TaskPatch{Title: &title})
	if err != nil {
		t.Fatalf("UpdateTask: %v", err)
	}
	if updated.Title != "renamed" {
		t.Errorf("expected renamed title, got %q", updated.Title)
	}

	if err := l.DeleteTask(ctx, task.ID); err != nil {
		t.Fatalf("DeleteTask: %v", err)
	}
	tasks, err := l.ListTasks(ctx)
	if err != nil {
		t.Fatalf("ListTasks: %v", err)
	}
	if len(tasks) != 0 {
		t.Fatalf("expected empty board, got %d tasks", len(tasks))
	}
}

func TestLocal_NilDispatcherIsFine(t *testing.T) {
	l := testLocal(t, nil)
	if _, err := l.CreateTask(context.Background(), store.TaskDraft{Title: "quiet"}); err != nil {
		t.Fatalf("CreateTask: %v", err)
	}
	l.Wait()
}

func TestLocal_DispatchesLifecycleEvents(t *testing.T) {
	rec := &eventRecorder{}
	srv := httptest.NewServer(rec)
	defer srv.Close()

	d := notify.New(config.Notify{Webhook: config.Webhook{URL: srv.URL}})
	l := testLocal(t, d)
	ctx := context.Background()

	task, err := l.CreateTask(ctx, store.TaskDraft{Title: "watched"})
	if err != nil {
		t.Fatalf("CreateTask: %v", err)
	}
	title := "still watched"
	if _, err := l.UpdateTask(ctx, task.ID, store.TaskPatch{Title: &title}); err != nil {
		t.Fatalf("UpdateTask: %v", err)
	}
	col := store.ColumnReview
	if _, err := l.UpdateTask(ctx, task.ID, store.TaskPatch{ColumnID: &col}); err != nil {
		t.Fatalf("UpdateTask (move): %v", err)
	}
	if err := l.DeleteTask(ctx, task.ID); err != nil {
		t.Fatalf("DeleteTask: %v", err)
	}
	d.Wait()

	want := map[string]bool{
		"task.created": true,
		"task.updated": true,
		"task.moved":   true,
		"task.deleted": true,
	}
	got := rec.kinds()
	if len(got) != 4 {
		t.Fatalf("expected 4 events, got %d: %v", len(got), got)
	}
	for _, kind := range got {
		if !want[kind] {
			t.Errorf("unexpected event kind %q", kind)
		}
		delete(want, kind)
	}
}

func TestLocal_MoveCarriesTransition(t *testing.T) {
	rec := &eventRecorder{}
	srv := httptest.NewServer(rec)
	defer srv.Close()

	d := notify.New(config.Notify{Webhook: config.Webhook{URL: srv.URL}})
	l := testLocal(t, d)
	ctx := context.Background()

	task, err := l.CreateTask(ctx, store.TaskDraft{Title: "mover"})
	if err != nil {
		t.Fatalf("CreateTask: %v", err)
	}
	d.Wait()

	col := store.ColumnDone
	if _, err := l.UpdateTask(ctx, task.ID, store.TaskPatch{ColumnID: &col}); err != nil {
		t.Fatalf("UpdateTask: %v", err)
	}
	d.Wait()

	rec.mu.Lock()
	defer rec.mu.Unlock()
	last := rec.events[len(rec.events)-1]
	if last["event"] != "task.moved" {
		t.Fatalf("expected task.moved, got %v", last["event"])
	}
	changes, _ := last["changes"].(map[string]any)
	if changes["from"] != "backlog" || changes["to"] != "done" {
		t.Errorf("unexpected transition: %v", changes)
	}
}

func TestLocal_FailedMutationDispatchesNothing(t *testing.T) {
	rec := &eventRecorder{}
	srv := httptest.NewServer(rec)
	defer srv.Close()

	d := notify.New(config.Notify{Webhook: config.Webhook{URL: srv.URL}})
	l := testLocal(t, d)
	ctx := context.Background()

	if err := l.DeleteTask(ctx, "no-such-task"); !errors.Is(err, store.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
	title := "x"
	if _, err := l.UpdateTask(ctx, "no-such-task", store.TaskPatch{Title: &title}); !errors.Is(err, store.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
	d.Wait()

	if kinds := rec.kinds(); len(kinds) != 0 {
		t.Errorf("expected no events for failed mutations, got %v", kinds)
	}
}
