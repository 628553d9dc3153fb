package client

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/taskdeck/taskdeck/internal/store"
)

func TestRemote_ListTasks(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != "GET" || r.URL.Path != "/api/tasks" {
			t.Errorf("unexpected request: %s %s", r.Method, r.URL.Path)
		}
		json.NewEncoder(w).Encode([]store.Task{{ID: "t1", Title: "one"}})
	}))
	defer srv.Close()

	tasks, err := NewRemote(srv.URL, "").ListTasks(context.Background())
	if err != nil {
		t.Fatalf("ListTasks: %v", err)
	}
	if len(tasks) != 1 || tasks[0].ID != "t1" {
		t.Fatalf("unexpected tasks: %+v", tasks)
	}
}

func TestRemote_SendsPasscode(t *testing.T) {
	var auth string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		auth = r.Header.Get("Authorization")
		json.NewEncoder(w).Encode([]store.Task{})
	}))
	defer srv.Close()

	if _, err := NewRemote(srv.URL, "s3cret").ListTasks(context.Background()); err != nil {
		t.Fatalf("ListTasks: %v", err)
	}
	if auth != "Bearer s3cret" {
		t.Errorf("expected bearer passcode, got %q", auth)
	}
}

func TestRemote_CreateTask(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != "POST" || r.URL.Path != "/api/tasks" {
			t.Errorf("unexpected request: %s %s", r.Method, r.URL.Path)
		}
		var d store.TaskDraft
		json.NewDecoder(r.Body).Decode(&d)
		w.WriteHeader(http.StatusCreated)
		json.NewEncoder(w).Encode(store.Task{ID: "t9", Title: d.Title, Priority: store.PriorityMedium, ColumnID: store.ColumnBacklog})
	}))
	defer srv.Close()

	task, err := NewRemote(srv.URL, "").CreateTask(context.Background(), store.TaskDraft{Title: "new one"})
	if err != nil {
		t.Fatalf("CreateTask: %v", err)
	}
	if task.ID != "t9" || task.Title != "new one" {
		t.Fatalf("unexpected task: %+v", task)
	}
}

func TestRemote_UpdateTask_PatchBody(t *testing.T) {
	var body map[string]json.RawMessage
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != "PATCH" || r.URL.Path != "/api/tasks/t1" {
			t.Errorf("unexpected request: %s %s", r.Method, r.URL.Path)
		}
		json.NewDecoder(r.Body).Decode(&body)
		json.NewEncoder(w).Encode(store.Task{ID: "t1"})
	}))
	defer srv.Close()

	title := "renamed"
	clear := ""
	_, err := NewRemote(srv.URL, "").UpdateTask(context.Background(), "t1", store.TaskPatch{
		Title:  &title,
		EpicID: &clear,
	})
	if err != nil {
		t.Fatalf("UpdateTask: %v", err)
	}

	if string(body["title"]) != `"renamed"` {
		t.Errorf("unexpected title field: %s", body["title"])
	}
	// clearing the epic must be an explicit null, not an absent field
	raw, ok := body["epicId"]
	if !ok {
		t.Fatal("expected epicId in patch body")
	}
	if string(raw) != "null" {
		t.Errorf("expected null epicId, got %s", raw)
	}
	if _, ok := body["priority"]; ok {
		t.Error("unset fields must not appear in the patch body")
	}
}

func TestRemote_ErrorMapping(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/api/tasks/missing":
			w.WriteHeader(http.StatusNotFound)
			json.NewEncoder(w).Encode(apiError{Error: "task not found"})
		case "/api/tasks":
			w.WriteHeader(http.StatusBadRequest)
			json.NewEncoder(w).Encode(apiError{Error: "title is required"})
		default:
			w.WriteHeader(http.StatusInternalServerError)
		}
	}))
	defer srv.Close()

	r := NewRemote(srv.URL, "")

	if err := r.DeleteTask(context.Background(), "missing"); !errors.Is(err, store.ErrNotFound) {
		t.Errorf("expected ErrNotFound, got %v", err)
	}
	if _, err := r.CreateTask(context.Background(), store.TaskDraft{}); !errors.Is(err, store.ErrValidation) {
		t.Errorf("expected ErrValidation, got %v", err)
	}
	if _, err := r.ListEpics(context.Background()); err == nil ||
		errors.Is(err, store.ErrNotFound) || errors.Is(err, store.ErrValidation) {
		t.Errorf("expected plain transport error, got %v", err)
	}
}

func TestRemote_Comments(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch {
		case r.Method == "GET" && r.URL.Path == "/api/tasks/t1/comments":
			json.NewEncoder(w).Encode([]store.Comment{{ID: "c1", TaskID: "t1", Content: "hi"}})
		case r.Method == "POST" && r.URL.Path == "/api/tasks/t1/comments":
			var body map[string]string
			json.NewDecoder(r.Body).Decode(&body)
			w.WriteHeader(http.StatusCreated)
			json.NewEncoder(w).Encode(store.Comment{ID: "c2", TaskID: "t1", Content: body["content"], Author: body["author"]})
		default:
			t.Errorf("unexpected request: %s %s", r.Method, r.URL.Path)
		}
	}))
	defer srv.Close()

	r := NewRemote(srv.URL, "")

	comments, err := r.ListComments(context.Background(), "t1")
	if err != nil {
		t.Fatalf("ListComments: %v", err)
	}
	if len(comments) != 1 || comments[0].Content != "hi" {
		t.Fatalf("unexpected comments: %+v", comments)
	}

	c, err := r.CreateComment(context.Background(), "t1", "done?", "alice")
	if err != nil {
		t.Fatalf("CreateComment: %v", err)
	}
	if c.Content != "done?" || c.Author != "alice" {
		t.Fatalf("unexpected comment: %+v", c)
	}
}
