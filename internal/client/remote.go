// Package client provides the two backends a board session can run
// against: Remote talks to a taskdeck server over its HTTP API, Local
// talks to the SQLite store directly. Both satisfy board.Backend, so
// the TUI and CLI never know which one they have.
package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/taskdeck/taskdeck/internal/board"
	"github.com/taskdeck/taskdeck/internal/store"
)

var _ board.Backend = (*Remote)(nil)

const requestTimeout = 15 * time.Second

// Remote is an HTTP client for the taskdeck server API.
type Remote struct {
	baseURL  string
	passcode string
	client   *http.Client
}

// NewRemote builds a client for the server at baseURL. The passcode is
// sent as a bearer token when non-empty.
func NewRemote(baseURL, passcode string) *Remote {
	return &Remote{
		baseURL:  strings.TrimRight(baseURL, "/"),
		passcode: passcode,
		client:   &http.Client{Timeout: requestTimeout},
	}
}

// apiError is the JSON error body the server sends on failures.
type apiError struct {
	Error string `json:"error"`
}

// do performs one API request. Non-2xx statuses map onto the store's
// error taxonomy so callers handle remote and local failures the same
// way: 404 becomes ErrNotFound, 400 becomes ErrValidation.
func (r *Remote) do(ctx context.Context, method, path string, body, out any) error {
	var reader io.Reader
	if body != nil {
		jsonBody, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("marshal request: %w", err)
		}
		reader = bytes.NewReader(jsonBody)
	}

	req, err := http.NewRequestWithContext(ctx, method, r.baseURL+path, reader)
	if err != nil {
		return fmt.Errorf("create request: %w", err)
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if r.passcode != "" {
		req.Header.Set("Authorization", "Bearer "+r.passcode)
	}

	resp, err := r.client.Do(req)
	if err != nil {
		return fmt.Errorf("%s %s: %w", method, path, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		var ae apiError
		json.NewDecoder(resp.Body).Decode(&ae)
		msg := ae.Error
		if msg == "" {
			msg = resp.Status
		}
		switch resp.StatusCode {
		case http.StatusNotFound:
			return fmt.Errorf("%s: %w", msg, store.ErrNotFound)
		case http.StatusBadRequest:
			return fmt.Errorf("%s: %w", msg, store.ErrValidation)
		default:
			return fmt.Errorf("%s %s: %s", method, path, msg)
		}
	}

	if out != nil {
		if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
			return fmt.Errorf("decode response: %w", err)
		}
	}
	return nil
}

// --- tasks ---

func (r *Remote) ListTasks(ctx context.Context) ([]store.Task, error) {
	var tasks []store.Task
	if err := r.do(ctx, "GET", "/api/tasks", nil, &tasks); err != nil {
		return nil, err
	}
	return tasks, nil
}

func (r *Remote) CreateTask(ctx context.Context, d store.TaskDraft) (*store.Task, error) {
	var task store.Task
	if err := r.do(ctx, "POST", "/api/tasks", d, &task); err != nil {
		return nil, err
	}
	return &task, nil
}

func (r *Remote) UpdateTask(ctx context.Context, id string, p store.TaskPatch) (*store.Task, error) {
	var task store.Task
	if err := r.do(ctx, "PATCH", "/api/tasks/"+id, taskPatchBody(p), &task); err != nil {
		return nil, err
	}
	return &task, nil
}

func (r *Remote) DeleteTask(ctx context.Context, id string) error {
	return r.do(ctx, "DELETE", "/api/tasks/"+id, nil, nil)
}

// taskPatchBody encodes a patch with only the set fields present.
// A clear of the epic reference goes on the wire as an explicit null.
func taskPatchBody(p store.TaskPatch) map[string]any {
	body := map[string]any{}
	if p.Title != nil {
		body["title"] = *p.Title
	}
	if p.Description != nil {
		body["description"] = *p.Description
	}
	if p.Priority != nil {
		body["priority"] = *p.Priority
	}
	if p.ColumnID != nil {
		body["columnId"] = *p.ColumnID
	}
	if p.EpicID != nil {
		if *p.EpicID == "" {
			body["epicId"] = nil
		} else {
			body["epicId"] = *p.EpicID
		}
	}
	if p.PRURL != nil {
		body["prUrl"] = *p.PRURL
	}
	return body
}

// --- epics ---

func (r *Remote) ListEpics(ctx context.Context) ([]store.Epic, error) {
	var epics []store.Epic
	if err := r.do(ctx, "GET", "/api/epics", nil, &epics); err != nil {
		return nil, err
	}
	return epics, nil
}

func (r *Remote) CreateEpic(ctx context.Context, name, color string, projectID *string) (*store.Epic, error) {
	body := map[string]any{"name": name, "color": color}
	if projectID != nil {
		body["projectId"] = *projectID
	}
	var epic store.Epic
	if err := r.do(ctx, "POST", "/api/epics", body, &epic); err != nil {
		return nil, err
	}
	return &epic, nil
}

func (r *Remote) UpdateEpic(ctx context.Context, id string, p store.EpicPatch) (*store.Epic, error) {
	body := map[string]any{}
	if p.Name != nil {
		body["name"] = *p.Name
	}
	if p.Color != nil {
		body["color"] = *p.Color
	}
	if p.Position != nil {
		body["position"] = *p.Position
	}
	if p.ProjectID != nil {
		if *p.ProjectID == "" {
			body["projectId"] = nil
		} else {
			body["projectId"] = *p.ProjectID
		}
	}
	var epic store.Epic
	if err := r.do(ctx, "PATCH", "/api/epics/"+id, body, &epic); err != nil {
		return nil, err
	}
	return &epic, nil
}

func (r *Remote) DeleteEpic(ctx context.Context, id string) error {
	return r.do(ctx, "DELETE", "/api/epics/"+id, nil, nil)
}

// --- projects ---

func (r *Remote) ListProjects(ctx context.Context) ([]store.Project, error) {
	var projects []store.Project
	if err := r.do(ctx, "GET", "/api/projects", nil, &projects); err != nil {
		return nil, err
	}
	return projects, nil
}

func (r *Remote) CreateProject(ctx context.Context, name, color string) (*store.Project, error) {
	body := map[string]any{"name": name, "color": color}
	var project store.Project
	if err := r.do(ctx, "POST", "/api/projects", body, &project); err != nil {
		return nil, err
	}
	return &project, nil
}

func (r *Remote) DeleteProject(ctx context.Context, id string) error {
	return r.do(ctx, "DELETE", "/api/projects/"+id, nil, nil)
}

// --- comments ---

func (r *Remote) ListComments(ctx context.Context, taskID string) ([]store.Comment, error) {
	var comments []store.Comment
	if err := r.do(ctx, "GET", "/api/tasks/"+taskID+"/comments", nil, &comments); err != nil {
		return nil, err
	}
	return comments, nil
}

func (r *Remote) CreateComment(ctx context.Context, taskID, content, author string) (*store.Comment, error) {
	body := map[string]any{"content": content, "author": author}
	var comment store.Comment
	if err := r.do(ctx, "POST", "/api/tasks/"+taskID+"/comments", body, &comment); err != nil {
		return nil, err
	}
	return &comment, nil
}
