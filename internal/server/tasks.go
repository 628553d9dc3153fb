package server

import (
	"encoding/json"
	"net/http"

	"github.com/taskdeck/taskdeck/internal/store"
)

func (s *Server) listTasks(w http.ResponseWriter, r *http.Request) {
	tasks, err := s.store.ListTasks()
	if err != nil {
		s.fail(w, err)
		return
	}
	if tasks == nil {
		tasks = []store.Task{}
	}
	writeJSON(w, http.StatusOK, tasks)
}

func (s *Server) getTask(w http.ResponseWriter, r *http.Request) {
	task, err := s.store.GetTask(r.PathValue("id"))
	if err != nil {
		s.fail(w, err)
		return
	}
	writeJSON(w, http.StatusOK, task)
}

func (s *Server) createTask(w http.ResponseWriter, r *http.Request) {
	var draft store.TaskDraft
	if !decodeBody(w, r, &draft) {
		return
	}
	task, err := s.store.CreateTask(draft)
	if err != nil {
		s.fail(w, err)
		return
	}
	s.notify.TaskCreated(*task)
	writeJSON(w, http.StatusCreated, task)
}

// taskPatchFromJSON decodes a PATCH body into a store patch. Fields
// absent from the body stay nil; an explicit null epicId becomes a
// clear.
func taskPatchFromJSON(raw map[string]json.RawMessage) (store.TaskPatch, error) {
	var p store.TaskPatch
	if v, ok := raw["title"]; ok {
		p.Title = new(string)
		if err := json.Unmarshal(v, p.Title); err != nil {
			return p, err
		}
	}
	if v, ok := raw["description"]; ok {
		p.Description = new(string)
		if err := json.Unmarshal(v, p.Description); err != nil {
			return p, err
		}
	}
	if v, ok := raw["priority"]; ok {
		p.Priority = new(store.Priority)
		if err := json.Unmarshal(v, p.Priority); err != nil {
			return p, err
		}
	}
	if v, ok := raw["columnId"]; ok {
		p.ColumnID = new(store.ColumnID)
		if err := json.Unmarshal(v, p.ColumnID); err != nil {
			return p, err
		}
	}
	if v, ok := raw["epicId"]; ok {
		p.EpicID = new(string)
		if string(v) == "null" {
			*p.EpicID = ""
		} else if err := json.Unmarshal(v, p.EpicID); err != nil {
			return p, err
		}
	}
	if v, ok := raw["prUrl"]; ok {
		p.PRURL = new(string)
		if err := json.Unmarshal(v, p.PRURL); err != nil {
			return p, err
		}
	}
	return p, nil
}

func (s *Server) updateTask(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")

	var raw map[string]json.RawMessage
	if !decodeBody(w, r, &raw) {
		return
	}
	patch, err := taskPatchFromJSON(raw)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid field in patch")
		return
	}

	prior, err := s.store.GetTask(id)
	if err != nil {
		s.fail(w, err)
		return
	}
	task, err := s.store.UpdateTask(id, patch)
	if err != nil {
		s.fail(w, err)
		return
	}

	if task.ColumnID != prior.ColumnID {
		s.notify.TaskMoved(*task, prior.ColumnID, task.ColumnID)
	} else {
		s.notify.TaskUpdated(*task)
	}
	writeJSON(w, http.StatusOK, task)
}

func (s *Server) deleteTask(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")

	task, err := s.store.GetTask(id)
	if err != nil {
		s.fail(w, err)
		return
	}
	if err := s.store.DeleteTask(id); err != nil {
		s.fail(w, err)
		return
	}
	s.notify.TaskDeleted(*task)
	writeJSON(w, http.StatusOK, map[string]bool{"ok": true})
}
