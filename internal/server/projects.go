package server

import (
	"encoding/json"
	"net/http"

	"github.com/taskdeck/taskdeck/internal/store"
)

func (s *Server) listProjects(w http.ResponseWriter, r *http.Request) {
	projects, err := s.store.ListProjects()
	if err != nil {
		s.fail(w, err)
		return
	}
	if projects == nil {
		projects = []store.Project{}
	}
	writeJSON(w, http.StatusOK, projects)
}

func (s *Server) createProject(w http.ResponseWriter, r *http.Request) {
	var body struct {
		Name  string `json:"name"`
		Color string `json:"color"`
	}
	if !decodeBody(w, r, &body) {
		return
	}
	project, err := s.store.CreateProject(body.Name, body.Color)
	if err != nil {
		s.fail(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, project)
}

func (s *Server) updateProject(w http.ResponseWriter, r *http.Request) {
	var raw map[string]json.RawMessage
	if !decodeBody(w, r, &raw) {
		return
	}
	var patch store.ProjectPatch
	if v, ok := raw["name"]; ok {
		patch.Name = new(string)
		if err := json.Unmarshal(v, patch.Name); err != nil {
			writeError(w, http.StatusBadRequest, "invalid field in patch")
			return
		}
	}
	if v, ok := raw["color"]; ok {
		patch.Color = new(string)
		if err := json.Unmarshal(v, patch.Color); err != nil {
			writeError(w, http.StatusBadRequest, "invalid field in patch")
			return
		}
	}
	if v, ok := raw["position"]; ok {
		patch.Position = new(int)
		if err := json.Unmarshal(v, patch.Position); err != nil {
			writeError(w, http.StatusBadRequest, "invalid field in patch")
			return
		}
	}
	project, err := s.store.UpdateProject(r.PathValue("id"), patch)
	if err != nil {
		s.fail(w, err)
		return
	}
	writeJSON(w, http.StatusOK, project)
}

func (s *Server) deleteProject(w http.ResponseWriter, r *http.Request) {
	if err := s.store.DeleteProject(r.PathValue("id")); err != nil {
		s.fail(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]bool{"ok": true})
}
