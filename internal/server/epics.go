package server

import (
	"encoding/json"
	"net/http"

	"github.com/taskdeck/taskdeck/internal/store"
)

func (s *Server) listEpics(w http.ResponseWriter, r *http.Request) {
	epics, err := s.store.ListEpics()
	if err != nil {
		s.fail(w, err)
		return
	}
	if epics == nil {
		epics = []store.Epic{}
	}
	writeJSON(w, http.StatusOK, epics)
}

func (s *Server) createEpic(w http.ResponseWriter, r *http.Request) {
	var body struct {
		Name      string  `json:"name"`
		Color     string  `json:"color"`
		ProjectID *string `json:"projectId"`
	}
	if !decodeBody(w, r, &body) {
		return
	}
	epic, err := s.store.CreateEpic(body.Name, body.Color, body.ProjectID)
	if err != nil {
		s.fail(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, epic)
}

func epicPatchFromJSON(raw map[string]json.RawMessage) (store.EpicPatch, error) {
	var p store.EpicPatch
	if v, ok := raw["name"]; ok {
		p.Name = new(string)
		if err := json.Unmarshal(v, p.Name); err != nil {
			return p, err
		}
	}
	if v, ok := raw["color"]; ok {
		p.Color = new(string)
		if err := json.Unmarshal(v, p.Color); err != nil {
			return p, err
		}
	}
	if v, ok := raw["position"]; ok {
		p.Position = new(int)
		if err := json.Unmarshal(v, p.Position); err != nil {
			return p, err
		}
	}
	if v, ok := raw["projectId"]; ok {
		p.ProjectID = new(string)
		if string(v) == "null" {
			*p.ProjectID = ""
		} else if err := json.Unmarshal(v, p.ProjectID); err != nil {
			return p, err
		}
	}
	return p, nil
}

func (s *Server) updateEpic(w http.ResponseWriter, r *http.Request) {
	var raw map[string]json.RawMessage
	if !decodeBody(w, r, &raw) {
		return
	}
	patch, err := epicPatchFromJSON(raw)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid field in patch")
		return
	}
	epic, err := s.store.UpdateEpic(r.PathValue("id"), patch)
	if err != nil {
		s.fail(w, err)
		return
	}
	writeJSON(w, http.StatusOK, epic)
}

func (s *Server) deleteEpic(w http.ResponseWriter, r *http.Request) {
	if err := s.store.DeleteEpic(r.PathValue("id")); err != nil {
		s.fail(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]bool{"ok": true})
}
