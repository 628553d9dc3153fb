package server

import (
	"net/http"

	"github.com/taskdeck/taskdeck/internal/store"
)

func (s *Server) listComments(w http.ResponseWriter, r *http.Request) {
	comments, err := s.store.ListComments(r.PathValue("id"))
	if err != nil {
		s.fail(w, err)
		return
	}
	if comments == nil {
		comments = []store.Comment{}
	}
	writeJSON(w, http.StatusOK, comments)
}

func (s *Server) createComment(w http.ResponseWriter, r *http.Request) {
	var body struct {
		Content string `json:"content"`
		Author  string `json:"author"`
	}
	if !decodeBody(w, r, &body) {
		return
	}
	comment, err := s.store.CreateComment(r.PathValue("id"), body.Content, body.Author)
	if err != nil {
		s.fail(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, comment)
}

func (s *Server) deleteComment(w http.ResponseWriter, r *http.Request) {
	if err := s.store.DeleteComment(r.PathValue("id")); err != nil {
		s.fail(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]bool{"ok": true})
}
