package server

import (
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/google/uuid"

	"github.com/jonathan/resume-studio/internal/builder"
	"github.com/jonathan/resume-studio/internal/resumes"
	"github.com/jonathan/resume-studio/internal/schemas"
	"github.com/jonathan/resume-studio/internal/templates"
	"github.com/jonathan/resume-studio/internal/types"
)

// SaveResumeRequest selects what to save and how to version it. Either
// a draft session or an inline document must be supplied.
type SaveResumeRequest struct {
	SessionID    uuid.UUID             `json:"session_id,omitempty"`
	Document     *types.ResumeDocument `json:"document,omitempty"`
	CurrentID    uuid.UUID             `json:"current_id,omitempty"`
	AsNewVersion bool                  `json:"as_new_version,omitempty"`
	Industry     string                `json:"industry,omitempty"`
	TemplateName string                `json:"template_name,omitempty"`
}

// handleSaveResume persists a document as version 1, an in-place update,
// or a new chained version depending on the request's version intent.
// Session saves carry the session's remembered current record; inline
// document saves carry current_id from the request.
func (s *Server) handleSaveResume(w http.ResponseWriter, r *http.Request) {
	userID, ok := s.requireUser(w, r)
	if !ok {
		return
	}

	var req SaveResumeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.errorResponse(w, http.StatusBadRequest, "Invalid request body: "+err.Error())
		return
	}

	var doc types.ResumeDocument
	currentID := req.CurrentID
	var sess *builder.Session

	switch {
	case req.SessionID != uuid.Nil:
		var err error
		sess, err = s.sessions.Get(req.SessionID, userID)
		if err != nil {
			s.errorResponse(w, HTTPStatus(err), err.Error())
			return
		}
		sess.With(func(b *builder.Builder) { doc = b.Snapshot() })
		currentID = sess.CurrentRecordID
	case req.Document != nil:
		doc = *req.Document
	default:
		s.errorResponse(w, http.StatusBadRequest, "Either session_id or document is required")
		return
	}

	data, err := json.Marshal(doc)
	if err != nil {
		s.errorResponse(w, http.StatusInternalServerError, fmt.Sprintf("failed to encode document: %v", err))
		return
	}
	if err := schemas.ValidateDocument(data); err != nil {
		s.errorResponse(w, HTTPStatus(err), err.Error())
		return
	}

	result, err := s.records.Save(r.Context(), userID, doc, resumes.SaveOptions{
		CurrentID:    currentID,
		AsNewVersion: req.AsNewVersion,
		Industry:     req.Industry,
		TemplateName: req.TemplateName,
	})
	if err != nil {
		s.errorResponse(w, HTTPStatus(err), err.Error())
		return
	}

	// The saved record becomes the session's current record, so the
	// next plain save updates it in place.
	if sess != nil {
		sess.CurrentRecordID = result.Record.ID
	}
	s.metrics.ResumesSavedTotal.Inc()

	s.jsonResponse(w, http.StatusOK, result)
}

// handleListResumes returns the caller's records, newest first.
func (s *Server) handleListResumes(w http.ResponseWriter, r *http.Request) {
	userID, ok := s.requireUser(w, r)
	if !ok {
		return
	}

	records, err := s.records.List(r.Context(), userID)
	if err != nil {
		s.errorResponse(w, HTTPStatus(err), err.Error())
		return
	}
	s.jsonResponse(w, http.StatusOK, map[string]any{"resumes": records})
}

// handleGetResume returns one saved record.
func (s *Server) handleGetResume(w http.ResponseWriter, r *http.Request) {
	userID, ok := s.requireUser(w, r)
	if !ok {
		return
	}

	id, err := uuid.Parse(r.PathValue("id"))
	if err != nil {
		s.errorResponse(w, http.StatusBadRequest, "Invalid resume ID")
		return
	}

	record, err := s.records.Load(r.Context(), userID, id)
	if err != nil {
		s.errorResponse(w, HTTPStatus(err), err.Error())
		return
	}
	s.jsonResponse(w, http.StatusOK, record)
}

// handleListVersions returns the records chained directly to {id}.
func (s *Server) handleListVersions(w http.ResponseWriter, r *http.Request) {
	userID, ok := s.requireUser(w, r)
	if !ok {
		return
	}

	id, err := uuid.Parse(r.PathValue("id"))
	if err != nil {
		s.errorResponse(w, http.StatusBadRequest, "Invalid resume ID")
		return
	}

	versions, err := s.records.ListVersions(r.Context(), userID, id)
	if err != nil {
		s.errorResponse(w, HTTPStatus(err), err.Error())
		return
	}
	s.jsonResponse(w, http.StatusOK, map[string]any{"versions": versions})
}

// handleRenderResume renders a saved record as HTML. The ?template=
// query parameter overrides the record's stored layout; unknown names
// fall back to the default layout.
func (s *Server) handleRenderResume(w http.ResponseWriter, r *http.Request) {
	userID, ok := s.requireUser(w, r)
	if !ok {
		return
	}

	id, err := uuid.Parse(r.PathValue("id"))
	if err != nil {
		s.errorResponse(w, http.StatusBadRequest, "Invalid resume ID")
		return
	}

	record, err := s.records.Load(r.Context(), userID, id)
	if err != nil {
		s.errorResponse(w, HTTPStatus(err), err.Error())
		return
	}

	name := r.URL.Query().Get("template")
	if name == "" {
		name = record.TemplateName
	}

	html, err := s.renderer.Render(name, &record.Content)
	if err != nil {
		s.errorResponse(w, http.StatusInternalServerError, err.Error())
		return
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	if _, err := w.Write([]byte(html)); err != nil {
		return
	}
}

// handleListTemplates lists the available resume layouts.
func (s *Server) handleListTemplates(w http.ResponseWriter, _ *http.Request) {
	s.jsonResponse(w, http.StatusOK, map[string]any{
		"templates": s.renderer.Names(),
		"default":   templates.DefaultName,
	})
}
