package server

import (
	"encoding/base64"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"strconv"

	"github.com/google/uuid"

	"github.com/jonathan/resume-studio/internal/builder"
	"github.com/jonathan/resume-studio/internal/types"
)

// DraftView is the wire representation of a draft session.
type DraftView struct {
	SessionID       uuid.UUID            `json:"session_id"`
	Step            int                  `json:"step"`
	StepName        string               `json:"step_name"`
	Document        types.ResumeDocument `json:"document"`
	CurrentRecordID *uuid.UUID           `json:"current_record_id,omitempty"`
}

// PersonalRequest carries the identity fields of the first wizard step.
type PersonalRequest struct {
	FullName   string `json:"full_name"`
	Email      string `json:"email"`
	Phone      string `json:"phone"`
	Location   string `json:"location"`
	LinkedIn   string `json:"linkedin"`
	Website    string `json:"website"`
	TargetRole string `json:"target_role"`
	Summary    string `json:"summary"`
}

// PhotoRequest carries a base64-encoded profile picture upload.
type PhotoRequest struct {
	Data        string `json:"data"`
	ContentType string `json:"content_type"`
}

func draftView(sess *builder.Session) DraftView {
	view := DraftView{SessionID: sess.ID}
	sess.With(func(b *builder.Builder) {
		step := b.Step()
		view.Step = int(step)
		view.StepName = step.String()
		view.Document = b.Snapshot()
	})
	if sess.CurrentRecordID != uuid.Nil {
		id := sess.CurrentRecordID
		view.CurrentRecordID = &id
	}
	return view
}

// draftSession resolves the {id} path value to a session owned by the
// authenticated user, writing the error response on failure.
func (s *Server) draftSession(w http.ResponseWriter, r *http.Request) (*builder.Session, bool) {
	userID, ok := s.requireUser(w, r)
	if !ok {
		return nil, false
	}

	sessionID, err := uuid.Parse(r.PathValue("id"))
	if err != nil {
		s.errorResponse(w, http.StatusBadRequest, "Invalid draft ID")
		return nil, false
	}

	sess, err := s.sessions.Get(sessionID, userID)
	if err != nil {
		s.errorResponse(w, HTTPStatus(err), err.Error())
		return nil, false
	}
	return sess, true
}

// handleCreateDraft opens a fresh draft session at the Personal step.
func (s *Server) handleCreateDraft(w http.ResponseWriter, r *http.Request) {
	userID, ok := s.requireUser(w, r)
	if !ok {
		return
	}

	sess := s.sessions.Create(userID)
	s.jsonResponse(w, http.StatusCreated, draftView(sess))
}

// handleGetDraft returns the current draft state.
func (s *Server) handleGetDraft(w http.ResponseWriter, r *http.Request) {
	sess, ok := s.draftSession(w, r)
	if !ok {
		return
	}
	s.jsonResponse(w, http.StatusOK, draftView(sess))
}

// handleDeleteDraft discards a draft session.
func (s *Server) handleDeleteDraft(w http.ResponseWriter, r *http.Request) {
	sess, ok := s.draftSession(w, r)
	if !ok {
		return
	}
	s.sessions.Delete(sess.ID)
	w.WriteHeader(http.StatusNoContent)
}

// handleDraftStepNext advances the wizard one step.
func (s *Server) handleDraftStepNext(w http.ResponseWriter, r *http.Request) {
	sess, ok := s.draftSession(w, r)
	if !ok {
		return
	}
	sess.With(func(b *builder.Builder) { b.Advance() })
	s.jsonResponse(w, http.StatusOK, draftView(sess))
}

// handleDraftStepBack moves the wizard one step back.
func (s *Server) handleDraftStepBack(w http.ResponseWriter, r *http.Request) {
	sess, ok := s.draftSession(w, r)
	if !ok {
		return
	}
	sess.With(func(b *builder.Builder) { b.Retreat() })
	s.jsonResponse(w, http.StatusOK, draftView(sess))
}

// handleDraftStepGoto jumps directly to a step. Out-of-range values are
// clamped rather than rejected.
func (s *Server) handleDraftStepGoto(w http.ResponseWriter, r *http.Request) {
	sess, ok := s.draftSession(w, r)
	if !ok {
		return
	}

	var req struct {
		Step int `json:"step"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.errorResponse(w, http.StatusBadRequest, "Invalid request body: "+err.Error())
		return
	}

	sess.With(func(b *builder.Builder) { b.GoTo(builder.Step(req.Step)) })
	s.jsonResponse(w, http.StatusOK, draftView(sess))
}

// handleDraftPersonal replaces the identity fields of the draft.
func (s *Server) handleDraftPersonal(w http.ResponseWriter, r *http.Request) {
	sess, ok := s.draftSession(w, r)
	if !ok {
		return
	}

	var req PersonalRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.errorResponse(w, http.StatusBadRequest, "Invalid request body: "+err.Error())
		return
	}

	sess.With(func(b *builder.Builder) {
		b.SetPersonal(req.FullName, req.Email, req.Phone, req.Location,
			req.LinkedIn, req.Website, req.TargetRole, req.Summary)
	})
	s.jsonResponse(w, http.StatusOK, draftView(sess))
}

// handleDraftAddExperience appends an experience row. A non-empty body
// fills the new row in the same call.
func (s *Server) handleDraftAddExperience(w http.ResponseWriter, r *http.Request) {
	sess, ok := s.draftSession(w, r)
	if !ok {
		return
	}

	var entry types.ExperienceEntry
	if err := json.NewDecoder(r.Body).Decode(&entry); err != nil && !errors.Is(err, io.EOF) {
		s.errorResponse(w, http.StatusBadRequest, "Invalid request body: "+err.Error())
		return
	}

	var rowID uuid.UUID
	sess.With(func(b *builder.Builder) {
		rowID = b.AppendExperience()
		b.SetExperience(len(b.Snapshot().Experience)-1, entry)
	})

	s.jsonResponse(w, http.StatusCreated, map[string]any{
		"row_id": rowID,
		"draft":  draftView(sess),
	})
}

// handleDraftSetExperience replaces the experience row at {index}.
func (s *Server) handleDraftSetExperience(w http.ResponseWriter, r *http.Request) {
	sess, ok := s.draftSession(w, r)
	if !ok {
		return
	}

	index, err := strconv.Atoi(r.PathValue("index"))
	if err != nil {
		s.errorResponse(w, http.StatusBadRequest, "Invalid experience index")
		return
	}

	var entry types.ExperienceEntry
	if err := json.NewDecoder(r.Body).Decode(&entry); err != nil {
		s.errorResponse(w, http.StatusBadRequest, "Invalid request body: "+err.Error())
		return
	}

	var found bool
	sess.With(func(b *builder.Builder) {
		if index >= 0 && index < len(b.Snapshot().Experience) {
			b.SetExperience(index, entry)
			found = true
		}
	})
	if !found {
		s.errorResponse(w, http.StatusNotFound, "Experience row not found")
		return
	}
	s.jsonResponse(w, http.StatusOK, draftView(sess))
}

// handleDraftRemoveExperience removes the experience row at {index}.
func (s *Server) handleDraftRemoveExperience(w http.ResponseWriter, r *http.Request) {
	sess, ok := s.draftSession(w, r)
	if !ok {
		return
	}

	index, err := strconv.Atoi(r.PathValue("index"))
	if err != nil {
		s.errorResponse(w, http.StatusBadRequest, "Invalid experience index")
		return
	}

	var found bool
	sess.With(func(b *builder.Builder) {
		if index >= 0 && index < len(b.Snapshot().Experience) {
			b.RemoveExperience(index)
			found = true
		}
	})
	if !found {
		s.errorResponse(w, http.StatusNotFound, "Experience row not found")
		return
	}
	s.jsonResponse(w, http.StatusOK, draftView(sess))
}

// handleDraftAddSkill appends a skill. Duplicates (exact, case-sensitive
// match) are silently ignored.
func (s *Server) handleDraftAddSkill(w http.ResponseWriter, r *http.Request) {
	sess, ok := s.draftSession(w, r)
	if !ok {
		return
	}

	var req struct {
		Skill string `json:"skill"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.errorResponse(w, http.StatusBadRequest, "Invalid request body: "+err.Error())
		return
	}

	var skills []string
	sess.With(func(b *builder.Builder) {
		b.AddSkill(req.Skill)
		skills = b.Skills()
	})
	s.jsonResponse(w, http.StatusOK, map[string]any{"skills": skills})
}

// handleDraftRemoveSkill removes the skill named by the ?skill= query
// parameter.
func (s *Server) handleDraftRemoveSkill(w http.ResponseWriter, r *http.Request) {
	sess, ok := s.draftSession(w, r)
	if !ok {
		return
	}

	skill := r.URL.Query().Get("skill")
	if skill == "" {
		s.errorResponse(w, http.StatusBadRequest, "skill query parameter is required")
		return
	}

	var skills []string
	sess.With(func(b *builder.Builder) {
		b.RemoveSkill(skill)
		skills = b.Skills()
	})
	s.jsonResponse(w, http.StatusOK, map[string]any{"skills": skills})
}

// handleDraftEducation replaces the education section.
func (s *Server) handleDraftEducation(w http.ResponseWriter, r *http.Request) {
	sess, ok := s.draftSession(w, r)
	if !ok {
		return
	}

	var entries []types.EducationEntry
	if err := json.NewDecoder(r.Body).Decode(&entries); err != nil {
		s.errorResponse(w, http.StatusBadRequest, "Invalid request body: "+err.Error())
		return
	}

	sess.With(func(b *builder.Builder) { b.SetEducation(entries) })
	s.jsonResponse(w, http.StatusOK, draftView(sess))
}

// handleDraftProjects replaces the projects section.
func (s *Server) handleDraftProjects(w http.ResponseWriter, r *http.Request) {
	sess, ok := s.draftSession(w, r)
	if !ok {
		return
	}

	var entries []types.ProjectEntry
	if err := json.NewDecoder(r.Body).Decode(&entries); err != nil {
		s.errorResponse(w, http.StatusBadRequest, "Invalid request body: "+err.Error())
		return
	}

	sess.With(func(b *builder.Builder) { b.SetProjects(entries) })
	s.jsonResponse(w, http.StatusOK, draftView(sess))
}

// handleDraftPhoto stores a profile picture. The raw decoded size is
// what counts against the limit, not the base64 length.
func (s *Server) handleDraftPhoto(w http.ResponseWriter, r *http.Request) {
	sess, ok := s.draftSession(w, r)
	if !ok {
		return
	}

	var req PhotoRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.errorResponse(w, http.StatusBadRequest, "Invalid request body: "+err.Error())
		return
	}

	raw, err := base64.StdEncoding.DecodeString(req.Data)
	if err != nil {
		s.errorResponse(w, http.StatusBadRequest, "Photo data is not valid base64")
		return
	}

	var setErr error
	sess.With(func(b *builder.Builder) {
		setErr = b.SetPhoto(req.Data, len(raw), req.ContentType)
	})
	if setErr != nil {
		s.errorResponse(w, HTTPStatus(setErr), setErr.Error())
		return
	}
	s.jsonResponse(w, http.StatusOK, draftView(sess))
}

// handleDraftClearPhoto removes the profile picture.
func (s *Server) handleDraftClearPhoto(w http.ResponseWriter, r *http.Request) {
	sess, ok := s.draftSession(w, r)
	if !ok {
		return
	}

	sess.With(func(b *builder.Builder) { b.ClearPhoto() })
	s.jsonResponse(w, http.StatusOK, draftView(sess))
}

// handleDraftLoad replaces the draft with a saved record's document and
// makes that record the session's current record.
func (s *Server) handleDraftLoad(w http.ResponseWriter, r *http.Request) {
	userID, ok := s.requireUser(w, r)
	if !ok {
		return
	}
	sess, ok := s.draftSession(w, r)
	if !ok {
		return
	}

	var req struct {
		ResumeID uuid.UUID `json:"resume_id"`
		Step     *int      `json:"step"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.errorResponse(w, http.StatusBadRequest, "Invalid request body: "+err.Error())
		return
	}

	record, err := s.records.Load(r.Context(), userID, req.ResumeID)
	if err != nil {
		s.errorResponse(w, HTTPStatus(err), err.Error())
		return
	}

	step := builder.StepPreview
	if req.Step != nil {
		step = builder.Step(*req.Step)
	}
	sess.With(func(b *builder.Builder) { b.Load(record.Content, step) })
	sess.CurrentRecordID = record.ID

	s.jsonResponse(w, http.StatusOK, draftView(sess))
}
