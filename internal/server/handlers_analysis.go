package server

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"log"
	"net/http"
	"time"

	"github.com/google/uuid"

	"github.com/jonathan/resume-studio/internal/aiclient"
	"github.com/jonathan/resume-studio/internal/builder"
	"github.com/jonathan/resume-studio/internal/types"
)

// maxUploadBytes bounds multipart uploads to the AI endpoints.
const maxUploadBytes = 10 << 20

// aiOutcome maps a client error to the metrics outcome label.
func aiOutcome(err error) string {
	if err == nil {
		return "ok"
	}
	var rejected *aiclient.RequestRejected
	var network *aiclient.NetworkError
	var malformed *aiclient.MalformedResponse
	switch {
	case errors.As(err, &rejected):
		return "rejected"
	case errors.As(err, &network):
		return "network_error"
	case errors.As(err, &malformed):
		return "malformed"
	default:
		return "error"
	}
}

// respondAnalysis writes an analysis result in the requested format.
// JSON is the default; ?format=text and ?format=markdown go through the
// display registry.
func (s *Server) respondAnalysis(w http.ResponseWriter, r *http.Request, result any) {
	format := r.URL.Query().Get("format")
	if format == "" || format == "json" {
		s.jsonResponse(w, http.StatusOK, result)
		return
	}

	rendered, err := s.display.Format(result, format)
	if err != nil {
		s.errorResponse(w, http.StatusBadRequest, err.Error())
		return
	}
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	if _, err := w.Write([]byte(rendered)); err != nil {
		return
	}
}

// runAnalysis decodes a JSON request, consults the cache, calls the AI
// service and records metrics. One body shared by every JSON-shaped AI
// endpoint.
func runAnalysis[Req any, Res any](s *Server, w http.ResponseWriter, r *http.Request, op string, cacheable bool, call func(context.Context, Req) (*Res, error)) {
	if _, ok := s.requireUser(w, r); !ok {
		return
	}

	var req Req
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.errorResponse(w, http.StatusBadRequest, "Invalid request body: "+err.Error())
		return
	}

	if cacheable && s.cache != nil {
		var cached Res
		hit, err := s.cache.Get(r.Context(), op, req, &cached)
		if err != nil {
			log.Printf("[cache] lookup for %s failed: %v", op, err)
		}
		s.metrics.ObserveCacheLookup(hit)
		if hit {
			s.respondAnalysis(w, r, &cached)
			return
		}
	}

	start := time.Now()
	result, err := call(r.Context(), req)
	s.metrics.ObserveAICall(op, aiOutcome(err), time.Since(start))
	if err != nil {
		s.errorResponse(w, HTTPStatus(err), err.Error())
		return
	}

	if cacheable && s.cache != nil {
		if err := s.cache.Set(r.Context(), op, req, result); err != nil {
			log.Printf("[cache] store for %s failed: %v", op, err)
		}
	}

	s.respondAnalysis(w, r, result)
}

// GenerateRequest selects the document to run AI generation on: a draft
// session, or an inline document.
type GenerateRequest struct {
	SessionID uuid.UUID             `json:"session_id,omitempty"`
	Document  *types.ResumeDocument `json:"document,omitempty"`
}

// handleAIGenerate runs full-document AI generation. When the input is
// a draft session the generated document replaces the draft, landing on
// the preview step.
func (s *Server) handleAIGenerate(w http.ResponseWriter, r *http.Request) {
	userID, ok := s.requireUser(w, r)
	if !ok {
		return
	}

	var req GenerateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.errorResponse(w, http.StatusBadRequest, "Invalid request body: "+err.Error())
		return
	}

	var doc types.ResumeDocument
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
	case req.Document != nil:
		doc = *req.Document
	default:
		s.errorResponse(w, http.StatusBadRequest, "Either session_id or document is required")
		return
	}

	start := time.Now()
	generated, err := s.ai.Generate(r.Context(), doc)
	s.metrics.ObserveAICall("generate", aiOutcome(err), time.Since(start))
	if err != nil {
		s.errorResponse(w, HTTPStatus(err), err.Error())
		return
	}

	if sess != nil {
		sess.With(func(b *builder.Builder) { b.Load(*generated, builder.StepPreview) })
		s.jsonResponse(w, http.StatusOK, draftView(sess))
		return
	}
	s.jsonResponse(w, http.StatusOK, generated)
}

// handleAIReview reviews an uploaded resume file or pasted text against
// a target role.
func (s *Server) handleAIReview(w http.ResponseWriter, r *http.Request) {
	if _, ok := s.requireUser(w, r); !ok {
		return
	}

	if err := r.ParseMultipartForm(maxUploadBytes); err != nil {
		s.errorResponse(w, http.StatusBadRequest, "Invalid multipart form: "+err.Error())
		return
	}

	var fileBytes []byte
	filename := ""
	if file, header, err := r.FormFile("file"); err == nil {
		defer file.Close()
		fileBytes, err = io.ReadAll(file)
		if err != nil {
			s.errorResponse(w, http.StatusBadRequest, "Failed to read uploaded file")
			return
		}
		filename = header.Filename
	}

	resumeText := r.FormValue("resume_text")
	if len(fileBytes) == 0 && resumeText == "" {
		s.errorResponse(w, http.StatusBadRequest, "Either file or resume_text is required")
		return
	}

	start := time.Now()
	result, err := s.ai.Review(r.Context(), fileBytes, filename, resumeText,
		r.FormValue("target_role"), r.FormValue("job_description"))
	s.metrics.ObserveAICall("review", aiOutcome(err), time.Since(start))
	if err != nil {
		s.errorResponse(w, HTTPStatus(err), err.Error())
		return
	}

	s.respondAnalysis(w, r, result)
}

// handleAIExtractText extracts plain text from an uploaded resume file.
func (s *Server) handleAIExtractText(w http.ResponseWriter, r *http.Request) {
	if _, ok := s.requireUser(w, r); !ok {
		return
	}

	if err := r.ParseMultipartForm(maxUploadBytes); err != nil {
		s.errorResponse(w, http.StatusBadRequest, "Invalid multipart form: "+err.Error())
		return
	}

	file, header, err := r.FormFile("file")
	if err != nil {
		s.errorResponse(w, http.StatusBadRequest, "file is required")
		return
	}
	defer file.Close()

	fileBytes, err := io.ReadAll(file)
	if err != nil {
		s.errorResponse(w, http.StatusBadRequest, "Failed to read uploaded file")
		return
	}

	start := time.Now()
	text, err := s.ai.ExtractText(r.Context(), fileBytes, header.Filename)
	s.metrics.ObserveAICall("extract_text", aiOutcome(err), time.Since(start))
	if err != nil {
		s.errorResponse(w, HTTPStatus(err), err.Error())
		return
	}

	s.jsonResponse(w, http.StatusOK, map[string]string{"text": text})
}

func (s *Server) handleAIImprove(w http.ResponseWriter, r *http.Request) {
	runAnalysis(s, w, r, "improve", true, s.ai.Improve)
}

// Chat is conversational, so responses are never served from cache.
func (s *Server) handleAIChat(w http.ResponseWriter, r *http.Request) {
	runAnalysis(s, w, r, "chat", false, s.ai.Chat)
}

func (s *Server) handleAICoverLetter(w http.ResponseWriter, r *http.Request) {
	runAnalysis(s, w, r, "cover_letter", true, s.ai.CoverLetter)
}

func (s *Server) handleAIResignationLetter(w http.ResponseWriter, r *http.Request) {
	runAnalysis(s, w, r, "resignation_letter", true, s.ai.ResignationLetter)
}

func (s *Server) handleAIRewriteBullet(w http.ResponseWriter, r *http.Request) {
	runAnalysis(s, w, r, "rewrite_bullet", true, s.ai.RewriteBullet)
}

func (s *Server) handleAICareerPath(w http.ResponseWriter, r *http.Request) {
	runAnalysis(s, w, r, "career_path", true, s.ai.CareerPath)
}

func (s *Server) handleAIHeatmap(w http.ResponseWriter, r *http.Request) {
	runAnalysis(s, w, r, "heatmap", true, s.ai.Heatmap)
}

func (s *Server) handleAIBenchmark(w http.ResponseWriter, r *http.Request) {
	runAnalysis(s, w, r, "benchmark", true, s.ai.Benchmark)
}

func (s *Server) handleAITranslate(w http.ResponseWriter, r *http.Request) {
	runAnalysis(s, w, r, "translate", true, s.ai.Translate)
}

func (s *Server) handleAIAnalytics(w http.ResponseWriter, r *http.Request) {
	runAnalysis(s, w, r, "analytics", true, s.ai.Analytics)
}

func (s *Server) handleAITailor(w http.ResponseWriter, r *http.Request) {
	runAnalysis(s, w, r, "tailor", true, s.ai.Tailor)
}

func (s *Server) handleAIInterviewQuestions(w http.ResponseWriter, r *http.Request) {
	runAnalysis(s, w, r, "interview_questions", true, s.ai.InterviewQuestions)
}

func (s *Server) handleAIMatchJob(w http.ResponseWriter, r *http.Request) {
	runAnalysis(s, w, r, "match_job", true, s.ai.MatchJob)
}

func (s *Server) handleAICareerTrends(w http.ResponseWriter, r *http.Request) {
	runAnalysis(s, w, r, "career_trends", true, s.ai.CareerTrends)
}

func (s *Server) handleAISalaryNegotiation(w http.ResponseWriter, r *http.Request) {
	runAnalysis(s, w, r, "salary_negotiation", true, s.ai.SalaryNegotiation)
}
