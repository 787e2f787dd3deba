package server

import (
	"bytes"
	"encoding/json"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jonathan/resume-studio/internal/aiclient"
	"github.com/jonathan/resume-studio/internal/cache"
	"github.com/jonathan/resume-studio/internal/types"
)

// newAIBackend builds a stub AI service. The handler map is keyed by
// path under /resume, e.g. "/improve".
func newAIBackend(t *testing.T, handlers map[string]http.HandlerFunc) (*httptest.Server, *atomic.Int64) {
	t.Helper()
	var calls atomic.Int64
	mux := http.NewServeMux()
	for path, h := range handlers {
		handler := h
		mux.HandleFunc("POST /resume"+path, func(w http.ResponseWriter, r *http.Request) {
			calls.Add(1)
			handler(w, r)
		})
	}
	srv := httptest.NewServer(mux)
	t.Cleanup(srv.Close)
	return srv, &calls
}

func jsonHandler(status int, body any) http.HandlerFunc {
	return func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(status)
		_ = json.NewEncoder(w).Encode(body)
	}
}

func TestAIImprove_ProxiesResult(t *testing.T) {
	env := newTestServer(t)
	_, token := env.signIn(t)

	backend, _ := newAIBackend(t, map[string]http.HandlerFunc{
		"/improve": jsonHandler(http.StatusOK, types.ImproveResult{
			ImprovedResumeText: "much better",
			ImprovementsMade:   []string{"stronger verbs"},
		}),
	})
	env.server.ai = aiclient.New(backend.URL)

	w := env.do(t, http.MethodPost, "/ai/improve", token, types.ImproveRequest{
		ResumeText: "resume", TargetRole: "Engineer",
	})

	require.Equal(t, http.StatusOK, w.Code)
	var result types.ImproveResult
	decodeJSON(t, w, &result)
	assert.Equal(t, "much better", result.ImprovedResumeText)
}

func TestAIRejection_SurfacesDetailVerbatim(t *testing.T) {
	env := newTestServer(t)
	_, token := env.signIn(t)

	backend, _ := newAIBackend(t, map[string]http.HandlerFunc{
		"/analyze-job-and-tailor": func(w http.ResponseWriter, _ *http.Request) {
			w.Header().Set("Content-Type", "application/json")
			w.WriteHeader(http.StatusUnprocessableEntity)
			_, _ = w.Write([]byte(`{"detail": "target_role required"}`))
		},
	})
	env.server.ai = aiclient.New(backend.URL)

	w := env.do(t, http.MethodPost, "/ai/tailor", token, types.TailorRequest{})

	assert.Equal(t, http.StatusUnprocessableEntity, w.Code)
	var body map[string]string
	decodeJSON(t, w, &body)
	assert.Equal(t, "target_role required", body["error"])
}

func TestAINetworkFailureIsBadGateway(t *testing.T) {
	env := newTestServer(t)
	_, token := env.signIn(t)

	backend := httptest.NewServer(http.NotFoundHandler())
	backend.Close()
	env.server.ai = aiclient.New(backend.URL)

	w := env.do(t, http.MethodPost, "/ai/improve", token, types.ImproveRequest{
		ResumeText: "resume", TargetRole: "Engineer",
	})

	assert.Equal(t, http.StatusBadGateway, w.Code)
}

func TestAIMalformedResponseIsBadGateway(t *testing.T) {
	env := newTestServer(t)
	_, token := env.signIn(t)

	backend, _ := newAIBackend(t, map[string]http.HandlerFunc{
		"/improve": func(w http.ResponseWriter, _ *http.Request) {
			w.WriteHeader(http.StatusOK)
			_, _ = w.Write([]byte("definitely not json"))
		},
	})
	env.server.ai = aiclient.New(backend.URL)

	w := env.do(t, http.MethodPost, "/ai/improve", token, types.ImproveRequest{
		ResumeText: "resume", TargetRole: "Engineer",
	})

	assert.Equal(t, http.StatusBadGateway, w.Code)
}

func withTestCache(t *testing.T, env *testEnv) {
	t.Helper()
	mr := miniredis.RunT(t)
	env.server.cache = cache.New(redis.NewClient(&redis.Options{Addr: mr.Addr()}))
}

func TestAIImprove_SecondCallServedFromCache(t *testing.T) {
	env := newTestServer(t)
	_, token := env.signIn(t)
	withTestCache(t, env)

	backend, calls := newAIBackend(t, map[string]http.HandlerFunc{
		"/improve": jsonHandler(http.StatusOK, types.ImproveResult{ImprovedResumeText: "cached"}),
	})
	env.server.ai = aiclient.New(backend.URL)

	req := types.ImproveRequest{ResumeText: "resume", TargetRole: "Engineer"}

	w := env.do(t, http.MethodPost, "/ai/improve", token, req)
	require.Equal(t, http.StatusOK, w.Code)
	w = env.do(t, http.MethodPost, "/ai/improve", token, req)
	require.Equal(t, http.StatusOK, w.Code)

	var result types.ImproveResult
	decodeJSON(t, w, &result)
	assert.Equal(t, "cached", result.ImprovedResumeText)
	assert.Equal(t, int64(1), calls.Load())

	// A different payload is a cache miss.
	req.TargetRole = "Manager"
	w = env.do(t, http.MethodPost, "/ai/improve", token, req)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, int64(2), calls.Load())
}

func TestAIChat_NeverCached(t *testing.T) {
	env := newTestServer(t)
	_, token := env.signIn(t)
	withTestCache(t, env)

	backend, calls := newAIBackend(t, map[string]http.HandlerFunc{
		"/chat": jsonHandler(http.StatusOK, types.ChatResult{Message: "hello"}),
	})
	env.server.ai = aiclient.New(backend.URL)

	req := types.ChatRequest{Messages: []types.ChatMessage{{Role: "user", Content: "hi"}}}
	env.do(t, http.MethodPost, "/ai/chat", token, req)
	env.do(t, http.MethodPost, "/ai/chat", token, req)

	assert.Equal(t, int64(2), calls.Load())
}

func TestAIBenchmark_MarkdownFormat(t *testing.T) {
	env := newTestServer(t)
	_, token := env.signIn(t)

	backend, _ := newAIBackend(t, map[string]http.HandlerFunc{
		"/benchmark": jsonHandler(http.StatusOK, types.BenchmarkResult{
			Industry: "Software",
			Comparisons: []types.BenchmarkComparison{
				{Metric: "ATS Score", YourScore: 80, IndustryAverage: 70, Percentile: 75, Status: "above_average"},
			},
		}),
	})
	env.server.ai = aiclient.New(backend.URL)

	w := env.do(t, http.MethodPost, "/ai/benchmark?format=markdown", token, types.BenchmarkRequest{
		ResumeText: "resume", TargetRole: "Engineer", Industry: "Software",
	})

	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Header().Get("Content-Type"), "text/plain")
	assert.Contains(t, w.Body.String(), "ATS Score")
}

func TestAIAnalysis_UnknownFormatIsBadRequest(t *testing.T) {
	env := newTestServer(t)
	_, token := env.signIn(t)

	backend, _ := newAIBackend(t, map[string]http.HandlerFunc{
		"/benchmark": jsonHandler(http.StatusOK, types.BenchmarkResult{Industry: "Software"}),
	})
	env.server.ai = aiclient.New(backend.URL)

	w := env.do(t, http.MethodPost, "/ai/benchmark?format=yaml", token, types.BenchmarkRequest{
		ResumeText: "resume", TargetRole: "Engineer", Industry: "Software",
	})

	assert.Equal(t, http.StatusBadRequest, w.Code)
}

// multipartRequest builds a multipart POST with an optional file part.
func multipartRequest(t *testing.T, path, token string, file []byte, filename string, fields map[string]string) *http.Request {
	t.Helper()
	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	if file != nil {
		part, err := mw.CreateFormFile("file", filename)
		require.NoError(t, err)
		_, err = part.Write(file)
		require.NoError(t, err)
	}
	for k, v := range fields {
		require.NoError(t, mw.WriteField(k, v))
	}
	require.NoError(t, mw.Close())

	req := httptest.NewRequest(http.MethodPost, path, &buf)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	req.Header.Set("Authorization", "Bearer "+token)
	return req
}

func TestAIReview_UploadsFile(t *testing.T) {
	env := newTestServer(t)
	_, token := env.signIn(t)

	backend, _ := newAIBackend(t, map[string]http.HandlerFunc{
		"/review": func(w http.ResponseWriter, r *http.Request) {
			assert.NoError(t, r.ParseMultipartForm(maxUploadBytes))
			_, header, err := r.FormFile("file")
			if assert.NoError(t, err) {
				assert.Equal(t, "resume.pdf", header.Filename)
			}
			assert.Equal(t, "Engineer", r.FormValue("target_role"))
			jsonHandler(http.StatusOK, types.ReviewResult{ATSScore: 82})(w, r)
		},
	})
	env.server.ai = aiclient.New(backend.URL)

	req := multipartRequest(t, "/ai/review", token, []byte("%PDF-1.4"), "resume.pdf", map[string]string{
		"target_role": "Engineer",
	})
	w := httptest.NewRecorder()
	env.server.routes().ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code)
	var result types.ReviewResult
	decodeJSON(t, w, &result)
	assert.Equal(t, 82, result.ATSScore)
}

func TestAIReview_RequiresFileOrText(t *testing.T) {
	env := newTestServer(t)
	_, token := env.signIn(t)

	req := multipartRequest(t, "/ai/review", token, nil, "", map[string]string{
		"target_role": "Engineer",
	})
	w := httptest.NewRecorder()
	env.server.routes().ServeHTTP(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestAIExtractText(t *testing.T) {
	env := newTestServer(t)
	_, token := env.signIn(t)

	backend, _ := newAIBackend(t, map[string]http.HandlerFunc{
		"/extract-text": func(w http.ResponseWriter, _ *http.Request) {
			w.Header().Set("Content-Type", "application/json")
			_, _ = w.Write([]byte(`"extracted resume text"`))
		},
	})
	env.server.ai = aiclient.New(backend.URL)

	req := multipartRequest(t, "/ai/extract-text", token, []byte("%PDF-1.4"), "resume.pdf", nil)
	w := httptest.NewRecorder()
	env.server.routes().ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code)
	var body map[string]string
	decodeJSON(t, w, &body)
	assert.Equal(t, "extracted resume text", body["text"])

	// Missing file part.
	req = multipartRequest(t, "/ai/extract-text", token, nil, "", map[string]string{"x": "y"})
	w = httptest.NewRecorder()
	env.server.routes().ServeHTTP(w, req)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestAIGenerate_LoadsResultIntoDraft(t *testing.T) {
	env := newTestServer(t)
	_, token := env.signIn(t)
	id := createDraft(t, env, token)

	generated := sampleDocument()
	generated.Summary = "AI-written summary"
	backend, _ := newAIBackend(t, map[string]http.HandlerFunc{
		"/generate": jsonHandler(http.StatusOK, generated),
	})
	env.server.ai = aiclient.New(backend.URL)

	w := env.do(t, http.MethodPost, "/ai/generate", token, GenerateRequest{SessionID: id})

	require.Equal(t, http.StatusOK, w.Code)
	var view DraftView
	decodeJSON(t, w, &view)
	assert.Equal(t, "AI-written summary", view.Document.Summary)
	assert.Equal(t, "Preview", view.StepName)
}

func TestAIGenerate_InlineDocument(t *testing.T) {
	env := newTestServer(t)
	_, token := env.signIn(t)

	generated := sampleDocument()
	backend, _ := newAIBackend(t, map[string]http.HandlerFunc{
		"/generate": jsonHandler(http.StatusOK, generated),
	})
	env.server.ai = aiclient.New(backend.URL)

	doc := sampleDocument()
	w := env.do(t, http.MethodPost, "/ai/generate", token, GenerateRequest{Document: &doc})

	require.Equal(t, http.StatusOK, w.Code)
	var result types.ResumeDocument
	decodeJSON(t, w, &result)
	assert.Equal(t, "Jordan Doe", result.FullName)

	w = env.do(t, http.MethodPost, "/ai/generate", token, GenerateRequest{})
	assert.Equal(t, http.StatusBadRequest, w.Code)
}
