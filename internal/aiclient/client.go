package aiclient

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"strings"

	"github.com/jonathan/resume-studio/internal/types"
	"github.com/sony/gobreaker/v2"
)

// Client issues requests against {base}/resume/... and decodes responses
// into the per-operation types. Failures map onto exactly three shapes:
// NetworkError, RequestRejected and MalformedResponse. The client never
// retries; retry policy belongs to the caller.
type Client struct {
	baseURL    string
	httpClient *http.Client
	breaker    *gobreaker.CircuitBreaker[[]byte]
}

// Option configures a Client.
type Option func(*Client)

// WithHTTPClient replaces the underlying transport.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) { c.httpClient = hc }
}

// WithCircuitBreaker wraps every call in a circuit breaker. When open,
// calls fail fast as RequestRejected without reaching the service.
// Disabled unless configured, so the default behavior stays "user
// clicks the button again".
func WithCircuitBreaker(settings gobreaker.Settings) Option {
	return func(c *Client) {
		c.breaker = gobreaker.NewCircuitBreaker[[]byte](settings)
	}
}

// New creates a client for the AI service at baseURL (e.g.
// "http://localhost:8000/api"). The "/resume" path segment is appended
// per operation.
func New(baseURL string, opts ...Option) *Client {
	c := &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		httpClient: http.DefaultClient,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// do issues the request and returns the raw body, folding transport and
// status failures into the error taxonomy.
func (c *Client) do(op string, req *http.Request) ([]byte, error) {
	call := func() ([]byte, error) {
		resp, err := c.httpClient.Do(req)
		if err != nil {
			return nil, &NetworkError{Op: op, Cause: err}
		}
		defer resp.Body.Close()

		body, err := io.ReadAll(resp.Body)
		if err != nil {
			return nil, &NetworkError{Op: op, Cause: err}
		}

		if resp.StatusCode < 200 || resp.StatusCode > 299 {
			rejected := &RequestRejected{Op: op, StatusCode: resp.StatusCode}
			var eb errorBody
			if err := json.Unmarshal(body, &eb); err == nil && eb.Detail != "" {
				rejected.Message = eb.Detail
			}
			return nil, rejected
		}
		return body, nil
	}

	if c.breaker == nil {
		return call()
	}
	body, err := c.breaker.Execute(call)
	if err != nil {
		if err == gobreaker.ErrOpenState || err == gobreaker.ErrTooManyRequests {
			return nil, &RequestRejected{
				Op:         op,
				StatusCode: http.StatusServiceUnavailable,
				Message:    "AI service temporarily unavailable",
			}
		}
		return nil, err
	}
	return body, nil
}

// postJSON marshals payload, POSTs it and decodes the response into out.
func (c *Client) postJSON(ctx context.Context, op, path string, payload, out any) error {
	body, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("%s: failed to encode request: %w", op, err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/resume"+path, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("%s: failed to build request: %w", op, err)
	}
	req.Header.Set("Content-Type", "application/json")

	respBody, err := c.do(op, req)
	if err != nil {
		return err
	}
	if err := json.Unmarshal(respBody, out); err != nil {
		return &MalformedResponse{Op: op, Cause: err}
	}
	return nil
}

// multipartField is one string field of a multipart request.
type multipartField struct {
	name  string
	value string
}

// postMultipart builds a multipart form with an optional file part plus
// string fields, POSTs it and decodes the response into out.
func (c *Client) postMultipart(ctx context.Context, op, path, filename string, file []byte, fields []multipartField, out any) error {
	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)

	if file != nil {
		fw, err := mw.CreateFormFile("file", filename)
		if err != nil {
			return fmt.Errorf("%s: failed to build form: %w", op, err)
		}
		if _, err := fw.Write(file); err != nil {
			return fmt.Errorf("%s: failed to build form: %w", op, err)
		}
	}
	for _, f := range fields {
		if f.value == "" {
			continue
		}
		if err := mw.WriteField(f.name, f.value); err != nil {
			return fmt.Errorf("%s: failed to build form: %w", op, err)
		}
	}
	if err := mw.Close(); err != nil {
		return fmt.Errorf("%s: failed to build form: %w", op, err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/resume"+path, &buf)
	if err != nil {
		return fmt.Errorf("%s: failed to build request: %w", op, err)
	}
	req.Header.Set("Content-Type", mw.FormDataContentType())

	respBody, err := c.do(op, req)
	if err != nil {
		return err
	}
	if err := json.Unmarshal(respBody, out); err != nil {
		return &MalformedResponse{Op: op, Cause: err}
	}
	return nil
}

// Generate submits a structured document and returns the AI-enriched version.
func (c *Client) Generate(ctx context.Context, doc types.ResumeDocument) (*types.ResumeDocument, error) {
	var out types.ResumeDocument
	if err := c.postJSON(ctx, "generate", "/generate", doc, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// Review scores a resume (PDF bytes or pasted text) against a target role.
// Exactly one of file or resumeText should be set; jobDescription is optional.
func (c *Client) Review(ctx context.Context, file []byte, filename, resumeText, targetRole, jobDescription string) (*types.ReviewResult, error) {
	fields := []multipartField{
		{name: "resume_text", value: resumeText},
		{name: "target_role", value: targetRole},
		{name: "job_description", value: jobDescription},
	}
	var out types.ReviewResult
	if err := c.postMultipart(ctx, "review", "/review", filename, file, fields, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// Improve applies reviewer suggestions to resume text.
func (c *Client) Improve(ctx context.Context, req types.ImproveRequest) (*types.ImproveResult, error) {
	var out types.ImproveResult
	if err := c.postJSON(ctx, "improve", "/improve", req, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// ExtractText pulls plain text out of an uploaded PDF.
func (c *Client) ExtractText(ctx context.Context, file []byte, filename string) (string, error) {
	var out string
	if err := c.postMultipart(ctx, "extract-text", "/extract-text", filename, file, nil, &out); err != nil {
		return "", err
	}
	return out, nil
}

// Chat sends the conversation history plus optional resume context.
func (c *Client) Chat(ctx context.Context, req types.ChatRequest) (*types.ChatResult, error) {
	var out types.ChatResult
	if err := c.postJSON(ctx, "chat", "/chat", req, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// CoverLetter generates a personalized cover letter.
func (c *Client) CoverLetter(ctx context.Context, req types.CoverLetterRequest) (*types.CoverLetterResult, error) {
	var out types.CoverLetterResult
	if err := c.postJSON(ctx, "cover-letter", "/cover-letter", req, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// ResignationLetter generates a resignation letter.
func (c *Client) ResignationLetter(ctx context.Context, req types.ResignationLetterRequest) (*types.ResignationLetterResult, error) {
	var out types.ResignationLetterResult
	if err := c.postJSON(ctx, "resignation-letter", "/resignation-letter", req, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// RewriteBullet rewrites one bullet point for impact. Both the modal and
// inline rewrite surfaces go through this single method.
func (c *Client) RewriteBullet(ctx context.Context, req types.RewriteBulletRequest) (*types.RewriteBulletResult, error) {
	var out types.RewriteBulletResult
	if err := c.postJSON(ctx, "rewrite-bullet", "/rewrite-bullet", req, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// CareerPath predicts the career progression from a resume.
func (c *Client) CareerPath(ctx context.Context, req types.CareerPathRequest) (*types.CareerPathResult, error) {
	var out types.CareerPathResult
	if err := c.postJSON(ctx, "career-path", "/career-path", req, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// Heatmap scores each resume section for strength.
func (c *Client) Heatmap(ctx context.Context, req types.HeatmapRequest) (*types.HeatmapResult, error) {
	var out types.HeatmapResult
	if err := c.postJSON(ctx, "heatmap", "/heatmap", req, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// Benchmark compares the resume against industry averages.
func (c *Client) Benchmark(ctx context.Context, req types.BenchmarkRequest) (*types.BenchmarkResult, error) {
	var out types.BenchmarkResult
	if err := c.postJSON(ctx, "benchmark", "/benchmark", req, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// Translate produces a culturally adapted translation of the resume.
func (c *Client) Translate(ctx context.Context, req types.TranslateRequest) (*types.TranslateResult, error) {
	var out types.TranslateResult
	if err := c.postJSON(ctx, "translate", "/translate", req, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// Analytics computes keyword, readability and completeness metrics.
func (c *Client) Analytics(ctx context.Context, req types.AnalyticsRequest) (*types.AnalyticsResult, error) {
	var out types.AnalyticsResult
	if err := c.postJSON(ctx, "analytics", "/analytics", req, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// Tailor analyzes a job description and tailors the structured resume to it.
func (c *Client) Tailor(ctx context.Context, req types.TailorRequest) (*types.TailorResult, error) {
	var out types.TailorResult
	if err := c.postJSON(ctx, "tailor", "/analyze-job-and-tailor", req, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// InterviewQuestions generates interview prep questions with answers.
func (c *Client) InterviewQuestions(ctx context.Context, req types.InterviewQuestionsRequest) (*types.InterviewQuestionsResult, error) {
	var out types.InterviewQuestionsResult
	if err := c.postJSON(ctx, "interview-questions", "/interview-questions", req, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// MatchJob matches resume text against a specific job description.
func (c *Client) MatchJob(ctx context.Context, req types.MatchJobRequest) (*types.MatchJobResult, error) {
	var out types.MatchJobResult
	if err := c.postJSON(ctx, "match-job", "/match-job", req, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// CareerTrends analyzes skill and role demand trends for the resume.
func (c *Client) CareerTrends(ctx context.Context, req types.CareerTrendsRequest) (*types.CareerTrendsResult, error) {
	var out types.CareerTrendsResult
	if err := c.postJSON(ctx, "career-trends", "/analyze-career-trends", req, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// SalaryNegotiation simulates a salary negotiation session.
func (c *Client) SalaryNegotiation(ctx context.Context, req types.SalaryNegotiationRequest) (*types.SalaryNegotiationResult, error) {
	var out types.SalaryNegotiationResult
	if err := c.postJSON(ctx, "salary-negotiation", "/salary-negotiation", req, &out); err != nil {
		return nil, err
	}
	return &out, nil
}
