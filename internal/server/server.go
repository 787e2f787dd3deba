// Package server provides the HTTP REST API for the resume studio.
package server

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"net"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"

	"github.com/jonathan/resume-studio/internal/aiclient"
	"github.com/jonathan/resume-studio/internal/builder"
	"github.com/jonathan/resume-studio/internal/cache"
	"github.com/jonathan/resume-studio/internal/config"
	"github.com/jonathan/resume-studio/internal/db"
	"github.com/jonathan/resume-studio/internal/display"
	"github.com/jonathan/resume-studio/internal/observability"
	"github.com/jonathan/resume-studio/internal/resumes"
	"github.com/jonathan/resume-studio/internal/server/middleware"
	"github.com/jonathan/resume-studio/internal/server/ratelimit"
	"github.com/jonathan/resume-studio/internal/templates"
)

// Server represents the HTTP server
type Server struct {
	httpServer  *http.Server
	db          *db.DB
	rateLimiter *ratelimit.Limiter
	jwtService  *JWTService
	userService *UserService
	authHandler *AuthHandler

	sessions *builder.Registry
	records  *resumes.Service
	ai       *aiclient.Client
	renderer *templates.Renderer
	cache    *cache.AnalysisCache // nil when Redis is not configured
	metrics  *observability.Metrics
	display  *display.Registry
}

// New creates a new server instance from the environment-driven config.
func New(cfg *config.ServerConfig) (*Server, error) {
	database, err := db.Connect(context.Background(), cfg.DatabaseURL)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	passwordConfig, err := config.NewPasswordConfig()
	if err != nil {
		return nil, fmt.Errorf("failed to create password config: %w", err)
	}

	jwtConfig, err := config.NewJWTConfig()
	if err != nil {
		return nil, fmt.Errorf("failed to create JWT config: %w", err)
	}

	renderer, err := templates.New()
	if err != nil {
		return nil, fmt.Errorf("failed to load resume layouts: %w", err)
	}

	s := &Server{
		db:          database,
		rateLimiter: ratelimit.NewLimiter(ratelimit.LoadConfig()),
		jwtService:  NewJWTService(jwtConfig),
		sessions:    builder.NewRegistry(),
		records:     resumes.NewService(database),
		ai:          aiclient.New(cfg.AIBaseURL),
		renderer:    renderer,
		metrics:     observability.NewMetrics(),
		display:     display.NewRegistry(),
	}
	s.userService = NewUserService(database, passwordConfig)
	s.authHandler = NewAuthHandler(s.userService, s.jwtService)

	if cfg.RedisURL != "" {
		opts, err := redis.ParseURL(cfg.RedisURL)
		if err != nil {
			return nil, fmt.Errorf("failed to parse redis URL: %w", err)
		}
		s.cache = cache.New(redis.NewClient(opts))
	}

	s.httpServer = &http.Server{
		Addr:         cfg.Addr(),
		Handler:      s.withRateLimit(s.withMetrics(s.withLogging(s.withCORS(s.routes())))),
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 120 * time.Second, // AI calls can be slow
		IdleTimeout:  60 * time.Second,
	}

	return s, nil
}

// routes builds the router. Split out so handler tests can exercise the
// full route table without a listening socket.
func (s *Server) routes() http.Handler {
	mux := http.NewServeMux()

	mux.HandleFunc("GET /health", s.handleHealth)
	mux.Handle("GET /metrics", s.metrics.Handler())

	mux.HandleFunc("POST /auth/register", s.authHandler.Register)
	mux.HandleFunc("POST /auth/login", s.authHandler.Login)

	protect := middleware.AuthMiddleware(s.jwtService.AsTokenValidator())
	auth := func(h http.HandlerFunc) http.Handler { return protect(h) }

	mux.Handle("PUT /auth/password", auth(s.handleUpdatePassword))
	mux.Handle("GET /users/me", auth(s.handleCurrentUser))

	// Draft sessions (the in-progress form wizard)
	mux.Handle("POST /drafts", auth(s.handleCreateDraft))
	mux.Handle("GET /drafts/{id}", auth(s.handleGetDraft))
	mux.Handle("DELETE /drafts/{id}", auth(s.handleDeleteDraft))
	mux.Handle("POST /drafts/{id}/step/next", auth(s.handleDraftStepNext))
	mux.Handle("POST /drafts/{id}/step/back", auth(s.handleDraftStepBack))
	mux.Handle("PUT /drafts/{id}/step", auth(s.handleDraftStepGoto))
	mux.Handle("PUT /drafts/{id}/personal", auth(s.handleDraftPersonal))
	mux.Handle("POST /drafts/{id}/experience", auth(s.handleDraftAddExperience))
	mux.Handle("PUT /drafts/{id}/experience/{index}", auth(s.handleDraftSetExperience))
	mux.Handle("DELETE /drafts/{id}/experience/{index}", auth(s.handleDraftRemoveExperience))
	mux.Handle("POST /drafts/{id}/skills", auth(s.handleDraftAddSkill))
	mux.Handle("DELETE /drafts/{id}/skills", auth(s.handleDraftRemoveSkill))
	mux.Handle("PUT /drafts/{id}/education", auth(s.handleDraftEducation))
	mux.Handle("PUT /drafts/{id}/projects", auth(s.handleDraftProjects))
	mux.Handle("PUT /drafts/{id}/photo", auth(s.handleDraftPhoto))
	mux.Handle("DELETE /drafts/{id}/photo", auth(s.handleDraftClearPhoto))
	mux.Handle("POST /drafts/{id}/load", auth(s.handleDraftLoad))

	// Saved resume records and version chains
	mux.Handle("POST /resumes", auth(s.handleSaveResume))
	mux.Handle("GET /resumes", auth(s.handleListResumes))
	mux.Handle("GET /resumes/{id}", auth(s.handleGetResume))
	mux.Handle("GET /resumes/{id}/versions", auth(s.handleListVersions))
	mux.Handle("GET /resumes/{id}/render", auth(s.handleRenderResume))
	mux.Handle("GET /templates", auth(s.handleListTemplates))

	// AI-backed operations, proxied to the resume AI service
	mux.Handle("POST /ai/generate", auth(s.handleAIGenerate))
	mux.Handle("POST /ai/review", auth(s.handleAIReview))
	mux.Handle("POST /ai/extract-text", auth(s.handleAIExtractText))
	mux.Handle("POST /ai/improve", auth(s.handleAIImprove))
	mux.Handle("POST /ai/chat", auth(s.handleAIChat))
	mux.Handle("POST /ai/cover-letter", auth(s.handleAICoverLetter))
	mux.Handle("POST /ai/resignation-letter", auth(s.handleAIResignationLetter))
	mux.Handle("POST /ai/rewrite-bullet", auth(s.handleAIRewriteBullet))
	mux.Handle("POST /ai/career-path", auth(s.handleAICareerPath))
	mux.Handle("POST /ai/heatmap", auth(s.handleAIHeatmap))
	mux.Handle("POST /ai/benchmark", auth(s.handleAIBenchmark))
	mux.Handle("POST /ai/translate", auth(s.handleAITranslate))
	mux.Handle("POST /ai/analytics", auth(s.handleAIAnalytics))
	mux.Handle("POST /ai/tailor", auth(s.handleAITailor))
	mux.Handle("POST /ai/interview-questions", auth(s.handleAIInterviewQuestions))
	mux.Handle("POST /ai/match-job", auth(s.handleAIMatchJob))
	mux.Handle("POST /ai/career-trends", auth(s.handleAICareerTrends))
	mux.Handle("POST /ai/salary-negotiation", auth(s.handleAISalaryNegotiation))

	return mux
}

// Start begins listening for requests
func (s *Server) Start() error {
	// Graceful shutdown
	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt, syscall.SIGTERM)

	go func() {
		log.Printf("Server starting on %s", s.httpServer.Addr)
		if err := s.httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("Server error: %v", err)
		}
	}()

	<-stop
	log.Println("Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := s.httpServer.Shutdown(ctx); err != nil {
		return fmt.Errorf("server shutdown failed: %w", err)
	}

	// Stop rate limiter cleanup goroutine
	if s.rateLimiter != nil {
		s.rateLimiter.Stop()
	}

	s.db.Close()
	log.Println("Server stopped")
	return nil
}

// withCORS adds CORS headers
func (s *Server) withCORS(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Methods", "GET, POST, PUT, DELETE, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type, Authorization")

		if r.Method == "OPTIONS" {
			w.WriteHeader(http.StatusOK)
			return
		}

		next.ServeHTTP(w, r)
	})
}

// withRateLimit adds rate limiting middleware
func (s *Server) withRateLimit(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		clientID := s.extractClientID(r)

		allowed, info := s.rateLimiter.Allow(clientID, r.URL.Path, r.Method)
		if !allowed {
			s.setRateLimitHeaders(w, info)
			s.rateLimitResponse(w, info)
			return
		}

		s.setRateLimitHeaders(w, info)
		next.ServeHTTP(w, r)
	})
}

// withLogging adds request logging
func (s *Server) withLogging(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		log.Printf("[%s] %s %s", r.Method, r.URL.Path, r.RemoteAddr)
		next.ServeHTTP(w, r)
		log.Printf("[%s] %s completed in %v", r.Method, r.URL.Path, time.Since(start))
	})
}

// statusRecorder captures the response status for metrics.
type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (rec *statusRecorder) WriteHeader(code int) {
	rec.status = code
	rec.ResponseWriter.WriteHeader(code)
}

// withMetrics records request counts and latency per route group.
func (s *Server) withMetrics(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
		next.ServeHTTP(rec, r)
		s.metrics.ObserveHTTP(r.Method, routeLabel(r.URL.Path), rec.status, time.Since(start))
	})
}

// routeLabel reduces a request path to its first segment to keep metric
// cardinality bounded.
func routeLabel(path string) string {
	trimmed := strings.TrimPrefix(path, "/")
	if i := strings.IndexByte(trimmed, '/'); i >= 0 {
		trimmed = trimmed[:i]
	}
	if trimmed == "" {
		return "/"
	}
	return "/" + trimmed
}

// handleHealth returns server health status
func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	s.jsonResponse(w, http.StatusOK, map[string]string{"status": "ok"})
}

// handleUpdatePassword handles password update requests for the
// authenticated user.
func (s *Server) handleUpdatePassword(w http.ResponseWriter, r *http.Request) {
	userID, ok := s.requireUser(w, r)
	if !ok {
		return
	}
	s.authHandler.UpdatePasswordWithUserID(w, r, userID)
}

// handleCurrentUser returns the authenticated user's profile.
func (s *Server) handleCurrentUser(w http.ResponseWriter, r *http.Request) {
	userID, ok := s.requireUser(w, r)
	if !ok {
		return
	}

	dbUser, err := s.userService.store.GetUser(r.Context(), userID)
	if err != nil {
		s.errorResponse(w, http.StatusInternalServerError, "Failed to load user")
		return
	}
	if dbUser == nil {
		s.errorResponse(w, http.StatusNotFound, "User not found")
		return
	}

	s.jsonResponse(w, http.StatusOK, convertDBUserToTypesUser(dbUser))
}

// jsonResponse writes a JSON response
func (s *Server) jsonResponse(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		log.Printf("Error encoding JSON response: %v", err)
	}
}

// errorResponse writes an error JSON response
func (s *Server) errorResponse(w http.ResponseWriter, status int, message string) {
	s.jsonResponse(w, status, map[string]string{"error": message})
}

// requireUser extracts the authenticated user ID set by the auth
// middleware, writing a 401 when it is missing.
func (s *Server) requireUser(w http.ResponseWriter, r *http.Request) (uuid.UUID, bool) {
	id, err := middleware.GetUserID(r)
	if err != nil {
		s.errorResponse(w, http.StatusUnauthorized, "Authentication required")
		return uuid.Nil, false
	}
	return id, true
}

// extractClientID extracts the client identifier from the request.
// For now this uses the IP address from RemoteAddr; behind a trusted
// proxy X-Forwarded-For would be the right source.
func (s *Server) extractClientID(r *http.Request) string {
	ip, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return ip
}

// setRateLimitHeaders sets standard rate limit headers on the response.
func (s *Server) setRateLimitHeaders(w http.ResponseWriter, info ratelimit.Info) {
	if info.Limit > 0 {
		w.Header().Set("X-RateLimit-Limit", fmt.Sprintf("%d", info.Limit))
		w.Header().Set("X-RateLimit-Remaining", fmt.Sprintf("%d", info.Remaining))
		w.Header().Set("X-RateLimit-Reset", fmt.Sprintf("%d", info.ResetTime.Unix()))
	}
}

// rateLimitResponse writes a 429 Too Many Requests response with rate limit information.
func (s *Server) rateLimitResponse(w http.ResponseWriter, info ratelimit.Info) {
	response := map[string]interface{}{
		"error":     "rate_limit_exceeded",
		"message":   "Rate limit exceeded. Please try again later.",
		"limit":     info.Limit,
		"remaining": info.Remaining,
		"reset_at":  info.ResetTime.Format(time.RFC3339),
	}

	if info.RetryAfter > 0 {
		response["retry_after"] = int(info.RetryAfter.Seconds())
		w.Header().Set("Retry-After", fmt.Sprintf("%d", int(info.RetryAfter.Seconds())))
	}

	log.Printf("[rate-limit] Rate limit exceeded: Limit=%d Remaining=%d Reset=%s",
		info.Limit, info.Remaining, info.ResetTime.Format(time.RFC3339))

	s.jsonResponse(w, http.StatusTooManyRequests, response)
}
