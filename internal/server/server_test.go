package server

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jonathan/resume-studio/internal/builder"
	"github.com/jonathan/resume-studio/internal/config"
	"github.com/jonathan/resume-studio/internal/db"
	"github.com/jonathan/resume-studio/internal/display"
	"github.com/jonathan/resume-studio/internal/observability"
	"github.com/jonathan/resume-studio/internal/resumes"
	"github.com/jonathan/resume-studio/internal/server/ratelimit"
	"github.com/jonathan/resume-studio/internal/templates"
)

type fakeUserStore struct {
	mu      sync.Mutex
	users   map[uuid.UUID]*db.User
	byEmail map[string]uuid.UUID
}

func newFakeUserStore() *fakeUserStore {
	return &fakeUserStore{
		users:   make(map[uuid.UUID]*db.User),
		byEmail: make(map[string]uuid.UUID),
	}
}

func (f *fakeUserStore) CreateUser(_ context.Context, name, email, phone, passwordHash string) (uuid.UUID, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	id := uuid.New()
	now := time.Now()
	f.users[id] = &db.User{
		ID:           id,
		Name:         name,
		Email:        email,
		Phone:        phone,
		PasswordHash: passwordHash,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	f.byEmail[email] = id
	return id, nil
}

func (f *fakeUserStore) GetUser(_ context.Context, id uuid.UUID) (*db.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	u, ok := f.users[id]
	if !ok {
		return nil, nil
	}
	out := *u
	return &out, nil
}

func (f *fakeUserStore) GetUserByEmail(_ context.Context, email string) (*db.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	id, ok := f.byEmail[email]
	if !ok {
		return nil, nil
	}
	out := *f.users[id]
	return &out, nil
}

func (f *fakeUserStore) CheckEmailExists(_ context.Context, email string) (bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	_, ok := f.byEmail[email]
	return ok, nil
}

func (f *fakeUserStore) UpdatePassword(_ context.Context, id uuid.UUID, passwordHash string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	u, ok := f.users[id]
	if !ok {
		return nil
	}
	u.PasswordHash = passwordHash
	u.UpdatedAt = time.Now()
	return nil
}

type fakeRecordStore struct {
	mu   sync.Mutex
	rows map[uuid.UUID]*db.ResumeRow
	now  time.Time
}

func newFakeRecordStore() *fakeRecordStore {
	return &fakeRecordStore{rows: make(map[uuid.UUID]*db.ResumeRow), now: time.Now()}
}

func (f *fakeRecordStore) tick() time.Time {
	f.now = f.now.Add(time.Second)
	return f.now
}

func (f *fakeRecordStore) InsertResume(_ context.Context, r *db.ResumeRow) (*db.ResumeRow, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	stored := *r
	stored.ID = uuid.New()
	stored.CreatedAt = f.tick()
	stored.UpdatedAt = stored.CreatedAt
	f.rows[stored.ID] = &stored
	out := stored
	return &out, nil
}

func (f *fakeRecordStore) UpdateResume(_ context.Context, id, userID uuid.UUID, title string, content []byte, industry, templateName *string) (*db.ResumeRow, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	r, ok := f.rows[id]
	if !ok || r.UserID != userID {
		return nil, nil
	}
	r.Title = title
	r.Content = content
	r.Industry = industry
	r.TemplateName = templateName
	r.UpdatedAt = f.tick()
	out := *r
	return &out, nil
}

func (f *fakeRecordStore) GetResume(_ context.Context, id, userID uuid.UUID) (*db.ResumeRow, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	r, ok := f.rows[id]
	if !ok || r.UserID != userID {
		return nil, nil
	}
	out := *r
	return &out, nil
}

func (f *fakeRecordStore) ListResumesByUser(_ context.Context, userID uuid.UUID) ([]db.ResumeRow, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []db.ResumeRow
	for _, r := range f.rows {
		if r.UserID == userID {
			out = append(out, *r)
		}
	}
	return out, nil
}

func (f *fakeRecordStore) ListVersions(_ context.Context, rootID, userID uuid.UUID) ([]db.ResumeRow, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []db.ResumeRow
	for _, r := range f.rows {
		if r.UserID != userID {
			continue
		}
		if r.ID == rootID || (r.ParentResumeID != nil && *r.ParentResumeID == rootID) {
			out = append(out, *r)
		}
	}
	return out, nil
}

type testEnv struct {
	server *Server
	users  *fakeUserStore
	store  *fakeRecordStore
}

func newTestServer(t *testing.T) *testEnv {
	t.Helper()

	renderer, err := templates.New()
	require.NoError(t, err)

	jwtCfg := &config.JWTConfig{Secret: "test-secret-key-0123456789abcdef", ExpirationHours: 1}
	pwCfg := &config.PasswordConfig{BcryptCost: 10}

	users := newFakeUserStore()
	store := newFakeRecordStore()

	s := &Server{
		rateLimiter: ratelimit.NewLimiter(ratelimit.LoadConfig()),
		jwtService:  NewJWTService(jwtCfg),
		sessions:    builder.NewRegistry(),
		records:     resumes.NewService(store),
		renderer:    renderer,
		metrics:     observability.NewMetrics(),
		display:     display.NewRegistry(),
	}
	s.userService = NewUserService(users, pwCfg)
	s.authHandler = NewAuthHandler(s.userService, s.jwtService)

	t.Cleanup(s.rateLimiter.Stop)

	return &testEnv{server: s, users: users, store: store}
}

// signIn creates a user directly in the store and returns its ID plus a
// valid bearer token.
func (e *testEnv) signIn(t *testing.T) (uuid.UUID, string) {
	t.Helper()
	id, err := e.users.CreateUser(context.Background(), "Jordan Doe", "jordan@example.com", "", "x")
	require.NoError(t, err)
	token, err := e.server.jwtService.GenerateToken(id)
	require.NoError(t, err)
	return id, token
}

// do runs a request through the full route table.
func (e *testEnv) do(t *testing.T, method, path, token string, body any) *httptest.ResponseRecorder {
	t.Helper()
	var reader io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(data)
	}
	req := httptest.NewRequest(method, path, reader)
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	w := httptest.NewRecorder()
	e.server.routes().ServeHTTP(w, req)
	return w
}

func decodeJSON(t *testing.T, w *httptest.ResponseRecorder, out any) {
	t.Helper()
	require.NoError(t, json.NewDecoder(w.Body).Decode(out))
}

func TestHealth(t *testing.T) {
	env := newTestServer(t)

	w := env.do(t, http.MethodGet, "/health", "", nil)

	assert.Equal(t, http.StatusOK, w.Code)
	var body map[string]string
	decodeJSON(t, w, &body)
	assert.Equal(t, "ok", body["status"])
}

func TestProtectedRoutesRequireToken(t *testing.T) {
	env := newTestServer(t)

	for _, path := range []string{"/drafts", "/resumes", "/ai/improve"} {
		w := env.do(t, http.MethodPost, path, "", nil)
		assert.Equal(t, http.StatusUnauthorized, w.Code, path)
	}
}

func TestProtectedRoutesRejectBadToken(t *testing.T) {
	env := newTestServer(t)

	w := env.do(t, http.MethodGet, "/resumes", "not-a-token", nil)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestMetricsEndpoint(t *testing.T) {
	env := newTestServer(t)
	env.server.metrics.ResumesSavedTotal.Inc()

	w := env.do(t, http.MethodGet, "/metrics", "", nil)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "resume_studio_resumes_saved_total")
}

func TestCORSPreflight(t *testing.T) {
	env := newTestServer(t)
	handler := env.server.withCORS(env.server.routes())

	req := httptest.NewRequest(http.MethodOptions, "/resumes", nil)
	w := httptest.NewRecorder()
	handler.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "*", w.Header().Get("Access-Control-Allow-Origin"))
}

func TestCurrentUser(t *testing.T) {
	env := newTestServer(t)
	id, token := env.signIn(t)

	w := env.do(t, http.MethodGet, "/users/me", token, nil)

	require.Equal(t, http.StatusOK, w.Code)
	var body map[string]any
	decodeJSON(t, w, &body)
	assert.Equal(t, id.String(), body["id"])
	assert.Equal(t, "Jordan Doe", body["name"])
}

func TestRouteLabel(t *testing.T) {
	assert.Equal(t, "/drafts", routeLabel("/drafts/123/skills"))
	assert.Equal(t, "/health", routeLabel("/health"))
	assert.Equal(t, "/", routeLabel("/"))
}
