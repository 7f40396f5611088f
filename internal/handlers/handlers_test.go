package handlers

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/vaughan-dsouza/QuizGo/internal/logging"
	"github.com/vaughan-dsouza/QuizGo/internal/metrics"
	"github.com/vaughan-dsouza/QuizGo/internal/password"
	"github.com/vaughan-dsouza/QuizGo/internal/services"
	"github.com/vaughan-dsouza/QuizGo/internal/store"
	"github.com/vaughan-dsouza/QuizGo/internal/token"
)

const (
	adminEmail    = "root@quiz.test"
	adminPassword = "root-pass"
)

type testServer struct {
	*httptest.Server
	store *store.MemoryStore
}

func newTestServer(t *testing.T) *testServer {
	t.Helper()

	st := store.NewMemoryStore()
	log := logging.Discard()
	m := metrics.New()

	codec, err := token.NewCodec("handler-secret", 0)
	require.NoError(t, err)

	auth := services.NewAuthService(st, password.NewStaticSalt("salt"), codec, log, m)
	require.NoError(t, auth.SeedAdmin(context.Background(), adminEmail, adminPassword))

	h := NewHandler(Deps{
		Auth:        auth,
		Results:     services.NewResultService(st, log, m),
		Admin:       services.NewAdminService(st, log, m),
		Users:       st,
		Codec:       codec,
		Log:         log,
		Metrics:     m,
		CORSOrigins: []string{"*"},
		PingMessage: "pong",
	})

	srv := httptest.NewServer(h.Routes())
	t.Cleanup(srv.Close)
	return &testServer{Server: srv, store: st}
}

type response struct {
	status int
	body   map[string]any
	raw    string
}

func (s *testServer) do(t *testing.T, method, path, tok, body string) response {
	t.Helper()

	var rd io.Reader
	if body != "" {
		rd = strings.NewReader(body)
	}
	req, err := http.NewRequest(method, s.URL+path, rd)
	require.NoError(t, err)
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}
	if tok != "" {
		req.Header.Set("Authorization", "Bearer "+tok)
	}

	resp, err := s.Client().Do(req)
	require.NoError(t, err)
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	require.NoError(t, err)

	out := response{status: resp.StatusCode, raw: string(raw)}
	if strings.HasPrefix(resp.Header.Get("Content-Type"), "application/json") {
		require.NoError(t, json.Unmarshal(raw, &out.body), string(raw))
	}
	return out
}

func (s *testServer) login(t *testing.T, email, pass string) string {
	t.Helper()
	resp := s.do(t, http.MethodPost, "/auth/login", "", `{"email":"`+email+`","password":"`+pass+`"}`)
	require.Equal(t, http.StatusOK, resp.status, resp.raw)
	return resp.body["token"].(string)
}

func (s *testServer) register(t *testing.T, email, pass string) (string, string) {
	t.Helper()
	resp := s.do(t, http.MethodPost, "/auth/register", "", `{"email":"`+email+`","password":"`+pass+`"}`)
	require.Equal(t, http.StatusCreated, resp.status, resp.raw)
	user := resp.body["user"].(map[string]any)
	return resp.body["token"].(string), user["id"].(string)
}

func results(t *testing.T, r response) []map[string]any {
	t.Helper()
	raw, ok := r.body["results"].([]any)
	require.True(t, ok, r.raw)
	out := make([]map[string]any, len(raw))
	for i, v := range raw {
		out[i] = v.(map[string]any)
	}
	return out
}

func TestScenario_UserSubmitsAndListsResults(t *testing.T) {
	s := newTestServer(t)

	_, _ = s.register(t, "a@x.com", "pw1")
	tok := s.login(t, "a@x.com", "pw1")

	first := s.do(t, http.MethodPost, "/results", tok, `{"score":70,"attempted":10,"correct":7,"timeTaken":120}`)
	require.Equal(t, http.StatusCreated, first.status, first.raw)
	second := s.do(t, http.MethodPost, "/results", tok, `{"score":90,"attempted":10,"correct":9,"timeTaken":100}`)
	require.Equal(t, http.StatusCreated, second.status, second.raw)

	created := second.body["result"].(map[string]any)
	assert.NotEmpty(t, created["id"])
	assert.NotEmpty(t, created["createdAt"])
	assert.EqualValues(t, 100, created["timeTaken"])

	list := s.do(t, http.MethodGet, "/results", tok, "")
	require.Equal(t, http.StatusOK, list.status)
	items := results(t, list)
	require.Len(t, items, 2)
	assert.EqualValues(t, 90, items[0]["score"], "newest first")
	assert.EqualValues(t, 70, items[1]["score"])
}

func TestScenario_AdminDeletesUser(t *testing.T) {
	s := newTestServer(t)

	userTok, userID := s.register(t, "victim@x.com", "pw")
	resp := s.do(t, http.MethodPost, "/results", userTok, `{"score":50,"attempted":4,"correct":2,"timeTaken":30}`)
	require.Equal(t, http.StatusCreated, resp.status)

	adminTok := s.login(t, adminEmail, adminPassword)

	users := s.do(t, http.MethodGet, "/admin/users", adminTok, "")
	require.Equal(t, http.StatusOK, users.status)
	assert.Len(t, users.body["users"], 2)
	assert.NotContains(t, users.raw, "passwordHash")

	all := s.do(t, http.MethodGet, "/admin/results", adminTok, "")
	require.Equal(t, http.StatusOK, all.status)
	rows := results(t, all)
	require.Len(t, rows, 1)
	assert.Equal(t, "victim@x.com", rows[0]["email"])

	perUser := s.do(t, http.MethodGet, "/admin/users/"+userID+"/results", adminTok, "")
	require.Equal(t, http.StatusOK, perUser.status)
	assert.Equal(t, "victim@x.com", perUser.body["user"].(map[string]any)["email"])
	assert.Len(t, results(t, perUser), 1)

	del := s.do(t, http.MethodDelete, "/admin/users/"+userID, adminTok, "")
	require.Equal(t, http.StatusOK, del.status)
	assert.Equal(t, "User deleted successfully", del.body["message"])

	all = s.do(t, http.MethodGet, "/admin/results", adminTok, "")
	assert.Empty(t, results(t, all))

	// the deleted user's token still verifies but is useless downstream
	assert.Equal(t, http.StatusNotFound, s.do(t, http.MethodGet, "/auth/me", userTok, "").status)
	assert.Equal(t, http.StatusUnauthorized,
		s.do(t, http.MethodPost, "/results", userTok, `{"score":1,"attempted":1,"correct":1,"timeTaken":1}`).status)
	assert.Equal(t, http.StatusForbidden, s.do(t, http.MethodGet, "/admin/users", userTok, "").status)

	assert.Equal(t, http.StatusNotFound, s.do(t, http.MethodDelete, "/admin/users/"+userID, adminTok, "").status)
	assert.Equal(t, http.StatusNotFound, s.do(t, http.MethodGet, "/admin/users/"+userID+"/results", adminTok, "").status)
}

func TestAdmin_CannotDeleteAdmin(t *testing.T) {
	s := newTestServer(t)
	adminTok := s.login(t, adminEmail, adminPassword)

	me := s.do(t, http.MethodGet, "/auth/me", adminTok, "")
	require.Equal(t, http.StatusOK, me.status)
	user := me.body["user"].(map[string]any)
	assert.Equal(t, "admin", user["role"])

	resp := s.do(t, http.MethodDelete, "/admin/users/"+user["id"].(string), adminTok, "")
	assert.Equal(t, http.StatusForbidden, resp.status)
	assert.Equal(t, "cannot delete admin user", resp.body["error"])
}

func TestAdmin_RegularUserForbidden(t *testing.T) {
	s := newTestServer(t)
	tok, _ := s.register(t, "a@x.com", "pw")

	for _, path := range []string{"/admin/users", "/admin/results"} {
		resp := s.do(t, http.MethodGet, path, tok, "")
		assert.Equal(t, http.StatusForbidden, resp.status, path)
	}
	assert.Equal(t, http.StatusUnauthorized, s.do(t, http.MethodGet, "/admin/users", "", "").status)
}

func TestRegister_Errors(t *testing.T) {
	s := newTestServer(t)
	s.register(t, "a@x.com", "pw")

	dup := s.do(t, http.MethodPost, "/auth/register", "", `{"email":"a@x.com","password":"pw"}`)
	assert.Equal(t, http.StatusConflict, dup.status)
	assert.Equal(t, "user already exists", dup.body["error"])

	missing := s.do(t, http.MethodPost, "/auth/register", "", `{"email":"b@x.com"}`)
	assert.Equal(t, http.StatusBadRequest, missing.status)
	assert.Equal(t, "email and password are required", missing.body["error"])

	broken := s.do(t, http.MethodPost, "/auth/register", "", `{"email":`)
	assert.Equal(t, http.StatusBadRequest, broken.status)
}

func TestLogin_Errors(t *testing.T) {
	s := newTestServer(t)
	s.register(t, "a@x.com", "pw")

	bad := s.do(t, http.MethodPost, "/auth/login", "", `{"email":"a@x.com","password":"nope"}`)
	assert.Equal(t, http.StatusUnauthorized, bad.status)
	assert.Equal(t, "invalid credentials", bad.body["error"])

	unknown := s.do(t, http.MethodPost, "/auth/login", "", `{"email":"z@x.com","password":"pw"}`)
	assert.Equal(t, http.StatusUnauthorized, unknown.status)

	missing := s.do(t, http.MethodPost, "/auth/login", "", `{"password":"pw"}`)
	assert.Equal(t, http.StatusBadRequest, missing.status)
}

func TestMe(t *testing.T) {
	s := newTestServer(t)
	tok, id := s.register(t, "a@x.com", "pw")

	me := s.do(t, http.MethodGet, "/auth/me", tok, "")
	require.Equal(t, http.StatusOK, me.status)
	assert.Equal(t, map[string]any{"id": id, "email": "a@x.com", "role": "user"}, me.body["user"])

	for _, bad := range []string{"", "not-a-token", tok + "x"} {
		resp := s.do(t, http.MethodGet, "/auth/me", bad, "")
		assert.Equal(t, http.StatusUnauthorized, resp.status)
		assert.Equal(t, "unauthorized", resp.body["error"])
	}
}

func TestResults_InvalidPayload(t *testing.T) {
	s := newTestServer(t)
	tok, _ := s.register(t, "a@x.com", "pw")

	for _, body := range []string{
		`{"score":"70","attempted":10,"correct":7,"timeTaken":120}`,
		`{"score":70.5,"attempted":10,"correct":7,"timeTaken":120}`,
		`{"score":70,"attempted":10,"correct":7}`,
		`{"score":170,"attempted":10,"correct":7,"timeTaken":120}`,
		`{"score":70,"attempted":5,"correct":7,"timeTaken":120}`,
		`{"score":70,"attempted":10,"correct":7,"timeTaken":-1}`,
		``,
	} {
		resp := s.do(t, http.MethodPost, "/results", tok, body)
		assert.Equal(t, http.StatusBadRequest, resp.status, body)
		assert.NotEmpty(t, resp.body["error"], body)
	}

	list := s.do(t, http.MethodGet, "/results", tok, "")
	assert.Empty(t, results(t, list))

	assert.Equal(t, http.StatusUnauthorized,
		s.do(t, http.MethodPost, "/results", "", `{"score":70,"attempted":10,"correct":7,"timeTaken":120}`).status)
	assert.Equal(t, http.StatusUnauthorized, s.do(t, http.MethodGet, "/results", "", "").status)
}

func TestPingMetricsAndFallbacks(t *testing.T) {
	s := newTestServer(t)

	ping := s.do(t, http.MethodGet, "/ping", "", "")
	assert.Equal(t, http.StatusOK, ping.status)
	assert.Equal(t, "pong", ping.body["message"])

	exposition := s.do(t, http.MethodGet, "/metrics", "", "")
	assert.Equal(t, http.StatusOK, exposition.status)
	assert.Contains(t, exposition.raw, `quiz_http_requests_total{method="GET",route="/ping",status="200"} 1`)

	missing := s.do(t, http.MethodGet, "/nope", "", "")
	assert.Equal(t, http.StatusNotFound, missing.status)
	assert.Equal(t, "not found", missing.body["error"])
}

func TestCORSPreflight(t *testing.T) {
	s := newTestServer(t)

	req, err := http.NewRequest(http.MethodOptions, s.URL+"/results", nil)
	require.NoError(t, err)
	req.Header.Set("Origin", "http://localhost:5173")
	req.Header.Set("Access-Control-Request-Method", http.MethodPost)
	req.Header.Set("Access-Control-Request-Headers", "Authorization")

	resp, err := s.Client().Do(req)
	require.NoError(t, err)
	defer resp.Body.Close()

	assert.Equal(t, "*", resp.Header.Get("Access-Control-Allow-Origin"))
}
