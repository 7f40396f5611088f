package client

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/vaughan-dsouza/QuizGo/internal/handlers"
	"github.com/vaughan-dsouza/QuizGo/internal/logging"
	"github.com/vaughan-dsouza/QuizGo/internal/metrics"
	"github.com/vaughan-dsouza/QuizGo/internal/models"
	"github.com/vaughan-dsouza/QuizGo/internal/password"
	"github.com/vaughan-dsouza/QuizGo/internal/services"
	"github.com/vaughan-dsouza/QuizGo/internal/store"
	"github.com/vaughan-dsouza/QuizGo/internal/token"
)

func newServer(t *testing.T) *httptest.Server {
	t.Helper()

	st := store.NewMemoryStore()
	log := logging.Discard()
	m := metrics.New()
	codec, err := token.NewCodec("client-secret", 0)
	require.NoError(t, err)

	auth := services.NewAuthService(st, password.NewStaticSalt("salt"), codec, log, m)
	require.NoError(t, auth.SeedAdmin(context.Background(), "root@x.com", "rootpw"))

	h := handlers.NewHandler(handlers.Deps{
		Auth:        auth,
		Results:     services.NewResultService(st, log, m),
		Admin:       services.NewAdminService(st, log, m),
		Users:       st,
		Codec:       codec,
		Log:         log,
		Metrics:     m,
		CORSOrigins: []string{"*"},
	})
	srv := httptest.NewServer(h.Routes())
	t.Cleanup(srv.Close)
	return srv
}

func TestClient_UserFlow(t *testing.T) {
	srv := newServer(t)
	ctx := context.Background()
	c := New(srv.URL+"/", WithHTTPClient(srv.Client()))

	msg, err := c.Ping(ctx)
	require.NoError(t, err)
	assert.Equal(t, "ping", msg)

	reg, err := c.Register(ctx, "a@x.com", "pw1")
	require.NoError(t, err)
	assert.Equal(t, "a@x.com", reg.User.Email)
	assert.Equal(t, reg.Token, c.Token())

	_, err = c.Login(ctx, "a@x.com", "pw1")
	require.NoError(t, err)

	me, err := c.Me(ctx)
	require.NoError(t, err)
	assert.Equal(t, models.RoleUser, me.Role)

	_, err = c.SubmitResult(ctx, ResultRequest{Score: 60, Attempted: 10, Correct: 6, TimeTaken: 90})
	require.NoError(t, err)
	second, err := c.SubmitResult(ctx, ResultRequest{Score: 80, Attempted: 10, Correct: 8, TimeTaken: 80})
	require.NoError(t, err)

	list, err := c.Results(ctx)
	require.NoError(t, err)
	require.Len(t, list, 2)
	assert.Equal(t, second.ID, list[0].ID)
}

func TestClient_Errors(t *testing.T) {
	srv := newServer(t)
	ctx := context.Background()
	c := New(srv.URL, WithHTTPClient(srv.Client()))

	_, err := c.Me(ctx)
	require.Error(t, err)
	assert.True(t, IsStatus(err, http.StatusUnauthorized))

	_, err = c.Login(ctx, "a@x.com", "nope")
	var apiErr *APIError
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, http.StatusUnauthorized, apiErr.Status)
	assert.Equal(t, "invalid credentials", apiErr.Message)

	_, err = c.Register(ctx, "a@x.com", "pw")
	require.NoError(t, err)
	_, err = c.Register(ctx, "a@x.com", "pw")
	assert.True(t, IsStatus(err, http.StatusConflict))

	_, err = c.SubmitResult(ctx, ResultRequest{Score: 50, Attempted: 1, Correct: 2})
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, http.StatusBadRequest, apiErr.Status)
	assert.Equal(t, "correct must not exceed attempted", apiErr.Message)

	_, err = c.AdminUsers(ctx)
	assert.True(t, IsStatus(err, http.StatusForbidden))
}

func TestClient_AdminFlow(t *testing.T) {
	srv := newServer(t)
	ctx := context.Background()

	user := New(srv.URL, WithHTTPClient(srv.Client()))
	reg, err := user.Register(ctx, "victim@x.com", "pw")
	require.NoError(t, err)
	_, err = user.SubmitResult(ctx, ResultRequest{Score: 40, Attempted: 5, Correct: 2, TimeTaken: 20})
	require.NoError(t, err)

	admin := New(srv.URL, WithHTTPClient(srv.Client()))
	_, err = admin.Login(ctx, "root@x.com", "rootpw")
	require.NoError(t, err)

	users, err := admin.AdminUsers(ctx)
	require.NoError(t, err)
	assert.Len(t, users, 2)

	all, err := admin.AdminResults(ctx)
	require.NoError(t, err)
	require.Len(t, all, 1)
	assert.Equal(t, "victim@x.com", all[0].Email)

	u, results, err := admin.UserResults(ctx, reg.User.ID)
	require.NoError(t, err)
	assert.Equal(t, "victim@x.com", u.Email)
	assert.Len(t, results, 1)

	msg, err := admin.DeleteUser(ctx, reg.User.ID)
	require.NoError(t, err)
	assert.Equal(t, "User deleted successfully", msg)

	_, err = admin.DeleteUser(ctx, reg.User.ID)
	assert.True(t, IsStatus(err, http.StatusNotFound))

	_, err = user.SubmitResult(ctx, ResultRequest{Score: 40, Attempted: 5, Correct: 2, TimeTaken: 20})
	assert.True(t, IsStatus(err, http.StatusUnauthorized))
}

func TestClient_NonJSONError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "upstream exploded", http.StatusBadGateway)
	}))
	defer srv.Close()

	_, err := New(srv.URL).Ping(context.Background())
	var apiErr *APIError
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, http.StatusBadGateway, apiErr.Status)
	assert.Equal(t, "Bad Gateway", apiErr.Message)
}
