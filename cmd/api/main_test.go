package main

import (
	"context"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/vaughan-dsouza/QuizGo/internal/config"
	"github.com/vaughan-dsouza/QuizGo/internal/logging"
	"github.com/vaughan-dsouza/QuizGo/internal/store"
)

func testConfig() *config.Config {
	cfg := &config.Config{}
	cfg.LoadDefaults()
	cfg.AuthSecret = "main-secret"
	cfg.PasswordScheme = "static"
	cfg.PasswordSalt = "salt"
	cfg.AdminEmail = "root@x.com"
	cfg.AdminPassword = "rootpw"
	return cfg
}

func TestOpenStore(t *testing.T) {
	ctx := context.Background()
	log := logging.Discard()

	cfg := testConfig()
	st, err := openStore(ctx, cfg, log)
	require.NoError(t, err)
	assert.IsType(t, &store.MemoryStore{}, st)

	cfg.StoreBackend = store.BackendFile
	cfg.DataDir = t.TempDir()
	st, err = openStore(ctx, cfg, log)
	require.NoError(t, err)
	assert.IsType(t, &store.FileStore{}, st)

	cfg.StoreBackend = store.BackendPostgres
	cfg.DatabaseURL = "postgres://%zz"
	_, err = openStore(ctx, cfg, log)
	assert.Error(t, err)

	cfg.StoreBackend = "redis"
	_, err = openStore(ctx, cfg, log)
	assert.Error(t, err)
}

func TestNewApp_SeedsAdminIntoFileStore(t *testing.T) {
	cfg := testConfig()
	cfg.StoreBackend = store.BackendFile
	cfg.DataDir = t.TempDir()

	a, err := newApp(context.Background(), cfg, logging.Discard())
	require.NoError(t, err)
	defer a.store.Close()

	raw, err := os.ReadFile(filepath.Join(cfg.DataDir, "users.json"))
	require.NoError(t, err)
	assert.Contains(t, string(raw), "root@x.com")
	assert.Contains(t, string(raw), `"admin"`)

	srv := httptest.NewServer(a.handler)
	defer srv.Close()

	resp, err := http.Post(srv.URL+"/auth/login", "application/json",
		strings.NewReader(`{"email":"root@x.com","password":"rootpw"}`))
	require.NoError(t, err)
	defer resp.Body.Close()
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	// a second boot over the same directory must not duplicate the admin
	again, err := newApp(context.Background(), cfg, logging.Discard())
	require.NoError(t, err)
	users, err := again.store.ListUsers(context.Background())
	require.NoError(t, err)
	assert.Len(t, users, 1)
}

func TestNewApp_RejectsBadPasswordScheme(t *testing.T) {
	cfg := testConfig()
	cfg.PasswordScheme = "md5"
	_, err := newApp(context.Background(), cfg, logging.Discard())
	assert.Error(t, err)
}

func TestRun_StopsOnContextCancel(t *testing.T) {
	cfg := testConfig()
	cfg.HTTPAddr = "127.0.0.1:0"

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	assert.NoError(t, run(ctx, cfg, logging.Discard()))
}
