package main

import (
	"bytes"
	"context"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xavierca1/ligue-crm/internal/config"
	"github.com/xavierca1/ligue-crm/internal/infra/auth"
	"github.com/xavierca1/ligue-crm/internal/usecase"
	"golang.org/x/crypto/bcrypt"
)

func useTempDB(t *testing.T) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "crm.db")
	t.Setenv("DATABASE_DRIVER", "sqlite")
	t.Setenv("DATABASE_URL", path)
	t.Setenv("LOG_LEVEL", "error")

	prev := newHasher
	newHasher = func() usecase.PasswordHasher { return &auth.BcryptHasher{Cost: bcrypt.MinCost} }
	t.Cleanup(func() { newHasher = prev })
	return path
}

func run(t *testing.T, args ...string) (string, error) {
	t.Helper()
	cmd := newRootCmd("test", "abc123")
	buf := new(bytes.Buffer)
	cmd.SetOut(buf)
	cmd.SetErr(buf)
	cmd.SetArgs(args)
	err := cmd.ExecuteContext(context.Background())
	return buf.String(), err
}

func TestRootCommand_ShowsHelp(t *testing.T) {
	out, err := run(t)

	require.NoError(t, err)
	assert.Contains(t, out, "Usage:")
	for _, sub := range []string{"serve", "migrate", "seed"} {
		assert.Contains(t, out, sub)
	}
}

func TestRootCommand_Version(t *testing.T) {
	out, err := run(t, "--version")

	require.NoError(t, err)
	assert.Contains(t, out, "test (commit: abc123)")
}

func TestRootCommand_RejectsUnknownFlags(t *testing.T) {
	_, err := run(t, "--porta", "9090")
	assert.Error(t, err)
}

func TestMigrateCommand(t *testing.T) {
	useTempDB(t)

	out, err := run(t, "migrate")

	require.NoError(t, err)
	assert.Contains(t, out, "migrations aplicadas (sqlite)")
}

func TestSeedCommand_IsIdempotent(t *testing.T) {
	useTempDB(t)

	out, err := run(t, "seed")
	require.NoError(t, err)
	assert.Contains(t, out, "admin@crm.com")
	assert.Equal(t, 3, bytes.Count([]byte(out), []byte("criado")))

	out, err = run(t, "seed")
	require.NoError(t, err)
	assert.Equal(t, 3, bytes.Count([]byte(out), []byte("já existia")))
}

func TestBuildApp_WithoutBrokers(t *testing.T) {
	useTempDB(t)
	cfg, err := config.Load()
	require.NoError(t, err)
	cfg.Automation.FollowUpInterval = time.Hour

	a, err := buildApp(context.Background(), cfg, "test")
	require.NoError(t, err)
	a.StartBackground(context.Background())
	t.Cleanup(func() { assert.NoError(t, a.Close()) })

	assert.Nil(t, a.rabbit)
	assert.Nil(t, a.redis)
	assert.NotNil(t, a.async)
	assert.NotNil(t, a.limiter)

	rec := httptest.NewRecorder()
	a.Router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/health", nil))
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"version":"test"`)

	rec = httptest.NewRecorder()
	a.Router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "http_requests_total")
}

func TestBuildApp_MissingSecret(t *testing.T) {
	useTempDB(t)
	cfg, err := config.Load()
	require.NoError(t, err)
	cfg.Auth.JWTSecret = ""

	_, err = buildApp(context.Background(), cfg, "test")
	assert.ErrorIs(t, err, auth.ErrSecretMissing)
}
