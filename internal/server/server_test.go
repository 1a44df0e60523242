package server

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"

	"askme/internal/config"
	"askme/internal/database"

	"github.com/alicebob/miniredis/v2"
	"github.com/gofiber/fiber/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

const testSecret = "test-secret-that-is-long-enough-for-hs256"

type testEnv struct {
	srv *Server
	app *fiber.App
	db  *gorm.DB
	rdb *redis.Client
	mr  *miniredis.Miniredis
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()

	db, err := gorm.Open(sqlite.Open("file::memory:?_foreign_keys=on"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)
	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = sqlDB.Close() })
	require.NoError(t, db.AutoMigrate(database.PersistentModels()...))

	mr := miniredis.RunT(t)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = rdb.Close() })

	cfg := &config.Config{
		JWTSecret:      testSecret,
		Env:            "test",
		AllowedOrigins: "http://localhost:5173",
		FeatureFlags:   "sidebar_cache=off",
	}
	srv, err := NewServerWithDeps(cfg, db, rdb)
	require.NoError(t, err)

	return &testEnv{srv: srv, app: srv.NewApp(), db: db, rdb: rdb, mr: mr}
}

// do sends body as JSON and decodes the response into out when non-nil.
func (e *testEnv) do(t *testing.T, method, path, token string, body any, out any) int {
	t.Helper()

	var reader io.Reader
	if body != nil {
		b, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(b)
	}
	req := httptest.NewRequest(method, path, reader)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	return e.send(t, req, out)
}

// doForm sends an urlencoded form, the way browser pages post.
func (e *testEnv) doForm(t *testing.T, path, token string, form url.Values, out any) int {
	t.Helper()

	req := httptest.NewRequest(http.MethodPost, path, strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	return e.send(t, req, out)
}

func (e *testEnv) send(t *testing.T, req *http.Request, out any) int {
	t.Helper()

	resp, err := e.app.Test(req, -1)
	require.NoError(t, err)
	defer func() { _ = resp.Body.Close() }()

	if out != nil {
		require.NoError(t, json.NewDecoder(resp.Body).Decode(out))
	}
	return resp.StatusCode
}

// signup registers username and returns its access token.
func (e *testEnv) signup(t *testing.T, username string) string {
	t.Helper()

	var out AuthResponse
	status := e.do(t, http.MethodPost, "/signup", "", SignupRequest{
		Username:      username,
		Email:         username + "@example.com",
		Password:      "password123",
		PasswordCheck: "password123",
	}, &out)
	require.Equal(t, fiber.StatusCreated, status)
	require.NotEmpty(t, out.Token)
	return out.Token
}

// ask creates a question and returns its id.
func (e *testEnv) ask(t *testing.T, token, title, tags string) uint {
	t.Helper()

	var out struct {
		ID uint `json:"id"`
	}
	status := e.do(t, http.MethodPost, "/ask", token, AskRequest{Title: title, Text: title + " body", Tags: tags}, &out)
	require.Equal(t, fiber.StatusCreated, status)
	require.NotZero(t, out.ID)
	return out.ID
}
