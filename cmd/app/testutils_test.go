package main

import (
	"bytes"
	"context"
	"database/sql"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/fsopen/bloglist/internal/blogservice"
	"github.com/fsopen/bloglist/internal/common"
	"github.com/fsopen/bloglist/internal/userservice"
)

// stubProducer stands in for the broker and records what was published.
type stubProducer struct {
	mu       sync.Mutex
	messages [][]byte
}

func (p *stubProducer) Publish(ctx context.Context, msg []byte, key common.BindingKey, exchange common.Exchange) error {
	p.mu.Lock()
	defer p.mu.Unlock()

	p.messages = append(p.messages, msg)
	return nil
}

func newTestConfig() *Config {
	cfg := &Config{
		Environment:    "testing",
		Version:        "test",
		TrustedOrigins: []string{"http://example.com"},
	}
	cfg.Limiter.RPS = 2
	cfg.Limiter.Burst = 4

	return cfg
}

func newTestApplication(t *testing.T) (*application, *sql.DB) {
	db := common.TestDB(t)
	cache := common.NewCache(time.Minute, time.Minute)
	cfg := newTestConfig()

	app := &application{
		config:      cfg,
		logger:      slog.New(slog.NewTextHandler(io.Discard, nil)),
		userService: userservice.NewUserService(db, &stubProducer{}, cache, time.Hour),
		blogService: blogservice.NewBlogService(db, cache),
		limiter:     common.NewKeyedRateLimiter(cfg.Limiter.RPS, cfg.Limiter.Burst),
	}

	t.Cleanup(app.limiter.Stop)

	return app, db
}

type testServer struct {
	*httptest.Server
}

func newTestServer(t *testing.T, h http.Handler) *testServer {
	ts := httptest.NewServer(h)

	t.Cleanup(ts.Close)

	return &testServer{ts}
}

// do sends payload as JSON when it is not nil and returns the status and raw body.
func (ts *testServer) do(t *testing.T, method, path string, token string, payload any) (int, http.Header, []byte) {
	var body io.Reader
	if payload != nil {
		jsonPayload, err := json.Marshal(payload)
		require.NoError(t, err)
		body = bytes.NewReader(jsonPayload)
	}

	req, err := http.NewRequest(method, ts.URL+path, body)
	require.NoError(t, err)

	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	res, err := ts.Client().Do(req)
	require.NoError(t, err)
	defer res.Body.Close()

	resBody, err := io.ReadAll(res.Body)
	require.NoError(t, err)

	return res.StatusCode, res.Header, resBody
}

func errorMessage(t *testing.T, body []byte) string {
	var env struct {
		Error string `json:"error"`
	}
	require.NoError(t, json.Unmarshal(body, &env))
	return env.Error
}

// createTestUser registers username with password "secret" and returns a bearer token and the user id.
func createTestUser(t *testing.T, app *application, username string) (string, int) {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	u, err := app.userService.CreateUser(ctx, username, "Test "+username, "secret")
	require.NoError(t, err)

	token, err := app.userService.LoginUser(ctx, username, "secret")
	require.NoError(t, err)

	return token.Token, u.ID
}

func createTestBlog(t *testing.T, db *sql.DB, userID int, title string, likes int) int {
	var id int
	err := db.QueryRow("INSERT INTO blogs (title, author, url, likes, user_id) VALUES ($1, $2, $3, $4, $5) RETURNING id",
		title, "Test Author", "https://example.com/"+title, likes, userID).Scan(&id)
	require.NoError(t, err)
	return id
}

func countRows(t *testing.T, db *sql.DB, table string) int {
	var n int
	require.NoError(t, db.QueryRow("SELECT count(*) FROM "+table).Scan(&n))
	return n
}

func resetTables(t *testing.T, db *sql.DB) {
	_, err := db.Exec("TRUNCATE tokens, blogs, users RESTART IDENTITY CASCADE")
	require.NoError(t, err)
}
