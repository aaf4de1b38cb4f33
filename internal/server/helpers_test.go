package server

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strconv"
	"testing"

	"devconnector/internal/config"
	"devconnector/internal/database"
	"devconnector/internal/github"
	"devconnector/internal/repository"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

// setupTestServer builds a Server on an in-memory sqlite database with all
// API routes mounted. No Redis, no metrics middleware.
func setupTestServer(t *testing.T) (*Server, *fiber.App) {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{TranslateError: true})
	require.NoError(t, err)
	require.NoError(t, database.Migrate(db))

	cfg := &config.Config{
		Port:         "7000",
		JWTSecret:    "test-secret",
		GithubAPIURL: "http://127.0.0.1:1",
	}

	s := &Server{
		config:      cfg,
		db:          db,
		userRepo:    repository.NewUserRepository(db),
		profileRepo: repository.NewProfileRepository(db),
		postRepo:    repository.NewPostRepository(db),
		github:      github.NewClient(cfg.GithubAPIURL, nil),
	}

	app := fiber.New()
	s.SetupRoutes(app)
	return s, app
}

// jsonReq builds a request with a JSON body and optional auth token.
func jsonReq(t *testing.T, method, target string, body interface{}, token string) *http.Request {
	t.Helper()

	var buf io.Reader
	if body != nil {
		b, err := json.Marshal(body)
		require.NoError(t, err)
		buf = bytes.NewReader(b)
	}

	req := httptest.NewRequest(method, target, buf)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("auth-token", token)
	}
	return req
}

// decodeBody unmarshals a response body into out.
func decodeBody(t *testing.T, resp *http.Response, out interface{}) {
	t.Helper()
	defer func() { _ = resp.Body.Close() }()
	require.NoError(t, json.NewDecoder(resp.Body).Decode(out))
}

// registerUser registers a user through the API and returns its token.
func registerUser(t *testing.T, app *fiber.App, name, email string) string {
	t.Helper()

	req := jsonReq(t, http.MethodPost, "/api/users", fiber.Map{
		"name":     name,
		"email":    email,
		"password": "password123",
	}, "")
	resp, err := app.Test(req)
	require.NoError(t, err)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var body struct {
		Token string `json:"token"`
	}
	decodeBody(t, resp, &body)
	require.NotEmpty(t, body.Token)
	return body.Token
}

// errBody is the {"errors":[...]} validation failure shape.
type errBody struct {
	Errors []struct {
		Msg   string `json:"msg"`
		Param string `json:"param,omitempty"`
	} `json:"errors"`
}

// msgBody is the {"msg":"..."} shape used by auth and not-found responses.
type msgBody struct {
	Msg string `json:"msg"`
}

func itoa(id uint) string {
	return strconv.FormatUint(uint64(id), 10)
}
