package http

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/mkowalski/homelibrary/internal/auth"
	"github.com/mkowalski/homelibrary/internal/config"
	"github.com/mkowalski/homelibrary/internal/database"
	"github.com/mkowalski/homelibrary/internal/database/authors"
	"github.com/mkowalski/homelibrary/internal/database/books"
	"github.com/mkowalski/homelibrary/internal/database/borrowings"
	"github.com/mkowalski/homelibrary/internal/database/users"
)

type testServer struct {
	router *gin.Engine
	db     *database.Database
	token  string
	userID uint
}

// setupTestServer wires the full stack against a throwaway sqlite file and
// registers a signed-in user.
func setupTestServer(t *testing.T) (*testServer, func()) {
	t.Helper()
	gin.SetMode(gin.TestMode)

	dbPath := "./test_http_" + strings.ReplaceAll(t.Name(), "/", "_") + ".db"
	db, err := database.NewDatabase(dbPath)
	require.NoError(t, err)

	authService := auth.NewService(users.NewRepository(db.DB), config.Auth{
		JWTSecret:   "test-signing-secret",
		TokenExpiry: time.Hour,
		BcryptCost:  bcrypt.MinCost,
	})

	router := NewRouter(RouterConfig{
		Database:       db,
		AuthService:    authService,
		BorrowingStore: borrowings.NewRepository(db.DB),
		BookStore:      books.NewRepository(db.DB),
		AuthorStore:    authors.NewRepository(db.DB),
		ProfileStore:   users.NewRepository(db.DB),
		Version:        "test",
	})

	user, err := authService.SignUp("tester", "tester@example.com", "initial password", "Test User")
	require.NoError(t, err)
	token, _, err := authService.SignIn("tester", "initial password")
	require.NoError(t, err)

	ts := &testServer{router: router, db: db, token: token, userID: user.ID}
	cleanup := func() {
		db.Close()
		os.Remove(dbPath)
	}
	return ts, cleanup
}

// do performs an authenticated JSON request against the test server.
func (ts *testServer) do(t *testing.T, method, path string, body any) *httptest.ResponseRecorder {
	t.Helper()
	var reader *bytes.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(payload)
	} else {
		reader = bytes.NewReader(nil)
	}

	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	if ts.token != "" {
		req.Header.Set("Authorization", "Bearer "+ts.token)
	}

	w := httptest.NewRecorder()
	ts.router.ServeHTTP(w, req)
	return w
}

// decode unmarshals a response body into a generic map.
func decode(t *testing.T, w *httptest.ResponseRecorder) map[string]any {
	t.Helper()
	var out map[string]any
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &out))
	return out
}

func TestRouter_HealthIsPublic(t *testing.T) {
	ts, cleanup := setupTestServer(t)
	defer cleanup()
	ts.token = ""

	w := ts.do(t, http.MethodGet, "/health", nil)

	assert.Equal(t, http.StatusOK, w.Code)
}

func TestRouter_APIRequiresToken(t *testing.T) {
	ts, cleanup := setupTestServer(t)
	defer cleanup()
	ts.token = ""

	for _, path := range []string{"/api/books", "/api/authors", "/api/borrowings", "/api/users/me"} {
		w := ts.do(t, http.MethodGet, path, nil)
		assert.Equal(t, http.StatusUnauthorized, w.Code, "path %s", path)
	}
}

func TestRouter_SignupAndSignin(t *testing.T) {
	ts, cleanup := setupTestServer(t)
	defer cleanup()
	ts.token = ""

	w := ts.do(t, http.MethodPost, "/api/auth/signup", gin.H{
		"username": "newcomer",
		"email":    "newcomer@example.com",
		"password": "a proper password",
	})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

	w = ts.do(t, http.MethodPost, "/api/auth/signin", gin.H{
		"username": "newcomer",
		"password": "a proper password",
	})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	body := decode(t, w)
	token, _ := body["access_token"].(string)
	require.NotEmpty(t, token)

	// The fresh token opens the private API.
	ts.token = token
	w = ts.do(t, http.MethodGet, "/api/books", nil)
	assert.Equal(t, http.StatusOK, w.Code)
}

func TestRouter_SignupValidation(t *testing.T) {
	ts, cleanup := setupTestServer(t)
	defer cleanup()
	ts.token = ""

	t.Run("missing fields", func(t *testing.T) {
		w := ts.do(t, http.MethodPost, "/api/auth/signup", gin.H{"username": "newcomer"})
		assert.Equal(t, http.StatusBadRequest, w.Code)
	})

	t.Run("taken username", func(t *testing.T) {
		w := ts.do(t, http.MethodPost, "/api/auth/signup", gin.H{
			"username": "tester",
			"email":    "different@example.com",
			"password": "a proper password",
		})
		assert.Equal(t, http.StatusBadRequest, w.Code)
		assert.Contains(t, w.Body.String(), "already taken")
	})
}

func TestRouter_SigninFailures(t *testing.T) {
	ts, cleanup := setupTestServer(t)
	defer cleanup()
	ts.token = ""

	t.Run("unknown user", func(t *testing.T) {
		w := ts.do(t, http.MethodPost, "/api/auth/signin", gin.H{
			"username": "ghost",
			"password": "whatever works",
		})
		assert.Equal(t, http.StatusNotFound, w.Code)
	})

	t.Run("wrong password", func(t *testing.T) {
		w := ts.do(t, http.MethodPost, "/api/auth/signin", gin.H{
			"username": "tester",
			"password": "not the password",
		})
		assert.Equal(t, http.StatusUnauthorized, w.Code)
	})
}
