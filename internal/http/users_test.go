package http

import (
	"net/http"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestProfile_Get(t *testing.T) {
	ts, cleanup := setupTestServer(t)
	defer cleanup()

	w := ts.do(t, http.MethodGet, "/api/users/me", nil)

	require.Equal(t, http.StatusOK, w.Code)
	user := decode(t, w)["user"].(map[string]any)
	assert.Equal(t, "tester", user["username"])
	assert.Equal(t, "tester@example.com", user["email"])
	assert.NotContains(t, w.Body.String(), "password", "hashes never leave the API")
}

func TestProfile_Update(t *testing.T) {
	ts, cleanup := setupTestServer(t)
	defer cleanup()

	t.Run("changes email and full name", func(t *testing.T) {
		w := ts.do(t, http.MethodPut, "/api/users/me", gin.H{
			"email":     "renamed@example.com",
			"full_name": "Renamed User",
		})
		require.Equal(t, http.StatusOK, w.Code, w.Body.String())

		w = ts.do(t, http.MethodGet, "/api/users/me", nil)
		user := decode(t, w)["user"].(map[string]any)
		assert.Equal(t, "renamed@example.com", user["email"])
		assert.Equal(t, "Renamed User", user["full_name"])
	})

	t.Run("rejects an email owned by another account", func(t *testing.T) {
		w := ts.do(t, http.MethodPost, "/api/auth/signup", gin.H{
			"username": "second",
			"email":    "second@example.com",
			"password": "a proper password",
		})
		require.Equal(t, http.StatusCreated, w.Code)

		w = ts.do(t, http.MethodPut, "/api/users/me", gin.H{"email": "second@example.com"})
		assert.Equal(t, http.StatusBadRequest, w.Code)
		assert.Contains(t, w.Body.String(), "already in use")
	})

	t.Run("keeping your own email is fine", func(t *testing.T) {
		w := ts.do(t, http.MethodPut, "/api/users/me", gin.H{"email": "renamed@example.com"})
		assert.Equal(t, http.StatusOK, w.Code)
	})

	t.Run("email must be well formed", func(t *testing.T) {
		w := ts.do(t, http.MethodPut, "/api/users/me", gin.H{"email": "not-an-email"})
		assert.Equal(t, http.StatusBadRequest, w.Code)
	})
}

func TestProfile_ChangePassword(t *testing.T) {
	ts, cleanup := setupTestServer(t)
	defer cleanup()

	t.Run("wrong current password", func(t *testing.T) {
		w := ts.do(t, http.MethodPost, "/api/users/me/password", gin.H{
			"current_password": "not the password",
			"new_password":     "a brand new password",
		})
		assert.Equal(t, http.StatusUnauthorized, w.Code)
	})

	t.Run("new password too short", func(t *testing.T) {
		w := ts.do(t, http.MethodPost, "/api/users/me/password", gin.H{
			"current_password": "initial password",
			"new_password":     "short",
		})
		assert.Equal(t, http.StatusBadRequest, w.Code)
	})

	t.Run("changes the credential", func(t *testing.T) {
		w := ts.do(t, http.MethodPost, "/api/users/me/password", gin.H{
			"current_password": "initial password",
			"new_password":     "a brand new password",
		})
		require.Equal(t, http.StatusOK, w.Code, w.Body.String())

		w = ts.do(t, http.MethodPost, "/api/auth/signin", gin.H{
			"username": "tester",
			"password": "a brand new password",
		})
		assert.Equal(t, http.StatusOK, w.Code)
	})
}
