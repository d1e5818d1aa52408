package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vgarage/smart-garage/internal/auth"
	"github.com/vgarage/smart-garage/internal/db"
	"github.com/vgarage/smart-garage/internal/models"
)

func newAuthHandler(t *testing.T) (*AuthHandler, db.UserCollection) {
	t.Helper()
	service, err := auth.NewService()
	require.NoError(t, err)
	users := db.NewMemoryUserCollection()
	return NewAuthHandler(service, users), users
}

func postJSON(t *testing.T, handler http.HandlerFunc, url string, payload interface{}) *httptest.ResponseRecorder {
	t.Helper()
	data, err := json.Marshal(payload)
	require.NoError(t, err)
	req := httptest.NewRequest(http.MethodPost, url, bytes.NewBuffer(data))
	w := httptest.NewRecorder()
	handler(w, req)
	return w
}

func TestAuthHandler_Register(t *testing.T) {
	h, _ := newAuthHandler(t)

	valid := models.RegisterRequest{
		Username: "mechanic1",
		Email:    "mech@example.com",
		Password: "supersecret",
		Role:     models.RoleMechanic,
	}

	w := postJSON(t, h.Register, "/api/auth/register", valid)
	assert.Equal(t, http.StatusCreated, w.Code)

	t.Run("duplicate username", func(t *testing.T) {
		dup := valid
		dup.Email = "other@example.com"
		w := postJSON(t, h.Register, "/api/auth/register", dup)
		assert.Equal(t, http.StatusConflict, w.Code)
	})

	t.Run("duplicate email", func(t *testing.T) {
		dup := valid
		dup.Username = "mechanic2"
		w := postJSON(t, h.Register, "/api/auth/register", dup)
		assert.Equal(t, http.StatusConflict, w.Code)
	})

	t.Run("short password", func(t *testing.T) {
		bad := valid
		bad.Username = "mechanic3"
		bad.Email = "m3@example.com"
		bad.Password = "short"
		w := postJSON(t, h.Register, "/api/auth/register", bad)
		assert.Equal(t, http.StatusBadRequest, w.Code)
	})

	t.Run("bad email", func(t *testing.T) {
		bad := valid
		bad.Username = "mechanic4"
		bad.Email = "not-an-email"
		w := postJSON(t, h.Register, "/api/auth/register", bad)
		assert.Equal(t, http.StatusBadRequest, w.Code)
	})

	t.Run("invalid role", func(t *testing.T) {
		bad := valid
		bad.Username = "mechanic5"
		bad.Email = "m5@example.com"
		bad.Role = "superuser"
		w := postJSON(t, h.Register, "/api/auth/register", bad)
		assert.Equal(t, http.StatusBadRequest, w.Code)
	})

	t.Run("invalid json", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodPost, "/api/auth/register", bytes.NewBufferString("{nope"))
		w := httptest.NewRecorder()
		h.Register(w, req)
		assert.Equal(t, http.StatusBadRequest, w.Code)
	})
}

func TestAuthHandler_Login(t *testing.T) {
	h, users := newAuthHandler(t)

	register := models.RegisterRequest{
		Username: "viewer1",
		Email:    "viewer@example.com",
		Password: "supersecret",
		Role:     models.RoleViewer,
	}
	require.Equal(t, http.StatusCreated, postJSON(t, h.Register, "/api/auth/register", register).Code)

	t.Run("valid credentials", func(t *testing.T) {
		w := postJSON(t, h.Login, "/api/auth/login", models.LoginRequest{
			Username: "viewer1",
			Password: "supersecret",
		})
		require.Equal(t, http.StatusOK, w.Code)

		var resp models.LoginResponse
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
		assert.NotEmpty(t, resp.Token)
		assert.Equal(t, "viewer1", resp.User.Username)
		assert.Empty(t, resp.User.PasswordHash)

		stored, err := users.FindUserByUsername(context.Background(), "viewer1")
		require.NoError(t, err)
		assert.NotNil(t, stored.LastLogin)
	})

	t.Run("wrong password", func(t *testing.T) {
		w := postJSON(t, h.Login, "/api/auth/login", models.LoginRequest{
			Username: "viewer1",
			Password: "wrongpassword",
		})
		assert.Equal(t, http.StatusUnauthorized, w.Code)
	})

	t.Run("unknown user", func(t *testing.T) {
		w := postJSON(t, h.Login, "/api/auth/login", models.LoginRequest{
			Username: "ghost",
			Password: "supersecret",
		})
		assert.Equal(t, http.StatusUnauthorized, w.Code)
	})

	t.Run("missing fields", func(t *testing.T) {
		w := postJSON(t, h.Login, "/api/auth/login", models.LoginRequest{Username: "viewer1"})
		assert.Equal(t, http.StatusBadRequest, w.Code)
	})
}
