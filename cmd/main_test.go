package main

import (
	"context"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vgarage/smart-garage/internal/auth"
	"github.com/vgarage/smart-garage/internal/db"
	"github.com/vgarage/smart-garage/internal/models"
	"github.com/vgarage/smart-garage/internal/storage"
)

func TestHealthHandler(t *testing.T) {
	req := httptest.NewRequest("GET", "/health", nil)
	w := httptest.NewRecorder()

	healthHandler(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "ok", w.Body.String())
}

func TestBuildStores_FileFallback(t *testing.T) {
	t.Setenv("MONGO_URI", "")
	t.Setenv("GARAGE_DATA_FILE", filepath.Join(t.TempDir(), "fleet.json"))

	store, users, err := buildStores()
	require.NoError(t, err)
	assert.IsType(t, &storage.FileStore{}, store)
	assert.NotNil(t, users)
}

func TestSeedAdminUser(t *testing.T) {
	t.Setenv("ADMIN_USERNAME", "boss")
	t.Setenv("ADMIN_PASSWORD", "supersecret")

	authService, err := auth.NewService()
	require.NoError(t, err)
	users := db.NewMemoryUserCollection()
	ctx := context.Background()

	seedAdminUser(ctx, authService, users)

	admin, err := users.FindUserByUsername(ctx, "boss")
	require.NoError(t, err)
	assert.Equal(t, models.RoleAdmin, admin.Role)
	assert.True(t, authService.CheckPassword("supersecret", admin.PasswordHash))

	// Seeding again must not replace the existing account.
	seedAdminUser(ctx, authService, users)
	again, err := users.FindUserByUsername(ctx, "boss")
	require.NoError(t, err)
	assert.Equal(t, admin.ID, again.ID)
}
