package main

import (
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"placesync/internal/api/controllers"
	"placesync/internal/config"
)

func TestProvideRouter_ServesStoredImages(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.MkdirAll(filepath.Join(dir, "p1", "images"), 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "p1", "images", "a.jpg"), []byte("jpg"), 0o644))

	cfg := config.Config{ImagePublicPrefix: config.NormalizeImagePrefix("/"), ImageStorageDir: dir}
	r := ProvideRouter(cfg, controllers.NewRefreshController(nil, nil), controllers.NewHealthController(nil))

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/images/p1/images/a.jpg", nil))

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "jpg", w.Body.String())
}

func TestProvideRouter_ExternalImageHost(t *testing.T) {
	cfg := config.Config{ImagePublicPrefix: "https://cdn.example.com/img", ImageStorageDir: t.TempDir()}

	assert.NotPanics(t, func() {
		ProvideRouter(cfg, controllers.NewRefreshController(nil, nil), controllers.NewHealthController(nil))
	})
}
