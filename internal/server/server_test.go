// Package server provides HTTP server for the application.
// This file contains unit tests for the server package.
package server

import (
	"context"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/paperforge/paperforge/internal/config"
	"github.com/paperforge/paperforge/pkg/logger"
)

func init() {
	// Initialize logger for tests
	logger.Init(logger.Config{
		Level:  "error",
		Format: "text",
	})
}

func testConfig(t *testing.T) *config.Config {
	t.Helper()
	cfg := config.Default()
	cfg.Server.Host = "localhost"
	cfg.Server.Port = 0 // automatic port assignment in tests
	cfg.Export.OutputDir = t.TempDir()
	return cfg
}

// TestServer_New tests creating a new server instance
func TestServer_New(t *testing.T) {
	cfg := testConfig(t)

	srv := New(cfg)
	require.NotNil(t, srv)
	assert.Equal(t, cfg, srv.cfg)
	assert.NotNil(t, srv.router)
	assert.NotNil(t, srv.deps.Store)
	assert.NotNil(t, srv.deps.Renderer)
	assert.NotNil(t, srv.deps.Measurer)
	assert.NotNil(t, srv.deps.Manager)
}

// TestServer_SetupRoutes tests setting up routes
func TestServer_SetupRoutes(t *testing.T) {
	srv := New(testConfig(t))
	srv.SetupRoutes()

	req := httptest.NewRequest("GET", "/health", nil)
	w := httptest.NewRecorder()
	srv.router.ServeHTTP(w, req)

	assert.Equal(t, 200, w.Code)
}

// TestServer_Start tests starting the server
func TestServer_Start(t *testing.T) {
	srv := New(testConfig(t))
	srv.SetupRoutes()

	err := srv.Start()
	require.NoError(t, err)
	assert.NotNil(t, srv.httpServer)

	err = srv.Stop()
	require.NoError(t, err)
}

// TestServer_Stop tests stopping the server
func TestServer_Stop(t *testing.T) {
	srv := New(testConfig(t))
	srv.SetupRoutes()

	// Stop without starting should not error
	err := srv.Stop()
	require.NoError(t, err)

	// Start and then stop
	err = srv.Start()
	require.NoError(t, err)

	time.Sleep(100 * time.Millisecond)

	err = srv.Stop()
	require.NoError(t, err)
}

// TestServer_Stop_WithTimeout tests stopping server with timeout
func TestServer_Stop_WithTimeout(t *testing.T) {
	srv := New(testConfig(t))
	srv.SetupRoutes()

	err := srv.Start()
	require.NoError(t, err)

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()

	done := make(chan error)
	go func() {
		done <- srv.Stop()
	}()

	select {
	case err := <-done:
		require.NoError(t, err)
	case <-ctx.Done():
		t.Fatal("Stop() timed out")
	}
}

// TestServer_Router tests getting the router
func TestServer_Router(t *testing.T) {
	srv := New(testConfig(t))
	router := srv.Router()

	assert.NotNil(t, router)
	assert.Equal(t, srv.router, router)
}

// TestServer_Address tests server address configuration
func TestServer_Address(t *testing.T) {
	tests := []struct {
		name     string
		cfg      config.ServerConfig
		expected string
	}{
		{
			name: "default port",
			cfg: config.ServerConfig{
				Host: "localhost",
				Port: 8080,
			},
			expected: "localhost:8080",
		},
		{
			name: "custom host and port",
			cfg: config.ServerConfig{
				Host: "0.0.0.0",
				Port: 3000,
			},
			expected: "0.0.0.0:3000",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			address := tt.cfg.Address()
			assert.Equal(t, tt.expected, address)
		})
	}
}

// TestServer_DebugMode tests debug mode configuration
func TestServer_DebugMode(t *testing.T) {
	tests := []struct {
		name     string
		debug    bool
		expected string
	}{
		{
			name:     "debug mode enabled",
			debug:    true,
			expected: gin.DebugMode,
		},
		{
			name:     "debug mode disabled",
			debug:    false,
			expected: gin.ReleaseMode,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := testConfig(t)
			cfg.Server.Debug = tt.debug

			_ = New(cfg)
			assert.Equal(t, tt.expected, gin.Mode())
		})
	}
}

// TestServer_HTTPTimeouts tests HTTP server timeout configuration
func TestServer_HTTPTimeouts(t *testing.T) {
	srv := New(testConfig(t))
	srv.SetupRoutes()

	err := srv.Start()
	require.NoError(t, err)
	defer srv.Stop()

	assert.Equal(t, defaultReadTimeout, srv.httpServer.ReadTimeout)
	assert.Equal(t, defaultWriteTimeout, srv.httpServer.WriteTimeout)
	assert.Equal(t, defaultIdleTimeout, srv.httpServer.IdleTimeout)
}

// TestServer_RouterConfiguration tests router configuration
func TestServer_RouterConfiguration(t *testing.T) {
	srv := New(testConfig(t))

	assert.False(t, srv.router.RedirectTrailingSlash)
	assert.False(t, srv.router.RedirectFixedPath)
}

// TestCleanStaleTempFiles tests stale working file removal
func TestCleanStaleTempFiles(t *testing.T) {
	dir := t.TempDir()

	stale := filepath.Join(dir, "paperforge-export-123.html")
	fresh := filepath.Join(dir, "paperforge-measure-456.html")
	other := filepath.Join(dir, "unrelated.html")

	for _, path := range []string{stale, fresh, other} {
		require.NoError(t, os.WriteFile(path, []byte("<html></html>"), 0o644))
	}
	old := time.Now().Add(-8 * time.Hour)
	require.NoError(t, os.Chtimes(stale, old, old))
	require.NoError(t, os.Chtimes(other, old, old))

	removed := cleanStaleTempFiles(dir, 6*time.Hour)
	assert.Equal(t, 1, removed)

	_, err := os.Stat(stale)
	assert.True(t, os.IsNotExist(err))
	_, err = os.Stat(fresh)
	assert.NoError(t, err)
	_, err = os.Stat(other)
	assert.NoError(t, err, "files outside the working pattern are never touched")
}

// TestCleanStaleTempFiles_DisabledMaxAge tests that zero max age is a no-op
func TestCleanStaleTempFiles_DisabledMaxAge(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "paperforge-export-789.html")
	require.NoError(t, os.WriteFile(path, []byte("x"), 0o644))
	old := time.Now().Add(-100 * time.Hour)
	require.NoError(t, os.Chtimes(path, old, old))

	assert.Equal(t, 0, cleanStaleTempFiles(dir, 0))
	_, err := os.Stat(path)
	assert.NoError(t, err)
}
