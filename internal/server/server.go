// Package server provides the HTTP server for the application.
// It handles server lifecycle, API routes, and graceful shutdown.
package server

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/robfig/cron/v3"
	"go.uber.org/zap"

	"github.com/paperforge/paperforge/internal/api/router"
	"github.com/paperforge/paperforge/internal/chrome"
	"github.com/paperforge/paperforge/internal/config"
	"github.com/paperforge/paperforge/internal/export"
	"github.com/paperforge/paperforge/internal/imaging"
	"github.com/paperforge/paperforge/internal/measure"
	"github.com/paperforge/paperforge/internal/render"
	"github.com/paperforge/paperforge/internal/store"
	"github.com/paperforge/paperforge/pkg/logger"
	"github.com/paperforge/paperforge/pkg/telemetry"
)

// HTTP server timeout configuration
const (
	defaultReadTimeout     = 30 * time.Second
	defaultWriteTimeout    = 30 * time.Second
	defaultIdleTimeout     = 60 * time.Second
	defaultShutdownTimeout = 30 * time.Second
	defaultStopTimeout     = 5 * time.Second
)

// tempFilePattern matches the working HTML files left behind when a
// measure or export session dies without cleaning up after itself.
const tempFilePattern = "paperforge-*.html"

// Server represents the HTTP server
type Server struct {
	cfg        *config.Config
	httpServer *http.Server
	router     *gin.Engine
	deps       router.Deps
	cleanup    *cron.Cron
}

// New creates a new server instance with all components wired up
func New(cfg *config.Config) *Server {
	// Set Gin mode based on debug flag
	if cfg.Server.Debug {
		gin.SetMode(gin.DebugMode)
	} else {
		gin.SetMode(gin.ReleaseMode)
	}

	r := gin.New()
	r.RedirectTrailingSlash = false
	r.RedirectFixedPath = false

	chromeOpts := chrome.Options{
		ExecPath: cfg.Chrome.ExecPath,
		Timeout:  time.Duration(cfg.Chrome.TimeoutSeconds) * time.Second,
	}

	metrics := telemetry.GetMetrics()
	resolver := imaging.NewResolver(imaging.WithMetrics(metrics))
	renderer := render.NewRenderer(resolver)
	exporter := export.NewExporter(cfg.Export.OutputDir, chromeOpts, export.WithMetrics(metrics))

	deps := router.Deps{
		Store:    store.NewStore(),
		Renderer: renderer,
		Measurer: measure.NewEngine(renderer, chromeOpts, metrics),
		Manager:  export.NewManager(exporter),
		Metrics:  metrics,
	}

	return &Server{
		cfg:    cfg,
		router: r,
		deps:   deps,
	}
}

// SetupRoutes configures all API routes
func (s *Server) SetupRoutes() {
	router.Setup(s.router, s.cfg, s.deps)
}

// Start starts the HTTP server and the background cleanup schedule
func (s *Server) Start() error {
	s.httpServer = &http.Server{
		Addr:         s.cfg.Server.Address(),
		Handler:      s.router,
		ReadTimeout:  defaultReadTimeout,
		WriteTimeout: defaultWriteTimeout,
		IdleTimeout:  defaultIdleTimeout,
	}

	logger.Info("Starting HTTP server",
		zap.String("address", s.cfg.Server.Address()),
		zap.Bool("debug", s.cfg.Server.Debug),
	)

	// Start server in goroutine
	go func() {
		if err := s.httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Fatal("Failed to start server", zap.Error(err))
		}
	}()

	s.startCleanup()

	return nil
}

// startCleanup schedules periodic removal of stale working files
func (s *Server) startCleanup() {
	if s.cfg.Export.CleanupSchedule == "" {
		return
	}

	s.cleanup = cron.New()
	_, err := s.cleanup.AddFunc(s.cfg.Export.CleanupSchedule, func() {
		removed := cleanStaleTempFiles(os.TempDir(), time.Duration(s.cfg.Export.StaleAfterHours)*time.Hour)
		if removed > 0 {
			logger.Info("Removed stale working files", zap.Int("count", removed))
		}
	})
	if err != nil {
		logger.Warn("Invalid cleanup schedule, cleanup disabled",
			zap.String("schedule", s.cfg.Export.CleanupSchedule),
			zap.Error(err),
		)
		s.cleanup = nil
		return
	}
	s.cleanup.Start()
}

// cleanStaleTempFiles removes working HTML files older than maxAge from dir.
// Returns the number of files removed.
func cleanStaleTempFiles(dir string, maxAge time.Duration) int {
	if maxAge <= 0 {
		return 0
	}

	matches, err := filepath.Glob(filepath.Join(dir, tempFilePattern))
	if err != nil {
		return 0
	}

	cutoff := time.Now().Add(-maxAge)
	removed := 0
	for _, path := range matches {
		info, err := os.Stat(path)
		if err != nil || info.IsDir() {
			continue
		}
		if info.ModTime().Before(cutoff) {
			if err := os.Remove(path); err == nil {
				removed++
			}
		}
	}
	return removed
}

// WaitForShutdown waits for shutdown signal and gracefully stops the server
// First signal triggers graceful shutdown, second signal forces immediate exit
func (s *Server) WaitForShutdown() {
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	// Wait for first signal
	sig := <-quit
	logger.Info("Received shutdown signal, starting graceful shutdown (press Ctrl+C again to force exit)",
		zap.String("signal", sig.String()))

	// Start a goroutine to listen for second signal (force exit)
	go func() {
		sig := <-quit
		logger.Warn("Received second shutdown signal, forcing exit",
			zap.String("signal", sig.String()))
		os.Exit(1)
	}()

	// Cancel any running export so the job settles before the server exits
	if s.deps.Manager.Cancel() {
		logger.Info("Cancelled running export for shutdown")
	}

	ctx, cancel := context.WithTimeout(context.Background(), defaultShutdownTimeout)
	defer cancel()

	if err := s.httpServer.Shutdown(ctx); err != nil {
		logger.Error("Server forced to shutdown", zap.Error(err))
	}

	if s.cleanup != nil {
		s.cleanup.Stop()
	}

	logger.Info("Server stopped")
}

// Stop stops the server immediately
func (s *Server) Stop() error {
	if s.cleanup != nil {
		s.cleanup.Stop()
	}

	if s.httpServer == nil {
		return nil
	}

	ctx, cancel := context.WithTimeout(context.Background(), defaultStopTimeout)
	defer cancel()

	return s.httpServer.Shutdown(ctx)
}

// Router returns the underlying Gin router
func (s *Server) Router() *gin.Engine {
	return s.router
}
