// Package router sets up the API routes for the application.
package router

import (
	"github.com/gin-gonic/gin"
	"go.opentelemetry.io/contrib/instrumentation/github.com/gin-gonic/gin/otelgin"

	"github.com/paperforge/paperforge/consts"
	"github.com/paperforge/paperforge/internal/api/handler"
	"github.com/paperforge/paperforge/internal/api/middleware"
	"github.com/paperforge/paperforge/internal/config"
	"github.com/paperforge/paperforge/internal/export"
	"github.com/paperforge/paperforge/internal/render"
	"github.com/paperforge/paperforge/internal/store"
	"github.com/paperforge/paperforge/pkg/telemetry"
)

// Deps carries the shared components the API routes are built on.
type Deps struct {
	Store    store.Store
	Renderer *render.Renderer
	Measurer handler.HeightMeasurer
	Manager  *export.Manager
	Metrics  *telemetry.Metrics
}

// Setup configures all API routes
func Setup(r *gin.Engine, cfg *config.Config, deps Deps) {
	// Apply global middleware
	r.Use(middleware.Recovery())
	r.Use(middleware.Logger(&middleware.LoggerConfig{
		AccessLog: cfg.Logging.AccessLog,
		Metrics:   deps.Metrics,
	}))
	r.Use(middleware.CORS(cfg.Server.CORSOrigins))
	r.Use(middleware.RequestID())
	r.Use(middleware.ErrorHandler(cfg.Server.Debug))

	// Apply OpenTelemetry tracing middleware
	r.Use(otelgin.Middleware(consts.ServiceName))

	// Health check endpoint (public)
	healthHandler := handler.NewHealthHandler(cfg.Chrome.ExecPath)
	r.GET("/health", healthHandler.Health)

	// API v1 routes
	v1 := r.Group("/api/v1")

	paperHandler := handler.NewPaperHandler(deps.Store.Papers())
	settingsHandler := handler.NewSettingsHandler(deps.Store.Settings())
	previewHandler := handler.NewPreviewHandler(deps.Store.Papers(), deps.Store.Settings(), deps.Renderer, deps.Measurer)
	exportHandler := handler.NewExportHandler(deps.Store.Papers(), deps.Store.Settings(), deps.Manager, deps.Renderer, deps.Measurer, cfg.Export.OutputDir)

	// Paper management
	papers := v1.Group("/papers")
	{
		papers.POST("", paperHandler.LoadPaper)
		papers.GET("", paperHandler.ListPapers)
		papers.GET("/:id", paperHandler.GetPaper)
		papers.DELETE("/:id", paperHandler.DeletePaper)

		// Preview and export operate on a loaded paper
		papers.GET("/:id/preview", previewHandler.Preview)
		papers.GET("/:id/preview.html", previewHandler.PreviewHTML)
		papers.POST("/:id/export", exportHandler.StartExport)
	}

	// Export settings
	settings := v1.Group("/settings")
	{
		settings.GET("", settingsHandler.GetSettings)
		settings.PATCH("", settingsHandler.UpdateSettings)
		settings.POST("/reset", settingsHandler.ResetSettings)
	}

	// Export job lifecycle: single slot, polled for progress
	exports := v1.Group("/export")
	{
		exports.GET("/status", exportHandler.ExportStatus)
		exports.POST("/cancel", exportHandler.CancelExport)
		exports.GET("/download/:filename", exportHandler.DownloadExport)
	}
}
