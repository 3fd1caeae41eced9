// Package handler provides HTTP handlers for the API.
// This file handles PDF export endpoints: start, progress, cancel, download.
package handler

import (
	"net/http"
	"os"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/paperforge/paperforge/internal/export"
	"github.com/paperforge/paperforge/internal/render"
	"github.com/paperforge/paperforge/internal/store"
	"github.com/paperforge/paperforge/pkg/errors"
	"github.com/paperforge/paperforge/pkg/logger"
)

// ExportHandler handles PDF export API requests
type ExportHandler struct {
	papers   store.PaperStore
	settings store.SettingsStore
	manager  *export.Manager
	builder  *documentBuilder
	outDir   string
}

// NewExportHandler creates a new export handler
func NewExportHandler(papers store.PaperStore, settings store.SettingsStore, manager *export.Manager, renderer *render.Renderer, measurer HeightMeasurer, outDir string) *ExportHandler {
	return &ExportHandler{
		papers:   papers,
		settings: settings,
		manager:  manager,
		builder:  newDocumentBuilder(renderer, measurer),
		outDir:   outDir,
	}
}

// StartExportRequest represents the request body for starting an export
type StartExportRequest struct {
	SetNumber int `json:"set_number"`
}

// StartExport composes a document for one paper set and starts an export
// job. Only one export can run at a time; a busy engine returns 409.
// POST /api/v1/papers/:id/export
func (h *ExportHandler) StartExport(c *gin.Context) {
	paper, err := h.papers.Get(c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}

	var req StartExportRequest
	if c.Request.ContentLength > 0 {
		if err := c.ShouldBindJSON(&req); err != nil {
			respondError(c, errors.ErrValidation("Invalid export request: "+err.Error()))
			return
		}
	}

	doc, err := h.builder.Build(c.Request.Context(), &paper, h.settings.Get(), req.SetNumber)
	if err != nil {
		logger.Error("Export composition failed",
			zap.String("paper_id", paper.ID),
			zap.Error(err),
		)
		respondError(c, err)
		return
	}

	job, err := h.manager.Start(c.Request.Context(), doc)
	if err != nil {
		respondError(c, err)
		return
	}

	logger.Info("Export started",
		zap.String("paper_id", paper.ID),
		zap.String("job_id", job.ID),
		zap.Int("set_number", doc.SetNumber),
		zap.Int("pages", doc.PageCount),
	)

	c.JSON(http.StatusAccepted, jobResponse(job))
}

// ExportStatus reports the current export job's state and progress
// GET /api/v1/export/status
func (h *ExportHandler) ExportStatus(c *gin.Context) {
	job := h.manager.Current()
	if job == nil {
		c.JSON(http.StatusOK, gin.H{"state": export.StateIdle, "progress": 0})
		return
	}
	c.JSON(http.StatusOK, jobResponse(job))
}

// CancelExport requests cancellation of the running export. The job stops
// at the next page boundary.
// POST /api/v1/export/cancel
func (h *ExportHandler) CancelExport(c *gin.Context) {
	if !h.manager.Cancel() {
		respondError(c, errors.New(errors.ErrCodeNotFound, "No export in progress"))
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true})
}

// DownloadExport serves a finished export PDF by filename
// GET /api/v1/export/download/:filename
func (h *ExportHandler) DownloadExport(c *gin.Context) {
	name := c.Param("filename")
	path, ok := safeJoinPath(h.outDir, name)
	if !ok {
		respondError(c, errors.ErrValidation("Invalid filename"))
		return
	}

	if _, err := os.Stat(path); err != nil {
		respondError(c, errors.ErrNotFound("export file "+name))
		return
	}

	c.Header("Content-Disposition", `attachment; filename="`+name+`"`)
	c.File(path)
}

// jobResponse converts a job into its JSON representation
func jobResponse(job *export.Job) gin.H {
	resp := gin.H{
		"id":         job.ID,
		"set_number": job.SetNumber,
		"state":      job.State(),
		"progress":   job.Progress(),
	}
	if path := job.OutputPath(); path != "" {
		resp["output"] = path
	}
	if err := job.Err(); err != nil && !errors.Is(err, export.ErrCancelled) {
		resp["error"] = err.Error()
	}
	return resp
}
