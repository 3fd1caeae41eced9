// Package handler provides HTTP handlers for the API.
// This file handles paper preview endpoints.
package handler

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/paperforge/paperforge/internal/render"
	"github.com/paperforge/paperforge/internal/store"
	"github.com/paperforge/paperforge/pkg/logger"
)

// PreviewHandler handles paginated preview API requests
type PreviewHandler struct {
	papers   store.PaperStore
	settings store.SettingsStore
	builder  *documentBuilder
}

// NewPreviewHandler creates a new preview handler
func NewPreviewHandler(papers store.PaperStore, settings store.SettingsStore, renderer *render.Renderer, measurer HeightMeasurer) *PreviewHandler {
	return &PreviewHandler{
		papers:   papers,
		settings: settings,
		builder:  newDocumentBuilder(renderer, measurer),
	}
}

// Preview composes a paginated HTML preview of a paper under the current
// settings. The optional "set" query parameter selects a paper set (0-based).
// GET /api/v1/papers/:id/preview
func (h *PreviewHandler) Preview(c *gin.Context) {
	paper, err := h.papers.Get(c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}

	setIndex := 0
	if raw := c.Query("set"); raw != "" {
		if n, perr := strconv.Atoi(raw); perr == nil {
			setIndex = n
		}
	}

	settings := h.settings.Get()
	doc, err := h.builder.Build(c.Request.Context(), &paper, settings, setIndex)
	if err != nil {
		logger.Error("Preview failed",
			zap.String("paper_id", paper.ID),
			zap.Error(err),
		)
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"paper_id":   paper.ID,
		"set_number": doc.SetNumber,
		"pages":      doc.PageCount,
		"html":       doc.HTML,
	})
}

// PreviewHTML serves the preview as a standalone HTML page, suitable for
// loading directly in a browser or iframe.
// GET /api/v1/papers/:id/preview.html
func (h *PreviewHandler) PreviewHTML(c *gin.Context) {
	paper, err := h.papers.Get(c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}

	setIndex := 0
	if raw := c.Query("set"); raw != "" {
		if n, perr := strconv.Atoi(raw); perr == nil {
			setIndex = n
		}
	}

	doc, err := h.builder.Build(c.Request.Context(), &paper, h.settings.Get(), setIndex)
	if err != nil {
		respondError(c, err)
		return
	}

	c.Data(http.StatusOK, "text/html; charset=utf-8", []byte(doc.HTML))
}
