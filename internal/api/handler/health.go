// Package handler provides HTTP handlers for the API.
// This file handles health and version endpoints.
package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/paperforge/paperforge/consts"
	"github.com/paperforge/paperforge/internal/chrome"
)

// HealthHandler handles health check API requests
type HealthHandler struct {
	chromePath string
}

// NewHealthHandler creates a new health handler. chromePath is the
// configured browser binary, empty for auto-detection.
func NewHealthHandler(chromePath string) *HealthHandler {
	return &HealthHandler{chromePath: chromePath}
}

// Health returns service status, build information and browser availability
// GET /health
func (h *HealthHandler) Health(c *gin.Context) {
	detected := chrome.Detect(h.chromePath)
	c.JSON(http.StatusOK, gin.H{
		"status":  "ok",
		"service": consts.ServiceName,
		"version": consts.Version,
		"uptime":  consts.GetUptime().String(),
		"chrome":  detected != "",
	})
}
