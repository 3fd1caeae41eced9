// Package handler provides HTTP handlers for the API.
// This file handles export settings endpoints.
package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/paperforge/paperforge/internal/model"
	"github.com/paperforge/paperforge/internal/store"
	"github.com/paperforge/paperforge/pkg/errors"
	"github.com/paperforge/paperforge/pkg/logger"
)

// SettingsHandler handles export settings API requests
type SettingsHandler struct {
	settings store.SettingsStore
}

// NewSettingsHandler creates a new settings handler
func NewSettingsHandler(settings store.SettingsStore) *SettingsHandler {
	return &SettingsHandler{settings: settings}
}

// GetSettings returns the current export settings
// GET /api/v1/settings
func (h *SettingsHandler) GetSettings(c *gin.Context) {
	c.JSON(http.StatusOK, h.settings.Get())
}

// UpdateSettings merges a partial settings patch into the current settings.
// Fields absent from the patch keep their current values; no key is ever
// removed. Returns the full merged settings.
// PATCH /api/v1/settings
func (h *SettingsHandler) UpdateSettings(c *gin.Context) {
	var patch model.SettingsPatch
	if err := c.ShouldBindJSON(&patch); err != nil {
		respondError(c, errors.ErrValidation("Invalid settings payload: "+err.Error()))
		return
	}

	if err := validatePatch(patch); err != nil {
		respondError(c, err)
		return
	}

	merged := h.settings.Merge(patch)
	logger.Info("Settings updated", zap.Int("columns", merged.ColumnsPerPage))
	c.JSON(http.StatusOK, merged)
}

// ResetSettings restores the default export settings
// POST /api/v1/settings/reset
func (h *SettingsHandler) ResetSettings(c *gin.Context) {
	h.settings.Reset()
	logger.Info("Settings reset to defaults")
	c.JSON(http.StatusOK, h.settings.Get())
}

// validatePatch rejects out-of-range values before they reach the store
func validatePatch(patch model.SettingsPatch) error {
	if patch.ColumnsPerPage != nil && (*patch.ColumnsPerPage < 1 || *patch.ColumnsPerPage > 3) {
		return errors.ErrValidation("columns_per_page must be between 1 and 3")
	}
	if patch.QuestionPaperSets != nil && (*patch.QuestionPaperSets < 1 || *patch.QuestionPaperSets > 3) {
		return errors.ErrValidation("question_paper_sets must be between 1 and 3")
	}
	return nil
}
