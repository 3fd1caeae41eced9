// Package handler provides HTTP handlers for the API.
package handler

import (
	"net/http"
	"path/filepath"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/paperforge/paperforge/pkg/errors"
)

// respondError writes an AppError (or a generic internal error) as a JSON
// error response using the shared code/message envelope.
func respondError(c *gin.Context, err error) {
	if appErr, ok := errors.AsAppError(err); ok {
		c.JSON(appErr.HTTPStatus(), gin.H{
			"code":    appErr.Code,
			"message": appErr.Message,
		})
		return
	}
	c.JSON(http.StatusInternalServerError, gin.H{
		"code":    errors.ErrCodeInternal,
		"message": "Internal server error",
	})
}

// validateFilename validates a filename to prevent path traversal attacks
// Returns true if the filename is safe, false otherwise
func validateFilename(name string) bool {
	if name == "" {
		return false
	}

	// Check for path traversal patterns
	if strings.Contains(name, "..") {
		return false
	}

	// Check for directory separators (both Unix and Windows)
	if strings.Contains(name, "/") || strings.Contains(name, "\\") {
		return false
	}

	// Check for null bytes (can be used to bypass checks)
	if strings.Contains(name, "\x00") {
		return false
	}

	// Clean the filename and ensure it doesn't change after cleaning
	cleaned := filepath.Clean(name)
	if cleaned != name || cleaned == "." || cleaned == ".." {
		return false
	}

	return true
}

// safeJoinPath safely joins a base directory with a filename and validates
// that the result is within the base directory
func safeJoinPath(baseDir, name string) (string, bool) {
	if !validateFilename(name) {
		return "", false
	}

	absBase, err := filepath.Abs(baseDir)
	if err != nil {
		return "", false
	}

	fullPath := filepath.Join(absBase, name)
	cleanPath := filepath.Clean(fullPath)

	// Verify the result is still within the base directory
	if !strings.HasPrefix(cleanPath, absBase+string(filepath.Separator)) && cleanPath != absBase {
		return "", false
	}

	return cleanPath, true
}
