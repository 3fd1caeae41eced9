// Package consts defines cross-module constants used throughout the application.
package consts

import (
	"sync"
	"time"
)

// ServiceName is the application service name
const ServiceName = "paperforge"

// Project information constants
const (
	// ProjectName is the display name of the project
	ProjectName = "PaperForge"

	// ProjectURL is the GitHub repository URL
	ProjectURL = "https://github.com/paperforge/paperforge"
)

// A4 paper geometry in millimeters
const (
	// PageWidthMM is the width of an A4 portrait page
	PageWidthMM = 210.0

	// PageHeightMM is the height of an A4 portrait page
	PageHeightMM = 297.0

	// PageMarginTopMM is the fixed top margin of a rendered page
	PageMarginTopMM = 10.0

	// PageMarginBottomMM is the fixed bottom margin of a rendered page
	PageMarginBottomMM = 12.0
)

// Raster output geometry. 1654x2339 px is A4 at roughly 200 DPI; the
// supersampling scale controls the intermediate screenshot resolution.
const (
	// RasterWidthPx is the target raster width for an exported page
	RasterWidthPx = 1654

	// RasterHeightPx is the target raster height for an exported page
	RasterHeightPx = 2339

	// RasterScale is the screenshot supersampling factor
	RasterScale = 1.5

	// RasterJPEGQuality is the JPEG quality used for page images
	RasterJPEGQuality = 80
)

// Export file naming
const (
	// ExportBaseFilename is the base name of an exported question paper
	ExportBaseFilename = "Paper"

	// ExportFileExtension is the extension of an exported question paper
	ExportFileExtension = ".pdf"
)

// Build information - set via ldflags during build or programmatically
var (
	// Version is the application version
	Version = "dev"

	// BuildTime is the build timestamp
	BuildTime = "unknown"

	// GitCommit is the git commit hash
	GitCommit = "unknown"
)

// Server runtime information
var (
	startedAt   time.Time
	startedOnce sync.Once
)

// SetStartedAt records the server start time (can only be called once)
func SetStartedAt(t time.Time) {
	startedOnce.Do(func() {
		startedAt = t
	})
}

// GetStartedAt returns the server start time
func GetStartedAt() time.Time {
	return startedAt
}

// GetUptime returns the duration since server started
func GetUptime() time.Duration {
	if startedAt.IsZero() {
		return 0
	}
	return time.Since(startedAt)
}
