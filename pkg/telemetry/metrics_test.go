// Package telemetry provides OpenTelemetry integration for the application.
// This file contains unit tests for the metrics.
package telemetry

import (
	"context"
	"testing"
)

// TestGetMetrics tests the GetMetrics function
func TestGetMetrics(t *testing.T) {
	metrics := GetMetrics()
	if metrics == nil {
		t.Fatal("GetMetrics() returned nil")
	}

	// Second call should return same instance
	metrics2 := GetMetrics()
	if metrics != metrics2 {
		t.Error("GetMetrics() returned different instances on subsequent calls")
	}
}

// TestMetricsRecordExportStarted tests RecordExportStarted
func TestMetricsRecordExportStarted(t *testing.T) {
	metrics := GetMetrics()
	ctx := context.Background()

	// Should not panic even if metrics are nil/empty
	metrics.RecordExportStarted(ctx, "pdf")
}

// TestMetricsRecordExportCompleted tests RecordExportCompleted
func TestMetricsRecordExportCompleted(t *testing.T) {
	metrics := GetMetrics()
	ctx := context.Background()

	// Should not panic
	metrics.RecordExportCompleted(ctx, "completed", 12, 10.5)
	metrics.RecordExportCompleted(ctx, "cancelled", 0, 2.0)
	metrics.RecordExportCompleted(ctx, "failed", 3, 1.0)
}

// TestMetricsRecordHTTPRequest tests RecordHTTPRequest
func TestMetricsRecordHTTPRequest(t *testing.T) {
	metrics := GetMetrics()
	ctx := context.Background()

	// Should not panic
	metrics.RecordHTTPRequest(ctx, "GET", "/api/v1/settings", 200, 0.05)
	metrics.RecordHTTPRequest(ctx, "POST", "/api/v1/export", 202, 0.1)
	metrics.RecordHTTPRequest(ctx, "GET", "/api/v1/export/123", 404, 0.01)
}

// TestMetricsRecordImageResolution tests RecordImageResolution
func TestMetricsRecordImageResolution(t *testing.T) {
	metrics := GetMetrics()
	ctx := context.Background()

	// Should not panic
	metrics.RecordImageResolution(ctx, "worker", false)
	metrics.RecordImageResolution(ctx, "inline", false)
	metrics.RecordImageResolution(ctx, "cache", true)
}

// TestMetricsRecordMeasurePass tests RecordMeasurePass
func TestMetricsRecordMeasurePass(t *testing.T) {
	metrics := GetMetrics()
	ctx := context.Background()

	// Should not panic
	metrics.RecordMeasurePass(ctx, 42, 0.8)
}

// TestMetricsNilSafe tests that metrics methods are nil-safe
func TestMetricsNilSafe(t *testing.T) {
	// Create empty metrics struct (simulating initialization failure)
	emptyMetrics := &Metrics{}
	ctx := context.Background()

	// None of these should panic
	t.Run("RecordExportStarted", func(t *testing.T) {
		emptyMetrics.RecordExportStarted(ctx, "pdf")
	})

	t.Run("RecordExportCompleted", func(t *testing.T) {
		emptyMetrics.RecordExportCompleted(ctx, "completed", 1, 1.0)
	})

	t.Run("RecordHTTPRequest", func(t *testing.T) {
		emptyMetrics.RecordHTTPRequest(ctx, "GET", "/test", 200, 0.1)
	})

	t.Run("RecordImageResolution", func(t *testing.T) {
		emptyMetrics.RecordImageResolution(ctx, "inline", true)
	})

	t.Run("RecordMeasurePass", func(t *testing.T) {
		emptyMetrics.RecordMeasurePass(ctx, 1, 0.1)
	})
}
