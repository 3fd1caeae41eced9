// Package telemetry provides OpenTelemetry integration for the application.
package telemetry

import (
	"context"
	"sync"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
	"go.uber.org/zap"

	"github.com/paperforge/paperforge/pkg/logger"
)

const (
	// MeterName is the default meter name for the application
	MeterName = "github.com/paperforge/paperforge"
)

// Metrics holds all application metrics
type Metrics struct {
	// Export metrics
	ExportsTotal    metric.Int64Counter
	ExportDuration  metric.Float64Histogram
	ActiveExports   metric.Int64UpDownCounter
	ExportsByStatus metric.Int64Counter
	PagesPerExport  metric.Int64Histogram

	// HTTP metrics
	HTTPRequestsTotal   metric.Int64Counter
	HTTPRequestDuration metric.Float64Histogram

	// Image pipeline metrics
	ImageResolutions metric.Int64Counter
	ImageCacheHits   metric.Int64Counter

	// Measurement metrics
	MeasureDuration metric.Float64Histogram
}

var (
	globalMetrics *Metrics
	metricsOnce   sync.Once
)

// GetMetrics returns the global metrics instance, initializing it if necessary
func GetMetrics() *Metrics {
	metricsOnce.Do(func() {
		var err error
		globalMetrics, err = initMetrics()
		if err != nil {
			logger.Error("Failed to initialize metrics", zap.Error(err))
			// Return empty metrics to avoid nil pointer
			globalMetrics = &Metrics{}
		}
	})
	return globalMetrics
}

// initMetrics initializes all application metrics
func initMetrics() (*Metrics, error) {
	meter := otel.Meter(MeterName)
	m := &Metrics{}

	var err error

	// Export metrics
	m.ExportsTotal, err = meter.Int64Counter(
		"paperforge_exports_total",
		metric.WithDescription("Total number of question paper exports"),
		metric.WithUnit("{export}"),
	)
	if err != nil {
		return nil, err
	}

	m.ExportDuration, err = meter.Float64Histogram(
		"paperforge_export_duration_seconds",
		metric.WithDescription("Duration of question paper exports in seconds"),
		metric.WithUnit("s"),
		metric.WithExplicitBucketBoundaries(1, 2, 5, 10, 30, 60, 120, 300),
	)
	if err != nil {
		return nil, err
	}

	m.ActiveExports, err = meter.Int64UpDownCounter(
		"paperforge_active_exports",
		metric.WithDescription("Number of currently running exports"),
		metric.WithUnit("{export}"),
	)
	if err != nil {
		return nil, err
	}

	m.ExportsByStatus, err = meter.Int64Counter(
		"paperforge_exports_by_status_total",
		metric.WithDescription("Total number of exports by terminal status"),
		metric.WithUnit("{export}"),
	)
	if err != nil {
		return nil, err
	}

	m.PagesPerExport, err = meter.Int64Histogram(
		"paperforge_pages_per_export",
		metric.WithDescription("Number of pages rasterized per export"),
		metric.WithUnit("{page}"),
		metric.WithExplicitBucketBoundaries(1, 2, 4, 8, 16, 32, 64),
	)
	if err != nil {
		return nil, err
	}

	// HTTP metrics
	m.HTTPRequestsTotal, err = meter.Int64Counter(
		"paperforge_http_requests_total",
		metric.WithDescription("Total number of HTTP requests"),
		metric.WithUnit("{request}"),
	)
	if err != nil {
		return nil, err
	}

	m.HTTPRequestDuration, err = meter.Float64Histogram(
		"paperforge_http_request_duration_seconds",
		metric.WithDescription("Duration of HTTP requests in seconds"),
		metric.WithUnit("s"),
		metric.WithExplicitBucketBoundaries(0.001, 0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10),
	)
	if err != nil {
		return nil, err
	}

	// Image pipeline metrics
	m.ImageResolutions, err = meter.Int64Counter(
		"paperforge_image_resolutions_total",
		metric.WithDescription("Total number of image URL resolutions"),
		metric.WithUnit("{resolution}"),
	)
	if err != nil {
		return nil, err
	}

	m.ImageCacheHits, err = meter.Int64Counter(
		"paperforge_image_cache_hits_total",
		metric.WithDescription("Total number of image cache hits"),
		metric.WithUnit("{hit}"),
	)
	if err != nil {
		return nil, err
	}

	// Measurement metrics
	m.MeasureDuration, err = meter.Float64Histogram(
		"paperforge_measure_duration_seconds",
		metric.WithDescription("Duration of headless height measurement passes in seconds"),
		metric.WithUnit("s"),
		metric.WithExplicitBucketBoundaries(0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10),
	)
	if err != nil {
		return nil, err
	}

	logger.Info("Metrics initialized successfully")
	return m, nil
}

// RecordExportStarted records that an export has started
func (m *Metrics) RecordExportStarted(ctx context.Context, format string) {
	if m.ExportsTotal == nil {
		return
	}
	m.ExportsTotal.Add(ctx, 1,
		metric.WithAttributes(attribute.String("format", format)),
	)
	if m.ActiveExports != nil {
		m.ActiveExports.Add(ctx, 1)
	}
}

// RecordExportCompleted records that an export reached a terminal state
func (m *Metrics) RecordExportCompleted(ctx context.Context, status string, pages int64, durationSeconds float64) {
	if m.ActiveExports != nil {
		m.ActiveExports.Add(ctx, -1)
	}
	if m.ExportsByStatus != nil {
		m.ExportsByStatus.Add(ctx, 1,
			metric.WithAttributes(attribute.String("status", status)),
		)
	}
	if m.ExportDuration != nil {
		m.ExportDuration.Record(ctx, durationSeconds,
			metric.WithAttributes(attribute.String("status", status)),
		)
	}
	if m.PagesPerExport != nil && pages > 0 {
		m.PagesPerExport.Record(ctx, pages)
	}
}

// RecordHTTPRequest records an HTTP request
func (m *Metrics) RecordHTTPRequest(ctx context.Context, method, path string, statusCode int, durationSeconds float64) {
	if m.HTTPRequestsTotal != nil {
		m.HTTPRequestsTotal.Add(ctx, 1,
			metric.WithAttributes(
				attribute.String("method", method),
				attribute.String("path", path),
				attribute.Int("status_code", statusCode),
			),
		)
	}
	if m.HTTPRequestDuration != nil {
		m.HTTPRequestDuration.Record(ctx, durationSeconds,
			metric.WithAttributes(
				attribute.String("method", method),
				attribute.String("path", path),
			),
		)
	}
}

// RecordImageResolution records an image URL resolution attempt
func (m *Metrics) RecordImageResolution(ctx context.Context, strategy string, cacheHit bool) {
	if m.ImageResolutions != nil {
		m.ImageResolutions.Add(ctx, 1,
			metric.WithAttributes(
				attribute.String("strategy", strategy),
				attribute.Bool("cache_hit", cacheHit),
			),
		)
	}
	if cacheHit && m.ImageCacheHits != nil {
		m.ImageCacheHits.Add(ctx, 1)
	}
}

// RecordMeasurePass records a headless measurement pass
func (m *Metrics) RecordMeasurePass(ctx context.Context, blocks int, durationSeconds float64) {
	if m.MeasureDuration == nil {
		return
	}
	m.MeasureDuration.Record(ctx, durationSeconds,
		metric.WithAttributes(attribute.Int("blocks", blocks)),
	)
}
