// Package telemetry wires OpenTelemetry traces and metrics: OTLP gRPC for
// spans, Prometheus scrape endpoint for metrics.
package telemetry

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/exporters/otlp/otlptrace/otlptracegrpc"
	"go.opentelemetry.io/otel/exporters/prometheus"
	"go.opentelemetry.io/otel/propagation"
	sdkmetric "go.opentelemetry.io/otel/sdk/metric"
	"go.opentelemetry.io/otel/sdk/resource"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	semconv "go.opentelemetry.io/otel/semconv/v1.27.0"
	"go.uber.org/zap"

	"github.com/paperforge/paperforge/consts"
	"github.com/paperforge/paperforge/pkg/logger"
)

const (
	exporterInitTimeout   = 10 * time.Second
	metricsServerTimeout  = 10 * time.Second
	defaultPrometheusPort = 9090
)

// Config holds the telemetry section of the service configuration.
type Config struct {
	Enabled     bool             `yaml:"enabled"`
	ServiceName string           `yaml:"service_name"`
	OTLP        OTLPConfig       `yaml:"otlp"`
	Prometheus  PrometheusConfig `yaml:"prometheus"`
}

// OTLPConfig configures span export to an OTLP collector.
type OTLPConfig struct {
	Enabled  bool   `yaml:"enabled"`
	Endpoint string `yaml:"endpoint"` // host:port, e.g. "localhost:4317"
	Insecure bool   `yaml:"insecure"`
}

// PrometheusConfig configures the /metrics scrape server.
type PrometheusConfig struct {
	Enabled bool `yaml:"enabled"`
	Port    int  `yaml:"port"`
}

// Telemetry owns the installed providers and the metrics HTTP server.
// A disabled instance is a valid no-op.
type Telemetry struct {
	config         Config
	tracerProvider *sdktrace.TracerProvider
	meterProvider  *sdkmetric.MeterProvider
	metricsServer  *http.Server
}

// New installs global tracer and meter providers per cfg. When telemetry
// is disabled the otel globals stay at their no-op defaults.
func New(cfg Config) (*Telemetry, error) {
	t := &Telemetry{config: cfg}
	if !cfg.Enabled {
		logger.Info("Telemetry is disabled")
		return t, nil
	}

	if cfg.ServiceName == "" {
		t.config.ServiceName = consts.ServiceName
	}
	if cfg.Prometheus.Port == 0 {
		t.config.Prometheus.Port = defaultPrometheusPort
	}

	// resource.New instead of resource.Merge avoids schema URL conflicts
	// across semconv versions
	res, err := resource.New(context.Background(),
		resource.WithAttributes(semconv.ServiceName(t.config.ServiceName)))
	if err != nil {
		return nil, fmt.Errorf("create telemetry resource: %w", err)
	}

	if t.tracerProvider, err = newTracerProvider(t.config.OTLP, res); err != nil {
		return nil, err
	}
	otel.SetTracerProvider(t.tracerProvider)

	if err = t.startMetrics(res); err != nil {
		return nil, err
	}
	otel.SetMeterProvider(t.meterProvider)

	otel.SetTextMapPropagator(propagation.NewCompositeTextMapPropagator(
		propagation.TraceContext{},
		propagation.Baggage{},
	))

	logger.Info("Telemetry initialized",
		zap.String("service_name", t.config.ServiceName),
		zap.Bool("otlp_enabled", cfg.OTLP.Enabled),
		zap.Bool("prometheus_enabled", cfg.Prometheus.Enabled),
	)
	return t, nil
}

func newTracerProvider(cfg OTLPConfig, res *resource.Resource) (*sdktrace.TracerProvider, error) {
	opts := []sdktrace.TracerProviderOption{sdktrace.WithResource(res)}

	if cfg.Enabled && cfg.Endpoint != "" {
		ctx, cancel := context.WithTimeout(context.Background(), exporterInitTimeout)
		defer cancel()

		grpcOpts := []otlptracegrpc.Option{otlptracegrpc.WithEndpoint(cfg.Endpoint)}
		if cfg.Insecure {
			grpcOpts = append(grpcOpts, otlptracegrpc.WithInsecure())
		}
		exporter, err := otlptracegrpc.New(ctx, grpcOpts...)
		if err != nil {
			return nil, fmt.Errorf("create OTLP trace exporter: %w", err)
		}
		opts = append(opts, sdktrace.WithBatcher(exporter))
		logger.Info("OTLP trace exporter initialized", zap.String("endpoint", cfg.Endpoint))
	}

	return sdktrace.NewTracerProvider(opts...), nil
}

// startMetrics builds the meter provider and, when Prometheus export is
// on, serves /metrics on the configured port.
func (t *Telemetry) startMetrics(res *resource.Resource) error {
	opts := []sdkmetric.Option{sdkmetric.WithResource(res)}

	if t.config.Prometheus.Enabled {
		exporter, err := prometheus.New()
		if err != nil {
			return fmt.Errorf("create Prometheus exporter: %w", err)
		}
		opts = append(opts, sdkmetric.WithReader(exporter))

		mux := http.NewServeMux()
		mux.Handle("/metrics", promhttp.Handler())
		t.metricsServer = &http.Server{
			Addr:         fmt.Sprintf(":%d", t.config.Prometheus.Port),
			Handler:      mux,
			ReadTimeout:  metricsServerTimeout,
			WriteTimeout: metricsServerTimeout,
		}
		go func() {
			logger.Info("Starting Prometheus metrics server", zap.Int("port", t.config.Prometheus.Port))
			if err := t.metricsServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
				logger.Error("Prometheus metrics server error", zap.Error(err))
			}
		}()
	}

	t.meterProvider = sdkmetric.NewMeterProvider(opts...)
	return nil
}

// Shutdown flushes and stops the providers and the metrics server.
// Individual failures are logged, not returned; shutdown always proceeds.
func (t *Telemetry) Shutdown(ctx context.Context) error {
	if !t.config.Enabled {
		return nil
	}
	logger.Info("Shutting down telemetry")

	if t.tracerProvider != nil {
		if err := t.tracerProvider.Shutdown(ctx); err != nil {
			logger.Error("Failed to shutdown tracer provider", zap.Error(err))
		}
	}
	if t.meterProvider != nil {
		if err := t.meterProvider.Shutdown(ctx); err != nil {
			logger.Error("Failed to shutdown meter provider", zap.Error(err))
		}
	}
	if t.metricsServer != nil {
		if err := t.metricsServer.Shutdown(ctx); err != nil {
			logger.Error("Failed to shutdown metrics server", zap.Error(err))
		}
	}
	return nil
}

// IsEnabled reports whether telemetry was configured on.
func (t *Telemetry) IsEnabled() bool {
	return t.config.Enabled
}
