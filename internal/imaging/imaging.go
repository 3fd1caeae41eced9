// Package imaging resolves remote image URLs referenced by question
// content into self-contained data URIs, so rendered pages never depend
// on the network at rasterization time. Resolution never fails: any
// unrecoverable error returns the original URL unchanged.
package imaging

import (
	"context"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/paperforge/paperforge/pkg/logger"
	"github.com/paperforge/paperforge/pkg/telemetry"
)

const (
	// workerTimeout bounds one round trip through the offload worker
	workerTimeout = 10 * time.Second
	// fetchTimeout bounds an inline HTTP fetch
	fetchTimeout = 5 * time.Second
)

// resolveStrategy turns a URL into a data URI or reports failure.
type resolveStrategy interface {
	Name() string
	Resolve(ctx context.Context, url string) (string, error)
}

// Resolver caches resolved URLs for the process lifetime and tries its
// strategies in order, falling back to the original URL when all fail.
type Resolver struct {
	mu         sync.RWMutex
	cache      map[string]string
	strategies []resolveStrategy
	metrics    *telemetry.Metrics
}

// Option configures a Resolver.
type Option func(*Resolver)

// WithMetrics records resolution outcomes on the given metrics set.
func WithMetrics(m *telemetry.Metrics) Option {
	return func(r *Resolver) { r.metrics = m }
}

// WithStrategies replaces the default strategy chain. Used by tests.
func WithStrategies(strategies ...resolveStrategy) Option {
	return func(r *Resolver) { r.strategies = strategies }
}

// NewResolver builds a resolver with the default chain: a dedicated
// worker goroutine first, inline fetch-and-decode as the fallback.
func NewResolver(opts ...Option) *Resolver {
	r := &Resolver{cache: make(map[string]string)}
	for _, opt := range opts {
		opt(r)
	}
	if r.strategies == nil {
		r.strategies = []resolveStrategy{
			newWorkerStrategy(newInlineStrategy()),
			newInlineStrategy(),
		}
	}
	return r
}

// Resolve returns a data URI for url, or url itself when every strategy
// fails. The cache is keyed by the original URL and never evicts.
// Concurrent calls for the same URL before the first completes are not
// deduplicated; every path is idempotent so the duplicate work is only
// wasted effort, not a correctness problem.
func (r *Resolver) Resolve(ctx context.Context, url string) string {
	if url == "" {
		return url
	}

	r.mu.RLock()
	cached, ok := r.cache[url]
	r.mu.RUnlock()
	if ok {
		r.record(ctx, "cache", true)
		return cached
	}

	for _, strategy := range r.strategies {
		resolved, err := strategy.Resolve(ctx, url)
		if err != nil {
			logger.Debug("image resolution strategy failed",
				zap.String("strategy", strategy.Name()),
				zap.String("url", url),
				zap.Error(err))
			continue
		}
		r.mu.Lock()
		r.cache[url] = resolved
		r.mu.Unlock()
		r.record(ctx, strategy.Name(), false)
		return resolved
	}

	logger.Warn("image resolution exhausted all strategies, keeping original URL",
		zap.String("url", url))
	r.record(ctx, "passthrough", false)
	return url
}

// CacheSize reports the number of resolved entries.
func (r *Resolver) CacheSize() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.cache)
}

func (r *Resolver) record(ctx context.Context, strategy string, hit bool) {
	if r.metrics != nil {
		r.metrics.RecordImageResolution(ctx, strategy, hit)
	}
}
