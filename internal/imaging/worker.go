package imaging

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/paperforge/paperforge/pkg/errors"
	"github.com/paperforge/paperforge/pkg/idgen"
	"github.com/paperforge/paperforge/pkg/logger"
)

// workerRequest is one resolve job dispatched to the worker goroutine.
// Responses come back on the per-request channel, correlated by ID so a
// timed-out caller can never receive a stale answer.
type workerRequest struct {
	ID    string
	URL   string
	Reply chan workerResponse
}

type workerResponse struct {
	ID      string
	DataURI string
	Err     error
}

// workerStrategy offloads decoding to a single long-lived goroutine.
// Serializing the work keeps memory bounded when a paper references many
// large images at once.
type workerStrategy struct {
	requests chan workerRequest
	timeout  time.Duration
}

func newWorkerStrategy(backend resolveStrategy) *workerStrategy {
	w := &workerStrategy{
		requests: make(chan workerRequest),
		timeout:  workerTimeout,
	}
	go w.run(backend)
	return w
}

func (w *workerStrategy) Name() string { return "worker" }

func (w *workerStrategy) run(backend resolveStrategy) {
	for req := range w.requests {
		dataURI, err := backend.Resolve(context.Background(), req.URL)
		req.Reply <- workerResponse{ID: req.ID, DataURI: dataURI, Err: err}
	}
}

func (w *workerStrategy) Resolve(ctx context.Context, url string) (string, error) {
	req := workerRequest{
		ID:    idgen.NewImageRequestID(),
		URL:   url,
		Reply: make(chan workerResponse, 1),
	}

	timer := time.NewTimer(w.timeout)
	defer timer.Stop()

	select {
	case w.requests <- req:
	case <-timer.C:
		return "", errors.New(errors.ErrCodeImageTimeout,
			fmt.Sprintf("worker busy for %s", w.timeout))
	case <-ctx.Done():
		return "", ctx.Err()
	}

	select {
	case resp := <-req.Reply:
		if resp.ID != req.ID {
			// cannot happen with a dedicated reply channel, but a stale
			// correlation would silently corrupt the cache
			logger.Error("image worker response correlation mismatch",
				zap.String("want", req.ID), zap.String("got", resp.ID))
			return "", errors.New(errors.ErrCodeImageFetch, "response correlation mismatch")
		}
		return resp.DataURI, resp.Err
	case <-timer.C:
		return "", errors.New(errors.ErrCodeImageTimeout,
			fmt.Sprintf("no response within %s", w.timeout))
	case <-ctx.Done():
		return "", ctx.Err()
	}
}
