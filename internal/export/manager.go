package export

import (
	"context"
	"sync"

	"go.uber.org/zap"

	"github.com/paperforge/paperforge/internal/render"
	"github.com/paperforge/paperforge/pkg/errors"
	"github.com/paperforge/paperforge/pkg/logger"
)

// Manager serializes exports: at most one job runs at a time, matching
// the single headless browser the rasterizer drives.
type Manager struct {
	exporter *Exporter

	mu      sync.Mutex
	current *Job
}

// NewManager wraps an exporter with single-slot job tracking.
func NewManager(exporter *Exporter) *Manager {
	return &Manager{exporter: exporter}
}

// Start launches an export in the background and returns its job. A
// second start while one is exporting fails with the busy error.
func (m *Manager) Start(ctx context.Context, doc render.Document) (*Job, error) {
	if doc.PageCount == 0 {
		return nil, errors.New(errors.ErrCodeExportNoPages, "document has no pages")
	}

	m.mu.Lock()
	if m.current != nil && m.current.State() == StateExporting {
		m.mu.Unlock()
		return nil, errors.ErrExportBusy()
	}
	job := NewJob(doc.SetNumber)
	job.setState(StateExporting)
	m.current = job
	m.mu.Unlock()

	go func() {
		// the job owns its lifetime; the request context may be gone
		if _, err := m.exporter.ExportToPDF(context.WithoutCancel(ctx), doc, job); err != nil {
			if !errors.Is(err, ErrCancelled) {
				logger.Error("[Export] background export failed",
					zap.String("job_id", job.ID),
					zap.Error(err))
			}
		}
	}()
	return job, nil
}

// Current returns the most recent job, nil when none has started.
func (m *Manager) Current() *Job {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.current
}

// Cancel requests a stop of the running job. It reports whether a job
// was exporting when the request landed.
func (m *Manager) Cancel() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.current == nil || m.current.State() != StateExporting {
		return false
	}
	m.current.Cancel()
	return true
}
