package export

import (
	"sync"
	"sync/atomic"

	"github.com/paperforge/paperforge/pkg/idgen"
)

// State is the lifecycle phase of an export job.
type State string

// Job states. Terminal states decay back to Idle after a short delay so
// a polling client can observe the outcome before the slot frees up.
const (
	StateIdle      State = "idle"
	StateExporting State = "exporting"
	StateCompleted State = "completed"
	StateCancelled State = "cancelled"
	StateFailed    State = "failed"
)

// Job tracks one export: progress, cooperative cancellation and outcome.
// Progress and the cancel flag are safe for concurrent use; cancellation
// is advisory and observed only at per-page boundaries.
type Job struct {
	ID        string
	SetNumber int // -1 for a single-set paper

	progress  atomic.Int64
	cancelled atomic.Bool

	mu         sync.RWMutex
	state      State
	outputPath string
	err        error
}

// NewJob creates an idle job.
func NewJob(setNumber int) *Job {
	return &Job{ID: idgen.NewJobID(), SetNumber: setNumber, state: StateIdle}
}

// Progress returns the current completion percentage, 0..100.
func (j *Job) Progress() int {
	return int(j.progress.Load())
}

func (j *Job) setProgress(pct int) {
	j.progress.Store(int64(pct))
}

// Cancel requests a cooperative stop. The in-flight page always
// completes; no further page is rasterized afterwards.
func (j *Job) Cancel() {
	j.cancelled.Store(true)
}

// Cancelled reports whether a stop was requested.
func (j *Job) Cancelled() bool {
	return j.cancelled.Load()
}

// State returns the current lifecycle phase.
func (j *Job) State() State {
	j.mu.RLock()
	defer j.mu.RUnlock()
	return j.state
}

// OutputPath returns the written PDF path, empty until completion.
func (j *Job) OutputPath() string {
	j.mu.RLock()
	defer j.mu.RUnlock()
	return j.outputPath
}

// Err returns the failure cause, nil unless the job failed.
func (j *Job) Err() error {
	j.mu.RLock()
	defer j.mu.RUnlock()
	return j.err
}

func (j *Job) setState(s State) {
	j.mu.Lock()
	j.state = s
	j.mu.Unlock()
}

func (j *Job) complete(path string) {
	j.mu.Lock()
	j.state = StateCompleted
	j.outputPath = path
	j.mu.Unlock()
}

func (j *Job) fail(err error) {
	j.mu.Lock()
	j.state = StateFailed
	j.err = err
	j.mu.Unlock()
	j.setProgress(0)
}

// reset returns the job to Idle, clearing progress but keeping the
// output path so a completed file stays discoverable.
func (j *Job) reset() {
	j.mu.Lock()
	j.state = StateIdle
	j.mu.Unlock()
	j.setProgress(0)
}
