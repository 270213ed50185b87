// Package jobs runs at most one batch job at a time, off the caller's
// goroutine, and delivers its events over a channel.
package jobs

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/AnyUserName/bandfit/internal/fit"
	"github.com/AnyUserName/bandfit/internal/pipeline"
	"github.com/google/uuid"
)

// ErrJobAlreadyRunning is returned when starting a second active job.
var ErrJobAlreadyRunning = errors.New("job already running")

// ErrNoRunningJob is returned when cancel is requested for idle state.
var ErrNoRunningJob = errors.New("no running job")

// Request describes one batch job.
type Request struct {
	Files     []string
	OutputDir string
	Band      fit.Band

	// Handler, when set, sees every event on the job goroutine before the
	// runner moves on. Manager.Cancel called from Handler stops the job
	// before the next file, which a reader of Events cannot guarantee.
	Handler func(pipeline.Event)
}

// Job is a submitted batch. Its event channel is closed after the
// EventJobDone event.
type Job struct {
	ID        string
	Request   Request
	StartedAt time.Time

	events chan pipeline.Event
	cancel context.CancelFunc
	done   chan struct{}
	result pipeline.BatchResult
}

// Events returns the job's ordered event stream. The channel holds every
// event the job can emit, so the job never waits on a slow reader.
func (j *Job) Events() <-chan pipeline.Event { return j.events }

// Stop asks the job to stop before its next file. Events are buffered,
// so by the time a reader of Events sees FileDone for file k the job may
// already be past it. Use Request.Handler to stop at an exact file.
func (j *Job) Stop() { j.cancel() }

// Done is closed when the job has finished.
func (j *Job) Done() <-chan struct{} { return j.done }

// Wait blocks until the job finishes and returns its result.
func (j *Job) Wait() pipeline.BatchResult {
	<-j.done
	return j.result
}

// Manager tracks the single allowed active job.
type Manager struct {
	base pipeline.Config

	mu      sync.RWMutex
	current *Job
}

// NewManager creates an idle manager. base supplies everything a job
// needs except the output dir and band, which come from each Request.
func NewManager(base pipeline.Config) *Manager {
	return &Manager{base: base}
}

// Submit validates req and starts it on a new goroutine.
func (m *Manager) Submit(ctx context.Context, req Request) (*Job, error) {
	cfg := m.base
	cfg.OutputDir = req.OutputDir
	cfg.Band = req.Band
	runner, err := pipeline.New(cfg)
	if err != nil {
		return nil, fmt.Errorf("invalid job: %w", err)
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	if m.current != nil {
		return nil, ErrJobAlreadyRunning
	}

	jobCtx, cancel := context.WithCancel(ctx)
	job := &Job{
		ID:        uuid.NewString(),
		Request:   req,
		StartedAt: time.Now().UTC(),
		events:    make(chan pipeline.Event, 2*len(req.Files)+1),
		cancel:    cancel,
		done:      make(chan struct{}),
	}
	m.current = job

	go func() {
		defer cancel()
		job.result = runner.RunFunc(jobCtx, req.Files, func(ev pipeline.Event) {
			job.events <- ev
			if req.Handler != nil {
				req.Handler(ev)
			}
		})
		close(job.events)

		m.mu.Lock()
		if m.current == job {
			m.current = nil
		}
		m.mu.Unlock()
		close(job.done)
	}()

	return job, nil
}

// Current returns the active job, or nil when idle.
func (m *Manager) Current() *Job {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.current
}

// IsRunning reports whether a job is active.
func (m *Manager) IsRunning() bool {
	return m.Current() != nil
}

// Cancel stops the active job before its next file.
func (m *Manager) Cancel() error {
	job := m.Current()
	if job == nil {
		return ErrNoRunningJob
	}
	job.Stop()
	return nil
}
