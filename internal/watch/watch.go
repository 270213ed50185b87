// Package watch turns images dropped into a directory into batch jobs.
package watch

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/fsnotify/fsnotify"

	"github.com/AnyUserName/bandfit/internal/fit"
	"github.com/AnyUserName/bandfit/internal/jobs"
	"github.com/AnyUserName/bandfit/internal/logging"
	"github.com/AnyUserName/bandfit/internal/pipeline"
)

// DefaultSettle is how long a directory must stay quiet before pending
// files are submitted.
const DefaultSettle = 500 * time.Millisecond

// Config describes what to watch and where results go.
type Config struct {
	Dir       string
	OutputDir string
	Band      fit.Band
	Settle    time.Duration
	Log       *logging.Logger

	// OnJob receives every submitted job. The handler must drain the
	// job's events; when nil they are discarded.
	OnJob func(*jobs.Job)
}

// Watcher collects new files in one directory and submits them through a
// jobs.Manager, one batch at a time.
type Watcher struct {
	cfg     Config
	manager *jobs.Manager
	pending *pendingSet
}

// New validates cfg. The output directory must differ from the watched
// one, otherwise every result would be picked up again.
func New(cfg Config, manager *jobs.Manager) (*Watcher, error) {
	if cfg.Dir == "" {
		return nil, errors.New("watch dir is required")
	}
	if err := cfg.Band.Validate(); err != nil {
		return nil, err
	}
	in, err := filepath.Abs(cfg.Dir)
	if err != nil {
		return nil, fmt.Errorf("resolve watch dir: %w", err)
	}
	out, err := filepath.Abs(cfg.OutputDir)
	if err != nil {
		return nil, fmt.Errorf("resolve output dir: %w", err)
	}
	if in == out {
		return nil, fmt.Errorf("output dir %s must differ from watched dir", out)
	}
	cfg.Dir = in
	if cfg.Settle <= 0 {
		cfg.Settle = DefaultSettle
	}
	return &Watcher{cfg: cfg, manager: manager, pending: newPendingSet()}, nil
}

// Run watches until ctx is done. Files arriving while a job is running
// are held and submitted with the next batch.
func (w *Watcher) Run(ctx context.Context) error {
	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("create fsnotify watcher: %w", err)
	}
	defer fsw.Close()

	if err := fsw.Add(w.cfg.Dir); err != nil {
		return fmt.Errorf("watch %s: %w", w.cfg.Dir, err)
	}
	w.cfg.Log.Infof("watching %s (band %s)", w.cfg.Dir, w.cfg.Band)

	timer := time.NewTimer(w.cfg.Settle)
	timer.Stop()
	defer timer.Stop()

	for {
		select {
		case <-ctx.Done():
			if job := w.manager.Current(); job != nil {
				job.Stop()
				<-job.Done()
			}
			return nil

		case ev, ok := <-fsw.Events:
			if !ok {
				return nil
			}
			if !relevant(ev) {
				continue
			}
			w.cfg.Log.Debugf("%s %s", ev.Op, ev.Name)
			w.pending.add(ev.Name)
			timer.Reset(w.cfg.Settle)

		case err, ok := <-fsw.Errors:
			if !ok {
				return nil
			}
			w.cfg.Log.Warnf("watcher error: %v", err)

		case <-timer.C:
			if !w.flush(ctx) {
				timer.Reset(w.cfg.Settle)
			}
		}
	}
}

// flush submits pending files. It returns false when they must wait for
// the running job.
func (w *Watcher) flush(ctx context.Context) bool {
	if w.pending.len() == 0 {
		return true
	}
	if w.manager.IsRunning() {
		w.cfg.Log.Debugf("job running, holding %d files", w.pending.len())
		return false
	}

	files := w.pending.take()
	job, err := w.manager.Submit(ctx, jobs.Request{
		Files:     files,
		OutputDir: w.cfg.OutputDir,
		Band:      w.cfg.Band,
	})
	if errors.Is(err, jobs.ErrJobAlreadyRunning) {
		w.pending.restore(files)
		return false
	}
	if err != nil {
		w.cfg.Log.Errorf("submit %d files: %v", len(files), err)
		return true
	}

	w.cfg.Log.Infof("job %s: %d files", job.ID, len(files))
	if w.cfg.OnJob != nil {
		w.cfg.OnJob(job)
	} else {
		go func() {
			for range job.Events() {
			}
		}()
	}
	return true
}

func relevant(ev fsnotify.Event) bool {
	if !ev.Has(fsnotify.Create) && !ev.Has(fsnotify.Write) {
		return false
	}
	if strings.HasPrefix(filepath.Base(ev.Name), ".") {
		return false
	}
	return pipeline.Supported(ev.Name)
}

// pendingSet is an ordered, de-duplicated path set. It is only touched
// from the Run goroutine.
type pendingSet struct {
	seen map[string]bool
}

func newPendingSet() *pendingSet {
	return &pendingSet{seen: map[string]bool{}}
}

func (p *pendingSet) add(path string) { p.seen[path] = true }

func (p *pendingSet) len() int { return len(p.seen) }

// take empties the set and returns its paths sorted.
func (p *pendingSet) take() []string {
	files := make([]string, 0, len(p.seen))
	for f := range p.seen {
		files = append(files, f)
	}
	sort.Strings(files)
	p.seen = map[string]bool{}
	return files
}

func (p *pendingSet) restore(files []string) {
	for _, f := range files {
		p.add(f)
	}
}
