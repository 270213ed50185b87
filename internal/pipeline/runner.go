package pipeline

import (
	"context"
	"fmt"
	"math"

	"github.com/AnyUserName/bandfit/internal/encoder"
	"github.com/AnyUserName/bandfit/internal/fit"
	"github.com/AnyUserName/bandfit/internal/logging"
)

// Config holds all parameters for a batch run.
type Config struct {
	OutputDir string
	Band      fit.Band

	// Registry defaults to encoder.NewRegistry with default options.
	Registry *encoder.Registry
	// Searcher defaults to fit.New().
	Searcher *fit.Searcher
	// AutoOrient applies the EXIF orientation tag while decoding.
	AutoOrient bool
	// Log may be nil.
	Log *logging.Logger
}

// Runner processes batches of files sequentially.
type Runner struct {
	cfg Config
}

// New validates cfg and creates a runner.
func New(cfg Config) (*Runner, error) {
	if cfg.OutputDir == "" {
		return nil, fmt.Errorf("output dir is required")
	}
	if err := cfg.Band.Validate(); err != nil {
		return nil, err
	}
	if cfg.Registry == nil {
		cfg.Registry = encoder.NewRegistry(encoder.Options{})
	}
	if cfg.Searcher == nil {
		cfg.Searcher = fit.New()
	}
	return &Runner{cfg: cfg}, nil
}

// Config returns the runner's effective configuration.
func (r *Runner) Config() Config { return r.cfg }

// Run processes files in order and returns the aggregated result.
//
// Unsupported extensions are dropped before counting. For each accepted
// file Run sends EventProgress, then EventFileDone (or EventFileSkipped
// when the file does not decode). EventJobDone is always sent last, also
// after cancellation. events may be nil; Run never closes it.
func (r *Runner) Run(ctx context.Context, files []string, events chan<- Event) BatchResult {
	return r.RunFunc(ctx, files, func(ev Event) {
		if events != nil {
			events <- ev
		}
	})
}

// RunFunc is Run with a synchronous event hook. emit runs on the calling
// goroutine before the next file starts, so cancelling ctx from inside
// emit stops the batch at exactly that point. emit may be nil.
func (r *Runner) RunFunc(ctx context.Context, files []string, emit func(Event)) BatchResult {
	if emit == nil {
		emit = func(Event) {}
	}

	sources := Filter(files)
	total := len(sources)
	r.cfg.Log.Infof("processing %d of %d files into %s (band %s)",
		total, len(files), r.cfg.OutputDir, r.cfg.Band)
	r.cfg.Log.Debugf("%s", r.cfg.Registry)

	var result BatchResult
	for i, src := range sources {
		if ctx.Err() != nil {
			result.Cancelled = true
			r.cfg.Log.Warnf("cancelled after %d of %d files", i, total)
			break
		}

		outcome, err := r.processFile(src)
		progress := Event{Type: EventProgress, Percent: Percent(i+1, total)}

		if err != nil {
			r.cfg.Log.Warnf("skip %s: %v", src.Name, err)
			result.Skipped = append(result.Skipped, SkippedFile{Source: src.Path, Err: err.Error()})
			emit(progress)
			emit(Event{Type: EventFileSkipped, File: src.Name, Err: err})
			continue
		}

		result.Outcomes = append(result.Outcomes, outcome)
		emit(progress)
		emit(Event{
			Type:     EventFileDone,
			File:     src.Name,
			Achieved: outcome.Achieved,
			Bytes:    outcome.Bytes,
			Err:      outcome.cause,
		})
	}

	done := result
	emit(Event{Type: EventJobDone, Result: &done})
	return result
}

// Percent is round(done/total*100), clamped to [0, 100].
func Percent(done, total int) int {
	if total <= 0 {
		return 100
	}
	p := int(math.Round(float64(done) / float64(total) * 100))
	if p < 0 {
		return 0
	}
	if p > 100 {
		return 100
	}
	return p
}
