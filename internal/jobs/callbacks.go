package jobs

import "github.com/AnyUserName/bandfit/internal/pipeline"

// Callbacks adapts an event stream to per-kind handlers. Nil handlers are
// skipped.
type Callbacks struct {
	OnProgress    func(percent int)
	OnFileDone    func(file string, achieved bool, bytes int64)
	OnFileSkipped func(file string, err error)
	OnJobDone     func(result pipeline.BatchResult)
}

// Dispatch delivers events in order until the channel closes.
func (c Callbacks) Dispatch(events <-chan pipeline.Event) {
	for ev := range events {
		c.Handle(ev)
	}
}

// Handle delivers one event. It fits Request.Handler, which runs the
// callbacks on the job goroutine.
func (c Callbacks) Handle(ev pipeline.Event) {
	switch ev.Type {
	case pipeline.EventProgress:
		if c.OnProgress != nil {
			c.OnProgress(ev.Percent)
		}
	case pipeline.EventFileDone:
		if c.OnFileDone != nil {
			c.OnFileDone(ev.File, ev.Achieved, ev.Bytes)
		}
	case pipeline.EventFileSkipped:
		if c.OnFileSkipped != nil {
			c.OnFileSkipped(ev.File, ev.Err)
		}
	case pipeline.EventJobDone:
		if c.OnJobDone != nil && ev.Result != nil {
			c.OnJobDone(*ev.Result)
		}
	}
}
