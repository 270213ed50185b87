package pipeline

import (
	"github.com/AnyUserName/bandfit/internal/encoder"
)

// FileOutcome is the result for one accepted, decodable input.
type FileOutcome struct {
	Source      string
	Destination string
	Achieved    bool
	Bytes       int64

	Format   encoder.Format
	Width    int
	Height   int
	Quality  int
	Scale    float64
	Attempts int
	Hash     string // xxhash64 of the written bytes, empty on failure
	Err      string // diagnostic when the file could not be written

	cause error // the *FileError behind Err
}

// SkippedFile is an accepted input that could not be decoded.
type SkippedFile struct {
	Source string
	Err    string
}

// BatchResult aggregates one job. Outcomes keep input order.
type BatchResult struct {
	Outcomes  []FileOutcome
	Skipped   []SkippedFile
	Cancelled bool
}

// AchievedCount returns how many outcomes landed in band.
func (r BatchResult) AchievedCount() int {
	n := 0
	for _, o := range r.Outcomes {
		if o.Achieved {
			n++
		}
	}
	return n
}

// TotalBytes sums the final sizes of all outcomes.
func (r BatchResult) TotalBytes() int64 {
	var n int64
	for _, o := range r.Outcomes {
		n += o.Bytes
	}
	return n
}

// EventType classifies events emitted by Run.
type EventType int

const (
	EventProgress EventType = iota
	EventFileDone
	EventFileSkipped
	EventJobDone
)

func (t EventType) String() string {
	switch t {
	case EventProgress:
		return "progress"
	case EventFileDone:
		return "file_done"
	case EventFileSkipped:
		return "file_skipped"
	case EventJobDone:
		return "job_done"
	default:
		return "unknown"
	}
}

// Event is one message from a running batch.
type Event struct {
	Type EventType

	// EventProgress.
	Percent int

	// EventFileDone / EventFileSkipped. File is the base name. Err is the
	// *FileError for skipped files and for outcomes that could not be
	// written.
	File     string
	Achieved bool
	Bytes    int64
	Err      error

	// EventJobDone.
	Result *BatchResult
}
