// Package report records a finished batch as JSON so it can be inspected
// or checked against the output directory later.
package report

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/AnyUserName/bandfit/internal/fit"
	"github.com/AnyUserName/bandfit/internal/pipeline"
)

// FileName is the report's default name inside the output directory.
const FileName = "bandfit.report.json"

// New creates an empty report with defaults.
func New(outputDir string, band fit.Band) *Report {
	return &Report{
		Version:     SupportedVersion,
		GeneratedAt: time.Now().UTC().Format(time.RFC3339),
		OutputDir:   outputDir,
		Band:        band,
		Files:       []File{},
	}
}

// FromBatch converts a batch result into a report.
func FromBatch(outputDir string, band fit.Band, res pipeline.BatchResult) *Report {
	r := New(outputDir, band)
	r.Cancelled = res.Cancelled

	for _, o := range res.Outcomes {
		rel, err := filepath.Rel(outputDir, o.Destination)
		if err != nil {
			rel = o.Destination
		}
		r.Files = append(r.Files, File{
			Source:   o.Source,
			Output:   filepath.ToSlash(rel),
			Format:   string(o.Format),
			Achieved: o.Achieved,
			Size:     o.Bytes,
			Width:    o.Width,
			Height:   o.Height,
			Quality:  o.Quality,
			Scale:    o.Scale,
			Attempts: o.Attempts,
			Hash:     o.Hash,
			Error:    o.Err,
		})
	}
	for _, s := range res.Skipped {
		r.Skipped = append(r.Skipped, Skipped{Source: s.Source, Error: s.Err})
	}

	r.ComputeStats()
	return r
}

// ComputeStats recalculates aggregate statistics from files. Input sizes
// are read from disk; sources that vanished count as zero.
func (r *Report) ComputeStats() {
	var s Stats
	s.TotalFiles = len(r.Files)
	s.Skipped = len(r.Skipped)
	for _, f := range r.Files {
		if f.Achieved {
			s.Achieved++
		} else {
			s.Failed++
		}
		s.TotalOutputBytes += f.Size
		if info, err := os.Stat(f.Source); err == nil {
			s.TotalInputBytes += info.Size()
		}
	}
	r.Stats = s
}

// WriteJSON serializes the report to path.
func WriteJSON(r *Report, path string) error {
	data, err := json.MarshalIndent(r, "", "  ")
	if err != nil {
		return err
	}
	data = append(data, '\n')
	return os.WriteFile(path, data, 0o644)
}

// ReadJSON loads a report. A directory argument is resolved to the
// FileName inside it.
func ReadJSON(path string) (*Report, string, error) {
	info, err := os.Stat(path)
	if err != nil {
		return nil, "", fmt.Errorf("stat %s: %w", path, err)
	}
	if info.IsDir() {
		path = filepath.Join(path, FileName)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, "", fmt.Errorf("read report: %w", err)
	}
	var r Report
	if err := json.Unmarshal(data, &r); err != nil {
		return nil, "", fmt.Errorf("parse report: %w", err)
	}
	return &r, path, nil
}
