package report

import "github.com/AnyUserName/bandfit/internal/fit"

// SupportedVersion is the current report schema version.
const SupportedVersion = 1

// Report is the optional JSON record of one bandfit run.
type Report struct {
	Version     int       `json:"version"`
	GeneratedAt string    `json:"generated_at"`
	JobID       string    `json:"job_id,omitempty"`
	Profile     string    `json:"profile,omitempty"`
	OutputDir   string    `json:"output_dir"`
	Band        fit.Band  `json:"band"`
	Cancelled   bool      `json:"cancelled,omitempty"`
	Files       []File    `json:"files"`
	Skipped     []Skipped `json:"skipped,omitempty"`
	Stats       Stats     `json:"stats"`
}

// File is one emitted output.
type File struct {
	Source   string  `json:"source"`
	Output   string  `json:"output"` // relative to output_dir
	Format   string  `json:"format,omitempty"`
	Achieved bool    `json:"achieved"`
	Size     int64   `json:"size"`
	Width    int     `json:"width,omitempty"`
	Height   int     `json:"height,omitempty"`
	Quality  int     `json:"quality,omitempty"`
	Scale    float64 `json:"scale,omitempty"`
	Attempts int     `json:"attempts,omitempty"`
	Hash     string  `json:"hash,omitempty"` // xxhash64, 16 hex chars
	Error    string  `json:"error,omitempty"`
}

// Skipped is an input that could not be decoded.
type Skipped struct {
	Source string `json:"source"`
	Error  string `json:"error"`
}

// Stats aggregates run metrics.
type Stats struct {
	TotalFiles       int   `json:"total_files"`
	Achieved         int   `json:"achieved"`
	Failed           int   `json:"failed"`
	Skipped          int   `json:"skipped"`
	TotalInputBytes  int64 `json:"total_input_bytes"`
	TotalOutputBytes int64 `json:"total_output_bytes"`
}
