package cmd

import (
	"testing"

	"github.com/spf13/cobra"

	"github.com/AnyUserName/bandfit/internal/config"
	"github.com/AnyUserName/bandfit/internal/fit"
	"github.com/AnyUserName/bandfit/internal/pipeline"
)

func parse(t *testing.T, args ...string) (*cobra.Command, *jobFlags) {
	t.Helper()
	f := &jobFlags{}
	c := &cobra.Command{Use: "x"}
	f.register(c)
	if err := c.ParseFlags(args); err != nil {
		t.Fatalf("parse %v: %v", args, err)
	}
	return c, f
}

func TestJobFlagsApply(t *testing.T) {
	base := config.Default()
	base.MinKB = 300

	tests := []struct {
		name    string
		args    []string
		wantMin int64
		wantMax int64
		wantOut string
	}{
		{"config only", nil, 300 * fit.KB, 1024 * fit.KB, "./resized"},
		{"profile drops config bounds", []string{"--profile", "web"}, 50 * fit.KB, 300 * fit.KB, "./resized"},
		{"explicit bounds", []string{"--min-kb", "200", "--max-kb", "500", "-o", "out"}, 200 * fit.KB, 500 * fit.KB, "out"},
		{"clamped", []string{"--min-kb", "10", "--max-kb", "5000"}, 50 * fit.KB, 2048 * fit.KB, "./resized"},
		{"gap", []string{"--min-kb", "900", "--max-kb", "950"}, 850 * fit.KB, 950 * fit.KB, "./resized"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c, f := parse(t, tt.args...)
			cfg, err := f.apply(c, base)
			if err != nil {
				t.Fatalf("apply: %v", err)
			}
			band, err := resolveBand(cfg)
			if err != nil {
				t.Fatalf("band: %v", err)
			}
			if band.Min != tt.wantMin || band.Max != tt.wantMax {
				t.Errorf("band: got %d-%d, want %d-%d", band.Min, band.Max, tt.wantMin, tt.wantMax)
			}
			if cfg.OutputDir != tt.wantOut {
				t.Errorf("out: got %q, want %q", cfg.OutputDir, tt.wantOut)
			}
		})
	}
}

func TestJobFlagsRejectUnknownProfile(t *testing.T) {
	c, f := parse(t, "--profile", "nope")
	if _, err := f.apply(c, config.Default()); err == nil {
		t.Error("expected error for unknown profile")
	}
}

func TestSummaryRows(t *testing.T) {
	res := pipeline.BatchResult{
		Outcomes: []pipeline.FileOutcome{
			{Achieved: true, Bytes: 2048},
			{Err: "write failed"},
		},
		Skipped:   []pipeline.SkippedFile{{Source: "x.jpg"}},
		Cancelled: true,
	}
	rows := summaryRows(res, fit.Band{Min: fit.KB, Max: 4 * fit.KB}, 0)

	got := map[string]string{}
	for _, r := range rows {
		got[r.Label] = r.Value
	}
	want := map[string]string{
		"Files written":         "1",
		"In band":               "1",
		"Failed":                "1",
		"Skipped (undecodable)": "1",
		"Total output":          "2.0 KB",
		"Status":                "cancelled",
	}
	for k, v := range want {
		if got[k] != v {
			t.Errorf("%s: got %q, want %q", k, got[k], v)
		}
	}
}
