package cmd

import (
	"fmt"
	"sort"

	"github.com/spf13/cobra"

	"github.com/AnyUserName/bandfit/internal/report"
	"github.com/AnyUserName/bandfit/internal/tui"
)

var statsCmd = &cobra.Command{
	Use:   "stats <out_dir_or_report>",
	Short: "Display statistics for a run report",
	Args:  cobra.ExactArgs(1),
	RunE:  runStats,
}

func init() {
	rootCmd.AddCommand(statsCmd)
}

func runStats(_ *cobra.Command, args []string) error {
	r, _, err := report.ReadJSON(args[0])
	if err != nil {
		return err
	}
	printStats(r)
	return nil
}

func printStats(r *report.Report) {
	fmt.Println()
	fmt.Printf("  Report version:   %d\n", r.Version)
	fmt.Printf("  Generated:        %s\n", r.GeneratedAt)
	if r.Profile != "" {
		fmt.Printf("  Profile:          %s\n", r.Profile)
	}
	fmt.Printf("  Band:             %s\n", r.Band)
	if r.Cancelled {
		fmt.Println("  Status:           cancelled")
	}
	fmt.Println()

	s := r.Stats
	fmt.Printf("  Files:            %d\n", s.TotalFiles)
	fmt.Printf("  In band:          %d\n", s.Achieved)
	fmt.Printf("  Outside/failed:   %d\n", s.Failed)
	fmt.Printf("  Skipped:          %d\n", s.Skipped)
	fmt.Printf("  Input size:       %s\n", tui.FormatBytes(s.TotalInputBytes))
	fmt.Printf("  Output size:      %s\n", tui.FormatBytes(s.TotalOutputBytes))
	if s.TotalInputBytes > 0 {
		ratio := float64(s.TotalOutputBytes) / float64(s.TotalInputBytes) * 100
		fmt.Printf("  Compression:      %.1f%% of original\n", ratio)
	}
	fmt.Println()

	// Per-format breakdown.
	formatStats := map[string]struct {
		count int
		bytes int64
	}{}
	for _, f := range r.Files {
		if f.Error != "" {
			continue
		}
		fs := formatStats[f.Format]
		fs.count++
		fs.bytes += f.Size
		formatStats[f.Format] = fs
	}
	fmt.Println("  Format breakdown:")
	for _, name := range []string{"jpeg", "png", "bmp", "webp"} {
		if fs, ok := formatStats[name]; ok {
			fmt.Printf("    %-5s  %4d files  %s\n", name, fs.count, tui.FormatBytes(fs.bytes))
		}
	}
	fmt.Println()

	// Scale breakdown: how often the search had to downscale.
	scaleStats := map[float64]int{}
	for _, f := range r.Files {
		if f.Error == "" {
			scaleStats[f.Scale]++
		}
	}
	var scales []float64
	for sc := range scaleStats {
		scales = append(scales, sc)
	}
	sort.Sort(sort.Reverse(sort.Float64Slice(scales)))
	fmt.Println("  Scale breakdown:")
	for _, sc := range scales {
		fmt.Printf("    %5.3f  %4d files\n", sc, scaleStats[sc])
	}

	var warnings []string
	for _, f := range r.Files {
		switch {
		case f.Error != "":
			warnings = append(warnings, fmt.Sprintf("%s: %s", f.Output, f.Error))
		case !f.Achieved:
			warnings = append(warnings, fmt.Sprintf("%s: %s outside band", f.Output, tui.FormatBytes(f.Size)))
		}
	}
	for _, sk := range r.Skipped {
		warnings = append(warnings, fmt.Sprintf("skipped %s: %s", sk.Source, sk.Error))
	}
	if len(warnings) > 0 {
		fmt.Println()
		fmt.Printf("  Warnings (%d):\n", len(warnings))
		for _, w := range warnings {
			fmt.Printf("    ⚠ %s\n", w)
		}
	}
	fmt.Println()
}
