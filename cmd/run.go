package cmd

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"github.com/AnyUserName/bandfit/internal/config"
	"github.com/AnyUserName/bandfit/internal/encoder"
	"github.com/AnyUserName/bandfit/internal/fit"
	"github.com/AnyUserName/bandfit/internal/jobs"
	"github.com/AnyUserName/bandfit/internal/logging"
	"github.com/AnyUserName/bandfit/internal/pipeline"
	"github.com/AnyUserName/bandfit/internal/report"
	"github.com/AnyUserName/bandfit/internal/tui"
)

var (
	runFlags    jobFlags
	runNoTUI    bool
	runReport   bool
	runNoOrient bool
)

var runCmd = &cobra.Command{
	Use:   "run [flags] <path>...",
	Short: "Fit images into the size band and write them to the output directory",
	Long: `Re-encodes every supported image (jpg, jpeg, png, bmp, webp) found
in the given files and directories. Each output keeps its file name and
format and is written atomically to the output directory.

Files that cannot be decoded are skipped. Files that cannot reach the
band are still written and reported as outside the band.`,
	Args: cobra.MinimumNArgs(1),
	RunE: runRun,
}

func init() {
	runFlags.register(runCmd)
	runCmd.Flags().BoolVar(&runNoTUI, "no-tui", false, "log progress lines instead of the progress view")
	runCmd.Flags().BoolVar(&runReport, "report", false, "write "+report.FileName+" into the output directory")
	runCmd.Flags().BoolVar(&runNoOrient, "no-orient", false, "ignore the EXIF orientation tag")
	rootCmd.AddCommand(runCmd)
}

func runRun(cmd *cobra.Command, args []string) error {
	start := time.Now()
	log := newLogger()

	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	if cfg, err = runFlags.apply(cmd, cfg); err != nil {
		return err
	}
	if runNoOrient {
		cfg.AutoOrient = false
	}
	band, err := resolveBand(cfg)
	if err != nil {
		return err
	}

	files, err := pipeline.Expand(args)
	if err != nil {
		return err
	}
	if len(pipeline.Filter(files)) == 0 {
		return fmt.Errorf("no supported images in %v", args)
	}

	outDir, err := filepath.Abs(cfg.OutputDir)
	if err != nil {
		return fmt.Errorf("resolve output path: %w", err)
	}

	log.Debugf("output:  %s", outDir)
	log.Debugf("profile: %s, band %s", cfg.Profile, band)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	// The progress view owns the terminal, so the runner stays quiet.
	runnerLog := log
	if !runNoTUI {
		runnerLog = nil
	}
	manager := jobs.NewManager(newPipelineConfig(cfg, runnerLog))
	job, err := manager.Submit(ctx, jobs.Request{Files: files, OutputDir: outDir, Band: band})
	if err != nil {
		return err
	}
	log.Debugf("job %s started", job.ID)

	if runNoTUI {
		logCallbacks(log).Dispatch(job.Events())
	} else {
		model := tui.NewModel("bandfit "+band.String(), job.Events()).WithStop(job.Stop)
		if _, err := tea.NewProgram(model).Run(); err != nil {
			log.Warnf("progress view: %v", err)
			job.Stop()
			for range job.Events() {
			}
		}
	}

	res := job.Wait()
	fmt.Println(tui.RenderSummary("bandfit run", summaryRows(res, band, time.Since(start))))
	fmt.Printf("Output written to: %s\n", outDir)

	if runReport {
		r := report.FromBatch(outDir, band, res)
		r.JobID = job.ID
		r.Profile = cfg.Profile
		path := filepath.Join(outDir, report.FileName)
		if err := report.WriteJSON(r, path); err != nil {
			return fmt.Errorf("write report: %w", err)
		}
		fmt.Printf("Report: %s\n", path)
	}

	if res.Cancelled {
		return errors.New("cancelled")
	}
	return nil
}

func newPipelineConfig(cfg config.Config, log *logging.Logger) pipeline.Config {
	return pipeline.Config{
		Registry:   encoder.NewRegistry(encoder.Options{CWebPPath: cfg.CWebPPath}),
		AutoOrient: cfg.AutoOrient,
		Log:        log,
	}
}

// logCallbacks reports job events as log lines.
func logCallbacks(log *logging.Logger) jobs.Callbacks {
	return jobs.Callbacks{
		OnProgress: func(percent int) {
			log.Debugf("progress %d%%", percent)
		},
		OnFileDone: func(file string, achieved bool, bytes int64) {
			if achieved {
				log.Infof("%s: %s", file, tui.FormatBytes(bytes))
			} else {
				log.Warnf("%s: outside band (%s)", file, tui.FormatBytes(bytes))
			}
		},
		OnFileSkipped: func(file string, err error) {
			log.Warnf("skipped %s: %v", file, err)
		},
		OnJobDone: func(res pipeline.BatchResult) {
			log.Infof("done: %d/%d in band", res.AchievedCount(), len(res.Outcomes))
		},
	}
}

func summaryRows(res pipeline.BatchResult, band fit.Band, elapsed time.Duration) []tui.SummaryRow {
	failed := 0
	for _, o := range res.Outcomes {
		if o.Err != "" {
			failed++
		}
	}
	rows := []tui.SummaryRow{
		{Label: "Band", Value: band.String()},
		{Label: "Files written", Value: fmt.Sprintf("%d", len(res.Outcomes)-failed)},
		{Label: "In band", Value: fmt.Sprintf("%d", res.AchievedCount())},
		{Label: "Failed", Value: fmt.Sprintf("%d", failed)},
		{Label: "Skipped (undecodable)", Value: fmt.Sprintf("%d", len(res.Skipped))},
		{Label: "Total output", Value: tui.FormatBytes(res.TotalBytes())},
		{Label: "Time", Value: elapsed.Round(time.Millisecond).String()},
	}
	if res.Cancelled {
		rows = append(rows, tui.SummaryRow{Label: "Status", Value: "cancelled"})
	}
	return rows
}
