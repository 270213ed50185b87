package cmd

import (
	"context"
	"os"
	"os/signal"
	"path/filepath"
	"time"

	"github.com/spf13/cobra"

	"github.com/AnyUserName/bandfit/internal/jobs"
	"github.com/AnyUserName/bandfit/internal/watch"
)

var (
	watchFlags  jobFlags
	watchSettle time.Duration
)

var watchCmd = &cobra.Command{
	Use:   "watch [flags] <dir>",
	Short: "Fit images as they are dropped into a directory",
	Long: `Watches a directory and runs a batch for new or changed images once
the directory has been quiet for the settle interval. Only one batch runs
at a time; files arriving meanwhile join the next batch.`,
	Args: cobra.ExactArgs(1),
	RunE: runWatch,
}

func init() {
	watchFlags.register(watchCmd)
	watchCmd.Flags().DurationVar(&watchSettle, "settle", watch.DefaultSettle, "quiet time before a batch starts")
	rootCmd.AddCommand(watchCmd)
}

func runWatch(cmd *cobra.Command, args []string) error {
	log := newLogger()

	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	if cfg, err = watchFlags.apply(cmd, cfg); err != nil {
		return err
	}
	band, err := resolveBand(cfg)
	if err != nil {
		return err
	}
	outDir, err := filepath.Abs(cfg.OutputDir)
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	manager := jobs.NewManager(newPipelineConfig(cfg, log))
	callbacks := logCallbacks(log)
	w, err := watch.New(watch.Config{
		Dir:       args[0],
		OutputDir: outDir,
		Band:      band,
		Settle:    watchSettle,
		Log:       log,
		OnJob: func(job *jobs.Job) {
			go callbacks.Dispatch(job.Events())
		},
	}, manager)
	if err != nil {
		return err
	}
	return w.Run(ctx)
}
