package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/AnyUserName/bandfit/internal/config"
	"github.com/AnyUserName/bandfit/internal/fit"
)

// jobFlags are the flags shared by run and watch. They override the
// config file when set.
type jobFlags struct {
	outDir  string
	profile string
	minKB   int
	maxKB   int
}

func (f *jobFlags) register(cmd *cobra.Command) {
	cmd.Flags().StringVarP(&f.outDir, "out", "o", "", "output directory (default from config)")
	cmd.Flags().StringVarP(&f.profile, "profile", "p", "", "size band preset, see 'bandfit profiles'")
	cmd.Flags().IntVar(&f.minKB, "min-kb", 0, "band lower bound in KB (clamped to 50-900)")
	cmd.Flags().IntVar(&f.maxKB, "max-kb", 0, "band upper bound in KB (clamped to 100-2048)")
}

// apply merges explicitly set flags into cfg. A new profile drops KB
// bounds that came from the config file.
func (f *jobFlags) apply(cmd *cobra.Command, cfg config.Config) (config.Config, error) {
	changed := cmd.Flags().Changed
	if changed("profile") {
		cfg.Profile = f.profile
		cfg.MinKB, cfg.MaxKB = 0, 0
	}
	if changed("min-kb") {
		cfg.MinKB = f.minKB
	}
	if changed("max-kb") {
		cfg.MaxKB = f.maxKB
	}
	if changed("out") {
		cfg.OutputDir = f.outDir
	}
	if err := cfg.Validate(); err != nil {
		return config.Config{}, err
	}
	return cfg, nil
}

func resolveBand(cfg config.Config) (fit.Band, error) {
	band, err := cfg.Band()
	if err != nil {
		return fit.Band{}, fmt.Errorf("band: %w", err)
	}
	return band, nil
}
