package cmd

import (
	"fmt"
	"runtime"

	"github.com/spf13/cobra"

	"github.com/AnyUserName/bandfit/internal/config"
	"github.com/AnyUserName/bandfit/internal/logging"
)

var (
	version    = "0.1.0"
	verbose    bool
	configPath string
)

var rootCmd = &cobra.Command{
	Use:   "bandfit",
	Short: "Re-encode images so each file lands inside a byte-size band",
	Long: `bandfit re-encodes images so every output lands inside a target
size band, e.g. 100-1024 KB. It lowers quality first, then downscales.

Outputs keep their file name and format. JPEG, PNG, BMP and WebP are
accepted; WebP output needs the cwebp binary.`,
	Version:       version,
	SilenceUsage:  true,
	SilenceErrors: true,
}

func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "verbose output")
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "", "config file (default $XDG_CONFIG_HOME/bandfit/config.yaml)")
	rootCmd.SetVersionTemplate(fmt.Sprintf(
		"bandfit %s (%s/%s, %s)\n",
		version, runtime.GOOS, runtime.GOARCH, runtime.Version(),
	))
}

func newLogger() *logging.Logger {
	return logging.New(nil, verbose)
}

// resolveConfigPath returns --config or the per-user default.
func resolveConfigPath() (string, error) {
	if configPath != "" {
		return configPath, nil
	}
	return config.DefaultPath()
}

// loadConfig reads the config file. Without --config and without a user
// config dir it falls back to the defaults.
func loadConfig() (config.Config, error) {
	path, err := resolveConfigPath()
	if err != nil {
		if configPath == "" {
			return config.Default(), nil
		}
		return config.Config{}, err
	}
	return config.Load(path)
}
