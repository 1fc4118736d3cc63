package commands

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/haivivi/ogkaraoke/internal/config"
	"github.com/haivivi/ogkaraoke/internal/logging"
)

var (
	verbose bool

	globalConfig  *config.Config
	configLoadErr error
)

var rootCmd = &cobra.Command{
	Use:   "ogkaraoke",
	Short: "Play OgkMP3/OgkCDG karaoke files",
	Long: `ogkaraoke - play karaoke files that pack MP3 audio and CD+G
graphics into a single OGG-framed container.

Configuration is stored in the OS config directory:
  macOS:   ~/Library/Application Support/ogkaraoke/
  Linux:   ~/.config/ogkaraoke/
  Windows: %AppData%/ogkaraoke/

Examples:
  ogkaraoke play song.ogk
  ogkaraoke probe song.ogk`,
	SilenceUsage:  true,
	SilenceErrors: true,
}

// Execute runs the root command.
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	cobra.OnInitialize(initConfig)
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "verbose output")
}

func initConfig() {
	cfg, err := config.Load()
	if err != nil {
		configLoadErr = err
		return
	}
	globalConfig = &cfg
	level := cfg.LogLevel
	if verbose {
		level = "debug"
	}
	if err := logging.Setup(level); err != nil {
		configLoadErr = err
	}
}

// GetConfig returns the global configuration, loading it on demand if
// cobra's init hook has not yet run (e.g. under go test).
func GetConfig() (*config.Config, error) {
	if globalConfig == nil {
		if configLoadErr != nil {
			return nil, fmt.Errorf("config not available: %w", configLoadErr)
		}
		cfg, err := config.Load()
		if err != nil {
			return nil, fmt.Errorf("config not available: %w", err)
		}
		globalConfig = &cfg
	}
	return globalConfig, nil
}

// IsVerbose returns whether verbose mode is enabled.
func IsVerbose() bool {
	return verbose
}
