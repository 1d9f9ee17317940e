package cmd

import (
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/dbsmedya/motionkit/internal/config"
	"github.com/dbsmedya/motionkit/internal/logger"
)

// Version information (set via ldflags at build time)
var (
	Version = "0.0.1-dev"
	Commit  = "unknown"
)

const defaultConfigFile = "motionkit.yaml"

// outputWriter receives reports, can be overridden in tests
var outputWriter io.Writer = os.Stdout

// setOutputWriter sets the output writer (used for testing)
func setOutputWriter(w io.Writer) {
	outputWriter = w
}

// resetOutputWriter resets output to stdout (used for testing)
func resetOutputWriter() {
	outputWriter = os.Stdout
}

// CLI flags that override config file values
var (
	cfgFile   string
	logLevel  string
	logFormat string
	noColor   bool
	tolerance float64
)

var rootCmd = &cobra.Command{
	Use:   "motionkit",
	Short: "Motion capture file inspector and repair tool",
	Long: `A command line toolkit for humanoid motion clips.

It inspects the structure and numeric health of a motion file, compares two
files side by side, and repairs files that lack the per-body fields needed
by downstream training pipelines.

Features:
  - Required field and frame consistency checks
  - NaN/Inf detection and quaternion normalization checks
  - Structural comparison of two files
  - Placeholder or full biped skeleton synthesis for missing body data`,
	Version: Version,
}

// Execute runs the root command
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func init() {
	// Config file flag
	rootCmd.PersistentFlags().StringVarP(&cfgFile, "config", "c", defaultConfigFile,
		"Path to configuration file (optional)")

	// Logging overrides
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "",
		"Override log level (debug, info, warn, error)")
	rootCmd.PersistentFlags().StringVar(&logFormat, "log-format", "",
		"Override log format (json, text)")

	// Output overrides
	rootCmd.PersistentFlags().BoolVar(&noColor, "no-color", false,
		"Disable colored status marks")
}

// GetConfigFile returns the config file path
func GetConfigFile() string {
	return cfgFile
}

// CLIOverrides contains flag values that override config file settings
type CLIOverrides struct {
	LogLevel            string
	LogFormat           string
	QuaternionTolerance float64
	NoColor             bool
}

// GetCLIOverrides returns the CLI flag override values
func GetCLIOverrides() CLIOverrides {
	return CLIOverrides{
		LogLevel:            logLevel,
		LogFormat:           logFormat,
		QuaternionTolerance: tolerance,
		NoColor:             noColor,
	}
}

// loadRuntime loads configuration, applies flag overrides and builds the
// logger. The default config file may be absent; an explicitly named one
// may not.
func loadRuntime() (*config.Config, *logger.Logger, error) {
	configFile := GetConfigFile()

	var (
		cfg *config.Config
		err error
	)
	if rootCmd.PersistentFlags().Changed("config") {
		cfg, err = config.Load(configFile)
	} else {
		cfg, err = config.LoadOptional(configFile)
	}
	if err != nil {
		return nil, nil, fmt.Errorf("failed to load config: %w", err)
	}

	overrides := GetCLIOverrides()
	cfg.ApplyOverrides(overrides.LogLevel, overrides.LogFormat,
		overrides.QuaternionTolerance, overrides.NoColor)

	if err := cfg.Validate(); err != nil {
		return nil, nil, fmt.Errorf("invalid configuration: %w", err)
	}

	log, err := logger.New(&cfg.Logging)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to initialize logger: %w", err)
	}
	return cfg, log, nil
}
