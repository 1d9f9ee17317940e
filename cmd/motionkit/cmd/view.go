package cmd

import (
	"github.com/spf13/cobra"

	"github.com/dbsmedya/motionkit/internal/inspector"
)

var viewCmd = &cobra.Command{
	Use:   "view <file> [file2]",
	Short: "Inspect a motion file or compare two",
	Long: `View prints a diagnostic report for a motion file: its keys, required
fields, frame consistency, per-field statistics and health checks.

With a second file, both reports are printed followed by a structural
comparison of their keys and array shapes.

Files that are missing or unreadable are reported and skipped; they do not
change the exit status.

Example:
  motionkit view walk.motion
  motionkit view walk.motion walk_fixed.motion`,
	Args: cobra.RangeArgs(1, 2),
	RunE: runView,
}

func init() {
	viewCmd.Flags().Float64Var(&tolerance, "tolerance", 0,
		"Override allowed quaternion norm deviation from 1")

	rootCmd.AddCommand(viewCmd)
}

func runView(cmd *cobra.Command, args []string) error {
	cfg, log, err := loadRuntime()
	if err != nil {
		return err
	}
	defer func() { _ = log.Sync() }()

	ins := inspector.New(outputWriter, cfg.Inspect, cfg.Output.Color, log)

	// Load failures are already part of the report.
	for _, path := range args {
		_ = ins.Inspect(path)
	}
	if len(args) == 2 {
		_ = ins.Compare(args[0], args[1])
	}
	return nil
}
