package cmd

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"github.com/dbsmedya/motionkit/internal/repair"
)

// positionalBool is a boolean flag that remembers how many positional
// arguments had been parsed when it was seen.
type positionalBool struct {
	set  bool
	pos  int
	args func() []string
}

var _ pflag.Value = (*positionalBool)(nil)

func (b *positionalBool) String() string { return strconv.FormatBool(b.set) }

func (b *positionalBool) Type() string { return "bool" }

func (b *positionalBool) Set(s string) error {
	v, err := strconv.ParseBool(s)
	if err != nil {
		return err
	}
	b.set = v
	b.pos = len(b.args())
	return nil
}

func (b *positionalBool) reset() {
	b.set = false
	b.pos = 0
}

var fixFull = &positionalBool{}

var fixCmd = &cobra.Command{
	Use:   "fix <input> [output] | fix <input> --full [output]",
	Short: "Fill in missing body fields of a motion file",
	Long: `Fix writes a copy of a motion file with local_body_pos and link_body_list
filled in. The input must contain fps, root_pos, root_rot and dof_pos.

By default only empty or absent fields are filled: local_body_pos becomes a
copy of root_pos and link_body_list becomes ["pelvis"]. This keeps loaders
working but is not per-body data. The second argument, if any, is the output.

With --full both fields are replaced by a fixed 12-link biped skeleton
repeated for every frame. --full may appear anywhere; the argument right
after it, if any, is the output.

Without an output the result is written next to the input with a "_fixed"
or "_full" suffix. Nothing is written when the input is rejected.

Example:
  motionkit fix walk.motion
  motionkit fix walk.motion --full out.motion`,
	Args: fixArgs,
	RunE: runFix,
}

func init() {
	fixFull.args = func() []string { return fixCmd.Flags().Args() }
	fixCmd.Flags().VarPF(fixFull, "full", "",
		"Synthesize a complete biped skeleton instead of placeholders").NoOptDefVal = "true"

	rootCmd.AddCommand(fixCmd)
}

func fixArgs(cmd *cobra.Command, args []string) error {
	if len(args) < 1 {
		return fmt.Errorf("requires an input file")
	}
	if !fixFull.set && len(args) > 2 {
		return fmt.Errorf("accepts at most 2 arg(s) without --full, received %d", len(args))
	}
	return nil
}

// fixPaths resolves the input and output paths. Without --full the second
// positional is the output. With --full only the positional right after the
// flag is; one that is also the input does not count.
func fixPaths(args []string, full bool, fullPos int) (input, output string) {
	input = args[0]
	switch {
	case !full:
		if len(args) > 1 {
			output = args[1]
		}
	case fullPos >= 1 && fullPos < len(args):
		output = args[fullPos]
	}
	return input, output
}

func runFix(cmd *cobra.Command, args []string) error {
	cfg, log, err := loadRuntime()
	if err != nil {
		return err
	}
	defer func() { _ = log.Sync() }()

	input, output := fixPaths(args, fixFull.set, fixFull.pos)

	r := repair.New(outputWriter, cfg.Repair, cfg.Output.Color, log)
	if fixFull.set {
		_, err = r.SynthesizeFull(input, output)
	} else {
		_, err = r.Fix(input, output)
	}
	if err != nil {
		log.WithFile(input).Debugw("repair failed", "error", err)
		return err
	}
	return nil
}
