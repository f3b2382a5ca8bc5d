package cli

import (
	"fmt"
	"os"

	"github.com/leandrodaf/solenoid/internal/score"
	"github.com/spf13/cobra"
)

// NewCompileCommand creates the compile command.
func NewCompileCommand(rootOpts *RootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "compile <in.mid> <out.bin>",
		Short: "Compile a Standard MIDI File into a stored score",
		Long: `Flatten every track of a Standard MIDI File into one tick-ordered list of
note records. The first tempo event fixes the tick duration, which is
printed for use with play --tick-ms or tick_duration_ms in the config.`,
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runCompile(rootOpts, args[0], args[1], cmd)
		},
	}
	return cmd
}

func runCompile(opts *RootOptions, in, out string, cmd *cobra.Command) error {
	f, err := os.Open(in)
	if err != nil {
		return err
	}
	defer f.Close()

	c, err := score.CompileSMF(f)
	if err != nil {
		return fmt.Errorf("compile %s: %w", in, err)
	}
	if err := score.WriteFile(out, c.Events); err != nil {
		return err
	}
	opts.Logger.Info("Score compiled",
		opts.Logger.Field().String("in", in),
		opts.Logger.Field().String("out", out),
		opts.Logger.Field().Int("events", len(c.Events)))

	w := cmd.OutOrStdout()
	fmt.Fprintf(w, "compiled %d events into %s\n", len(c.Events), out)
	fmt.Fprintf(w, "ticks per beat: %d\n", c.TicksPerBeat)
	fmt.Fprintf(w, "tempo: %g BPM\n", c.BPM)
	fmt.Fprintf(w, "tick duration: %.6f ms\n", c.TickDurationMs)
	return nil
}
