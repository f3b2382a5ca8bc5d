package cli

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/leandrodaf/solenoid/internal/score"
	"github.com/spf13/cobra"
)

// ScaleOptions holds flags for the scale command.
type ScaleOptions struct {
	*RootOptions
	Channel  uint8
	First    uint8
	Last     uint8
	Velocity uint8
	Ticks    uint32
	BPM      float64
}

// NewScaleCommand creates the scale command.
func NewScaleCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &ScaleOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "scale <out.bin|out.mid>",
		Short: "Write a test scale that strikes each note in turn",
		Long: `Write a score that plays notes first through last on one channel, one beat
each. A .mid or .midi name writes a Standard MIDI File, anything else a
stored score.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runScale(opts, args[0], cmd)
		},
	}

	cmd.Flags().Uint8Var(&opts.Channel, "channel", 0, "instrument channel")
	cmd.Flags().Uint8Var(&opts.First, "first", 57, "first note")
	cmd.Flags().Uint8Var(&opts.Last, "last", 67, "last note")
	cmd.Flags().Uint8Var(&opts.Velocity, "velocity", 100, "note velocity")
	cmd.Flags().Uint32Var(&opts.Ticks, "ticks", score.DemoTicksPerBeat, "ticks per note")
	cmd.Flags().Float64Var(&opts.BPM, "bpm", score.DefaultBPM, "tempo written to MIDI files")

	return cmd
}

func runScale(opts *ScaleOptions, out string, cmd *cobra.Command) error {
	if opts.Last < opts.First {
		return fmt.Errorf("last note %d is below first note %d", opts.Last, opts.First)
	}
	events := score.Scale(opts.Channel, opts.First, opts.Last, opts.Velocity, opts.Ticks)

	switch strings.ToLower(filepath.Ext(out)) {
	case ".mid", ".midi":
		f, err := os.Create(out)
		if err != nil {
			return err
		}
		if err := score.WriteSMF(f, events, score.DemoTicksPerBeat, opts.BPM); err != nil {
			f.Close()
			return err
		}
		if err := f.Close(); err != nil {
			return err
		}
	default:
		if err := score.WriteFile(out, events); err != nil {
			return err
		}
	}

	fmt.Fprintf(cmd.OutOrStdout(), "wrote %d events to %s\n", len(events), out)
	return nil
}
