package cli

import (
	"fmt"
	"io"
	"strconv"

	"github.com/leandrodaf/solenoid/internal/playback"
	"github.com/leandrodaf/solenoid/sdk/contracts"
	"github.com/spf13/cobra"
)

// InspectOptions holds flags for the inspect command.
type InspectOptions struct {
	*RootOptions
	TickMs float64
}

// NewInspectCommand creates the inspect command.
func NewInspectCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &InspectOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "inspect [score.bin]",
		Short: "Print the records of a stored score",
		Long: `Validate a stored score and print one line per record with the time at
which playback releases it. Without an argument the built-in demo is shown.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			var path string
			if len(args) == 1 {
				path = args[0]
			}
			name, events, fallback, err := loadScore(path)
			if err != nil {
				return err
			}
			tickMs, err := opts.tickDuration(cmd, opts.TickMs, fallback)
			if err != nil {
				return err
			}
			writeInspect(cmd.OutOrStdout(), name, events, tickMs)
			return nil
		},
	}

	cmd.Flags().Float64Var(&opts.TickMs, "tick-ms", 0, "milliseconds per tick used for the time column")

	return cmd
}

// writeInspect prints a score listing. Without a tick duration the time column is "-".
func writeInspect(w io.Writer, name string, events []contracts.Event, tickMs float64) {
	fmt.Fprintf(w, "score: %s\n", name)
	fmt.Fprintf(w, "events: %d\n", len(events))
	if tickMs > 0 {
		fmt.Fprintf(w, "tick duration: %.6f ms\n", tickMs)
		if n := len(events); n > 0 {
			fmt.Fprintf(w, "length: %d ms\n", playback.TargetMillis(events[n-1].Ticks, tickMs))
		}
	} else {
		fmt.Fprintln(w, "tick duration: unknown")
	}

	fmt.Fprintln(w)
	fmt.Fprintf(w, "%5s  %-8s  %3s  %4s  %3s  %8s  %8s\n", "#", "kind", "ch", "note", "vel", "ticks", "at_ms")
	for i, ev := range events {
		at := "-"
		if tickMs > 0 {
			at = strconv.FormatInt(playback.TargetMillis(ev.Ticks, tickMs), 10)
		}
		fmt.Fprintf(w, "%5d  %-8s  %3d  %4d  %3d  %8d  %8s\n",
			i, ev.Kind, ev.Channel, ev.Note, ev.Velocity, ev.Ticks, at)
	}
}
