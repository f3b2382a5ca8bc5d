package cli

import (
	"fmt"

	"github.com/leandrodaf/solenoid/sdk/contracts"
	"github.com/leandrodaf/solenoid/sdk/engine"
	"github.com/spf13/cobra"
)

// LiveOptions holds flags for the live command.
type LiveOptions struct {
	*RootOptions
	List   bool
	DryRun bool
}

// NewLiveCommand creates the live command.
func NewLiveCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &LiveOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "live",
		Short: "Strike actuators from a live MIDI input",
		Long: `Listen on the configured MIDI input and strike the mapped actuator for
every note-on, releasing it on the matching note-off.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if opts.List {
				return runListInputs(opts.RootOptions, cmd)
			}
			return runLive(opts, cmd)
		},
	}

	cmd.Flags().BoolVar(&opts.List, "list", false, "list MIDI inputs and exit")
	cmd.Flags().BoolVar(&opts.DryRun, "dry-run", false, "log output changes instead of driving hardware")

	return cmd
}

func runListInputs(opts *RootOptions, cmd *cobra.Command) error {
	devices, err := opts.listInputs()
	if err != nil {
		return err
	}
	for _, d := range devices {
		fmt.Fprintln(cmd.OutOrStdout(), d.String())
	}
	return nil
}

func runLive(opts *LiveOptions, cmd *cobra.Command) error {
	warnIfUnmapped(opts.RootOptions)

	hw, err := opts.openHardware(opts.DryRun)
	if err != nil {
		return err
	}
	defer hw.close()

	tr, err := opts.openTransport()
	if err != nil {
		return err
	}

	eng, err := engine.NewEngine(append(opts.engineOptions(),
		contracts.WithOutputDriver(hw.output),
		contracts.WithLiveTransport(tr),
	)...)
	if err != nil {
		_ = tr.Close()
		return err
	}
	defer eng.Close()

	return eng.Run(cmd.Context())
}
