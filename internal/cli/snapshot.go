package cli

import (
	"github.com/spf13/cobra"

	"github.com/AnnabellaMondino/rebound"
)

// SnapshotOptions holds flags for the snapshot command.
type SnapshotOptions struct {
	*RootOptions
	Time               float64
	Mode               string
	KeepUnsynchronized bool
}

// NewSnapshotCommand creates the snapshot command.
func NewSnapshotCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &SnapshotOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "snapshot <archive>",
		Short: "Reconstruct and print the state at a requested time",
		Long: `Reconstruct the simulation state at a requested time and print the
particle coordinates.

Modes:
  blob   nearest preceding checkpoint (may lag the requested time)
  close  integrate forward, overshooting by at most one timestep
  exact  integrate forward to the requested time precisely

Example:
  rebound snapshot --time 1250 trajectory.bin
  rebound snapshot --time 1250 --mode exact --format json trajectory.bin`,
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			mode, err := rebound.ParseMode(opts.Mode)
			if err != nil {
				return err
			}
			sa, err := rebound.Open(args[0])
			if err != nil {
				return err
			}
			defer sa.Close()

			sim, err := sa.GetSimulation(opts.Time, mode, opts.KeepUnsynchronized)
			if err != nil {
				return err
			}
			v := snapshotView(args[0], mode, sim)
			if rootOpts.Format == "json" {
				return renderJSON(cmd.OutOrStdout(), v)
			}
			renderSnapshotText(cmd.OutOrStdout(), v)
			return nil
		},
	}

	cmd.Flags().Float64Var(&opts.Time, "time", 0, "simulation time to reconstruct (required)")
	cmd.Flags().StringVar(&opts.Mode, "mode", "close", "reconstruction mode (blob|close|exact)")
	cmd.Flags().BoolVar(&opts.KeepUnsynchronized, "keep-unsynchronized", true, "retain the fast internal representation for cheaper follow-up queries")
	_ = cmd.MarkFlagRequired("time")

	return cmd
}
