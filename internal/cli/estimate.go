package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/AnnabellaMondino/rebound"
)

// EstimateOptions holds flags for the estimate command.
type EstimateOptions struct {
	*RootOptions
	Times []float64
}

// estimateResult is the JSON rendering of an estimate.
type estimateResult struct {
	Path    string    `json:"path"`
	Times   []float64 `json:"times"`
	Seconds float64   `json:"seconds"`
}

// NewEstimateCommand creates the estimate command.
func NewEstimateCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &EstimateOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "estimate <archive>",
		Short: "Predict the runtime cost of reconstructing states",
		Long: `Predict the wall-clock seconds needed to reconstruct states at the
given times, based on the recorded integration speed of the original run.
With multiple --time flags the estimate assumes an ascending sweep that
reuses each state for the next query.

Example:
  rebound estimate --time 1250 trajectory.bin
  rebound estimate --time 100 --time 200 --time 300 trajectory.bin`,
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			if len(opts.Times) == 0 {
				return fmt.Errorf("at least one --time is required")
			}
			sa, err := rebound.Open(args[0])
			if err != nil {
				return err
			}
			defer sa.Close()

			var seconds float64
			if len(opts.Times) == 1 {
				seconds, err = sa.EstimateTime(opts.Times[0])
			} else {
				seconds, err = sa.EstimateTimes(opts.Times)
			}
			if err != nil {
				return err
			}

			if rootOpts.Format == "json" {
				return renderJSON(cmd.OutOrStdout(), estimateResult{
					Path:    args[0],
					Times:   opts.Times,
					Seconds: seconds,
				})
			}
			fmt.Fprintf(cmd.OutOrStdout(), "estimated runtime: %.3g s\n", seconds)
			return nil
		},
	}

	cmd.Flags().Float64SliceVar(&opts.Times, "time", nil, "simulation time to reconstruct (repeatable)")

	return cmd
}
