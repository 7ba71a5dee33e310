package cli

import (
	"fmt"
	"log/slog"

	"github.com/spf13/cobra"

	"github.com/AnnabellaMondino/rebound"
)

// RunOptions holds flags for the run command.
type RunOptions struct {
	*RootOptions
	Catalog string
}

// NewRunCommand creates the run command.
func NewRunCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &RunOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "run <scenario.yaml>",
		Short: "Run a simulation scenario and write its archive",
		Long: `Run a simulation described by a YAML scenario file, writing a checkpoint
archive that the other commands can query.

Example:
  rebound run kirkwood.yaml
  rebound run kirkwood.yaml --catalog runs.db`,
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runScenario(opts, args[0], cmd)
		},
	}

	cmd.Flags().StringVar(&opts.Catalog, "catalog", "", "record the finished archive in this catalog database")

	return cmd
}

func runScenario(opts *RunOptions, path string, cmd *cobra.Command) error {
	sc, err := LoadScenario(path)
	if err != nil {
		return err
	}

	sim := rebound.NewSimulation()
	sim.Dt = sc.Dt
	if sc.G != 0 {
		sim.G = sc.G
	}
	sim.MaxDistance = sc.MaxDistance
	for _, p := range sc.Particles {
		sim.Add(rebound.Particle{M: p.M, X: p.X, Y: p.Y, Z: p.Z, VX: p.VX, VY: p.VY, VZ: p.VZ})
	}

	slog.Info("starting run",
		"scenario", sc.Name,
		"run_id", sim.RunID,
		"particles", sim.N(),
		"dt", sim.Dt,
		"interval", sc.Interval,
		"tmax", sc.TMax,
	)

	if err := sim.EnableArchiving(sc.Output, sc.Interval); err != nil {
		return err
	}
	integErr := sim.Integrate(sc.TMax, false)
	if cerr := sim.CloseArchive(); cerr != nil && integErr == nil {
		integErr = cerr
	}
	if integErr != nil {
		return fmt.Errorf("run %s: %w", sc.Name, integErr)
	}

	slog.Info("run complete",
		"scenario", sc.Name,
		"t", sim.T,
		"steps", sim.Steps,
		"walltime_s", sim.Walltime,
		"output", sc.Output,
	)
	fmt.Fprintf(cmd.OutOrStdout(), "wrote %s (run %s, t=%g, %d steps)\n",
		sc.Output, sim.RunID, sim.T, sim.Steps)

	if opts.Catalog != "" {
		if err := catalogArchive(opts.Catalog, sc.Output, sc.Name); err != nil {
			return err
		}
	}
	return nil
}
