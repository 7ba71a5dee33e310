package cli

import (
	"github.com/spf13/cobra"

	"github.com/AnnabellaMondino/rebound"
)

// NewInspectCommand creates the inspect command.
func NewInspectCommand(rootOpts *RootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "inspect <archive>",
		Short: "Print an archive's header and index summary",
		Long: `Print the header metadata and derived time index of an archive.

Example:
  rebound inspect trajectory.bin
  rebound inspect --format json trajectory.bin`,
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			sa, err := rebound.Open(args[0])
			if err != nil {
				return err
			}
			defer sa.Close()

			s := summarize(sa)
			if rootOpts.Format == "json" {
				return renderJSON(cmd.OutOrStdout(), s)
			}
			renderSummaryText(cmd.OutOrStdout(), s)
			return nil
		},
	}
	return cmd
}
