package cli

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/AnnabellaMondino/rebound"
	"github.com/AnnabellaMondino/rebound/internal/catalog"
)

// CatalogOptions holds flags for the catalog commands.
type CatalogOptions struct {
	*RootOptions
	Database string
	Name     string
}

// NewCatalogCommand creates the catalog command group.
func NewCatalogCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &CatalogOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "catalog",
		Short: "Maintain a catalog of known archives",
	}
	cmd.PersistentFlags().StringVar(&opts.Database, "db", "", "path to the catalog database (required)")
	_ = cmd.MarkPersistentFlagRequired("db")

	add := &cobra.Command{
		Use:   "add <archive>...",
		Short: "Add archives to the catalog",
		Long: `Open each archive, read its header, and record it in the catalog.
Re-adding a known path updates its entry.

Example:
  rebound catalog add --db runs.db trajectory.bin`,
		Args:          cobra.MinimumNArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			for _, path := range args {
				if err := catalogArchive(opts.Database, path, opts.Name); err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "cataloged %s\n", path)
			}
			return nil
		},
	}
	add.Flags().StringVar(&opts.Name, "name", "", "scenario name to record with the archives")

	list := &cobra.Command{
		Use:           "list",
		Short:         "List cataloged archives",
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			c, err := catalog.Open(opts.Database)
			if err != nil {
				return err
			}
			defer c.Close()

			entries, err := c.List(cmd.Context())
			if err != nil {
				return err
			}
			if rootOpts.Format == "json" {
				return renderJSON(cmd.OutOrStdout(), entries)
			}
			for _, e := range entries {
				fmt.Fprintf(cmd.OutOrStdout(), "%s  run=%s  name=%q  blobs=%d  tmax=%g  %d bytes\n",
					e.Path, e.RunID, e.Name, e.Nblob, e.TMax, e.Size)
			}
			return nil
		},
	}

	cmd.AddCommand(add)
	cmd.AddCommand(list)
	return cmd
}

// catalogArchive opens an archive read-only and records its metadata.
func catalogArchive(dbPath, archivePath, name string) error {
	sa, err := rebound.Open(archivePath)
	if err != nil {
		return err
	}
	defer sa.Close()

	c, err := catalog.Open(dbPath)
	if err != nil {
		return err
	}
	defer c.Close()

	return c.Add(context.Background(), catalog.Entry{
		Path:     archivePath,
		RunID:    sa.RunID().String(),
		Name:     name,
		Nblob:    int64(sa.Len()),
		Dt:       sa.Dt(),
		Interval: sa.Interval(),
		TMax:     sa.TMax(),
		Size:     sa.Size(),
	})
}
