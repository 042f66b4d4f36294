package main

import (
	"github.com/spf13/cobra"

	"mapvet/internal/cells"
)

func newGroupsCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "groups FILE...",
		Short: "Print the cell groups of a valid mapping",
		Long: `Validates the mapping, then partitions its fragments into cell groups:
cells share a group when they target one table or tables linked by
foreign keys. A mapping without fragments has no cell groups.`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			res, diags, err := a.check(args)
			if err != nil {
				return err
			}

			if diags.HasErrors() {
				if err := writeDiagnostics(cmd.ErrOrStderr(), a.format, res.Mapping.Conceptual(), diags); err != nil {
					return err
				}

				return errViolations
			}

			cache := cells.NewCache(cells.FragmentExtractor{}, cells.WithLogger(a.logger))
			out := cache.Get(res.Mapping, a.cfg.Generation)

			return writeGroups(cmd.OutOrStdout(), a.format, res.Mapping.Conceptual(), a.cfg.Generation, out)
		},
	}
}
