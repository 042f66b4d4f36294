package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"mapvet/internal/diagnostic"
	"mapvet/internal/mapping"
	"mapvet/internal/vet"
)

func newValidateCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "validate FILE...",
		Short: "Report every violation in a set of mapping documents",
		Long: `Loads the YAML documents in the given files, merges them into one
container mapping and reports structural, closure and consistency
violations. Exits with status 1 when any error is found.`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			res, diags, err := a.check(args)
			if err != nil {
				return err
			}

			if err := writeDiagnostics(cmd.OutOrStdout(), a.format, res.Mapping.Conceptual(), diags); err != nil {
				return err
			}

			if diags.HasErrors() {
				return errViolations
			}

			return nil
		},
	}
}

// check loads and builds the files, then runs every validation stage.
// Build diagnostics are reported together with validation findings.
func (a *app) check(files []string) (*mapping.Result, *diagnostic.Diagnostics, error) {
	var docs []*mapping.Document

	for _, file := range files {
		loaded, err := mapping.LoadFile(file)
		if err != nil {
			return nil, nil, err
		}

		docs = append(docs, loaded...)
	}

	res, err := mapping.Build(docs...)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to build mapping: %w", err)
	}

	diags := &diagnostic.Diagnostics{}
	diags.Merge(res.Diagnostics)
	diags.Merge(vet.Run(res.Mapping, res.Catalog,
		vet.WithLogger(a.logger),
		vet.WithSuggestions(a.cfg.Suggestions)))
	diags.Sort()

	return res, diags, nil
}
