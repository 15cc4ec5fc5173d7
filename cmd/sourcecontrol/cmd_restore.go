package main

import (
	"fmt"

	"github.com/spf13/cobra"
	"github.com/utkarsh5026/SourceControl/cmd/ui"
	"github.com/utkarsh5026/SourceControl/pkg/workdir"
)

func newRestoreCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "restore <path...>",
		Short: "Restore working tree files from the index",
		Long: `Restore writes the content staged in the index for each path back
to the working directory, discarding any unstaged changes.

Examples:
  # Discard unstaged edits to a file
  srcc restore config.yaml

  # Restore everything staged under a directory
  srcc restore src/`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			repo, err := findRepository()
			if err != nil {
				return err
			}

			manager := workdir.NewManager(repo)

			result, err := manager.Restore(args)
			if err != nil {
				return fmt.Errorf("failed to restore: %w", err)
			}

			for _, path := range result.Restored {
				fmt.Printf("%s %s\n", ui.Green("restored:"), path)
			}

			return nil
		},
	}

	return cmd
}
