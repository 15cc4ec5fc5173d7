package main

import (
	"fmt"

	"github.com/spf13/cobra"
	"github.com/utkarsh5026/SourceControl/cmd/ui"
	"github.com/utkarsh5026/SourceControl/pkg/index"
)

func newMvCmd() *cobra.Command {
	var force bool
	var dryRun bool

	cmd := &cobra.Command{
		Use:   "mv <source...> <destination>",
		Short: "Move or rename a tracked file or directory",
		Long: `Move or rename a tracked file or directory, updating both the
working directory and the index.

Examples:
  # Rename a tracked file
  srcc mv old.txt new.txt

  # Move files into a directory
  srcc mv a.txt b.txt dest/

  # Preview without touching anything
  srcc mv -n src.txt dst.txt`,
		Args: cobra.MinimumNArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			repo, err := findRepository()
			if err != nil {
				return err
			}

			sources := args[:len(args)-1]
			destination := args[len(args)-1]

			indexMgr := index.NewManager(repo.WorkingDirectory())
			if err := indexMgr.Initialize(); err != nil {
				return fmt.Errorf("failed to initialize index: %w", err)
			}

			result, err := indexMgr.Move(sources, destination, index.MoveOptions{
				Force:  force,
				DryRun: dryRun,
			})
			if err != nil {
				return fmt.Errorf("failed to move: %w", err)
			}

			for _, action := range result.Actions {
				fmt.Printf("%s %s -> %s\n", ui.Green("renamed:"), action.Source, action.Destination)
			}

			return nil
		},
	}

	cmd.Flags().BoolVarP(&force, "force", "f", false, "Overwrite an existing destination")
	cmd.Flags().BoolVarP(&dryRun, "dry-run", "n", false, "Show what would be moved without doing it")

	return cmd
}
