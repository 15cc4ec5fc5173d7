package main

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"
	"github.com/utkarsh5026/SourceControl/cmd/ui"
	"github.com/utkarsh5026/SourceControl/pkg/index"
)

func newRmCmd() *cobra.Command {
	var cached bool
	var ignoreUnmatch bool
	var quiet bool
	var dryRun bool

	cmd := &cobra.Command{
		Use:   "rm <path...>",
		Short: "Remove files from the working directory and the index",
		Long: `Remove files from the index and, unless --cached is given, from the
working directory as well.

Examples:
  # Remove a file from disk and the index
  srcc rm stale.txt

  # Stop tracking a file but keep it on disk
  srcc rm --cached secret.env

  # Don't fail if a path isn't tracked
  srcc rm --ignore-unmatch maybe-tracked.txt`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			repo, err := findRepository()
			if err != nil {
				return err
			}

			indexMgr := index.NewManager(repo.WorkingDirectory())
			if err := indexMgr.Initialize(); err != nil {
				return fmt.Errorf("failed to initialize index: %w", err)
			}

			result, err := indexMgr.Remove(args, index.RemoveOptions{
				CachedOnly:    cached,
				IgnoreUnmatch: ignoreUnmatch,
				DryRun:        dryRun,
				Quiet:         quiet,
				OnRemoved: func(path string) {
					fmt.Printf("%s %s\n", ui.Red("removed:"), path)
				},
			})
			if err != nil {
				if errors.Is(err, index.ErrNoMatches) {
					return fmt.Errorf("no files matched: %w", err)
				}
				return fmt.Errorf("failed to remove: %w", err)
			}

			if dryRun {
				for _, path := range result.Removed {
					fmt.Printf("%s %s\n", ui.Yellow("would remove:"), path)
				}
			}

			return nil
		},
	}

	cmd.Flags().BoolVar(&cached, "cached", false, "Remove from the index only, keep the working-tree file")
	cmd.Flags().BoolVar(&ignoreUnmatch, "ignore-unmatch", false, "Exit successfully when no paths match")
	cmd.Flags().BoolVarP(&quiet, "quiet", "q", false, "Don't print a line for each removed path")
	cmd.Flags().BoolVarP(&dryRun, "dry-run", "n", false, "Show what would be removed without doing it")

	return cmd
}
