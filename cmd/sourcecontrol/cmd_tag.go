package main

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"
	"github.com/utkarsh5026/SourceControl/pkg/objects"
	"github.com/utkarsh5026/SourceControl/pkg/refs/branch"
	"github.com/utkarsh5026/SourceControl/pkg/refs/tagref"
	"github.com/utkarsh5026/SourceControl/pkg/repository/refs"
	"github.com/utkarsh5026/SourceControl/pkg/repository/sourcerepo"
)

func newTagCmd() *cobra.Command {
	var deleteFlag bool
	var listFlag bool
	var forceFlag bool
	var message string

	cmd := &cobra.Command{
		Use:   "tag [tag-name] [target]",
		Short: "Create, list, or delete tags",
		Long: `Create, list, or delete tags.

With no arguments, lists all tags. With a name argument, creates a tag
pointing at HEAD (or at target, if given). A tag created with -m is an
annotated tag; otherwise it's a lightweight tag.

Examples:
  # List all tags
  srcc tag

  # Create a lightweight tag at HEAD
  srcc tag v1.0.0

  # Create a lightweight tag at a specific commit or branch
  srcc tag v1.0.0 abc123

  # Create an annotated tag
  srcc tag -m "Release 1.0.0" v1.0.0

  # Force-overwrite an existing tag
  srcc tag -f v1.0.0

  # Delete a tag
  srcc tag -d v1.0.0`,
		Args: cobra.MaximumNArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			repo, err := findRepository()
			if err != nil {
				return err
			}

			manager := tagref.NewManager(repo)
			ctx := context.Background()
			if err := manager.Initialize(ctx); err != nil {
				return fmt.Errorf("failed to initialize tag manager: %w", err)
			}

			if deleteFlag {
				if len(args) == 0 {
					return fmt.Errorf("tag name required for deletion")
				}
				name := args[0]

				if err := manager.DeleteTag(ctx, name); err != nil {
					return fmt.Errorf("failed to delete tag: %w", err)
				}

				fmt.Printf("Deleted tag %s\n", name)
				return nil
			}

			if len(args) == 0 || listFlag {
				infos, err := manager.ListTags(ctx)
				if err != nil {
					return fmt.Errorf("failed to list tags: %w", err)
				}

				if len(infos) == 0 {
					fmt.Println("No tags found")
					return nil
				}

				for _, info := range infos {
					if info.Annotated {
						fmt.Printf("%-20s %s  %s\n", info.Name, info.SHA.Short(), info.Message)
					} else {
						fmt.Printf("%-20s %s\n", info.Name, info.SHA.Short())
					}
				}

				return nil
			}

			name := args[0]
			target := ""
			if len(args) > 1 {
				target = args[1]
			}

			targetSHA, err := resolveTagTarget(repo, target)
			if err != nil {
				return fmt.Errorf("failed to resolve target: %w", err)
			}

			opts := []tagref.CreateOption{}
			if message != "" {
				opts = append(opts, tagref.WithMessage(message))
			}
			if forceFlag {
				opts = append(opts, tagref.WithForceCreate())
			}

			if _, err := manager.CreateTag(ctx, name, targetSHA, opts...); err != nil {
				return fmt.Errorf("failed to create tag: %w", err)
			}

			fmt.Printf("Created tag %s\n", name)

			return nil
		},
	}

	cmd.Flags().BoolVarP(&deleteFlag, "delete", "d", false, "Delete a tag")
	cmd.Flags().BoolVarP(&listFlag, "list", "l", false, "List all tags")
	cmd.Flags().BoolVarP(&forceFlag, "force", "f", false, "Replace an existing tag")
	cmd.Flags().StringVarP(&message, "message", "m", "", "Annotated tag message")

	return cmd
}

// resolveTagTarget resolves target (a branch name, commit SHA, or empty
// string for HEAD) to the object it names, the same way checkout resolves
// its target argument.
func resolveTagTarget(repo *sourcerepo.SourceRepository, target string) (objects.ObjectHash, error) {
	branchMgr := branch.NewManager(repo)

	if target == "" {
		sha, err := branchMgr.CurrentCommit()
		if err != nil {
			return "", fmt.Errorf("resolve HEAD: %w", err)
		}
		return sha, nil
	}

	refMgr := refs.NewRefManager(repo)
	refSvc := branch.NewRefService(refMgr)

	result, err := branch.ResolveRefOrCommit(target, refSvc, repo, branch.ResolveOptions{})
	if err != nil {
		return "", err
	}
	return result.SHA, nil
}
