package branch

import (
	"context"
	"fmt"

	"github.com/utkarsh5026/SourceControl/pkg/objects"
	"github.com/utkarsh5026/SourceControl/pkg/repository/sourcerepo"
)

// Delete handles branch deletion operations
type Delete struct {
	repo       *sourcerepo.SourceRepository
	refService *RefService
}

// NewDelete creates a new branch delete service
func NewDelete(repo *sourcerepo.SourceRepository, refSvc *RefService) *Delete {
	return &Delete{
		repo:       repo,
		refService: refSvc,
	}
}

// Delete deletes a branch with the given configuration. Unless config.Force
// is set, the branch's tip must be reachable from the currently checked-out
// branch's history (the commits it points to would not be lost) — mirroring
// Git's default refusal to delete an unmerged branch.
func (d *Delete) Delete(ctx context.Context, name string, config *DeleteConfig) error {
	select {
	case <-ctx.Done():
		return ctx.Err()
	default:
	}

	if err := ValidateBranchName(name); err != nil {
		return err
	}

	err := d.refService.ValidateExists(name)
	if err != nil {
		return err
	}

	current, err := d.refService.Current()
	if err != nil {
		return fmt.Errorf("get current branch: %w", err)
	}
	if current == name {
		return NewIsCurrentError(name)
	}

	if !config.Force && current != "" {
		merged, err := d.IsMerged(ctx, name, current)
		if err != nil {
			return fmt.Errorf("check merge status: %w", err)
		}
		if !merged {
			return NewNotMergedError(name)
		}
	}

	if err := d.refService.Delete(name); err != nil {
		return fmt.Errorf("delete branch: %w", err)
	}

	return nil
}

// DeleteMultiple deletes multiple branches
func (d *Delete) DeleteMultiple(ctx context.Context, names []string, config *DeleteConfig) error {
	var firstError error

	for _, name := range names {
		select {
		case <-ctx.Done():
			return ctx.Err()
		default:
		}

		if err := d.Delete(ctx, name, config); err != nil {
			if firstError == nil {
				firstError = err
			}
		}
	}

	return firstError
}

// IsMerged reports whether branchName's tip commit is reachable by walking
// parent pointers from targetBranch's tip — i.e. whether every commit unique
// to branchName already lives in targetBranch's history. Walks the full
// ancestry rather than a bounded window, since a merge-safety check that
// silently stops early would let a real loss-of-commits slip through.
func (d *Delete) IsMerged(ctx context.Context, branchName, targetBranch string) (bool, error) {
	select {
	case <-ctx.Done():
		return false, ctx.Err()
	default:
	}

	branchSHA, err := d.refService.Resolve(branchName)
	if err != nil {
		return false, fmt.Errorf("resolve %s: %w", branchName, err)
	}

	targetSHA, err := d.refService.Resolve(targetBranch)
	if err != nil {
		return false, fmt.Errorf("resolve %s: %w", targetBranch, err)
	}

	if branchSHA.Equal(targetSHA) {
		return true, nil
	}

	visited := make(map[objects.ObjectHash]bool)
	queue := []objects.ObjectHash{targetSHA}

	for len(queue) > 0 {
		select {
		case <-ctx.Done():
			return false, ctx.Err()
		default:
		}

		sha := queue[0]
		queue = queue[1:]

		if visited[sha] {
			continue
		}
		visited[sha] = true

		if sha.Equal(branchSHA) {
			return true, nil
		}

		c, err := d.repo.ReadCommitObject(sha)
		if err != nil {
			continue
		}

		for _, parent := range c.ParentSHAs {
			if !visited[parent] {
				queue = append(queue, parent)
			}
		}
	}

	return false, nil
}
