package index

import (
	"fmt"
	"os"
	"strings"

	"github.com/utkarsh5026/SourceControl/pkg/common/fileops"
	"github.com/utkarsh5026/SourceControl/pkg/repository/scpath"
)

// MoveOptions configures Move's behavior.
type MoveOptions struct {
	// Force allows overwriting an existing destination file.
	Force bool
	// DryRun computes and returns the action plan without touching anything.
	DryRun bool
}

// MoveAction describes a single source-to-destination rename that Move
// either already applied or, under DryRun, would apply.
type MoveAction struct {
	Source      scpath.RelativePath
	Destination scpath.RelativePath
}

// MoveResult is the outcome of a Move call.
type MoveResult struct {
	Actions []MoveAction
}

// Move renames or moves tracked paths, updating both the working directory
// and the index, the way `git mv` does.
//
// With a single source and destination, it renames source to destination.
// With multiple sources, or a destination that is an existing directory,
// each source is moved into destination, preserving its last path segment.
func (m *Manager) Move(sources []string, destination string, opts MoveOptions) (*MoveResult, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if len(sources) == 0 {
		return nil, fmt.Errorf("move requires at least one source")
	}

	destAbs, destRel, err := m.resolvePaths(destination)
	if err != nil {
		return nil, fmt.Errorf("resolve destination: %w", err)
	}

	destIsDir, err := fileops.IsDirectory(destAbs)
	if err != nil {
		return nil, fmt.Errorf("stat destination: %w", err)
	}

	intoDir := len(sources) > 1 || destIsDir

	var actions []MoveAction
	for _, source := range sources {
		sourceActions, err := m.planMove(source, destAbs, destRel, intoDir, opts)
		if err != nil {
			return nil, fmt.Errorf("move %s: %w", source, err)
		}
		actions = append(actions, sourceActions...)
	}

	if opts.DryRun {
		return &MoveResult{Actions: actions}, nil
	}

	for _, action := range actions {
		if err := m.applyMove(action); err != nil {
			return nil, err
		}
	}

	if err := m.saveIndex(); err != nil {
		return nil, fmt.Errorf("failed to save index: %w", err)
	}

	return &MoveResult{Actions: actions}, nil
}

// planMove validates a single source and computes the action(s) it expands
// to — a directory source expands to one action per tracked file beneath it.
func (m *Manager) planMove(source string, destAbs scpath.AbsolutePath, destRel scpath.RelativePath, intoDir bool, opts MoveOptions) ([]MoveAction, error) {
	sourceAbs, sourceRel, err := m.resolvePaths(source)
	if err != nil {
		return nil, fmt.Errorf("resolve source: %w", err)
	}

	sourceIsDir, err := fileops.IsDirectory(sourceAbs)
	if err != nil {
		return nil, fmt.Errorf("stat source: %w", err)
	}

	if sourceIsDir {
		entries := m.index.RangeWithPrefix(sourceRel)
		if len(entries) == 0 {
			return nil, fmt.Errorf("source directory has no tracked files")
		}

		targetDir := destRel
		if intoDir {
			targetDir = destRel.Join(sourceRel.Base())
		}

		if targetDir.IsInSubdir(sourceRel.String()) {
			return nil, fmt.Errorf("cannot move directory into itself")
		}

		actions := make([]MoveAction, 0, len(entries))
		for _, entry := range entries {
			suffix := strings.TrimPrefix(entry.Path.String(), sourceRel.String())
			suffix = strings.TrimPrefix(suffix, "/")
			actions = append(actions, MoveAction{
				Source:      entry.Path,
				Destination: targetDir.Join(suffix),
			})
		}
		return actions, nil
	}

	if !m.index.Has(sourceRel) {
		return nil, fmt.Errorf("not under version control")
	}

	target := destRel
	if intoDir {
		target = destRel.Join(sourceRel.Base())
	}

	targetAbs := m.repoRoot.Join(target.String())
	exists, err := fileops.Exists(targetAbs)
	if err != nil {
		return nil, fmt.Errorf("stat target: %w", err)
	}
	if exists && !opts.Force {
		return nil, fmt.Errorf("destination already exists (use force to overwrite)")
	}

	return []MoveAction{{Source: sourceRel, Destination: target}}, nil
}

// applyMove performs the filesystem rename and the matching index rename
// for a single planned action. The filesystem is the source of truth: a
// rename failure aborts before the index is touched for that entry.
func (m *Manager) applyMove(action MoveAction) error {
	sourceAbs := m.repoRoot.Join(action.Source.String())
	destAbs := m.repoRoot.Join(action.Destination.String())

	if err := fileops.EnsureParentDir(destAbs); err != nil {
		return fmt.Errorf("ensure destination directory: %w", err)
	}

	if err := os.Rename(sourceAbs.String(), destAbs.String()); err != nil {
		return fmt.Errorf("rename %s to %s: %w", action.Source, action.Destination, err)
	}

	m.index.Rename(action.Source, action.Destination)
	return nil
}
