package workdir

import (
	"fmt"

	"github.com/utkarsh5026/SourceControl/pkg/index"
	"github.com/utkarsh5026/SourceControl/pkg/repository/scpath"
	"github.com/utkarsh5026/SourceControl/pkg/workdir/internal"
)

// RestoreResult reports which paths Restore wrote to the working directory.
type RestoreResult struct {
	Restored []scpath.RelativePath
}

// Restore writes the content the index has staged for each of paths back to
// the working directory, overwriting whatever is there. Unlike UpdateToCommit
// / Switch, the restore source is the index itself, not a commit's tree — a
// path with no staged entry is simply skipped, matching a bare `restore`
// invocation's default (index as source, no --staged/--source override).
func (m *Manager) Restore(paths []string) (RestoreResult, error) {
	idx, err := index.Read(m.indexPath)
	if err != nil {
		return RestoreResult{}, NewIndexError("read", m.indexPath.String(), err)
	}

	var restored []scpath.RelativePath
	for _, p := range paths {
		relPath, err := m.toRelativePath(p)
		if err != nil {
			return RestoreResult{}, fmt.Errorf("resolve path %s: %w", p, err)
		}

		entries := idx.RangeWithPrefix(relPath)
		for _, entry := range entries {
			op := internal.Operation{
				Path:   entry.Path,
				Action: internal.ActionModify,
				SHA:    entry.BlobHash,
				Mode:   entry.Mode,
			}

			if err := m.fileOps.ApplyOperation(op); err != nil {
				return RestoreResult{Restored: restored}, fmt.Errorf("restore %s: %w", entry.Path, err)
			}
			restored = append(restored, entry.Path)
		}
	}

	return RestoreResult{Restored: restored}, nil
}

// toRelativePath normalizes a CLI-supplied path (absolute or
// working-directory-relative) to a repository-relative path.
func (m *Manager) toRelativePath(p string) (scpath.RelativePath, error) {
	if rel, err := scpath.NewRelativePath(p); err == nil {
		return rel, nil
	}

	abs, err := scpath.NewAbsolutePath(p)
	if err != nil {
		return "", err
	}
	return abs.RelativeTo(m.repo.WorkingDirectory())
}
