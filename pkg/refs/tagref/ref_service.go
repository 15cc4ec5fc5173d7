package tagref

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/utkarsh5026/SourceControl/pkg/objects"
	"github.com/utkarsh5026/SourceControl/pkg/repository/refs"
)

const (
	// TagDirName is the directory name for tag refs under refs/
	TagDirName = "tags"
)

// RefService handles low-level tag reference operations. It wraps the
// RefManager to provide tag-specific functionality, the same way
// pkg/refs/branch.RefService wraps it for branches.
type RefService struct {
	refManager *refs.RefManager
}

// NewRefService creates a new tag reference service
func NewRefService(refMgr *refs.RefManager) *RefService {
	return &RefService{
		refManager: refMgr,
	}
}

// Init creates the refs/tags directory. Safe to call repeatedly.
func (rs *RefService) Init() error {
	tagDir := filepath.Join(rs.refManager.GetRefsPath().String(), TagDirName)
	if err := os.MkdirAll(tagDir, 0755); err != nil {
		return fmt.Errorf("create tag directory: %w", err)
	}
	return nil
}

// Create creates a new tag reference pointing at sha. sha is the target
// commit's hash for a lightweight tag, or the annotated tag object's own
// hash for an annotated tag — RefService has no opinion on which; that
// decision belongs to Creator.
//
// Uses CompareAndSet with an empty expected value so two concurrent Create
// calls for the same tag name can't both pass the existence check and then
// silently clobber each other.
func (rs *RefService) Create(name string, sha objects.ObjectHash) error {
	if err := rs.validateTagName(name); err != nil {
		return err
	}

	refPath := rs.tagRefPath(name)

	if err := rs.refManager.CompareAndSet(refPath, sha, ""); err != nil {
		var casErr *refs.CasMismatchError
		if errors.As(err, &casErr) {
			return NewAlreadyExistsError(name)
		}
		return fmt.Errorf("create tag ref: %w", err)
	}

	return nil
}

// Update force-overwrites an existing tag to point at sha, creating it if it
// doesn't already exist.
func (rs *RefService) Update(name string, sha objects.ObjectHash) error {
	if err := rs.validateTagName(name); err != nil {
		return err
	}

	refPath := rs.tagRefPath(name)
	if err := rs.refManager.UpdateRef(refPath, sha); err != nil {
		return fmt.Errorf("update tag ref: %w", err)
	}
	return nil
}

// Delete removes a tag reference
func (rs *RefService) Delete(name string) error {
	if err := rs.validateTagName(name); err != nil {
		return err
	}

	refPath := rs.tagRefPath(name)
	deleted, err := rs.refManager.DeleteRef(refPath)
	if err != nil {
		return fmt.Errorf("delete tag ref: %w", err)
	}
	if !deleted {
		return NewNotFoundError(name)
	}
	return nil
}

// Exists checks if a tag exists
func (rs *RefService) Exists(name string) (bool, error) {
	if err := rs.validateTagName(name); err != nil {
		return false, err
	}

	refPath := rs.tagRefPath(name)
	return rs.refManager.Exists(refPath)
}

// Resolve resolves a tag name to whatever refs/tags/<name> points at
// directly — a commit SHA for a lightweight tag, a tag object's SHA for an
// annotated one.
func (rs *RefService) Resolve(name string) (objects.ObjectHash, error) {
	if err := rs.validateTagName(name); err != nil {
		return "", err
	}

	refPath := rs.tagRefPath(name)
	sha, err := rs.refManager.ResolveToSHA(refPath)
	if err != nil {
		return "", NewNotFoundError(name)
	}
	return sha, nil
}

// List returns all tag names in the repository, lexicographically sorted by
// filepath.Walk's natural directory-then-name traversal.
func (rs *RefService) List() ([]string, error) {
	tagDir := filepath.Join(rs.refManager.GetRefsPath().String(), TagDirName)

	if _, err := os.Stat(tagDir); os.IsNotExist(err) {
		return []string{}, nil
	}

	var tags []string

	err := filepath.Walk(tagDir, func(path string, info os.FileInfo, err error) error {
		if err != nil {
			return err
		}
		if info.IsDir() {
			return nil
		}

		relPath, err := filepath.Rel(tagDir, path)
		if err != nil {
			return err
		}

		tags = append(tags, filepath.ToSlash(relPath))
		return nil
	})

	if err != nil {
		return nil, fmt.Errorf("walk tag directory: %w", err)
	}

	return tags, nil
}

// tagRefPath converts a tag name to its full ref path
func (rs *RefService) tagRefPath(name string) refs.RefPath {
	refPath, _ := refs.NewTagRef(name)
	return refPath
}

// validateTagName validates a tag name according to Git reference rules.
// The authoritative check is refs.RefPath.IsValid applied to the full
// "refs/tags/<name>" path — the same check refs.NewTagRef and
// pkg/refs/branch's validateBranchName build on, so tag and branch names
// can never silently diverge on what counts as valid.
func (rs *RefService) validateTagName(name string) error {
	if name == "" {
		return NewInvalidNameError(name, "tag name cannot be empty")
	}

	if refs.RefPath("refs/tags/"+name).IsValid() {
		return nil
	}

	return NewInvalidNameError(name, "invalid reference name")
}
