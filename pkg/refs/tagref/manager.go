package tagref

import (
	"context"
	"fmt"

	"github.com/utkarsh5026/SourceControl/pkg/config"
	"github.com/utkarsh5026/SourceControl/pkg/objects"
	"github.com/utkarsh5026/SourceControl/pkg/repository/refs"
	"github.com/utkarsh5026/SourceControl/pkg/repository/sourcerepo"
)

// Manager handles tag operations: creation (lightweight and annotated),
// deletion, lookup, and listing.
//
// It coordinates between the RefService (refs/tags/<name> storage) and the
// Creator (annotated tag object construction), the same layering
// pkg/refs/branch.Manager uses for branches.
//
// Thread Safety:
// Manager is not thread-safe. External synchronization is required when
// accessing a Manager instance from multiple goroutines.
type Manager struct {
	repo          *sourcerepo.SourceRepository
	refManager    *refs.RefManager
	tagRefSvc     *RefService
	creator       *Creator
	configManager *config.Manager
}

// NewManager creates a new tag manager instance.
//
// Example:
//
//	repo := sourcerepo.NewSourceRepository()
//	repo.Initialize(scpath.RepositoryPath("/path/to/repo"))
//	mgr := tagref.NewManager(repo)
//	if err := mgr.Initialize(ctx); err != nil {
//	    log.Fatal(err)
//	}
func NewManager(repo *sourcerepo.SourceRepository) *Manager {
	refMgr := refs.NewRefManager(repo)
	tagRefSvc := NewRefService(refMgr)
	configMgr := config.NewManager(repo.WorkingDirectory())
	typedConfig := config.NewTypedConfig(configMgr)
	creator := NewCreator(repo, tagRefSvc, typedConfig)

	return &Manager{
		repo:          repo,
		refManager:    refMgr,
		tagRefSvc:     tagRefSvc,
		creator:       creator,
		configManager: configMgr,
	}
}

// Initialize loads repository configuration and creates the refs/tags
// directory. This should be called once after creating a new Manager
// instance.
func (m *Manager) Initialize(ctx context.Context) error {
	if err := m.configManager.Load(ctx); err != nil {
		return fmt.Errorf("load config: %w", err)
	}
	if err := m.tagRefSvc.Init(); err != nil {
		return fmt.Errorf("init tag ref service: %w", err)
	}
	return nil
}

// CreateTag creates a tag named name pointing at targetSHA. With no options
// it creates a lightweight tag; WithMessage makes it an annotated tag object.
func (m *Manager) CreateTag(ctx context.Context, name string, targetSHA objects.ObjectHash, opts ...CreateOption) (TagInfo, error) {
	cfg := &CreateConfig{}
	for _, opt := range opts {
		opt(cfg)
	}

	info, err := m.creator.Create(ctx, name, targetSHA, cfg)
	if err != nil {
		return TagInfo{}, fmt.Errorf("create tag %s: %w", name, err)
	}
	return *info, nil
}

// DeleteTag removes a tag reference. It does not remove the underlying tag
// object (or the object it targets) from the object store — those are only
// reclaimed by a future garbage-collection pass, out of scope here.
func (m *Manager) DeleteTag(ctx context.Context, name string) error {
	select {
	case <-ctx.Done():
		return ctx.Err()
	default:
	}

	if err := m.tagRefSvc.Delete(name); err != nil {
		return fmt.Errorf("delete tag %s: %w", name, err)
	}
	return nil
}

// GetTag retrieves detailed information about a specific tag, resolving the
// annotated tag object if there is one.
func (m *Manager) GetTag(ctx context.Context, name string) (TagInfo, error) {
	select {
	case <-ctx.Done():
		return TagInfo{}, ctx.Err()
	default:
	}

	sha, err := m.tagRefSvc.Resolve(name)
	if err != nil {
		return TagInfo{}, fmt.Errorf("resolve tag %s: %w", name, err)
	}

	return m.buildInfo(name, sha)
}

// ListTags returns information about every tag in the repository.
func (m *Manager) ListTags(ctx context.Context) ([]TagInfo, error) {
	names, err := m.tagRefSvc.List()
	if err != nil {
		return nil, fmt.Errorf("list tags: %w", err)
	}

	infos := make([]TagInfo, 0, len(names))
	for _, name := range names {
		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		default:
		}

		sha, err := m.tagRefSvc.Resolve(name)
		if err != nil {
			return nil, fmt.Errorf("resolve tag %s: %w", name, err)
		}

		info, err := m.buildInfo(name, sha)
		if err != nil {
			return nil, err
		}
		infos = append(infos, info)
	}

	return infos, nil
}

// TagExists checks if a tag exists
func (m *Manager) TagExists(name string) (bool, error) {
	exists, err := m.tagRefSvc.Exists(name)
	if err != nil {
		return false, fmt.Errorf("check tag exists: %w", err)
	}
	return exists, nil
}

// buildInfo inspects the object sha points at (what refs/tags/<name> itself
// resolves to) and fills in TagInfo, reading through an annotated tag object
// to its target if sha names one.
func (m *Manager) buildInfo(name string, sha objects.ObjectHash) (TagInfo, error) {
	obj, err := m.repo.ReadObject(sha)
	if err != nil {
		return TagInfo{}, fmt.Errorf("read tag target: %w", err)
	}

	if obj.Type() != objects.TagType {
		return TagInfo{
			Name:      name,
			SHA:       sha,
			TargetSHA: sha,
		}, nil
	}

	tagObj, err := m.repo.ReadTagObject(sha)
	if err != nil {
		return TagInfo{}, fmt.Errorf("read tag object: %w", err)
	}

	when := tagObj.Tagger.When
	return TagInfo{
		Name:        name,
		SHA:         sha,
		Annotated:   true,
		TargetSHA:   tagObj.TargetSHA,
		TaggerName:  tagObj.Tagger.Name,
		TaggerEmail: tagObj.Tagger.Email,
		TaggedAt:    &when,
		Message:     tagObj.Message,
	}, nil
}
