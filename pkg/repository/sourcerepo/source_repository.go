package sourcerepo

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/utkarsh5026/SourceControl/pkg/config"
	"github.com/utkarsh5026/SourceControl/pkg/objects"
	"github.com/utkarsh5026/SourceControl/pkg/objects/blob"
	"github.com/utkarsh5026/SourceControl/pkg/objects/commit"
	"github.com/utkarsh5026/SourceControl/pkg/objects/tag"
	"github.com/utkarsh5026/SourceControl/pkg/objects/tree"
	"github.com/utkarsh5026/SourceControl/pkg/repository/scpath"
	"github.com/utkarsh5026/SourceControl/pkg/store"
)

// SourceRepository is a Git repository implementation that manages the complete Git repository
// structure and provides access to Git objects, references, and configuration.
//
// This struct represents a standard Git repository with the following structure:
// ┌─ <working-directory>/
// │ ├─ .git/ ← Git metadata directory
// │ │ ├─ objects/ ← Object storage (blobs, trees, commits, tags)
// │ │ │ ├─ ab/ ← Object subdirectories (first 2 chars of SHA)
// │ │ │ │ └─ cdef123... ← Object files (remaining 38 chars of SHA)
// │ │ │ ├─ info/ ← reserved, never populated (pack index out of scope)
// │ │ │ └─ pack/ ← reserved, never populated (pack files out of scope)
// │ │ ├─ refs/ ← References (branches and tags)
// │ │ │ ├─ heads/ ← Branch references
// │ │ │ └─ tags/ ← Tag references
// │ │ ├─ info/ ← reserved, never populated (hooks out of scope)
// │ │ ├─ hooks/ ← reserved, never invoked (hook execution out of scope)
// │ │ ├─ HEAD ← Current branch pointer
// │ │ ├─ config ← Repository configuration
// │ │ └─ description ← Repository description
// │ ├─ file1.txt ← Working directory files
// │ ├─ file2.txt
// │ └─ ...
//
// The repository manages both the working directory (user files) and the .git
// directory (metadata and object storage).
type SourceRepository struct {
	workingDir  scpath.RepositoryPath
	sourceDir   scpath.SourcePath
	objectStore store.ObjectStore
	initialized bool
}

// NewSourceRepository creates a new SourceRepository instance
func NewSourceRepository() *SourceRepository {
	return &SourceRepository{
		objectStore: store.NewFileObjectStore(),
		initialized: false,
	}
}

// Initialize creates a new repository at the given path.
// It creates all necessary directory structures and initial files.
//
// Directory structure created:
// - .git/
// - .git/objects/
// - .git/refs/
// - .git/refs/heads/
// - .git/refs/tags/
//
// Files created:
// - .git/HEAD (points to refs/heads/master)
// - .git/config (repository configuration)
// - .git/description (repository description)
func (sr *SourceRepository) Initialize(path scpath.RepositoryPath) error {
	exists, err := RepositoryExists(path)
	if err != nil {
		return fmt.Errorf("failed to check if repository exists: %w", err)
	}
	if exists {
		return NewAlreadyExistsError(path.String())
	}

	sr.workingDir = path
	sr.sourceDir = path.SourcePath()

	// Create directory structure
	if err := sr.createDirectories(); err != nil {
		return fmt.Errorf("failed to create directories: %w", err)
	}

	// Initialize object store
	if err := sr.objectStore.Initialize(sr.workingDir); err != nil {
		return fmt.Errorf("failed to initialize object store: %w", err)
	}

	// Create initial files
	if err := sr.createInitialFiles(); err != nil {
		return fmt.Errorf("failed to create initial files: %w", err)
	}

	sr.initialized = true
	return nil
}

// WorkingDirectory returns the path to the repository's working directory
func (sr *SourceRepository) WorkingDirectory() scpath.RepositoryPath {
	if !sr.initialized {
		panic("repository not initialized")
	}
	return sr.workingDir
}

// SourceDirectory returns the path to the .git directory
func (sr *SourceRepository) SourceDirectory() scpath.SourcePath {
	if !sr.initialized {
		panic("repository not initialized")
	}
	return sr.sourceDir
}

// ObjectStore returns the object store for this repository
func (sr *SourceRepository) ObjectStore() store.ObjectStore {
	return sr.objectStore
}

// ReadObject reads a Git object by its SHA-1 hash
func (sr *SourceRepository) ReadObject(hash objects.ObjectHash) (objects.BaseObject, error) {
	if !sr.initialized {
		return nil, fmt.Errorf("repository not initialized")
	}

	obj, err := sr.objectStore.ReadObject(hash)
	if err != nil {
		return nil, fmt.Errorf("failed to read object: %w", err)
	}
	return obj, nil
}

// ReadCommitObject reads and type-asserts a commit object by its hash.
func (sr *SourceRepository) ReadCommitObject(hash objects.ObjectHash) (*commit.Commit, error) {
	obj, err := sr.ReadObject(hash)
	if err != nil {
		return nil, err
	}

	c, ok := obj.(*commit.Commit)
	if !ok {
		return nil, fmt.Errorf("object %s is a %s, not a commit", hash.Short(), obj.Type())
	}
	return c, nil
}

// ReadTreeObject reads and type-asserts a tree object by its hash.
func (sr *SourceRepository) ReadTreeObject(hash objects.ObjectHash) (*tree.Tree, error) {
	obj, err := sr.ReadObject(hash)
	if err != nil {
		return nil, err
	}

	t, ok := obj.(*tree.Tree)
	if !ok {
		return nil, fmt.Errorf("object %s is a %s, not a tree", hash.Short(), obj.Type())
	}
	return t, nil
}

// ReadBlobObject reads and type-asserts a blob object by its hash.
func (sr *SourceRepository) ReadBlobObject(hash objects.ObjectHash) (*blob.Blob, error) {
	obj, err := sr.ReadObject(hash)
	if err != nil {
		return nil, err
	}

	b, ok := obj.(*blob.Blob)
	if !ok {
		return nil, fmt.Errorf("object %s is a %s, not a blob", hash.Short(), obj.Type())
	}
	return b, nil
}

// ReadTagObject reads and type-asserts an annotated tag object by its hash.
func (sr *SourceRepository) ReadTagObject(hash objects.ObjectHash) (*tag.Tag, error) {
	obj, err := sr.ReadObject(hash)
	if err != nil {
		return nil, err
	}

	t, ok := obj.(*tag.Tag)
	if !ok {
		return nil, fmt.Errorf("object %s is a %s, not a tag", hash.Short(), obj.Type())
	}
	return t, nil
}

// WriteObject writes a Git object to the repository and returns its hash
func (sr *SourceRepository) WriteObject(obj objects.BaseObject) (objects.ObjectHash, error) {
	if !sr.initialized {
		return "", fmt.Errorf("repository not initialized")
	}

	hash, err := sr.objectStore.WriteObject(obj)
	if err != nil {
		return "", fmt.Errorf("failed to write object: %w", err)
	}
	return hash, nil
}

// Exists checks if a repository exists at the working directory
func (sr *SourceRepository) Exists() (bool, error) {
	if !sr.initialized {
		return false, fmt.Errorf("repository not initialized")
	}
	return RepositoryExists(sr.workingDir)
}

// IsInitialized returns whether the repository has been initialized
func (sr *SourceRepository) IsInitialized() bool {
	return sr.initialized
}

// ToRepoPath canonicalizes a filesystem path (absolute, or relative to the
// process's current directory) into a path relative to the repository root.
// Normalization drops "." components and pops one component per "..". If the
// result would escape the repository root, it fails with OutsideRepoError.
//
// The returned RelativePath is the canonical form used as an index/tree
// entry key: forward-slash separated, no leading "./".
func (sr *SourceRepository) ToRepoPath(p string) (scpath.RelativePath, error) {
	if !sr.initialized {
		return "", fmt.Errorf("repository not initialized")
	}

	abs := p
	if !filepath.IsAbs(abs) {
		cwd, err := os.Getwd()
		if err != nil {
			return "", fmt.Errorf("get working directory: %w", err)
		}
		abs = filepath.Join(cwd, p)
	}
	abs = filepath.Clean(abs)

	rel, err := filepath.Rel(sr.workingDir.String(), abs)
	if err != nil {
		return "", fmt.Errorf("compute path relative to repository root: %w", err)
	}
	rel = filepath.ToSlash(rel)

	if rel == ".." || strings.HasPrefix(rel, "../") {
		return "", NewOutsideRepoError(p)
	}
	if rel == "." {
		return scpath.RelativePath(""), nil
	}

	return scpath.RelativePath(rel), nil
}

// createDirectories creates all necessary directories for the repository
func (sr *SourceRepository) createDirectories() error {
	directories := []scpath.SourcePath{
		sr.sourceDir,
		sr.workingDir.ObjectsPath(),
		sr.workingDir.ObjectsPath().Join(scpath.ObjectsInfoDir),
		sr.workingDir.ObjectsPath().Join(scpath.ObjectsPackDir),
		sr.workingDir.RefsPath(),
		sr.workingDir.RefsPath().Join("heads"),
		sr.workingDir.RefsPath().Join("tags"),
		sr.sourceDir.Join(scpath.InfoDir),
		sr.sourceDir.Join(scpath.HooksDir),
	}

	for _, dir := range directories {
		if err := os.MkdirAll(dir.String(), 0755); err != nil {
			return fmt.Errorf("failed to create directory %s: %w", dir, err)
		}
	}

	return nil
}

// createInitialFiles creates the initial files for a new repository
func (sr *SourceRepository) createInitialFiles() error {
	// Create HEAD file
	headContent := "ref: refs/heads/master\n"
	headPath := sr.workingDir.HeadPath()
	if err := os.WriteFile(headPath.String(), []byte(headContent), 0644); err != nil {
		return fmt.Errorf("failed to create HEAD file: %w", err)
	}

	// Create description file
	descriptionContent := "Unnamed repository; edit this file 'description' to name the repository.\n"
	descriptionPath := sr.sourceDir.Join("description")
	if err := os.WriteFile(descriptionPath.String(), []byte(descriptionContent), 0644); err != nil {
		return fmt.Errorf("failed to create description file: %w", err)
	}

	// Create config file
	configContent := `[core]
    repositoryformatversion = 0
    filemode = false
    bare = false
`
	configPath := sr.workingDir.ConfigPath()
	if err := os.WriteFile(configPath.String(), []byte(configContent), 0644); err != nil {
		return fmt.Errorf("failed to create config file: %w", err)
	}

	return nil
}

// FindRepository finds a repository by walking up the directory tree from the start path.
//
// The search starts at startPath and walks up the directory tree until:
// 1. A repository is found (directory containing .git)
// 2. The root of the filesystem is reached, in which case it fails with NotARepositoryError.
//
// Example:
// If startPath is /home/user/project/src/main and a repository exists at /home/user/project,
// this function will find and return that repository.
func FindRepository(startPath scpath.RepositoryPath) (*SourceRepository, error) {
	currentPath := startPath.String()

	for {
		// Check if repository exists at current path
		repoPath, err := scpath.NewRepositoryPath(currentPath)
		if err != nil {
			return nil, fmt.Errorf("failed to create repository path: %w", err)
		}

		exists, err := RepositoryExists(repoPath)
		if err != nil {
			return nil, fmt.Errorf("failed to check repository existence: %w", err)
		}

		if exists {
			return openAt(repoPath)
		}

		// Move up one directory
		parentPath := filepath.Dir(currentPath)

		// Check if we've reached the root
		if parentPath == currentPath {
			return nil, NewNotARepositoryError(startPath.String())
		}

		currentPath = parentPath
	}
}

// FindRepositoryAt behaves like FindRepository, except that when gitDirOverride
// is non-empty it is used directly instead of walking up from startPath: the
// override must already exist, or discovery fails with ExplicitGitDirMissingError.
func FindRepositoryAt(startPath scpath.RepositoryPath, gitDirOverride string) (*SourceRepository, error) {
	if gitDirOverride == "" {
		return FindRepository(startPath)
	}

	info, err := os.Stat(gitDirOverride)
	if err != nil || !info.IsDir() {
		return nil, NewExplicitGitDirMissingError(gitDirOverride)
	}

	workingDir := filepath.Dir(gitDirOverride)
	repoPath, err := scpath.NewRepositoryPath(workingDir)
	if err != nil {
		return nil, fmt.Errorf("failed to create repository path: %w", err)
	}

	return openAt(repoPath)
}

// openAt initializes a SourceRepository rooted at repoPath, whose .git
// directory is already known to exist.
func openAt(repoPath scpath.RepositoryPath) (*SourceRepository, error) {
	repo := NewSourceRepository()
	repo.workingDir = repoPath
	repo.sourceDir = repoPath.SourcePath()

	if err := repo.objectStore.Initialize(repoPath); err != nil {
		return nil, fmt.Errorf("failed to initialize object store: %w", err)
	}

	if err := checkObjectFormat(repoPath); err != nil {
		return nil, err
	}

	repo.initialized = true
	return repo, nil
}

// checkObjectFormat loads repository configuration far enough to read
// extensions.objectformat and rejects anything this module's Hasher can't
// build, rather than silently treating an unknown algorithm tag as sha1.
func checkObjectFormat(repoPath scpath.RepositoryPath) error {
	cfgManager := config.NewManager(repoPath)
	if err := cfgManager.Load(context.Background()); err != nil {
		return fmt.Errorf("failed to load repository config: %w", err)
	}

	entry := cfgManager.Get("extensions.objectformat")
	if entry == nil {
		return nil
	}

	if err := objects.ValidateHashAlgorithm(entry.AsString()); err != nil {
		return fmt.Errorf("open repository: %w", err)
	}
	return nil
}

// RepositoryExists checks if a repository exists at the given path
// by checking for the existence of the .git directory
func RepositoryExists(path scpath.RepositoryPath) (bool, error) {
	sourcePath := path.SourcePath()
	info, err := os.Stat(sourcePath.String())

	if os.IsNotExist(err) {
		return false, nil
	}

	if err != nil {
		return false, fmt.Errorf("failed to check .git directory: %w", err)
	}

	return info.IsDir(), nil
}

// Open opens an existing repository at the given path.
// Returns a NotARepositoryError if the repository doesn't exist.
func Open(path scpath.RepositoryPath) (*SourceRepository, error) {
	exists, err := RepositoryExists(path)
	if err != nil {
		return nil, fmt.Errorf("failed to check repository existence: %w", err)
	}

	if !exists {
		return nil, NewNotARepositoryError(path.String())
	}

	return openAt(path)
}
