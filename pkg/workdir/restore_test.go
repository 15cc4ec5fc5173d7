package workdir

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/utkarsh5026/SourceControl/pkg/index"
	"github.com/utkarsh5026/SourceControl/pkg/objects/blob"
	"github.com/utkarsh5026/SourceControl/pkg/repository/scpath"
	"github.com/utkarsh5026/SourceControl/pkg/repository/sourcerepo"
)

func setupRestoreTestRepo(t *testing.T) (*sourcerepo.SourceRepository, string) {
	t.Helper()

	tmpDir := t.TempDir()
	repo := sourcerepo.NewSourceRepository()
	if err := repo.Initialize(scpath.RepositoryPath(tmpDir)); err != nil {
		t.Fatalf("failed to initialize repository: %v", err)
	}
	return repo, tmpDir
}

// stageFile writes a blob for content and stages an index entry pointing at it
// for relPath in idx.
func stageFile(t *testing.T, repo *sourcerepo.SourceRepository, idx *index.Index, relPath string, content string) {
	t.Helper()

	b := blob.NewBlob([]byte(content))
	hash, err := repo.WriteObject(b)
	if err != nil {
		t.Fatalf("write blob for %s: %v", relPath, err)
	}

	rel, err := scpath.NewRelativePath(relPath)
	if err != nil {
		t.Fatalf("relative path for %s: %v", relPath, err)
	}

	entry := index.NewEntry(rel)
	entry.BlobHash = hash
	entry.Mode = index.FileModeRegular
	idx.Add(entry)
}

func TestManager_Restore_SingleFile(t *testing.T) {
	repo, workDir := setupRestoreTestRepo(t)
	manager := NewManager(repo)

	idx := index.NewIndex()
	stageFile(t, repo, idx, "a.txt", "staged content")
	if err := idx.Write(manager.indexPath); err != nil {
		t.Fatalf("write index: %v", err)
	}

	if err := os.WriteFile(filepath.Join(workDir, "a.txt"), []byte("unstaged edit"), 0o644); err != nil {
		t.Fatalf("write working copy: %v", err)
	}

	result, err := manager.Restore([]string{"a.txt"})
	if err != nil {
		t.Fatalf("Restore failed: %v", err)
	}
	if len(result.Restored) != 1 {
		t.Fatalf("expected 1 restored path, got %d", len(result.Restored))
	}

	got, err := os.ReadFile(filepath.Join(workDir, "a.txt"))
	if err != nil {
		t.Fatalf("read restored file: %v", err)
	}
	if string(got) != "staged content" {
		t.Errorf("expected restored content %q, got %q", "staged content", string(got))
	}
}

func TestManager_Restore_DirectoryPrefix(t *testing.T) {
	repo, workDir := setupRestoreTestRepo(t)
	manager := NewManager(repo)

	idx := index.NewIndex()
	stageFile(t, repo, idx, "src/a.txt", "content-a")
	stageFile(t, repo, idx, "src/nested/b.txt", "content-b")
	stageFile(t, repo, idx, "other.txt", "content-other")
	if err := idx.Write(manager.indexPath); err != nil {
		t.Fatalf("write index: %v", err)
	}

	result, err := manager.Restore([]string{"src"})
	if err != nil {
		t.Fatalf("Restore failed: %v", err)
	}
	if len(result.Restored) != 2 {
		t.Fatalf("expected 2 restored paths, got %d: %v", len(result.Restored), result.Restored)
	}

	for _, p := range []string{"src/a.txt", "src/nested/b.txt"} {
		if _, err := os.Stat(filepath.Join(workDir, p)); err != nil {
			t.Errorf("expected %s to be written: %v", p, err)
		}
	}
	if _, err := os.Stat(filepath.Join(workDir, "other.txt")); !os.IsNotExist(err) {
		t.Errorf("other.txt should not have been restored, stat err = %v", err)
	}
}

func TestManager_Restore_PathNotInIndex_IsNoOp(t *testing.T) {
	repo, _ := setupRestoreTestRepo(t)
	manager := NewManager(repo)

	idx := index.NewIndex()
	if err := idx.Write(manager.indexPath); err != nil {
		t.Fatalf("write index: %v", err)
	}

	result, err := manager.Restore([]string{"untracked.txt"})
	if err != nil {
		t.Fatalf("Restore failed: %v", err)
	}
	if len(result.Restored) != 0 {
		t.Errorf("expected no restored paths, got %v", result.Restored)
	}
}
