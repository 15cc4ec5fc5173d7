package index

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/utkarsh5026/SourceControl/pkg/objects"
	"github.com/utkarsh5026/SourceControl/pkg/repository/scpath"
)

// trackFile writes content to repoRoot/relPath on disk and stages an index
// entry for it, as if `add` had already been run.
func trackFile(t *testing.T, m *Manager, repoRoot string, relPath string, content string) {
	t.Helper()

	abs := filepath.Join(repoRoot, relPath)
	if err := os.MkdirAll(filepath.Dir(abs), 0o755); err != nil {
		t.Fatalf("mkdir parent of %s: %v", relPath, err)
	}
	if err := os.WriteFile(abs, []byte(content), 0o644); err != nil {
		t.Fatalf("write %s: %v", relPath, err)
	}

	info, err := os.Stat(abs)
	if err != nil {
		t.Fatalf("stat %s: %v", relPath, err)
	}

	hash, err := objects.ParseObjectHash(createTestHash(content))
	if err != nil {
		t.Fatalf("parse hash: %v", err)
	}

	rel := mustRelativePath(relPath)
	entry, err := NewEntryFromFileInfo(rel, info, hash)
	if err != nil {
		t.Fatalf("build entry for %s: %v", relPath, err)
	}
	m.index.Add(entry)
}

func newTestManager(t *testing.T) (*Manager, string) {
	t.Helper()

	dir := t.TempDir()
	if err := os.MkdirAll(filepath.Join(dir, scpath.SourceDir), 0o755); err != nil {
		t.Fatalf("mkdir %s: %v", scpath.SourceDir, err)
	}
	repoRoot, err := scpath.NewRepositoryPath(dir)
	if err != nil {
		t.Fatalf("new repository path: %v", err)
	}

	return NewManager(repoRoot), dir
}

func TestManager_Move_SingleRename(t *testing.T) {
	m, root := newTestManager(t)
	trackFile(t, m, root, "old.txt", "hello")

	result, err := m.Move([]string{"old.txt"}, "new.txt", MoveOptions{})
	if err != nil {
		t.Fatalf("Move failed: %v", err)
	}

	if len(result.Actions) != 1 {
		t.Fatalf("expected 1 action, got %d", len(result.Actions))
	}
	if result.Actions[0].Destination.String() != "new.txt" {
		t.Errorf("expected destination new.txt, got %s", result.Actions[0].Destination)
	}

	if _, err := os.Stat(filepath.Join(root, "old.txt")); !os.IsNotExist(err) {
		t.Errorf("expected old.txt to be gone, stat err = %v", err)
	}
	if _, err := os.Stat(filepath.Join(root, "new.txt")); err != nil {
		t.Errorf("expected new.txt to exist: %v", err)
	}

	if m.index.Has(mustRelativePath("old.txt")) {
		t.Errorf("old.txt should no longer be indexed")
	}
	if !m.index.Has(mustRelativePath("new.txt")) {
		t.Errorf("new.txt should be indexed")
	}
}

func TestManager_Move_DestinationExists_RequiresForce(t *testing.T) {
	m, root := newTestManager(t)
	trackFile(t, m, root, "a.txt", "aaa")
	trackFile(t, m, root, "b.txt", "bbb")

	if _, err := m.Move([]string{"a.txt"}, "b.txt", MoveOptions{}); err == nil {
		t.Fatal("expected an error when destination exists without Force")
	}

	result, err := m.Move([]string{"a.txt"}, "b.txt", MoveOptions{Force: true})
	if err != nil {
		t.Fatalf("Move with Force failed: %v", err)
	}
	if len(result.Actions) != 1 {
		t.Fatalf("expected 1 action, got %d", len(result.Actions))
	}
}

func TestManager_Move_MultipleSourcesIntoDirectory(t *testing.T) {
	m, root := newTestManager(t)
	trackFile(t, m, root, "a.txt", "aaa")
	trackFile(t, m, root, "b.txt", "bbb")
	if err := os.MkdirAll(filepath.Join(root, "dest"), 0o755); err != nil {
		t.Fatalf("mkdir dest: %v", err)
	}

	result, err := m.Move([]string{"a.txt", "b.txt"}, "dest", MoveOptions{})
	if err != nil {
		t.Fatalf("Move failed: %v", err)
	}
	if len(result.Actions) != 2 {
		t.Fatalf("expected 2 actions, got %d", len(result.Actions))
	}

	if !m.index.Has(mustRelativePath("dest/a.txt")) || !m.index.Has(mustRelativePath("dest/b.txt")) {
		t.Errorf("expected both files indexed under dest/")
	}
}

func TestManager_Move_DirectorySource(t *testing.T) {
	m, root := newTestManager(t)
	trackFile(t, m, root, "src/a.txt", "aaa")
	trackFile(t, m, root, "src/nested/b.txt", "bbb")

	result, err := m.Move([]string{"src"}, "dst", MoveOptions{})
	if err != nil {
		t.Fatalf("Move failed: %v", err)
	}
	if len(result.Actions) != 2 {
		t.Fatalf("expected 2 actions, got %d", len(result.Actions))
	}

	if !m.index.Has(mustRelativePath("dst/a.txt")) || !m.index.Has(mustRelativePath("dst/nested/b.txt")) {
		t.Errorf("expected both files reindexed under dst/, entries: %v", m.index.Entries)
	}
}

func TestManager_Move_DirectoryIntoItself(t *testing.T) {
	m, root := newTestManager(t)
	trackFile(t, m, root, "src/a.txt", "aaa")

	if _, err := m.Move([]string{"src"}, "src", MoveOptions{}); err == nil {
		t.Fatal("expected an error moving a directory into itself")
	}
}

func TestManager_Move_DryRun_DoesNotTouchAnything(t *testing.T) {
	m, root := newTestManager(t)
	trackFile(t, m, root, "old.txt", "hello")

	result, err := m.Move([]string{"old.txt"}, "new.txt", MoveOptions{DryRun: true})
	if err != nil {
		t.Fatalf("Move failed: %v", err)
	}
	if len(result.Actions) != 1 {
		t.Fatalf("expected 1 planned action, got %d", len(result.Actions))
	}

	if _, err := os.Stat(filepath.Join(root, "old.txt")); err != nil {
		t.Errorf("old.txt should still exist under dry-run: %v", err)
	}
	if !m.index.Has(mustRelativePath("old.txt")) {
		t.Errorf("old.txt should still be indexed under dry-run")
	}
	if m.index.Has(mustRelativePath("new.txt")) {
		t.Errorf("new.txt should not be indexed under dry-run")
	}
}

func TestManager_Move_UntrackedSource(t *testing.T) {
	m, root := newTestManager(t)
	if err := os.WriteFile(filepath.Join(root, "untracked.txt"), []byte("x"), 0o644); err != nil {
		t.Fatalf("write untracked.txt: %v", err)
	}

	if _, err := m.Move([]string{"untracked.txt"}, "new.txt", MoveOptions{}); err == nil {
		t.Fatal("expected an error moving an untracked file")
	}
}
