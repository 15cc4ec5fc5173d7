package index

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
)

func TestManager_Remove_CachedOnly_KeepsWorkingTreeFile(t *testing.T) {
	m, root := newTestManager(t)
	trackFile(t, m, root, "keep.txt", "hello")

	result, err := m.Remove([]string{"keep.txt"}, RemoveOptions{CachedOnly: true})
	if err != nil {
		t.Fatalf("Remove failed: %v", err)
	}
	if len(result.Removed) != 1 {
		t.Fatalf("expected 1 removed path, got %d", len(result.Removed))
	}

	if m.index.Has(mustRelativePath("keep.txt")) {
		t.Errorf("keep.txt should no longer be indexed")
	}
	if _, err := os.Stat(filepath.Join(root, "keep.txt")); err != nil {
		t.Errorf("keep.txt should still exist on disk: %v", err)
	}
}

func TestManager_Remove_DeletesFromDiskByDefault(t *testing.T) {
	m, root := newTestManager(t)
	trackFile(t, m, root, "gone.txt", "hello")

	if _, err := m.Remove([]string{"gone.txt"}, RemoveOptions{}); err != nil {
		t.Fatalf("Remove failed: %v", err)
	}

	if _, err := os.Stat(filepath.Join(root, "gone.txt")); !os.IsNotExist(err) {
		t.Errorf("expected gone.txt to be deleted, stat err = %v", err)
	}
}

func TestManager_Remove_NoMatches(t *testing.T) {
	m, _ := newTestManager(t)

	_, err := m.Remove([]string{"missing.txt"}, RemoveOptions{})
	if !errors.Is(err, ErrNoMatches) {
		t.Fatalf("expected ErrNoMatches, got %v", err)
	}
}

func TestManager_Remove_IgnoreUnmatch(t *testing.T) {
	m, _ := newTestManager(t)

	result, err := m.Remove([]string{"missing.txt"}, RemoveOptions{IgnoreUnmatch: true})
	if err != nil {
		t.Fatalf("Remove failed: %v", err)
	}
	if len(result.Removed) != 0 {
		t.Errorf("expected no removed paths, got %v", result.Removed)
	}
}

func TestManager_Remove_DryRun_DoesNotTouchAnything(t *testing.T) {
	m, root := newTestManager(t)
	trackFile(t, m, root, "keep.txt", "hello")

	result, err := m.Remove([]string{"keep.txt"}, RemoveOptions{DryRun: true})
	if err != nil {
		t.Fatalf("Remove failed: %v", err)
	}
	if len(result.Removed) != 1 {
		t.Fatalf("expected 1 planned removal, got %d", len(result.Removed))
	}

	if !m.index.Has(mustRelativePath("keep.txt")) {
		t.Errorf("keep.txt should still be indexed under dry-run")
	}
	if _, err := os.Stat(filepath.Join(root, "keep.txt")); err != nil {
		t.Errorf("keep.txt should still exist on disk under dry-run: %v", err)
	}
}

func TestManager_Remove_Quiet_SkipsCallback(t *testing.T) {
	m, root := newTestManager(t)
	trackFile(t, m, root, "keep.txt", "hello")

	called := false
	_, err := m.Remove([]string{"keep.txt"}, RemoveOptions{
		CachedOnly: true,
		Quiet:      true,
		OnRemoved:  func(string) { called = true },
	})
	if err != nil {
		t.Fatalf("Remove failed: %v", err)
	}
	if called {
		t.Errorf("OnRemoved should not be called when Quiet is set")
	}
}
