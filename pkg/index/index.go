package index

import (
	"bytes"
	"crypto/sha1"
	"encoding/binary"
	"fmt"
	"io"
	"sort"
	"strings"

	"github.com/utkarsh5026/SourceControl/pkg/common/fileops"
	"github.com/utkarsh5026/SourceControl/pkg/repository/scpath"
)

// Index represents the Git Index (Staging Area) - the bridge between working directory and commits.
//
// The index is Git's "staging area" - a snapshot of your working directory that
// you're building up for your next commit. It's stored as a binary file at .git/index.
//
// Index File Format:
//
//	┌────────────────────────────────────────┐
//	│ Header (12 bytes)                      │
//	│   Signature: "DIRC" (4 bytes)          │
//	│   Version: 2 (4 bytes)                 │
//	│   Entry Count: N (4 bytes)             │
//	├────────────────────────────────────────┤
//	│ Entries (variable length)              │
//	│   Entry 1                              │
//	│   Entry 2                              │
//	│   ...                                  │
//	│   Entry N                              │
//	├────────────────────────────────────────┤
//	│ Extensions (optional)                  │
//	├────────────────────────────────────────┤
//	│ SHA-1 Checksum (20 bytes)              │
//	└────────────────────────────────────────┘
type Index struct {
	// Version is the index file format version (typically 2)
	Version uint32

	// Entries contains all staged files, sorted by path
	Entries []*Entry
}

// NewIndex creates a new empty index with the default version.
//
// Example:
//
//	idx := NewIndex()
//	fmt.Println(idx.Count()) // Output: 0
func NewIndex() *Index {
	return &Index{
		Version: IndexVersion,
		Entries: make([]*Entry, 0),
	}
}

// Write persists the index to disk at the specified path, atomically
// (temporary file in the same directory, then rename).
// The index is serialized in Git's binary format and includes a SHA-1 checksum.
//
// Parameters:
//   - path: Absolute path where the index file should be written (typically .git/index)
//
// Returns an error if:
//   - Serialization fails
//   - File cannot be written (permissions, disk full, etc.)
func (idx *Index) Write(path scpath.AbsolutePath) error {
	buf := new(bytes.Buffer)

	if err := idx.Serialize(buf); err != nil {
		return fmt.Errorf("failed to serialize index: %w", err)
	}

	if err := fileops.AtomicWrite(path, buf.Bytes(), 0644); err != nil {
		return fmt.Errorf("failed to write index file: %w", err)
	}

	return nil
}

// sortKeyEntry is a zero-value *Entry carrying only the (path, stage) pair
// that Insert/Find binary-search against, so callers don't need to build a
// throwaway full Entry just to look something up.
func sortKeyEntry(path scpath.RelativePath, stage uint8) *Entry {
	return &Entry{Path: path, Stage: stage}
}

// searchIndex returns the position of the first entry whose (path, stage)
// is >= the given key, i.e. the binary-search insertion point. If an entry
// with that exact (path, stage) exists, it is at the returned index.
func (idx *Index) searchIndex(key *Entry) int {
	return sort.Search(len(idx.Entries), func(i int) bool {
		return idx.Entries[i].CompareTo(key) >= 0
	})
}

// Insert locates the entry by (path, stage) via binary search: if found, it
// is replaced in place; otherwise entry is inserted at the binary-search
// insertion point so entries remain sorted by (path, stage).
func (idx *Index) Insert(entry *Entry) {
	i := idx.searchIndex(entry)
	if i < len(idx.Entries) && idx.Entries[i].CompareTo(entry) == 0 {
		idx.Entries[i] = entry
		return
	}

	idx.Entries = append(idx.Entries, nil)
	copy(idx.Entries[i+1:], idx.Entries[i:])
	idx.Entries[i] = entry
}

// FindAtStage binary-searches for the entry at an exact (path, stage).
func (idx *Index) FindAtStage(path scpath.RelativePath, stage uint8) (*Entry, bool) {
	key := sortKeyEntry(path.Normalize(), stage)
	i := idx.searchIndex(key)
	if i < len(idx.Entries) && idx.Entries[i].CompareTo(key) == 0 {
		return idx.Entries[i], true
	}
	return nil, false
}

// Find binary-searches for path at stage 0, the normal (non-conflicted)
// stage. Conflicted entries at stages 1-3 are reached via FindAtStage.
func (idx *Index) Find(path scpath.RelativePath) (*Entry, bool) {
	return idx.FindAtStage(path, 0)
}

// RangeWithPrefix returns all entries whose path lies under the directory
// prefix: the path equals prefix, or starts with "prefix/". The index is
// sorted by path, so this is the contiguous run starting at the
// binary-search insertion point for prefix.
func (idx *Index) RangeWithPrefix(prefix scpath.RelativePath) []*Entry {
	prefixStr := prefix.Normalize().String()
	start := sort.Search(len(idx.Entries), func(i int) bool {
		return idx.Entries[i].Path.String() >= prefixStr
	})

	var matches []*Entry
	for i := start; i < len(idx.Entries); i++ {
		p := idx.Entries[i].Path.String()
		if p == prefixStr || strings.HasPrefix(p, prefixStr+"/") {
			matches = append(matches, idx.Entries[i])
			continue
		}
		if !strings.HasPrefix(p, prefixStr) {
			break
		}
	}
	return matches
}

// RemoveWhere retains only the entries for which keep returns true,
// returning the paths of the entries that were removed.
func (idx *Index) RemoveWhere(keep func(*Entry) bool) []scpath.RelativePath {
	var removed []scpath.RelativePath
	retained := idx.Entries[:0]
	for _, e := range idx.Entries {
		if keep(e) {
			retained = append(retained, e)
		} else {
			removed = append(removed, e.Path)
		}
	}
	idx.Entries = retained
	return removed
}

// Rename moves a staged entry from oldPath to newPath: equivalent to
// removing oldPath and inserting a clone of its entry under newPath.
// Returns false if no entry was staged at oldPath (stage 0).
func (idx *Index) Rename(oldPath, newPath scpath.RelativePath) bool {
	entry, ok := idx.Find(oldPath)
	if !ok {
		return false
	}

	moved := *entry
	moved.Path = newPath.Normalize()
	idx.RemoveWhere(func(e *Entry) bool { return e.Path != oldPath.Normalize() || e.Stage != 0 })
	idx.Insert(&moved)
	return true
}

// Add stages a new file or updates an existing entry in the index at
// stage 0. If an entry with the same path already exists, it is replaced.
//
// Parameters:
//   - entry: The entry to add or update
func (idx *Index) Add(entry *Entry) {
	entry.Stage = 0
	idx.Insert(entry)
}

// Remove unstages a file by removing its stage-0 entry from the index.
//
// Parameters:
//   - path: Relative path of the file to remove
//
// Returns:
//   - true if the entry was found and removed
//   - false if no entry with that path exists
func (idx *Index) Remove(path scpath.RelativePath) bool {
	normalizedPath := path.Normalize()
	removed := idx.RemoveWhere(func(e *Entry) bool {
		return !(e.Path == normalizedPath && e.Stage == 0)
	})
	return len(removed) > 0
}

// Get retrieves the stage-0 entry by its path.
//
// Parameters:
//   - path: Relative path of the file to find
//
// Returns:
//   - The entry if found, along with true
//   - nil and false if not found
func (idx *Index) Get(path scpath.RelativePath) (*Entry, bool) {
	return idx.Find(path)
}

// Has checks if a file is currently staged in the index.
//
// Parameters:
//   - path: Relative path of the file to check
//
// Returns true if the file is staged, false otherwise.
func (idx *Index) Has(path scpath.RelativePath) bool {
	_, ok := idx.Get(path)
	return ok
}

// Clear removes all entries from the index, effectively unstaging all files.
func (idx *Index) Clear() {
	idx.Entries = make([]*Entry, 0)
}

// Paths returns a slice of all staged file paths.
// The returned slice is a copy and can be safely modified.
//
// Returns:
//   - Slice of relative paths for all staged files
func (idx *Index) Paths() []scpath.RelativePath {
	paths := make([]scpath.RelativePath, len(idx.Entries))
	for i, e := range idx.Entries {
		paths[i] = e.Path
	}
	return paths
}

// Count returns the total number of staged files in the index.
//
// Returns the number of entries.
func (idx *Index) Count() int {
	return len(idx.Entries)
}

// Serialize writes the index in Git's binary format to the provided writer.
// The output includes a SHA-1 checksum of all content for integrity verification.
//
// Format:
//  1. Header (12 bytes)
//  2. All entries (variable length)
//  3. SHA-1 checksum (20 bytes)
//
// Parameters:
//   - w: Writer to output the serialized index
//
// Returns an error if writing fails at any stage.
func (idx *Index) Serialize(w io.Writer) error {
	buf := new(bytes.Buffer)

	if err := idx.writeHeader(buf); err != nil {
		return fmt.Errorf("failed to write header: %w", err)
	}

	for _, entry := range idx.Entries {
		if err := entry.Serialize(buf); err != nil {
			return fmt.Errorf("failed to serialize entry %s: %w", entry.Path, err)
		}
	}

	content := buf.Bytes()
	checksum := sha1.Sum(content)

	if _, err := w.Write(content); err != nil {
		return fmt.Errorf("failed to write content: %w", err)
	}
	if _, err := w.Write(checksum[:]); err != nil {
		return fmt.Errorf("failed to write checksum: %w", err)
	}

	return nil
}

// writeHeader writes the 12-byte index header in Git's format.
//
// Header structure:
//   - Signature: "DIRC" (4 bytes)
//   - Version: uint32 big-endian (4 bytes)
//   - Entry count: uint32 big-endian (4 bytes)
//
// Parameters:
//   - w: Writer to output the header
//
// Returns an error if any write operation fails.
func (idx *Index) writeHeader(w io.Writer) error {
	if _, err := w.Write([]byte(IndexSignature)); err != nil {
		return fmt.Errorf("failed to write signature: %w", err)
	}

	if err := binary.Write(w, binary.BigEndian, idx.Version); err != nil {
		return fmt.Errorf("failed to write version: %w", err)
	}

	entryCount := uint32(len(idx.Entries))
	if err := binary.Write(w, binary.BigEndian, entryCount); err != nil {
		return fmt.Errorf("failed to write entry count: %w", err)
	}

	return nil
}

// Deserialize reads an index from binary data in Git's format.
// The data must include a valid header, entries, and matching SHA-1 checksum.
//
// Parameters:
//   - r: Reader containing the serialized index data
//
// Returns an error if:
//   - Data is too small or corrupted
//   - Checksum doesn't match (data integrity failure)
//   - Header is invalid (wrong signature or unsupported version)
//   - Any entry cannot be deserialized
func (idx *Index) Deserialize(r io.Reader) error {
	data, err := io.ReadAll(r)
	if err != nil {
		return fmt.Errorf("failed to read data: %w", err)
	}

	if len(data) < IndexHeaderSize+IndexChecksumSize {
		return fmt.Errorf("invalid index file: too small")
	}

	if err := validateChecksum(data); err != nil {
		return err
	}

	content := data[:len(data)-IndexChecksumSize]
	buf := bytes.NewReader(content)
	if err := idx.readHeader(buf); err != nil {
		return fmt.Errorf("failed to read header: %w", err)
	}

	for i := range idx.Entries {
		entry := &Entry{}
		if _, err := entry.Deserialize(buf); err != nil {
			return fmt.Errorf("failed to deserialize entry %d: %w", i, err)
		}
		idx.Entries[i] = entry
	}

	idx.resort()
	return nil
}

// validateChecksum verifies the SHA-1 checksum of the index data.
// This ensures the index file hasn't been corrupted or tampered with.
//
// Parameters:
//   - data: Complete index file data including checksum
//
// Returns an error if:
//   - Data is too small to contain a checksum
//   - Calculated checksum doesn't match stored checksum
func validateChecksum(data []byte) error {
	if len(data) < IndexHeaderSize+IndexChecksumSize {
		return fmt.Errorf("invalid index file: too small")
	}

	contentSize := len(data) - IndexChecksumSize
	content := data[:contentSize]
	expectedChecksum := data[contentSize:]
	actualChecksum := sha1.Sum(content)

	if !bytes.Equal(expectedChecksum, actualChecksum[:]) {
		return fmt.Errorf("index checksum mismatch")
	}
	return nil
}

// readHeader reads and validates the 12-byte index header.
// Initializes the Entries slice based on the entry count from the header.
//
// Parameters:
//   - r: Reader positioned at the start of the index data
//
// Returns an error if:
//   - Signature is not "DIRC"
//   - Version is not supported (currently only version 2)
//   - Any read operation fails
func (idx *Index) readHeader(r io.Reader) error {
	sig := make([]byte, 4)
	if _, err := io.ReadFull(r, sig); err != nil {
		return fmt.Errorf("failed to read signature: %w", err)
	}
	if string(sig) != IndexSignature {
		return fmt.Errorf("invalid index signature: %s", string(sig))
	}

	if err := binary.Read(r, binary.BigEndian, &idx.Version); err != nil {
		return fmt.Errorf("failed to read version: %w", err)
	}
	if idx.Version != IndexVersion {
		return fmt.Errorf("unsupported index version: %d", idx.Version)
	}

	var entryCount uint32
	if err := binary.Read(r, binary.BigEndian, &entryCount); err != nil {
		return fmt.Errorf("failed to read entry count: %w", err)
	}

	idx.Entries = make([]*Entry, entryCount)
	return nil
}

// resort re-sorts entries by (path, stage). Insert/Rename maintain order
// incrementally, so this exists only for Deserialize, which fills Entries
// by read position rather than by Insert.
func (idx *Index) resort() {
	sort.Slice(idx.Entries, func(i, j int) bool {
		return idx.Entries[i].CompareTo(idx.Entries[j]) < 0
	})
}
