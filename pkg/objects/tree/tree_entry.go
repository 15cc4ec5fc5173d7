package tree

import (
	"bufio"
	"fmt"
	"io"
	"strings"

	"github.com/utkarsh5026/SourceControl/pkg/objects"
	"github.com/utkarsh5026/SourceControl/pkg/repository/scpath"
)

// EntryKind distinguishes what a tree entry's child_id points at.
type EntryKind string

const (
	KindTree EntryKind = "tree"
	KindBlob EntryKind = "blob"
)

// TreeEntry represents a single entry in a Git tree object.
//
// Each entry contains:
// - mode: File permissions and type (FileMode)
// - kind: whether the entry's id names a tree or a blob
// - name: Filename or directory name (RelativePath)
// - sha: SHA-1 hash of the referenced object (ObjectHash)
//
// Entry types by mode:
// - 040000: Directory (tree object)
// - 100644: Regular file (blob object)
// - 100755: Executable file (blob object)
// - 120000: Symbolic link (blob object)
// - 160000: Git submodule (commit object)
//
// Serialized format in tree object (textual form, one line per entry):
//
//	<mode> <kind> <hex-id>\t<name>\n
//
// Example serialized entry for "hello.txt" file:
// "100644 blob 30d74d258442c7c65512eafab474568dd706c430\thello.txt"
type TreeEntry struct {
	mode objects.FileMode
	kind EntryKind
	name scpath.RelativePath
	sha  objects.ObjectHash
}

// NewTreeEntry creates a new TreeEntry with validation. The entry's kind is
// derived from mode: directories are tree entries, everything else is a blob.
func NewTreeEntry(mode objects.FileMode, name scpath.RelativePath, sha objects.ObjectHash) (*TreeEntry, error) {
	if !name.IsValid() {
		return nil, fmt.Errorf("invalid path: %s", name)
	}

	if err := sha.Validate(); err != nil {
		return nil, fmt.Errorf("invalid SHA: %w", err)
	}

	kind := KindBlob
	if mode == objects.FileModeDirectory {
		kind = KindTree
	}

	entry := &TreeEntry{
		mode: mode,
		kind: kind,
		name: name.Normalize(),
		sha:  sha,
	}

	return entry, nil
}

// NewTreeEntryFromStrings creates a new TreeEntry from string values (for backward compatibility)
func NewTreeEntryFromStrings(modeStr, kindStr, name, shaStr string) (*TreeEntry, error) {
	mode, err := objects.FromOctalString(modeStr)
	if err != nil {
		return nil, fmt.Errorf("invalid mode: %w", err)
	}

	kind := EntryKind(kindStr)
	if kind != KindTree && kind != KindBlob {
		return nil, fmt.Errorf("invalid tree entry kind %q: %w", kindStr, objects.ErrUnknownKind)
	}

	path, err := scpath.NewRelativePath(name)
	if err != nil {
		return nil, fmt.Errorf("invalid path: %w", err)
	}

	sha, err := objects.ParseObjectHash(shaStr)
	if err != nil {
		return nil, fmt.Errorf("invalid SHA: %w", err)
	}

	return &TreeEntry{mode: mode, kind: kind, name: path, sha: sha}, nil
}

// Mode returns the entry mode
func (e *TreeEntry) Mode() objects.FileMode {
	return e.mode
}

// Kind returns whether this entry names a tree or a blob
func (e *TreeEntry) Kind() EntryKind {
	return e.kind
}

// Name returns the entry name
func (e *TreeEntry) Name() string {
	return e.name.String()
}

// Path returns the entry path
func (e *TreeEntry) Path() scpath.RelativePath {
	return e.name
}

// SHA returns the entry SHA-1 hash
func (e *TreeEntry) SHA() objects.ObjectHash {
	return e.sha
}

// IsDirectory returns true if this entry is a directory
func (e *TreeEntry) IsDirectory() bool {
	return e.kind == KindTree
}

// IsFile returns true if this entry is a regular or executable file
func (e *TreeEntry) IsFile() bool {
	return e.mode == objects.FileModeRegular || e.mode == objects.FileModeExecutable
}

// IsExecutable returns true if this entry is an executable file
func (e *TreeEntry) IsExecutable() bool {
	return e.mode == objects.FileModeExecutable
}

// IsSymbolicLink returns true if this entry is a symbolic link
func (e *TreeEntry) IsSymbolicLink() bool {
	return e.mode == objects.FileModeSymlink
}

// IsSubmodule returns true if this entry is a submodule
func (e *TreeEntry) IsSubmodule() bool {
	return e.mode == objects.FileModeGitlink
}

// line renders the textual entry, without a trailing newline.
func (e *TreeEntry) line() string {
	return fmt.Sprintf("%s %s %s\t%s", e.mode.ToOctalString(), e.kind, e.sha.String(), e.name.String())
}

// Serialize writes the textual entry line, followed by a newline, to w.
// Callers join entries with serializeContent so the final entry's trailing
// newline is the caller's responsibility to elide.
func (e *TreeEntry) Serialize(w io.Writer) error {
	if _, err := io.WriteString(w, e.line()); err != nil {
		return fmt.Errorf("write tree entry: %w", err)
	}
	return nil
}

// CompareTo orders entries the way write-tree groups them: tree (directory)
// entries before blob entries, then ascending by name within each group.
func (e *TreeEntry) CompareTo(other *TreeEntry) int {
	if e.IsDirectory() != other.IsDirectory() {
		if e.IsDirectory() {
			return -1
		}
		return 1
	}
	if e.name == other.name {
		return 0
	}
	if e.name < other.name {
		return -1
	}
	return 1
}

// parseTreeEntryLine parses a single textual tree entry line (no trailing newline).
func parseTreeEntryLine(line string) (*TreeEntry, error) {
	firstSpace := strings.IndexByte(line, ' ')
	if firstSpace == -1 {
		return nil, fmt.Errorf("invalid tree entry %q: %w", line, objects.ErrMissingField)
	}
	modeStr := line[:firstSpace]

	rest := line[firstSpace+1:]
	secondSpace := strings.IndexByte(rest, ' ')
	if secondSpace == -1 {
		return nil, fmt.Errorf("invalid tree entry %q: %w", line, objects.ErrMissingField)
	}
	kindStr := rest[:secondSpace]

	rest = rest[secondSpace+1:]
	tab := strings.IndexByte(rest, '\t')
	if tab == -1 {
		return nil, fmt.Errorf("invalid tree entry %q: %w", line, objects.ErrMissingField)
	}
	idStr := rest[:tab]
	name := rest[tab+1:]

	return NewTreeEntryFromStrings(modeStr, kindStr, name, idStr)
}

// parseTreeEntries parses the full newline-joined textual tree content.
func parseTreeEntries(content []byte) ([]*TreeEntry, error) {
	if len(content) == 0 {
		return nil, nil
	}

	var entries []*TreeEntry
	scanner := bufio.NewScanner(strings.NewReader(string(content)))
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	for scanner.Scan() {
		line := scanner.Text()
		if line == "" {
			continue
		}
		entry, err := parseTreeEntryLine(line)
		if err != nil {
			return nil, err
		}
		entries = append(entries, entry)
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("scan tree content: %w", err)
	}

	return entries, nil
}
