package tag

import (
	"fmt"
	"io"
	"strings"

	"github.com/utkarsh5026/SourceControl/pkg/objects"
	"github.com/utkarsh5026/SourceControl/pkg/objects/commit"
)

// Tag represents an annotated tag object.
//
// An annotated tag is a named, described pointer at another object (usually a
// commit, but any object kind is legal). Unlike a lightweight tag — which is
// nothing more than a ref under refs/tags/<name> pointing straight at the
// target's id — an annotated tag is itself a stored object with a tagger
// identity and a free-form message, the same way a commit carries an author.
//
// Tag Object Structure:
// ┌─────────────────────────────────────────────────────────────────┐
// │ Header: "tag" SPACE size NULL                                   │
// │ "object" SPACE target-hex-id LF                                 │
// │ "type" SPACE target-kind LF                                     │
// │ "tag" SPACE tag-name LF                                         │
// │ "tagger" SPACE name SPACE email SPACE unix-millis LF            │
// │ LF                                                              │
// │ tag-message                                                     │
// └─────────────────────────────────────────────────────────────────┘
//
// Example tag object content:
// object 4b825dc642cb6eb9a060e54bf8d69288fbee4904
// type commit
// tag v1.0.0
// tagger John Doe <john@example.com> 1609459200123
//
// Release 1.0.0
type Tag struct {
	Name       string
	TargetSHA  objects.ObjectHash
	TargetKind objects.ObjectType
	Tagger     *commit.CommitPerson
	Message    string
	hash       *objects.ObjectHash
}

// Validate checks that all required fields are present
func (t *Tag) Validate() error {
	if t.Name == "" {
		return fmt.Errorf("tag name is required")
	}
	if t.TargetSHA == "" {
		return fmt.Errorf("target SHA is required")
	}
	if err := t.TargetSHA.Validate(); err != nil {
		return fmt.Errorf("invalid target SHA: %w", err)
	}
	if t.TargetKind == "" {
		return fmt.Errorf("target kind is required")
	}
	if _, err := objects.ParseObjectType(t.TargetKind.String()); err != nil {
		return fmt.Errorf("invalid target kind: %w", err)
	}
	if t.Tagger == nil {
		return fmt.Errorf("tagger is required")
	}
	return nil
}

// Type returns the object type
func (t *Tag) Type() objects.ObjectType {
	return objects.TagType
}

// Content returns the raw content of the tag (without header)
func (t *Tag) Content() (objects.ObjectContent, error) {
	var buf strings.Builder

	buf.WriteString("object ")
	buf.WriteString(t.TargetSHA.String())
	buf.WriteString("\n")

	buf.WriteString("type ")
	buf.WriteString(t.TargetKind.String())
	buf.WriteString("\n")

	buf.WriteString("tag ")
	buf.WriteString(t.Name)
	buf.WriteString("\n")

	buf.WriteString("tagger ")
	buf.WriteString(t.Tagger.FormatForGit())
	buf.WriteString("\n")

	buf.WriteString("\n")
	buf.WriteString(t.Message)

	return objects.ObjectContent(buf.String()), nil
}

// Hash returns the SHA-1 hash of the tag
func (t *Tag) Hash() (objects.ObjectHash, error) {
	if t.hash != nil {
		return *t.hash, nil
	}

	content, err := t.Content()
	if err != nil {
		return "", fmt.Errorf("failed to get content: %w", err)
	}

	hash := objects.ComputeObjectHash(objects.TagType, content)
	t.hash = &hash
	return hash, nil
}

// RawHash returns the SHA-1 hash as a 20-byte array
func (t *Tag) RawHash() (objects.RawHash, error) {
	hash, err := t.Hash()
	if err != nil {
		return objects.RawHash{}, err
	}
	return hash.Raw()
}

// Size returns the size of the content in bytes
func (t *Tag) Size() (objects.ObjectSize, error) {
	content, err := t.Content()
	if err != nil {
		return 0, err
	}
	return content.Size(), nil
}

// Serialize writes the tag in storage format
func (t *Tag) Serialize(w io.Writer) error {
	if err := t.Validate(); err != nil {
		return fmt.Errorf("invalid tag: %w", err)
	}

	content, err := t.Content()
	if err != nil {
		return fmt.Errorf("failed to get content: %w", err)
	}

	serialized := objects.NewSerializedObject(objects.TagType, content)

	if _, err := w.Write(serialized.Bytes()); err != nil {
		return fmt.Errorf("failed to write tag: %w", err)
	}

	return nil
}

// String returns a human-readable representation
func (t *Tag) String() string {
	hash, err := t.Hash()
	if err != nil {
		return fmt.Sprintf("Tag{name: %s, error: %v}", t.Name, err)
	}
	return fmt.Sprintf("Tag{hash: %s, name: %s, target: %s (%s)}",
		hash.Short(), t.Name, t.TargetSHA.Short(), t.TargetKind)
}

// ParseTag parses a tag object from serialized data (with header)
func ParseTag(data []byte) (*Tag, error) {
	content, err := objects.ParseSerializedObject(data, objects.TagType)
	if err != nil {
		return nil, err
	}

	tag, err := parseTagContent(content.String())
	if err != nil {
		return nil, err
	}

	hash := objects.NewObjectHash(objects.SerializedObject(data))
	tag.hash = &hash
	return tag, nil
}

// parseTagContent parses the tag content (without header)
func parseTagContent(content string) (*Tag, error) {
	lines := strings.Split(content, "\n")
	tag := &Tag{}

	messageStartIndex := -1

	for i, line := range lines {
		if strings.TrimSpace(line) == "" {
			messageStartIndex = i + 1
			break
		}

		if err := parseTagLine(tag, line); err != nil {
			return nil, err
		}
	}

	if err := tag.Validate(); err != nil {
		return nil, fmt.Errorf("invalid tag: %w", err)
	}

	if messageStartIndex != -1 && messageStartIndex < len(lines) {
		tag.Message = strings.Join(lines[messageStartIndex:], "\n")
	}

	return tag, nil
}

// parseTagLine parses a single header line
func parseTagLine(tag *Tag, line string) error {
	switch {
	case strings.HasPrefix(line, "object "):
		if tag.TargetSHA != "" {
			return fmt.Errorf("multiple object entries found")
		}
		shaStr := strings.TrimPrefix(line, "object ")
		sha, err := objects.NewObjectHashFromString(shaStr)
		if err != nil {
			return fmt.Errorf("invalid target SHA: %w", err)
		}
		tag.TargetSHA = sha

	case strings.HasPrefix(line, "type "):
		if tag.TargetKind != "" {
			return fmt.Errorf("multiple type entries found")
		}
		kindStr := strings.TrimPrefix(line, "type ")
		kind, err := objects.ParseObjectType(kindStr)
		if err != nil {
			return fmt.Errorf("invalid target kind: %w", err)
		}
		tag.TargetKind = kind

	case strings.HasPrefix(line, "tag "):
		if tag.Name != "" {
			return fmt.Errorf("multiple tag name entries found")
		}
		tag.Name = strings.TrimPrefix(line, "tag ")

	case strings.HasPrefix(line, "tagger "):
		if tag.Tagger != nil {
			return fmt.Errorf("multiple tagger entries found")
		}
		taggerData := strings.TrimPrefix(line, "tagger ")
		tagger, err := commit.ParseCommitPerson(taggerData)
		if err != nil {
			return fmt.Errorf("invalid tagger: %w", err)
		}
		tag.Tagger = tagger

	default:
		return fmt.Errorf("unknown header line: %s", line)
	}

	return nil
}

// Equal compares two tags for equality
func (t *Tag) Equal(other *Tag) bool {
	if other == nil {
		return false
	}
	return t.Name == other.Name &&
		t.TargetSHA == other.TargetSHA &&
		t.TargetKind == other.TargetKind &&
		t.Tagger.Equal(other.Tagger) &&
		t.Message == other.Message
}
