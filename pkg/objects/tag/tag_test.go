package tag

import (
	"bytes"
	"strings"
	"testing"
	"time"

	"github.com/utkarsh5026/SourceControl/pkg/objects"
	"github.com/utkarsh5026/SourceControl/pkg/objects/commit"
)

func createTestTagger(name, email string) *commit.CommitPerson {
	person, _ := commit.NewCommitPerson(name, email, time.UnixMilli(1609459200123).UTC())
	return person
}

func TestBuilder(t *testing.T) {
	tagger := createTestTagger("John Doe", "john@example.com")

	t.Run("successful build", func(t *testing.T) {
		tg, err := NewBuilder().
			Name("v1.0.0").
			TargetHash("4b825dc642cb6eb9a060e54bf8d69288fbee4904").
			TargetKind(objects.CommitType).
			Tagger(tagger).
			Message("Release 1.0.0").
			Build()

		if err != nil {
			t.Fatalf("Build() error = %v", err)
		}
		if tg.Name != "v1.0.0" {
			t.Errorf("Name = %v, want v1.0.0", tg.Name)
		}
		if tg.TargetKind != objects.CommitType {
			t.Errorf("TargetKind = %v, want %v", tg.TargetKind, objects.CommitType)
		}
	})

	t.Run("build fails without name", func(t *testing.T) {
		_, err := NewBuilder().
			TargetHash("4b825dc642cb6eb9a060e54bf8d69288fbee4904").
			TargetKind(objects.CommitType).
			Tagger(tagger).
			Build()
		if err == nil {
			t.Error("Build() should fail without name")
		}
	})

	t.Run("build fails without target", func(t *testing.T) {
		_, err := NewBuilder().
			Name("v1.0.0").
			TargetKind(objects.CommitType).
			Tagger(tagger).
			Build()
		if err == nil {
			t.Error("Build() should fail without target SHA")
		}
	})

	t.Run("build fails without tagger", func(t *testing.T) {
		_, err := NewBuilder().
			Name("v1.0.0").
			TargetHash("4b825dc642cb6eb9a060e54bf8d69288fbee4904").
			TargetKind(objects.CommitType).
			Build()
		if err == nil {
			t.Error("Build() should fail without tagger")
		}
	})

	t.Run("build fails with invalid target kind", func(t *testing.T) {
		_, err := NewBuilder().
			Name("v1.0.0").
			TargetHash("4b825dc642cb6eb9a060e54bf8d69288fbee4904").
			TargetKind(objects.ObjectType("bogus")).
			Tagger(tagger).
			Build()
		if err == nil {
			t.Error("Build() should fail with invalid target kind")
		}
	})
}

func TestTag_Type(t *testing.T) {
	tg := &Tag{}
	if tg.Type() != objects.TagType {
		t.Errorf("Type() = %v, want %v", tg.Type(), objects.TagType)
	}
}

func TestTag_Content(t *testing.T) {
	tagger := createTestTagger("John Doe", "john@example.com")

	tg, err := NewBuilder().
		Name("v1.0.0").
		TargetHash("4b825dc642cb6eb9a060e54bf8d69288fbee4904").
		TargetKind(objects.CommitType).
		Tagger(tagger).
		Message("Release 1.0.0").
		Build()
	if err != nil {
		t.Fatalf("Build() error = %v", err)
	}

	contentObj, err := tg.Content()
	if err != nil {
		t.Fatalf("Content() error = %v", err)
	}
	content := contentObj.String()

	if !strings.Contains(content, "object 4b825dc642cb6eb9a060e54bf8d69288fbee4904") {
		t.Error("Content should contain object line")
	}
	if !strings.Contains(content, "type commit") {
		t.Error("Content should contain type line")
	}
	if !strings.Contains(content, "tag v1.0.0") {
		t.Error("Content should contain tag line")
	}
	if !strings.Contains(content, "tagger John Doe <john@example.com>") {
		t.Error("Content should contain tagger line")
	}
	if !strings.Contains(content, "Release 1.0.0") {
		t.Error("Content should contain message")
	}

	lines := strings.Split(content, "\n")
	if !strings.HasPrefix(lines[0], "object ") {
		t.Error("First line should be object")
	}
	if !strings.HasPrefix(lines[1], "type ") {
		t.Error("Second line should be type")
	}
	if !strings.HasPrefix(lines[2], "tag ") {
		t.Error("Third line should be tag")
	}
	if !strings.HasPrefix(lines[3], "tagger ") {
		t.Error("Fourth line should be tagger")
	}
	if lines[4] != "" {
		t.Error("Fifth line should be empty")
	}
}

func TestTag_Serialize(t *testing.T) {
	tagger := createTestTagger("John Doe", "john@example.com")

	tg, _ := NewBuilder().
		Name("v1.0.0").
		TargetHash("4b825dc642cb6eb9a060e54bf8d69288fbee4904").
		TargetKind(objects.CommitType).
		Tagger(tagger).
		Message("Release").
		Build()

	var buf bytes.Buffer
	if err := tg.Serialize(&buf); err != nil {
		t.Fatalf("Serialize() error = %v", err)
	}

	data := buf.Bytes()
	if !bytes.HasPrefix(data, []byte("tag ")) {
		t.Error("Serialized data should start with 'tag '")
	}
	if bytes.IndexByte(data, objects.NullByte) == -1 {
		t.Error("Serialized data should contain null byte")
	}
}

func TestParseTag(t *testing.T) {
	tagger := createTestTagger("John Doe", "john@example.com")

	original, _ := NewBuilder().
		Name("v1.0.0").
		TargetHash("4b825dc642cb6eb9a060e54bf8d69288fbee4904").
		TargetKind(objects.CommitType).
		Tagger(tagger).
		Message("Release 1.0.0\n\nWith notes").
		Build()

	var buf bytes.Buffer
	if err := original.Serialize(&buf); err != nil {
		t.Fatalf("Serialize() error = %v", err)
	}

	parsed, err := ParseTag(buf.Bytes())
	if err != nil {
		t.Fatalf("ParseTag() error = %v", err)
	}

	if parsed.Name != original.Name {
		t.Errorf("Name = %v, want %v", parsed.Name, original.Name)
	}
	if parsed.TargetSHA != original.TargetSHA {
		t.Errorf("TargetSHA = %v, want %v", parsed.TargetSHA, original.TargetSHA)
	}
	if parsed.TargetKind != original.TargetKind {
		t.Errorf("TargetKind = %v, want %v", parsed.TargetKind, original.TargetKind)
	}
	if !parsed.Tagger.Equal(original.Tagger) {
		t.Errorf("Tagger = %v, want %v", parsed.Tagger, original.Tagger)
	}
	if parsed.Message != original.Message {
		t.Errorf("Message = %v, want %v", parsed.Message, original.Message)
	}

	parsedHash, err := parsed.Hash()
	if err != nil {
		t.Fatalf("parsed.Hash() error = %v", err)
	}
	originalHash, err := original.Hash()
	if err != nil {
		t.Fatalf("original.Hash() error = %v", err)
	}
	if parsedHash != originalHash {
		t.Errorf("Hash = %s, want %s", parsedHash, originalHash)
	}
}

func TestParseTag_InvalidData(t *testing.T) {
	tests := []struct {
		name string
		data []byte
	}{
		{
			name: "wrong type",
			data: []byte("blob 10\x00test data"),
		},
		{
			name: "missing object",
			data: []byte("tag 40\x00type commit\ntag v1\ntagger J <j@e.com> 123\n\nmsg"),
		},
		{
			name: "missing type",
			data: []byte("tag 40\x00object 4b825dc642cb6eb9a060e54bf8d69288fbee4904\ntag v1\ntagger J <j@e.com> 123\n\nmsg"),
		},
		{
			name: "unknown target kind",
			data: []byte("tag 40\x00object 4b825dc642cb6eb9a060e54bf8d69288fbee4904\ntype bogus\ntag v1\ntagger J <j@e.com> 123\n\nmsg"),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ParseTag(tt.data)
			if err == nil {
				t.Error("ParseTag() should fail on invalid data")
			}
		})
	}
}

func TestTag_Equal(t *testing.T) {
	tagger := createTestTagger("John Doe", "john@example.com")
	tg1, _ := NewBuilder().
		Name("v1.0.0").
		TargetHash("4b825dc642cb6eb9a060e54bf8d69288fbee4904").
		TargetKind(objects.CommitType).
		Tagger(tagger).
		Message("Release").
		Build()

	tg2, _ := NewBuilder().
		Name("v1.0.0").
		TargetHash("4b825dc642cb6eb9a060e54bf8d69288fbee4904").
		TargetKind(objects.CommitType).
		Tagger(tagger).
		Message("Release").
		Build()

	if !tg1.Equal(tg2) {
		t.Error("identical tags should be equal")
	}

	tg3, _ := NewBuilder().
		Name("v2.0.0").
		TargetHash("4b825dc642cb6eb9a060e54bf8d69288fbee4904").
		TargetKind(objects.CommitType).
		Tagger(tagger).
		Message("Release").
		Build()

	if tg1.Equal(tg3) {
		t.Error("tags with different names should not be equal")
	}

	if tg1.Equal(nil) {
		t.Error("tag should not equal nil")
	}
}
