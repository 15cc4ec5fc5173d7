package tag

import (
	"fmt"

	"github.com/utkarsh5026/SourceControl/pkg/objects"
	"github.com/utkarsh5026/SourceControl/pkg/objects/commit"
)

// Builder provides a fluent interface for constructing an annotated Tag,
// deferring validation to Build so callers can set fields in any order.
type Builder struct {
	tag  *Tag
	errs []error
}

// NewBuilder creates a new tag Builder
func NewBuilder() *Builder {
	return &Builder{
		tag:  &Tag{},
		errs: make([]error, 0),
	}
}

// Name sets the tag's name
func (b *Builder) Name(name string) *Builder {
	if name == "" {
		b.errs = append(b.errs, fmt.Errorf("tag name cannot be empty"))
	} else {
		b.tag.Name = name
	}
	return b
}

// TargetHash sets the target object's hash
func (b *Builder) TargetHash(sha objects.ObjectHash) *Builder {
	if err := sha.Validate(); err != nil {
		b.errs = append(b.errs, fmt.Errorf("invalid target SHA: %w", err))
	} else {
		b.tag.TargetSHA = sha
	}
	return b
}

// TargetKind sets the type of object the tag points at
func (b *Builder) TargetKind(kind objects.ObjectType) *Builder {
	if _, err := objects.ParseObjectType(kind.String()); err != nil {
		b.errs = append(b.errs, fmt.Errorf("invalid target kind: %w", err))
	} else {
		b.tag.TargetKind = kind
	}
	return b
}

// Tagger sets the identity that created the tag
func (b *Builder) Tagger(tagger *commit.CommitPerson) *Builder {
	if tagger == nil {
		b.errs = append(b.errs, fmt.Errorf("tagger cannot be nil"))
	} else {
		b.tag.Tagger = tagger
	}
	return b
}

// Message sets the tag's annotation message
func (b *Builder) Message(message string) *Builder {
	b.tag.Message = message
	return b
}

// Build creates the Tag, returning an error if validation fails
func (b *Builder) Build() (*Tag, error) {
	if len(b.errs) > 0 {
		return nil, fmt.Errorf("tag builder errors: %v", b.errs)
	}

	if err := b.tag.Validate(); err != nil {
		return nil, err
	}

	return b.tag, nil
}
