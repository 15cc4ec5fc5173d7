package tagref

import (
	"time"

	"github.com/utkarsh5026/SourceControl/pkg/objects"
)

// TagInfo contains detailed information about a tag
type TagInfo struct {
	// Name is the tag name (e.g. "v1.0.0")
	Name string

	// SHA is what refs/tags/<name> itself points at: the target commit's
	// hash for a lightweight tag, or the annotated tag object's own hash
	// for an annotated tag.
	SHA objects.ObjectHash

	// Annotated is true if this tag has a tag object (tagger + message)
	// rather than being a bare pointer at the target.
	Annotated bool

	// TargetSHA is the commit (or other object) the tag ultimately points
	// at. For a lightweight tag this equals SHA; for an annotated tag it is
	// the TargetSHA recorded inside the tag object.
	TargetSHA objects.ObjectHash

	// TaggerName/TaggerEmail/TaggedAt are populated only for annotated tags.
	TaggerName  string
	TaggerEmail string
	TaggedAt    *time.Time

	// Message is the annotation message. Empty for lightweight tags.
	Message string
}

// CreateConfig holds configuration for tag creation
type CreateConfig struct {
	// Message, if non-empty, makes Create build an annotated tag object
	// instead of a lightweight ref pointing straight at the target.
	Message string

	// Force overwrites the tag if it already exists
	Force bool
}

// CreateOption is a functional option for configuring tag creation
type CreateOption func(*CreateConfig)

// WithMessage makes the new tag an annotated tag carrying this message
func WithMessage(message string) CreateOption {
	return func(c *CreateConfig) {
		c.Message = message
	}
}

// WithForceCreate overwrites an existing tag of the same name
func WithForceCreate() CreateOption {
	return func(c *CreateConfig) {
		c.Force = true
	}
}
