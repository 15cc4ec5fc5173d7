package commit

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/utkarsh5026/SourceControl/pkg/objects"
)

// CommitPerson represents author or committer information in a commit.
//
// Commit Person Structure:
// ┌─────────────────────────────────────────────────────────────────┐
// │ Name <email> unix-millis                                        │
// └─────────────────────────────────────────────────────────────────┘
//
// There is no timezone field: the timestamp is a single millisecond-
// resolution Unix time, always read back as UTC.
//
// Example: "John Doe <john@example.com> 1609459200123"
type CommitPerson struct {
	Name  string
	Email string
	When  time.Time
}

// personPattern is the regex pattern for parsing the person format
// Pattern: "Name <email> millis"
var personPattern = regexp.MustCompile(`^(.+) <([^>]+)> (\d+)$`)

// NewCommitPerson creates a new CommitPerson with validation
func NewCommitPerson(name, email string, when time.Time) (*CommitPerson, error) {
	if err := validateName(name); err != nil {
		return nil, err
	}

	if err := validateEmail(email); err != nil {
		return nil, err
	}

	return &CommitPerson{
		Name:  strings.TrimSpace(name),
		Email: strings.TrimSpace(email),
		When:  when,
	}, nil
}

// FormatForGit formats person information as: "Name <email> millis"
func (p *CommitPerson) FormatForGit() string {
	millis := p.When.UnixMilli()
	return fmt.Sprintf("%s <%s> %d", p.Name, p.Email, millis)
}

// ParseCommitPerson parses person information from its serialized form.
// Format: "Name <email> millis"
// Example: "John Doe <john@example.com> 1609459200123"
func ParseCommitPerson(gitFormat string) (*CommitPerson, error) {
	matches := personPattern.FindStringSubmatch(gitFormat)
	if matches == nil {
		return nil, fmt.Errorf("invalid person format: %s", gitFormat)
	}

	name := matches[1]
	email := matches[2]
	millisStr := matches[3]

	millis, err := strconv.ParseInt(millisStr, 10, 64)
	if err != nil {
		return nil, objects.NewParseError("parse_person", objects.CodeBadTimestamp,
			fmt.Errorf("invalid timestamp %q: %w", millisStr, objects.ErrBadTimestamp))
	}

	when := time.UnixMilli(millis).UTC()

	return NewCommitPerson(name, email, when)
}

// String returns a human-readable representation
func (p *CommitPerson) String() string {
	return fmt.Sprintf("%s <%s> at %s", p.Name, p.Email, p.When.Format(time.RFC3339))
}

// Equal compares two CommitPerson instances for equality. Comparison is at
// millisecond resolution since that's what the serialized form preserves.
func (p *CommitPerson) Equal(other *CommitPerson) bool {
	if other == nil {
		return false
	}
	return p.Name == other.Name &&
		p.Email == other.Email &&
		p.When.UnixMilli() == other.When.UnixMilli()
}

// validateName validates the person name
func validateName(name string) error {
	trimmed := strings.TrimSpace(name)
	if trimmed == "" {
		return fmt.Errorf("name cannot be empty")
	}
	return nil
}

// validateEmail validates the email address
func validateEmail(email string) error {
	trimmed := strings.TrimSpace(email)
	if trimmed == "" {
		return fmt.Errorf("email cannot be empty")
	}
	if !strings.Contains(trimmed, "@") {
		return fmt.Errorf("invalid email format: %s", email)
	}
	return nil
}
