package tagref

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/utkarsh5026/SourceControl/pkg/config"
	"github.com/utkarsh5026/SourceControl/pkg/objects"
	"github.com/utkarsh5026/SourceControl/pkg/objects/commit"
	"github.com/utkarsh5026/SourceControl/pkg/objects/tag"
	"github.com/utkarsh5026/SourceControl/pkg/repository/sourcerepo"
)

// ErrIdentityUnset indicates neither config nor environment supplies a
// tagger identity, mirroring commitmanager's ErrIdentityUnset for the
// author/committer identity.
var ErrIdentityUnset = fmt.Errorf("tagger identity unknown: set user.name and user.email in config")

// Creator handles tag creation, building either a lightweight ref or an
// annotated tag object depending on the configuration it's given.
type Creator struct {
	repo        *sourcerepo.SourceRepository
	refService  *RefService
	typedConfig *config.TypedConfig
}

// NewCreator creates a new tag creator service
func NewCreator(repo *sourcerepo.SourceRepository, refSvc *RefService, typedConfig *config.TypedConfig) *Creator {
	return &Creator{
		repo:        repo,
		refService:  refSvc,
		typedConfig: typedConfig,
	}
}

// Create tags targetSHA under name. If config.Message is empty it creates a
// lightweight tag (refs/tags/<name> points directly at targetSHA); otherwise
// it builds and writes an annotated tag object and points refs/tags/<name>
// at that object instead.
func (c *Creator) Create(ctx context.Context, name string, targetSHA objects.ObjectHash, cfg *CreateConfig) (*TagInfo, error) {
	select {
	case <-ctx.Done():
		return nil, ctx.Err()
	default:
	}

	if err := c.verifyTargetExists(targetSHA); err != nil {
		return nil, fmt.Errorf("verify target: %w", err)
	}

	if !cfg.Force {
		exists, err := c.refService.Exists(name)
		if err != nil {
			return nil, fmt.Errorf("check tag exists: %w", err)
		}
		if exists {
			return nil, NewAlreadyExistsError(name)
		}
	}

	if cfg.Message == "" {
		return c.createLightweight(name, targetSHA)
	}
	return c.createAnnotated(name, targetSHA, cfg.Message)
}

func (c *Creator) createLightweight(name string, targetSHA objects.ObjectHash) (*TagInfo, error) {
	if err := c.writeRef(name, targetSHA); err != nil {
		return nil, err
	}

	return &TagInfo{
		Name:      name,
		SHA:       targetSHA,
		TargetSHA: targetSHA,
	}, nil
}

func (c *Creator) createAnnotated(name string, targetSHA objects.ObjectHash, message string) (*TagInfo, error) {
	targetObj, err := c.repo.ReadObject(targetSHA)
	if err != nil {
		return nil, fmt.Errorf("read target object: %w", err)
	}

	tagger, err := c.getTagger()
	if err != nil {
		return nil, fmt.Errorf("resolve tagger: %w", err)
	}

	tagObj, err := tag.NewBuilder().
		Name(name).
		TargetHash(targetSHA).
		TargetKind(targetObj.Type()).
		Tagger(tagger).
		Message(message).
		Build()
	if err != nil {
		return nil, fmt.Errorf("build tag object: %w", err)
	}

	tagSHA, err := c.repo.WriteObject(tagObj)
	if err != nil {
		return nil, fmt.Errorf("write tag object: %w", err)
	}

	if err := c.writeRef(name, tagSHA); err != nil {
		return nil, err
	}

	when := tagger.When
	return &TagInfo{
		Name:        name,
		SHA:         tagSHA,
		Annotated:   true,
		TargetSHA:   targetSHA,
		TaggerName:  tagger.Name,
		TaggerEmail: tagger.Email,
		TaggedAt:    &when,
		Message:     message,
	}, nil
}

func (c *Creator) writeRef(name string, sha objects.ObjectHash) error {
	exists, err := c.refService.Exists(name)
	if err != nil {
		return fmt.Errorf("check tag exists: %w", err)
	}

	if exists {
		if err := c.refService.Update(name, sha); err != nil {
			return fmt.Errorf("update tag ref: %w", err)
		}
		return nil
	}

	if err := c.refService.Create(name, sha); err != nil {
		return fmt.Errorf("create tag ref: %w", err)
	}
	return nil
}

func (c *Creator) verifyTargetExists(sha objects.ObjectHash) error {
	exists, err := c.repo.ObjectStore().HasObject(sha)
	if err != nil || !exists {
		return fmt.Errorf("object %s does not exist: %w", sha.Short(), err)
	}
	return nil
}

// getTagger resolves the tagger identity from config, falling back to the
// GIT_AUTHOR_NAME/GIT_AUTHOR_EMAIL environment variables, the same way
// commitmanager.Manager.getCurrentUser resolves the commit author.
func (c *Creator) getTagger() (*commit.CommitPerson, error) {
	name := c.typedConfig.UserName()
	if name == "" {
		name = os.Getenv("GIT_AUTHOR_NAME")
	}

	email := c.typedConfig.UserEmail()
	if email == "" {
		email = os.Getenv("GIT_AUTHOR_EMAIL")
	}

	if name == "" || email == "" {
		return nil, ErrIdentityUnset
	}

	return commit.NewCommitPerson(name, email, time.Now())
}
