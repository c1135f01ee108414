package migrate

import (
	"context"

	"github.com/steveyegge/projmigrate/internal/types"
)

// Target is the remote project system the migration writes to. Each method is
// one synchronous call; retrying, authentication and rate limiting are the
// implementation's business.
type Target interface {
	// ResolveOwnerID returns the ID of the organization or user login. Wraps
	// types.ErrNotFound if it does not exist.
	ResolveOwnerID(ctx context.Context, login string, kind types.OwnerKind) (string, error)

	// ResolveRepositoryID returns the ID of owner/name. Wraps types.ErrNotFound
	// if it does not exist.
	ResolveRepositoryID(ctx context.Context, owner, name string) (string, error)

	// ResolveIssueOrPullRequest returns the issue or pull request number in
	// owner/name, or nil, nil when it cannot be resolved.
	ResolveIssueOrPullRequest(ctx context.Context, owner, name string, number int) (*types.ContentRef, error)

	// CreateProject creates a new project owned by ownerID.
	CreateProject(ctx context.Context, ownerID, title string) (*types.TargetProject, error)

	// LinkRepository links a repository to the project.
	LinkRepository(ctx context.Context, projectID, repositoryID string) error

	// CreateField creates a custom field and returns it with the option IDs
	// the target assigned.
	CreateField(ctx context.Context, projectID string, spec types.FieldSpec) (*types.TargetField, error)

	// FetchFieldByName returns the named field, or nil, nil if there is none.
	FetchFieldByName(ctx context.Context, projectID, name string) (*types.TargetField, error)

	// AddItemByContentID adds an issue or pull request and returns the item ID.
	AddItemByContentID(ctx context.Context, projectID, contentID string) (string, error)

	// AddDraftIssue adds a draft issue and returns the item ID.
	AddDraftIssue(ctx context.Context, projectID, title, body string) (string, error)

	// ArchiveItem archives an item.
	ArchiveItem(ctx context.Context, projectID, itemID string) error

	// UpdateItemFieldValue sets one field of an item.
	UpdateItemFieldValue(ctx context.Context, projectID, itemID, fieldID string, value types.FieldValueInput) error
}

// RepositoryMappings correlates source repositories with target repositories.
type RepositoryMappings interface {
	Lookup(source string) (target string, ok bool)
}

// StatusPrompt asks the operator to make the target Status field match.
type StatusPrompt struct {
	Retry           bool     // The previous attempt still did not match
	FieldName       string
	ExpectedOptions []string // Source option names, in order
	CurrentOptions  []string // Target option names found on the last check (retry only)
	SettingsURL     string
	Message         string // Markdown instructions
}

// Prompter blocks until the operator says the Status field has been edited.
// There is no timeout; an error (e.g. the operator aborted) ends the run.
type Prompter interface {
	ConfirmStatus(ctx context.Context, prompt StatusPrompt) error
}
