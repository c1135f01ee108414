package migrate

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/steveyegge/projmigrate/internal/types"
)

// SplitNameWithOwner splits "owner/name" into its parts.
func SplitNameWithOwner(nameWithOwner string) (owner, name string, err error) {
	owner, name, ok := strings.Cut(strings.TrimSpace(nameWithOwner), "/")
	if !ok || owner == "" || name == "" || strings.Contains(name, "/") {
		return "", "", fmt.Errorf("invalid repository %q (expected owner/name)", nameWithOwner)
	}
	return owner, name, nil
}

func (e *Engine) resolveOwner(ctx context.Context) (string, error) {
	id, err := e.Target.ResolveOwnerID(ctx, e.Options.OwnerLogin, e.Options.OwnerKind)
	if err != nil {
		if errors.Is(err, types.ErrNotFound) {
			return "", fmt.Errorf("%w: %s %q", ErrOwnerNotFound, e.Options.OwnerKind, e.Options.OwnerLogin)
		}
		return "", fmt.Errorf("resolving %s %q: %w", e.Options.OwnerKind, e.Options.OwnerLogin, err)
	}
	return id, nil
}

// resolveRepository resolves a target "owner/name".
func (e *Engine) resolveRepository(ctx context.Context, nameWithOwner string) (string, error) {
	owner, name, err := SplitNameWithOwner(nameWithOwner)
	if err != nil {
		return "", err
	}
	id, err := e.Target.ResolveRepositoryID(ctx, owner, name)
	if err != nil {
		if errors.Is(err, types.ErrNotFound) {
			return "", fmt.Errorf("%w: %s", ErrRepositoryNotFound, nameWithOwner)
		}
		return "", fmt.Errorf("resolving repository %s: %w", nameWithOwner, err)
	}
	return id, nil
}

// resolveContent maps a source issue or pull request onto the target. It
// returns nil, nil when the item has to be skipped; the reason has already been
// reported as a warning.
func (e *Engine) resolveContent(ctx context.Context, ref types.ContentReference) (*types.ContentRef, error) {
	targetRepo, ok := e.mappings.Lookup(ref.RepositoryNameWithOwner)
	if !ok {
		e.warn("Skipping %s: repository %s has no mapping", ref, ref.RepositoryNameWithOwner)
		return nil, nil
	}
	owner, name, err := SplitNameWithOwner(targetRepo)
	if err != nil {
		return nil, fmt.Errorf("mapping for %s: %w", ref.RepositoryNameWithOwner, err)
	}

	content, err := e.Target.ResolveIssueOrPullRequest(ctx, owner, name, ref.Number)
	if err != nil {
		return nil, fmt.Errorf("resolving %s in %s: %w", ref, targetRepo, err)
	}
	if content == nil {
		e.warn("Skipping %s: %s#%d not found in target", ref, targetRepo, ref.Number)
		return nil, nil
	}

	if content.Title != ref.Title {
		if e.Options.TitleMismatch == TitleMismatchFail {
			return nil, fmt.Errorf("%w: %s is %q in source but %s#%d is %q",
				ErrTitleMismatch, ref, ref.Title, targetRepo, ref.Number, content.Title)
		}
		e.warn("Title of %s (%q) differs from %s#%d (%q); adding it anyway",
			ref, ref.Title, targetRepo, ref.Number, content.Title)
	}
	return content, nil
}
