// Package migrate recreates a project snapshot in a target project system.
//
// A migration runs in fixed phases: resolve the owner, create the project,
// link mapped repositories, recreate custom fields, reconcile the Status field
// with the operator, then replicate items. Configuration and structural errors
// abort the run; anything that only loses one item or one value is reported as
// a warning and the run continues.
package migrate

import (
	"context"
	"fmt"
	"strings"

	"github.com/steveyegge/projmigrate/internal/types"
)

// TitleMismatchPolicy says what to do when a resolved issue or pull request has
// a different title than the source item.
type TitleMismatchPolicy string

const (
	TitleMismatchWarn TitleMismatchPolicy = "warn"
	TitleMismatchFail TitleMismatchPolicy = "fail"
)

// ParseTitleMismatchPolicy parses "warn" or "fail". Empty means warn.
func ParseTitleMismatchPolicy(s string) (TitleMismatchPolicy, error) {
	switch TitleMismatchPolicy(strings.ToLower(strings.TrimSpace(s))) {
	case "", TitleMismatchWarn:
		return TitleMismatchWarn, nil
	case TitleMismatchFail:
		return TitleMismatchFail, nil
	}
	return "", fmt.Errorf("invalid title mismatch policy %q (valid values: warn, fail)", s)
}

// Options configures a migration run.
type Options struct {
	OwnerLogin    string
	OwnerKind     types.OwnerKind
	ProjectTitle  string // Overrides the snapshot title when set
	TitleMismatch TitleMismatchPolicy
}

// Stats counts what a migration did.
type Stats struct {
	RepositoriesLinked  int `json:"repositories_linked"`
	RepositoriesSkipped int `json:"repositories_skipped"`
	FieldsCreated       int `json:"fields_created"`
	ItemsCreated        int `json:"items_created"`
	ItemsSkipped        int `json:"items_skipped"`
	ItemsArchived       int `json:"items_archived"`
	ValuesSet           int `json:"values_set"`
	ValuesSkipped       int `json:"values_skipped"`
}

// Result is the outcome of a migration. It is returned even when the run
// fails, so the caller can point the operator at the partially built project.
type Result struct {
	Success    bool     `json:"success"`
	ProjectID  string   `json:"project_id,omitempty"`
	ProjectURL string   `json:"project_url,omitempty"`
	Stats      Stats    `json:"stats"`
	Error      string   `json:"error,omitempty"`
	Warnings   []string `json:"warnings,omitempty"`
}

// Engine orchestrates a migration against a Target.
type Engine struct {
	Target   Target
	Prompter Prompter
	Options  Options

	// Callbacks for UI feedback (optional).
	OnMessage func(msg string)
	OnWarning func(msg string)

	mappings RepositoryMappings
	result   *Result
}

// NewEngine creates a migration engine.
func NewEngine(target Target, prompter Prompter, opts Options) *Engine {
	return &Engine{
		Target:   target,
		Prompter: prompter,
		Options:  opts,
	}
}

// Run migrates snap into a new project. Runs are not resumable: a failed run
// leaves a partially populated project behind.
func (e *Engine) Run(ctx context.Context, snap *types.ProjectSnapshot, mappings RepositoryMappings) (*Result, error) {
	e.result = &Result{}
	e.mappings = mappings
	result := e.result

	fail := func(err error) (*Result, error) {
		result.Error = err.Error()
		return result, err
	}

	if err := e.validate(snap, mappings); err != nil {
		return fail(err)
	}

	ownerID, err := e.resolveOwner(ctx)
	if err != nil {
		return fail(err)
	}

	title := e.Options.ProjectTitle
	if title == "" {
		title = snap.Title
	}
	project, err := e.Target.CreateProject(ctx, ownerID, title)
	if err != nil {
		return fail(fmt.Errorf("creating project %q: %w", title, err))
	}
	result.ProjectID = project.ID
	result.ProjectURL = project.URL
	e.msg("Created project %q: %s", title, project.URL)

	if err := e.linkRepositories(ctx, project.ID, snap); err != nil {
		return fail(err)
	}

	table := NewCorrelationTable()
	if err := e.correlateFields(ctx, project.ID, snap, table); err != nil {
		return fail(err)
	}
	if err := e.reconcileStatus(ctx, project, snap, table); err != nil {
		return fail(err)
	}
	table.Freeze()

	for i, item := range snap.Items {
		if err := ctx.Err(); err != nil {
			return fail(err)
		}
		e.msg("Migrating item %d/%d", i+1, len(snap.Items))
		if err := e.replicateItem(ctx, project.ID, snap, item, table); err != nil {
			return fail(err)
		}
	}

	result.Success = true
	return result, nil
}

func (e *Engine) validate(snap *types.ProjectSnapshot, mappings RepositoryMappings) error {
	switch {
	case e.Target == nil:
		return fmt.Errorf("%w: target", ErrMissingInput)
	case e.Prompter == nil:
		return fmt.Errorf("%w: prompter", ErrMissingInput)
	case snap == nil:
		return fmt.Errorf("%w: project snapshot", ErrMissingInput)
	case mappings == nil:
		return fmt.Errorf("%w: repository mappings", ErrMissingInput)
	case e.Options.OwnerLogin == "":
		return fmt.Errorf("%w: project owner", ErrMissingInput)
	case !e.Options.OwnerKind.IsValid():
		return fmt.Errorf("invalid owner type %q (valid values: organization, user)", e.Options.OwnerKind)
	case e.Options.ProjectTitle == "" && snap.Title == "":
		return fmt.Errorf("%w: project title", ErrMissingInput)
	}
	return nil
}

// linkRepositories links every mapped source repository to the project.
// Unmapped repositories are skipped with a warning.
func (e *Engine) linkRepositories(ctx context.Context, projectID string, snap *types.ProjectSnapshot) error {
	for _, repo := range snap.Repositories {
		target, ok := e.mappings.Lookup(repo.NameWithOwner)
		if !ok {
			e.warn("Not linking %s: repository has no mapping", repo.NameWithOwner)
			e.result.Stats.RepositoriesSkipped++
			continue
		}
		repoID, err := e.resolveRepository(ctx, target)
		if err != nil {
			return err
		}
		if err := e.Target.LinkRepository(ctx, projectID, repoID); err != nil {
			return fmt.Errorf("linking %s: %w", target, err)
		}
		e.result.Stats.RepositoriesLinked++
		e.msg("Linked %s (from %s)", target, repo.NameWithOwner)
	}
	return nil
}

func (e *Engine) msg(format string, args ...interface{}) {
	if e.OnMessage != nil {
		e.OnMessage(fmt.Sprintf(format, args...))
	}
}

func (e *Engine) warn(format string, args ...interface{}) {
	m := fmt.Sprintf(format, args...)
	if e.result != nil {
		e.result.Warnings = append(e.result.Warnings, m)
	}
	if e.OnWarning != nil {
		e.OnWarning(m)
	}
}
