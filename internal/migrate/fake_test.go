package migrate

import (
	"context"
	"fmt"

	"github.com/steveyegge/projmigrate/internal/types"
)

// fakeTarget records every call made against it.
type fakeTarget struct {
	owners   map[string]string            // login -> ID
	repos    map[string]string            // owner/name -> ID
	contents map[string]*types.ContentRef // owner/name#n -> content

	// createFieldOptions overrides the options returned by CreateField.
	createFieldOptions map[string][]types.FieldOption

	// statusFields is returned by successive FetchFieldByName calls; the last
	// one repeats.
	statusFields []*types.TargetField
	fetchCalls   int

	calls        []string
	linked       []string
	createdSpecs []types.FieldSpec
	items        []string // content IDs, or "draft:" + title
	drafts       []fakeDraft
	archived     []string
	updates      []fakeUpdate

	nextID int
	errs   map[string]error // method name -> error
}

type fakeDraft struct {
	Title, Body string
}

type fakeUpdate struct {
	ItemID, FieldID string
	Value           types.FieldValueInput
}

func newFakeTarget() *fakeTarget {
	return &fakeTarget{
		owners:   map[string]string{"acme": "O_acme"},
		repos:    map[string]string{},
		contents: map[string]*types.ContentRef{},
		errs:     map[string]error{},
	}
}

func (f *fakeTarget) id(prefix string) string {
	f.nextID++
	return fmt.Sprintf("%s_%d", prefix, f.nextID)
}

func (f *fakeTarget) record(method string) error {
	f.calls = append(f.calls, method)
	return f.errs[method]
}

func (f *fakeTarget) ResolveOwnerID(_ context.Context, login string, _ types.OwnerKind) (string, error) {
	if err := f.record("ResolveOwnerID"); err != nil {
		return "", err
	}
	id, ok := f.owners[login]
	if !ok {
		return "", fmt.Errorf("owner %s: %w", login, types.ErrNotFound)
	}
	return id, nil
}

func (f *fakeTarget) ResolveRepositoryID(_ context.Context, owner, name string) (string, error) {
	if err := f.record("ResolveRepositoryID"); err != nil {
		return "", err
	}
	id, ok := f.repos[owner+"/"+name]
	if !ok {
		return "", fmt.Errorf("repository %s/%s: %w", owner, name, types.ErrNotFound)
	}
	return id, nil
}

func (f *fakeTarget) ResolveIssueOrPullRequest(_ context.Context, owner, name string, number int) (*types.ContentRef, error) {
	if err := f.record("ResolveIssueOrPullRequest"); err != nil {
		return nil, err
	}
	return f.contents[fmt.Sprintf("%s/%s#%d", owner, name, number)], nil
}

func (f *fakeTarget) CreateProject(_ context.Context, ownerID, title string) (*types.TargetProject, error) {
	if err := f.record("CreateProject"); err != nil {
		return nil, err
	}
	return &types.TargetProject{
		ID:     "PVT_1",
		Number: 1,
		URL:    "https://github.com/orgs/acme/projects/1",
		Title:  title,
	}, nil
}

func (f *fakeTarget) LinkRepository(_ context.Context, _, repositoryID string) error {
	if err := f.record("LinkRepository"); err != nil {
		return err
	}
	f.linked = append(f.linked, repositoryID)
	return nil
}

func (f *fakeTarget) CreateField(_ context.Context, _ string, spec types.FieldSpec) (*types.TargetField, error) {
	if err := f.record("CreateField"); err != nil {
		return nil, err
	}
	f.createdSpecs = append(f.createdSpecs, spec)
	field := &types.TargetField{ID: f.id("PVTF"), Name: spec.Name, DataType: spec.DataType}
	if opts, ok := f.createFieldOptions[spec.Name]; ok {
		field.Options = opts
		return field, nil
	}
	for _, o := range spec.Options {
		o.ID = "T_" + o.Name
		field.Options = append(field.Options, o)
	}
	return field, nil
}

func (f *fakeTarget) FetchFieldByName(_ context.Context, _, name string) (*types.TargetField, error) {
	if err := f.record("FetchFieldByName"); err != nil {
		return nil, err
	}
	if len(f.statusFields) == 0 {
		return nil, nil
	}
	i := f.fetchCalls
	if i >= len(f.statusFields) {
		i = len(f.statusFields) - 1
	}
	f.fetchCalls++
	return f.statusFields[i], nil
}

func (f *fakeTarget) AddItemByContentID(_ context.Context, _, contentID string) (string, error) {
	if err := f.record("AddItemByContentID"); err != nil {
		return "", err
	}
	f.items = append(f.items, contentID)
	return f.id("PVTI"), nil
}

func (f *fakeTarget) AddDraftIssue(_ context.Context, _, title, body string) (string, error) {
	if err := f.record("AddDraftIssue"); err != nil {
		return "", err
	}
	f.items = append(f.items, "draft:"+title)
	f.drafts = append(f.drafts, fakeDraft{Title: title, Body: body})
	return f.id("PVTI"), nil
}

func (f *fakeTarget) ArchiveItem(_ context.Context, _, itemID string) error {
	if err := f.record("ArchiveItem"); err != nil {
		return err
	}
	f.archived = append(f.archived, itemID)
	return nil
}

func (f *fakeTarget) UpdateItemFieldValue(_ context.Context, _, itemID, fieldID string, value types.FieldValueInput) error {
	if err := f.record("UpdateItemFieldValue"); err != nil {
		return err
	}
	f.updates = append(f.updates, fakeUpdate{ItemID: itemID, FieldID: fieldID, Value: value})
	return nil
}

// fakePrompter counts confirmations and remembers every prompt.
type fakePrompter struct {
	prompts []StatusPrompt
	err     error
}

func (p *fakePrompter) ConfirmStatus(_ context.Context, prompt StatusPrompt) error {
	p.prompts = append(p.prompts, prompt)
	return p.err
}

type mapMappings map[string]string

func (m mapMappings) Lookup(source string) (string, bool) {
	t, ok := m[source]
	return t, ok && t != ""
}

func strPtr(s string) *string { return &s }

func floatPtr(f float64) *float64 { return &f }
