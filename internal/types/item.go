package types

import "fmt"

// ProjectItemSnapshot is one item of the source project.
type ProjectItemSnapshot struct {
	ID          string // Source-scoped opaque ID
	IsArchived  bool
	Content     ItemContent
	FieldValues []FieldValue
}

// ContentKind names the variants of ItemContent.
type ContentKind string

const (
	ContentKindIssue       ContentKind = "Issue"
	ContentKindPullRequest ContentKind = "PullRequest"
	ContentKindDraftIssue  ContentKind = "DraftIssue"
)

// ItemContent is the closed set of things a project item can point at:
// *IssueContent, *PullRequestContent, *DraftIssueContent, or *UnknownContent
// for anything the export format added later.
type ItemContent interface {
	Kind() ContentKind
	itemContent()
}

// IssueContent references an issue by repository and number.
type IssueContent struct {
	RepositoryNameWithOwner string
	Number                  int
	Title                   string
}

func (*IssueContent) Kind() ContentKind { return ContentKindIssue }
func (*IssueContent) itemContent()      {}

// PullRequestContent references a pull request by repository and number.
type PullRequestContent struct {
	RepositoryNameWithOwner string
	Number                  int
	Title                   string
}

func (*PullRequestContent) Kind() ContentKind { return ContentKindPullRequest }
func (*PullRequestContent) itemContent()      {}

// DraftIssueContent is a project-local draft with no repository identity.
type DraftIssueContent struct {
	Title        string
	Body         string
	CreatorLogin string
	CreatedAt    string // As exported; rendered verbatim in the attribution line
}

func (*DraftIssueContent) Kind() ContentKind { return ContentKindDraftIssue }
func (*DraftIssueContent) itemContent()      {}

// UnknownContent carries a content type name this tool does not understand.
type UnknownContent struct {
	TypeName string
}

func (c *UnknownContent) Kind() ContentKind { return ContentKind(c.TypeName) }
func (*UnknownContent) itemContent()        {}

// ContentReference is the repository/number pair shared by issues and pull requests.
type ContentReference struct {
	RepositoryNameWithOwner string
	Number                  int
	Title                   string
}

// String returns "owner/name#number".
func (r ContentReference) String() string {
	return fmt.Sprintf("%s#%d", r.RepositoryNameWithOwner, r.Number)
}

// Reference returns the repository reference of issue and pull request content.
// ok is false for drafts and unknown content.
func Reference(c ItemContent) (ref ContentReference, ok bool) {
	switch v := c.(type) {
	case *IssueContent:
		return ContentReference{v.RepositoryNameWithOwner, v.Number, v.Title}, true
	case *PullRequestContent:
		return ContentReference{v.RepositoryNameWithOwner, v.Number, v.Title}, true
	}
	return ContentReference{}, false
}

// FieldValueKind says which payload member of a FieldValue is populated.
type FieldValueKind string

const (
	FieldValueText         FieldValueKind = "text"
	FieldValueNumber       FieldValueKind = "number"
	FieldValueDate         FieldValueKind = "date"
	FieldValueSingleSelect FieldValueKind = "single_select"
	FieldValueIteration    FieldValueKind = "iteration"
	FieldValueLabels       FieldValueKind = "labels"
	FieldValueMilestone    FieldValueKind = "milestone"
	FieldValuePullRequest  FieldValueKind = "pull_request"
	FieldValueRepository   FieldValueKind = "repository"
	FieldValueReviewer     FieldValueKind = "reviewer"
	FieldValueUser         FieldValueKind = "user"
)

// IsSystemManaged reports whether values of this kind are computed by the
// target system (or forbidden from outside) and therefore never replayed.
func (k FieldValueKind) IsSystemManaged() bool {
	switch k {
	case FieldValueText, FieldValueNumber, FieldValueDate, FieldValueSingleSelect:
		return false
	}
	return true
}

// FieldValue is one recorded value of an item.
type FieldValue struct {
	FieldID  string
	Kind     FieldValueKind
	Date     *string // YYYY-MM-DD
	Number   *float64
	Text     *string
	OptionID *string // Source option ID
}
