package migrate

import "errors"

// Configuration errors. Fatal.
var (
	// ErrMissingInput is returned when a required input was not provided.
	ErrMissingInput = errors.New("missing required input")

	// ErrOwnerNotFound is returned when the target owner does not exist.
	ErrOwnerNotFound = errors.New("target owner not found")

	// ErrRepositoryNotFound is returned when a repository named in the mapping
	// table does not exist in the target.
	ErrRepositoryNotFound = errors.New("mapped repository not found")

	// ErrTitleMismatch is returned when a resolved issue or pull request has a
	// different title than the source item and mismatches are configured to fail.
	ErrTitleMismatch = errors.New("issue or pull request title mismatch")
)

// Structural correlation errors. Fatal: the target behaved in a way the
// correlation depends on it not doing, or the snapshot is from a format this
// tool does not understand.
var (
	// ErrOptionCorrelationMismatch is returned when source and target option
	// lists of a single-select field cannot be paired by name.
	ErrOptionCorrelationMismatch = errors.New("option correlation mismatch")

	// ErrUnsupportedContentType is returned for an item whose content is not
	// an issue, pull request or draft issue.
	ErrUnsupportedContentType = errors.New("unsupported content type")
)
