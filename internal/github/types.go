// Package github provides the GitHub GraphQL client used to build the target
// project.
//
// Every operation is a single query or mutation against the Projects (v2) API.
// Authentication, proxying and retrying of throttled requests happen in the
// HTTP transport; callers see one synchronous call that either returns a typed
// payload or an error.
package github

import (
	"time"

	"github.com/steveyegge/projmigrate/internal/types"
)

// API configuration constants.
const (
	// DefaultAPIEndpoint is the GitHub.com REST API base URL. The GraphQL
	// endpoint is derived from it.
	DefaultAPIEndpoint = "https://api.github.com"

	// DefaultTimeout is the default HTTP request timeout.
	DefaultTimeout = 60 * time.Second

	// MaxRetries is the maximum number of retries for throttled or
	// temporarily unavailable requests.
	MaxRetries = 5

	// RetryDelay is the initial delay between retries (exponential backoff).
	RetryDelay = 2 * time.Second

	// MaxRetryDelay caps a single backoff step.
	MaxRetryDelay = time.Minute
)

// ErrNotFound is returned (wrapped) when an owner or repository cannot be resolved.
var ErrNotFound = types.ErrNotFound

// ID is the GraphQL ID scalar. The variable type written into a query is
// derived from the Go type name, so IDs passed as variables must use this type
// rather than a plain string.
type ID string

// RateLimit is the GraphQL API budget of the authenticated token.
type RateLimit struct {
	Limit     int
	Remaining int
	Used      int
	ResetAt   time.Time
}
