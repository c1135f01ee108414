package main

import (
	"fmt"
	"os"

	"github.com/steveyegge/projmigrate/internal/ui"
)

// FatalError writes an error message to stderr and exits with code 1.
func FatalError(format string, args ...interface{}) {
	fmt.Fprintf(os.Stderr, "%s "+format+"\n", append([]interface{}{ui.RenderFail("Error:")}, args...)...)
	os.Exit(1)
}

// WarnError writes a warning message to stderr and returns.
// Use this for optional operations such as the update check.
func WarnError(format string, args ...interface{}) {
	fmt.Fprintf(os.Stderr, "%s "+format+"\n", append([]interface{}{ui.RenderWarn("Warning:")}, args...)...)
}

// errorWithHint attaches an actionable suggestion to err.
type errorWithHint struct {
	err  error
	hint string
}

func (e *errorWithHint) Error() string {
	return fmt.Sprintf("%v\n%s %s", e.err, ui.RenderMuted("Hint:"), e.hint)
}

func (e *errorWithHint) Unwrap() error { return e.err }

func withHint(err error, hint string) error {
	return &errorWithHint{err: err, hint: hint}
}
