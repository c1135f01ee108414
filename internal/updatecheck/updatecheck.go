// Package updatecheck compares the running version with the latest GitHub
// release.
package updatecheck

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"
)

// DefaultReleaseURL is the latest-release endpoint of projmigrate itself.
const DefaultReleaseURL = "https://api.github.com/repos/steveyegge/projmigrate/releases/latest"

// DefaultTimeout bounds the whole check; it must never hold up a migration.
const DefaultTimeout = 5 * time.Second

// Checker fetches the latest release.
type Checker struct {
	URL        string
	HTTPClient *http.Client
}

// NewChecker returns a checker against DefaultReleaseURL.
func NewChecker() *Checker {
	return &Checker{
		URL:        DefaultReleaseURL,
		HTTPClient: &http.Client{Timeout: DefaultTimeout},
	}
}

// Result of a check.
type Result struct {
	Current         string
	Latest          string
	UpdateAvailable bool
}

// Check compares current against the latest release. Development builds
// (anything that is not X.Y.Z) are never reported as outdated.
func (c *Checker) Check(ctx context.Context, current string) (*Result, error) {
	current = strings.TrimPrefix(current, "v")
	latest, err := c.Latest(ctx)
	if err != nil {
		return nil, err
	}
	return &Result{
		Current:         current,
		Latest:          latest,
		UpdateAvailable: IsValidSemver(current) && IsValidSemver(latest) && CompareVersions(latest, current) > 0,
	}, nil
}

// Latest returns the tag of the latest release without its 'v' prefix.
func (c *Checker) Latest(ctx context.Context) (string, error) {
	ctx, cancel := context.WithTimeout(ctx, DefaultTimeout)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.URL, nil)
	if err != nil {
		return "", err
	}
	// Set User-Agent as required by GitHub API
	req.Header.Set("User-Agent", "projmigrate-update-check")
	req.Header.Set("Accept", "application/vnd.github+json")

	client := c.HTTPClient
	if client == nil {
		client = http.DefaultClient
	}
	resp, err := client.Do(req)
	if err != nil {
		return "", err
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("github api returned status %d", resp.StatusCode)
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil {
		return "", err
	}

	var release struct {
		TagName string `json:"tag_name"`
	}
	if err := json.Unmarshal(body, &release); err != nil {
		return "", err
	}
	if release.TagName == "" {
		return "", fmt.Errorf("latest release has no tag")
	}

	return strings.TrimPrefix(release.TagName, "v"), nil
}

// CompareVersions compares two dotted versions numerically. It returns -1, 0
// or 1. Missing parts count as 0.
func CompareVersions(v1, v2 string) int {
	parts1 := strings.Split(v1, ".")
	parts2 := strings.Split(v2, ".")

	maxLen := len(parts1)
	if len(parts2) > maxLen {
		maxLen = len(parts2)
	}

	for i := 0; i < maxLen; i++ {
		var p1, p2 int
		if i < len(parts1) {
			_, _ = fmt.Sscanf(parts1[i], "%d", &p1)
		}
		if i < len(parts2) {
			_, _ = fmt.Sscanf(parts2[i], "%d", &p2)
		}

		if p1 < p2 {
			return -1
		}
		if p1 > p2 {
			return 1
		}
	}
	return 0
}

// IsValidSemver checks for a numeric X.Y.Z version.
func IsValidSemver(version string) bool {
	parts := strings.Split(version, ".")
	if len(parts) != 3 {
		return false
	}
	for _, p := range parts {
		if p == "" {
			return false
		}
		for _, r := range p {
			if r < '0' || r > '9' {
				return false
			}
		}
	}
	return true
}
