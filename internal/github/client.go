package github

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/cenkalti/backoff/v4"
	"github.com/shurcooL/githubv4"
	"golang.org/x/oauth2"

	"github.com/steveyegge/projmigrate/internal/debug"
)

// Client provides methods to interact with the GitHub GraphQL API.
type Client struct {
	Token      string       // Personal access token
	BaseURL    string       // API base URL (default: https://api.github.com)
	HTTPClient *http.Client // Authenticated, retrying HTTP client

	gql *githubv4.Client
}

// NewClient creates a new GitHub client for GitHub.com.
func NewClient(token string) *Client {
	c := &Client{
		Token:      token,
		BaseURL:    DefaultAPIEndpoint,
		HTTPClient: newHTTPClient(token, nil),
	}
	c.gql = githubv4.NewEnterpriseClient(GraphQLEndpoint(c.BaseURL), c.HTTPClient)
	return c
}

// WithHTTPClient returns a new client with a custom HTTP client. The custom
// client is used as-is, without the token and retry transport.
func (c *Client) WithHTTPClient(httpClient *http.Client) *Client {
	return &Client{
		Token:      c.Token,
		BaseURL:    c.BaseURL,
		HTTPClient: httpClient,
		gql:        githubv4.NewEnterpriseClient(GraphQLEndpoint(c.BaseURL), httpClient),
	}
}

// WithBaseURL returns a new client with a custom base URL (for testing or GitHub Enterprise Server).
func (c *Client) WithBaseURL(baseURL string) *Client {
	return &Client{
		Token:      c.Token,
		BaseURL:    baseURL,
		HTTPClient: c.HTTPClient,
		gql:        githubv4.NewEnterpriseClient(GraphQLEndpoint(baseURL), c.HTTPClient),
	}
}

// WithProxyURL returns a new client whose requests go through proxy.
func (c *Client) WithProxyURL(proxy string) (*Client, error) {
	u, err := url.Parse(proxy)
	if err != nil || u.Scheme == "" || u.Host == "" {
		return nil, fmt.Errorf("invalid proxy URL %q", proxy)
	}
	httpClient := newHTTPClient(c.Token, u)
	return &Client{
		Token:      c.Token,
		BaseURL:    c.BaseURL,
		HTTPClient: httpClient,
		gql:        githubv4.NewEnterpriseClient(GraphQLEndpoint(c.BaseURL), httpClient),
	}, nil
}

// GraphQLEndpoint derives the GraphQL endpoint from an API base URL.
// GitHub.com serves GraphQL at api.github.com/graphql; GitHub Enterprise
// Server serves it at <host>/api/graphql.
func GraphQLEndpoint(baseURL string) string {
	base := strings.TrimRight(baseURL, "/")
	if base == "" || base == DefaultAPIEndpoint {
		return DefaultAPIEndpoint + "/graphql"
	}
	if strings.HasSuffix(base, "/api/v3") {
		base = strings.TrimSuffix(base, "/v3")
	}
	if strings.HasSuffix(base, "/api") {
		return base + "/graphql"
	}
	return base + "/api/graphql"
}

// newHTTPClient layers token auth over a retrying transport.
func newHTTPClient(token string, proxy *url.URL) *http.Client {
	base := http.DefaultTransport.(*http.Transport).Clone()
	if proxy != nil {
		base.Proxy = http.ProxyURL(proxy)
	}
	return &http.Client{
		Timeout: DefaultTimeout,
		Transport: &oauth2.Transport{
			Source: oauth2.StaticTokenSource(&oauth2.Token{AccessToken: token}),
			Base:   &retryTransport{base: base, newBackOff: newRetryBackOff},
		},
	}
}

func newRetryBackOff() backoff.BackOff {
	bo := backoff.NewExponentialBackOff()
	bo.InitialInterval = RetryDelay
	bo.MaxInterval = MaxRetryDelay
	bo.MaxElapsedTime = 0
	return backoff.WithMaxRetries(bo, MaxRetries)
}

// retryTransport retries requests GitHub throttled or could not serve:
// 429, the secondary rate limit (403 with Retry-After or an exhausted
// X-RateLimit-Remaining), and 502/503/504.
type retryTransport struct {
	base       http.RoundTripper
	newBackOff func() backoff.BackOff
}

// retryableStatusError is returned from a throttled attempt so backoff retries it.
type retryableStatusError struct {
	status     int
	retryAfter time.Duration
}

func (e *retryableStatusError) Error() string {
	return fmt.Sprintf("GitHub API returned status %d", e.status)
}

func (t *retryTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	ctx := req.Context()
	attempt := 0
	var resp *http.Response

	op := func() error {
		r := req
		if attempt > 0 {
			r = req.Clone(ctx)
			if req.GetBody != nil {
				body, err := req.GetBody()
				if err != nil {
					return backoff.Permanent(err)
				}
				r.Body = body
			}
		}
		attempt++

		res, err := t.base.RoundTrip(r)
		if err != nil {
			debug.Logf("github: attempt %d failed: %v\n", attempt, err)
			return err
		}
		if !isRetryable(res) {
			resp = res
			return nil
		}

		retryErr := &retryableStatusError{status: res.StatusCode, retryAfter: retryAfter(res.Header)}
		_, _ = io.Copy(io.Discard, io.LimitReader(res.Body, 1<<20))
		_ = res.Body.Close()
		debug.Logf("github: attempt %d throttled (status %d)\n", attempt, res.StatusCode)

		if retryErr.retryAfter > 0 {
			select {
			case <-ctx.Done():
				return backoff.Permanent(ctx.Err())
			case <-time.After(retryErr.retryAfter):
			}
		}
		return retryErr
	}

	if err := backoff.Retry(op, backoff.WithContext(t.newBackOff(), ctx)); err != nil {
		return nil, fmt.Errorf("github request failed after %d attempts: %w", attempt, err)
	}
	return resp, nil
}

func isRetryable(resp *http.Response) bool {
	switch resp.StatusCode {
	case http.StatusTooManyRequests, http.StatusBadGateway, http.StatusServiceUnavailable, http.StatusGatewayTimeout:
		return true
	case http.StatusForbidden:
		return resp.Header.Get("Retry-After") != "" || resp.Header.Get("X-RateLimit-Remaining") == "0"
	}
	return false
}

// retryAfter reads the Retry-After header (seconds) or, for an exhausted
// primary limit, the time until X-RateLimit-Reset.
func retryAfter(h http.Header) time.Duration {
	if v := h.Get("Retry-After"); v != "" {
		if seconds, err := strconv.Atoi(v); err == nil && seconds > 0 {
			return time.Duration(seconds) * time.Second
		}
	}
	if h.Get("X-RateLimit-Remaining") == "0" {
		if reset, err := strconv.ParseInt(h.Get("X-RateLimit-Reset"), 10, 64); err == nil {
			if d := time.Until(time.Unix(reset, 0)); d > 0 {
				return d
			}
		}
	}
	return 0
}

// query runs a GraphQL query with the shared client.
func (c *Client) query(ctx context.Context, q interface{}, variables map[string]interface{}) error {
	return c.gql.Query(ctx, q, variables)
}

// mutate runs a GraphQL mutation with the shared client.
func (c *Client) mutate(ctx context.Context, m interface{}, input githubv4.Input) error {
	return c.gql.Mutate(ctx, m, input, nil)
}
