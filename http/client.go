// Package http provides the outbound HTTP client, the robots.txt and
// documentation fetchers, and the inbound documentation server.
package http

import (
	"context"
	"io"
	"net/http"
	"time"

	sosumi "github.com/NSHipster/sosumi.ai"
)

// DefaultTimeout is the default timeout for outbound HTTP requests.
const DefaultTimeout = 10 * time.Second

// maxRobotsBody caps how much robots.txt text is read from an origin.
const maxRobotsBody = 1 << 20

var _ sosumi.RobotsFetcher = (*Client)(nil)

// Client issues outbound requests carrying this system's user agent, with
// an optional per-host rate limit. It implements sosumi.RobotsFetcher.
type Client struct {
	http      *http.Client
	timeout   time.Duration
	userAgent string
	limiter   sosumi.HostLimiter
}

// ClientOption configures a Client.
type ClientOption func(*Client)

// WithTimeout sets the timeout for outbound requests.
// Defaults to DefaultTimeout (10s) if not specified.
func WithTimeout(d time.Duration) ClientOption {
	return func(c *Client) {
		c.timeout = d
	}
}

// WithHTTPClient replaces the underlying HTTP client. WithTimeout has no
// effect on an injected client.
func WithHTTPClient(hc *http.Client) ClientOption {
	return func(c *Client) {
		c.http = hc
	}
}

// WithUserAgent sets the User-Agent header for outbound requests.
// Defaults to sosumi.UserAgent.
func WithUserAgent(ua string) ClientOption {
	return func(c *Client) {
		c.userAgent = ua
	}
}

// WithHostLimiter throttles outbound requests per target host.
func WithHostLimiter(l sosumi.HostLimiter) ClientOption {
	return func(c *Client) {
		c.limiter = l
	}
}

// NewClient creates a new outbound Client.
func NewClient(opts ...ClientOption) *Client {
	c := &Client{
		timeout:   DefaultTimeout,
		userAgent: sosumi.UserAgent,
	}
	for _, opt := range opts {
		opt(c)
	}

	if c.http == nil {
		c.http = &http.Client{
			Timeout: c.timeout,
		}
	}

	return c
}

// get performs one outbound GET, honoring the per-host rate limit.
func (c *Client) get(ctx context.Context, rawURL, accept string) (*http.Response, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return nil, err
	}

	if c.limiter != nil {
		if err := c.limiter.Wait(ctx, req.URL.Hostname()); err != nil {
			return nil, err
		}
	}

	req.Header.Set("User-Agent", c.userAgent)
	req.Header.Set("Accept", accept)

	return c.http.Do(req)
}

// FetchRobots retrieves robots.txt for an origin. The error is non-nil
// only for transport failures; HTTP statuses pass through for the caller
// to interpret.
func (c *Client) FetchRobots(ctx context.Context, origin string) (int, string, error) {
	resp, err := c.get(ctx, origin+"/robots.txt", "text/plain, text/*;q=0.9, */*;q=0.1")
	if err != nil {
		return 0, "", err
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxRobotsBody))
	if err != nil {
		return 0, "", err
	}

	return resp.StatusCode, string(body), nil
}
