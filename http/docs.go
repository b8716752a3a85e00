package http

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"strings"
	"time"

	sosumi "github.com/NSHipster/sosumi.ai"
)

// maxDocumentBody caps how much render JSON is read for one page.
const maxDocumentBody = 10 << 20

// DefaultRetryDelays returns the backoff delays for documentation fetches:
// a single retry after 500ms.
func DefaultRetryDelays() []time.Duration {
	return []time.Duration{500 * time.Millisecond}
}

var _ sosumi.DocumentService = (*DocFetcher)(nil)

// DocFetcher retrieves documentation pages by fetching the render JSON
// from the data endpoint behind each page URL.
type DocFetcher struct {
	client *Client
	delays []time.Duration
}

// DocOption configures a DocFetcher.
type DocOption func(*DocFetcher)

// WithRetryDelays sets the retry backoff schedule for document fetches.
func WithRetryDelays(delays []time.Duration) DocOption {
	return func(f *DocFetcher) {
		f.delays = delays
	}
}

// NewDocFetcher creates a DocFetcher issuing requests through client.
func NewDocFetcher(client *Client, opts ...DocOption) *DocFetcher {
	f := &DocFetcher{
		client: client,
		delays: DefaultRetryDelays(),
	}
	for _, opt := range opts {
		opt(f)
	}
	return f
}

// DataEndpoint rewrites a documentation page URL to the JSON data endpoint
// serving its render tree: /data is spliced in before the documentation
// segment and a .json suffix is appended. Any query string is preserved.
func DataEndpoint(target *sosumi.TargetURL) string {
	u := target.URL()
	path := u.Path
	base := ""
	if i := strings.Index(path, sosumi.DocumentationRoot); i >= 0 {
		base, path = path[:i], path[i:]
	}
	if !strings.HasSuffix(path, ".json") {
		path += ".json"
	}
	u.Path = base + "/data" + path
	u.RawPath = ""
	return u.String()
}

// FetchDocument retrieves and decodes the render JSON behind a
// documentation page URL. An upstream opt-out header denies access before
// the response status is interpreted.
func (f *DocFetcher) FetchDocument(ctx context.Context, target *sosumi.TargetURL) (*sosumi.Document, error) {
	endpoint := DataEndpoint(target)
	resp, err := fetchWithRetry(ctx, f.delays, func(ctx context.Context) (*http.Response, error) {
		return f.client.get(ctx, endpoint, "application/json")
	})
	if err != nil {
		return nil, sosumi.Errorf(sosumi.EUNAVAILABLE, "fetching %s: %v", endpoint, err)
	}
	defer resp.Body.Close()

	if tag, restrictive := restrictiveRobotsTag(resp.Header); restrictive {
		return nil, sosumi.Errorf(sosumi.EACCESSDENIED, "%s opts out of automated access (X-Robots-Tag: %s)", target.Hostname(), tag)
	}
	switch {
	case resp.StatusCode == http.StatusNotFound || resp.StatusCode == http.StatusGone:
		return nil, sosumi.Errorf(sosumi.ENOTFOUND, "no documentation at %s", target.String())
	case resp.StatusCode < 200 || resp.StatusCode > 299:
		return nil, sosumi.Errorf(sosumi.EUNAVAILABLE, "%s answered HTTP %d", target.Hostname(), resp.StatusCode)
	}

	var doc sosumi.Document
	if err := json.NewDecoder(io.LimitReader(resp.Body, maxDocumentBody)).Decode(&doc); err != nil {
		return nil, sosumi.Errorf(sosumi.EUNAVAILABLE, "decoding render JSON from %s: %v", target.Hostname(), err)
	}
	return &doc, nil
}

// restrictiveRobotsTag reports whether any X-Robots-Tag value opts the
// page out of automated reuse. Values split into tokens on commas,
// colons, and whitespace, so agent-scoped directives count too.
func restrictiveRobotsTag(h http.Header) (string, bool) {
	for _, value := range h.Values("X-Robots-Tag") {
		tokens := strings.FieldsFunc(value, func(r rune) bool {
			return r == ',' || r == ':' || r == ' ' || r == '\t'
		})
		for _, token := range tokens {
			switch strings.ToLower(token) {
			case "none", "noindex", "noai", "noimageai":
				return value, true
			}
		}
	}
	return "", false
}
