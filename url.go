package sosumi

import (
	"net/url"
	"strings"
	"unicode"
	"unicode/utf8"

	"golang.org/x/net/idna"
)

// ProxyPathPrefix is the inbound route prefix under which external
// documentation URLs are addressed as percent-encoded path payloads.
const ProxyPathPrefix = "/external/"

// TargetURL is a validated absolute https URL: no embedded credentials, no
// fragment, hostname lowercased and IDNA-normalized. Immutable once
// constructed by ParseTargetURL.
type TargetURL struct {
	u *url.URL
}

// ParseTargetURL validates a raw URL string and returns its normalized
// form. Rejections carry the code matching the first failed check.
func ParseTargetURL(raw string) (*TargetURL, error) {
	if raw == "" {
		return nil, Errorf(EINVALID, "URL is empty")
	}
	for _, r := range raw {
		if r < 0x20 || r == 0x7f || unicode.IsSpace(r) {
			return nil, Errorf(EINVALID, "URL contains control or whitespace characters")
		}
	}
	u, err := url.Parse(raw)
	if err != nil {
		return nil, Errorf(EINVALID, "malformed URL %q", raw)
	}
	if !u.IsAbs() {
		return nil, Errorf(EINVALID, "URL %q is not absolute", raw)
	}
	if u.Scheme != "https" {
		return nil, Errorf(ESCHEME, "scheme %q is not supported; only https URLs can be fetched", u.Scheme)
	}
	if u.User != nil {
		return nil, Errorf(ECREDENTIALS, "URLs with embedded credentials are not supported")
	}
	if u.Fragment != "" {
		return nil, Errorf(EFRAGMENT, "URL fragments are not supported")
	}
	if err := normalizeHost(u); err != nil {
		return nil, err
	}
	return &TargetURL{u: u}, nil
}

// DecodeProxyPath extracts the target URL string from an inbound proxy
// path. The path must carry the /external/ prefix; the remainder is
// percent-decoded exactly once and checked for emptiness and control
// characters. Full validation is ParseTargetURL's job.
func DecodeProxyPath(escapedPath string) (string, error) {
	tail, ok := strings.CutPrefix(escapedPath, ProxyPathPrefix)
	if !ok {
		return "", Errorf(EINVALID, "path %q is not an external proxy path", escapedPath)
	}
	if tail == "" {
		return "", Errorf(EINVALID, "proxy path carries no target URL")
	}
	decoded, err := url.PathUnescape(tail)
	if err != nil {
		return "", Errorf(EINVALID, "malformed percent-encoding in proxy target")
	}
	if decoded == "" {
		return "", Errorf(EINVALID, "proxy path carries no target URL")
	}
	for _, r := range decoded {
		if r < 0x20 || r == 0x7f {
			return "", Errorf(EINVALID, "proxy target contains control characters")
		}
	}
	return decoded, nil
}

// String returns the normalized URL.
func (t *TargetURL) String() string { return t.u.String() }

// Hostname returns the normalized hostname without brackets or port.
func (t *TargetURL) Hostname() string { return t.u.Hostname() }

// Port returns the explicit port, or the empty string.
func (t *TargetURL) Port() string { return t.u.Port() }

// Origin returns scheme://host[:port], the key robots policies are
// resolved and cached under.
func (t *TargetURL) Origin() string { return t.u.Scheme + "://" + t.u.Host }

// Path returns the URL path.
func (t *TargetURL) Path() string { return t.u.Path }

// PathAndQuery returns the path plus any query string, the form robots
// rules are matched against. An empty path reads as "/".
func (t *TargetURL) PathAndQuery() string {
	p := t.u.Path
	if p == "" {
		p = "/"
	}
	if t.u.RawQuery != "" {
		return p + "?" + t.u.RawQuery
	}
	return p
}

// URL returns a copy of the underlying parsed URL.
func (t *TargetURL) URL() *url.URL {
	u := *t.u
	return &u
}

// normalizeHost lowercases the hostname, converting non-ASCII names to
// their IDNA form, and rebuilds the host with any port preserved.
func normalizeHost(u *url.URL) error {
	host := u.Hostname()
	if host == "" {
		return Errorf(EINVALID, "URL has no host")
	}
	host = strings.ToLower(host)
	if !isASCII(host) {
		ascii, err := idna.Lookup.ToASCII(host)
		if err != nil {
			return Errorf(EINVALID, "invalid international hostname %q", host)
		}
		host = ascii
	}
	if strings.Contains(host, ":") {
		host = "[" + host + "]"
	}
	if port := u.Port(); port != "" {
		host += ":" + port
	}
	u.Host = host
	return nil
}

func isASCII(s string) bool {
	for i := 0; i < len(s); i++ {
		if s[i] >= utf8.RuneSelf {
			return false
		}
	}
	return true
}
