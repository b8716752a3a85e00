package sosumi

import (
	"strconv"
	"strings"
)

// HostRules is operator-supplied host filtering: hostnames or domain-suffix
// patterns explicitly allowed or blocked for outbound fetches. The zero
// value blocks nothing and allows every public host.
type HostRules struct {
	Allow []string
	Block []string
}

// ParseHostList splits an operator-supplied host list. Entries are
// separated by newlines or commas, trimmed, lowercased; empties drop.
func ParseHostList(s string) []string {
	fields := strings.FieldsFunc(s, func(r rune) bool {
		return r == '\n' || r == ','
	})
	var out []string
	for _, f := range fields {
		f = strings.ToLower(strings.TrimSpace(f))
		if f != "" {
			out = append(out, f)
		}
	}
	return out
}

// Evaluate applies the rules to a hostname: blocklist first (a block match
// wins even when the host is also allow-listed), then the allowlist when
// one is configured, then the private/local classification. Private and
// local hosts pass only when explicitly allow-listed. Pure; no I/O.
func (r HostRules) Evaluate(hostname string) error {
	host := strings.ToLower(hostname)
	if matchesAny(host, r.Block) {
		return Errorf(EHOSTBLOCKED, "host %q is blocked by policy", host)
	}
	allowed := matchesAny(host, r.Allow)
	if len(r.Allow) > 0 && !allowed {
		return Errorf(ENOTALLOWLISTED, "host %q is not on the allowlist", host)
	}
	if IsPrivateHost(host) && !allowed {
		return Errorf(EPRIVATEHOST, "host %q is private or local", host)
	}
	return nil
}

func matchesAny(host string, patterns []string) bool {
	for _, p := range patterns {
		if matchHostPattern(host, p) {
			return true
		}
	}
	return false
}

// matchHostPattern matches one allow/block entry. A dot-prefixed pattern
// matches any subdomain under it; a bare pattern matches exactly or at a
// dot boundary, so x.example.com matches example.com but notexample.com
// does not.
func matchHostPattern(host, pattern string) bool {
	if pattern == "" {
		return false
	}
	if strings.HasPrefix(pattern, ".") {
		return strings.HasSuffix(host, pattern)
	}
	return host == pattern || strings.HasSuffix(host, "."+pattern)
}

// IsPrivateHost reports whether a hostname refers to loopback, link-local,
// or private address space. Classification is lexical: names and address
// literals are examined as written, never resolved.
func IsPrivateHost(host string) bool {
	host = strings.ToLower(host)
	if host == "localhost" || strings.HasSuffix(host, ".localhost") {
		return true
	}
	if strings.HasSuffix(host, ".local") {
		return true
	}
	if strings.Contains(host, ":") {
		return isPrivateIPv6(host)
	}
	if o, ok := parseIPv4(host); ok {
		return isPrivateIPv4(o)
	}
	return false
}

// parseIPv4 parses a dotted-quad literal: exactly four decimal octets, the
// only IPv4 form the URL layer hands us.
func parseIPv4(host string) ([4]int, bool) {
	var octets [4]int
	parts := strings.Split(host, ".")
	if len(parts) != 4 {
		return octets, false
	}
	for i, p := range parts {
		if p == "" || len(p) > 3 {
			return octets, false
		}
		for j := 0; j < len(p); j++ {
			if p[j] < '0' || p[j] > '9' {
				return octets, false
			}
		}
		n, err := strconv.Atoi(p)
		if err != nil || n > 255 {
			return octets, false
		}
		octets[i] = n
	}
	return octets, true
}

func isPrivateIPv4(o [4]int) bool {
	switch {
	case o[0] == 10, o[0] == 127, o[0] == 0:
		return true
	case o[0] == 169 && o[1] == 254:
		return true
	case o[0] == 172 && o[1] >= 16 && o[1] <= 31:
		return true
	case o[0] == 192 && o[1] == 168:
		return true
	}
	return false
}

// isPrivateIPv6 classifies an IPv6 literal (brackets already stripped) by
// its leading hex digits: ::1 loopback, fc00::/7 unique-local, fe80::/10
// link-local.
func isPrivateIPv6(host string) bool {
	if host == "::1" {
		return true
	}
	for _, prefix := range []string{"fc", "fd", "fe8", "fe9", "fea", "feb"} {
		if strings.HasPrefix(host, prefix) {
			return true
		}
	}
	return false
}
