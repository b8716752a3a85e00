package sosumi

import (
	"context"
	"strings"
)

// RobotsPolicyKind enumerates the closed set of robots.txt resolution
// outcomes for an origin.
type RobotsPolicyKind int

const (
	// RobotsRules carries raw robots.txt text, evaluated per path.
	RobotsRules RobotsPolicyKind = iota

	// RobotsAllowAll permits every path: the origin has no reachable
	// policy, or fetching it failed transiently (fail open).
	RobotsAllowAll

	// RobotsDenyAll denies every path: the origin answered 401/403 for
	// robots.txt.
	RobotsDenyAll

	// RobotsNotFound marks a 404/410 robots.txt. It exists only during
	// resolution; parent-domain fallback converts it before callers see it.
	RobotsNotFound
)

// RobotsPolicy is the resolved robots.txt outcome for one origin. Only the
// raw rule text is ever cached; parsed structure is recomputed per
// evaluation.
type RobotsPolicy struct {
	Kind  RobotsPolicyKind
	Rules string
}

// Allows reports whether the policy permits the given user agent to fetch
// the given path (path plus query string).
func (p RobotsPolicy) Allows(userAgent, path string) bool {
	switch p.Kind {
	case RobotsAllowAll, RobotsNotFound:
		return true
	case RobotsDenyAll:
		return false
	}
	return evaluateRobots(p.Rules, userAgent, path)
}

// RobotsService decides whether this system's user agent may fetch a
// target URL under the robots policy of the target's origin.
type RobotsService interface {
	CanFetch(ctx context.Context, target *TargetURL) error
}

// RobotsFetcher retrieves robots.txt for an origin. A non-nil error means
// the transport failed before any HTTP status was obtained.
type RobotsFetcher interface {
	FetchRobots(ctx context.Context, origin string) (status int, body string, err error)
}

// RobotsCache stores resolved robots policies keyed by origin.
// Implementations own expiry: Get never returns a stale entry.
type RobotsCache interface {
	Get(ctx context.Context, origin string) (RobotsPolicy, bool)
	Set(ctx context.Context, origin string, policy RobotsPolicy)
}

// ParentDomain returns host with its leftmost label removed, or "" when no
// reducible parent remains. Hosts at or below two labels and IP literals
// do not reduce.
func ParentDomain(host string) string {
	if strings.Contains(host, ":") {
		return ""
	}
	if _, ok := parseIPv4(host); ok {
		return ""
	}
	labels := strings.Split(host, ".")
	if len(labels) <= 2 {
		return ""
	}
	return strings.Join(labels[1:], ".")
}

type robotsRule struct {
	allow   bool
	pattern string
}

type robotsGroup struct {
	agents []string
	rules  []robotsRule
}

// parseRobotsGroups splits robots.txt text into user-agent groups. Agents
// accumulate until the first rule line; after rules have started, the next
// User-agent line opens a new group. Comments and blank lines drop;
// directive keys are case-insensitive; unknown directives are ignored.
func parseRobotsGroups(text string) []robotsGroup {
	var groups []robotsGroup
	cur := -1
	inRules := false
	for _, line := range strings.Split(text, "\n") {
		if i := strings.IndexByte(line, '#'); i >= 0 {
			line = line[:i]
		}
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		key, value, ok := strings.Cut(line, ":")
		if !ok {
			continue
		}
		key = strings.ToLower(strings.TrimSpace(key))
		value = strings.TrimSpace(value)
		switch key {
		case "user-agent":
			if cur < 0 || inRules {
				groups = append(groups, robotsGroup{})
				cur = len(groups) - 1
				inRules = false
			}
			groups[cur].agents = append(groups[cur].agents, strings.ToLower(value))
		case "allow", "disallow":
			if cur < 0 {
				continue
			}
			inRules = true
			groups[cur].rules = append(groups[cur].rules, robotsRule{
				allow:   key == "allow",
				pattern: value,
			})
		}
	}
	return groups
}

// evaluateRobots applies robots.txt text to a path for the given user
// agent. Groups naming the agent take precedence over wildcard groups;
// within the chosen tier the longest matching pattern wins, and Allow
// beats Disallow on exact length ties. No matching rule means allowed.
func evaluateRobots(text, userAgent, path string) bool {
	groups := parseRobotsGroups(text)
	ua := strings.ToLower(userAgent)

	var rules []robotsRule
	specific := false
	for _, g := range groups {
		if agentNamed(g.agents, ua) {
			specific = true
			rules = append(rules, g.rules...)
		}
	}
	if !specific {
		for _, g := range groups {
			if agentWildcard(g.agents) {
				rules = append(rules, g.rules...)
			}
		}
	}

	allowed := true
	bestLen := -1
	for _, r := range rules {
		if r.pattern == "" || !robotsPatternMatches(r.pattern, path) {
			continue
		}
		switch l := len(r.pattern); {
		case l > bestLen:
			bestLen = l
			allowed = r.allow
		case l == bestLen && r.allow:
			allowed = true
		}
	}
	return allowed
}

// agentNamed reports whether any group agent names this user agent: a
// case-insensitive substring match, so a "sosumi" token matches the full
// product string.
func agentNamed(agents []string, ua string) bool {
	for _, a := range agents {
		if a != "" && a != "*" && strings.Contains(ua, a) {
			return true
		}
	}
	return false
}

func agentWildcard(agents []string) bool {
	for _, a := range agents {
		if a == "*" {
			return true
		}
	}
	return false
}

// robotsPatternMatches reports whether a rule pattern matches the path.
// '*' matches any run of characters; a trailing '$' anchors the pattern to
// the end of the path; without the anchor a prefix match suffices. The
// empty pattern matches nothing.
func robotsPatternMatches(pattern, path string) bool {
	if pattern == "" {
		return false
	}
	if strings.HasSuffix(pattern, "$") {
		return wildcardMatch(strings.TrimSuffix(pattern, "$"), path)
	}
	return wildcardMatch(pattern+"*", path)
}

// wildcardMatch performs full-string matching where '*' matches any run of
// characters, including none.
func wildcardMatch(pattern, s string) bool {
	pi, si := 0, 0
	star, mark := -1, 0
	for si < len(s) {
		switch {
		case pi < len(pattern) && pattern[pi] == '*':
			star, mark = pi, si
			pi++
		case pi < len(pattern) && pattern[pi] == s[si]:
			pi++
			si++
		case star >= 0:
			pi = star + 1
			mark++
			si = mark
		default:
			return false
		}
	}
	for pi < len(pattern) && pattern[pi] == '*' {
		pi++
	}
	return pi == len(pattern)
}
