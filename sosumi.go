// Package sosumi renders structured documentation pages as Markdown for
// tools and agents that read text. It fetches the JSON content tree behind
// a documentation page, enforces an outbound-access policy (host filtering
// and robots.txt) before any network fetch, and converts the tree into
// Markdown with cross-document links rewritten to stay inside the policy.
//
// This package contains domain types and interfaces following Ben Johnson's
// Standard Package Layout. Implementations live in subdirectories named
// after their primary dependency or concern (e.g., http/, robots/, redis/).
package sosumi

// Version is the released version of this service, reported in the
// outbound user agent.
const Version = "1.1.0"

// ContactURL identifies this service to upstream operators.
const ContactURL = "https://sosumi.ai"

// UserAgent is the identifying user agent sent with every outbound request.
const UserAgent = "sosumi.ai/" + Version + " (+" + ContactURL + ")"

// DefaultUpstream is the documentation origin served at the root path when
// the operator does not configure one.
const DefaultUpstream = "https://developer.apple.com"

// DocumentationRoot is the path marker under which documentation pages and
// their JSON data endpoints live.
const DocumentationRoot = "/documentation"
