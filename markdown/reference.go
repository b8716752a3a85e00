package markdown

import (
	"net/url"
	"strings"
	"unicode"

	sosumi "github.com/NSHipster/sosumi.ai"
)

// link builds a Markdown link for a reference identifier. overriding, when
// non-empty, replaces the reference's own title. Symbol references render
// their titles as code; references without a destination degrade to plain
// text.
func (st *renderState) link(identifier, overriding string) string {
	ref := st.refs[identifier]

	title := overriding
	if title == "" {
		title = strings.TrimSpace(ref.Title)
	}
	if title == "" {
		title = TitleFromIdentifier(identifier)
	}
	if title == "" {
		title = identifier
	}
	if overriding == "" && isSymbolRef(ref) {
		title = codeSpan(title)
	}

	dest := ref.URL
	if dest == "" {
		dest = PathFromIdentifier(identifier)
	}
	if dest == "" {
		return title
	}
	return "[" + title + "](" + st.rewriteLink(dest) + ")"
}

func isSymbolRef(ref sosumi.Reference) bool {
	return ref.Kind == "symbol" || ref.Role == "symbol"
}

// rewriteLink routes a link destination. In external mode, same-site
// documentation paths go back through the proxy route so readers stay on
// rendered pages; everything else passes through untouched.
func (st *renderState) rewriteLink(dest string) string {
	if st.externalBase == "" {
		return dest
	}
	if strings.HasPrefix(dest, sosumi.DocumentationRoot) {
		return sosumi.ProxyPathPrefix + st.externalBase + dest
	}
	return dest
}

// TitleFromIdentifier derives a display title from the last segment of a
// doc:// identifier or URL path. Swift interface-language suffixes and
// trailing disambiguation hashes drop, percent escapes decode, and
// camel case splits into words.
func TitleFromIdentifier(identifier string) string {
	seg := lastSegment(identifier)
	if seg == "" {
		return ""
	}
	if i := strings.Index(seg, "-swift."); i >= 0 {
		seg = seg[:i]
	}
	if i := strings.LastIndexByte(seg, '-'); i >= 0 && isHashSuffix(seg[i+1:]) {
		seg = seg[:i]
	}
	if decoded, err := url.PathUnescape(seg); err == nil {
		seg = decoded
	}
	return splitCamelCase(seg)
}

// isHashSuffix reports whether a trailing token is a disambiguation hash:
// short, lowercase alphanumeric, with at least one digit. Plain words are
// not hashes, so article slugs keep their final word.
func isHashSuffix(s string) bool {
	if s == "" || len(s) > 8 {
		return false
	}
	digit := false
	for i := 0; i < len(s); i++ {
		switch c := s[i]; {
		case c >= '0' && c <= '9':
			digit = true
		case c >= 'a' && c <= 'z':
		default:
			return false
		}
	}
	return digit
}

// PathFromIdentifier extracts the URL path from a doc:// identifier,
// lowercased the way documentation servers address pages.
func PathFromIdentifier(identifier string) string {
	rest, ok := strings.CutPrefix(identifier, "doc://")
	if !ok {
		return ""
	}
	i := strings.IndexByte(rest, '/')
	if i < 0 {
		return ""
	}
	return strings.ToLower(rest[i:])
}

func lastSegment(s string) string {
	s = strings.TrimSuffix(s, "/")
	if i := strings.LastIndexByte(s, '/'); i >= 0 {
		s = s[i+1:]
	}
	return s
}

// splitCamelCase inserts spaces at case transitions, keeping acronym runs
// whole, so "JSONDecoder" reads as "JSON Decoder".
func splitCamelCase(s string) string {
	runes := []rune(s)
	var b strings.Builder
	for i, r := range runes {
		if i > 0 && unicode.IsUpper(r) {
			prev := runes[i-1]
			nextLower := i+1 < len(runes) && unicode.IsLower(runes[i+1])
			if unicode.IsLower(prev) || (unicode.IsUpper(prev) && nextLower) {
				b.WriteRune(' ')
			}
		}
		b.WriteRune(r)
	}
	return b.String()
}
