// Package markdown renders documentation content trees as Markdown text.
package markdown

import (
	"strings"

	sosumi "github.com/NSHipster/sosumi.ai"
)

// DefaultContentDepth bounds block-level nesting before truncation.
const DefaultContentDepth = 50

// DefaultInlineDepth bounds inline nesting before truncation.
const DefaultInlineDepth = 20

// truncationPlaceholder stands in for content past the nesting caps.
const truncationPlaceholder = "[content truncated]"

// attributionFooter closes every rendered page.
const attributionFooter = "*Rendered for text-based tools by [sosumi.ai](" + sosumi.ContactURL + "). " +
	"All documentation content belongs to its original copyright holders.*"

var _ sosumi.DocumentRenderer = (*Renderer)(nil)

// Renderer converts decoded documentation pages to Markdown. Rendering is
// pure: malformed or unknown content degrades to text instead of failing.
type Renderer struct {
	contentDepth int
	inlineDepth  int
}

// Option configures a Renderer.
type Option func(*Renderer)

// WithContentDepth caps block nesting before truncation.
// Defaults to DefaultContentDepth.
func WithContentDepth(n int) Option {
	return func(r *Renderer) {
		r.contentDepth = n
	}
}

// WithInlineDepth caps inline nesting before truncation.
// Defaults to DefaultInlineDepth.
func WithInlineDepth(n int) Option {
	return func(r *Renderer) {
		r.inlineDepth = n
	}
}

// NewRenderer creates a Renderer with the default depth limits.
func NewRenderer(opts ...Option) *Renderer {
	r := &Renderer{
		contentDepth: DefaultContentDepth,
		inlineDepth:  DefaultInlineDepth,
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Render converts one document to Markdown. source is the page's own URL,
// used for titles and to absolutize asset paths. externalBase, when
// non-empty, is the origin whose documentation links route back through
// the external proxy path.
func (r *Renderer) Render(doc *sosumi.Document, source *sosumi.TargetURL, externalBase string) string {
	st := &renderState{
		refs:         doc.References,
		externalBase: externalBase,
		sourceOrigin: source.Origin(),
		contentDepth: r.contentDepth,
		inlineDepth:  r.inlineDepth,
	}

	var parts []string
	add := func(s string) {
		if s != "" {
			parts = append(parts, s)
		}
	}

	if eyebrow := strings.TrimSpace(doc.Metadata.RoleHeading); eyebrow != "" {
		add("*" + eyebrow + "*")
	}
	add("# " + st.title(doc, source))
	add(availability(doc.Metadata.Platforms))
	add(st.inlines(doc.Abstract, 0))
	for _, sec := range doc.PrimaryContentSections {
		add(st.contentSection(sec))
	}
	add(st.topics("Topics", doc.TopicSections))
	add(st.topics("See Also", doc.SeeAlsoSections))
	add("---")
	add(attributionFooter)

	return strings.Join(parts, "\n\n") + "\n"
}

type renderState struct {
	refs         map[string]sosumi.Reference
	externalBase string
	sourceOrigin string
	contentDepth int
	inlineDepth  int
}

// title picks the page heading: explicit metadata first, then the symbol
// name derived from the identifier, then the page's own URL path.
func (st *renderState) title(doc *sosumi.Document, source *sosumi.TargetURL) string {
	if t := strings.TrimSpace(doc.Metadata.Title); t != "" {
		return t
	}
	if t := TitleFromIdentifier(doc.Identifier.URL); t != "" {
		return t
	}
	if t := TitleFromIdentifier(source.Path()); t != "" {
		return t
	}
	return "Documentation"
}

// availability renders the platform line, e.g. *iOS 17.0+ | macOS 14.0+*.
func availability(platforms []sosumi.PlatformAvailability) string {
	var parts []string
	for _, p := range platforms {
		if p.Name == "" {
			continue
		}
		s := p.Name
		if p.IntroducedAt != "" {
			s += " " + p.IntroducedAt + "+"
		}
		if p.Deprecated {
			s += " (Deprecated)"
		} else if p.Beta {
			s += " (Beta)"
		}
		parts = append(parts, s)
	}
	if len(parts) == 0 {
		return ""
	}
	return "*" + strings.Join(parts, " | ") + "*"
}

// contentSection renders one primary content section according to its
// kind; unrecognized kinds carry plain block content.
func (st *renderState) contentSection(sec sosumi.ContentSection) string {
	switch sec.Kind {
	case "declarations":
		return st.declarations(sec.Declarations)
	case "parameters":
		return st.parameters(sec.Parameters)
	}
	return st.blocks(sec.Content, 1)
}

func (st *renderState) declarations(decls []sosumi.Declaration) string {
	var parts []string
	for _, d := range decls {
		var b strings.Builder
		for _, tok := range d.Tokens {
			b.WriteString(tok.Text)
		}
		code := strings.TrimSpace(b.String())
		if code == "" {
			continue
		}
		lang := ""
		if len(d.Languages) > 0 {
			lang = d.Languages[0]
		}
		parts = append(parts, codeBlock(lang, code))
	}
	return strings.Join(parts, "\n\n")
}

func (st *renderState) parameters(params []sosumi.Parameter) string {
	if len(params) == 0 {
		return ""
	}
	parts := []string{"## Parameters"}
	for _, p := range params {
		if p.Name != "" {
			parts = append(parts, "### "+p.Name)
		}
		if body := st.blocks(p.Content, 1); body != "" {
			parts = append(parts, body)
		}
	}
	return strings.Join(parts, "\n\n")
}

// topics renders a topic or see-also group as lists of reference links.
func (st *renderState) topics(heading string, sections []sosumi.TopicSection) string {
	if len(sections) == 0 {
		return ""
	}
	parts := []string{"## " + heading}
	for _, sec := range sections {
		if sec.Title != "" {
			parts = append(parts, "### "+sec.Title)
		}
		var items []string
		for _, id := range sec.Identifiers {
			items = append(items, "- "+st.link(id, ""))
		}
		if len(items) > 0 {
			parts = append(parts, strings.Join(items, "\n"))
		}
	}
	if len(parts) == 1 {
		return ""
	}
	return strings.Join(parts, "\n\n")
}
