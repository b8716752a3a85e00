package markdown

import (
	"strings"

	sosumi "github.com/NSHipster/sosumi.ai"
)

// inlines renders an inline run as one line of text.
func (st *renderState) inlines(nodes []sosumi.ContentNode, depth int) string {
	if depth > st.inlineDepth {
		return truncationPlaceholder
	}
	var b strings.Builder
	for _, n := range nodes {
		b.WriteString(st.inline(n, depth))
	}
	return b.String()
}

// inline renders one inline node.
func (st *renderState) inline(n sosumi.ContentNode, depth int) string {
	switch n.Type {
	case "text":
		return n.Text
	case "codeVoice":
		return codeSpan(n.Code.Inline)
	case "emphasis", "newTerm":
		return "*" + st.inlines(n.InlineContent, depth+1) + "*"
	case "strong", "inlineHead":
		return "**" + st.inlines(n.InlineContent, depth+1) + "**"
	case "reference":
		return st.link(n.Identifier, n.OverridingTitle)
	case "image":
		return st.image(n.Identifier)
	case "superscript", "subscript":
		return st.inlines(n.InlineContent, depth+1)
	}
	// Unknown kinds degrade to whatever text they carry.
	if n.Text != "" {
		return n.Text
	}
	return st.inlines(n.InlineContent, depth+1)
}

// codeSpan wraps inline code, widening the delimiter when the code itself
// contains backticks.
func codeSpan(code string) string {
	if strings.Contains(code, "`") {
		return "`` " + code + " ``"
	}
	return "`" + code + "`"
}
