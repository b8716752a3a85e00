package markdown

import (
	"strings"

	sosumi "github.com/NSHipster/sosumi.ai"
)

// blocks renders a block sequence joined by blank lines.
func (st *renderState) blocks(nodes []sosumi.ContentNode, depth int) string {
	if depth > st.contentDepth {
		return truncationPlaceholder
	}
	var parts []string
	for _, n := range nodes {
		if s := st.block(n, depth); s != "" {
			parts = append(parts, s)
		}
	}
	return strings.Join(parts, "\n\n")
}

// block renders one block-level node.
func (st *renderState) block(n sosumi.ContentNode, depth int) string {
	switch n.Type {
	case "heading":
		return st.heading(n)
	case "paragraph":
		return st.inlines(n.InlineContent, 0)
	case "codeListing":
		return codeBlock(n.Syntax, strings.Join(n.Code.Lines, "\n"))
	case "unorderedList":
		return st.list(n.Items, "- ", depth)
	case "orderedList":
		return st.list(n.Items, "1. ", depth)
	case "termList":
		return st.termList(n.Items, depth)
	case "aside":
		return st.aside(n, depth)
	case "table":
		return st.table(n, depth)
	case "image":
		return st.image(n.Identifier)
	}
	// Unknown kinds degrade to whatever content they carry.
	if len(n.InlineContent) > 0 {
		return st.inlines(n.InlineContent, 0)
	}
	if len(n.Content) > 0 {
		return st.blocks(n.Content, depth+1)
	}
	return n.Text
}

func (st *renderState) heading(n sosumi.ContentNode) string {
	level := n.Level
	if level < 1 {
		level = 1
	}
	if level > 6 {
		level = 6
	}
	text := n.Text
	if text == "" {
		text = st.inlines(n.InlineContent, 0)
	}
	return strings.Repeat("#", level) + " " + text
}

// list renders plain list items, aligning continuation lines under the
// marker.
func (st *renderState) list(items []sosumi.ListItem, marker string, depth int) string {
	var parts []string
	for _, item := range items {
		body := st.blocks(item.Content, depth+1)
		if body == "" {
			continue
		}
		parts = append(parts, indentItem(body, marker))
	}
	return strings.Join(parts, "\n")
}

func (st *renderState) termList(items []sosumi.ListItem, depth int) string {
	var parts []string
	for _, item := range items {
		term := ""
		if item.Term != nil {
			term = st.inlines(item.Term.InlineContent, 0)
		}
		def := ""
		if item.Definition != nil {
			def = st.blocks(item.Definition.Content, depth+1)
		}
		if term == "" && def == "" {
			continue
		}
		body := "**" + term + "**"
		if def != "" {
			body += ": " + def
		}
		parts = append(parts, indentItem(body, "- "))
	}
	return strings.Join(parts, "\n")
}

// indentItem prefixes the first line with the marker and indents
// continuation lines to stay inside the item.
func indentItem(body, marker string) string {
	pad := strings.Repeat(" ", len(marker))
	lines := strings.Split(body, "\n")
	for i, line := range lines {
		switch {
		case i == 0:
			lines[i] = marker + line
		case line == "":
		default:
			lines[i] = pad + line
		}
	}
	return strings.Join(lines, "\n")
}

// asideLabels maps aside styles to display labels.
var asideLabels = map[string]string{
	"note":       "Note",
	"tip":        "Tip",
	"important":  "Important",
	"warning":    "Warning",
	"experiment": "Experiment",
	"deprecated": "Deprecated",
	"attention":  "Attention",
}

// aside renders a callout as a labeled blockquote. An explicit display
// name wins over the style-derived label.
func (st *renderState) aside(n sosumi.ContentNode, depth int) string {
	label := n.Name
	if label == "" {
		style := strings.ToLower(n.Style)
		switch {
		case asideLabels[style] != "":
			label = asideLabels[style]
		case style != "":
			label = strings.ToUpper(style[:1]) + style[1:]
		default:
			label = "Note"
		}
	}
	body := "**" + label + ":**"
	if content := st.blocks(n.Content, depth+1); content != "" {
		body += " " + content
	}
	return quote(body)
}

// quote prefixes each line as a blockquote.
func quote(s string) string {
	lines := strings.Split(s, "\n")
	for i, line := range lines {
		if line == "" {
			lines[i] = ">"
		} else {
			lines[i] = "> " + line
		}
	}
	return strings.Join(lines, "\n")
}

// table renders rows of block cells. Row-style headers emit the first row
// as the Markdown header; otherwise an empty header row keeps the table
// well formed.
func (st *renderState) table(n sosumi.ContentNode, depth int) string {
	width := 0
	for _, row := range n.Rows {
		if len(row) > width {
			width = len(row)
		}
	}
	if width == 0 {
		return ""
	}

	render := func(row [][]sosumi.ContentNode) string {
		cells := make([]string, width)
		for i := range cells {
			if i < len(row) {
				cells[i] = st.tableCell(row[i], depth)
			}
		}
		return "| " + strings.Join(cells, " | ") + " |"
	}
	sep := "|" + strings.Repeat(" --- |", width)

	var lines []string
	rows := n.Rows
	switch n.Header {
	case "row", "both":
		lines = append(lines, render(rows[0]), sep)
		rows = rows[1:]
	default:
		lines = append(lines, "|"+strings.Repeat("  |", width), sep)
	}
	for _, row := range rows {
		lines = append(lines, render(row))
	}
	return strings.Join(lines, "\n")
}

// tableCell flattens a cell's blocks onto one line, escaping pipes.
func (st *renderState) tableCell(nodes []sosumi.ContentNode, depth int) string {
	s := st.blocks(nodes, depth+1)
	s = strings.ReplaceAll(s, "\n", " ")
	return strings.ReplaceAll(s, "|", "\\|")
}

// image renders an image reference, preferring the 2x variant.
func (st *renderState) image(identifier string) string {
	ref, ok := st.refs[identifier]
	if !ok {
		return ""
	}
	url := bestImageURL(ref)
	if url == "" {
		return ""
	}
	alt := ref.Alt
	if alt == "" {
		alt = "Image"
	}
	return "![" + alt + "](" + st.absoluteURL(url) + ")"
}

func bestImageURL(ref sosumi.Reference) string {
	for _, v := range ref.Variants {
		for _, t := range v.Traits {
			if t == "2x" {
				return v.URL
			}
		}
	}
	if len(ref.Variants) > 0 {
		return ref.Variants[0].URL
	}
	return ref.URL
}

// absoluteURL roots site-relative asset paths at the source origin.
func (st *renderState) absoluteURL(u string) string {
	if strings.HasPrefix(u, "/") {
		return st.sourceOrigin + u
	}
	return u
}

// codeBlock fences code, growing the fence past any backtick run inside.
func codeBlock(lang, code string) string {
	n := 3
	if run := longestBacktickRun(code); run >= n {
		n = run + 1
	}
	fence := strings.Repeat("`", n)
	return fence + languageTag(lang) + "\n" + code + "\n" + fence
}

func longestBacktickRun(s string) int {
	best, run := 0, 0
	for i := 0; i < len(s); i++ {
		if s[i] != '`' {
			run = 0
			continue
		}
		run++
		if run > best {
			best = run
		}
	}
	return best
}

// languageTag maps render JSON language names onto common Markdown
// highlighter tags.
func languageTag(lang string) string {
	if lang == "occ" {
		return "objc"
	}
	return lang
}
