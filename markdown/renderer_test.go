package markdown_test

import (
	"strings"
	"testing"

	sosumi "github.com/NSHipster/sosumi.ai"
	"github.com/NSHipster/sosumi.ai/markdown"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func render(t *testing.T, doc *sosumi.Document, externalBase string) string {
	t.Helper()

	source, err := sosumi.ParseTargetURL("https://host.example/documentation/demo")
	require.NoError(t, err)
	return markdown.NewRenderer().Render(doc, source, externalBase)
}

func text(s string) sosumi.ContentNode {
	return sosumi.ContentNode{Type: "text", Text: s}
}

func para(nodes ...sosumi.ContentNode) sosumi.ContentNode {
	return sosumi.ContentNode{Type: "paragraph", InlineContent: nodes}
}

func contentSection(nodes ...sosumi.ContentNode) sosumi.ContentSection {
	return sosumi.ContentSection{Kind: "content", Content: nodes}
}

func TestRenderer_Render(t *testing.T) {
	t.Parallel()

	t.Run("assembles a symbol page", func(t *testing.T) {
		t.Parallel()

		doc := &sosumi.Document{
			Metadata: sosumi.DocumentMetadata{
				Title:       "Array",
				RoleHeading: "Structure",
				Platforms: []sosumi.PlatformAvailability{
					{Name: "iOS", IntroducedAt: "8.0"},
					{Name: "macOS", IntroducedAt: "10.10"},
				},
			},
			Abstract: []sosumi.ContentNode{text("An ordered collection.")},
			PrimaryContentSections: []sosumi.ContentSection{
				{
					Kind: "declarations",
					Declarations: []sosumi.Declaration{
						{
							Languages: []string{"swift"},
							Tokens: []sosumi.DeclarationToken{
								{Kind: "keyword", Text: "struct"},
								{Kind: "text", Text: " "},
								{Kind: "identifier", Text: "Array"},
							},
						},
					},
				},
				contentSection(
					sosumi.ContentNode{Type: "heading", Level: 2, Text: "Overview"},
					para(text("Arrays hold elements of one type.")),
				),
			},
		}

		got := render(t, doc, "")

		assert.Contains(t, got, "*Structure*\n\n# Array\n\n*iOS 8.0+ | macOS 10.10+*")
		assert.Contains(t, got, "An ordered collection.")
		assert.Contains(t, got, "```swift\nstruct Array\n```")
		assert.Contains(t, got, "## Overview")
		assert.Contains(t, got, "\n\n---\n\n*Rendered for text-based tools by [sosumi.ai](https://sosumi.ai).")
		assert.True(t, strings.HasSuffix(got, "\n"))
	})

	t.Run("marks beta and deprecated platforms", func(t *testing.T) {
		t.Parallel()

		doc := &sosumi.Document{
			Metadata: sosumi.DocumentMetadata{
				Title: "Thing",
				Platforms: []sosumi.PlatformAvailability{
					{Name: "visionOS", IntroducedAt: "2.0", Beta: true},
					{Name: "watchOS", Deprecated: true},
				},
			},
		}

		got := render(t, doc, "")

		assert.Contains(t, got, "*visionOS 2.0+ (Beta) | watchOS (Deprecated)*")
	})

	t.Run("falls back to the identifier for the title", func(t *testing.T) {
		t.Parallel()

		doc := &sosumi.Document{
			Identifier: sosumi.DocumentIdentifier{URL: "doc://com.apple.Swift/documentation/Swift/JSONDecoder"},
		}

		got := render(t, doc, "")

		assert.Contains(t, got, "# JSON Decoder\n")
	})

	t.Run("falls back to the page path for the title", func(t *testing.T) {
		t.Parallel()

		got := render(t, &sosumi.Document{}, "")

		assert.Contains(t, got, "# demo\n")
	})

	t.Run("renders parameters as a section", func(t *testing.T) {
		t.Parallel()

		doc := &sosumi.Document{
			Metadata: sosumi.DocumentMetadata{Title: "init(from:)"},
			PrimaryContentSections: []sosumi.ContentSection{
				{
					Kind: "parameters",
					Parameters: []sosumi.Parameter{
						{Name: "decoder", Content: []sosumi.ContentNode{para(text("The decoder to read from."))}},
					},
				},
			},
		}

		got, want := render(t, doc, ""), "## Parameters\n\n### decoder\n\nThe decoder to read from."

		assert.Contains(t, got, want)
	})

	t.Run("renders topic sections with resolved links", func(t *testing.T) {
		t.Parallel()

		doc := &sosumi.Document{
			Metadata: sosumi.DocumentMetadata{Title: "Swift"},
			TopicSections: []sosumi.TopicSection{
				{Title: "Collections", Identifiers: []string{"doc://com.apple.Swift/documentation/Swift/Array"}},
			},
			References: map[string]sosumi.Reference{
				"doc://com.apple.Swift/documentation/Swift/Array": {
					Kind:  "symbol",
					Title: "Array",
					URL:   "/documentation/swift/array",
				},
			},
		}

		got := render(t, doc, "")

		assert.Contains(t, got, "## Topics\n\n### Collections\n\n- [`Array`](/documentation/swift/array)")
	})

	t.Run("routes documentation links through the proxy in external mode", func(t *testing.T) {
		t.Parallel()

		doc := &sosumi.Document{
			Metadata: sosumi.DocumentMetadata{Title: "Page"},
			Abstract: []sosumi.ContentNode{
				{Type: "reference", Identifier: "doc://bundle/documentation/kit/thing"},
			},
			References: map[string]sosumi.Reference{
				"doc://bundle/documentation/kit/thing": {Title: "Thing", URL: "/documentation/kit/thing"},
			},
		}

		got := render(t, doc, "https://host.example")

		assert.Contains(t, got, "[Thing](/external/https://host.example/documentation/kit/thing)")
	})

	t.Run("leaves documentation links alone outside external mode", func(t *testing.T) {
		t.Parallel()

		doc := &sosumi.Document{
			Metadata: sosumi.DocumentMetadata{Title: "Page"},
			Abstract: []sosumi.ContentNode{
				{Type: "reference", Identifier: "doc://bundle/documentation/kit/thing"},
			},
			References: map[string]sosumi.Reference{
				"doc://bundle/documentation/kit/thing": {Title: "Thing", URL: "/documentation/kit/thing"},
			},
		}

		got := render(t, doc, "")

		assert.Contains(t, got, "[Thing](/documentation/kit/thing)")
	})

	t.Run("leaves absolute links untouched in external mode", func(t *testing.T) {
		t.Parallel()

		doc := &sosumi.Document{
			Metadata: sosumi.DocumentMetadata{Title: "Page"},
			Abstract: []sosumi.ContentNode{
				{Type: "reference", Identifier: "ext"},
			},
			References: map[string]sosumi.Reference{
				"ext": {Title: "Elsewhere", URL: "https://other.example/page"},
			},
		}

		got := render(t, doc, "https://host.example")

		assert.Contains(t, got, "[Elsewhere](https://other.example/page)")
	})
}

func TestRenderer_Blocks(t *testing.T) {
	t.Parallel()

	t.Run("clamps heading levels", func(t *testing.T) {
		t.Parallel()

		doc := &sosumi.Document{
			Metadata: sosumi.DocumentMetadata{Title: "Page"},
			PrimaryContentSections: []sosumi.ContentSection{
				contentSection(
					sosumi.ContentNode{Type: "heading", Level: 9, Text: "Deep"},
					sosumi.ContentNode{Type: "heading", Level: 0, Text: "Shallow"},
				),
			},
		}

		got := render(t, doc, "")

		assert.Contains(t, got, "###### Deep")
		assert.Contains(t, got, "\n# Shallow")
	})

	t.Run("renders code listings with syntax", func(t *testing.T) {
		t.Parallel()

		doc := &sosumi.Document{
			Metadata: sosumi.DocumentMetadata{Title: "Page"},
			PrimaryContentSections: []sosumi.ContentSection{
				contentSection(sosumi.ContentNode{
					Type:   "codeListing",
					Syntax: "swift",
					Code:   sosumi.CodeValue{Lines: []string{"let a = 1", "let b = 2"}},
				}),
			},
		}

		got := render(t, doc, "")

		assert.Contains(t, got, "```swift\nlet a = 1\nlet b = 2\n```")
	})

	t.Run("renders unordered and ordered lists", func(t *testing.T) {
		t.Parallel()

		doc := &sosumi.Document{
			Metadata: sosumi.DocumentMetadata{Title: "Page"},
			PrimaryContentSections: []sosumi.ContentSection{
				contentSection(
					sosumi.ContentNode{Type: "unorderedList", Items: []sosumi.ListItem{
						{Content: []sosumi.ContentNode{para(text("first"))}},
						{Content: []sosumi.ContentNode{para(text("second"))}},
					}},
					sosumi.ContentNode{Type: "orderedList", Items: []sosumi.ListItem{
						{Content: []sosumi.ContentNode{para(text("step one"))}},
					}},
				),
			},
		}

		got := render(t, doc, "")

		assert.Contains(t, got, "- first\n- second")
		assert.Contains(t, got, "1. step one")
	})

	t.Run("indents multi-block list items", func(t *testing.T) {
		t.Parallel()

		doc := &sosumi.Document{
			Metadata: sosumi.DocumentMetadata{Title: "Page"},
			PrimaryContentSections: []sosumi.ContentSection{
				contentSection(sosumi.ContentNode{Type: "unorderedList", Items: []sosumi.ListItem{
					{Content: []sosumi.ContentNode{para(text("lead")), para(text("trail"))}},
				}}),
			},
		}

		got := render(t, doc, "")

		assert.Contains(t, got, "- lead\n\n  trail")
	})

	t.Run("renders term lists", func(t *testing.T) {
		t.Parallel()

		doc := &sosumi.Document{
			Metadata: sosumi.DocumentMetadata{Title: "Page"},
			PrimaryContentSections: []sosumi.ContentSection{
				contentSection(sosumi.ContentNode{Type: "termList", Items: []sosumi.ListItem{
					{
						Term:       &sosumi.TermPart{InlineContent: []sosumi.ContentNode{text("first")}},
						Definition: &sosumi.DefinitionPart{Content: []sosumi.ContentNode{para(text("the first one"))}},
					},
				}}),
			},
		}

		got := render(t, doc, "")

		assert.Contains(t, got, "- **first**: the first one")
	})

	t.Run("renders asides as labeled quotes", func(t *testing.T) {
		t.Parallel()

		doc := &sosumi.Document{
			Metadata: sosumi.DocumentMetadata{Title: "Page"},
			PrimaryContentSections: []sosumi.ContentSection{
				contentSection(
					sosumi.ContentNode{Type: "aside", Style: "important", Content: []sosumi.ContentNode{
						para(text("Read this first.")),
					}},
					sosumi.ContentNode{Type: "aside", Style: "note", Name: "Version note", Content: []sosumi.ContentNode{
						para(text("Changed in v2.")),
					}},
				),
			},
		}

		got := render(t, doc, "")

		assert.Contains(t, got, "> **Important:** Read this first.")
		assert.Contains(t, got, "> **Version note:** Changed in v2.")
	})

	t.Run("renders tables with a header row", func(t *testing.T) {
		t.Parallel()

		doc := &sosumi.Document{
			Metadata: sosumi.DocumentMetadata{Title: "Page"},
			PrimaryContentSections: []sosumi.ContentSection{
				contentSection(sosumi.ContentNode{
					Type:   "table",
					Header: "row",
					Rows: [][][]sosumi.ContentNode{
						{{para(text("Name"))}, {para(text("Value"))}},
						{{para(text("a"))}, {para(text("1 | 2"))}},
					},
				}),
			},
		}

		got := render(t, doc, "")

		assert.Contains(t, got, "| Name | Value |\n| --- | --- |\n| a | 1 \\| 2 |")
	})

	t.Run("renders images from the reference table", func(t *testing.T) {
		t.Parallel()

		doc := &sosumi.Document{
			Metadata: sosumi.DocumentMetadata{Title: "Page"},
			PrimaryContentSections: []sosumi.ContentSection{
				contentSection(sosumi.ContentNode{Type: "image", Identifier: "figure-1"}),
			},
			References: map[string]sosumi.Reference{
				"figure-1": {
					Alt: "A diagram",
					Variants: []sosumi.ImageVariant{
						{URL: "/images/figure-1@1x.png", Traits: []string{"1x"}},
						{URL: "/images/figure-1@2x.png", Traits: []string{"2x"}},
					},
				},
			},
		}

		got := render(t, doc, "")

		assert.Contains(t, got, "![A diagram](https://host.example/images/figure-1@2x.png)")
	})

	t.Run("renders inline markup", func(t *testing.T) {
		t.Parallel()

		doc := &sosumi.Document{
			Metadata: sosumi.DocumentMetadata{Title: "Page"},
			PrimaryContentSections: []sosumi.ContentSection{
				contentSection(para(
					text("Use "),
					sosumi.ContentNode{Type: "codeVoice", Code: sosumi.CodeValue{Inline: "append(_:)"}},
					text(" with "),
					sosumi.ContentNode{Type: "emphasis", InlineContent: []sosumi.ContentNode{text("care")}},
					text(" and "),
					sosumi.ContentNode{Type: "strong", InlineContent: []sosumi.ContentNode{text("intent")}},
					text("."),
				)),
			},
		}

		got := render(t, doc, "")

		assert.Contains(t, got, "Use `append(_:)` with *care* and **intent**.")
	})

	t.Run("degrades unknown node kinds to their content", func(t *testing.T) {
		t.Parallel()

		doc := &sosumi.Document{
			Metadata: sosumi.DocumentMetadata{Title: "Page"},
			PrimaryContentSections: []sosumi.ContentSection{
				contentSection(
					sosumi.ContentNode{Type: "mystery", Text: "plain payload"},
					sosumi.ContentNode{Type: "wrapper", Content: []sosumi.ContentNode{para(text("wrapped payload"))}},
				),
			},
		}

		got := render(t, doc, "")

		assert.Contains(t, got, "plain payload")
		assert.Contains(t, got, "wrapped payload")
	})

	t.Run("truncates runaway nesting", func(t *testing.T) {
		t.Parallel()

		node := para(text("bottom"))
		for i := 0; i < 60; i++ {
			node = sosumi.ContentNode{Type: "wrapper", Content: []sosumi.ContentNode{node}}
		}
		doc := &sosumi.Document{
			Metadata:               sosumi.DocumentMetadata{Title: "Page"},
			PrimaryContentSections: []sosumi.ContentSection{contentSection(node)},
		}

		got := render(t, doc, "")

		assert.Contains(t, got, "[content truncated]")
		assert.NotContains(t, got, "bottom")
	})

	t.Run("truncates runaway inline nesting", func(t *testing.T) {
		t.Parallel()

		node := text("bottom")
		for i := 0; i < 30; i++ {
			node = sosumi.ContentNode{Type: "emphasis", InlineContent: []sosumi.ContentNode{node}}
		}
		doc := &sosumi.Document{
			Metadata:               sosumi.DocumentMetadata{Title: "Page"},
			PrimaryContentSections: []sosumi.ContentSection{contentSection(para(node))},
		}

		got := render(t, doc, "")

		assert.Contains(t, got, "[content truncated]")
	})

	t.Run("widens fences around code containing backticks", func(t *testing.T) {
		t.Parallel()

		doc := &sosumi.Document{
			Metadata: sosumi.DocumentMetadata{Title: "Page"},
			PrimaryContentSections: []sosumi.ContentSection{
				contentSection(sosumi.ContentNode{
					Type: "codeListing",
					Code: sosumi.CodeValue{Lines: []string{"```", "nested fence", "```"}},
				}),
			},
		}

		got := render(t, doc, "")

		assert.Contains(t, got, "````\n```\nnested fence\n```\n````")
	})
}
