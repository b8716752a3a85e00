package sosumi

import (
	"context"
	"encoding/json"
)

// Document is the decoded JSON data behind one documentation page:
// metadata, block content sections, topic listings, and the reference
// table used to resolve cross-document links.
type Document struct {
	Identifier             DocumentIdentifier   `json:"identifier"`
	Metadata               DocumentMetadata     `json:"metadata"`
	Abstract               []ContentNode        `json:"abstract,omitempty"`
	PrimaryContentSections []ContentSection     `json:"primaryContentSections,omitempty"`
	TopicSections          []TopicSection       `json:"topicSections,omitempty"`
	SeeAlsoSections        []TopicSection       `json:"seeAlsoSections,omitempty"`
	References             map[string]Reference `json:"references,omitempty"`
	Kind                   string               `json:"kind,omitempty"`
}

// DocumentIdentifier names a page within its documentation bundle.
type DocumentIdentifier struct {
	URL               string `json:"url"`
	InterfaceLanguage string `json:"interfaceLanguage,omitempty"`
}

// DocumentMetadata is the page-level presentation metadata.
type DocumentMetadata struct {
	Title       string                 `json:"title"`
	RoleHeading string                 `json:"roleHeading,omitempty"`
	Role        string                 `json:"role,omitempty"`
	ExternalID  string                 `json:"externalID,omitempty"`
	Platforms   []PlatformAvailability `json:"platforms,omitempty"`
	Modules     []ModuleInfo           `json:"modules,omitempty"`
}

// ModuleInfo names a module a symbol belongs to.
type ModuleInfo struct {
	Name string `json:"name"`
}

// PlatformAvailability records where and since when a symbol is available.
type PlatformAvailability struct {
	Name         string `json:"name"`
	IntroducedAt string `json:"introducedAt,omitempty"`
	Beta         bool   `json:"beta,omitempty"`
	Deprecated   bool   `json:"deprecated,omitempty"`
}

// ContentSection is one entry of primaryContentSections. Kind selects
// which payload field is meaningful.
type ContentSection struct {
	Kind         string        `json:"kind"`
	Content      []ContentNode `json:"content,omitempty"`
	Declarations []Declaration `json:"declarations,omitempty"`
	Parameters   []Parameter   `json:"parameters,omitempty"`
}

// Declaration is a symbol declaration as a token run.
type Declaration struct {
	Languages []string           `json:"languages,omitempty"`
	Tokens    []DeclarationToken `json:"tokens,omitempty"`
	Platforms []string           `json:"platforms,omitempty"`
}

// DeclarationToken is one lexical piece of a declaration.
type DeclarationToken struct {
	Kind string `json:"kind,omitempty"`
	Text string `json:"text"`
}

// Parameter documents one parameter of a callable symbol.
type Parameter struct {
	Name    string        `json:"name"`
	Content []ContentNode `json:"content,omitempty"`
}

// TopicSection groups related pages under a heading by identifier.
type TopicSection struct {
	Title       string   `json:"title,omitempty"`
	Identifiers []string `json:"identifiers,omitempty"`
}

// ContentNode is one node of the content tree: a tagged union on Type with
// only that kind's fields populated. Children hang off Content,
// InlineContent, or Items depending on kind. Trees are treated as
// immutable during rendering.
type ContentNode struct {
	Type string `json:"type"`

	// heading
	Level  int    `json:"level,omitempty"`
	Text   string `json:"text,omitempty"`
	Anchor string `json:"anchor,omitempty"`

	// code: listings carry a line array, inline code a literal string;
	// CodeValue absorbs both shapes of the shared key.
	Syntax string    `json:"syntax,omitempty"`
	Code   CodeValue `json:"code"`

	Content       []ContentNode `json:"content,omitempty"`
	InlineContent []ContentNode `json:"inlineContent,omitempty"`
	Items         []ListItem    `json:"items,omitempty"`

	// aside
	Style string `json:"style,omitempty"`
	Name  string `json:"name,omitempty"`

	// table
	Header string            `json:"header,omitempty"`
	Rows   [][][]ContentNode `json:"rows,omitempty"`

	// reference and image
	Identifier      string `json:"identifier,omitempty"`
	IsActive        bool   `json:"isActive,omitempty"`
	OverridingTitle string `json:"overridingTitle,omitempty"`
}

// ListItem is one list entry. Plain lists carry Content; term lists carry
// Term and Definition.
type ListItem struct {
	Content    []ContentNode   `json:"content,omitempty"`
	Term       *TermPart       `json:"term,omitempty"`
	Definition *DefinitionPart `json:"definition,omitempty"`
}

// TermPart is the inline term of a term-list entry.
type TermPart struct {
	InlineContent []ContentNode `json:"inlineContent,omitempty"`
}

// DefinitionPart is the block definition of a term-list entry.
type DefinitionPart struct {
	Content []ContentNode `json:"content,omitempty"`
}

// CodeValue holds either the line array of a code listing or the literal
// text of inline code.
type CodeValue struct {
	Lines  []string
	Inline string
}

// UnmarshalJSON accepts both encodings of the code key.
func (c *CodeValue) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err == nil {
		c.Inline = s
		return nil
	}
	var lines []string
	if err := json.Unmarshal(data, &lines); err != nil {
		return err
	}
	c.Lines = lines
	return nil
}

// MarshalJSON writes back whichever shape the value holds; listings win
// when both are set.
func (c CodeValue) MarshalJSON() ([]byte, error) {
	if c.Lines != nil {
		return json.Marshal(c.Lines)
	}
	return json.Marshal(c.Inline)
}

// Reference is one entry of a document's reference table.
type Reference struct {
	Identifier string         `json:"identifier,omitempty"`
	Type       string         `json:"type,omitempty"`
	Kind       string         `json:"kind,omitempty"`
	Role       string         `json:"role,omitempty"`
	Title      string         `json:"title,omitempty"`
	URL        string         `json:"url,omitempty"`
	Abstract   []ContentNode  `json:"abstract,omitempty"`
	Alt        string         `json:"alt,omitempty"`
	Variants   []ImageVariant `json:"variants,omitempty"`
}

// ImageVariant is one renderable asset of an image reference.
type ImageVariant struct {
	URL    string   `json:"url"`
	Traits []string `json:"traits,omitempty"`
}

// DocumentService retrieves the structured JSON document behind a
// documentation page URL.
type DocumentService interface {
	FetchDocument(ctx context.Context, target *TargetURL) (*Document, error)
}

// DocumentRenderer converts a document into Markdown. externalBase, when
// non-empty, is the origin whose documentation-rooted links must be routed
// back through the external proxy path.
type DocumentRenderer interface {
	Render(doc *Document, source *TargetURL, externalBase string) string
}
