// Package nodes turns post HTML into a tree of typed content nodes that a
// presentation layer can lay out structurally.
//
// The node set is closed: Heading, Paragraph, List, Link, Table, CodeBlock,
// Bold and Text. Every node marshals to JSON with a "type" discriminator.
package nodes

import "encoding/json"

// Kind names a node variant in JSON output.
type Kind string

// Node kinds.
const (
	KindHeading   Kind = "heading"
	KindParagraph Kind = "paragraph"
	KindList      Kind = "list"
	KindLink      Kind = "link"
	KindTable     Kind = "table"
	KindCode      Kind = "code"
	KindBold      Kind = "bold"
	KindText      Kind = "text"
)

// Heading levels produced by the transformer.
const (
	MinHeadingLevel = 2
	MaxHeadingLevel = 4
)

// Node is one element of a content tree.
type Node interface {
	Kind() Kind
	isNode()
}

// Heading is a section title, level 2 to 4.
type Heading struct {
	Level    int    `json:"level"`
	Children []Node `json:"children"`
}

// Paragraph is a block of inline content.
type Paragraph struct {
	Children []Node `json:"children"`
}

// List is an ordered or unordered list. Items keep their inline structure.
type List struct {
	Ordered bool       `json:"ordered"`
	Items   []ListItem `json:"items"`
}

// ListItem is the content of one list entry.
type ListItem struct {
	Children []Node `json:"children"`
}

// Link is an anchor. ShowExternalIcon asks the renderer for an external
// affordance; it is false when the source markup already has one.
type Link struct {
	Href             string `json:"href"`
	External         bool   `json:"isExternal"`
	ShowExternalIcon bool   `json:"showExternalIcon"`
	Children         []Node `json:"children"`
}

// Table holds cell text only; nested markup in cells is flattened.
type Table struct {
	Headers []string   `json:"headers"`
	Rows    [][]string `json:"rows"`
}

// CodeBlock is preformatted code. Language is empty when absent or unknown
// to the highlighter.
type CodeBlock struct {
	Language string `json:"language"`
	Code     string `json:"rawCode"`
}

// Bold is strong emphasis.
type Bold struct {
	Children []Node `json:"children"`
}

// Text is a run of plain text.
type Text struct {
	Value string `json:"value"`
}

func (Heading) Kind() Kind   { return KindHeading }
func (Paragraph) Kind() Kind { return KindParagraph }
func (List) Kind() Kind      { return KindList }
func (Link) Kind() Kind      { return KindLink }
func (Table) Kind() Kind     { return KindTable }
func (CodeBlock) Kind() Kind { return KindCode }
func (Bold) Kind() Kind      { return KindBold }
func (Text) Kind() Kind      { return KindText }

func (Heading) isNode()   {}
func (Paragraph) isNode() {}
func (List) isNode()      {}
func (Link) isNode()      {}
func (Table) isNode()     {}
func (CodeBlock) isNode() {}
func (Bold) isNode()      {}
func (Text) isNode()      {}

// The *JSON types drop the MarshalJSON methods so the variants can embed
// their own fields next to the "type" discriminator.
type (
	headingJSON   Heading
	paragraphJSON Paragraph
	listJSON      List
	linkJSON      Link
	tableJSON     Table
	codeJSON      CodeBlock
	boldJSON      Bold
	textJSON      Text
)

func (n Heading) MarshalJSON() ([]byte, error) {
	return json.Marshal(struct {
		Type Kind `json:"type"`
		headingJSON
	}{KindHeading, headingJSON(n)})
}

func (n Paragraph) MarshalJSON() ([]byte, error) {
	return json.Marshal(struct {
		Type Kind `json:"type"`
		paragraphJSON
	}{KindParagraph, paragraphJSON(n)})
}

func (n List) MarshalJSON() ([]byte, error) {
	return json.Marshal(struct {
		Type Kind `json:"type"`
		listJSON
	}{KindList, listJSON(n)})
}

func (n Link) MarshalJSON() ([]byte, error) {
	return json.Marshal(struct {
		Type Kind `json:"type"`
		linkJSON
	}{KindLink, linkJSON(n)})
}

func (n Table) MarshalJSON() ([]byte, error) {
	return json.Marshal(struct {
		Type Kind `json:"type"`
		tableJSON
	}{KindTable, tableJSON(n)})
}

func (n CodeBlock) MarshalJSON() ([]byte, error) {
	return json.Marshal(struct {
		Type Kind `json:"type"`
		codeJSON
	}{KindCode, codeJSON(n)})
}

func (n Bold) MarshalJSON() ([]byte, error) {
	return json.Marshal(struct {
		Type Kind `json:"type"`
		boldJSON
	}{KindBold, boldJSON(n)})
}

func (n Text) MarshalJSON() ([]byte, error) {
	return json.Marshal(struct {
		Type Kind `json:"type"`
		textJSON
	}{KindText, textJSON(n)})
}

// FallbackMessage is the text of the tree returned for unusable content.
const FallbackMessage = "Content unavailable."

// Fallback returns the minimal tree shown when a post body cannot be
// transformed.
func Fallback() []Node {
	return []Node{Paragraph{Children: []Node{Text{Value: FallbackMessage}}}}
}
