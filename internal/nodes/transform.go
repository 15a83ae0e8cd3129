package nodes

import (
	"errors"
	"fmt"
	"strings"

	"github.com/alecthomas/chroma/v2/lexers"
	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"

	"github.com/alnah/go-folio/internal/fileutil"
	"github.com/alnah/go-folio/internal/pipeline"
)

// ErrTransform indicates markup could not be turned into a node tree.
var ErrTransform = errors.New("content transform failed")

// languagePrefix marks the fence language in a code element's class.
const languagePrefix = "language-"

// externalMarker is the arrow authors use to flag external links by hand.
const externalMarker = "↗"

// handler converts one element into zero or more nodes.
type handler func(n *html.Node) []Node

// handlers is the closed set of recognized elements. Anything else is
// flattened to its children. Filled in init because the handlers recurse
// back into the table.
var handlers map[atom.Atom]handler

func init() {
	handlers = map[atom.Atom]handler{
		atom.H1:     heading,
		atom.H2:     heading,
		atom.H3:     heading,
		atom.H4:     heading,
		atom.H5:     heading,
		atom.H6:     heading,
		atom.P:      paragraph,
		atom.Ul:     list,
		atom.Ol:     list,
		atom.A:      link,
		atom.Strong: bold,
		atom.B:      bold,
		atom.Pre:    codeBlock,
		atom.Table:  table,
		atom.Br:     lineBreak,
		atom.Img:    image,
	}
}

// Transform parses an HTML fragment and converts it, in document order, to
// a node tree. It never panics; any failure is reported as ErrTransform.
func Transform(markup string) (tree []Node, err error) {
	defer func() {
		if r := recover(); r != nil {
			tree = nil
			err = fmt.Errorf("%w: %v", ErrTransform, r)
		}
	}()

	doc, err := pipeline.ParseFragment(markup)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrTransform, err)
	}
	return children(doc), nil
}

func convert(n *html.Node) []Node {
	switch n.Type {
	case html.TextNode:
		// Newline-only runs are formatting between block elements.
		if strings.TrimSpace(n.Data) == "" && strings.Contains(n.Data, "\n") {
			return nil
		}
		data := n.Data
		if prev := n.PrevSibling; prev != nil && prev.Type == html.ElementNode && prev.DataAtom == atom.Br {
			// The source newline after a hard break is already the break.
			data = strings.TrimPrefix(data, "\n")
		}
		return []Node{Text{Value: data}}
	case html.ElementNode:
		if h, ok := handlers[n.DataAtom]; ok {
			return h(n)
		}
		return children(n)
	case html.DocumentNode:
		return children(n)
	default:
		return nil
	}
}

// children converts every child of n. The result is never nil.
func children(n *html.Node) []Node {
	out := []Node{}
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		out = append(out, convert(c)...)
	}
	return out
}

func heading(n *html.Node) []Node {
	level := int(n.Data[1] - '0')
	level = max(MinHeadingLevel, min(MaxHeadingLevel, level))
	return []Node{Heading{Level: level, Children: children(n)}}
}

func paragraph(n *html.Node) []Node {
	return []Node{Paragraph{Children: children(n)}}
}

func bold(n *html.Node) []Node {
	return []Node{Bold{Children: children(n)}}
}

func list(n *html.Node) []Node {
	l := List{Ordered: n.DataAtom == atom.Ol, Items: []ListItem{}}
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		if c.Type == html.ElementNode && c.DataAtom == atom.Li {
			l.Items = append(l.Items, ListItem{Children: children(c)})
		}
	}
	return []Node{l}
}

func link(n *html.Node) []Node {
	href := attr(n, "href")
	external := fileutil.IsURL(href)
	return []Node{Link{
		Href:             href,
		External:         external,
		ShowExternalIcon: external && !hasIconMarker(n),
		Children:         children(n),
	}}
}

// hasIconMarker reports whether the inner markup of n already shows an
// icon: an svg, img or i element, a class mentioning "icon", or an arrow.
func hasIconMarker(n *html.Node) bool {
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		switch c.Type {
		case html.TextNode:
			if strings.Contains(c.Data, externalMarker) {
				return true
			}
		case html.ElementNode:
			if c.DataAtom == atom.Svg || c.DataAtom == atom.Img || c.DataAtom == atom.I {
				return true
			}
			if strings.Contains(strings.ToLower(attr(c, "class")), "icon") {
				return true
			}
		}
		if hasIconMarker(c) {
			return true
		}
	}
	return false
}

func codeBlock(n *html.Node) []Node {
	source := n
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		if c.Type == html.ElementNode && c.DataAtom == atom.Code {
			source = c
			break
		}
	}
	return []Node{CodeBlock{
		Language: language(attr(source, "class")),
		Code:     strings.Trim(text(source), "\r\n"),
	}}
}

// language returns the fence language named by a language-<name> class if
// the highlighter knows it, and "" otherwise.
func language(class string) string {
	for _, field := range strings.Fields(class) {
		name, ok := strings.CutPrefix(field, languagePrefix)
		if !ok || name == "" {
			continue
		}
		if lexers.Get(name) == nil {
			return ""
		}
		return strings.ToLower(name)
	}
	return ""
}

// table takes the first row as headers and the rest as body rows, whether
// or not the markup uses thead and tbody.
func table(n *html.Node) []Node {
	t := Table{Headers: []string{}, Rows: [][]string{}}
	first := true
	eachRow(n, func(row *html.Node) {
		var cells []string
		for c := row.FirstChild; c != nil; c = c.NextSibling {
			if c.Type == html.ElementNode && (c.DataAtom == atom.Th || c.DataAtom == atom.Td) {
				cells = append(cells, strings.TrimSpace(text(c)))
			}
		}
		if cells == nil {
			cells = []string{}
		}
		if first {
			t.Headers = cells
			first = false
			return
		}
		t.Rows = append(t.Rows, cells)
	})
	return []Node{t}
}

// eachRow visits tr elements below n in document order without descending
// into nested tables.
func eachRow(n *html.Node, visit func(*html.Node)) {
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		if c.Type != html.ElementNode || c.DataAtom == atom.Table {
			continue
		}
		if c.DataAtom == atom.Tr {
			visit(c)
			continue
		}
		eachRow(c, visit)
	}
}

func lineBreak(*html.Node) []Node {
	return []Node{Text{Value: "\n"}}
}

func image(n *html.Node) []Node {
	if alt := attr(n, "alt"); alt != "" {
		return []Node{Text{Value: alt}}
	}
	return nil
}

func attr(n *html.Node, key string) string {
	for _, a := range n.Attr {
		if a.Key == key {
			return a.Val
		}
	}
	return ""
}

// text concatenates the text below n; br counts as a newline.
func text(n *html.Node) string {
	var b strings.Builder
	var collect func(*html.Node)
	collect = func(n *html.Node) {
		switch {
		case n.Type == html.TextNode:
			b.WriteString(n.Data)
		case n.Type == html.ElementNode && n.DataAtom == atom.Br:
			b.WriteByte('\n')
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			collect(c)
		}
	}
	collect(n)
	return b.String()
}
