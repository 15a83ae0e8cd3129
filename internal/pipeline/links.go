package pipeline

import (
	"path"
	"strings"

	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"

	"github.com/alnah/go-folio/internal/fileutil"
)

// ParseFragment parses an HTML fragment in a <body> context, so the result
// is the list of top-level nodes without an <html><body> wrapper. The nodes
// are attached to a fresh document node for uniform traversal.
func ParseFragment(content string) (*html.Node, error) {
	body := &html.Node{
		Type:     html.ElementNode,
		DataAtom: atom.Body,
		Data:     "body",
	}
	nodes, err := html.ParseFragment(strings.NewReader(content), body)
	if err != nil {
		return nil, err
	}

	container := &html.Node{Type: html.DocumentNode}
	for _, n := range nodes {
		container.AppendChild(n)
	}
	return container, nil
}

// RewritePostLinks turns relative links to Markdown files into post
// URLs under basePath: "./intro.md#setup" becomes "/posts/intro#setup" for
// basePath "/posts". Other links are left alone. An empty basePath returns
// the content unchanged.
func RewritePostLinks(content, basePath string) (string, error) {
	if basePath == "" {
		return content, nil
	}

	doc, err := ParseFragment(content)
	if err != nil {
		return "", err
	}

	changed := false
	walk(doc, func(n *html.Node) {
		if n.Type != html.ElementNode || n.DataAtom != atom.A {
			return
		}
		for i, attr := range n.Attr {
			if attr.Key != "href" {
				continue
			}
			if target, ok := postLinkTarget(attr.Val, basePath); ok {
				n.Attr[i].Val = target
				changed = true
			}
		}
	})
	if !changed {
		return content, nil
	}

	var buf strings.Builder
	for c := doc.FirstChild; c != nil; c = c.NextSibling {
		if err := html.Render(&buf, c); err != nil {
			return "", err
		}
	}
	return buf.String(), nil
}

// postLinkTarget maps a relative Markdown href to its post URL.
func postLinkTarget(href, basePath string) (string, bool) {
	if href == "" || fileutil.IsURL(href) ||
		strings.HasPrefix(href, "/") ||
		strings.HasPrefix(href, "#") ||
		strings.Contains(href, ":") {
		return "", false
	}

	ref, fragment, _ := strings.Cut(href, "#")
	if !fileutil.IsMarkdown(ref) {
		return "", false
	}

	// Slugs derive from the file name alone, whatever the directory.
	target := strings.TrimSuffix(basePath, "/") + "/" + fileutil.StripExtension(path.Clean(ref))
	if fragment != "" {
		target += "#" + fragment
	}
	return target, true
}

func walk(n *html.Node, visit func(*html.Node)) {
	visit(n)
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		walk(c, visit)
	}
}
