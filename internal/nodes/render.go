package nodes

import (
	"bytes"
	"fmt"
	"html"
	"io"
	"strings"

	"github.com/alecthomas/chroma/v2"
	chromahtml "github.com/alecthomas/chroma/v2/formatters/html"
	"github.com/alecthomas/chroma/v2/lexers"
	"github.com/alecthomas/chroma/v2/styles"
)

// ExternalIconClass is the class of the span rendered after external links.
const ExternalIconClass = "external-link-icon"

var codeFormatter = chromahtml.New(chromahtml.WithClasses(true))

// RenderHTML writes a node tree back as HTML. Code blocks are highlighted
// with chroma CSS classes; external links open in a new tab and carry an
// arrow span when ShowExternalIcon is set.
func RenderHTML(w io.Writer, tree []Node) error {
	var buf bytes.Buffer
	if err := renderAll(&buf, tree); err != nil {
		return err
	}
	_, err := w.Write(buf.Bytes())
	return err
}

func renderAll(buf *bytes.Buffer, tree []Node) error {
	for _, n := range tree {
		if err := render(buf, n); err != nil {
			return err
		}
	}
	return nil
}

func render(buf *bytes.Buffer, n Node) error {
	switch n := n.(type) {
	case Heading:
		fmt.Fprintf(buf, "<h%d>", n.Level)
		if err := renderAll(buf, n.Children); err != nil {
			return err
		}
		fmt.Fprintf(buf, "</h%d>\n", n.Level)
	case Paragraph:
		buf.WriteString("<p>")
		if err := renderAll(buf, n.Children); err != nil {
			return err
		}
		buf.WriteString("</p>\n")
	case Bold:
		buf.WriteString("<strong>")
		if err := renderAll(buf, n.Children); err != nil {
			return err
		}
		buf.WriteString("</strong>")
	case List:
		tag := "ul"
		if n.Ordered {
			tag = "ol"
		}
		buf.WriteString("<" + tag + ">\n")
		for _, item := range n.Items {
			buf.WriteString("<li>")
			if err := renderAll(buf, item.Children); err != nil {
				return err
			}
			buf.WriteString("</li>\n")
		}
		buf.WriteString("</" + tag + ">\n")
	case Link:
		buf.WriteString(`<a href="` + html.EscapeString(n.Href) + `"`)
		if n.External {
			buf.WriteString(` target="_blank" rel="noopener noreferrer"`)
		}
		buf.WriteString(">")
		if err := renderAll(buf, n.Children); err != nil {
			return err
		}
		if n.ShowExternalIcon {
			buf.WriteString(`<span class="` + ExternalIconClass + `" aria-hidden="true">` + externalMarker + `</span>`)
		}
		buf.WriteString("</a>")
	case Table:
		renderTable(buf, n)
	case CodeBlock:
		return renderCode(buf, n)
	case Text:
		buf.WriteString(strings.ReplaceAll(html.EscapeString(n.Value), "\n", "<br />\n"))
	default:
		return fmt.Errorf("unsupported node %T", n)
	}
	return nil
}

func renderTable(buf *bytes.Buffer, t Table) {
	buf.WriteString("<table>\n<thead>\n<tr>")
	for _, h := range t.Headers {
		buf.WriteString("<th>" + html.EscapeString(h) + "</th>")
	}
	buf.WriteString("</tr>\n</thead>\n<tbody>\n")
	for _, row := range t.Rows {
		buf.WriteString("<tr>")
		for _, cell := range row {
			buf.WriteString("<td>" + html.EscapeString(cell) + "</td>")
		}
		buf.WriteString("</tr>\n")
	}
	buf.WriteString("</tbody>\n</table>\n")
}

func renderCode(buf *bytes.Buffer, c CodeBlock) error {
	var lexer chroma.Lexer
	if c.Language != "" {
		lexer = lexers.Get(c.Language)
	}
	if lexer == nil {
		lexer = lexers.Fallback
	}

	it, err := chroma.Coalesce(lexer).Tokenise(nil, c.Code)
	if err != nil {
		return fmt.Errorf("highlighting %q code: %w", c.Language, err)
	}
	if err := codeFormatter.Format(buf, styles.Fallback, it); err != nil {
		return fmt.Errorf("formatting %q code: %w", c.Language, err)
	}
	buf.WriteString("\n")
	return nil
}
