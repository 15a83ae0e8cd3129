package main

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"html"
	"io"
	"net/url"
	"strings"

	folio "github.com/alnah/go-folio"
	"github.com/alnah/go-folio/internal/config"
	"github.com/alnah/go-folio/internal/nodes"
	"github.com/alnah/go-folio/internal/repository"
)

// ErrPostNotFound indicates an unknown or unavailable slug.
var ErrPostNotFound = errors.New("post not found")

// runShow renders one post from the artifact as HTML or JSON.
func runShow(ctx context.Context, args []string, env *Environment) error {
	flags, slug, err := parseShowFlags(args, env.Stderr)
	if err != nil {
		return err
	}

	cfg, logger, err := loadSettings(flags.common, env, func(cfg *config.Config) {
		if flags.artifact != "" {
			cfg.Content.Artifact = flags.artifact
		}
	})
	if err != nil {
		return err
	}

	repo, err := repository.LoadFile(cfg.Content.Artifact)
	if err != nil {
		return err
	}

	post, ok := newAssembler(repo, cfg, logger).LoadPost(ctx, slug)
	if !ok {
		return fmt.Errorf("%w: %s", ErrPostNotFound, slug)
	}

	if flags.format == showFormatJSON {
		enc := json.NewEncoder(env.Stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(post)
	}
	return writePostHTML(env.Stdout, post, cfg.Site.PostsPath)
}

// writePostHTML writes an article fragment: title, metadata line, content
// and series navigation. Chapter links point under postsPath.
func writePostHTML(w io.Writer, p *folio.Post, postsPath string) error {
	var buf bytes.Buffer

	fmt.Fprintf(&buf, "<article class=\"post %s %s\">\n", p.Style.BorderClass, p.Style.BgClass)
	fmt.Fprintf(&buf, "<h1>%s</h1>\n", html.EscapeString(p.Title))
	fmt.Fprintf(&buf, "<p class=\"meta %s\" data-icon=\"%s\">%s · %s</p>\n",
		p.Style.TextClass, html.EscapeString(p.Style.Icon),
		html.EscapeString(p.DisplayDate), html.EscapeString(p.ReadTime))

	if err := nodes.RenderHTML(&buf, p.Content); err != nil {
		return fmt.Errorf("rendering %s: %w", p.Slug, err)
	}

	if p.PreviousChapter != nil || p.NextChapter != nil {
		buf.WriteString("<nav class=\"series-nav\">\n")
		if p.PreviousChapter != nil {
			fmt.Fprintf(&buf, "<a rel=\"prev\" href=\"%s\">%s</a>\n",
				html.EscapeString(postURL(postsPath, p.PreviousChapter.Slug)), html.EscapeString(p.PreviousChapter.Title))
		}
		if p.NextChapter != nil {
			fmt.Fprintf(&buf, "<a rel=\"next\" href=\"%s\">%s</a>\n",
				html.EscapeString(postURL(postsPath, p.NextChapter.Slug)), html.EscapeString(p.NextChapter.Title))
		}
		buf.WriteString("</nav>\n")
	}
	buf.WriteString("</article>\n")

	_, err := w.Write(buf.Bytes())
	return err
}

func postURL(postsPath, slug string) string {
	return strings.TrimSuffix(postsPath, "/") + "/" + url.PathEscape(slug)
}

// printShowUsage prints usage for the show command.
func printShowUsage(w io.Writer) {
	fmt.Fprintln(w, "Usage: folio show <slug> [flags]")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Render one compiled post.")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Flags:")
	fmt.Fprintln(w, "  -a, --artifact <path>     Artifact path (default data/posts.json)")
	fmt.Fprintln(w, "  -f, --format <s>          Output format: html, json (default html)")
	printCommonUsage(w)
}
