package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/alnah/go-folio/internal/config"
	"github.com/alnah/go-folio/internal/fileutil"
	"github.com/alnah/go-folio/internal/frontmatter"
	"github.com/alnah/go-folio/internal/pipeline"
)

// Sentinel errors for file-based commands.
var (
	ErrReadMarkdown = errors.New("failed to read markdown file")
	ErrWriteOutput  = errors.New("failed to write output file")
)

// runPreview renders one Markdown file as a standalone, highlighted HTML
// page, without compiling the whole content directory.
func runPreview(ctx context.Context, args []string, env *Environment) error {
	flags, input, err := parsePreviewFlags(args, env.Stderr)
	if err != nil {
		return err
	}

	cfg, logger, err := loadSettings(flags.common, env, func(cfg *config.Config) {
		if flags.style != "" {
			cfg.Site.HighlightStyle = flags.style
		}
	})
	if err != nil {
		return err
	}

	data, err := os.ReadFile(input) // #nosec G304 -- user-provided input path
	if err != nil {
		return fmt.Errorf("%w: %v", ErrReadMarkdown, err)
	}

	doc, err := frontmatter.Parse(string(data))
	if err != nil {
		logger.WithError(err).WithField("file", input).Warn("frontmatter ignored")
		doc = frontmatter.Document{Body: string(data)}
	}
	title := doc.Meta.Title
	if title == "" {
		title = fileutil.StripExtension(input)
	}

	page, err := pipeline.NewHighlightingConverter(title).ToHTML(ctx, doc.Body)
	if err != nil {
		return err
	}

	th, err := loadTheme(cfg.Site)
	if err != nil {
		return err
	}
	injector := &pipeline.CSSInjection{}
	page = injector.InjectCSS(ctx, page, th.CSS)
	if ctx.Err() != nil {
		return ctx.Err()
	}

	if flags.output == "" {
		_, err := io.WriteString(env.Stdout, page)
		return err
	}
	if err := fileutil.WriteFileAtomic(flags.output, []byte(page)); err != nil {
		return fmt.Errorf("%w: %v", ErrWriteOutput, err)
	}
	if !flags.common.quiet {
		fmt.Fprintf(env.Stdout, "Created %s\n", flags.output)
	}
	return nil
}

// printPreviewUsage prints usage for the preview command.
func printPreviewUsage(w io.Writer) {
	fmt.Fprintln(w, "Usage: folio preview <file.md> [flags]")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Render one Markdown file as a standalone HTML page.")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Flags:")
	fmt.Fprintln(w, "  -o, --output <path>       Output HTML file (default stdout)")
	fmt.Fprintln(w, "      --style <name>        Chroma highlight style (default github)")
	printCommonUsage(w)
}
