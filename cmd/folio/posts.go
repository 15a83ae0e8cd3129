package main

import (
	"context"
	"fmt"
	"io"
	"strconv"
	"text/tabwriter"

	folio "github.com/alnah/go-folio"
	"github.com/alnah/go-folio/internal/config"
	"github.com/alnah/go-folio/internal/repository"
)

// runPosts lists the posts of the artifact, or the chapters of one series.
func runPosts(ctx context.Context, args []string, env *Environment) error {
	flags, err := parsePostsFlags(args, env.Stderr)
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
	a := newAssembler(repo, cfg, logger)

	if flags.series != "" {
		return printChapters(env.Stdout, a.SeriesChapters(ctx, flags.series))
	}
	return printPosts(env.Stdout, a.LoadAllPosts(ctx))
}

// printPosts writes one row per post in artifact order.
func printPosts(w io.Writer, posts []*folio.Post) error {
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "SLUG\tDATE\tTITLE")
	for _, p := range posts {
		fmt.Fprintf(tw, "%s\t%s\t%s\n", p.Slug, p.DisplayDate, p.Title)
	}
	return tw.Flush()
}

// printChapters writes one row per chapter in chapter order.
func printChapters(w io.Writer, chapters []*folio.Post) error {
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "CHAPTER\tSLUG\tTITLE")
	for _, p := range chapters {
		number := "-"
		if p.ChapterNumber != nil {
			number = strconv.FormatFloat(*p.ChapterNumber, 'f', -1, 64)
		}
		title := p.ChapterTitle
		if title == "" {
			title = p.Title
		}
		fmt.Fprintf(tw, "%s\t%s\t%s\n", number, p.Slug, title)
	}
	return tw.Flush()
}

// printPostsUsage prints usage for the posts command.
func printPostsUsage(w io.Writer) {
	fmt.Fprintln(w, "Usage: folio posts [flags]")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "List compiled posts, newest first.")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Flags:")
	fmt.Fprintln(w, "  -a, --artifact <path>     Artifact path (default data/posts.json)")
	fmt.Fprintln(w, "  -s, --series <slug>       List the chapters of one series")
	printCommonUsage(w)
}
