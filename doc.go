// Package folio assembles portfolio blog posts from a compiled JSON
// artifact.
//
// # Quick Start
//
// Compile a directory of Markdown posts once, then serve them:
//
//	repo := folio.OpenRepository("data/posts.json", logger)
//	a := folio.NewAssembler(repo, folio.WithLogger(logger))
//
//	post, ok := a.LoadPost(ctx, "pg-series-ch2")
//	if !ok {
//	    // render a not-found state
//	}
//
// # Pipeline
//
// Content flows through these stages:
//
//  1. The compiler (cmd/folio compile) reads Markdown files, parses their
//     frontmatter, links series chapters and writes the artifact sorted
//     newest first.
//  2. The repository loads the artifact into memory. A missing or corrupt
//     artifact yields an empty repository, never a crash.
//  3. The assembler applies field defaults, resolves the icon and color
//     token, and converts the Markdown body into a typed node tree.
//
// # Failure Isolation
//
// One bad post never breaks a listing. A conversion error degrades that
// post to a fallback tree and sets Post.Degraded; a panic makes the post
// unavailable. LoadAllPosts drops unavailable posts and keeps artifact
// order.
//
// # Concurrency
//
// An Assembler is safe for concurrent use. LoadAllPosts converts posts on a
// bounded worker pool and re-sequences results by artifact index.
package folio
