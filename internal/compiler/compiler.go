// Package compiler turns a directory of Markdown posts into the ordered,
// series-linked records stored in the JSON artifact.
package compiler

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"runtime"
	"sort"

	"github.com/goliatone/go-slug"
	"github.com/sirupsen/logrus"
	"golang.org/x/sync/errgroup"

	"github.com/alnah/go-folio/internal/content"
	"github.com/alnah/go-folio/internal/fileutil"
	"github.com/alnah/go-folio/internal/frontmatter"
	"github.com/alnah/go-folio/internal/logging"
)

// Sentinel errors for compilation.
var (
	ErrReadContentDir = errors.New("cannot read content directory")
	ErrDocumentParse  = errors.New("document parse failed")
	ErrWriteArtifact  = errors.New("cannot write artifact")
)

// Options configures a Compiler.
type Options struct {
	Recursive bool               // walk subdirectories
	Workers   int                // parallel file parses; <= 0 means GOMAXPROCS
	Logger    logrus.FieldLogger // nil discards logs
}

// Compiler builds CompiledPost records from Markdown files.
type Compiler struct {
	recursive bool
	workers   int
	log       logrus.FieldLogger
}

// New creates a Compiler.
func New(opts Options) *Compiler {
	c := &Compiler{
		recursive: opts.Recursive,
		workers:   opts.Workers,
		log:       opts.Logger,
	}
	if c.workers <= 0 {
		c.workers = runtime.GOMAXPROCS(0)
	}
	if c.log == nil {
		c.log = logging.Discard()
	}
	return c
}

// Compile reads every Markdown file under dir and returns the posts with
// series links set, newest first. Per-file problems are logged and never
// abort the batch; only an unreadable directory is an error.
func (c *Compiler) Compile(ctx context.Context, dir string) ([]content.CompiledPost, error) {
	files, err := c.listFiles(dir)
	if err != nil {
		return nil, err
	}

	results := make([]*content.CompiledPost, len(files))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(c.workers)
	for i, path := range files {
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			post, ok := c.compileFile(dir, path)
			if ok {
				results[i] = &post
			}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	posts := make([]content.CompiledPost, 0, len(results))
	for _, p := range results {
		if p != nil {
			posts = append(posts, *p)
		}
	}

	c.checkSlugs(posts)
	LinkSeries(posts)
	SortByDate(posts)

	c.log.WithField("posts", len(posts)).Debug("compiled content directory")
	return posts, nil
}

// compileFile reads and parses one file. A read failure drops the file;
// a parse failure keeps it with empty frontmatter.
func (c *Compiler) compileFile(dir, path string) (content.CompiledPost, bool) {
	log := c.log.WithField(logging.FieldFile, relPath(dir, path))

	data, err := os.ReadFile(path)
	if err != nil {
		log.WithError(err).Error("skipping unreadable file")
		return content.CompiledPost{}, false
	}

	post, err := ParseDocument(filepath.Base(path), string(data))
	if err != nil {
		log.WithError(err).Warn("frontmatter ignored")
	}
	return post, true
}

// ParseDocument builds the record for one file. On a frontmatter error the
// record is still returned, with empty frontmatter and the raw text as
// content, together with an ErrDocumentParse error.
func ParseDocument(filename, text string) (content.CompiledPost, error) {
	fallbackSlug := fileutil.StripExtension(filename)

	doc, err := frontmatter.Parse(text)
	if err != nil {
		return content.CompiledPost{
			Slug:        fallbackSlug,
			Frontmatter: frontmatter.Frontmatter{},
			Content:     text,
		}, fmt.Errorf("%w: %s: %v", ErrDocumentParse, filename, err)
	}

	postSlug := doc.Meta.Slug
	if postSlug == "" {
		postSlug = fallbackSlug
	}

	return content.CompiledPost{
		Slug:        postSlug,
		Frontmatter: doc.Meta,
		Content:     doc.Body,
	}, nil
}

// WriteArtifact encodes posts and writes them to path atomically.
func WriteArtifact(path string, posts []content.CompiledPost) error {
	data, err := content.Marshal(posts)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrWriteArtifact, err)
	}
	if err := fileutil.WriteFileAtomic(path, data); err != nil {
		return fmt.Errorf("%w: %s: %v", ErrWriteArtifact, path, err)
	}
	return nil
}

// listFiles returns the Markdown files under dir sorted by path, so output
// never depends on directory listing order.
func (c *Compiler) listFiles(dir string) ([]string, error) {
	info, err := os.Stat(dir)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrReadContentDir, err)
	}
	if !info.IsDir() {
		return nil, fmt.Errorf("%w: %s is not a directory", ErrReadContentDir, dir)
	}

	var files []string
	if c.recursive {
		err = filepath.WalkDir(dir, func(path string, d fs.DirEntry, walkErr error) error {
			if walkErr != nil {
				return walkErr
			}
			if d.Type().IsRegular() && fileutil.IsMarkdown(path) {
				files = append(files, path)
			}
			return nil
		})
	} else {
		var entries []os.DirEntry
		entries, err = os.ReadDir(dir)
		for _, e := range entries {
			if e.Type().IsRegular() && fileutil.IsMarkdown(e.Name()) {
				files = append(files, filepath.Join(dir, e.Name()))
			}
		}
	}
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrReadContentDir, err)
	}

	sort.Slice(files, func(i, j int) bool {
		return filepath.ToSlash(relPath(dir, files[i])) < filepath.ToSlash(relPath(dir, files[j]))
	})
	return files, nil
}

// checkSlugs warns about slugs that are not URL safe and about duplicates.
func (c *Compiler) checkSlugs(posts []content.CompiledPost) {
	seen := make(map[string]bool, len(posts))
	for _, p := range posts {
		log := c.log.WithField(logging.FieldSlug, p.Slug)
		if !slug.IsValid(p.Slug) {
			if normalized, err := slug.Normalize(p.Slug); err == nil && normalized != "" {
				log = log.WithField("suggested", normalized)
			}
			log.Warn("slug is not URL safe")
		}
		if seen[p.Slug] {
			log.Warn("duplicate slug; lookups return the newest post")
		}
		seen[p.Slug] = true
	}
}

func relPath(dir, path string) string {
	if rel, err := filepath.Rel(dir, path); err == nil {
		return rel
	}
	return path
}
