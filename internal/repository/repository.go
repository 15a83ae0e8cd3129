// Package repository serves compiled posts from the JSON artifact. A
// Repository is read-only after construction and safe for concurrent use.
package repository

import (
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/sirupsen/logrus"

	"github.com/alnah/go-folio/internal/content"
	"github.com/alnah/go-folio/internal/logging"
)

// ErrArtifactLoad indicates the artifact is missing or unusable.
var ErrArtifactLoad = errors.New("cannot load artifact")

// Repository is an in-memory, ordered set of compiled posts.
type Repository struct {
	posts  []content.CompiledPost
	index  map[string]int
	source string
}

// New builds a Repository from posts in artifact order. When a slug is
// repeated the first occurrence wins.
func New(posts []content.CompiledPost) *Repository {
	r := &Repository{
		posts: append([]content.CompiledPost(nil), posts...),
		index: make(map[string]int, len(posts)),
	}
	for i, p := range r.posts {
		if _, dup := r.index[p.Slug]; !dup {
			r.index[p.Slug] = i
		}
	}
	return r
}

// Load decodes and validates an artifact.
func Load(rd io.Reader) (*Repository, error) {
	posts, err := content.Decode(rd)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrArtifactLoad, err)
	}
	return New(posts), nil
}

// LoadFile loads the artifact at path.
func LoadFile(path string) (*Repository, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrArtifactLoad, err)
	}
	defer f.Close()

	r, err := Load(f)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	r.source = path
	return r, nil
}

// Open loads the artifact at path and never fails: a missing or corrupt
// artifact is logged and yields an empty repository.
func Open(path string, logger logrus.FieldLogger) *Repository {
	if logger == nil {
		logger = logging.Discard()
	}
	r, err := LoadFile(path)
	if err != nil {
		logger.WithError(err).WithField(logging.FieldFile, path).Error("serving without posts")
		empty := New(nil)
		empty.source = path
		return empty
	}
	logger.WithField(logging.FieldFile, path).WithField("posts", r.Len()).Debug("artifact loaded")
	return r
}

// ListSlugs returns every slug in artifact order.
func (r *Repository) ListSlugs() []string {
	out := make([]string, len(r.posts))
	for i, p := range r.posts {
		out[i] = p.Slug
	}
	return out
}

// Get returns the post with the given slug. A missing slug is reported by
// the boolean, never as an error.
func (r *Repository) Get(slug string) (content.CompiledPost, bool) {
	i, ok := r.index[slug]
	if !ok {
		return content.CompiledPost{}, false
	}
	return r.posts[i], true
}

// At returns the post at position i in artifact order.
func (r *Repository) At(i int) (content.CompiledPost, bool) {
	if i < 0 || i >= len(r.posts) {
		return content.CompiledPost{}, false
	}
	return r.posts[i], true
}

// Len returns the number of posts.
func (r *Repository) Len() int {
	return len(r.posts)
}

// Source returns the artifact path, or "" for in-memory repositories.
func (r *Repository) Source() string {
	return r.source
}
