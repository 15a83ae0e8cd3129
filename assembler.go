package folio

import (
	"context"
	"fmt"
	"maps"
	"runtime"
	"sort"
	"strings"
	"sync"

	"github.com/sirupsen/logrus"
	stripMarkdown "github.com/writeas/go-strip-markdown"

	"github.com/alnah/go-folio/internal/content"
	"github.com/alnah/go-folio/internal/dateutil"
	"github.com/alnah/go-folio/internal/logging"
	"github.com/alnah/go-folio/internal/nodes"
	"github.com/alnah/go-folio/internal/repository"
	"github.com/alnah/go-folio/internal/style"
)

// Repository is the in-memory set of compiled posts an Assembler reads.
type Repository = repository.Repository

// OpenRepository loads the artifact at path. It never fails: a missing or
// corrupt artifact is logged and yields an empty repository.
func OpenRepository(path string, logger logrus.FieldLogger) *Repository {
	return repository.Open(path, logger)
}

// ContentConverter turns a Markdown body into a node tree.
type ContentConverter interface {
	Convert(ctx context.Context, markdown string) ([]nodes.Node, error)
}

// StyleResolver maps frontmatter icon and color names to a token.
type StyleResolver func(icon, color string) style.Token

// Assembler builds Posts from a Repository. It holds no mutable state and
// is safe for concurrent use.
type Assembler struct {
	repo       *Repository
	log        logrus.FieldLogger
	converter  ContentConverter
	resolve    StyleResolver
	workers    int
	dateLayout string
	linkBase   string
}

// Option configures an Assembler.
type Option func(*Assembler)

// WithLogger sets the logger. A nil logger is ignored.
func WithLogger(l logrus.FieldLogger) Option {
	return func(a *Assembler) {
		if l != nil {
			a.log = l
		}
	}
}

// WithConverter replaces the default Markdown to node converter.
func WithConverter(c ContentConverter) Option {
	return func(a *Assembler) {
		if c != nil {
			a.converter = c
		}
	}
}

// WithResolver replaces style.Resolve.
func WithResolver(r StyleResolver) Option {
	return func(a *Assembler) {
		if r != nil {
			a.resolve = r
		}
	}
}

// WithWorkers bounds the goroutines used by bulk loads. n <= 0 means
// GOMAXPROCS.
func WithWorkers(n int) Option {
	return func(a *Assembler) {
		a.workers = n
	}
}

// WithDateFormat sets the format of Post.DisplayDate, using dateutil tokens
// (YYYY, MMMM, D, ...) or a preset name such as "iso" or "long".
// Panics if the format is invalid (programmer error).
func WithDateFormat(format string) Option {
	layout, err := dateutil.ParseDateFormat(format)
	if err != nil {
		panic(fmt.Sprintf("folio: WithDateFormat: %v: %v", ErrInvalidDateFormat, err))
	}
	return func(a *Assembler) {
		a.dateLayout = layout
	}
}

// WithLinkBase sets the URL prefix that relative .md links are rewritten
// to. Ignored when WithConverter supplies a custom converter.
func WithLinkBase(base string) Option {
	return func(a *Assembler) {
		a.linkBase = base
	}
}

// NewAssembler creates an Assembler over repo. A nil repo behaves as an
// empty one.
func NewAssembler(repo *Repository, opts ...Option) *Assembler {
	if repo == nil {
		repo = repository.New(nil)
	}

	defaultLayout, _ := dateutil.ParseDateFormat(dateutil.DefaultDisplayFormat)
	a := &Assembler{
		repo:       repo,
		log:        logging.Discard(),
		resolve:    style.Resolve,
		dateLayout: defaultLayout,
	}

	for _, opt := range opts {
		opt(a)
	}

	if a.converter == nil {
		a.converter = nodes.NewConverter(nodes.WithLinkBase(a.linkBase))
	}
	if a.workers <= 0 {
		a.workers = runtime.GOMAXPROCS(0)
	}

	return a
}

// Repository returns the repository the assembler reads from.
func (a *Assembler) Repository() *Repository {
	return a.repo
}

// LoadPost assembles the post with the given slug. The boolean is false
// when the slug is unknown, the post panicked during assembly, or ctx was
// cancelled.
func (a *Assembler) LoadPost(ctx context.Context, slug string) (*Post, bool) {
	compiled, ok := a.repo.Get(slug)
	if !ok {
		return nil, false
	}
	return a.assemble(ctx, compiled)
}

// LoadAllPosts assembles every post in artifact order. Unavailable posts
// are dropped; the order is never derived from post fields.
func (a *Assembler) LoadAllPosts(ctx context.Context) []*Post {
	return a.loadWhere(ctx, nil)
}

// SeriesChapters returns the entries of a series ordered by chapter number.
// Missing numbers sort last and ties keep artifact order. An unknown
// series yields an empty slice.
func (a *Assembler) SeriesChapters(ctx context.Context, seriesSlug string) []*Post {
	if seriesSlug == "" {
		return []*Post{}
	}

	chapters := a.loadWhere(ctx, func(cp content.CompiledPost) bool {
		return cp.Frontmatter.IsSeriesEntry && cp.Frontmatter.SeriesSlug == seriesSlug
	})
	sort.SliceStable(chapters, func(i, j int) bool {
		return chapters[i].ChapterOrder() < chapters[j].ChapterOrder()
	})

	a.log.WithField(logging.FieldSeries, seriesSlug).
		WithField("chapters", len(chapters)).
		Debug("series loaded")
	return chapters
}

// SeriesOverview returns the landing page of a series: the first post
// marked isSeries whose seriesSlug or slug equals seriesSlug.
func (a *Assembler) SeriesOverview(ctx context.Context, seriesSlug string) (*Post, bool) {
	if seriesSlug == "" {
		return nil, false
	}
	for i := range a.repo.Len() {
		cp, _ := a.repo.At(i)
		fm := cp.Frontmatter
		if fm.IsSeries && (fm.SeriesSlug == seriesSlug || cp.Slug == seriesSlug) {
			return a.assemble(ctx, cp)
		}
	}
	return nil, false
}

// loadWhere assembles the posts accepted by keep (all when nil) on the
// worker pool and returns them in artifact order.
func (a *Assembler) loadWhere(ctx context.Context, keep func(content.CompiledPost) bool) []*Post {
	picked := make([]content.CompiledPost, 0, a.repo.Len())
	for i := range a.repo.Len() {
		cp, _ := a.repo.At(i)
		if keep == nil || keep(cp) {
			picked = append(picked, cp)
		}
	}
	if len(picked) == 0 {
		return []*Post{}
	}

	concurrency := min(a.workers, len(picked))
	results := make([]*Post, len(picked))
	jobs := make(chan int, len(picked))
	var wg sync.WaitGroup

	for range concurrency {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for idx := range jobs {
				if ctx.Err() != nil {
					continue
				}
				if post, ok := a.assemble(ctx, picked[idx]); ok {
					results[idx] = post
				}
			}
		}()
	}

	for i := range picked {
		jobs <- i
	}
	close(jobs)
	wg.Wait()

	posts := make([]*Post, 0, len(results))
	for _, p := range results {
		if p != nil {
			posts = append(posts, p)
		}
	}
	return posts
}

// assemble applies defaults, resolves the style token and converts the
// body. Conversion errors degrade the content; panics make the post
// unavailable.
func (a *Assembler) assemble(ctx context.Context, cp content.CompiledPost) (post *Post, ok bool) {
	log := a.log.WithField(logging.FieldSlug, cp.Slug)

	defer func() {
		if r := recover(); r != nil {
			log.WithError(fmt.Errorf("%w: %v", ErrPostPanic, r)).Error("post unavailable")
			post, ok = nil, false
		}
	}()

	if ctx.Err() != nil {
		return nil, false
	}

	fm := cp.Frontmatter
	publishedAt, _ := dateutil.ParseDate(fm.Date)

	post = &Post{
		Slug:            cp.Slug,
		Title:           orDefault(fm.Title, DefaultTitle),
		Excerpt:         orDefault(fm.Excerpt, DefaultExcerpt),
		Date:            fm.Date,
		PublishedAt:     publishedAt,
		DisplayDate:     dateutil.Display(fm.Date, a.dateLayout),
		ReadTime:        orDefault(fm.ReadTime, DefaultReadTime),
		WordCount:       len(strings.Fields(stripMarkdown.Strip(cp.Content))),
		Categories:      append([]string{}, fm.Categories...),
		Style:           a.resolve(fm.Icon, fm.IconColor),
		IsSeries:        fm.IsSeries,
		IsSeriesEntry:   fm.IsSeriesEntry,
		SeriesSlug:      fm.SeriesSlug,
		SeriesTitle:     fm.SeriesTitle,
		ChapterTitle:    fm.ChapterTitle,
		ChapterNumber:   cloneNumber(fm.ChapterNumber),
		PreviousChapter: chapterLink(fm.PreviousChapter, fm.PreviousChapterTitle),
		NextChapter:     chapterLink(fm.NextChapter, fm.NextChapterTitle),
		Extra:           maps.Clone(fm.Extra),
	}

	tree, err := a.converter.Convert(ctx, cp.Content)
	switch {
	case err == nil:
		post.Content = tree
	case ctx.Err() != nil:
		return nil, false
	default:
		log.WithError(err).Warn("content unavailable, using fallback")
		post.Content = nodes.Fallback()
		post.Degraded = true
	}
	if post.Content == nil {
		post.Content = []Node{}
	}

	return post, true
}
