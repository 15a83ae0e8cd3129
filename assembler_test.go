package folio

import (
	"context"
	"errors"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	logtest "github.com/sirupsen/logrus/hooks/test"

	"github.com/alnah/go-folio/internal/content"
	"github.com/alnah/go-folio/internal/frontmatter"
	"github.com/alnah/go-folio/internal/nodes"
	"github.com/alnah/go-folio/internal/repository"
	"github.com/alnah/go-folio/internal/style"
)

// convertFunc adapts a function to ContentConverter.
type convertFunc func(ctx context.Context, markdown string) ([]nodes.Node, error)

func (f convertFunc) Convert(ctx context.Context, markdown string) ([]nodes.Node, error) {
	return f(ctx, markdown)
}

func textConverter() ContentConverter {
	return convertFunc(func(_ context.Context, md string) ([]nodes.Node, error) {
		return []nodes.Node{nodes.Paragraph{Children: []nodes.Node{nodes.Text{Value: md}}}}, nil
	})
}

func num(f float64) *float64 { return &f }

func post(slug string, fm frontmatter.Frontmatter, body string) content.CompiledPost {
	fm.Slug = slug
	return content.CompiledPost{Slug: slug, Frontmatter: fm, Content: body}
}

func slugs(posts []*Post) []string {
	out := make([]string, len(posts))
	for i, p := range posts {
		out[i] = p.Slug
	}
	return out
}

func equalStrings(a, b []string) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}

// ---------------------------------------------------------------------------
// LoadPost
// ---------------------------------------------------------------------------

func TestLoadPost_Defaults(t *testing.T) {
	t.Parallel()

	repo := repository.New([]content.CompiledPost{
		post("bare", frontmatter.Frontmatter{}, "Body"),
	})
	a := NewAssembler(repo, WithConverter(textConverter()))

	p, ok := a.LoadPost(context.Background(), "bare")
	if !ok {
		t.Fatal("LoadPost(bare) = absent, want post")
	}

	if p.Title != DefaultTitle {
		t.Errorf("Title = %q, want %q", p.Title, DefaultTitle)
	}
	if p.Excerpt != DefaultExcerpt {
		t.Errorf("Excerpt = %q, want %q", p.Excerpt, DefaultExcerpt)
	}
	if p.ReadTime != DefaultReadTime {
		t.Errorf("ReadTime = %q, want %q", p.ReadTime, DefaultReadTime)
	}
	if p.Categories == nil || len(p.Categories) != 0 {
		t.Errorf("Categories = %#v, want empty non-nil slice", p.Categories)
	}
	if p.Style.Icon != style.DefaultIcon || p.Style.Color != style.DefaultColor {
		t.Errorf("Style = %+v, want %s/%s", p.Style, style.DefaultIcon, style.DefaultColor)
	}
	if !p.PublishedAt.IsZero() {
		t.Errorf("PublishedAt = %v, want zero", p.PublishedAt)
	}
	if p.PreviousChapter != nil || p.NextChapter != nil {
		t.Errorf("chapter links = %v/%v, want nil", p.PreviousChapter, p.NextChapter)
	}
	if p.Degraded {
		t.Error("Degraded = true, want false")
	}
}

func TestLoadPost_Fields(t *testing.T) {
	t.Parallel()

	repo := repository.New([]content.CompiledPost{
		post("pg-ch2", frontmatter.Frontmatter{
			Title:                "Chapter 2: Parallel Evolution",
			Excerpt:              "How it grew.",
			Date:                 "2024-03-05",
			ReadTime:             "8 min read",
			Categories:           []string{"databases", "history"},
			Icon:                 "database",
			IconColor:            "Purple",
			IsSeriesEntry:        true,
			SeriesSlug:           "pg-series",
			SeriesTitle:          "PostgreSQL",
			ChapterNumber:        num(2),
			PreviousChapter:      "pg-ch1",
			PreviousChapterTitle: "Origins",
			Extra:                map[string]any{"draft": false},
		}, "One two three.\n\nFour *five*."),
	})
	a := NewAssembler(repo, WithConverter(textConverter()))

	p, ok := a.LoadPost(context.Background(), "pg-ch2")
	if !ok {
		t.Fatal("LoadPost(pg-ch2) = absent, want post")
	}

	if p.Title != "Chapter 2: Parallel Evolution" {
		t.Errorf("Title = %q", p.Title)
	}
	if p.DisplayDate != "March 5, 2024" {
		t.Errorf("DisplayDate = %q, want %q", p.DisplayDate, "March 5, 2024")
	}
	want := time.Date(2024, 3, 5, 0, 0, 0, 0, time.UTC)
	if !p.PublishedAt.Equal(want) {
		t.Errorf("PublishedAt = %v, want %v", p.PublishedAt, want)
	}
	if p.WordCount != 5 {
		t.Errorf("WordCount = %d, want 5", p.WordCount)
	}
	if p.Style.Icon != "Database" || p.Style.Color != "purple" {
		t.Errorf("Style = %+v, want Database/purple", p.Style)
	}
	if p.PreviousChapter == nil || *p.PreviousChapter != (ChapterLink{Slug: "pg-ch1", Title: "Origins"}) {
		t.Errorf("PreviousChapter = %+v", p.PreviousChapter)
	}
	if p.NextChapter != nil {
		t.Errorf("NextChapter = %+v, want nil", p.NextChapter)
	}
	if p.ChapterOrder() != 2 {
		t.Errorf("ChapterOrder() = %v, want 2", p.ChapterOrder())
	}
	if p.Extra["draft"] != false {
		t.Errorf("Extra = %v", p.Extra)
	}

	// Mutating the post must not leak into the repository.
	*p.ChapterNumber = 9
	p.Extra["draft"] = true
	again, _ := a.LoadPost(context.Background(), "pg-ch2")
	if again.ChapterOrder() != 2 || again.Extra["draft"] != false {
		t.Error("post fields share memory with the repository")
	}
}

func TestLoadPost_Absent(t *testing.T) {
	t.Parallel()

	a := NewAssembler(nil)
	p, ok := a.LoadPost(context.Background(), "missing")
	if ok || p != nil {
		t.Errorf("LoadPost(missing) = %v, %v; want nil, false", p, ok)
	}
}

func TestLoadPost_ConversionErrorDegrades(t *testing.T) {
	t.Parallel()

	logger, hook := logtest.NewNullLogger()
	repo := repository.New([]content.CompiledPost{post("broken", frontmatter.Frontmatter{}, "x")})
	failing := convertFunc(func(context.Context, string) ([]nodes.Node, error) {
		return nil, nodes.ErrTransform
	})
	a := NewAssembler(repo, WithConverter(failing), WithLogger(logger))

	p, ok := a.LoadPost(context.Background(), "broken")
	if !ok {
		t.Fatal("LoadPost(broken) = absent, want degraded post")
	}
	if !p.Degraded {
		t.Error("Degraded = false, want true")
	}
	if len(p.Content) != 1 || p.Content[0].Kind() != nodes.KindParagraph {
		t.Errorf("Content = %#v, want fallback paragraph", p.Content)
	}

	entry := hook.LastEntry()
	if entry == nil {
		t.Fatal("no log entry for degraded post")
	}
	if entry.Data["slug"] != "broken" {
		t.Errorf("log slug = %v, want broken", entry.Data["slug"])
	}
}

func TestLoadPost_PanicIsUnavailable(t *testing.T) {
	t.Parallel()

	logger, hook := logtest.NewNullLogger()
	repo := repository.New([]content.CompiledPost{post("boom", frontmatter.Frontmatter{}, "x")})
	panicking := convertFunc(func(context.Context, string) ([]nodes.Node, error) {
		panic("bad markup")
	})
	a := NewAssembler(repo, WithConverter(panicking), WithLogger(logger))

	if p, ok := a.LoadPost(context.Background(), "boom"); ok || p != nil {
		t.Fatalf("LoadPost(boom) = %v, %v; want nil, false", p, ok)
	}

	entry := hook.LastEntry()
	if entry == nil {
		t.Fatal("no log entry for panicking post")
	}
	err, _ := entry.Data["error"].(error)
	if !errors.Is(err, ErrPostPanic) {
		t.Errorf("logged error = %v, want ErrPostPanic", err)
	}
}

func TestLoadPost_CancelledContext(t *testing.T) {
	t.Parallel()

	repo := repository.New([]content.CompiledPost{post("a", frontmatter.Frontmatter{}, "x")})
	a := NewAssembler(repo)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	if _, ok := a.LoadPost(ctx, "a"); ok {
		t.Error("LoadPost with cancelled context = ok, want absent")
	}
}

func TestLoadPost_DefaultConverter(t *testing.T) {
	t.Parallel()

	body := "See [the docs](https://example.com) and [part two](part-two.md).\n\n```sql\nSELECT 1;\n```"
	repo := repository.New([]content.CompiledPost{post("a", frontmatter.Frontmatter{}, body)})
	a := NewAssembler(repo, WithLinkBase("/posts"))

	p, ok := a.LoadPost(context.Background(), "a")
	if !ok {
		t.Fatal("LoadPost(a) = absent")
	}
	if len(p.Content) != 2 {
		t.Fatalf("Content has %d nodes, want 2: %#v", len(p.Content), p.Content)
	}

	para, ok := p.Content[0].(nodes.Paragraph)
	if !ok {
		t.Fatalf("Content[0] = %T, want Paragraph", p.Content[0])
	}
	var links []nodes.Link
	for _, c := range para.Children {
		if l, ok := c.(nodes.Link); ok {
			links = append(links, l)
		}
	}
	if len(links) != 2 {
		t.Fatalf("found %d links, want 2", len(links))
	}
	if !links[0].External || !links[0].ShowExternalIcon {
		t.Errorf("external link = %+v, want external with icon", links[0])
	}
	if links[1].Href != "/posts/part-two" || links[1].External {
		t.Errorf("post link = %+v, want internal /posts/part-two", links[1])
	}

	code, ok := p.Content[1].(nodes.CodeBlock)
	if !ok {
		t.Fatalf("Content[1] = %T, want CodeBlock", p.Content[1])
	}
	if code.Language != "sql" || code.Code != "SELECT 1;" {
		t.Errorf("CodeBlock = %+v, want sql / SELECT 1;", code)
	}
}

// ---------------------------------------------------------------------------
// Options
// ---------------------------------------------------------------------------

func TestWithDateFormat(t *testing.T) {
	t.Parallel()

	repo := repository.New([]content.CompiledPost{
		post("dated", frontmatter.Frontmatter{Date: "2024-03-05"}, ""),
		post("vague", frontmatter.Frontmatter{Date: "someday"}, ""),
	})
	a := NewAssembler(repo, WithConverter(textConverter()), WithDateFormat("iso"))

	p, _ := a.LoadPost(context.Background(), "dated")
	if p.DisplayDate != "2024-03-05" {
		t.Errorf("DisplayDate = %q, want 2024-03-05", p.DisplayDate)
	}

	p, _ = a.LoadPost(context.Background(), "vague")
	if p.DisplayDate != "someday" {
		t.Errorf("DisplayDate = %q, want raw value", p.DisplayDate)
	}
	if !p.PublishedAt.IsZero() {
		t.Errorf("PublishedAt = %v, want zero", p.PublishedAt)
	}
}

func TestWithDateFormat_PanicsOnInvalid(t *testing.T) {
	t.Parallel()

	defer func() {
		if recover() == nil {
			t.Error("WithDateFormat(invalid) did not panic")
		}
	}()
	WithDateFormat("[unclosed")
}

func TestWithResolver(t *testing.T) {
	t.Parallel()

	repo := repository.New([]content.CompiledPost{post("a", frontmatter.Frontmatter{Icon: "Rocket"}, "")})
	var gotIcon string
	a := NewAssembler(repo,
		WithConverter(textConverter()),
		WithResolver(func(icon, color string) style.Token {
			gotIcon = icon
			return style.Token{Icon: "custom"}
		}),
	)

	p, _ := a.LoadPost(context.Background(), "a")
	if gotIcon != "Rocket" || p.Style.Icon != "custom" {
		t.Errorf("resolver got %q, post style %+v", gotIcon, p.Style)
	}
}

// ---------------------------------------------------------------------------
// LoadAllPosts
// ---------------------------------------------------------------------------

func TestLoadAllPosts_PreservesRepositoryOrder(t *testing.T) {
	t.Parallel()

	// Dates deliberately disagree with artifact order: the assembler must
	// not re-sort.
	repo := repository.New([]content.CompiledPost{
		post("c", frontmatter.Frontmatter{Date: "2020-01-01"}, "slow"),
		post("a", frontmatter.Frontmatter{Date: "2024-01-01"}, "fast"),
		post("boom", frontmatter.Frontmatter{}, "panic"),
		post("b", frontmatter.Frontmatter{Date: "2022-01-01"}, "fast"),
	})

	var calls atomic.Int32
	conv := convertFunc(func(_ context.Context, md string) ([]nodes.Node, error) {
		calls.Add(1)
		switch md {
		case "slow":
			time.Sleep(20 * time.Millisecond)
		case "panic":
			panic("bad post")
		}
		return []nodes.Node{nodes.Text{Value: md}}, nil
	})
	a := NewAssembler(repo, WithConverter(conv), WithWorkers(3))

	got := slugs(a.LoadAllPosts(context.Background()))
	want := []string{"c", "a", "b"}
	if !equalStrings(got, want) {
		t.Errorf("LoadAllPosts() = %v, want %v", got, want)
	}
	if calls.Load() != 4 {
		t.Errorf("converter called %d times, want 4", calls.Load())
	}
}

func TestLoadAllPosts_Empty(t *testing.T) {
	t.Parallel()

	got := NewAssembler(repository.New(nil)).LoadAllPosts(context.Background())
	if got == nil || len(got) != 0 {
		t.Errorf("LoadAllPosts() = %#v, want empty non-nil slice", got)
	}
}

func TestLoadAllPosts_CancelledContext(t *testing.T) {
	t.Parallel()

	repo := repository.New([]content.CompiledPost{
		post("a", frontmatter.Frontmatter{}, ""),
		post("b", frontmatter.Frontmatter{}, ""),
	})
	a := NewAssembler(repo, WithConverter(textConverter()))

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	if got := a.LoadAllPosts(ctx); len(got) != 0 {
		t.Errorf("LoadAllPosts(cancelled) = %v, want none", slugs(got))
	}
}

// ---------------------------------------------------------------------------
// Series
// ---------------------------------------------------------------------------

func seriesRepo() *repository.Repository {
	entry := func(n *float64, series string) frontmatter.Frontmatter {
		return frontmatter.Frontmatter{IsSeriesEntry: true, SeriesSlug: series, ChapterNumber: n}
	}
	return repository.New([]content.CompiledPost{
		post("pg-unnumbered", entry(nil, "pg-series"), ""),
		post("pg-ch2", entry(num(2), "pg-series"), ""),
		post("other-ch1", entry(num(1), "other"), ""),
		post("pg-ch1", entry(num(1), "pg-series"), ""),
		post("pg-ch2-dup", entry(num(2), "pg-series"), ""),
		post("pg-series", frontmatter.Frontmatter{IsSeries: true, Title: "PostgreSQL"}, ""),
		post("not-entry", frontmatter.Frontmatter{SeriesSlug: "pg-series", ChapterNumber: num(0)}, ""),
	})
}

func TestSeriesChapters(t *testing.T) {
	t.Parallel()

	a := NewAssembler(seriesRepo(), WithConverter(textConverter()))

	got := slugs(a.SeriesChapters(context.Background(), "pg-series"))
	want := []string{"pg-ch1", "pg-ch2", "pg-ch2-dup", "pg-unnumbered"}
	if !equalStrings(got, want) {
		t.Errorf("SeriesChapters(pg-series) = %v, want %v", got, want)
	}
}

func TestSeriesChapters_Unknown(t *testing.T) {
	t.Parallel()

	a := NewAssembler(seriesRepo(), WithConverter(textConverter()))

	for _, series := range []string{"missing-series", ""} {
		got := a.SeriesChapters(context.Background(), series)
		if got == nil || len(got) != 0 {
			t.Errorf("SeriesChapters(%q) = %#v, want empty non-nil slice", series, got)
		}
	}
}

func TestSeriesOverview(t *testing.T) {
	t.Parallel()

	a := NewAssembler(seriesRepo(), WithConverter(textConverter()))

	p, ok := a.SeriesOverview(context.Background(), "pg-series")
	if !ok {
		t.Fatal("SeriesOverview(pg-series) = absent")
	}
	if p.Title != "PostgreSQL" || !p.IsSeries {
		t.Errorf("overview = %+v", p)
	}

	if _, ok := a.SeriesOverview(context.Background(), "other"); ok {
		t.Error("SeriesOverview(other) = found, want absent")
	}
}

// ---------------------------------------------------------------------------
// OpenRepository
// ---------------------------------------------------------------------------

func TestOpenRepository_MissingArtifact(t *testing.T) {
	t.Parallel()

	logger, hook := logtest.NewNullLogger()
	repo := OpenRepository(t.TempDir()+"/missing.json", logger)
	if repo.Len() != 0 {
		t.Errorf("Len() = %d, want 0", repo.Len())
	}
	if hook.LastEntry() == nil || !strings.Contains(hook.LastEntry().Message, "without posts") {
		t.Errorf("missing artifact not logged: %v", hook.AllEntries())
	}

	posts := NewAssembler(repo).LoadAllPosts(context.Background())
	if len(posts) != 0 {
		t.Errorf("LoadAllPosts() = %d posts, want 0", len(posts))
	}
}
