package folio

import (
	"time"

	"github.com/alnah/go-folio/internal/frontmatter"
	"github.com/alnah/go-folio/internal/nodes"
	"github.com/alnah/go-folio/internal/style"
)

// Field defaults applied by the assembler.
const (
	DefaultTitle    = "Untitled Post"
	DefaultExcerpt  = "No excerpt available"
	DefaultReadTime = "5 min read"
)

// Node is one element of a post's content tree.
type Node = nodes.Node

// StyleToken is the resolved icon and color of a post.
type StyleToken = style.Token

// ChapterLink points at a neighbouring chapter of a series.
type ChapterLink struct {
	Slug  string `json:"slug"`
	Title string `json:"title"`
}

// Post is a fully resolved post ready for rendering.
type Post struct {
	Slug        string     `json:"slug"`
	Title       string     `json:"title"`
	Excerpt     string     `json:"excerpt"`
	Date        string     `json:"date,omitempty"`
	PublishedAt time.Time  `json:"publishedAt"` // zero when Date is missing or unparseable
	DisplayDate string     `json:"displayDate,omitempty"`
	ReadTime    string     `json:"readTime"`
	WordCount   int        `json:"wordCount"`
	Categories  []string   `json:"categories"`
	Style       StyleToken `json:"style"`

	IsSeries        bool         `json:"isSeries"`
	IsSeriesEntry   bool         `json:"isSeriesEntry"`
	SeriesSlug      string       `json:"seriesSlug,omitempty"`
	SeriesTitle     string       `json:"seriesTitle,omitempty"`
	ChapterTitle    string       `json:"chapterTitle,omitempty"`
	ChapterNumber   *float64     `json:"chapterNumber,omitempty"`
	PreviousChapter *ChapterLink `json:"previousChapter,omitempty"`
	NextChapter     *ChapterLink `json:"nextChapter,omitempty"`

	Content  []Node `json:"content"`
	Degraded bool   `json:"degraded,omitempty"` // Content is the fallback tree

	Extra map[string]any `json:"extra,omitempty"`
}

// ChapterOrder returns the chapter number used for ordering, with missing
// numbers sorting last.
func (p *Post) ChapterOrder() float64 {
	if p.ChapterNumber == nil {
		return frontmatter.MissingChapterNumber
	}
	return *p.ChapterNumber
}

func chapterLink(slug, title string) *ChapterLink {
	if slug == "" {
		return nil
	}
	if title == "" {
		title = slug
	}
	return &ChapterLink{Slug: slug, Title: title}
}

func cloneNumber(n *float64) *float64 {
	if n == nil {
		return nil
	}
	v := *n
	return &v
}

func orDefault(value, fallback string) string {
	if value == "" {
		return fallback
	}
	return value
}
