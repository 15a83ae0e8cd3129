package compiler

import (
	"sort"
	"time"

	"github.com/alnah/go-folio/internal/content"
	"github.com/alnah/go-folio/internal/dateutil"
)

// LinkSeries sets previous/next chapter links on series entries. Entries
// are grouped by seriesSlug and ordered by chapter number; a missing
// number sorts last and ties keep their current order. Posts outside a
// series, and entries without a seriesSlug, are not touched.
func LinkSeries(posts []content.CompiledPost) {
	groups := make(map[string][]int)
	var order []string
	for i, p := range posts {
		fm := p.Frontmatter
		if !fm.IsSeriesEntry || fm.SeriesSlug == "" {
			continue
		}
		if _, ok := groups[fm.SeriesSlug]; !ok {
			order = append(order, fm.SeriesSlug)
		}
		groups[fm.SeriesSlug] = append(groups[fm.SeriesSlug], i)
	}

	for _, series := range order {
		idx := groups[series]
		sort.SliceStable(idx, func(a, b int) bool {
			return posts[idx[a]].Frontmatter.ChapterOrder() < posts[idx[b]].Frontmatter.ChapterOrder()
		})

		for pos, i := range idx {
			fm := &posts[i].Frontmatter
			fm.PreviousChapter, fm.PreviousChapterTitle = "", ""
			fm.NextChapter, fm.NextChapterTitle = "", ""
			if pos > 0 {
				prev := posts[idx[pos-1]]
				fm.PreviousChapter = prev.Slug
				fm.PreviousChapterTitle = prev.Frontmatter.LinkTitle()
			}
			if pos < len(idx)-1 {
				next := posts[idx[pos+1]]
				fm.NextChapter = next.Slug
				fm.NextChapterTitle = next.Frontmatter.LinkTitle()
			}
		}
	}
}

// SortByDate orders posts newest first. Missing or unparseable dates sort
// as the oldest possible date; ties keep their current order.
func SortByDate(posts []content.CompiledPost) {
	keys := make([]time.Time, len(posts))
	idx := make([]int, len(posts))
	for i, p := range posts {
		keys[i] = dateutil.SortKey(p.Frontmatter.Date)
		idx[i] = i
	}

	sort.SliceStable(idx, func(a, b int) bool {
		return keys[idx[a]].After(keys[idx[b]])
	})

	sorted := make([]content.CompiledPost, len(posts))
	for to, from := range idx {
		sorted[to] = posts[from]
	}
	copy(posts, sorted)
}
