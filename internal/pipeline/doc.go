// Package pipeline converts post Markdown to HTML.
//
// The stages are:
//   - Markdown normalization (byte order mark, line endings)
//   - Markdown to HTML conversion via goldmark (GFM, hard wraps)
//   - Relative .md link rewriting to post URLs
//   - Stylesheet injection and chroma CSS for standalone previews
//
// GoldmarkConverter feeds the node transformer and deliberately emits no
// highlighting markup; HighlightingConverter renders previews.
package pipeline
