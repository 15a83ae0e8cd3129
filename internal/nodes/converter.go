package nodes

import (
	"context"
	"errors"
	"fmt"

	"github.com/alnah/go-folio/internal/pipeline"
)

// Converter turns post Markdown into a node tree: Markdown to HTML through
// an HTMLConverter, relative .md links to post URLs, then Transform.
// A Converter is safe for concurrent use.
type Converter struct {
	html     pipeline.HTMLConverter
	linkBase string
}

// ConverterOption configures a Converter.
type ConverterOption func(*Converter)

// WithHTMLConverter replaces the default goldmark converter.
func WithHTMLConverter(c pipeline.HTMLConverter) ConverterOption {
	return func(conv *Converter) {
		if c != nil {
			conv.html = c
		}
	}
}

// WithLinkBase sets the URL prefix for rewritten post links. An empty base
// leaves links untouched.
func WithLinkBase(base string) ConverterOption {
	return func(conv *Converter) {
		conv.linkBase = base
	}
}

// NewConverter creates a Converter backed by pipeline.GoldmarkConverter.
func NewConverter(opts ...ConverterOption) *Converter {
	c := &Converter{html: pipeline.NewGoldmarkConverter()}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Convert renders markdown and transforms the result. Failures other than
// context cancellation wrap ErrTransform.
func (c *Converter) Convert(ctx context.Context, markdown string) ([]Node, error) {
	markup, err := c.html.ToHTML(ctx, markdown)
	if err != nil {
		if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
			return nil, err
		}
		return nil, fmt.Errorf("%w: %v", ErrTransform, err)
	}

	markup, err = pipeline.RewritePostLinks(markup, c.linkBase)
	if err != nil {
		return nil, fmt.Errorf("%w: rewriting links: %v", ErrTransform, err)
	}

	return Transform(markup)
}
