package main

import (
	"github.com/alnah/go-folio/internal/assets"
	"github.com/alnah/go-folio/internal/config"
	"github.com/alnah/go-folio/internal/pipeline"
)

// theme is the presentation shared by served pages and previews.
type theme struct {
	Page *assets.PageTemplate
	CSS  string // site stylesheet followed by the highlight stylesheet
	Name string
	// Custom is set when a theme directory is configured; assets missing
	// there still come from the built-in set.
	Custom bool
}

// loadTheme resolves the configured theme: stylesheet and page template
// from the theme directory when set, else the built-in ones.
func loadTheme(site config.SiteConfig) (*theme, error) {
	resolver, err := assets.NewAssetResolver(site.ThemeDir)
	if err != nil {
		return nil, err
	}

	siteCSS, err := resolver.LoadStyle(site.Theme)
	if err != nil {
		return nil, err
	}
	highlightCSS, err := pipeline.HighlightCSS(site.HighlightStyle)
	if err != nil {
		return nil, err
	}
	page, err := assets.LoadPageTemplate(resolver, assets.DefaultTemplateName)
	if err != nil {
		return nil, err
	}

	return &theme{
		Page:   page,
		CSS:    siteCSS + "\n" + highlightCSS,
		Name:   site.Theme,
		Custom: resolver.HasCustomLoader(),
	}, nil
}
