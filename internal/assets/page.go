package assets

import (
	"bytes"
	"fmt"
	"html/template"
)

// Page is the data a page template is executed with.
type Page struct {
	Title     string        // post title
	SiteTitle string        // may be empty
	Slug      string
	Article   template.HTML // rendered post, inserted unescaped
}

// PageTemplate renders complete post pages.
type PageTemplate struct {
	tmpl *template.Template
}

// LoadPageTemplate loads and parses the named template from loader.
func LoadPageTemplate(loader AssetLoader, name string) (*PageTemplate, error) {
	src, err := loader.LoadTemplate(name)
	if err != nil {
		return nil, err
	}
	tmpl, err := template.New(name).Parse(src)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrTemplateParse, err)
	}
	return &PageTemplate{tmpl: tmpl}, nil
}

// Render executes the template for p.
func (t *PageTemplate) Render(p Page) (string, error) {
	var buf bytes.Buffer
	if err := t.tmpl.Execute(&buf, p); err != nil {
		return "", fmt.Errorf("rendering %s: %w", p.Slug, err)
	}
	return buf.String(), nil
}
