// Package assets provides the stylesheets and page templates used to render
// post pages.
//
// # Loader Architecture
//
// The package implements a layered loading system:
//
//	AssetLoader (interface)
//	    │
//	    ├── EmbeddedLoader    - loads from go:embed filesystem (built-in theme)
//	    ├── FilesystemLoader  - loads from a theme directory on disk
//	    └── AssetResolver     - combines both with custom-first fallback
//
// EmbeddedLoader provides the built-in styles (default, minimal) and the
// page template embedded at compile time.
//
// FilesystemLoader reads a user theme directory, with path traversal
// protection and symlink resolution.
//
// AssetResolver tries the theme directory first and falls back to the
// embedded assets when a file is absent, so a theme may override only the
// stylesheet or only the page template.
//
// # Directory Structure
//
//	{themeDir}/
//	├── styles/
//	│   └── {name}.css           # site stylesheet (e.g., default.css)
//	└── templates/
//	    └── page.html            # html/template for one post page
//
// # Page Template
//
// The page template is executed with a Page value. Article is the already
// rendered post and is inserted unescaped. The stylesheet is injected before
// </head> after execution, so templates need not reference it.
//
// # Security
//
// Asset names are validated to prevent path traversal attacks.
// FilesystemLoader resolves symlinks and verifies paths stay within basePath.
package assets
