package main

import (
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/alnah/go-folio/internal/config"
)

// envPrefix marks the environment variables read by folio.
const envPrefix = "FOLIO_"

// envConfig holds configuration from environment variables.
// Provides CI/CD-friendly overrides without requiring YAML files.
type envConfig struct {
	ConfigPath     string // FOLIO_CONFIG: config file name or path
	ContentDir     string // FOLIO_CONTENT_DIR: Markdown source directory
	Artifact       string // FOLIO_ARTIFACT: compiled JSON artifact path
	PostsPath      string // FOLIO_POSTS_PATH: URL prefix for post pages
	DateFormat     string // FOLIO_DATE_FORMAT: display date format
	HighlightStyle string // FOLIO_HIGHLIGHT_STYLE: chroma style name
	Theme          string // FOLIO_THEME: site stylesheet name
	ThemeDir       string // FOLIO_THEME_DIR: theme override directory
	Addr           string // FOLIO_ADDR: serve listen address
	LogLevel       string // FOLIO_LOG_LEVEL: logrus level
	LogFormat      string // FOLIO_LOG_FORMAT: text or json
	Workers        int    // FOLIO_WORKERS: parallel workers
}

// knownEnvVars lists valid FOLIO_* environment variables.
// Used to detect typos and warn users about unknown variables.
var knownEnvVars = map[string]bool{
	"FOLIO_CONFIG":          true,
	"FOLIO_CONTENT_DIR":     true,
	"FOLIO_ARTIFACT":        true,
	"FOLIO_POSTS_PATH":      true,
	"FOLIO_DATE_FORMAT":     true,
	"FOLIO_HIGHLIGHT_STYLE": true,
	"FOLIO_THEME":           true,
	"FOLIO_THEME_DIR":       true,
	"FOLIO_ADDR":            true,
	"FOLIO_LOG_LEVEL":       true,
	"FOLIO_LOG_FORMAT":      true,
	"FOLIO_WORKERS":         true,
}

// loadEnvConfig reads configuration from environment variables.
func loadEnvConfig() *envConfig {
	cfg := &envConfig{
		ConfigPath:     os.Getenv("FOLIO_CONFIG"),
		ContentDir:     os.Getenv("FOLIO_CONTENT_DIR"),
		Artifact:       os.Getenv("FOLIO_ARTIFACT"),
		PostsPath:      os.Getenv("FOLIO_POSTS_PATH"),
		DateFormat:     os.Getenv("FOLIO_DATE_FORMAT"),
		HighlightStyle: os.Getenv("FOLIO_HIGHLIGHT_STYLE"),
		Theme:          os.Getenv("FOLIO_THEME"),
		ThemeDir:       os.Getenv("FOLIO_THEME_DIR"),
		Addr:           os.Getenv("FOLIO_ADDR"),
		LogLevel:       os.Getenv("FOLIO_LOG_LEVEL"),
		LogFormat:      os.Getenv("FOLIO_LOG_FORMAT"),
	}

	// Invalid or negative values are ignored.
	if workers := os.Getenv("FOLIO_WORKERS"); workers != "" {
		if w, err := strconv.Atoi(workers); err == nil && w > 0 {
			cfg.Workers = w
		}
	}

	return cfg
}

// warnUnknownEnvVars logs warnings for unrecognized FOLIO_* variables.
// Helps catch typos like FOLIO_ARTEFACT instead of FOLIO_ARTIFACT.
func warnUnknownEnvVars(w io.Writer) {
	for _, env := range os.Environ() {
		if strings.HasPrefix(env, envPrefix) {
			name, _, _ := strings.Cut(env, "=")
			if !knownEnvVars[name] {
				fmt.Fprintf(w, "warning: unknown environment variable %s (typo?)\n", name)
			}
		}
	}
}

// applyEnvConfig applies environment variable values over the loaded
// config. Set variables win over the config file and defaults; CLI flags
// are applied afterwards and win over both.
func applyEnvConfig(env *envConfig, cfg *config.Config) {
	set := func(dst *string, value string) {
		if value != "" {
			*dst = value
		}
	}

	set(&cfg.Content.Dir, env.ContentDir)
	set(&cfg.Content.Artifact, env.Artifact)
	set(&cfg.Site.PostsPath, env.PostsPath)
	set(&cfg.Site.DateFormat, env.DateFormat)
	set(&cfg.Site.HighlightStyle, env.HighlightStyle)
	set(&cfg.Site.Theme, env.Theme)
	set(&cfg.Site.ThemeDir, env.ThemeDir)
	set(&cfg.Server.Addr, env.Addr)
	set(&cfg.Log.Level, env.LogLevel)
	set(&cfg.Log.Format, env.LogFormat)

	if env.Workers > 0 {
		cfg.Workers = env.Workers
	}
}
