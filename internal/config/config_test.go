package config

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestDefaultConfig(t *testing.T) {
	t.Parallel()

	cfg := DefaultConfig()

	if cfg.Content.Dir != "content" {
		t.Errorf("Content.Dir = %q, want %q", cfg.Content.Dir, "content")
	}
	if cfg.Content.Artifact != filepath.Join("data", "posts.json") {
		t.Errorf("Content.Artifact = %q", cfg.Content.Artifact)
	}
	if cfg.Site.PostsPath != "/posts" {
		t.Errorf("Site.PostsPath = %q, want /posts", cfg.Site.PostsPath)
	}
	if cfg.Server.Addr != ":3000" {
		t.Errorf("Server.Addr = %q, want :3000", cfg.Server.Addr)
	}
	if cfg.Site.Theme != "default" || cfg.Site.ThemeDir != "" {
		t.Errorf("Site theme = %q in %q, want built-in default", cfg.Site.Theme, cfg.Site.ThemeDir)
	}
	if err := cfg.Validate(); err != nil {
		t.Errorf("DefaultConfig().Validate() = %v, want nil", err)
	}
}

// ---------------------------------------------------------------------------
// Validate
// ---------------------------------------------------------------------------

func TestConfig_Validate(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		modify  func(*Config)
		wantErr bool
		errMsg  string
	}{
		{
			name:   "defaults are valid",
			modify: func(*Config) {},
		},
		{
			name:    "empty content dir",
			modify:  func(c *Config) { c.Content.Dir = "" },
			wantErr: true,
			errMsg:  "dir",
		},
		{
			name:    "artifact without json extension",
			modify:  func(c *Config) { c.Content.Artifact = "data/posts.yaml" },
			wantErr: true,
			errMsg:  "artifact",
		},
		{
			name:   "artifact extension is case insensitive",
			modify: func(c *Config) { c.Content.Artifact = "POSTS.JSON" },
		},
		{
			name:   "custom date format",
			modify: func(c *Config) { c.Site.DateFormat = "DD/MM/YYYY" },
		},
		{
			name:    "invalid date format",
			modify:  func(c *Config) { c.Site.DateFormat = "[Posted YYYY" },
			wantErr: true,
			errMsg:  "dateFormat",
		},
		{
			name:    "posts path without leading slash",
			modify:  func(c *Config) { c.Site.PostsPath = "posts" },
			wantErr: true,
			errMsg:  "postsPath",
		},
		{
			name:   "root posts path",
			modify: func(c *Config) { c.Site.PostsPath = "/" },
		},
		{
			name:    "unknown highlight style",
			modify:  func(c *Config) { c.Site.HighlightStyle = "no-such-style" },
			wantErr: true,
			errMsg:  "highlightStyle",
		},
		{
			name:   "highlight style is case insensitive",
			modify: func(c *Config) { c.Site.HighlightStyle = "Monokai" },
		},
		{
			name:    "theme with path",
			modify:  func(c *Config) { c.Site.Theme = "../evil" },
			wantErr: true,
			errMsg:  "theme",
		},
		{
			name:   "custom theme dir",
			modify: func(c *Config) { c.Site.Theme, c.Site.ThemeDir = "brand", "themes/brand" },
		},
		{
			name:    "title too long",
			modify:  func(c *Config) { c.Site.Title = strings.Repeat("a", MaxTitleLength+1) },
			wantErr: true,
			errMsg:  "title",
		},
		{
			name:    "address without port",
			modify:  func(c *Config) { c.Server.Addr = "localhost" },
			wantErr: true,
			errMsg:  "addr",
		},
		{
			name:   "address with host",
			modify: func(c *Config) { c.Server.Addr = "127.0.0.1:8080" },
		},
		{
			name:    "unknown log level",
			modify:  func(c *Config) { c.Log.Level = "verbose" },
			wantErr: true,
			errMsg:  "level",
		},
		{
			name:    "unknown log format",
			modify:  func(c *Config) { c.Log.Format = "xml" },
			wantErr: true,
			errMsg:  "format",
		},
		{
			name:    "negative workers",
			modify:  func(c *Config) { c.Workers = -1 },
			wantErr: true,
			errMsg:  "workers",
		},
		{
			name:    "too many workers",
			modify:  func(c *Config) { c.Workers = MaxWorkers + 1 },
			wantErr: true,
			errMsg:  "workers",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			cfg := DefaultConfig()
			tt.modify(cfg)
			err := cfg.Validate()

			if tt.wantErr {
				if err == nil {
					t.Fatal("Validate() = nil, want error")
				}
				if !errors.Is(err, ErrInvalidConfig) {
					t.Errorf("error = %v, want ErrInvalidConfig", err)
				}
				if !strings.Contains(err.Error(), tt.errMsg) {
					t.Errorf("error = %q, want it to mention %q", err.Error(), tt.errMsg)
				}
				return
			}
			if err != nil {
				t.Errorf("Validate() = %v, want nil", err)
			}
		})
	}
}

// ---------------------------------------------------------------------------
// LoadConfig
// ---------------------------------------------------------------------------

func writeConfig(t *testing.T, dir, name, body string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, []byte(body), 0o600); err != nil {
		t.Fatalf("setup: %v", err)
	}
	return path
}

func TestLoadConfig(t *testing.T) {
	t.Parallel()

	t.Run("empty name returns ErrEmptyConfigName", func(t *testing.T) {
		t.Parallel()
		_, err := LoadConfig("")
		if !errors.Is(err, ErrEmptyConfigName) {
			t.Errorf("error = %v, want ErrEmptyConfigName", err)
		}
	})

	t.Run("file path overrides defaults", func(t *testing.T) {
		t.Parallel()
		path := writeConfig(t, t.TempDir(), "folio.yaml", `content:
  dir: "posts"
  recursive: true
site:
  title: "Notes"
  dateFormat: "iso"
log:
  level: "debug"
  format: "json"
workers: 4
`)

		cfg, err := LoadConfig(path)
		if err != nil {
			t.Fatalf("LoadConfig() error = %v", err)
		}
		if cfg.Content.Dir != "posts" || !cfg.Content.Recursive {
			t.Errorf("Content = %+v", cfg.Content)
		}
		if cfg.Site.Title != "Notes" || cfg.Site.DateFormat != "iso" {
			t.Errorf("Site = %+v", cfg.Site)
		}
		if cfg.Log.Level != "debug" || cfg.Log.Format != "json" {
			t.Errorf("Log = %+v", cfg.Log)
		}
		if cfg.Workers != 4 {
			t.Errorf("Workers = %d, want 4", cfg.Workers)
		}
		// Untouched fields keep their defaults.
		if cfg.Content.Artifact != filepath.Join("data", "posts.json") {
			t.Errorf("Content.Artifact = %q, want default", cfg.Content.Artifact)
		}
		if cfg.Server.Addr != ":3000" {
			t.Errorf("Server.Addr = %q, want default", cfg.Server.Addr)
		}
	})

	t.Run("nonexistent file path returns ErrConfigNotFound", func(t *testing.T) {
		t.Parallel()
		_, err := LoadConfig(filepath.Join(t.TempDir(), "missing.yaml"))
		if !errors.Is(err, ErrConfigNotFound) {
			t.Errorf("error = %v, want ErrConfigNotFound", err)
		}
	})

	t.Run("invalid YAML returns ErrConfigParse", func(t *testing.T) {
		t.Parallel()
		path := writeConfig(t, t.TempDir(), "bad.yaml", "site: [unclosed")
		_, err := LoadConfig(path)
		if !errors.Is(err, ErrConfigParse) {
			t.Errorf("error = %v, want ErrConfigParse", err)
		}
	})

	t.Run("unknown field returns ErrConfigParse in strict mode", func(t *testing.T) {
		t.Parallel()
		path := writeConfig(t, t.TempDir(), "strict.yaml", "unknownField: 1\n")
		_, err := LoadConfig(path)
		if !errors.Is(err, ErrConfigParse) {
			t.Errorf("error = %v, want ErrConfigParse", err)
		}
	})

	t.Run("invalid value returns ErrInvalidConfig", func(t *testing.T) {
		t.Parallel()
		path := writeConfig(t, t.TempDir(), "invalid.yaml", "server:\n  addr: \"nope\"\n")
		_, err := LoadConfig(path)
		if !errors.Is(err, ErrInvalidConfig) {
			t.Errorf("error = %v, want ErrInvalidConfig", err)
		}
	})
}

func TestLoadConfig_ByName(t *testing.T) {
	dir := t.TempDir()
	t.Chdir(dir)

	writeConfig(t, dir, "site.yml", "site:\n  title: \"From yml\"\n")

	cfg, err := LoadConfig("site")
	if err != nil {
		t.Fatalf("LoadConfig(site) error = %v", err)
	}
	if cfg.Site.Title != "From yml" {
		t.Errorf("Site.Title = %q, want %q", cfg.Site.Title, "From yml")
	}

	writeConfig(t, dir, "site.yaml", "site:\n  title: \"From yaml\"\n")
	cfg, err = LoadConfig("site")
	if err != nil {
		t.Fatalf("LoadConfig(site) error = %v", err)
	}
	if cfg.Site.Title != "From yaml" {
		t.Errorf("Site.Title = %q, want .yaml to win over .yml", cfg.Site.Title)
	}

	_, err = LoadConfig("absent")
	if !errors.Is(err, ErrConfigNotFound) {
		t.Fatalf("error = %v, want ErrConfigNotFound", err)
	}
	if !strings.Contains(err.Error(), "absent.yaml") {
		t.Errorf("error = %q, want tried paths listed", err.Error())
	}
}
