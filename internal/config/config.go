package config

import (
	"errors"
	"fmt"
	"net"
	"os"
	"path/filepath"
	"regexp"
	"strings"

	"github.com/alecthomas/chroma/v2/styles"
	validation "github.com/go-ozzo/ozzo-validation/v4"

	"github.com/alnah/go-folio/internal/assets"
	"github.com/alnah/go-folio/internal/dateutil"
	"github.com/alnah/go-folio/internal/fileutil"
	"github.com/alnah/go-folio/internal/yamlutil"
)

// Sentinel errors for config operations.
var (
	ErrConfigNotFound  = errors.New("config file not found")
	ErrEmptyConfigName = errors.New("config name cannot be empty")
	ErrConfigParse     = errors.New("failed to parse config")
	ErrInvalidConfig   = errors.New("invalid config")
)

// Field limits.
const (
	MaxPathLength  = 4096
	MaxTitleLength = 100
	MaxWorkers     = 64
)

// AppDirName is the directory searched under the user config dir.
const AppDirName = "go-folio"

// Config holds the settings shared by every command.
type Config struct {
	Content ContentConfig `yaml:"content"`
	Site    SiteConfig    `yaml:"site"`
	Server  ServerConfig  `yaml:"server"`
	Log     LogConfig     `yaml:"log"`
	Workers int           `yaml:"workers"` // 0 = GOMAXPROCS
}

// ContentConfig locates the Markdown sources and the compiled artifact.
type ContentConfig struct {
	Dir       string `yaml:"dir"`
	Artifact  string `yaml:"artifact"`
	Recursive bool   `yaml:"recursive"`
}

// SiteConfig controls how posts are presented.
type SiteConfig struct {
	Title          string `yaml:"title"`
	DateFormat     string `yaml:"dateFormat"`     // token format or preset (iso, long, ...)
	PostsPath      string `yaml:"postsPath"`      // URL prefix for post pages and rewritten links
	HighlightStyle string `yaml:"highlightStyle"` // chroma style name
	Theme          string `yaml:"theme"`          // stylesheet name under styles/
	ThemeDir       string `yaml:"themeDir"`       // optional override directory
}

// ServerConfig configures the JSON API.
type ServerConfig struct {
	Addr string `yaml:"addr"`
}

// LogConfig configures logrus output.
type LogConfig struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format"` // "text" or "json"
}

var (
	postsPathPattern = regexp.MustCompile(`^/[A-Za-z0-9/_-]*$`)
	logLevels        = []any{"trace", "debug", "info", "warn", "warning", "error", "fatal", "panic"}
	logFormats       = []any{"text", "json"}
)

func init() {
	// Report fields by their YAML names.
	validation.ErrorTag = "yaml"
}

// Validate checks every field. Called automatically by LoadConfig, but
// available for callers that build a Config by hand or apply overrides.
func (c *Config) Validate() error {
	err := validation.ValidateStruct(c,
		validation.Field(&c.Content),
		validation.Field(&c.Site),
		validation.Field(&c.Server),
		validation.Field(&c.Log),
		validation.Field(&c.Workers, validation.Min(0), validation.Max(MaxWorkers)),
	)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidConfig, err)
	}
	return nil
}

// Validate implements validation.Validatable.
func (c ContentConfig) Validate() error {
	return validation.ValidateStruct(&c,
		validation.Field(&c.Dir, validation.Required, validation.Length(1, MaxPathLength)),
		validation.Field(&c.Artifact, validation.Required, validation.Length(1, MaxPathLength),
			validation.By(hasJSONExtension)),
	)
}

// Validate implements validation.Validatable.
func (s SiteConfig) Validate() error {
	return validation.ValidateStruct(&s,
		validation.Field(&s.Title, validation.Length(0, MaxTitleLength)),
		validation.Field(&s.DateFormat, validation.Required, validation.By(validDateFormat)),
		validation.Field(&s.PostsPath, validation.Required, validation.Match(postsPathPattern)),
		validation.Field(&s.HighlightStyle, validation.Required, validation.By(knownHighlightStyle)),
		validation.Field(&s.Theme, validation.Required, validation.By(validAssetName)),
		validation.Field(&s.ThemeDir, validation.Length(0, MaxPathLength)),
	)
}

// Validate implements validation.Validatable.
func (s ServerConfig) Validate() error {
	return validation.ValidateStruct(&s,
		validation.Field(&s.Addr, validation.Required, validation.By(validAddr)),
	)
}

// Validate implements validation.Validatable.
func (l LogConfig) Validate() error {
	return validation.ValidateStruct(&l,
		validation.Field(&l.Level, validation.Required, validation.In(logLevels...)),
		validation.Field(&l.Format, validation.Required, validation.In(logFormats...)),
	)
}

func hasJSONExtension(v any) error {
	s, _ := v.(string)
	if !strings.EqualFold(filepath.Ext(s), ".json") {
		return errors.New("must be a .json file")
	}
	return nil
}

func validDateFormat(v any) error {
	s, _ := v.(string)
	if _, err := dateutil.ParseDateFormat(s); err != nil {
		return err
	}
	return nil
}

func knownHighlightStyle(v any) error {
	s, _ := v.(string)
	if _, ok := styles.Registry[strings.ToLower(s)]; !ok {
		return fmt.Errorf("unknown chroma style %q", s)
	}
	return nil
}

func validAssetName(v any) error {
	s, _ := v.(string)
	return assets.ValidateAssetName(s)
}

func validAddr(v any) error {
	s, _ := v.(string)
	if _, _, err := net.SplitHostPort(s); err != nil {
		return errors.New("must be host:port or :port")
	}
	return nil
}

// DefaultConfig returns the configuration used when no file is given.
func DefaultConfig() *Config {
	return &Config{
		Content: ContentConfig{
			Dir:      "content",
			Artifact: filepath.Join("data", "posts.json"),
		},
		Site: SiteConfig{
			DateFormat:     "long",
			PostsPath:      "/posts",
			HighlightStyle: "github",
			Theme:          assets.DefaultStyleName,
		},
		Server: ServerConfig{Addr: ":3000"},
		Log:    LogConfig{Level: "info", Format: "text"},
	}
}

// LoadConfig loads configuration from a file path or config name.
// If nameOrPath contains a path separator, it's treated as a file path.
// Otherwise, it's treated as a config name and searched in standard locations.
// Fields absent from the file keep their DefaultConfig values.
// Returns error if the file is not found (no silent fallback).
func LoadConfig(nameOrPath string) (*Config, error) {
	if nameOrPath == "" {
		return nil, ErrEmptyConfigName
	}

	var configPath string
	var err error

	if fileutil.IsFilePath(nameOrPath) {
		configPath = nameOrPath
	} else {
		configPath, err = resolveConfigPath(nameOrPath)
		if err != nil {
			return nil, err
		}
	}

	data, err := os.ReadFile(configPath) // #nosec G304 -- config path is user-provided
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("%w: %s", ErrConfigNotFound, configPath)
		}
		return nil, fmt.Errorf("reading config file: %w", err)
	}

	cfg := DefaultConfig()
	if err := yamlutil.UnmarshalStrict(data, cfg); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrConfigParse, err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// resolveConfigPath searches for a config file by name in standard locations.
// Tries extensions in order: .yaml, .yml
// Tries locations in order: current directory, ~/.config/go-folio/
func resolveConfigPath(name string) (string, error) {
	extensions := []string{".yaml", ".yml"}
	triedPaths := make([]string, 0, len(extensions)*2)

	for _, ext := range extensions {
		localPath := name + ext
		if fileutil.FileExists(localPath) {
			return localPath, nil
		}
		triedPaths = append(triedPaths, localPath)
	}

	userConfigDir, err := os.UserConfigDir()
	if err == nil {
		for _, ext := range extensions {
			userPath := filepath.Join(userConfigDir, AppDirName, name+ext)
			if fileutil.FileExists(userPath) {
				return userPath, nil
			}
			triedPaths = append(triedPaths, userPath)
		}
	}

	return "", fmt.Errorf("%w: tried %s", ErrConfigNotFound, strings.Join(triedPaths, ", "))
}
