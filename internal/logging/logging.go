// Package logging builds the logrus loggers shared by the compiler, the
// repository, the assembler and the CLI.
package logging

import (
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/sirupsen/logrus"
)

// Sentinel errors for logger construction.
var (
	ErrInvalidLevel  = errors.New("invalid log level")
	ErrInvalidFormat = errors.New("invalid log format")
)

// Log output formats.
const (
	FormatText = "text"
	FormatJSON = "json"
)

// Common field keys.
const (
	FieldFile   = "file"
	FieldSlug   = "slug"
	FieldSeries = "series"
)

// New returns a logger writing to w. An empty level means "info" and an
// empty format means "text".
func New(level, format string, w io.Writer) (*logrus.Logger, error) {
	if level == "" {
		level = logrus.InfoLevel.String()
	}
	lvl, err := logrus.ParseLevel(level)
	if err != nil {
		return nil, fmt.Errorf("%w: %q", ErrInvalidLevel, level)
	}

	logger := logrus.New()
	logger.SetOutput(w)
	logger.SetLevel(lvl)

	switch strings.ToLower(format) {
	case "", FormatText:
		logger.SetFormatter(&logrus.TextFormatter{
			DisableTimestamp: true,
			DisableQuote:     true,
		})
	case FormatJSON:
		logger.SetFormatter(&logrus.JSONFormatter{})
	default:
		return nil, fmt.Errorf("%w: %q (expected %s or %s)", ErrInvalidFormat, format, FormatText, FormatJSON)
	}

	return logger, nil
}

// Discard returns a logger that drops everything. Components use it when
// no logger is supplied.
func Discard() *logrus.Logger {
	logger := logrus.New()
	logger.SetOutput(io.Discard)
	logger.SetLevel(logrus.PanicLevel)
	return logger
}
