package main

import (
	"errors"
	"net"
	"os"

	"github.com/alecthomas/chroma/v2/styles"

	"github.com/alnah/go-folio/internal/assets"
	"github.com/alnah/go-folio/internal/compiler"
	"github.com/alnah/go-folio/internal/config"
	"github.com/alnah/go-folio/internal/hints"
	"github.com/alnah/go-folio/internal/logging"
	"github.com/alnah/go-folio/internal/pipeline"
	"github.com/alnah/go-folio/internal/repository"
)

// Exit codes for the folio CLI.
// Follows Unix conventions: 0=success, 1=general, 2=usage, and custom codes < 126.
const (
	ExitSuccess = 0 // Command completed
	ExitGeneral = 1 // General/unexpected error
	ExitUsage   = 2 // Invalid flags, config, or validation
	ExitIO      = 3 // Content, artifact or output file problems
)

// exitCodeFor returns the appropriate exit code for an error.
// It uses errors.Is to check wrapped errors, so callers must use fmt.Errorf("%w", err).
func exitCodeFor(err error) int {
	if err == nil {
		return ExitSuccess
	}

	// Usage/config/validation errors (exit 2)
	if errors.Is(err, ErrUsage) ||
		errors.Is(err, config.ErrConfigNotFound) ||
		errors.Is(err, config.ErrConfigParse) ||
		errors.Is(err, config.ErrInvalidConfig) ||
		errors.Is(err, config.ErrEmptyConfigName) ||
		errors.Is(err, logging.ErrInvalidLevel) ||
		errors.Is(err, logging.ErrInvalidFormat) ||
		errors.Is(err, pipeline.ErrUnknownStyle) ||
		errors.Is(err, assets.ErrStyleNotFound) ||
		errors.Is(err, assets.ErrTemplateNotFound) ||
		errors.Is(err, assets.ErrTemplateParse) ||
		errors.Is(err, assets.ErrInvalidAssetName) ||
		errors.Is(err, assets.ErrInvalidBasePath) ||
		errors.Is(err, assets.ErrPathTraversal) {
		return ExitUsage
	}

	// I/O errors (exit 3)
	if errors.Is(err, os.ErrNotExist) ||
		errors.Is(err, os.ErrPermission) ||
		errors.Is(err, compiler.ErrReadContentDir) ||
		errors.Is(err, compiler.ErrWriteArtifact) ||
		errors.Is(err, repository.ErrArtifactLoad) ||
		errors.Is(err, ErrReadMarkdown) ||
		errors.Is(err, ErrWriteOutput) ||
		errors.Is(err, assets.ErrAssetRead) {
		return ExitIO
	}

	return ExitGeneral
}

// errorHint returns an actionable hint for err, or "".
func errorHint(err error) string {
	switch {
	case errors.Is(err, config.ErrConfigNotFound):
		return hints.ForConfigNotFound()
	case errors.Is(err, repository.ErrArtifactLoad):
		return hints.ForArtifactLoad()
	case errors.Is(err, compiler.ErrReadContentDir):
		return hints.ForContentDir()
	case errors.Is(err, compiler.ErrWriteArtifact), errors.Is(err, ErrWriteOutput):
		return hints.ForOutputDirectory()
	case errors.Is(err, pipeline.ErrUnknownStyle):
		return hints.ForStyleNotFound(styles.Names())
	case errors.Is(err, assets.ErrStyleNotFound):
		return hints.ForStyleNotFound(assets.StyleNames())
	case errors.Is(err, ErrListen):
		addr := ""
		var opErr *net.OpError
		if errors.As(err, &opErr) && opErr.Addr != nil {
			addr = opErr.Addr.String()
		}
		return hints.ForListen(addr)
	}
	return ""
}
