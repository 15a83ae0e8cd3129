package main

import (
	"fmt"

	"github.com/sirupsen/logrus"

	folio "github.com/alnah/go-folio"
	"github.com/alnah/go-folio/internal/config"
	"github.com/alnah/go-folio/internal/logging"
)

// loadSettings resolves the configuration of one command run.
// Precedence: CLI flags > FOLIO_* env vars > config file > defaults.
// merge applies the command's own flags; it may be nil.
func loadSettings(common commonFlags, env *Environment, merge func(*config.Config)) (*config.Config, *logrus.Logger, error) {
	envCfg := loadEnvConfig()
	warnUnknownEnvVars(env.Stderr)

	cfg := config.DefaultConfig()
	name := common.config
	if name == "" {
		name = envCfg.ConfigPath
	}
	if name != "" {
		loaded, err := config.LoadConfig(name)
		if err != nil {
			return nil, nil, fmt.Errorf("loading config: %w", err)
		}
		cfg = loaded
	}

	applyEnvConfig(envCfg, cfg)
	if common.logFormat != "" {
		cfg.Log.Format = common.logFormat
	}
	switch {
	case common.verbose:
		cfg.Log.Level = logrus.DebugLevel.String()
	case common.quiet:
		cfg.Log.Level = logrus.ErrorLevel.String()
	}
	if merge != nil {
		merge(cfg)
	}

	if err := cfg.Validate(); err != nil {
		return nil, nil, err
	}

	logger, err := logging.New(cfg.Log.Level, cfg.Log.Format, env.Stderr)
	if err != nil {
		return nil, nil, err
	}
	return cfg, logger, nil
}

// newAssembler builds the post assembler described by cfg.
func newAssembler(repo *folio.Repository, cfg *config.Config, logger logrus.FieldLogger) *folio.Assembler {
	return folio.NewAssembler(repo,
		folio.WithLogger(logger),
		folio.WithWorkers(cfg.Workers),
		folio.WithDateFormat(cfg.Site.DateFormat),
		folio.WithLinkBase(cfg.Site.PostsPath),
	)
}
