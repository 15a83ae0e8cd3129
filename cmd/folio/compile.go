package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/sirupsen/logrus"

	"github.com/alnah/go-folio/internal/compiler"
	"github.com/alnah/go-folio/internal/config"
	"github.com/alnah/go-folio/internal/fileutil"
)

// watchDebounce groups bursts of file events into one recompile.
const watchDebounce = 300 * time.Millisecond

// runCompile compiles the content directory into the JSON artifact.
func runCompile(ctx context.Context, args []string, env *Environment) error {
	flags, positional, err := parseCompileFlags(args, env.Stderr)
	if err != nil {
		return err
	}

	cfg, logger, err := loadSettings(flags.common, env, func(cfg *config.Config) {
		if len(positional) == 1 {
			cfg.Content.Dir = positional[0]
		}
		if flags.output != "" {
			cfg.Content.Artifact = flags.output
		}
		if flags.recursive {
			cfg.Content.Recursive = true
		}
		if flags.workers > 0 {
			cfg.Workers = flags.workers
		}
	})
	if err != nil {
		return err
	}

	c := compiler.New(compiler.Options{
		Recursive: cfg.Content.Recursive,
		Workers:   cfg.Workers,
		Logger:    logger,
	})

	if err := compileOnce(ctx, c, cfg, flags.common.quiet, env); err != nil {
		return err
	}
	if !flags.watch {
		return nil
	}
	return watchContent(ctx, c, cfg, logger, flags.common.quiet, env)
}

// compileOnce runs one compile pass and writes the artifact.
func compileOnce(ctx context.Context, c *compiler.Compiler, cfg *config.Config, quiet bool, env *Environment) error {
	start := env.Now()

	posts, err := c.Compile(ctx, cfg.Content.Dir)
	if err != nil {
		return err
	}
	if err := compiler.WriteArtifact(cfg.Content.Artifact, posts); err != nil {
		return err
	}

	if !quiet {
		fmt.Fprintf(env.Stdout, "Compiled %d posts -> %s (%v)\n",
			len(posts), cfg.Content.Artifact, env.Now().Sub(start).Round(time.Millisecond))
	}
	return nil
}

// watchContent recompiles whenever Markdown files under the content
// directory change, until ctx is cancelled. Compile failures are logged
// and watching continues.
func watchContent(ctx context.Context, c *compiler.Compiler, cfg *config.Config, logger *logrus.Logger, quiet bool, env *Environment) error {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("creating watcher: %w", err)
	}
	defer watcher.Close()

	if err := addWatches(watcher, cfg.Content.Dir, cfg.Content.Recursive); err != nil {
		return err
	}
	logger.WithField("dir", cfg.Content.Dir).Info("watching for changes")

	var pending <-chan time.Time
	for {
		select {
		case <-ctx.Done():
			return nil

		case event, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			if !relevantEvent(event) {
				continue
			}
			logger.WithField("file", event.Name).WithField("op", event.Op.String()).Debug("change detected")

			if cfg.Content.Recursive && event.Has(fsnotify.Create) && isDir(event.Name) {
				if err := watcher.Add(event.Name); err != nil {
					logger.WithError(err).WithField("dir", event.Name).Warn("cannot watch new directory")
				}
			}
			pending = time.After(watchDebounce)

		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			logger.WithError(err).Warn("watcher error")

		case <-pending:
			pending = nil
			if err := compileOnce(ctx, c, cfg, quiet, env); err != nil {
				if errors.Is(err, context.Canceled) {
					return nil
				}
				logger.WithError(err).Error("recompile failed")
			}
		}
	}
}

// addWatches watches dir, and every subdirectory when recursive is set.
func addWatches(w *fsnotify.Watcher, dir string, recursive bool) error {
	if !recursive {
		if err := w.Add(dir); err != nil {
			return fmt.Errorf("%w: watching %s: %v", compiler.ErrReadContentDir, dir, err)
		}
		return nil
	}

	err := filepath.WalkDir(dir, func(path string, d fs.DirEntry, walkErr error) error {
		if walkErr != nil {
			return walkErr
		}
		if d.IsDir() {
			return w.Add(path)
		}
		return nil
	})
	if err != nil {
		return fmt.Errorf("%w: watching %s: %v", compiler.ErrReadContentDir, dir, err)
	}
	return nil
}

// relevantEvent reports whether event can change the compiled output.
func relevantEvent(event fsnotify.Event) bool {
	if event.Has(fsnotify.Chmod) && !event.Has(fsnotify.Write) {
		return false
	}
	if fileutil.IsMarkdown(event.Name) {
		return true
	}
	// Removing or renaming a directory drops the files inside it.
	return event.Has(fsnotify.Remove) || event.Has(fsnotify.Rename) ||
		(event.Has(fsnotify.Create) && isDir(event.Name))
}

func isDir(path string) bool {
	info, err := os.Stat(path)
	return err == nil && info.IsDir()
}

// printCompileUsage prints usage for the compile command.
func printCompileUsage(w io.Writer) {
	fmt.Fprintln(w, "Usage: folio compile [dir] [flags]")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Compile Markdown posts into the JSON artifact.")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Arguments:")
	fmt.Fprintln(w, "  dir    Content directory (default from config: content)")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Flags:")
	fmt.Fprintln(w, "  -o, --output <path>       Artifact path (default data/posts.json)")
	fmt.Fprintln(w, "  -r, --recursive           Include subdirectories")
	fmt.Fprintln(w, "  -w, --workers <n>         Parallel parses (0 = auto)")
	fmt.Fprintln(w, "      --watch               Recompile when content changes")
	printCommonUsage(w)
}
