package main

import (
	"errors"
	"fmt"
	"io"

	flag "github.com/spf13/pflag"

	"github.com/alnah/go-folio/internal/config"
)

// ErrUsage marks invalid command-line usage.
var ErrUsage = errors.New("invalid usage")

// commonFlags holds flags shared across commands.
type commonFlags struct {
	config    string
	quiet     bool
	verbose   bool
	logFormat string
}

// compileFlags holds flags for the compile command.
type compileFlags struct {
	common    commonFlags
	output    string
	recursive bool
	workers   int
	watch     bool
}

// postsFlags holds flags for the posts command.
type postsFlags struct {
	common   commonFlags
	artifact string
	series   string
}

// showFlags holds flags for the show command.
type showFlags struct {
	common   commonFlags
	artifact string
	format   string
}

// previewFlags holds flags for the preview command.
type previewFlags struct {
	common commonFlags
	output string
	style  string
}

// serveFlags holds flags for the serve command.
type serveFlags struct {
	common   commonFlags
	artifact string
	addr     string
	workers  int
}

// Output formats of the show command.
const (
	showFormatHTML = "html"
	showFormatJSON = "json"
)

// addCommonFlags adds common flags to a FlagSet.
func addCommonFlags(fs *flag.FlagSet, f *commonFlags) {
	fs.StringVarP(&f.config, "config", "c", "", "config file name or path")
	fs.BoolVarP(&f.quiet, "quiet", "q", false, "only show errors")
	fs.BoolVarP(&f.verbose, "verbose", "v", false, "show debug logs")
	fs.StringVar(&f.logFormat, "log-format", "", "log format: text, json")
}

// newFlagSet creates a FlagSet that reports errors to w and prints usage
// with the given function.
func newFlagSet(name string, w io.Writer, usage func(io.Writer)) *flag.FlagSet {
	fs := flag.NewFlagSet(name, flag.ContinueOnError)
	fs.SetOutput(w)
	fs.Usage = func() { usage(w) }
	return fs
}

// parse runs fs.Parse, wrapping failures in ErrUsage. flag.ErrHelp is
// returned unwrapped so callers can exit successfully.
func parse(fs *flag.FlagSet, args []string) error {
	if err := fs.Parse(args); err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return err
		}
		return fmt.Errorf("%w: %v", ErrUsage, err)
	}
	return nil
}

// compileFlagSet registers the compile flags into f.
func compileFlagSet(f *compileFlags, w io.Writer) *flag.FlagSet {
	fs := newFlagSet("compile", w, printCompileUsage)
	fs.StringVarP(&f.output, "output", "o", "", "artifact path (default from config)")
	fs.BoolVarP(&f.recursive, "recursive", "r", false, "include subdirectories")
	fs.IntVarP(&f.workers, "workers", "w", 0, "parallel parses (0 = auto)")
	fs.BoolVar(&f.watch, "watch", false, "recompile when content changes")
	addCommonFlags(fs, &f.common)
	return fs
}

// postsFlagSet registers the posts flags into f.
func postsFlagSet(f *postsFlags, w io.Writer) *flag.FlagSet {
	fs := newFlagSet("posts", w, printPostsUsage)
	fs.StringVarP(&f.artifact, "artifact", "a", "", "artifact path (default from config)")
	fs.StringVarP(&f.series, "series", "s", "", "list the chapters of one series")
	addCommonFlags(fs, &f.common)
	return fs
}

// showFlagSet registers the show flags into f.
func showFlagSet(f *showFlags, w io.Writer) *flag.FlagSet {
	fs := newFlagSet("show", w, printShowUsage)
	fs.StringVarP(&f.artifact, "artifact", "a", "", "artifact path (default from config)")
	fs.StringVarP(&f.format, "format", "f", showFormatHTML, "output format: html, json")
	addCommonFlags(fs, &f.common)
	return fs
}

// previewFlagSet registers the preview flags into f.
func previewFlagSet(f *previewFlags, w io.Writer) *flag.FlagSet {
	fs := newFlagSet("preview", w, printPreviewUsage)
	fs.StringVarP(&f.output, "output", "o", "", "output HTML file (default stdout)")
	fs.StringVar(&f.style, "style", "", "chroma highlight style (default from config)")
	addCommonFlags(fs, &f.common)
	return fs
}

// serveFlagSet registers the serve flags into f.
func serveFlagSet(f *serveFlags, w io.Writer) *flag.FlagSet {
	fs := newFlagSet("serve", w, printServeUsage)
	fs.StringVarP(&f.artifact, "artifact", "a", "", "artifact path (default from config)")
	fs.StringVar(&f.addr, "addr", "", "listen address (default from config)")
	fs.IntVarP(&f.workers, "workers", "w", 0, "parallel post assembly (0 = auto)")
	addCommonFlags(fs, &f.common)
	return fs
}

// parseCompileFlags parses compile command flags and returns positional args.
func parseCompileFlags(args []string, stderr io.Writer) (*compileFlags, []string, error) {
	f := &compileFlags{}
	fs := compileFlagSet(f, stderr)

	if err := parse(fs, args); err != nil {
		return nil, nil, err
	}
	if f.workers < 0 || f.workers > config.MaxWorkers {
		return nil, nil, fmt.Errorf("%w: --workers must be between 0 and %d", ErrUsage, config.MaxWorkers)
	}
	if len(fs.Args()) > 1 {
		return nil, nil, fmt.Errorf("%w: compile takes at most one directory", ErrUsage)
	}
	return f, fs.Args(), nil
}

// parsePostsFlags parses posts command flags.
func parsePostsFlags(args []string, stderr io.Writer) (*postsFlags, error) {
	f := &postsFlags{}
	fs := postsFlagSet(f, stderr)

	if err := parse(fs, args); err != nil {
		return nil, err
	}
	if len(fs.Args()) > 0 {
		return nil, fmt.Errorf("%w: posts takes no arguments", ErrUsage)
	}
	return f, nil
}

// parseShowFlags parses show command flags and returns the slug.
func parseShowFlags(args []string, stderr io.Writer) (*showFlags, string, error) {
	f := &showFlags{}
	fs := showFlagSet(f, stderr)

	if err := parse(fs, args); err != nil {
		return nil, "", err
	}
	if f.format != showFormatHTML && f.format != showFormatJSON {
		return nil, "", fmt.Errorf("%w: --format must be %s or %s", ErrUsage, showFormatHTML, showFormatJSON)
	}
	if len(fs.Args()) != 1 {
		return nil, "", fmt.Errorf("%w: show takes exactly one slug", ErrUsage)
	}
	return f, fs.Arg(0), nil
}

// parsePreviewFlags parses preview command flags and returns the input file.
func parsePreviewFlags(args []string, stderr io.Writer) (*previewFlags, string, error) {
	f := &previewFlags{}
	fs := previewFlagSet(f, stderr)

	if err := parse(fs, args); err != nil {
		return nil, "", err
	}
	if len(fs.Args()) != 1 {
		return nil, "", fmt.Errorf("%w: preview takes exactly one markdown file", ErrUsage)
	}
	return f, fs.Arg(0), nil
}

// parseServeFlags parses serve command flags.
func parseServeFlags(args []string, stderr io.Writer) (*serveFlags, error) {
	f := &serveFlags{}
	fs := serveFlagSet(f, stderr)

	if err := parse(fs, args); err != nil {
		return nil, err
	}
	if f.workers < 0 || f.workers > config.MaxWorkers {
		return nil, fmt.Errorf("%w: --workers must be between 0 and %d", ErrUsage, config.MaxWorkers)
	}
	if len(fs.Args()) > 0 {
		return nil, fmt.Errorf("%w: serve takes no arguments", ErrUsage)
	}
	return f, nil
}
