package main

import (
	"fmt"
	"io"
)

// printUsage prints the main usage message.
func printUsage(w io.Writer) {
	fmt.Fprintln(w, "Usage: folio <command> [flags] [args]")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Commands:")
	fmt.Fprintln(w, "  compile    Compile Markdown posts into the JSON artifact")
	fmt.Fprintln(w, "  posts      List compiled posts or series chapters")
	fmt.Fprintln(w, "  show       Render one compiled post as HTML or JSON")
	fmt.Fprintln(w, "  preview    Render one Markdown file as a standalone page")
	fmt.Fprintln(w, "  serve      Serve posts over HTTP")
	fmt.Fprintln(w, "  version    Show version information")
	fmt.Fprintln(w, "  completion Generate shell completion script")
	fmt.Fprintln(w, "  help       Show help for a command")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Run 'folio help <command>' for details on a specific command.")
}

// printCommonUsage prints the flags shared by every command.
func printCommonUsage(w io.Writer) {
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Common:")
	fmt.Fprintln(w, "  -c, --config <name>       Config file name or path")
	fmt.Fprintln(w, "  -q, --quiet               Only show errors")
	fmt.Fprintln(w, "  -v, --verbose             Show debug logs")
	fmt.Fprintln(w, "      --log-format <s>      Log format: text, json")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Environment:")
	fmt.Fprintln(w, "  FOLIO_CONFIG, FOLIO_CONTENT_DIR, FOLIO_ARTIFACT, FOLIO_POSTS_PATH,")
	fmt.Fprintln(w, "  FOLIO_DATE_FORMAT, FOLIO_HIGHLIGHT_STYLE, FOLIO_THEME, FOLIO_THEME_DIR,")
	fmt.Fprintln(w, "  FOLIO_ADDR, FOLIO_LOG_LEVEL, FOLIO_LOG_FORMAT, FOLIO_WORKERS")
}

// usages maps command names to their usage printers.
var usages = map[string]func(io.Writer){
	"compile":    printCompileUsage,
	"posts":      printPostsUsage,
	"show":       printShowUsage,
	"preview":    printPreviewUsage,
	"serve":      printServeUsage,
	"completion": printCompletionUsage,
}

// runHelp prints help for a specific command.
func runHelp(args []string, env *Environment) int {
	if len(args) == 0 {
		printUsage(env.Stdout)
		return ExitSuccess
	}

	switch args[0] {
	case "version":
		fmt.Fprintln(env.Stdout, "Usage: folio version")
		fmt.Fprintln(env.Stdout)
		fmt.Fprintln(env.Stdout, "Show version information.")
	case "help":
		fmt.Fprintln(env.Stdout, "Usage: folio help [command]")
		fmt.Fprintln(env.Stdout)
		fmt.Fprintln(env.Stdout, "Show help for a command.")
	default:
		usage, ok := usages[args[0]]
		if !ok {
			fmt.Fprintf(env.Stderr, "Unknown command: %s\n", args[0])
			printUsage(env.Stderr)
			return ExitUsage
		}
		usage(env.Stdout)
	}
	return ExitSuccess
}
