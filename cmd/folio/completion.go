package main

import (
	"fmt"
	"io"
	"strings"

	"github.com/alecthomas/chroma/v2/styles"
	flag "github.com/spf13/pflag"
)

// Shell represents a supported shell for completion generation.
type Shell string

// Supported shells for completion.
const (
	ShellBash       Shell = "bash"
	ShellZsh        Shell = "zsh"
	ShellFish       Shell = "fish"
	ShellPowerShell Shell = "powershell"
)

// ErrUnsupportedShell is returned when an unknown shell is requested.
var ErrUnsupportedShell = fmt.Errorf("%w: unsupported shell", ErrUsage)

// flagType represents the completion type for a flag.
type flagType int

const (
	flagString flagType = iota // default
	flagBool
	flagInt
	flagEnum // has predefined values
	flagFile // file with glob pattern
	flagDir  // directory
)

// flagDef describes a flag for completion purposes.
type flagDef struct {
	Long     string   // --output
	Short    string   // -o (empty if none)
	Type     flagType // completion type
	Desc     string   // help text
	Values   []string // for enum flags
	FileGlob string   // for file flags
}

// argKind describes what a command's positional argument completes to.
type argKind int

const (
	argNone argKind = iota
	argDir
	argFile
	argWord // free text such as a slug
	argEnum
)

// commandDef describes a command for completion.
type commandDef struct {
	Name     string
	Desc     string
	Flags    []flagDef
	Arg      argKind
	ArgName  string
	ArgGlob  string   // for argFile
	ArgWords []string // for argEnum
}

// completionMeta holds completion-specific metadata for flags.
// Flag names, types, and descriptions come from the FlagSet.
type completionMeta struct {
	Values   []string // enum values
	FileGlob string   // file glob pattern
	IsFile   bool     // any file
	IsDir    bool     // directory completion
}

// flagCompletionMeta maps "command.flag" or "flag" to completion metadata.
// The command-qualified key wins.
var flagCompletionMeta = map[string]completionMeta{
	"format":         {Values: []string{showFormatHTML, showFormatJSON}},
	"log-format":     {Values: []string{"text", "json"}},
	"style":          {Values: styles.Names()},
	"config":         {FileGlob: "*.yaml,*.yml"},
	"artifact":       {FileGlob: "*.json"},
	"compile.output": {FileGlob: "*.json"},
	"preview.output": {IsFile: true},
}

// shells lists the values accepted by the completion command.
var shells = []string{string(ShellBash), string(ShellZsh), string(ShellFish), string(ShellPowerShell)}

// extractFlagsFromFlagSet extracts flag definitions from a pflag.FlagSet.
// Enriches with completion metadata from flagCompletionMeta.
func extractFlagsFromFlagSet(fs *flag.FlagSet) []flagDef {
	var flags []flagDef

	fs.VisitAll(func(f *flag.Flag) {
		fd := flagDef{
			Long:  f.Name,
			Short: f.Shorthand,
			Desc:  f.Usage,
		}

		switch f.Value.Type() {
		case "bool":
			fd.Type = flagBool
		case "int", "int8", "int16", "int32", "int64", "uint", "uint8", "uint16", "uint32", "uint64":
			fd.Type = flagInt
		default:
			fd.Type = flagString
		}

		meta, ok := flagCompletionMeta[fs.Name()+"."+f.Name]
		if !ok {
			meta, ok = flagCompletionMeta[f.Name]
		}
		if ok {
			switch {
			case len(meta.Values) > 0:
				fd.Type = flagEnum
				fd.Values = meta.Values
			case meta.FileGlob != "" || meta.IsFile:
				fd.Type = flagFile
				fd.FileGlob = meta.FileGlob
			case meta.IsDir:
				fd.Type = flagDir
			}
		}

		flags = append(flags, fd)
	})

	return flags
}

// getCommands returns the command registry for completion.
// Flags are extracted from the actual FlagSets.
func getCommands() []commandDef {
	return []commandDef{
		{
			Name:    "compile",
			Desc:    "Compile Markdown posts into the JSON artifact",
			Flags:   extractFlagsFromFlagSet(compileFlagSet(&compileFlags{}, io.Discard)),
			Arg:     argDir,
			ArgName: "directory",
		},
		{
			Name:  "posts",
			Desc:  "List compiled posts or series chapters",
			Flags: extractFlagsFromFlagSet(postsFlagSet(&postsFlags{}, io.Discard)),
		},
		{
			Name:    "show",
			Desc:    "Render one compiled post as HTML or JSON",
			Flags:   extractFlagsFromFlagSet(showFlagSet(&showFlags{}, io.Discard)),
			Arg:     argWord,
			ArgName: "slug",
		},
		{
			Name:    "preview",
			Desc:    "Render one Markdown file as a standalone page",
			Flags:   extractFlagsFromFlagSet(previewFlagSet(&previewFlags{}, io.Discard)),
			Arg:     argFile,
			ArgName: "markdown file",
			ArgGlob: "*.md,*.markdown",
		},
		{
			Name:  "serve",
			Desc:  "Serve posts over HTTP",
			Flags: extractFlagsFromFlagSet(serveFlagSet(&serveFlags{}, io.Discard)),
		},
		{
			Name: "version",
			Desc: "Show version information",
		},
		{
			Name:     "help",
			Desc:     "Show help for a command",
			Arg:      argEnum,
			ArgName:  "command",
			ArgWords: []string{"compile", "posts", "show", "preview", "serve", "version", "completion"},
		},
		{
			Name:     "completion",
			Desc:     "Generate shell completion script",
			Arg:      argEnum,
			ArgName:  "shell",
			ArgWords: shells,
		},
	}
}

// GenerateCompletion writes shell completion script to w.
// Returns error if shell is unsupported or write fails.
func GenerateCompletion(w io.Writer, shell Shell) error {
	var script string
	switch shell {
	case ShellBash:
		script = generateBash(getCommands())
	case ShellZsh:
		script = generateZsh(getCommands())
	case ShellFish:
		script = generateFish(getCommands())
	case ShellPowerShell:
		script = generatePowerShell(getCommands())
	default:
		return fmt.Errorf("%w: %q (supported: %s)", ErrUnsupportedShell, shell, strings.Join(shells, ", "))
	}
	_, err := io.WriteString(w, script)
	return err
}

// runCompletion handles the completion command.
func runCompletion(args []string, env *Environment) error {
	if len(args) == 0 {
		printCompletionUsage(env.Stdout)
		return nil
	}
	return GenerateCompletion(env.Stdout, Shell(args[0]))
}

// splitGlob turns "*.yaml,*.yml" into its patterns.
func splitGlob(glob string) []string {
	if glob == "" {
		return nil
	}
	return strings.Split(glob, ",")
}

// commandNames returns the names of cmds in order.
func commandNames(cmds []commandDef) []string {
	names := make([]string, len(cmds))
	for i, c := range cmds {
		names[i] = c.Name
	}
	return names
}

// ---------------------------------------------------------------------------
// Bash
// ---------------------------------------------------------------------------

func bashFiles(glob string) string {
	patterns := splitGlob(glob)
	if len(patterns) == 0 {
		return `COMPREPLY=( $(compgen -f -- "$cur") )`
	}
	var b strings.Builder
	b.WriteString(`COMPREPLY=( $(compgen -d -- "$cur")`)
	for _, p := range patterns {
		fmt.Fprintf(&b, ` $(compgen -f -X '!%s' -- "$cur")`, p)
	}
	b.WriteString(" )")
	return b.String()
}

func bashFlagNames(fd flagDef) string {
	if fd.Short != "" {
		return "-" + fd.Short + "|--" + fd.Long
	}
	return "--" + fd.Long
}

func generateBash(cmds []commandDef) string {
	var b strings.Builder
	b.WriteString("# bash completion for folio\n\n")
	b.WriteString("_folio() {\n")
	b.WriteString("    local cur prev\n")
	b.WriteString("    cur=\"${COMP_WORDS[COMP_CWORD]}\"\n")
	b.WriteString("    prev=\"${COMP_WORDS[COMP_CWORD-1]}\"\n\n")
	b.WriteString("    if [[ $COMP_CWORD -eq 1 ]]; then\n")
	fmt.Fprintf(&b, "        COMPREPLY=( $(compgen -W %q -- \"$cur\") )\n", strings.Join(commandNames(cmds), " "))
	b.WriteString("        return\n")
	b.WriteString("    fi\n\n")
	b.WriteString("    case \"${COMP_WORDS[1]}\" in\n")

	for _, c := range cmds {
		fmt.Fprintf(&b, "    %s)\n", c.Name)

		var words []string
		var valueCases strings.Builder
		for _, fd := range c.Flags {
			words = append(words, "--"+fd.Long)
			if fd.Short != "" {
				words = append(words, "-"+fd.Short)
			}
			switch fd.Type {
			case flagEnum:
				fmt.Fprintf(&valueCases, "        %s) COMPREPLY=( $(compgen -W %q -- \"$cur\") ); return ;;\n",
					bashFlagNames(fd), strings.Join(fd.Values, " "))
			case flagFile:
				fmt.Fprintf(&valueCases, "        %s) %s; return ;;\n", bashFlagNames(fd), bashFiles(fd.FileGlob))
			case flagDir:
				fmt.Fprintf(&valueCases, "        %s) COMPREPLY=( $(compgen -d -- \"$cur\") ); return ;;\n", bashFlagNames(fd))
			case flagString, flagInt:
				fmt.Fprintf(&valueCases, "        %s) return ;;\n", bashFlagNames(fd))
			}
		}

		if valueCases.Len() > 0 {
			b.WriteString("        case \"$prev\" in\n")
			b.WriteString(valueCases.String())
			b.WriteString("        esac\n")
		}
		if len(words) > 0 {
			b.WriteString("        if [[ \"$cur\" == -* ]]; then\n")
			fmt.Fprintf(&b, "            COMPREPLY=( $(compgen -W %q -- \"$cur\") )\n", strings.Join(words, " "))
			b.WriteString("            return\n")
			b.WriteString("        fi\n")
		}
		switch c.Arg {
		case argDir:
			b.WriteString("        COMPREPLY=( $(compgen -d -- \"$cur\") )\n")
		case argFile:
			fmt.Fprintf(&b, "        %s\n", bashFiles(c.ArgGlob))
		case argEnum:
			fmt.Fprintf(&b, "        COMPREPLY=( $(compgen -W %q -- \"$cur\") )\n", strings.Join(c.ArgWords, " "))
		}
		b.WriteString("        ;;\n")
	}

	b.WriteString("    esac\n")
	b.WriteString("}\n\n")
	b.WriteString("complete -o filenames -F _folio folio\n")
	return b.String()
}

// ---------------------------------------------------------------------------
// Zsh
// ---------------------------------------------------------------------------

var zshEscaper = strings.NewReplacer("'", "'\\''", "[", "\\[", "]", "\\]", ":", "\\:")

func zshGlob(glob string) string {
	patterns := splitGlob(glob)
	exts := make([]string, len(patterns))
	for i, p := range patterns {
		exts[i] = strings.TrimPrefix(p, "*.")
	}
	if len(exts) == 1 {
		return "*." + exts[0]
	}
	return "*.(" + strings.Join(exts, "|") + ")"
}

func zshAction(fd flagDef) string {
	switch fd.Type {
	case flagEnum:
		return ":" + fd.Long + ":(" + strings.Join(fd.Values, " ") + ")"
	case flagFile:
		if fd.FileGlob == "" {
			return ":file:_files"
		}
		return ":file:_files -g \"" + zshGlob(fd.FileGlob) + "\""
	case flagDir:
		return ":directory:_files -/"
	case flagString, flagInt:
		return ":" + fd.Long + ": "
	default:
		return ""
	}
}

func generateZsh(cmds []commandDef) string {
	var b strings.Builder
	b.WriteString("#compdef folio\n\n")
	b.WriteString("_folio() {\n")
	b.WriteString("    local -a commands\n")
	b.WriteString("    commands=(\n")
	for _, c := range cmds {
		fmt.Fprintf(&b, "        '%s:%s'\n", c.Name, zshEscaper.Replace(c.Desc))
	}
	b.WriteString("    )\n\n")
	b.WriteString("    if (( CURRENT == 2 )); then\n")
	b.WriteString("        _describe 'command' commands\n")
	b.WriteString("        return\n")
	b.WriteString("    fi\n\n")
	b.WriteString("    local cmd=$words[2]\n")
	b.WriteString("    shift words\n")
	b.WriteString("    (( CURRENT-- ))\n\n")
	b.WriteString("    case $cmd in\n")

	for _, c := range cmds {
		fmt.Fprintf(&b, "    %s)\n", c.Name)
		b.WriteString("        _arguments -s")
		for _, fd := range c.Flags {
			desc := "[" + zshEscaper.Replace(fd.Desc) + "]"
			if fd.Short != "" {
				fmt.Fprintf(&b, " \\\n            '(-%s --%s)'{-%s,--%s}'%s%s'", fd.Short, fd.Long, fd.Short, fd.Long, desc, zshAction(fd))
			} else {
				fmt.Fprintf(&b, " \\\n            '--%s%s%s'", fd.Long, desc, zshAction(fd))
			}
		}
		switch c.Arg {
		case argDir:
			fmt.Fprintf(&b, " \\\n            '1:%s:_files -/'", c.ArgName)
		case argFile:
			fmt.Fprintf(&b, " \\\n            '1:%s:_files -g \"%s\"'", c.ArgName, zshGlob(c.ArgGlob))
		case argWord:
			fmt.Fprintf(&b, " \\\n            '1:%s: '", c.ArgName)
		case argEnum:
			fmt.Fprintf(&b, " \\\n            '1:%s:(%s)'", c.ArgName, strings.Join(c.ArgWords, " "))
		}
		b.WriteString("\n        ;;\n")
	}

	b.WriteString("    esac\n")
	b.WriteString("}\n\n")
	b.WriteString("_folio \"$@\"\n")
	return b.String()
}

// ---------------------------------------------------------------------------
// Fish
// ---------------------------------------------------------------------------

var fishEscaper = strings.NewReplacer("'", "\\'")

func generateFish(cmds []commandDef) string {
	var b strings.Builder
	b.WriteString("# fish completion for folio\n\n")
	b.WriteString("complete -c folio -f\n\n")

	for _, c := range cmds {
		fmt.Fprintf(&b, "complete -c folio -n __fish_use_subcommand -a %s -d '%s'\n", c.Name, fishEscaper.Replace(c.Desc))
	}

	for _, c := range cmds {
		cond := fmt.Sprintf("'__fish_seen_subcommand_from %s'", c.Name)
		if len(c.Flags) > 0 || c.Arg != argNone {
			b.WriteString("\n")
		}
		for _, fd := range c.Flags {
			fmt.Fprintf(&b, "complete -c folio -n %s", cond)
			if fd.Short != "" {
				fmt.Fprintf(&b, " -s %s", fd.Short)
			}
			fmt.Fprintf(&b, " -l %s -d '%s'", fd.Long, fishEscaper.Replace(fd.Desc))
			switch fd.Type {
			case flagEnum:
				fmt.Fprintf(&b, " -x -a '%s'", strings.Join(fd.Values, " "))
			case flagFile:
				b.WriteString(" -r -F")
			case flagDir:
				b.WriteString(" -x -a '(__fish_complete_directories)'")
			case flagString, flagInt:
				b.WriteString(" -x")
			}
			b.WriteString("\n")
		}
		switch c.Arg {
		case argDir:
			fmt.Fprintf(&b, "complete -c folio -n %s -a '(__fish_complete_directories)'\n", cond)
		case argFile:
			fmt.Fprintf(&b, "complete -c folio -n %s -F\n", cond)
		case argEnum:
			fmt.Fprintf(&b, "complete -c folio -n %s -a '%s'\n", cond, strings.Join(c.ArgWords, " "))
		}
	}
	return b.String()
}

// ---------------------------------------------------------------------------
// PowerShell
// ---------------------------------------------------------------------------

func generatePowerShell(cmds []commandDef) string {
	var b strings.Builder
	b.WriteString("# PowerShell completion for folio\n\n")
	b.WriteString("Register-ArgumentCompleter -Native -CommandName folio -ScriptBlock {\n")
	b.WriteString("    param($wordToComplete, $commandAst, $cursorPosition)\n\n")
	b.WriteString("    $commands = [ordered]@{\n")
	for _, c := range cmds {
		var words []string
		for _, fd := range c.Flags {
			words = append(words, "'--"+fd.Long+"'")
			if fd.Short != "" {
				words = append(words, "'-"+fd.Short+"'")
			}
		}
		words = append(words, psQuoted(c.ArgWords)...)
		fmt.Fprintf(&b, "        '%s' = @(%s)\n", c.Name, strings.Join(words, ", "))
	}
	b.WriteString("    }\n\n")
	b.WriteString("    $words = @($commandAst.CommandElements | ForEach-Object { $_.ToString() })\n")
	b.WriteString("    if ($words.Count -eq 1 -or ($words.Count -eq 2 -and $wordToComplete -ne '')) {\n")
	b.WriteString("        $candidates = $commands.Keys\n")
	b.WriteString("    } else {\n")
	b.WriteString("        $candidates = $commands[$words[1]]\n")
	b.WriteString("    }\n\n")
	b.WriteString("    $candidates | Where-Object { $_ -like \"$wordToComplete*\" } | ForEach-Object {\n")
	b.WriteString("        [System.Management.Automation.CompletionResult]::new($_, $_, 'ParameterValue', $_)\n")
	b.WriteString("    }\n")
	b.WriteString("}\n")
	return b.String()
}

func psQuoted(words []string) []string {
	out := make([]string, len(words))
	for i, w := range words {
		out[i] = "'" + strings.ReplaceAll(w, "'", "''") + "'"
	}
	return out
}

// printCompletionUsage prints help for the completion command.
func printCompletionUsage(w io.Writer) {
	fmt.Fprintln(w, "Usage: folio completion <shell>")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Generate shell completion script for the specified shell.")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Supported shells:")
	fmt.Fprintln(w, "  bash        Bash completion script")
	fmt.Fprintln(w, "  zsh         Zsh completion script")
	fmt.Fprintln(w, "  fish        Fish completion script")
	fmt.Fprintln(w, "  powershell  PowerShell completion script")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Installation:")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "  Bash:")
	fmt.Fprintln(w, "    # Add to ~/.bashrc:")
	fmt.Fprintln(w, "    eval \"$(folio completion bash)\"")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "  Zsh:")
	fmt.Fprintln(w, "    # Add to ~/.zshrc (before compinit):")
	fmt.Fprintln(w, "    eval \"$(folio completion zsh)\"")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "  Fish:")
	fmt.Fprintln(w, "    folio completion fish > ~/.config/fish/completions/folio.fish")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "  PowerShell:")
	fmt.Fprintln(w, "    # Add to $PROFILE:")
	fmt.Fprintln(w, "    folio completion powershell | Out-String | Invoke-Expression")
}
