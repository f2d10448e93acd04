package main

import (
	"errors"
	"fmt"
	"io"
	"strings"

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
var ErrUnsupportedShell = errors.New("unsupported shell")

// flagType represents the completion type for a flag.
type flagType int

const (
	flagString flagType = iota // free text value
	flagBool
	flagInt
	flagEnum // has predefined values
	flagFile // file, optionally filtered by glob
	flagDir  // directory
)

// flagDef describes a flag for completion purposes.
type flagDef struct {
	Long     string   // --output
	Short    string   // -o (empty if none)
	Type     flagType // completion type
	Desc     string   // help text
	Values   []string // for enum flags
	FileGlob string   // for file flags; "" = any file
}

// takesValue reports whether the flag consumes the next argument.
func (f flagDef) takesValue() bool {
	return f.Type != flagBool
}

// commandDef describes a command for completion.
type commandDef struct {
	Name        string
	Desc        string
	Flags       []flagDef
	TakesFiles  bool     // accepts file and directory arguments
	FilePattern string   // glob for file arguments (e.g., "*.svg")
	Args        []string // fixed positional values (e.g., shell names)
}

// completionMeta holds completion-specific metadata for flags.
// Flag names, types, and descriptions come from the FlagSet.
type completionMeta struct {
	Values   []string // enum values
	FileGlob string   // file glob pattern
	IsFile   bool     // any file
	IsDir    bool     // directory completion
}

// flagCompletionMeta maps flag names to their completion metadata.
var flagCompletionMeta = map[string]completionMeta{
	"type": {Values: []string{"png", "jpeg", "jpg", "webp"}},
	"encoding": {Values: []string{
		"base64", "base64url", "hex", "utf8", "ascii", "latin1", "binary", "utf16le", "ucs2",
	}},

	"config":      {FileGlob: "*.yaml,*.yml,*.toml"},
	"browser-bin": {IsFile: true},

	"output": {IsDir: true},
}

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

		if meta, ok := flagCompletionMeta[f.Name]; ok {
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
// Flags are extracted from the FlagSets the commands parse with.
func getCommands() []commandDef {
	names := []string{"convert", "watch", "doctor", "version", "help", "completion"}

	return []commandDef{
		{
			Name:        "convert",
			Desc:        "Convert SVG files to PNG, JPEG or WebP",
			Flags:       extractFlagsFromFlagSet(newConvertFlagSet("convert", &convertFlags{}, printConvertUsage, io.Discard)),
			TakesFiles:  true,
			FilePattern: "*.svg",
		},
		{
			Name:        "watch",
			Desc:        "Re-render SVG files when they change",
			Flags:       extractFlagsFromFlagSet(newWatchFlagSet(&convertFlags{}, io.Discard)),
			TakesFiles:  true,
			FilePattern: "*.svg",
		},
		{
			Name:  "doctor",
			Desc:  "Check the browser and environment",
			Flags: extractFlagsFromFlagSet(newDoctorFlagSet(&doctorFlags{}, io.Discard)),
		},
		{
			Name: "version",
			Desc: "Show version information",
		},
		{
			Name: "help",
			Desc: "Show help for a command",
			Args: names,
		},
		{
			Name: "completion",
			Desc: "Generate shell completion script",
			Args: []string{string(ShellBash), string(ShellZsh), string(ShellFish), string(ShellPowerShell)},
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
		return fmt.Errorf("%w: %q (supported: bash, zsh, fish, powershell)", ErrUnsupportedShell, shell)
	}
	_, err := io.WriteString(w, script)
	return err
}

// globExts splits "*.yaml,*.yml" into [yaml yml].
func globExts(glob string) []string {
	var exts []string
	for _, g := range strings.Split(glob, ",") {
		if ext := strings.TrimPrefix(strings.TrimSpace(g), "*."); ext != "" && ext != "*" {
			exts = append(exts, ext)
		}
	}
	return exts
}

func commandNames(cmds []commandDef) []string {
	names := make([]string, len(cmds))
	for i, c := range cmds {
		names[i] = c.Name
	}
	return names
}

// flagWords lists every spelling of the command's flags.
func flagWords(c commandDef) []string {
	var words []string
	for _, f := range c.Flags {
		words = append(words, "--"+f.Long)
		if f.Short != "" {
			words = append(words, "-"+f.Short)
		}
	}
	return words
}

// flagPattern returns "-o|--output" style alternatives.
func flagPattern(f flagDef) string {
	if f.Short != "" {
		return "-" + f.Short + "|--" + f.Long
	}
	return "--" + f.Long
}

// ---------------------------------------------------------------------------
// Bash
// ---------------------------------------------------------------------------

func bashFileCompgen(glob string) string {
	exts := globExts(glob)
	if len(exts) == 0 {
		return `$(compgen -f -- "$cur")`
	}
	parts := make([]string, 0, len(exts)+1)
	for _, ext := range exts {
		parts = append(parts, fmt.Sprintf(`$(compgen -f -X '!*.%s' -- "$cur")`, ext))
	}
	parts = append(parts, `$(compgen -d -- "$cur")`)
	return strings.Join(parts, " ")
}

func generateBash(cmds []commandDef) string {
	var b strings.Builder

	b.WriteString("# bash completion for svg2img\n\n")
	b.WriteString("_svg2img_completions() {\n")
	b.WriteString("    local cur prev cmd\n")
	b.WriteString("    cur=\"${COMP_WORDS[COMP_CWORD]}\"\n")
	b.WriteString("    prev=\"${COMP_WORDS[COMP_CWORD-1]}\"\n")
	b.WriteString("    cmd=\"${COMP_WORDS[1]}\"\n\n")
	b.WriteString("    if [[ ${COMP_CWORD} -eq 1 ]]; then\n")
	fmt.Fprintf(&b, "        COMPREPLY=($(compgen -W \"%s\" -- \"$cur\"))\n", strings.Join(commandNames(cmds), " "))
	b.WriteString("        return\n")
	b.WriteString("    fi\n\n")
	b.WriteString("    case \"$cmd\" in\n")

	for _, c := range cmds {
		if len(c.Flags) == 0 && len(c.Args) == 0 && !c.TakesFiles {
			continue
		}
		fmt.Fprintf(&b, "        %s)\n", c.Name)

		if len(c.Flags) > 0 {
			b.WriteString("            case \"$prev\" in\n")
			for _, f := range c.Flags {
				if !f.takesValue() {
					continue
				}
				var reply string
				switch f.Type {
				case flagEnum:
					reply = fmt.Sprintf(`COMPREPLY=($(compgen -W "%s" -- "$cur"))`, strings.Join(f.Values, " "))
				case flagFile:
					reply = "COMPREPLY=(" + bashFileCompgen(f.FileGlob) + ")"
				case flagDir:
					reply = `COMPREPLY=($(compgen -d -- "$cur"))`
				default:
					reply = "COMPREPLY=()"
				}
				fmt.Fprintf(&b, "                %s) %s; return ;;\n", flagPattern(f), reply)
			}
			b.WriteString("            esac\n")
			b.WriteString("            if [[ \"$cur\" == -* ]]; then\n")
			fmt.Fprintf(&b, "                COMPREPLY=($(compgen -W \"%s\" -- \"$cur\"))\n", strings.Join(flagWords(c), " "))
			b.WriteString("                return\n")
			b.WriteString("            fi\n")
		}

		switch {
		case c.TakesFiles:
			fmt.Fprintf(&b, "            COMPREPLY=(%s)\n", bashFileCompgen(c.FilePattern))
		case len(c.Args) > 0:
			fmt.Fprintf(&b, "            COMPREPLY=($(compgen -W \"%s\" -- \"$cur\"))\n", strings.Join(c.Args, " "))
		}
		b.WriteString("            ;;\n")
	}

	b.WriteString("    esac\n")
	b.WriteString("}\n\n")
	b.WriteString("complete -F _svg2img_completions svg2img\n")
	return b.String()
}

// ---------------------------------------------------------------------------
// Zsh
// ---------------------------------------------------------------------------

// zshQuote escapes s for a single-quoted _arguments spec description.
func zshQuote(s string) string {
	r := strings.NewReplacer(`'`, `'\''`, `[`, `\[`, `]`, `\]`)
	return r.Replace(s)
}

func zshGlob(glob string) string {
	exts := globExts(glob)
	switch len(exts) {
	case 0:
		return "_files"
	case 1:
		return fmt.Sprintf(`_files -g "*.%s"`, exts[0])
	default:
		return fmt.Sprintf(`_files -g "*.(%s)"`, strings.Join(exts, "|"))
	}
}

func zshFlagSpec(f flagDef) string {
	var action string
	switch f.Type {
	case flagBool:
	case flagEnum:
		action = fmt.Sprintf(":value:(%s)", strings.Join(f.Values, " "))
	case flagFile:
		action = ":file:" + zshGlob(f.FileGlob)
	case flagDir:
		action = ":directory:_files -/"
	default:
		action = ":value:"
	}

	desc := zshQuote(f.Desc)
	if f.Short == "" {
		return fmt.Sprintf("'--%s[%s]%s'", f.Long, desc, action)
	}
	return fmt.Sprintf("'(-%s --%s)'{-%s,--%s}'[%s]%s'", f.Short, f.Long, f.Short, f.Long, desc, action)
}

func generateZsh(cmds []commandDef) string {
	var b strings.Builder

	b.WriteString("#compdef svg2img\n\n")
	b.WriteString("_svg2img() {\n")
	b.WriteString("    local -a commands\n")
	b.WriteString("    commands=(\n")
	for _, c := range cmds {
		fmt.Fprintf(&b, "        '%s:%s'\n", c.Name, strings.ReplaceAll(c.Desc, "'", `'\''`))
	}
	b.WriteString("    )\n\n")
	b.WriteString("    if (( CURRENT == 2 )); then\n")
	b.WriteString("        _describe -t commands 'svg2img command' commands\n")
	b.WriteString("        return\n")
	b.WriteString("    fi\n\n")
	b.WriteString("    local cmd=$words[2]\n")
	b.WriteString("    shift words\n")
	b.WriteString("    (( CURRENT-- ))\n\n")
	b.WriteString("    case $cmd in\n")

	for _, c := range cmds {
		if len(c.Flags) == 0 && len(c.Args) == 0 && !c.TakesFiles {
			continue
		}
		fmt.Fprintf(&b, "        %s)\n", c.Name)
		b.WriteString("            _arguments -s")
		for _, f := range c.Flags {
			b.WriteString(" \\\n                " + zshFlagSpec(f))
		}
		switch {
		case c.TakesFiles:
			fmt.Fprintf(&b, " \\\n                '*:file:%s'", zshGlob(c.FilePattern))
		case len(c.Args) > 0:
			fmt.Fprintf(&b, " \\\n                '1:argument:(%s)'", strings.Join(c.Args, " "))
		}
		b.WriteString("\n            ;;\n")
	}

	b.WriteString("    esac\n")
	b.WriteString("}\n\n")
	b.WriteString("if [ \"$funcstack[1]\" = \"_svg2img\" ]; then\n")
	b.WriteString("    _svg2img \"$@\"\n")
	b.WriteString("else\n")
	b.WriteString("    compdef _svg2img svg2img\n")
	b.WriteString("fi\n")
	return b.String()
}

// ---------------------------------------------------------------------------
// Fish
// ---------------------------------------------------------------------------

func fishQuote(s string) string {
	return "'" + strings.NewReplacer(`\`, `\\`, `'`, `\'`).Replace(s) + "'"
}

func fishSuffixes(glob string) string {
	exts := globExts(glob)
	parts := make([]string, len(exts))
	for i, ext := range exts {
		parts[i] = "(__fish_complete_suffix ." + ext + ")"
	}
	return strings.Join(parts, " ")
}

func generateFish(cmds []commandDef) string {
	var b strings.Builder

	b.WriteString("# fish completion for svg2img\n\n")
	b.WriteString("function __fish_svg2img_needs_command\n")
	b.WriteString("    set -l cmd (commandline -opc)\n")
	b.WriteString("    test (count $cmd) -eq 1\n")
	b.WriteString("end\n\n")
	b.WriteString("function __fish_svg2img_using_command\n")
	b.WriteString("    set -l cmd (commandline -opc)\n")
	b.WriteString("    test (count $cmd) -gt 1; and test \"$cmd[2]\" = \"$argv[1]\"\n")
	b.WriteString("end\n\n")
	b.WriteString("complete -c svg2img -f\n")

	for _, c := range cmds {
		fmt.Fprintf(&b, "complete -c svg2img -n __fish_svg2img_needs_command -a %s -d %s\n", c.Name, fishQuote(c.Desc))
	}

	for _, c := range cmds {
		cond := fishQuote("__fish_svg2img_using_command " + c.Name)
		if len(c.Flags) > 0 || c.TakesFiles || len(c.Args) > 0 {
			b.WriteString("\n")
		}
		for _, f := range c.Flags {
			fmt.Fprintf(&b, "complete -c svg2img -n %s", cond)
			if f.Short != "" {
				fmt.Fprintf(&b, " -s %s", f.Short)
			}
			fmt.Fprintf(&b, " -l %s -d %s", f.Long, fishQuote(f.Desc))
			switch f.Type {
			case flagBool:
			case flagEnum:
				fmt.Fprintf(&b, " -x -a %s", fishQuote(strings.Join(f.Values, " ")))
			case flagFile:
				if s := fishSuffixes(f.FileGlob); s != "" {
					fmt.Fprintf(&b, " -r -a %s", fishQuote(s))
				} else {
					b.WriteString(" -r -F")
				}
			case flagDir:
				b.WriteString(" -r -a '(__fish_complete_directories)'")
			default:
				b.WriteString(" -x")
			}
			b.WriteString("\n")
		}
		switch {
		case c.TakesFiles:
			fmt.Fprintf(&b, "complete -c svg2img -n %s -a %s\n", cond,
				fishQuote(fishSuffixes(c.FilePattern)+" (__fish_complete_directories)"))
		case len(c.Args) > 0:
			fmt.Fprintf(&b, "complete -c svg2img -n %s -a %s\n", cond, fishQuote(strings.Join(c.Args, " ")))
		}
	}

	return b.String()
}

// ---------------------------------------------------------------------------
// PowerShell
// ---------------------------------------------------------------------------

func psQuote(s string) string {
	return "'" + strings.ReplaceAll(s, "'", "''") + "'"
}

func psList(values []string) string {
	quoted := make([]string, len(values))
	for i, v := range values {
		quoted[i] = psQuote(v)
	}
	return "@(" + strings.Join(quoted, ", ") + ")"
}

func generatePowerShell(cmds []commandDef) string {
	var b strings.Builder

	b.WriteString("# powershell completion for svg2img\n\n")
	b.WriteString("Register-ArgumentCompleter -Native -CommandName svg2img -ScriptBlock {\n")
	b.WriteString("    param($wordToComplete, $commandAst, $cursorPosition)\n\n")

	b.WriteString("    $commands = [ordered]@{\n")
	for _, c := range cmds {
		fmt.Fprintf(&b, "        %s = %s\n", psQuote(c.Name), psQuote(c.Desc))
	}
	b.WriteString("    }\n")

	b.WriteString("    $flags = @{\n")
	for _, c := range cmds {
		if len(c.Flags) > 0 {
			fmt.Fprintf(&b, "        %s = %s\n", psQuote(c.Name), psList(flagWords(c)))
		}
	}
	b.WriteString("    }\n")

	b.WriteString("    $values = @{\n")
	for _, c := range cmds {
		for _, f := range c.Flags {
			if f.Type != flagEnum {
				continue
			}
			fmt.Fprintf(&b, "        %s = %s\n", psQuote(c.Name+" --"+f.Long), psList(f.Values))
			if f.Short != "" {
				fmt.Fprintf(&b, "        %s = %s\n", psQuote(c.Name+" -"+f.Short), psList(f.Values))
			}
		}
	}
	b.WriteString("    }\n")

	b.WriteString("    $positional = @{\n")
	for _, c := range cmds {
		if len(c.Args) > 0 {
			fmt.Fprintf(&b, "        %s = %s\n", psQuote(c.Name), psList(c.Args))
		}
	}
	b.WriteString("    }\n\n")

	b.WriteString(`    $elements = @($commandAst.CommandElements | ForEach-Object { $_.ToString() })
    $count = $elements.Count
    if ($wordToComplete -ne '') { $count-- }

    $complete = {
        param($items, $kind)
        $items | Where-Object { $_ -like "$wordToComplete*" } | ForEach-Object {
            [System.Management.Automation.CompletionResult]::new($_, $_, $kind, $_)
        }
    }

    if ($count -le 1) {
        $commands.Keys | Where-Object { $_ -like "$wordToComplete*" } | ForEach-Object {
            [System.Management.Automation.CompletionResult]::new($_, $_, 'ParameterValue', $commands[$_])
        }
        return
    }

    $cmd = $elements[1]
    $key = "$cmd $($elements[$count - 1])"
    if ($values.ContainsKey($key)) {
        & $complete $values[$key] 'ParameterValue'
        return
    }
    if ($wordToComplete -like '-*' -and $flags.ContainsKey($cmd)) {
        & $complete $flags[$cmd] 'ParameterName'
        return
    }
    if ($positional.ContainsKey($cmd)) {
        & $complete $positional[$cmd] 'ParameterValue'
    }
}
`)
	return b.String()
}

// runCompletion handles the completion command.
func runCompletion(args []string, env *Environment) error {
	if len(args) == 0 {
		printCompletionUsage(env.Stdout)
		return nil
	}
	return GenerateCompletion(env.Stdout, Shell(args[0]))
}

// runCompletionCmd runs completion and maps the outcome to an exit code.
func runCompletionCmd(args []string, env *Environment) int {
	if err := runCompletion(args, env); err != nil {
		fmt.Fprintf(env.Stderr, "error: %v\n", err)
		return ExitUsage
	}
	return ExitSuccess
}

// printCompletionUsage prints help for the completion command.
func printCompletionUsage(w io.Writer) {
	fmt.Fprintln(w, "Usage: svg2img completion <shell>")
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
	fmt.Fprintln(w, "    eval \"$(svg2img completion bash)\"")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "  Zsh:")
	fmt.Fprintln(w, "    # Add to ~/.zshrc (after compinit):")
	fmt.Fprintln(w, "    eval \"$(svg2img completion zsh)\"")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "  Fish:")
	fmt.Fprintln(w, "    svg2img completion fish > ~/.config/fish/completions/svg2img.fish")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "  PowerShell:")
	fmt.Fprintln(w, "    # Add to $PROFILE:")
	fmt.Fprintln(w, "    svg2img completion powershell | Out-String | Invoke-Expression")
}
