package main

import (
	"fmt"
	"io"
)

// printUsage prints the main usage message.
func printUsage(w io.Writer) {
	fmt.Fprintln(w, "Usage: svg2img <command> [flags] [args]")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Commands:")
	fmt.Fprintln(w, "  convert    Convert SVG files to PNG, JPEG or WebP")
	fmt.Fprintln(w, "  watch      Re-render SVG files when they change")
	fmt.Fprintln(w, "  doctor     Check the browser and environment")
	fmt.Fprintln(w, "  completion Generate shell completion script")
	fmt.Fprintln(w, "  version    Show version information")
	fmt.Fprintln(w, "  help       Show help for a command")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "'svg2img <file.svg> [flags]' is short for 'svg2img convert <file.svg> [flags]'.")
	fmt.Fprintln(w, "Run 'svg2img help <command>' for details on a specific command.")
}

// printImageFlags prints the flags shared by convert and watch.
func printImageFlags(w io.Writer) {
	fmt.Fprintln(w, "Input/Output:")
	fmt.Fprintln(w, "  -o, --output <path>       Output file or directory")
	fmt.Fprintln(w, "  -c, --config <name>       Config file name or path")
	fmt.Fprintln(w, "  -w, --workers <n>         Concurrent conversions (0 = auto)")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Image:")
	fmt.Fprintln(w, "  -t, --type <s>            Image type: png, jpeg (jpg), webp")
	fmt.Fprintln(w, "                            (default: from output extension, else png)")
	fmt.Fprintln(w, "      --width <n>           Output width in pixels (0 = SVG width)")
	fmt.Fprintln(w, "      --height <n>          Output height in pixels (0 = SVG height)")
	fmt.Fprintln(w, "  -q, --quality <n>         JPEG/WebP quality 1-100 (default 100)")
	fmt.Fprintln(w, "      --background <color>  CSS background color (JPEG default: #fff)")
	fmt.Fprintln(w, "      --clip <x,y,w,h>      Clip rectangle in output pixels")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Browser:")
	fmt.Fprintln(w, "      --timeout <d>         Per-file conversion timeout (e.g., 30s, 2m)")
	fmt.Fprintln(w, "      --idle-timeout <d>    Close the browser after this idle period (default 1s)")
	fmt.Fprintln(w, "      --browser-bin <path>  Chrome/Chromium binary")
	fmt.Fprintln(w, "      --no-sandbox          Disable the Chrome sandbox")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Output Control:")
	fmt.Fprintln(w, "      --quiet               Only show errors")
	fmt.Fprintln(w, "  -v, --verbose             Show browser lifecycle and timing")
}

// printConvertUsage prints usage for the convert command.
func printConvertUsage(w io.Writer) {
	fmt.Fprintln(w, "Usage: svg2img convert <input> [flags]")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Convert SVG files to PNG, JPEG or WebP.")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Arguments:")
	fmt.Fprintln(w, "  input    SVG file or directory")
	fmt.Fprintln(w)
	printImageFlags(w)
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Text Output:")
	fmt.Fprintln(w, "  -e, --encoding <s>        Print the image to stdout instead of writing it:")
	fmt.Fprintln(w, "                            base64, base64url, hex, utf8, ascii, latin1,")
	fmt.Fprintln(w, "                            binary, utf16le, ucs2")
	fmt.Fprintln(w, "                            (single input file only)")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Environment:")
	fmt.Fprintln(w, "  SVG2IMG_CONFIG, SVG2IMG_OUTPUT_DIR, SVG2IMG_TYPE, SVG2IMG_TIMEOUT, SVG2IMG_WORKERS")
	fmt.Fprintln(w, "  ROD_BROWSER_BIN, ROD_NO_SANDBOX")
}

// printWatchUsage prints usage for the watch command.
func printWatchUsage(w io.Writer) {
	fmt.Fprintln(w, "Usage: svg2img watch <input> [flags]")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Render SVG files once, then again whenever they are written or created.")
	fmt.Fprintln(w, "Stop with Ctrl+C.")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Arguments:")
	fmt.Fprintln(w, "  input    SVG file or directory")
	fmt.Fprintln(w)
	printImageFlags(w)
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Watch:")
	fmt.Fprintln(w, "      --debounce <d>        Wait after the last change before rendering (default 200ms)")
}

// printDoctorUsage prints usage for the doctor command.
func printDoctorUsage(w io.Writer) {
	fmt.Fprintln(w, "Usage: svg2img doctor [flags]")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Check Chrome/Chromium, sandbox, container and CI detection, and temp directory.")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Flags:")
	fmt.Fprintln(w, "      --json                Print results as JSON")
	fmt.Fprintln(w, "      --render              Also render a test SVG through the browser")
}

// runHelp prints help for a specific command.
func runHelp(args []string, env *Environment) int {
	if len(args) == 0 {
		printUsage(env.Stdout)
		return ExitSuccess
	}

	switch args[0] {
	case "convert":
		printConvertUsage(env.Stdout)
	case "watch":
		printWatchUsage(env.Stdout)
	case "doctor":
		printDoctorUsage(env.Stdout)
	case "completion":
		printCompletionUsage(env.Stdout)
	case "version":
		fmt.Fprintln(env.Stdout, "Usage: svg2img version")
		fmt.Fprintln(env.Stdout)
		fmt.Fprintln(env.Stdout, "Show version information.")
	case "help":
		fmt.Fprintln(env.Stdout, "Usage: svg2img help [command]")
		fmt.Fprintln(env.Stdout)
		fmt.Fprintln(env.Stdout, "Show help for a command.")
	default:
		fmt.Fprintf(env.Stderr, "Unknown command: %s\n", args[0])
		printUsage(env.Stderr)
		return ExitUsage
	}
	return ExitSuccess
}
