package main

import (
	"fmt"
	"io"
	"strings"

	"github.com/alnah/go-render/internal/config"
)

// printUsage prints the main usage message.
func printUsage(w io.Writer) {
	fmt.Fprintln(w, "Usage: render <command> [flags] [args]")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Commands:")
	fmt.Fprintln(w, "  render     Render a URL, HTML file or view and save the result")
	fmt.Fprintln(w, "  link       Render by reference and print the artifact URL")
	fmt.Fprintln(w, "  serve      Serve a directory with server-side rendered HTML")
	fmt.Fprintln(w, "  config     Print the effective configuration")
	fmt.Fprintln(w, "  doctor     Check configuration and service connectivity")
	fmt.Fprintln(w, "  version    Show version information")
	fmt.Fprintln(w, "  help       Show help for a command")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Run 'render help <command>' for details on a specific command.")
}

// printRenderUsage prints usage for the render and link commands.
func printRenderUsage(w io.Writer, name string) {
	fmt.Fprintf(w, "Usage: render %s <target> [flags]\n", name)
	fmt.Fprintln(w)
	if name == "link" {
		fmt.Fprintln(w, "Render by reference and print the URL of the stored artifact.")
	} else {
		fmt.Fprintln(w, "Render inline and write the result to a file or stdout.")
	}
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Arguments:")
	fmt.Fprintln(w, "  target    URL, path relative to --app-url, HTML file, or - for stdin")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Source:")
	fmt.Fprintln(w, "  -f, --format <s>          Output format: html, pdf, png, jpg, mjml (default pdf)")
	fmt.Fprintln(w, "      --app-url <url>       Base URL for relative targets")
	fmt.Fprintln(w, "      --views <dir>         Views directory")
	fmt.Fprintln(w, "      --view <name>         Render a view, e.g. emails.welcome")
	fmt.Fprintln(w, "      --var <k=v>           View variable (repeatable)")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Output:")
	if name != "link" {
		fmt.Fprintln(w, "  -o, --output <path>       Output file, - for stdout (default <name>.<ext>)")
	}
	fmt.Fprintln(w, "      --no-cache            Bypass the render cache")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Page (pdf):")
	fmt.Fprintln(w, "  -p, --paper <s>           A0-A6, Letter, Legal, Tabloid, Ledger")
	fmt.Fprintln(w, "      --width <px>          Page width (viewport width for images)")
	fmt.Fprintln(w, "      --height <px>         Page height (viewport height for images)")
	fmt.Fprintln(w, "      --margin <s>          CSS shorthand, e.g. 1cm or 1cm,2cm")
	fmt.Fprintln(w, "      --landscape           Landscape orientation")
	fmt.Fprintln(w, "      --media <s>           Emulated media: screen, print")
	fmt.Fprintln(w, "      --header <html>       Print header template")
	fmt.Fprintln(w, "      --footer <html>       Print footer template")
	fmt.Fprintln(w, "      --pages <s>           Page ranges, e.g. 1-5,8")
	fmt.Fprintln(w, "      --scale <f>           Rendering scale")
	fmt.Fprintln(w, "      --background          Print background graphics")
	fmt.Fprintln(w, "      --css-page-size       Let CSS @page size win")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Image (png, jpg):")
	fmt.Fprintln(w, "      --full-page           Capture the full scrollable page")
	fmt.Fprintln(w, "      --selector <css>      Capture one element")
	fmt.Fprintln(w, "      --quality <n>         JPEG quality (0-100)")
	fmt.Fprintln(w, "      --transparent         Omit the white background")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Metadata (pdf):")
	fmt.Fprintln(w, "      --title, --author, --subject <s>")
	fmt.Fprintln(w, "      --keywords <a,b>")
	fmt.Fprintln(w, "      --created <date>      now, YYYY-MM-DD or RFC 3339")
	fmt.Fprintln(w, "      --modified <date>")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Timing:")
	fmt.Fprintln(w, "      --dpi <f>             Device pixel ratio")
	fmt.Fprintln(w, "  -t, --timeout <d>         Remote render timeout (e.g. 30s)")
	fmt.Fprintln(w, "      --wait-until <s>      load, domcontentloaded, networkidle, networksettled")
	fmt.Fprintln(w)
	printCommonUsage(w)
}

func printServeUsage(w io.Writer) {
	fmt.Fprintln(w, "Usage: render serve [dir] [flags]")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Serve static files from dir (default .). HTML responses are replaced by")
	fmt.Fprintln(w, "their server-side rendered markup.")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Flags:")
	fmt.Fprintln(w, "      --addr <host:port>    Listen address (default from config)")
	fmt.Fprintln(w, "      --ttl <d>             Cache rendered pages for d (0 = forever)")
	fmt.Fprintln(w, "      --no-cache            Do not cache rendered pages")
	fmt.Fprintln(w)
	printCommonUsage(w)
}

func printCommonUsage(w io.Writer) {
	fmt.Fprintln(w, "Common:")
	fmt.Fprintln(w, "  -c, --config <name>       Config file name or path")
	fmt.Fprintln(w, "      --env-file <path>     Dotenv file (default .env)")
	fmt.Fprintln(w, "  -s, --service <url>       Render service base URL")
	fmt.Fprintln(w, "  -q, --quiet               Only show errors")
	fmt.Fprintln(w, "  -v, --verbose             Debug logging")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Environment:")
	names := config.EnvNames()
	for i := 0; i < len(names); i += 4 {
		fmt.Fprintln(w, "  "+strings.Join(names[i:min(i+4, len(names))], " "))
	}
}

// runHelp prints help for a specific command.
func runHelp(args []string, env *Environment) int {
	if len(args) == 0 {
		printUsage(env.Stdout)
		return ExitSuccess
	}

	switch args[0] {
	case "render", "link":
		printRenderUsage(env.Stdout, args[0])
	case "serve":
		printServeUsage(env.Stdout)
	case "config":
		fmt.Fprintln(env.Stdout, "Usage: render config [flags]")
		fmt.Fprintln(env.Stdout)
		fmt.Fprintln(env.Stdout, "Print the configuration after the file, .env, environment and flags are applied.")
	case "doctor":
		fmt.Fprintln(env.Stdout, "Usage: render doctor [--json] [flags]")
		fmt.Fprintln(env.Stdout)
		fmt.Fprintln(env.Stdout, "Check configuration, views and render service connectivity.")
	case "version":
		fmt.Fprintln(env.Stdout, "Usage: render version [--remote] [flags]")
		fmt.Fprintln(env.Stdout)
		fmt.Fprintln(env.Stdout, "Show version information. --remote also asks the service for its browser version.")
	case "help":
		fmt.Fprintln(env.Stdout, "Usage: render help [command]")
		fmt.Fprintln(env.Stdout)
		fmt.Fprintln(env.Stdout, "Show help for a command.")
	default:
		fmt.Fprintf(env.Stderr, "Unknown command: %s\n", args[0])
		printUsage(env.Stderr)
		return ExitUsage
	}
	return ExitSuccess
}
