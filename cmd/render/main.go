// Command render is the command line client of the render service.
package main

import (
	"context"
	"errors"
	"fmt"
	"os"

	"go.uber.org/automaxprocs/maxprocs"

	render "github.com/alnah/go-render"
)

// Version is set at build time via ldflags.
var Version = ""

func main() {
	// maxprocs.Set only fails on an invalid GOMAXPROCS value; the runtime
	// default applies then.
	_, _ = maxprocs.Set(maxprocs.Logger(func(string, ...interface{}) {}))

	if Version != "" {
		render.Version = Version
	}

	ctx, stop := notifyContext(context.Background())
	code := run(ctx, os.Args[1:], DefaultEnv())
	stop()
	os.Exit(code)
}

// run dispatches a command and returns the process exit code.
func run(ctx context.Context, args []string, env *Environment) int {
	if len(args) == 0 {
		printUsage(env.Stderr)
		return ExitUsage
	}

	var err error
	switch cmd, rest := args[0], args[1:]; cmd {
	case "render":
		err = runRender(ctx, rest, env)
	case "link":
		err = runLink(ctx, rest, env)
	case "serve":
		err = runServe(ctx, rest, env)
	case "version", "--version":
		err = runVersion(ctx, rest, env)
	case "config":
		err = runConfig(ctx, rest, env)
	case "doctor":
		return runDoctorCmd(ctx, rest, env)
	case "help", "-h", "--help":
		return runHelp(rest, env)
	default:
		fmt.Fprintf(env.Stderr, "Unknown command: %s\n", cmd)
		printUsage(env.Stderr)
		return ExitUsage
	}

	if err != nil {
		var cerr *cliError
		hint := hintFor(err, nil)
		if errors.As(err, &cerr) {
			hint = hintFor(err, cerr.cfg)
		}
		fmt.Fprintf(env.Stderr, "error: %v%s\n", err, hint)
	}
	return exitCodeFor(err)
}
