package main

import (
	"context"
	"fmt"
	"io"
	"runtime"

	flag "github.com/spf13/pflag"

	render "github.com/alnah/go-render"
)

// runVersion prints the library version and, with --remote, the browser
// version reported by the render service.
func runVersion(ctx context.Context, args []string, env *Environment) error {
	fs := flag.NewFlagSet("version", flag.ContinueOnError)
	fs.SetOutput(io.Discard)
	var common commonFlags
	var remote bool
	addCommonFlags(fs, &common)
	fs.BoolVar(&remote, "remote", false, "query the render service")
	if err := fs.Parse(args); err != nil {
		return fmt.Errorf("%w: %v", ErrUsage, err)
	}

	fmt.Fprintf(env.Stdout, "render %s (%s, %s/%s)\n", render.Version, runtime.Version(), runtime.GOOS, runtime.GOARCH)
	if !remote {
		return nil
	}

	cfg, err := loadConfig(&common)
	if err != nil {
		return err
	}
	log, err := newLogger(cfg, env)
	if err != nil {
		return err
	}
	client, closeClient, err := newClient(ctx, cfg, log, env)
	if err != nil {
		return &cliError{err: err, cfg: cfg}
	}
	defer closeClient()

	chromium, err := client.Version(ctx)
	if err != nil {
		return &cliError{err: err, cfg: cfg}
	}
	fmt.Fprintf(env.Stdout, "chromium %s (%s)\n", chromium, cfg.Service.BaseURL)
	return nil
}
