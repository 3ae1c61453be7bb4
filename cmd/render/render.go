package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"go.uber.org/zap"

	render "github.com/alnah/go-render"
	"github.com/alnah/go-render/internal/config"
	"github.com/alnah/go-render/internal/fileutil"
)

// defaultOutputName is used when the target has no usable base name.
const defaultOutputName = "render"

// runRender renders inline and writes the result.
func runRender(ctx context.Context, args []string, env *Environment) error {
	return runRenderCommand(ctx, "render", args, env)
}

// runLink renders by reference and prints the artifact URL.
func runLink(ctx context.Context, args []string, env *Environment) error {
	return runRenderCommand(ctx, "link", args, env)
}

func runRenderCommand(ctx context.Context, name string, args []string, env *Environment) error {
	flags, positional, err := parseRenderFlags(name, args, env.Stderr)
	if err != nil {
		return err
	}
	if flags.source.view == "" && len(positional) != 1 {
		printRenderUsage(env.Stderr, name)
		return fmt.Errorf("%w: expected one target", ErrUsage)
	}
	format, err := render.ParseFormat(flags.source.format)
	if err != nil {
		return err
	}

	cfg, err := loadConfig(&flags.common)
	if err != nil {
		return err
	}
	if flags.source.appURL != "" {
		cfg.App.URL = flags.source.appURL
	}
	if flags.source.views != "" {
		cfg.App.ViewsDir = flags.source.views
	}
	log, err := newLogger(cfg, env)
	if err != nil {
		return err
	}
	defer func() { _ = log.Sync() }()

	client, closeClient, err := newClient(ctx, cfg, log, env)
	if err != nil {
		return &cliError{err: err, cfg: cfg}
	}
	defer closeClient()

	target := ""
	if len(positional) > 0 {
		target = positional[0]
	}
	r, err := newRenderer(ctx, client, format, flags, target, env)
	if err != nil {
		return &cliError{err: err, cfg: cfg}
	}
	if err := flags.apply(r, env.Now()); err != nil {
		return err
	}

	start := env.Now()
	if name == "link" {
		link, err := r.Link(ctx)
		if err != nil {
			return &cliError{err: err, cfg: cfg}
		}
		fmt.Fprintln(env.Stdout, link)
		return nil
	}

	body, err := r.Blob(ctx)
	if err != nil {
		return &cliError{err: err, cfg: cfg}
	}

	output := flags.output
	if output == "" {
		output = outputName(flags.source.view, target, format)
	}
	if output == "-" {
		if _, err := env.Stdout.Write(body); err != nil {
			return fmt.Errorf("%w: %v", ErrWriteOutput, err)
		}
		return nil
	}
	if err := fileutil.WriteFileAtomic(output, body, 0o644); err != nil {
		return &cliError{err: fmt.Errorf("%w: %v", ErrWriteOutput, err), cfg: cfg}
	}
	log.Debug("render written", zap.String("path", output), zap.Int("bytes", len(body)))
	if !flags.common.quiet {
		fmt.Fprintf(env.Stdout, "%s (%d bytes, %s)\n", output, len(body), env.Now().Sub(start).Round(time.Millisecond))
	}
	return nil
}

// newRenderer picks the source: a view, stdin, a local HTML file, or a URL.
func newRenderer(ctx context.Context, c *render.Client, format render.Format, flags *renderFlags, target string, env *Environment) (*render.Renderer, error) {
	if view := flags.source.view; view != "" {
		vars := make(map[string]any, len(flags.source.vars))
		for k, v := range flags.source.vars {
			vars[k] = v
		}
		if format == render.FormatMJML {
			return c.FromMJMLView(ctx, view, vars)
		}
		return c.FromView(ctx, format, view, vars)
	}

	if target == "-" {
		markup, err := io.ReadAll(env.Stdin)
		if err != nil {
			return nil, fmt.Errorf("%w: stdin: %v", ErrReadInput, err)
		}
		return c.FromHTML(format, string(markup)), nil
	}

	if isHTMLFile(target) {
		markup, err := os.ReadFile(target) // #nosec G304 -- path is user-provided
		if err != nil {
			return nil, fmt.Errorf("%w: %v", ErrReadInput, err)
		}
		return c.FromHTML(format, string(markup)), nil
	}
	return c.FromURL(format, target), nil
}

func isHTMLFile(target string) bool {
	if fileutil.IsAbsoluteTarget(target) {
		return false
	}
	ext := strings.ToLower(filepath.Ext(target))
	return (ext == ".html" || ext == ".htm") && fileutil.FileExists(target)
}

// outputName derives "<base>.<ext>" from the view or target.
func outputName(view, target string, format render.Format) string {
	base := ""
	switch {
	case view != "":
		base = view[strings.LastIndex(view, ".")+1:]
	case target != "" && target != "-" && !fileutil.IsAbsoluteTarget(target):
		base = strings.TrimSuffix(filepath.Base(target), filepath.Ext(target))
	}
	if base == "" || base == "." || base == "/" {
		base = defaultOutputName
	}
	return base + "." + format.Extension()
}

// cliError carries the loaded config so hints can name configured values.
type cliError struct {
	err error
	cfg *config.Config
}

func (e *cliError) Error() string { return e.err.Error() }
func (e *cliError) Unwrap() error { return e.err }
