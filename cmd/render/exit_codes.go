package main

import (
	"context"
	"errors"
	"os"

	render "github.com/alnah/go-render"
	"github.com/alnah/go-render/internal/config"
	"github.com/alnah/go-render/internal/hints"
)

// Exit codes for the render CLI.
const (
	ExitSuccess = 0 // Successful run
	ExitGeneral = 1 // General/unexpected error
	ExitUsage   = 2 // Invalid flags, config, or view
	ExitIO      = 3 // Input or output file errors
	ExitRemote  = 4 // Render service errors
)

// CLI errors.
var (
	ErrUsage       = errors.New("usage error")
	ErrReadInput   = errors.New("failed to read input")
	ErrWriteOutput = errors.New("failed to write output")
)

// exitCodeFor maps an error to an exit code with errors.Is, so callers must
// wrap with %w.
func exitCodeFor(err error) int {
	if err == nil {
		return ExitSuccess
	}

	var rerr *render.RenderError
	if errors.As(err, &rerr) ||
		errors.Is(err, render.ErrRemoteRender) ||
		errors.Is(err, render.ErrRequest) ||
		errors.Is(err, render.ErrUnexpectedResponse) {
		return ExitRemote
	}

	if errors.Is(err, os.ErrNotExist) ||
		errors.Is(err, os.ErrPermission) ||
		errors.Is(err, ErrReadInput) ||
		errors.Is(err, ErrWriteOutput) {
		return ExitIO
	}

	if errors.Is(err, ErrUsage) ||
		errors.Is(err, config.ErrConfigNotFound) ||
		errors.Is(err, config.ErrEmptyConfigName) ||
		errors.Is(err, config.ErrConfigParse) ||
		errors.Is(err, config.ErrConfigEnv) ||
		errors.Is(err, config.ErrConfigInvalid) ||
		errors.Is(err, render.ErrInvalidFormat) ||
		errors.Is(err, render.ErrInvalidBaseURL) ||
		errors.Is(err, render.ErrNoViews) ||
		errors.Is(err, render.ErrViewNotFound) ||
		errors.Is(err, render.ErrTemplateParse) ||
		errors.Is(err, render.ErrTemplateEval) ||
		errors.Is(err, render.ErrMJMLCompile) {
		return ExitUsage
	}

	return ExitGeneral
}

// hintFor returns an actionable hint for err, or "".
func hintFor(err error, cfg *config.Config) string {
	var rerr *render.RenderError
	switch {
	case errors.As(err, &rerr):
		return hints.ForStatus(rerr.StatusCode)
	case errors.Is(err, context.DeadlineExceeded):
		return hints.ForTimeout()
	case errors.Is(err, render.ErrRequest):
		if cfg != nil {
			return hints.ForServiceUnreachable(cfg.Service.BaseURL)
		}
		return hints.ForServiceUnreachable("")
	case errors.Is(err, config.ErrConfigNotFound):
		return hints.ForConfigNotFound(configSearchPaths())
	case errors.Is(err, render.ErrViewNotFound), errors.Is(err, render.ErrNoViews):
		if cfg != nil {
			return hints.ForViewNotFound(cfg.App.ViewsDir)
		}
		return hints.ForViewNotFound("")
	case errors.Is(err, ErrWriteOutput):
		return hints.ForOutputDirectory()
	}
	return ""
}
