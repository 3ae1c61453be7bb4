package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"path"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	flag "github.com/spf13/pflag"
	"go.uber.org/zap"

	render "github.com/alnah/go-render"
	"github.com/alnah/go-render/internal/config"
)

// shutdownTimeout bounds graceful shutdown.
const shutdownTimeout = 10 * time.Second

type serveFlags struct {
	common  commonFlags
	addr    string
	ttl     time.Duration
	noCache bool
}

// runServe serves a directory, rendering pages through the SSR middleware.
func runServe(ctx context.Context, args []string, env *Environment) error {
	fs := flag.NewFlagSet("serve", flag.ContinueOnError)
	fs.SetOutput(io.Discard)
	f := &serveFlags{}
	addCommonFlags(fs, &f.common)
	fs.StringVar(&f.addr, "addr", "", "listen address")
	fs.DurationVar(&f.ttl, "ttl", -1, "cache rendered pages for this long (0 = forever)")
	fs.BoolVar(&f.noCache, "no-cache", false, "do not cache rendered pages")
	if err := fs.Parse(args); err != nil {
		printServeUsage(env.Stderr)
		return fmt.Errorf("%w: %v", ErrUsage, err)
	}

	dir := "."
	if fs.NArg() > 1 {
		return fmt.Errorf("%w: serve takes at most one directory", ErrUsage)
	}
	if fs.NArg() == 1 {
		dir = fs.Arg(0)
	}
	if info, err := os.Stat(dir); err != nil || !info.IsDir() {
		return fmt.Errorf("%w: %s is not a directory", ErrReadInput, dir)
	}

	cfg, err := loadConfig(&f.common)
	if err != nil {
		return err
	}
	if f.addr != "" {
		cfg.Server.Addr = f.addr
	}
	if f.ttl >= 0 {
		cfg.SSR.TTL = f.ttl
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

	e := newServeApp(client, cfg, dir, !f.noCache, log)

	errCh := make(chan error, 1)
	go func() {
		log.Info("serving", zap.String("addr", cfg.Server.Addr), zap.String("dir", dir))
		errCh <- e.Start(cfg.Server.Addr)
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	log.Info("shutting down")
	return e.Shutdown(shutdownCtx)
}

// newServeApp builds the echo app: request IDs, recovery, access logs,
// SSR on page routes and static files.
func newServeApp(client *render.Client, cfg *config.Config, dir string, cached bool, log *zap.Logger) *echo.Echo {
	e := echo.New()
	e.HideBanner = true
	e.HidePort = true

	e.Use(middleware.RequestIDWithConfig(middleware.RequestIDConfig{
		Generator: uuid.NewString,
	}))
	e.Use(middleware.Recover())
	e.Use(middleware.RequestLoggerWithConfig(middleware.RequestLoggerConfig{
		LogURI:       true,
		LogStatus:    true,
		LogLatency:   true,
		LogRequestID: true,
		LogValuesFunc: func(_ echo.Context, v middleware.RequestLoggerValues) error {
			log.Info("request",
				zap.String("uri", v.URI),
				zap.Int("status", v.Status),
				zap.Duration("latency", v.Latency),
				zap.String("request_id", v.RequestID),
			)
			return nil
		},
	}))

	opts := []render.SSROption{
		render.WithSSRHeaders(cfg.SSR.Headers),
		render.WithSSRParams(cfg.SSR.Params),
	}
	if cached {
		opts = append(opts, render.WithSSRCache(cfg.SSR.TTL))
	}
	e.Use(pagesOnly(render.EchoSSR(client, opts...)))
	e.Static("/", dir)
	return e
}

// pagesOnly applies mw to GET requests for pages: paths ending in "/",
// ".html", ".htm", or without an extension.
func pagesOnly(mw echo.MiddlewareFunc) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		rendered := mw(next)
		return func(c echo.Context) error {
			if c.Request().Method == http.MethodGet && isPage(c.Request().URL.Path) {
				return rendered(c)
			}
			return next(c)
		}
	}
}

func isPage(p string) bool {
	if strings.HasSuffix(p, "/") {
		return true
	}
	switch strings.ToLower(path.Ext(p)) {
	case "", ".html", ".htm":
		return true
	}
	return false
}
