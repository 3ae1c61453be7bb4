// Command render-service is the reference render service: it drives a
// headless Chromium through rod and answers the render protocol over HTTP.
package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	flag "github.com/spf13/pflag"
	"go.uber.org/automaxprocs/maxprocs"
	"go.uber.org/zap"

	"github.com/alnah/go-render/internal/config"
	"github.com/alnah/go-render/internal/logger"
)

// Exit codes.
const (
	exitSuccess = 0
	exitGeneral = 1
	exitUsage   = 2
)

// shutdownTimeout bounds graceful shutdown, including closing the browser.
const shutdownTimeout = 15 * time.Second

var errUsage = errors.New("usage error")

// serviceFlags holds command line overrides of the server config section.
type serviceFlags struct {
	config     string
	envFile    string
	addr       string
	publicURL  string
	artifacts  string
	browserBin string
	workers    int
	noSandbox  bool
	noMetrics  bool
}

func main() {
	_, _ = maxprocs.Set(maxprocs.Logger(func(string, ...interface{}) {}))

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	code := run(ctx, os.Args[1:], os.Stderr)
	stop()
	os.Exit(code)
}

func run(ctx context.Context, args []string, stderr io.Writer) int {
	f, err := parseFlags(args, stderr)
	if err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return exitSuccess
		}
		fmt.Fprintf(stderr, "error: %v\n", err)
		return exitUsage
	}

	cfg, err := loadConfig(f)
	if err != nil {
		fmt.Fprintf(stderr, "error: %v\n", err)
		return exitUsage
	}

	log, err := logger.New(logger.Config{
		Level:       cfg.Log.Level,
		Encoding:    cfg.Log.Encoding,
		Development: cfg.Log.Development,
	}, stderr)
	if err != nil {
		fmt.Fprintf(stderr, "error: %v\n", err)
		return exitUsage
	}
	defer func() { _ = log.Sync() }()

	if err := serve(ctx, cfg, f, log); err != nil {
		log.Error("render service stopped", zap.Error(err))
		return exitGeneral
	}
	return exitSuccess
}

func parseFlags(args []string, stderr io.Writer) (*serviceFlags, error) {
	fs := flag.NewFlagSet("render-service", flag.ContinueOnError)
	fs.SetOutput(stderr)
	f := &serviceFlags{}
	fs.StringVarP(&f.config, "config", "c", "", "config file name or path")
	fs.StringVar(&f.envFile, "env-file", ".env", "dotenv file loaded before the environment")
	fs.StringVar(&f.addr, "addr", "", "listen address (default from config)")
	fs.StringVar(&f.publicURL, "public-url", "", "base URL of artifact links")
	fs.StringVar(&f.artifacts, "artifacts", "", "directory for reference-mode artifacts")
	fs.StringVar(&f.browserBin, "browser-bin", "", "Chromium binary")
	fs.IntVar(&f.workers, "workers", 0, "concurrent pages (0 = from config)")
	fs.BoolVar(&f.noSandbox, "no-sandbox", false, "disable the Chromium sandbox")
	fs.BoolVar(&f.noMetrics, "no-metrics", false, "do not expose /metrics")
	if err := fs.Parse(args); err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return nil, err
		}
		return nil, fmt.Errorf("%w: %v", errUsage, err)
	}
	if fs.NArg() > 0 {
		return nil, fmt.Errorf("%w: unexpected argument %q", errUsage, fs.Arg(0))
	}
	return f, nil
}

// loadConfig reads the dotenv file and the config, then applies flags.
func loadConfig(f *serviceFlags) (*config.Config, error) {
	if err := config.LoadDotEnv(f.envFile); err != nil {
		return nil, err
	}
	var cfg *config.Config
	var err error
	if f.config != "" {
		cfg, err = config.LoadConfig(f.config)
	} else {
		cfg, err = config.FromEnv()
	}
	if err != nil {
		return nil, err
	}

	if f.addr != "" {
		cfg.Server.Addr = f.addr
	}
	if f.publicURL != "" {
		cfg.Server.PublicURL = f.publicURL
	}
	if f.artifacts != "" {
		cfg.Server.ArtifactsDir = f.artifacts
	}
	if f.browserBin != "" {
		cfg.Server.BrowserBin = f.browserBin
	}
	if f.workers > 0 {
		cfg.Server.Workers = f.workers
	}
	return cfg, cfg.Validate()
}

// serve runs the HTTP server until ctx is done, then shuts it down.
func serve(ctx context.Context, cfg *config.Config, f *serviceFlags, log *zap.Logger) error {
	app, err := newApp(ctx, cfg, appOptions{noSandbox: f.noSandbox, metrics: !f.noMetrics}, log)
	if err != nil {
		return err
	}
	defer app.close()

	errCh := make(chan error, 1)
	go func() {
		log.Info("render service listening",
			zap.String("addr", cfg.Server.Addr),
			zap.Int("workers", cfg.Server.Workers),
			zap.String("cache", cfg.Cache.Driver),
		)
		errCh <- app.echo.Start(cfg.Server.Addr)
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
	return app.echo.Shutdown(shutdownCtx)
}
