package main

import (
	"context"
	"os"
	"path/filepath"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"go.uber.org/zap"

	"github.com/alnah/go-render/internal/cache"
	"github.com/alnah/go-render/internal/chrome"
	"github.com/alnah/go-render/internal/config"
	"github.com/alnah/go-render/internal/logger"
	"github.com/alnah/go-render/internal/service"
)

// defaultArtifactsDir is used under the temp dir when none is configured.
const defaultArtifactsDir = "go-render-artifacts"

type appOptions struct {
	noSandbox bool
	metrics   bool
	// renderer replaces the Chromium pool in tests.
	renderer chrome.Renderer
}

// app is the wired service with the resources it owns.
type app struct {
	echo    *echo.Echo
	closers []func() error
	log     *zap.Logger
}

// close releases the browser and the cache connection.
func (a *app) close() {
	for i := len(a.closers) - 1; i >= 0; i-- {
		if err := a.closers[i](); err != nil {
			a.log.Warn("closing resource", zap.Error(err))
		}
	}
}

// newApp builds the render service from cfg: browser pool, artifact
// directory, cache store, metrics registry and the echo server.
func newApp(ctx context.Context, cfg *config.Config, opts appOptions, log *zap.Logger) (*app, error) {
	a := &app{log: log}

	renderer := opts.renderer
	if renderer == nil {
		browser := chrome.New(chrome.Config{
			BrowserBin: cfg.Server.BrowserBin,
			NoSandbox:  opts.noSandbox,
			Timeout:    cfg.Server.RenderTTL,
			Workers:    cfg.Server.Workers,
			Logger:     logger.WithContext(log, zap.String("component", "chrome")),
		})
		a.closers = append(a.closers, browser.Close)
		renderer = browser
	}

	dir := cfg.Server.ArtifactsDir
	if dir == "" {
		dir = filepath.Join(os.TempDir(), defaultArtifactsDir)
	}
	artifacts, err := service.NewDirStore(dir)
	if err != nil {
		a.close()
		return nil, err
	}

	store, err := newStore(ctx, cfg, a)
	if err != nil {
		a.close()
		return nil, err
	}

	var registry *prometheus.Registry
	if opts.metrics {
		registry = prometheus.NewRegistry()
		registry.MustRegister(
			collectors.NewGoCollector(),
			collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
		)
	}

	srv, err := service.New(service.Config{
		Renderer:   renderer,
		Artifacts:  artifacts,
		PublicURL:  cfg.Server.PublicURL,
		Cache:      store,
		CacheTTL:   cfg.Server.CacheTTL,
		RenderPath: cfg.Service.RenderPath,
		StatusPath: cfg.Service.StatusPath,
		Logger:     logger.WithContext(log, zap.String("component", "service")),
		Registry:   registry,
	})
	if err != nil {
		a.close()
		return nil, err
	}

	e := echo.New()
	e.HideBanner = true
	e.HidePort = true
	e.Use(middleware.RequestIDWithConfig(middleware.RequestIDConfig{
		Generator: uuid.NewString,
	}))
	e.Use(middleware.Recover())
	e.Use(middleware.RequestLoggerWithConfig(middleware.RequestLoggerConfig{
		LogURI:       true,
		LogMethod:    true,
		LogStatus:    true,
		LogLatency:   true,
		LogRequestID: true,
		LogValuesFunc: func(_ echo.Context, v middleware.RequestLoggerValues) error {
			log.Info("request",
				zap.String("method", v.Method),
				zap.String("uri", v.URI),
				zap.Int("status", v.Status),
				zap.Duration("latency", v.Latency),
				zap.String("request_id", v.RequestID),
			)
			return nil
		},
	}))
	srv.Register(e)

	a.echo = e
	return a, nil
}

// newStore returns the render cache store for the configured driver, or
// nil when caching is off.
func newStore(ctx context.Context, cfg *config.Config, a *app) (cache.Store, error) {
	switch cfg.Cache.Driver {
	case config.CacheMemory:
		return cache.NewMemory(), nil
	case config.CacheRedis:
		store, client, err := cache.DialRedis(ctx, cache.RedisOptions{
			URL:    cfg.Cache.RedisURL,
			Prefix: cfg.Cache.Prefix,
		})
		if err != nil {
			return nil, err
		}
		a.closers = append(a.closers, client.Close)
		return store, nil
	}
	return nil, nil
}
