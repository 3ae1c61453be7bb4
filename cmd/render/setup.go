package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"go.uber.org/zap"
	"golang.org/x/time/rate"

	render "github.com/alnah/go-render"
	"github.com/alnah/go-render/internal/config"
	"github.com/alnah/go-render/internal/logger"
)

// defaultConfigName is looked up when --config is not given.
const defaultConfigName = "render"

// loadConfig reads the dotenv file, then the config file, then applies
// command line overrides. Without --config, a "render" config in the
// standard locations is used when present.
func loadConfig(f *commonFlags) (*config.Config, error) {
	if err := config.LoadDotEnv(f.envFile); err != nil {
		return nil, err
	}

	var cfg *config.Config
	var err error
	switch {
	case f.config != "":
		cfg, err = config.LoadConfig(f.config)
	default:
		cfg, err = config.LoadConfig(defaultConfigName)
		if err != nil && isNotFound(err) {
			cfg, err = config.FromEnv()
		}
	}
	if err != nil {
		return nil, err
	}

	if f.service != "" {
		cfg.Service.BaseURL = f.service
	}
	if f.verbose {
		cfg.Log.Level = "debug"
	}
	if f.quiet {
		cfg.Log.Level = "error"
	}
	return cfg, cfg.Validate()
}

func isNotFound(err error) bool {
	return errors.Is(err, config.ErrConfigNotFound)
}

// configSearchPaths lists where a config named "render" is looked up.
func configSearchPaths() []string {
	paths := []string{defaultConfigName + ".yaml", defaultConfigName + ".yml"}
	if dir, err := os.UserConfigDir(); err == nil {
		paths = append(paths,
			filepath.Join(dir, "go-render", defaultConfigName+".yaml"),
			filepath.Join(dir, "go-render", defaultConfigName+".yml"),
		)
	}
	return paths
}

// newLogger builds the zap logger described by cfg, writing to stderr.
func newLogger(cfg *config.Config, env *Environment) (*zap.Logger, error) {
	return logger.New(logger.Config{
		Level:       cfg.Log.Level,
		Encoding:    cfg.Log.Encoding,
		Development: cfg.Log.Development,
	}, env.Stderr)
}

// newClient builds a render client from cfg. The returned close function
// releases the cache connection.
func newClient(ctx context.Context, cfg *config.Config, log *zap.Logger, env *Environment) (*render.Client, func(), error) {
	opts := []render.Option{
		render.WithLogger(log),
		render.WithClock(env.Now),
		render.WithRenderPath(cfg.Service.RenderPath),
		render.WithStatusPath(cfg.Service.StatusPath),
	}
	if cfg.Service.Timeout > 0 {
		opts = append(opts, render.WithTimeout(cfg.Service.Timeout))
	}
	if cfg.Service.User != "" {
		opts = append(opts, render.WithBasicAuth(cfg.Service.User, cfg.Service.Password))
	}
	if cfg.Service.RateLimit > 0 {
		opts = append(opts, render.WithRateLimit(rate.Limit(cfg.Service.RateLimit), max(1, cfg.Service.Burst)))
	}
	if cfg.App.URL != "" {
		opts = append(opts, render.WithAppURL(cfg.App.URL))
	}
	if cfg.App.ViewsDir != "" {
		opts = append(opts, render.WithViews(cfg.App.ViewsDir))
	}
	if cfg.PDF.Creator != "" {
		opts = append(opts, render.WithCreator(cfg.PDF.Creator))
	}

	closeFn := func() {}
	switch cfg.Cache.Driver {
	case config.CacheMemory:
		opts = append(opts, render.WithCache(render.NewMemoryCache()))
	case config.CacheRedis:
		store, closeStore, err := render.DialRedisCache(ctx, cfg.Cache.RedisURL, cfg.Cache.Prefix)
		if err != nil {
			return nil, nil, err
		}
		opts = append(opts, render.WithCache(store))
		closeFn = func() {
			if err := closeStore(); err != nil {
				log.Warn("closing redis", zap.Error(err))
			}
		}
	}

	client, err := render.NewClient(cfg.Service.BaseURL, opts...)
	if err != nil {
		closeFn()
		return nil, nil, fmt.Errorf("creating client: %w", err)
	}
	return client, closeFn, nil
}
