// Package config loads the settings shared by the render CLI and the
// reference render service.
//
// Sources are applied in order: Default, the YAML file (with ${VAR}
// expansion), a .env file, RENDER_* environment variables, then struct
// validation.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"reflect"
	"strconv"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"

	"github.com/alnah/go-render/internal/yamlutil"
)

// Sentinel errors for config operations.
var (
	ErrConfigNotFound  = errors.New("config file not found")
	ErrEmptyConfigName = errors.New("config name cannot be empty")
	ErrConfigParse     = errors.New("failed to parse config")
	ErrConfigEnv       = errors.New("invalid environment override")
	ErrConfigInvalid   = errors.New("invalid config")
)

// EnvPrefix prefixes every environment override.
const EnvPrefix = "RENDER_"

// Cache drivers.
const (
	CacheMemory = "memory"
	CacheRedis  = "redis"
	CacheNone   = "none"
)

// Config holds all settings.
type Config struct {
	Service ServiceConfig `yaml:"service"`
	App     AppConfig     `yaml:"app"`
	Cache   CacheConfig   `yaml:"cache"`
	PDF     PDFConfig     `yaml:"pdf"`
	SSR     SSRConfig     `yaml:"ssr"`
	Log     LogConfig     `yaml:"log"`
	Server  ServerConfig  `yaml:"server"`
}

// ServiceConfig locates the remote render service.
type ServiceConfig struct {
	BaseURL    string        `yaml:"baseURL" validate:"required,url"`
	User       string        `yaml:"user"`
	Password   string        `yaml:"password"`
	Timeout    time.Duration `yaml:"timeout" validate:"gte=0"`
	RenderPath string        `yaml:"renderPath"`
	StatusPath string        `yaml:"statusPath"`
	RateLimit  float64       `yaml:"rateLimit" validate:"gte=0"` // calls per second, 0 = unlimited
	Burst      int           `yaml:"burst" validate:"gte=0"`
}

// AppConfig describes the application whose pages are rendered.
type AppConfig struct {
	URL      string `yaml:"url" validate:"omitempty,url"` // base for relative targets
	ViewsDir string `yaml:"viewsDir"`
}

// CacheConfig selects the render cache store.
type CacheConfig struct {
	Driver   string `yaml:"driver" validate:"oneof=memory redis none"`
	RedisURL string `yaml:"redisURL" validate:"required_if=Driver redis"`
	Prefix   string `yaml:"prefix" validate:"max=64"`
}

// PDFConfig holds PDF document defaults.
type PDFConfig struct {
	Creator string `yaml:"creator" validate:"max=200"`
}

// SSRConfig tunes the server-side render middleware.
type SSRConfig struct {
	TTL     time.Duration `yaml:"ttl" validate:"gte=0"` // 0 = forever
	Headers bool          `yaml:"headers"`
	Params  bool          `yaml:"params"`
}

// LogConfig configures the zap logger.
type LogConfig struct {
	Level       string `yaml:"level" validate:"oneof=debug info warn error"`
	Encoding    string `yaml:"encoding" validate:"oneof=json console"`
	Development bool   `yaml:"development"`
}

// ServerConfig configures the HTTP servers.
type ServerConfig struct {
	Addr         string        `yaml:"addr" validate:"required,hostname_port"`
	PublicURL    string        `yaml:"publicURL" validate:"omitempty,url"`
	ArtifactsDir string        `yaml:"artifactsDir"`
	BrowserBin   string        `yaml:"browserBin"`
	Workers      int           `yaml:"workers" validate:"gte=1,lte=32"`
	RenderTTL    time.Duration `yaml:"renderTimeout" validate:"gte=0"`
	CacheTTL     time.Duration `yaml:"cacheTTL" validate:"gte=0"`
}

// Default returns the built-in configuration.
func Default() *Config {
	return &Config{
		Service: ServiceConfig{
			BaseURL:    "http://localhost:8080",
			Timeout:    90 * time.Second,
			RenderPath: "foundation/pdf",
			StatusPath: "foundation/pdf/status",
		},
		Cache: CacheConfig{Driver: CacheMemory, Prefix: "go-render:"},
		SSR:   SSRConfig{Params: true},
		Log:   LogConfig{Level: "info", Encoding: "json"},
		Server: ServerConfig{
			Addr:      "localhost:8080",
			Workers:   2,
			RenderTTL: 60 * time.Second,
			CacheTTL:  10 * time.Minute,
		},
	}
}

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		name, _, _ := strings.Cut(f.Tag.Get("yaml"), ",")
		if name == "-" {
			return ""
		}
		return name
	})
	return v
}

// Validate checks every section against its constraints.
func (c *Config) Validate() error {
	err := validate.Struct(c)
	if err == nil {
		return nil
	}
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return fmt.Errorf("%w: %v", ErrConfigInvalid, err)
	}
	msgs := make([]string, len(verrs))
	for i, fe := range verrs {
		field := fe.Namespace()
		if _, rest, ok := strings.Cut(field, "."); ok {
			field = rest
		}
		msgs[i] = describe(field, fe)
	}
	return fmt.Errorf("%w: %s", ErrConfigInvalid, strings.Join(msgs, "; "))
}

func describe(field string, fe validator.FieldError) string {
	switch fe.Tag() {
	case "required", "required_if":
		return field + " is required"
	case "oneof":
		return fmt.Sprintf("%s must be one of [%s], got %q", field, fe.Param(), fe.Value())
	case "url":
		return fmt.Sprintf("%s must be a URL, got %q", field, fe.Value())
	case "hostname_port":
		return fmt.Sprintf("%s must be host:port, got %q", field, fe.Value())
	default:
		return fmt.Sprintf("%s fails %s=%s", field, fe.Tag(), fe.Param())
	}
}

// LoadConfig loads configuration from a file path or config name, on top
// of Default, then applies environment overrides and validates.
// If nameOrPath contains a path separator, it's treated as a file path.
// Otherwise, it's searched in standard locations.
func LoadConfig(nameOrPath string) (*Config, error) {
	if nameOrPath == "" {
		return nil, ErrEmptyConfigName
	}

	configPath := nameOrPath
	if !isFilePath(nameOrPath) {
		var err error
		if configPath, err = resolveConfigPath(nameOrPath); err != nil {
			return nil, err
		}
	}

	data, err := os.ReadFile(configPath) // #nosec G304 -- config path is user-provided
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("%w: %s", ErrConfigNotFound, configPath)
		}
		return nil, fmt.Errorf("reading config file: %w", err)
	}

	cfg := Default()
	if err := yamlutil.UnmarshalStrict(yamlutil.ExpandEnv(data, os.LookupEnv), cfg); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrConfigParse, err)
	}
	return finish(cfg)
}

// FromEnv returns Default with environment overrides applied.
func FromEnv() (*Config, error) {
	return finish(Default())
}

func finish(cfg *Config) (*Config, error) {
	if err := cfg.ApplyEnv(os.LookupEnv); err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// LoadDotEnv loads KEY=value pairs from the given files into the process
// environment without overriding variables already set. Missing files are
// skipped. With no paths it reads ./.env.
func LoadDotEnv(paths ...string) error {
	if len(paths) == 0 {
		paths = []string{".env"}
	}
	for _, p := range paths {
		if !fileExists(p) {
			continue
		}
		if err := godotenv.Load(p); err != nil {
			return fmt.Errorf("%w: %s: %v", ErrConfigParse, p, err)
		}
	}
	return nil
}

// envBinding maps one RENDER_* variable onto a field.
type envBinding struct {
	name  string
	apply func(c *Config, v string) error
}

func str(ref func(c *Config) *string) func(*Config, string) error {
	return func(c *Config, v string) error {
		*ref(c) = v
		return nil
	}
}

func dur(ref func(c *Config) *time.Duration) func(*Config, string) error {
	return func(c *Config, v string) error {
		d, err := time.ParseDuration(v)
		if err != nil {
			return err
		}
		*ref(c) = d
		return nil
	}
}

func boolean(ref func(c *Config) *bool) func(*Config, string) error {
	return func(c *Config, v string) error {
		b, err := strconv.ParseBool(v)
		if err != nil {
			return err
		}
		*ref(c) = b
		return nil
	}
}

func integer(ref func(c *Config) *int) func(*Config, string) error {
	return func(c *Config, v string) error {
		n, err := strconv.Atoi(v)
		if err != nil {
			return err
		}
		*ref(c) = n
		return nil
	}
}

func float(ref func(c *Config) *float64) func(*Config, string) error {
	return func(c *Config, v string) error {
		f, err := strconv.ParseFloat(v, 64)
		if err != nil {
			return err
		}
		*ref(c) = f
		return nil
	}
}

var envBindings = []envBinding{
	{"BASE_URL", str(func(c *Config) *string { return &c.Service.BaseURL })},
	{"USER", str(func(c *Config) *string { return &c.Service.User })},
	{"PASSWORD", str(func(c *Config) *string { return &c.Service.Password })},
	{"TIMEOUT", dur(func(c *Config) *time.Duration { return &c.Service.Timeout })},
	{"RATE_LIMIT", float(func(c *Config) *float64 { return &c.Service.RateLimit })},
	{"BURST", integer(func(c *Config) *int { return &c.Service.Burst })},
	{"APP_URL", str(func(c *Config) *string { return &c.App.URL })},
	{"VIEWS_DIR", str(func(c *Config) *string { return &c.App.ViewsDir })},
	{"CACHE_DRIVER", str(func(c *Config) *string { return &c.Cache.Driver })},
	{"REDIS_URL", str(func(c *Config) *string { return &c.Cache.RedisURL })},
	{"CACHE_PREFIX", str(func(c *Config) *string { return &c.Cache.Prefix })},
	{"PDF_CREATOR", str(func(c *Config) *string { return &c.PDF.Creator })},
	{"SSR_TTL", dur(func(c *Config) *time.Duration { return &c.SSR.TTL })},
	{"SSR_HEADERS", boolean(func(c *Config) *bool { return &c.SSR.Headers })},
	{"SSR_PARAMS", boolean(func(c *Config) *bool { return &c.SSR.Params })},
	{"LOG_LEVEL", str(func(c *Config) *string { return &c.Log.Level })},
	{"LOG_ENCODING", str(func(c *Config) *string { return &c.Log.Encoding })},
	{"LOG_DEVELOPMENT", boolean(func(c *Config) *bool { return &c.Log.Development })},
	{"ADDR", str(func(c *Config) *string { return &c.Server.Addr })},
	{"PUBLIC_URL", str(func(c *Config) *string { return &c.Server.PublicURL })},
	{"ARTIFACTS_DIR", str(func(c *Config) *string { return &c.Server.ArtifactsDir })},
	{"BROWSER_BIN", str(func(c *Config) *string { return &c.Server.BrowserBin })},
	{"WORKERS", integer(func(c *Config) *int { return &c.Server.Workers })},
	{"PAGE_TIMEOUT", dur(func(c *Config) *time.Duration { return &c.Server.RenderTTL })},
	{"CACHE_TTL", dur(func(c *Config) *time.Duration { return &c.Server.CacheTTL })},
}

// EnvNames returns the supported environment variable names.
func EnvNames() []string {
	names := make([]string, len(envBindings))
	for i, b := range envBindings {
		names[i] = EnvPrefix + b.name
	}
	return names
}

// ApplyEnv overrides fields from RENDER_* variables found by lookup.
// Empty values are ignored.
func (c *Config) ApplyEnv(lookup func(string) (string, bool)) error {
	for _, b := range envBindings {
		v, ok := lookup(EnvPrefix + b.name)
		if !ok || v == "" {
			continue
		}
		if err := b.apply(c, v); err != nil {
			return fmt.Errorf("%w: %s%s=%q: %v", ErrConfigEnv, EnvPrefix, b.name, v, err)
		}
	}
	return nil
}

// isFilePath returns true if the string looks like a file path.
func isFilePath(s string) bool {
	return strings.ContainsAny(s, "/\\")
}

// resolveConfigPath searches for a config file by name in standard locations.
// Tries extensions in order: .yaml, .yml
// Tries locations in order: current directory, <user config dir>/go-render/
func resolveConfigPath(name string) (string, error) {
	extensions := []string{".yaml", ".yml"}
	triedPaths := make([]string, 0, len(extensions)*2)

	for _, ext := range extensions {
		localPath := name + ext
		if fileExists(localPath) {
			return localPath, nil
		}
		triedPaths = append(triedPaths, localPath)
	}

	if userConfigDir, err := os.UserConfigDir(); err == nil {
		for _, ext := range extensions {
			userPath := filepath.Join(userConfigDir, "go-render", name+ext)
			if fileExists(userPath) {
				return userPath, nil
			}
			triedPaths = append(triedPaths, userPath)
		}
	}

	return "", fmt.Errorf("%w: tried %s", ErrConfigNotFound, strings.Join(triedPaths, ", "))
}

// fileExists returns true if the path exists and is a regular file.
func fileExists(path string) bool {
	info, err := os.Stat(path)
	if err != nil {
		return false
	}
	return !info.IsDir()
}
