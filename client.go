package render

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"
	"golang.org/x/time/rate"

	"github.com/alnah/go-render/internal/cache"
	"github.com/alnah/go-render/internal/fileutil"
	"github.com/alnah/go-render/internal/tmplcache"
	"github.com/alnah/go-render/internal/views"
)

// Default endpoint paths relative to the base URL.
const (
	DefaultRenderPath = "foundation/pdf"
	DefaultStatusPath = "foundation/pdf/status"
)

// Client talks to the remote render service and builds renderers.
// A Client is safe for concurrent use.
type Client struct {
	baseURL    *url.URL
	renderPath string
	statusPath string
	user       string
	password   string
	httpClient *http.Client
	logger     *zap.Logger
	now        func() time.Time
	appURL     string
	creator    string
	producer   string

	store  cache.Store
	loader *cache.Loader

	viewsDir string
	views    *views.Engine
	mjml     *tmplcache.Cache

	limiter    *rate.Limiter
	registerer prometheus.Registerer
	metrics    *metrics
	tracer     trace.Tracer
}

// Option configures a Client.
type Option func(*Client)

// WithHTTPClient sets the HTTP client used for remote calls.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) {
		if hc != nil {
			c.httpClient = hc
		}
	}
}

// WithTimeout sets the HTTP client timeout. Zero means no timeout.
func WithTimeout(d time.Duration) Option {
	return func(c *Client) {
		clone := *c.httpClient
		clone.Timeout = d
		c.httpClient = &clone
	}
}

// WithBasicAuth sets the credentials sent with every call.
func WithBasicAuth(user, password string) Option {
	return func(c *Client) {
		c.user = user
		c.password = password
	}
}

// WithLogger sets the logger. The default discards everything.
func WithLogger(logger *zap.Logger) Option {
	return func(c *Client) {
		if logger != nil {
			c.logger = logger
		}
	}
}

// WithCache enables result caching of reference renders in store.
func WithCache(store CacheStore) Option {
	return func(c *Client) {
		c.store = store
	}
}

// WithClock sets the time source used for request stamps and PDF dates.
func WithClock(now func() time.Time) Option {
	return func(c *Client) {
		if now != nil {
			c.now = now
		}
	}
}

// WithAppURL sets the base that relative render targets resolve against.
func WithAppURL(appURL string) Option {
	return func(c *Client) {
		c.appURL = appURL
	}
}

// WithViews enables FromView and FromMJMLView with views under dir.
func WithViews(dir string) Option {
	return func(c *Client) {
		c.viewsDir = dir
	}
}

// WithRateLimit throttles outbound render calls. Calls wait for a token or
// until their context ends.
func WithRateLimit(limit rate.Limit, burst int) Option {
	return func(c *Client) {
		c.limiter = rate.NewLimiter(limit, burst)
	}
}

// WithMetrics registers render metrics with reg.
func WithMetrics(reg prometheus.Registerer) Option {
	return func(c *Client) {
		c.registerer = reg
	}
}

// WithTracer sets the tracer for remote call spans.
func WithTracer(tracer trace.Tracer) Option {
	return func(c *Client) {
		if tracer != nil {
			c.tracer = tracer
		}
	}
}

// WithCreator sets the default Creator tag of PDF renders.
func WithCreator(creator string) Option {
	return func(c *Client) {
		c.creator = creator
	}
}

// WithProducer overrides the default Producer tag of PDF renders.
func WithProducer(producer string) Option {
	return func(c *Client) {
		c.producer = producer
	}
}

// WithRenderPath overrides the render endpoint path.
func WithRenderPath(path string) Option {
	return func(c *Client) {
		if path != "" {
			c.renderPath = path
		}
	}
}

// WithStatusPath overrides the status endpoint path.
func WithStatusPath(path string) Option {
	return func(c *Client) {
		if path != "" {
			c.statusPath = path
		}
	}
}

// NewClient creates a Client for the render service at baseURL.
func NewClient(baseURL string, opts ...Option) (*Client, error) {
	u, err := url.Parse(strings.TrimSpace(baseURL))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidBaseURL, err)
	}
	if u.Scheme != "http" && u.Scheme != "https" || u.Host == "" {
		return nil, fmt.Errorf("%w: %q", ErrInvalidBaseURL, baseURL)
	}

	c := &Client{
		baseURL:    u,
		renderPath: DefaultRenderPath,
		statusPath: DefaultStatusPath,
		httpClient: &http.Client{},
		logger:     zap.NewNop(),
		now:        time.Now,
		producer:   producer(),
		tracer:     otel.Tracer("github.com/alnah/go-render"),
	}

	for _, opt := range opts {
		opt(c)
	}

	if c.store != nil {
		c.loader = cache.NewLoader(c.store)
		c.loader.OnError = c.logStoreError
	}

	if c.registerer != nil {
		m, err := newMetrics(c.registerer)
		if err != nil {
			return nil, err
		}
		c.metrics = m
	}

	if err := c.initViews(); err != nil {
		return nil, err
	}

	return c, nil
}

func (c *Client) logStoreError(op, key string, err error) {
	c.logger.Warn("render cache store failed",
		zap.String("op", op),
		zap.String("key", key),
		zap.Error(err),
	)
}

// FromURL creates a renderer for target. Relative targets resolve against
// the app URL; http, https, data and about URLs pass through.
func (c *Client) FromURL(format Format, target string) *Renderer {
	return newRenderer(c, format, fileutil.ResolveURL(c.appURL, target))
}

// FromHTML creates a renderer for inline markup, sent as a data URI.
func (c *Client) FromHTML(format Format, markup string) *Renderer {
	prefix := htmlDataURIPrefix
	if v, ok := variants[format]; ok {
		prefix = v.dataURIPrefix
	}
	return newRenderer(c, format, fileutil.DataURI(prefix, []byte(markup)))
}

// endpoint joins path to the base URL.
func (c *Client) endpoint(path string) string {
	u := *c.baseURL
	u.Path = strings.TrimRight(u.Path, "/") + "/" + strings.TrimLeft(path, "/")
	return u.String()
}

// Ping checks that the render service answers its status endpoint.
func (c *Client) Ping(ctx context.Context) error {
	_, err := c.Version(ctx)
	return err
}
