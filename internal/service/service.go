// Package service implements the render endpoint contract the client talks
// to: a render call, a status call and artifact downloads, served by echo on
// top of a chrome.Renderer.
package service

import (
	"context"
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	render "github.com/alnah/go-render"
	"github.com/alnah/go-render/internal/cache"
	"github.com/alnah/go-render/internal/chrome"
	"github.com/alnah/go-render/internal/fingerprint"
)

// Default route paths, matching the client defaults.
const (
	DefaultRenderPath = "/foundation/pdf"
	DefaultStatusPath = "/foundation/pdf/status"
	ArtifactsPath     = "/artifacts"
	MetricsPath       = "/metrics"
)

// Config wires a Server.
type Config struct {
	Renderer  chrome.Renderer
	Artifacts Artifacts
	// PublicURL prefixes artifact links, e.g. "https://render.example.com".
	PublicURL string
	// Cache holds rendered bytes for requests with cache=true. Nil disables it.
	Cache    cache.Store
	CacheTTL time.Duration

	RenderPath string
	StatusPath string

	Logger *zap.Logger
	// Registry receives the service collectors and backs /metrics. Nil
	// disables both.
	Registry *prometheus.Registry
}

// Server holds the handlers.
type Server struct {
	cfg      Config
	logger   *zap.Logger
	loader   *cache.Loader
	metrics  *metrics
	validate *validator.Validate
}

// New returns a Server. Renderer and Artifacts are required.
func New(cfg Config) (*Server, error) {
	if cfg.Renderer == nil {
		return nil, errors.New("service: renderer is required")
	}
	if cfg.Artifacts == nil {
		return nil, errors.New("service: artifacts store is required")
	}
	if cfg.RenderPath == "" {
		cfg.RenderPath = DefaultRenderPath
	}
	if cfg.StatusPath == "" {
		cfg.StatusPath = DefaultStatusPath
	}
	cfg.RenderPath = "/" + strings.Trim(cfg.RenderPath, "/")
	cfg.StatusPath = "/" + strings.Trim(cfg.StatusPath, "/")
	cfg.PublicURL = strings.TrimRight(cfg.PublicURL, "/")

	s := &Server{
		cfg:      cfg,
		logger:   cfg.Logger,
		validate: validator.New(validator.WithRequiredStructEnabled()),
	}
	if s.logger == nil {
		s.logger = zap.NewNop()
	}
	if cfg.Cache != nil {
		s.loader = cache.NewLoader(cfg.Cache)
		s.loader.OnError = func(op, key string, err error) {
			s.logger.Warn("render cache error", zap.String("op", op), zap.String("key", key), zap.Error(err))
		}
	}
	if cfg.Registry != nil {
		m, err := newMetrics(cfg.Registry)
		if err != nil {
			return nil, err
		}
		s.metrics = m
	}
	return s, nil
}

// Register mounts the routes on e.
func (s *Server) Register(e *echo.Echo) {
	e.POST(s.cfg.RenderPath, s.handleRender)
	e.GET(s.cfg.StatusPath, s.handleStatus)
	e.GET(ArtifactsPath+"/:name", s.handleArtifact)
	if s.cfg.Registry != nil {
		e.GET(MetricsPath, echo.WrapHandler(promhttp.HandlerFor(s.cfg.Registry, promhttp.HandlerOpts{})))
	}
}

// Echo returns a new echo instance serving only this service.
func (s *Server) Echo() *echo.Echo {
	e := echo.New()
	e.HideBanner = true
	e.HidePort = true
	s.Register(e)
	return e
}

// renderPayload is the JSON body of a render call.
type renderPayload struct {
	URL     string         `json:"url" validate:"required,url"`
	Format  render.Format  `json:"format" validate:"required,oneof=html pdf png jpg mjml"`
	Fetch   bool           `json:"fetch"`
	Cache   bool           `json:"cache"`
	Time    *int64         `json:"time,omitempty"`
	Options render.Options `json:"options"`
}

func (p renderPayload) request() render.RenderRequest {
	return render.RenderRequest{
		URL:     p.URL,
		Format:  p.Format,
		Fetch:   p.Fetch,
		Cache:   p.Cache,
		Time:    p.Time,
		Options: p.Options,
	}
}

// identity is what makes two render calls interchangeable. The time stamp
// and the delivery mode are not part of it.
type identity struct {
	URL     string         `json:"url"`
	Format  render.Format  `json:"format"`
	Options render.Options `json:"options"`
}

func (s *Server) handleRender(c echo.Context) error {
	start := time.Now()

	var p renderPayload
	if err := c.Bind(&p); err != nil {
		return writeError(c, http.StatusBadRequest, "BadRequest", "Invalid request body: "+bindMessage(err))
	}
	if err := s.validate.Struct(&p); err != nil {
		return writeError(c, http.StatusBadRequest, "ValidationError", validationMessage(err))
	}

	req := p.request()
	ctx := c.Request().Context()
	res, hit, err := s.render(ctx, req)
	s.metrics.observe(req.Format, req.Fetch, start, err)
	if err != nil {
		s.logger.Warn("render failed",
			zap.String("format", string(req.Format)),
			zap.Bool("fetch", req.Fetch),
			zap.Error(err),
		)
		return renderFailure(c, err)
	}
	s.metrics.lookup(s.loader != nil && req.Cache, hit)

	if req.Fetch {
		return c.Blob(http.StatusOK, res.ContentType, res.Body)
	}

	name, err := s.cfg.Artifacts.Put(req.Format.Extension(), res.Body)
	if err != nil {
		s.logger.Error("storing artifact failed", zap.Error(err))
		return writeError(c, http.StatusInternalServerError, "StorageError", err.Error())
	}
	return c.JSON(http.StatusOK, map[string]string{"url": s.artifactURL(c, name)})
}

// render calls the renderer, going through the cache when the request
// allows it.
func (s *Server) render(ctx context.Context, req render.RenderRequest) (*chrome.Result, bool, error) {
	if s.loader == nil || !req.Cache {
		res, err := s.cfg.Renderer.Render(ctx, req)
		return res, false, err
	}

	key, err := fingerprint.RenderKey(string(req.Format), identity{URL: req.URL, Format: req.Format, Options: req.Options})
	if err != nil {
		return nil, false, err
	}
	// Only bytes are cached; the content type follows from the format.
	contentType := ""
	body, hit, err := s.loader.Do(ctx, key, s.cfg.CacheTTL, func(ctx context.Context) ([]byte, error) {
		res, err := s.cfg.Renderer.Render(ctx, req)
		if err != nil {
			return nil, err
		}
		contentType = res.ContentType
		return res.Body, nil
	})
	if err != nil {
		return nil, false, err
	}
	if contentType == "" {
		contentType = formatContentType(req.Format)
	}
	return &chrome.Result{Body: body, ContentType: contentType}, hit, nil
}

func (s *Server) artifactURL(c echo.Context, name string) string {
	base := s.cfg.PublicURL
	if base == "" {
		base = c.Scheme() + "://" + c.Request().Host
	}
	return base + ArtifactsPath + "/" + name
}

func (s *Server) handleStatus(c echo.Context) error {
	version, err := s.cfg.Renderer.Version(c.Request().Context())
	if err != nil {
		s.logger.Warn("browser version unavailable", zap.Error(err))
		return writeError(c, http.StatusServiceUnavailable, "BrowserError", err.Error())
	}
	return c.JSON(http.StatusOK, map[string]string{"chromium": version})
}

func (s *Server) handleArtifact(c echo.Context) error {
	body, contentType, err := s.cfg.Artifacts.Get(c.Param("name"))
	if errors.Is(err, ErrArtifactNotFound) {
		return writeError(c, http.StatusNotFound, "NotFound", "artifact not found")
	}
	if err != nil {
		return writeError(c, http.StatusInternalServerError, "StorageError", err.Error())
	}
	return c.Blob(http.StatusOK, contentType, body)
}

func formatContentType(f render.Format) string {
	if f == render.FormatHTML || f == render.FormatMJML {
		return "text/html; charset=utf-8"
	}
	return contentTypeFor(f.Extension())
}
