// Package chrome renders pages with a headless Chromium driven by go-rod.
// It backs the reference render service.
package chrome

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"runtime"
	"strings"
	"sync"
	"time"

	"github.com/go-rod/rod"
	"github.com/go-rod/rod/lib/launcher"
	"github.com/go-rod/rod/lib/proto"
	"go.uber.org/zap"
	"golang.org/x/sync/semaphore"

	render "github.com/alnah/go-render"
	"github.com/alnah/go-render/internal/hints"
)

// Pool sizing bounds.
const (
	MinWorkers = 1
	// MaxWorkers caps concurrent pages; each costs tens of megabytes.
	MaxWorkers = 8

	cpuDivisor = 2
)

// DefaultTimeout bounds a render whose request carries no timeout.
const DefaultTimeout = 60 * time.Second

// Renderer turns render requests into bytes.
type Renderer interface {
	Render(ctx context.Context, req render.RenderRequest) (*Result, error)
	Version(ctx context.Context) (string, error)
	Close() error
}

// Result is a rendered artifact.
type Result struct {
	Body        []byte
	ContentType string
}

// Config configures a Browser.
type Config struct {
	// BrowserBin is a Chromium binary; empty lets rod find or download one.
	BrowserBin string
	NoSandbox  bool
	Timeout    time.Duration
	// Workers bounds concurrently open pages. Zero resolves from GOMAXPROCS.
	Workers int
	Logger  *zap.Logger
}

var _ Renderer = (*Browser)(nil)

// Browser is a lazily launched Chromium shared by all renders.
type Browser struct {
	cfg    Config
	logger *zap.Logger
	sem    *semaphore.Weighted

	mu       sync.Mutex
	browser  *rod.Browser
	launcher *launcher.Launcher
	closed   bool
}

// New returns a Browser. Chromium starts on the first render.
func New(cfg Config) *Browser {
	if cfg.Timeout <= 0 {
		cfg.Timeout = DefaultTimeout
	}
	cfg.Workers = ResolveWorkers(cfg.Workers)
	logger := cfg.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Browser{
		cfg:    cfg,
		logger: logger,
		sem:    semaphore.NewWeighted(int64(cfg.Workers)),
	}
}

// ResolveWorkers returns n clamped to [MinWorkers, MaxWorkers], or half of
// GOMAXPROCS when n is not positive.
func ResolveWorkers(n int) int {
	if n <= 0 {
		n = runtime.GOMAXPROCS(0) / cpuDivisor
	}
	return max(MinWorkers, min(MaxWorkers, n))
}

// ensureBrowser launches and connects Chromium once.
func (b *Browser) ensureBrowser() (*rod.Browser, error) {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.closed {
		return nil, ErrClosed
	}
	if b.browser != nil {
		return b.browser, nil
	}

	l := launcher.New().Headless(true)
	bin := b.cfg.BrowserBin
	if bin == "" {
		bin = os.Getenv("ROD_BROWSER_BIN")
	}
	if bin != "" {
		l = l.Bin(bin)
	}
	// Containers and CI rarely allow the sandbox.
	if b.cfg.NoSandbox || bin != "" || os.Getenv("CI") == "true" || os.Getenv("ROD_NO_SANDBOX") == "1" {
		l = l.NoSandbox(true)
	}
	u, err := l.Launch()
	if err != nil {
		b.logger.Error("browser launch failed", zap.Error(err))
		return nil, fmt.Errorf("%w: %v%s", ErrBrowserConnect, err, hints.ForBrowserConnect())
	}

	browser := rod.New().ControlURL(u)
	if err := browser.Connect(); err != nil {
		l.Kill()
		return nil, fmt.Errorf("%w: %v", ErrBrowserConnect, err)
	}
	b.browser = browser
	b.launcher = l
	b.logger.Info("browser started", zap.Int("pid", l.PID()), zap.Int("workers", b.cfg.Workers))
	return browser, nil
}

// Close shuts Chromium down and kills what is left of its process group.
// Renders after Close fail with ErrClosed.
func (b *Browser) Close() error {
	b.mu.Lock()
	defer b.mu.Unlock()

	b.closed = true
	if b.browser == nil {
		return nil
	}
	err := b.browser.Close()
	killProcessGroup(b.launcher.PID())
	b.launcher.Kill()
	b.browser = nil
	b.launcher = nil
	return err
}

// Version returns the Chromium version, e.g. "120.0.6099.109".
func (b *Browser) Version(ctx context.Context) (string, error) {
	browser, err := b.ensureBrowser()
	if err != nil {
		return "", err
	}
	res, err := proto.BrowserGetVersion{}.Call(browser.Context(ctx))
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrBrowserConnect, err)
	}
	return productVersion(res.Product), nil
}

// productVersion strips the product name from "HeadlessChrome/120.0.0.0".
func productVersion(product string) string {
	if _, v, ok := strings.Cut(product, "/"); ok {
		return v
	}
	return product
}

// Render loads req.URL in a fresh page and captures it in req.Format.
func (b *Browser) Render(ctx context.Context, req render.RenderRequest) (*Result, error) {
	contentType, ok := contentTypes[req.Format]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnsupportedFormat, req.Format)
	}
	if req.URL == "" {
		return nil, fmt.Errorf("%w: empty url", ErrInvalidOption)
	}

	timeout := b.cfg.Timeout
	if t := req.Options.Timeout; t != nil && *t > 0 {
		timeout = time.Duration(*t) * time.Millisecond
	}
	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	if err := b.sem.Acquire(ctx, 1); err != nil {
		return nil, err
	}
	defer b.sem.Release(1)

	browser, err := b.ensureBrowser()
	if err != nil {
		return nil, err
	}

	page, err := browser.Page(proto.TargetCreateTarget{})
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrPageCreate, err)
	}
	defer func() { _ = page.Close() }()
	page = page.Context(ctx)

	start := time.Now()
	body, err := b.capture(page, req)
	if err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return nil, fmt.Errorf("%w: %v", ErrRender, ctxErr)
		}
		return nil, err
	}
	b.logger.Debug("page rendered",
		zap.String("url", truncate(req.URL, 120)),
		zap.String("format", string(req.Format)),
		zap.Int("bytes", len(body)),
		zap.Duration("elapsed", time.Since(start)),
	)
	return &Result{Body: body, ContentType: contentType}, nil
}

var contentTypes = map[render.Format]string{
	render.FormatHTML: "text/html; charset=utf-8",
	render.FormatPDF:  "application/pdf",
	render.FormatPNG:  "image/png",
	render.FormatJPG:  "image/jpeg",
}

func (b *Browser) capture(page *rod.Page, req render.RenderRequest) ([]byte, error) {
	o := req.Options

	if err := page.SetViewport(viewport(req.Format, o)); err != nil {
		return nil, fmt.Errorf("%w: viewport: %v", ErrRender, err)
	}
	if media := stringValue(o.EmulatedMedia); media != "" {
		if err := (proto.EmulationSetEmulatedMedia{Media: media}).Call(page); err != nil {
			return nil, fmt.Errorf("%w: emulated media: %v", ErrRender, err)
		}
	}
	if req.Format == render.FormatPNG && boolValue(o.OmitBackground) {
		transparent := proto.EmulationSetDefaultBackgroundColorOverride{
			Color: &proto.DOMRGBA{A: floatPtr(0)},
		}
		if err := transparent.Call(page); err != nil {
			return nil, fmt.Errorf("%w: background: %v", ErrRender, err)
		}
	}

	if err := navigate(page, req.URL, waitEvent(o.WaitUntil)); err != nil {
		return nil, err
	}

	switch req.Format {
	case render.FormatHTML:
		markup, err := page.HTML()
		if err != nil {
			return nil, fmt.Errorf("%w: %v", ErrRender, err)
		}
		return []byte(markup), nil

	case render.FormatPDF:
		params, err := printParams(o)
		if err != nil {
			return nil, err
		}
		stream, err := page.PDF(params)
		if err != nil {
			return nil, fmt.Errorf("%w: print: %v", ErrRender, err)
		}
		pdf, err := io.ReadAll(stream)
		if err != nil {
			return nil, fmt.Errorf("%w: reading PDF stream: %v", ErrRender, err)
		}
		return pdf, nil
	}

	shot := screenshotParams(req.Format, o)
	if sel := stringValue(o.Selector); sel != "" {
		el, err := page.Element(sel)
		if err != nil {
			return nil, fmt.Errorf("%w: selector %q: %v", ErrRender, sel, err)
		}
		quality := 0
		if shot.Quality != nil {
			quality = *shot.Quality
		}
		img, err := el.Screenshot(shot.Format, quality)
		if err != nil {
			return nil, fmt.Errorf("%w: screenshot: %v", ErrRender, err)
		}
		return img, nil
	}
	img, err := page.Screenshot(boolValue(o.FullPage), shot)
	if err != nil {
		return nil, fmt.Errorf("%w: screenshot: %v", ErrRender, err)
	}
	return img, nil
}

// navigate loads url and waits for event. Chromium network failures keep
// their net::ERR_* reason in the error text.
func navigate(page *rod.Page, url string, event proto.PageLifecycleEventName) error {
	wait := page.WaitNavigation(event)
	if err := page.Navigate(url); err != nil {
		var nav *rod.NavigationError
		if errors.As(err, &nav) {
			return &NavigationError{Reason: nav.Reason, URL: truncate(url, 120)}
		}
		return fmt.Errorf("%w: %v", ErrNavigation, err)
	}
	wait()
	return nil
}

// truncate keeps data URIs out of logs and error messages.
func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n] + "..."
}
