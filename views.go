package render

import (
	"context"
	"errors"
	"fmt"

	"go.uber.org/zap"

	"github.com/alnah/go-render/internal/tmplcache"
	"github.com/alnah/go-render/internal/views"
)

// initViews builds the view engine and MJML template cache when a views
// directory is configured.
func (c *Client) initViews() error {
	if c.viewsDir == "" {
		return nil
	}
	finder, err := views.NewFinder(c.viewsDir)
	if err != nil {
		return err
	}
	engine, err := views.NewEngine(finder)
	if err != nil {
		return err
	}
	c.views = engine
	c.mjml = tmplcache.New(c.store, tmplcache.CompilerFunc(c.compileMJML), engine,
		tmplcache.WithTracer(c.tracer))
	c.mjml.OnStoreError(c.logStoreError)
	return nil
}

// compileMJML turns MJML source into HTML through the render service.
func (c *Client) compileMJML(ctx context.Context, source []byte) ([]byte, error) {
	return c.FromHTML(FormatMJML, string(source)).Blob(ctx)
}

// RenderView evaluates a view and returns its markup.
func (c *Client) RenderView(name string, vars map[string]any) (string, error) {
	if c.views == nil {
		return "", ErrNoViews
	}
	out, err := c.views.Render(name, vars)
	if err != nil {
		return "", err
	}
	return string(out), nil
}

// FromView renders the named view and creates a renderer for its markup.
func (c *Client) FromView(ctx context.Context, format Format, name string, vars map[string]any) (*Renderer, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	markup, err := c.RenderView(name, vars)
	if err != nil {
		return nil, err
	}
	return c.FromHTML(format, markup), nil
}

// FromMJMLView renders an MJML view. Files with an MJML extension are
// compiled once per content hash and evaluated locally, and the result is
// served without another remote call. Otherwise the generic view is
// rendered and sent to the service as MJML.
func (c *Client) FromMJMLView(ctx context.Context, name string, vars map[string]any) (*Renderer, error) {
	if c.views == nil {
		return nil, ErrNoViews
	}

	path, err := c.views.Finder().Find(name, views.MJMLExtensions)
	switch {
	case err == nil:
		out, err := c.mjml.Render(ctx, path, vars)
		if err != nil {
			return nil, err
		}
		r := newRenderer(c, FormatMJML, "")
		r.blob = out
		return r, nil
	case errors.Is(err, views.ErrViewNotFound):
		c.logger.Debug("no mjml view, using generic view", zap.String("view", name))
		return c.FromView(ctx, FormatMJML, name, vars)
	default:
		return nil, err
	}
}

// HeaderTemplateView renders a view into the PDF print header.
// A view error is recorded on the renderer and returned by its outputs.
func (r *Renderer) HeaderTemplateView(name string, vars map[string]any) *Renderer {
	markup, ok := r.templateView(name, vars)
	if !ok {
		return r
	}
	return r.HeaderTemplate(markup)
}

// FooterTemplateView renders a view into the PDF print footer.
func (r *Renderer) FooterTemplateView(name string, vars map[string]any) *Renderer {
	markup, ok := r.templateView(name, vars)
	if !ok {
		return r
	}
	return r.FooterTemplate(markup)
}

func (r *Renderer) templateView(name string, vars map[string]any) (string, bool) {
	if r.err != nil || !r.variant.applies("headerTemplate") {
		return "", false
	}
	markup, err := r.client.RenderView(name, vars)
	if err != nil {
		r.err = fmt.Errorf("header/footer view %q: %w", name, err)
		return "", false
	}
	return markup, true
}
