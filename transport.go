package render

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime"
	"net/http"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"

	"github.com/alnah/go-render/internal/cache"
	"github.com/alnah/go-render/internal/fileutil"
	"github.com/alnah/go-render/internal/fingerprint"
)

// maxResponseBytes bounds how much of a response body is read.
const maxResponseBytes = 256 << 20

// RenderRequest is the body of a render call.
type RenderRequest struct {
	URL     string  `json:"url"`
	Format  Format  `json:"format"`
	Fetch   bool    `json:"fetch"`
	Cache   bool    `json:"cache"`
	Time    *int64  `json:"time,omitempty"`
	Options Options `json:"options"`
}

// cacheIdentity is the part of a request that identifies its result.
type cacheIdentity struct {
	URL     string  `json:"url"`
	Format  Format  `json:"format"`
	Cache   bool    `json:"cache"`
	Options Options `json:"options"`
}

// Request returns the render request as it would be sent in the given mode,
// without the time stamp.
func (r *Renderer) Request(fetch bool) RenderRequest {
	return RenderRequest{
		URL:     r.url,
		Format:  r.Format(),
		Fetch:   fetch,
		Cache:   r.cache,
		Options: r.options.Clone(),
	}
}

// CacheKey returns the render cache key of the renderer's current state.
func (r *Renderer) CacheKey() (string, error) {
	if r.err != nil {
		return "", r.err
	}
	return fingerprint.RenderKey(string(r.Format()), cacheIdentity{
		URL:     r.url,
		Format:  r.Format(),
		Cache:   r.cache,
		Options: r.options,
	})
}

// link renders in reference mode and returns the artifact URL.
func (c *Client) link(ctx context.Context, r *Renderer) (string, error) {
	req := r.Request(false)

	if !r.cache || c.loader == nil {
		return c.postLink(ctx, req)
	}

	key, err := r.CacheKey()
	if err != nil {
		return "", err
	}
	val, hit, err := c.loader.Do(ctx, key, cache.Forever, func(ctx context.Context) ([]byte, error) {
		u, err := c.postLink(ctx, req)
		return []byte(u), err
	})
	if err != nil {
		return "", err
	}
	c.metrics.lookup(req.Format, hit)
	c.logger.Debug("render cache lookup",
		zap.String("key", key),
		zap.Bool("hit", hit),
	)
	return string(val), nil
}

func (c *Client) postLink(ctx context.Context, req RenderRequest) (string, error) {
	start := time.Now()
	body, _, err := c.post(ctx, req)
	c.metrics.observe(req.Format, modeReference, start, err)
	if err != nil {
		return "", err
	}

	var out struct {
		URL string `json:"url"`
	}
	if err := json.Unmarshal(body, &out); err != nil {
		return "", fmt.Errorf("%w: decoding reference: %v", ErrUnexpectedResponse, err)
	}
	if out.URL == "" {
		return "", fmt.Errorf("%w: reference without url", ErrUnexpectedResponse)
	}
	return out.URL, nil
}

// fetch renders in inline mode and returns the post-processed bytes.
func (c *Client) fetch(ctx context.Context, r *Renderer) ([]byte, string, error) {
	req := r.Request(true)

	start := time.Now()
	body, contentType, err := c.post(ctx, req)
	c.metrics.observe(req.Format, modeInline, start, err)
	if err != nil {
		return nil, "", err
	}

	if pp := r.variant.postProcess; pp != nil {
		body = pp(r, body, c.now())
	}
	return body, contentType, nil
}

// post sends req to the render endpoint. Non-2xx answers become
// *RenderError; failures below HTTP are wrapped with ErrRequest.
func (c *Client) post(ctx context.Context, req RenderRequest) ([]byte, string, error) {
	if !fileutil.IsDataURI(req.URL) {
		stamp := c.now().Unix()
		req.Time = &stamp
	}

	payload, err := json.Marshal(req)
	if err != nil {
		return nil, "", fmt.Errorf("encoding render request: %w", err)
	}

	mode := modeReference
	if req.Fetch {
		mode = modeInline
	}
	ctx, span := c.tracer.Start(ctx, "render."+mode,
		trace.WithSpanKind(trace.SpanKindClient),
		trace.WithAttributes(
			attribute.String("render.format", string(req.Format)),
			attribute.Bool("render.fetch", req.Fetch),
		),
	)
	defer span.End()

	c.logger.Debug("render request",
		zap.String("format", string(req.Format)),
		zap.String("mode", mode),
		zap.Bool("cache", req.Cache),
	)

	body, contentType, err := c.do(ctx, http.MethodPost, c.endpoint(c.renderPath), payload)
	if err != nil {
		span.SetStatus(codes.Error, err.Error())
		span.RecordError(err)
		return nil, "", err
	}
	span.SetStatus(codes.Ok, "")
	return body, contentType, nil
}

// do performs one HTTP exchange with the render service.
func (c *Client) do(ctx context.Context, method, endpoint string, payload []byte) ([]byte, string, error) {
	if c.limiter != nil {
		if err := c.limiter.Wait(ctx); err != nil {
			return nil, "", fmt.Errorf("%w: %v", ErrRequest, err)
		}
	}

	var body io.Reader
	if payload != nil {
		body = bytes.NewReader(payload)
	}
	httpReq, err := http.NewRequestWithContext(ctx, method, endpoint, body)
	if err != nil {
		return nil, "", fmt.Errorf("%w: %v", ErrRequest, err)
	}
	if payload != nil {
		httpReq.Header.Set("Content-Type", "application/json")
	}
	httpReq.Header.Set("Accept", "application/json, */*")
	if c.user != "" || c.password != "" {
		httpReq.SetBasicAuth(c.user, c.password)
	}

	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		return nil, "", fmt.Errorf("%w: %w", ErrRequest, err)
	}
	defer func() { _ = resp.Body.Close() }()

	data, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseBytes))
	if err != nil {
		return nil, "", fmt.Errorf("%w: reading response: %w", ErrRequest, err)
	}

	contentType := resp.Header.Get("Content-Type")
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		rerr := newRenderError(resp.StatusCode, data, contentType)
		c.logger.Debug("render service error",
			zap.Int("status", resp.StatusCode),
			zap.String("code", rerr.Code),
			zap.String("message", rerr.Message),
		)
		return nil, "", rerr
	}
	return data, contentType, nil
}

// Version returns the Chromium version reported by the status endpoint.
func (c *Client) Version(ctx context.Context) (string, error) {
	ctx, span := c.tracer.Start(ctx, "render.status", trace.WithSpanKind(trace.SpanKindClient))
	defer span.End()

	start := time.Now()
	body, contentType, err := c.do(ctx, http.MethodGet, c.endpoint(c.statusPath), nil)
	c.metrics.observe("", modeStatus, start, err)
	if err != nil {
		span.SetStatus(codes.Error, err.Error())
		return "", err
	}

	if mt, _, _ := mime.ParseMediaType(contentType); mt != "" && mt != "application/json" {
		return "", fmt.Errorf("%w: status content type %q", ErrUnexpectedResponse, contentType)
	}
	var status struct {
		Chromium string `json:"chromium"`
	}
	if err := json.Unmarshal(body, &status); err != nil {
		return "", fmt.Errorf("%w: decoding status: %v", ErrUnexpectedResponse, err)
	}
	return status.Chromium, nil
}
