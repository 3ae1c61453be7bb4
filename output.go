package render

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"path"
	"strconv"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/alnah/go-render/internal/fileutil"
)

// Response headers set on rendered responses.
const (
	HeaderSSR           = "X-SSR"
	HeaderSSRRenderedIn = "X-SSR-Rendered-In"
	HeaderSSRCacheHit   = "X-SSR-Cache-Hit"
)

// blobContentType is reported for precomputed MJML output.
const blobContentType = "text/html; charset=utf-8"

// Response is an HTTP-shaped render result.
type Response struct {
	StatusCode int
	Header     http.Header
	Body       []byte
}

// WriteTo writes the response to w.
func (resp *Response) WriteTo(w http.ResponseWriter) error {
	h := w.Header()
	for k, vs := range resp.Header {
		h[k] = append([]string(nil), vs...)
	}
	h.Set("Content-Length", strconv.Itoa(len(resp.Body)))
	w.WriteHeader(resp.StatusCode)
	_, err := w.Write(resp.Body)
	return err
}

// content returns the inline output and its content type.
func (r *Renderer) content(ctx context.Context) ([]byte, string, error) {
	if r.err != nil {
		return nil, "", r.err
	}
	if r.blob != nil {
		return r.blob, blobContentType, nil
	}
	return r.client.fetch(ctx, r)
}

// Blob returns the rendered bytes, or nil when the output is empty.
func (r *Renderer) Blob(ctx context.Context) ([]byte, error) {
	body, _, err := r.content(ctx)
	if err != nil {
		return nil, err
	}
	if len(body) == 0 {
		return nil, nil
	}
	return body, nil
}

// Stream returns the rendered bytes as a reader backed by a temp file.
// Closing it removes the file.
func (r *Renderer) Stream(ctx context.Context) (io.ReadCloser, error) {
	body, _, err := r.content(ctx)
	if err != nil {
		return nil, err
	}
	return fileutil.TempReader(body, r.variant.extension)
}

// Response renders inline and shapes the result as a 200 response. header
// seeds the response headers; the remote Content-Type replaces any given
// one, and X-SSR plus X-SSR-Rendered-In are added.
func (r *Renderer) Response(ctx context.Context, header http.Header) (*Response, error) {
	start := r.client.now()
	body, contentType, err := r.content(ctx)
	if err != nil {
		return nil, err
	}

	h := header.Clone()
	if h == nil {
		h = http.Header{}
	}
	h.Del("Content-Length")
	h.Set("Content-Type", contentType)
	h.Set(HeaderSSR, "1")
	h.Set(HeaderSSRRenderedIn, formatSeconds(r.client.now().Sub(start)))

	return &Response{StatusCode: http.StatusOK, Header: h, Body: body}, nil
}

func formatSeconds(d time.Duration) string {
	return strconv.FormatFloat(d.Seconds(), 'f', -1, 64) + "s"
}

// Download renders inline as an attachment. The format's extension is added
// to filename when it has none. An empty filename sends a bare attachment
// disposition.
func (r *Renderer) Download(ctx context.Context, filename string) (*Response, error) {
	disposition := "attachment"
	if filename != "" {
		if path.Ext(filename) == "" && r.variant != nil {
			filename = strings.TrimRight(filename, ".") + "." + r.variant.extension
		}
		disposition += `; filename="` + strings.ReplaceAll(filename, `"`, `\"`) + `"`
	}
	h := http.Header{}
	h.Set("Content-Disposition", disposition)
	return r.Response(ctx, h)
}

// ServeHTTP renders inline and writes the result, making a Renderer an
// http.Handler. Remote failures answer 502.
func (r *Renderer) ServeHTTP(w http.ResponseWriter, req *http.Request) {
	resp, err := r.Response(req.Context(), nil)
	if err != nil {
		writeError(w, r.client.logger, err)
		return
	}
	if err := resp.WriteTo(w); err != nil {
		r.client.logger.Debug("writing render response", zap.Error(err))
	}
}

// Link renders in reference mode and returns the artifact URL.
func (r *Renderer) Link(ctx context.Context) (string, error) {
	if r.err != nil {
		return "", r.err
	}
	return r.client.link(ctx, r)
}

// MarshalJSON encodes the renderer as its reference URL.
func (r *Renderer) MarshalJSON() ([]byte, error) {
	u, err := r.Link(context.Background())
	if err != nil {
		return nil, err
	}
	return json.Marshal(u)
}

// writeError answers a failed render.
func writeError(w http.ResponseWriter, logger *zap.Logger, err error) {
	status := http.StatusInternalServerError
	var rerr *RenderError
	if errors.As(err, &rerr) {
		status = http.StatusBadGateway
	}
	logger.Error("render failed", zap.Int("status", status), zap.Error(err))
	http.Error(w, err.Error(), status)
}
