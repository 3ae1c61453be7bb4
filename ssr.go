package render

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"go.uber.org/zap"

	"github.com/alnah/go-render/internal/cache"
	"github.com/alnah/go-render/internal/fingerprint"
)

// ssrKeyPrefix namespaces server-side render entries in the store.
const ssrKeyPrefix = "ssr:"

// SSROption configures the server-side render middleware.
type SSROption func(*ssrConfig)

type ssrConfig struct {
	cache   bool
	policy  fingerprint.Policy
	headers bool
	params  bool
	user    func(*http.Request) string
}

// WithSSRCache caches rendered responses keyed by request identity. A TTL
// of zero keeps entries forever. Hits carry X-SSR-Cache-Hit.
func WithSSRCache(ttl time.Duration) SSROption {
	return func(c *ssrConfig) {
		c.cache = true
		c.policy = fingerprint.Policy{TTL: max(ttl, 0)}
	}
}

// WithSSRUser supplies the authenticated user identifier for cache keys.
func WithSSRUser(fn func(*http.Request) string) SSROption {
	return func(c *ssrConfig) {
		c.user = fn
	}
}

// WithSSRHeaders includes request headers in cache keys. Default false.
func WithSSRHeaders(enabled bool) SSROption {
	return func(c *ssrConfig) {
		c.headers = enabled
	}
}

// WithSSRParams includes query and form parameters in cache keys.
// Default true.
func WithSSRParams(enabled bool) SSROption {
	return func(c *ssrConfig) {
		c.params = enabled
	}
}

// ssr re-renders inner responses through the HTML renderer.
type ssr struct {
	client *Client
	cfg    ssrConfig
	loader *cache.Loader
}

// innerFunc runs the wrapped handler against w.
type innerFunc func(w http.ResponseWriter, r *http.Request) error

func newSSR(c *Client, opts []SSROption) *ssr {
	s := &ssr{client: c, cfg: ssrConfig{params: true}}
	for _, opt := range opts {
		opt(&s.cfg)
	}
	if s.cfg.cache {
		store := c.store
		if store == nil {
			store = cache.NewMemory()
		}
		s.loader = cache.NewLoader(store)
		s.loader.OnError = c.logStoreError
	}
	return s
}

// SSR returns net/http middleware that renders successful, non-empty
// responses through the remote HTML renderer. Rendered responses carry
// X-SSR: 1 and X-SSR-Rendered-In; passed-through ones carry X-SSR: 0.
func SSR(c *Client, opts ...SSROption) func(http.Handler) http.Handler {
	s := newSSR(c, opts)
	return func(next http.Handler) http.Handler {
		inner := func(w http.ResponseWriter, r *http.Request) error {
			next.ServeHTTP(w, r)
			return nil
		}
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			resp, err := s.handle(r, inner)
			if err != nil {
				writeError(w, c.logger, err)
				return
			}
			if err := resp.WriteTo(w); err != nil {
				c.logger.Debug("writing ssr response", zap.Error(err))
			}
		})
	}
}

// handle produces the response for r, from the cache when configured.
func (s *ssr) handle(r *http.Request, inner innerFunc) (*Response, error) {
	if !s.cfg.cache {
		return s.render(r, inner)
	}

	opts := fingerprint.IdentityOptions{Headers: s.cfg.headers, Params: s.cfg.params}
	if s.cfg.user != nil {
		opts.User = s.cfg.user(r)
	}
	key := fingerprint.RequestKey(r, opts)

	var fresh *Response
	raw, hit, err := s.loader.Do(r.Context(), ssrKeyPrefix+key, s.cfg.policy.TTL, func(context.Context) ([]byte, error) {
		resp, err := s.render(r, inner)
		if err != nil {
			return nil, err
		}
		fresh = resp
		return encodeResponse(resp)
	})
	if err != nil {
		return nil, err
	}

	resp := fresh
	if resp == nil {
		if resp, err = decodeResponse(raw); err != nil {
			return nil, err
		}
	}
	if hit {
		resp.Header.Set(HeaderSSRCacheHit, key)
	}
	return resp, nil
}

// render runs the inner handler into a buffer and re-renders its body.
func (s *ssr) render(r *http.Request, inner innerFunc) (*Response, error) {
	buf := newResponseBuffer()
	if err := inner(buf, r); err != nil {
		return nil, err
	}

	if buf.status >= 200 && buf.status < 300 && buf.body.Len() > 0 {
		return s.client.FromHTML(FormatHTML, buf.body.String()).Response(r.Context(), buf.header)
	}

	h := buf.header.Clone()
	h.Del("Content-Length")
	h.Set(HeaderSSR, "0")
	return &Response{StatusCode: buf.status, Header: h, Body: buf.body.Bytes()}, nil
}

// responseBuffer captures a handler's response.
type responseBuffer struct {
	header      http.Header
	body        bytes.Buffer
	status      int
	wroteHeader bool
}

func newResponseBuffer() *responseBuffer {
	return &responseBuffer{header: http.Header{}, status: http.StatusOK}
}

func (b *responseBuffer) Header() http.Header { return b.header }

func (b *responseBuffer) WriteHeader(status int) {
	if b.wroteHeader {
		return
	}
	b.wroteHeader = true
	b.status = status
}

func (b *responseBuffer) Write(p []byte) (int, error) {
	b.WriteHeader(http.StatusOK)
	return b.body.Write(p)
}

// cachedResponse is the stored form of a Response.
type cachedResponse struct {
	Status int         `json:"status"`
	Header http.Header `json:"header"`
	Body   []byte      `json:"body"`
}

func encodeResponse(resp *Response) ([]byte, error) {
	return json.Marshal(cachedResponse{Status: resp.StatusCode, Header: resp.Header, Body: resp.Body})
}

func decodeResponse(raw []byte) (*Response, error) {
	var c cachedResponse
	if err := json.Unmarshal(raw, &c); err != nil {
		return nil, fmt.Errorf("%w: cached ssr response: %v", ErrUnexpectedResponse, err)
	}
	if c.Header == nil {
		c.Header = http.Header{}
	}
	return &Response{StatusCode: c.Status, Header: c.Header, Body: c.Body}, nil
}
