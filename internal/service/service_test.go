package service

// Notes:
// - The browser is replaced by fakeRenderer; chrome has its own tests for
//   option translation.
// - The client round trip tests run the real render.Client against the
//   service over httptest to pin the wire contract both sides rely on.

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"

	render "github.com/alnah/go-render"
	"github.com/alnah/go-render/internal/cache"
	"github.com/alnah/go-render/internal/chrome"
)

// fakeRenderer records render calls and answers with body or err.
type fakeRenderer struct {
	mu       sync.Mutex
	calls    int
	requests []render.RenderRequest

	body       []byte
	err        error
	version    string
	versionErr error
}

func (f *fakeRenderer) Render(_ context.Context, req render.RenderRequest) (*chrome.Result, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls++
	f.requests = append(f.requests, req)
	if f.err != nil {
		return nil, f.err
	}
	body := f.body
	if body == nil {
		body = []byte("rendered:" + string(req.Format))
	}
	ct := map[render.Format]string{
		render.FormatHTML: "text/html; charset=utf-8",
		render.FormatPDF:  "application/pdf",
		render.FormatPNG:  "image/png",
		render.FormatJPG:  "image/jpeg",
	}[req.Format]
	return &chrome.Result{Body: body, ContentType: ct}, nil
}

func (f *fakeRenderer) Version(context.Context) (string, error) {
	return f.version, f.versionErr
}

func (f *fakeRenderer) Close() error { return nil }

func (f *fakeRenderer) callCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.calls
}

func newTestServer(t *testing.T, r *fakeRenderer, mutate ...func(*Config)) *Server {
	t.Helper()
	store, err := NewDirStore(t.TempDir())
	if err != nil {
		t.Fatalf("NewDirStore: %v", err)
	}
	cfg := Config{Renderer: r, Artifacts: store, PublicURL: "https://render.test/"}
	for _, m := range mutate {
		m(&cfg)
	}
	s, err := New(cfg)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	return s
}

func do(t *testing.T, s *Server, method, target, body string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(method, target, strings.NewReader(body))
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}
	rec := httptest.NewRecorder()
	s.Echo().ServeHTTP(rec, req)
	return rec
}

func decodeError(t *testing.T, rec *httptest.ResponseRecorder) errorBody {
	t.Helper()
	var got errorBody
	if err := json.Unmarshal(rec.Body.Bytes(), &got); err != nil {
		t.Fatalf("decoding error body %q: %v", rec.Body.String(), err)
	}
	return got
}

// ---------------------------------------------------------------------------
// TestNew
// ---------------------------------------------------------------------------

func TestNew_RequiresRendererAndStore(t *testing.T) {
	t.Parallel()

	if _, err := New(Config{}); err == nil {
		t.Error("expected error without renderer")
	}
	if _, err := New(Config{Renderer: &fakeRenderer{}}); err == nil {
		t.Error("expected error without artifacts store")
	}
}

// ---------------------------------------------------------------------------
// TestRender - delivery modes
// ---------------------------------------------------------------------------

func TestRender_Inline(t *testing.T) {
	t.Parallel()

	r := &fakeRenderer{body: []byte("%PDF-1.7")}
	s := newTestServer(t, r)

	rec := do(t, s, http.MethodPost, "/foundation/pdf",
		`{"url":"https://example.com","format":"pdf","fetch":true,"options":{"margin":{"top":"1cm"},"landscape":true}}`)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, body %s", rec.Code, rec.Body)
	}
	if got := rec.Header().Get("Content-Type"); got != "application/pdf" {
		t.Errorf("Content-Type = %q", got)
	}
	if rec.Body.String() != "%PDF-1.7" {
		t.Errorf("body = %q", rec.Body)
	}

	req := r.requests[0]
	if req.Options.Margin == nil || req.Options.Margin.Top != "1cm" {
		t.Errorf("margin not decoded: %+v", req.Options.Margin)
	}
	if req.Options.Landscape == nil || !*req.Options.Landscape {
		t.Error("landscape not decoded")
	}
}

func TestRender_Reference(t *testing.T) {
	t.Parallel()

	r := &fakeRenderer{body: []byte("png-bytes")}
	s := newTestServer(t, r)

	rec := do(t, s, http.MethodPost, "/foundation/pdf", `{"url":"https://example.com","format":"png","fetch":false}`)
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, body %s", rec.Code, rec.Body)
	}

	var got struct {
		URL string `json:"url"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &got); err != nil {
		t.Fatalf("decode: %v", err)
	}
	prefix := "https://render.test/artifacts/"
	if !strings.HasPrefix(got.URL, prefix) || !strings.HasSuffix(got.URL, ".png") {
		t.Fatalf("url = %q, want %s<id>.png", got.URL, prefix)
	}

	artifact := do(t, s, http.MethodGet, "/artifacts/"+strings.TrimPrefix(got.URL, prefix), "")
	if artifact.Code != http.StatusOK {
		t.Fatalf("artifact status = %d", artifact.Code)
	}
	if artifact.Body.String() != "png-bytes" {
		t.Errorf("artifact body = %q", artifact.Body)
	}
	if ct := artifact.Header().Get("Content-Type"); ct != "image/png" {
		t.Errorf("artifact Content-Type = %q", ct)
	}
}

func TestRender_ReferenceWithoutPublicURL(t *testing.T) {
	t.Parallel()

	s := newTestServer(t, &fakeRenderer{}, func(c *Config) { c.PublicURL = "" })

	rec := do(t, s, http.MethodPost, "/foundation/pdf", `{"url":"https://example.com","format":"html"}`)
	if !strings.Contains(rec.Body.String(), `"url":"http://example.com/artifacts/`) {
		t.Errorf("body = %s, want link on request host", rec.Body)
	}
}

func TestRender_CustomPaths(t *testing.T) {
	t.Parallel()

	s := newTestServer(t, &fakeRenderer{version: "1.0"}, func(c *Config) {
		c.RenderPath = "v2/render/"
		c.StatusPath = "/v2/status"
	})

	if rec := do(t, s, http.MethodPost, "/v2/render", `{"url":"https://example.com","format":"html","fetch":true}`); rec.Code != http.StatusOK {
		t.Errorf("render status = %d", rec.Code)
	}
	if rec := do(t, s, http.MethodGet, "/v2/status", ""); rec.Code != http.StatusOK {
		t.Errorf("status status = %d", rec.Code)
	}
}

// ---------------------------------------------------------------------------
// TestRender - request validation
// ---------------------------------------------------------------------------

func TestRender_InvalidRequests(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		body     string
		wantKind string
		wantMsg  string
	}{
		{"malformed json", `{"url":`, "BadRequest", "Invalid request body"},
		{"missing url", `{"format":"pdf"}`, "ValidationError", "url is required"},
		{"relative url", `{"url":"/invoice","format":"pdf"}`, "ValidationError", "url must be a URL"},
		{"missing format", `{"url":"https://example.com"}`, "ValidationError", "format is required"},
		{"unknown format", `{"url":"https://example.com","format":"gif"}`, "ValidationError", "format must be one of"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			r := &fakeRenderer{}
			s := newTestServer(t, r)

			rec := do(t, s, http.MethodPost, "/foundation/pdf", tt.body)
			if rec.Code != http.StatusBadRequest {
				t.Fatalf("status = %d, want 400", rec.Code)
			}
			got := decodeError(t, rec)
			if got.Error != tt.wantKind || !strings.Contains(got.Message, tt.wantMsg) {
				t.Errorf("error = %+v, want %s containing %q", got, tt.wantKind, tt.wantMsg)
			}
			if r.callCount() != 0 {
				t.Error("renderer should not be called")
			}
		})
	}
}

func TestRender_DataURI(t *testing.T) {
	t.Parallel()

	r := &fakeRenderer{}
	s := newTestServer(t, r)

	rec := do(t, s, http.MethodPost, "/foundation/pdf",
		`{"url":"data:text/html;charset=utf-8;base64,PHA+aGk8L3A+","format":"html","fetch":true}`)
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, body %s", rec.Code, rec.Body)
	}
}

// ---------------------------------------------------------------------------
// TestRender - renderer failures
// ---------------------------------------------------------------------------

func TestRender_Failures(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name       string
		err        error
		wantStatus int
		wantKind   string
		wantMsg    string
	}{
		{
			name:       "navigation",
			err:        &chrome.NavigationError{Reason: "net::ERR_NAME_NOT_RESOLVED", URL: "https://nowhere.test"},
			wantStatus: http.StatusInternalServerError,
			wantKind:   "NetError",
			wantMsg:    "net::ERR_NAME_NOT_RESOLVED at https://nowhere.test",
		},
		{
			name:       "unsupported format",
			err:        chrome.ErrUnsupportedFormat,
			wantStatus: http.StatusUnprocessableEntity,
			wantKind:   "UnsupportedFormat",
			wantMsg:    "unsupported format",
		},
		{
			name:       "invalid option",
			err:        errors.Join(chrome.ErrInvalidOption, errors.New("scale 3")),
			wantStatus: http.StatusBadRequest,
			wantKind:   "InvalidOption",
			wantMsg:    "scale 3",
		},
		{
			name:       "timeout",
			err:        context.DeadlineExceeded,
			wantStatus: http.StatusGatewayTimeout,
			wantKind:   "TimeoutError",
			wantMsg:    "deadline exceeded",
		},
		{
			name:       "browser gone",
			err:        chrome.ErrClosed,
			wantStatus: http.StatusServiceUnavailable,
			wantKind:   "BrowserError",
			wantMsg:    "browser closed",
		},
		{
			name:       "other",
			err:        errors.New("tab crashed"),
			wantStatus: http.StatusInternalServerError,
			wantKind:   "RenderError",
			wantMsg:    "tab crashed",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			s := newTestServer(t, &fakeRenderer{err: tt.err})
			rec := do(t, s, http.MethodPost, "/foundation/pdf", `{"url":"https://example.com","format":"pdf","fetch":true}`)

			if rec.Code != tt.wantStatus {
				t.Errorf("status = %d, want %d", rec.Code, tt.wantStatus)
			}
			got := decodeError(t, rec)
			if got.Error != tt.wantKind || !strings.Contains(got.Message, tt.wantMsg) {
				t.Errorf("error = %+v, want %s containing %q", got, tt.wantKind, tt.wantMsg)
			}
		})
	}
}

// ---------------------------------------------------------------------------
// TestRender - cache
// ---------------------------------------------------------------------------

func TestRender_Cache(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name      string
		first     string
		second    string
		wantCalls int
	}{
		{
			name:      "same request hits",
			first:     `{"url":"https://example.com","format":"png","fetch":true,"cache":true,"time":1}`,
			second:    `{"url":"https://example.com","format":"png","fetch":true,"cache":true,"time":2}`,
			wantCalls: 1,
		},
		{
			name:      "cache disabled",
			first:     `{"url":"https://example.com","format":"png","fetch":true,"cache":false}`,
			second:    `{"url":"https://example.com","format":"png","fetch":true,"cache":false}`,
			wantCalls: 2,
		},
		{
			name:      "options differ",
			first:     `{"url":"https://example.com","format":"png","fetch":true,"cache":true,"options":{"width":800}}`,
			second:    `{"url":"https://example.com","format":"png","fetch":true,"cache":true,"options":{"width":801}}`,
			wantCalls: 2,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			r := &fakeRenderer{}
			s := newTestServer(t, r, func(c *Config) { c.Cache = cache.NewMemory() })

			first := do(t, s, http.MethodPost, "/foundation/pdf", tt.first)
			second := do(t, s, http.MethodPost, "/foundation/pdf", tt.second)

			if r.callCount() != tt.wantCalls {
				t.Errorf("renderer calls = %d, want %d", r.callCount(), tt.wantCalls)
			}
			if first.Body.String() != second.Body.String() {
				t.Errorf("bodies differ: %q vs %q", first.Body, second.Body)
			}
			if ct := second.Header().Get("Content-Type"); ct != "image/png" {
				t.Errorf("cached Content-Type = %q", ct)
			}
		})
	}
}

// ---------------------------------------------------------------------------
// TestStatus
// ---------------------------------------------------------------------------

func TestStatus(t *testing.T) {
	t.Parallel()

	s := newTestServer(t, &fakeRenderer{version: "120.0.6099.109"})
	rec := do(t, s, http.MethodGet, "/foundation/pdf/status", "")

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}
	var got map[string]string
	if err := json.Unmarshal(rec.Body.Bytes(), &got); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if diff := cmp.Diff(map[string]string{"chromium": "120.0.6099.109"}, got); diff != "" {
		t.Errorf("status mismatch (-want +got):\n%s", diff)
	}
}

func TestStatus_BrowserDown(t *testing.T) {
	t.Parallel()

	s := newTestServer(t, &fakeRenderer{versionErr: chrome.ErrBrowserConnect})
	rec := do(t, s, http.MethodGet, "/foundation/pdf/status", "")

	if rec.Code != http.StatusServiceUnavailable {
		t.Errorf("status = %d, want 503", rec.Code)
	}
}

// ---------------------------------------------------------------------------
// TestArtifacts
// ---------------------------------------------------------------------------

func TestArtifacts_NotFound(t *testing.T) {
	t.Parallel()

	s := newTestServer(t, &fakeRenderer{})

	for _, name := range []string{
		"6f1c2a8e-3b7d-4c1e-9a5f-2d8b7e4c1a90.pdf",
		"not-a-uuid.pdf",
		"noextension",
		"..%2F..%2Fetc%2Fpasswd",
	} {
		rec := do(t, s, http.MethodGet, "/artifacts/"+name, "")
		if rec.Code != http.StatusNotFound {
			t.Errorf("GET %s status = %d, want 404", name, rec.Code)
		}
	}
}

func TestDirStore_PutRejectsBadExtension(t *testing.T) {
	t.Parallel()

	store, err := NewDirStore(t.TempDir())
	if err != nil {
		t.Fatal(err)
	}
	if _, err := store.Put("../pdf", []byte("x")); err == nil {
		t.Error("expected error for traversal extension")
	}
	if _, err := NewDirStore(""); err == nil {
		t.Error("expected error for empty directory")
	}
}

// ---------------------------------------------------------------------------
// TestMetrics
// ---------------------------------------------------------------------------

func TestMetrics(t *testing.T) {
	t.Parallel()

	reg := prometheus.NewRegistry()
	s := newTestServer(t, &fakeRenderer{}, func(c *Config) {
		c.Registry = reg
		c.Cache = cache.NewMemory()
	})

	body := `{"url":"https://example.com","format":"jpg","fetch":true,"cache":true}`
	do(t, s, http.MethodPost, "/foundation/pdf", body)
	do(t, s, http.MethodPost, "/foundation/pdf", body)

	if got := testutil.ToFloat64(s.metrics.renders.WithLabelValues("jpg", "inline", "ok")); got != 2 {
		t.Errorf("renders = %v, want 2", got)
	}
	if got := testutil.ToFloat64(s.metrics.cache.WithLabelValues("hit")); got != 1 {
		t.Errorf("cache hits = %v, want 1", got)
	}

	rec := do(t, s, http.MethodGet, "/metrics", "")
	if !strings.Contains(rec.Body.String(), "render_service_renders_total") {
		t.Error("metrics endpoint missing render counter")
	}
}

func TestMetrics_DisabledWithoutRegistry(t *testing.T) {
	t.Parallel()

	s := newTestServer(t, &fakeRenderer{})
	if rec := do(t, s, http.MethodGet, "/metrics", ""); rec.Code != http.StatusNotFound {
		t.Errorf("status = %d, want 404", rec.Code)
	}
}

// ---------------------------------------------------------------------------
// TestClientRoundTrip
// ---------------------------------------------------------------------------

func startService(t *testing.T, r *fakeRenderer) *render.Client {
	t.Helper()
	s := newTestServer(t, r, func(c *Config) { c.PublicURL = "" })
	srv := httptest.NewServer(s.Echo())
	t.Cleanup(srv.Close)

	client, err := render.NewClient(srv.URL)
	if err != nil {
		t.Fatalf("NewClient: %v", err)
	}
	return client
}

func TestClientRoundTrip_BlobAndLink(t *testing.T) {
	t.Parallel()

	r := &fakeRenderer{body: []byte("png-bytes")}
	client := startService(t, r)
	ctx := context.Background()

	blob, err := client.FromURL(render.FormatPNG, "https://example.com").Blob(ctx)
	if err != nil {
		t.Fatalf("Blob: %v", err)
	}
	if string(blob) != "png-bytes" {
		t.Errorf("blob = %q", blob)
	}

	link, err := client.FromURL(render.FormatPNG, "https://example.com/other").Link(ctx)
	if err != nil {
		t.Fatalf("Link: %v", err)
	}
	resp, err := http.Get(link) // #nosec G107 -- test server URL
	if err != nil {
		t.Fatalf("GET %s: %v", link, err)
	}
	defer resp.Body.Close()
	got, _ := io.ReadAll(resp.Body)
	if resp.StatusCode != http.StatusOK || string(got) != "png-bytes" {
		t.Errorf("artifact = %d %q", resp.StatusCode, got)
	}
}

func TestClientRoundTrip_NetErrorIsClassified(t *testing.T) {
	t.Parallel()

	r := &fakeRenderer{err: &chrome.NavigationError{Reason: "net::ERR_CONNECTION_REFUSED", URL: "https://down.test"}}
	client := startService(t, r)

	_, err := client.FromURL(render.FormatPNG, "https://down.test").Blob(context.Background())

	var rerr *render.RenderError
	if !errors.As(err, &rerr) {
		t.Fatalf("err = %v, want *render.RenderError", err)
	}
	if rerr.StatusCode != http.StatusInternalServerError {
		t.Errorf("StatusCode = %d", rerr.StatusCode)
	}
	if rerr.Code != "ERR_CONNECTION_REFUSED" {
		t.Errorf("Code = %q, want ERR_CONNECTION_REFUSED", rerr.Code)
	}
}

func TestClientRoundTrip_Version(t *testing.T) {
	t.Parallel()

	client := startService(t, &fakeRenderer{version: "121.0.0.0"})

	got, err := client.Version(context.Background())
	if err != nil {
		t.Fatalf("Version: %v", err)
	}
	if got != "121.0.0.0" {
		t.Errorf("Version = %q", got)
	}
}
