package main

// Notes:
// - Commands run through run() against a fake render service on httptest.
//   The fake speaks the wire protocol only; browser behavior is covered in
//   internal/chrome and internal/service.
// - serve is exercised through newServeApp; the listener loop in runServe is
//   not started.
// These are acceptable gaps: we test observable behavior, not implementation
// details.

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"
	"time"

	"go.uber.org/zap"

	render "github.com/alnah/go-render"
	"github.com/alnah/go-render/internal/config"
)

// fakeService answers the render and status endpoints.
type fakeService struct {
	mu   sync.Mutex
	last render.RenderRequest
	hits int
}

var formatBodies = map[render.Format]string{
	render.FormatPNG:  "\x89PNG fake",
	render.FormatJPG:  "\xff\xd8 fake",
	render.FormatHTML: "<html><body>SSR</body></html>",
}

func (f *fakeService) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	switch {
	case r.Method == http.MethodGet && r.URL.Path == "/foundation/pdf/status":
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"chromium":"120.0.6099.109"}`))
	case r.Method == http.MethodPost && r.URL.Path == "/foundation/pdf":
		var req render.RenderRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}
		f.mu.Lock()
		f.last = req
		f.hits++
		f.mu.Unlock()

		if !req.Fetch {
			w.Header().Set("Content-Type", "application/json")
			_, _ = w.Write([]byte(`{"url":"https://cdn.test/a.` + req.Format.Extension() + `"}`))
			return
		}
		body, ok := formatBodies[req.Format]
		if !ok {
			body = "%PDF-1.7 fake"
		}
		w.Header().Set("Content-Type", "application/octet-stream")
		_, _ = w.Write([]byte(body))
	default:
		http.NotFound(w, r)
	}
}

func (f *fakeService) lastRequest() (render.RenderRequest, int) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.last, f.hits
}

// newFakeService starts a fake render service and writes a config file
// pointing at it.
func newFakeService(t *testing.T, driver string) (*fakeService, string) {
	t.Helper()
	fake := &fakeService{}
	srv := httptest.NewServer(fake)
	t.Cleanup(srv.Close)
	return fake, writeConfig(t, srv.URL, driver)
}

func writeConfig(t *testing.T, baseURL, driver string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "render.yaml")
	content := "service:\n  baseURL: " + baseURL + "\n" +
		"cache:\n  driver: " + driver + "\n" +
		"log:\n  level: error\n"
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		t.Fatalf("writing config: %v", err)
	}
	return path
}

func testEnv(stdin string) (*Environment, *bytes.Buffer, *bytes.Buffer) {
	var stdout, stderr bytes.Buffer
	fixed := time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)
	return &Environment{
		Now:    func() time.Time { return fixed },
		Stdin:  strings.NewReader(stdin),
		Stdout: &stdout,
		Stderr: &stderr,
	}, &stdout, &stderr
}

// ---------------------------------------------------------------------------
// TestRun_Dispatch
// ---------------------------------------------------------------------------

func TestRun_Dispatch(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name       string
		args       []string
		wantCode   int
		wantStdout string
		wantStderr string
	}{
		{"no args", nil, ExitUsage, "", "Usage: render <command>"},
		{"unknown command", []string{"frobnicate"}, ExitUsage, "", "Unknown command: frobnicate"},
		{"help", []string{"help"}, ExitSuccess, "Usage: render <command>", ""},
		{"help render", []string{"help", "render"}, ExitSuccess, "RENDER_BASE_URL", ""},
		{"help unknown", []string{"help", "nope"}, ExitUsage, "", ""},
		{"version", []string{"version"}, ExitSuccess, "render " + render.Version, ""},
		{"render without target", []string{"render"}, ExitUsage, "", "expected one target"},
		{"render bad format", []string{"render", "https://example.com", "-f", "gif"}, ExitUsage, "", "error:"},
		{"render bad flag", []string{"render", "--nope"}, ExitUsage, "", "Usage: render render"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			env, stdout, stderr := testEnv("")
			code := run(context.Background(), tt.args, env)

			if code != tt.wantCode {
				t.Errorf("exit code = %d, want %d (stderr: %s)", code, tt.wantCode, stderr)
			}
			if tt.wantStdout != "" && !strings.Contains(stdout.String(), tt.wantStdout) {
				t.Errorf("stdout = %q, want it to contain %q", stdout, tt.wantStdout)
			}
			if tt.wantStderr != "" && !strings.Contains(stderr.String(), tt.wantStderr) {
				t.Errorf("stderr = %q, want it to contain %q", stderr, tt.wantStderr)
			}
		})
	}
}

// ---------------------------------------------------------------------------
// TestRun_Render
// ---------------------------------------------------------------------------

func TestRun_RenderToFile(t *testing.T) {
	t.Parallel()

	fake, cfgPath := newFakeService(t, config.CacheNone)
	out := filepath.Join(t.TempDir(), "shot.png")
	env, stdout, stderr := testEnv("")

	code := run(context.Background(), []string{
		"render", "https://example.com/dashboard", "--config", cfgPath,
		"-f", "png", "-o", out, "--full-page",
	}, env)
	if code != ExitSuccess {
		t.Fatalf("exit code = %d, stderr: %s", code, stderr)
	}

	got, err := os.ReadFile(out)
	if err != nil {
		t.Fatalf("reading output: %v", err)
	}
	if string(got) != formatBodies[render.FormatPNG] {
		t.Errorf("output = %q, want %q", got, formatBodies[render.FormatPNG])
	}
	if !strings.Contains(stdout.String(), out) {
		t.Errorf("stdout = %q, want the output path", stdout)
	}

	req, _ := fake.lastRequest()
	if req.URL != "https://example.com/dashboard" || !req.Fetch || req.Format != render.FormatPNG {
		t.Errorf("request = %+v", req)
	}
	if req.Options.FullPage == nil || !*req.Options.FullPage {
		t.Error("expected fullPage option on the wire")
	}
}

func TestRun_RenderStdinToStdout(t *testing.T) {
	t.Parallel()

	fake, cfgPath := newFakeService(t, config.CacheNone)
	env, stdout, stderr := testEnv("<h1>Hi</h1>")

	code := run(context.Background(), []string{
		"render", "-", "--config", cfgPath, "-f", "html", "-o", "-",
	}, env)
	if code != ExitSuccess {
		t.Fatalf("exit code = %d, stderr: %s", code, stderr)
	}
	if stdout.String() != formatBodies[render.FormatHTML] {
		t.Errorf("stdout = %q", stdout)
	}

	req, _ := fake.lastRequest()
	if !strings.HasPrefix(req.URL, "data:text/html") {
		t.Errorf("url = %q, want a data URI", req.URL)
	}
	if req.Time != nil {
		t.Error("data URI requests carry no time stamp")
	}
}

func TestRun_RenderQuiet(t *testing.T) {
	t.Parallel()

	_, cfgPath := newFakeService(t, config.CacheNone)
	out := filepath.Join(t.TempDir(), "page.jpg")
	env, stdout, stderr := testEnv("")

	code := run(context.Background(), []string{
		"render", "https://example.com", "--config", cfgPath, "-f", "jpg", "-o", out, "-q",
	}, env)
	if code != ExitSuccess {
		t.Fatalf("exit code = %d, stderr: %s", code, stderr)
	}
	if stdout.Len() != 0 {
		t.Errorf("quiet run printed %q", stdout)
	}
}

func TestRun_RenderMissingOutputDir(t *testing.T) {
	t.Parallel()

	_, cfgPath := newFakeService(t, config.CacheNone)
	out := filepath.Join(t.TempDir(), "missing", "nested", "out.png")
	env, _, stderr := testEnv("")

	code := run(context.Background(), []string{
		"render", "https://example.com", "--config", cfgPath, "-f", "png", "-o", out,
	}, env)
	if code != ExitIO {
		t.Fatalf("exit code = %d, want %d (stderr: %s)", code, ExitIO, stderr)
	}
	if !strings.Contains(stderr.String(), "hint:") {
		t.Errorf("stderr = %q, want a hint", stderr)
	}
}

func TestRun_ServiceUnreachable(t *testing.T) {
	t.Parallel()

	cfgPath := writeConfig(t, "http://127.0.0.1:1", config.CacheNone)
	env, _, stderr := testEnv("")

	code := run(context.Background(), []string{
		"render", "https://example.com", "--config", cfgPath, "-o", "-",
	}, env)
	if code != ExitRemote {
		t.Fatalf("exit code = %d, want %d", code, ExitRemote)
	}
	if !strings.Contains(stderr.String(), "127.0.0.1:1") {
		t.Errorf("stderr = %q, want the service URL in the hint", stderr)
	}
}

func TestRun_ConfigNotFound(t *testing.T) {
	t.Parallel()

	env, _, stderr := testEnv("")
	missing := filepath.Join(t.TempDir(), "nope.yaml")

	code := run(context.Background(), []string{"render", "https://example.com", "--config", missing}, env)
	if code != ExitUsage {
		t.Fatalf("exit code = %d, want %d (stderr: %s)", code, ExitUsage, stderr)
	}
}

// ---------------------------------------------------------------------------
// TestRun_Link
// ---------------------------------------------------------------------------

func TestRun_Link(t *testing.T) {
	t.Parallel()

	fake, cfgPath := newFakeService(t, config.CacheMemory)
	env, stdout, stderr := testEnv("")

	code := run(context.Background(), []string{"link", "https://example.com/invoice/7", "--config", cfgPath}, env)
	if code != ExitSuccess {
		t.Fatalf("exit code = %d, stderr: %s", code, stderr)
	}
	if got := strings.TrimSpace(stdout.String()); got != "https://cdn.test/a.pdf" {
		t.Errorf("link = %q", got)
	}

	req, _ := fake.lastRequest()
	if req.Fetch || !req.Cache {
		t.Errorf("link request fetch=%v cache=%v, want reference mode with cache", req.Fetch, req.Cache)
	}
}

func TestRun_LinkNoCache(t *testing.T) {
	t.Parallel()

	fake, cfgPath := newFakeService(t, config.CacheNone)
	env, _, stderr := testEnv("")

	code := run(context.Background(), []string{"link", "https://example.com", "--config", cfgPath, "--no-cache"}, env)
	if code != ExitSuccess {
		t.Fatalf("exit code = %d, stderr: %s", code, stderr)
	}
	if req, _ := fake.lastRequest(); req.Cache {
		t.Error("--no-cache should clear the cache flag")
	}
}

// ---------------------------------------------------------------------------
// TestRun_Version
// ---------------------------------------------------------------------------

func TestRun_VersionRemote(t *testing.T) {
	t.Parallel()

	_, cfgPath := newFakeService(t, config.CacheNone)
	env, stdout, stderr := testEnv("")

	code := run(context.Background(), []string{"version", "--remote", "--config", cfgPath}, env)
	if code != ExitSuccess {
		t.Fatalf("exit code = %d, stderr: %s", code, stderr)
	}
	if !strings.Contains(stdout.String(), "chromium 120.0.6099.109") {
		t.Errorf("stdout = %q", stdout)
	}
}

// ---------------------------------------------------------------------------
// TestRun_Config
// ---------------------------------------------------------------------------

func TestRun_Config(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "render.yaml")
	content := "service:\n  baseURL: https://render.test\n  user: ops\n  password: s3cret\n"
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		t.Fatal(err)
	}
	env, stdout, stderr := testEnv("")

	code := run(context.Background(), []string{"config", "--config", path, "--service", "https://override.test"}, env)
	if code != ExitSuccess {
		t.Fatalf("exit code = %d, stderr: %s", code, stderr)
	}
	out := stdout.String()
	if !strings.Contains(out, "https://override.test") || strings.Contains(out, "https://render.test") {
		t.Errorf("flag override missing:\n%s", out)
	}
	if strings.Contains(out, "s3cret") || !strings.Contains(out, redacted) {
		t.Errorf("password not redacted:\n%s", out)
	}
}

// ---------------------------------------------------------------------------
// TestRun_Doctor
// ---------------------------------------------------------------------------

func TestRun_DoctorReady(t *testing.T) {
	t.Parallel()

	_, cfgPath := newFakeService(t, config.CacheMemory)
	env, stdout, _ := testEnv("")

	code := run(context.Background(), []string{"doctor", "--config", cfgPath}, env)
	if code != ExitSuccess {
		t.Fatalf("exit code = %d, output: %s", code, stdout)
	}
	for _, want := range []string{"[OK] Chromium: 120.0.6099.109", "[OK] Driver: memory", "Status: Ready to render"} {
		if !strings.Contains(stdout.String(), want) {
			t.Errorf("output missing %q:\n%s", want, stdout)
		}
	}
}

func TestRun_DoctorJSON(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name       string
		baseURL    string
		driver     string
		wantCode   int
		wantStatus string
	}{
		{"cache disabled", "", config.CacheNone, ExitSuccess, "warnings"},
		{"unreachable", "http://127.0.0.1:1", config.CacheMemory, ExitGeneral, "errors"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			var cfgPath string
			if tt.baseURL == "" {
				_, cfgPath = newFakeService(t, tt.driver)
			} else {
				cfgPath = writeConfig(t, tt.baseURL, tt.driver)
			}
			env, stdout, _ := testEnv("")

			code := run(context.Background(), []string{"doctor", "--json", "--config", cfgPath}, env)
			if code != tt.wantCode {
				t.Errorf("exit code = %d, want %d", code, tt.wantCode)
			}

			var result doctorResult
			if err := json.Unmarshal(stdout.Bytes(), &result); err != nil {
				t.Fatalf("decoding doctor output: %v\n%s", err, stdout)
			}
			if result.Status != tt.wantStatus {
				t.Errorf("status = %q, want %q", result.Status, tt.wantStatus)
			}
			if !result.Config.Loaded || result.Config.Source != cfgPath {
				t.Errorf("config = %+v", result.Config)
			}
		})
	}
}

func TestRun_DoctorBadConfig(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "render.yaml")
	if err := os.WriteFile(path, []byte("cache:\n  driver: floppy\n"), 0o600); err != nil {
		t.Fatal(err)
	}
	env, stdout, _ := testEnv("")

	code := run(context.Background(), []string{"doctor", "--config", path}, env)
	if code != ExitGeneral {
		t.Errorf("exit code = %d, want %d", code, ExitGeneral)
	}
	if !strings.Contains(stdout.String(), "Status: Not ready") {
		t.Errorf("output = %s", stdout)
	}
}

// ---------------------------------------------------------------------------
// TestServeApp
// ---------------------------------------------------------------------------

func TestServeApp(t *testing.T) {
	t.Parallel()

	fake := &fakeService{}
	srv := httptest.NewServer(fake)
	t.Cleanup(srv.Close)

	dir := t.TempDir()
	files := map[string]string{
		"index.html": "<html><body>raw</body></html>",
		"site.css":   "body{color:red}",
	}
	for name, content := range files {
		if err := os.WriteFile(filepath.Join(dir, name), []byte(content), 0o600); err != nil {
			t.Fatal(err)
		}
	}

	client, err := render.NewClient(srv.URL, render.WithLogger(zap.NewNop()))
	if err != nil {
		t.Fatalf("NewClient: %v", err)
	}
	cfg := config.Default()
	app := newServeApp(client, cfg, dir, true, zap.NewNop())

	get := func(path string) *httptest.ResponseRecorder {
		rec := httptest.NewRecorder()
		app.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, path, nil))
		return rec
	}

	t.Run("page is rendered", func(t *testing.T) {
		rec := get("/")
		if rec.Code != http.StatusOK {
			t.Fatalf("status = %d", rec.Code)
		}
		if rec.Body.String() != formatBodies[render.FormatHTML] {
			t.Errorf("body = %q", rec.Body)
		}
		if rec.Header().Get(render.HeaderSSR) != "1" {
			t.Error("expected X-SSR: 1")
		}
		if rec.Header().Get("X-Request-Id") == "" {
			t.Error("expected a request id")
		}
	})

	t.Run("second request hits the cache", func(t *testing.T) {
		_, before := fake.lastRequest()
		rec := get("/")
		_, after := fake.lastRequest()
		if after != before {
			t.Errorf("render calls went from %d to %d, want a cache hit", before, after)
		}
		if rec.Header().Get(render.HeaderSSRCacheHit) == "" {
			t.Error("expected the cache hit header")
		}
	})

	t.Run("assets pass through", func(t *testing.T) {
		rec := get("/site.css")
		if rec.Body.String() != files["site.css"] {
			t.Errorf("body = %q", rec.Body)
		}
		if rec.Header().Get(render.HeaderSSR) != "" {
			t.Error("assets must not go through SSR")
		}
	})
}

func TestIsPage(t *testing.T) {
	t.Parallel()

	tests := map[string]bool{
		"/":             true,
		"/docs/":        true,
		"/about":        true,
		"/index.html":   true,
		"/old/page.HTM": true,
		"/app.js":       false,
		"/img/logo.png": false,
	}
	for p, want := range tests {
		if got := isPage(p); got != want {
			t.Errorf("isPage(%q) = %v, want %v", p, got, want)
		}
	}
}
