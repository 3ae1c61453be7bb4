package render

import (
	"encoding/base64"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"
)

// fakeService is an in-process render service. Inline calls echo the
// decoded data URI (or the replacement body); reference calls answer a
// numbered artifact URL.
type fakeService struct {
	mu       sync.Mutex
	calls    int
	requests []RenderRequest
	users    []string

	// body and contentType replace the inline answer when set.
	body        []byte
	contentType string
	// status and errBody make every render call fail.
	status  int
	errBody string
	errType string
	// delay holds each render call.
	delay time.Duration
	// chromium is returned by the status endpoint.
	chromium string
}

func newFakeService(t *testing.T) (*fakeService, *httptest.Server) {
	t.Helper()
	f := &fakeService{chromium: "120.0.6099.109"}
	mux := http.NewServeMux()
	mux.HandleFunc("POST /foundation/pdf", f.render)
	mux.HandleFunc("GET /foundation/pdf/status", func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = fmt.Fprintf(w, `{"chromium":%q}`, f.chromium)
	})
	srv := httptest.NewServer(mux)
	t.Cleanup(srv.Close)
	return f, srv
}

func (f *fakeService) render(w http.ResponseWriter, r *http.Request) {
	var req RenderRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	user, _, _ := r.BasicAuth()

	f.mu.Lock()
	f.calls++
	n := f.calls
	f.requests = append(f.requests, req)
	f.users = append(f.users, user)
	f.mu.Unlock()

	if f.delay > 0 {
		time.Sleep(f.delay)
	}

	if f.status != 0 {
		ct := f.errType
		if ct == "" {
			ct = "application/json"
		}
		w.Header().Set("Content-Type", ct)
		w.WriteHeader(f.status)
		_, _ = w.Write([]byte(f.errBody))
		return
	}

	if !req.Fetch {
		w.Header().Set("Content-Type", "application/json")
		_, _ = fmt.Fprintf(w, `{"url":"https://cdn.test/artifacts/%d.%s"}`, n, req.Format)
		return
	}

	body, ct := f.body, f.contentType
	if body == nil {
		body = decodeDataURI(req.URL)
		ct = "text/html; charset=utf-8"
	}
	w.Header().Set("Content-Type", ct)
	_, _ = w.Write(body)
}

func (f *fakeService) callCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.calls
}

func (f *fakeService) lastRequest() RenderRequest {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.requests[len(f.requests)-1]
}

func decodeDataURI(u string) []byte {
	i := strings.Index(u, "base64,")
	if !strings.HasPrefix(u, "data:") || i < 0 {
		return []byte(u)
	}
	out, err := base64.StdEncoding.DecodeString(u[i+len("base64,"):])
	if err != nil {
		return nil
	}
	return out
}

var fixedNow = time.Date(2024, 3, 15, 10, 30, 0, 0, time.UTC)

func newTestClient(t *testing.T, srv *httptest.Server, opts ...Option) *Client {
	t.Helper()
	base := []Option{WithClock(func() time.Time { return fixedNow })}
	c, err := NewClient(srv.URL, append(base, opts...)...)
	if err != nil {
		t.Fatalf("NewClient() error = %v", err)
	}
	return c
}
