package chrome

// Notes:
// - Rendering against a real Chromium is not covered here; these tests pin
//   the option translation and the paths that return before a browser is
//   launched.
// - killProcessGroup is only called with a PID that cannot exist.

import (
	"context"
	"errors"
	"math"
	"runtime"
	"testing"

	"github.com/go-rod/rod/lib/proto"
	"github.com/google/go-cmp/cmp"

	render "github.com/alnah/go-render"
)

func ptr[T any](v T) *T { return &v }

func approx(a, b float64) bool { return math.Abs(a-b) < 1e-9 }

// ---------------------------------------------------------------------------
// TestLengthToInches
// ---------------------------------------------------------------------------

func TestLengthToInches(t *testing.T) {
	t.Parallel()

	tests := []struct {
		in      string
		want    float64
		wantErr bool
	}{
		{"1in", 1, false},
		{"2.54cm", 1, false},
		{"25.4mm", 1, false},
		{"96px", 1, false},
		{"48", 0.5, false},
		{" 1CM ", 1 / 2.54, false},
		{"", 0, true},
		{"abc", 0, true},
		{"-1cm", 0, true},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			t.Parallel()

			got, err := lengthToInches(tt.in)
			if tt.wantErr {
				if !errors.Is(err, ErrInvalidOption) {
					t.Fatalf("err = %v, want ErrInvalidOption", err)
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if !approx(got, tt.want) {
				t.Errorf("lengthToInches(%q) = %v, want %v", tt.in, got, tt.want)
			}
		})
	}
}

// ---------------------------------------------------------------------------
// TestWaitEvent
// ---------------------------------------------------------------------------

func TestWaitEvent(t *testing.T) {
	t.Parallel()

	tests := []struct {
		in   *string
		want proto.PageLifecycleEventName
	}{
		{nil, proto.PageLifecycleEventNameLoad},
		{ptr(render.WaitLoad), proto.PageLifecycleEventNameLoad},
		{ptr(render.WaitDOMContentLoaded), proto.PageLifecycleEventNameDOMContentLoaded},
		{ptr(render.WaitNetworkIdle), proto.PageLifecycleEventNameNetworkIdle},
		{ptr(render.WaitNetworkSettled), proto.PageLifecycleEventNameNetworkAlmostIdle},
		{ptr("bogus"), proto.PageLifecycleEventNameLoad},
	}

	for _, tt := range tests {
		if got := waitEvent(tt.in); got != tt.want {
			t.Errorf("waitEvent(%v) = %q, want %q", stringValue(tt.in), got, tt.want)
		}
	}
}

// ---------------------------------------------------------------------------
// TestViewport
// ---------------------------------------------------------------------------

func TestViewport(t *testing.T) {
	t.Parallel()

	opts := render.Options{DPI: ptr(2.0), Width: ptr(800), Height: ptr(600)}

	img := viewport(render.FormatPNG, opts)
	if img.Width != 800 || img.Height != 600 || img.DeviceScaleFactor != 2 {
		t.Errorf("png viewport = %+v, want 800x600 @2", img)
	}

	pdf := viewport(render.FormatPDF, opts)
	if pdf.Width != defaultViewportWidth || pdf.Height != defaultViewportHeight {
		t.Errorf("pdf viewport = %dx%d, want defaults", pdf.Width, pdf.Height)
	}

	bare := viewport(render.FormatJPG, render.Options{})
	if bare.DeviceScaleFactor != 1 {
		t.Errorf("DeviceScaleFactor = %v, want 1", bare.DeviceScaleFactor)
	}
}

// ---------------------------------------------------------------------------
// TestPrintParams
// ---------------------------------------------------------------------------

func TestPrintParams_PaperAndMargins(t *testing.T) {
	t.Parallel()

	got, err := printParams(render.Options{
		Format:          ptr("a4"),
		Margin:          &render.Margin{Top: "2.54cm", Right: "10mm", Bottom: "1in", Left: "48px"},
		Landscape:       ptr(true),
		PrintBackground: ptr(true),
		PageRanges:      ptr("1-5, 8"),
		Scale:           ptr(1.5),
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	checks := map[string][2]float64{
		"PaperWidth":   {*got.PaperWidth, 8.27},
		"PaperHeight":  {*got.PaperHeight, 11.7},
		"MarginTop":    {*got.MarginTop, 1},
		"MarginRight":  {*got.MarginRight, 10 / 25.4},
		"MarginBottom": {*got.MarginBottom, 1},
		"MarginLeft":   {*got.MarginLeft, 0.5},
		"Scale":        {*got.Scale, 1.5},
	}
	for name, c := range checks {
		if !approx(c[0], c[1]) {
			t.Errorf("%s = %v, want %v", name, c[0], c[1])
		}
	}
	if !got.Landscape || !got.PrintBackground {
		t.Error("expected landscape and background")
	}
	if got.PageRanges != "1-5, 8" {
		t.Errorf("PageRanges = %q", got.PageRanges)
	}
	if got.DisplayHeaderFooter {
		t.Error("header/footer should be off by default")
	}
}

func TestPrintParams_PixelSizeOverridesPaper(t *testing.T) {
	t.Parallel()

	got, err := printParams(render.Options{Format: ptr("Letter"), Width: ptr(960), Height: ptr(480)})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !approx(*got.PaperWidth, 10) || !approx(*got.PaperHeight, 5) {
		t.Errorf("paper = %vx%v, want 10x5", *got.PaperWidth, *got.PaperHeight)
	}
	if got.MarginTop != nil {
		t.Errorf("MarginTop = %v, want unset", *got.MarginTop)
	}
}

func TestPrintParams_HeaderFooter(t *testing.T) {
	t.Parallel()

	got, err := printParams(render.Options{
		DisplayHeaderFooter: ptr(true),
		FooterTemplate:      ptr(`<span class="pageNumber"></span>`),
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	want := [3]any{true, "<span></span>", `<span class="pageNumber"></span>`}
	if diff := cmp.Diff(want, [3]any{got.DisplayHeaderFooter, got.HeaderTemplate, got.FooterTemplate}); diff != "" {
		t.Errorf("header/footer mismatch (-want +got):\n%s", diff)
	}
}

func TestPrintParams_Invalid(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		opts render.Options
	}{
		{"unknown paper", render.Options{Format: ptr("B5")}},
		{"bad margin", render.Options{Margin: &render.Margin{Top: "wide"}}},
		{"scale too small", render.Options{Scale: ptr(0.01)}},
		{"scale too large", render.Options{Scale: ptr(3.0)}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			if _, err := printParams(tt.opts); !errors.Is(err, ErrInvalidOption) {
				t.Errorf("err = %v, want ErrInvalidOption", err)
			}
		})
	}
}

// ---------------------------------------------------------------------------
// TestScreenshotParams
// ---------------------------------------------------------------------------

func TestScreenshotParams(t *testing.T) {
	t.Parallel()

	png := screenshotParams(render.FormatPNG, render.Options{Quality: ptr(50)})
	if png.Format != proto.PageCaptureScreenshotFormatPng || png.Quality != nil {
		t.Errorf("png params = %+v, want png without quality", png)
	}

	jpg := screenshotParams(render.FormatJPG, render.Options{})
	if jpg.Format != proto.PageCaptureScreenshotFormatJpeg || jpg.Quality == nil || *jpg.Quality != 100 {
		t.Errorf("jpg params = %+v, want jpeg quality 100", jpg)
	}

	clipped := screenshotParams(render.FormatPNG, render.Options{Clip: &render.Clip{X: 10, Y: 20, Width: 300, Height: 200}})
	want := &proto.PageViewport{X: 10, Y: 20, Width: 300, Height: 200, Scale: 1}
	if diff := cmp.Diff(want, clipped.Clip); diff != "" {
		t.Errorf("clip mismatch (-want +got):\n%s", diff)
	}

	empty := screenshotParams(render.FormatPNG, render.Options{Clip: &render.Clip{}})
	if empty.Clip != nil {
		t.Error("zero-size clip should be dropped")
	}
}

// ---------------------------------------------------------------------------
// TestResolveWorkers
// ---------------------------------------------------------------------------

func TestResolveWorkers(t *testing.T) {
	t.Parallel()

	auto := max(MinWorkers, min(MaxWorkers, runtime.GOMAXPROCS(0)/cpuDivisor))
	tests := []struct {
		in, want int
	}{
		{0, auto},
		{-3, auto},
		{1, 1},
		{4, 4},
		{64, MaxWorkers},
	}
	for _, tt := range tests {
		if got := ResolveWorkers(tt.in); got != tt.want {
			t.Errorf("ResolveWorkers(%d) = %d, want %d", tt.in, got, tt.want)
		}
	}
}

// ---------------------------------------------------------------------------
// TestBrowser - paths that never launch Chromium
// ---------------------------------------------------------------------------

func TestBrowser_RenderRejectsBeforeLaunch(t *testing.T) {
	t.Parallel()

	b := New(Config{})
	ctx := context.Background()

	if _, err := b.Render(ctx, render.RenderRequest{URL: "https://example.com", Format: render.FormatMJML}); !errors.Is(err, ErrUnsupportedFormat) {
		t.Errorf("mjml err = %v, want ErrUnsupportedFormat", err)
	}
	if _, err := b.Render(ctx, render.RenderRequest{Format: render.FormatPDF}); !errors.Is(err, ErrInvalidOption) {
		t.Errorf("empty url err = %v, want ErrInvalidOption", err)
	}
	if b.browser != nil {
		t.Error("browser should not have been launched")
	}
}

func TestBrowser_Closed(t *testing.T) {
	t.Parallel()

	b := New(Config{Workers: 1})
	if err := b.Close(); err != nil {
		t.Fatalf("Close() = %v", err)
	}

	_, err := b.Render(context.Background(), render.RenderRequest{URL: "https://example.com", Format: render.FormatPNG})
	if !errors.Is(err, ErrClosed) {
		t.Errorf("Render after Close err = %v, want ErrClosed", err)
	}
	if _, err := b.Version(context.Background()); !errors.Is(err, ErrClosed) {
		t.Errorf("Version after Close err = %v, want ErrClosed", err)
	}
}

func TestProductVersion(t *testing.T) {
	t.Parallel()

	if got := productVersion("HeadlessChrome/120.0.6099.109"); got != "120.0.6099.109" {
		t.Errorf("productVersion = %q", got)
	}
	if got := productVersion("custom"); got != "custom" {
		t.Errorf("productVersion = %q", got)
	}
}

func TestTruncate(t *testing.T) {
	t.Parallel()

	if got := truncate("abcdef", 3); got != "abc..." {
		t.Errorf("truncate = %q", got)
	}
	if got := truncate("abc", 3); got != "abc" {
		t.Errorf("truncate = %q", got)
	}
}

func TestKillProcessGroup_InvalidPID(t *testing.T) {
	t.Parallel()

	killProcessGroup(999999999)
	killProcessGroup(0)
}
