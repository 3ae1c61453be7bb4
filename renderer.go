package render

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/alnah/go-render/internal/pdfmeta"
)

// Renderer accumulates one render request. Setters return the renderer for
// chaining and never fail: values that do not apply to the format or are out
// of range are ignored or clamped. A Renderer is not safe for concurrent
// configuration; its outputs may be called concurrently once configured.
type Renderer struct {
	client  *Client
	variant *variant
	url     string
	cache   bool
	options Options
	tags    pdfmeta.Tags

	// blob short-circuits inline fetches with precomputed output.
	blob []byte
	// err is reported by every output method.
	err error
}

func newRenderer(c *Client, format Format, target string) *Renderer {
	v, ok := variants[format]
	if !ok {
		return &Renderer{client: c, err: fmt.Errorf("%w: %q", ErrInvalidFormat, format)}
	}
	r := &Renderer{
		client:  c,
		variant: v,
		url:     target,
		cache:   true,
		tags:    pdfmeta.Tags{},
	}
	r.DevicePixelRatio(defaultDPI)
	r.Timeout(defaultTimeout)
	if v.defaults != nil {
		v.defaults(r)
	}
	return r
}

// Format returns the renderer's output format.
func (r *Renderer) Format() Format {
	if r.variant == nil {
		return ""
	}
	return r.variant.format
}

// URL returns the render target.
func (r *Renderer) URL() string {
	return r.url
}

// Err returns the configuration error recorded on the renderer, if any.
func (r *Renderer) Err() error {
	return r.err
}

// Options returns a copy of the current options.
func (r *Renderer) Options() Options {
	return r.options.Clone()
}

// Option returns the value stored under key.
func (r *Renderer) Option(key string) (any, bool) {
	return r.options.Get(key)
}

// SetOption stores value under key, or removes key when value is nil.
// Typed keys that do not apply to the format are ignored.
func (r *Renderer) SetOption(key string, value any) *Renderer {
	if r.variant == nil || !r.variant.applies(key) {
		return r
	}
	r.options.Set(key, value)
	return r
}

func (r *Renderer) has(key string) bool {
	v, ok := r.options.Get(key)
	if !ok {
		return false
	}
	switch t := v.(type) {
	case bool:
		return t
	case int:
		return t != 0
	case string:
		return t != ""
	}
	return true
}

// Cache toggles result caching for reference renders. Default true.
func (r *Renderer) Cache(enabled bool) *Renderer {
	r.cache = enabled
	return r
}

// DevicePixelRatio sets the viewport device pixel ratio. Default 1.
func (r *Renderer) DevicePixelRatio(ratio float64) *Renderer {
	return r.SetOption("dpi", ratio)
}

// Timeout sets the remote render timeout, sent in milliseconds.
func (r *Renderer) Timeout(d time.Duration) *Renderer {
	return r.SetOption("timeout", int(d/time.Millisecond))
}

// WaitUntilLoaded waits for the load event.
func (r *Renderer) WaitUntilLoaded() *Renderer {
	return r.SetOption("waitUntil", WaitLoad)
}

// WaitUntilDOMContentLoaded waits for the DOMContentLoaded event.
func (r *Renderer) WaitUntilDOMContentLoaded() *Renderer {
	return r.SetOption("waitUntil", WaitDOMContentLoaded)
}

// WaitUntilNetworkIdle waits until there are no network connections for 500ms.
func (r *Renderer) WaitUntilNetworkIdle() *Renderer {
	return r.SetOption("waitUntil", WaitNetworkIdle)
}

// WaitUntilNetworkSettled waits until there are at most two network
// connections for 500ms.
func (r *Renderer) WaitUntilNetworkSettled() *Renderer {
	return r.SetOption("waitUntil", WaitNetworkSettled)
}

// PaperFormat sets a named paper size and clears width and height.
// Unknown names are ignored.
func (r *Renderer) PaperFormat(p PaperFormat) *Renderer {
	if r.variant == nil || !r.variant.applies("format") || !isPaperFormat(p) {
		return r
	}
	if r.has("width") || r.has("height") {
		r.SetOption("width", nil)
		r.SetOption("height", nil)
	}
	return r.SetOption("format", string(p))
}

// Width sets the page width in pixels (PDF) or the viewport width (images).
// On a PDF it clears any paper format, mirroring the value into the height
// when no height was set.
func (r *Renderer) Width(px int) *Renderer {
	if r.has("format") {
		r.SetOption("format", nil)
		if !r.has("height") {
			r.SetOption("height", px)
		}
	}
	return r.SetOption("width", px)
}

// Height sets the page height in pixels (PDF) or the viewport height
// (images). See Width for the paper format interaction.
func (r *Renderer) Height(px int) *Renderer {
	if r.has("format") {
		r.SetOption("format", nil)
		if !r.has("width") {
			r.SetOption("width", px)
		}
	}
	return r.SetOption("height", px)
}

// Margin sets page margins using CSS shorthand with 1 to 4 values. Values
// are numbers or strings; bare numbers get the default unit. Any other arity
// is ignored.
func (r *Renderer) Margin(values ...any) *Renderer {
	switch len(values) {
	case 1:
		return r.margins(values[0], values[0], values[0], values[0])
	case 2:
		return r.margins(values[0], values[1], values[0], values[1])
	case 3:
		return r.margins(values[0], values[1], values[2], nil)
	case 4:
		return r.margins(values[0], values[1], values[2], values[3])
	}
	return r
}

func (r *Renderer) margins(top, right, bottom, left any) *Renderer {
	if top != nil {
		r.MarginTop(top, DefaultUnit)
	}
	if right != nil {
		r.MarginRight(right, DefaultUnit)
	}
	if bottom != nil {
		r.MarginBottom(bottom, DefaultUnit)
	}
	if left != nil {
		r.MarginLeft(left, DefaultUnit)
	}
	return r
}

// MarginTop sets the top margin. An empty unit means centimetres.
func (r *Renderer) MarginTop(value any, unit Unit) *Renderer {
	return r.setMargin(func(m *Margin, v string) { m.Top = v }, value, unit)
}

// MarginRight sets the right margin.
func (r *Renderer) MarginRight(value any, unit Unit) *Renderer {
	return r.setMargin(func(m *Margin, v string) { m.Right = v }, value, unit)
}

// MarginBottom sets the bottom margin.
func (r *Renderer) MarginBottom(value any, unit Unit) *Renderer {
	return r.setMargin(func(m *Margin, v string) { m.Bottom = v }, value, unit)
}

// MarginLeft sets the left margin.
func (r *Renderer) MarginLeft(value any, unit Unit) *Renderer {
	return r.setMargin(func(m *Margin, v string) { m.Left = v }, value, unit)
}

func (r *Renderer) setMargin(assign func(*Margin, string), value any, unit Unit) *Renderer {
	s, ok := formatLength(value)
	if !ok {
		return r
	}
	var m Margin
	if cur, ok := r.options.Get("margin"); ok {
		m = cur.(Margin)
	}
	assign(&m, appendUnit(s, unit))
	return r.SetOption("margin", m)
}

// formatLength renders a margin value given as a number or string.
func formatLength(v any) (string, bool) {
	switch n := v.(type) {
	case string:
		return n, n != ""
	case int:
		return strconv.Itoa(n), true
	case int64:
		return strconv.FormatInt(n, 10), true
	case float64:
		return strconv.FormatFloat(n, 'f', -1, 64), true
	case float32:
		return strconv.FormatFloat(float64(n), 'f', -1, 32), true
	}
	return "", false
}

// EmulatedMedia sets the CSS media type, "screen" or "print". An empty
// string removes it; other values are ignored.
func (r *Renderer) EmulatedMedia(media string) *Renderer {
	switch media {
	case "":
		return r.SetOption("emulatedMedia", nil)
	case MediaScreen, MediaPrint:
		return r.SetOption("emulatedMedia", media)
	}
	return r
}

// DisplayHeaderFooter toggles the print header and footer.
func (r *Renderer) DisplayHeaderFooter(display bool) *Renderer {
	return r.SetOption("displayHeaderFooter", display)
}

// HeaderTemplate sets the print header markup and enables header display.
func (r *Renderer) HeaderTemplate(html string) *Renderer {
	if !r.variant.applies("headerTemplate") {
		return r
	}
	r.DisplayHeaderFooter(true)
	return r.SetOption("headerTemplate", html)
}

// FooterTemplate sets the print footer markup and enables footer display.
func (r *Renderer) FooterTemplate(html string) *Renderer {
	if !r.variant.applies("footerTemplate") {
		return r
	}
	r.DisplayHeaderFooter(true)
	return r.SetOption("footerTemplate", html)
}

// PageRange is an inclusive page interval. To of zero means a single page.
type PageRange struct {
	From int
	To   int
}

// Page selects a single page.
func Page(n int) PageRange { return PageRange{From: n} }

// Pages selects pages from through to.
func Pages(from, to int) PageRange { return PageRange{From: from, To: to} }

func (p PageRange) String() string {
	if p.To == 0 || p.To == p.From {
		return strconv.Itoa(p.From)
	}
	return strconv.Itoa(p.From) + "-" + strconv.Itoa(p.To)
}

// PageRanges limits printing to the given pages, e.g. 1-5, 8, 11-13.
// No ranges removes the option.
func (r *Renderer) PageRanges(ranges ...PageRange) *Renderer {
	if len(ranges) == 0 {
		return r.SetOption("pageRanges", nil)
	}
	parts := make([]string, len(ranges))
	for i, p := range ranges {
		parts[i] = p.String()
	}
	return r.SetOption("pageRanges", strings.Join(parts, ", "))
}

// PrintBackground toggles background graphics.
func (r *Renderer) PrintBackground(enabled bool) *Renderer {
	return r.SetOption("printBackground", enabled)
}

// PreferCSSPageSize lets @page size win over the paper format.
func (r *Renderer) PreferCSSPageSize(enabled bool) *Renderer {
	return r.SetOption("preferCSSPageSize", enabled)
}

// Landscape toggles paper orientation.
func (r *Renderer) Landscape(enabled bool) *Renderer {
	return r.SetOption("landscape", enabled)
}

// Scale sets the rendering scale.
func (r *Renderer) Scale(scale float64) *Renderer {
	return r.SetOption("scale", scale)
}

// FullPage captures the whole scrollable page and clears any clip.
func (r *Renderer) FullPage(enabled bool) *Renderer {
	if !r.variant.applies("fullPage") {
		return r
	}
	if r.has("clip") {
		r.SetOption("clip", nil)
	}
	return r.SetOption("fullPage", enabled)
}

// Clip captures the given rectangle and turns full page capture off.
func (r *Renderer) Clip(x, y, width, height int) *Renderer {
	if !r.variant.applies("clip") {
		return r
	}
	if r.has("fullPage") {
		r.SetOption("fullPage", false)
	}
	return r.SetOption("clip", Clip{X: x, Y: y, Width: width, Height: height})
}

// Selector captures the element matching a CSS selector.
func (r *Renderer) Selector(css string) *Renderer {
	return r.SetOption("selector", css)
}

// ViewportWidth sets the screenshot viewport width. Zero means 1920.
func (r *Renderer) ViewportWidth(px int) *Renderer {
	if r.variant == nil || !r.variant.image {
		return r
	}
	if px <= 0 {
		px = defaultViewportWidth
	}
	return r.SetOption("width", px)
}

// ViewportHeight sets the screenshot viewport height. Zero means 1080.
func (r *Renderer) ViewportHeight(px int) *Renderer {
	if r.variant == nil || !r.variant.image {
		return r
	}
	if px <= 0 {
		px = defaultViewportHeight
	}
	return r.SetOption("height", px)
}

// Transparent omits the default white background (PNG).
func (r *Renderer) Transparent(enabled bool) *Renderer {
	return r.SetOption("omitBackground", enabled)
}

// Quality sets JPEG quality, clamped to 0..100.
func (r *Renderer) Quality(q int) *Renderer {
	q = max(0, min(100, q))
	return r.SetOption("quality", q)
}
