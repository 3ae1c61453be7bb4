package main

import (
	"fmt"
	"io"
	"strconv"
	"strings"
	"time"

	flag "github.com/spf13/pflag"

	render "github.com/alnah/go-render"
	"github.com/alnah/go-render/internal/dateutil"
)

// commonFlags holds flags shared across commands.
type commonFlags struct {
	config  string
	envFile string
	service string
	quiet   bool
	verbose bool
}

// sourceFlags select what is rendered.
type sourceFlags struct {
	format string
	appURL string
	views  string
	view   string
	vars   map[string]string
}

// pageFlags holds PDF layout flags.
type pageFlags struct {
	paper             string
	width             int
	height            int
	margin            string
	landscape         bool
	media             string
	header            string
	footer            string
	pageRanges        string
	scale             float64
	background        bool
	preferCSSPageSize bool
}

// imageFlags holds screenshot flags.
type imageFlags struct {
	fullPage    bool
	selector    string
	quality     int
	transparent bool
}

// metaFlags holds PDF metadata flags.
type metaFlags struct {
	title    string
	author   string
	subject  string
	keywords []string
	created  string
	modified string
}

// renderFlags holds all flags for the render and link commands.
type renderFlags struct {
	common    commonFlags
	source    sourceFlags
	page      pageFlags
	image     imageFlags
	meta      metaFlags
	output    string
	dpi       float64
	timeout   time.Duration
	waitUntil string
	noCache   bool

	// set reports whether a flag was given on the command line.
	set func(name string) bool
}

// addCommonFlags adds common flags to a FlagSet.
func addCommonFlags(fs *flag.FlagSet, f *commonFlags) {
	fs.StringVarP(&f.config, "config", "c", "", "config file name or path")
	fs.StringVar(&f.envFile, "env-file", ".env", "dotenv file loaded before the environment")
	fs.StringVarP(&f.service, "service", "s", "", "render service base URL")
	fs.BoolVarP(&f.quiet, "quiet", "q", false, "only show errors")
	fs.BoolVarP(&f.verbose, "verbose", "v", false, "debug logging")
}

func addSourceFlags(fs *flag.FlagSet, f *sourceFlags) {
	fs.StringVarP(&f.format, "format", "f", string(render.FormatPDF), "output format: html, pdf, png, jpg, mjml")
	fs.StringVar(&f.appURL, "app-url", "", "base URL for relative targets")
	fs.StringVar(&f.views, "views", "", "views directory")
	fs.StringVar(&f.view, "view", "", "render a view by dotted name instead of a target")
	fs.StringToStringVar(&f.vars, "var", nil, "view variable key=value (repeatable)")
}

func addPageFlags(fs *flag.FlagSet, f *pageFlags) {
	fs.StringVarP(&f.paper, "paper", "p", "", "paper format: A0-A6, Letter, Legal, Tabloid, Ledger")
	fs.IntVar(&f.width, "width", 0, "page or viewport width in pixels")
	fs.IntVar(&f.height, "height", 0, "page or viewport height in pixels")
	fs.StringVar(&f.margin, "margin", "", "margins as CSS shorthand: \"1cm\" or \"1cm,2cm\"")
	fs.BoolVar(&f.landscape, "landscape", false, "landscape orientation")
	fs.StringVar(&f.media, "media", "", "emulated media: screen, print")
	fs.StringVar(&f.header, "header", "", "print header HTML")
	fs.StringVar(&f.footer, "footer", "", "print footer HTML")
	fs.StringVar(&f.pageRanges, "pages", "", "page ranges, e.g. 1-5,8")
	fs.Float64Var(&f.scale, "scale", 0, "rendering scale")
	fs.BoolVar(&f.background, "background", false, "print background graphics")
	fs.BoolVar(&f.preferCSSPageSize, "css-page-size", false, "let CSS @page size win")
}

func addImageFlags(fs *flag.FlagSet, f *imageFlags) {
	fs.BoolVar(&f.fullPage, "full-page", false, "capture the full scrollable page")
	fs.StringVar(&f.selector, "selector", "", "capture the element matching a CSS selector")
	fs.IntVar(&f.quality, "quality", 0, "JPEG quality (0-100)")
	fs.BoolVar(&f.transparent, "transparent", false, "omit the white background (png)")
}

func addMetaFlags(fs *flag.FlagSet, f *metaFlags) {
	fs.StringVar(&f.title, "title", "", "PDF title")
	fs.StringVar(&f.author, "author", "", "PDF author")
	fs.StringVar(&f.subject, "subject", "", "PDF subject")
	fs.StringSliceVar(&f.keywords, "keywords", nil, "PDF keywords (comma-separated)")
	fs.StringVar(&f.created, "created", "", "PDF creation date: now, YYYY-MM-DD or RFC 3339")
	fs.StringVar(&f.modified, "modified", "", "PDF modification date")
}

// parseRenderFlags parses render or link flags and returns positional args.
func parseRenderFlags(name string, args []string, stderr io.Writer) (*renderFlags, []string, error) {
	fs := flag.NewFlagSet(name, flag.ContinueOnError)
	fs.SetOutput(io.Discard)
	f := &renderFlags{}

	fs.StringVarP(&f.output, "output", "o", "", "output file (\"-\" = stdout)")
	fs.Float64Var(&f.dpi, "dpi", 0, "device pixel ratio")
	fs.DurationVarP(&f.timeout, "timeout", "t", 0, "remote render timeout (e.g. 30s)")
	fs.StringVar(&f.waitUntil, "wait-until", "", "load, domcontentloaded, networkidle, networksettled")
	fs.BoolVar(&f.noCache, "no-cache", false, "bypass the render cache")

	addCommonFlags(fs, &f.common)
	addSourceFlags(fs, &f.source)
	addPageFlags(fs, &f.page)
	addImageFlags(fs, &f.image)
	addMetaFlags(fs, &f.meta)

	if err := fs.Parse(args); err != nil {
		printRenderUsage(stderr, name)
		return nil, nil, fmt.Errorf("%w: %v", ErrUsage, err)
	}
	f.set = fs.Changed
	return f, fs.Args(), nil
}

// waitUntilValues maps CLI spellings to wire values.
var waitUntilValues = map[string]string{
	"load":             render.WaitLoad,
	"domcontentloaded": render.WaitDOMContentLoaded,
	"networkidle":      render.WaitNetworkIdle,
	"networkidle0":     render.WaitNetworkIdle,
	"networksettled":   render.WaitNetworkSettled,
	"networkidle2":     render.WaitNetworkSettled,
}

// apply copies the given flags onto r. Flags left at their zero value are
// not applied, so renderer defaults stay in place. now resolves "now" in
// date flags.
func (f *renderFlags) apply(r *render.Renderer, now time.Time) error {
	if f.dpi > 0 {
		r.DevicePixelRatio(f.dpi)
	}
	if f.timeout > 0 {
		r.Timeout(f.timeout)
	}
	if f.waitUntil != "" {
		v, ok := waitUntilValues[strings.ToLower(f.waitUntil)]
		if !ok {
			return fmt.Errorf("%w: --wait-until %q", ErrUsage, f.waitUntil)
		}
		r.SetOption("waitUntil", v)
	}
	if f.noCache {
		r.Cache(false)
	}

	p := f.page
	if p.paper != "" {
		r.PaperFormat(render.PaperFormat(p.paper))
	}
	if r.Format() == render.FormatPNG || r.Format() == render.FormatJPG {
		if p.width > 0 {
			r.ViewportWidth(p.width)
		}
		if p.height > 0 {
			r.ViewportHeight(p.height)
		}
	} else {
		if p.width > 0 {
			r.Width(p.width)
		}
		if p.height > 0 {
			r.Height(p.height)
		}
	}
	if p.margin != "" {
		values := strings.Split(p.margin, ",")
		if len(values) > 4 {
			return fmt.Errorf("%w: --margin takes 1 to 4 values", ErrUsage)
		}
		args := make([]any, len(values))
		for i, v := range values {
			args[i] = strings.TrimSpace(v)
		}
		r.Margin(args...)
	}
	if f.set("landscape") {
		r.Landscape(p.landscape)
	}
	if p.media != "" {
		r.EmulatedMedia(p.media)
	}
	if p.header != "" {
		r.HeaderTemplate(p.header)
	}
	if p.footer != "" {
		r.FooterTemplate(p.footer)
	}
	if p.pageRanges != "" {
		ranges, err := parsePageRanges(p.pageRanges)
		if err != nil {
			return err
		}
		r.PageRanges(ranges...)
	}
	if p.scale > 0 {
		r.Scale(p.scale)
	}
	if f.set("background") {
		r.PrintBackground(p.background)
	}
	if f.set("css-page-size") {
		r.PreferCSSPageSize(p.preferCSSPageSize)
	}

	img := f.image
	if f.set("full-page") {
		r.FullPage(img.fullPage)
	}
	if img.selector != "" {
		r.Selector(img.selector)
	}
	if f.set("quality") {
		r.Quality(img.quality)
	}
	if f.set("transparent") {
		r.Transparent(img.transparent)
	}

	m := f.meta
	if m.title != "" {
		r.Title(m.title)
	}
	if m.author != "" {
		r.Author(m.author)
	}
	if m.subject != "" {
		r.Description(m.subject)
	}
	if len(m.keywords) > 0 {
		r.Keywords(m.keywords...)
	}
	if m.created != "" {
		t, err := dateutil.ParseDate(m.created, now)
		if err != nil {
			return fmt.Errorf("%w: --created: %v", ErrUsage, err)
		}
		r.Created(t)
	}
	if m.modified != "" {
		t, err := dateutil.ParseDate(m.modified, now)
		if err != nil {
			return fmt.Errorf("%w: --modified: %v", ErrUsage, err)
		}
		r.Modified(t)
	}
	return nil
}

// parsePageRanges parses "1-5, 8, 11-13".
func parsePageRanges(s string) ([]render.PageRange, error) {
	var ranges []render.PageRange
	for _, part := range strings.Split(s, ",") {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		from, to, isRange := strings.Cut(part, "-")
		start, err := strconv.Atoi(strings.TrimSpace(from))
		if err != nil || start < 1 {
			return nil, fmt.Errorf("%w: invalid page range %q", ErrUsage, part)
		}
		if !isRange {
			ranges = append(ranges, render.Page(start))
			continue
		}
		end, err := strconv.Atoi(strings.TrimSpace(to))
		if err != nil || end < start {
			return nil, fmt.Errorf("%w: invalid page range %q", ErrUsage, part)
		}
		ranges = append(ranges, render.Pages(start, end))
	}
	return ranges, nil
}
