package chrome

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/go-rod/rod/lib/proto"

	render "github.com/alnah/go-render"
)

// Viewport defaults for screenshots and page layout.
const (
	defaultViewportWidth  = 1920
	defaultViewportHeight = 1080
)

// cssPixelsPerInch converts CSS pixels to the inches PagePrintToPDF expects.
const cssPixelsPerInch = 96.0

// paperSizes holds paper dimensions in inches, portrait.
var paperSizes = map[string][2]float64{
	"letter":  {8.5, 11},
	"legal":   {8.5, 14},
	"tabloid": {11, 17},
	"ledger":  {17, 11},
	"a0":      {33.1, 46.8},
	"a1":      {23.4, 33.1},
	"a2":      {16.54, 23.4},
	"a3":      {11.7, 16.54},
	"a4":      {8.27, 11.7},
	"a5":      {5.83, 8.27},
	"a6":      {4.13, 5.83},
}

var lengthUnits = []struct {
	suffix  string
	perInch float64
}{
	{"px", cssPixelsPerInch},
	{"in", 1},
	{"cm", 2.54},
	{"mm", 25.4},
}

// lengthToInches converts a CSS length ("1cm", "10mm", "0.5in", "24px" or a
// bare pixel count) to inches.
func lengthToInches(s string) (float64, error) {
	s = strings.TrimSpace(strings.ToLower(s))
	if s == "" {
		return 0, fmt.Errorf("%w: empty length", ErrInvalidOption)
	}
	divisor := cssPixelsPerInch
	number := s
	for _, u := range lengthUnits {
		if strings.HasSuffix(s, u.suffix) {
			divisor = u.perInch
			number = strings.TrimSuffix(s, u.suffix)
			break
		}
	}
	v, err := strconv.ParseFloat(strings.TrimSpace(number), 64)
	if err != nil || v < 0 {
		return 0, fmt.Errorf("%w: length %q", ErrInvalidOption, s)
	}
	return v / divisor, nil
}

// waitEvent maps a waitUntil value to the lifecycle event to wait for.
func waitEvent(waitUntil *string) proto.PageLifecycleEventName {
	if waitUntil == nil {
		return proto.PageLifecycleEventNameLoad
	}
	switch *waitUntil {
	case render.WaitDOMContentLoaded:
		return proto.PageLifecycleEventNameDOMContentLoaded
	case render.WaitNetworkIdle:
		return proto.PageLifecycleEventNameNetworkIdle
	case render.WaitNetworkSettled:
		return proto.PageLifecycleEventNameNetworkAlmostIdle
	}
	return proto.PageLifecycleEventNameLoad
}

// viewport builds the device metrics for a render.
func viewport(format render.Format, o render.Options) *proto.EmulationSetDeviceMetricsOverride {
	v := &proto.EmulationSetDeviceMetricsOverride{
		Width:             defaultViewportWidth,
		Height:            defaultViewportHeight,
		DeviceScaleFactor: 1,
	}
	if o.DPI != nil && *o.DPI > 0 {
		v.DeviceScaleFactor = *o.DPI
	}
	// On a PDF, width and height describe the paper, not the window.
	if format == render.FormatPNG || format == render.FormatJPG {
		if o.Width != nil && *o.Width > 0 {
			v.Width = *o.Width
		}
		if o.Height != nil && *o.Height > 0 {
			v.Height = *o.Height
		}
	}
	return v
}

// printParams converts PDF options to a print request. Paper sizes default
// to Letter, the browser's own default.
func printParams(o render.Options) (*proto.PagePrintToPDF, error) {
	req := &proto.PagePrintToPDF{}

	width, height := paperSizes["letter"][0], paperSizes["letter"][1]
	if o.Format != nil {
		size, ok := paperSizes[strings.ToLower(*o.Format)]
		if !ok {
			return nil, fmt.Errorf("%w: paper format %q", ErrInvalidOption, *o.Format)
		}
		width, height = size[0], size[1]
	}
	if o.Width != nil && *o.Width > 0 {
		width = float64(*o.Width) / cssPixelsPerInch
	}
	if o.Height != nil && *o.Height > 0 {
		height = float64(*o.Height) / cssPixelsPerInch
	}
	req.PaperWidth = floatPtr(width)
	req.PaperHeight = floatPtr(height)

	if m := o.Margin; m != nil {
		for _, side := range []struct {
			value string
			dst   **float64
		}{
			{m.Top, &req.MarginTop},
			{m.Right, &req.MarginRight},
			{m.Bottom, &req.MarginBottom},
			{m.Left, &req.MarginLeft},
		} {
			if side.value == "" {
				continue
			}
			in, err := lengthToInches(side.value)
			if err != nil {
				return nil, err
			}
			*side.dst = floatPtr(in)
		}
	}

	if o.Landscape != nil {
		req.Landscape = *o.Landscape
	}
	if o.PrintBackground != nil {
		req.PrintBackground = *o.PrintBackground
	}
	if o.PreferCSSPageSize != nil {
		req.PreferCSSPageSize = *o.PreferCSSPageSize
	}
	if o.Scale != nil {
		if *o.Scale < 0.1 || *o.Scale > 2 {
			return nil, fmt.Errorf("%w: scale %v outside 0.1..2", ErrInvalidOption, *o.Scale)
		}
		req.Scale = floatPtr(*o.Scale)
	}
	if o.PageRanges != nil {
		req.PageRanges = *o.PageRanges
	}
	if o.DisplayHeaderFooter != nil && *o.DisplayHeaderFooter {
		req.DisplayHeaderFooter = true
		// The browser prints its own date and title when a template is
		// missing; an empty span suppresses that.
		req.HeaderTemplate = "<span></span>"
		req.FooterTemplate = "<span></span>"
		if o.HeaderTemplate != nil {
			req.HeaderTemplate = *o.HeaderTemplate
		}
		if o.FooterTemplate != nil {
			req.FooterTemplate = *o.FooterTemplate
		}
	}
	return req, nil
}

// screenshotParams converts image options to a capture request.
func screenshotParams(format render.Format, o render.Options) *proto.PageCaptureScreenshot {
	req := &proto.PageCaptureScreenshot{Format: proto.PageCaptureScreenshotFormatPng}
	if format == render.FormatJPG {
		req.Format = proto.PageCaptureScreenshotFormatJpeg
		q := 100
		if o.Quality != nil {
			q = *o.Quality
		}
		req.Quality = &q
	}
	if c := o.Clip; c != nil && c.Width > 0 && c.Height > 0 {
		req.Clip = &proto.PageViewport{
			X:      float64(c.X),
			Y:      float64(c.Y),
			Width:  float64(c.Width),
			Height: float64(c.Height),
			Scale:  1,
		}
	}
	return req
}

func floatPtr(v float64) *float64 {
	return &v
}

func boolValue(p *bool) bool {
	return p != nil && *p
}

func stringValue(p *string) string {
	if p == nil {
		return ""
	}
	return *p
}
