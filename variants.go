package render

import (
	"time"

	"github.com/alnah/go-render/internal/dateutil"
	"github.com/alnah/go-render/internal/pdfmeta"
)

// Data URI prefixes for inline markup.
const (
	htmlDataURIPrefix = "data:text/html;charset=utf-8;base64,"
	mjmlDataURIPrefix = "data:text/mjml;base64,"
)

// Defaults applied to every new renderer.
const (
	defaultDPI     = 1.0
	defaultTimeout = 60 * time.Second
	defaultMargin  = "1cm"

	defaultViewportWidth  = 1920
	defaultViewportHeight = 1080
)

// variant is the per-format strategy of a Renderer.
type variant struct {
	format        Format
	extension     string
	dataURIPrefix string
	image         bool
	keys          map[string]bool
	// postProcess rewrites inline payloads. Nil means bytes pass through.
	postProcess func(r *Renderer, body []byte, now time.Time) []byte
	// defaults seeds options and tags of a fresh renderer.
	defaults func(r *Renderer)
}

// applies reports whether key may be set on this variant.
func (v *variant) applies(key string) bool {
	if v == nil {
		return false
	}
	if _, typed := optionFields[key]; !typed {
		return true
	}
	return v.keys[key]
}

var commonKeys = []string{"dpi", "timeout", "waitUntil"}

var pdfKeys = []string{
	"format", "width", "height", "margin", "emulatedMedia",
	"displayHeaderFooter", "headerTemplate", "footerTemplate", "pageRanges",
	"printBackground", "preferCSSPageSize", "landscape", "scale",
}

var imageKeys = []string{"fullPage", "clip", "selector", "width", "height"}

func keySet(groups ...[]string) map[string]bool {
	set := map[string]bool{}
	for _, g := range groups {
		for _, k := range g {
			set[k] = true
		}
	}
	return set
}

var variants = map[Format]*variant{
	FormatHTML: {
		format:        FormatHTML,
		extension:     "html",
		dataURIPrefix: htmlDataURIPrefix,
		keys:          keySet(commonKeys),
	},
	FormatMJML: {
		format:        FormatMJML,
		extension:     "html",
		dataURIPrefix: mjmlDataURIPrefix,
		keys:          keySet(commonKeys),
	},
	FormatPDF: {
		format:        FormatPDF,
		extension:     "pdf",
		dataURIPrefix: htmlDataURIPrefix,
		keys:          keySet(commonKeys, pdfKeys),
		postProcess:   patchPDF,
		defaults: func(r *Renderer) {
			r.Margin(defaultMargin)
			r.Creator(r.client.creator)
			r.Application(r.client.producer)
		},
	},
	FormatPNG: {
		format:        FormatPNG,
		extension:     "png",
		dataURIPrefix: htmlDataURIPrefix,
		image:         true,
		keys:          keySet(commonKeys, imageKeys, []string{"omitBackground"}),
	},
	FormatJPG: {
		format:        FormatJPG,
		extension:     "jpg",
		dataURIPrefix: htmlDataURIPrefix,
		image:         true,
		keys:          keySet(commonKeys, imageKeys, []string{"quality"}),
	},
}

// patchPDF merges the renderer's document tags into the PDF. Dates default
// to now when the caller set at least one tag; with no tags the payload is
// returned untouched.
func patchPDF(r *Renderer, body []byte, now time.Time) []byte {
	if len(r.tags) == 0 {
		return body
	}
	tags := make(pdfmeta.Tags, len(r.tags)+2)
	for k, v := range r.tags {
		tags[k] = v
	}
	if tags[pdfmeta.TagCreationDate] == "" {
		tags[pdfmeta.TagCreationDate] = dateutil.FormatPDF(now)
	}
	if tags[pdfmeta.TagModDate] == "" {
		tags[pdfmeta.TagModDate] = dateutil.FormatPDF(now)
	}

	out, ok := pdfmeta.Patch(body, tags)
	if !ok {
		r.client.logger.Warn("pdf metadata not patched: dictionary anchors missing")
	}
	return out
}
