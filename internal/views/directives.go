package views

import "github.com/flosch/pongo2/v6"

// DirectivePrefix is prepended to every directive name.
const DirectivePrefix = "pdf_"

// directiveMarkup holds the markup each directive expands to. The span
// classes are the ones Chromium fills in header and footer templates.
var directiveMarkup = map[string]string{
	"date":                    `<span class="date"></span>`,
	"title":                   `<span class="title"></span>`,
	"url":                     `<span class="url"></span>`,
	"page_number":             `<span class="pageNumber"></span>`,
	"total_pages":             `<span class="totalPages"></span>`,
	"page_break":              `<div style="page-break-after: always"></div>`,
	"page_break_before":       `<div style="page-break-before: always"></div>`,
	"page_break_before_avoid": `<div style="page-break-before: avoid"></div>`,
	"page_break_after":        `<div style="page-break-after: always"></div>`,
	"page_break_after_avoid":  `<div style="page-break-after: avoid"></div>`,
}

// Directives returns the pdf_* helpers as pongo2 globals. Each one is a
// zero-argument function returning safe markup, used as {{ pdf_page_number() }}.
func Directives() map[string]any {
	out := make(map[string]any, len(directiveMarkup))
	for name, markup := range directiveMarkup {
		out[DirectivePrefix+name] = directive(markup)
	}
	return out
}

// Directive returns the markup for a directive name, with or without prefix.
func Directive(name string) (string, bool) {
	if len(name) > len(DirectivePrefix) && name[:len(DirectivePrefix)] == DirectivePrefix {
		name = name[len(DirectivePrefix):]
	}
	markup, ok := directiveMarkup[name]
	return markup, ok
}

func directive(markup string) func() *pongo2.Value {
	return func() *pongo2.Value {
		return pongo2.AsSafeValue(markup)
	}
}
