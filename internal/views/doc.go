// Package views resolves and renders pongo2 views for the renderer.
//
// # Resolution
//
// A view name is a dotted path relative to the views directory:
//
//	invoice          -> {dir}/invoice{ext}
//	emails.welcome   -> {dir}/emails/welcome{ext}
//
// Each caller passes an ordered list of extensions. The first existing file
// wins, so format-specific extensions are listed before generic ones:
//
//	MJMLExtensions    .mjml.tpl, .mjml
//	HTMLExtensions    .html.tpl, .tpl, .html
//
// Names are validated segment by segment and the resolved path must stay
// inside the views directory, symlinks included.
//
// # Engine
//
// Engine wraps a pongo2 template set rooted at the views directory. Every
// template sees the pdf_* directives as globals (see Directives). Output is
// buffered and only returned when evaluation succeeds.
package views
