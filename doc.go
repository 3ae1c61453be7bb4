// Package render drives a remote headless-browser render service.
//
// # Quick Start
//
// Create a client, describe a render, and pick an output:
//
//	client, err := render.NewClient("https://api.example.com",
//	    render.WithBasicAuth(user, password),
//	    render.WithCache(render.NewMemoryCache()),
//	)
//	if err != nil {
//	    log.Fatal(err)
//	}
//
//	pdf, err := client.FromURL(render.FormatPDF, "https://example.com/invoice/42").
//	    PaperFormat(render.PaperA4).
//	    Margin("2cm", "1cm").
//	    Author("Billing").
//	    Blob(ctx)
//
// # Outputs
//
// Every renderer yields its result in one of these shapes:
//
//	Blob       rendered bytes (inline mode)
//	Stream     reader backed by a temp file, removed on Close
//	Response   HTTP-shaped result with X-SSR headers
//	Download   Response with an attachment disposition
//	Link       URL of an artifact kept by the service (reference mode)
//
// A Renderer is also an http.Handler and marshals to JSON as its link.
//
// # Options
//
// Setters never fail. Keys that do not apply to the format are ignored,
// invalid values are dropped and quality is clamped. A few options exclude
// each other: a paper format clears width and height and vice versa, and
// full page capture clears a clip rectangle and vice versa.
//
// # Caching
//
// With WithCache, reference renders are cached forever under a digest of
// the request, so identical renders reuse one artifact. Concurrent identical
// renders inside one process share a single remote call.
//
// # Errors
//
// Failed renders return *RenderError, classified against the Chromium
// network error catalog:
//
//	var rerr *render.RenderError
//	if errors.As(err, &rerr) {
//	    fmt.Println(rerr.Message, rerr.Detail())
//	}
//
// Failures below HTTP wrap ErrRequest and are not classified.
//
// # Server-side rendering
//
// SSR and EchoSSR wrap handlers and re-render their HTML through the
// service, optionally caching whole responses per request identity.
package render
