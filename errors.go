package render

import (
	"errors"
	"fmt"

	"github.com/alnah/go-render/internal/classify"
	"github.com/alnah/go-render/internal/tmplcache"
	"github.com/alnah/go-render/internal/views"
)

// Sentinel errors for library operations.
var (
	ErrInvalidFormat      = errors.New("invalid render format")
	ErrInvalidBaseURL     = errors.New("invalid render service URL")
	ErrRemoteRender       = errors.New("remote render failed")
	ErrUnexpectedResponse = errors.New("unexpected render service response")
	ErrRequest            = errors.New("render request failed")
	ErrMetrics            = errors.New("metrics registration failed")

	// View errors.
	ErrNoViews       = errors.New("views directory not configured")
	ErrViewNotFound  = views.ErrViewNotFound
	ErrTemplateParse = views.ErrTemplateParse
	ErrTemplateEval  = views.ErrTemplateEval
	ErrMJMLCompile   = tmplcache.ErrCompile
)

// RenderError is a failed render as reported by the remote service, after
// classification against the Chromium error catalog.
type RenderError struct {
	StatusCode int
	// Code is the matched catalog code or the service's error category.
	Code string
	// Message is the short category, or the full browser error text when
	// a catalog code matched.
	Message string
	// Description is the operator hint, nil when there is none.
	Description *string
	// DocsURL points at the renderer documentation.
	DocsURL string
}

func newRenderError(status int, body []byte, contentType string) *RenderError {
	res := classify.Classify(body, contentType)
	return &RenderError{
		StatusCode:  status,
		Code:        res.Code,
		Message:     res.Message,
		Description: res.Description,
		DocsURL:     classify.DocsURL,
	}
}

func (e *RenderError) Error() string {
	if e.Message == "" {
		return fmt.Sprintf("remote render failed with status %d", e.StatusCode)
	}
	return e.Message
}

// Unwrap makes errors.Is(err, ErrRemoteRender) match.
func (e *RenderError) Unwrap() error {
	return ErrRemoteRender
}

// Detail returns the description, or an empty string.
func (e *RenderError) Detail() string {
	if e.Description == nil {
		return ""
	}
	return *e.Description
}
