package views

import "errors"

// Sentinel errors for view operations.
var (
	// ErrViewNotFound indicates no file matched the view name and extensions.
	ErrViewNotFound = errors.New("view not found")

	// ErrInvalidViewName indicates the view name is empty or contains path
	// separators or empty segments.
	ErrInvalidViewName = errors.New("invalid view name")

	// ErrInvalidBasePath indicates the views directory is not a readable directory.
	ErrInvalidBasePath = errors.New("invalid views directory")

	// ErrPathTraversal indicates a resolved view path escapes the views directory.
	ErrPathTraversal = errors.New("path traversal detected")

	// ErrTemplateParse indicates the view source could not be compiled.
	ErrTemplateParse = errors.New("template parse failed")

	// ErrTemplateEval indicates the compiled view failed during evaluation.
	ErrTemplateEval = errors.New("template evaluation failed")
)
