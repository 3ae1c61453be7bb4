package views

import (
	"bytes"
	"fmt"
	"os"
	"sync"
	"time"

	"github.com/flosch/pongo2/v6"
)

// Option configures an Engine.
type Option func(*Engine)

// WithGlobals adds values visible to every template.
func WithGlobals(globals map[string]any) Option {
	return func(e *Engine) {
		for k, v := range globals {
			e.globals[k] = v
		}
	}
}

// Engine compiles and evaluates pongo2 views.
type Engine struct {
	finder  *Finder
	set     *pongo2.TemplateSet
	globals pongo2.Context

	mu        sync.RWMutex
	templates map[string]compiled
}

type compiled struct {
	tpl     *pongo2.Template
	modTime time.Time
	size    int64
}

// NewEngine creates an Engine. finder may be nil when the engine only
// compiles sources handed to it; {% include %} paths then resolve against
// the working directory.
func NewEngine(finder *Finder, opts ...Option) (*Engine, error) {
	base := ""
	if finder != nil {
		base = finder.BasePath()
	}
	loader, err := pongo2.NewLocalFileSystemLoader(base)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidBasePath, err)
	}

	e := &Engine{
		finder:    finder,
		set:       pongo2.NewSet("go-render", loader),
		globals:   pongo2.Context(Directives()),
		templates: make(map[string]compiled),
	}
	for _, opt := range opts {
		opt(e)
	}
	if e.set.Globals == nil {
		e.set.Globals = pongo2.Context{}
	}
	e.set.Globals.Update(e.globals)

	return e, nil
}

// Finder returns the engine's view finder, or nil.
func (e *Engine) Finder() *Finder {
	return e.finder
}

// Render resolves name with the generic HTML extensions and evaluates it.
func (e *Engine) Render(name string, vars map[string]any) ([]byte, error) {
	if e.finder == nil {
		return nil, fmt.Errorf("%w: %q (no views directory)", ErrViewNotFound, name)
	}
	path, err := e.finder.Find(name, HTMLExtensions)
	if err != nil {
		return nil, err
	}
	return e.RenderFile(path, vars)
}

// RenderFile evaluates the template at path. Compiled templates are reused
// until the file's size or modification time changes.
func (e *Engine) RenderFile(path string, vars map[string]any) ([]byte, error) {
	tpl, err := e.load(path)
	if err != nil {
		return nil, err
	}
	return e.Execute(tpl, path, vars)
}

// Compile parses src into a template. name is used in error messages.
func (e *Engine) Compile(name string, src []byte) (*pongo2.Template, error) {
	tpl, err := e.set.FromBytes(src)
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %w", ErrTemplateParse, name, err)
	}
	return tpl, nil
}

// Execute evaluates tpl against a fresh context built from vars.
// Partial output is discarded when evaluation fails.
func (e *Engine) Execute(tpl *pongo2.Template, name string, vars map[string]any) ([]byte, error) {
	ctx := make(pongo2.Context, len(vars))
	for k, v := range vars {
		ctx[k] = v
	}

	var buf bytes.Buffer
	if err := tpl.ExecuteWriter(ctx, &buf); err != nil {
		buf.Reset()
		return nil, fmt.Errorf("%w: %s: %w", ErrTemplateEval, name, err)
	}
	return buf.Bytes(), nil
}

func (e *Engine) load(path string) (*pongo2.Template, error) {
	info, err := os.Stat(path)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrViewNotFound, err)
	}

	e.mu.RLock()
	c, ok := e.templates[path]
	e.mu.RUnlock()
	if ok && c.size == info.Size() && c.modTime.Equal(info.ModTime()) {
		return c.tpl, nil
	}

	src, err := os.ReadFile(path) // #nosec G304 -- path resolved by Finder
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrViewNotFound, err)
	}
	tpl, err := e.Compile(path, src)
	if err != nil {
		return nil, err
	}

	e.mu.Lock()
	e.templates[path] = compiled{tpl: tpl, modTime: info.ModTime(), size: info.Size()}
	e.mu.Unlock()
	return tpl, nil
}
