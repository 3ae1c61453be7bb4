// Package tmplcache compiles MJML views once per content hash.
//
// A view file holds MJML markup with pongo2 syntax. Compilation sends the
// source through a Compiler (the remote MJML render) and stores the
// resulting HTML template forever under "mjml:<md5 of the source>". The
// parsed pongo2 template is memoised in process. Editing the file changes
// the hash, which is the only thing that triggers a recompile.
package tmplcache

import (
	"context"
	"errors"
	"fmt"
	"os"
	"sync"

	"github.com/flosch/pongo2/v6"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/alnah/go-render/internal/cache"
	"github.com/alnah/go-render/internal/fingerprint"
	"github.com/alnah/go-render/internal/views"
)

// KeyPrefix prefixes every compiled-template store key.
const KeyPrefix = "mjml:"

// Sentinel errors.
var (
	ErrRead    = errors.New("cannot read template source")
	ErrCompile = errors.New("template compile failed")
)

// Compiler turns MJML source into HTML that may still carry template syntax.
type Compiler interface {
	Compile(ctx context.Context, source []byte) ([]byte, error)
}

// CompilerFunc adapts a function to Compiler.
type CompilerFunc func(ctx context.Context, source []byte) ([]byte, error)

// Compile calls f.
func (f CompilerFunc) Compile(ctx context.Context, source []byte) ([]byte, error) {
	return f(ctx, source)
}

// Option configures a Cache.
type Option func(*Cache)

// WithTracer sets the tracer used for compile spans.
func WithTracer(t trace.Tracer) Option {
	return func(c *Cache) {
		if t != nil {
			c.tracer = t
		}
	}
}

// Cache is the compiled template cache.
type Cache struct {
	loader   *cache.Loader
	compiler Compiler
	engine   *views.Engine
	tracer   trace.Tracer

	mu        sync.RWMutex
	templates map[string]*pongo2.Template
}

// New creates a Cache. A nil store keeps compiled markup in memory only.
func New(store cache.Store, compiler Compiler, engine *views.Engine, opts ...Option) *Cache {
	if store == nil {
		store = cache.NewMemory()
	}
	c := &Cache{
		loader:    cache.NewLoader(store),
		compiler:  compiler,
		engine:    engine,
		tracer:    otel.Tracer("github.com/alnah/go-render/internal/tmplcache"),
		templates: make(map[string]*pongo2.Template),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// OnStoreError registers a callback for store failures, which never fail a render.
func (c *Cache) OnStoreError(fn func(op, key string, err error)) {
	c.loader.OnError = fn
}

// Key returns the store key for source.
func Key(source []byte) string {
	return KeyPrefix + fingerprint.Digest(source)
}

// Render evaluates the template at path with vars in an isolated scope.
// Evaluation errors wrap views.ErrTemplateEval and produce no output.
func (c *Cache) Render(ctx context.Context, path string, vars map[string]any) ([]byte, error) {
	tpl, err := c.Template(ctx, path)
	if err != nil {
		return nil, err
	}
	return c.engine.Execute(tpl, path, vars)
}

// Template returns the compiled template for the current content of path.
func (c *Cache) Template(ctx context.Context, path string) (*pongo2.Template, error) {
	source, err := os.ReadFile(path) // #nosec G304 -- path resolved by views.Finder
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrRead, err)
	}
	key := Key(source)

	c.mu.RLock()
	tpl, ok := c.templates[key]
	c.mu.RUnlock()
	if ok {
		return tpl, nil
	}

	markup, _, err := c.loader.Do(ctx, key, cache.Forever, func(ctx context.Context) ([]byte, error) {
		return c.compile(ctx, path, source)
	})
	if err != nil {
		return nil, err
	}

	tpl, err = c.engine.Compile(path, markup)
	if err != nil {
		return nil, err
	}

	c.mu.Lock()
	c.templates[key] = tpl
	c.mu.Unlock()
	return tpl, nil
}

func (c *Cache) compile(ctx context.Context, path string, source []byte) ([]byte, error) {
	ctx, span := c.tracer.Start(ctx, "tmplcache.compile",
		trace.WithAttributes(attribute.String("template.path", path)),
		trace.WithSpanKind(trace.SpanKindInternal),
	)
	defer span.End()

	out, err := c.compiler.Compile(ctx, source)
	if err != nil {
		span.SetStatus(codes.Error, err.Error())
		span.RecordError(err)
		return nil, fmt.Errorf("%w: %s: %w", ErrCompile, path, err)
	}
	span.SetStatus(codes.Ok, "")
	return out, nil
}

// Len returns the number of memoised templates.
func (c *Cache) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.templates)
}
