// Package httpadapter mounts apidoc contexts on a net/http ServeMux.
//
// Handlers are registered with method patterns, so paths must use the
// ServeMux wildcard syntax:
//
//	apidoc.Describe(apidoc.MethodGet, "/users/{id}")
//
// Natives may be an http.Handler or a func(http.ResponseWriter, *http.Request).
package httpadapter

import (
	"fmt"
	"net/http"
	"strings"

	"github.com/vitalvas/swaggerpage/apidoc"
)

// MiddlewareFunc wraps every handler registered through a Router.
type MiddlewareFunc func(http.Handler) http.Handler

// Router registers routes on a ServeMux. It implements apidoc.Registrar.
type Router struct {
	mux         *http.ServeMux
	middlewares []MiddlewareFunc
}

// New returns a Router for mux. A nil mux uses http.DefaultServeMux.
func New(mux *http.ServeMux) *Router {
	if mux == nil {
		mux = http.DefaultServeMux
	}
	return &Router{mux: mux}
}

// Use appends middlewares applied to routes registered afterwards. The
// first middleware is the outermost.
func (r *Router) Use(mwf ...MiddlewareFunc) *Router {
	r.middlewares = append(r.middlewares, mwf...)
	return r
}

// ServeMux returns the underlying mux.
func (r *Router) ServeMux() *http.ServeMux {
	return r.mux
}

// Register implements apidoc.Registrar.
func (r *Router) Register(method apidoc.Method, path string, native any) error {
	h, err := handlerOf(native)
	if err != nil {
		return err
	}
	return r.handle(method.String()+" "+path, h)
}

// Mount registers and documents every route of c.
func (r *Router) Mount(c *apidoc.Context) error {
	return c.Mount(r)
}

// MountSwaggerUI serves ui under its path, with and without a trailing
// slash.
func (r *Router) MountSwaggerUI(ui *apidoc.SwaggerUI) error {
	path := strings.TrimRight(ui.Path(), "/")
	if path == "" {
		return r.handle("GET /", ui)
	}
	if err := r.handle("GET "+path, ui); err != nil {
		return err
	}
	return r.handle("GET "+path+"/", ui)
}

// handle registers h, turning the ServeMux panic on invalid or
// conflicting patterns into an error.
func (r *Router) handle(pattern string, h http.Handler) (err error) {
	defer func() {
		if rv := recover(); rv != nil {
			err = fmt.Errorf("register %q: %v", pattern, rv)
		}
	}()

	for i := len(r.middlewares) - 1; i >= 0; i-- {
		h = r.middlewares[i](h)
	}
	r.mux.Handle(pattern, h)
	return nil
}

func handlerOf(native any) (http.Handler, error) {
	switch h := native.(type) {
	case http.Handler:
		if f, ok := h.(http.HandlerFunc); ok && f == nil {
			break
		}
		return h, nil
	case func(http.ResponseWriter, *http.Request):
		if h == nil {
			break
		}
		return http.HandlerFunc(h), nil
	}
	return nil, fmt.Errorf("%w: %T", apidoc.ErrUnsupportedHandler, native)
}

var _ apidoc.Registrar = (*Router)(nil)
