package apidoc

import (
	"errors"
	"fmt"
	"slices"
	"strings"
)

// ErrUnsupportedHandler is returned by a Registrar for native handler
// values it cannot serve.
var ErrUnsupportedHandler = errors.New("unsupported native handler")

// Registrar adds routes to a host router. path is in the host's own
// template syntax, exactly as the handlers were described.
type Registrar interface {
	Register(method Method, path string, native any) error
}

// Route is a handler resolved against every enclosing context.
type Route struct {
	Method  Method
	Path    string
	Handler *Handler
	Pages   []*Page
	Tags    []string
}

// Context groups handlers under a common path prefix and decides which
// pages they are documented on. Nothing is resolved until Routes or
// Mount is called, so Tag and Page apply to every handler of the context
// regardless of call order.
//
//	api := apidoc.NewContext("/api").
//	    Tag("users").
//	    Handler(listUsers).
//	    Handler(getUser)
//	err := api.Mount(httpadapter.New(mux))
type Context struct {
	prefix     string
	handlers   []*Handler
	pages      []*Page
	tags       []string
	nested     []nestedContext
	everything *Page
}

type nestedContext struct {
	prefix string
	child  *Context
}

// ContextOption configures a Context.
type ContextOption func(*Context)

// WithEverything replaces the implicit page every route is documented
// on. A nil page disables it.
func WithEverything(p *Page) ContextOption {
	return func(c *Context) {
		c.everything = p
	}
}

// NewContext creates a context for prefix.
func NewContext(prefix string, opts ...ContextOption) *Context {
	c := &Context{
		prefix:     prefix,
		everything: Everything(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Prefix returns the path prefix.
func (c *Context) Prefix() string { return c.prefix }

// Handler adds h. Nil handlers are ignored.
func (c *Context) Handler(h *Handler) *Context {
	if h != nil {
		c.handlers = append(c.handlers, h)
	}
	return c
}

// Page documents every handler of the context on p as well.
func (c *Context) Page(p *Page) *Context {
	if p != nil && !slices.Contains(c.pages, p) {
		c.pages = append(c.pages, p)
	}
	return c
}

// Tag adds tag to every handler of the context.
func (c *Context) Tag(tag string) *Context {
	c.tags = mergeTagNames(c.tags, []string{tag})
	return c
}

// Nest mounts child under prefix. The child keeps its own pages and tags
// and inherits those of c. The implicit page of c is used for the child's
// routes too.
func (c *Context) Nest(prefix string, child *Context) *Context {
	if child != nil && child != c {
		c.nested = append(c.nested, nestedContext{prefix: prefix, child: child})
	}
	return c
}

// Routes resolves every handler, nested ones included, to its full path,
// pages and tags. The implicit page is not part of Route.Pages.
func (c *Context) Routes() []Route {
	var routes []Route
	for _, h := range c.handlers {
		routes = append(routes, Route{
			Method:  h.Method(),
			Path:    joinPath(c.prefix, h.Path()),
			Handler: h,
			Pages:   slices.Clone(c.pages),
			Tags:    slices.Clone(c.tags),
		})
	}
	for _, n := range c.nested {
		for _, r := range n.child.Routes() {
			r.Path = joinPath(c.prefix, joinPath(n.prefix, r.Path))
			for _, p := range c.pages {
				if !slices.Contains(r.Pages, p) {
					r.Pages = append(r.Pages, p)
				}
			}
			r.Tags = mergeTagNames(r.Tags, c.tags)
			routes = append(routes, r)
		}
	}
	return routes
}

// Mount registers every route on r and adds it to its pages. It stops at
// the first registration error; routes registered until then stay
// documented.
func (c *Context) Mount(r Registrar) error {
	for _, route := range c.Routes() {
		if !route.Method.Valid() {
			return fmt.Errorf("mount %s: %w: %s", route.Path, ErrUnknownMethod, route.Method)
		}
		if err := r.Register(route.Method, route.Path, route.Handler.Native()); err != nil {
			return fmt.Errorf("mount %s %s: %w", route.Method, route.Path, err)
		}
		c.document(route)
	}
	return nil
}

// Document adds every route to its pages without registering it
// anywhere.
func (c *Context) Document() {
	for _, route := range c.Routes() {
		c.document(route)
	}
}

func (c *Context) document(route Route) {
	pages := route.Pages
	if c.everything != nil && !slices.Contains(pages, c.everything) {
		pages = append([]*Page{c.everything}, pages...)
	}
	for _, p := range pages {
		p.AddHandler(route.Path, route.Handler, route.Tags)
	}
}

// joinPath joins a prefix and a path with exactly one slash between
// them.
func joinPath(prefix, path string) string {
	prefix = strings.TrimRight(prefix, "/")
	switch {
	case path == "":
		if prefix == "" {
			return "/"
		}
		return prefix
	case !strings.HasPrefix(path, "/"):
		path = "/" + path
	}
	return prefix + path
}
