// Package fiberadapter mounts apidoc contexts on a fiber router.
//
// Paths use the fiber syntax, which apidoc rewrites for the document:
//
//	apidoc.Describe(apidoc.MethodGet, "/users/:id<int>")
//
// Natives may be a fiber.Handler, an http.Handler or a
// func(http.ResponseWriter, *http.Request). net/http handlers are bridged
// through fiber's adaptor middleware.
package fiberadapter

import (
	"fmt"
	"net/http"
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/adaptor"
	"github.com/vitalvas/swaggerpage/apidoc"
)

// Router registers routes on a fiber.Router such as an *fiber.App or a
// group. It implements apidoc.Registrar.
type Router struct {
	router   fiber.Router
	handlers []fiber.Handler
}

// New returns a Router for router. handlers run before every registered
// handler, in order.
func New(router fiber.Router, handlers ...fiber.Handler) *Router {
	return &Router{router: router, handlers: handlers}
}

// Register implements apidoc.Registrar.
func (r *Router) Register(method apidoc.Method, path string, native any) error {
	h, err := handlerOf(native)
	if err != nil {
		return err
	}
	return r.add(method.String(), path, h)
}

// Mount registers and documents every route of c.
func (r *Router) Mount(c *apidoc.Context) error {
	return c.Mount(r)
}

// MountSwaggerUI serves ui under its path.
func (r *Router) MountSwaggerUI(ui *apidoc.SwaggerUI) error {
	h := adaptor.HTTPHandler(ui)
	path := strings.TrimRight(ui.Path(), "/")
	if path != "" {
		if err := r.add(fiber.MethodGet, path, h); err != nil {
			return err
		}
	}
	return r.add(fiber.MethodGet, path+"/*", h)
}

// add registers h, turning a fiber panic on invalid routes into an error.
func (r *Router) add(method, path string, h fiber.Handler) (err error) {
	defer func() {
		if rv := recover(); rv != nil {
			err = fmt.Errorf("register %s %s: %v", method, path, rv)
		}
	}()

	chain := append(append([]fiber.Handler{}, r.handlers...), h)
	r.router.Add(method, path, chain...)
	return nil
}

func handlerOf(native any) (fiber.Handler, error) {
	switch h := native.(type) {
	case fiber.Handler:
		if h != nil {
			return h, nil
		}
	case http.HandlerFunc:
		if h != nil {
			return adaptor.HTTPHandlerFunc(h), nil
		}
	case func(http.ResponseWriter, *http.Request):
		if h != nil {
			return adaptor.HTTPHandlerFunc(h), nil
		}
	case http.Handler:
		return adaptor.HTTPHandler(h), nil
	}
	return nil, fmt.Errorf("%w: %T", apidoc.ErrUnsupportedHandler, native)
}

var _ apidoc.Registrar = (*Router)(nil)
