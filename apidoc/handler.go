package apidoc

import (
	"reflect"
	"runtime"
	"slices"
	"strings"
	"unicode"
)

// Handler describes one route: what the document says about it and the
// framework-native value that serves it. A Handler is immutable once
// built and may be shared by several contexts and pages.
//
// See: https://spec.openapis.org/oas/v3.0.3#operation-object
type Handler struct {
	method     Method
	path       string
	deprecated bool
	doc        []string
	ident      string
	tags       []string
	responses  ResponseFunc
	args       []*ArgumentFuncs
	native     any
}

// Method returns the HTTP method the handler serves.
func (h *Handler) Method() Method { return h.method }

// Path returns the path template relative to the enclosing context.
func (h *Handler) Path() string { return h.path }

// Deprecated reports whether the operation is marked deprecated.
func (h *Handler) Deprecated() bool { return h.deprecated }

// Doc returns the documentation lines. The first one is the summary.
func (h *Handler) Doc() []string { return slices.Clone(h.doc) }

// Ident returns the identifier used as operationId.
func (h *Handler) Ident() string { return h.ident }

// Tags returns the handler's own tags.
func (h *Handler) Tags() []string { return slices.Clone(h.tags) }

// Responses returns the responses closure, which may be nil.
func (h *Handler) Responses() ResponseFunc { return h.responses }

// Arguments returns the argument slots. Nil slots are inputs that are
// not documented.
func (h *Handler) Arguments() []*ArgumentFuncs { return slices.Clone(h.args) }

// Native returns the framework-native handler value.
func (h *Handler) Native() any { return h.native }

// HandlerBuilder assembles a Handler with a fluent API:
//
//	h := apidoc.Describe(apidoc.MethodGet, "/users/:id").
//	    Doc("Get a user", "Returns 404 when the user does not exist.").
//	    Arg(apidoc.ArgumentOf[apidoc.Path[UserID]]()).
//	    Returns(apidoc.OkJSON[User]).
//	    Native(getUser).
//	    Build()
type HandlerBuilder struct {
	h Handler
}

// Describe starts a handler for method and path.
func Describe(method Method, path string) *HandlerBuilder {
	return &HandlerBuilder{h: Handler{method: method, path: path}}
}

// Doc appends documentation lines. Multi-line strings are split.
func (b *HandlerBuilder) Doc(lines ...string) *HandlerBuilder {
	for _, line := range lines {
		b.h.doc = append(b.h.doc, strings.Split(line, "\n")...)
	}
	return b
}

// Tags appends tags.
func (b *HandlerBuilder) Tags(tags ...string) *HandlerBuilder {
	b.h.tags = append(b.h.tags, tags...)
	return b
}

// Ident sets the identifier. Without one, the name of the native
// function is used when it has one.
func (b *HandlerBuilder) Ident(ident string) *HandlerBuilder {
	b.h.ident = ident
	return b
}

// Deprecated marks the operation as deprecated.
func (b *HandlerBuilder) Deprecated() *HandlerBuilder {
	b.h.deprecated = true
	return b
}

// Arg appends an argument slot. A nil slot is kept and ignored when the
// document is built.
func (b *HandlerBuilder) Arg(arg *ArgumentFuncs) *HandlerBuilder {
	b.h.args = append(b.h.args, arg)
	return b
}

// Returns sets the responses closure.
func (b *HandlerBuilder) Returns(fn ResponseFunc) *HandlerBuilder {
	b.h.responses = fn
	return b
}

// Native sets the framework-native handler.
func (b *HandlerBuilder) Native(native any) *HandlerBuilder {
	b.h.native = native
	return b
}

// Build returns the immutable Handler. The builder may be reused.
func (b *HandlerBuilder) Build() *Handler {
	h := b.h
	h.doc = slices.Clone(b.h.doc)
	h.tags = slices.Clone(b.h.tags)
	h.args = slices.Clone(b.h.args)
	if h.ident == "" {
		h.ident = funcIdent(h.native)
	}
	return &h
}

// funcIdent returns the bare name of a named function, or "" for
// closures, method values and non-functions.
func funcIdent(v any) string {
	if v == nil {
		return ""
	}
	rv := reflect.ValueOf(v)
	if rv.Kind() != reflect.Func || rv.IsNil() {
		return ""
	}
	fn := runtime.FuncForPC(rv.Pointer())
	if fn == nil {
		return ""
	}
	name := fn.Name()
	name = name[strings.LastIndex(name, "/")+1:]
	name = name[strings.LastIndex(name, ".")+1:]
	if name == "" || strings.HasSuffix(name, "-fm") || !unicode.IsLetter(rune(name[0])) {
		return ""
	}
	if strings.HasPrefix(name, "func") && strings.TrimLeft(name[4:], "0123456789") == "" {
		return ""
	}
	return name
}

// pathIdent derives an operationId from method and path, e.g.
// "getUsersId" for GET /users/{id}.
func pathIdent(method Method, path string) string {
	var b strings.Builder
	b.WriteString(strings.ToLower(method.String()))
	upper := true
	for _, r := range path {
		if !unicode.IsLetter(r) && !unicode.IsDigit(r) {
			upper = true
			continue
		}
		if upper {
			r = unicode.ToUpper(r)
			upper = false
		}
		b.WriteRune(r)
	}
	return b.String()
}
