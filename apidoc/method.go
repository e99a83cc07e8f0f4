package apidoc

import (
	"errors"
	"fmt"
	"net/http"
	"strings"
)

// ErrUnknownMethod is returned by ParseMethod for verbs outside Method.
var ErrUnknownMethod = errors.New("unknown HTTP method")

// Method is one of the HTTP methods an OpenAPI path item can describe.
//
// See: https://spec.openapis.org/oas/v3.0.3#path-item-object
type Method int

const (
	MethodGet Method = iota
	MethodPut
	MethodPost
	MethodDelete
	MethodOptions
	MethodHead
	MethodPatch
	MethodTrace
)

var methodNames = [...]string{
	MethodGet:     http.MethodGet,
	MethodPut:     http.MethodPut,
	MethodPost:    http.MethodPost,
	MethodDelete:  http.MethodDelete,
	MethodOptions: http.MethodOptions,
	MethodHead:    http.MethodHead,
	MethodPatch:   http.MethodPatch,
	MethodTrace:   http.MethodTrace,
}

// Methods lists every Method in path item order.
func Methods() []Method {
	return []Method{
		MethodGet, MethodPut, MethodPost, MethodDelete,
		MethodOptions, MethodHead, MethodPatch, MethodTrace,
	}
}

// String returns the upper-case verb, e.g. "GET".
func (m Method) String() string {
	if m < 0 || int(m) >= len(methodNames) {
		return fmt.Sprintf("Method(%d)", int(m))
	}
	return methodNames[m]
}

// Valid reports whether m is one of the eight known verbs.
func (m Method) Valid() bool {
	return m >= 0 && int(m) < len(methodNames)
}

// ParseMethod maps a verb, in any case, to its Method.
func ParseMethod(s string) (Method, error) {
	upper := strings.ToUpper(strings.TrimSpace(s))
	for i, name := range methodNames {
		if name == upper {
			return Method(i), nil
		}
	}
	return 0, fmt.Errorf("%w: %q", ErrUnknownMethod, s)
}
