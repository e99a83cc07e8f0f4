package apidoc

import (
	"fmt"
	"maps"
	"reflect"
	"slices"
	"strings"
	"sync"
	"sync/atomic"

	"github.com/vitalvas/swaggerpage/jsonschema"
	"github.com/vitalvas/swaggerpage/openapi"
)

// EverythingFilename is the file name the implicit page is served under.
const EverythingFilename = "openapi.json"

var pageIDs atomic.Uint64

// Page collects handlers into one OpenAPI document. Handlers are added
// while contexts are mounted and the document is built on demand. The
// last build is cached and handed out by pointer until the next
// AddHandler, so callers must treat the returned document as read-only.
// A Page is safe for concurrent use.
//
// See: https://spec.openapis.org/oas/v3.0.3#openapi-object
type Page struct {
	id     uint64
	config PageConfig
	logger openapi.Logger

	mu    sync.Mutex
	paths map[string]*openapi.PathItem
	defs  *jsonschema.Definitions
	last  *openapi.Document
}

// PageOption configures a Page.
type PageOption func(*Page)

// WithLogger sets the logger schema and handler warnings are sent to.
func WithLogger(logger openapi.Logger) PageOption {
	return func(p *Page) {
		if logger != nil {
			p.logger = logger
		}
	}
}

// WithTypeSchema describes t with s instead of reflecting it. Useful for
// types from other packages that cannot implement jsonschema.Provider.
func WithTypeSchema(t reflect.Type, s *jsonschema.Schema) PageOption {
	return func(p *Page) {
		p.defs.SetTypeSchema(t, s)
	}
}

// NewPage creates an empty page. Every page gets a process-unique id.
func NewPage(config PageConfig, opts ...PageOption) *Page {
	p := &Page{
		id:     pageIDs.Add(1),
		config: config,
		logger: openapi.DefaultLogger(),
		paths:  make(map[string]*openapi.PathItem),
		defs:   jsonschema.NewDefinitions(),
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

var everything = sync.OnceValue(func() *Page {
	return NewPage(PageConfig{Title: "Entire API", Filename: EverythingFilename})
})

// Everything returns the implicit page every mounted handler is added to
// unless a context is told otherwise.
func Everything() *Page {
	return everything()
}

// ID returns the page id.
func (p *Page) ID() uint64 { return p.id }

// Config returns the page metadata.
func (p *Page) Config() PageConfig { return p.config }

// Filename returns the file name the page is served under, derived from
// the id when the config has none.
func (p *Page) Filename() string {
	if p.config.Filename != "" {
		return p.config.Filename
	}
	return fmt.Sprintf("page-%d.json", p.id)
}

// Title returns the document title.
func (p *Page) Title() string {
	if p.config.Title != "" {
		return p.config.Title
	}
	return "Unnamed API"
}

type handlerParts struct {
	parameters  []*openapi.Parameter
	requestBody *openapi.RequestBody
	responses   map[string]*openapi.Response
}

// AddHandler adds h to the page under path, which is the full host path
// including every context prefix. tags are appended to the handler's own
// tags. A handler for the same path and method replaces the previous one.
func (p *Page) AddHandler(path string, h *Handler, tags []string) {
	p.mu.Lock()
	defer p.mu.Unlock()

	p.last = nil

	docPath, pathParams := NormalizePath(path)
	ident := h.Ident()
	if ident == "" {
		ident = pathIdent(h.Method(), docPath)
	}
	logger := p.logger.With("handler", ident, "path", docPath)

	if !h.Method().Valid() {
		logger.Warn("handler dropped, unknown HTTP method", "method", h.Method().String())
		return
	}

	parts := openapi.Employ(p.defs, logger, func(g *openapi.SchemaGenerator) handlerParts {
		var parts handlerParts
		for _, arg := range h.args {
			if arg == nil {
				continue
			}
			if arg.Parameters != nil {
				parts.parameters = append(parts.parameters, arg.Parameters(g)...)
			}
			if arg.RequestBody == nil {
				continue
			}
			if body := arg.RequestBody(g); body != nil {
				if parts.requestBody != nil {
					logger.Warn("handler has several request bodies, the last one is kept")
				}
				parts.requestBody = body
			}
		}
		if h.responses != nil {
			parts.responses = h.responses(g)
		}
		return parts
	})

	if len(parts.responses) == 0 {
		parts.responses = map[string]*openapi.Response{
			"default": {Description: responseDescription("default")},
		}
	}

	summary, description := splitDoc(h.doc)
	op := &openapi.Operation{
		Tags:        mergeTagNames(h.tags, tags),
		Summary:     summary,
		Description: description,
		OperationID: ident,
		Parameters:  mergeParameters(pathParams, parts.parameters),
		RequestBody: parts.requestBody,
		Responses:   parts.responses,
		Deprecated:  h.deprecated,
	}

	item, ok := p.paths[docPath]
	if !ok {
		item = &openapi.PathItem{}
		p.paths[docPath] = item
	}
	item.SetOperation(h.Method().String(), op)
}

// Build returns the page document. While no handler was added since the
// last call, the same pointer is returned.
func (p *Page) Build() *openapi.Document {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.last != nil {
		return p.last
	}

	doc := &openapi.Document{
		OpenAPI: openapi.Version,
		Info:    p.info(),
		Paths:   make(map[string]*openapi.PathItem, len(p.paths)),
	}
	for path, item := range p.paths {
		cp := *item
		doc.Paths[path] = &cp
	}

	if schemas := openapi.NewConverter(p.logger).ConvertDefinitions(p.defs); len(schemas) > 0 {
		doc.Components = &openapi.Components{Schemas: schemas}
	}
	doc.Tags = collectTags(doc.Paths)

	p.last = doc
	return doc
}

func (p *Page) info() openapi.Info {
	c := p.config
	info := openapi.Info{
		Title:          p.Title(),
		Description:    c.Description,
		TermsOfService: c.TermsOfService,
		Version:        c.Version,
	}
	if info.Version == "" {
		info.Version = "v0.0.0"
	}
	if c.ContactName != "" || c.ContactURL != "" || c.ContactEmail != "" {
		info.Contact = &openapi.Contact{Name: c.ContactName, URL: c.ContactURL, Email: c.ContactEmail}
	}
	if c.LicenseName != "" || c.LicenseURL != "" {
		info.License = &openapi.License{Name: c.LicenseName, URL: c.LicenseURL}
		if info.License.Name == "" {
			info.License.Name = "Unnamed License"
		}
	}
	return info
}

// splitDoc turns doc lines into a summary and a description. Leading
// and trailing blank lines of the description are dropped.
func splitDoc(doc []string) (string, string) {
	if len(doc) == 0 {
		return "", ""
	}
	summary := strings.TrimSpace(doc[0])
	rest := make([]string, 0, len(doc)-1)
	for _, line := range doc[1:] {
		rest = append(rest, strings.TrimSpace(line))
	}
	return summary, strings.Trim(strings.Join(rest, "\n"), "\n")
}

// mergeTagNames concatenates tag lists, dropping empty and repeated names.
func mergeTagNames(lists ...[]string) []string {
	var out []string
	for _, list := range lists {
		for _, tag := range list {
			if tag != "" && !slices.Contains(out, tag) {
				out = append(out, tag)
			}
		}
	}
	return out
}

// collectTags gathers the tags used by operations, sorted by name.
//
// See: https://spec.openapis.org/oas/v3.0.3#tag-object
func collectTags(paths map[string]*openapi.PathItem) []openapi.Tag {
	seen := make(map[string]struct{})
	for _, item := range paths {
		for _, op := range item.Operations() {
			for _, tag := range op.Tags {
				seen[tag] = struct{}{}
			}
		}
	}
	if len(seen) == 0 {
		return nil
	}

	tags := make([]openapi.Tag, 0, len(seen))
	for _, name := range slices.Sorted(maps.Keys(seen)) {
		tags = append(tags, openapi.Tag{Name: name})
	}
	return tags
}
