package apidoc

import (
	"encoding/json"
	"fmt"
	"html"
	"maps"
	"net/http"
	"slices"
	"strings"
	"sync"

	"github.com/vitalvas/swaggerpage/openapi"
)

// DefaultSwaggerUIPath is the path SwaggerUI is served under by default.
const DefaultSwaggerUIPath = "/swagger-ui"

// SwaggerUI serves a Swagger UI page together with the documents it
// shows. Relative to its path it serves:
//
//	/              - the HTML page
//	/config.json   - the Swagger UI configuration with one entry per page
//	/<filename>    - a page document as JSON
//	/<stem>.yaml   - the same document as YAML
//
// Serialized documents are cached until the page is rebuilt.
//
// See: https://swagger.io/docs/open-source-tools/swagger-ui/usage/configuration/
type SwaggerUI struct {
	path   string
	title  string
	config map[string]any
	pages  []uiPage

	mu    sync.Mutex
	cache map[*Page]*uiCache
}

type uiPage struct {
	name string
	page *Page
}

type uiCache struct {
	doc  *openapi.Document
	json []byte
	yaml []byte
}

// SwaggerUIOption configures a SwaggerUI.
type SwaggerUIOption func(*SwaggerUI)

// WithUIPath sets the path the UI is served under.
func WithUIPath(path string) SwaggerUIOption {
	return func(s *SwaggerUI) {
		s.path = path
	}
}

// WithUITitle sets the HTML page title.
func WithUITitle(title string) SwaggerUIOption {
	return func(s *SwaggerUI) {
		s.title = title
	}
}

// WithUIConfig sets a Swagger UI configuration option, e.g.
// WithUIConfig("docExpansion", "none"). The "urls" key is always
// generated from the pages.
func WithUIConfig(key string, value any) SwaggerUIOption {
	return func(s *SwaggerUI) {
		s.config[key] = value
	}
}

// WithoutEverything leaves the implicit page out of the UI.
func WithoutEverything() SwaggerUIOption {
	return func(s *SwaggerUI) {
		s.pages = slices.DeleteFunc(s.pages, func(p uiPage) bool {
			return p.page == Everything()
		})
	}
}

// NewSwaggerUI creates a UI showing the implicit page as "Entire API".
func NewSwaggerUI(opts ...SwaggerUIOption) *SwaggerUI {
	s := &SwaggerUI{
		path:   DefaultSwaggerUIPath,
		title:  "Swagger UI",
		config: make(map[string]any),
		pages:  []uiPage{{name: "Entire API", page: Everything()}},
		cache:  make(map[*Page]*uiCache),
	}
	for _, opt := range opts {
		opt(s)
	}
	s.path = strings.TrimRight("/"+strings.Trim(s.path, "/"), "/")
	return s
}

// Page adds p to the drop-down under name.
func (s *SwaggerUI) Page(name string, p *Page) *SwaggerUI {
	if p != nil {
		s.pages = append(s.pages, uiPage{name: name, page: p})
	}
	return s
}

// Path returns the path the UI is served under, without trailing slash.
// It is empty when the UI is served at the root.
func (s *SwaggerUI) Path() string { return s.path }

// ServeHTTP implements http.Handler. Request paths are matched relative
// to Path, so the handler can be mounted as is or behind a prefix strip.
func (s *SwaggerUI) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet && r.Method != http.MethodHead {
		w.Header().Set("Allow", "GET, HEAD")
		http.Error(w, http.StatusText(http.StatusMethodNotAllowed), http.StatusMethodNotAllowed)
		return
	}

	rel := strings.TrimPrefix(r.URL.Path, s.path)
	switch rel {
	case "":
		http.Redirect(w, r, s.path+"/", http.StatusMovedPermanently)
		return
	case "/", "/index.html":
		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte(swaggerUITemplate(s.title, "config.json")))
		return
	case "/config.json":
		s.serveConfig(w)
		return
	}

	name := strings.TrimPrefix(rel, "/")
	for _, p := range s.pages {
		filename := p.page.Filename()
		switch name {
		case filename:
			s.serveDocument(w, p.page, false)
			return
		case yamlFilename(filename):
			s.serveDocument(w, p.page, true)
			return
		}
	}
	http.NotFound(w, r)
}

func (s *SwaggerUI) serveConfig(w http.ResponseWriter) {
	config := maps.Clone(s.config)
	urls := make([]map[string]string, 0, len(s.pages))
	for _, p := range s.pages {
		urls = append(urls, map[string]string{"name": p.name, "url": p.page.Filename()})
	}
	config["urls"] = urls
	config["dom_id"] = "#swagger-ui"

	data, err := json.Marshal(config)
	if err != nil {
		http.Error(w, "failed to serialize Swagger UI config", http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(data)
}

func (s *SwaggerUI) serveDocument(w http.ResponseWriter, p *Page, asYAML bool) {
	data, err := s.document(p, asYAML)
	if err != nil {
		format := "JSON"
		if asYAML {
			format = "YAML"
		}
		http.Error(w, "failed to serialize OpenAPI document as "+format, http.StatusInternalServerError)
		return
	}

	contentType := "application/json"
	if asYAML {
		contentType = "application/x-yaml"
	}
	w.Header().Set("Content-Type", contentType)
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(data)
}

// document returns the serialized page, reusing the bytes produced for
// the same document pointer.
func (s *SwaggerUI) document(p *Page, asYAML bool) (data []byte, err error) {
	defer func() {
		if rv := recover(); rv != nil {
			data, err = nil, fmt.Errorf("%v", rv)
		}
	}()

	doc := p.Build()

	s.mu.Lock()
	defer s.mu.Unlock()

	entry, ok := s.cache[p]
	if !ok || entry.doc != doc {
		entry = &uiCache{doc: doc}
		s.cache[p] = entry
	}

	if asYAML {
		if entry.yaml == nil {
			if entry.yaml, err = openapi.MarshalYAML(doc); err != nil {
				return nil, err
			}
		}
		return entry.yaml, nil
	}
	if entry.json == nil {
		if entry.json, err = json.Marshal(doc); err != nil {
			return nil, err
		}
	}
	return entry.json, nil
}

func yamlFilename(filename string) string {
	return strings.TrimSuffix(filename, ".json") + ".yaml"
}

func swaggerUITemplate(title, configURL string) string {
	return fmt.Sprintf(`<!DOCTYPE html>
<html lang="en">
<head>
<meta charset="UTF-8">
<meta name="viewport" content="width=device-width, initial-scale=1.0">
<title>%s</title>
<link rel="stylesheet" href="https://unpkg.com/swagger-ui-dist/swagger-ui.css">
</head>
<body>
<div id="swagger-ui"></div>
<script src="https://unpkg.com/swagger-ui-dist/swagger-ui-bundle.js"></script>
<script src="https://unpkg.com/swagger-ui-dist/swagger-ui-standalone-preset.js"></script>
<script>
SwaggerUIBundle({configUrl: %q, dom_id: "#swagger-ui", presets: [SwaggerUIBundle.presets.apis, SwaggerUIStandalonePreset], layout: "StandaloneLayout"});
</script>
</body>
</html>`, html.EscapeString(title), configURL)
}
