package apidoc

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/vitalvas/swaggerpage/openapi"
)

type registration struct {
	method Method
	path   string
	native any
}

type fakeRegistrar struct {
	routes []registration
	failOn string
}

func (r *fakeRegistrar) Register(method Method, path string, native any) error {
	if path == r.failOn {
		return ErrUnsupportedHandler
	}
	r.routes = append(r.routes, registration{method: method, path: path, native: native})
	return nil
}

func quietPage(title string) *Page {
	return NewPage(PageConfig{Title: title}, WithLogger(openapi.NopLogger{}))
}

func TestContextRoutes(t *testing.T) {
	t.Run("prefix and handlers", func(t *testing.T) {
		c := NewContext("/api/").
			Handler(Describe(MethodGet, "/users").Build()).
			Handler(nil).
			Handler(Describe(MethodGet, "").Build()).
			Handler(Describe(MethodGet, "items").Build())

		routes := c.Routes()
		require.Len(t, routes, 3)
		assert.Equal(t, "/api/users", routes[0].Path)
		assert.Equal(t, "/api", routes[1].Path)
		assert.Equal(t, "/api/items", routes[2].Path)
		assert.Equal(t, "/api/", c.Prefix())
	})

	t.Run("tags and pages apply regardless of order", func(t *testing.T) {
		admin := quietPage("Admin")
		c := NewContext("/admin").
			Handler(Describe(MethodGet, "/before").Build()).
			Tag("admin").
			Page(admin).
			Page(admin).
			Handler(Describe(MethodGet, "/after").Build()).
			Tag("admin").
			Tag("internal")

		for _, r := range c.Routes() {
			assert.Equal(t, []string{"admin", "internal"}, r.Tags, r.Path)
			assert.Equal(t, []*Page{admin}, r.Pages, r.Path)
		}
	})

	t.Run("nesting", func(t *testing.T) {
		parentPage, childPage := quietPage("Parent"), quietPage("Child")

		child := NewContext("/users").
			Tag("users").
			Page(childPage).
			Handler(Describe(MethodGet, "/:id").Build())

		parent := NewContext("/api").
			Tag("api").
			Page(parentPage).
			Nest("/v1", child).
			Nest("/self", nil).
			Handler(Describe(MethodGet, "/health").Build())

		routes := parent.Routes()
		require.Len(t, routes, 2)

		assert.Equal(t, "/api/health", routes[0].Path)
		assert.Equal(t, []string{"api"}, routes[0].Tags)

		nested := routes[1]
		assert.Equal(t, "/api/v1/users/:id", nested.Path)
		assert.Equal(t, []string{"users", "api"}, nested.Tags)
		assert.Equal(t, []*Page{childPage, parentPage}, nested.Pages)

		assert.Len(t, child.Routes(), 1)
		assert.Equal(t, "/users/:id", child.Routes()[0].Path)
	})
}

func TestContextMount(t *testing.T) {
	t.Run("registers and documents", func(t *testing.T) {
		everything, admin := quietPage("Everything"), quietPage("Admin")

		public := NewContext("/api", WithEverything(everything)).
			Tag("public").
			Handler(Describe(MethodGet, "/users/:id").
				Ident("getUser").
				Arg(ArgumentOf[Path[userPath]]()).
				Returns(OkJSON[User]).
				Native(listUsers).
				Build())
		private := NewContext("/admin").
			Page(admin).
			Handler(Describe(MethodDelete, "/users/:id").Ident("deleteUser").Build())
		public.Nest("", private)

		reg := &fakeRegistrar{}
		require.NoError(t, public.Mount(reg))

		require.Len(t, reg.routes, 2)
		assert.Equal(t, MethodGet, reg.routes[0].method)
		assert.Equal(t, "/api/users/:id", reg.routes[0].path)
		assert.NotNil(t, reg.routes[0].native)
		assert.Equal(t, "/api/admin/users/:id", reg.routes[1].path)

		doc := everything.Build()
		require.Contains(t, doc.Paths, "/api/users/{id}")
		require.Contains(t, doc.Paths, "/api/admin/users/{id}")
		assert.Equal(t, []string{"public"}, doc.Paths["/api/users/{id}"].Get.Tags)
		assert.Contains(t, doc.Components.Schemas, "User")

		adminDoc := admin.Build()
		require.Len(t, adminDoc.Paths, 1)
		assert.Equal(t, "deleteUser", adminDoc.Paths["/api/admin/users/{id}"].Delete.OperationID)

		validateDocument(t, doc)
		validateDocument(t, adminDoc)
	})

	t.Run("without the implicit page", func(t *testing.T) {
		only := quietPage("Only")
		c := NewContext("", WithEverything(nil)).
			Page(only).
			Handler(Describe(MethodGet, "/ping").Build())
		c.Document()

		assert.Contains(t, only.Build().Paths, "/ping")
	})

	t.Run("registration error", func(t *testing.T) {
		everything := quietPage("Everything")
		c := NewContext("/api", WithEverything(everything)).
			Handler(Describe(MethodGet, "/ok").Build()).
			Handler(Describe(MethodGet, "/bad").Build()).
			Handler(Describe(MethodGet, "/never").Build())

		reg := &fakeRegistrar{failOn: "/api/bad"}
		err := c.Mount(reg)
		require.Error(t, err)
		assert.True(t, errors.Is(err, ErrUnsupportedHandler))
		assert.Contains(t, err.Error(), "GET /api/bad")

		assert.Len(t, reg.routes, 1)
		paths := everything.Build().Paths
		assert.Contains(t, paths, "/api/ok")
		assert.NotContains(t, paths, "/api/bad")
		assert.NotContains(t, paths, "/api/never")
	})

	t.Run("unknown method", func(t *testing.T) {
		c := NewContext("", WithEverything(nil)).Handler(Describe(Method(9), "/x").Build())
		err := c.Mount(&fakeRegistrar{})
		assert.ErrorIs(t, err, ErrUnknownMethod)
	})
}

func TestJoinPath(t *testing.T) {
	tests := []struct {
		prefix, path, expected string
	}{
		{"", "", "/"},
		{"", "/a", "/a"},
		{"/api", "", "/api"},
		{"/api/", "/a", "/api/a"},
		{"/api", "a", "/api/a"},
		{"/", "/a", "/a"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.expected, joinPath(tt.prefix, tt.path), tt.prefix+"|"+tt.path)
	}
}
