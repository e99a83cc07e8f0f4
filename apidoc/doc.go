// Package apidoc derives OpenAPI 3.0 documents from handler descriptors
// and registers the handlers on a host router.
//
// A Handler describes one route: method, path template, documentation,
// argument slots and responses. Handlers are grouped in a Context, which
// adds a path prefix and tags, and attaches the Pages the handlers are
// documented on. Mounting a context through a Registrar registers every
// route with the host and adds it to the implicit Everything page and
// every attached page:
//
//	users := apidoc.NewContext("/api/users").
//	    Tag("users").
//	    Handler(apidoc.Describe(apidoc.MethodGet, "/{id}").
//	        Doc("Get a user").
//	        Arg(apidoc.ArgumentOf[apidoc.Path[UserID]]()).
//	        Returns(apidoc.OkJSON[User]).
//	        Native(getUser).
//	        Build())
//
//	mux := http.NewServeMux()
//	if err := users.Mount(httpadapter.New(mux)); err != nil {
//	    log.Fatal(err)
//	}
//	httpadapter.New(mux).MountSwaggerUI(apidoc.NewSwaggerUI())
//
// Go types used by arguments and responses are reflected into JSON
// Schemas, collected per page and converted into components.schemas, so
// a type shared by several handlers is described once.
//
// See: https://spec.openapis.org/oas/v3.0.3
package apidoc
