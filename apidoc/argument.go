package apidoc

import (
	"reflect"
	"slices"

	"github.com/vitalvas/swaggerpage/openapi"
)

// Media types used by the built-in arguments and responses.
const (
	MimeJSON  = "application/json"
	MimeText  = "text/plain; charset=utf-8"
	MimeOctet = "application/octet-stream"
	MimeForm  = "application/x-www-form-urlencoded"
)

// Argument is implemented by types a handler accepts as input. A type
// describes itself by the parameters it parses and the request body it
// consumes. Both methods are called on the zero value and must not depend
// on its state.
//
// See: https://spec.openapis.org/oas/v3.0.3#parameter-object
// See: https://spec.openapis.org/oas/v3.0.3#request-body-object
type Argument interface {
	Parameters(g *openapi.SchemaGenerator) []*openapi.Parameter
	RequestBody(g *openapi.SchemaGenerator) *openapi.RequestBody
}

// NoArgument can be embedded to implement the half of Argument a type
// does not need.
type NoArgument struct{}

// Parameters implements Argument.
func (NoArgument) Parameters(*openapi.SchemaGenerator) []*openapi.Parameter { return nil }

// RequestBody implements Argument.
func (NoArgument) RequestBody(*openapi.SchemaGenerator) *openapi.RequestBody { return nil }

// ArgumentFuncs is the capability record a handler keeps per argument
// slot. A nil field contributes nothing.
type ArgumentFuncs struct {
	Parameters  func(g *openapi.SchemaGenerator) []*openapi.Parameter
	RequestBody func(g *openapi.SchemaGenerator) *openapi.RequestBody
}

var argumentType = reflect.TypeFor[Argument]()

// ArgumentOf returns the capability record of A, or nil when neither A
// nor *A implements Argument. A nil record is a valid argument slot for
// inputs that do not show up in the document, such as a request context.
func ArgumentOf[A any]() *ArgumentFuncs {
	t := reflect.TypeFor[A]()
	var arg Argument
	switch {
	case t.Implements(argumentType):
		var zero A
		arg, _ = any(zero).(Argument)
	case reflect.PointerTo(t).Implements(argumentType):
		arg, _ = any(new(A)).(Argument)
	}
	if arg == nil {
		return nil
	}
	return &ArgumentFuncs{
		Parameters:  arg.Parameters,
		RequestBody: arg.RequestBody,
	}
}

func bodyOf(mime string, schema *openapi.SchemaRef) *openapi.RequestBody {
	return &openapi.RequestBody{
		Required: true,
		Content: map[string]*openapi.MediaType{
			mime: {Schema: schema},
		},
	}
}

// JSON is a request body decoded from application/json into T.
type JSON[T any] struct {
	NoArgument
	Value T
}

// RequestBody implements Argument.
func (JSON[T]) RequestBody(g *openapi.SchemaGenerator) *openapi.RequestBody {
	return bodyOf(MimeJSON, openapi.Generate[T](g))
}

// SchemalessJSON is a JSON request body whose shape is not documented.
type SchemalessJSON[T any] struct {
	NoArgument
	Value T
}

// RequestBody implements Argument.
func (SchemalessJSON[T]) RequestBody(*openapi.SchemaGenerator) *openapi.RequestBody {
	return bodyOf(MimeJSON, openapi.NewSchemaRef(&openapi.Schema{Kind: &openapi.AnySchema{}}))
}

// Form is a request body decoded from an url-encoded form into T.
type Form[T any] struct {
	NoArgument
	Value T
}

// RequestBody implements Argument.
func (Form[T]) RequestBody(g *openapi.SchemaGenerator) *openapi.RequestBody {
	return bodyOf(MimeForm, openapi.Generate[T](g))
}

// Text is a plain text request body.
type Text struct {
	NoArgument
	Value string
}

// RequestBody implements Argument.
func (Text) RequestBody(*openapi.SchemaGenerator) *openapi.RequestBody {
	return bodyOf(MimeText, openapi.NewSchemaRef(&openapi.Schema{Kind: &openapi.StringType{}}))
}

// Bytes is a raw request body.
type Bytes struct {
	NoArgument
	Value []byte
}

// RequestBody implements Argument.
func (Bytes) RequestBody(*openapi.SchemaGenerator) *openapi.RequestBody {
	return bodyOf(MimeOctet, openapi.NewSchemaRef(&openapi.Schema{Kind: &openapi.StringType{Format: "binary"}}))
}

// Path is the set of path parameters decoded into the struct T. Every
// field becomes a required path parameter.
type Path[T any] struct {
	NoArgument
	Value T
}

// Parameters implements Argument.
func (Path[T]) Parameters(g *openapi.SchemaGenerator) []*openapi.Parameter {
	return objectParameters(g, reflect.TypeFor[T](), openapi.InPath)
}

// Query is the set of query parameters decoded into the struct T. A
// parameter is required when its field is.
type Query[T any] struct {
	NoArgument
	Value T
}

// Parameters implements Argument.
func (Query[T]) Parameters(g *openapi.SchemaGenerator) []*openapi.Parameter {
	return objectParameters(g, reflect.TypeFor[T](), openapi.InQuery)
}

// Header is the set of request headers decoded into the struct T.
type Header[T any] struct {
	NoArgument
	Value T
}

// Parameters implements Argument.
func (Header[T]) Parameters(g *openapi.SchemaGenerator) []*openapi.Parameter {
	return objectParameters(g, reflect.TypeFor[T](), openapi.InHeader)
}

// objectParameters turns the properties of an object schema into
// parameters sorted by name.
func objectParameters(g *openapi.SchemaGenerator, t reflect.Type, in string) []*openapi.Parameter {
	obj, _, ok := g.GenerateObjectType(t)
	if !ok {
		g.Logger().Warn("unsupported handler argument", "type", t.String(), "in", in)
		return nil
	}

	names := make([]string, 0, len(obj.Properties))
	for name := range obj.Properties {
		names = append(names, name)
	}
	slices.Sort(names)

	params := make([]*openapi.Parameter, 0, len(names))
	for _, name := range names {
		schema := obj.Properties[name]
		param := &openapi.Parameter{
			Name:     name,
			In:       in,
			Required: in == openapi.InPath || slices.Contains(obj.Required, name),
			Schema:   schema,
		}
		if schema.Value != nil {
			param.Description = schema.Value.Description
			param.Deprecated = schema.Value.Deprecated
		}
		params = append(params, param)
	}
	return params
}
