package openapi

import (
	"errors"
	"fmt"
	"reflect"
	"strings"

	"github.com/vitalvas/swaggerpage/jsonschema"
)

// ErrUnexpectedRef is matched by UnexpectedRefError.
var ErrUnexpectedRef = errors.New("unexpected schema reference")

// UnexpectedRefError is returned when an inline schema was requested but
// the type's own definition is a reference.
type UnexpectedRefError struct {
	Name string
}

func (e *UnexpectedRefError) Error() string {
	return fmt.Sprintf("%s: %s", ErrUnexpectedRef, e.Name)
}

// Is matches ErrUnexpectedRef.
func (e *UnexpectedRefError) Is(target error) bool {
	return target == ErrUnexpectedRef
}

// SchemaGenerator derives OpenAPI schemas from Go types. Named types are
// collected into a definitions table and referenced via $ref, so a type
// used by several operations is described once in components.schemas.
// A SchemaGenerator is not safe for concurrent use.
//
// See: https://spec.openapis.org/oas/v3.0.3#schema-object
// See: https://spec.openapis.org/oas/v3.0.3#components-object
type SchemaGenerator struct {
	reflector *jsonschema.Reflector
	converter *Converter
}

// NewSchemaGenerator creates a generator writing into defs. A nil defs
// starts an empty table and a nil logger uses DefaultLogger.
func NewSchemaGenerator(defs *jsonschema.Definitions, logger Logger) *SchemaGenerator {
	return &SchemaGenerator{
		reflector: jsonschema.NewReflector(defs),
		converter: NewConverter(logger),
	}
}

// Definitions returns the table the generator writes into.
func (g *SchemaGenerator) Definitions() *jsonschema.Definitions {
	return g.reflector.Definitions()
}

// Converter returns the converter used for every generated schema.
func (g *SchemaGenerator) Converter() *Converter {
	return g.converter
}

// Logger returns the logger warnings are reported to.
func (g *SchemaGenerator) Logger() Logger {
	return g.converter.logger
}

// GenerateType returns the schema to use for a value of type t: a $ref for
// named types, creating the definition on first request, and an inline
// schema otherwise. Repeated calls for one type return equal references
// and never duplicate the definition.
func (g *SchemaGenerator) GenerateType(t reflect.Type) *SchemaRef {
	return g.converter.Convert(g.reflector.Subschema(t))
}

// GenerateInlineType returns the expanded schema of t. It fails with
// *UnexpectedRefError when the definition of t is itself a reference,
// which callers needing an inline schema must treat as unsupported.
func (g *SchemaGenerator) GenerateInlineType(t reflect.Type) (*SchemaRef, error) {
	s := g.converter.Convert(g.reflector.Root(t))
	if s.Ref != "" {
		return nil, &UnexpectedRefError{Name: strings.TrimPrefix(s.Ref, g.reflector.RefPrefix())}
	}
	return s, nil
}

// GenerateObjectType returns the object shape of t together with its
// metadata. The result is false when t does not describe a plain object,
// for example a scalar, an array or a combinator.
func (g *SchemaGenerator) GenerateObjectType(t reflect.Type) (*ObjectType, SchemaData, bool) {
	s, err := g.GenerateInlineType(t)
	if err != nil || s.Value == nil {
		return nil, SchemaData{}, false
	}
	obj, ok := s.Value.Kind.(*ObjectType)
	if !ok {
		return nil, SchemaData{}, false
	}
	return obj, s.Value.SchemaData, true
}

// Generate is GenerateType for T.
func Generate[T any](g *SchemaGenerator) *SchemaRef {
	return g.GenerateType(reflect.TypeFor[T]())
}

// GenerateInline is GenerateInlineType for T.
func GenerateInline[T any](g *SchemaGenerator) (*SchemaRef, error) {
	return g.GenerateInlineType(reflect.TypeFor[T]())
}

// GenerateObject is GenerateObjectType for T.
func GenerateObject[T any](g *SchemaGenerator) (*ObjectType, SchemaData, bool) {
	return g.GenerateObjectType(reflect.TypeFor[T]())
}

// Employ runs fn with a fresh generator working on defs and detaches the
// table again before returning, so that no generator outlives the call.
// Callers owning defs behind a lock get a generator without sharing one
// across goroutines.
func Employ[T any](defs *jsonschema.Definitions, logger Logger, fn func(g *SchemaGenerator) T) T {
	g := NewSchemaGenerator(defs, logger)
	defer g.reflector.SetDefinitions(nil)
	return fn(g)
}

// ConvertDefinitions converts every definition into a component schema.
func (c *Converter) ConvertDefinitions(defs *jsonschema.Definitions) map[string]*SchemaRef {
	if defs == nil || defs.Len() == 0 {
		return nil
	}
	out := make(map[string]*SchemaRef, defs.Len())
	for _, name := range defs.Names() {
		s, _ := defs.Get(name)
		out[name] = c.Convert(s)
	}
	return out
}
