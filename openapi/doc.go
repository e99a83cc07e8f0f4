// Package openapi models OpenAPI v3.0 documents and converts JSON Schema
// nodes into OpenAPI 3.0 schemas.
//
// See: https://spec.openapis.org/oas/v3.0.3
// See: https://json-schema.org/draft-07/json-schema-validation
//
// # Document Model
//
// Document, PathItem, Operation and the related types marshal to the
// OpenAPI 3.0 JSON layout. MarshalYAML renders any of them as YAML with
// block style:
//
//	doc := &openapi.Document{
//	    OpenAPI: openapi.Version,
//	    Info:    openapi.Info{Title: "Pets", Version: "v1"},
//	    Paths:   map[string]*openapi.PathItem{},
//	}
//
// # Schemas
//
// A Schema is shared metadata (SchemaData) plus exactly one SchemaKind:
// StringType, NumberType, IntegerType, BooleanType, ObjectType, ArrayType,
// AllOf, AnyOf, OneOf, Not or AnySchema. A SchemaRef holds either a $ref
// or an inline Schema.
//
// # Conversion
//
// A Converter translates JSON Schema draft 7 into the 3.0 dialect. It
// never fails. Keywords with no 3.0 equivalent, such as if/then/else,
// patternProperties and const, are dropped and reported through the
// Logger at warn level. A "null" instance type becomes nullable; several
// concrete instance types become a oneOf:
//
//	conv := openapi.NewConverter(openapi.NewSlogAdapter(slog.Default()))
//	ref := conv.Convert(schema)
//
// # Generating From Go Types
//
// A SchemaGenerator reflects Go types into a shared definitions table and
// converts the result. Named struct types are referenced through
// #/components/schemas/ so a type used by several operations is emitted
// once:
//
//	defs := jsonschema.NewDefinitions()
//	body := openapi.Employ(defs, nil, openapi.Generate[User])
//	components := openapi.NewConverter(nil).ConvertDefinitions(defs)
//
// # Logging
//
// Logger is a small leveled interface. NopLogger discards everything,
// SlogAdapter forwards to log/slog and DefaultLogger wraps slog.Default.
package openapi
