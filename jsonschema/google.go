package jsonschema

import (
	"encoding/json"
	"fmt"
	"reflect"

	gjs "github.com/google/jsonschema-go/jsonschema"
)

// FromGoogle converts a schema built with github.com/google/jsonschema-go.
// Both libraries share the JSON encoding, which is used as the bridge; a
// draft 2020-12 "prefixItems" tuple becomes a tuple "items" and "$defs"
// become Definitions.
func FromGoogle(gs *gjs.Schema) (*Schema, error) {
	if gs == nil {
		return nil, nil
	}

	data, err := json.Marshal(gs)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidSchema, err)
	}

	s := &Schema{}
	if err := s.UnmarshalJSON(data); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidSchema, err)
	}
	return s, nil
}

// Infer derives the schema of T with jsonschema-go's inference rules, which
// read `jsonschema:"..."` field tags as property descriptions and close
// structs to additional properties. Recursive types are rejected.
func Infer[T any]() (*Schema, error) {
	return InferType(reflect.TypeFor[T]())
}

// InferType is like Infer but takes a reflect.Type.
func InferType(t reflect.Type) (*Schema, error) {
	gs, err := gjs.ForType(t, &gjs.ForOptions{IgnoreInvalidTypes: true})
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidSchema, err)
	}
	return FromGoogle(gs)
}

// MustInfer is like Infer but panics on error. It is meant for package
// level variables initialized at process start.
func MustInfer[T any]() *Schema {
	s, err := Infer[T]()
	if err != nil {
		panic(err)
	}
	return s
}
