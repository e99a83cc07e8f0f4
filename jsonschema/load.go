package jsonschema

import (
	"bytes"
	"errors"
	"fmt"

	sjs "github.com/santhosh-tekuri/jsonschema/v5"
)

// ErrInvalidSchema is returned when a document is not a valid JSON Schema.
var ErrInvalidSchema = errors.New("invalid JSON schema")

const resourceURL = "schema.json"

// Parse decodes a JSON Schema document without checking it against its
// meta-schema.
func Parse(data []byte) (*Schema, error) {
	s := &Schema{}
	if err := s.UnmarshalJSON(data); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidSchema, err)
	}
	return s, nil
}

// Load compiles data against its meta-schema before decoding it. The draft
// is taken from "$schema" and defaults to draft 7.
func Load(data []byte) (*Schema, error) {
	c := sjs.NewCompiler()
	c.Draft = sjs.Draft7

	if err := c.AddResource(resourceURL, bytes.NewReader(data)); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidSchema, err)
	}
	if _, err := c.Compile(resourceURL); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidSchema, err)
	}

	return Parse(data)
}
