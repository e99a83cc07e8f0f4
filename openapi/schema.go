package openapi

import (
	"encoding/json"
	"maps"
)

// SchemaRef is either a reference to a component schema or an inline
// schema. Exactly one of Ref and Value is set.
//
// See: https://spec.openapis.org/oas/v3.0.3#reference-object
type SchemaRef struct {
	Ref   string
	Value *Schema
}

// NewRef returns a reference.
func NewRef(ref string) *SchemaRef {
	return &SchemaRef{Ref: ref}
}

// NewSchemaRef wraps an inline schema.
func NewSchemaRef(s *Schema) *SchemaRef {
	return &SchemaRef{Value: s}
}

// MarshalJSON encodes the reference object or the inline schema.
func (r SchemaRef) MarshalJSON() ([]byte, error) {
	if r.Ref != "" {
		return json.Marshal(map[string]string{"$ref": r.Ref})
	}
	if r.Value == nil {
		return []byte("{}"), nil
	}
	return json.Marshal(r.Value)
}

// Schema is an inline OpenAPI 3.0 schema: shared metadata plus exactly one
// kind.
//
// See: https://spec.openapis.org/oas/v3.0.3#schema-object
type Schema struct {
	SchemaData
	Kind SchemaKind
}

// SchemaData holds the metadata fields common to every kind.
type SchemaData struct {
	Nullable      bool
	ReadOnly      bool
	WriteOnly     bool
	Deprecated    bool
	ExternalDocs  *ExternalDocs
	Example       any
	Title         string
	Description   string
	Discriminator *Discriminator
	Default       any
	Extensions    map[string]any
}

func (d *SchemaData) fields(m map[string]any) {
	if d.Nullable {
		m["nullable"] = true
	}
	if d.ReadOnly {
		m["readOnly"] = true
	}
	if d.WriteOnly {
		m["writeOnly"] = true
	}
	if d.Deprecated {
		m["deprecated"] = true
	}
	if d.ExternalDocs != nil {
		m["externalDocs"] = d.ExternalDocs
	}
	if d.Example != nil {
		m["example"] = d.Example
	}
	if d.Title != "" {
		m["title"] = d.Title
	}
	if d.Description != "" {
		m["description"] = d.Description
	}
	if d.Discriminator != nil {
		m["discriminator"] = d.Discriminator
	}
	if d.Default != nil {
		m["default"] = d.Default
	}
	maps.Copy(m, d.Extensions)
}

// MarshalJSON flattens the metadata and the kind into one object.
func (s Schema) MarshalJSON() ([]byte, error) {
	m := make(map[string]any)
	s.SchemaData.fields(m)
	if s.Kind != nil {
		s.Kind.fields(m)
	}
	return json.Marshal(m)
}

// SchemaKind is the type-specific part of a schema. It is implemented by
// the concrete types (*StringType, *NumberType, *IntegerType,
// *BooleanType, *ObjectType, *ArrayType), the combinators (*AllOf,
// *AnyOf, *OneOf, *Not) and the wildcard *AnySchema.
type SchemaKind interface {
	fields(m map[string]any)
}

// StringType is a "string" schema.
type StringType struct {
	Format    string
	Pattern   string
	Enum      []*string
	MinLength *int
	MaxLength *int
}

func (t *StringType) fields(m map[string]any) {
	m["type"] = "string"
	if t.Format != "" {
		m["format"] = t.Format
	}
	if t.Pattern != "" {
		m["pattern"] = t.Pattern
	}
	if len(t.Enum) > 0 {
		m["enum"] = t.Enum
	}
	if t.MinLength != nil {
		m["minLength"] = *t.MinLength
	}
	if t.MaxLength != nil {
		m["maxLength"] = *t.MaxLength
	}
}

// NumberType is a "number" schema. Exclusive bounds are flags on the
// paired minimum and maximum.
type NumberType struct {
	Format           string
	MultipleOf       *float64
	ExclusiveMinimum bool
	ExclusiveMaximum bool
	Minimum          *float64
	Maximum          *float64
	Enum             []*float64
}

func (t *NumberType) fields(m map[string]any) {
	m["type"] = "number"
	if t.Format != "" {
		m["format"] = t.Format
	}
	if t.MultipleOf != nil {
		m["multipleOf"] = *t.MultipleOf
	}
	if t.ExclusiveMinimum {
		m["exclusiveMinimum"] = true
	}
	if t.ExclusiveMaximum {
		m["exclusiveMaximum"] = true
	}
	if t.Minimum != nil {
		m["minimum"] = *t.Minimum
	}
	if t.Maximum != nil {
		m["maximum"] = *t.Maximum
	}
	if len(t.Enum) > 0 {
		m["enum"] = t.Enum
	}
}

// IntegerType is an "integer" schema.
type IntegerType struct {
	Format           string
	MultipleOf       *int64
	ExclusiveMinimum bool
	ExclusiveMaximum bool
	Minimum          *int64
	Maximum          *int64
	Enum             []*int64
}

func (t *IntegerType) fields(m map[string]any) {
	m["type"] = "integer"
	if t.Format != "" {
		m["format"] = t.Format
	}
	if t.MultipleOf != nil {
		m["multipleOf"] = *t.MultipleOf
	}
	if t.ExclusiveMinimum {
		m["exclusiveMinimum"] = true
	}
	if t.ExclusiveMaximum {
		m["exclusiveMaximum"] = true
	}
	if t.Minimum != nil {
		m["minimum"] = *t.Minimum
	}
	if t.Maximum != nil {
		m["maximum"] = *t.Maximum
	}
	if len(t.Enum) > 0 {
		m["enum"] = t.Enum
	}
}

// BooleanType is a "boolean" schema.
type BooleanType struct {
	Enum []*bool
}

func (t *BooleanType) fields(m map[string]any) {
	m["type"] = "boolean"
	if len(t.Enum) > 0 {
		m["enum"] = t.Enum
	}
}

// ObjectType is an "object" schema.
type ObjectType struct {
	Properties           map[string]*SchemaRef
	Required             []string
	AdditionalProperties *AdditionalProperties
	MinProperties        *int
	MaxProperties        *int
}

func (t *ObjectType) fields(m map[string]any) {
	m["type"] = "object"
	if len(t.Properties) > 0 {
		m["properties"] = t.Properties
	}
	if len(t.Required) > 0 {
		m["required"] = t.Required
	}
	if t.AdditionalProperties != nil {
		m["additionalProperties"] = t.AdditionalProperties
	}
	if t.MinProperties != nil {
		m["minProperties"] = *t.MinProperties
	}
	if t.MaxProperties != nil {
		m["maxProperties"] = *t.MaxProperties
	}
}

// AdditionalProperties is either a boolean or a schema.
type AdditionalProperties struct {
	Any    *bool
	Schema *SchemaRef
}

// MarshalJSON encodes the boolean or the schema.
func (a AdditionalProperties) MarshalJSON() ([]byte, error) {
	if a.Schema != nil {
		return json.Marshal(a.Schema)
	}
	if a.Any != nil {
		return json.Marshal(*a.Any)
	}
	return []byte("true"), nil
}

// ArrayType is an "array" schema.
type ArrayType struct {
	Items       *SchemaRef
	MinItems    *int
	MaxItems    *int
	UniqueItems bool
}

func (t *ArrayType) fields(m map[string]any) {
	m["type"] = "array"
	if t.Items != nil {
		m["items"] = t.Items
	}
	if t.MinItems != nil {
		m["minItems"] = *t.MinItems
	}
	if t.MaxItems != nil {
		m["maxItems"] = *t.MaxItems
	}
	if t.UniqueItems {
		m["uniqueItems"] = true
	}
}

// AllOf matches when every member matches.
type AllOf struct {
	Schemas []*SchemaRef
}

func (k *AllOf) fields(m map[string]any) { m["allOf"] = k.Schemas }

// AnyOf matches when at least one member matches.
type AnyOf struct {
	Schemas []*SchemaRef
}

func (k *AnyOf) fields(m map[string]any) { m["anyOf"] = k.Schemas }

// OneOf matches when exactly one member matches.
type OneOf struct {
	Schemas []*SchemaRef
}

func (k *OneOf) fields(m map[string]any) { m["oneOf"] = k.Schemas }

// Not matches when its schema does not.
type Not struct {
	Schema *SchemaRef
}

func (k *Not) fields(m map[string]any) { m["not"] = k.Schema }

// AnySchema is the wildcard kind: it places no constraint on the value.
type AnySchema struct{}

func (*AnySchema) fields(map[string]any) {}
