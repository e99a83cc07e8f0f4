package jsonschema

import (
	"bytes"
	"encoding/json"
	"fmt"
	"maps"
	"strings"

	"gopkg.in/yaml.v3"
)

// Type is a JSON Schema primitive instance type.
//
// See: https://json-schema.org/draft-07/json-schema-validation#rfc.section.6.1.1
type Type string

const (
	TypeNull    Type = "null"
	TypeBoolean Type = "boolean"
	TypeObject  Type = "object"
	TypeArray   Type = "array"
	TypeNumber  Type = "number"
	TypeString  Type = "string"
	TypeInteger Type = "integer"
)

// Schema is a JSON Schema node. Exactly one of Boolean or Object is set:
// a boolean schema accepts (true) or rejects (false) every instance, an
// object schema carries keywords. An object with only Ref set is a bare
// reference.
//
// See: https://json-schema.org/draft-07/json-schema-core#rfc.section.4.3.1
type Schema struct {
	Boolean *bool
	Object  *Object
}

// Bool returns a boolean schema.
func Bool(v bool) *Schema {
	return &Schema{Boolean: &v}
}

// True returns the schema that accepts every instance.
func True() *Schema { return Bool(true) }

// False returns the schema that rejects every instance.
func False() *Schema { return Bool(false) }

// Ref returns a bare reference schema.
//
// See: https://json-schema.org/draft-07/json-schema-core#rfc.section.8.3
func Ref(ref string) *Schema {
	return &Schema{Object: &Object{Ref: ref}}
}

// FromObject wraps a schema object.
func FromObject(obj *Object) *Schema {
	return &Schema{Object: obj}
}

// IsRef reports whether the schema is a reference.
func (s *Schema) IsRef() bool {
	return s != nil && s.Object != nil && s.Object.Ref != ""
}

// Object is a JSON Schema object. Keyword blocks follow the grouping of the
// validation vocabulary: metadata, type, composition, number, string, array
// and object.
//
// See: https://json-schema.org/draft-07/json-schema-validation
type Object struct {
	ID        string `json:"$id,omitempty"`
	SchemaURI string `json:"$schema,omitempty"`
	Ref       string `json:"$ref,omitempty"`

	// Metadata annotations.
	// See: https://json-schema.org/draft-07/json-schema-validation#rfc.section.10
	Title       string `json:"title,omitempty"`
	Description string `json:"description,omitempty"`
	Default     any    `json:"default,omitempty"`
	Deprecated  bool   `json:"deprecated,omitempty"`
	ReadOnly    bool   `json:"readOnly,omitempty"`
	WriteOnly   bool   `json:"writeOnly,omitempty"`
	Examples    []any  `json:"examples,omitempty"`

	Type   InstanceType `json:"type,omitzero" yaml:"type,omitempty"`
	Format string       `json:"format,omitempty"`
	Enum   []any        `json:"enum,omitempty"`
	Const  *any         `json:"const,omitempty"`

	// Composition and conditional subschemas.
	// See: https://json-schema.org/draft-07/json-schema-validation#rfc.section.6.6
	// See: https://json-schema.org/draft-07/json-schema-validation#rfc.section.6.7
	AllOf []*Schema `json:"allOf,omitempty"`
	AnyOf []*Schema `json:"anyOf,omitempty"`
	OneOf []*Schema `json:"oneOf,omitempty"`
	Not   *Schema   `json:"not,omitempty"`
	If    *Schema   `json:"if,omitempty"`
	Then  *Schema   `json:"then,omitempty"`
	Else  *Schema   `json:"else,omitempty"`

	// Numeric validation.
	// See: https://json-schema.org/draft-07/json-schema-validation#rfc.section.6.2
	MultipleOf       *float64   `json:"multipleOf,omitempty"`
	Minimum          *float64   `json:"minimum,omitempty"`
	Maximum          *float64   `json:"maximum,omitempty"`
	ExclusiveMinimum *Exclusive `json:"exclusiveMinimum,omitempty"`
	ExclusiveMaximum *Exclusive `json:"exclusiveMaximum,omitempty"`

	// String validation.
	// See: https://json-schema.org/draft-07/json-schema-validation#rfc.section.6.3
	MinLength *uint32 `json:"minLength,omitempty"`
	MaxLength *uint32 `json:"maxLength,omitempty"`
	Pattern   string  `json:"pattern,omitempty"`

	// Array validation.
	// See: https://json-schema.org/draft-07/json-schema-validation#rfc.section.6.4
	Items           *Items  `json:"items,omitempty"`
	AdditionalItems *Schema `json:"additionalItems,omitempty"`
	Contains        *Schema `json:"contains,omitempty"`
	MinItems        *uint32 `json:"minItems,omitempty"`
	MaxItems        *uint32 `json:"maxItems,omitempty"`
	UniqueItems     bool    `json:"uniqueItems,omitempty"`

	// Object validation.
	// See: https://json-schema.org/draft-07/json-schema-validation#rfc.section.6.5
	Properties           map[string]*Schema `json:"properties,omitempty"`
	Required             []string           `json:"required,omitempty"`
	AdditionalProperties *Schema            `json:"additionalProperties,omitempty"`
	PatternProperties    map[string]*Schema `json:"patternProperties,omitempty"`
	PropertyNames        *Schema            `json:"propertyNames,omitempty"`
	MinProperties        *uint32            `json:"minProperties,omitempty"`
	MaxProperties        *uint32            `json:"maxProperties,omitempty"`

	// Definitions holds "definitions" and "$defs" entries.
	Definitions map[string]*Schema `json:"definitions,omitempty"`

	// Extensions holds "x-" prefixed keys.
	Extensions map[string]any `json:"-"`
}

// MarshalJSON encodes the schema as a JSON boolean or object.
func (s Schema) MarshalJSON() ([]byte, error) {
	switch {
	case s.Boolean != nil:
		return json.Marshal(*s.Boolean)
	case s.Object != nil:
		return json.Marshal(s.Object)
	default:
		return []byte("true"), nil
	}
}

// UnmarshalJSON decodes a JSON boolean or object schema.
func (s *Schema) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	switch string(data) {
	case "true", "false":
		b := string(data) == "true"
		*s = Schema{Boolean: &b}
		return nil
	}

	obj := &Object{}
	if err := json.Unmarshal(data, obj); err != nil {
		return err
	}
	*s = Schema{Object: obj}
	return nil
}

type objectAlias Object

// MarshalJSON encodes the object with its extensions inlined.
func (o *Object) MarshalJSON() ([]byte, error) {
	data, err := json.Marshal((*objectAlias)(o))
	if err != nil || len(o.Extensions) == 0 {
		return data, err
	}

	fields := make(map[string]json.RawMessage)
	if err := json.Unmarshal(data, &fields); err != nil {
		return nil, err
	}
	for k, v := range o.Extensions {
		raw, err := json.Marshal(v)
		if err != nil {
			return nil, fmt.Errorf("extension %q: %w", k, err)
		}
		fields[k] = raw
	}
	return json.Marshal(fields)
}

// UnmarshalJSON decodes an object schema. Numbers inside enum, const,
// default and examples are kept as json.Number so that large integers
// survive. "$defs" entries are merged into Definitions and a draft 2020-12
// "prefixItems" tuple is read as a tuple "items" when "items" is absent.
func (o *Object) UnmarshalJSON(data []byte) error {
	var alias objectAlias
	if err := decodeNumbers(data, &alias); err != nil {
		return err
	}

	var rest struct {
		Defs        map[string]*Schema `json:"$defs"`
		PrefixItems []*Schema          `json:"prefixItems"`
	}
	if err := json.Unmarshal(data, &rest); err != nil {
		return err
	}

	var raw map[string]json.RawMessage
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	for k, v := range raw {
		if !strings.HasPrefix(k, "x-") {
			continue
		}
		var ext any
		if err := decodeNumbers(v, &ext); err != nil {
			return fmt.Errorf("extension %q: %w", k, err)
		}
		if alias.Extensions == nil {
			alias.Extensions = make(map[string]any)
		}
		alias.Extensions[k] = ext
	}

	if len(rest.Defs) > 0 {
		if alias.Definitions == nil {
			alias.Definitions = make(map[string]*Schema, len(rest.Defs))
		}
		maps.Copy(alias.Definitions, rest.Defs)
	}
	if alias.Items == nil && len(rest.PrefixItems) > 0 {
		alias.Items = &Items{Tuple: rest.PrefixItems}
	}

	*o = Object(alias)
	return nil
}

func decodeNumbers(data []byte, v any) error {
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()
	return dec.Decode(v)
}

// InstanceType is the "type" keyword: a single type name or a list of them.
//
// See: https://json-schema.org/draft-07/json-schema-validation#rfc.section.6.1.1
type InstanceType struct {
	value []Type
}

// Single creates an InstanceType naming one type.
func Single(t Type) InstanceType {
	return InstanceType{value: []Type{t}}
}

// Multiple creates an InstanceType naming several types (e.g., ["string", "null"]).
func Multiple(types ...Type) InstanceType {
	return InstanceType{value: types}
}

// Values returns the named types in declaration order.
func (it InstanceType) Values() []Type {
	return it.value
}

// Has reports whether t is among the named types.
func (it InstanceType) Has(t Type) bool {
	for _, v := range it.value {
		if v == t {
			return true
		}
	}
	return false
}

// With returns a copy extended with t unless already present.
func (it InstanceType) With(t Type) InstanceType {
	if it.Has(t) {
		return it
	}
	out := make([]Type, len(it.value), len(it.value)+1)
	copy(out, it.value)
	return InstanceType{value: append(out, t)}
}

// IsZero reports whether the type is unset. It also lets omitzero and
// yaml.v3 omitempty drop the keyword.
func (it InstanceType) IsZero() bool {
	return len(it.value) == 0
}

// MarshalJSON encodes a single type as a string and several as an array.
func (it InstanceType) MarshalJSON() ([]byte, error) {
	if len(it.value) == 1 {
		return json.Marshal(it.value[0])
	}
	return json.Marshal(it.value)
}

// UnmarshalJSON decodes the type from a JSON string or array.
func (it *InstanceType) UnmarshalJSON(data []byte) error {
	var single Type
	if err := json.Unmarshal(data, &single); err == nil {
		it.value = []Type{single}
		return nil
	}

	var arr []Type
	if err := json.Unmarshal(data, &arr); err != nil {
		return err
	}
	it.value = arr
	return nil
}

// MarshalYAML encodes a single type as a scalar and several as a sequence.
func (it InstanceType) MarshalYAML() (any, error) {
	switch len(it.value) {
	case 0:
		return nil, nil
	case 1:
		return string(it.value[0]), nil
	default:
		return it.value, nil
	}
}

// UnmarshalYAML decodes the type from a YAML scalar or sequence.
func (it *InstanceType) UnmarshalYAML(node *yaml.Node) error {
	switch node.Kind {
	case yaml.ScalarNode:
		it.value = []Type{Type(node.Value)}
		return nil
	case yaml.SequenceNode:
		var arr []Type
		if err := node.Decode(&arr); err != nil {
			return err
		}
		it.value = arr
		return nil
	default:
		return fmt.Errorf("unsupported YAML node kind %d for InstanceType", node.Kind)
	}
}

// Items is the array "items" keyword: one schema applied to every element,
// or a tuple with one schema per position.
//
// See: https://json-schema.org/draft-07/json-schema-validation#rfc.section.6.4.1
type Items struct {
	Single *Schema
	Tuple  []*Schema
}

// SingleItems returns items validating every element against s.
func SingleItems(s *Schema) *Items {
	return &Items{Single: s}
}

// TupleItems returns positional items.
func TupleItems(schemas ...*Schema) *Items {
	return &Items{Tuple: schemas}
}

// MarshalJSON encodes the items as a schema or an array of schemas.
func (i Items) MarshalJSON() ([]byte, error) {
	if i.Tuple != nil {
		return json.Marshal(i.Tuple)
	}
	if i.Single == nil {
		return []byte("true"), nil
	}
	return json.Marshal(i.Single)
}

// UnmarshalJSON decodes the items from a schema or an array of schemas.
func (i *Items) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if len(data) > 0 && data[0] == '[' {
		var tuple []*Schema
		if err := json.Unmarshal(data, &tuple); err != nil {
			return err
		}
		*i = Items{Tuple: tuple}
		return nil
	}

	s := &Schema{}
	if err := s.UnmarshalJSON(data); err != nil {
		return err
	}
	*i = Items{Single: s}
	return nil
}

// Exclusive holds exclusiveMinimum or exclusiveMaximum in either of its
// historical forms: a boolean Flag that makes the paired minimum/maximum
// exclusive (draft 4), or a numeric Bound of its own (draft 6 and later).
//
// See: https://json-schema.org/draft-07/json-schema-validation#rfc.section.6.2.3
type Exclusive struct {
	Flag  *bool
	Bound *float64
}

// ExclusiveFlag returns the boolean form.
func ExclusiveFlag(v bool) *Exclusive {
	return &Exclusive{Flag: &v}
}

// ExclusiveBound returns the numeric form.
func ExclusiveBound(v float64) *Exclusive {
	return &Exclusive{Bound: &v}
}

// MarshalJSON encodes the flag or the bound.
func (e Exclusive) MarshalJSON() ([]byte, error) {
	if e.Bound != nil {
		return json.Marshal(*e.Bound)
	}
	if e.Flag != nil {
		return json.Marshal(*e.Flag)
	}
	return []byte("null"), nil
}

// UnmarshalJSON decodes a JSON boolean or number.
func (e *Exclusive) UnmarshalJSON(data []byte) error {
	var flag bool
	if err := json.Unmarshal(data, &flag); err == nil {
		*e = Exclusive{Flag: &flag}
		return nil
	}

	var bound float64
	if err := json.Unmarshal(data, &bound); err != nil {
		return fmt.Errorf("exclusive bound must be a boolean or a number: %w", err)
	}
	*e = Exclusive{Bound: &bound}
	return nil
}
