package openapi

import (
	"encoding/json"
	"maps"
	"math"
	"reflect"
	"slices"

	"github.com/vitalvas/swaggerpage/jsonschema"
)

// maxCount is the largest length or count representable in the output.
var maxCount uint64 = math.MaxInt

// Converter turns JSON Schema nodes into OpenAPI 3.0 schemas. It never
// fails: constructs without an OpenAPI 3.0 equivalent are dropped and
// reported through the logger, so a best-effort description is always
// produced.
type Converter struct {
	logger Logger
}

// NewConverter creates a converter reporting to logger. A nil logger uses
// DefaultLogger.
func NewConverter(logger Logger) *Converter {
	if logger == nil {
		logger = DefaultLogger()
	}
	return &Converter{logger: logger}
}

// Convert converts s with a converter reporting to DefaultLogger.
func Convert(s *jsonschema.Schema) *SchemaRef {
	return NewConverter(nil).Convert(s)
}

// Convert converts one JSON Schema node, recursing into subschemas.
func (c *Converter) Convert(s *jsonschema.Schema) *SchemaRef {
	switch {
	case s == nil:
		return anySchema()
	case s.Boolean != nil:
		if *s.Boolean {
			return anySchema()
		}
		return NewSchemaRef(&Schema{Kind: &Not{Schema: anySchema()}})
	case s.Object != nil:
		return c.convertObject(s.Object)
	}
	return anySchema()
}

// withoutNull drops the members of a union that only admit null and
// reports whether any was dropped. A 3.0 schema has no null type: the
// parent carries nullable instead, since an untyped nullable member would
// admit every value. A union of null members only is kept as is.
func withoutNull(members []*jsonschema.Schema) ([]*jsonschema.Schema, bool) {
	kept := make([]*jsonschema.Schema, 0, len(members))
	for _, m := range members {
		if !isNullOnly(m) {
			kept = append(kept, m)
		}
	}
	if len(kept) == len(members) || len(kept) == 0 {
		return members, false
	}
	return kept, true
}

// isNullOnly reports whether s is exactly {"type": "null"}.
func isNullOnly(s *jsonschema.Schema) bool {
	if s == nil || s.Object == nil {
		return false
	}
	if types := s.Object.Type.Values(); len(types) != 1 || types[0] != jsonschema.TypeNull {
		return false
	}
	rest := *s.Object
	rest.Type = jsonschema.InstanceType{}
	return reflect.ValueOf(rest).IsZero()
}

func anySchema() *SchemaRef {
	return NewSchemaRef(&Schema{Kind: &AnySchema{}})
}

func (c *Converter) convertAll(schemas []*jsonschema.Schema) []*SchemaRef {
	out := make([]*SchemaRef, len(schemas))
	for i, s := range schemas {
		out[i] = c.Convert(s)
	}
	return out
}

func (c *Converter) unsupported(keyword string) {
	c.logger.Warn("unsupported JSON schema keyword dropped", "keyword", keyword)
}

func (c *Converter) convertObject(o *jsonschema.Object) *SchemaRef {
	if o.Ref != "" {
		return NewRef(o.Ref)
	}

	if o.Const != nil {
		c.unsupported("const")
	}

	data := SchemaData{
		ReadOnly:    o.ReadOnly,
		WriteOnly:   o.WriteOnly,
		Deprecated:  o.Deprecated,
		Title:       o.Title,
		Description: o.Description,
		Default:     o.Default,
		Extensions:  maps.Clone(o.Extensions),
	}
	if len(o.Examples) > 1 {
		c.logger.Warn("only the first of the schema examples is kept", "count", len(o.Examples))
	}
	if len(o.Examples) > 0 {
		data.Example = o.Examples[0]
	}

	var kinds []SchemaKind
	if o.AllOf != nil {
		kinds = append(kinds, &AllOf{Schemas: c.convertAll(o.AllOf)})
	}
	if o.AnyOf != nil {
		members, null := withoutNull(o.AnyOf)
		data.Nullable = data.Nullable || null
		kinds = append(kinds, &AnyOf{Schemas: c.convertAll(members)})
	}
	if o.OneOf != nil {
		members, null := withoutNull(o.OneOf)
		data.Nullable = data.Nullable || null
		kinds = append(kinds, &OneOf{Schemas: c.convertAll(members)})
	}
	if o.Not != nil {
		kinds = append(kinds, &Not{Schema: c.Convert(o.Not)})
	}
	if o.If != nil {
		c.unsupported("if")
	}
	if o.Then != nil {
		c.unsupported("then")
	}
	if o.Else != nil {
		c.unsupported("else")
	}

	if !o.Type.IsZero() {
		set := c.instanceTypes(o.Type)

		var types []SchemaKind
		if set.boolean {
			types = append(types, c.booleanType(o.Enum))
		}
		if set.object {
			types = append(types, c.objectType(o))
		}
		if set.array {
			for _, arr := range c.arrayTypes(o) {
				types = append(types, arr)
			}
		}
		if set.number {
			types = append(types, c.numberType(o))
		}
		if set.string {
			types = append(types, c.stringType(o))
		}
		if set.integer {
			types = append(types, c.integerType(o))
		}

		// With two or more concrete types there is no single schema to
		// carry the nullable flag.
		if len(types) <= 1 {
			data.Nullable = data.Nullable || set.null
		}
		switch len(types) {
		case 0:
		case 1:
			kinds = append(kinds, types[0])
		default:
			kinds = append(kinds, &OneOf{Schemas: wrapKinds(types)})
		}
	}

	switch len(kinds) {
	case 0:
		return NewSchemaRef(&Schema{SchemaData: data, Kind: &AnySchema{}})
	case 1:
		return NewSchemaRef(&Schema{SchemaData: data, Kind: kinds[0]})
	default:
		return NewSchemaRef(&Schema{SchemaData: data, Kind: &AllOf{Schemas: wrapKinds(kinds)}})
	}
}

// wrapKinds turns kinds into inline schemas with empty metadata; the
// metadata stays on the enclosing schema.
func wrapKinds(kinds []SchemaKind) []*SchemaRef {
	out := make([]*SchemaRef, len(kinds))
	for i, k := range kinds {
		out[i] = NewSchemaRef(&Schema{Kind: k})
	}
	return out
}

type instanceTypeSet struct {
	null, boolean, object, array, number, string, integer bool
}

func (c *Converter) instanceTypes(it jsonschema.InstanceType) instanceTypeSet {
	var set instanceTypeSet
	mark := func(flag *bool, t jsonschema.Type) {
		if *flag {
			c.logger.Warn("instance type is specified multiple times", "type", string(t))
		}
		*flag = true
	}

	for _, t := range it.Values() {
		switch t {
		case jsonschema.TypeNull:
			mark(&set.null, t)
		case jsonschema.TypeBoolean:
			mark(&set.boolean, t)
		case jsonschema.TypeObject:
			mark(&set.object, t)
		case jsonschema.TypeArray:
			mark(&set.array, t)
		case jsonschema.TypeNumber:
			mark(&set.number, t)
		case jsonschema.TypeString:
			mark(&set.string, t)
		case jsonschema.TypeInteger:
			mark(&set.integer, t)
		default:
			c.logger.Warn("unknown instance type dropped", "type", string(t))
		}
	}
	return set
}

func (c *Converter) objectType(o *jsonschema.Object) *ObjectType {
	if len(o.PatternProperties) > 0 {
		c.unsupported("patternProperties")
	}
	if o.PropertyNames != nil {
		c.unsupported("propertyNames")
	}
	if slices.ContainsFunc(o.Enum, isJSONObject) {
		c.logger.Warn("enum values are not supported for type object")
	}

	obj := &ObjectType{
		MinProperties: c.count("minProperties", o.MinProperties),
		MaxProperties: c.count("maxProperties", o.MaxProperties),
	}

	if len(o.Properties) > 0 {
		obj.Properties = make(map[string]*SchemaRef, len(o.Properties))
		for name, prop := range o.Properties {
			obj.Properties[name] = c.Convert(prop)
		}
	}

	if len(o.Required) > 0 {
		required := slices.Clone(o.Required)
		slices.Sort(required)
		obj.Required = slices.Compact(required)
	}

	if ap := o.AdditionalProperties; ap != nil {
		switch {
		case ap.Boolean != nil:
			v := *ap.Boolean
			obj.AdditionalProperties = &AdditionalProperties{Any: &v}
		default:
			obj.AdditionalProperties = &AdditionalProperties{Schema: c.Convert(ap)}
		}
	}

	return obj
}

// arrayTypes returns one array type per item schema: a tuple cannot be
// expressed in OpenAPI 3.0, so each position becomes its own candidate.
func (c *Converter) arrayTypes(o *jsonschema.Object) []*ArrayType {
	if o.AdditionalItems != nil {
		c.unsupported("additionalItems")
	}
	if o.Contains != nil {
		c.unsupported("contains")
	}
	if slices.ContainsFunc(o.Enum, isJSONArray) {
		c.logger.Warn("enum values are not supported for type array")
	}

	minItems := c.count("minItems", o.MinItems)
	maxItems := c.count("maxItems", o.MaxItems)

	newArray := func(item *jsonschema.Schema) *ArrayType {
		return &ArrayType{
			Items:       c.Convert(item),
			MinItems:    minItems,
			MaxItems:    maxItems,
			UniqueItems: o.UniqueItems,
		}
	}

	switch {
	case o.Items == nil:
		return []*ArrayType{newArray(jsonschema.True())}
	case o.Items.Tuple != nil:
		arrays := make([]*ArrayType, 0, len(o.Items.Tuple))
		for _, item := range o.Items.Tuple {
			arrays = append(arrays, newArray(item))
		}
		return arrays
	case o.Items.Single != nil:
		return []*ArrayType{newArray(o.Items.Single)}
	default:
		return []*ArrayType{newArray(jsonschema.True())}
	}
}

// numberBounds normalizes both forms of exclusive bounds into a bound
// value and an exclusive flag. A numeric exclusive bound replaces the plain
// bound on the same side.
func (c *Converter) numberBounds(o *jsonschema.Object) (minimum, maximum *float64, exclMin, exclMax bool) {
	minimum, maximum = o.Minimum, o.Maximum

	if e := o.ExclusiveMaximum; e != nil {
		switch {
		case e.Bound != nil:
			if maximum != nil {
				c.logger.Warn("maximum and exclusiveMaximum are both set, the exclusive bound wins")
			}
			v := *e.Bound
			maximum = &v
			exclMax = true
		case e.Flag != nil:
			exclMax = *e.Flag && maximum != nil
		}
	}

	if e := o.ExclusiveMinimum; e != nil {
		switch {
		case e.Bound != nil:
			if minimum != nil {
				c.logger.Warn("minimum and exclusiveMinimum are both set, the exclusive bound wins")
			}
			v := *e.Bound
			minimum = &v
			exclMin = true
		case e.Flag != nil:
			exclMin = *e.Flag && minimum != nil
		}
	}

	return minimum, maximum, exclMin, exclMax
}

func (c *Converter) numberType(o *jsonschema.Object) *NumberType {
	minimum, maximum, exclMin, exclMax := c.numberBounds(o)

	var enum []*float64
	for _, v := range o.Enum {
		if v == nil {
			enum = append(enum, nil)
			continue
		}
		if f, ok := toFloat(v); ok {
			enum = append(enum, &f)
		}
	}

	return &NumberType{
		Format:           o.Format,
		MultipleOf:       o.MultipleOf,
		ExclusiveMinimum: exclMin,
		ExclusiveMaximum: exclMax,
		Minimum:          minimum,
		Maximum:          maximum,
		Enum:             enum,
	}
}

func (c *Converter) integerType(o *jsonschema.Object) *IntegerType {
	minimum, maximum, exclMin, exclMax := c.numberBounds(o)

	var enum []*int64
	for _, v := range o.Enum {
		if v == nil {
			enum = append(enum, nil)
			continue
		}
		if n, ok := toInt(v); ok {
			enum = append(enum, &n)
		}
	}

	multipleOf := c.integral("multipleOf", o.MultipleOf)
	if multipleOf != nil && *multipleOf <= 0 {
		c.logger.Warn("integer multipleOf is not positive after truncation, dropped", "value", *o.MultipleOf)
		multipleOf = nil
	}

	return &IntegerType{
		Format:           o.Format,
		MultipleOf:       multipleOf,
		ExclusiveMinimum: exclMin,
		ExclusiveMaximum: exclMax,
		Minimum:          c.integral("minimum", minimum),
		Maximum:          c.integral("maximum", maximum),
		Enum:             enum,
	}
}

// integral truncates a numeric constraint for an integer schema. Values
// outside the int64 range are clamped.
func (c *Converter) integral(keyword string, v *float64) *int64 {
	if v == nil {
		return nil
	}

	var n int64
	switch {
	case *v >= math.MaxInt64:
		c.logger.Warn("integer constraint does not fit int64, clamped", "keyword", keyword, "value", *v)
		n = math.MaxInt64
	case *v < math.MinInt64:
		c.logger.Warn("integer constraint does not fit int64, clamped", "keyword", keyword, "value", *v)
		n = math.MinInt64
	default:
		if *v != math.Trunc(*v) {
			c.logger.Warn("integer type has a fractional constraint", "keyword", keyword, "value", *v)
		}
		n = int64(*v)
	}
	return &n
}

func (c *Converter) stringType(o *jsonschema.Object) *StringType {
	var enum []*string
	for _, v := range o.Enum {
		switch s := v.(type) {
		case nil:
			enum = append(enum, nil)
		case string:
			enum = append(enum, &s)
		}
	}

	return &StringType{
		Format:    o.Format,
		Pattern:   o.Pattern,
		Enum:      enum,
		MinLength: c.count("minLength", o.MinLength),
		MaxLength: c.count("maxLength", o.MaxLength),
	}
}

func (c *Converter) booleanType(values []any) *BooleanType {
	var enum []*bool
	for _, v := range values {
		switch b := v.(type) {
		case nil:
			enum = append(enum, nil)
		case bool:
			enum = append(enum, &b)
		}
	}
	return &BooleanType{Enum: enum}
}

// count converts a length or count, clamping values the output cannot
// represent.
func (c *Converter) count(keyword string, v *uint32) *int {
	if v == nil {
		return nil
	}
	if uint64(*v) > maxCount {
		c.logger.Warn("count does not fit the output, clamped", "keyword", keyword, "value", *v)
		n := int(maxCount)
		return &n
	}
	n := int(*v)
	return &n
}

func isJSONObject(v any) bool {
	_, ok := v.(map[string]any)
	return ok
}

func isJSONArray(v any) bool {
	_, ok := v.([]any)
	return ok
}

// toFloat accepts the numeric representations found in decoded JSON and
// in schemas built from Go values.
func toFloat(v any) (float64, bool) {
	switch n := v.(type) {
	case json.Number:
		f, err := n.Float64()
		return f, err == nil
	case float64:
		return n, true
	case float32:
		return float64(n), true
	case int:
		return float64(n), true
	case int8:
		return float64(n), true
	case int16:
		return float64(n), true
	case int32:
		return float64(n), true
	case int64:
		return float64(n), true
	case uint:
		return float64(n), true
	case uint8:
		return float64(n), true
	case uint16:
		return float64(n), true
	case uint32:
		return float64(n), true
	case uint64:
		return float64(n), true
	}
	return 0, false
}

// toInt accepts numbers with an exact int64 representation.
func toInt(v any) (int64, bool) {
	switch n := v.(type) {
	case json.Number:
		if i, err := n.Int64(); err == nil {
			return i, true
		}
		f, err := n.Float64()
		if err != nil {
			return 0, false
		}
		return floatToInt(f)
	case float64:
		return floatToInt(n)
	case float32:
		return floatToInt(float64(n))
	case int:
		return int64(n), true
	case int8:
		return int64(n), true
	case int16:
		return int64(n), true
	case int32:
		return int64(n), true
	case int64:
		return n, true
	case uint:
		return uintToInt(uint64(n))
	case uint8:
		return int64(n), true
	case uint16:
		return int64(n), true
	case uint32:
		return int64(n), true
	case uint64:
		return uintToInt(n)
	}
	return 0, false
}

func floatToInt(f float64) (int64, bool) {
	if f != math.Trunc(f) || f < math.MinInt64 || f >= math.MaxInt64 {
		return 0, false
	}
	return int64(f), true
}

func uintToInt(u uint64) (int64, bool) {
	if u > math.MaxInt64 {
		return 0, false
	}
	return int64(u), true
}
