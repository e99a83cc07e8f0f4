package jsonschema

import (
	"encoding/json"
	"maps"
	"reflect"
	"slices"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
)

// DefaultRefPrefix is the $ref prefix used for definitions, matching the
// location of the schemas in an OpenAPI document.
const DefaultRefPrefix = "#/components/schemas/"

var (
	timeType       = reflect.TypeFor[time.Time]()
	uuidType       = reflect.TypeFor[uuid.UUID]()
	rawMessageType = reflect.TypeFor[json.RawMessage]()
)

// Exampler can be implemented by types to provide an example value for the
// derived schema.
//
//	func (u User) SchemaExample() any {
//	    return User{ID: "550e8400-e29b-41d4-a716-446655440000", Name: "Alice"}
//	}
type Exampler interface {
	SchemaExample() any
}

// Provider can be implemented by types that describe their own schema
// instead of having it derived from their structure. Named providers are
// stored as definitions and referenced like structs.
type Provider interface {
	JSONSchema(r *Reflector) *Schema
}

// Definitions is the table of named schemas that $ref values point into.
// It also remembers which Go type claimed which name, so that asking for the
// same type again yields the same reference and two types sharing a simple
// name never overwrite each other. A Definitions value is not safe for
// concurrent use.
type Definitions struct {
	schemas   map[string]*Schema
	typeNames map[reflect.Type]string // type -> chosen schema name
	nameTypes map[string]reflect.Type // schema name -> type that claimed it
	visited   map[reflect.Type]bool
	overrides map[reflect.Type]*Schema

	// Named slices, arrays and maps being expanded, and those found to
	// contain themselves.
	expanding map[reflect.Type]bool
	recursive map[reflect.Type]bool
}

// NewDefinitions creates an empty definitions table.
func NewDefinitions() *Definitions {
	return &Definitions{
		schemas:   make(map[string]*Schema),
		typeNames: make(map[reflect.Type]string),
		nameTypes: make(map[string]reflect.Type),
		visited:   make(map[reflect.Type]bool),
		overrides: make(map[reflect.Type]*Schema),
		expanding: make(map[reflect.Type]bool),
		recursive: make(map[reflect.Type]bool),
	}
}

// Get returns the named definition.
func (d *Definitions) Get(name string) (*Schema, bool) {
	s, ok := d.schemas[name]
	return s, ok
}

// Set stores a definition that is not backed by a Go type.
func (d *Definitions) Set(name string, s *Schema) {
	d.schemas[name] = s
}

// Len returns the number of definitions.
func (d *Definitions) Len() int {
	return len(d.schemas)
}

// Names returns the definition names in sorted order.
func (d *Definitions) Names() []string {
	return slices.Sorted(maps.Keys(d.schemas))
}

// SetTypeSchema makes every reflection of t use s instead of a derived
// schema. Named types are still stored as definitions and referenced.
func (d *Definitions) SetTypeSchema(t reflect.Type, s *Schema) {
	d.overrides[t] = s
}

// nameFor returns a unique schema name for the given type. If two types
// from different packages share the same simple name (e.g., models.User and
// api.User), the second type gets a qualified name using its package's last
// path segment as a prefix (e.g., "ApiUser"). When the prefixed name still
// collides, a numeric suffix is appended (e.g., "ApiUser2").
func (d *Definitions) nameFor(t reflect.Type) string {
	simple := sanitizeSchemaName(t.Name())
	if simple == "" || t.PkgPath() == "" {
		return ""
	}

	if name, ok := d.typeNames[t]; ok {
		return name
	}

	name := simple
	if existing, ok := d.nameTypes[name]; ok && existing != t {
		name = pkgPrefix(t.PkgPath()) + simple
		if existing, ok := d.nameTypes[name]; ok && existing != t {
			base := name
			for i := 2; ; i++ {
				candidate := base + strconv.Itoa(i)
				if _, ok := d.nameTypes[candidate]; !ok {
					name = candidate
					break
				}
			}
		}
	}

	d.typeNames[t] = name
	d.nameTypes[name] = t
	return name
}

// Reflector derives JSON Schema nodes from Go types. Named struct types and
// named providers are written into a Definitions table and referenced via
// $ref; everything else is inlined.
type Reflector struct {
	defs      *Definitions
	refPrefix string
}

// ReflectorOption configures a Reflector.
type ReflectorOption func(*Reflector)

// WithRefPrefix overrides DefaultRefPrefix.
func WithRefPrefix(prefix string) ReflectorOption {
	return func(r *Reflector) {
		r.refPrefix = prefix
	}
}

// NewReflector creates a reflector writing into defs. A nil defs starts
// an empty table.
func NewReflector(defs *Definitions, opts ...ReflectorOption) *Reflector {
	if defs == nil {
		defs = NewDefinitions()
	}
	r := &Reflector{defs: defs, refPrefix: DefaultRefPrefix}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Definitions returns the table the reflector writes into.
func (r *Reflector) Definitions() *Definitions {
	return r.defs
}

// SetDefinitions replaces the table and returns the previous one.
func (r *Reflector) SetDefinitions(defs *Definitions) *Definitions {
	prev := r.defs
	r.defs = defs
	return prev
}

// RefPrefix returns the prefix used for $ref values.
func (r *Reflector) RefPrefix() string {
	return r.refPrefix
}

// Subschema returns the schema to embed wherever a value of type t appears:
// a $ref for named structs, providers and self-referencing named slices or
// maps, an inline schema otherwise.
//
// See: https://json-schema.org/draft-07/json-schema-core#rfc.section.8.3
func (r *Reflector) Subschema(t reflect.Type) *Schema {
	nullable := false
	if t.Kind() == reflect.Pointer {
		nullable = true
		t = t.Elem()
	}

	if name, ok := r.referenceable(t); ok {
		if !r.defs.visited[t] {
			r.defs.visited[t] = true
			r.defs.schemas[name] = r.expand(t)
		}
		return r.reference(name, nullable)
	}

	if namedContainer(t) {
		return r.container(t, nullable)
	}

	s := r.expand(t)
	if nullable {
		applyNullable(s)
	}
	return s
}

func (r *Reflector) reference(name string, nullable bool) *Schema {
	ref := Ref(r.refPrefix + name)
	if nullable {
		return FromObject(&Object{
			AnyOf: []*Schema{ref, FromObject(&Object{Type: Single(TypeNull)})},
		})
	}
	return ref
}

// namedContainer reports whether t is a named slice, array or map. Such a
// type may contain itself without passing through a struct.
func namedContainer(t reflect.Type) bool {
	if t.Name() == "" {
		return false
	}
	switch t.Kind() {
	case reflect.Slice:
		return t.Elem().Kind() != reflect.Uint8
	case reflect.Array, reflect.Map:
		return true
	}
	return false
}

// container inlines a named slice, array or map unless it refers to
// itself. A self-referencing container is stored as a definition and every
// occurrence, the outermost included, becomes a $ref.
func (r *Reflector) container(t reflect.Type, nullable bool) *Schema {
	if r.defs.visited[t] {
		return r.reference(r.defs.typeNames[t], nullable)
	}
	if r.defs.expanding[t] {
		if name := r.defs.nameFor(t); name != "" {
			r.defs.recursive[t] = true
			return r.reference(name, nullable)
		}
		return True()
	}

	r.defs.expanding[t] = true
	s := r.expand(t)
	delete(r.defs.expanding, t)

	if r.defs.recursive[t] {
		name := r.defs.nameFor(t)
		r.defs.visited[t] = true
		r.defs.schemas[name] = s
		return r.reference(name, nullable)
	}

	if nullable {
		applyNullable(s)
	}
	return s
}

// Root returns the expanded schema for t. Unlike Subschema, a named struct
// is described in place rather than referenced, while the types it refers
// to are still collected as definitions.
func (r *Reflector) Root(t reflect.Type) *Schema {
	nullable := false
	if t.Kind() == reflect.Pointer {
		nullable = true
		t = t.Elem()
	}

	s := r.expand(t)
	if nullable {
		applyNullable(s)
	}
	return s
}

// referenceable reports whether t is stored as a definition and under
// which name.
func (r *Reflector) referenceable(t reflect.Type) (string, bool) {
	if t == timeType || t == uuidType || t == rawMessageType {
		return "", false
	}

	custom := t.Kind() == reflect.Struct
	if _, ok := r.defs.overrides[t]; ok {
		custom = true
	} else if _, ok := reflect.New(t).Interface().(Provider); ok {
		custom = true
	}
	if !custom {
		return "", false
	}

	name := r.defs.nameFor(t)
	return name, name != ""
}

// expand produces the full schema for t without referencing t itself.
func (r *Reflector) expand(t reflect.Type) *Schema {
	if s, ok := r.defs.overrides[t]; ok {
		return shallowCopy(s)
	}
	if p, ok := reflect.New(t).Interface().(Provider); ok {
		return shallowCopy(p.JSONSchema(r))
	}

	s := r.inline(t)
	if ex, ok := reflect.New(t).Interface().(Exampler); ok && s.Object != nil {
		s.Object.Examples = []any{ex.SchemaExample()}
	}
	return s
}

// inline maps Go primitive and composite types to JSON Schema.
//
// See: https://json-schema.org/draft-07/json-schema-validation#rfc.section.6.1.1
// See: https://json-schema.org/draft-07/json-schema-validation#rfc.section.7.3
func (r *Reflector) inline(t reflect.Type) *Schema {
	switch t {
	case timeType:
		return FromObject(&Object{Type: Single(TypeString), Format: "date-time"})
	case uuidType:
		return FromObject(&Object{Type: Single(TypeString), Format: "uuid"})
	case rawMessageType:
		return True()
	}

	switch t.Kind() {
	case reflect.Bool:
		return FromObject(&Object{Type: Single(TypeBoolean)})

	case reflect.Int8, reflect.Int16, reflect.Int32:
		return FromObject(&Object{Type: Single(TypeInteger), Format: "int32"})

	case reflect.Int, reflect.Int64:
		return FromObject(&Object{Type: Single(TypeInteger), Format: "int64"})

	case reflect.Uint8, reflect.Uint16, reflect.Uint32:
		zero := 0.0
		return FromObject(&Object{Type: Single(TypeInteger), Format: "int32", Minimum: &zero})

	case reflect.Uint, reflect.Uint64, reflect.Uintptr:
		zero := 0.0
		return FromObject(&Object{Type: Single(TypeInteger), Format: "int64", Minimum: &zero})

	case reflect.Float32:
		return FromObject(&Object{Type: Single(TypeNumber), Format: "float"})

	case reflect.Float64:
		return FromObject(&Object{Type: Single(TypeNumber), Format: "double"})

	case reflect.String:
		return FromObject(&Object{Type: Single(TypeString)})

	case reflect.Slice:
		if t.Elem().Kind() == reflect.Uint8 {
			return FromObject(&Object{Type: Single(TypeString), Format: "byte"})
		}
		return FromObject(&Object{
			Type:  Single(TypeArray),
			Items: SingleItems(r.Subschema(t.Elem())),
		})

	case reflect.Array:
		n := uint32(t.Len())
		return FromObject(&Object{
			Type:     Single(TypeArray),
			Items:    SingleItems(r.Subschema(t.Elem())),
			MinItems: &n,
			MaxItems: &n,
		})

	case reflect.Map:
		if t.Key().Kind() != reflect.String {
			return FromObject(&Object{Type: Single(TypeObject)})
		}
		return FromObject(&Object{
			Type:                 Single(TypeObject),
			AdditionalProperties: r.Subschema(t.Elem()),
		})

	case reflect.Struct:
		return r.structSchema(t)

	case reflect.Pointer:
		return r.Subschema(t)
	}

	// Interfaces, channels and funcs accept anything.
	return True()
}

// structSchema builds an object schema from struct fields.
//
// See: https://json-schema.org/draft-07/json-schema-validation#rfc.section.6.5.4
// See: https://json-schema.org/draft-07/json-schema-validation#rfc.section.6.5.3
func (r *Reflector) structSchema(t reflect.Type) *Schema {
	obj := &Object{
		Type:       Single(TypeObject),
		Properties: make(map[string]*Schema),
	}

	r.collectFields(t, obj, false)

	if len(obj.Properties) == 0 {
		obj.Properties = nil
	}

	return FromObject(obj)
}

// collectFields recursively collects struct fields into the object. When
// allOptional is true every field is optional regardless of its json tag;
// this is the case for pointer-embedded structs, whose fields all vanish
// from the encoding when the pointer is nil.
func (r *Reflector) collectFields(t reflect.Type, obj *Object, allOptional bool) {
	for i := range t.NumField() {
		field := t.Field(i)

		if !field.IsExported() {
			continue
		}

		// encoding/json inlines an anonymous struct field only when it has
		// no explicit name in its json tag.
		if field.Anonymous {
			jsonName, _ := parseJSONTag(field.Tag.Get("json"))
			if jsonName == "" {
				ft := field.Type
				isPtr := ft.Kind() == reflect.Pointer
				if isPtr {
					ft = ft.Elem()
				}
				if ft.Kind() == reflect.Struct {
					r.collectFields(ft, obj, allOptional || isPtr)
					continue
				}
			}
		}

		jsonTag := field.Tag.Get("json")
		if jsonTag == "-" {
			continue
		}

		name, opts := parseJSONTag(jsonTag)
		if name == "" {
			name = field.Name
		}

		fieldSchema := r.Subschema(field.Type)
		applySchemaTag(fieldSchema, field.Tag.Get("schema"))

		if opts.stringEncode && !fieldSchema.IsRef() {
			applyStringEncoding(fieldSchema)
		}

		obj.Properties[name] = fieldSchema

		if !opts.omitempty && !allOptional {
			obj.Required = append(obj.Required, name)
		}
	}
}

type jsonTagOpts struct {
	omitempty    bool
	stringEncode bool // encoding/json ",string" option
}

func parseJSONTag(tag string) (string, jsonTagOpts) {
	if tag == "" {
		return "", jsonTagOpts{}
	}
	name, rest, _ := strings.Cut(tag, ",")
	return name, jsonTagOpts{
		omitempty:    strings.Contains(rest, "omitempty") || strings.Contains(rest, "omitzero"),
		stringEncode: strings.Contains(rest, "string"),
	}
}

// applySchemaTag parses the `schema` struct tag and applies its keywords.
// Boolean schemas and references carry no keywords of their own and are
// left untouched.
//
//	Name  string `json:"name" schema:"description=Display name,minLength=1,maxLength=64"`
//	Kind  string `json:"kind" schema:"enum=cat|dog"`
//	Limit int    `json:"limit" schema:"minimum=1,exclusiveMaximum=100"`
func applySchemaTag(s *Schema, tag string) {
	if tag == "" || s.Object == nil || s.Object.Ref != "" {
		return
	}
	obj := s.Object

	for part := range strings.SplitSeq(tag, ",") {
		key, value, hasValue := strings.Cut(part, "=")
		key = strings.TrimSpace(key)
		if hasValue {
			value = strings.TrimSpace(value)
		}

		switch key {
		case "title":
			obj.Title = value
		case "description":
			obj.Description = value
		case "example":
			obj.Examples = append(obj.Examples, parseTagValue(obj, value))
		case "default":
			obj.Default = parseTagValue(obj, value)
		case "format":
			obj.Format = value
		case "pattern":
			obj.Pattern = value
		case "deprecated":
			obj.Deprecated = true
		case "readOnly":
			obj.ReadOnly = true
		case "writeOnly":
			obj.WriteOnly = true
		case "uniqueItems":
			obj.UniqueItems = true
		case "enum":
			values := strings.Split(value, "|")
			obj.Enum = make([]any, len(values))
			for i, v := range values {
				obj.Enum[i] = parseTagValue(obj, v)
			}
		case "const":
			v := parseTagValue(obj, value)
			obj.Const = &v
		case "multipleOf":
			obj.MultipleOf = parseFloat(value)
		case "minimum":
			obj.Minimum = parseFloat(value)
		case "maximum":
			obj.Maximum = parseFloat(value)
		case "exclusiveMinimum":
			if v := parseFloat(value); v != nil {
				obj.ExclusiveMinimum = ExclusiveBound(*v)
			}
		case "exclusiveMaximum":
			if v := parseFloat(value); v != nil {
				obj.ExclusiveMaximum = ExclusiveBound(*v)
			}
		case "minLength":
			obj.MinLength = parseCount(value)
		case "maxLength":
			obj.MaxLength = parseCount(value)
		case "minItems":
			obj.MinItems = parseCount(value)
		case "maxItems":
			obj.MaxItems = parseCount(value)
		case "minProperties":
			obj.MinProperties = parseCount(value)
		case "maxProperties":
			obj.MaxProperties = parseCount(value)
		}
	}
}

func parseFloat(value string) *float64 {
	v, err := strconv.ParseFloat(value, 64)
	if err != nil {
		return nil
	}
	return &v
}

func parseCount(value string) *uint32 {
	v, err := strconv.ParseUint(value, 10, 32)
	if err != nil {
		return nil
	}
	n := uint32(v)
	return &n
}

// parseTagValue converts a tag value to the Go type matching the first
// named instance type.
func parseTagValue(obj *Object, value string) any {
	types := obj.Type.Values()
	if len(types) == 0 {
		return value
	}

	switch types[0] {
	case TypeInteger:
		if v, err := strconv.ParseInt(value, 10, 64); err == nil {
			return v
		}
	case TypeNumber:
		if v, err := strconv.ParseFloat(value, 64); err == nil {
			return v
		}
	case TypeBoolean:
		if v, err := strconv.ParseBool(value); err == nil {
			return v
		}
	}
	return value
}

// pkgPrefix extracts the last segment of a Go package path and capitalizes
// it for use as a schema name prefix (e.g., "net/http" -> "Http").
func pkgPrefix(pkgPath string) string {
	if idx := strings.LastIndexByte(pkgPath, '/'); idx >= 0 {
		pkgPath = pkgPath[idx+1:]
	}
	if len(pkgPath) == 0 {
		return ""
	}
	pkgPath = strings.ReplaceAll(pkgPath, "-", "_")
	pkgPath = strings.ReplaceAll(pkgPath, ".", "_")
	return strings.ToUpper(pkgPath[:1]) + pkgPath[1:]
}

// sanitizeSchemaName turns Go type names into definition keys. Type
// arguments are appended to the base name without their package paths:
// "Page[User]" becomes "PageUser", "Page[[]User]" becomes "PageUserList",
// "Box[map[string]int]" becomes "BoxMapStringInt" and "Pair[K,V]" becomes
// "PairKV". Runes outside [A-Za-z0-9._-] are dropped.
func sanitizeSchemaName(name string) string {
	idx := strings.IndexByte(name, '[')
	if idx < 0 || !strings.HasSuffix(name, "]") {
		return cleanSchemaName(name)
	}

	var b strings.Builder
	b.WriteString(name[:idx])
	for _, arg := range splitTypeArgs(name[idx+1 : len(name)-1]) {
		b.WriteString(typeArgName(arg))
	}
	return cleanSchemaName(b.String())
}

// typeArgName renders one type argument as a name fragment.
func typeArgName(arg string) string {
	arg = strings.TrimSpace(arg)
	switch {
	case arg == "":
		return ""
	case strings.HasPrefix(arg, "*"):
		return typeArgName(arg[1:])
	case strings.HasPrefix(arg, "[]"):
		return typeArgName(arg[2:]) + "List"
	case strings.HasPrefix(arg, "["):
		if end := closingBracket(arg, 0); end > 0 {
			return typeArgName(arg[end+1:]) + "List"
		}
	case strings.HasPrefix(arg, "map["):
		if end := closingBracket(arg, 3); end > 0 {
			return "Map" + typeArgName(arg[4:end]) + typeArgName(arg[end+1:])
		}
	}

	head := arg
	if idx := strings.IndexByte(head, '['); idx >= 0 {
		head = head[:idx]
	}
	if dot := strings.LastIndexByte(head, '.'); dot >= 0 {
		arg = arg[dot+1:]
	}

	name := sanitizeSchemaName(arg)
	if name == "" {
		return ""
	}
	return strings.ToUpper(name[:1]) + name[1:]
}

// splitTypeArgs splits a type argument list at its top-level commas.
func splitTypeArgs(list string) []string {
	var (
		args  []string
		depth int
		start int
	)
	for i, r := range list {
		switch r {
		case '[', '(', '{':
			depth++
		case ']', ')', '}':
			depth--
		case ',':
			if depth == 0 {
				args = append(args, list[start:i])
				start = i + 1
			}
		}
	}
	return append(args, list[start:])
}

// closingBracket returns the index of the bracket closing the one at open,
// or -1.
func closingBracket(s string, open int) int {
	depth := 0
	for i := open; i < len(s); i++ {
		switch s[i] {
		case '[':
			depth++
		case ']':
			depth--
			if depth == 0 {
				return i
			}
		}
	}
	return -1
}

func cleanSchemaName(name string) string {
	return strings.Map(func(r rune) rune {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9':
			return r
		case r == '.', r == '_', r == '-':
			return r
		}
		return -1
	}, name)
}

// shallowCopy copies the top-level keywords so that field tags applied to
// the result never leak into a shared schema.
func shallowCopy(s *Schema) *Schema {
	if s == nil {
		return True()
	}
	if s.Object == nil {
		out := *s
		return &out
	}
	obj := *s.Object
	return FromObject(&obj)
}

// applyNullable adds "null" to the instance type of an inline schema.
func applyNullable(s *Schema) {
	if s.Object == nil || s.Object.Ref != "" || s.Object.Type.IsZero() {
		return
	}
	s.Object.Type = s.Object.Type.With(TypeNull)
}

// applyStringEncoding overrides the type to "string" to match the
// encoding/json ",string" option. A nullable type keeps its "null" variant.
func applyStringEncoding(s *Schema) {
	if s.Object == nil || s.Object.Type.IsZero() {
		return
	}
	if s.Object.Type.Has(TypeNull) {
		s.Object.Type = Multiple(TypeString, TypeNull)
	} else {
		s.Object.Type = Single(TypeString)
	}
	s.Object.Format = ""
	s.Object.Minimum = nil
}
