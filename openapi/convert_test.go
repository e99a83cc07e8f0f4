package openapi

import (
	"encoding/json"
	"math"
	"strings"
	"sync"
	"testing"

	sjs "github.com/santhosh-tekuri/jsonschema/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/vitalvas/swaggerpage/jsonschema"
)

type recordLogger struct {
	mu       sync.Mutex
	warnings []string
}

func (l *recordLogger) Debug(string, ...any) {}
func (l *recordLogger) Info(string, ...any)  {}
func (l *recordLogger) Error(string, ...any) {}

func (l *recordLogger) Warn(msg string, attrs ...any) {
	l.mu.Lock()
	defer l.mu.Unlock()
	var b strings.Builder
	b.WriteString(msg)
	for _, a := range attrs {
		b.WriteString(" ")
		b.WriteString(toString(a))
	}
	l.warnings = append(l.warnings, b.String())
}

func (l *recordLogger) With(...any) Logger { return l }

func (l *recordLogger) Warnings() []string {
	l.mu.Lock()
	defer l.mu.Unlock()
	return append([]string(nil), l.warnings...)
}

func toString(v any) string {
	data, _ := json.Marshal(v)
	return strings.Trim(string(data), `"`)
}

func mustParse(t *testing.T, doc string) *jsonschema.Schema {
	t.Helper()
	s, err := jsonschema.Parse([]byte(doc))
	require.NoError(t, err)
	return s
}

func convertJSON(t *testing.T, doc string) (*SchemaRef, *recordLogger) {
	t.Helper()
	logger := &recordLogger{}
	return NewConverter(logger).Convert(mustParse(t, doc)), logger
}

func marshal(t *testing.T, v any) map[string]any {
	t.Helper()
	data, err := json.Marshal(v)
	require.NoError(t, err)
	var out map[string]any
	require.NoError(t, json.Unmarshal(data, &out))
	return out
}

func TestConvertBoolean(t *testing.T) {
	t.Run("true is the wildcard", func(t *testing.T) {
		out := Convert(jsonschema.True())
		require.NotNil(t, out.Value)
		assert.IsType(t, &AnySchema{}, out.Value.Kind)
		assert.Empty(t, marshal(t, out))
	})

	t.Run("false negates the wildcard", func(t *testing.T) {
		out := Convert(jsonschema.False())
		require.NotNil(t, out.Value)
		not, ok := out.Value.Kind.(*Not)
		require.True(t, ok)
		assert.IsType(t, &AnySchema{}, not.Schema.Value.Kind)
		assert.Equal(t, map[string]any{"not": map[string]any{}}, marshal(t, out))
	})

	t.Run("nil is the wildcard", func(t *testing.T) {
		out := Convert(nil)
		assert.IsType(t, &AnySchema{}, out.Value.Kind)
	})
}

func TestConvertBooleanValidation(t *testing.T) {
	values := []string{`null`, `true`, `0`, `1.5`, `"text"`, `[]`, `[1,"a"]`, `{}`, `{"a":1}`}

	compile := func(t *testing.T, s *SchemaRef) *sjs.Schema {
		t.Helper()
		data, err := json.Marshal(s)
		require.NoError(t, err)
		compiled, err := sjs.CompileString("converted.json", string(data))
		require.NoError(t, err)
		return compiled
	}

	t.Run("true accepts every value", func(t *testing.T) {
		schema := compile(t, Convert(jsonschema.True()))
		for _, raw := range values {
			var v any
			require.NoError(t, json.Unmarshal([]byte(raw), &v))
			assert.NoError(t, schema.Validate(v), raw)
		}
	})

	t.Run("false rejects every value", func(t *testing.T) {
		schema := compile(t, Convert(jsonschema.False()))
		for _, raw := range values {
			var v any
			require.NoError(t, json.Unmarshal([]byte(raw), &v))
			assert.Error(t, schema.Validate(v), raw)
		}
	})
}

func TestConvertReference(t *testing.T) {
	out, logger := convertJSON(t, `{"$ref": "#/components/schemas/User", "description": "ignored"}`)
	assert.Equal(t, "#/components/schemas/User", out.Ref)
	assert.Nil(t, out.Value)
	assert.Equal(t, map[string]any{"$ref": "#/components/schemas/User"}, marshal(t, out))
	assert.Empty(t, logger.Warnings())
}

func TestConvertMetadata(t *testing.T) {
	t.Run("fields are copied", func(t *testing.T) {
		out, logger := convertJSON(t, `{
			"$id": "urn:example:user",
			"title": "User",
			"description": "A user",
			"default": "x",
			"deprecated": true,
			"readOnly": true,
			"writeOnly": true,
			"examples": ["alice"],
			"type": "string",
			"x-internal": true
		}`)
		require.NotNil(t, out.Value)
		data := out.Value.SchemaData
		assert.Equal(t, "User", data.Title)
		assert.Equal(t, "A user", data.Description)
		assert.Equal(t, "x", data.Default)
		assert.True(t, data.Deprecated)
		assert.True(t, data.ReadOnly)
		assert.True(t, data.WriteOnly)
		assert.Equal(t, "alice", data.Example)
		assert.Equal(t, true, data.Extensions["x-internal"])
		assert.Empty(t, logger.Warnings())

		m := marshal(t, out)
		assert.NotContains(t, m, "$id")
		assert.NotContains(t, m, "id")
		assert.Equal(t, "string", m["type"])
		assert.Equal(t, true, m["x-internal"])
	})

	t.Run("only the first example is kept", func(t *testing.T) {
		out, logger := convertJSON(t, `{"type": "string", "examples": ["a", "b", "c"]}`)
		assert.Equal(t, "a", out.Value.Example)
		require.Len(t, logger.Warnings(), 1)
		assert.Contains(t, logger.Warnings()[0], "first")
	})

	t.Run("const is dropped with a warning", func(t *testing.T) {
		out, logger := convertJSON(t, `{"type": "string", "const": "fixed"}`)
		assert.IsType(t, &StringType{}, out.Value.Kind)
		require.Len(t, logger.Warnings(), 1)
		assert.Contains(t, logger.Warnings()[0], "const")
	})
}

func TestConvertComposition(t *testing.T) {
	t.Run("single combinator becomes the kind", func(t *testing.T) {
		out, _ := convertJSON(t, `{"anyOf": [{"type": "string"}, {"type": "integer"}]}`)
		anyOf, ok := out.Value.Kind.(*AnyOf)
		require.True(t, ok)
		require.Len(t, anyOf.Schemas, 2)
		assert.IsType(t, &StringType{}, anyOf.Schemas[0].Value.Kind)
		assert.IsType(t, &IntegerType{}, anyOf.Schemas[1].Value.Kind)
	})

	t.Run("not recurses once", func(t *testing.T) {
		out, _ := convertJSON(t, `{"not": {"type": "null"}}`)
		not, ok := out.Value.Kind.(*Not)
		require.True(t, ok)
		assert.True(t, not.Schema.Value.Nullable)
	})

	t.Run("composition and type are combined with allOf", func(t *testing.T) {
		out, _ := convertJSON(t, `{
			"description": "combined",
			"oneOf": [{"$ref": "#/components/schemas/A"}, {"$ref": "#/components/schemas/B"}],
			"type": "object"
		}`)
		assert.Equal(t, "combined", out.Value.Description)
		allOf, ok := out.Value.Kind.(*AllOf)
		require.True(t, ok)
		require.Len(t, allOf.Schemas, 2)
		assert.IsType(t, &OneOf{}, allOf.Schemas[0].Value.Kind)
		assert.IsType(t, &ObjectType{}, allOf.Schemas[1].Value.Kind)
		assert.Empty(t, allOf.Schemas[0].Value.Description)
		assert.Empty(t, allOf.Schemas[1].Value.Description)
	})

	t.Run("conditional keywords are dropped with warnings", func(t *testing.T) {
		out, logger := convertJSON(t, `{
			"type": "string",
			"if": {"minLength": 1},
			"then": {"pattern": "^a"},
			"else": {"pattern": "^b"}
		}`)
		assert.IsType(t, &StringType{}, out.Value.Kind)
		warnings := logger.Warnings()
		require.Len(t, warnings, 3)
		assert.Contains(t, warnings[0], "if")
		assert.Contains(t, warnings[1], "then")
		assert.Contains(t, warnings[2], "else")
	})
}

func TestConvertNullable(t *testing.T) {
	t.Run("single type with null is nullable", func(t *testing.T) {
		out, _ := convertJSON(t, `{"type": ["string", "null"]}`)
		assert.IsType(t, &StringType{}, out.Value.Kind)
		assert.True(t, out.Value.Nullable)
		assert.Equal(t, map[string]any{"type": "string", "nullable": true}, marshal(t, out))
	})

	t.Run("several types drop nullable", func(t *testing.T) {
		out, _ := convertJSON(t, `{"type": ["string", "number", "null"]}`)
		assert.False(t, out.Value.Nullable)
		oneOf, ok := out.Value.Kind.(*OneOf)
		require.True(t, ok)
		require.Len(t, oneOf.Schemas, 2)
		assert.IsType(t, &NumberType{}, oneOf.Schemas[0].Value.Kind)
		assert.IsType(t, &StringType{}, oneOf.Schemas[1].Value.Kind)
		for _, member := range oneOf.Schemas {
			assert.False(t, member.Value.Nullable)
		}
	})

	t.Run("null member of a union moves to the parent", func(t *testing.T) {
		out, logger := convertJSON(t, `{"anyOf": [{"$ref": "#/components/schemas/User"}, {"type": "null"}]}`)
		assert.True(t, out.Value.Nullable)
		anyOf, ok := out.Value.Kind.(*AnyOf)
		require.True(t, ok)
		require.Len(t, anyOf.Schemas, 1)
		assert.Equal(t, "#/components/schemas/User", anyOf.Schemas[0].Ref)
		assert.Equal(t, map[string]any{
			"nullable": true,
			"anyOf":    []any{map[string]any{"$ref": "#/components/schemas/User"}},
		}, marshal(t, out))
		assert.Empty(t, logger.Warnings())
	})

	t.Run("null member of oneOf moves to the parent", func(t *testing.T) {
		out, _ := convertJSON(t, `{"oneOf": [{"type": "string"}, {"type": "integer"}, {"type": "null"}]}`)
		assert.True(t, out.Value.Nullable)
		oneOf, ok := out.Value.Kind.(*OneOf)
		require.True(t, ok)
		require.Len(t, oneOf.Schemas, 2)
	})

	t.Run("constrained null member is kept", func(t *testing.T) {
		out, _ := convertJSON(t, `{"anyOf": [{"type": "string"}, {"type": "null", "description": "unset"}]}`)
		assert.False(t, out.Value.Nullable)
		require.Len(t, out.Value.Kind.(*AnyOf).Schemas, 2)
	})

	t.Run("null alone is a nullable wildcard", func(t *testing.T) {
		out, _ := convertJSON(t, `{"type": "null"}`)
		assert.IsType(t, &AnySchema{}, out.Value.Kind)
		assert.True(t, out.Value.Nullable)
	})

	t.Run("types follow a fixed order", func(t *testing.T) {
		out, _ := convertJSON(t, `{"type": ["integer", "string", "number", "array", "object", "boolean"]}`)
		oneOf, ok := out.Value.Kind.(*OneOf)
		require.True(t, ok)
		require.Len(t, oneOf.Schemas, 6)
		assert.IsType(t, &BooleanType{}, oneOf.Schemas[0].Value.Kind)
		assert.IsType(t, &ObjectType{}, oneOf.Schemas[1].Value.Kind)
		assert.IsType(t, &ArrayType{}, oneOf.Schemas[2].Value.Kind)
		assert.IsType(t, &NumberType{}, oneOf.Schemas[3].Value.Kind)
		assert.IsType(t, &StringType{}, oneOf.Schemas[4].Value.Kind)
		assert.IsType(t, &IntegerType{}, oneOf.Schemas[5].Value.Kind)
	})

	t.Run("repeated type warns", func(t *testing.T) {
		out, logger := convertJSON(t, `{"type": ["string", "string"]}`)
		assert.IsType(t, &StringType{}, out.Value.Kind)
		require.Len(t, logger.Warnings(), 1)
		assert.Contains(t, logger.Warnings()[0], "multiple times")
	})
}

func TestConvertArray(t *testing.T) {
	t.Run("tuple fans out", func(t *testing.T) {
		out, _ := convertJSON(t, `{
			"type": "array",
			"items": [{"type": "string"}, {"type": "integer"}, {"type": "boolean"}],
			"minItems": 1,
			"maxItems": 3,
			"uniqueItems": true
		}`)
		oneOf, ok := out.Value.Kind.(*OneOf)
		require.True(t, ok)
		require.Len(t, oneOf.Schemas, 3)

		kinds := []SchemaKind{&StringType{}, &IntegerType{}, &BooleanType{}}
		for i, member := range oneOf.Schemas {
			arr, ok := member.Value.Kind.(*ArrayType)
			require.True(t, ok)
			require.NotNil(t, arr.MinItems)
			require.NotNil(t, arr.MaxItems)
			assert.Equal(t, 1, *arr.MinItems)
			assert.Equal(t, 3, *arr.MaxItems)
			assert.True(t, arr.UniqueItems)
			assert.IsType(t, kinds[i], arr.Items.Value.Kind)
		}
	})

	t.Run("missing items allow anything", func(t *testing.T) {
		out, _ := convertJSON(t, `{"type": "array"}`)
		arr, ok := out.Value.Kind.(*ArrayType)
		require.True(t, ok)
		assert.IsType(t, &AnySchema{}, arr.Items.Value.Kind)
		assert.Equal(t, map[string]any{"type": "array", "items": map[string]any{}}, marshal(t, out))
	})

	t.Run("single items", func(t *testing.T) {
		out, _ := convertJSON(t, `{"type": "array", "items": {"$ref": "#/components/schemas/Pet"}}`)
		arr, ok := out.Value.Kind.(*ArrayType)
		require.True(t, ok)
		assert.Equal(t, "#/components/schemas/Pet", arr.Items.Ref)
	})

	t.Run("unsupported keywords warn", func(t *testing.T) {
		_, logger := convertJSON(t, `{
			"type": "array",
			"items": [{"type": "string"}],
			"additionalItems": false,
			"contains": {"type": "string"},
			"enum": [[1, 2]]
		}`)
		warnings := logger.Warnings()
		require.Len(t, warnings, 3)
		assert.Contains(t, warnings[0], "additionalItems")
		assert.Contains(t, warnings[1], "contains")
		assert.Contains(t, warnings[2], "array")
	})
}

func TestConvertEnum(t *testing.T) {
	const enum = `"enum": [null, 1, "a", true]`

	t.Run("string", func(t *testing.T) {
		out, _ := convertJSON(t, `{"type": "string", `+enum+`}`)
		str := out.Value.Kind.(*StringType)
		require.Len(t, str.Enum, 2)
		assert.Nil(t, str.Enum[0])
		assert.Equal(t, "a", *str.Enum[1])
		assert.Equal(t, []any{nil, "a"}, marshal(t, out)["enum"])
	})

	t.Run("number", func(t *testing.T) {
		out, _ := convertJSON(t, `{"type": "number", "enum": [null, 1, 2.5, "a"]}`)
		num := out.Value.Kind.(*NumberType)
		require.Len(t, num.Enum, 3)
		assert.Nil(t, num.Enum[0])
		assert.Equal(t, 1.0, *num.Enum[1])
		assert.Equal(t, 2.5, *num.Enum[2])
	})

	t.Run("integer keeps integral values", func(t *testing.T) {
		out, _ := convertJSON(t, `{"type": "integer", "enum": [null, 1, 2.5, 9007199254740993, "a"]}`)
		integer := out.Value.Kind.(*IntegerType)
		require.Len(t, integer.Enum, 3)
		assert.Nil(t, integer.Enum[0])
		assert.Equal(t, int64(1), *integer.Enum[1])
		assert.Equal(t, int64(9007199254740993), *integer.Enum[2])
	})

	t.Run("boolean", func(t *testing.T) {
		out, _ := convertJSON(t, `{"type": "boolean", `+enum+`}`)
		b := out.Value.Kind.(*BooleanType)
		require.Len(t, b.Enum, 2)
		assert.Nil(t, b.Enum[0])
		assert.True(t, *b.Enum[1])
	})

	t.Run("go values", func(t *testing.T) {
		out := NewConverter(NopLogger{}).Convert(jsonschema.FromObject(&jsonschema.Object{
			Type: jsonschema.Single(jsonschema.TypeInteger),
			Enum: []any{int32(3), uint8(4), 5.0, 5.5},
		}))
		integer := out.Value.Kind.(*IntegerType)
		require.Len(t, integer.Enum, 3)
		assert.Equal(t, int64(3), *integer.Enum[0])
		assert.Equal(t, int64(4), *integer.Enum[1])
		assert.Equal(t, int64(5), *integer.Enum[2])
	})

	t.Run("object enum warns", func(t *testing.T) {
		_, logger := convertJSON(t, `{"type": "object", "enum": [{"a": 1}]}`)
		require.Len(t, logger.Warnings(), 1)
		assert.Contains(t, logger.Warnings()[0], "object")
	})
}

func TestConvertNumber(t *testing.T) {
	t.Run("numeric exclusive bound wins", func(t *testing.T) {
		out, logger := convertJSON(t, `{"type": "number", "minimum": 1, "exclusiveMinimum": 2, "maximum": 10, "multipleOf": 0.5}`)
		num := out.Value.Kind.(*NumberType)
		assert.Equal(t, 2.0, *num.Minimum)
		assert.True(t, num.ExclusiveMinimum)
		assert.Equal(t, 10.0, *num.Maximum)
		assert.False(t, num.ExclusiveMaximum)
		assert.Equal(t, 0.5, *num.MultipleOf)
		require.Len(t, logger.Warnings(), 1)
		assert.Contains(t, logger.Warnings()[0], "both set")
	})

	t.Run("numeric exclusive bound alone", func(t *testing.T) {
		out, logger := convertJSON(t, `{"type": "number", "exclusiveMaximum": 5}`)
		num := out.Value.Kind.(*NumberType)
		assert.Equal(t, 5.0, *num.Maximum)
		assert.True(t, num.ExclusiveMaximum)
		assert.Empty(t, logger.Warnings())
	})

	t.Run("boolean exclusive flag", func(t *testing.T) {
		out, logger := convertJSON(t, `{"type": "number", "minimum": 0, "exclusiveMinimum": true, "maximum": 1, "exclusiveMaximum": false}`)
		num := out.Value.Kind.(*NumberType)
		assert.Equal(t, 0.0, *num.Minimum)
		assert.True(t, num.ExclusiveMinimum)
		assert.Equal(t, 1.0, *num.Maximum)
		assert.False(t, num.ExclusiveMaximum)
		assert.Empty(t, logger.Warnings())

		m := marshal(t, out)
		assert.Equal(t, true, m["exclusiveMinimum"])
		assert.NotContains(t, m, "exclusiveMaximum")
	})

	t.Run("format is copied", func(t *testing.T) {
		out, _ := convertJSON(t, `{"type": "number", "format": "decimal128"}`)
		assert.Equal(t, "decimal128", out.Value.Kind.(*NumberType).Format)
	})
}

func TestConvertInteger(t *testing.T) {
	t.Run("bounds are integral", func(t *testing.T) {
		out, logger := convertJSON(t, `{"type": "integer", "format": "int32", "minimum": 1, "exclusiveMaximum": 100, "multipleOf": 2}`)
		integer := out.Value.Kind.(*IntegerType)
		assert.Equal(t, "int32", integer.Format)
		assert.Equal(t, int64(1), *integer.Minimum)
		assert.Equal(t, int64(100), *integer.Maximum)
		assert.True(t, integer.ExclusiveMaximum)
		assert.Equal(t, int64(2), *integer.MultipleOf)
		assert.Empty(t, logger.Warnings())
	})

	t.Run("fractional bounds warn", func(t *testing.T) {
		out, logger := convertJSON(t, `{"type": "integer", "minimum": 1.5}`)
		integer := out.Value.Kind.(*IntegerType)
		assert.Equal(t, int64(1), *integer.Minimum)
		require.Len(t, logger.Warnings(), 1)
		assert.Contains(t, logger.Warnings()[0], "fractional")
	})

	t.Run("out of range bounds are clamped", func(t *testing.T) {
		out, logger := convertJSON(t, `{"type": "integer", "minimum": -1e20, "maximum": 1e20}`)
		integer := out.Value.Kind.(*IntegerType)
		assert.Equal(t, int64(math.MinInt64), *integer.Minimum)
		assert.Equal(t, int64(math.MaxInt64), *integer.Maximum)

		warnings := logger.Warnings()
		require.Len(t, warnings, 2)
		assert.Contains(t, warnings[0], "clamped")
		assert.Contains(t, warnings[1], "clamped")
	})

	t.Run("int64 edges are kept", func(t *testing.T) {
		out, logger := convertJSON(t, `{"type": "integer", "minimum": -9223372036854775808}`)
		integer := out.Value.Kind.(*IntegerType)
		assert.Equal(t, int64(math.MinInt64), *integer.Minimum)
		assert.Empty(t, logger.Warnings())
	})

	t.Run("fractional multipleOf below one is dropped", func(t *testing.T) {
		out, logger := convertJSON(t, `{"type": "integer", "multipleOf": 0.5}`)
		integer := out.Value.Kind.(*IntegerType)
		assert.Nil(t, integer.MultipleOf)
		assert.NotContains(t, marshal(t, out), "multipleOf")

		warnings := logger.Warnings()
		require.Len(t, warnings, 2)
		assert.Contains(t, warnings[0], "fractional")
		assert.Contains(t, warnings[1], "dropped")
	})

	t.Run("fractional multipleOf above one is truncated", func(t *testing.T) {
		out, _ := convertJSON(t, `{"type": "integer", "multipleOf": 2.5}`)
		assert.Equal(t, int64(2), *out.Value.Kind.(*IntegerType).MultipleOf)
	})
}

func TestConvertString(t *testing.T) {
	out, logger := convertJSON(t, `{"type": "string", "format": "email", "pattern": "^.+@.+$", "minLength": 3, "maxLength": 64}`)
	str := out.Value.Kind.(*StringType)
	assert.Equal(t, "email", str.Format)
	assert.Equal(t, "^.+@.+$", str.Pattern)
	assert.Equal(t, 3, *str.MinLength)
	assert.Equal(t, 64, *str.MaxLength)
	assert.Empty(t, logger.Warnings())
}

func TestConvertObject(t *testing.T) {
	t.Run("properties and required", func(t *testing.T) {
		out, logger := convertJSON(t, `{
			"type": "object",
			"properties": {
				"name": {"type": "string"},
				"owner": {"$ref": "#/components/schemas/User"}
			},
			"required": ["owner", "name", "owner"],
			"minProperties": 1,
			"maxProperties": 2
		}`)
		obj := out.Value.Kind.(*ObjectType)
		require.Len(t, obj.Properties, 2)
		assert.IsType(t, &StringType{}, obj.Properties["name"].Value.Kind)
		assert.Equal(t, "#/components/schemas/User", obj.Properties["owner"].Ref)
		assert.Equal(t, []string{"name", "owner"}, obj.Required)
		assert.Equal(t, 1, *obj.MinProperties)
		assert.Equal(t, 2, *obj.MaxProperties)
		assert.Nil(t, obj.AdditionalProperties)
		assert.Empty(t, logger.Warnings())
	})

	t.Run("additional properties boolean", func(t *testing.T) {
		out, _ := convertJSON(t, `{"type": "object", "additionalProperties": false}`)
		obj := out.Value.Kind.(*ObjectType)
		require.NotNil(t, obj.AdditionalProperties)
		require.NotNil(t, obj.AdditionalProperties.Any)
		assert.False(t, *obj.AdditionalProperties.Any)
		assert.Equal(t, false, marshal(t, out)["additionalProperties"])
	})

	t.Run("additional properties schema", func(t *testing.T) {
		out, _ := convertJSON(t, `{"type": "object", "additionalProperties": {"type": "integer"}}`)
		obj := out.Value.Kind.(*ObjectType)
		require.NotNil(t, obj.AdditionalProperties.Schema)
		assert.IsType(t, &IntegerType{}, obj.AdditionalProperties.Schema.Value.Kind)
		assert.Equal(t, map[string]any{"type": "integer"}, marshal(t, out)["additionalProperties"])
	})

	t.Run("pattern properties and property names warn", func(t *testing.T) {
		out, logger := convertJSON(t, `{
			"type": "object",
			"patternProperties": {"^x-": {"type": "string"}},
			"propertyNames": {"maxLength": 8}
		}`)
		assert.IsType(t, &ObjectType{}, out.Value.Kind)
		warnings := logger.Warnings()
		require.Len(t, warnings, 2)
		assert.Contains(t, warnings[0], "patternProperties")
		assert.Contains(t, warnings[1], "propertyNames")
	})
}

func TestConvertCountClamp(t *testing.T) {
	saved := maxCount
	maxCount = 10
	t.Cleanup(func() { maxCount = saved })

	out, logger := convertJSON(t, `{"type": "string", "minLength": 5, "maxLength": 20}`)
	str := out.Value.Kind.(*StringType)
	assert.Equal(t, 5, *str.MinLength)
	assert.Equal(t, 10, *str.MaxLength)
	require.Len(t, logger.Warnings(), 1)
	assert.Contains(t, logger.Warnings()[0], "clamped")
}

func TestConvertUntypedObject(t *testing.T) {
	out, _ := convertJSON(t, `{"description": "anything", "minLength": 3}`)
	assert.IsType(t, &AnySchema{}, out.Value.Kind)
	assert.Equal(t, map[string]any{"description": "anything"}, marshal(t, out))
}
