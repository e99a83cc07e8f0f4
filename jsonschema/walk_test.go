package jsonschema

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWalk(t *testing.T) {
	s, err := Parse([]byte(`{
		"title": "root",
		"allOf": [{"title": "allOf"}],
		"not": {"title": "not"},
		"items": [{"title": "tuple0"}, true],
		"properties": {
			"b": {"title": "b"},
			"a": {"title": "a", "items": {"title": "a.items"}}
		},
		"additionalProperties": {"title": "additional"},
		"definitions": {"Pet": {"title": "Pet"}}
	}`))
	require.NoError(t, err)

	var titles []string
	booleans := 0
	Walk(s, func(n *Schema) {
		if n.Boolean != nil {
			booleans++
			return
		}
		titles = append(titles, n.Object.Title)
	})

	assert.Equal(t, []string{"root", "allOf", "not", "tuple0", "a", "a.items", "b", "additional", "Pet"}, titles)
	assert.Equal(t, 1, booleans)

	Walk(nil, func(*Schema) { t.Fatal("nil schema visited") })
}

func TestRewriteRefs(t *testing.T) {
	s, err := Parse([]byte(`{
		"properties": {
			"pet": {"$ref": "#/definitions/Pet"},
			"owner": {"$ref": "#/$defs/Owner"},
			"remote": {"$ref": "https://example.com/schema.json"}
		},
		"definitions": {
			"Pet": {"properties": {"owner": {"$ref": "#/definitions/Owner"}}}
		}
	}`))
	require.NoError(t, err)

	RewriteRefs(s, "#/definitions/", "#/components/schemas/")
	RewriteRefs(s, "#/$defs/", "#/components/schemas/")

	props := s.Object.Properties
	assert.Equal(t, "#/components/schemas/Pet", props["pet"].Object.Ref)
	assert.Equal(t, "#/components/schemas/Owner", props["owner"].Object.Ref)
	assert.Equal(t, "https://example.com/schema.json", props["remote"].Object.Ref)
	assert.Equal(t, "#/components/schemas/Owner", s.Object.Definitions["Pet"].Object.Properties["owner"].Object.Ref)
}
