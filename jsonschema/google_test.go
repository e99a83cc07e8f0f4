package jsonschema

import (
	"testing"

	gjs "github.com/google/jsonschema-go/jsonschema"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type Inferred struct {
	Name  string   `json:"name" jsonschema:"the display name"`
	Count int      `json:"count,omitempty"`
	Tags  []string `json:"tags"`
	Owner *string  `json:"owner"`
}

type linked struct {
	Value int     `json:"value"`
	Next  *linked `json:"next"`
}

func TestInfer(t *testing.T) {
	t.Run("struct", func(t *testing.T) {
		s, err := Infer[Inferred]()
		require.NoError(t, err)
		require.NotNil(t, s.Object)

		obj := s.Object
		assert.Equal(t, []Type{TypeObject}, obj.Type.Values())
		require.NotNil(t, obj.AdditionalProperties)
		require.NotNil(t, obj.AdditionalProperties.Boolean)
		assert.False(t, *obj.AdditionalProperties.Boolean)

		require.Len(t, obj.Properties, 4)
		assert.Equal(t, "the display name", obj.Properties["name"].Object.Description)
		assert.Equal(t, []Type{TypeInteger}, obj.Properties["count"].Object.Type.Values())
		assert.True(t, obj.Properties["tags"].Object.Type.Has(TypeArray))
		assert.True(t, obj.Properties["owner"].Object.Type.Has(TypeNull))

		assert.Contains(t, obj.Required, "name")
		assert.NotContains(t, obj.Required, "count")
	})

	t.Run("recursive types are rejected", func(t *testing.T) {
		_, err := Infer[linked]()
		assert.ErrorIs(t, err, ErrInvalidSchema)

		assert.Panics(t, func() { MustInfer[linked]() })
	})

	t.Run("must infer", func(t *testing.T) {
		s := MustInfer[string]()
		assert.Equal(t, []Type{TypeString}, s.Object.Type.Values())
	})
}

func TestFromGoogle(t *testing.T) {
	t.Run("nil", func(t *testing.T) {
		s, err := FromGoogle(nil)
		require.NoError(t, err)
		assert.Nil(t, s)
	})

	t.Run("prefix items and defs", func(t *testing.T) {
		s, err := FromGoogle(&gjs.Schema{
			Type:        "array",
			PrefixItems: []*gjs.Schema{{Type: "string"}, {Type: "integer"}},
			Defs: map[string]*gjs.Schema{
				"Name": {Type: "string", Description: "a name"},
			},
		})
		require.NoError(t, err)
		require.NotNil(t, s.Object.Items)
		require.Len(t, s.Object.Items.Tuple, 2)
		assert.Equal(t, []Type{TypeInteger}, s.Object.Items.Tuple[1].Object.Type.Values())
		require.Contains(t, s.Object.Definitions, "Name")
		assert.Equal(t, "a name", s.Object.Definitions["Name"].Object.Description)
	})

	t.Run("boolean schema", func(t *testing.T) {
		s, err := FromGoogle(&gjs.Schema{})
		require.NoError(t, err)
		require.NotNil(t, s.Boolean)
		assert.True(t, *s.Boolean)
	})
}
