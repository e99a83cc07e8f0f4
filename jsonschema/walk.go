package jsonschema

import (
	"maps"
	"slices"
	"strings"
)

// Walk calls fn for s and every subschema below it, depth first, parents
// before children. Map entries are visited in key order. Boolean schemas
// are visited too. fn may modify the node it is given.
func Walk(s *Schema, fn func(*Schema)) {
	if s == nil {
		return
	}
	fn(s)

	o := s.Object
	if o == nil {
		return
	}

	walkAll := func(list []*Schema) {
		for _, sub := range list {
			Walk(sub, fn)
		}
	}
	walkMap := func(m map[string]*Schema) {
		for _, key := range slices.Sorted(maps.Keys(m)) {
			Walk(m[key], fn)
		}
	}

	walkAll(o.AllOf)
	walkAll(o.AnyOf)
	walkAll(o.OneOf)
	Walk(o.Not, fn)
	Walk(o.If, fn)
	Walk(o.Then, fn)
	Walk(o.Else, fn)
	if o.Items != nil {
		Walk(o.Items.Single, fn)
		walkAll(o.Items.Tuple)
	}
	Walk(o.AdditionalItems, fn)
	Walk(o.Contains, fn)
	walkMap(o.Properties)
	Walk(o.AdditionalProperties, fn)
	walkMap(o.PatternProperties)
	Walk(o.PropertyNames, fn)
	walkMap(o.Definitions)
}

// RewriteRefs replaces the prefix from with to in every $ref below s.
func RewriteRefs(s *Schema, from, to string) {
	Walk(s, func(n *Schema) {
		if n.IsRef() && strings.HasPrefix(n.Object.Ref, from) {
			n.Object.Ref = to + strings.TrimPrefix(n.Object.Ref, from)
		}
	})
}
