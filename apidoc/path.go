package apidoc

import (
	"strconv"
	"strings"

	"github.com/vitalvas/swaggerpage/openapi"
)

// constraintKinds maps route constraints and macros to the schema of the
// parameter they restrict.
var constraintKinds = map[string]func() openapi.SchemaKind{
	"int":      func() openapi.SchemaKind { return &openapi.IntegerType{} },
	"bool":     func() openapi.SchemaKind { return &openapi.BooleanType{} },
	"float":    func() openapi.SchemaKind { return &openapi.NumberType{} },
	"uuid":     func() openapi.SchemaKind { return &openapi.StringType{Format: "uuid"} },
	"guid":     func() openapi.SchemaKind { return &openapi.StringType{Format: "uuid"} },
	"datetime": func() openapi.SchemaKind { return &openapi.StringType{Format: "date-time"} },
	"date":     func() openapi.SchemaKind { return &openapi.StringType{Format: "date"} },
	"domain":   func() openapi.SchemaKind { return &openapi.StringType{Format: "hostname"} },
	"alpha":    func() openapi.SchemaKind { return &openapi.StringType{Pattern: "^[A-Za-z]+$"} },
	"alphanum": func() openapi.SchemaKind { return &openapi.StringType{Pattern: "^[A-Za-z0-9]+$"} },
	"hex":      func() openapi.SchemaKind { return &openapi.StringType{Pattern: "^[0-9A-Fa-f]+$"} },
	"slug":     func() openapi.SchemaKind { return &openapi.StringType{} },
}

// NormalizePath rewrites a host route template into OpenAPI form and
// returns the path parameters it declares, in order of appearance. It
// understands:
//
//	/users/:id  /users/:id?  /users/:id<int>   fiber parameters
//	/flights/:from-:to  /items:batch           parameter separators, literal colon
//	/users/{id} /files/{path...}               net/http patterns
//	/users/{id:uuid}                           router macros
//	/files/*  /files/+                         wildcards
//
// Wildcards are named "wildcard", "wildcard2" and so on. The "{$}" end
// anchor of net/http is dropped.
//
// See: https://spec.openapis.org/oas/v3.0.3#path-templating
func NormalizePath(template string) (string, []*openapi.Parameter) {
	var (
		out       strings.Builder
		params    []*openapi.Parameter
		seen      = make(map[string]bool)
		wildcards int
	)

	add := func(name, constraint string) {
		out.WriteString("{" + name + "}")
		if seen[name] {
			return
		}
		seen[name] = true
		params = append(params, &openapi.Parameter{
			Name:     name,
			In:       openapi.InPath,
			Required: true,
			Schema:   openapi.NewSchemaRef(&openapi.Schema{Kind: constraintKind(constraint)}),
		})
	}

	for i := 0; i < len(template); i++ {
		c := template[i]
		switch {
		case c == '\\' && i+1 < len(template):
			i++
			out.WriteByte(template[i])

		case c == '{':
			end := strings.IndexByte(template[i:], '}')
			if end < 0 {
				out.WriteString(template[i:])
				i = len(template)
				continue
			}
			inner := template[i+1 : i+end]
			i += end
			if inner == "$" {
				continue
			}
			inner = strings.TrimSuffix(inner, "...")
			name, macro, _ := strings.Cut(inner, ":")
			add(name, macro)

		case c == ':' && paramStart(template, i) && i+1 < len(template) && isNameByte(template[i+1]):
			j := i + 1
			for j < len(template) && isNameByte(template[j]) {
				j++
			}
			name := template[i+1 : j]
			var constraint string
			if j < len(template) && template[j] == '<' {
				if end := strings.IndexByte(template[j:], '>'); end > 0 {
					constraint = template[j+1 : j+end]
					j += end + 1
				}
			}
			if j < len(template) && template[j] == '?' {
				j++
			}
			i = j - 1
			add(name, constraint)

		case c == '*' || c == '+':
			wildcards++
			name := "wildcard"
			if wildcards > 1 {
				name += strconv.Itoa(wildcards)
			}
			add(name, "")

		default:
			out.WriteByte(c)
		}
	}

	return out.String(), params
}

// paramStart reports whether a ':' at i opens a fiber parameter: at the
// start of a segment, or after the '-' or '.' that fiber allows between
// parameters. Elsewhere it is literal, as in "/items:batch".
func paramStart(template string, i int) bool {
	if i == 0 {
		return true
	}
	switch template[i-1] {
	case '/', '-', '.':
		return true
	}
	return false
}

func isNameByte(c byte) bool {
	return c == '_' || c >= '0' && c <= '9' || c >= 'a' && c <= 'z' || c >= 'A' && c <= 'Z'
}

// constraintKind builds the schema kind for a ";" separated list of
// constraints such as "int;min(1)". Unknown constraints leave the
// parameter a plain string.
func constraintKind(constraint string) openapi.SchemaKind {
	var kind openapi.SchemaKind = &openapi.StringType{}
	if constraint == "" {
		return kind
	}

	type bound struct {
		name string
		args []string
	}
	var bounds []bound
	for part := range strings.SplitSeq(constraint, ";") {
		name, args, _ := strings.Cut(strings.TrimSpace(part), "(")
		args = strings.TrimSuffix(args, ")")
		if fn, ok := constraintKinds[name]; ok {
			kind = fn()
			continue
		}
		var list []string
		if args != "" {
			list = strings.Split(args, ",")
		}
		bounds = append(bounds, bound{name: name, args: list})
	}

	for _, b := range bounds {
		switch b.name {
		case "min", "max", "range":
			if _, ok := kind.(*openapi.StringType); ok {
				kind = &openapi.IntegerType{}
			}
			it, ok := kind.(*openapi.IntegerType)
			if !ok {
				continue
			}
			nums := parseInts(b.args)
			switch {
			case b.name == "min" && len(nums) == 1:
				it.Minimum = &nums[0]
			case b.name == "max" && len(nums) == 1:
				it.Maximum = &nums[0]
			case b.name == "range" && len(nums) == 2:
				it.Minimum, it.Maximum = &nums[0], &nums[1]
			}
		case "minLen", "maxLen", "len", "betweenLen":
			st, ok := kind.(*openapi.StringType)
			if !ok {
				continue
			}
			nums := parseInts(b.args)
			switch {
			case b.name == "minLen" && len(nums) == 1:
				st.MinLength = ptrInt(nums[0])
			case b.name == "maxLen" && len(nums) == 1:
				st.MaxLength = ptrInt(nums[0])
			case b.name == "len" && len(nums) == 1:
				st.MinLength, st.MaxLength = ptrInt(nums[0]), ptrInt(nums[0])
			case b.name == "betweenLen" && len(nums) == 2:
				st.MinLength, st.MaxLength = ptrInt(nums[0]), ptrInt(nums[1])
			}
		case "regex":
			if st, ok := kind.(*openapi.StringType); ok && len(b.args) > 0 {
				st.Pattern = strings.Join(b.args, ",")
			}
		}
	}
	return kind
}

func parseInts(args []string) []int64 {
	out := make([]int64, 0, len(args))
	for _, a := range args {
		n, err := strconv.ParseInt(strings.TrimSpace(a), 10, 64)
		if err != nil {
			return nil
		}
		out = append(out, n)
	}
	return out
}

func ptrInt(n int64) *int {
	v := int(n)
	return &v
}

// mergeParameters combines auto-generated path parameters with explicit
// parameters. Explicit parameters with the same name and location replace
// the auto-generated ones.
//
// See: https://spec.openapis.org/oas/v3.0.3#operation-object (parameters)
func mergeParameters(auto, explicit []*openapi.Parameter) []*openapi.Parameter {
	if len(auto) == 0 && len(explicit) == 0 {
		return nil
	}

	overrides := make(map[[2]string]struct{}, len(explicit))
	for _, p := range explicit {
		overrides[[2]string{p.Name, p.In}] = struct{}{}
	}

	var merged []*openapi.Parameter
	for _, p := range auto {
		if _, ok := overrides[[2]string{p.Name, p.In}]; !ok {
			merged = append(merged, p)
		}
	}

	seen := make(map[[2]string]struct{}, len(explicit))
	for _, p := range explicit {
		key := [2]string{p.Name, p.In}
		if _, ok := seen[key]; ok {
			continue
		}
		seen[key] = struct{}{}
		merged = append(merged, p)
	}
	return merged
}
