package apidoc

import (
	"maps"
	"net/http"
	"strconv"

	"github.com/vitalvas/swaggerpage/openapi"
)

// ResponseFunc describes what a handler returns, keyed by status code or
// "default".
//
// See: https://spec.openapis.org/oas/v3.0.3#responses-object
type ResponseFunc func(g *openapi.SchemaGenerator) map[string]*openapi.Response

// SimpleResponse is a response with a single media type.
type SimpleResponse struct {
	// Status is the status code. Zero stands for the default response.
	Status int

	// MimeType is left out of the content map when empty.
	MimeType string

	// Description defaults to the status text.
	Description string

	Schema *openapi.SchemaRef
}

// SimpleResponses builds a responses map out of rs. Later entries
// replace earlier ones with the same status.
func SimpleResponses(rs ...SimpleResponse) map[string]*openapi.Response {
	out := make(map[string]*openapi.Response, len(rs))
	for _, r := range rs {
		key := statusKey(r.Status)
		resp := &openapi.Response{Description: r.Description}
		if resp.Description == "" {
			resp.Description = responseDescription(key)
		}
		if r.MimeType != "" {
			resp.Content = map[string]*openapi.MediaType{
				r.MimeType: {Schema: r.Schema},
			}
		}
		out[key] = resp
	}
	return out
}

// OkText is a 200 response with a plain text body.
func OkText(*openapi.SchemaGenerator) map[string]*openapi.Response {
	return SimpleResponses(SimpleResponse{
		Status:      http.StatusOK,
		MimeType:    MimeText,
		Description: "Some plain text",
	})
}

// OkBinary is a 200 response with a raw body.
func OkBinary(*openapi.SchemaGenerator) map[string]*openapi.Response {
	return SimpleResponses(SimpleResponse{
		Status:      http.StatusOK,
		MimeType:    MimeOctet,
		Description: "Some binary data",
	})
}

// OkEmpty is a 200 response without a body.
func OkEmpty(*openapi.SchemaGenerator) map[string]*openapi.Response {
	return SimpleResponses(SimpleResponse{
		Status:      http.StatusOK,
		Description: "Empty body",
	})
}

// OkJSON is a 200 response with a JSON body of type T.
func OkJSON[T any](g *openapi.SchemaGenerator) map[string]*openapi.Response {
	return SimpleResponses(SimpleResponse{
		Status:   http.StatusOK,
		MimeType: MimeJSON,
		Schema:   openapi.Generate[T](g),
	})
}

// OkSchemalessJSON is a 200 response with a JSON body of unknown shape.
func OkSchemalessJSON(*openapi.SchemaGenerator) map[string]*openapi.Response {
	return SimpleResponses(SimpleResponse{
		Status:      http.StatusOK,
		MimeType:    MimeJSON,
		Description: "Some json data",
		Schema:      openapi.NewSchemaRef(&openapi.Schema{Kind: &openapi.AnySchema{}}),
	})
}

// StatusJSON returns a response with a JSON body of type T for status.
//
//	apidoc.Responses(apidoc.OkJSON[User], apidoc.StatusJSON[Problem](http.StatusNotFound))
func StatusJSON[T any](status int) ResponseFunc {
	return func(g *openapi.SchemaGenerator) map[string]*openapi.Response {
		return SimpleResponses(SimpleResponse{
			Status:   status,
			MimeType: MimeJSON,
			Schema:   openapi.Generate[T](g),
		})
	}
}

// Status returns a response for status without a body.
func Status(status int, description string) ResponseFunc {
	return func(*openapi.SchemaGenerator) map[string]*openapi.Response {
		return SimpleResponses(SimpleResponse{Status: status, Description: description})
	}
}

// Responses merges several response sets. On the same status the later
// set wins.
func Responses(fns ...ResponseFunc) ResponseFunc {
	return func(g *openapi.SchemaGenerator) map[string]*openapi.Response {
		out := make(map[string]*openapi.Response)
		for _, fn := range fns {
			if fn == nil {
				continue
			}
			maps.Copy(out, fn(g))
		}
		return out
	}
}

func statusKey(status int) string {
	if status == 0 {
		return "default"
	}
	return strconv.Itoa(status)
}

// responseDescription returns a human-readable description for a response key.
//
// See: https://spec.openapis.org/oas/v3.0.3#response-object (description)
func responseDescription(key string) string {
	if key == "default" {
		return "Default response"
	}
	code, err := strconv.Atoi(key)
	if err == nil {
		if text := http.StatusText(code); text != "" {
			return text
		}
	}
	return key
}
