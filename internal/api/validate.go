package api

import (
	"fmt"
	"io"
	"net/http"

	"github.com/xeipuuv/gojsonschema"
)

const maxBodyBytes = 1 << 20

var (
	recommendationSchema = mustSchema(map[string]any{
		"type":     "object",
		"required": []any{"destination"},
		"properties": map[string]any{
			"destination": map[string]any{
				"type":      "string",
				"minLength": 1,
				"pattern":   `\S`,
			},
			"preferences": map[string]any{
				"type": []any{"string", "null"},
			},
		},
	})

	statusSchema = mustSchema(map[string]any{
		"type":     "object",
		"required": []any{"client_name"},
		"properties": map[string]any{
			"client_name": map[string]any{"type": "string"},
		},
	})
)

func mustSchema(schema map[string]any) *gojsonschema.Schema {
	s, err := gojsonschema.NewSchema(gojsonschema.NewGoLoader(schema))
	if err != nil {
		panic(fmt.Sprintf("compiling request schema: %v", err))
	}
	return s
}

// fieldError is one entry of a 422 response, shaped like FastAPI's.
type fieldError struct {
	Loc  []string `json:"loc"`
	Msg  string   `json:"msg"`
	Type string   `json:"type"`
}

// readValidBody reads the request body and checks it against schema. On
// failure it writes the 422 response itself and returns ok=false.
func readValidBody(w http.ResponseWriter, r *http.Request, schema *gojsonschema.Schema) (body []byte, ok bool) {
	body, err := io.ReadAll(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	if err != nil {
		writeValidation(w, fieldError{Loc: []string{"body"}, Msg: "request body too large or unreadable", Type: "body_read"})
		return nil, false
	}

	result, err := schema.Validate(gojsonschema.NewBytesLoader(body))
	if err != nil {
		writeValidation(w, fieldError{Loc: []string{"body"}, Msg: "JSON decode error", Type: "json_invalid"})
		return nil, false
	}

	if !result.Valid() {
		errs := make([]fieldError, len(result.Errors()))
		for i, desc := range result.Errors() {
			errs[i] = toFieldError(desc)
		}
		writeValidation(w, errs...)
		return nil, false
	}

	return body, true
}

func toFieldError(desc gojsonschema.ResultError) fieldError {
	loc := []string{"body"}
	field := desc.Field()
	if desc.Type() == "required" {
		if p, ok := desc.Details()["property"].(string); ok {
			field = p
		}
	}
	if field != "(root)" && field != "" {
		loc = append(loc, field)
	}
	return fieldError{Loc: loc, Msg: desc.Description(), Type: desc.Type()}
}

func writeValidation(w http.ResponseWriter, errs ...fieldError) {
	writeJSON(w, http.StatusUnprocessableEntity, map[string]any{"detail": errs})
}
