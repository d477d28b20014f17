// Package schema turns a tool's declared parameter type labels into a compiled JSON Schema
// so the tool can validate its own input.
//
// # Quick Start
//
//	params := map[string]string{"city": "str", "days": "int"}
//	s := schema.MustFromParams(params)
//
//	if err := s.Validate(map[string]any{"city": "London"}); err != nil {
//	    // missing property "days"
//	}
//
// The agent never validates parameters on a tool's behalf. Tools that want type checks call
// Validate at the top of Execute.
package schema

import (
	"encoding/json"
	"fmt"
	"sort"
	"strings"

	"github.com/santhosh-tekuri/jsonschema/v6"
)

// Schema represents a JSON Schema definition.
// It provides both the raw map representation (for serialization/prompts)
// and a compiled validator (for runtime validation).
type Schema struct {
	raw      map[string]any
	compiled *jsonschema.Schema
}

// Raw returns the underlying map[string]any representation.
func (s *Schema) Raw() map[string]any {
	if s == nil {
		return nil
	}
	return s.raw
}

// Validate validates params against the schema.
// Returns nil if valid, or a *ValidationError describing the failure.
func (s *Schema) Validate(params map[string]any) error {
	if s == nil || s.compiled == nil {
		return nil
	}
	if params == nil {
		params = map[string]any{}
	}
	if err := s.compiled.Validate(params); err != nil {
		return &ValidationError{Err: err}
	}
	return nil
}

// ValidationError wraps a JSON Schema validation error with a cleaner message.
type ValidationError struct {
	Err error
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("schema validation failed: %v", e.Err)
}

func (e *ValidationError) Unwrap() error {
	return e.Err
}

// Compile compiles a raw schema map into a Schema with a compiled validator.
// A nil map compiles to a nil Schema, which accepts everything.
func Compile(raw map[string]any) (*Schema, error) {
	if raw == nil {
		return nil, nil
	}

	schemaJSON, err := json.Marshal(raw)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal schema: %w", err)
	}

	schemaData, err := jsonschema.UnmarshalJSON(strings.NewReader(string(schemaJSON)))
	if err != nil {
		return nil, fmt.Errorf("failed to parse schema: %w", err)
	}

	c := jsonschema.NewCompiler()
	if err := c.AddResource("params.json", schemaData); err != nil {
		return nil, fmt.Errorf("failed to add schema resource: %w", err)
	}

	compiled, err := c.Compile("params.json")
	if err != nil {
		return nil, fmt.Errorf("failed to compile schema: %w", err)
	}

	return &Schema{
		raw:      raw,
		compiled: compiled,
	}, nil
}

// FromParams builds and compiles an object schema from parameter type labels.
//
// Every declared parameter is required. Labels are mapped with [TypeForLabel]; a label with
// no JSON Schema equivalent leaves the property unconstrained.
func FromParams(params map[string]string) (*Schema, error) {
	return Compile(ObjectFromParams(params))
}

// MustFromParams is like FromParams but panics on error.
// Use this for schemas built at tool construction time.
func MustFromParams(params map[string]string) *Schema {
	s, err := FromParams(params)
	if err != nil {
		panic(err)
	}
	return s
}

// ObjectFromParams returns the raw object schema for the given parameter labels.
func ObjectFromParams(params map[string]string) map[string]any {
	names := make([]string, 0, len(params))
	for name := range params {
		names = append(names, name)
	}
	sort.Strings(names)

	props := make(map[string]any, len(params))
	for _, name := range names {
		prop := map[string]any{}
		if typ := TypeForLabel(params[name]); typ != "" {
			prop["type"] = typ
		}
		props[name] = prop
	}

	raw := map[string]any{
		"type":       "object",
		"properties": props,
	}
	if len(names) > 0 {
		raw["required"] = names
	}
	return raw
}

// TypeForLabel maps a descriptor type label to a JSON Schema type.
//
//	"str", "string"                   -> "string"
//	"int", "integer"                  -> "integer"
//	"float", "number", "float or int" -> "number"
//	"bool", "boolean"                 -> "boolean"
//	"list", "array"                   -> "array"
//	"dict", "object", "map"           -> "object"
//
// Unknown labels return "".
func TypeForLabel(label string) string {
	switch strings.ToLower(strings.TrimSpace(label)) {
	case "str", "string":
		return "string"
	case "int", "integer":
		return "integer"
	case "float", "number", "double", "float or int", "int or float":
		return "number"
	case "bool", "boolean":
		return "boolean"
	case "list", "array":
		return "array"
	case "dict", "object", "map":
		return "object"
	default:
		return ""
	}
}
