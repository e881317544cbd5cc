package ai

import (
	"fmt"
	"slices"
	"strings"
)

// Type is a JSON schema primitive, spelled the way OpenAPI subset schemas
// accepted by both providers spell it.
type Type string

const (
	TypeObject  Type = "object"
	TypeArray   Type = "array"
	TypeString  Type = "string"
	TypeNumber  Type = "number"
	TypeInteger Type = "integer"
	TypeBoolean Type = "boolean"
)

// Schema is the response shape contract sent with a structured request.
type Schema struct {
	Type        Type               `json:"type"`
	Description string             `json:"description,omitempty"`
	Enum        []string           `json:"enum,omitempty"`
	Properties  map[string]*Schema `json:"properties,omitempty"`
	Required    []string           `json:"required,omitempty"`
	Items       *Schema            `json:"items,omitempty"`
}

// Object builds an object schema. Every property named in required must exist.
func Object(props map[string]*Schema, required ...string) *Schema {
	return &Schema{Type: TypeObject, Properties: props, Required: required}
}

func ArrayOf(items *Schema) *Schema { return &Schema{Type: TypeArray, Items: items} }

func String(desc string) *Schema { return &Schema{Type: TypeString, Description: desc} }

func Number(desc string) *Schema { return &Schema{Type: TypeNumber, Description: desc} }

func Enum(values []string, desc string) *Schema {
	return &Schema{Type: TypeString, Enum: values, Description: desc}
}

// ValidationError points at the first place a value broke the contract.
type ValidationError struct {
	Path   string
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Path, e.Reason)
}

// Validate walks v (as produced by encoding/json into any) and checks required
// fields, enum membership and JSON types. Numbers are not range checked.
func (s *Schema) Validate(v any) error {
	return s.validate("$", v)
}

func (s *Schema) validate(path string, v any) error {
	if s == nil {
		return nil
	}
	switch s.Type {
	case TypeObject:
		obj, ok := v.(map[string]any)
		if !ok {
			return &ValidationError{Path: path, Reason: "expected object, got " + jsonKind(v)}
		}
		for _, name := range s.Required {
			if val, ok := obj[name]; !ok || val == nil {
				return &ValidationError{Path: path + "." + name, Reason: "required field missing"}
			}
		}
		for _, name := range sortedKeys(s.Properties) {
			val, ok := obj[name]
			if !ok || val == nil {
				continue
			}
			if err := s.Properties[name].validate(path+"."+name, val); err != nil {
				return err
			}
		}
	case TypeArray:
		arr, ok := v.([]any)
		if !ok {
			return &ValidationError{Path: path, Reason: "expected array, got " + jsonKind(v)}
		}
		for i, item := range arr {
			if err := s.Items.validate(fmt.Sprintf("%s[%d]", path, i), item); err != nil {
				return err
			}
		}
	case TypeString:
		str, ok := v.(string)
		if !ok {
			return &ValidationError{Path: path, Reason: "expected string, got " + jsonKind(v)}
		}
		if len(s.Enum) > 0 && !slices.Contains(s.Enum, str) {
			return &ValidationError{Path: path, Reason: fmt.Sprintf("%q not in [%s]", str, strings.Join(s.Enum, ", "))}
		}
	case TypeNumber, TypeInteger:
		if _, ok := v.(float64); !ok {
			return &ValidationError{Path: path, Reason: "expected number, got " + jsonKind(v)}
		}
	case TypeBoolean:
		if _, ok := v.(bool); !ok {
			return &ValidationError{Path: path, Reason: "expected boolean, got " + jsonKind(v)}
		}
	}
	return nil
}

func jsonKind(v any) string {
	switch v.(type) {
	case nil:
		return "null"
	case map[string]any:
		return "object"
	case []any:
		return "array"
	case string:
		return "string"
	case float64:
		return "number"
	case bool:
		return "boolean"
	}
	return fmt.Sprintf("%T", v)
}

func sortedKeys(m map[string]*Schema) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	slices.Sort(keys)
	return keys
}
