package grid

import (
	"encoding/json"
	"fmt"
	"reflect"
	"sort"
	"strings"
)

// FormatExtension is the JSON Schema vendor key carrying a format template.
const FormatExtension = "x-gridcol-format"

// SchemaProvider serves metadata from a JSON Schema document describing the
// row model:
//
//   - title → DisplayName
//   - property key → PropertyName
//   - x-gridcol-format → FormatString
//
// Nested paths walk "properties" (and "items" for arrays of objects). Paths
// not declared in the schema fail with ErrUnknownProperty.
type SchemaProvider struct {
	root map[string]any
}

// ParseSchema parses a JSON Schema document. The schemaJSON must be valid
// JSON and declare properties directly or under items.
func ParseSchema(schemaJSON []byte) (*SchemaProvider, error) {
	var raw map[string]any
	if err := json.Unmarshal(schemaJSON, &raw); err != nil {
		return nil, fmt.Errorf("invalid JSON schema: %w", err)
	}
	if props, _ := findProperties(raw); props == nil {
		return nil, fmt.Errorf("invalid JSON schema: no properties declared")
	}
	return &SchemaProvider{root: raw}, nil
}

// Lookup walks path through the schema's properties.
func (s *SchemaProvider) Lookup(_ reflect.Type, path string) (Metadata, error) {
	if s == nil {
		return Metadata{}, nil
	}
	if err := validatePath(path); err != nil {
		return Metadata{}, err
	}
	node := s.root
	var key string
	for _, seg := range strings.Split(path, ".") {
		props, _ := findProperties(node)
		child, ok := props[seg].(map[string]any)
		if !ok {
			return Metadata{}, fmt.Errorf("%w: %q is not declared in the schema", ErrUnknownProperty, path)
		}
		node, key = child, seg
	}

	m := Metadata{PropertyName: key}
	if title, ok := node["title"].(string); ok {
		m.DisplayName = title
	}
	if f, ok := node[FormatExtension].(string); ok {
		m.FormatString = f
	}
	return m, nil
}

// Paths returns the declared leaf property paths in sorted order. Object
// properties are descended into rather than listed; arrays are leaves.
func (s *SchemaProvider) Paths() []string {
	if s == nil {
		return nil
	}
	var out []string
	var visit func(node map[string]any, prefix string)
	visit = func(node map[string]any, prefix string) {
		props, _ := findProperties(node)
		for _, key := range sortedKeys(props) {
			child, ok := props[key].(map[string]any)
			if !ok {
				continue
			}
			p := key
			if prefix != "" {
				p = prefix + "." + key
			}
			if nested, _ := findProperties(child); nested != nil && jsonSchemaType(child) != "array" {
				visit(child, p)
				continue
			}
			out = append(out, p)
		}
	}
	visit(s.root, "")
	return out
}

// findProperties locates the properties map and required list from a schema.
// Handles both object schemas and array-of-objects schemas.
func findProperties(schema map[string]any) (map[string]any, []string) {
	schemaType := jsonSchemaType(schema)

	if schemaType == "array" {
		if items, ok := schema["items"].(map[string]any); ok {
			return findProperties(items)
		}
		return nil, nil
	}

	if props, ok := schema["properties"].(map[string]any); ok {
		return props, extractStringArray(schema["required"])
	}
	return nil, nil
}

// extractStringArray converts an []any to []string.
func extractStringArray(v any) []string {
	arr, ok := v.([]any)
	if !ok {
		return nil
	}
	result := make([]string, 0, len(arr))
	for _, item := range arr {
		if s, ok := item.(string); ok {
			result = append(result, s)
		}
	}
	return result
}

// jsonSchemaType extracts the type string from a schema node.
// Handles both "type": "string" and "type": ["string", "null"].
func jsonSchemaType(node map[string]any) string {
	switch t := node["type"].(type) {
	case string:
		return t
	case []any:
		for _, v := range t {
			if s, ok := v.(string); ok && s != "null" {
				return s
			}
		}
	}
	return ""
}

func sortedKeys(m map[string]any) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
