// File: mapx.go
// Title: Extended Map Utilities
// Description: Provides generic map helpers plus nested path access for
//              string-keyed documents as used by the script state store.
// Author: msto63
// Version: v0.1.0
// Created: 2025-08-20
// Modified: 2025-08-20
//
// Change History:
// - 2025-08-20 v0.1.0: Initial implementation

// Package mapx provides extended map manipulation utilities.
package mapx

import (
	"sort"
	"strings"
)

// Keys returns all keys of a map as a slice in unspecified order
func Keys[K comparable, V any](m map[K]V) []K {
	keys := make([]K, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	return keys
}

// SortedStringKeys returns all string keys of a map in sorted order
func SortedStringKeys[V any](m map[string]V) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// Clone creates a shallow copy of a map
func Clone[K comparable, V any](m map[K]V) map[K]V {
	if m == nil {
		return nil
	}
	clone := make(map[K]V, len(m))
	for k, v := range m {
		clone[k] = v
	}
	return clone
}

// Merge combines maps, with later maps overwriting earlier ones
func Merge[K comparable, V any](maps ...map[K]V) map[K]V {
	result := make(map[K]V)
	for _, m := range maps {
		for k, v := range m {
			result[k] = v
		}
	}
	return result
}

// GetPath resolves a dot-separated path against a nested document.
// Returns the value and true when every segment resolves.
func GetPath(doc map[string]interface{}, path string) (interface{}, bool) {
	if doc == nil || path == "" {
		return nil, false
	}

	parts := strings.Split(path, ".")
	var current interface{} = doc

	for _, part := range parts {
		m, ok := current.(map[string]interface{})
		if !ok {
			return nil, false
		}
		current, ok = m[part]
		if !ok {
			return nil, false
		}
	}
	return current, true
}

// SetPath writes a value at a dot-separated path, creating intermediate
// maps as needed. Non-map intermediates are replaced.
func SetPath(doc map[string]interface{}, path string, value interface{}) {
	if doc == nil || path == "" {
		return
	}

	parts := strings.Split(path, ".")
	current := doc
	for _, part := range parts[:len(parts)-1] {
		next, ok := current[part].(map[string]interface{})
		if !ok {
			next = make(map[string]interface{})
			current[part] = next
		}
		current = next
	}
	current[parts[len(parts)-1]] = value
}

// DeletePath removes the value at a dot-separated path. Missing
// intermediate segments are ignored.
func DeletePath(doc map[string]interface{}, path string) {
	if doc == nil || path == "" {
		return
	}

	parts := strings.Split(path, ".")
	current := doc
	for _, part := range parts[:len(parts)-1] {
		next, ok := current[part].(map[string]interface{})
		if !ok {
			return
		}
		current = next
	}
	delete(current, parts[len(parts)-1])
}

// DeepClone copies a nested string-keyed document. Maps and slices are
// cloned recursively; scalar values are copied as-is.
func DeepClone(doc map[string]interface{}) map[string]interface{} {
	if doc == nil {
		return nil
	}
	clone := make(map[string]interface{}, len(doc))
	for k, v := range doc {
		clone[k] = deepCloneValue(v)
	}
	return clone
}

func deepCloneValue(v interface{}) interface{} {
	switch value := v.(type) {
	case map[string]interface{}:
		return DeepClone(value)
	case []interface{}:
		clone := make([]interface{}, len(value))
		for i, item := range value {
			clone[i] = deepCloneValue(item)
		}
		return clone
	default:
		return v
	}
}
