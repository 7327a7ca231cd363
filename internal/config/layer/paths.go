package layer

import (
	"errors"
	"reflect"
	"sort"
	"strings"
)

// ErrInvalidPath is returned for an empty path or one that descends through
// a non-map value.
var ErrInvalidPath = errors.New("invalid setting path")

// DeepMerge recursively merges src into dst and returns dst.
// Values in src override values in dst. Maps are merged recursively; other
// types are replaced.
func DeepMerge(dst, src map[string]any) map[string]any {
	if dst == nil {
		dst = make(map[string]any)
	}
	for key, srcVal := range src {
		srcMap, srcIsMap := srcVal.(map[string]any)
		dstMap, dstIsMap := dst[key].(map[string]any)
		if srcIsMap && dstIsMap {
			dst[key] = DeepMerge(dstMap, srcMap)
			continue
		}
		dst[key] = srcVal
	}
	return dst
}

// GetByPath returns the value at a dot-separated path.
func GetByPath(data map[string]any, path string) (any, bool) {
	parts := splitPath(path)
	if len(parts) == 0 || data == nil {
		return nil, false
	}

	var current any = data
	for _, part := range parts {
		m, ok := current.(map[string]any)
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

// SetByPath stores value at a dot-separated path, creating intermediate
// maps as needed.
func SetByPath(data map[string]any, path string, value any) error {
	parts := splitPath(path)
	if len(parts) == 0 || data == nil {
		return ErrInvalidPath
	}

	current := data
	for _, part := range parts[:len(parts)-1] {
		next, ok := current[part]
		if !ok {
			m := make(map[string]any)
			current[part] = m
			current = m
			continue
		}
		m, ok := next.(map[string]any)
		if !ok {
			return ErrInvalidPath
		}
		current = m
	}
	current[parts[len(parts)-1]] = value
	return nil
}

// Flatten converts a nested map into dot-separated keys.
func Flatten(data map[string]any) map[string]any {
	result := make(map[string]any)
	flatten(data, "", result)
	return result
}

func flatten(data map[string]any, prefix string, result map[string]any) {
	for key, val := range data {
		full := key
		if prefix != "" {
			full = prefix + "." + key
		}
		if nested, ok := val.(map[string]any); ok {
			flatten(nested, full, result)
			continue
		}
		result[full] = val
	}
}

// Diff returns the sorted leaf paths whose values differ between old and
// new, including paths present in only one of them.
func Diff(old, new map[string]any) []string {
	oldFlat := Flatten(old)
	newFlat := Flatten(new)

	var changed []string
	for path, nv := range newFlat {
		if ov, ok := oldFlat[path]; !ok || !reflect.DeepEqual(ov, nv) {
			changed = append(changed, path)
		}
	}
	for path := range oldFlat {
		if _, ok := newFlat[path]; !ok {
			changed = append(changed, path)
		}
	}
	sort.Strings(changed)
	return changed
}

// CloneMap creates a deep copy of a map.
func CloneMap(src map[string]any) map[string]any {
	if src == nil {
		return nil
	}
	dst := make(map[string]any, len(src))
	for key, val := range src {
		dst[key] = cloneValue(val)
	}
	return dst
}

func cloneValue(val any) any {
	switch v := val.(type) {
	case map[string]any:
		return CloneMap(v)
	case []any:
		out := make([]any, len(v))
		for i, item := range v {
			out[i] = cloneValue(item)
		}
		return out
	default:
		return val
	}
}

func splitPath(path string) []string {
	var parts []string
	for _, p := range strings.Split(path, ".") {
		if p != "" {
			parts = append(parts, p)
		}
	}
	return parts
}
