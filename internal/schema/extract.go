package schema

import (
	"net/url"
	"slices"
	"strconv"
	"strings"

	"github.com/example/curlgen/internal/inference"
	"github.com/example/curlgen/internal/jsonx"
)

// Extract walks a request body depth-first and records one field per leaf.
//
// Arrays are recorded once as a whole; the elements of a "relations" array
// are also flattened under relations.<index>.<key>. Objects named
// properties or config, and config.recurringTask with its rruleOptions, are
// recorded as whole objects before their children. Leaves whose names
// suggest a flag, a list or an object are typed by name.
//
// A string body is decoded as JSON when possible and otherwise read as a
// form-encoded key=value&... list. Any other body yields an empty schema.
func Extract(body any) *Schema {
	s := New()

	if str, ok := body.(string); ok {
		decoded, err := jsonx.DecodeString(str)
		if err != nil {
			extractForm(s, str)
			return s
		}
		body = decoded
	}

	switch t := body.(type) {
	case *jsonx.Object:
		walk(s, t, "")
	case []any:
		obj := jsonx.NewObject()
		for i, elem := range t {
			obj.Set(strconv.Itoa(i), elem)
		}
		walk(s, obj, "")
	}
	return s
}

func join(prefix, key string) string {
	if prefix == "" {
		return key
	}
	return prefix + "." + key
}

func walk(s *Schema, obj *jsonx.Object, prefix string) {
	for key, value := range obj.All() {
		path := join(prefix, key)

		switch v := value.(type) {
		case nil:
			s.Add(path, jsonx.KindNull, nil)

		case []any:
			s.Add(path, jsonx.KindArray, v)
			if key == "relations" {
				flattenRelations(s, path, v)
			}

		case *jsonx.Object:
			if recordsWhole(key, path) {
				s.Add(path, jsonx.KindObject, v)
			}
			walk(s, v, path)

		default:
			addLeaf(s, key, path, v)
		}
	}
}

func flattenRelations(s *Schema, path string, items []any) {
	for i, item := range items {
		rel, ok := item.(*jsonx.Object)
		if !ok {
			continue
		}
		for k, v := range rel.All() {
			s.Add(join(path, strconv.Itoa(i)+"."+k), jsonx.KindOf(v), v)
		}
	}
}

// recordsWhole reports whether an object is recorded in addition to its
// children.
func recordsWhole(key, path string) bool {
	switch key {
	case "properties", "config":
		return true
	}
	return hasPathSuffix(path, "config.recurringTask") ||
		hasPathSuffix(path, "config.recurringTask.rruleOptions")
}

func hasPathSuffix(path, suffix string) bool {
	return path == suffix || strings.HasSuffix(path, "."+suffix)
}

func addLeaf(s *Schema, key, path string, value any) {
	if b, ok := booleanValue(key, value); ok {
		s.Add(path, jsonx.KindBoolean, b)
		return
	}

	if name, index, ok := trailingIndex(path); ok {
		addArrayElement(s, name, index, value)
		s.Add(path, jsonx.KindOf(value), value)
		return
	}

	switch inference.ShapeHint(key) {
	case inference.ShapeObject:
		s.Add(path, jsonx.KindObject, jsonx.ObjectOf("value", value))
	case inference.ShapeArray:
		s.Add(path, jsonx.KindArray, []any{value})
	default:
		s.Add(path, jsonx.KindOf(value), value)
	}
}

// booleanValue types a leaf as boolean when its value is one, when it is a
// "true"/"false" string, or when its name reads like a flag.
func booleanValue(key string, value any) (bool, bool) {
	switch v := value.(type) {
	case bool:
		return v, true
	case string:
		if b, ok := jsonx.ParseBoolLiteral(v); ok {
			return b, true
		}
		if inference.IsBooleanName(key) {
			return strings.EqualFold(v, "true"), true
		}
	default:
		if inference.IsBooleanName(key) {
			return jsonx.Truthy(v), true
		}
	}
	return false, false
}

// trailingIndex splits "<name>.<index>" paths.
func trailingIndex(path string) (string, int, bool) {
	dot := strings.LastIndex(path, ".")
	if dot <= 0 || !inference.IsIndex(path[dot+1:]) {
		return "", 0, false
	}
	idx, err := strconv.Atoi(path[dot+1:])
	if err != nil || idx > maxIndex {
		return "", 0, false
	}
	return path[:dot], idx, true
}

const maxIndex = 10000

// addArrayElement stores value at index of the array recorded for name,
// creating the array entry on first use.
func addArrayElement(s *Schema, name string, index int, value any) {
	f, ok := s.Get(name)
	if ok && f.Kind != jsonx.KindArray {
		return
	}

	items, _ := f.Value.([]any)
	items = slices.Clone(items)
	for len(items) <= index {
		items = append(items, jsonx.NewObject())
	}
	items[index] = value
	s.Add(name, jsonx.KindArray, items)
}

func extractForm(s *Schema, body string) {
	for _, part := range strings.Split(body, "&") {
		key, value, _ := strings.Cut(part, "=")
		key = unescape(key)
		value = unescape(value)
		if key == "" {
			continue
		}

		if value != "" {
			if _, ok := jsonx.ParseBoolLiteral(value); ok || inference.IsBooleanName(key) {
				s.Add(key, jsonx.KindBoolean, strings.EqualFold(value, "true"))
				continue
			}
		}
		s.Add(key, jsonx.KindString, value)
	}
}

func unescape(s string) string {
	if u, err := url.QueryUnescape(s); err == nil {
		return u
	}
	return s
}
