package generator

import (
	"strings"

	"github.com/example/curlgen/internal/inference"
	"github.com/example/curlgen/internal/jsonx"
	"github.com/example/curlgen/internal/parser"
)

// Coerce converts a static value to the type its field expects. The field
// is judged by its category, its recorded JSON kind and its name; the first
// matching rule wins:
//
//  0. null field holding "" or "null": null.
//  1. validateEmail: "true" (any case) is true, anything else false.
//  2. boolean field or flag-like name: same as 1.
//  3. numeric field or quantity-like name: a number, or the raw text when
//     it does not parse.
//  4. contact or relation collection: a list of contact objects.
//  5. array field or list-like name: a JSON array, or the comma separated
//     items, or a one-element list when the JSON is invalid.
//  6. object field or object-like name: a JSON object when the text is
//     brace-delimited and valid, else the raw text.
//  7. the raw text.
func Coerce(cat inference.Category, cfg *FieldConfig) any {
	if cfg == nil || cfg.Value == nil {
		return nil
	}
	raw := *cfg.Value
	name := cfg.name()
	cat = cfg.category(cat)

	switch {
	case cfg.Kind == jsonx.KindNull && (raw == "" || raw == "null"):
		return nil

	case name == "validateEmail":
		return strings.EqualFold(raw, "true")

	case cat == inference.CategoryBoolean || cfg.Kind == jsonx.KindBoolean || inference.IsBooleanName(name):
		return strings.EqualFold(raw, "true")

	case cat.IsNumeric() || cfg.Kind == jsonx.KindNumber || inference.IsQuantityName(name):
		if f, ok := jsonx.ParseNumber(raw); ok {
			return f
		}
		return raw

	case inference.IsContactCollection(name):
		return coerceContacts(name, raw)

	case cat == inference.CategoryArray || cfg.Kind == jsonx.KindArray || inference.ShapeHint(name) == inference.ShapeArray:
		return coerceArray(raw)

	case cat == inference.CategoryObject || cfg.Kind == jsonx.KindObject || inference.ShapeHint(name) == inference.ShapeObject:
		return coerceObject(raw)
	}
	return raw
}

func bracketed(s, prefix, suffix string) bool {
	s = strings.TrimSpace(s)
	return strings.HasPrefix(s, prefix) && strings.HasSuffix(s, suffix)
}

func splitList(s string) []any {
	parts := strings.Split(s, ",")
	out := make([]any, len(parts))
	for i, p := range parts {
		out[i] = strings.TrimSpace(p)
	}
	return out
}

func coerceContacts(name, raw string) []any {
	trimmed := strings.TrimSpace(raw)
	if trimmed == "" || trimmed == "[]" {
		return []any{}
	}

	var items []any
	if bracketed(trimmed, "[", "]") {
		v, err := jsonx.DecodeString(trimmed)
		arr, ok := v.([]any)
		if err != nil || !ok {
			return []any{jsonx.NewObject()}
		}
		items = arr
	} else {
		items = splitList(trimmed)
	}

	wrap := valueContact
	switch name {
	case "additionalEmails":
		wrap = parser.EmailContact
	case "additionalPhones":
		wrap = parser.PhoneContact
	}

	if len(items) == 1 && (items[0] == nil || items[0] == "") {
		return []any{jsonx.NewObject()}
	}

	out := make([]any, len(items))
	for i, item := range items {
		s, ok := item.(string)
		switch {
		case ok && strings.TrimSpace(s) == "":
			out[i] = jsonx.NewObject()
		case ok && !strings.HasPrefix(s, "{") && !strings.HasPrefix(s, "["):
			out[i] = wrap(s)
		default:
			out[i] = item
		}
	}
	return out
}

func valueContact(s string) any {
	return jsonx.ObjectOf("value", s)
}

func coerceArray(raw string) []any {
	if !bracketed(raw, "[", "]") {
		return splitList(raw)
	}
	v, err := jsonx.DecodeString(strings.TrimSpace(raw))
	if arr, ok := v.([]any); ok && err == nil {
		return arr
	}
	return []any{raw}
}

func coerceObject(raw string) any {
	if !bracketed(raw, "{", "}") {
		return raw
	}
	v, err := jsonx.DecodeString(strings.TrimSpace(raw))
	if err != nil {
		return raw
	}
	return v
}
