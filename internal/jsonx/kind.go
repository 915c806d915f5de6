package jsonx

// Kind is the coarse JSON type of a value.
type Kind string

// JSON kinds.
const (
	KindString  Kind = "string"
	KindNumber  Kind = "number"
	KindBoolean Kind = "boolean"
	KindNull    Kind = "null"
	KindArray   Kind = "array"
	KindObject  Kind = "object"
)

// KindOf reports the JSON kind of a decoded or generated value.
func KindOf(v any) Kind {
	switch t := v.(type) {
	case nil:
		return KindNull
	case bool:
		return KindBoolean
	case float64, float32, int, int64, int32:
		return KindNumber
	case string:
		return KindString
	case []any:
		return KindArray
	case *Object:
		if t == nil {
			return KindNull
		}
		return KindObject
	case map[string]any:
		return KindObject
	default:
		return KindString
	}
}

// ParseKind maps a type name to a Kind. Unknown names yield KindString.
func ParseKind(s string) Kind {
	switch Kind(s) {
	case KindString, KindNumber, KindBoolean, KindNull, KindArray, KindObject:
		return Kind(s)
	}
	return KindString
}
