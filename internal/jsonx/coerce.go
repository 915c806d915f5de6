package jsonx

import (
	"math"
	"strconv"
	"strings"
)

// ParseNumber reports whether s reads as a finite number once surrounding
// whitespace is removed. Empty strings are not numbers.
func ParseNumber(s string) (float64, bool) {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0, false
	}
	f, err := strconv.ParseFloat(s, 64)
	if err != nil || math.IsInf(f, 0) || math.IsNaN(f) {
		return 0, false
	}
	return f, true
}

// ParseBoolLiteral recognizes "true" and "false", ignoring case.
func ParseBoolLiteral(s string) (value bool, ok bool) {
	switch strings.ToLower(s) {
	case "true":
		return true, true
	case "false":
		return false, true
	}
	return false, false
}

// CoerceScalar turns boolean and numeric literals into their JSON types.
// Any other value is returned unchanged.
func CoerceScalar(v any) any {
	s, ok := v.(string)
	if !ok {
		return v
	}
	if b, ok := ParseBoolLiteral(s); ok {
		return b
	}
	if f, ok := ParseNumber(s); ok {
		return f
	}
	return s
}

// Truthy mirrors loose JSON truthiness: false, 0, "", null are false.
func Truthy(v any) bool {
	switch t := v.(type) {
	case nil:
		return false
	case bool:
		return t
	case float64:
		return t != 0 && !math.IsNaN(t)
	case int:
		return t != 0
	case string:
		return t != ""
	default:
		return true
	}
}

// FormatNumber renders a float in its shortest form ("7", "0.25").
func FormatNumber(f float64) string {
	return strconv.FormatFloat(f, 'f', -1, 64)
}
