package inference

import (
	"regexp"
	"slices"
	"strings"
	"unicode"
)

// Name is a field name prepared for pattern matching.
type Name struct {
	// Raw is the segment the name was built from, as written.
	Raw string

	// Lower is Raw in lowercase.
	Lower string

	// Compact is Lower with separators removed ("first_name" -> "firstname").
	Compact string

	// Words holds the lowercase words of Raw, split on camelCase,
	// snake_case, kebab-case and spaces.
	Words []string
}

// NewName prepares a single field name segment.
func NewName(segment string) Name {
	words := SplitWords(segment)
	return Name{
		Raw:     segment,
		Lower:   strings.ToLower(segment),
		Compact: strings.Join(words, ""),
		Words:   words,
	}
}

// NameOf prepares the last meaningful segment of a dotted path. Trailing
// array indexes are skipped so "tags.0" is named after "tags".
func NameOf(path string) Name {
	return NewName(LastSegment(path))
}

// LastSegment returns the last non-numeric segment of a dotted path.
func LastSegment(path string) string {
	parts := strings.Split(path, ".")
	for i := len(parts) - 1; i >= 0; i-- {
		if parts[i] != "" && !IsIndex(parts[i]) {
			return parts[i]
		}
	}
	return path
}

// IsIndex reports whether a path segment is an array index.
func IsIndex(segment string) bool {
	if segment == "" {
		return false
	}
	for _, r := range segment {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}

// SplitWords breaks an identifier into lowercase words.
//
//	"firstName"   -> [first name]
//	"user_id"     -> [user id]
//	"HTTPStatus"  -> [http status]
//	"address2"    -> [address2]
func SplitWords(s string) []string {
	var words []string
	runes := []rune(s)
	start := -1

	flush := func(end int) {
		if start >= 0 && end > start {
			words = append(words, strings.ToLower(string(runes[start:end])))
		}
		start = -1
	}

	for i, r := range runes {
		if !unicode.IsLetter(r) && !unicode.IsDigit(r) {
			flush(i)
			continue
		}
		if start < 0 {
			start = i
			continue
		}
		if unicode.IsUpper(r) {
			prev := runes[i-1]
			nextLower := i+1 < len(runes) && unicode.IsLower(runes[i+1])
			if unicode.IsLower(prev) || unicode.IsDigit(prev) || (unicode.IsUpper(prev) && nextLower) {
				flush(i)
				start = i
			}
		}
	}
	flush(len(runes))
	return words
}

// HasWord reports whether any word equals one of candidates.
func (n Name) HasWord(candidates ...string) bool {
	for _, w := range n.Words {
		if slices.Contains(candidates, w) {
			return true
		}
	}
	return false
}

// FirstWord returns the first word, or "".
func (n Name) FirstWord() string {
	if len(n.Words) == 0 {
		return ""
	}
	return n.Words[0]
}

// LastWord returns the last word, or "".
func (n Name) LastWord() string {
	if len(n.Words) == 0 {
		return ""
	}
	return n.Words[len(n.Words)-1]
}

// Contains reports whether the compact form contains any of the fragments.
func (n Name) Contains(fragments ...string) bool {
	for _, f := range fragments {
		if strings.Contains(n.Compact, f) {
			return true
		}
	}
	return false
}

var (
	booleanLeadWords = []string{"is", "has", "can", "should", "does", "allow", "allows", "enable", "enables"}
	booleanWords     = []string{"flag", "bool", "boolean", "enabled", "allowed", "unique"}

	quantityWords = []string{
		"limit", "max", "min", "count", "num", "number", "quantity", "qty",
		"total", "amount", "length", "size", "value", "sum", "percent",
		"percentage", "rate", "ratio", "weight", "height", "width", "depth",
		"distance", "duration", "interval", "order", "index", "level",
		"priority", "score", "rank",
	}

	objectNamePattern = regexp.MustCompile(`^(props|options|config|settings|attributes|metadata)|^data$`)
	arrayNamePattern  = regexp.MustCompile(`(list|array|items|collection|relations?|ids|tags)$|^additional`)
	contactCollection = regexp.MustCompile(`^additional.*s$|^contacts$|^relationships$|^relations$`)
)

// IsBooleanName reports whether a field name reads like a flag:
// "isActive", "has_children", "allowEdit", "featureFlag", "enabled".
func IsBooleanName(field string) bool {
	n := NewName(field)
	return slices.Contains(booleanLeadWords, n.FirstWord()) || n.HasWord(booleanWords...)
}

// IsQuantityName reports whether a field name reads like a count or
// measure ("maxRetries", "page_size", "priority").
func IsQuantityName(field string) bool {
	return NewName(field).HasWord(quantityWords...)
}

// IsContactCollection reports whether a field holds a list of contact or
// relation objects ("additionalEmails", "contacts", "relations").
func IsContactCollection(field string) bool {
	return contactCollection.MatchString(strings.ToLower(field))
}

// Shape is a structural hint derived from a field name.
type Shape int

// Shape hints.
const (
	ShapeNone Shape = iota
	ShapeObject
	ShapeArray
)

// ShapeHint reports whether a field name suggests an object or an array.
// The object patterns are tested first, so "data" and "config" are objects.
func ShapeHint(field string) Shape {
	lower := strings.ToLower(field)
	switch {
	case objectNamePattern.MatchString(lower):
		return ShapeObject
	case arrayNamePattern.MatchString(lower):
		return ShapeArray
	}
	return ShapeNone
}
