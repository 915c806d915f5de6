// Package schema flattens a request body into an ordered field schema.
package schema

import (
	"iter"
	"strings"

	"github.com/example/curlgen/internal/jsonx"
)

// Field describes one path of a request body.
type Field struct {
	// Path is the dot-separated location; numeric segments are array indexes.
	Path string `json:"path"`

	// Kind is the coarse JSON type.
	Kind jsonx.Kind `json:"type"`

	// Value is the value found in the original body.
	Value any `json:"originalValue"`
}

// Schema maps paths to fields in body traversal order.
//
// Thread Safety: Not safe for concurrent mutation. A schema that is no
// longer modified may be read from multiple goroutines.
type Schema struct {
	fields *jsonx.Map[Field]
}

// New creates an empty schema.
func New() *Schema {
	return &Schema{fields: jsonx.NewMap[Field]()}
}

// Add records a field. Adding an existing path replaces it in place.
func (s *Schema) Add(path string, kind jsonx.Kind, value any) {
	s.fields.Set(path, Field{Path: path, Kind: kind, Value: value})
}

// Get returns the field stored under path.
func (s *Schema) Get(path string) (Field, bool) {
	if s == nil {
		return Field{}, false
	}
	return s.fields.Get(path)
}

// Len returns the number of fields.
func (s *Schema) Len() int {
	if s == nil {
		return 0
	}
	return s.fields.Len()
}

// Paths returns the field paths in order.
func (s *Schema) Paths() []string {
	if s == nil {
		return nil
	}
	return s.fields.Keys()
}

// All iterates over fields in order.
func (s *Schema) All() iter.Seq2[string, Field] {
	if s == nil {
		return func(func(string, Field) bool) {}
	}
	return s.fields.All()
}

// HasChildren reports whether any other field lies below path.
func (s *Schema) HasChildren(path string) bool {
	prefix := path + "."
	for p := range s.All() {
		if strings.HasPrefix(p, prefix) {
			return true
		}
	}
	return false
}

// MarshalJSON encodes the schema as an ordered object of fields.
func (s *Schema) MarshalJSON() ([]byte, error) {
	if s == nil {
		return []byte("{}"), nil
	}
	return s.fields.MarshalJSON()
}
