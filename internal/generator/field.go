package generator

import (
	"github.com/example/curlgen/internal/inference"
	"github.com/example/curlgen/internal/jsonx"
)

// FieldConfig controls how one field path is generated.
type FieldConfig struct {
	// Kind is the coarse JSON type of the field.
	Kind jsonx.Kind `json:"type" yaml:"type"`

	// Static selects Value over random generation.
	Static bool `json:"static" yaml:"static"`

	// Value is the static value in text form. It is coerced to the field's
	// type when generated.
	Value *string `json:"value,omitempty" yaml:"value,omitempty"`

	// Category overrides name-based inference for random generation.
	// Empty, "auto" and "default" leave inference on.
	Category inference.Category `json:"category,omitempty" yaml:"category,omitempty"`

	// FieldName is the field path. Name heuristics look at its last segment.
	FieldName string `json:"fieldName" yaml:"fieldName"`
}

// FieldConfigs maps field paths to their configuration.
type FieldConfigs map[string]FieldConfig

// StaticConfig returns a static configuration for path.
func StaticConfig(path string, kind jsonx.Kind, value string) FieldConfig {
	return FieldConfig{Kind: kind, Static: true, Value: &value, FieldName: path}
}

// RandomConfig returns a random configuration for path.
func RandomConfig(path string, kind jsonx.Kind, cat inference.Category) FieldConfig {
	return FieldConfig{Kind: kind, Category: cat, FieldName: path}
}

// name returns the segment name heuristics apply to. Array element paths
// ("tags.0") have no name of their own.
func (c *FieldConfig) name() string {
	if c == nil || c.FieldName == "" {
		return ""
	}
	seg := c.FieldName
	for i := len(seg) - 1; i >= 0; i-- {
		if seg[i] == '.' {
			seg = seg[i+1:]
			break
		}
	}
	if inference.IsIndex(seg) {
		return ""
	}
	return seg
}

// category returns the configured category, or fallback when inference
// is requested.
func (c *FieldConfig) category(fallback inference.Category) inference.Category {
	if c == nil || c.Category.IsAuto() {
		return fallback
	}
	return c.Category
}
