package config

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/example/curlgen/internal/generator"
	"github.com/example/curlgen/internal/inference"
	"github.com/example/curlgen/internal/jsonx"
	"github.com/example/curlgen/internal/schema"
)

// ReadCommand returns the curl command, reading CommandFile when set.
// stdin is used for CommandFile "-".
func (c *Config) ReadCommand(stdin io.Reader) (string, error) {
	if c.Command != "" {
		return c.Command, nil
	}
	if c.CommandFile == "" {
		return "", fmt.Errorf("%w: no curl command given", ErrInvalidConfig)
	}

	var (
		data []byte
		err  error
	)
	if c.CommandFile == "-" {
		data, err = io.ReadAll(stdin)
	} else {
		data, err = os.ReadFile(c.CommandFile)
	}
	if err != nil {
		return "", fmt.Errorf("reading curl command: %w", err)
	}

	command := strings.TrimSpace(joinContinuations(string(data)))
	if command == "" {
		return "", fmt.Errorf("%w: curl command is empty", ErrInvalidConfig)
	}
	return command, nil
}

// joinContinuations folds shell line continuations into one line.
func joinContinuations(s string) string {
	s = strings.ReplaceAll(s, "\r\n", "\n")
	return strings.ReplaceAll(s, "\\\n", " ")
}

// DefaultFieldConfigs builds one configuration per schema path that has
// no children. Static mode reproduces the original values; random mode
// leaves the category to inference.
func DefaultFieldConfigs(s *schema.Schema, mode DefaultMode) generator.FieldConfigs {
	configs := make(generator.FieldConfigs, s.Len())
	for path, f := range s.All() {
		if s.HasChildren(path) {
			continue
		}
		if mode == DefaultsRandom {
			configs[path] = generator.RandomConfig(path, f.Kind, inference.CategoryAuto)
			continue
		}
		configs[path] = generator.StaticConfig(path, f.Kind, jsonx.Stringify(f.Value))
	}
	return configs
}

// ApplyOverrides merges overrides into base and returns the result.
// An override without a type inherits the type of the base entry; an
// override without a field name is named after its path.
func ApplyOverrides(base generator.FieldConfigs, overrides map[string]generator.FieldConfig) generator.FieldConfigs {
	out := make(generator.FieldConfigs, len(base)+len(overrides))
	for path, cfg := range base {
		out[path] = cfg
	}
	for path, cfg := range overrides {
		if cfg.Kind == "" {
			if prev, ok := base[path]; ok {
				cfg.Kind = prev.Kind
			} else {
				cfg.Kind = jsonx.KindString
			}
		}
		if cfg.FieldName == "" {
			cfg.FieldName = path
		}
		out[path] = cfg
	}
	return out
}

// FieldConfigs returns the effective configuration for s: the defaults
// of c.Defaults with c.Fields applied on top.
func (c *Config) FieldConfigs(s *schema.Schema) generator.FieldConfigs {
	return ApplyOverrides(DefaultFieldConfigs(s, c.Defaults), c.Fields)
}

// SetStatic records a static override for path.
func (c *Config) SetStatic(path, value string) {
	if c.Fields == nil {
		c.Fields = make(map[string]generator.FieldConfig)
	}
	f := c.Fields[path]
	f.Static = true
	f.Value = &value
	c.Fields[path] = f
}

// SetCategory records a random override with a fixed category for path.
func (c *Config) SetCategory(path string, cat inference.Category) {
	if c.Fields == nil {
		c.Fields = make(map[string]generator.FieldConfig)
	}
	f := c.Fields[path]
	f.Static = false
	f.Value = nil
	f.Category = cat
	c.Fields[path] = f
}
