// Package assembler builds generated entries from a field schema.
package assembler

import (
	"slices"
	"strconv"
	"strings"

	"github.com/example/curlgen/internal/generator"
	"github.com/example/curlgen/internal/inference"
	"github.com/example/curlgen/internal/jsonx"
	"github.com/example/curlgen/internal/schema"
)

// Assembler turns a schema and its field configurations into entries that
// mirror the shape of the original body.
//
// Thread Safety: Safe for concurrent use if the generator's source is.
type Assembler struct {
	gen        *generator.Generator
	classifier *inference.Classifier
}

// Option configures an Assembler.
type Option func(*Assembler)

// WithClassifier replaces the default classification rules.
func WithClassifier(c *inference.Classifier) Option {
	return func(a *Assembler) {
		if c != nil {
			a.classifier = c
		}
	}
}

// New creates an assembler that draws values from gen.
func New(gen *generator.Generator, opts ...Option) *Assembler {
	a := &Assembler{gen: gen, classifier: inference.NewClassifier()}
	for _, opt := range opts {
		opt(a)
	}
	return a
}

// Assemble generates one entry.
//
// Leaves are generated from their config, or randomly with an inferred
// category when they have none. Paths sharing a prefix are regrouped into
// nested objects. Indexed paths (name.0.key) are regrouped into an array
// ordered by index, unless the array itself was recorded and has a config,
// in which case the array is generated as a whole.
func (a *Assembler) Assemble(s *schema.Schema, configs generator.FieldConfigs) *jsonx.Object {
	root := buildTree(s)
	return a.object(root, configs)
}

func (a *Assembler) value(n *node, configs generator.FieldConfigs) any {
	if n.children.Len() == 0 {
		return a.leaf(n, configs)
	}
	if n.indexed() {
		if _, ok := configs[n.path]; ok && n.field != nil && n.field.Kind == jsonx.KindArray {
			return a.leaf(n, configs)
		}
		return a.array(n, configs)
	}
	return a.object(n, configs)
}

func (a *Assembler) object(n *node, configs generator.FieldConfigs) *jsonx.Object {
	obj := jsonx.NewObject()
	for key, child := range n.children.All() {
		obj.Set(key, a.value(child, configs))
	}
	return obj
}

func (a *Assembler) array(n *node, configs generator.FieldConfigs) []any {
	elems := slices.Collect(n.children.Values())
	slices.SortStableFunc(elems, func(x, y *node) int { return x.index - y.index })

	out := make([]any, 0, len(elems))
	for _, elem := range elems {
		v := a.value(elem, configs)
		if n.key == "relations" {
			if obj, ok := v.(*jsonx.Object); ok && obj.Len() == 0 {
				v = a.placeholderRelation()
			}
		}
		out = append(out, v)
	}
	return out
}

func (a *Assembler) placeholderRelation() *jsonx.Object {
	return jsonx.ObjectOf("id", a.gen.Source().Int(0, 999), "type", "default")
}

func (a *Assembler) leaf(n *node, configs generator.FieldConfigs) any {
	kind := jsonx.KindString
	if n.field != nil {
		kind = n.field.Kind
	}

	cfg, ok := configs[n.path]
	if !ok {
		cfg = generator.RandomConfig(n.path, kind, inference.CategoryAuto)
	}
	if cfg.FieldName == "" {
		cfg.FieldName = n.path
	}
	if cfg.Kind != "" {
		kind = cfg.Kind
	}

	cat := a.classifier.Classify(n.path, kind)
	return a.gen.Generate(cat, &cfg)
}

// node is one path segment of the schema.
type node struct {
	key      string
	path     string
	index    int
	field    *schema.Field
	children *jsonx.Map[*node]
}

func newNode(key, path string) *node {
	n := &node{key: key, path: path, index: -1, children: jsonx.NewMap[*node]()}
	if inference.IsIndex(key) {
		if i, err := strconv.Atoi(key); err == nil {
			n.index = i
		}
	}
	return n
}

// indexed reports whether every child is an array index.
func (n *node) indexed() bool {
	if n.children.Len() == 0 {
		return false
	}
	for _, child := range n.children.All() {
		if child.index < 0 {
			return false
		}
	}
	return true
}

func buildTree(s *schema.Schema) *node {
	root := newNode("", "")
	for path, field := range s.All() {
		n := root
		for _, seg := range strings.Split(path, ".") {
			child, ok := n.children.Get(seg)
			if !ok {
				childPath := seg
				if n.path != "" {
					childPath = n.path + "." + seg
				}
				child = newNode(seg, childPath)
				n.children.Set(seg, child)
			}
			n = child
		}
		f := field
		n.field = &f
	}
	return root
}
