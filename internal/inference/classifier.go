package inference

import "github.com/example/curlgen/internal/jsonx"

// Classifier maps field paths to semantic categories.
//
// Thread Safety: Safe for concurrent use; the rule table is read-only.
type Classifier struct {
	rules []Rule
}

// NewClassifier creates a classifier. With no rules the default table is used.
func NewClassifier(rules ...Rule) *Classifier {
	if len(rules) == 0 {
		rules = DefaultRules()
	}
	return &Classifier{rules: rules}
}

var defaultClassifier = NewClassifier()

// Classify categorizes a field using the default rule table.
func Classify(path string, kind jsonx.Kind) Category {
	return defaultClassifier.Classify(path, kind)
}

// Classify tests the last segment of path against the rules in order and
// returns the first match. When no rule matches, the coarse JSON kind
// decides, with string as the final fallback.
func (c *Classifier) Classify(path string, kind jsonx.Kind) Category {
	cat, _ := c.Explain(path, kind)
	return cat
}

// Explain is Classify that also names the deciding rule. Kind fallbacks
// are reported as "kind:<kind>".
func (c *Classifier) Explain(path string, kind jsonx.Kind) (Category, string) {
	n := NameOf(path)
	for _, r := range c.rules {
		if r.Match != nil && r.Match(n) {
			return r.Category, r.Name
		}
	}

	switch kind {
	case jsonx.KindNumber:
		return CategoryNumber, "kind:number"
	case jsonx.KindBoolean:
		return CategoryBoolean, "kind:boolean"
	case jsonx.KindArray:
		return CategoryArray, "kind:array"
	case jsonx.KindObject:
		return CategoryObject, "kind:object"
	}
	return CategoryString, "kind:string"
}
