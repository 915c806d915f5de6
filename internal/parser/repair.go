package parser

import (
	"strconv"
	"strings"

	"github.com/example/curlgen/internal/inference"
	"github.com/example/curlgen/internal/jsonx"
)

// maxIndex bounds indexed keys so "items.99999999" cannot allocate a huge
// array. Larger indexes are left as ordinary keys.
const maxIndex = 10000

// Repair normalizes a decoded JSON body with the default parser.
func Repair(v any) any {
	return defaultParser.Repair(v)
}

// Repair normalizes a decoded JSON body and returns the result as a new
// value; the input is never modified. Repairing a repaired body changes
// nothing.
//
// Objects are repaired recursively:
//   - validateEmail becomes a boolean.
//   - additionalEmails and additionalPhones items become contact objects.
//   - Indexed keys ("relations.0.recordId") are collected into arrays of
//     objects, with relation elements given placeholder identifiers.
//   - "true"/"false" strings become booleans and numeric strings become
//     numbers, unless the key reads like a flag.
//   - properties.completed and config.recurringTask get their expected types.
//
// Arrays are copied as they are, except that a top-level array has its
// object elements repaired.
func (p *Parser) Repair(v any) any {
	switch t := v.(type) {
	case *jsonx.Object:
		return p.repairObject(t)
	case []any:
		out := make([]any, len(t))
		for i, elem := range t {
			if obj, ok := elem.(*jsonx.Object); ok {
				out[i] = p.repairObject(obj)
			} else {
				out[i] = jsonx.Clone(elem)
			}
		}
		return out
	}
	return v
}

type indexedKey struct {
	name  string
	index int
	rest  string
}

// splitIndexed recognizes "<name>.<index>[.<rest>]" using the first
// numeric segment after the name.
func splitIndexed(key string) (indexedKey, bool) {
	parts := strings.Split(key, ".")
	for i := 1; i < len(parts); i++ {
		if !inference.IsIndex(parts[i]) {
			continue
		}
		idx, err := strconv.Atoi(parts[i])
		if err != nil || idx > maxIndex {
			return indexedKey{}, false
		}
		return indexedKey{
			name:  strings.Join(parts[:i], "."),
			index: idx,
			rest:  strings.Join(parts[i+1:], "."),
		}, true
	}
	return indexedKey{}, false
}

func (p *Parser) repairObject(src *jsonx.Object) *jsonx.Object {
	out := jsonx.NewObject()

	arrays := jsonx.NewMap[[]any]()
	for key := range src.All() {
		ix, ok := splitIndexed(key)
		if !ok {
			continue
		}
		arr, _ := arrays.Get(ix.name)
		for len(arr) <= ix.index {
			arr = append(arr, jsonx.NewObject())
		}
		arrays.Set(ix.name, arr)
	}

	for key, value := range src.All() {
		ix, ok := splitIndexed(key)
		if !ok {
			out.Set(key, p.repairValue(key, value))
			continue
		}

		arr, _ := arrays.Get(ix.name)
		if ix.rest == "" {
			arr[ix.index] = jsonx.Clone(value)
			continue
		}
		if elem, ok := arr[ix.index].(*jsonx.Object); ok {
			setPath(elem, strings.Split(ix.rest, "."), coerceLeaf(value))
		}
	}

	for name, arr := range arrays.All() {
		if name == "relations" {
			arr = p.ensureRelationIDs(arr)
		}
		out.Set(name, arr)
	}

	repairProperties(out)
	repairRecurringTask(out)
	return out
}

func (p *Parser) repairValue(key string, value any) any {
	switch key {
	case "validateEmail":
		return repairValidateEmail(value)
	case "additionalEmails":
		if items, ok := value.([]any); ok {
			return RepairContacts(items, EmailContact)
		}
	case "additionalPhones":
		if items, ok := value.([]any); ok {
			return RepairContacts(items, PhoneContact)
		}
	}

	switch t := value.(type) {
	case *jsonx.Object:
		return p.repairObject(t)
	case []any:
		return jsonx.Clone(t)
	case string:
		return repairString(key, t)
	}
	return value
}

func repairString(key, s string) any {
	if b, ok := jsonx.ParseBoolLiteral(s); ok {
		return b
	}
	if inference.IsBooleanName(key) {
		return s
	}
	if f, ok := jsonx.ParseNumber(s); ok {
		return f
	}
	return s
}

func repairValidateEmail(v any) bool {
	switch t := v.(type) {
	case bool:
		return t
	case string:
		if strings.Contains(t, "@") {
			return true
		}
		switch strings.ToLower(t) {
		case "true", "1", "yes":
			return true
		}
		return false
	}
	return jsonx.Truthy(v)
}

// EmailContact wraps a plain address as an additional email object.
func EmailContact(s string) any {
	return jsonx.ObjectOf("email", s, "isPrimary", false)
}

// PhoneContact wraps a plain number as an additional phone object.
func PhoneContact(s string) any {
	return jsonx.ObjectOf("number", s, "type", "mobile")
}

// RepairContacts turns a list of plain strings into contact objects.
// An empty list stays empty and a list holding one blank item becomes a
// list with one empty object. Blank items become empty objects, and
// objects and arrays pass through.
func RepairContacts(items []any, wrap func(string) any) []any {
	if len(items) == 0 {
		return []any{}
	}
	if len(items) == 1 && isBlank(items[0]) {
		return []any{jsonx.NewObject()}
	}

	out := make([]any, len(items))
	for i, item := range items {
		switch t := item.(type) {
		case *jsonx.Object, []any:
			out[i] = jsonx.Clone(t)
		default:
			if isBlank(t) {
				out[i] = jsonx.NewObject()
			} else {
				out[i] = wrap(jsonx.Stringify(t))
			}
		}
	}
	return out
}

func isBlank(v any) bool {
	return v == nil || v == ""
}

func coerceLeaf(v any) any {
	if s, ok := v.(string); ok {
		return jsonx.CoerceScalar(s)
	}
	return jsonx.Clone(v)
}

// setPath stores value under a nested path, creating objects on the way.
func setPath(obj *jsonx.Object, parts []string, value any) {
	for _, part := range parts[:len(parts)-1] {
		child, ok := obj.Get(part)
		next, isObj := child.(*jsonx.Object)
		if !ok || !isObj {
			next = jsonx.NewObject()
			obj.Set(part, next)
		}
		obj = next
	}
	obj.Set(parts[len(parts)-1], value)
}

func (p *Parser) ensureRelationIDs(items []any) []any {
	for i, item := range items {
		rel, ok := item.(*jsonx.Object)
		if !ok {
			rel = jsonx.NewObject()
			items[i] = rel
		}

		assoc, _ := rel.Get("associationId")
		record, _ := rel.Get("recordId")
		if jsonx.Truthy(assoc) && jsonx.Truthy(record) {
			continue
		}

		newAssoc, newRecord := p.placeholderIDs()
		if !jsonx.Truthy(assoc) {
			rel.Set("associationId", newAssoc)
		}
		if !jsonx.Truthy(record) {
			rel.Set("recordId", newRecord)
		}
	}
	return items
}

// placeholderIDs returns an association identifier of the form
// TASK_XXXXXXXX_ASSOCIATION and a 20 character record identifier.
func (p *Parser) placeholderIDs() (association, record string) {
	id := p.newID()
	for len(id) < 28 {
		id += randomHex()
	}
	return "TASK_" + strings.ToUpper(id[:8]) + "_ASSOCIATION", strings.ToLower(id[8:28])
}

func repairProperties(obj *jsonx.Object) {
	props, ok := childObject(obj, "properties")
	if !ok {
		return
	}
	if s, ok := stringField(props, "completed"); ok {
		props.Set("completed", strings.EqualFold(s, "true"))
	}
}

func repairRecurringTask(obj *jsonx.Object) {
	cfg, ok := childObject(obj, "config")
	if !ok {
		return
	}
	task, ok := childObject(cfg, "recurringTask")
	if !ok {
		return
	}

	if ids, ok := task.Get("contactIds"); ok && jsonx.Truthy(ids) {
		if _, isArr := ids.([]any); !isArr {
			task.Set("contactIds", []any{jsonx.Stringify(ids)})
		}
	}
	if owners, ok := task.Get("owners"); ok {
		if _, isArr := owners.([]any); !isArr {
			task.Set("owners", []any{})
		}
	}
	if s, ok := stringField(task, "ignoreTaskCreation"); ok {
		task.Set("ignoreTaskCreation", strings.EqualFold(s, "true"))
	}

	rrule, ok := childObject(task, "rruleOptions")
	if !ok {
		return
	}
	for _, key := range []string{"interval", "dueAfterSeconds"} {
		if s, ok := stringField(rrule, key); ok {
			if f, ok := jsonx.ParseNumber(s); ok {
				rrule.Set(key, f)
			}
		}
	}
}

func childObject(obj *jsonx.Object, key string) (*jsonx.Object, bool) {
	v, _ := obj.Get(key)
	child, ok := v.(*jsonx.Object)
	return child, ok && child != nil
}

func stringField(obj *jsonx.Object, key string) (string, bool) {
	v, _ := obj.Get(key)
	s, ok := v.(string)
	return s, ok
}
