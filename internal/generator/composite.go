package generator

import (
	"strings"
	"time"

	"github.com/example/curlgen/internal/jsonx"
)

// randomArray builds a list whose element shape follows the field name.
func (g *Generator) randomArray(name string) []any {
	lower := strings.ToLower(name)

	switch {
	case strings.Contains(lower, "additionalemail"):
		return g.repeat(1, 3, func() any {
			return jsonx.ObjectOf("email", g.src.Fake("email"), "isPrimary", false)
		})
	case strings.Contains(lower, "additionalphone"):
		return g.repeat(1, 3, func() any {
			return jsonx.ObjectOf("number", g.src.Fake("phone"), "type", g.src.Pick("mobile", "home", "work"))
		})
	case lower == "relations":
		return g.repeat(1, 2, func() any {
			return jsonx.ObjectOf(
				"associationId", "TASK_"+g.src.Chars(8, UpperLetters)+"_ASSOCIATION",
				"recordId", g.src.Chars(20, LowerAlnum),
			)
		})
	case strings.Contains(lower, "email"):
		return g.repeat(1, 3, func() any { return g.src.Fake("email") })
	case strings.Contains(lower, "phone"):
		return g.repeat(1, 3, func() any { return g.src.Fake("phone") })
	case strings.Contains(lower, "address"):
		return g.repeat(1, 3, func() any { return g.src.Fake("address") })
	case strings.Contains(lower, "name"):
		return g.repeat(1, 3, func() any { return g.src.Fake("name") })
	case strings.Contains(lower, "id"):
		return g.repeat(1, 5, func() any { return g.id() })
	}
	return g.repeat(1, 3, func() any { return g.src.Fake("word") })
}

func (g *Generator) repeat(min, max int, next func() any) []any {
	n := g.src.Int(min, max)
	out := make([]any, n)
	for i := range out {
		out[i] = next()
	}
	return out
}

// randomObject builds an object whose shape follows the field name.
func (g *Generator) randomObject(name string) *jsonx.Object {
	lower := strings.ToLower(name)

	switch {
	case strings.Contains(lower, "address"):
		return jsonx.ObjectOf(
			"street", g.src.Fake("street"),
			"city", g.src.Fake("city"),
			"state", g.src.Fake("state"),
			"zip", g.src.Fake("zip"),
			"country", g.src.Fake("country"),
		)
	case strings.Contains(lower, "contact"):
		return jsonx.ObjectOf("email", g.src.Fake("email"), "phone", g.src.Fake("phone"))
	case strings.Contains(lower, "user"), strings.Contains(lower, "person"):
		return jsonx.ObjectOf(
			"id", g.src.Int(1000, 9999),
			"name", g.src.Fake("name"),
			"email", g.src.Fake("email"),
		)
	case lower == "properties":
		return g.taskProperties()
	case lower == "config":
		return jsonx.ObjectOf("recurringTask", g.recurringTask())
	}
	return jsonx.ObjectOf("key", g.src.Fake("word"), "value", g.src.Fake("word"))
}

func (g *Generator) taskProperties() *jsonx.Object {
	due := g.now().Add(time.Duration(g.src.Int(1, 14)) * 24 * time.Hour)
	return jsonx.ObjectOf(
		"title", g.src.Fake("sentence"),
		"description", g.src.Fake("sentence"),
		"dueDate", due.UTC().Format(ISO8601),
		"completed", g.src.Bool(),
	)
}

func (g *Generator) recurringTask() *jsonx.Object {
	rrule := jsonx.ObjectOf(
		"interval", g.src.Int(1, 5),
		"intervalType", g.src.Pick("daily", "weekly", "monthly"),
		"startDate", g.now().UTC().Format(ISO8601),
		"dueAfterSeconds", 3600*g.src.Int(1, 24),
		"count", nil,
		"endDate", nil,
	)
	return jsonx.ObjectOf(
		"title", g.src.Fake("sentence"),
		"description", g.src.Fake("sentence"),
		"owners", []any{},
		"contactIds", []any{g.src.Chars(20, LowerAlnum)},
		"ignoreTaskCreation", g.src.Bool(),
		"rruleOptions", rrule,
	)
}
