package schema

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/example/curlgen/internal/jsonx"
)

func decode(t *testing.T, s string) any {
	t.Helper()
	v, err := jsonx.DecodeString(s)
	require.NoError(t, err)
	return v
}

type fieldSummary struct {
	Kind  jsonx.Kind
	Value string
}

func summarize(t *testing.T, s *Schema) map[string]fieldSummary {
	t.Helper()
	out := make(map[string]fieldSummary, s.Len())
	for path, f := range s.All() {
		data, err := json.Marshal(f.Value)
		require.NoError(t, err)
		out[path] = fieldSummary{Kind: f.Kind, Value: string(data)}
	}
	return out
}

func TestExtractOrderAndKinds(t *testing.T) {
	s := Extract(decode(t, `{
		"name": "Ann",
		"age": 31,
		"active": true,
		"note": null,
		"user": {"email": "a@x.io", "address": {"city": "Oslo"}},
		"tags": ["a", "b"],
		"score": 2.5
	}`))

	assert.Equal(t, []string{
		"name", "age", "active", "note",
		"user.email", "user.address.city",
		"tags", "score",
	}, s.Paths())

	got := summarize(t, s)
	assert.Equal(t, fieldSummary{jsonx.KindString, `"Ann"`}, got["name"])
	assert.Equal(t, fieldSummary{jsonx.KindNumber, `31`}, got["age"])
	assert.Equal(t, fieldSummary{jsonx.KindBoolean, `true`}, got["active"])
	assert.Equal(t, fieldSummary{jsonx.KindNull, `null`}, got["note"])
	assert.Equal(t, fieldSummary{jsonx.KindString, `"Oslo"`}, got["user.address.city"])
	assert.Equal(t, fieldSummary{jsonx.KindArray, `["a","b"]`}, got["tags"])
	assert.Equal(t, fieldSummary{jsonx.KindNumber, `2.5`}, got["score"])
}

func TestExtractRelations(t *testing.T) {
	s := Extract(decode(t, `{"relations":[{"associationId":"A","recordId":"B"},{"recordId":"C","weight":2}]}`))

	assert.Equal(t, []string{
		"relations",
		"relations.0.associationId", "relations.0.recordId",
		"relations.1.recordId", "relations.1.weight",
	}, s.Paths())

	f, ok := s.Get("relations.1.weight")
	require.True(t, ok)
	assert.Equal(t, jsonx.KindNumber, f.Kind)
	assert.Equal(t, 2.0, f.Value)
}

func TestExtractWholeObjects(t *testing.T) {
	s := Extract(decode(t, `{
		"properties": {"title": "t", "completed": false},
		"config": {"recurringTask": {"owners": [], "rruleOptions": {"interval": 2}}},
		"meta": {"x": 1}
	}`))

	assert.Equal(t, []string{
		"properties", "properties.title", "properties.completed",
		"config", "config.recurringTask", "config.recurringTask.owners",
		"config.recurringTask.rruleOptions", "config.recurringTask.rruleOptions.interval",
		"meta.x",
	}, s.Paths())

	f, _ := s.Get("config.recurringTask")
	assert.Equal(t, jsonx.KindObject, f.Kind)
	assert.False(t, s.HasChildren("meta.x"))
	assert.True(t, s.HasChildren("config"))
}

func TestExtractNameHeuristics(t *testing.T) {
	s := Extract(decode(t, `{
		"isVerified": "yes",
		"hasCount": 3,
		"enabled": "FALSE",
		"tagList": "a",
		"data": "x",
		"configItems": "y",
		"label": "plain"
	}`))

	got := summarize(t, s)
	assert.Equal(t, fieldSummary{jsonx.KindBoolean, `false`}, got["isVerified"])
	assert.Equal(t, fieldSummary{jsonx.KindBoolean, `true`}, got["hasCount"])
	assert.Equal(t, fieldSummary{jsonx.KindBoolean, `false`}, got["enabled"])
	assert.Equal(t, fieldSummary{jsonx.KindArray, `["a"]`}, got["tagList"])
	assert.Equal(t, fieldSummary{jsonx.KindObject, `{"value":"x"}`}, got["data"])
	assert.Equal(t, fieldSummary{jsonx.KindObject, `{"value":"y"}`}, got["configItems"])
	assert.Equal(t, fieldSummary{jsonx.KindString, `"plain"`}, got["label"])
}

func TestExtractIndexedLeafKeys(t *testing.T) {
	body := decode(t, `{"tags":["x"],"tags.2":"c"}`)
	s := Extract(body)

	assert.Equal(t, []string{"tags", "tags.2"}, s.Paths())
	got := summarize(t, s)
	assert.Equal(t, fieldSummary{jsonx.KindArray, `["x",{},"c"]`}, got["tags"])
	assert.Equal(t, fieldSummary{jsonx.KindString, `"c"`}, got["tags.2"])

	tags, _ := body.(*jsonx.Object).Get("tags")
	assert.Equal(t, []any{"x"}, tags, "body must not be modified")
}

func TestExtractIndexedLeafCreatesArray(t *testing.T) {
	s := Extract(decode(t, `{"ids.1":5}`))

	assert.Equal(t, []string{"ids", "ids.1"}, s.Paths())
	got := summarize(t, s)
	assert.Equal(t, fieldSummary{jsonx.KindArray, `[{},5]`}, got["ids"])
	assert.Equal(t, fieldSummary{jsonx.KindNumber, `5`}, got["ids.1"])
}

func TestExtractStringBodies(t *testing.T) {
	t.Run("json string", func(t *testing.T) {
		s := Extract(`{"a":1,"b":{"c":"d"}}`)
		assert.Equal(t, []string{"a", "b.c"}, s.Paths())
	})

	t.Run("form encoded", func(t *testing.T) {
		s := Extract("name=Ann%20Lee&isAdmin=yes&ok=TRUE&empty=&=skip&bare")
		assert.Equal(t, []string{"name", "isAdmin", "ok", "empty", "bare"}, s.Paths())

		got := summarize(t, s)
		assert.Equal(t, fieldSummary{jsonx.KindString, `"Ann Lee"`}, got["name"])
		assert.Equal(t, fieldSummary{jsonx.KindBoolean, `false`}, got["isAdmin"])
		assert.Equal(t, fieldSummary{jsonx.KindBoolean, `true`}, got["ok"])
		assert.Equal(t, fieldSummary{jsonx.KindString, `""`}, got["empty"])
		assert.Equal(t, fieldSummary{jsonx.KindString, `""`}, got["bare"])
	})
}

func TestExtractEmpty(t *testing.T) {
	assert.Equal(t, 0, Extract(nil).Len())
	assert.Equal(t, 0, Extract(42.0).Len())
	assert.Equal(t, 0, Extract(jsonx.NewObject()).Len())
}

func TestExtractTopLevelArray(t *testing.T) {
	s := Extract(decode(t, `[{"name":"a"},"b"]`))
	assert.Equal(t, []string{"0.name", "1"}, s.Paths())
}

func TestSchemaJSON(t *testing.T) {
	s := Extract(decode(t, `{"b":1,"a":"x"}`))
	data, err := json.Marshal(s)
	require.NoError(t, err)
	assert.Equal(t,
		`{"b":{"path":"b","type":"number","originalValue":1},"a":{"path":"a","type":"string","originalValue":"x"}}`,
		string(data))
}
