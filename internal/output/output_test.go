package output

import (
	"bytes"
	"encoding/csv"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/example/curlgen/internal/jsonx"
)

func entries() []*jsonx.Object {
	return []*jsonx.Object{
		jsonx.ObjectOf("name", "Ann, Jr.", "age", 30, "tags", []any{"a", `b"c`}, "active", true),
		jsonx.ObjectOf("name", "Bob", "age", 41.5, "meta", jsonx.ObjectOf("k", 1), "active", nil),
	}
}

func TestParseFormat(t *testing.T) {
	tests := []struct {
		in      string
		want    Format
		wantErr bool
	}{
		{"json", FormatJSON, false},
		{" CSV ", FormatCSV, false},
		{"xml", "", true},
		{"", "", true},
	}
	for _, tt := range tests {
		got, err := ParseFormat(tt.in)
		if tt.wantErr {
			assert.ErrorIs(t, err, ErrUnknownFormat, tt.in)
			continue
		}
		require.NoError(t, err)
		assert.Equal(t, tt.want, got)
	}
}

func TestWriteJSON(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, WriteJSON(&buf, []*jsonx.Object{jsonx.ObjectOf("b", 1, "a", []any{true})}))
	assert.Equal(t, "[\n  {\n    \"b\": 1,\n    \"a\": [\n      true\n    ]\n  }\n]\n", buf.String())

	buf.Reset()
	require.NoError(t, WriteJSON(&buf, []*jsonx.Object(nil)))
	assert.Equal(t, "[]\n", buf.String())
}

func TestWriteCSV(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, WriteCSV(&buf, entries()))

	records, err := csv.NewReader(&buf).ReadAll()
	require.NoError(t, err)
	assert.Equal(t, [][]string{
		{"name", "age", "tags", "active"},
		{"Ann, Jr.", "30", `["a","b\"c"]`, "true"},
		{"Bob", "41.5", "", ""},
	}, records)
}

func TestWriteCSVQuotesContainers(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, WriteCSV(&buf, entries()[:1]))
	assert.Contains(t, buf.String(), `"[""a"",""b\""c""]"`)
}

func TestWriteCSVEmpty(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, WriteCSV(&buf, nil))
	assert.Empty(t, buf.String())
}

func TestWriteDispatch(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, Write(&buf, FormatCSV, entries()))
	assert.Contains(t, buf.String(), "name,age,tags,active\n")

	buf.Reset()
	require.NoError(t, Write(&buf, FormatJSON, entries()[1:]))
	assert.Contains(t, buf.String(), `"meta": {`)

	assert.ErrorIs(t, Write(&buf, Format("yaml"), nil), ErrUnknownFormat)
}
