package parser

import (
	"encoding/json"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/example/curlgen/internal/jsonx"
)

func toJSON(t *testing.T, v any) string {
	t.Helper()
	data, err := json.Marshal(v)
	require.NoError(t, err)
	return string(data)
}

func TestTokenize(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  []string
	}{
		{
			name:  "quoted data stays one token",
			input: `curl -X POST 'https://x.io/a' -d '{"a": "b c"}'`,
			want:  []string{"-X", "POST", "https://x.io/a", "-d", `{"a": "b c"}`},
		},
		{
			name:  "line continuations",
			input: "curl https://x.io \\\n    -H 'A: b' \\\n  -L",
			want:  []string{"https://x.io", "-H", "A: b", "-L"},
		},
		{
			name:  "escaped quote",
			input: `curl "a\"b"`,
			want:  []string{`a"b`},
		},
		{
			name:  "other quote kind is literal",
			input: `curl 'say "hi"'`,
			want:  []string{`say "hi"`},
		},
		{
			name:  "empty quoted argument",
			input: `curl -H '' https://x.io`,
			want:  []string{"-H", "", "https://x.io"},
		},
		{
			name:  "tabs and newlines separate",
			input: "curl\thttps://x.io\n-L",
			want:  []string{"https://x.io", "-L"},
		},
		{
			name:  "empty",
			input: "   ",
			want:  nil,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Tokenize(tt.input))
		})
	}
}

func TestParseMethod(t *testing.T) {
	tests := []struct {
		name    string
		command string
		want    string
	}{
		{"default GET", `curl https://api.example.com/users`, "GET"},
		{"data implies POST", `curl https://api.example.com/users -d '{"a":1}'`, "POST"},
		{"data before URL implies POST", `curl -d 'a=1' https://api.example.com/users`, "POST"},
		{"explicit method wins", `curl -d '{"a":1}' -X PUT https://api.example.com/users/1`, "PUT"},
		{"explicit method keeps case", `curl --request patch https://api.example.com/users/1`, "patch"},
		{"override header", `curl -H 'X-HTTP-Method-Override: PATCH' https://api.example.com/users/1`, "PATCH"},
		{"override header any case", `curl -H 'x-method-override: DELETE' https://api.example.com/users/1`, "DELETE"},
		{"data beats override header", `curl -H 'X-HTTP-Method-Override: PATCH' -d 'a=1' https://api.example.com`, "POST"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req, err := Parse(tt.command)
			require.NoError(t, err)
			assert.Equal(t, tt.want, req.Method)
		})
	}
}

func TestParseHeaders(t *testing.T) {
	req, err := Parse(`curl https://api.example.com \
		-H 'B-Header: 1' \
		--header "A-Header:   two  " \
		-H 'no-colon' \
		-H ':empty-name' \
		-u user:pass`)
	require.NoError(t, err)

	assert.Equal(t, []string{"B-Header", "A-Header", "Authorization"}, req.Headers.Keys())
	v, _ := req.Headers.Get("A-Header")
	assert.Equal(t, "two", v)
	auth, _ := req.Header("authorization")
	assert.Equal(t, "Basic dXNlcjpwYXNz", auth)
}

func TestParseBearer(t *testing.T) {
	req, err := Parse(`curl -B tok123 https://api.example.com`)
	require.NoError(t, err)

	auth, ok := req.Header("Authorization")
	require.True(t, ok)
	assert.Equal(t, "Bearer tok123", auth)
}

func TestParseURL(t *testing.T) {
	req, err := Parse(`curl -L --compressed -k https://first.example.com http://second.example.com/x?y=1`)
	require.NoError(t, err)
	assert.Equal(t, "http://second.example.com/x?y=1", req.URL)
	assert.Nil(t, req.Body)
}

func TestParseMissingURL(t *testing.T) {
	req, err := Parse(`curl -X POST -d '{"a":1}'`)
	require.Error(t, err)

	assert.True(t, errors.Is(err, ErrMissingURL))
	var perr *ParseError
	require.True(t, errors.As(err, &perr))

	require.NotNil(t, req)
	assert.True(t, req.Failed())
	assert.Equal(t, err.Error(), req.ParseError)
	assert.Equal(t, "POST", req.Method)
}

func TestParseBody(t *testing.T) {
	t.Run("json body is repaired", func(t *testing.T) {
		req, err := Parse(`curl https://api.example.com -d '{"validateEmail":"user@x.com","count":"3"}'`)
		require.NoError(t, err)
		assert.Equal(t, `{"validateEmail":true,"count":3}`, toJSON(t, req.Body))
	})

	t.Run("form body stays raw", func(t *testing.T) {
		req, err := Parse(`curl https://api.example.com --data-raw 'a=1&b=two'`)
		require.NoError(t, err)
		assert.Equal(t, "a=1&b=two", req.Body)
	})

	t.Run("last data flag wins", func(t *testing.T) {
		req, err := Parse(`curl https://api.example.com -d '{"a":1}' --data-binary '{"b":2}'`)
		require.NoError(t, err)
		assert.Equal(t, `{"b":2}`, toJSON(t, req.Body))
	})

	t.Run("escaped outer quotes are stripped", func(t *testing.T) {
		req, err := Parse(`curl https://api.example.com -d \'{\"a\":1}\'`)
		require.NoError(t, err)
		assert.Equal(t, `{"a":1}`, toJSON(t, req.Body))
	})
}

func TestStripQuotes(t *testing.T) {
	assert.Equal(t, "x", stripQuotes(`'"x"'`))
	assert.Equal(t, "x", stripQuotes(`'x`))
	assert.Equal(t, "x", stripQuotes(`"x'"`))
	assert.Equal(t, "", stripQuotes(`''`))
}

func TestRequestJSON(t *testing.T) {
	req, _ := Parse(`curl -H 'A: 1' https://api.example.com`)
	assert.Equal(t,
		`{"method":"GET","url":"https://api.example.com","headers":{"A":"1"},"body":null}`,
		toJSON(t, req))
}

func TestIsQueryMethod(t *testing.T) {
	assert.True(t, (&Request{Method: "get"}).IsQueryMethod())
	assert.True(t, (&Request{Method: "HEAD"}).IsQueryMethod())
	assert.False(t, (&Request{Method: "POST"}).IsQueryMethod())
}

func decode(t *testing.T, s string) any {
	t.Helper()
	v, err := jsonx.DecodeString(s)
	require.NoError(t, err)
	return v
}

func fixedIDs() Option {
	return WithIDSource(func() string { return "0123456789abcdef0123456789abcdef" })
}
