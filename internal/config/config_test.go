package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/example/curlgen/internal/batch"
	"github.com/example/curlgen/internal/generator"
	"github.com/example/curlgen/internal/inference"
	"github.com/example/curlgen/internal/jsonx"
	"github.com/example/curlgen/internal/schema"
)

func TestDefault(t *testing.T) {
	cfg := Default()

	assert.Equal(t, DefaultCount, cfg.Count)
	assert.Equal(t, "sequential", cfg.Strategy)
	assert.Equal(t, DefaultsStatic, cfg.Defaults)
	assert.Equal(t, 200, cfg.Replay.ExpectedStatus)
	assert.Equal(t, 10, cfg.Replay.Concurrency)
	assert.Equal(t, 30*time.Second, cfg.Replay.Timeout)
	assert.Equal(t, "json", cfg.Output.Format)
	assert.Equal(t, "info", cfg.Log.Level)
	assert.Equal(t, "stderr", cfg.Log.Output)
	assert.NoError(t, cfg.Validate())
}

func TestLoadFromBytes(t *testing.T) {
	data := []byte(`
command: curl -X POST https://api.example.com/tasks -d '{"title":"x"}'
count: 25
strategy: concurrent
seed: 42
defaults: random
fields:
  title:
    static: true
    value: Fixed
  owner.email:
    category: email
replay:
  enabled: true
  expectedStatus: 201
  concurrency: 4
  rateLimit: 5
  timeout: 5s
  capture:
    id: $.data.id
output:
  format: csv
log:
  level: debug
  format: console
metrics:
  listen: ":9090"
`)
	cfg, err := LoadFromBytes(data)
	require.NoError(t, err)

	assert.Equal(t, 25, cfg.Count)
	assert.Equal(t, "concurrent", cfg.Strategy)
	assert.Equal(t, uint64(42), cfg.Seed)
	assert.Equal(t, DefaultsRandom, cfg.Defaults)
	require.Contains(t, cfg.Fields, "title")
	assert.True(t, cfg.Fields["title"].Static)
	assert.Equal(t, "Fixed", *cfg.Fields["title"].Value)
	assert.Equal(t, inference.CategoryEmail, cfg.Fields["owner.email"].Category)
	assert.True(t, cfg.Replay.Enabled)
	assert.Equal(t, 201, cfg.Replay.ExpectedStatus)
	assert.Equal(t, 4, cfg.Replay.Concurrency)
	assert.Equal(t, 5.0, cfg.Replay.RateLimit)
	assert.Equal(t, 5*time.Second, cfg.Replay.Timeout)
	assert.Equal(t, "csv", cfg.Output.Format)
	assert.Equal(t, "console", cfg.Log.Format)
	assert.Equal(t, ":9090", cfg.Metrics.Listen)
}

func TestLoadFromBytesInvalid(t *testing.T) {
	tests := []struct {
		name string
		yaml string
		want string
	}{
		{"malformed", "count: [", "parsing config"},
		{"count too large", "count: 100001", "Count failed lte"},
		{"negative count", "count: -1", "Count failed gte"},
		{"strategy", "strategy: parallel", "Strategy failed oneof"},
		{"defaults", "defaults: mixed", "Defaults failed oneof"},
		{"status", "replay:\n  expectedStatus: 42", "ExpectedStatus failed gte"},
		{"rate", "replay:\n  rateLimit: -1", "RateLimit failed gte"},
		{"format", "output:\n  format: xml", "Format failed oneof"},
		{"capture", "replay:\n  capture:\n    id: ''", "required"},
		{"both commands", "command: curl x\ncommandFile: cmd.txt", "mutually exclusive"},
		{"log level", "log:\n  level: loud", "log.level"},
		{"log format", "log:\n  format: xml", "log.format"},
		{"category", "fields:\n  a:\n    category: planet", `unknown category "planet"`},
		{"kind", "fields:\n  a:\n    type: tuple", `unknown type "tuple"`},
		{"static without value", "fields:\n  a:\n    static: true", "static field needs a value"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := LoadFromBytes([]byte(tt.yaml))
			require.ErrorIs(t, err, ErrInvalidConfig)
			assert.Contains(t, err.Error(), tt.want)
		})
	}
}

func TestLoadFromFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "curlgen.yaml")
	require.NoError(t, os.WriteFile(path, []byte("count: 3\n"), 0o600))

	cfg, err := LoadFromFile(path)
	require.NoError(t, err)
	assert.Equal(t, 3, cfg.Count)

	_, err = LoadFromFile(filepath.Join(dir, "missing.yaml"))
	assert.ErrorIs(t, err, ErrConfigNotFound)
}

func TestReadCommand(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "cmd.sh")
	require.NoError(t, os.WriteFile(path, []byte("curl https://x.test \\\n  -H 'A: b'\n"), 0o600))

	cfg := Default()
	cfg.CommandFile = path
	got, err := cfg.ReadCommand(nil)
	require.NoError(t, err)
	assert.Equal(t, "curl https://x.test    -H 'A: b'", got)

	cfg.CommandFile = "-"
	got, err = cfg.ReadCommand(strings.NewReader("curl https://stdin.test\n"))
	require.NoError(t, err)
	assert.Equal(t, "curl https://stdin.test", got)

	cfg = Default()
	cfg.Command = "curl https://inline.test"
	got, err = cfg.ReadCommand(nil)
	require.NoError(t, err)
	assert.Equal(t, "curl https://inline.test", got)

	_, err = Default().ReadCommand(nil)
	assert.ErrorIs(t, err, ErrInvalidConfig)

	cfg = Default()
	cfg.CommandFile = "-"
	_, err = cfg.ReadCommand(strings.NewReader("  \n"))
	assert.ErrorIs(t, err, ErrInvalidConfig)
}

func testSchema(t *testing.T) *schema.Schema {
	t.Helper()
	body, err := jsonx.DecodeString(`{"title":"Write report","quantity":3,"owner":{"email":"a@b.co"},"tags":["x"]}`)
	require.NoError(t, err)
	return schema.Extract(body)
}

func TestDefaultFieldConfigsStatic(t *testing.T) {
	configs := DefaultFieldConfigs(testSchema(t), DefaultsStatic)

	assert.NotContains(t, configs, "owner")
	require.Contains(t, configs, "title")
	assert.True(t, configs["title"].Static)
	assert.Equal(t, "Write report", *configs["title"].Value)
	assert.Equal(t, "title", configs["title"].FieldName)

	require.Contains(t, configs, "quantity")
	assert.Equal(t, jsonx.KindNumber, configs["quantity"].Kind)
	assert.Equal(t, "3", *configs["quantity"].Value)

	require.Contains(t, configs, "owner.email")
	assert.Equal(t, "a@b.co", *configs["owner.email"].Value)
}

func TestDefaultFieldConfigsRandom(t *testing.T) {
	configs := DefaultFieldConfigs(testSchema(t), DefaultsRandom)

	for path, cfg := range configs {
		assert.False(t, cfg.Static, path)
		assert.Nil(t, cfg.Value, path)
		assert.Equal(t, inference.CategoryAuto, cfg.Category, path)
		assert.Equal(t, path, cfg.FieldName)
	}
	assert.NotContains(t, configs, "owner")
}

func TestApplyOverrides(t *testing.T) {
	base := generator.FieldConfigs{
		"quantity": generator.StaticConfig("quantity", jsonx.KindNumber, "3"),
		"title":    generator.StaticConfig("title", jsonx.KindString, "x"),
	}
	v := "9"
	got := ApplyOverrides(base, map[string]generator.FieldConfig{
		"quantity": {Static: true, Value: &v},
		"extra":    {Category: inference.CategoryColor},
	})

	assert.Equal(t, jsonx.KindNumber, got["quantity"].Kind)
	assert.Equal(t, "9", *got["quantity"].Value)
	assert.Equal(t, "quantity", got["quantity"].FieldName)
	assert.Equal(t, "x", *got["title"].Value)
	assert.Equal(t, jsonx.KindString, got["extra"].Kind)
	assert.Equal(t, "extra", got["extra"].FieldName)

	assert.Equal(t, "3", *base["quantity"].Value, "base is not modified")
}

func TestSetStaticAndCategory(t *testing.T) {
	cfg := Default()
	cfg.SetStatic("title", "Fixed")
	cfg.SetCategory("owner.email", inference.CategoryEmail)
	cfg.SetCategory("title", inference.CategoryColor)
	require.NoError(t, cfg.Validate())

	configs := cfg.FieldConfigs(testSchema(t))
	assert.False(t, configs["title"].Static)
	assert.Nil(t, configs["title"].Value)
	assert.Equal(t, inference.CategoryColor, configs["title"].Category)
	assert.Equal(t, inference.CategoryEmail, configs["owner.email"].Category)
	assert.True(t, configs["quantity"].Static)
}

func TestBatchOptions(t *testing.T) {
	cfg := Default()
	cfg.Count = 7
	cfg.Strategy = "concurrent"
	cfg.Replay.Enabled = true
	cfg.Replay.Capture = map[string]string{"z": "$.z", "a": "$.a"}

	opts := cfg.BatchOptions(nil)
	assert.Equal(t, 7, opts.Count)
	assert.Equal(t, batch.Concurrent, opts.Strategy)
	assert.True(t, opts.Replay.Enabled)
	assert.Equal(t, []string{"a", "z"}, opts.Replay.Capture.Keys())

	cc := cfg.ClientConfig()
	assert.Equal(t, 30*time.Second, cc.Timeout)

	assert.Nil(t, Default().CaptureExprs())
}
