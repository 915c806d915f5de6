// Package config loads the run configuration of the generator.
package config

import (
	"errors"
	"fmt"
	"maps"
	"os"
	"slices"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"gopkg.in/yaml.v3"

	"github.com/example/curlgen/internal/batch"
	"github.com/example/curlgen/internal/client"
	"github.com/example/curlgen/internal/generator"
	"github.com/example/curlgen/internal/jsonx"
	"github.com/example/curlgen/internal/logger"
	"github.com/example/curlgen/internal/output"
)

// Errors returned by the config package.
var (
	// ErrInvalidConfig is returned when the configuration is invalid.
	ErrInvalidConfig = errors.New("config: invalid configuration")
	// ErrConfigNotFound is returned when the config file is not found.
	ErrConfigNotFound = errors.New("config: configuration file not found")
)

// Defaults for unset fields.
const (
	DefaultCount = 10
	MaxCount     = 100000
)

// DefaultMode selects the configuration of fields without an override.
type DefaultMode string

const (
	// DefaultsStatic reproduces each field's original value.
	DefaultsStatic DefaultMode = "static"
	// DefaultsRandom generates each field from its inferred category.
	DefaultsRandom DefaultMode = "random"
)

// Config is the root run configuration.
type Config struct {
	// Command is the curl command line.
	Command string `yaml:"command,omitempty" json:"command,omitempty"`

	// CommandFile names a file holding the command. "-" reads stdin.
	CommandFile string `yaml:"commandFile,omitempty" json:"commandFile,omitempty"`

	// Count is the number of entries to generate. Default: 10
	Count int `yaml:"count" json:"count" validate:"gte=1,lte=100000"`

	// Strategy is sequential or concurrent. Default: sequential
	Strategy string `yaml:"strategy" json:"strategy" validate:"oneof=sequential concurrent"`

	// Seed fixes the random stream. 0 picks a random seed.
	Seed uint64 `yaml:"seed,omitempty" json:"seed,omitempty"`

	// Defaults configures fields without an override. Default: static
	Defaults DefaultMode `yaml:"defaults" json:"defaults" validate:"oneof=static random"`

	// Fields holds per-path overrides.
	Fields map[string]generator.FieldConfig `yaml:"fields,omitempty" json:"fields,omitempty"`

	Replay  ReplayConfig  `yaml:"replay" json:"replay"`
	Output  OutputConfig  `yaml:"output" json:"output"`
	Log     logger.Config `yaml:"log" json:"log"`
	Metrics MetricsConfig `yaml:"metrics" json:"metrics"`
}

// ReplayConfig configures replaying of generated entries.
type ReplayConfig struct {
	Enabled bool `yaml:"enabled" json:"enabled"`

	// ExpectedStatus is the status counted as a match. Default: 200
	ExpectedStatus int `yaml:"expectedStatus" json:"expectedStatus" validate:"gte=100,lte=599"`

	// Concurrency caps in-flight calls of the concurrent strategy. Default: 10
	Concurrency int `yaml:"concurrency" json:"concurrency" validate:"gte=1,lte=1000"`

	// RateLimit is the replay rate in requests per second. 0 is unlimited.
	RateLimit float64 `yaml:"rateLimit,omitempty" json:"rateLimit,omitempty" validate:"gte=0"`

	// Burst is the limiter bucket size. Default: max(1, rateLimit)
	Burst int `yaml:"burst,omitempty" json:"burst,omitempty" validate:"gte=0"`

	// Timeout bounds one call. Default: 30s
	Timeout time.Duration `yaml:"timeout" json:"timeout" validate:"gt=0"`

	TLSSkipVerify bool `yaml:"tlsSkipVerify,omitempty" json:"tlsSkipVerify,omitempty"`

	// Capture maps names to JSONPath expressions evaluated on responses.
	Capture map[string]string `yaml:"capture,omitempty" json:"capture,omitempty" validate:"dive,keys,required,endkeys,required"`
}

// OutputConfig configures where results go.
type OutputConfig struct {
	// Format is json or csv. Default: json
	Format string `yaml:"format" json:"format" validate:"oneof=json csv"`

	// File receives the entries. Empty writes to stdout.
	File string `yaml:"file,omitempty" json:"file,omitempty"`

	// OutcomesFile receives the replay outcomes as JSON.
	OutcomesFile string `yaml:"outcomesFile,omitempty" json:"outcomesFile,omitempty"`
}

// MetricsConfig configures the Prometheus endpoint.
type MetricsConfig struct {
	// Listen is the address serving /metrics during the run, e.g. ":9090".
	Listen string `yaml:"listen,omitempty" json:"listen,omitempty"`
}

// Default returns a configuration with every default applied.
func Default() *Config {
	cfg := &Config{}
	cfg.ApplyDefaults()
	return cfg
}

// LoadFromFile loads configuration from a YAML file.
func LoadFromFile(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("%w: %s", ErrConfigNotFound, path)
		}
		return nil, fmt.Errorf("reading config file: %w", err)
	}

	return LoadFromBytes(data)
}

// LoadFromBytes loads configuration from YAML bytes.
func LoadFromBytes(data []byte) (*Config, error) {
	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("%w: parsing config: %w", ErrInvalidConfig, err)
	}

	cfg.ApplyDefaults()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// ApplyDefaults applies default values to unset fields.
func (c *Config) ApplyDefaults() {
	if c.Count == 0 {
		c.Count = DefaultCount
	}
	if c.Strategy == "" {
		c.Strategy = string(batch.Sequential)
	}
	if c.Defaults == "" {
		c.Defaults = DefaultsStatic
	}
	if c.Replay.ExpectedStatus == 0 {
		c.Replay.ExpectedStatus = batch.DefaultExpectedStatus
	}
	if c.Replay.Concurrency == 0 {
		c.Replay.Concurrency = batch.DefaultConcurrency
	}
	if c.Replay.Timeout == 0 {
		c.Replay.Timeout = client.DefaultTimeout
	}
	if c.Output.Format == "" {
		c.Output.Format = string(output.FormatJSON)
	}

	def := logger.DefaultConfig()
	if c.Log.Level == "" {
		c.Log.Level = def.Level
	}
	if c.Log.Format == "" {
		c.Log.Format = def.Format
	}
	if c.Log.Output == "" {
		c.Log.Output = def.Output
	}
}

var validate = validator.New()

// Validate checks field bounds and cross-field rules.
func (c *Config) Validate() error {
	if err := validate.Struct(c); err != nil {
		return fmt.Errorf("%w: %s", ErrInvalidConfig, describe(err))
	}

	if c.Command != "" && c.CommandFile != "" {
		return fmt.Errorf("%w: command and commandFile are mutually exclusive", ErrInvalidConfig)
	}

	if _, err := logger.ParseLevel(c.Log.Level); err != nil {
		return fmt.Errorf("%w: log.level: %w", ErrInvalidConfig, err)
	}
	switch strings.ToLower(c.Log.Format) {
	case logger.FormatAuto, logger.FormatJSON, logger.FormatConsole:
	default:
		return fmt.Errorf("%w: log.format %q is not auto, json or console", ErrInvalidConfig, c.Log.Format)
	}

	for _, path := range slices.Sorted(maps.Keys(c.Fields)) {
		f := c.Fields[path]
		if path == "" {
			return fmt.Errorf("%w: fields: empty path", ErrInvalidConfig)
		}
		if !f.Category.IsKnown() {
			return fmt.Errorf("%w: fields.%s: unknown category %q", ErrInvalidConfig, path, f.Category)
		}
		if f.Kind != "" && jsonx.ParseKind(string(f.Kind)) != f.Kind {
			return fmt.Errorf("%w: fields.%s: unknown type %q", ErrInvalidConfig, path, f.Kind)
		}
		if f.Static && f.Value == nil {
			return fmt.Errorf("%w: fields.%s: static field needs a value", ErrInvalidConfig, path)
		}
	}
	return nil
}

// describe flattens validator errors into "field failed rule" pairs.
func describe(err error) string {
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return err.Error()
	}
	parts := make([]string, len(verrs))
	for i, fe := range verrs {
		parts[i] = fmt.Sprintf("%s failed %s", strings.TrimPrefix(fe.Namespace(), "Config."), fe.Tag())
	}
	return strings.Join(parts, "; ")
}

// CaptureExprs returns the capture expressions ordered by name.
func (c *Config) CaptureExprs() *jsonx.Map[string] {
	if len(c.Replay.Capture) == 0 {
		return nil
	}
	out := jsonx.NewMap[string]()
	for _, name := range slices.Sorted(maps.Keys(c.Replay.Capture)) {
		out.Set(name, c.Replay.Capture[name])
	}
	return out
}

// BatchOptions converts the configuration into batch options.
func (c *Config) BatchOptions(configs generator.FieldConfigs) batch.Options {
	return batch.Options{
		Count:    c.Count,
		Strategy: batch.Strategy(c.Strategy),
		Configs:  configs,
		Replay: batch.Replay{
			Enabled:        c.Replay.Enabled,
			ExpectedStatus: c.Replay.ExpectedStatus,
			Concurrency:    c.Replay.Concurrency,
			Capture:        c.CaptureExprs(),
		},
	}
}

// ClientConfig returns the configuration of the replay client.
func (c *Config) ClientConfig() client.Config {
	return client.Config{
		Timeout:       c.Replay.Timeout,
		TLSSkipVerify: c.Replay.TLSSkipVerify,
	}
}
