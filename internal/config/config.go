// Package config loads server settings from YAML and validates them.
package config

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"reflect"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"gopkg.in/yaml.v3"
)

// Config is the root configuration.
type Config struct {
	Server    ServerConfig    `yaml:"server"`
	GraphQL   GraphQLConfig   `yaml:"graphql"`
	Log       LogConfig       `yaml:"log"`
	Metrics   MetricsConfig   `yaml:"metrics"`
	Telemetry TelemetryConfig `yaml:"otel"`
}

type ServerConfig struct {
	Addr         string        `yaml:"addr" validate:"required,hostname_port"`
	Path         string        `yaml:"path" validate:"required,startswith=/"`
	Timeout      time.Duration `yaml:"timeout" validate:"gte=0"`
	MaxBodyBytes int64         `yaml:"max_body_bytes" validate:"gte=0"`
	CORSOrigins  []string      `yaml:"cors_origins" validate:"dive,required"`
	Pretty       bool          `yaml:"pretty"`
}

type GraphQLConfig struct {
	GraphiQL      bool `yaml:"graphiql"`
	Introspection bool `yaml:"introspection"`
}

type LogConfig struct {
	Level  string `yaml:"level" validate:"oneof=trace debug info warn error"`
	Format string `yaml:"format" validate:"oneof=json console"`
}

type MetricsConfig struct {
	Enabled   bool   `yaml:"enabled"`
	Addr      string `yaml:"addr" validate:"required_if=Enabled true,omitempty,hostname_port"`
	Path      string `yaml:"path" validate:"required,startswith=/"`
	Namespace string `yaml:"namespace"`
}

type TelemetryConfig struct {
	Endpoint    string `yaml:"endpoint" validate:"omitempty,hostname_port"`
	ServiceName string `yaml:"service_name" validate:"required"`
	Insecure    bool   `yaml:"insecure"`
}

// Default returns the configuration used when no file is given.
func Default() Config {
	return Config{
		Server: ServerConfig{
			Addr:         ":5000",
			Path:         "/graphql",
			Timeout:      10 * time.Second,
			MaxBodyBytes: 1 << 20,
		},
		GraphQL: GraphQLConfig{
			GraphiQL:      true,
			Introspection: true,
		},
		Log: LogConfig{
			Level:  "info",
			Format: "json",
		},
		Metrics: MetricsConfig{
			Addr:      ":9090",
			Path:      "/metrics",
			Namespace: "bookgraph",
		},
		Telemetry: TelemetryConfig{
			ServiceName: "bookgraph",
			Insecure:    true,
		},
	}
}

// Load reads the YAML file at path on top of Default and validates the
// result. An empty path returns the defaults.
func Load(path string) (Config, error) {
	if path == "" {
		return Default(), nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return Config{}, fmt.Errorf("read config: %w", err)
	}
	cfg, err := Parse(data)
	if err != nil {
		return Config{}, fmt.Errorf("%s: %w", path, err)
	}
	return cfg, nil
}

// Parse decodes YAML on top of Default and validates the result. Unknown
// keys are rejected.
func Parse(data []byte) (Config, error) {
	cfg := Default()
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(&cfg); err != nil && !errors.Is(err, io.EOF) {
		return Config{}, fmt.Errorf("decode config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		name, _, _ := strings.Cut(f.Tag.Get("yaml"), ",")
		if name == "-" {
			return ""
		}
		return name
	})
	return v
}

// Validate reports every invalid setting, naming each by its YAML path.
func (c Config) Validate() error {
	err := validate.Struct(c)
	if err == nil {
		return nil
	}
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return fmt.Errorf("validate config: %w", err)
	}
	msgs := make([]string, 0, len(verrs))
	for _, fe := range verrs {
		field := strings.TrimPrefix(fe.Namespace(), "Config.")
		if fe.Param() != "" {
			msgs = append(msgs, fmt.Sprintf("%s: failed %s=%s (got %v)", field, fe.Tag(), fe.Param(), fe.Value()))
		} else {
			msgs = append(msgs, fmt.Sprintf("%s: failed %s (got %v)", field, fe.Tag(), fe.Value()))
		}
	}
	return fmt.Errorf("invalid config: %s", strings.Join(msgs, "; "))
}
